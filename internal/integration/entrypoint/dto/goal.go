package dto

import (
	"time"

	"github.com/driverlog/backend/internal/application/usecase/goal"
	"github.com/driverlog/backend/internal/domain/entity"
)

// CreateGoalRequest represents the request body for goal creation.
type CreateGoalRequest struct {
	VehicleID   *string   `json:"vehicle_id,omitempty" binding:"omitempty,uuid"`
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Type        string    `json:"type" binding:"required,oneof=revenue distance trip_count savings profit"`
	Period      string    `json:"period" binding:"required,oneof=weekly monthly quarterly yearly"`
	TargetValue int64     `json:"target_value" binding:"required,gt=0"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
}

// UpdateGoalRequest represents the request body for goal update. Absent fields
// are left unchanged.
type UpdateGoalRequest struct {
	VehicleID     *string    `json:"vehicle_id,omitempty" binding:"omitempty,uuid"`
	RemoveVehicle bool       `json:"remove_vehicle,omitempty"`
	Title         *string    `json:"title,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Type          *string    `json:"type,omitempty" binding:"omitempty,oneof=revenue distance trip_count savings profit"`
	Period        *string    `json:"period,omitempty" binding:"omitempty,oneof=weekly monthly quarterly yearly"`
	TargetValue   *int64     `json:"target_value,omitempty" binding:"omitempty,gt=0"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	Status        *string    `json:"status,omitempty" binding:"omitempty,oneof=active paused"`
}

// GoalResponse represents a single goal in API responses.
type GoalResponse struct {
	ID               string     `json:"id"`
	OwnerID          string     `json:"owner_id"`
	VehicleID        *string    `json:"vehicle_id,omitempty"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Type             string     `json:"type"`
	Period           string     `json:"period"`
	TargetValue      int64      `json:"target_value"`
	CurrentValue     int64      `json:"current_value"`
	PercentComplete  int        `json:"percent_complete"`
	Status           string     `json:"status"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          time.Time  `json:"end_date"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	FormattedTarget  string     `json:"formatted_target"`
	FormattedCurrent string     `json:"formatted_current"`
	DaysRemaining    int        `json:"days_remaining"`
	ElapsedPercent   int        `json:"elapsed_percent"`
	Refreshed        bool       `json:"refreshed"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// GoalListResponse represents the response for listing goals.
type GoalListResponse struct {
	Goals      []GoalResponse     `json:"goals"`
	Pagination PaginationResponse `json:"pagination"`
}

// ProgressEventResponse represents one progress history entry.
type ProgressEventResponse struct {
	ID              string    `json:"id"`
	GoalID          string    `json:"goal_id"`
	PreviousValue   int64     `json:"previous_value"`
	NewValue        int64     `json:"new_value"`
	Delta           int64     `json:"delta"`
	PreviousPercent int       `json:"previous_percent"`
	NewPercent      int       `json:"new_percent"`
	RecordedAt      time.Time `json:"recorded_at"`
}

// GoalProgressResponse represents the response for a goal's progress history.
type GoalProgressResponse struct {
	Goal   GoalResponse            `json:"goal"`
	Events []ProgressEventResponse `json:"events"`
}

// ToGoalResponse converts a GoalOutput to a GoalResponse DTO.
func ToGoalResponse(output *goal.GoalOutput) GoalResponse {
	g := output.Goal
	response := GoalResponse{
		ID:               g.ID.String(),
		OwnerID:          g.OwnerID.String(),
		Title:            g.Title,
		Description:      g.Description,
		Type:             string(g.Type),
		Period:           string(g.Period),
		TargetValue:      g.TargetValue,
		CurrentValue:     g.CurrentValue,
		PercentComplete:  g.PercentComplete,
		Status:           string(g.Status),
		StartDate:        g.StartDate,
		EndDate:          g.EndDate,
		CompletedAt:      g.CompletedAt,
		FormattedTarget:  output.FormattedTarget,
		FormattedCurrent: output.FormattedCurrent,
		DaysRemaining:    output.DaysRemaining,
		ElapsedPercent:   output.ElapsedPercent,
		Refreshed:        output.Refreshed,
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
	}

	if g.VehicleID != nil {
		idStr := g.VehicleID.String()
		response.VehicleID = &idStr
	}

	return response
}

// ToGoalListResponse converts a ListGoalsOutput to GoalListResponse.
func ToGoalListResponse(output *goal.ListGoalsOutput) GoalListResponse {
	goals := make([]GoalResponse, len(output.Goals))
	for i, g := range output.Goals {
		goals[i] = ToGoalResponse(g)
	}
	return GoalListResponse{
		Goals: goals,
		Pagination: PaginationResponse{
			Page:       output.Pagination.Page,
			Limit:      output.Pagination.Limit,
			Total:      output.Pagination.Total,
			TotalPages: output.Pagination.TotalPages,
		},
	}
}

// ToProgressEventResponse converts a domain ProgressEvent to its DTO.
func ToProgressEventResponse(e *entity.ProgressEvent) ProgressEventResponse {
	return ProgressEventResponse{
		ID:              e.ID.String(),
		GoalID:          e.GoalID.String(),
		PreviousValue:   e.PreviousValue,
		NewValue:        e.NewValue,
		Delta:           e.Delta,
		PreviousPercent: e.PreviousPercent,
		NewPercent:      e.NewPercent,
		RecordedAt:      e.RecordedAt,
	}
}

// ToGoalProgressResponse converts a GetGoalOutput to GoalProgressResponse.
func ToGoalProgressResponse(output *goal.GetGoalOutput) GoalProgressResponse {
	events := make([]ProgressEventResponse, len(output.Events))
	for i, e := range output.Events {
		events[i] = ToProgressEventResponse(e)
	}
	return GoalProgressResponse{
		Goal:   ToGoalResponse(output.Goal),
		Events: events,
	}
}
