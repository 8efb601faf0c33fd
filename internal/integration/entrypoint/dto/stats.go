package dto

import (
	"time"

	"github.com/driverlog/backend/internal/application/usecase/goal"
	"github.com/driverlog/backend/internal/domain/entity"
)

// StatusTypeCountResponse is one (status, type) bucket in the stats view.
type StatusTypeCountResponse struct {
	Status string `json:"status"`
	Type   string `json:"type"`
	Count  int64  `json:"count"`
}

// StatusAverageResponse is the average completion percentage for one status.
type StatusAverageResponse struct {
	Status         string  `json:"status"`
	AveragePercent float64 `json:"average_percent"`
}

// GoalSummaryResponse is a compact goal view used in the stats lists.
type GoalSummaryResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Type            string     `json:"type"`
	Period          string     `json:"period"`
	PercentComplete int        `json:"percent_complete"`
	Status          string     `json:"status"`
	EndDate         time.Time  `json:"end_date"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// GoalStatsResponse represents the response for the goal statistics view.
type GoalStatsResponse struct {
	Counts            []StatusTypeCountResponse `json:"counts"`
	Averages          []StatusAverageResponse   `json:"averages"`
	ExpiringSoon      []GoalSummaryResponse     `json:"expiring_soon"`
	RecentlyCompleted []GoalSummaryResponse     `json:"recently_completed"`
	GeneratedAt       time.Time                 `json:"generated_at"`
}

// ToGoalStatsResponse converts a GoalStatsOutput to GoalStatsResponse.
func ToGoalStatsResponse(output *goal.GoalStatsOutput) GoalStatsResponse {
	counts := make([]StatusTypeCountResponse, len(output.Counts))
	for i, c := range output.Counts {
		counts[i] = StatusTypeCountResponse{
			Status: string(c.Status),
			Type:   string(c.Type),
			Count:  c.Count,
		}
	}

	averages := make([]StatusAverageResponse, len(output.Averages))
	for i, a := range output.Averages {
		averages[i] = StatusAverageResponse{
			Status:         string(a.Status),
			AveragePercent: a.AveragePercent,
		}
	}

	return GoalStatsResponse{
		Counts:            counts,
		Averages:          averages,
		ExpiringSoon:      toGoalSummaries(output.ExpiringSoon),
		RecentlyCompleted: toGoalSummaries(output.RecentlyCompleted),
		GeneratedAt:       output.GeneratedAt,
	}
}

func toGoalSummaries(goals []*entity.Goal) []GoalSummaryResponse {
	summaries := make([]GoalSummaryResponse, len(goals))
	for i, g := range goals {
		summaries[i] = GoalSummaryResponse{
			ID:              g.ID.String(),
			Title:           g.Title,
			Type:            string(g.Type),
			Period:          string(g.Period),
			PercentComplete: g.PercentComplete,
			Status:          string(g.Status),
			EndDate:         g.EndDate,
			CompletedAt:     g.CompletedAt,
		}
	}
	return summaries
}
