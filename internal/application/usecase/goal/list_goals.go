package goal

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/driverlog/backend/internal/application/adapter"
	"github.com/driverlog/backend/internal/domain/entity"
	domainerror "github.com/driverlog/backend/internal/domain/error"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ListGoalsInput represents the input for listing goals.
type ListGoalsInput struct {
	OwnerID   uuid.UUID
	VehicleID *uuid.UUID
	Type      *entity.GoalType
	Status    *entity.GoalStatus
	Period    *entity.GoalPeriod
	SortBy    adapter.GoalSortField
	SortDesc  bool
	Page      int
	Limit     int
}

// PaginationOutput represents pagination information in the output.
type PaginationOutput struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// ListGoalsOutput represents the output of listing goals.
type ListGoalsOutput struct {
	Goals      []*GoalOutput
	Pagination PaginationOutput
}

// ListGoalsUseCase handles listing goals. Reading a page recomputes its Active
// goals first, then re-fetches so status flips are reflected in the response.
type ListGoalsUseCase struct {
	goalRepo adapter.GoalRepository
	engine   *ProgressEngine
	clock    adapter.Clock
}

// NewListGoalsUseCase creates a new ListGoalsUseCase instance.
func NewListGoalsUseCase(goalRepo adapter.GoalRepository, engine *ProgressEngine, clock adapter.Clock) *ListGoalsUseCase {
	return &ListGoalsUseCase{
		goalRepo: goalRepo,
		engine:   engine,
		clock:    clock,
	}
}

// Execute performs the goal listing. A goal whose recomputation failed still
// renders with its last persisted value; the list never fails as a whole
// because one aggregate did.
func (uc *ListGoalsUseCase) Execute(ctx context.Context, input ListGoalsInput) (*ListGoalsOutput, error) {
	if err := validateListFilters(input); err != nil {
		return nil, err
	}

	filters := adapter.GoalFilters{
		VehicleID: input.VehicleID,
		Type:      input.Type,
		Status:    input.Status,
		Period:    input.Period,
	}
	sort := adapter.GoalSort{Field: input.SortBy, Descending: input.SortDesc}
	page := normalizePage(input.Page, input.Limit)

	goals, total, err := uc.goalRepo.FindByOwner(ctx, input.OwnerID, filters, sort, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	results := uc.engine.RecomputeBatch(ctx, goals)
	refreshed := make(map[uuid.UUID]bool, len(results))
	for _, r := range results {
		refreshed[r.Goal.ID] = r.Refreshed
	}

	// Re-fetch so goals that just completed or expired appear (or disappear)
	// under the requested status filter.
	goals, total, err = uc.goalRepo.FindByOwner(ctx, input.OwnerID, filters, sort, page)
	if err != nil {
		return nil, fmt.Errorf("failed to re-fetch goals: %w", err)
	}

	now := uc.clock.Now()
	output := &ListGoalsOutput{
		Goals:      make([]*GoalOutput, 0, len(goals)),
		Pagination: newPagination(page, total),
	}
	for _, g := range goals {
		output.Goals = append(output.Goals, newGoalOutput(g, refreshed[g.ID], now))
	}

	return output, nil
}

func validateListFilters(input ListGoalsInput) error {
	if input.Type != nil && !entity.IsValidGoalType(*input.Type) {
		return domainerror.NewGoalValidationError(
			domainerror.ErrCodeInvalidGoalType,
			"type",
			"unknown goal type filter",
			domainerror.ErrInvalidGoalType,
		)
	}
	if input.Status != nil && !entity.IsValidGoalStatus(*input.Status) {
		return domainerror.NewGoalValidationError(
			domainerror.ErrCodeInvalidGoalStatus,
			"status",
			"unknown goal status filter",
			domainerror.ErrInvalidGoalStatus,
		)
	}
	if input.Period != nil && !entity.IsValidGoalPeriod(*input.Period) {
		return domainerror.NewGoalValidationError(
			domainerror.ErrCodeInvalidGoalPeriod,
			"period",
			"unknown goal period filter",
			domainerror.ErrInvalidGoalPeriod,
		)
	}
	return nil
}

func normalizePage(page, limit int) adapter.GoalPage {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return adapter.GoalPage{Page: page, Limit: limit}
}

func newPagination(page adapter.GoalPage, total int64) PaginationOutput {
	totalPages := int((total + int64(page.Limit) - 1) / int64(page.Limit))
	return PaginationOutput{
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
