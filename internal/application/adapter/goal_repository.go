// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/driverlog/backend/internal/domain/entity"
)

// GoalSortField names a column goals may be sorted by. The persistence layer
// whitelists these; anything else falls back to the default ordering.
type GoalSortField string

const (
	GoalSortStartDate   GoalSortField = "start_date"
	GoalSortEndDate     GoalSortField = "end_date"
	GoalSortPercent     GoalSortField = "percent_complete"
	GoalSortTargetValue GoalSortField = "target_value"
)

// GoalFilters narrows a goal listing. Nil fields are ignored.
type GoalFilters struct {
	VehicleID *uuid.UUID
	Type      *entity.GoalType
	Status    *entity.GoalStatus
	Period    *entity.GoalPeriod
}

// GoalSort describes the requested listing order.
type GoalSort struct {
	Field      GoalSortField
	Descending bool
}

// GoalPage describes the requested listing page (1-based).
type GoalPage struct {
	Page  int
	Limit int
}

// GoalRepository defines the interface for goal persistence operations.
type GoalRepository interface {
	// Create inserts a new goal.
	Create(ctx context.Context, goal *entity.Goal) error

	// FindByID retrieves a goal by its ID, excluding soft-deleted rows.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Goal, error)

	// FindByOwner retrieves a page of the owner's goals plus the unpaged total.
	FindByOwner(ctx context.Context, ownerID uuid.UUID, filters GoalFilters, sort GoalSort, page GoalPage) ([]*entity.Goal, int64, error)

	// Update persists owner edits, atomically bumping the version counter.
	Update(ctx context.Context, goal *entity.Goal) error

	// UpdateProgress writes the recomputed value/percent/status back to the
	// goal row, guarded by a version compare-and-set. It returns
	// ErrGoalVersionConflict when the stored version no longer matches.
	UpdateProgress(ctx context.Context, goal *entity.Goal, expectedVersion int64) error

	// Delete soft-deletes a goal. Progress events are left untouched.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProgressEventRepository persists the append-only progress history of goals.
// There are deliberately no update or delete operations.
type ProgressEventRepository interface {
	// Append stores a new progress event.
	Append(ctx context.Context, event *entity.ProgressEvent) error

	// FindByGoalID returns up to limit events for a goal, most recent first.
	FindByGoalID(ctx context.Context, goalID uuid.UUID, limit int) ([]*entity.ProgressEvent, error)
}
