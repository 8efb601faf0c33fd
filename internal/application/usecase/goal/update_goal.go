package goal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/driverlog/backend/internal/application/adapter"
	"github.com/driverlog/backend/internal/domain/entity"
	domainerror "github.com/driverlog/backend/internal/domain/error"
)

// UpdateGoalInput represents the input for goal update. Nil fields are left
// unchanged. RemoveVehicle clears the vehicle scope so the goal spans all of
// the owner's vehicles again.
type UpdateGoalInput struct {
	GoalID        uuid.UUID
	OwnerID       uuid.UUID
	Title         *string
	Description   *string
	Type          *entity.GoalType
	Period        *entity.GoalPeriod
	TargetValue   *int64
	StartDate     *time.Time
	EndDate       *time.Time
	VehicleID     *uuid.UUID
	RemoveVehicle bool
	Status        *entity.GoalStatus
}

// UpdateGoalOutput represents the output of goal update.
type UpdateGoalOutput struct {
	Goal *GoalOutput
}

// UpdateGoalUseCase handles goal update logic.
type UpdateGoalUseCase struct {
	goalRepo    adapter.GoalRepository
	vehicleRepo adapter.VehicleRepository
	engine      *ProgressEngine
	clock       adapter.Clock
}

// NewUpdateGoalUseCase creates a new UpdateGoalUseCase instance.
func NewUpdateGoalUseCase(goalRepo adapter.GoalRepository, vehicleRepo adapter.VehicleRepository, engine *ProgressEngine, clock adapter.Clock) *UpdateGoalUseCase {
	return &UpdateGoalUseCase{
		goalRepo:    goalRepo,
		vehicleRepo: vehicleRepo,
		engine:      engine,
		clock:       clock,
	}
}

// Execute performs the goal update. Changing the type, target or vehicle
// scope invalidates the previous aggregate, so those edits trigger a
// recomputation pass on an Active goal.
func (uc *UpdateGoalUseCase) Execute(ctx context.Context, input UpdateGoalInput) (*UpdateGoalOutput, error) {
	goal, err := findOwnedGoal(ctx, uc.goalRepo, input.GoalID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	aggregateInvalidated, err := uc.applyPatch(ctx, goal, input)
	if err != nil {
		return nil, err
	}

	if err := validateGoalFields(goal.Type, goal.Period, goal.TargetValue, goal.StartDate, goal.EndDate); err != nil {
		return nil, err
	}

	goal.UpdatedAt = uc.clock.Now()
	if err := uc.goalRepo.Update(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	goal.Version++

	refreshed := false
	if aggregateInvalidated && goal.Status == entity.GoalStatusActive {
		result, err := uc.engine.Recompute(ctx, goal)
		if err != nil {
			slog.Warn("post-update goal recomputation failed",
				"goal_id", goal.ID,
				"error", err,
			)
		} else {
			goal = result.Goal
			refreshed = result.Refreshed
		}
	}

	return &UpdateGoalOutput{
		Goal: newGoalOutput(goal, refreshed, uc.clock.Now()),
	}, nil
}

// applyPatch mutates the goal in place and reports whether the previous
// aggregate was invalidated by the edit.
func (uc *UpdateGoalUseCase) applyPatch(ctx context.Context, goal *entity.Goal, input UpdateGoalInput) (bool, error) {
	invalidated := false

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return false, domainerror.NewGoalValidationError(
				domainerror.ErrCodeMissingGoalFields,
				"title",
				"title is required",
				nil,
			)
		}
		goal.Title = title
	}
	if input.Description != nil {
		goal.Description = *input.Description
	}
	if input.Period != nil {
		goal.Period = *input.Period
	}
	if input.StartDate != nil {
		goal.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		goal.EndDate = *input.EndDate
	}

	if input.Type != nil && *input.Type != goal.Type {
		goal.Type = *input.Type
		invalidated = true
	}
	if input.TargetValue != nil && *input.TargetValue != goal.TargetValue {
		goal.TargetValue = *input.TargetValue
		invalidated = true
	}

	switch {
	case input.RemoveVehicle:
		if goal.VehicleID != nil {
			goal.VehicleID = nil
			invalidated = true
		}
	case input.VehicleID != nil:
		owned, err := uc.vehicleRepo.OwnedByUser(ctx, *input.VehicleID, goal.OwnerID)
		if err != nil {
			return false, fmt.Errorf("failed to check vehicle ownership: %w", err)
		}
		if !owned {
			return false, domainerror.NewGoalError(
				domainerror.ErrCodeGoalVehicleNotFound,
				"vehicle not found",
				domainerror.ErrGoalVehicleNotFound,
			)
		}
		if goal.VehicleID == nil || *goal.VehicleID != *input.VehicleID {
			vehicleID := *input.VehicleID
			goal.VehicleID = &vehicleID
			invalidated = true
		}
	}

	if input.Status != nil {
		if err := applyStatusChange(goal, *input.Status); err != nil {
			return false, err
		}
	}

	return invalidated, nil
}

// applyStatusChange enforces the lifecycle rules for owner-driven status
// edits: only the reversible Active/Paused pair may be toggled. Terminal goals
// stay terminal, and completion/expiry are the engine's decisions alone.
func applyStatusChange(goal *entity.Goal, status entity.GoalStatus) error {
	if !entity.IsValidGoalStatus(status) {
		return domainerror.NewGoalValidationError(
			domainerror.ErrCodeInvalidGoalStatus,
			"status",
			"status must be 'active', 'paused', 'completed', or 'expired'",
			domainerror.ErrInvalidGoalStatus,
		)
	}
	if status == goal.Status {
		return nil
	}
	if goal.IsTerminal() {
		return domainerror.NewGoalValidationError(
			domainerror.ErrCodeInvalidGoalStatus,
			"status",
			fmt.Sprintf("cannot change status of a %s goal", goal.Status),
			domainerror.ErrInvalidGoalStatus,
		)
	}
	if status != entity.GoalStatusActive && status != entity.GoalStatusPaused {
		return domainerror.NewGoalValidationError(
			domainerror.ErrCodeInvalidGoalStatus,
			"status",
			"status can only be set to 'active' or 'paused'",
			domainerror.ErrInvalidGoalStatus,
		)
	}
	goal.Status = status
	return nil
}
