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

// CreateGoalInput represents the input for goal creation.
type CreateGoalInput struct {
	OwnerID     uuid.UUID
	VehicleID   *uuid.UUID // Optional, restricts aggregation to one vehicle
	Title       string
	Description string
	Type        entity.GoalType
	Period      entity.GoalPeriod
	TargetValue int64
	StartDate   time.Time
	EndDate     time.Time
}

// CreateGoalOutput represents the output of goal creation.
type CreateGoalOutput struct {
	Goal *GoalOutput
}

// CreateGoalUseCase handles goal creation logic.
type CreateGoalUseCase struct {
	goalRepo    adapter.GoalRepository
	vehicleRepo adapter.VehicleRepository
	engine      *ProgressEngine
	clock       adapter.Clock
}

// NewCreateGoalUseCase creates a new CreateGoalUseCase instance.
func NewCreateGoalUseCase(goalRepo adapter.GoalRepository, vehicleRepo adapter.VehicleRepository, engine *ProgressEngine, clock adapter.Clock) *CreateGoalUseCase {
	return &CreateGoalUseCase{
		goalRepo:    goalRepo,
		vehicleRepo: vehicleRepo,
		engine:      engine,
		clock:       clock,
	}
}

// Execute performs the goal creation. The new goal starts Active at zero and
// is immediately recomputed once, so the returned object already reflects any
// facts inside its window.
func (uc *CreateGoalUseCase) Execute(ctx context.Context, input CreateGoalInput) (*CreateGoalOutput, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, domainerror.NewGoalValidationError(
			domainerror.ErrCodeMissingGoalFields,
			"title",
			"title is required",
			nil,
		)
	}

	if err := validateGoalFields(input.Type, input.Period, input.TargetValue, input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	if input.VehicleID != nil {
		if err := uc.checkVehicleOwnership(ctx, *input.VehicleID, input.OwnerID); err != nil {
			return nil, err
		}
	}

	goal := entity.NewGoal(
		input.OwnerID,
		input.VehicleID,
		strings.TrimSpace(input.Title),
		input.Description,
		input.Type,
		input.Period,
		input.TargetValue,
		input.StartDate,
		input.EndDate,
	)

	if err := uc.goalRepo.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	// Initial recomputation pass. The goal exists either way; a failing
	// aggregate only means the response shows the zero snapshot.
	result, err := uc.engine.Recompute(ctx, goal)
	if err != nil {
		slog.Warn("initial goal recomputation failed",
			"goal_id", goal.ID,
			"error", err,
		)
		result = &RecomputeResult{Goal: goal}
	}

	return &CreateGoalOutput{
		Goal: newGoalOutput(result.Goal, result.Refreshed, uc.clock.Now()),
	}, nil
}

// checkVehicleOwnership reports a vehicle not owned by the caller as not
// found, so the response does not reveal whether the vehicle exists at all.
func (uc *CreateGoalUseCase) checkVehicleOwnership(ctx context.Context, vehicleID, ownerID uuid.UUID) error {
	owned, err := uc.vehicleRepo.OwnedByUser(ctx, vehicleID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to check vehicle ownership: %w", err)
	}
	if !owned {
		return domainerror.NewGoalError(
			domainerror.ErrCodeGoalVehicleNotFound,
			"vehicle not found",
			domainerror.ErrGoalVehicleNotFound,
		)
	}
	return nil
}

// validateGoalFields checks the type, period, target and window fields shared by
// create and update.
func validateGoalFields(goalType entity.GoalType, period entity.GoalPeriod, targetValue int64, startDate, endDate time.Time) error {
	if !entity.IsValidGoalType(goalType) {
		return domainerror.NewGoalValidationError(
			domainerror.ErrCodeInvalidGoalType,
			"type",
			"type must be 'revenue', 'distance', 'trip_count', 'savings', or 'profit'",
			domainerror.ErrInvalidGoalType,
		)
	}
	if !entity.IsValidGoalPeriod(period) {
		return domainerror.NewGoalValidationError(
			domainerror.ErrCodeInvalidGoalPeriod,
			"period",
			"period must be 'weekly', 'monthly', 'quarterly', or 'yearly'",
			domainerror.ErrInvalidGoalPeriod,
		)
	}
	if targetValue <= 0 {
		return domainerror.NewGoalValidationError(
			domainerror.ErrCodeInvalidTargetValue,
			"target_value",
			"target value must be greater than zero",
			domainerror.ErrInvalidTargetValue,
		)
	}
	if !endDate.After(startDate) {
		return domainerror.NewGoalValidationError(
			domainerror.ErrCodeInvalidGoalWindow,
			"end_date",
			"end date must be after start date",
			domainerror.ErrInvalidGoalWindow,
		)
	}
	return nil
}
