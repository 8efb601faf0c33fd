package goal

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/driverlog/backend/internal/application/adapter"
	"github.com/driverlog/backend/internal/domain/entity"
	domainerror "github.com/driverlog/backend/internal/domain/error"
)

// GetGoalInput represents the input for getting a goal.
type GetGoalInput struct {
	GoalID  uuid.UUID
	OwnerID uuid.UUID
}

// GetGoalOutput represents the output of getting a goal, including its
// progress history most recent first.
type GetGoalOutput struct {
	Goal   *GoalOutput
	Events []*entity.ProgressEvent
}

// GetGoalUseCase handles getting a goal by ID.
type GetGoalUseCase struct {
	goalRepo        adapter.GoalRepository
	eventRepo       adapter.ProgressEventRepository
	engine          *ProgressEngine
	clock           adapter.Clock
	historyPageSize int
}

// NewGetGoalUseCase creates a new GetGoalUseCase instance.
func NewGetGoalUseCase(goalRepo adapter.GoalRepository, eventRepo adapter.ProgressEventRepository, engine *ProgressEngine, clock adapter.Clock, historyPageSize int) *GetGoalUseCase {
	if historyPageSize < 1 {
		historyPageSize = 20
	}
	return &GetGoalUseCase{
		goalRepo:        goalRepo,
		eventRepo:       eventRepo,
		engine:          engine,
		clock:           clock,
		historyPageSize: historyPageSize,
	}
}

// Execute retrieves the goal, recomputing it first when Active. Unlike list,
// a failing aggregate is surfaced here: the caller explicitly asked for this
// goal's fresh state.
func (uc *GetGoalUseCase) Execute(ctx context.Context, input GetGoalInput) (*GetGoalOutput, error) {
	goal, err := findOwnedGoal(ctx, uc.goalRepo, input.GoalID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	result, err := uc.engine.Recompute(ctx, goal)
	if err != nil {
		var goalErr *domainerror.GoalError
		if errors.As(err, &goalErr) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to recompute goal: %w", err)
	}

	events, err := uc.eventRepo.FindByGoalID(ctx, goal.ID, uc.historyPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress history: %w", err)
	}

	return &GetGoalOutput{
		Goal:   newGoalOutput(result.Goal, result.Refreshed, uc.clock.Now()),
		Events: events,
	}, nil
}

// findOwnedGoal loads a goal and hides other users' goals behind not-found.
func findOwnedGoal(ctx context.Context, repo adapter.GoalRepository, goalID, ownerID uuid.UUID) (*entity.Goal, error) {
	goal, err := repo.FindByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, domainerror.ErrGoalNotFound) {
			return nil, domainerror.NewGoalError(
				domainerror.ErrCodeGoalNotFound,
				"goal not found",
				domainerror.ErrGoalNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find goal: %w", err)
	}
	if goal.OwnerID != ownerID {
		return nil, domainerror.NewGoalError(
			domainerror.ErrCodeGoalNotFound,
			"goal not found",
			domainerror.ErrGoalNotFound,
		)
	}
	return goal, nil
}
