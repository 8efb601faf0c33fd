package goal

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/driverlog/backend/internal/domain/entity"
	domainerror "github.com/driverlog/backend/internal/domain/error"
)

func TestUpdateGoalUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)
	mid := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	owner := uuid.New()

	newStoredGoal := func() *entity.Goal {
		g := entity.NewGoal(owner, nil, "March revenue", "", entity.GoalTypeRevenue, entity.GoalPeriodMonthly, 100000, start, end)
		g.CurrentValue = 40000
		g.PercentComplete = 40
		return g
	}

	newUseCase := func(repo *fakeGoalRepo, vehicles *fakeVehicleRepo, facts *fakeFactReader) *UpdateGoalUseCase {
		clock := fixedClock{now: mid}
		engine := NewProgressEngine(repo, &fakeEventRepo{}, facts, clock, EngineConfig{MinPercentDelta: 1})
		return NewUpdateGoalUseCase(repo, vehicles, engine, clock)
	}

	t.Run("renames without recomputing", func(t *testing.T) {
		g := newStoredGoal()
		repo := newFakeGoalRepo(g)
		facts := newFakeFactReader()
		facts.earnings = 90000
		uc := newUseCase(repo, &fakeVehicleRepo{}, facts)

		title := "Renamed goal"
		output, err := uc.Execute(ctx, UpdateGoalInput{GoalID: g.ID, OwnerID: owner, Title: &title})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Goal.Goal.Title != "Renamed goal" {
			t.Errorf("expected renamed title, got %q", output.Goal.Goal.Title)
		}
		if output.Goal.Refreshed {
			t.Error("expected no recomputation for a rename")
		}
		if len(facts.calls) != 0 {
			t.Errorf("expected no fact reads, got %v", facts.calls)
		}
	})

	t.Run("changing the target recomputes the percent", func(t *testing.T) {
		g := newStoredGoal()
		repo := newFakeGoalRepo(g)
		facts := newFakeFactReader()
		facts.earnings = 40000
		uc := newUseCase(repo, &fakeVehicleRepo{}, facts)

		target := int64(50000)
		output, err := uc.Execute(ctx, UpdateGoalInput{GoalID: g.ID, OwnerID: owner, TargetValue: &target})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !output.Goal.Refreshed {
			t.Error("expected a recomputation after a target change")
		}
		if output.Goal.Goal.PercentComplete != 80 {
			t.Errorf("expected 80 percent against the new target, got %d", output.Goal.Goal.PercentComplete)
		}
	})

	t.Run("shrinking the target below the current value completes the goal", func(t *testing.T) {
		g := newStoredGoal()
		repo := newFakeGoalRepo(g)
		facts := newFakeFactReader()
		facts.earnings = 40000
		uc := newUseCase(repo, &fakeVehicleRepo{}, facts)

		target := int64(30000)
		output, err := uc.Execute(ctx, UpdateGoalInput{GoalID: g.ID, OwnerID: owner, TargetValue: &target})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Goal.Goal.Status != entity.GoalStatusCompleted {
			t.Errorf("expected completed status, got %s", output.Goal.Goal.Status)
		}
	})

	t.Run("pauses and resumes through the status field", func(t *testing.T) {
		g := newStoredGoal()
		repo := newFakeGoalRepo(g)
		facts := newFakeFactReader()
		uc := newUseCase(repo, &fakeVehicleRepo{}, facts)

		paused := entity.GoalStatusPaused
		output, err := uc.Execute(ctx, UpdateGoalInput{GoalID: g.ID, OwnerID: owner, Status: &paused})
		if err != nil {
			t.Fatalf("unexpected error pausing: %v", err)
		}
		if output.Goal.Goal.Status != entity.GoalStatusPaused {
			t.Errorf("expected paused status, got %s", output.Goal.Goal.Status)
		}

		active := entity.GoalStatusActive
		output, err = uc.Execute(ctx, UpdateGoalInput{GoalID: g.ID, OwnerID: owner, Status: &active})
		if err != nil {
			t.Fatalf("unexpected error resuming: %v", err)
		}
		if output.Goal.Goal.Status != entity.GoalStatusActive {
			t.Errorf("expected active status, got %s", output.Goal.Goal.Status)
		}
		if output.Goal.Refreshed {
			t.Error("expected resuming alone not to recompute")
		}
	})

	t.Run("rejects status edits on a terminal goal", func(t *testing.T) {
		g := newStoredGoal()
		g.Status = entity.GoalStatusExpired
		repo := newFakeGoalRepo(g)
		uc := newUseCase(repo, &fakeVehicleRepo{}, newFakeFactReader())

		active := entity.GoalStatusActive
		_, err := uc.Execute(ctx, UpdateGoalInput{GoalID: g.ID, OwnerID: owner, Status: &active})
		assertGoalErrorCode(t, err, domainerror.ErrCodeInvalidGoalStatus)
	})

	t.Run("rejects setting completed directly", func(t *testing.T) {
		g := newStoredGoal()
		repo := newFakeGoalRepo(g)
		uc := newUseCase(repo, &fakeVehicleRepo{}, newFakeFactReader())

		completed := entity.GoalStatusCompleted
		_, err := uc.Execute(ctx, UpdateGoalInput{GoalID: g.ID, OwnerID: owner, Status: &completed})
		assertGoalErrorCode(t, err, domainerror.ErrCodeInvalidGoalStatus)
	})

	t.Run("hides other users' goals behind not found", func(t *testing.T) {
		g := newStoredGoal()
		repo := newFakeGoalRepo(g)
		uc := newUseCase(repo, &fakeVehicleRepo{}, newFakeFactReader())

		title := "stolen"
		_, err := uc.Execute(ctx, UpdateGoalInput{GoalID: g.ID, OwnerID: uuid.New(), Title: &title})
		assertGoalErrorCode(t, err, domainerror.ErrCodeGoalNotFound)
	})

	t.Run("clearing the vehicle scope recomputes", func(t *testing.T) {
		vehicle := uuid.New()
		g := entity.NewGoal(owner, &vehicle, "Vehicle revenue", "", entity.GoalTypeRevenue, entity.GoalPeriodMonthly, 100000, start, end)
		repo := newFakeGoalRepo(g)
		facts := newFakeFactReader()
		facts.earnings = 70000
		uc := newUseCase(repo, &fakeVehicleRepo{}, facts)

		output, err := uc.Execute(ctx, UpdateGoalInput{GoalID: g.ID, OwnerID: owner, RemoveVehicle: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Goal.Goal.VehicleID != nil {
			t.Error("expected the vehicle scope to be cleared")
		}
		if !output.Goal.Refreshed || output.Goal.Goal.CurrentValue != 70000 {
			t.Errorf("expected a refreshed all-vehicles aggregate, got refreshed=%v value=%d", output.Goal.Refreshed, output.Goal.Goal.CurrentValue)
		}
	})
}
