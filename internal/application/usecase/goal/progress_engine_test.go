package goal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/driverlog/backend/internal/application/adapter"
	"github.com/driverlog/backend/internal/domain/entity"
	domainerror "github.com/driverlog/backend/internal/domain/error"
)

// fixedClock returns the same instant on every call.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

// fakeGoalRepo is an in-memory GoalRepository. conflictsLeft simulates a
// concurrent writer: each forced conflict bumps the stored version before
// failing, so a fresh read carries a newer version.
type fakeGoalRepo struct {
	goals         map[uuid.UUID]*entity.Goal
	conflictsLeft int
}

func newFakeGoalRepo(goals ...*entity.Goal) *fakeGoalRepo {
	repo := &fakeGoalRepo{goals: make(map[uuid.UUID]*entity.Goal)}
	for _, g := range goals {
		copied := *g
		repo.goals[g.ID] = &copied
	}
	return repo
}

func (r *fakeGoalRepo) Create(ctx context.Context, goal *entity.Goal) error {
	copied := *goal
	r.goals[goal.ID] = &copied
	return nil
}

func (r *fakeGoalRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Goal, error) {
	stored, ok := r.goals[id]
	if !ok {
		return nil, domainerror.ErrGoalNotFound
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeGoalRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID, filters adapter.GoalFilters, sort adapter.GoalSort, page adapter.GoalPage) ([]*entity.Goal, int64, error) {
	var result []*entity.Goal
	for _, g := range r.goals {
		if g.OwnerID == ownerID {
			copied := *g
			result = append(result, &copied)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeGoalRepo) Update(ctx context.Context, goal *entity.Goal) error {
	stored, ok := r.goals[goal.ID]
	if !ok {
		return domainerror.ErrGoalNotFound
	}
	copied := *goal
	copied.Version = stored.Version + 1
	r.goals[goal.ID] = &copied
	return nil
}

func (r *fakeGoalRepo) UpdateProgress(ctx context.Context, goal *entity.Goal, expectedVersion int64) error {
	stored, ok := r.goals[goal.ID]
	if !ok {
		return domainerror.ErrGoalNotFound
	}
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		stored.Version++
		return domainerror.ErrGoalVersionConflict
	}
	if stored.Version != expectedVersion {
		return domainerror.ErrGoalVersionConflict
	}
	stored.CurrentValue = goal.CurrentValue
	stored.PercentComplete = goal.PercentComplete
	stored.Status = goal.Status
	stored.CompletedAt = goal.CompletedAt
	stored.UpdatedAt = goal.UpdatedAt
	stored.Version = expectedVersion + 1
	return nil
}

func (r *fakeGoalRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.goals, id)
	return nil
}

// fakeEventRepo records appended events in order.
type fakeEventRepo struct {
	events []*entity.ProgressEvent
}

func (r *fakeEventRepo) Append(ctx context.Context, event *entity.ProgressEvent) error {
	r.events = append(r.events, event)
	return nil
}

func (r *fakeEventRepo) FindByGoalID(ctx context.Context, goalID uuid.UUID, limit int) ([]*entity.ProgressEvent, error) {
	var result []*entity.ProgressEvent
	for i := len(r.events) - 1; i >= 0 && len(result) < limit; i-- {
		if r.events[i].GoalID == goalID {
			result = append(result, r.events[i])
		}
	}
	return result, nil
}

// fakeFactReader serves fixed aggregates and counts calls per metric.
type fakeFactReader struct {
	earnings int64
	distance int64
	trips    int64
	expenses int64
	fuel     int64
	err      error
	calls    map[string]int
}

func newFakeFactReader() *fakeFactReader {
	return &fakeFactReader{calls: make(map[string]int)}
}

func (f *fakeFactReader) read(metric string, value int64) (int64, error) {
	f.calls[metric]++
	if f.err != nil {
		return 0, f.err
	}
	return value, nil
}

func (f *fakeFactReader) JourneyEarnings(ctx context.Context, ownerID uuid.UUID, vehicleID *uuid.UUID, window adapter.FactWindow) (int64, error) {
	return f.read("journey_earnings", f.earnings)
}

func (f *fakeFactReader) JourneyDistance(ctx context.Context, ownerID uuid.UUID, vehicleID *uuid.UUID, window adapter.FactWindow) (int64, error) {
	return f.read("journey_distance", f.distance)
}

func (f *fakeFactReader) JourneyCount(ctx context.Context, ownerID uuid.UUID, vehicleID *uuid.UUID, window adapter.FactWindow) (int64, error) {
	return f.read("journey_count", f.trips)
}

func (f *fakeFactReader) ExpenseTotal(ctx context.Context, ownerID uuid.UUID, vehicleID *uuid.UUID, window adapter.FactWindow) (int64, error) {
	return f.read("expense_total", f.expenses)
}

func (f *fakeFactReader) FuelingCostTotal(ctx context.Context, ownerID uuid.UUID, vehicleID *uuid.UUID, window adapter.FactWindow) (int64, error) {
	return f.read("fueling_cost_total", f.fuel)
}

func testGoal(goalType entity.GoalType, target int64, start, end time.Time) *entity.Goal {
	return entity.NewGoal(uuid.New(), nil, "test goal", "", goalType, entity.GoalPeriodMonthly, target, start, end)
}

func newTestEngine(repo *fakeGoalRepo, events *fakeEventRepo, facts *fakeFactReader, now time.Time) *ProgressEngine {
	return NewProgressEngine(repo, events, facts, fixedClock{now: now}, EngineConfig{MinPercentDelta: 1})
}

func TestProgressEngine_Recompute(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)
	mid := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("derives value and percent from facts", func(t *testing.T) {
		g := testGoal(entity.GoalTypeRevenue, 100000, start, end)
		repo := newFakeGoalRepo(g)
		events := &fakeEventRepo{}
		facts := newFakeFactReader()
		facts.earnings = 50000
		engine := newTestEngine(repo, events, facts, mid)

		result, err := engine.Recompute(ctx, g)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Refreshed {
			t.Error("expected result to be refreshed")
		}
		if result.Goal.CurrentValue != 50000 {
			t.Errorf("expected current value 50000, got %d", result.Goal.CurrentValue)
		}
		if result.Goal.PercentComplete != 50 {
			t.Errorf("expected 50 percent, got %d", result.Goal.PercentComplete)
		}
		if result.Goal.Status != entity.GoalStatusActive {
			t.Errorf("expected goal to stay active, got %s", result.Goal.Status)
		}
		if result.Goal.CompletedAt != nil {
			t.Error("expected no completion timestamp on a partial goal")
		}
		if !result.EventLogged || len(events.events) != 1 {
			t.Errorf("expected exactly one progress event, got %d", len(events.events))
		}
	})

	t.Run("reaching the target exactly completes the goal", func(t *testing.T) {
		g := testGoal(entity.GoalTypeRevenue, 100000, start, end)
		repo := newFakeGoalRepo(g)
		events := &fakeEventRepo{}
		facts := newFakeFactReader()
		facts.earnings = 100000
		engine := newTestEngine(repo, events, facts, mid)

		result, err := engine.Recompute(ctx, g)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Goal.Status != entity.GoalStatusCompleted {
			t.Errorf("expected completed status, got %s", result.Goal.Status)
		}
		if result.Goal.PercentComplete != 100 {
			t.Errorf("expected 100 percent, got %d", result.Goal.PercentComplete)
		}
		if result.Goal.CompletedAt == nil || !result.Goal.CompletedAt.Equal(mid) {
			t.Errorf("expected completion timestamp %v, got %v", mid, result.Goal.CompletedAt)
		}
	})

	t.Run("overshoot clamps percent at 100", func(t *testing.T) {
		g := testGoal(entity.GoalTypeDistance, 1000, start, end)
		repo := newFakeGoalRepo(g)
		events := &fakeEventRepo{}
		facts := newFakeFactReader()
		facts.distance = 2500
		engine := newTestEngine(repo, events, facts, mid)

		result, err := engine.Recompute(ctx, g)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Goal.PercentComplete != 100 {
			t.Errorf("expected percent clamped to 100, got %d", result.Goal.PercentComplete)
		}
		if result.Goal.CurrentValue != 2500 {
			t.Errorf("expected raw current value 2500, got %d", result.Goal.CurrentValue)
		}
		if result.Goal.Status != entity.GoalStatusCompleted {
			t.Errorf("expected completed status, got %s", result.Goal.Status)
		}
	})

	t.Run("past the end date an unmet goal expires", func(t *testing.T) {
		g := testGoal(entity.GoalTypeTripCount, 200, start, end)
		repo := newFakeGoalRepo(g)
		events := &fakeEventRepo{}
		facts := newFakeFactReader()
		facts.trips = 150
		after := end.Add(48 * time.Hour)
		engine := newTestEngine(repo, events, facts, after)

		result, err := engine.Recompute(ctx, g)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Goal.Status != entity.GoalStatusExpired {
			t.Errorf("expected expired status, got %s", result.Goal.Status)
		}
		if result.Goal.CompletedAt != nil {
			t.Error("expected no completion timestamp on an expired goal")
		}
		if result.Goal.PercentComplete != 75 {
			t.Errorf("expected 75 percent kept on expiry, got %d", result.Goal.PercentComplete)
		}
	})

	t.Run("completion wins over expiry", func(t *testing.T) {
		g := testGoal(entity.GoalTypeRevenue, 100000, start, end)
		repo := newFakeGoalRepo(g)
		events := &fakeEventRepo{}
		facts := newFakeFactReader()
		facts.earnings = 120000
		after := end.Add(48 * time.Hour)
		engine := newTestEngine(repo, events, facts, after)

		result, err := engine.Recompute(ctx, g)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Goal.Status != entity.GoalStatusCompleted {
			t.Errorf("expected completed status, got %s", result.Goal.Status)
		}
	})

	t.Run("paused goal keeps its snapshot", func(t *testing.T) {
		g := testGoal(entity.GoalTypeRevenue, 100000, start, end)
		g.Status = entity.GoalStatusPaused
		g.CurrentValue = 30000
		g.PercentComplete = 30
		repo := newFakeGoalRepo(g)
		events := &fakeEventRepo{}
		facts := newFakeFactReader()
		facts.earnings = 90000
		engine := newTestEngine(repo, events, facts, mid)

		result, err := engine.Recompute(ctx, g)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Refreshed {
			t.Error("expected paused goal not to be refreshed")
		}
		if result.Goal.CurrentValue != 30000 {
			t.Errorf("expected stored value 30000, got %d", result.Goal.CurrentValue)
		}
		if len(facts.calls) != 0 {
			t.Errorf("expected no fact reads for a paused goal, got %v", facts.calls)
		}
		if len(events.events) != 0 {
			t.Errorf("expected no events, got %d", len(events.events))
		}
	})

	t.Run("completed goal is never recomputed", func(t *testing.T) {
		g := testGoal(entity.GoalTypeRevenue, 100000, start, end)
		g.Status = entity.GoalStatusCompleted
		completedAt := mid.Add(-24 * time.Hour)
		g.CompletedAt = &completedAt
		g.CurrentValue = 100000
		g.PercentComplete = 100
		repo := newFakeGoalRepo(g)
		events := &fakeEventRepo{}
		facts := newFakeFactReader()
		facts.earnings = 40000 // facts shrank after completion
		engine := newTestEngine(repo, events, facts, mid)

		result, err := engine.Recompute(ctx, g)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Goal.Status != entity.GoalStatusCompleted {
			t.Errorf("expected goal to stay completed, got %s", result.Goal.Status)
		}
		if result.Goal.PercentComplete != 100 {
			t.Errorf("expected snapshot kept at 100, got %d", result.Goal.PercentComplete)
		}
		if len(facts.calls) != 0 {
			t.Errorf("expected no fact reads for a terminal goal, got %v", facts.calls)
		}
	})

	t.Run("unchanged aggregate logs no second event", func(t *testing.T) {
		g := testGoal(entity.GoalTypeRevenue, 100000, start, end)
		repo := newFakeGoalRepo(g)
		events := &fakeEventRepo{}
		facts := newFakeFactReader()
		facts.earnings = 40000
		engine := newTestEngine(repo, events, facts, mid)

		first, err := engine.Recompute(ctx, g)
		if err != nil {
			t.Fatalf("unexpected error on first pass: %v", err)
		}
		if !first.EventLogged {
			t.Fatal("expected first pass to log an event")
		}

		second, err := engine.Recompute(ctx, first.Goal)
		if err != nil {
			t.Fatalf("unexpected error on second pass: %v", err)
		}
		if !second.Refreshed {
			t.Error("expected second pass to still refresh the row")
		}
		if second.EventLogged {
			t.Error("expected no event for an unchanged aggregate")
		}
		if len(events.events) != 1 {
			t.Errorf("expected exactly one event, got %d", len(events.events))
		}
	})

	t.Run("savings subtracts expenses from earnings", func(t *testing.T) {
		g := testGoal(entity.GoalTypeSavings, 50000, start, end)
		repo := newFakeGoalRepo(g)
		facts := newFakeFactReader()
		facts.earnings = 80000
		facts.expenses = 30000
		engine := newTestEngine(repo, &fakeEventRepo{}, facts, mid)

		result, err := engine.Recompute(ctx, g)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Goal.CurrentValue != 50000 {
			t.Errorf("expected savings of 50000, got %d", result.Goal.CurrentValue)
		}
		if result.Goal.Status != entity.GoalStatusCompleted {
			t.Errorf("expected completed status, got %s", result.Goal.Status)
		}
	})

	t.Run("profit subtracts expenses and fuel", func(t *testing.T) {
		g := testGoal(entity.GoalTypeProfit, 100000, start, end)
		repo := newFakeGoalRepo(g)
		facts := newFakeFactReader()
		facts.earnings = 90000
		facts.expenses = 20000
		facts.fuel = 25000
		engine := newTestEngine(repo, &fakeEventRepo{}, facts, mid)

		result, err := engine.Recompute(ctx, g)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Goal.CurrentValue != 45000 {
			t.Errorf("expected profit of 45000, got %d", result.Goal.CurrentValue)
		}
		if result.Goal.PercentComplete != 45 {
			t.Errorf("expected 45 percent, got %d", result.Goal.PercentComplete)
		}
	})

	t.Run("aggregation failure keeps the stored row intact", func(t *testing.T) {
		g := testGoal(entity.GoalTypeRevenue, 100000, start, end)
		g.CurrentValue = 20000
		g.PercentComplete = 20
		repo := newFakeGoalRepo(g)
		facts := newFakeFactReader()
		facts.err = errors.New("journeys table unavailable")
		engine := newTestEngine(repo, &fakeEventRepo{}, facts, mid)

		_, err := engine.Recompute(ctx, g)
		if err == nil {
			t.Fatal("expected an error")
		}
		var goalErr *domainerror.GoalError
		if !errors.As(err, &goalErr) {
			t.Fatalf("expected a GoalError, got %T", err)
		}
		if goalErr.Code != domainerror.ErrCodeProgressAggregation {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeProgressAggregation, goalErr.Code)
		}

		stored, _ := repo.FindByID(ctx, g.ID)
		if stored.CurrentValue != 20000 || stored.PercentComplete != 20 {
			t.Errorf("expected stored snapshot untouched, got value=%d percent=%d", stored.CurrentValue, stored.PercentComplete)
		}
	})

	t.Run("version conflict retries once on a fresh read", func(t *testing.T) {
		g := testGoal(entity.GoalTypeRevenue, 100000, start, end)
		repo := newFakeGoalRepo(g)
		repo.conflictsLeft = 1
		events := &fakeEventRepo{}
		facts := newFakeFactReader()
		facts.earnings = 60000
		engine := newTestEngine(repo, events, facts, mid)

		result, err := engine.Recompute(ctx, g)
		if err != nil {
			t.Fatalf("expected retry to succeed, got %v", err)
		}
		if !result.Refreshed {
			t.Error("expected a refreshed result after retry")
		}
		if result.Goal.CurrentValue != 60000 {
			t.Errorf("expected current value 60000, got %d", result.Goal.CurrentValue)
		}
		if len(events.events) != 1 {
			t.Errorf("expected exactly one event across the retry, got %d", len(events.events))
		}
	})

	t.Run("second conflict returns the freshest row and a conflict error", func(t *testing.T) {
		g := testGoal(entity.GoalTypeRevenue, 100000, start, end)
		repo := newFakeGoalRepo(g)
		repo.conflictsLeft = 2
		events := &fakeEventRepo{}
		facts := newFakeFactReader()
		facts.earnings = 60000
		engine := newTestEngine(repo, events, facts, mid)

		result, err := engine.Recompute(ctx, g)
		if err == nil {
			t.Fatal("expected a conflict error")
		}
		if !errors.Is(err, domainerror.ErrGoalVersionConflict) {
			t.Errorf("expected a version conflict error, got %v", err)
		}
		if result == nil || result.Goal == nil {
			t.Fatal("expected the freshest stored row alongside the error")
		}
		if result.Refreshed {
			t.Error("expected a stored snapshot, not a refreshed result")
		}
		if len(events.events) != 0 {
			t.Errorf("expected no events after conflicting passes, got %d", len(events.events))
		}
	})
}

func TestProgressEngine_RecomputeBatch(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)
	mid := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("recomputes active goals and passes the rest through", func(t *testing.T) {
		active := testGoal(entity.GoalTypeRevenue, 100000, start, end)
		paused := testGoal(entity.GoalTypeRevenue, 100000, start, end)
		paused.Status = entity.GoalStatusPaused
		paused.CurrentValue = 10000

		repo := newFakeGoalRepo(active, paused)
		facts := newFakeFactReader()
		facts.earnings = 50000
		engine := newTestEngine(repo, &fakeEventRepo{}, facts, mid)

		results := engine.RecomputeBatch(ctx, []*entity.Goal{active, paused})
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if !results[0].Refreshed || results[0].Goal.CurrentValue != 50000 {
			t.Errorf("expected active goal refreshed to 50000, got refreshed=%v value=%d", results[0].Refreshed, results[0].Goal.CurrentValue)
		}
		if results[1].Refreshed || results[1].Goal.CurrentValue != 10000 {
			t.Errorf("expected paused goal passed through, got refreshed=%v value=%d", results[1].Refreshed, results[1].Goal.CurrentValue)
		}
	})

	t.Run("shares aggregates between goals over the same scope", func(t *testing.T) {
		owner := uuid.New()
		first := testGoal(entity.GoalTypeRevenue, 100000, start, end)
		first.OwnerID = owner
		second := testGoal(entity.GoalTypeRevenue, 200000, start, end)
		second.OwnerID = owner

		repo := newFakeGoalRepo(first, second)
		facts := newFakeFactReader()
		facts.earnings = 80000
		engine := newTestEngine(repo, &fakeEventRepo{}, facts, mid)

		engine.RecomputeBatch(ctx, []*entity.Goal{first, second})
		if facts.calls["journey_earnings"] != 1 {
			t.Errorf("expected one earnings scan for the shared scope, got %d", facts.calls["journey_earnings"])
		}
	})

	t.Run("a failing goal keeps its snapshot without stopping the batch", func(t *testing.T) {
		broken := testGoal(entity.GoalType("bogus"), 100000, start, end)
		broken.CurrentValue = 12345
		healthy := testGoal(entity.GoalTypeDistance, 1000, start, end)

		repo := newFakeGoalRepo(broken, healthy)
		facts := newFakeFactReader()
		facts.distance = 400
		engine := newTestEngine(repo, &fakeEventRepo{}, facts, mid)

		results := engine.RecomputeBatch(ctx, []*entity.Goal{broken, healthy})
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if results[0].Refreshed {
			t.Error("expected broken goal to fall back to its snapshot")
		}
		if results[0].Goal.CurrentValue != 12345 {
			t.Errorf("expected snapshot value 12345, got %d", results[0].Goal.CurrentValue)
		}
		if !results[1].Refreshed || results[1].Goal.PercentComplete != 40 {
			t.Errorf("expected healthy goal refreshed to 40 percent, got refreshed=%v percent=%d", results[1].Refreshed, results[1].Goal.PercentComplete)
		}
	})
}

func TestPercentComplete(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		target  int64
		want    int
	}{
		{"zero current", 0, 100, 0},
		{"half", 50, 100, 50},
		{"rounds up", 335, 1000, 34},
		{"rounds down", 334, 1000, 33},
		{"exact target", 100, 100, 100},
		{"clamps overshoot", 250, 100, 100},
		{"negative current clamps to zero", -500, 100, 0},
		{"zero target", 50, 0, 0},
		{"negative target", 50, -10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PercentComplete(tt.current, tt.target); got != tt.want {
				t.Errorf("PercentComplete(%d, %d) = %d, want %d", tt.current, tt.target, got, tt.want)
			}
		})
	}
}
