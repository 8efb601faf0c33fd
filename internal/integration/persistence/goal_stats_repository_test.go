package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/driverlog/backend/internal/domain/entity"
)

func TestGoalStatsRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	goalRepo := NewGoalRepository(db)
	statsRepo := NewGoalStatsRepository(db)

	owner := uuid.New()
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	seed := func(goalType entity.GoalType, status entity.GoalStatus, percent int, end time.Time, completedAt *time.Time) *entity.Goal {
		g := makeGoal(owner, goalType, 100000)
		g.Status = status
		g.PercentComplete = percent
		g.EndDate = end
		g.CompletedAt = completedAt
		seedGoal(t, goalRepo, g)
		return g
	}

	soonEnd := now.Add(3 * 24 * time.Hour)
	soonerEnd := now.Add(1 * 24 * time.Hour)
	farEnd := now.Add(30 * 24 * time.Hour)
	recentCompletion := now.Add(-5 * 24 * time.Hour)
	oldCompletion := now.Add(-60 * 24 * time.Hour)

	seed(entity.GoalTypeRevenue, entity.GoalStatusActive, 60, soonEnd, nil)
	seed(entity.GoalTypeRevenue, entity.GoalStatusActive, 20, soonerEnd, nil)
	seed(entity.GoalTypeDistance, entity.GoalStatusActive, 40, farEnd, nil)
	seed(entity.GoalTypeDistance, entity.GoalStatusPaused, 10, soonEnd, nil)
	seed(entity.GoalTypeTripCount, entity.GoalStatusCompleted, 100, farEnd, &recentCompletion)
	seed(entity.GoalTypeRevenue, entity.GoalStatusCompleted, 100, farEnd, &oldCompletion)
	// Other owners must never leak into the stats.
	foreign := makeGoal(uuid.New(), entity.GoalTypeRevenue, 100000)
	seedGoal(t, goalRepo, foreign)

	t.Run("counts by status and type", func(t *testing.T) {
		counts, err := statsRepo.CountByStatusAndType(ctx, owner)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		byBucket := make(map[string]int64)
		var total int64
		for _, c := range counts {
			byBucket[string(c.Status)+"/"+string(c.Type)] = c.Count
			total += c.Count
		}
		if total != 6 {
			t.Errorf("expected 6 goals counted, got %d", total)
		}
		if byBucket["active/revenue"] != 2 {
			t.Errorf("expected 2 active revenue goals, got %d", byBucket["active/revenue"])
		}
		if byBucket["paused/distance"] != 1 {
			t.Errorf("expected 1 paused distance goal, got %d", byBucket["paused/distance"])
		}
	})

	t.Run("averages percent per status", func(t *testing.T) {
		averages, err := statsRepo.AveragePercentByStatus(ctx, owner)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		byStatus := make(map[entity.GoalStatus]float64)
		for _, a := range averages {
			byStatus[a.Status] = a.AveragePercent
		}
		if got := byStatus[entity.GoalStatusActive]; got != 40 {
			t.Errorf("expected active average 40, got %v", got)
		}
		if got := byStatus[entity.GoalStatusCompleted]; got != 100 {
			t.Errorf("expected completed average 100, got %v", got)
		}
	})

	t.Run("expiring soon lists active goals soonest first", func(t *testing.T) {
		goals, err := statsRepo.ExpiringSoon(ctx, owner, now, now.Add(7*24*time.Hour))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(goals) != 2 {
			t.Fatalf("expected 2 expiring goals, got %d", len(goals))
		}
		if !goals[0].EndDate.Equal(soonerEnd) {
			t.Errorf("expected the soonest end date first, got %v", goals[0].EndDate)
		}
		for _, g := range goals {
			if g.Status != entity.GoalStatusActive {
				t.Errorf("expected only active goals, got %s", g.Status)
			}
		}
	})

	t.Run("recently completed keeps only the last 30 days", func(t *testing.T) {
		goals, err := statsRepo.RecentlyCompleted(ctx, owner, now.Add(-30*24*time.Hour))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(goals) != 1 {
			t.Fatalf("expected 1 recently completed goal, got %d", len(goals))
		}
		if goals[0].Type != entity.GoalTypeTripCount {
			t.Errorf("unexpected goal in recently completed: %s", goals[0].Type)
		}
	})
}
