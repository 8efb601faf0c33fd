package goal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/driverlog/backend/internal/application/adapter"
	"github.com/driverlog/backend/internal/domain/entity"
)

const (
	expiringSoonWindow      = 7 * 24 * time.Hour
	recentlyCompletedWindow = 30 * 24 * time.Hour
)

// StatusTypeCount is the number of goals in one (status, type) bucket.
type StatusTypeCount struct {
	Status entity.GoalStatus `json:"status"`
	Type   entity.GoalType   `json:"type"`
	Count  int64             `json:"count"`
}

// StatusAverage is the average completion percentage of goals in one status.
type StatusAverage struct {
	Status         entity.GoalStatus `json:"status"`
	AveragePercent float64           `json:"average_percent"`
}

// StatsRepository is the read-only reporting view the statistics aggregator
// runs on. It reads the goal store's last persisted snapshot and never
// triggers recomputation.
type StatsRepository interface {
	// CountByStatusAndType returns goal counts grouped by (status, type).
	CountByStatusAndType(ctx context.Context, ownerID uuid.UUID) ([]StatusTypeCount, error)

	// AveragePercentByStatus returns the mean percent-complete per status.
	AveragePercentByStatus(ctx context.Context, ownerID uuid.UUID) ([]StatusAverage, error)

	// ExpiringSoon returns Active goals whose end date falls in [from, to],
	// soonest first.
	ExpiringSoon(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]*entity.Goal, error)

	// RecentlyCompleted returns goals completed at or after since, most recent
	// completion first.
	RecentlyCompleted(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]*entity.Goal, error)
}

// GoalStatsOutput is the per-owner statistics snapshot.
type GoalStatsOutput struct {
	Counts            []StatusTypeCount `json:"counts"`
	Averages          []StatusAverage   `json:"averages"`
	ExpiringSoon      []*entity.Goal    `json:"expiring_soon"`
	RecentlyCompleted []*entity.Goal    `json:"recently_completed"`
	GeneratedAt       time.Time         `json:"generated_at"`
}

// GetGoalStatsInput represents the input for the statistics view.
type GetGoalStatsInput struct {
	OwnerID uuid.UUID
}

// GetGoalStatsUseCase rolls up the per-owner goal statistics. The result is a
// cheap, side-effect-free snapshot cached in Redis for a short TTL; cache
// failures degrade to direct reads.
type GetGoalStatsUseCase struct {
	statsRepo StatsRepository
	cache     adapter.StatsCache // nil disables caching
	clock     adapter.Clock
	cacheTTL  time.Duration
}

// NewGetGoalStatsUseCase creates a new GetGoalStatsUseCase instance.
func NewGetGoalStatsUseCase(statsRepo StatsRepository, cache adapter.StatsCache, clock adapter.Clock, cacheTTL time.Duration) *GetGoalStatsUseCase {
	return &GetGoalStatsUseCase{
		statsRepo: statsRepo,
		cache:     cache,
		clock:     clock,
		cacheTTL:  cacheTTL,
	}
}

// Execute returns the owner's statistics snapshot.
func (uc *GetGoalStatsUseCase) Execute(ctx context.Context, input GetGoalStatsInput) (*GoalStatsOutput, error) {
	cacheKey := statsCacheKey(input.OwnerID)

	if cached := uc.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	output, err := uc.build(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	uc.toCache(ctx, cacheKey, output)
	return output, nil
}

func (uc *GetGoalStatsUseCase) build(ctx context.Context, ownerID uuid.UUID) (*GoalStatsOutput, error) {
	now := uc.clock.Now()

	counts, err := uc.statsRepo.CountByStatusAndType(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count goals: %w", err)
	}

	averages, err := uc.statsRepo.AveragePercentByStatus(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to average goal progress: %w", err)
	}

	expiring, err := uc.statsRepo.ExpiringSoon(ctx, ownerID, now, now.Add(expiringSoonWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to load expiring goals: %w", err)
	}

	completed, err := uc.statsRepo.RecentlyCompleted(ctx, ownerID, now.Add(-recentlyCompletedWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to load recently completed goals: %w", err)
	}

	return &GoalStatsOutput{
		Counts:            counts,
		Averages:          averages,
		ExpiringSoon:      expiring,
		RecentlyCompleted: completed,
		GeneratedAt:       now,
	}, nil
}

func (uc *GetGoalStatsUseCase) fromCache(ctx context.Context, key string) *GoalStatsOutput {
	if uc.cache == nil {
		return nil
	}

	data, found, err := uc.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("goal stats cache read failed", "error", err)
		return nil
	}
	if !found {
		return nil
	}

	var output GoalStatsOutput
	if err := json.Unmarshal(data, &output); err != nil {
		slog.Warn("goal stats cache entry is malformed, ignoring", "error", err)
		return nil
	}
	return &output
}

func (uc *GetGoalStatsUseCase) toCache(ctx context.Context, key string, output *GoalStatsOutput) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(output)
	if err != nil {
		slog.Warn("failed to serialize goal stats for caching", "error", err)
		return
	}
	if err := uc.cache.Set(ctx, key, data, uc.cacheTTL); err != nil {
		slog.Warn("goal stats cache write failed", "error", err)
	}
}

func statsCacheKey(ownerID uuid.UUID) string {
	return "goal_stats:" + ownerID.String()
}
