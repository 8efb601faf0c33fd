// Package goal contains goal-related use cases and the progress engine.
package goal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/driverlog/backend/internal/application/adapter"
	"github.com/driverlog/backend/internal/domain/entity"
	domainerror "github.com/driverlog/backend/internal/domain/error"
)

// EngineConfig tunes the progress engine.
type EngineConfig struct {
	// MinPercentDelta is the smallest percent-complete change that records a
	// progress event. A change in the raw aggregate always records one.
	MinPercentDelta int
}

// RecomputeResult reports the outcome of one recomputation pass. Refreshed
// distinguishes a freshly computed goal from a stored snapshot so callers can
// expose the difference.
type RecomputeResult struct {
	Goal        *entity.Goal
	Refreshed   bool
	EventLogged bool
}

// ProgressEngine re-derives a goal's current value, percent and lifecycle
// status from stored facts. Only Active goals are recomputed; Paused,
// Completed and Expired goals keep their last persisted snapshot.
type ProgressEngine struct {
	goalRepo        adapter.GoalRepository
	eventRepo       adapter.ProgressEventRepository
	facts           adapter.FactReader
	clock           adapter.Clock
	minPercentDelta int
}

// NewProgressEngine creates a new ProgressEngine instance.
func NewProgressEngine(
	goalRepo adapter.GoalRepository,
	eventRepo adapter.ProgressEventRepository,
	facts adapter.FactReader,
	clock adapter.Clock,
	cfg EngineConfig,
) *ProgressEngine {
	minDelta := cfg.MinPercentDelta
	if minDelta < 1 {
		minDelta = 1
	}
	return &ProgressEngine{
		goalRepo:        goalRepo,
		eventRepo:       eventRepo,
		facts:           facts,
		clock:           clock,
		minPercentDelta: minDelta,
	}
}

// Recompute runs one recomputation pass over a single goal. Non-Active goals
// are returned unchanged without touching the fact tables.
//
// A concurrent write to the same goal row is retried once on a fresh read.
// If the retry conflicts as well, the freshest stored row is returned together
// with a conflict error and no duplicate event is logged; callers decide
// whether to surface or swallow it.
func (e *ProgressEngine) Recompute(ctx context.Context, goal *entity.Goal) (*RecomputeResult, error) {
	if goal.Status != entity.GoalStatusActive {
		return &RecomputeResult{Goal: goal}, nil
	}

	result, err := e.recomputeOnce(ctx, goal, e.facts)
	if err == nil || !errors.Is(err, domainerror.ErrGoalVersionConflict) {
		return result, err
	}

	// Lost the race: re-read and retry once.
	fresh, err := e.goalRepo.FindByID(ctx, goal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read goal after version conflict: %w", err)
	}
	if fresh.Status != entity.GoalStatusActive {
		return &RecomputeResult{Goal: fresh}, nil
	}

	result, err = e.recomputeOnce(ctx, fresh, e.facts)
	if err == nil || !errors.Is(err, domainerror.ErrGoalVersionConflict) {
		return result, err
	}

	fresh, readErr := e.goalRepo.FindByID(ctx, goal.ID)
	if readErr != nil {
		return nil, fmt.Errorf("failed to re-read goal after version conflict: %w", readErr)
	}
	return &RecomputeResult{Goal: fresh}, domainerror.NewGoalError(
		domainerror.ErrCodeGoalVersionConflict,
		"goal was updated concurrently",
		domainerror.ErrGoalVersionConflict,
	)
}

// RecomputeBatch recomputes a list of goals independently. A failure on one
// goal is logged and leaves that goal's stored snapshot in the result; the
// remaining goals still proceed. Aggregates are memoized per (owner, vehicle,
// window) so recomputing many goals over the same scope scans each fact table
// once.
func (e *ProgressEngine) RecomputeBatch(ctx context.Context, goals []*entity.Goal) []*RecomputeResult {
	facts := newMemoizingFactReader(e.facts)
	results := make([]*RecomputeResult, 0, len(goals))

	for _, g := range goals {
		if ctx.Err() != nil {
			results = append(results, &RecomputeResult{Goal: g})
			continue
		}
		if g.Status != entity.GoalStatusActive {
			results = append(results, &RecomputeResult{Goal: g})
			continue
		}

		result, err := e.recomputeWithRetry(ctx, g, facts)
		if err != nil {
			slog.Warn("goal recomputation failed, returning last persisted value",
				"goal_id", g.ID,
				"goal_type", g.Type,
				"error", err,
			)
			if result == nil {
				result = &RecomputeResult{Goal: g}
			}
		}
		results = append(results, result)
	}

	return results
}

// recomputeWithRetry mirrors Recompute but against a caller-supplied fact
// reader, so batch runs share one memo table.
func (e *ProgressEngine) recomputeWithRetry(ctx context.Context, goal *entity.Goal, facts adapter.FactReader) (*RecomputeResult, error) {
	result, err := e.recomputeOnce(ctx, goal, facts)
	if err == nil || !errors.Is(err, domainerror.ErrGoalVersionConflict) {
		return result, err
	}

	fresh, err := e.goalRepo.FindByID(ctx, goal.ID)
	if err != nil {
		return nil, err
	}
	if fresh.Status != entity.GoalStatusActive {
		return &RecomputeResult{Goal: fresh}, nil
	}
	result, err = e.recomputeOnce(ctx, fresh, facts)
	if err != nil && errors.Is(err, domainerror.ErrGoalVersionConflict) {
		if fresh, readErr := e.goalRepo.FindByID(ctx, goal.ID); readErr == nil {
			return &RecomputeResult{Goal: fresh}, err
		}
	}
	return result, err
}

// recomputeOnce performs a single read-compute-write cycle guarded by the
// goal's version.
func (e *ProgressEngine) recomputeOnce(ctx context.Context, goal *entity.Goal, facts adapter.FactReader) (*RecomputeResult, error) {
	currentValue, err := e.aggregate(ctx, goal, facts)
	if err != nil {
		return nil, domainerror.NewGoalError(
			domainerror.ErrCodeProgressAggregation,
			"could not refresh progress",
			err,
		)
	}

	now := e.clock.Now()
	updated := *goal
	updated.CurrentValue = currentValue
	updated.PercentComplete = PercentComplete(currentValue, goal.TargetValue)

	switch {
	case updated.PercentComplete >= 100:
		updated.Status = entity.GoalStatusCompleted
		completedAt := now
		updated.CompletedAt = &completedAt
	case now.After(goal.EndDate):
		updated.Status = entity.GoalStatusExpired
	}
	updated.UpdatedAt = now

	// The goal row is written unconditionally on every pass; the event below
	// is only appended for significant changes.
	if err := e.goalRepo.UpdateProgress(ctx, &updated, goal.Version); err != nil {
		return nil, err
	}
	updated.Version = goal.Version + 1

	result := &RecomputeResult{Goal: &updated, Refreshed: true}

	if e.isSignificantChange(goal, &updated) {
		event := entity.NewProgressEvent(
			goal.ID,
			goal.CurrentValue,
			updated.CurrentValue,
			goal.PercentComplete,
			updated.PercentComplete,
			now,
		)
		if err := e.eventRepo.Append(ctx, event); err != nil {
			return result, fmt.Errorf("failed to append progress event: %w", err)
		}
		result.EventLogged = true
	}

	return result, nil
}

// aggregate dispatches to the fact reader matching the goal's type. The switch
// is exhaustive over the five goal types.
func (e *ProgressEngine) aggregate(ctx context.Context, goal *entity.Goal, facts adapter.FactReader) (int64, error) {
	window := adapter.FactWindow{Start: goal.StartDate, End: goal.EndDate}

	switch goal.Type {
	case entity.GoalTypeRevenue:
		return facts.JourneyEarnings(ctx, goal.OwnerID, goal.VehicleID, window)

	case entity.GoalTypeDistance:
		return facts.JourneyDistance(ctx, goal.OwnerID, goal.VehicleID, window)

	case entity.GoalTypeTripCount:
		return facts.JourneyCount(ctx, goal.OwnerID, goal.VehicleID, window)

	case entity.GoalTypeSavings:
		earnings, err := facts.JourneyEarnings(ctx, goal.OwnerID, goal.VehicleID, window)
		if err != nil {
			return 0, err
		}
		expenses, err := facts.ExpenseTotal(ctx, goal.OwnerID, goal.VehicleID, window)
		if err != nil {
			return 0, err
		}
		return earnings - expenses, nil

	case entity.GoalTypeProfit:
		earnings, err := facts.JourneyEarnings(ctx, goal.OwnerID, goal.VehicleID, window)
		if err != nil {
			return 0, err
		}
		expenses, err := facts.ExpenseTotal(ctx, goal.OwnerID, goal.VehicleID, window)
		if err != nil {
			return 0, err
		}
		fuel, err := facts.FuelingCostTotal(ctx, goal.OwnerID, goal.VehicleID, window)
		if err != nil {
			return 0, err
		}
		return earnings - (expenses + fuel), nil

	default:
		return 0, domainerror.ErrInvalidGoalType
	}
}

// isSignificantChange decides whether a recomputation deserves an audit event.
func (e *ProgressEngine) isSignificantChange(before, after *entity.Goal) bool {
	if before.CurrentValue != after.CurrentValue {
		return true
	}
	delta := after.PercentComplete - before.PercentComplete
	if delta < 0 {
		delta = -delta
	}
	return delta >= e.minPercentDelta
}

// PercentComplete derives the completion percentage of current against target,
// rounded and clamped to [0, 100].
func PercentComplete(current, target int64) int {
	if target <= 0 {
		return 0
	}
	percent := int(math.Round(float64(current) / float64(target) * 100))
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// memoizingFactReader caches aggregate results per (metric, owner, vehicle,
// window) for the lifetime of one batch recomputation. Batch runs are
// request-scoped and sequential, so no locking is needed.
type memoizingFactReader struct {
	inner adapter.FactReader
	cache map[factKey]int64
}

type factKey struct {
	metric    string
	ownerID   uuid.UUID
	vehicleID uuid.UUID // uuid.Nil when the goal spans all vehicles
	start     time.Time
	end       time.Time
}

func newMemoizingFactReader(inner adapter.FactReader) *memoizingFactReader {
	return &memoizingFactReader{
		inner: inner,
		cache: make(map[factKey]int64),
	}
}

func (m *memoizingFactReader) lookup(
	ctx context.Context,
	metric string,
	ownerID uuid.UUID,
	vehicleID *uuid.UUID,
	window adapter.FactWindow,
	query func(context.Context, uuid.UUID, *uuid.UUID, adapter.FactWindow) (int64, error),
) (int64, error) {
	key := factKey{metric: metric, ownerID: ownerID, start: window.Start, end: window.End}
	if vehicleID != nil {
		key.vehicleID = *vehicleID
	}
	if value, ok := m.cache[key]; ok {
		return value, nil
	}

	value, err := query(ctx, ownerID, vehicleID, window)
	if err != nil {
		return 0, err
	}
	m.cache[key] = value
	return value, nil
}

func (m *memoizingFactReader) JourneyEarnings(ctx context.Context, ownerID uuid.UUID, vehicleID *uuid.UUID, window adapter.FactWindow) (int64, error) {
	return m.lookup(ctx, "journey_earnings", ownerID, vehicleID, window, m.inner.JourneyEarnings)
}

func (m *memoizingFactReader) JourneyDistance(ctx context.Context, ownerID uuid.UUID, vehicleID *uuid.UUID, window adapter.FactWindow) (int64, error) {
	return m.lookup(ctx, "journey_distance", ownerID, vehicleID, window, m.inner.JourneyDistance)
}

func (m *memoizingFactReader) JourneyCount(ctx context.Context, ownerID uuid.UUID, vehicleID *uuid.UUID, window adapter.FactWindow) (int64, error) {
	return m.lookup(ctx, "journey_count", ownerID, vehicleID, window, m.inner.JourneyCount)
}

func (m *memoizingFactReader) ExpenseTotal(ctx context.Context, ownerID uuid.UUID, vehicleID *uuid.UUID, window adapter.FactWindow) (int64, error) {
	return m.lookup(ctx, "expense_total", ownerID, vehicleID, window, m.inner.ExpenseTotal)
}

func (m *memoizingFactReader) FuelingCostTotal(ctx context.Context, ownerID uuid.UUID, vehicleID *uuid.UUID, window adapter.FactWindow) (int64, error) {
	return m.lookup(ctx, "fueling_cost_total", ownerID, vehicleID, window, m.inner.FuelingCostTotal)
}
