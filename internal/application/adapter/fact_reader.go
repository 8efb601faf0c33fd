package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FactWindow is the inclusive date range an aggregation is restricted to.
type FactWindow struct {
	Start time.Time
	End   time.Time
}

// FactReader exposes read-only aggregates over the journey, fueling and
// expense read models owned by other subsystems. Every method is a single
// query, scoped to non-deleted rows of the given owner, optionally restricted
// to one vehicle, and returns zero when no rows match.
type FactReader interface {
	// JourneyEarnings sums gross earnings (minor units) over journeys in the window.
	JourneyEarnings(ctx context.Context, ownerID uuid.UUID, vehicleID *uuid.UUID, window FactWindow) (int64, error)

	// JourneyDistance sums total distance (km) over journeys in the window.
	JourneyDistance(ctx context.Context, ownerID uuid.UUID, vehicleID *uuid.UUID, window FactWindow) (int64, error)

	// JourneyCount counts journeys in the window.
	JourneyCount(ctx context.Context, ownerID uuid.UUID, vehicleID *uuid.UUID, window FactWindow) (int64, error)

	// ExpenseTotal sums expense amounts (minor units) in the window.
	ExpenseTotal(ctx context.Context, ownerID uuid.UUID, vehicleID *uuid.UUID, window FactWindow) (int64, error)

	// FuelingCostTotal sums fueling total costs (minor units) in the window.
	FuelingCostTotal(ctx context.Context, ownerID uuid.UUID, vehicleID *uuid.UUID, window FactWindow) (int64, error)
}
