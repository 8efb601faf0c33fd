package adapter

import (
	"context"

	"github.com/google/uuid"
)

// VehicleRepository is the read-only view of the vehicle subsystem the goal
// engine needs: an ownership check over non-deleted vehicles.
type VehicleRepository interface {
	// OwnedByUser reports whether the vehicle exists, is not soft-deleted, and
	// belongs to the given owner.
	OwnedByUser(ctx context.Context, vehicleID, ownerID uuid.UUID) (bool, error)
}
