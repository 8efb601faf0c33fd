package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/driverlog/backend/internal/application/adapter"
	"github.com/driverlog/backend/internal/integration/persistence/model"
)

// vehicleRepository implements the read-only vehicle view the goal engine
// needs. Vehicle CRUD belongs to its own subsystem.
type vehicleRepository struct {
	db *gorm.DB
}

// NewVehicleRepository creates a new vehicle repository instance.
func NewVehicleRepository(db *gorm.DB) adapter.VehicleRepository {
	return &vehicleRepository{
		db: db,
	}
}

// OwnedByUser reports whether the vehicle exists, is not soft-deleted, and
// belongs to the given owner.
func (r *vehicleRepository) OwnedByUser(ctx context.Context, vehicleID, ownerID uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.VehicleModel{}).
		Where("id = ? AND owner_id = ?", vehicleID, ownerID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}
