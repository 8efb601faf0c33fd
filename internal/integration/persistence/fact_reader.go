package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/driverlog/backend/internal/application/adapter"
	"github.com/driverlog/backend/internal/integration/persistence/model"
)

// factReader implements adapter.FactReader with one aggregate query per call.
// GORM's soft-delete scope keeps tombstoned source rows out of every sum.
type factReader struct {
	db *gorm.DB
}

// NewFactReader creates a new fact reader instance.
func NewFactReader(db *gorm.DB) adapter.FactReader {
	return &factReader{
		db: db,
	}
}

// JourneyEarnings sums gross earnings over journeys in the window.
func (r *factReader) JourneyEarnings(ctx context.Context, ownerID uuid.UUID, vehicleID *uuid.UUID, window adapter.FactWindow) (int64, error) {
	return r.sum(ctx, &model.JourneyModel{}, "COALESCE(SUM(gross_earnings), 0)", ownerID, vehicleID, window)
}

// JourneyDistance sums total distance over journeys in the window.
func (r *factReader) JourneyDistance(ctx context.Context, ownerID uuid.UUID, vehicleID *uuid.UUID, window adapter.FactWindow) (int64, error) {
	return r.sum(ctx, &model.JourneyModel{}, "COALESCE(SUM(total_distance), 0)", ownerID, vehicleID, window)
}

// JourneyCount counts journeys in the window.
func (r *factReader) JourneyCount(ctx context.Context, ownerID uuid.UUID, vehicleID *uuid.UUID, window adapter.FactWindow) (int64, error) {
	var count int64
	result := r.scope(ctx, &model.JourneyModel{}, ownerID, vehicleID, window).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// ExpenseTotal sums expense amounts in the window.
func (r *factReader) ExpenseTotal(ctx context.Context, ownerID uuid.UUID, vehicleID *uuid.UUID, window adapter.FactWindow) (int64, error) {
	return r.sum(ctx, &model.ExpenseModel{}, "COALESCE(SUM(amount), 0)", ownerID, vehicleID, window)
}

// FuelingCostTotal sums fueling costs in the window.
func (r *factReader) FuelingCostTotal(ctx context.Context, ownerID uuid.UUID, vehicleID *uuid.UUID, window adapter.FactWindow) (int64, error) {
	return r.sum(ctx, &model.FuelingModel{}, "COALESCE(SUM(total_cost), 0)", ownerID, vehicleID, window)
}

func (r *factReader) sum(ctx context.Context, tableModel interface{}, selectExpr string, ownerID uuid.UUID, vehicleID *uuid.UUID, window adapter.FactWindow) (int64, error) {
	var total int64
	result := r.scope(ctx, tableModel, ownerID, vehicleID, window).
		Select(selectExpr).
		Scan(&total)
	if result.Error != nil {
		return 0, result.Error
	}
	return total, nil
}

// scope applies the shared owner/vehicle/window filter. The window is
// inclusive on both ends.
func (r *factReader) scope(ctx context.Context, tableModel interface{}, ownerID uuid.UUID, vehicleID *uuid.UUID, window adapter.FactWindow) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(tableModel).
		Where("owner_id = ?", ownerID).
		Where("date >= ? AND date <= ?", window.Start, window.End)
	if vehicleID != nil {
		query = query.Where("vehicle_id = ?", *vehicleID)
	}
	return query
}
