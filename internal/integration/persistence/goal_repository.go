// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/driverlog/backend/internal/application/adapter"
	"github.com/driverlog/backend/internal/domain/entity"
	domainerror "github.com/driverlog/backend/internal/domain/error"
	"github.com/driverlog/backend/internal/integration/persistence/model"
)

// goalSortColumns whitelists the sortable columns. Anything outside this map
// falls back to creation order.
var goalSortColumns = map[adapter.GoalSortField]string{
	adapter.GoalSortStartDate:   "start_date",
	adapter.GoalSortEndDate:     "end_date",
	adapter.GoalSortPercent:     "percent_complete",
	adapter.GoalSortTargetValue: "target_value",
}

// goalRepository implements the adapter.GoalRepository interface.
type goalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new goal repository instance.
func NewGoalRepository(db *gorm.DB) adapter.GoalRepository {
	return &goalRepository{
		db: db,
	}
}

// Create inserts a new goal.
func (r *goalRepository) Create(ctx context.Context, goal *entity.Goal) error {
	goalModel := model.GoalFromEntity(goal)
	result := r.db.WithContext(ctx).Create(goalModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a goal by its ID, excluding soft-deleted rows.
func (r *goalRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Goal, error) {
	var goalModel model.GoalModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&goalModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrGoalNotFound
		}
		return nil, result.Error
	}
	return goalModel.ToEntity(), nil
}

// FindByOwner retrieves a page of the owner's goals plus the unpaged total.
func (r *goalRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filters adapter.GoalFilters, sort adapter.GoalSort, page adapter.GoalPage) ([]*entity.Goal, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&model.GoalModel{}).
		Where("owner_id = ?", ownerID)

	if filters.VehicleID != nil {
		query = query.Where("vehicle_id = ?", *filters.VehicleID)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", string(*filters.Type))
	}
	if filters.Status != nil {
		query = query.Where("status = ?", string(*filters.Status))
	}
	if filters.Period != nil {
		query = query.Where("period = ?", string(*filters.Period))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if column, ok := goalSortColumns[sort.Field]; ok {
		order = column + " ASC"
		if sort.Descending {
			order = column + " DESC"
		}
	}

	var goalModels []model.GoalModel
	result := query.
		Order(order).
		Offset((page.Page - 1) * page.Limit).
		Limit(page.Limit).
		Find(&goalModels)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	goals := make([]*entity.Goal, len(goalModels))
	for i, gm := range goalModels {
		goals[i] = gm.ToEntity()
	}
	return goals, total, nil
}

// Update persists owner edits, atomically bumping the version counter so a
// concurrent recomputation's compare-and-set cannot silently clobber them.
func (r *goalRepository) Update(ctx context.Context, goal *entity.Goal) error {
	result := r.db.WithContext(ctx).
		Model(&model.GoalModel{}).
		Where("id = ?", goal.ID).
		Updates(map[string]interface{}{
			"title":        goal.Title,
			"description":  goal.Description,
			"type":         string(goal.Type),
			"period":       string(goal.Period),
			"target_value": goal.TargetValue,
			"start_date":   goal.StartDate,
			"end_date":     goal.EndDate,
			"vehicle_id":   goal.VehicleID,
			"status":       string(goal.Status),
			"updated_at":   goal.UpdatedAt,
			"version":      gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrGoalNotFound
	}
	return nil
}

// UpdateProgress writes the recomputed snapshot guarded by a version
// compare-and-set, so two overlapping recomputations cannot interleave into a
// corrupted value/percent pair.
func (r *goalRepository) UpdateProgress(ctx context.Context, goal *entity.Goal, expectedVersion int64) error {
	result := r.db.WithContext(ctx).
		Model(&model.GoalModel{}).
		Where("id = ? AND version = ?", goal.ID, expectedVersion).
		Updates(map[string]interface{}{
			"current_value":    goal.CurrentValue,
			"percent_complete": goal.PercentComplete,
			"status":           string(goal.Status),
			"completed_at":     goal.CompletedAt,
			"updated_at":       goal.UpdatedAt,
			"version":          expectedVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrGoalVersionConflict
	}
	return nil
}

// Delete soft-deletes a goal. Progress events are left untouched.
func (r *goalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.GoalModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	return nil
}
