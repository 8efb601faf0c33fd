package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/driverlog/backend/internal/application/adapter"
	"github.com/driverlog/backend/internal/domain/entity"
	"github.com/driverlog/backend/internal/integration/persistence/model"
)

// progressEventRepository implements the adapter.ProgressEventRepository
// interface. The table is append-only; update and delete paths deliberately
// do not exist.
type progressEventRepository struct {
	db *gorm.DB
}

// NewProgressEventRepository creates a new progress event repository instance.
func NewProgressEventRepository(db *gorm.DB) adapter.ProgressEventRepository {
	return &progressEventRepository{
		db: db,
	}
}

// Append stores a new progress event.
func (r *progressEventRepository) Append(ctx context.Context, event *entity.ProgressEvent) error {
	eventModel := model.ProgressEventFromEntity(event)
	result := r.db.WithContext(ctx).Create(eventModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByGoalID returns up to limit events for a goal, most recent first.
func (r *progressEventRepository) FindByGoalID(ctx context.Context, goalID uuid.UUID, limit int) ([]*entity.ProgressEvent, error) {
	var eventModels []model.ProgressEventModel
	result := r.db.WithContext(ctx).
		Where("goal_id = ?", goalID).
		Order("recorded_at DESC").
		Limit(limit).
		Find(&eventModels)
	if result.Error != nil {
		return nil, result.Error
	}

	events := make([]*entity.ProgressEvent, len(eventModels))
	for i, em := range eventModels {
		events[i] = em.ToEntity()
	}
	return events, nil
}
