package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/driverlog/backend/internal/application/usecase/goal"
	"github.com/driverlog/backend/internal/domain/entity"
	"github.com/driverlog/backend/internal/integration/persistence/model"
)

// goalStatsRepository implements the goal.StatsRepository interface. It only
// reads the goals table's last persisted snapshot; it never touches the fact
// tables and never recomputes.
type goalStatsRepository struct {
	db *gorm.DB
}

// NewGoalStatsRepository creates a new goal statistics repository instance.
func NewGoalStatsRepository(db *gorm.DB) goal.StatsRepository {
	return &goalStatsRepository{
		db: db,
	}
}

// CountByStatusAndType returns goal counts grouped by (status, type).
func (r *goalStatsRepository) CountByStatusAndType(ctx context.Context, ownerID uuid.UUID) ([]goal.StatusTypeCount, error) {
	var results []struct {
		Status string `gorm:"column:status"`
		Type   string `gorm:"column:type"`
		Count  int64  `gorm:"column:count"`
	}

	err := r.db.WithContext(ctx).
		Model(&model.GoalModel{}).
		Select("status, type, COUNT(*) as count").
		Where("owner_id = ?", ownerID).
		Group("status, type").
		Order("status, type").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count goals by status and type: %w", err)
	}

	counts := make([]goal.StatusTypeCount, len(results))
	for i, res := range results {
		counts[i] = goal.StatusTypeCount{
			Status: entity.GoalStatus(res.Status),
			Type:   entity.GoalType(res.Type),
			Count:  res.Count,
		}
	}
	return counts, nil
}

// AveragePercentByStatus returns the mean percent-complete per status.
func (r *goalStatsRepository) AveragePercentByStatus(ctx context.Context, ownerID uuid.UUID) ([]goal.StatusAverage, error) {
	var results []struct {
		Status         string  `gorm:"column:status"`
		AveragePercent float64 `gorm:"column:average_percent"`
	}

	err := r.db.WithContext(ctx).
		Model(&model.GoalModel{}).
		Select("status, AVG(percent_complete) as average_percent").
		Where("owner_id = ?", ownerID).
		Group("status").
		Order("status").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to average goal progress by status: %w", err)
	}

	averages := make([]goal.StatusAverage, len(results))
	for i, res := range results {
		averages[i] = goal.StatusAverage{
			Status:         entity.GoalStatus(res.Status),
			AveragePercent: res.AveragePercent,
		}
	}
	return averages, nil
}

// ExpiringSoon returns Active goals ending in [from, to], soonest first.
func (r *goalStatsRepository) ExpiringSoon(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]*entity.Goal, error) {
	var goalModels []model.GoalModel
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Where("status = ?", string(entity.GoalStatusActive)).
		Where("end_date >= ? AND end_date <= ?", from, to).
		Order("end_date ASC").
		Find(&goalModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toGoalEntities(goalModels), nil
}

// RecentlyCompleted returns goals completed at or after since, most recent
// completion first.
func (r *goalStatsRepository) RecentlyCompleted(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]*entity.Goal, error) {
	var goalModels []model.GoalModel
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Where("status = ?", string(entity.GoalStatusCompleted)).
		Where("completed_at >= ?", since).
		Order("completed_at DESC").
		Find(&goalModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toGoalEntities(goalModels), nil
}

func toGoalEntities(goalModels []model.GoalModel) []*entity.Goal {
	goals := make([]*entity.Goal, len(goalModels))
	for i, gm := range goalModels {
		goals[i] = gm.ToEntity()
	}
	return goals
}
