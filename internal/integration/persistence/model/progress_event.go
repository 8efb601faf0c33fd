package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/driverlog/backend/internal/domain/entity"
)

// ProgressEventModel represents the goal_progress_events table. Rows are
// insert-only; there is no updated_at and no soft delete because events are
// never mutated or removed.
type ProgressEventModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	GoalID          uuid.UUID `gorm:"type:uuid;not null;index:idx_progress_events_goal_recorded,priority:1"`
	PreviousValue   int64     `gorm:"not null"`
	NewValue        int64     `gorm:"not null"`
	Delta           int64     `gorm:"not null"`
	PreviousPercent int       `gorm:"not null"`
	NewPercent      int       `gorm:"not null"`
	RecordedAt      time.Time `gorm:"not null;index:idx_progress_events_goal_recorded,priority:2"`
	Note            string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for the ProgressEventModel.
func (ProgressEventModel) TableName() string {
	return "goal_progress_events"
}

// ToEntity converts a ProgressEventModel to a domain ProgressEvent entity.
func (m *ProgressEventModel) ToEntity() *entity.ProgressEvent {
	return &entity.ProgressEvent{
		ID:              m.ID,
		GoalID:          m.GoalID,
		PreviousValue:   m.PreviousValue,
		NewValue:        m.NewValue,
		Delta:           m.Delta,
		PreviousPercent: m.PreviousPercent,
		NewPercent:      m.NewPercent,
		RecordedAt:      m.RecordedAt,
		Note:            m.Note,
		CreatedAt:       m.CreatedAt,
	}
}

// ProgressEventFromEntity creates a ProgressEventModel from a domain entity.
func ProgressEventFromEntity(event *entity.ProgressEvent) *ProgressEventModel {
	return &ProgressEventModel{
		ID:              event.ID,
		GoalID:          event.GoalID,
		PreviousValue:   event.PreviousValue,
		NewValue:        event.NewValue,
		Delta:           event.Delta,
		PreviousPercent: event.PreviousPercent,
		NewPercent:      event.NewPercent,
		RecordedAt:      event.RecordedAt,
		Note:            event.Note,
		CreatedAt:       event.CreatedAt,
	}
}
