package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProgressEvent is an append-only audit record of a goal's value and percent
// change at a point in time. Events are never mutated or deleted; they survive
// the soft deletion of their goal.
type ProgressEvent struct {
	ID              uuid.UUID
	GoalID          uuid.UUID
	PreviousValue   int64
	NewValue        int64
	Delta           int64
	PreviousPercent int
	NewPercent      int
	RecordedAt      time.Time
	Note            string
	CreatedAt       time.Time
}

// NewProgressEvent creates a progress event for a recomputation that changed
// the goal's value or percent.
func NewProgressEvent(goalID uuid.UUID, previousValue, newValue int64, previousPercent, newPercent int, recordedAt time.Time) *ProgressEvent {
	return &ProgressEvent{
		ID:              uuid.New(),
		GoalID:          goalID,
		PreviousValue:   previousValue,
		NewValue:        newValue,
		Delta:           newValue - previousValue,
		PreviousPercent: previousPercent,
		NewPercent:      newPercent,
		RecordedAt:      recordedAt,
		CreatedAt:       recordedAt,
	}
}
