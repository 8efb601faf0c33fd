// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// GoalType determines which facts a goal aggregates and how its values are
// rendered. Monetary types hold minor currency units (cents); distance holds
// whole kilometers and trip count a plain count.
type GoalType string

const (
	GoalTypeRevenue   GoalType = "revenue"
	GoalTypeDistance  GoalType = "distance"
	GoalTypeTripCount GoalType = "trip_count"
	GoalTypeSavings   GoalType = "savings"
	GoalTypeProfit    GoalType = "profit"
)

// GoalPeriod is an informational grouping label. The aggregation window is
// always the explicit StartDate..EndDate pair, not derived from the period.
type GoalPeriod string

const (
	GoalPeriodWeekly    GoalPeriod = "weekly"
	GoalPeriodMonthly   GoalPeriod = "monthly"
	GoalPeriodQuarterly GoalPeriod = "quarterly"
	GoalPeriodYearly    GoalPeriod = "yearly"
)

// GoalStatus is the lifecycle state of a goal. Completed and Expired are
// terminal; Active and Paused are interchangeable through owner edits.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusPaused    GoalStatus = "paused"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusExpired   GoalStatus = "expired"
)

// Goal represents a driver-defined target over journeys, fuelings and
// expenses within a date window.
type Goal struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID
	VehicleID       *uuid.UUID // nil means the goal spans all of the owner's vehicles
	Title           string
	Description     string
	Type            GoalType
	Period          GoalPeriod
	TargetValue     int64
	CurrentValue    int64
	PercentComplete int
	Status          GoalStatus
	StartDate       time.Time
	EndDate         time.Time
	CompletedAt     *time.Time
	Version         int64 // optimistic-concurrency counter, bumped on every persisted write
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time // Soft-delete support
}

// NewGoal creates a new Goal entity in its initial state.
func NewGoal(ownerID uuid.UUID, vehicleID *uuid.UUID, title, description string, goalType GoalType, period GoalPeriod, targetValue int64, startDate, endDate time.Time) *Goal {
	now := time.Now().UTC()

	return &Goal{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		VehicleID:       vehicleID,
		Title:           title,
		Description:     description,
		Type:            goalType,
		Period:          period,
		TargetValue:     targetValue,
		CurrentValue:    0,
		PercentComplete: 0,
		Status:          GoalStatusActive,
		StartDate:       startDate,
		EndDate:         endDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// IsTerminal reports whether the goal reached a final state. Terminal goals
// are never recomputed.
func (g *Goal) IsTerminal() bool {
	return g.Status == GoalStatusCompleted || g.Status == GoalStatusExpired
}

// IsValidGoalType reports whether t is one of the five supported goal types.
func IsValidGoalType(t GoalType) bool {
	switch t {
	case GoalTypeRevenue, GoalTypeDistance, GoalTypeTripCount, GoalTypeSavings, GoalTypeProfit:
		return true
	}
	return false
}

// IsValidGoalPeriod reports whether p is a supported period label.
func IsValidGoalPeriod(p GoalPeriod) bool {
	switch p {
	case GoalPeriodWeekly, GoalPeriodMonthly, GoalPeriodQuarterly, GoalPeriodYearly:
		return true
	}
	return false
}

// IsValidGoalStatus reports whether s is a known lifecycle state.
func IsValidGoalStatus(s GoalStatus) bool {
	switch s {
	case GoalStatusActive, GoalStatusPaused, GoalStatusCompleted, GoalStatusExpired:
		return true
	}
	return false
}

// IsMonetary reports whether the goal type is denominated in minor currency
// units.
func (t GoalType) IsMonetary() bool {
	return t == GoalTypeRevenue || t == GoalTypeSavings || t == GoalTypeProfit
}
