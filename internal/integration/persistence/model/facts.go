package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The journey, fueling, expense and vehicle tables are owned by their own
// subsystems. The goal engine queries them read-only; the models here exist so
// the fact readers have typed targets and migrations keep the shared schema.

// JourneyModel represents the journeys table.
type JourneyModel struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OwnerID       uuid.UUID      `gorm:"type:uuid;not null;index:idx_journeys_owner_date,priority:1"`
	VehicleID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Date          time.Time      `gorm:"not null;index:idx_journeys_owner_date,priority:2"`
	GrossEarnings int64          `gorm:"not null;default:0"` // minor currency units
	TotalDistance int64          `gorm:"not null;default:0"` // whole km
	CreatedAt     time.Time      `gorm:"not null"`
	UpdatedAt     time.Time      `gorm:"not null"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for the JourneyModel.
func (JourneyModel) TableName() string {
	return "journeys"
}

// FuelingModel represents the fuelings table.
type FuelingModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_fuelings_owner_date,priority:1"`
	VehicleID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Date      time.Time      `gorm:"not null;index:idx_fuelings_owner_date,priority:2"`
	TotalCost int64          `gorm:"not null;default:0"` // minor currency units
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for the FuelingModel.
func (FuelingModel) TableName() string {
	return "fuelings"
}

// ExpenseModel represents the expenses table.
type ExpenseModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_expenses_owner_date,priority:1"`
	VehicleID *uuid.UUID     `gorm:"type:uuid;index"`
	Date      time.Time      `gorm:"not null;index:idx_expenses_owner_date,priority:2"`
	Amount    int64          `gorm:"not null;default:0"` // minor currency units
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for the ExpenseModel.
func (ExpenseModel) TableName() string {
	return "expenses"
}

// VehicleModel represents the vehicles table.
type VehicleModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	Brand     string         `gorm:"type:varchar(100);not null"`
	Model     string         `gorm:"type:varchar(100);not null"`
	Year      int            `gorm:"not null"`
	Plate     string         `gorm:"type:varchar(10);not null;uniqueIndex"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for the VehicleModel.
func (VehicleModel) TableName() string {
	return "vehicles"
}
