// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/driverlog/backend/internal/domain/entity"
)

// GoalModel represents the goals table in the database.
type GoalModel struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OwnerID         uuid.UUID      `gorm:"type:uuid;not null;index"`
	VehicleID       *uuid.UUID     `gorm:"type:uuid;index"`
	Title           string         `gorm:"type:varchar(100);not null"`
	Description     string         `gorm:"type:text"`
	Type            string         `gorm:"type:varchar(20);not null;index"`
	Period          string         `gorm:"type:varchar(20);not null"`
	TargetValue     int64          `gorm:"not null"`
	CurrentValue    int64          `gorm:"not null;default:0"`
	PercentComplete int            `gorm:"not null;default:0"`
	Status          string         `gorm:"type:varchar(20);not null;default:'active';index"`
	StartDate       time.Time      `gorm:"not null"`
	EndDate         time.Time      `gorm:"not null;index"`
	CompletedAt     *time.Time     `gorm:""`
	Version         int64          `gorm:"not null;default:0"` // optimistic concurrency counter
	CreatedAt       time.Time      `gorm:"not null"`
	UpdatedAt       time.Time      `gorm:"not null"`
	DeletedAt       gorm.DeletedAt `gorm:"index"` // Soft-delete support
}

// TableName returns the table name for the GoalModel.
func (GoalModel) TableName() string {
	return "goals"
}

// ToEntity converts a GoalModel to a domain Goal entity.
func (m *GoalModel) ToEntity() *entity.Goal {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	return &entity.Goal{
		ID:              m.ID,
		OwnerID:         m.OwnerID,
		VehicleID:       m.VehicleID,
		Title:           m.Title,
		Description:     m.Description,
		Type:            entity.GoalType(m.Type),
		Period:          entity.GoalPeriod(m.Period),
		TargetValue:     m.TargetValue,
		CurrentValue:    m.CurrentValue,
		PercentComplete: m.PercentComplete,
		Status:          entity.GoalStatus(m.Status),
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		CompletedAt:     m.CompletedAt,
		Version:         m.Version,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		DeletedAt:       deletedAt,
	}
}

// GoalFromEntity creates a GoalModel from a domain Goal entity.
func GoalFromEntity(goal *entity.Goal) *GoalModel {
	var deletedAt gorm.DeletedAt
	if goal.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *goal.DeletedAt, Valid: true}
	}

	return &GoalModel{
		ID:              goal.ID,
		OwnerID:         goal.OwnerID,
		VehicleID:       goal.VehicleID,
		Title:           goal.Title,
		Description:     goal.Description,
		Type:            string(goal.Type),
		Period:          string(goal.Period),
		TargetValue:     goal.TargetValue,
		CurrentValue:    goal.CurrentValue,
		PercentComplete: goal.PercentComplete,
		Status:          string(goal.Status),
		StartDate:       goal.StartDate,
		EndDate:         goal.EndDate,
		CompletedAt:     goal.CompletedAt,
		Version:         goal.Version,
		CreatedAt:       goal.CreatedAt,
		UpdatedAt:       goal.UpdatedAt,
		DeletedAt:       deletedAt,
	}
}
