package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubgoalStatus is the two-state checklist lifecycle.
type SubgoalStatus string

const (
	SubgoalStatusPending  SubgoalStatus = "pending"
	SubgoalStatusAchieved SubgoalStatus = "achieved"
)

func (s SubgoalStatus) Valid() bool {
	return s == SubgoalStatusPending || s == SubgoalStatusAchieved
}

type Subgoal struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	GoalID       uuid.UUID      `json:"goalId" gorm:"type:uuid;index;not null"`
	Title        string         `json:"title" gorm:"not null"`
	Description  string         `json:"description"`
	TargetDate   *time.Time     `json:"targetDate"`
	AchievedDate *time.Time     `json:"achievedDate"`
	Status       SubgoalStatus  `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	OrderIndex   int            `json:"orderIndex" gorm:"default:0"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

func (s *Subgoal) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Subgoal DTOs
type CreateSubgoalRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	TargetDate  *time.Time `json:"targetDate"`
	OrderIndex  int        `json:"orderIndex"`
}

type UpdateSubgoalRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	TargetDate  *time.Time     `json:"targetDate"`
	Status      *SubgoalStatus `json:"status"`
	OrderIndex  *int           `json:"orderIndex"`
}
