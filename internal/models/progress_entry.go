package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressEntry is a dated journal note on a goal. It does not feed the
// derived progress percentage, which comes from subgoal completion only.
type ProgressEntry struct {
	ID                 uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	GoalID             uuid.UUID      `json:"goalId" gorm:"type:uuid;index;not null"`
	EntryDate          time.Time      `json:"entryDate" gorm:"not null"`
	ProgressPercentage int            `json:"progressPercentage" gorm:"default:0"`
	Notes              string         `json:"notes"`
	CreatedAt          time.Time      `json:"createdAt"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index"`
}

func (p *ProgressEntry) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type AddProgressRequest struct {
	ProgressPercentage *int       `json:"progressPercentage" validate:"required"`
	Notes              string     `json:"notes"`
	EntryDate          *time.Time `json:"entryDate"`
}
