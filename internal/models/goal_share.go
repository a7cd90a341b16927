package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PermissionLevel is the access grade of a GoalShare.
type PermissionLevel string

const (
	PermissionEdit PermissionLevel = "edit"
	PermissionView PermissionLevel = "view"
)

func (p PermissionLevel) Valid() bool {
	return p == PermissionEdit || p == PermissionView
}

// GoalShare grants a non-owner user access to a goal. Rows are hard-deleted
// so the unique index allows re-sharing after an unshare.
type GoalShare struct {
	ID               uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	GoalID           uuid.UUID       `json:"goalId" gorm:"type:uuid;not null;uniqueIndex:idx_goal_shared_with"`
	SharedByUserID   uuid.UUID       `json:"sharedByUserId" gorm:"type:uuid;not null;index"`
	SharedWithUserID uuid.UUID       `json:"sharedWithUserId" gorm:"type:uuid;not null;uniqueIndex:idx_goal_shared_with"`
	PermissionLevel  PermissionLevel `json:"permissionLevel" gorm:"type:varchar(20);not null;default:'edit'"`
	CreatedAt        time.Time       `json:"createdAt"`

	SharedBy   *User `json:"-" gorm:"foreignKey:SharedByUserID"`
	SharedWith *User `json:"-" gorm:"foreignKey:SharedWithUserID"`
}

func (gs *GoalShare) BeforeCreate(tx *gorm.DB) error {
	if gs.ID == uuid.Nil {
		gs.ID = uuid.New()
	}
	return nil
}

// Share DTOs
type ShareGoalRequest struct {
	Email           string          `json:"email" validate:"required,email"`
	PermissionLevel PermissionLevel `json:"permissionLevel"`
}

type GoalShareResponse struct {
	ID              uuid.UUID       `json:"id"`
	GoalID          uuid.UUID       `json:"goalId"`
	PermissionLevel PermissionLevel `json:"permissionLevel"`
	CreatedAt       time.Time       `json:"createdAt"`
	SharedBy        UserSummary     `json:"sharedBy"`
	SharedWith      UserSummary     `json:"sharedWith"`
}
