package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event entity types
const (
	EntityGoal    = "goal"
	EntitySubgoal = "subgoal"
	EntityShare   = "share"
)

// Event actions
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionDeleted       = "deleted"
	ActionStatusChanged = "status_changed"
	ActionCompleted     = "completed"
	ActionArchived      = "archived"
	ActionUnarchived    = "unarchived"
	ActionShared        = "shared"
	ActionUnshared      = "unshared"
)

// Event is an audit record of a core mutation. Rows are written inside the
// mutating transaction and consumed by external sinks (reminders, reporting).
type Event struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	EntityType string    `json:"entityType" gorm:"type:varchar(20);not null"`
	EntityID   uuid.UUID `json:"entityId" gorm:"type:uuid;not null"`
	Action     string    `json:"action" gorm:"type:varchar(50);not null"`
	FieldName  string    `json:"fieldName,omitempty" gorm:"type:varchar(50)"`
	OldValue   string    `json:"oldValue,omitempty"`
	NewValue   string    `json:"newValue,omitempty"`
	Metadata   string    `json:"metadata,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
