package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GoalStatus is the goal lifecycle state. Transitions are owned by the
// services package; nothing else should assign these directly.
type GoalStatus string

const (
	GoalStatusCreated   GoalStatus = "created"
	GoalStatusStarted   GoalStatus = "started"
	GoalStatusWorking   GoalStatus = "working"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusArchived  GoalStatus = "archived"
)

func (s GoalStatus) Valid() bool {
	switch s {
	case GoalStatusCreated, GoalStatusStarted, GoalStatusWorking, GoalStatusCompleted, GoalStatusArchived:
		return true
	}
	return false
}

type Goal struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID      uuid.UUID      `json:"ownerId" gorm:"type:uuid;index;not null"`
	Title        string         `json:"title" gorm:"not null"`
	Description  string         `json:"description"`
	TargetDate   *time.Time     `json:"targetDate"`
	AchievedDate *time.Time     `json:"achievedDate"`
	ArchivedDate *time.Time     `json:"archivedDate"`
	Status       GoalStatus     `json:"status" gorm:"type:varchar(20);not null;default:'created'"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	Owner    *User     `json:"-" gorm:"foreignKey:OwnerID"`
	Subgoals []Subgoal `json:"subgoals,omitempty" gorm:"foreignKey:GoalID"`
	Tags     []Tag     `json:"tags,omitempty" gorm:"many2many:goal_tags"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// LastActivityAt is the most recent touch across the goal and its subgoals,
// computed at read time so child edits never re-stamp the parent row.
func (g *Goal) LastActivityAt() time.Time {
	latest := g.UpdatedAt
	for _, sg := range g.Subgoals {
		if sg.UpdatedAt.After(latest) {
			latest = sg.UpdatedAt
		}
	}
	return latest
}

// Goal DTOs
type CreateGoalRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	TargetDate  *time.Time `json:"targetDate"`
}

type UpdateGoalRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	TargetDate  *time.Time   `json:"targetDate"`
	Status      *GoalStatus  `json:"status"`
	TagIDs      *[]uuid.UUID `json:"tagIds"`
}

// GoalResponse is the serialized goal shape, with derived fields filled in
// relative to the requesting user.
type GoalResponse struct {
	ID             uuid.UUID     `json:"id"`
	OwnerID        uuid.UUID     `json:"ownerId"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	TargetDate     *time.Time    `json:"targetDate"`
	AchievedDate   *time.Time    `json:"achievedDate"`
	ArchivedDate   *time.Time    `json:"archivedDate"`
	Status         GoalStatus    `json:"status"`
	Progress       int           `json:"progress"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
	LastActivityAt time.Time     `json:"lastActivityAt"`
	Subgoals       []Subgoal     `json:"subgoals"`
	Tags           []Tag         `json:"tags"`
	IsShared       bool          `json:"isShared"`
	IsOwner        bool          `json:"isOwner"`
	Owner          *UserSummary  `json:"owner,omitempty"`
	SharedWith     []UserSummary `json:"sharedWith"`
}
