package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/letsgoal/letsgoal-api/internal/models"
	"gorm.io/gorm"
)

func (s *Goals) CreateSubgoal(actorID, goalID uuid.UUID, req models.CreateSubgoalRequest) (*models.Subgoal, error) {
	goal, err := s.findGoal(goalID)
	if err != nil {
		return nil, err
	}
	if !s.CanEdit(goal, actorID) {
		return nil, permissionDenied("You do not have permission to edit this goal")
	}
	if req.Title == "" {
		return nil, invalid("Title is required")
	}

	subgoal := models.Subgoal{
		GoalID:      goal.ID,
		Title:       req.Title,
		Description: req.Description,
		TargetDate:  req.TargetDate,
		OrderIndex:  req.OrderIndex,
		Status:      models.SubgoalStatusPending,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&subgoal).Error; err != nil {
			return err
		}
		return s.events.RecordAction(tx, actorID, models.EntitySubgoal, subgoal.ID, models.ActionCreated, map[string]interface{}{
			"goalId": goal.ID.String(),
			"title":  subgoal.Title,
		})
	})
	if err != nil {
		return nil, err
	}
	return &subgoal, nil
}

// UpdateSubgoal edits a subgoal and, when its status flips, re-derives the
// parent goal's status in the same transaction. The derivation sees counts
// that already include this subgoal's new state.
func (s *Goals) UpdateSubgoal(actorID, subgoalID uuid.UUID, req models.UpdateSubgoalRequest) (*models.Subgoal, error) {
	subgoal, goal, err := s.findSubgoal(subgoalID)
	if err != nil {
		return nil, err
	}
	if !s.CanEdit(goal, actorID) {
		return nil, permissionDenied("You do not have permission to edit this goal")
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, invalid("Invalid subgoal status")
	}

	statusChanged := req.Status != nil && *req.Status != subgoal.Status
	completedBefore := goal.Status == models.GoalStatusCompleted

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if req.Title != nil && *req.Title != "" {
			subgoal.Title = *req.Title
		}
		if req.Description != nil {
			subgoal.Description = *req.Description
		}
		if req.TargetDate != nil {
			subgoal.TargetDate = req.TargetDate
		}
		if req.OrderIndex != nil {
			subgoal.OrderIndex = *req.OrderIndex
		}

		if statusChanged {
			oldStatus := subgoal.Status
			subgoal.Status = *req.Status
			if subgoal.Status == models.SubgoalStatusAchieved {
				if subgoal.AchievedDate == nil {
					now := time.Now()
					subgoal.AchievedDate = &now
				}
			} else {
				subgoal.AchievedDate = nil
			}
			if err := s.events.RecordStatusChange(tx, actorID, models.EntitySubgoal, subgoal.ID, string(oldStatus), string(subgoal.Status), map[string]interface{}{
				"goalId": goal.ID.String(),
			}); err != nil {
				return err
			}
		}

		if err := tx.Save(subgoal).Error; err != nil {
			return err
		}

		if statusChanged {
			return s.cascadeGoalStatus(tx, actorID, goal)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !completedBefore && goal.Status == models.GoalStatusCompleted {
		s.notifyGoalCompleted(goal, actorID)
	}
	return subgoal, nil
}

func (s *Goals) DeleteSubgoal(actorID, subgoalID uuid.UUID) error {
	subgoal, goal, err := s.findSubgoal(subgoalID)
	if err != nil {
		return err
	}
	if !s.CanEdit(goal, actorID) {
		return permissionDenied("You do not have permission to edit this goal")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(subgoal).Error; err != nil {
			return err
		}
		return s.events.RecordAction(tx, actorID, models.EntitySubgoal, subgoal.ID, models.ActionDeleted, map[string]interface{}{
			"goalId": goal.ID.String(),
			"title":  subgoal.Title,
		})
	})
}

// cascadeGoalStatus re-derives the parent goal's status from subgoal counts
// inside the caller's transaction. Counts are read after the subgoal write,
// so they reflect the prospective state.
func (s *Goals) cascadeGoalStatus(tx *gorm.DB, actorID uuid.UUID, goal *models.Goal) error {
	var total, achieved int64
	if err := tx.Model(&models.Subgoal{}).Where("goal_id = ?", goal.ID).Count(&total).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Subgoal{}).Where("goal_id = ? AND status = ?", goal.ID, models.SubgoalStatusAchieved).Count(&achieved).Error; err != nil {
		return err
	}

	progress := SubgoalProgress(int(achieved), int(total))
	next := DeriveGoalStatus(goal.Status, int(achieved), int(total))

	changed := false
	if next != goal.Status {
		oldStatus := goal.Status
		goal.Status = next
		changed = true
		if err := s.events.RecordStatusChange(tx, actorID, models.EntityGoal, goal.ID, string(oldStatus), string(next), map[string]interface{}{
			"title":    goal.Title,
			"progress": progress,
		}); err != nil {
			return err
		}
		if next == models.GoalStatusCompleted {
			if err := s.events.RecordAction(tx, actorID, models.EntityGoal, goal.ID, models.ActionCompleted, map[string]interface{}{
				"totalSubgoals": total,
			}); err != nil {
				return err
			}
		}
	}

	if goal.Status == models.GoalStatusCompleted && goal.AchievedDate == nil {
		now := time.Now()
		goal.AchievedDate = &now
		changed = true
	}
	if progress == 0 && goal.Status != models.GoalStatusCompleted && goal.AchievedDate != nil {
		goal.AchievedDate = nil
		changed = true
	}

	if !changed {
		return nil
	}
	return tx.Save(goal).Error
}

// findSubgoal fetches a subgoal with its parent goal, mapping misses to
// NotFound. An orphaned subgoal is a store fault, not a NotFound.
func (s *Goals) findSubgoal(subgoalID uuid.UUID) (*models.Subgoal, *models.Goal, error) {
	var subgoal models.Subgoal
	if err := s.db.First(&subgoal, "id = ?", subgoalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, notFound("Subgoal")
		}
		return nil, nil, err
	}
	var goal models.Goal
	if err := s.db.First(&goal, "id = ?", subgoal.GoalID).Error; err != nil {
		return nil, nil, err
	}
	return &subgoal, &goal, nil
}
