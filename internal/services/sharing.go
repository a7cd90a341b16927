package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/letsgoal/letsgoal-api/internal/models"
	"gorm.io/gorm"
)

// Permission predicates always query goal_shares directly rather than
// trusting a preloaded association, so their answer never depends on how the
// goal was fetched.

func (s *Goals) IsOwner(goal *models.Goal, userID uuid.UUID) bool {
	return goal.OwnerID == userID
}

func (s *Goals) CanAccess(goal *models.Goal, userID uuid.UUID) bool {
	if s.IsOwner(goal, userID) {
		return true
	}
	var count int64
	s.db.Model(&models.GoalShare{}).
		Where("goal_id = ? AND shared_with_user_id = ?", goal.ID, userID).
		Count(&count)
	return count > 0
}

func (s *Goals) CanEdit(goal *models.Goal, userID uuid.UUID) bool {
	if s.IsOwner(goal, userID) {
		return true
	}
	var count int64
	s.db.Model(&models.GoalShare{}).
		Where("goal_id = ? AND shared_with_user_id = ? AND permission_level = ?", goal.ID, userID, models.PermissionEdit).
		Count(&count)
	return count > 0
}

// CanAccessGoal reports access by goal id, for callers without a loaded goal.
func (s *Goals) CanAccessGoal(goalID, userID uuid.UUID) bool {
	goal, err := s.findGoal(goalID)
	if err != nil {
		return false
	}
	return s.CanAccess(goal, userID)
}

// Share grants another user access to a goal. Owner only; one share per
// (goal, user); no self-shares. Permission defaults to edit.
func (s *Goals) Share(actorID, goalID uuid.UUID, req models.ShareGoalRequest) (*models.GoalShareResponse, error) {
	goal, err := s.findGoal(goalID)
	if err != nil {
		return nil, err
	}
	if !s.IsOwner(goal, actorID) {
		return nil, permissionDenied("Only the owner can share this goal")
	}

	permission := req.PermissionLevel
	if permission == "" {
		permission = models.PermissionEdit
	}
	if !permission.Valid() {
		return nil, invalid("Invalid permission level")
	}

	var target models.User
	if err := s.db.First(&target, "email = ?", req.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("User")
		}
		return nil, err
	}
	if target.ID == goal.OwnerID {
		return nil, invalid("You cannot share a goal with yourself")
	}

	var count int64
	if err := s.db.Model(&models.GoalShare{}).
		Where("goal_id = ? AND shared_with_user_id = ?", goal.ID, target.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, invalid("Goal is already shared with this user")
	}

	share := models.GoalShare{
		GoalID:           goal.ID,
		SharedByUserID:   actorID,
		SharedWithUserID: target.ID,
		PermissionLevel:  permission,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&share).Error; err != nil {
			return err
		}
		return s.events.RecordAction(tx, actorID, models.EntityShare, share.ID, models.ActionShared, map[string]interface{}{
			"goalId":          goal.ID.String(),
			"sharedWith":      target.ID.String(),
			"permissionLevel": string(permission),
		})
	})
	if err != nil {
		return nil, err
	}

	if s.push != nil {
		s.push.SendToUser(target.ID, "Goal shared with you",
			"\""+goal.Title+"\" was shared with you",
			map[string]string{"goalId": goal.ID.String()})
	}

	var owner models.User
	if err := s.db.First(&owner, "id = ?", actorID).Error; err != nil {
		return nil, err
	}
	resp := shareResponse(&share, &owner, &target)
	return &resp, nil
}

// Unshare revokes a specific user's share. Owner only.
func (s *Goals) Unshare(actorID, goalID, targetUserID uuid.UUID) error {
	goal, err := s.findGoal(goalID)
	if err != nil {
		return err
	}
	if !s.IsOwner(goal, actorID) {
		return permissionDenied("Only the owner can unshare this goal")
	}

	var share models.GoalShare
	if err := s.db.First(&share, "goal_id = ? AND shared_with_user_id = ?", goal.ID, targetUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Share")
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&share).Error; err != nil {
			return err
		}
		return s.events.RecordAction(tx, actorID, models.EntityShare, share.ID, models.ActionUnshared, map[string]interface{}{
			"goalId":     goal.ID.String(),
			"sharedWith": targetUserID.String(),
		})
	})
}

// ListShares enumerates a goal's shares. Owner only; shared users cannot
// see their co-sharers.
func (s *Goals) ListShares(actorID, goalID uuid.UUID) ([]models.GoalShareResponse, error) {
	goal, err := s.findGoal(goalID)
	if err != nil {
		return nil, err
	}
	if !s.IsOwner(goal, actorID) {
		return nil, permissionDenied("Only the owner can view this goal's shares")
	}

	var shares []models.GoalShare
	if err := s.db.Preload("SharedBy").Preload("SharedWith").
		Where("goal_id = ?", goal.ID).Find(&shares).Error; err != nil {
		return nil, err
	}

	responses := make([]models.GoalShareResponse, 0, len(shares))
	for i := range shares {
		responses = append(responses, shareResponse(&shares[i], shares[i].SharedBy, shares[i].SharedWith))
	}
	return responses, nil
}

func shareResponse(share *models.GoalShare, sharedBy, sharedWith *models.User) models.GoalShareResponse {
	resp := models.GoalShareResponse{
		ID:              share.ID,
		GoalID:          share.GoalID,
		PermissionLevel: share.PermissionLevel,
		CreatedAt:       share.CreatedAt,
	}
	if sharedBy != nil {
		resp.SharedBy = sharedBy.Summary()
	}
	if sharedWith != nil {
		resp.SharedWith = sharedWith.Summary()
	}
	return resp
}
