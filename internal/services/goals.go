package services

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/letsgoal/letsgoal-api/internal/models"
	"gorm.io/gorm"
)

// Goals is the goal lifecycle engine: state transitions, progress
// aggregation, sharing and permission checks. All multi-step mutations run
// inside a single transaction so a failed cascade never leaves partial state.
type Goals struct {
	db     *gorm.DB
	events *EventRecorder
	push   *PushService
}

func NewGoals(db *gorm.DB, push *PushService) *Goals {
	return &Goals{db: db, events: &EventRecorder{}, push: push}
}

func (s *Goals) Create(ownerID uuid.UUID, req models.CreateGoalRequest) (*models.Goal, error) {
	if req.Title == "" {
		return nil, invalid("Title is required")
	}

	goal := models.Goal{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		TargetDate:  req.TargetDate,
		Status:      models.GoalStatusCreated,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&goal).Error; err != nil {
			return err
		}
		return s.events.RecordAction(tx, ownerID, models.EntityGoal, goal.ID, models.ActionCreated, map[string]interface{}{
			"title":  goal.Title,
			"status": string(goal.Status),
		})
	})
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *Goals) Get(actorID, goalID uuid.UUID) (*models.GoalResponse, error) {
	goal, err := s.loadGoal(goalID)
	if err != nil {
		return nil, err
	}
	if !s.CanAccess(goal, actorID) {
		return nil, permissionDenied("You do not have access to this goal")
	}
	return s.buildResponse(goal, actorID)
}

func (s *Goals) Update(actorID, goalID uuid.UUID, req models.UpdateGoalRequest) (*models.GoalResponse, error) {
	goal, err := s.loadGoal(goalID)
	if err != nil {
		return nil, err
	}
	if !s.CanEdit(goal, actorID) {
		return nil, permissionDenied("You do not have permission to edit this goal")
	}

	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, invalid("Invalid goal status")
		}
		// The archived state is only reachable through the archive
		// operation; a direct edit would bypass its precondition.
		if *req.Status == models.GoalStatusArchived {
			return nil, invalid("Use the archive operation to archive a goal")
		}
		if goal.Status == models.GoalStatusArchived && *req.Status != goal.Status {
			return nil, invalid("Unarchive the goal before changing its status")
		}
	}

	// Tags attached to a goal must belong to the goal owner, not the actor:
	// tags are scoped per user and goal display is unified.
	var tags []models.Tag
	if req.TagIDs != nil && len(*req.TagIDs) > 0 {
		if err := s.db.Where("id IN ? AND user_id = ?", *req.TagIDs, goal.OwnerID).Find(&tags).Error; err != nil {
			return nil, err
		}
		if len(tags) != len(*req.TagIDs) {
			return nil, invalid("Tags must belong to the goal owner")
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if req.Title != nil && *req.Title != "" && *req.Title != goal.Title {
			if err := s.events.RecordFieldChange(tx, actorID, models.EntityGoal, goal.ID, "title", goal.Title, *req.Title); err != nil {
				return err
			}
			goal.Title = *req.Title
		}
		if req.Description != nil {
			goal.Description = *req.Description
		}
		if req.TargetDate != nil {
			goal.TargetDate = req.TargetDate
		}

		if req.Status != nil && *req.Status != goal.Status {
			oldStatus := goal.Status
			goal.Status = *req.Status
			// Direct edits bypass subgoal-driven derivation entirely.
			if goal.Status == models.GoalStatusCompleted {
				if goal.AchievedDate == nil {
					now := time.Now()
					goal.AchievedDate = &now
				}
			} else if goal.AchievedDate != nil {
				goal.AchievedDate = nil
			}
			if err := s.events.RecordStatusChange(tx, actorID, models.EntityGoal, goal.ID, string(oldStatus), string(goal.Status), map[string]interface{}{
				"title": goal.Title,
			}); err != nil {
				return err
			}
			if goal.Status == models.GoalStatusCompleted {
				if err := s.events.RecordAction(tx, actorID, models.EntityGoal, goal.ID, models.ActionCompleted, nil); err != nil {
					return err
				}
			}
		}

		if err := tx.Save(goal).Error; err != nil {
			return err
		}
		if req.TagIDs != nil {
			if err := tx.Model(goal).Association("Tags").Replace(&tags); err != nil {
				return err
			}
			goal.Tags = tags
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if goal.Status == models.GoalStatusCompleted {
		s.notifyGoalCompleted(goal, actorID)
	}
	return s.buildResponse(goal, actorID)
}

// Archive moves a completed goal into the archive. Any other starting state
// is a validation failure, including an already archived goal.
func (s *Goals) Archive(actorID, goalID uuid.UUID) (*models.GoalResponse, error) {
	goal, err := s.loadGoal(goalID)
	if err != nil {
		return nil, err
	}
	if !s.CanEdit(goal, actorID) {
		return nil, permissionDenied("You do not have permission to edit this goal")
	}
	if goal.Status != models.GoalStatusCompleted {
		return nil, invalid("Only completed goals can be archived")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		goal.Status = models.GoalStatusArchived
		goal.ArchivedDate = &now
		if err := tx.Save(goal).Error; err != nil {
			return err
		}
		return s.events.RecordAction(tx, actorID, models.EntityGoal, goal.ID, models.ActionArchived, nil)
	})
	if err != nil {
		return nil, err
	}
	return s.buildResponse(goal, actorID)
}

// Unarchive restores an archived goal to completed, leaving its achieved
// date exactly as it was before archiving.
func (s *Goals) Unarchive(actorID, goalID uuid.UUID) (*models.GoalResponse, error) {
	goal, err := s.loadGoal(goalID)
	if err != nil {
		return nil, err
	}
	if !s.CanEdit(goal, actorID) {
		return nil, permissionDenied("You do not have permission to edit this goal")
	}
	if goal.Status != models.GoalStatusArchived {
		return nil, invalid("Only archived goals can be unarchived")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		goal.Status = models.GoalStatusCompleted
		goal.ArchivedDate = nil
		if err := tx.Save(goal).Error; err != nil {
			return err
		}
		return s.events.RecordAction(tx, actorID, models.EntityGoal, goal.ID, models.ActionUnarchived, nil)
	})
	if err != nil {
		return nil, err
	}
	return s.buildResponse(goal, actorID)
}

// Delete removes a goal and everything hanging off it when called by the
// owner. A shared user calling it only removes their own share; the goal
// itself survives.
func (s *Goals) Delete(actorID, goalID uuid.UUID) error {
	goal, err := s.findGoal(goalID)
	if err != nil {
		return err
	}

	if s.IsOwner(goal, actorID) {
		return s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("goal_id = ?", goal.ID).Delete(&models.Subgoal{}).Error; err != nil {
				return err
			}
			if err := tx.Where("goal_id = ?", goal.ID).Delete(&models.GoalShare{}).Error; err != nil {
				return err
			}
			if err := tx.Where("goal_id = ?", goal.ID).Delete(&models.ProgressEntry{}).Error; err != nil {
				return err
			}
			if err := tx.Model(goal).Association("Tags").Clear(); err != nil {
				return err
			}
			if err := tx.Delete(goal).Error; err != nil {
				return err
			}
			return s.events.RecordAction(tx, actorID, models.EntityGoal, goal.ID, models.ActionDeleted, map[string]interface{}{
				"title": goal.Title,
			})
		})
	}

	var share models.GoalShare
	if err := s.db.First(&share, "goal_id = ? AND shared_with_user_id = ?", goal.ID, actorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return permissionDenied("Only the owner can delete this goal")
		}
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&share).Error; err != nil {
			return err
		}
		return s.events.RecordAction(tx, actorID, models.EntityShare, share.ID, models.ActionUnshared, map[string]interface{}{
			"goalId": goal.ID.String(),
			"self":   true,
		})
	})
}

// List returns the union of goals the actor owns and goals shared with
// them, deduplicated, most recently active first.
func (s *Goals) List(actorID uuid.UUID, includeArchived bool) ([]models.GoalResponse, error) {
	var owned []models.Goal
	if err := s.preloadQuery().Where("owner_id = ?", actorID).Find(&owned).Error; err != nil {
		return nil, err
	}

	var sharedIDs []uuid.UUID
	if err := s.db.Model(&models.GoalShare{}).Where("shared_with_user_id = ?", actorID).Pluck("goal_id", &sharedIDs).Error; err != nil {
		return nil, err
	}
	var shared []models.Goal
	if len(sharedIDs) > 0 {
		if err := s.preloadQuery().Where("id IN ?", sharedIDs).Find(&shared).Error; err != nil {
			return nil, err
		}
	}

	seen := make(map[uuid.UUID]bool)
	goals := make([]*models.Goal, 0, len(owned)+len(shared))
	for i := range owned {
		if seen[owned[i].ID] {
			continue
		}
		seen[owned[i].ID] = true
		goals = append(goals, &owned[i])
	}
	for i := range shared {
		if seen[shared[i].ID] {
			continue
		}
		seen[shared[i].ID] = true
		goals = append(goals, &shared[i])
	}

	if !includeArchived {
		filtered := goals[:0]
		for _, g := range goals {
			if g.Status != models.GoalStatusArchived {
				filtered = append(filtered, g)
			}
		}
		goals = filtered
	}

	sort.Slice(goals, func(i, j int) bool {
		return goals[i].LastActivityAt().After(goals[j].LastActivityAt())
	})

	// Batch-load shares for every goal in one query
	goalIDs := make([]uuid.UUID, len(goals))
	for i, g := range goals {
		goalIDs[i] = g.ID
	}
	sharesByGoal := make(map[uuid.UUID][]models.GoalShare)
	if len(goalIDs) > 0 {
		var shares []models.GoalShare
		if err := s.db.Preload("SharedWith").Where("goal_id IN ?", goalIDs).Find(&shares).Error; err != nil {
			return nil, err
		}
		for _, sh := range shares {
			sharesByGoal[sh.GoalID] = append(sharesByGoal[sh.GoalID], sh)
		}
	}

	responses := make([]models.GoalResponse, 0, len(goals))
	for _, g := range goals {
		responses = append(responses, *s.toResponse(g, actorID, sharesByGoal[g.ID]))
	}
	return responses, nil
}

// AddProgress records a manual progress journal entry on a goal.
func (s *Goals) AddProgress(actorID, goalID uuid.UUID, req models.AddProgressRequest) (*models.ProgressEntry, error) {
	goal, err := s.findGoal(goalID)
	if err != nil {
		return nil, err
	}
	if !s.CanEdit(goal, actorID) {
		return nil, permissionDenied("You do not have permission to edit this goal")
	}
	if req.ProgressPercentage == nil {
		return nil, invalid("Progress percentage is required")
	}
	if *req.ProgressPercentage < 0 || *req.ProgressPercentage > 100 {
		return nil, invalid("Progress percentage must be between 0 and 100")
	}

	entry := models.ProgressEntry{
		GoalID:             goal.ID,
		ProgressPercentage: *req.ProgressPercentage,
		Notes:              req.Notes,
		EntryDate:          time.Now(),
	}
	if req.EntryDate != nil {
		entry.EntryDate = *req.EntryDate
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return s.events.RecordAction(tx, actorID, models.EntityGoal, goal.ID, models.ActionUpdated, map[string]interface{}{
			"progressEntry": entry.ProgressPercentage,
		})
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// findGoal fetches a bare goal row, mapping a miss to NotFound.
func (s *Goals) findGoal(goalID uuid.UUID) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.First(&goal, "id = ?", goalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Goal")
		}
		return nil, err
	}
	return &goal, nil
}

// loadGoal fetches a goal with subgoals, tags and owner attached.
func (s *Goals) loadGoal(goalID uuid.UUID) (*models.Goal, error) {
	var goal models.Goal
	if err := s.preloadQuery().First(&goal, "id = ?", goalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Goal")
		}
		return nil, err
	}
	return &goal, nil
}

func (s *Goals) preloadQuery() *gorm.DB {
	return s.db.
		Preload("Subgoals", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC, created_at ASC")
		}).
		Preload("Tags").
		Preload("Owner")
}

func (s *Goals) buildResponse(goal *models.Goal, actorID uuid.UUID) (*models.GoalResponse, error) {
	var shares []models.GoalShare
	if err := s.db.Preload("SharedWith").Where("goal_id = ?", goal.ID).Find(&shares).Error; err != nil {
		return nil, err
	}
	return s.toResponse(goal, actorID, shares), nil
}

func (s *Goals) toResponse(goal *models.Goal, actorID uuid.UUID, shares []models.GoalShare) *models.GoalResponse {
	resp := &models.GoalResponse{
		ID:             goal.ID,
		OwnerID:        goal.OwnerID,
		Title:          goal.Title,
		Description:    goal.Description,
		TargetDate:     goal.TargetDate,
		AchievedDate:   goal.AchievedDate,
		ArchivedDate:   goal.ArchivedDate,
		Status:         goal.Status,
		Progress:       GoalProgress(goal),
		CreatedAt:      goal.CreatedAt,
		UpdatedAt:      goal.UpdatedAt,
		LastActivityAt: goal.LastActivityAt(),
		Subgoals:       goal.Subgoals,
		Tags:           goal.Tags,
		IsShared:       len(shares) > 0,
		IsOwner:        goal.OwnerID == actorID,
		SharedWith:     make([]models.UserSummary, 0, len(shares)),
	}
	if resp.Subgoals == nil {
		resp.Subgoals = []models.Subgoal{}
	}
	if resp.Tags == nil {
		resp.Tags = []models.Tag{}
	}
	if goal.Owner != nil {
		summary := goal.Owner.Summary()
		resp.Owner = &summary
	}
	for _, sh := range shares {
		if sh.SharedWith != nil {
			resp.SharedWith = append(resp.SharedWith, sh.SharedWith.Summary())
		}
	}
	return resp
}

// notifyGoalCompleted pushes a completion notice to everyone on the goal
// except the actor. Best effort, after commit.
func (s *Goals) notifyGoalCompleted(goal *models.Goal, actorID uuid.UUID) {
	if s.push == nil {
		return
	}
	data := map[string]string{"goalId": goal.ID.String()}
	if goal.OwnerID != actorID {
		s.push.SendToUser(goal.OwnerID, "Goal completed!", "\""+goal.Title+"\" was completed", data)
	}
	var shares []models.GoalShare
	if err := s.db.Where("goal_id = ?", goal.ID).Find(&shares).Error; err != nil {
		return
	}
	for _, sh := range shares {
		if sh.SharedWithUserID != actorID {
			s.push.SendToUser(sh.SharedWithUserID, "Goal completed!", "\""+goal.Title+"\" was completed", data)
		}
	}
}
