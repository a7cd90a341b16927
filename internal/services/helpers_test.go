package services

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/letsgoal/letsgoal-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Goals {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "letsgoal_test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Goal{},
		&models.Subgoal{},
		&models.GoalShare{},
		&models.Tag{},
		&models.ProgressEntry{},
		&models.Event{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return NewGoals(db, nil)
}

func createTestUser(t *testing.T, s *Goals, username, email string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: email, PasswordHash: "irrelevant"}
	if err := s.db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func createTestGoal(t *testing.T, s *Goals, owner *models.User, title string) *models.Goal {
	t.Helper()
	goal, err := s.Create(owner.ID, models.CreateGoalRequest{Title: title})
	if err != nil {
		t.Fatalf("create goal %q: %v", title, err)
	}
	return goal
}

func createTestSubgoals(t *testing.T, s *Goals, owner *models.User, goal *models.Goal, titles ...string) []*models.Subgoal {
	t.Helper()
	subgoals := make([]*models.Subgoal, 0, len(titles))
	for _, title := range titles {
		sg, err := s.CreateSubgoal(owner.ID, goal.ID, models.CreateSubgoalRequest{Title: title})
		if err != nil {
			t.Fatalf("create subgoal %q: %v", title, err)
		}
		subgoals = append(subgoals, sg)
	}
	return subgoals
}

func setSubgoalStatus(t *testing.T, s *Goals, actor *models.User, subgoalID uuid.UUID, status models.SubgoalStatus) *models.Subgoal {
	t.Helper()
	updated, err := s.UpdateSubgoal(actor.ID, subgoalID, models.UpdateSubgoalRequest{Status: &status})
	if err != nil {
		t.Fatalf("set subgoal status %s: %v", status, err)
	}
	return updated
}

func reloadGoal(t *testing.T, s *Goals, goal *models.Goal) *models.Goal {
	t.Helper()
	fresh, err := s.loadGoal(goal.ID)
	if err != nil {
		t.Fatalf("reload goal: %v", err)
	}
	return fresh
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func assertPermissionDenied(t *testing.T, err error) {
	t.Helper()
	var pe *PermissionError
	if !errors.As(err, &pe) {
		t.Fatalf("expected permission error, got %v", err)
	}
}

func assertValidation(t *testing.T, err error) {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
