package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/letsgoal/letsgoal-api/internal/models"
)

func TestCreateGoalDefaults(t *testing.T) {
	s := newTestService(t)
	alice := createTestUser(t, s, "alice", "alice@example.com")

	goal, err := s.Create(alice.ID, models.CreateGoalRequest{Title: "Run a marathon", Description: "26.2 miles"})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	if goal.Status != models.GoalStatusCreated {
		t.Errorf("status = %s, want created", goal.Status)
	}
	if goal.AchievedDate != nil || goal.ArchivedDate != nil {
		t.Errorf("fresh goal has achieved/archived dates set")
	}

	resp, err := s.Get(alice.ID, goal.ID)
	if err != nil {
		t.Fatalf("get goal: %v", err)
	}
	if resp.Progress != 0 {
		t.Errorf("progress = %d, want 0", resp.Progress)
	}
	if !resp.IsOwner {
		t.Errorf("owner sees isOwner=false")
	}
	if resp.IsShared {
		t.Errorf("unshared goal reports isShared=true")
	}
}

func TestCreateGoalRequiresTitle(t *testing.T) {
	s := newTestService(t)
	alice := createTestUser(t, s, "alice", "alice@example.com")

	_, err := s.Create(alice.ID, models.CreateGoalRequest{})
	assertValidation(t, err)
}

func TestGetUnknownGoal(t *testing.T) {
	s := newTestService(t)
	alice := createTestUser(t, s, "alice", "alice@example.com")

	_, err := s.Get(alice.ID, uuid.New())
	assertNotFound(t, err)
}

func TestExplicitCompletionOverridesSubgoals(t *testing.T) {
	s := newTestService(t)
	alice := createTestUser(t, s, "alice", "alice@example.com")
	goal := createTestGoal(t, s, alice, "Learn Go")
	subgoals := createTestSubgoals(t, s, alice, goal, "tour", "book", "project")

	setSubgoalStatus(t, s, alice, subgoals[0].ID, models.SubgoalStatusAchieved)
	setSubgoalStatus(t, s, alice, subgoals[1].ID, models.SubgoalStatusAchieved)

	fresh := reloadGoal(t, s, goal)
	if fresh.Status != models.GoalStatusWorking {
		t.Fatalf("status = %s, want working", fresh.Status)
	}

	// Direct edit bypasses the derivation rule and completes at 2/3.
	status := models.GoalStatusCompleted
	resp, err := s.Update(alice.ID, goal.ID, models.UpdateGoalRequest{Status: &status})
	if err != nil {
		t.Fatalf("update goal: %v", err)
	}
	if resp.Status != models.GoalStatusCompleted {
		t.Errorf("status = %s, want completed", resp.Status)
	}
	if resp.AchievedDate == nil {
		t.Errorf("completed goal has no achieved date")
	}
	if resp.Progress != 100 {
		t.Errorf("progress = %d, want 100 (completion override)", resp.Progress)
	}
}

func TestExplicitStatusEditClearsAchievedDate(t *testing.T) {
	s := newTestService(t)
	alice := createTestUser(t, s, "alice", "alice@example.com")
	goal := createTestGoal(t, s, alice, "Read 12 books")

	completed := models.GoalStatusCompleted
	if _, err := s.Update(alice.ID, goal.ID, models.UpdateGoalRequest{Status: &completed}); err != nil {
		t.Fatalf("complete goal: %v", err)
	}

	working := models.GoalStatusWorking
	resp, err := s.Update(alice.ID, goal.ID, models.UpdateGoalRequest{Status: &working})
	if err != nil {
		t.Fatalf("reopen goal: %v", err)
	}
	if resp.Status != models.GoalStatusWorking {
		t.Errorf("status = %s, want working", resp.Status)
	}
	if resp.AchievedDate != nil {
		t.Errorf("reopened goal still has achieved date")
	}
}

func TestArchiveRequiresCompleted(t *testing.T) {
	s := newTestService(t)
	alice := createTestUser(t, s, "alice", "alice@example.com")
	goal := createTestGoal(t, s, alice, "Ship the thing")

	_, err := s.Archive(alice.ID, goal.ID)
	assertValidation(t, err)

	fresh := reloadGoal(t, s, goal)
	if fresh.Status != models.GoalStatusCreated {
		t.Fatalf("failed archive changed state: %s", fresh.Status)
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	s := newTestService(t)
	alice := createTestUser(t, s, "alice", "alice@example.com")
	goal := createTestGoal(t, s, alice, "Climb a mountain")

	completed := models.GoalStatusCompleted
	before, err := s.Update(alice.ID, goal.ID, models.UpdateGoalRequest{Status: &completed})
	if err != nil {
		t.Fatalf("complete goal: %v", err)
	}

	archived, err := s.Archive(alice.ID, goal.ID)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if archived.Status != models.GoalStatusArchived {
		t.Errorf("status = %s, want archived", archived.Status)
	}
	if archived.ArchivedDate == nil {
		t.Errorf("archived goal has no archived date")
	}

	// A second archive is rejected.
	_, err = s.Archive(alice.ID, goal.ID)
	assertValidation(t, err)

	restored, err := s.Unarchive(alice.ID, goal.ID)
	if err != nil {
		t.Fatalf("unarchive: %v", err)
	}
	if restored.Status != models.GoalStatusCompleted {
		t.Errorf("status = %s, want completed", restored.Status)
	}
	if restored.ArchivedDate != nil {
		t.Errorf("unarchived goal still has archived date")
	}
	if restored.AchievedDate == nil || !restored.AchievedDate.Equal(*before.AchievedDate) {
		t.Errorf("achieved date changed across archive round trip")
	}

	_, err = s.Unarchive(alice.ID, goal.ID)
	assertValidation(t, err)
}

func TestUpdateRejectsDirectArchive(t *testing.T) {
	s := newTestService(t)
	alice := createTestUser(t, s, "alice", "alice@example.com")
	goal := createTestGoal(t, s, alice, "Sneaky archive")

	archived := models.GoalStatusArchived
	_, err := s.Update(alice.ID, goal.ID, models.UpdateGoalRequest{Status: &archived})
	assertValidation(t, err)
}

func TestDeleteGoalByOwnerCascades(t *testing.T) {
	s := newTestService(t)
	alice := createTestUser(t, s, "alice", "alice@example.com")
	bob := createTestUser(t, s, "bob", "bob@example.com")
	goal := createTestGoal(t, s, alice, "Shared then deleted")
	createTestSubgoals(t, s, alice, goal, "one", "two")

	if _, err := s.Share(alice.ID, goal.ID, models.ShareGoalRequest{Email: bob.Email}); err != nil {
		t.Fatalf("share: %v", err)
	}

	if err := s.Delete(alice.ID, goal.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err := s.Get(alice.ID, goal.ID)
	assertNotFound(t, err)

	var subgoalCount, shareCount int64
	s.db.Model(&models.Subgoal{}).Where("goal_id = ?", goal.ID).Count(&subgoalCount)
	s.db.Model(&models.GoalShare{}).Where("goal_id = ?", goal.ID).Count(&shareCount)
	if subgoalCount != 0 {
		t.Errorf("subgoals survived goal deletion: %d", subgoalCount)
	}
	if shareCount != 0 {
		t.Errorf("shares survived goal deletion: %d", shareCount)
	}
}

func TestTagsMustBelongToGoalOwner(t *testing.T) {
	s := newTestService(t)
	alice := createTestUser(t, s, "alice", "alice@example.com")
	bob := createTestUser(t, s, "bob", "bob@example.com")
	goal := createTestGoal(t, s, alice, "Tagged goal")

	aliceTag, err := s.CreateTag(alice.ID, models.CreateTagRequest{Name: "health", Color: "#00FF00"})
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	bobTag, err := s.CreateTag(bob.ID, models.CreateTagRequest{Name: "health", Color: "#FF0000"})
	if err != nil {
		t.Fatalf("create bob tag: %v", err)
	}

	if _, err := s.Share(alice.ID, goal.ID, models.ShareGoalRequest{Email: bob.Email, PermissionLevel: models.PermissionEdit}); err != nil {
		t.Fatalf("share: %v", err)
	}

	// Bob may attach the owner's tag to the shared goal.
	ownerTags := []uuid.UUID{aliceTag.ID}
	resp, err := s.Update(bob.ID, goal.ID, models.UpdateGoalRequest{TagIDs: &ownerTags})
	if err != nil {
		t.Fatalf("attach owner tag: %v", err)
	}
	if len(resp.Tags) != 1 || resp.Tags[0].ID != aliceTag.ID {
		t.Fatalf("expected owner tag attached, got %+v", resp.Tags)
	}

	// Bob's own tag is scoped to Bob, not the goal owner.
	editorTags := []uuid.UUID{bobTag.ID}
	_, err = s.Update(bob.ID, goal.ID, models.UpdateGoalRequest{TagIDs: &editorTags})
	assertValidation(t, err)
}

func TestAddProgressRequiresEdit(t *testing.T) {
	s := newTestService(t)
	alice := createTestUser(t, s, "alice", "alice@example.com")
	bob := createTestUser(t, s, "bob", "bob@example.com")
	goal := createTestGoal(t, s, alice, "Journaled goal")

	view := models.PermissionView
	if _, err := s.Share(alice.ID, goal.ID, models.ShareGoalRequest{Email: bob.Email, PermissionLevel: view}); err != nil {
		t.Fatalf("share: %v", err)
	}

	pct := 40
	_, err := s.AddProgress(bob.ID, goal.ID, models.AddProgressRequest{ProgressPercentage: &pct})
	assertPermissionDenied(t, err)

	entry, err := s.AddProgress(alice.ID, goal.ID, models.AddProgressRequest{ProgressPercentage: &pct, Notes: "halfway-ish"})
	if err != nil {
		t.Fatalf("add progress: %v", err)
	}
	if entry.ProgressPercentage != 40 {
		t.Errorf("entry percentage = %d, want 40", entry.ProgressPercentage)
	}
}
