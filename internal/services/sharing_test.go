package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/letsgoal/letsgoal-api/internal/models"
)

func TestShareDefaultsToEdit(t *testing.T) {
	s := newTestService(t)
	alice := createTestUser(t, s, "alice", "alice@example.com")
	bob := createTestUser(t, s, "bob", "bob@example.com")
	goal := createTestGoal(t, s, alice, "Shared goal")

	share, err := s.Share(alice.ID, goal.ID, models.ShareGoalRequest{Email: bob.Email})
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	if share.PermissionLevel != models.PermissionEdit {
		t.Errorf("permission = %s, want edit", share.PermissionLevel)
	}
	if share.SharedWith.ID != bob.ID {
		t.Errorf("shared with %s, want %s", share.SharedWith.ID, bob.ID)
	}

	fresh := reloadGoal(t, s, goal)
	if !s.CanEdit(fresh, bob.ID) {
		t.Errorf("edit share does not grant edit")
	}
}

func TestShareValidation(t *testing.T) {
	s := newTestService(t)
	alice := createTestUser(t, s, "alice", "alice@example.com")
	bob := createTestUser(t, s, "bob", "bob@example.com")
	goal := createTestGoal(t, s, alice, "Careful sharing")

	// No self-shares.
	_, err := s.Share(alice.ID, goal.ID, models.ShareGoalRequest{Email: alice.Email})
	assertValidation(t, err)

	// Unknown recipient.
	_, err = s.Share(alice.ID, goal.ID, models.ShareGoalRequest{Email: "nobody@example.com"})
	assertNotFound(t, err)

	// Bogus permission level.
	_, err = s.Share(alice.ID, goal.ID, models.ShareGoalRequest{Email: bob.Email, PermissionLevel: "admin"})
	assertValidation(t, err)

	// A duplicate share is rejected and leaves exactly one row.
	if _, err := s.Share(alice.ID, goal.ID, models.ShareGoalRequest{Email: bob.Email}); err != nil {
		t.Fatalf("first share: %v", err)
	}
	_, err = s.Share(alice.ID, goal.ID, models.ShareGoalRequest{Email: bob.Email, PermissionLevel: models.PermissionView})
	assertValidation(t, err)

	var count int64
	s.db.Model(&models.GoalShare{}).Where("goal_id = ?", goal.ID).Count(&count)
	if count != 1 {
		t.Fatalf("share count = %d, want 1", count)
	}
}

func TestShareIsOwnerOnly(t *testing.T) {
	s := newTestService(t)
	alice := createTestUser(t, s, "alice", "alice@example.com")
	bob := createTestUser(t, s, "bob", "bob@example.com")
	carol := createTestUser(t, s, "carol", "carol@example.com")
	goal := createTestGoal(t, s, alice, "Not yours to share")

	if _, err := s.Share(alice.ID, goal.ID, models.ShareGoalRequest{Email: bob.Email}); err != nil {
		t.Fatalf("share: %v", err)
	}

	// Even an edit sharer cannot re-share, unshare or list shares.
	_, err := s.Share(bob.ID, goal.ID, models.ShareGoalRequest{Email: carol.Email})
	assertPermissionDenied(t, err)

	err = s.Unshare(bob.ID, goal.ID, bob.ID)
	assertPermissionDenied(t, err)

	_, err = s.ListShares(bob.ID, goal.ID)
	assertPermissionDenied(t, err)
}

func TestViewShareIsReadOnly(t *testing.T) {
	s := newTestService(t)
	alice := createTestUser(t, s, "alice", "alice@example.com")
	bob := createTestUser(t, s, "bob", "bob@example.com")
	goal := createTestGoal(t, s, alice, "Look but don't touch")

	view := models.PermissionView
	if _, err := s.Share(alice.ID, goal.ID, models.ShareGoalRequest{Email: bob.Email, PermissionLevel: view}); err != nil {
		t.Fatalf("share: %v", err)
	}

	// View grants access but not edit.
	resp, err := s.Get(bob.ID, goal.ID)
	if err != nil {
		t.Fatalf("get as viewer: %v", err)
	}
	if resp.IsOwner {
		t.Errorf("viewer sees isOwner=true")
	}
	if !resp.IsShared {
		t.Errorf("shared goal reports isShared=false")
	}

	title := "Renamed"
	_, err = s.Update(bob.ID, goal.ID, models.UpdateGoalRequest{Title: &title})
	assertPermissionDenied(t, err)

	fresh := reloadGoal(t, s, goal)
	if fresh.Title != "Look but don't touch" {
		t.Fatalf("denied update changed the title to %q", fresh.Title)
	}
}

func TestPermissionMonotonicity(t *testing.T) {
	s := newTestService(t)
	alice := createTestUser(t, s, "alice", "alice@example.com")
	bob := createTestUser(t, s, "bob", "bob@example.com")
	carol := createTestUser(t, s, "carol", "carol@example.com")
	goal := createTestGoal(t, s, alice, "Capability ladder")

	if _, err := s.Share(alice.ID, goal.ID, models.ShareGoalRequest{Email: bob.Email, PermissionLevel: models.PermissionEdit}); err != nil {
		t.Fatalf("share: %v", err)
	}

	fresh := reloadGoal(t, s, goal)
	for _, user := range []*models.User{alice, bob, carol} {
		if s.CanEdit(fresh, user.ID) && !s.CanAccess(fresh, user.ID) {
			t.Errorf("user %s can edit without access", user.Username)
		}
	}
	if !s.IsOwner(fresh, alice.ID) || s.IsOwner(fresh, bob.ID) {
		t.Errorf("ownership misattributed")
	}
	if s.CanAccess(fresh, carol.ID) {
		t.Errorf("stranger has access")
	}
}

func TestShareeDeleteRemovesOnlyOwnShare(t *testing.T) {
	s := newTestService(t)
	alice := createTestUser(t, s, "alice", "alice@example.com")
	bob := createTestUser(t, s, "bob", "bob@example.com")
	carol := createTestUser(t, s, "carol", "carol@example.com")
	goal := createTestGoal(t, s, alice, "Leaving the share")

	if _, err := s.Share(alice.ID, goal.ID, models.ShareGoalRequest{Email: bob.Email}); err != nil {
		t.Fatalf("share bob: %v", err)
	}
	if _, err := s.Share(alice.ID, goal.ID, models.ShareGoalRequest{Email: carol.Email}); err != nil {
		t.Fatalf("share carol: %v", err)
	}

	// Bob "deletes" the goal: only his share goes away.
	if err := s.Delete(bob.ID, goal.ID); err != nil {
		t.Fatalf("sharee delete: %v", err)
	}

	if _, err := s.Get(alice.ID, goal.ID); err != nil {
		t.Fatalf("goal gone after sharee delete: %v", err)
	}
	_, err := s.Get(bob.ID, goal.ID)
	assertPermissionDenied(t, err)
	if _, err := s.Get(carol.ID, goal.ID); err != nil {
		t.Fatalf("carol lost access: %v", err)
	}

	// A stranger with no share cannot delete at all.
	err = s.Delete(bob.ID, goal.ID)
	assertPermissionDenied(t, err)
}

func TestUnshareRevokesAccess(t *testing.T) {
	s := newTestService(t)
	alice := createTestUser(t, s, "alice", "alice@example.com")
	bob := createTestUser(t, s, "bob", "bob@example.com")
	goal := createTestGoal(t, s, alice, "Revocable")

	if _, err := s.Share(alice.ID, goal.ID, models.ShareGoalRequest{Email: bob.Email}); err != nil {
		t.Fatalf("share: %v", err)
	}
	if err := s.Unshare(alice.ID, goal.ID, bob.ID); err != nil {
		t.Fatalf("unshare: %v", err)
	}

	_, err := s.Get(bob.ID, goal.ID)
	assertPermissionDenied(t, err)

	// Revoking a share that no longer exists is a miss, not a no-op.
	err = s.Unshare(alice.ID, goal.ID, bob.ID)
	assertNotFound(t, err)
}

func TestListSharesForOwner(t *testing.T) {
	s := newTestService(t)
	alice := createTestUser(t, s, "alice", "alice@example.com")
	bob := createTestUser(t, s, "bob", "bob@example.com")
	carol := createTestUser(t, s, "carol", "carol@example.com")
	goal := createTestGoal(t, s, alice, "Well shared")

	if _, err := s.Share(alice.ID, goal.ID, models.ShareGoalRequest{Email: bob.Email, PermissionLevel: models.PermissionEdit}); err != nil {
		t.Fatalf("share bob: %v", err)
	}
	if _, err := s.Share(alice.ID, goal.ID, models.ShareGoalRequest{Email: carol.Email, PermissionLevel: models.PermissionView}); err != nil {
		t.Fatalf("share carol: %v", err)
	}

	shares, err := s.ListShares(alice.ID, goal.ID)
	if err != nil {
		t.Fatalf("list shares: %v", err)
	}
	if len(shares) != 2 {
		t.Fatalf("share count = %d, want 2", len(shares))
	}
	byUser := make(map[uuid.UUID]models.PermissionLevel)
	for _, sh := range shares {
		byUser[sh.SharedWith.ID] = sh.PermissionLevel
	}
	if byUser[bob.ID] != models.PermissionEdit {
		t.Errorf("bob permission = %s, want edit", byUser[bob.ID])
	}
	if byUser[carol.ID] != models.PermissionView {
		t.Errorf("carol permission = %s, want view", byUser[carol.ID])
	}
}

func TestListUnionAndArchiveFilter(t *testing.T) {
	s := newTestService(t)
	alice := createTestUser(t, s, "alice", "alice@example.com")
	bob := createTestUser(t, s, "bob", "bob@example.com")

	owned := createTestGoal(t, s, alice, "Mine")
	sharedIn := createTestGoal(t, s, bob, "Bob's, shared with Alice")
	if _, err := s.Share(bob.ID, sharedIn.ID, models.ShareGoalRequest{Email: alice.Email}); err != nil {
		t.Fatalf("share: %v", err)
	}

	archivedGoal := createTestGoal(t, s, alice, "Old news")
	completed := models.GoalStatusCompleted
	if _, err := s.Update(alice.ID, archivedGoal.ID, models.UpdateGoalRequest{Status: &completed}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := s.Archive(alice.ID, archivedGoal.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	goals, err := s.List(alice.ID, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ids := make(map[uuid.UUID]bool)
	for _, g := range goals {
		ids[g.ID] = true
	}
	if len(goals) != 2 || !ids[owned.ID] || !ids[sharedIn.ID] {
		t.Fatalf("list = %d goals %v, want owned and shared only", len(goals), ids)
	}

	all, err := s.List(alice.ID, true)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("list with archived = %d goals, want 3", len(all))
	}
}
