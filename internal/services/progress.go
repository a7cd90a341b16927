package services

import "github.com/letsgoal/letsgoal-api/internal/models"

// SubgoalProgress is the raw completion percentage over subgoal counts,
// integer division. A goal with no subgoals sits at 0.
func SubgoalProgress(achievedCount, totalCount int) int {
	if totalCount == 0 {
		return 0
	}
	return achievedCount * 100 / totalCount
}

// CalculateProgress derives the goal's completion percentage. Explicit
// completion overrides subgoal detail; progress is never persisted.
func CalculateProgress(status models.GoalStatus, achievedCount, totalCount int) int {
	if status == models.GoalStatusCompleted {
		return 100
	}
	return SubgoalProgress(achievedCount, totalCount)
}

// GoalProgress computes progress from a goal with its subgoals loaded.
func GoalProgress(goal *models.Goal) int {
	achieved := 0
	for _, sg := range goal.Subgoals {
		if sg.Status == models.SubgoalStatusAchieved {
			achieved++
		}
	}
	return CalculateProgress(goal.Status, achieved, len(goal.Subgoals))
}

// DeriveGoalStatus applies the automatic status rules after a subgoal status
// transition, using counts that already reflect the subgoal's new state.
// Rules are checked in priority order, completion first. Explicit status
// edits bypass this entirely.
func DeriveGoalStatus(current models.GoalStatus, achievedCount, totalCount int) models.GoalStatus {
	progress := SubgoalProgress(achievedCount, totalCount)
	switch {
	case progress == 100 && current != models.GoalStatusCompleted:
		return models.GoalStatusCompleted
	case achievedCount == 1 && current == models.GoalStatusCreated:
		return models.GoalStatusStarted
	case achievedCount >= 2 && (current == models.GoalStatusCreated || current == models.GoalStatusStarted):
		return models.GoalStatusWorking
	case progress == 0:
		return models.GoalStatusCreated
	default:
		return current
	}
}
