package services

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/letsgoal/letsgoal-api/internal/models"
)

type DashboardStats struct {
	TotalGoals      int64   `json:"totalGoals"`
	CompletedGoals  int64   `json:"completedGoals"`
	ActiveGoals     int64   `json:"activeGoals"`
	CreatedGoals    int64   `json:"createdGoals"`
	ArchivedGoals   int64   `json:"archivedGoals"`
	AchievementRate float64 `json:"achievementRate"`
}

// Stats summarizes the actor's owned goals by status.
func (s *Goals) Stats(actorID uuid.UUID) (*DashboardStats, error) {
	stats := &DashboardStats{}

	counts := []struct {
		dest     *int64
		statuses []models.GoalStatus
	}{
		{&stats.CompletedGoals, []models.GoalStatus{models.GoalStatusCompleted}},
		{&stats.ActiveGoals, []models.GoalStatus{models.GoalStatusStarted, models.GoalStatusWorking}},
		{&stats.CreatedGoals, []models.GoalStatus{models.GoalStatusCreated}},
		{&stats.ArchivedGoals, []models.GoalStatus{models.GoalStatusArchived}},
	}
	for _, c := range counts {
		if err := s.db.Model(&models.Goal{}).
			Where("owner_id = ? AND status IN ?", actorID, c.statuses).
			Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	stats.TotalGoals = stats.CompletedGoals + stats.ActiveGoals + stats.CreatedGoals + stats.ArchivedGoals

	if stats.TotalGoals > 0 {
		completed := stats.CompletedGoals + stats.ArchivedGoals
		stats.AchievementRate = math.Round(float64(completed)/float64(stats.TotalGoals)*1000) / 10
	}
	return stats, nil
}

type GoalTiming struct {
	GoalID         uuid.UUID `json:"goalId"`
	Title          string    `json:"title"`
	TargetDate     time.Time `json:"targetDate"`
	AchievedDate   time.Time `json:"achievedDate"`
	DaysDifference int       `json:"daysDifference"`
	Timing         string    `json:"timing"`
}

type HistoryReport struct {
	AchievedGoals     []models.GoalResponse `json:"achievedGoals"`
	TimingAnalysis    []GoalTiming          `json:"timingAnalysis"`
	MonthlyTrends     map[string]int        `json:"monthlyTrends"`
	TotalAchievements int                   `json:"totalAchievements"`
}

// History reports the actor's completed goals with timing analysis against
// their target dates and monthly achievement trends.
func (s *Goals) History(actorID uuid.UUID) (*HistoryReport, error) {
	var goals []models.Goal
	if err := s.preloadQuery().
		Where("owner_id = ? AND status IN ?", actorID, []models.GoalStatus{models.GoalStatusCompleted, models.GoalStatusArchived}).
		Order("achieved_date DESC").
		Find(&goals).Error; err != nil {
		return nil, err
	}

	report := &HistoryReport{
		AchievedGoals:     make([]models.GoalResponse, 0, len(goals)),
		TimingAnalysis:    []GoalTiming{},
		MonthlyTrends:     map[string]int{},
		TotalAchievements: len(goals),
	}

	sharesByGoal := make(map[uuid.UUID][]models.GoalShare)
	if len(goals) > 0 {
		goalIDs := make([]uuid.UUID, len(goals))
		for i := range goals {
			goalIDs[i] = goals[i].ID
		}
		var shares []models.GoalShare
		if err := s.db.Preload("SharedWith").Where("goal_id IN ?", goalIDs).Find(&shares).Error; err != nil {
			return nil, err
		}
		for _, sh := range shares {
			sharesByGoal[sh.GoalID] = append(sharesByGoal[sh.GoalID], sh)
		}
	}

	for i := range goals {
		goal := &goals[i]
		report.AchievedGoals = append(report.AchievedGoals, *s.toResponse(goal, actorID, sharesByGoal[goal.ID]))

		if goal.AchievedDate == nil {
			continue
		}
		report.MonthlyTrends[goal.AchievedDate.Format("2006-01")]++

		if goal.TargetDate != nil {
			days := int(goal.AchievedDate.Sub(*goal.TargetDate).Hours() / 24)
			timing := "on_time"
			if days < 0 {
				timing = "early"
			} else if days > 0 {
				timing = "late"
			}
			report.TimingAnalysis = append(report.TimingAnalysis, GoalTiming{
				GoalID:         goal.ID,
				Title:          goal.Title,
				TargetDate:     *goal.TargetDate,
				AchievedDate:   *goal.AchievedDate,
				DaysDifference: days,
				Timing:         timing,
			})
		}
	}
	return report, nil
}
