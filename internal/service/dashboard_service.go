package service

import (
	"context"
	"math"
	"time"

	"github.com/timeflowhq/timeflow/internal/models"
	"github.com/timeflowhq/timeflow/internal/storage"
)

// DashboardService aggregates the acting user's activities into the
// numbers the dashboard cards show.
type DashboardService struct {
	store storage.Store

	// now is swapped in tests; defaults to time.Now.
	now func() time.Time
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(store storage.Store) *DashboardService {
	return &DashboardService{store: store, now: time.Now}
}

// Stats computes dashboard statistics over every activity visible to
// actor. "Today" is the current calendar day in local time; overdue
// counts span all history, not just today.
func (s *DashboardService) Stats(ctx context.Context, actor *models.User) (*models.DashboardStats, error) {
	activities, err := s.store.ListActivitiesForUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := now.Format("2006-01-02")
	weekStart := mostRecentSunday(now).Format("2006-01-02")

	stats := &models.DashboardStats{}
	var weekTotal, weekCompleted int

	for _, a := range activities {
		completed := a.Status == models.StatusConcluida

		if a.Date == today {
			stats.TotalToday++
			if completed {
				stats.CompletedToday++
			}
		}
		if !completed && isOverdue(a, now) {
			stats.OverdueActivities++
		}
		if !completed {
			if a.GroupID == "" {
				stats.PersonalTasks++
			} else {
				stats.GroupTasks++
			}
		}
		if a.Date >= weekStart {
			weekTotal++
			if completed {
				weekCompleted++
			}
		}
	}

	stats.TodayActivities = stats.TotalToday
	stats.ProgressPercentage = percentage(stats.CompletedToday, stats.TotalToday)
	stats.WeeklyProgress = percentage(weekCompleted, weekTotal)
	return stats, nil
}

// isOverdue reports whether the activity's scheduled date+time is
// strictly in the past. Unparsable schedules are never overdue.
func isOverdue(a *models.Activity, now time.Time) bool {
	at, err := time.ParseInLocation("2006-01-02 15:04", a.Date+" "+a.Time, now.Location())
	if err != nil {
		return false
	}
	return at.Before(now)
}

// mostRecentSunday returns the start of the current week (Sunday counts
// as today when now is a Sunday).
func mostRecentSunday(now time.Time) time.Time {
	return now.AddDate(0, 0, -int(now.Weekday()))
}

// percentage is round(done/total*100), defined as 0 for an empty total.
func percentage(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}
