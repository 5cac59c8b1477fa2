package jobs

import (
	"context"
	"time"
)

// Refresher recomputes the cached average attempts statistic
type Refresher interface {
	Refresh(ctx context.Context) error
}

// ReminderSender emails players with unfinished games
type ReminderSender interface {
	SendReminders(ctx context.Context) (int, error)
}

// AverageJob refreshes the cached average on schedule
func AverageJob(r Refresher, schedule string) Job {
	return Job{
		Name:     "cache_average_attempts",
		Schedule: schedule,
		Timeout:  30 * time.Second,
		Run:      r.Refresh,
	}
}

// ReminderJob sends reminder emails on schedule
func ReminderJob(s ReminderSender, schedule string) Job {
	return Job{
		Name:     "send_reminder",
		Schedule: schedule,
		Timeout:  5 * time.Minute,
		Run: func(ctx context.Context) error {
			_, err := s.SendReminders(ctx)
			return err
		},
	}
}
