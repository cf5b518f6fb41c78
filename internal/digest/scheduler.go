package digest

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler fires the weekly digest every Monday at the configured
// hour in the given location.
type Scheduler struct {
	mailer *Mailer
	hour   int
	loc    *time.Location
	// now is swapped out in tests
	now func() time.Time
}

// NewScheduler creates a scheduler sending at hour o'clock on Mondays.
func NewScheduler(mailer *Mailer, hour int, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{mailer: mailer, hour: hour, loc: loc, now: time.Now}
}

// NextRun returns the first Monday send time after t.
func (s *Scheduler) NextRun(t time.Time) time.Time {
	t = t.In(s.loc)
	day := time.Date(t.Year(), t.Month(), t.Day(), s.hour, 0, 0, 0, s.loc)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	next := day.AddDate(0, 0, -(weekday - 1))
	if !next.After(t) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

// Run blocks until ctx is canceled, sending the digest at each Monday
// tick. Send failures are logged and the schedule keeps going.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		next := s.NextRun(s.now())
		slog.Info("weekly digest scheduled", slog.Time("at", next))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		sent, err := s.mailer.SendWeekly(ctx)
		if err != nil {
			slog.Error("weekly digest failed", slog.String("error", err.Error()))
			continue
		}
		slog.Info("weekly digest sent", slog.Int("posts", sent))
	}
}
