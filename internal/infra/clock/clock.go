package clock

import (
	"fmt"
	"log/slog"
	"time"
)

const stampLayout = "2006-01-02 15:04:05"

// Clock reads wall time in the configured zone. Audit rows carry its Stamp.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

func New(timezone string) (*Clock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return newClock(loc, time.Now), nil
}

func newClock(loc *time.Location, now func() time.Time) *Clock {
	return &Clock{loc: loc, now: now}
}

func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

func (c *Clock) Stamp() string {
	return c.Now().Format(stampLayout)
}

// Scheduler runs one-shot delayed tasks on a bounded pool. Task errors are
// swallowed; there is no cancellation. Used only by the ephemeral-message
// reaper, where a missed deletion is harmless.
type Scheduler struct {
	logger *slog.Logger
	slots  chan struct{}
}

func NewScheduler(logger *slog.Logger, maxConcurrent int) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 16
	}
	return &Scheduler{
		logger: logger,
		slots:  make(chan struct{}, maxConcurrent),
	}
}

func (s *Scheduler) After(d time.Duration, task func() error) {
	go func() {
		timer := time.NewTimer(d)
		defer timer.Stop()
		<-timer.C

		s.slots <- struct{}{}
		defer func() { <-s.slots }()

		if err := task(); err != nil {
			s.logger.Debug("delayed task failed", "error", err)
		}
	}()
}
