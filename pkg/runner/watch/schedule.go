package watch

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// scheduler wraps the cron jobs of a watch session.
type scheduler struct {
	cron *cron.Cron
}

func newScheduler(loc *time.Location) *scheduler {
	return &scheduler{
		cron: cron.New(cron.WithLocation(loc), cron.WithSeconds()),
	}
}

// daily registers job at hour:minute local time.
func (s *scheduler) daily(hour, minute int, job func()) (cron.EntryID, error) {
	spec, err := dailySpec(hour, minute)
	if err != nil {
		return 0, err
	}
	return s.cron.AddFunc(spec, job)
}

// every registers job to run once per interval.
func (s *scheduler) every(interval time.Duration, job func()) (cron.EntryID, error) {
	spec, err := intervalSpec(interval)
	if err != nil {
		return 0, err
	}
	return s.cron.AddFunc(spec, job)
}

func (s *scheduler) start() {
	s.cron.Start()
}

func (s *scheduler) stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// cron format: second minute hour dom month dow
func dailySpec(hour, minute int) (string, error) {
	if hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour %d", hour)
	}
	if minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute %d", minute)
	}
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}

func intervalSpec(interval time.Duration) (string, error) {
	if interval <= 0 {
		return "", fmt.Errorf("interval must be positive")
	}
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	return fmt.Sprintf("@every %ds", seconds), nil
}
