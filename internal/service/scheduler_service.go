package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const maintenanceTimeout = 30 * time.Second

// Optimizer is the store maintenance the scheduler runs.
type Optimizer interface {
	Optimize(ctx context.Context) error
}

// SchedulerService wraps cron-based jobs.
type SchedulerService struct {
	cron *cron.Cron
	log  *slog.Logger
}

func NewSchedulerService(loc *time.Location, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		cron: cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		log:  log,
	}
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// ScheduleInterval registers a periodic job every given duration.
func (s *SchedulerService) ScheduleInterval(interval time.Duration, job func()) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive")
	}
	// Convert to cron spec: every N seconds.
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	spec := fmt.Sprintf("@every %ds", seconds)
	return s.cron.AddFunc(spec, job)
}

// ScheduleMaintenance runs store.Optimize every interval, each run bounded
// by its own timeout.
func (s *SchedulerService) ScheduleMaintenance(interval time.Duration, store Optimizer) (cron.EntryID, error) {
	return s.ScheduleInterval(interval, func() {
		s.runMaintenance(store)
	})
}

func (s *SchedulerService) runMaintenance(store Optimizer) {
	ctx, cancel := context.WithTimeout(context.Background(), maintenanceTimeout)
	defer cancel()

	start := time.Now()
	if err := store.Optimize(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.log.Warn("store maintenance failed", "error", err)
		return
	}
	s.log.Debug("store maintenance done", "duration", time.Since(start))
}
