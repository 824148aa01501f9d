package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
)

// Refresher is the part of weather.Service the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context) bool
}

// Scheduler periodically asks the service to refresh so the cache stays warm
// between reads. It goes through the same refresh gate as reads, so it never
// aggregates more often than the gate allows.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Refresher
	interval  time.Duration
}

// New creates a new Scheduler.
func New(interval time.Duration, service Refresher) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		interval:  interval,
	}
}

// Start schedules the warm-up job and starts the underlying scheduler.
// A non-positive interval disables it.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Info().Msg("scheduler: warm-up disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	log.Info().Dur("interval", s.interval).Msg("scheduler: warm-up started")
	return nil
}

func (s *Scheduler) run() {
	if s.service.Refresh(context.Background()) {
		log.Debug().Msg("scheduler: warm-up refreshed")
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
