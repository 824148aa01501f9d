package weather

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/i474232898/inje-weather/internal/metrics"
)

// Service composes the refresh gate, the aggregator and the history store
// behind the read path.
type Service struct {
	store      Store
	gate       *RefreshGate
	aggregator *Aggregator
	metrics    *metrics.Registry
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithMetrics records refreshes into m.
func WithMetrics(m *metrics.Registry) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates a new Service.
func NewService(store Store, gate *RefreshGate, aggregator *Aggregator, opts ...Option) *Service {
	s := &Service{
		store:      store,
		gate:       gate,
		aggregator: aggregator,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh aggregates and stores a new snapshot if the gate is due, and reports
// whether it claimed the gate. A snapshot that finishes behind a newer one is
// discarded by the store and counted separately. The gate is claimed before aggregating, so concurrent callers
// arriving during a slow aggregation do not start another one.
func (s *Service) Refresh(ctx context.Context) bool {
	now := s.now()
	if !s.gate.TryClaim(now) {
		return false
	}

	// An in-flight aggregation always runs to completion, even if the
	// triggering request goes away.
	start := time.Now()
	snap := s.aggregator.Aggregate(context.WithoutCancel(ctx), now)
	if !s.store.Append(snap, now) {
		s.metrics.StaleDiscarded()
		log.Debug().
			Time("at", now).
			Dur("took", time.Since(start)).
			Msg("stale snapshot discarded")
		return true
	}

	length := s.store.Len()
	s.metrics.ObserveRefresh(time.Since(start), length)
	log.Info().
		Time("at", now).
		Dur("took", time.Since(start)).
		Int("history", length).
		Msg("weather refreshed")
	return true
}

// Page refreshes if due, then returns the snapshot at index (Latest for the newest).
func (s *Service) Page(ctx context.Context, index int) PageResult {
	s.Refresh(ctx)
	return s.store.Page(index)
}

// LastRefresh returns the instant of the last claimed refresh.
func (s *Service) LastRefresh() time.Time {
	return s.gate.LastRefresh()
}
