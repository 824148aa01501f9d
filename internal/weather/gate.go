package weather

import (
	"time"

	"go.uber.org/atomic"
)

// DefaultRefreshTTL is the minimum interval between two aggregations.
const DefaultRefreshTTL = 3 * time.Minute

// RefreshGate decides when a new snapshot must be computed.
// The last refresh instant starts at the Unix epoch so the first check always passes.
type RefreshGate struct {
	ttl  time.Duration
	last *atomic.Int64 // unix nanos
}

// NewRefreshGate creates a gate with the given TTL; ttl <= 0 uses DefaultRefreshTTL.
func NewRefreshGate(ttl time.Duration) *RefreshGate {
	if ttl <= 0 {
		ttl = DefaultRefreshTTL
	}
	return &RefreshGate{
		ttl:  ttl,
		last: atomic.NewInt64(0),
	}
}

// ShouldRefresh reports whether now is at least ttl past the last claim.
func (g *RefreshGate) ShouldRefresh(now time.Time) bool {
	return g.due(g.last.Load(), now)
}

// TryClaim atomically checks freshness and stamps now as the last refresh.
// Only one of several concurrent callers observing a stale gate wins.
func (g *RefreshGate) TryClaim(now time.Time) bool {
	for {
		last := g.last.Load()
		if !g.due(last, now) {
			return false
		}
		if g.last.CompareAndSwap(last, now.UnixNano()) {
			return true
		}
	}
}

// LastRefresh returns the last claimed instant.
func (g *RefreshGate) LastRefresh() time.Time {
	return time.Unix(0, g.last.Load())
}

// TTL returns the configured refresh interval.
func (g *RefreshGate) TTL() time.Duration {
	return g.ttl
}

func (g *RefreshGate) due(last int64, now time.Time) bool {
	return !now.Before(time.Unix(0, last).Add(g.ttl))
}
