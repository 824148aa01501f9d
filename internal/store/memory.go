package store

import (
	"sync"
	"time"

	"github.com/i474232898/inje-weather/internal/weather"
)

// MemoryStore is a concurrency-safe in-memory history of snapshots.
// Writers replace the backing slice wholesale, so a reader holding the
// previous slice never sees a partially merged history.
type MemoryStore struct {
	mu sync.RWMutex

	history []weather.Snapshot

	// retention configuration
	retention time.Duration
	loc       *time.Location // hour-of-day buckets
}

// NewMemoryStore creates a new MemoryStore.
// retention <= 0 uses DefaultRetention; a nil loc uses time.Local.
func NewMemoryStore(retention time.Duration, loc *time.Location) *MemoryStore {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if loc == nil {
		loc = time.Local
	}
	return &MemoryStore{
		retention: retention,
		loc:       loc,
	}
}

// Append merges snapshot into the history and enforces retention relative to now.
// It returns false when snapshot was discarded as stale.
func (s *MemoryStore) Append(snapshot weather.Snapshot, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	stale := IsStale(s.history, snapshot)
	s.history = Merge(s.history, snapshot, now, s.retention, s.loc)
	return !stale
}

// Page returns the snapshot at index (weather.Latest for the newest) with paging metadata.
func (s *MemoryStore) Page(index int) weather.PageResult {
	return weather.Project(s.Snapshots(), index)
}

// Len returns the number of retained snapshots.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.history)
}

// Snapshots returns the current history. The slice is shared and must not be modified.
func (s *MemoryStore) Snapshots() []weather.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.history
}
