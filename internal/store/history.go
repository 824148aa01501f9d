package store

import (
	"time"

	"github.com/i474232898/inje-weather/internal/weather"
)

// DefaultRetention is how long snapshots are kept.
const DefaultRetention = 3 * 24 * time.Hour

// Merge returns history with snapshot merged in:
//  1. if the last entry falls in the same hour-of-day as snapshot (in loc),
//     it is replaced. Only the hour is compared, not the date, so samples
//     exactly 24h apart also collide;
//  2. snapshot is appended;
//  3. entries not strictly newer than now-retention are dropped.
//
// A snapshot older than the last entry is discarded so timestamps stay
// non-decreasing. history is never modified; the result is a fresh slice.
func Merge(history []weather.Snapshot, snapshot weather.Snapshot, now time.Time, retention time.Duration, loc *time.Location) []weather.Snapshot {
	out := make([]weather.Snapshot, 0, len(history)+1)
	out = append(out, history...)

	if n := len(out); n > 0 {
		last := out[n-1]
		if IsStale(history, snapshot) {
			return Prune(out, now, retention)
		}
		if hourOfDay(last.Timestamp, loc) == hourOfDay(snapshot.Timestamp, loc) {
			out = out[:n-1]
		}
	}

	out = append(out, snapshot)
	return Prune(out, now, retention)
}

// IsStale reports whether snapshot is older than the last entry of history.
// Merge discards such snapshots.
func IsStale(history []weather.Snapshot, snapshot weather.Snapshot) bool {
	n := len(history)
	return n > 0 && snapshot.Timestamp.Before(history[n-1].Timestamp)
}

// Prune keeps entries with timestamp > now-retention. history is ascending,
// so the kept entries are a suffix. Pruning twice at the same now is a no-op.
func Prune(history []weather.Snapshot, now time.Time, retention time.Duration) []weather.Snapshot {
	cutoff := now.Add(-retention)
	i := 0
	for ; i < len(history); i++ {
		if history[i].Timestamp.After(cutoff) {
			break
		}
	}
	return history[i:]
}

func hourOfDay(t time.Time, loc *time.Location) int {
	return t.In(loc).Hour()
}
