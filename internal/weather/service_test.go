package weather_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/inje-weather/internal/metrics"
	"github.com/i474232898/inje-weather/internal/store"
	"github.com/i474232898/inje-weather/internal/weather"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// countingSource counts fetches and sleeps to keep aggregations in flight.
type countingSource struct {
	calls atomic.Int32
	delay time.Duration
}

func (s *countingSource) Name() string { return "particulates" }

func (s *countingSource) Fetch(context.Context) (weather.RawDocument, error) {
	s.calls.Add(1)
	time.Sleep(s.delay)
	return weather.RawDocument{}, nil
}

func (s *countingSource) Parse(weather.RawDocument) (weather.Particulates, error) {
	return weather.Particulates{}, nil
}

func newTestService(clock *fakeClock, src *countingSource) (*weather.Service, *store.MemoryStore) {
	memStore := store.NewMemoryStore(store.DefaultRetention, time.UTC)
	svc := weather.NewService(
		memStore,
		weather.NewRefreshGate(weather.DefaultRefreshTTL),
		weather.NewAggregator(weather.Sources{Particulates: src}, nil),
		weather.WithClock(clock.Now),
	)
	return svc, memStore
}

func TestServicePageRefreshesOnlyWhenDue(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	src := &countingSource{}
	svc, _ := newTestService(clock, src)
	ctx := context.Background()

	res := svc.Page(ctx, weather.Latest)
	require.NotNil(t, res.Data)
	assert.Equal(t, 0, res.Current)
	assert.Equal(t, 1, res.Length)
	assert.EqualValues(t, 1, src.calls.Load())

	clock.Advance(2 * time.Minute)
	svc.Page(ctx, weather.Latest)
	assert.EqualValues(t, 1, src.calls.Load(), "within ttl")

	// Same hour: the new snapshot replaces the previous one.
	clock.Advance(time.Minute)
	res = svc.Page(ctx, weather.Latest)
	assert.EqualValues(t, 2, src.calls.Load())
	assert.Equal(t, 1, res.Length)
	assert.True(t, res.Data.Timestamp.Equal(clock.Now()))

	clock.Advance(time.Hour)
	res = svc.Page(ctx, 0)
	assert.Equal(t, 2, res.Length)
	assert.Equal(t, 0, res.Current)

	res = svc.Page(ctx, 7)
	assert.Equal(t, 7, res.Current)
	assert.Equal(t, 2, res.Length)
	assert.Nil(t, res.Data)
}

func TestServiceConcurrentReadsAggregateOnce(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	src := &countingSource{delay: 50 * time.Millisecond}
	svc, memStore := newTestService(clock, src)

	const readers = 32
	results := make([]weather.PageResult, readers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i] = svc.Page(context.Background(), weather.Latest)
		}(i)
	}
	close(start)
	wg.Wait()

	assert.EqualValues(t, 1, src.calls.Load())
	assert.Equal(t, 1, memStore.Len())

	for _, res := range results {
		assert.LessOrEqual(t, res.Length, 1)
		if res.Data != nil {
			assert.Equal(t, 0, res.Current)
		}
	}
}

func TestServiceHistoryStaysOrderedUnderLoad(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	src := &countingSource{delay: time.Millisecond}
	svc, memStore := newTestService(clock, src)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				clock.Advance(7 * time.Minute)
				svc.Page(context.Background(), weather.Latest)
			}
		}()
	}
	wg.Wait()

	history := memStore.Snapshots()
	require.NotEmpty(t, history)
	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].Timestamp.Before(history[i-1].Timestamp), "index %d out of order", i)
		assert.NotEqual(t, history[i].Timestamp.Hour(), history[i-1].Timestamp.Hour(), "adjacent entries share an hour")
	}
	for _, s := range history {
		assert.True(t, s.Timestamp.After(clock.Now().Add(-store.DefaultRetention)))
	}
}

func TestServiceStaleSnapshotIsNotCountedAsRefresh(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	memStore := store.NewMemoryStore(store.DefaultRetention, time.UTC)
	m := metrics.NewRegistry(prometheus.NewRegistry())
	svc := weather.NewService(
		memStore,
		weather.NewRefreshGate(weather.DefaultRefreshTTL),
		weather.NewAggregator(weather.Sources{Particulates: &countingSource{}}, m),
		weather.WithClock(clock.Now),
		weather.WithMetrics(m),
	)

	// A newer snapshot is already stored when this aggregation completes.
	ahead := clock.Now().Add(time.Hour)
	require.True(t, memStore.Append(weather.Snapshot{Timestamp: ahead}, ahead))

	assert.True(t, svc.Refresh(context.Background()))
	assert.Equal(t, 1, memStore.Len())
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Refreshes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StaleSnapshots))

	res := svc.Page(context.Background(), weather.Latest)
	require.NotNil(t, res.Data)
	assert.True(t, res.Data.Timestamp.Equal(ahead))
}
