package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/inje-weather/internal/metrics"
)

var errSourcePanic = errors.New("source panicked")

// Sources is the typed set of adapters the Aggregator fans out over.
// A nil single-instance source is always reported as absent.
type Sources struct {
	AWS          []Source[AWSStation]
	Forecast     []Source[Forecast]
	ForestFire   Source[ForestFire]
	Particulates Source[Particulates]
}

// Aggregator runs every source concurrently and joins the results into one Snapshot.
type Aggregator struct {
	sources Sources
	metrics *metrics.Registry
}

// NewAggregator creates an Aggregator. m may be nil.
func NewAggregator(sources Sources, m *metrics.Registry) *Aggregator {
	return &Aggregator{sources: sources, metrics: m}
}

// Aggregate waits for all sources to settle. A failing source leaves its slot
// absent; it never aborts the aggregation.
func (a *Aggregator) Aggregate(ctx context.Context, now time.Time) Snapshot {
	start := time.Now()
	runID := uuid.NewString()
	logger := log.With().Str("run", runID).Logger()
	logger.Debug().Time("at", now).Msg("aggregation started")

	snap := Snapshot{
		Timestamp: now,
		AWS:       make([]Optional[AWSStation], len(a.sources.AWS)),
		Forecast:  make([]Optional[Forecast], len(a.sources.Forecast)),
	}

	// Tasks never return errors, so no task cancels its siblings.
	var g errgroup.Group
	for i, src := range a.sources.AWS {
		collect(ctx, &g, a, runID, src, &snap.AWS[i])
	}
	for i, src := range a.sources.Forecast {
		collect(ctx, &g, a, runID, src, &snap.Forecast[i])
	}
	collect(ctx, &g, a, runID, a.sources.ForestFire, &snap.ForestFire)
	collect(ctx, &g, a, runID, a.sources.Particulates, &snap.Particulates)
	_ = g.Wait()

	logger.Debug().Dur("took", time.Since(start)).Msg("aggregation finished")
	return snap
}

// collect schedules src on g and writes its result into dst. Each task owns a
// distinct dst, and g.Wait orders those writes before the snapshot is read.
func collect[T any](ctx context.Context, g *errgroup.Group, a *Aggregator, runID string, src Source[T], dst *Optional[T]) {
	if src == nil {
		return
	}
	g.Go(func() error {
		v, err := run(ctx, src)
		if err != nil {
			log.Warn().Err(err).Str("run", runID).Str("source", src.Name()).Msg("source unavailable")
			a.metrics.SourceFailed(src.Name(), failureKind(err))
			return nil
		}
		*dst = Some(v)
		return nil
	})
}

func run[T any](ctx context.Context, src Source[T]) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errSourcePanic, r)
		}
	}()

	doc, err := src.Fetch(ctx)
	if err != nil {
		return v, err
	}
	return src.Parse(doc)
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrFetch):
		return "fetch"
	case errors.Is(err, errSourcePanic):
		return "panic"
	default:
		return "other"
	}
}
