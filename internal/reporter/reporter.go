package reporter

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/compass-assess/compass/internal/events"
	"github.com/compass-assess/compass/internal/store"
)

// Reporter periodically publishes platform-level assessment stats to
// the event bus for dashboards. It is a best-effort side channel: a
// failed publish is logged and skipped, never retried.
type Reporter struct {
	store    store.Store
	events   events.Client
	interval time.Duration
	logger   *slog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func New(s store.Store, ev events.Client, interval time.Duration, logger *slog.Logger) *Reporter {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Reporter{
		store:    s,
		events:   ev,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

func (r *Reporter) Start(ctx context.Context) {
	r.wg.Add(1)
	go r.loop(ctx)
}

func (r *Reporter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	r.wg.Wait()
}

func (r *Reporter) loop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.publishStats(ctx)
		}
	}
}

func (r *Reporter) publishStats(ctx context.Context) {
	stats, err := r.store.GetStats(ctx)
	if err != nil {
		r.logger.Warn("failed to collect stats", "error", err)
		return
	}

	ev := events.StatsEvent{
		Total:      stats.Total,
		WithScores: stats.WithScores,
		Weighted:   stats.Weighted,
		RawAverage: stats.RawAverage,
		Timestamp:  time.Now().UTC(),
	}
	if stats.AvgOverallScore != nil {
		ev.AvgOverallScore = *stats.AvgOverallScore
	}

	if err := r.events.Publish(events.SubjectStats, ev); err != nil {
		r.logger.Warn("failed to publish stats", "error", err)
	}
}
