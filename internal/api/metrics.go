package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/compass-assess/compass/internal/scoring"
)

var (
	scoreComputations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "compass_score_computations_total",
		Help: "Score computations by calculation policy.",
	}, []string{"calculation"})

	scoreComputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "compass_score_compute_seconds",
		Help:    "Duration of canonical score computations.",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
	})
)

// computeScore wraps the engine call so every call site shares the same
// instrumentation.
func computeScore(template scoring.Template, scores []scoring.Score, scheme *scoring.Scheme) scoring.Result {
	start := time.Now()
	result := scoring.Compute(template, scores, scheme)
	scoreComputeDuration.Observe(time.Since(start).Seconds())
	scoreComputations.WithLabelValues(string(result.CalculationUsed)).Inc()
	return result
}
