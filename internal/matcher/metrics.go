package matcher

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchesTotal counts searches by preset.
	// Labels: preset (researcher, citation), result (hit, empty, cancelled)
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scholard",
			Subsystem: "matcher",
			Name:      "searches_total",
			Help:      "Total number of relevance searches",
		},
		[]string{"preset", "result"},
	)

	// SearchDuration tracks search latency including simulated delay.
	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "scholard",
			Subsystem: "matcher",
			Name:      "search_duration_seconds",
			Help:      "Duration of relevance searches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"preset"},
	)

	// ResultsReturned tracks how many results a search keeps.
	ResultsReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "scholard",
			Subsystem: "matcher",
			Name:      "results_returned",
			Help:      "Number of results kept per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
		[]string{"preset"},
	)
)

// ObserveSearch records a finished search. A negative count marks a
// search abandoned before it produced results.
func ObserveSearch(preset string, results int, elapsed time.Duration) {
	SearchDuration.WithLabelValues(preset).Observe(elapsed.Seconds())
	switch {
	case results < 0:
		SearchesTotal.WithLabelValues(preset, "cancelled").Inc()
		return
	case results == 0:
		SearchesTotal.WithLabelValues(preset, "empty").Inc()
	default:
		SearchesTotal.WithLabelValues(preset, "hit").Inc()
	}
	ResultsReturned.WithLabelValues(preset).Observe(float64(results))
}
