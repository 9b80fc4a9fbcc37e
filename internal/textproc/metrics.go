package textproc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransformsTotal counts transform calls.
	// Labels: operation (flashcards, flowchart, simplify, concepts), result (ok, cancelled)
	TransformsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scholard",
			Subsystem: "textproc",
			Name:      "transforms_total",
			Help:      "Total number of note transform calls",
		},
		[]string{"operation", "result"},
	)

	// TransformDuration tracks transform latency including simulated delay.
	TransformDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "scholard",
			Subsystem: "textproc",
			Name:      "transform_duration_seconds",
			Help:      "Duration of note transform calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)
