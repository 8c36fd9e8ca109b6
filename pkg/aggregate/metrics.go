package aggregate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// aggregationDuration tracks end-to-end aggregation latency.
	aggregationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lodestone_aggregation_duration_seconds",
		Help:    "End-to-end character aggregation duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
	})

	// sectionsTotal tracks section fetch outcomes.
	sectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lodestone_sections_total",
		Help: "Section fetches by section and outcome",
	}, []string{"section", "outcome"}) // outcome: cached, public, private, error

	// batchCharactersTotal tracks batch lookups by result.
	batchCharactersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lodestone_batch_characters_total",
		Help: "Characters processed in batch mode by result",
	}, []string{"result"}) // result: ok, error
)

const (
	outcomeCached  = "cached"
	outcomePublic  = "public"
	outcomePrivate = "private"
	outcomeError   = "error"
)
