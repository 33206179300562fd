package runner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// runsTotal counts finished runs.
	// Labels: stop_reason
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tsat",
		Subsystem: "runner",
		Name:      "runs_total",
		Help:      "Total saturation runs by stop reason",
	}, []string{"stop_reason"})

	iterationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tsat",
		Subsystem: "runner",
		Name:      "iterations_total",
		Help:      "Total saturation iterations",
	})

	// phaseSeconds measures the phases of an iteration.
	// Labels: phase (search, apply, rebuild)
	phaseSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tsat",
		Subsystem: "runner",
		Name:      "phase_seconds",
		Help:      "Duration of iteration phases in seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"phase"})

	unionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tsat",
		Subsystem: "runner",
		Name:      "unions_total",
		Help:      "Total e-class unions made by rule application and rebuilding",
	})

	finalNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tsat",
		Subsystem: "runner",
		Name:      "final_egraph_nodes",
		Help:      "E-graph size in e-nodes when a run stops",
		Buckets:   prometheus.ExponentialBuckets(10, 4, 8),
	})
)
