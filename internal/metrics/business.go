// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package metrics holds the Prometheus collectors of fftherm. Collectors
// register on the default registry; callers only use the Record/Inc helpers.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Translation metrics
	thmzWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fftherm_thmz_written_total",
		Help: "THMZ archives written by outcome",
	}, []string{"outcome"}) // outcome=success|failure

	modelShapes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fftherm_model_shapes",
		Help:    "Number of shapes per translated model",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	// Simulation metrics
	thermRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fftherm_therm_runs_total",
		Help: "THERM runs by result",
	}, []string{"result"}) // result=success|failed|canceled|error

	thermRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fftherm_therm_run_duration_seconds",
		Help:    "Wall clock duration of THERM runs",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
	})

	batchInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fftherm_batch_runs_in_flight",
		Help: "THERM runs currently executing inside a batch",
	})

	// Library metrics
	libraryEntries = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fftherm_library_entries",
		Help: "Entries in the loaded library by kind (last load)",
	}, []string{"kind"}) // kind=materials|gases|conditions
)

// RecordTHMZWritten counts a THMZ write and the size of its model.
func RecordTHMZWritten(success bool, shapes int) {
	if !success {
		thmzWritten.WithLabelValues("failure").Inc()
		return
	}
	thmzWritten.WithLabelValues("success").Inc()
	modelShapes.Observe(float64(shapes))
}

// RecordThermRun counts a finished THERM run.
func RecordThermRun(result string, d time.Duration) {
	thermRuns.WithLabelValues(result).Inc()
	thermRunDuration.Observe(d.Seconds())
}

func IncBatchInFlight() { batchInFlight.Inc() }
func DecBatchInFlight() { batchInFlight.Dec() }

// SetLibraryEntries records the size of the loaded library.
func SetLibraryEntries(kind string, n int) {
	libraryEntries.WithLabelValues(kind).Set(float64(n))
}
