// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	procTerminate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fftherm_proc_terminate_total",
		Help: "Signals sent to external process groups",
	}, []string{"signal", "outcome"}) // outcome=sent|error

	procWait = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fftherm_proc_wait_total",
		Help: "How terminated external processes exited",
	}, []string{"outcome"})
)

func IncProcTerminate(signal, outcome string) {
	procTerminate.WithLabelValues(signal, outcome).Inc()
}

func IncProcWait(outcome string) {
	procWait.WithLabelValues(outcome).Inc()
}
