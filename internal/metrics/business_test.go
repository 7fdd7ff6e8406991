// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/fftherm/internal/metrics"
)

func TestPromhttpExposure(t *testing.T) {
	metrics.RecordThermRun("success", 2*time.Second)

	srv := httptest.NewServer(promhttp.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `fftherm_therm_runs_total{result="success"}`)
	assert.Contains(t, string(body), "fftherm_therm_run_duration_seconds_bucket")
}

func TestRecordTHMZWritten(t *testing.T) {
	tests := []struct {
		name    string
		success bool
		outcome string
	}{
		{name: "written", success: true, outcome: "success"},
		{name: "failed", success: false, outcome: "failure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics.RecordTHMZWritten(tt.success, 3)
		})
	}

	want := `
# HELP fftherm_thmz_written_total THMZ archives written by outcome
# TYPE fftherm_thmz_written_total counter
fftherm_thmz_written_total{outcome="failure"} 1
fftherm_thmz_written_total{outcome="success"} 1
`
	require.NoError(t, testutil.GatherAndCompare(
		prometheus.DefaultGatherer, strings.NewReader(want), "fftherm_thmz_written_total"))
}

func TestProcessCounters(t *testing.T) {
	metrics.IncProcTerminate("SIGTERM", "sent")
	metrics.IncProcWait("exit0")
	metrics.IncBatchInFlight()
	metrics.DecBatchInFlight()
	metrics.SetLibraryEntries("materials", 3)
	metrics.RecordHTTPRequest("", 404, time.Millisecond)

	n, err := testutil.GatherAndCount(prometheus.DefaultGatherer,
		"fftherm_proc_terminate_total", "fftherm_proc_wait_total", "fftherm_library_entries")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 3)
}

func TestWriteTextfile(t *testing.T) {
	metrics.SetLibraryEntries("gases", 5)
	path := filepath.Join(t.TempDir(), "prom", "fftherm.prom")
	require.NoError(t, metrics.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `fftherm_library_entries{kind="gases"} 5`)
}

func TestMetricsEndpointStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func family(t *testing.T, name string) *dto.MetricFamily {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	t.Fatalf("metric family %s not gathered", name)
	return nil
}

func TestModelShapesHistogram(t *testing.T) {
	count := func() (uint64, float64) {
		f := family(t, "fftherm_model_shapes")
		require.Equal(t, dto.MetricType_HISTOGRAM, f.GetType())
		h := f.GetMetric()[0].GetHistogram()
		return h.GetSampleCount(), h.GetSampleSum()
	}
	n, sum := count()
	metrics.RecordTHMZWritten(true, 7)

	gotN, gotSum := count()
	assert.Equal(t, n+1, gotN)
	assert.Equal(t, sum+7, gotSum)
}
