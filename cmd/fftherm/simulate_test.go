// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

//go:build unix

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeTherm = `#!/bin/sh
while [ $# -gt 0 ]; do
  case "$1" in
    -log) log="$2"; shift ;;
  esac
  shift
done
echo "Calculation complete." > "$log"
`

func thermEnv(t *testing.T) env {
	t.Helper()
	exe := filepath.Join(t.TempDir(), "therm")
	require.NoError(t, os.WriteFile(exe, []byte(fakeTherm), 0o755))
	return newEnv(t, "  therm_exe: \""+filepath.ToSlash(exe)+"\"\n")
}

func TestSimulateModel(t *testing.T) {
	e := thermEnv(t)
	modelFile := e.writeModel(t, "wall.json")
	folder := filepath.Join(e.dir, "run")
	metricsFile := filepath.Join(e.dir, "metrics", "fftherm.prom")

	stdout, stderr, code := e.run(t, "simulate", "model", "--folder", folder, "--metrics-file", metricsFile, modelFile)
	require.Equal(t, exitOK, code, stderr)
	thmzFile := strings.TrimSpace(stdout)
	assert.Equal(t, "model.thmz", filepath.Base(thmzFile))
	assert.FileExists(t, thmzFile)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "fftherm_therm_runs_total")

	stdout, stderr, code = e.run(t, "simulate", "thmz", "--silent", thmzFile)
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, thmzFile, strings.TrimSpace(stdout))

	stdout, stderr, code = e.run(t, "simulate", "history")
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, 2, strings.Count(stdout, "success"))
	assert.Contains(t, stdout, "Test Wall")

	stdout, stderr, code = e.run(t, "simulate", "history", "--limit", "1", "--verify")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "history database ok")
	assert.Equal(t, 1, strings.Count(stdout, "success"))
}

func TestSimulateBatch(t *testing.T) {
	e := thermEnv(t)
	first := e.writeModel(t, "first.json")
	second := e.writeModel(t, "second.json")
	folder := filepath.Join(e.dir, "batch")

	stdout, stderr, code := e.run(t, "simulate", "batch", "--workers", "2", "--folder", folder, first, second)
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, 2, strings.Count(stdout, " ok"))
	assert.FileExists(t, filepath.Join(folder, "first", "model.thmz"))
	assert.FileExists(t, filepath.Join(folder, "second", "model.thmz"))

	stdout, _, code = e.run(t, "simulate", "batch", first, filepath.Join(e.dir, "missing.json"))
	assert.Equal(t, exitFailure, code)
	assert.Equal(t, 1, strings.Count(stdout, " ok"))
}
