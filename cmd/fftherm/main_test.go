// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ManuGH/fftherm/internal/lib"
	"github.com/ManuGH/fftherm/internal/model"
	"github.com/ManuGH/fftherm/internal/result"
	"github.com/ManuGH/fftherm/internal/thmz"
	"github.com/ManuGH/fftherm/internal/xmlutil"
)

type env struct {
	dir     string
	cfgFile string
}

// newEnv writes a config file that keeps every path inside a temp dir.
func newEnv(t *testing.T, extra string) env {
	t.Helper()
	dir := t.TempDir()
	cfg := fmt.Sprintf("folders:\n  default_simulation_folder: %q\n%shistory:\n  path: %q\n",
		filepath.ToSlash(filepath.Join(dir, "sim")), extra,
		filepath.ToSlash(filepath.Join(dir, "history.db")))
	cfgFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(cfg), 0o600))
	return env{dir: dir, cfgFile: cfgFile}
}

func (e env) run(t *testing.T, argv ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"fftherm", "--config", e.cfgFile}, argv...)
	code := run(context.Background(), full, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func (e env) writeModel(t *testing.T, name string) string {
	t.Helper()
	m, err := model.FromLayers([]float64{100, 200}, 1000)
	require.NoError(t, err)
	m.SetDisplayName("Test Wall")
	path := filepath.Join(e.dir, name)
	require.NoError(t, m.WriteFile(path))
	return path
}

func TestTranslateModelToXML(t *testing.T) {
	e := newEnv(t, "")
	modelFile := e.writeModel(t, "wall.json")

	stdout, stderr, code := e.run(t, "translate", "model-to-xml", modelFile)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "<ThermModel")

	out := filepath.Join(e.dir, "wall.xml")
	stdout, stderr, code = e.run(t, "translate", "model-to-xml", "--output-file", out, modelFile)
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, out, strings.TrimSpace(stdout))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<ThermModel")
}

func TestTranslateModelToTHMZ(t *testing.T) {
	e := newEnv(t, "")
	modelFile := e.writeModel(t, "wall.json")

	stdout, stderr, code := e.run(t, "translate", "model-to-thmz", modelFile)
	require.Equal(t, exitOK, code, stderr)
	want := filepath.Join(e.dir, "wall.thmz")
	assert.Equal(t, want, strings.TrimSpace(stdout))

	a, err := thmz.ReadTHMZ(want)
	require.NoError(t, err)
	defer func() { _ = a.Close() }()
	assert.True(t, a.Has(thmz.EntryModel))
	assert.True(t, a.Has(thmz.EntryMaterials))
}

func TestExitCodes(t *testing.T) {
	e := newEnv(t, "")
	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "help", args: []string{"--help"}, want: exitOK},
		{name: "missing argument", args: []string{"translate", "model-to-xml"}, want: exitUsage},
		{name: "too many arguments", args: []string{"result", "u-factors", "a.thmz", "b.thmz"}, want: exitUsage},
		{name: "unknown command", args: []string{"frobnicate"}, want: exitUsage},
		{name: "unknown subcommand", args: []string{"translate", "model-to-idf", "x"}, want: exitUsage},
		{name: "unknown flag", args: []string{"translate", "model-to-xml", "--bogus", "x"}, want: exitUsage},
		{name: "bad workers", args: []string{"simulate", "batch", "--workers", "0", "x"}, want: exitUsage},
		{name: "missing model", args: []string{"translate", "model-to-xml", filepath.Join(e.dir, "nope.json")}, want: exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := e.run(t, tt.args...)
			assert.Equal(t, tt.want, code, stderr)
		})
	}
}

func TestSimulateWithoutTherm(t *testing.T) {
	e := newEnv(t, "")
	modelFile := e.writeModel(t, "wall.json")
	_, stderr, code := e.run(t, "simulate", "model", modelFile)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "THERM")
}

func TestConfigCommands(t *testing.T) {
	e := newEnv(t, "")
	stdout, stderr, code := e.run(t, "config", "show")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "default_simulation_folder:")
	assert.Contains(t, stdout, "workers: 2")

	stdout, stderr, code = e.run(t, "config", "validate")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "config.yaml: ok")

	broken := filepath.Join(e.dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("folders:\n  therm_exe_path: x\n"), 0o600))
	var out, errOut bytes.Buffer
	code = run(context.Background(), []string{"fftherm", "--config", broken, "config", "validate"}, &out, &errOut)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, errOut.String(), "therm_exe_path")
}

func TestLibCommands(t *testing.T) {
	e := newEnv(t, "")
	tests := []struct {
		kind string
		want string
	}{
		{kind: "materials", want: lib.GenericConcreteName},
		{kind: "gases", want: lib.AirName},
		{kind: "conditions", want: lib.ExteriorName},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			stdout, stderr, code := e.run(t, "lib", tt.kind)
			require.Equal(t, exitOK, code, stderr)
			assert.True(t, strings.HasPrefix(stdout, "NAME"))
			assert.Contains(t, stdout, tt.want)
		})
	}
}

// writeResultArchive zips THERM result documents without a mesh.
func writeResultArchive(t *testing.T, path string) {
	t.Helper()
	docs := map[string]any{
		thmz.EntryResults: result.ResultsXML{Cases: []result.ResultsCaseXML{{
			ModelType: "Opaque",
			UFactors: []result.UFactorXML{{
				Tag:    "Wall Assembly",
				DeltaT: result.ValueXML{Value: 39, Units: "C"},
				Projections: []result.ProjectionXML{{
					LengthType: result.LengthTotal,
					Length:     result.ValueXML{Value: 200, Units: "mm"},
					UFactor:    result.ValueXML{Value: 1.971534, Units: "W/m2-K"},
				}},
			}},
		}}},
		thmz.EntryMeshResults: result.MeshResultsXML{Cases: []result.MeshResultCaseXML{{
			ResultsType: "Temperature",
			Nodes: []result.NodeResultXML{
				{Index: 1, Temperature: -18, XFlux: 3, YFlux: 4},
				{Index: 2, Temperature: 21},
			},
		}}},
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, doc := range docs {
		data, err := xmlutil.MarshalDocument(doc)
		require.NoError(t, err)
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestResultCommands(t *testing.T) {
	e := newEnv(t, "")
	archive := filepath.Join(e.dir, "simulated.thmz")
	writeResultArchive(t, archive)

	stdout, stderr, code := e.run(t, "result", "u-factors", archive)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "Wall Assembly")
	assert.Contains(t, stdout, "1.97153")

	stdout, stderr, code = e.run(t, "result", "u-factors", "--json", archive)
	require.Equal(t, exitOK, code, stderr)
	var ufs []result.UFactor
	require.NoError(t, json.Unmarshal([]byte(stdout), &ufs))
	require.Len(t, ufs, 1)
	assert.Equal(t, 1.971534, ufs[0].TotalUFactor)

	stdout, stderr, code = e.run(t, "result", "temperatures", archive)
	require.Equal(t, exitOK, code, stderr)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	// header, underline and one row per node
	require.Len(t, lines, 4)
	assert.Contains(t, lines[2], "-18")
	assert.Contains(t, lines[2], "5")

	unsimulated := filepath.Join(e.dir, "wall.thmz")
	_, stderr, code = e.run(t, "translate", "model-to-thmz", "--output-file", unsimulated, e.writeModel(t, "wall.json"))
	require.Equal(t, exitOK, code, stderr)
	_, stderr, code = e.run(t, "result", "u-factors", unsimulated)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, result.ErrNoResults.Error())
}

func TestWatchFile(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, 20*time.Millisecond, func() { changed <- struct{}{} })
	}()

	// The watcher registers asynchronously, so keep touching the file.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(`{"touched": true}`), 0o600)
		select {
		case <-changed:
			return true
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestServeStopsOnCancel(t *testing.T) {
	e := newEnv(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() {
		var stdout, stderr bytes.Buffer
		done <- run(ctx, []string{"fftherm", "--config", e.cfgFile, "serve", "--listen", "127.0.0.1:0"}, &stdout, &stderr)
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()
	select {
	case code := <-done:
		assert.Equal(t, exitOK, code)
	case <-time.After(15 * time.Second):
		t.Fatal("serve did not stop")
	}
}
