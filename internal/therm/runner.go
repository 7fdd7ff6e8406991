// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package therm drives the THERM command line interface: it writes a model
// to a .thmz archive, runs the simulation in its own process group and
// checks the THERM log for success.
package therm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ManuGH/fftherm/internal/ident"
	"github.com/ManuGH/fftherm/internal/lib"
	"github.com/ManuGH/fftherm/internal/log"
	"github.com/ManuGH/fftherm/internal/metrics"
	"github.com/ManuGH/fftherm/internal/model"
	"github.com/ManuGH/fftherm/internal/procgroup"
	"github.com/ManuGH/fftherm/internal/thmz"
)

const (
	// ModelFileName is the archive RunModel writes into the simulation folder.
	ModelFileName = "model.thmz"
	// LogFileName is the log THERM writes next to the archive.
	LogFileName = "therm.log"
	// BatchFileName is the script written for manual re-runs on Windows.
	BatchFileName = "run_therm.bat"

	successMarker = "Calculation complete."
	defaultGrace  = 5 * time.Second
	defaultTail   = 64
)

var (
	ErrNoThermExecutable  = errors.New("no usable THERM executable was found on the machine")
	ErrNoSimulationFolder = errors.New("no default simulation folder is configured")
	ErrSimulationFailed   = errors.New("THERM simulation failed")
)

// Run outcomes.
const (
	ResultSuccess  = "success"
	ResultFailed   = "failed"
	ResultCanceled = "canceled"
	ResultError    = "error"
)

// Run describes one finished THERM invocation.
type Run struct {
	ID       string
	Model    string
	THMZPath string
	Started  time.Time
	Duration time.Duration
	Result   string
	Message  string
}

// Recorder stores finished runs.
type Recorder interface {
	RecordRun(ctx context.Context, run Run) error
}

// Runner runs THERM. The zero value is unusable; Exe must point to the
// THERM executable.
type Runner struct {
	Exe              string
	SimulationFolder string
	// Grace is the time between SIGTERM and SIGKILL on cancellation.
	Grace time.Duration
	// Silent skips the batch file on Windows.
	Silent bool
	// Tail is the number of output lines kept for error messages.
	Tail     int
	Recorder Recorder
	// Library resolves material and condition references of model files
	// in RunBatch. Nil selects the built-in library.
	Library *lib.Library
}

func (r *Runner) grace() time.Duration {
	if r.Grace > 0 {
		return r.Grace
	}
	return defaultGrace
}

func (r *Runner) tail() int {
	if r.Tail > 0 {
		return r.Tail
	}
	return defaultTail
}

// Args returns the THERM command line for a simulation of thmzFile.
func Args(thmzFile, logFile string) []string {
	return []string{"-pw", "thmCLA", "-thmz", thmzFile, "-log", logFile, "-calc", "-exit"}
}

// RunTHMZ simulates an existing .thmz file and returns its absolute path.
// THERM writes the results into the archive itself.
func (r *Runner) RunTHMZ(ctx context.Context, file string, silent bool) (string, error) {
	run := r.begin(ctx, "", file)
	ctx = log.ContextWithRunID(ctx, run.ID)
	path, err := r.execute(ctx, file, silent)
	if path != "" {
		run.THMZPath = path
	}
	r.finish(ctx, run, err)
	return path, err
}

// RunModel writes m to dir/model.thmz, simulates it and checks therm.log.
// An empty dir selects the default simulation folder joined with the
// cleaned display name of the model.
func (r *Runner) RunModel(ctx context.Context, m *model.Model, dir string) (string, error) {
	if dir == "" {
		if r.SimulationFolder == "" {
			return "", ErrNoSimulationFolder
		}
		dir = filepath.Join(r.SimulationFolder, ident.CleanString(m.DisplayName()))
	}
	thmzFile := filepath.Join(dir, ModelFileName)
	run := r.begin(ctx, m.DisplayName(), thmzFile)
	ctx = log.ContextWithRunID(ctx, run.ID)

	path, err := r.runModel(ctx, m, dir, thmzFile)
	r.finish(ctx, run, err)
	return path, err
}

func (r *Runner) runModel(ctx context.Context, m *model.Model, dir, thmzFile string) (string, error) {
	if r.Exe == "" {
		return "", ErrNoThermExecutable
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create simulation folder: %w", err)
	}
	if err := thmz.WriteTHMZ(ctx, m, thmzFile); err != nil {
		return "", err
	}
	logFile := filepath.Join(dir, LogFileName)
	if err := os.Remove(logFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("remove stale log: %w", err)
	}

	path, err := r.execute(ctx, thmzFile, r.Silent)
	if err != nil {
		return path, err
	}
	return path, CheckLog(logFile)
}

// CheckLog fails with the log contents unless THERM reported a complete
// calculation.
func CheckLog(logFile string) error {
	data, err := os.ReadFile(logFile)
	if err != nil {
		return fmt.Errorf("%w: read log: %w", ErrSimulationFailed, err)
	}
	if !bytes.Contains(data, []byte(successMarker)) {
		return fmt.Errorf("%w. Open the thmz file in the THERM interface for more info.\n%s",
			ErrSimulationFailed, data)
	}
	return nil
}

// execute runs THERM on thmzFile and waits for it to exit or for ctx to
// end, in which case the process group is terminated.
func (r *Runner) execute(ctx context.Context, thmzFile string, silent bool) (string, error) {
	if r.Exe == "" {
		return "", ErrNoThermExecutable
	}
	abs, err := filepath.Abs(thmzFile)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(abs); err != nil || info.IsDir() {
		return "", fmt.Errorf("no THMZ file found at %s: %w", abs, os.ErrNotExist)
	}
	dir := filepath.Dir(abs)
	logFile := filepath.Join(dir, LogFileName)
	logger := log.WithComponentFromContext(ctx, "therm")

	name, args := r.Exe, Args(abs, logFile)
	if !silent && runtime.GOOS == "windows" {
		script, ok := BatchScript(r.Exe, abs, logFile)
		if ok {
			batFile := filepath.Join(dir, BatchFileName)
			if err := writeBatch(batFile, script); err != nil {
				return "", fmt.Errorf("write batch file: %w", err)
			}
			name, args = "cmd", []string{"/C", batFile}
		}
	}

	ring := NewLineRing(r.tail())
	cmd := exec.Command(name, args...) // #nosec G204
	cmd.Dir = dir
	cmd.Stdout = ring
	cmd.Stderr = ring
	cmd.WaitDelay = r.grace()
	procgroup.Set(cmd)

	if err := ctx.Err(); err != nil {
		return abs, err
	}
	if err := cmd.Start(); err != nil {
		return abs, fmt.Errorf("start THERM: %w", err)
	}
	logger.Debug().
		Int("pid", cmd.Process.Pid).
		Str(log.FieldThermExe, r.Exe).
		Str(log.FieldLogPath, logFile).
		Msg("THERM started")

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		if err := procgroup.Terminate(cmd, waitCh, r.grace()); err != nil {
			logger.Debug().Err(err).Msg("THERM terminated")
		}
		return abs, ctx.Err()
	case err := <-waitCh:
		if err == nil {
			return abs, nil
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return abs, fmt.Errorf("%w: exit code %d: %s", ErrSimulationFailed,
				exitErr.ExitCode(), strings.Join(ring.LastN(10), "; "))
		}
		return abs, fmt.Errorf("wait for THERM: %w", err)
	}
}

// BatchScript renders the Windows batch file that re-runs a simulation. It
// reports false for non-ASCII paths, which cmd.exe cannot run reliably.
func BatchScript(exe, thmzFile, logFile string) (string, bool) {
	script := fmt.Sprintf("%s\r\n\"%s\" -pw thmCLA -thmz \"%s\" -log \"%s\" -calc -exit\r\n",
		filepath.VolumeName(thmzFile), exe, thmzFile, logFile)
	if !ident.IsASCII(script) {
		return "", false
	}
	return script, true
}

func (r *Runner) begin(ctx context.Context, modelName, path string) Run {
	run := Run{ID: uuid.NewString(), Model: modelName, THMZPath: path, Started: time.Now()}
	logger := log.WithComponentFromContext(ctx, "therm")
	logger.Info().
		Str(log.FieldEvent, "therm.run.start").
		Str(log.FieldRunID, run.ID).
		Str(log.FieldModel, modelName).
		Str(log.FieldThmzPath, path).
		Msg("starting THERM simulation")
	return run
}

func (r *Runner) finish(ctx context.Context, run Run, err error) {
	run.Duration = time.Since(run.Started)
	run.Result = resultOf(err)
	if err != nil {
		run.Message = err.Error()
	}
	metrics.RecordThermRun(run.Result, run.Duration)

	logger := log.WithComponentFromContext(ctx, "therm")
	ev := logger.Info()
	if err != nil {
		ev = logger.Warn().Err(err)
	}
	ev.Str(log.FieldEvent, "therm.run.done").
		Str(log.FieldThmzPath, run.THMZPath).
		Str("result", run.Result).
		Dur(log.FieldDuration, run.Duration).
		Msg("THERM simulation finished")

	if r.Recorder == nil {
		return
	}
	if rerr := r.Recorder.RecordRun(context.WithoutCancel(ctx), run); rerr != nil {
		logger.Warn().Err(rerr).Msg("failed to record run")
	}
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ResultCanceled
	case errors.Is(err, ErrSimulationFailed):
		return ResultFailed
	default:
		return ResultError
	}
}
