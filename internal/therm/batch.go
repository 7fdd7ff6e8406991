// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package therm

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/fftherm/internal/ident"
	"github.com/ManuGH/fftherm/internal/log"
	"github.com/ManuGH/fftherm/internal/metrics"
	"github.com/ManuGH/fftherm/internal/model"
)

// BatchResult is the outcome of one input of RunBatch.
type BatchResult struct {
	Input string
	THMZ  string
	Err   error
}

// RunBatch simulates files with at most workers concurrent THERM processes.
// Files ending in .thmz run as they are; any other file is loaded as a
// model JSON and simulated in its own folder named after the file, with a
// numeric suffix when another input already claimed that name. Inputs that
// share a folder, and so a therm.log, never run at the same time. A failed
// input does not stop the others. The returned error joins every failure.
func (r *Runner) RunBatch(ctx context.Context, files []string, workers int) ([]BatchResult, error) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	logger := log.WithComponentFromContext(ctx, "therm")
	logger.Info().
		Str(log.FieldEvent, "therm.batch.start").
		Int("files", len(files)).
		Int(log.FieldWorkers, workers).
		Msg("starting THERM batch")
	start := time.Now()

	plan := r.planBatch(files)
	results := make([]BatchResult, len(files))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, file := range files {
		i, file := i, file
		results[i].Input = file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			job := plan[i]
			job.mu.Lock()
			defer job.mu.Unlock()
			metrics.IncBatchInFlight()
			defer metrics.DecBatchInFlight()
			results[i].THMZ, results[i].Err = r.runInput(ctx, file, job.dir)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Input, res.Err))
		}
	}
	logger.Info().
		Str(log.FieldEvent, "therm.batch.done").
		Int("failed", len(errs)).
		Dur(log.FieldDuration, time.Since(start)).
		Msg("THERM batch finished")
	return results, errors.Join(errs...)
}

// batchJob is the working folder of one input. Jobs with the same folder
// share mu.
type batchJob struct {
	dir string
	mu  *sync.Mutex
}

// planBatch assigns every input its folder. Archives keep their own
// directory; models get base/<clean stem>, suffixed _2, _3, ... until the
// name is free. Names compare case-insensitively for Windows.
func (r *Runner) planBatch(files []string) []batchJob {
	jobs := make([]batchJob, len(files))
	locks := map[string]*sync.Mutex{}
	claim := func(dir string) *sync.Mutex {
		key := strings.ToLower(dir)
		if mu, ok := locks[key]; ok {
			return mu
		}
		mu := &sync.Mutex{}
		locks[key] = mu
		return mu
	}

	for i, file := range files {
		if isTHMZ(file) {
			dir := absDir(file)
			jobs[i] = batchJob{dir: dir, mu: claim(dir)}
		}
	}
	for i, file := range files {
		if isTHMZ(file) {
			continue
		}
		base := r.SimulationFolder
		if base == "" {
			base = filepath.Dir(file)
		}
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
		stem := ident.CleanString(strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)))
		dir := filepath.Join(base, stem)
		for n := 2; locks[strings.ToLower(dir)] != nil; n++ {
			dir = filepath.Join(base, fmt.Sprintf("%s_%d", stem, n))
		}
		jobs[i] = batchJob{dir: dir, mu: claim(dir)}
	}
	return jobs
}

func isTHMZ(file string) bool {
	return strings.EqualFold(filepath.Ext(file), ".thmz")
}

func absDir(file string) string {
	if abs, err := filepath.Abs(file); err == nil {
		return filepath.Dir(abs)
	}
	return filepath.Dir(filepath.Clean(file))
}

func (r *Runner) runInput(ctx context.Context, file, dir string) (string, error) {
	if isTHMZ(file) {
		return r.RunTHMZ(ctx, file, true)
	}
	m, err := model.Load(file, model.WithLibrary(r.Library))
	if err != nil {
		return "", err
	}
	return r.RunModel(ctx, m, dir)
}
