// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli"

	"github.com/ManuGH/fftherm/internal/config"
	"github.com/ManuGH/fftherm/internal/history"
	"github.com/ManuGH/fftherm/internal/lib"
	"github.com/ManuGH/fftherm/internal/log"
	"github.com/ManuGH/fftherm/internal/metrics"
	"github.com/ManuGH/fftherm/internal/therm"
)

const defaultHistoryLimit = 20

func (s *session) simulateCommand() cli.Command {
	return cli.Command{
		Name:         "simulate",
		Usage:        "run THERM simulations",
		Action:       groupAction,
		OnUsageError: onUsageError,
		Subcommands: []cli.Command{
			{
				Name:         "model",
				Usage:        "write a model to a .thmz archive and simulate it",
				ArgsUsage:    "MODEL",
				OnUsageError: onUsageError,
				Flags: []cli.Flag{
					cli.StringFlag{Name: "folder, f", Usage: "simulation folder (default: <simulation folder>/<model name>)"},
					cli.StringFlag{Name: "metrics-file", Usage: "write Prometheus metrics to this textfile after the run"},
				},
				Action: s.simulateModel,
			},
			{
				Name:         "thmz",
				Usage:        "simulate an existing .thmz archive in place",
				ArgsUsage:    "FILE",
				OnUsageError: onUsageError,
				Flags: []cli.Flag{
					cli.BoolFlag{Name: "silent", Usage: "run THERM directly instead of through a batch file"},
				},
				Action: s.simulateTHMZ,
			},
			{
				Name:         "batch",
				Usage:        "simulate several models or archives in parallel",
				ArgsUsage:    "MODEL...",
				OnUsageError: onUsageError,
				Flags: []cli.Flag{
					cli.IntFlag{Name: "workers, j", Usage: "parallel THERM processes (default: simulation.workers)"},
					cli.StringFlag{Name: "folder, f", Usage: "parent folder of the per-model simulation folders"},
				},
				Action: s.simulateBatch,
			},
			{
				Name:         "history",
				Usage:        "list recorded THERM runs",
				OnUsageError: onUsageError,
				Flags: []cli.Flag{
					cli.IntFlag{Name: "limit, n", Value: defaultHistoryLimit, Usage: "number of runs to show, 0 for all"},
					cli.BoolFlag{Name: "verify", Usage: "run a full integrity check of the history database"},
				},
				Action: s.simulateHistory,
			},
		},
	}
}

// runner builds a THERM runner from cfg. Runs are recorded in the history
// database when it can be opened.
func (s *session) runner(cfg config.Config) (*therm.Runner, func()) {
	r := &therm.Runner{
		Exe:              cfg.Folders.ThermExe,
		SimulationFolder: cfg.Folders.DefaultSimulationFolder,
		Grace:            cfg.Simulation.TermGrace,
	}
	if cfg.History.Path == "" {
		return r, func() {}
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		logger := log.WithComponentFromContext(s.ctx, "cli")
		logger.Warn().Err(err).
			Str(log.FieldEvent, "history.unavailable").
			Str(log.FieldPath, cfg.History.Path).
			Msg("run history disabled")
		return r, func() {}
	}
	r.Recorder = store
	return r, func() { _ = store.Close() }
}

func (s *session) simulateModel(c *cli.Context) error {
	a, err := args(c, 1, 1)
	if err != nil {
		return err
	}
	cfg, err := s.config()
	if err != nil {
		return err
	}
	m, err := s.loadModel(a[0])
	if err != nil {
		return err
	}
	r, closeRunner := s.runner(cfg)
	defer closeRunner()

	path, runErr := r.RunModel(s.ctx, m, c.String("folder"))
	if f := c.String("metrics-file"); f != "" {
		if err := metrics.WriteTextfile(f); err != nil {
			runErr = errors.Join(runErr, err)
		}
	}
	if runErr != nil {
		return runErr
	}
	_, err = fmt.Fprintln(s.out, path)
	return err
}

func (s *session) simulateTHMZ(c *cli.Context) error {
	a, err := args(c, 1, 1)
	if err != nil {
		return err
	}
	cfg, err := s.config()
	if err != nil {
		return err
	}
	r, closeRunner := s.runner(cfg)
	defer closeRunner()

	path, err := r.RunTHMZ(s.ctx, a[0], c.Bool("silent"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(s.out, path)
	return err
}

func (s *session) simulateBatch(c *cli.Context) error {
	files, err := args(c, 1, -1)
	if err != nil {
		return err
	}
	cfg, err := s.config()
	if err != nil {
		return err
	}
	workers := cfg.Simulation.Workers
	if c.IsSet("workers") {
		workers = c.Int("workers")
		if workers < 1 {
			return usagef("--workers must be at least 1")
		}
	}
	library, err := lib.Load(cfg.Folders.LibFiles())
	if err != nil {
		return err
	}
	r, closeRunner := s.runner(cfg)
	defer closeRunner()
	r.Library = library
	if folder := c.String("folder"); folder != "" {
		r.SimulationFolder = folder
	}

	results, batchErr := r.RunBatch(s.ctx, files, workers)
	t := s.table()
	t.AddHeader("INPUT", "THMZ", "STATUS")
	for _, res := range results {
		status := "ok"
		if res.Err != nil {
			status = res.Err.Error()
		}
		t.AddLine(res.Input, res.THMZ, status)
	}
	t.Print()
	return batchErr
}

func (s *session) simulateHistory(c *cli.Context) error {
	if _, err := args(c, 0, 0); err != nil {
		return err
	}
	cfg, err := s.config()
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return errors.New("no history database configured")
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if c.Bool("verify") {
		problems, err := store.Verify(true)
		if err != nil {
			return err
		}
		if len(problems) > 0 {
			for _, p := range problems {
				_, _ = fmt.Fprintln(s.out, p)
			}
			return fmt.Errorf("history database %s failed the integrity check", cfg.History.Path)
		}
		_, _ = fmt.Fprintln(s.out, "history database ok")
	}

	limit := c.Int("limit")
	if limit < 0 {
		return usagef("--limit must not be negative")
	}
	runs, err := store.List(s.ctx, limit)
	if err != nil {
		return err
	}
	t := s.table()
	t.AddHeader("STARTED", "MODEL", "RESULT", "DURATION", "THMZ", "MESSAGE")
	for _, run := range runs {
		t.AddLine(
			run.Started.Local().Format(time.DateTime),
			run.Model,
			run.Result,
			run.Duration.Round(time.Millisecond).String(),
			run.THMZPath,
			run.Message,
		)
	}
	t.Print()
	return nil
}
