// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"github.com/urfave/cli"

	"github.com/ManuGH/fftherm/internal/api"
	"github.com/ManuGH/fftherm/internal/health"
	"github.com/ManuGH/fftherm/internal/history"
	"github.com/ManuGH/fftherm/internal/lib"
	"github.com/ManuGH/fftherm/internal/log"
	"github.com/ManuGH/fftherm/internal/version"
)

func (s *session) serveCommand() cli.Command {
	return cli.Command{
		Name:         "serve",
		Usage:        "serve the translation HTTP API",
		OnUsageError: onUsageError,
		Flags: []cli.Flag{
			cli.StringFlag{Name: "listen, l", Usage: "listen address (default: server.listen)"},
		},
		Action: s.serve,
	}
}

func (s *session) serve(c *cli.Context) error {
	if _, err := args(c, 0, 0); err != nil {
		return err
	}
	cfg, err := s.config()
	if err != nil {
		return err
	}
	library, err := lib.Load(cfg.Folders.LibFiles())
	if err != nil {
		return err
	}
	addr := cfg.Server.Listen
	if l := c.String("listen"); l != "" {
		addr = l
	}

	logger := log.WithComponentFromContext(s.ctx, "cli")
	logger.Info().
		Str(log.FieldEvent, "server.start").
		Str("addr", addr).
		Msg("serving HTTP API")
	hm := health.NewManager(version.Version)
	hm.RegisterChecker(health.NewThermChecker(cfg.Folders.ThermExe))
	hm.RegisterChecker(health.NewLibraryChecker(library))
	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		hm.RegisterChecker(health.NewHistoryChecker(store))
	}

	srv := api.New(api.Options{
		Library:   library,
		Version:   version.Version,
		RateLimit: cfg.Server.RateLimit,
		Health:    hm,
	})
	return srv.ListenAndServe(s.ctx, addr)
}
