// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/renameio/v2"
	"github.com/urfave/cli"

	"github.com/ManuGH/fftherm/internal/log"
	"github.com/ManuGH/fftherm/internal/thmz"
)

const watchDebounce = 300 * time.Millisecond

func (s *session) translateCommand() cli.Command {
	return cli.Command{
		Name:         "translate",
		Usage:        "translate a model into THERM files",
		Action:       groupAction,
		OnUsageError: onUsageError,
		Subcommands: []cli.Command{
			{
				Name:         "model-to-thmz",
				Usage:        "write a model as a THERM .thmz archive",
				ArgsUsage:    "MODEL",
				OnUsageError: onUsageError,
				Flags: []cli.Flag{
					cli.StringFlag{Name: "output-file, o", Usage: "archive path (default: MODEL with a .thmz extension)"},
					cli.BoolFlag{Name: "watch, w", Usage: "translate again whenever MODEL changes"},
				},
				Action: s.modelToTHMZ,
			},
			{
				Name:         "model-to-xml",
				Usage:        "print the THERM model XML of a model",
				ArgsUsage:    "MODEL",
				OnUsageError: onUsageError,
				Flags: []cli.Flag{
					cli.StringFlag{Name: "output-file, o", Usage: "write to a file instead of stdout"},
				},
				Action: s.modelToXML,
			},
		},
	}
}

func defaultTHMZPath(modelFile string) string {
	return strings.TrimSuffix(modelFile, filepath.Ext(modelFile)) + ".thmz"
}

func (s *session) modelToTHMZ(c *cli.Context) error {
	a, err := args(c, 1, 1)
	if err != nil {
		return err
	}
	modelFile := a[0]
	out := c.String("output-file")
	if out == "" {
		out = defaultTHMZPath(modelFile)
	}

	translate := func() error {
		m, err := s.loadModel(modelFile)
		if err != nil {
			return err
		}
		if err := thmz.WriteTHMZ(s.ctx, m, out); err != nil {
			return err
		}
		_, err = fmt.Fprintln(s.out, out)
		return err
	}

	if !c.Bool("watch") {
		return translate()
	}
	if err := translate(); err != nil {
		return err
	}
	logger := log.WithComponentFromContext(s.ctx, "cli")
	return watchFile(s.ctx, modelFile, watchDebounce, func() {
		if err := translate(); err != nil {
			logger.Error().Err(err).
				Str(log.FieldEvent, "translate.watch_failed").
				Str(log.FieldPath, modelFile).
				Msg("translation failed, waiting for the next change")
		}
	})
}

func (s *session) modelToXML(c *cli.Context) error {
	a, err := args(c, 1, 1)
	if err != nil {
		return err
	}
	m, err := s.loadModel(a[0])
	if err != nil {
		return err
	}
	data, err := thmz.MarshalModel(m)
	if err != nil {
		return err
	}
	if out := c.String("output-file"); out != "" {
		if err := renameio.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		_, err = fmt.Fprintln(s.out, out)
		return err
	}
	_, err = s.out.Write(data)
	return err
}
