// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/ManuGH/fftherm/internal/log"
)

func (s *session) configCommand() cli.Command {
	return cli.Command{
		Name:         "config",
		Usage:        "inspect the resolved configuration",
		Action:       groupAction,
		OnUsageError: onUsageError,
		Subcommands: []cli.Command{
			{
				Name:         "show",
				Usage:        "print the configuration after defaults, file, environment and discovery",
				OnUsageError: onUsageError,
				Action:       s.configShow,
			},
			{
				Name:         "validate",
				Usage:        "check the configuration and report unknown environment variables",
				OnUsageError: onUsageError,
				Action:       s.configValidate,
			},
		},
	}
}

func (s *session) configShow(c *cli.Context) error {
	if _, err := args(c, 0, 0); err != nil {
		return err
	}
	cfg, err := s.config()
	if err != nil {
		return err
	}
	out, err := cfg.YAML()
	if err != nil {
		return err
	}
	_, err = s.out.Write(out)
	return err
}

func (s *session) configValidate(c *cli.Context) error {
	if _, err := args(c, 0, 0); err != nil {
		return err
	}
	logger := log.WithComponentFromContext(s.ctx, "config")
	for _, key := range s.loader.UnknownEnvKeys() {
		logger.Warn().
			Str(log.FieldEvent, "config.unknown_env").
			Str("key", key).
			Msg("unknown FFTHERM_ environment variable")
	}
	cfg, err := s.config()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.out, "%s: ok\n", cfg.Folders.ConfigFile)
	return err
}
