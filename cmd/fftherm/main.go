// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Command fftherm translates fairyfly models into THERM files, runs THERM
// and reads its results.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/ManuGH/fftherm/internal/config"
	"github.com/ManuGH/fftherm/internal/log"
	"github.com/ManuGH/fftherm/internal/version"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	err := newApp(ctx, stdout, stderr).Run(args)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "fftherm: %v\n", err)
	}
	return exitCode(err)
}

// session is the state shared by all commands of one invocation.
type session struct {
	ctx    context.Context
	out    io.Writer
	errOut io.Writer

	loader  *config.Loader
	cfg     config.Config
	loadErr error
}

func newApp(ctx context.Context, stdout, stderr io.Writer) *cli.App {
	s := &session{ctx: ctx, out: stdout, errOut: stderr}

	app := cli.NewApp()
	app.Name = "fftherm"
	app.Usage = "translate fairyfly models to THERM and run simulations"
	app.Version = version.String()
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config, c",
			Usage:  "path to the YAML config file",
			EnvVar: config.EnvConfigFile,
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "log level (debug, info, warn, error)",
		},
	}
	app.Before = s.before
	app.Action = groupAction
	app.OnUsageError = onUsageError
	// Errors are mapped to exit codes in run.
	app.ExitErrHandler = func(*cli.Context, error) {}
	app.Commands = []cli.Command{
		s.translateCommand(),
		s.simulateCommand(),
		s.resultCommand(),
		s.libCommand(),
		s.configCommand(),
		s.serveCommand(),
	}
	return app
}

// before loads the configuration and sets up logging. A broken config is
// reported by the commands that need it, so `config validate` can still
// explain what is wrong.
func (s *session) before(c *cli.Context) error {
	s.loader = config.NewLoader(c.GlobalString("config"))
	s.cfg, s.loadErr = s.loader.Load()

	level := s.cfg.LogLevel
	if l := c.GlobalString("log-level"); l != "" {
		level = l
	}
	log.Configure(log.Config{Level: level, Output: s.errOut, Version: version.Version})
	return nil
}

func (s *session) config() (config.Config, error) {
	if s.loadErr != nil {
		return s.cfg, s.loadErr
	}
	return s.cfg, nil
}

// usageError marks errors caused by bad invocations.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

func onUsageError(_ *cli.Context, err error, _ bool) error {
	return usageError{msg: err.Error()}
}

// groupAction handles invocations of a command group without a known
// subcommand.
func groupAction(c *cli.Context) error {
	if c.NArg() > 0 {
		return usagef("unknown command %q", c.Args().First())
	}
	return cli.ShowAppHelp(c)
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var u usageError
	if errors.As(err, &u) {
		return exitUsage
	}
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return exitUsage
	}
	return exitFailure
}

// args checks the positional argument count of a command.
func args(c *cli.Context, lo, hi int) ([]string, error) {
	n := c.NArg()
	if n < lo || (hi >= 0 && n > hi) {
		return nil, usagef("%s: expected %s", c.Command.FullName(), c.Command.ArgsUsage)
	}
	return c.Args(), nil
}
