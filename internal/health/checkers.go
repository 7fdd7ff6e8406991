// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/ManuGH/fftherm/internal/lib"
	"github.com/ManuGH/fftherm/internal/therm"
)

// ThermChecker checks the THERM executable. Translation works without
// THERM, so a missing executable only degrades the service.
type ThermChecker struct {
	exe string
}

func NewThermChecker(exe string) *ThermChecker {
	return &ThermChecker{exe: exe}
}

func (c *ThermChecker) Name() string { return "therm" }

func (c *ThermChecker) Check(context.Context) CheckResult {
	if c.exe == "" {
		return CheckResult{Status: StatusDegraded, Message: therm.ErrNoThermExecutable.Error()}
	}
	info, err := os.Stat(c.exe)
	switch {
	case os.IsNotExist(err):
		return CheckResult{Status: StatusDegraded, Error: "file not found", Message: c.exe}
	case err != nil:
		return CheckResult{Status: StatusDegraded, Error: err.Error(), Message: c.exe}
	case info.IsDir():
		return CheckResult{Status: StatusDegraded, Error: "expected file, got directory", Message: c.exe}
	case runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0:
		return CheckResult{Status: StatusDegraded, Error: "not executable", Message: c.exe}
	}
	return CheckResult{Status: StatusHealthy, Message: c.exe}
}

// RunLister lists recorded THERM runs, newest first.
type RunLister interface {
	List(ctx context.Context, limit int) ([]therm.Run, error)
}

// HistoryChecker reports the last recorded THERM run. An unreadable
// history is unhealthy, a failed last run is degraded.
type HistoryChecker struct {
	runs RunLister
}

func NewHistoryChecker(runs RunLister) *HistoryChecker {
	return &HistoryChecker{runs: runs}
}

func (c *HistoryChecker) Name() string { return "history" }

func (c *HistoryChecker) Check(ctx context.Context) CheckResult {
	runs, err := c.runs.List(ctx, 1)
	if err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	if len(runs) == 0 {
		return CheckResult{Status: StatusHealthy, Message: "no runs recorded"}
	}
	last := runs[0]
	msg := fmt.Sprintf("last run %s at %s", last.Result, last.Started.UTC().Format("2006-01-02T15:04:05Z"))
	if last.Result != therm.ResultSuccess {
		return CheckResult{Status: StatusDegraded, Message: msg, Error: last.Message}
	}
	return CheckResult{Status: StatusHealthy, Message: msg}
}

// LibraryChecker reports the size of the loaded library.
type LibraryChecker struct {
	lib *lib.Library
}

func NewLibraryChecker(l *lib.Library) *LibraryChecker {
	return &LibraryChecker{lib: l}
}

func (c *LibraryChecker) Name() string { return "library" }

func (c *LibraryChecker) Check(context.Context) CheckResult {
	if c.lib == nil || len(c.lib.Materials()) == 0 {
		return CheckResult{Status: StatusUnhealthy, Error: "no materials loaded"}
	}
	return CheckResult{
		Status: StatusHealthy,
		Message: fmt.Sprintf("%d materials, %d gases, %d conditions",
			len(c.lib.Materials()), len(c.lib.Gases()), len(c.lib.Conditions())),
	}
}
