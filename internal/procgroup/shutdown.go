// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package procgroup

import (
	"os/exec"
	"syscall"
	"time"

	"github.com/ManuGH/fftherm/internal/log"
	"github.com/ManuGH/fftherm/internal/metrics"
)

// Terminate stops a process group: SIGTERM, then SIGKILL once grace has
// passed without an exit. It consumes waitCh and returns its error. It is
// safe to call on commands that never started.
func Terminate(cmd *exec.Cmd, waitCh <-chan error, grace time.Duration) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}

	metrics.IncProcTerminate("SIGTERM", outcome(Kill(cmd, syscall.SIGTERM)))
	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case err := <-waitCh:
		metrics.IncProcWait(waitOutcome(err, "exit0", "exit_nonzero"))
		return err
	case <-timer.C:
		logger := log.WithComponent("procgroup")
		logger.Warn().
			Str(log.FieldEvent, "proc.kill").
			Int("pid", cmd.Process.Pid).
			Dur("grace", grace).
			Msg("process group ignored SIGTERM, killing it")
		metrics.IncProcTerminate("SIGKILL", outcome(Kill(cmd, syscall.SIGKILL)))

		// Always drain waitCh; SIGKILL frees a blocked process.
		err := <-waitCh
		metrics.IncProcWait(waitOutcome(err, "forced_exit0", "forced_error"))
		return err
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "sent"
}

func waitOutcome(err error, clean, failed string) string {
	if err != nil {
		return failed
	}
	return clean
}
