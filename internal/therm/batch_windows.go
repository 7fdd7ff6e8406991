// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

//go:build windows

package therm

import "os"

// renameio has no Windows support; the batch file is a convenience copy.
func writeBatch(path, script string) error {
	return os.WriteFile(path, []byte(script), 0o644)
}
