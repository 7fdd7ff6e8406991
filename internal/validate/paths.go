// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package validate

import (
	"fmt"
	"net"
	"os"
	"strconv"
)

// Directory requires an existing directory, e.g. the THERM install folder.
func (v *Validator) Directory(field, path string) {
	if path == "" {
		v.AddError(field, "directory path cannot be empty", path)
		return
	}
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		v.AddError(field, "directory does not exist", path)
	case err != nil:
		v.AddError(field, fmt.Sprintf("cannot access directory: %v", err), path)
	default:
		v.failIf(!info.IsDir(), field, path, "path is not a directory")
	}
}

// File requires path to name a regular file. An empty path passes since
// the library files are optional.
func (v *Validator) File(field, path string) {
	if path == "" {
		return
	}
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		v.AddError(field, "file does not exist", path)
	case err != nil:
		v.AddError(field, fmt.Sprintf("cannot access file: %v", err), path)
	default:
		v.failIf(info.IsDir(), field, path, "path is a directory, expected file")
	}
}

// ListenAddr requires host:port with a numeric port in 1..65535.
func (v *Validator) ListenAddr(field, addr string) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		v.AddError(field, fmt.Sprintf("invalid listen address: %v", err), addr)
		return
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		v.AddError(field, fmt.Sprintf("invalid port %q", portStr), addr)
		return
	}
	v.failIf(port < 1 || port > 65535, field, addr, "port must be between 1 and 65535, got %d", port)
}
