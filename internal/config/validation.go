// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/fftherm/internal/validate"
)

// Validate checks a resolved configuration. Optional folders are only
// checked when set.
func Validate(cfg Config) error {
	v := validate.New()

	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err != nil || cfg.LogLevel == "" {
		v.AddError("log_level", "unknown log level", cfg.LogLevel)
	}

	f := cfg.Folders
	if f.ThermPath != "" {
		v.Directory("folders.therm_path", f.ThermPath)
	}
	v.File("folders.therm_exe", f.ThermExe)
	if f.LBNLDataPath != "" {
		v.Directory("folders.lbnl_data_path", f.LBNLDataPath)
	}
	if f.ThermLibPath != "" {
		v.Directory("folders.therm_lib_path", f.ThermLibPath)
	}
	v.File("folders.material_lib_file", f.MaterialLibFile)
	v.File("folders.bc_steady_state_lib_file", f.BCSteadyStateLibFile)
	v.File("folders.gas_lib_file", f.GasLibFile)
	v.NotEmpty("folders.default_simulation_folder", f.DefaultSimulationFolder)

	v.Range("simulation.workers", cfg.Simulation.Workers, 1, 256)
	v.Custom("simulation.term_grace", cfg.Simulation.TermGrace, func(value interface{}) error {
		if d := value.(time.Duration); d < 0 {
			return fmt.Errorf("must not be negative, got %s", d)
		}
		return nil
	})
	if cfg.Server.Listen != "" {
		v.ListenAddr("server.listen", cfg.Server.Listen)
	}
	v.NonNegative("server.rate_limit", cfg.Server.RateLimit)

	return v.Err()
}
