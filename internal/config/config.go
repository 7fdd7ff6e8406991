// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ManuGH/fftherm/internal/lib"
)

// Folders locates THERM and its data.
type Folders struct {
	ThermPath    string `yaml:"therm_path,omitempty" json:"therm_path"`
	ThermExe     string `yaml:"therm_exe,omitempty" json:"therm_exe"`
	ThermVersion []int  `yaml:"therm_version,omitempty" json:"therm_version"`

	LBNLDataPath      string `yaml:"lbnl_data_path,omitempty" json:"lbnl_data_path"`
	ThermSettingsPath string `yaml:"therm_settings_path,omitempty" json:"therm_settings_path"`
	ThermLibPath      string `yaml:"therm_lib_path,omitempty" json:"therm_lib_path"`

	MaterialLibFile      string `yaml:"material_lib_file,omitempty" json:"material_lib_file"`
	BCSteadyStateLibFile string `yaml:"bc_steady_state_lib_file,omitempty" json:"bc_steady_state_lib_file"`
	GasLibFile           string `yaml:"gas_lib_file,omitempty" json:"gas_lib_file"`

	DefaultSimulationFolder string `yaml:"default_simulation_folder,omitempty" json:"default_simulation_folder"`
	// ConfigFile is the file the configuration was read from, or the
	// default location when none exists.
	ConfigFile string `yaml:"-" json:"config_file"`
}

// LibFiles returns the user library files for lib.Load.
func (f Folders) LibFiles() lib.Files {
	return lib.Files{
		Gases:      f.GasLibFile,
		Materials:  f.MaterialLibFile,
		Conditions: f.BCSteadyStateLibFile,
	}
}

// SimulationConfig tunes THERM runs.
type SimulationConfig struct {
	Workers   int           `yaml:"workers,omitempty"`
	TermGrace time.Duration `yaml:"term_grace,omitempty"`
}

type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
}

// ServerConfig configures `fftherm serve`. RateLimit is requests per
// minute and client IP; zero disables limiting.
type ServerConfig struct {
	Listen    string `yaml:"listen,omitempty"`
	RateLimit int    `yaml:"rate_limit,omitempty"`
}

// Config is the resolved configuration.
type Config struct {
	Folders    Folders          `yaml:"folders"`
	LogLevel   string           `yaml:"log_level,omitempty"`
	Simulation SimulationConfig `yaml:"simulation"`
	History    HistoryConfig    `yaml:"history"`
	Server     ServerConfig     `yaml:"server"`
}

// Defaults.
const (
	DefaultLogLevel  = "info"
	DefaultWorkers   = 2
	DefaultTermGrace = 5 * time.Second
	DefaultListen    = "127.0.0.1:8087"
	DefaultRateLimit = 60
)

// YAML renders the configuration in the file format.
func (c Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return out, nil
}
