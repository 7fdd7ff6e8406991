// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by the loader.
const EnvPrefix = "FFTHERM_"

// EnvConfigFile names the config file. The CLI reads it for --config, so
// the loader counts it as consumed.
const EnvConfigFile = EnvPrefix + "CONFIG"

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	ConsumedEnvKeys map[string]struct{}

	// Discovery roots. Empty roots skip the step.
	installRoot string
	dataRoot    string
	home        string
}

// NewLoader creates a loader for configPath. An empty path reads the default
// config file when it exists.
func NewLoader(configPath string) *Loader {
	l := &Loader{
		configPath:      configPath,
		ConsumedEnvKeys: map[string]struct{}{EnvConfigFile: {}},
	}
	if runtime.GOOS == "windows" {
		programFiles := os.Getenv("ProgramFiles(x86)")
		if programFiles == "" {
			programFiles = `C:\Program Files (x86)`
		}
		public := os.Getenv("PUBLIC")
		if public == "" {
			public = `C:\Users\Public`
		}
		l.installRoot = filepath.Join(programFiles, "lbnl")
		l.dataRoot = filepath.Join(public, "LBNL")
	}
	l.home, _ = os.UserHomeDir()
	return l
}

// DefaultConfigFile is the config file used when none is given.
func DefaultConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "fftherm.yaml"
	}
	return filepath.Join(dir, "fftherm", "config.yaml")
}

// Load loads configuration with precedence: ENV > File > Defaults, then
// discovers missing folders and validates the result.
func (l *Loader) Load() (Config, error) {
	var cfg Config
	l.setDefaults(&cfg)

	path := l.configPath
	if path == "" {
		path = DefaultConfigFile()
	}
	cfg.Folders.ConfigFile = path
	if l.configPath != "" || isFile(path) {
		fileCfg, err := l.loadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		mergeFile(&cfg, fileCfg)
	}

	l.mergeEnv(&cfg)
	l.discover(&cfg.Folders)
	if cfg.History.Path == "" && cfg.Folders.DefaultSimulationFolder != "" {
		cfg.History.Path = filepath.Join(cfg.Folders.DefaultSimulationFolder, "fftherm_history.db")
	}

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (l *Loader) setDefaults(cfg *Config) {
	cfg.LogLevel = DefaultLogLevel
	cfg.Simulation.Workers = DefaultWorkers
	cfg.Simulation.TermGrace = DefaultTermGrace
	cfg.Server.Listen = DefaultListen
	cfg.Server.RateLimit = DefaultRateLimit
	if l.home != "" {
		cfg.Folders.DefaultSimulationFolder = filepath.Join(l.home, "simulation")
	}
}

// loadFile loads configuration from a YAML file with STRICT parsing.
// Unknown fields will cause a fatal error to prevent misconfiguration.
func (l *Loader) loadFile(path string) (Config, error) {
	path = filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return Config{}, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read file: %w", err)
	}

	var fileCfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("strict config parse error: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return Config{}, errors.New("config file contains multiple documents or trailing content")
	}
	return fileCfg, nil
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func mergeFile(dst *Config, src Config) {
	d, s := &dst.Folders, src.Folders
	mergeString(&d.ThermPath, s.ThermPath)
	mergeString(&d.ThermExe, s.ThermExe)
	if s.ThermVersion != nil {
		d.ThermVersion = s.ThermVersion
	}
	mergeString(&d.LBNLDataPath, s.LBNLDataPath)
	mergeString(&d.ThermSettingsPath, s.ThermSettingsPath)
	mergeString(&d.ThermLibPath, s.ThermLibPath)
	mergeString(&d.MaterialLibFile, s.MaterialLibFile)
	mergeString(&d.BCSteadyStateLibFile, s.BCSteadyStateLibFile)
	mergeString(&d.GasLibFile, s.GasLibFile)
	mergeString(&d.DefaultSimulationFolder, s.DefaultSimulationFolder)

	mergeString(&dst.LogLevel, src.LogLevel)
	if src.Simulation.Workers != 0 {
		dst.Simulation.Workers = src.Simulation.Workers
	}
	if src.Simulation.TermGrace != 0 {
		dst.Simulation.TermGrace = src.Simulation.TermGrace
	}
	mergeString(&dst.History.Path, src.History.Path)
	mergeString(&dst.Server.Listen, src.Server.Listen)
	if src.Server.RateLimit != 0 {
		dst.Server.RateLimit = src.Server.RateLimit
	}
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, defaultVal)
}

func (l *Loader) mergeEnv(cfg *Config) {
	f := &cfg.Folders
	f.ThermPath = l.envString(EnvPrefix+"THERM_PATH", f.ThermPath)
	f.ThermExe = l.envString(EnvPrefix+"THERM_EXE", f.ThermExe)
	f.LBNLDataPath = l.envString(EnvPrefix+"LBNL_DATA_PATH", f.LBNLDataPath)
	f.ThermSettingsPath = l.envString(EnvPrefix+"THERM_SETTINGS_PATH", f.ThermSettingsPath)
	f.ThermLibPath = l.envString(EnvPrefix+"THERM_LIB_PATH", f.ThermLibPath)
	f.MaterialLibFile = l.envString(EnvPrefix+"MATERIAL_LIB_FILE", f.MaterialLibFile)
	f.BCSteadyStateLibFile = l.envString(EnvPrefix+"BC_STEADY_STATE_LIB_FILE", f.BCSteadyStateLibFile)
	f.GasLibFile = l.envString(EnvPrefix+"GAS_LIB_FILE", f.GasLibFile)
	f.DefaultSimulationFolder = l.envString(EnvPrefix+"SIMULATION_FOLDER", f.DefaultSimulationFolder)

	cfg.LogLevel = l.envString(EnvPrefix+"LOG_LEVEL", cfg.LogLevel)
	cfg.Simulation.Workers = l.envInt(EnvPrefix+"WORKERS", cfg.Simulation.Workers)
	cfg.Simulation.TermGrace = l.envDuration(EnvPrefix+"TERM_GRACE", cfg.Simulation.TermGrace)
	cfg.History.Path = l.envString(EnvPrefix+"HISTORY_DB", cfg.History.Path)
	cfg.Server.Listen = l.envString(EnvPrefix+"LISTEN", cfg.Server.Listen)
	cfg.Server.RateLimit = l.envInt(EnvPrefix+"RATE_LIMIT", cfg.Server.RateLimit)
}

// UnknownEnvKeys lists FFTHERM_* variables of the environment that Load did
// not read, which usually are typos.
func (l *Loader) UnknownEnvKeys() []string {
	var unknown []string
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		if _, ok := l.ConsumedEnvKeys[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown
}

func (l *Loader) discover(f *Folders) {
	if f.ThermPath == "" && l.installRoot != "" {
		f.ThermPath = DiscoverThermPath(l.installRoot)
	}
	if f.LBNLDataPath == "" && l.dataRoot != "" {
		f.LBNLDataPath = existingDir(l.dataRoot)
	}
	fillDerived(f)
}
