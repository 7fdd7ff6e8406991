// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var versionPattern = regexp.MustCompile(`(?i)^THERM\s*(\d+(?:\.\d+)*)`)

// ParseThermVersion reads the version from a THERM install folder name such
// as `THERM8.1`. Both slash styles separate path elements so Windows paths
// parse on any platform. It returns nil when the name carries no version.
func ParseThermVersion(folder string) []int {
	name := strings.TrimRight(folder, `/\`)
	name = name[strings.LastIndexAny(name, `/\`)+1:]
	m := versionPattern.FindStringSubmatch(name)
	if m == nil {
		return nil
	}
	parts := strings.Split(m[1], ".")
	version := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil
		}
		version = append(version, n)
	}
	return version
}

func compareVersions(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] - b[i]
		}
	}
	return len(a) - len(b)
}

// DiscoverThermPath returns the newest THERM8 install under lbnlRoot, for
// example `C:\Program Files (x86)\lbnl`.
func DiscoverThermPath(lbnlRoot string) string {
	matches, _ := filepath.Glob(filepath.Join(lbnlRoot, "THERM8*"))
	var dirs []string
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.IsDir() && ParseThermVersion(m) != nil {
			dirs = append(dirs, m)
		}
	}
	if len(dirs) == 0 {
		return ""
	}
	sort.Slice(dirs, func(i, j int) bool {
		return compareVersions(ParseThermVersion(dirs[i]), ParseThermVersion(dirs[j])) > 0
	})
	return dirs[0]
}

// DiscoverThermExe finds the THERM executable inside an install folder.
func DiscoverThermExe(thermPath string, version []int) string {
	var candidates []string
	if len(version) > 0 {
		candidates = append(candidates, fmt.Sprintf("THERM%d.exe", version[0]))
	}
	candidates = append(candidates, "THERM.exe", "therm")
	for _, name := range candidates {
		if isFile(filepath.Join(thermPath, name)) {
			return filepath.Join(thermPath, name)
		}
	}
	matches, _ := filepath.Glob(filepath.Join(thermPath, "THERM*.exe"))
	sort.Strings(matches)
	for _, m := range matches {
		if isFile(m) {
			return m
		}
	}
	return ""
}

// majorFolder is the per-version folder name used inside the LBNL data
// directory, e.g. THERM8.
func majorFolder(version []int) string {
	major := 8
	if len(version) > 0 {
		major = version[0]
	}
	return fmt.Sprintf("THERM%d", major)
}

// fillDerived completes folders that follow from others. Only paths that
// exist are filled in.
func fillDerived(f *Folders) {
	if f.ThermPath != "" && f.ThermVersion == nil {
		f.ThermVersion = ParseThermVersion(f.ThermPath)
	}
	if f.ThermExe == "" && f.ThermPath != "" {
		f.ThermExe = DiscoverThermExe(f.ThermPath, f.ThermVersion)
	}
	if f.LBNLDataPath != "" {
		if f.ThermSettingsPath == "" {
			f.ThermSettingsPath = existingDir(filepath.Join(f.LBNLDataPath, majorFolder(f.ThermVersion), "Settings"))
		}
		if f.ThermLibPath == "" {
			f.ThermLibPath = existingDir(filepath.Join(f.LBNLDataPath, majorFolder(f.ThermVersion), "lib"))
		}
	}
	if f.ThermLibPath != "" {
		if f.MaterialLibFile == "" {
			f.MaterialLibFile = existingFile(filepath.Join(f.ThermLibPath, "Materials.xml"))
		}
		if f.BCSteadyStateLibFile == "" {
			f.BCSteadyStateLibFile = existingFile(filepath.Join(f.ThermLibPath, "SteadyStateBC.xml"))
		}
		if f.GasLibFile == "" {
			f.GasLibFile = existingFile(filepath.Join(f.ThermLibPath, "Gases.xml"))
		}
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func existingFile(path string) string {
	if isFile(path) {
		return path
	}
	return ""
}

func existingDir(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path
	}
	return ""
}
