// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config resolves where THERM and its data live on this machine and
// the runtime settings of fftherm.
//
// Values are resolved with the precedence environment (FFTHERM_*) > YAML file
// > defaults. Folders left empty after that are discovered from the standard
// LBNL install locations.
package config
