// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService   = "service"
	FieldVersion   = "version"
	FieldComponent = "component"
	FieldEvent     = "event"
	FieldRunID     = "run_id"
	FieldRequestID = "request_id"

	// Model fields
	FieldModel      = "model"
	FieldShapes     = "shapes"
	FieldBoundaries = "boundaries"
	FieldMaterial   = "material"
	FieldCondition  = "condition"

	// Path fields
	FieldPath      = "path"
	FieldThmzPath  = "thmz_path"
	FieldLogPath   = "log_path"
	FieldFolder    = "folder"
	FieldThermExe  = "therm_exe"
	FieldDuration  = "duration"
	FieldExitCode  = "exit_code"
	FieldWorkers   = "workers"
	FieldLibraries = "libraries"
)
