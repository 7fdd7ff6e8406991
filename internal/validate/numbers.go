// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package validate

import "math"

// Material and condition properties arrive from JSON and XML libraries, so
// every float rule also rejects NaN.

func (v *Validator) FloatRange(field string, value, lo, hi float64) {
	v.failIf(math.IsNaN(value) || value < lo || value > hi, field, value,
		"value must be between %g and %g, got %g", lo, hi, value)
}

func (v *Validator) FloatPositive(field string, value float64) {
	v.failIf(math.IsNaN(value) || value <= 0, field, value, "value must be positive, got %g", value)
}

func (v *Validator) FloatNonNegative(field string, value float64) {
	v.failIf(math.IsNaN(value) || value < 0, field, value, "value cannot be negative, got %g", value)
}

// Finite rejects NaN and infinities, e.g. for temperatures.
func (v *Validator) Finite(field string, value float64) {
	v.failIf(math.IsNaN(value) || math.IsInf(value, 0), field, value, "value must be finite, got %g", value)
}

// Range checks lo <= value <= hi.
func (v *Validator) Range(field string, value, lo, hi int) {
	v.failIf(value < lo || value > hi, field, value, "value must be between %d and %d, got %d", lo, hi, value)
}

func (v *Validator) Positive(field string, value int) {
	v.failIf(value <= 0, field, value, "value must be positive, got %d", value)
}

func (v *Validator) NonNegative(field string, value int) {
	v.failIf(value < 0, field, value, "value cannot be negative, got %d", value)
}
