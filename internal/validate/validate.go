// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package validate collects every problem found in an object or a
// configuration before reporting, so a user fixes a THERM model in one
// pass instead of one field at a time.
package validate

import (
	"fmt"
	"strings"
)

// Error is one failed rule.
type Error struct {
	Field   string
	Value   any
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// ValidationError is returned by Validator.Err and Struct.
type ValidationError struct {
	errors []Error
}

func (e ValidationError) Errors() []Error { return e.errors }

func (e ValidationError) Error() string {
	msgs := make([]string, len(e.errors))
	for i, err := range e.errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validator accumulates failed rules. The zero value is ready to use.
type Validator struct {
	errors []Error
}

func New() *Validator { return &Validator{} }

// AddError records a failure of field.
func (v *Validator) AddError(field, message string, value any) {
	v.errors = append(v.errors, Error{Field: field, Value: value, Message: message})
}

// failIf records a failure when bad holds.
func (v *Validator) failIf(bad bool, field string, value any, format string, args ...any) {
	if bad {
		v.AddError(field, fmt.Sprintf(format, args...), value)
	}
}

// Errors returns the failures recorded so far.
func (v *Validator) Errors() []Error { return v.errors }

// Err is nil when every rule passed.
func (v *Validator) Err() error {
	if len(v.errors) == 0 {
		return nil
	}
	return ValidationError{errors: append([]Error(nil), v.errors...)}
}

// NotEmpty rejects blank strings such as display names.
func (v *Validator) NotEmpty(field, value string) {
	v.failIf(strings.TrimSpace(value) == "", field, value, "value cannot be empty")
}

// Custom records the error returned by check, if any.
func (v *Validator) Custom(field string, value any, check func(any) error) {
	if err := check(value); err != nil {
		v.AddError(field, err.Error(), value)
	}
}
