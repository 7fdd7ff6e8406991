// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package model holds the geometry of a THERM cross section: shapes with
// materials, boundaries with conditions and the model that groups them.
package model

import (
	"fmt"
	"regexp"

	"github.com/ManuGH/fftherm/internal/ident"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]{1,100}$`)

// object carries the identity of shapes, boundaries and models.
type object struct {
	identifier  string
	displayName string
}

func newObject(id string) (object, error) {
	if id == "" {
		id = ident.NewIdentifier()
	}
	if !identifierPattern.MatchString(id) {
		return object{}, fmt.Errorf("%w: %q may only contain letters, digits, '_', '.' and '-'", ident.ErrInvalidIdentifier, id)
	}
	return object{identifier: id}, nil
}

func (o *object) Identifier() string { return o.identifier }

// DisplayName falls back to the identifier.
func (o *object) DisplayName() string {
	if o.displayName == "" {
		return o.identifier
	}
	return o.displayName
}

func (o *object) SetDisplayName(name string) { o.displayName = name }

// SetIdentifier replaces the identifier after validating it.
func (o *object) SetIdentifier(id string) error {
	next, err := newObject(id)
	if err != nil {
		return err
	}
	o.identifier = next.identifier
	return nil
}

// ThermUUID returns the identifier as THERM stores it.
func (o *object) ThermUUID() string { return ident.ThermUUID(o.identifier) }
