// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package material models the conductive materials of a THERM cross
// section: solid materials, gas fills and the cavities that hold them.
package material

import (
	"github.com/ManuGH/fftherm/internal/ident"
)

// Material is a SolidMaterial or a CavityMaterial assigned to a shape.
type Material interface {
	Identifier() string
	DisplayName() string
	ThermUUID() string
	Color() ident.Color
	Protected() bool
	SetIdentifier(id string) error
	Freeze()
	Thaw()
	IsLocked() bool
	Emissivity() float64
	EmissivityBack() float64
	// Equal compares every value except the lock state.
	Equal(other Material) bool
	// DuplicateMaterial returns an unlocked deep copy.
	DuplicateMaterial() Material
	String() string
}

var (
	_ Material = (*SolidMaterial)(nil)
	_ Material = (*CavityMaterial)(nil)
)

func optEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func optCopy(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func optGet(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Float returns a pointer to v, for optional material properties.
func Float(v float64) *float64 {
	return &v
}
