// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

import (
	"fmt"

	"github.com/ManuGH/fftherm/internal/geometry"
	"github.com/ManuGH/fftherm/internal/lib"
	"github.com/ManuGH/fftherm/internal/material"
)

// Shape is a planar polygon of a single material.
type Shape struct {
	object
	geometry   *geometry.Face3D
	properties *ShapeProperties
}

// ShapeProperties holds the THERM properties of a Shape.
type ShapeProperties struct {
	host     *Shape
	material material.Material
}

// NewShape returns a shape with the default material. An empty identifier
// gets a random one.
func NewShape(id string, face *geometry.Face3D) (*Shape, error) {
	if face == nil {
		return nil, fmt.Errorf("shape geometry is required")
	}
	obj, err := newObject(id)
	if err != nil {
		return nil, err
	}
	s := &Shape{object: obj, geometry: face}
	s.properties = &ShapeProperties{host: s}
	return s, nil
}

func (s *Shape) Geometry() *geometry.Face3D   { return s.geometry }
func (s *Shape) Properties() *ShapeProperties { return s.properties }

// Duplicate copies the shape. The copy shares the material reference.
func (s *Shape) Duplicate() *Shape {
	d := &Shape{object: s.object, geometry: s.geometry}
	d.properties = &ShapeProperties{host: d, material: s.properties.material}
	return d
}

func (s *Shape) scale(factor float64, origin geometry.Vec) {
	s.geometry = s.geometry.Scale(factor, origin)
}

func (s *Shape) String() string { return "Shape: " + s.DisplayName() }

func (p *ShapeProperties) Host() *Shape { return p.host }

// Material returns the assigned material or the library generic concrete.
func (p *ShapeProperties) Material() material.Material {
	if p.material == nil {
		return lib.GenericConcrete()
	}
	return p.material
}

// IsDefault reports whether no material was assigned.
func (p *ShapeProperties) IsDefault() bool { return p.material == nil }

// SetMaterial assigns m and locks it since it may be shared. nil restores
// the default.
func (p *ShapeProperties) SetMaterial(m material.Material) {
	if m != nil {
		m.Freeze()
	}
	p.material = m
}

func (p *ShapeProperties) String() string {
	return "Shape Therm Properties: [host: " + p.host.DisplayName() + "]"
}
