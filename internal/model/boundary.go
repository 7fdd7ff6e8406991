// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

import (
	"fmt"

	"github.com/ManuGH/fftherm/internal/condition"
	"github.com/ManuGH/fftherm/internal/geometry"
	"github.com/ManuGH/fftherm/internal/lib"
)

// Boundary is a polyline of segments exposed to one boundary condition.
type Boundary struct {
	object
	geometry   []geometry.LineSegment3D
	properties *BoundaryProperties
}

// BoundaryProperties holds the THERM properties of a Boundary.
type BoundaryProperties struct {
	host       *Boundary
	condition  *condition.SteadyState
	uFactorTag string
}

// NewBoundary returns a boundary with the default condition.
func NewBoundary(id string, segments []geometry.LineSegment3D) (*Boundary, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("boundary needs at least one segment")
	}
	obj, err := newObject(id)
	if err != nil {
		return nil, err
	}
	b := &Boundary{object: obj, geometry: append([]geometry.LineSegment3D(nil), segments...)}
	b.properties = &BoundaryProperties{host: b}
	return b, nil
}

func (b *Boundary) Geometry() []geometry.LineSegment3D {
	return append([]geometry.LineSegment3D(nil), b.geometry...)
}

func (b *Boundary) Properties() *BoundaryProperties { return b.properties }

// SegmentUUID returns the UUID THERM stores for segment i. Segments share
// the first 24 characters of the boundary UUID and end in the segment index.
func (b *Boundary) SegmentUUID(i int) string {
	return fmt.Sprintf("%s%012x", b.ThermUUID()[:24], i)
}

// Duplicate copies the boundary. The copy shares the condition reference.
func (b *Boundary) Duplicate() *Boundary {
	d := &Boundary{object: b.object, geometry: b.Geometry()}
	d.properties = &BoundaryProperties{host: d, condition: b.properties.condition, uFactorTag: b.properties.uFactorTag}
	return d
}

func (b *Boundary) scale(factor float64, origin geometry.Vec) {
	for i, s := range b.geometry {
		b.geometry[i] = s.Scale(factor, origin)
	}
}

func (b *Boundary) String() string { return "Boundary: " + b.DisplayName() }

func (p *BoundaryProperties) Host() *Boundary { return p.host }

// Condition returns the assigned condition or the library exterior.
func (p *BoundaryProperties) Condition() *condition.SteadyState {
	if p.condition == nil {
		return lib.Exterior()
	}
	return p.condition
}

func (p *BoundaryProperties) IsDefault() bool { return p.condition == nil }

// SetCondition assigns c and locks it. nil restores the default.
func (p *BoundaryProperties) SetCondition(c *condition.SteadyState) {
	if c != nil {
		c.Freeze()
	}
	p.condition = c
}

// UFactorTag names the U-factor surface THERM reports for this boundary.
func (p *BoundaryProperties) UFactorTag() string { return p.uFactorTag }

func (p *BoundaryProperties) SetUFactorTag(tag string) { p.uFactorTag = tag }

func (p *BoundaryProperties) String() string {
	return "Boundary Therm Properties: [host: " + p.host.DisplayName() + "]"
}

