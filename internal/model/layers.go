// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

import (
	"fmt"

	"github.com/ManuGH/fftherm/internal/geometry"
	"github.com/ManuGH/fftherm/internal/lib"
	"github.com/ManuGH/fftherm/internal/validate"
)

// FromLayers builds a wall section of contiguous rectangular layers in the
// world XY plane. Layer i spans its thickness along X and height along Y.
// The exterior boundary runs along the outer face of the first layer and
// the interior boundary along the inner face of the last one.
func FromLayers(thicknesses []float64, height float64) (*Model, error) {
	v := validate.New()
	if len(thicknesses) == 0 {
		v.AddError("thicknesses", "at least one layer is required", nil)
	}
	for i, t := range thicknesses {
		v.FloatPositive(fmt.Sprintf("thicknesses[%d]", i), t)
	}
	v.FloatPositive("height", height)
	if err := v.Err(); err != nil {
		return nil, err
	}

	m, err := New("")
	if err != nil {
		return nil, err
	}
	x := 0.0
	for i, t := range thicknesses {
		pts := []geometry.Vec{
			{X: x, Y: 0},
			{X: x + t, Y: 0},
			{X: x + t, Y: height},
			{X: x, Y: height},
		}
		face, err := geometry.NewFace3D(pts, nil)
		if err != nil {
			return nil, err
		}
		s, err := NewShape("", face)
		if err != nil {
			return nil, err
		}
		s.SetDisplayName(fmt.Sprintf("Layer %d", i+1))
		m.AddShapes(s)
		x += t
	}

	ext, err := NewBoundary("", []geometry.LineSegment3D{
		geometry.SegmentFromEndPoints(geometry.Vec{X: 0, Y: height}, geometry.Vec{X: 0, Y: 0}),
	})
	if err != nil {
		return nil, err
	}
	ext.SetDisplayName("Exterior")
	ext.Properties().SetCondition(lib.Exterior())

	in, err := NewBoundary("", []geometry.LineSegment3D{
		geometry.SegmentFromEndPoints(geometry.Vec{X: x, Y: 0}, geometry.Vec{X: x, Y: height}),
	})
	if err != nil {
		return nil, err
	}
	in.SetDisplayName("Interior")
	in.Properties().SetCondition(lib.Interior())

	m.AddBoundaries(ext, in)
	return m, nil
}
