// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package geometry

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// LineSegment3D is a start point and a direction vector.
type LineSegment3D struct {
	P Vec
	V Vec
}

// SegmentFromEndPoints builds a segment between two points.
func SegmentFromEndPoints(p1, p2 Vec) LineSegment3D {
	return LineSegment3D{P: p1, V: r3.Sub(p2, p1)}
}

// P1 is the start point.
func (s LineSegment3D) P1() Vec { return s.P }

// P2 is the end point.
func (s LineSegment3D) P2() Vec { return r3.Add(s.P, s.V) }

// Length is the segment length.
func (s LineSegment3D) Length() float64 { return r3.Norm(s.V) }

// Midpoint returns the middle of the segment.
func (s LineSegment3D) Midpoint() Vec { return r3.Add(s.P, r3.Scale(0.5, s.V)) }

// Scale returns the segment scaled about origin.
func (s LineSegment3D) Scale(factor float64, origin Vec) LineSegment3D {
	return LineSegment3D{P: ScalePoint(s.P, origin, factor), V: r3.Scale(factor, s.V)}
}
