// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package geometry provides the planar and 3D primitives used by THERM
// models: planes, faces, line segments and result meshes.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec is a 3D point or vector.
type Vec = r3.Vec

// ZAxis is the world up vector.
var ZAxis = Vec{Z: 1}

// Point2D is a coordinate inside a plane.
type Point2D struct {
	X, Y float64
}

// AngleDeg returns the angle between two vectors in degrees.
func AngleDeg(a, b Vec) float64 {
	na, nb := r3.Norm(a), r3.Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	c := r3.Dot(a, b) / (na * nb)
	c = math.Max(-1, math.Min(1, c))
	return math.Acos(c) * 180 / math.Pi
}

// Distance returns the distance between two points.
func Distance(a, b Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// ApproxEqual compares two vectors component-wise within tol.
func ApproxEqual(a, b Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

// ScalePoint scales p about origin by factor.
func ScalePoint(p, origin Vec, factor float64) Vec {
	return r3.Add(origin, r3.Scale(factor, r3.Sub(p, origin)))
}
