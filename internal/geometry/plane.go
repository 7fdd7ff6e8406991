// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package geometry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Plane is an oriented plane with a local coordinate system.
type Plane struct {
	Origin Vec
	Normal Vec
	XAxis  Vec
}

// WorldXY is the plane through the origin facing +Z.
var WorldXY = Plane{Normal: ZAxis, XAxis: Vec{X: 1}}

// NewPlane builds a plane from an origin and a normal. A zero xAxis gets a
// default derived from the normal. The x-axis is projected into the plane.
func NewPlane(origin, normal, xAxis Vec) (Plane, error) {
	if r3.Norm(normal) == 0 {
		return Plane{}, errors.New("plane normal cannot be zero")
	}
	n := r3.Unit(normal)
	if r3.Norm(xAxis) == 0 {
		xAxis = defaultXAxis(n)
	}
	x := r3.Sub(xAxis, r3.Scale(r3.Dot(xAxis, n), n))
	if r3.Norm(x) == 0 {
		return Plane{}, errors.New("plane x-axis cannot be parallel to the normal")
	}
	return Plane{Origin: origin, Normal: n, XAxis: r3.Unit(x)}, nil
}

func defaultXAxis(n Vec) Vec {
	if n.X == 0 && n.Y == 0 {
		return Vec{X: 1}
	}
	return r3.Unit(Vec{X: n.Y, Y: -n.X})
}

// YAxis is the normal crossed with the x-axis.
func (p Plane) YAxis() Vec {
	return r3.Cross(p.Normal, p.XAxis)
}

// Reverse flips the normal and keeps the x-axis.
func (p Plane) Reverse() Plane {
	return Plane{Origin: p.Origin, Normal: r3.Scale(-1, p.Normal), XAxis: p.XAxis}
}

// XYZToXY converts a world point into plane coordinates.
func (p Plane) XYZToXY(pt Vec) Point2D {
	rel := r3.Sub(pt, p.Origin)
	return Point2D{X: r3.Dot(rel, p.XAxis), Y: r3.Dot(rel, p.YAxis())}
}

// XYToXYZ converts plane coordinates into a world point.
func (p Plane) XYToXYZ(pt Point2D) Vec {
	return r3.Add(p.Origin, r3.Add(r3.Scale(pt.X, p.XAxis), r3.Scale(pt.Y, p.YAxis())))
}

// VectorToXYZ converts an in-plane vector into a world vector.
func (p Plane) VectorToXYZ(x, y float64) Vec {
	return r3.Add(r3.Scale(x, p.XAxis), r3.Scale(y, p.YAxis()))
}

// DistanceToPoint is the unsigned distance from pt to the plane.
func (p Plane) DistanceToPoint(pt Vec) float64 {
	d := r3.Dot(r3.Sub(pt, p.Origin), p.Normal)
	if d < 0 {
		return -d
	}
	return d
}

// Scale scales the plane origin about center.
func (p Plane) Scale(factor float64, center Vec) Plane {
	p.Origin = ScalePoint(p.Origin, center, factor)
	return p
}

// String renders the plane as "Plane: o; n; x" with comma separated vectors.
func (p Plane) String() string {
	return fmt.Sprintf("Plane: %s; %s; %s", fmtVec(p.Origin), fmtVec(p.Normal), fmtVec(p.XAxis))
}

func fmtVec(v Vec) string {
	return strconv.FormatFloat(v.X, 'g', -1, 64) + ", " +
		strconv.FormatFloat(v.Y, 'g', -1, 64) + ", " +
		strconv.FormatFloat(v.Z, 'g', -1, 64)
}

// ParsePlane reads the format written by Plane.String.
func ParsePlane(s string) (Plane, error) {
	body, ok := strings.CutPrefix(strings.TrimSpace(s), "Plane:")
	if !ok {
		return Plane{}, fmt.Errorf("not a plane: %q", s)
	}
	parts := strings.Split(body, ";")
	if len(parts) != 3 {
		return Plane{}, fmt.Errorf("plane needs origin, normal and x-axis: %q", s)
	}
	vecs := make([]Vec, 3)
	for i, part := range parts {
		v, err := ParseVec(part)
		if err != nil {
			return Plane{}, fmt.Errorf("plane component %d: %w", i, err)
		}
		vecs[i] = v
	}
	return NewPlane(vecs[0], vecs[1], vecs[2])
}

// ParseVec reads "x, y, z".
func ParseVec(s string) (Vec, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return Vec{}, fmt.Errorf("vector needs 3 components: %q", s)
	}
	var out [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Vec{}, fmt.Errorf("vector component %q: %w", f, err)
		}
		out[i] = v
	}
	return Vec{X: out[0], Y: out[1], Z: out[2]}, nil
}
