// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package geometry

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Face3D is a planar polygon with optional holes.
type Face3D struct {
	Boundary []Vec
	Holes    [][]Vec
	plane    Plane
}

// NewFace3D builds a face and computes its plane with Newell's method.
func NewFace3D(boundary []Vec, holes [][]Vec) (*Face3D, error) {
	if len(boundary) < 3 {
		return nil, errors.New("face needs at least 3 vertices")
	}
	for _, h := range holes {
		if len(h) < 3 {
			return nil, errors.New("face hole needs at least 3 vertices")
		}
	}
	n := newellNormal(boundary)
	if r3.Norm(n) == 0 {
		return nil, errors.New("face vertices are collinear")
	}
	pl, err := NewPlane(boundary[0], n, Vec{})
	if err != nil {
		return nil, err
	}
	return &Face3D{
		Boundary: append([]Vec(nil), boundary...),
		Holes:    copyLoops(holes),
		plane:    pl,
	}, nil
}

// NewFace3DInPlane builds a face whose plane is given rather than computed.
func NewFace3DInPlane(boundary []Vec, holes [][]Vec, pl Plane) (*Face3D, error) {
	if len(boundary) < 3 {
		return nil, errors.New("face needs at least 3 vertices")
	}
	return &Face3D{
		Boundary: append([]Vec(nil), boundary...),
		Holes:    copyLoops(holes),
		plane:    pl,
	}, nil
}

func copyLoops(loops [][]Vec) [][]Vec {
	if len(loops) == 0 {
		return nil
	}
	out := make([][]Vec, len(loops))
	for i, l := range loops {
		out[i] = append([]Vec(nil), l...)
	}
	return out
}

func newellNormal(pts []Vec) Vec {
	var n Vec
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n
}

// Plane returns the plane of the face.
func (f *Face3D) Plane() Plane { return f.plane }

// Normal returns the unit normal of the face.
func (f *Face3D) Normal() Vec { return f.plane.Normal }

// HasHoles reports whether the face has holes.
func (f *Face3D) HasHoles() bool { return len(f.Holes) > 0 }

// Area is the boundary area minus the hole areas.
func (f *Face3D) Area() float64 {
	a := r3.Norm(newellNormal(f.Boundary)) / 2
	for _, h := range f.Holes {
		a -= r3.Norm(newellNormal(h)) / 2
	}
	return a
}

// Centroid returns the vertex average of the boundary.
func (f *Face3D) Centroid() Vec {
	var c Vec
	for _, p := range f.Boundary {
		c = r3.Add(c, p)
	}
	return r3.Scale(1/float64(len(f.Boundary)), c)
}

// Vertices returns all boundary vertices followed by hole vertices.
func (f *Face3D) Vertices() []Vec {
	out := append([]Vec(nil), f.Boundary...)
	for _, h := range f.Holes {
		out = append(out, h...)
	}
	return out
}

// IsCoplanar reports whether every vertex lies within tol of pl.
func (f *Face3D) IsCoplanar(pl Plane, tol float64) bool {
	for _, v := range f.Vertices() {
		if pl.DistanceToPoint(v) > tol {
			return false
		}
	}
	return true
}

// Polygon2D projects a loop into pl.
func Polygon2D(loop []Vec, pl Plane) []Point2D {
	out := make([]Point2D, len(loop))
	for i, v := range loop {
		out[i] = pl.XYZToXY(v)
	}
	return out
}

// SignedArea2D is positive for counterclockwise loops.
func SignedArea2D(pts []Point2D) float64 {
	s := 0.0
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		s += a.X*b.Y - b.X*a.Y
	}
	return s / 2
}

// IsClockwise2D reports whether a 2D loop winds clockwise.
func IsClockwise2D(pts []Point2D) bool {
	return SignedArea2D(pts) < 0
}

// Scale returns a copy of the face scaled about origin.
func (f *Face3D) Scale(factor float64, origin Vec) *Face3D {
	b := make([]Vec, len(f.Boundary))
	for i, p := range f.Boundary {
		b[i] = ScalePoint(p, origin, factor)
	}
	holes := make([][]Vec, len(f.Holes))
	for i, h := range f.Holes {
		holes[i] = make([]Vec, len(h))
		for j, p := range h {
			holes[i][j] = ScalePoint(p, origin, factor)
		}
	}
	if len(holes) == 0 {
		holes = nil
	}
	return &Face3D{Boundary: b, Holes: holes, plane: f.plane.Scale(factor, origin)}
}

// Equal compares two faces vertex by vertex within tol.
func (f *Face3D) Equal(o *Face3D, tol float64) bool {
	if len(f.Boundary) != len(o.Boundary) || len(f.Holes) != len(o.Holes) {
		return false
	}
	for i := range f.Boundary {
		if !ApproxEqual(f.Boundary[i], o.Boundary[i], tol) {
			return false
		}
	}
	for i := range f.Holes {
		if len(f.Holes[i]) != len(o.Holes[i]) {
			return false
		}
		for j := range f.Holes[i] {
			if !ApproxEqual(f.Holes[i][j], o.Holes[i][j], tol) {
				return false
			}
		}
	}
	return true
}

// PlaneFromPoints derives a plane from the first three non-collinear points.
func PlaneFromPoints(pts []Vec) (Plane, error) {
	for i := 0; i+2 < len(pts); i++ {
		for j := i + 1; j+1 < len(pts); j++ {
			for k := j + 1; k < len(pts); k++ {
				n := r3.Cross(r3.Sub(pts[j], pts[i]), r3.Sub(pts[k], pts[i]))
				if r3.Norm(n) > 1e-12*math.Max(1, r3.Norm(pts[j])) {
					return NewPlane(pts[i], n, Vec{})
				}
			}
		}
	}
	return Plane{}, errors.New("points are collinear")
}
