// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh3D is a face-vertex mesh of triangles and quads.
type Mesh3D struct {
	Vertices []Vec
	Faces    [][]int
}

// NewMesh3D checks that every face has 3 or 4 valid vertex indices.
func NewMesh3D(vertices []Vec, faces [][]int) (*Mesh3D, error) {
	for i, f := range faces {
		if len(f) != 3 && len(f) != 4 {
			return nil, fmt.Errorf("mesh face %d has %d vertices, want 3 or 4", i, len(f))
		}
		for _, idx := range f {
			if idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("mesh face %d references vertex %d of %d", i, idx, len(vertices))
			}
		}
	}
	return &Mesh3D{Vertices: vertices, Faces: faces}, nil
}

// FaceCentroids returns the vertex average of each face.
func (m *Mesh3D) FaceCentroids() []Vec {
	out := make([]Vec, len(m.Faces))
	for i, f := range m.Faces {
		var c Vec
		for _, idx := range f {
			c = r3.Add(c, m.Vertices[idx])
		}
		out[i] = r3.Scale(1/float64(len(f)), c)
	}
	return out
}
