// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package result reads the outputs THERM writes back into a simulated
// .thmz archive: the finite element mesh, nodal temperatures and heat
// fluxes, and the U-factors of each tagged boundary.
package result

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/ManuGH/fftherm/internal/geometry"
	"github.com/ManuGH/fftherm/internal/thmz"
	"github.com/ManuGH/fftherm/internal/xmlutil"
)

// THMZResult holds the results of one simulated archive. Fields are nil
// when the archive lacks the corresponding entry, which is the case before
// THERM has run.
type THMZResult struct {
	Path  string
	Plane geometry.Plane

	Mesh               *geometry.Mesh3D
	Temperatures       []float64
	HeatFluxes         []geometry.Vec
	HeatFluxMagnitudes []float64
	UFactors           []UFactor
}

// Load reads the results of the archive at path.
func Load(path string) (*THMZResult, error) {
	a, err := thmz.ReadTHMZ(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = a.Close() }()
	r, err := FromArchive(a)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.Path = path
	return r, nil
}

// FromArchive reads the results of an opened archive.
func FromArchive(a *thmz.Archive) (*THMZResult, error) {
	r := &THMZResult{Plane: planeOf(a)}

	var order map[int]int
	if a.Has(thmz.EntryMesh) {
		var doc MeshXML
		if err := decode(a, thmz.EntryMesh, &doc); err != nil {
			return nil, err
		}
		mesh, idx, err := buildMesh(doc, r.Plane)
		if err != nil {
			return nil, err
		}
		r.Mesh, order = mesh, idx
	}

	if a.Has(thmz.EntryMeshResults) {
		var doc MeshResultsXML
		if err := decode(a, thmz.EntryMeshResults, &doc); err != nil {
			return nil, err
		}
		if err := r.loadNodeResults(doc, order); err != nil {
			return nil, err
		}
	}

	if a.Has(thmz.EntryResults) {
		var doc ResultsXML
		if err := decode(a, thmz.EntryResults, &doc); err != nil {
			return nil, err
		}
		r.UFactors = uFactors(doc)
	}
	return r, nil
}

func decode(a *thmz.Archive, name string, v any) error {
	rc, err := a.Open(name)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	if err := xmlutil.Decode(rc, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// planeOf reads the plane stored in the model notes and falls back to
// world XY.
func planeOf(a *thmz.Archive) geometry.Plane {
	doc, err := a.Model()
	if err != nil {
		return geometry.WorldXY
	}
	pl, err := geometry.ParsePlane(doc.Properties.General.Notes)
	if err != nil {
		return geometry.WorldXY
	}
	return pl
}

// buildMesh maps the 2D mesh into the model plane. The returned map takes
// a node index of the file to its vertex position.
func buildMesh(doc MeshXML, pl geometry.Plane) (*geometry.Mesh3D, map[int]int, error) {
	if len(doc.Nodes) == 0 {
		return nil, nil, errors.New("mesh has no nodes")
	}
	order := make(map[int]int, len(doc.Nodes))
	verts := make([]geometry.Vec, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if _, dup := order[n.Index]; dup {
			return nil, nil, fmt.Errorf("mesh node %d is defined twice", n.Index)
		}
		order[n.Index] = i
		verts[i] = pl.XYToXYZ(geometry.Point2D{X: n.X, Y: n.Y})
	}
	faces := make([][]int, 0, len(doc.Elements))
	for _, e := range doc.Elements {
		ids := []int{e.Node1, e.Node2, e.Node3}
		if e.Node4 != 0 && e.Node4 != e.Node3 {
			ids = append(ids, e.Node4)
		}
		face := make([]int, len(ids))
		for j, id := range ids {
			pos, ok := order[id]
			if !ok {
				return nil, nil, fmt.Errorf("mesh element %d references unknown node %d", e.Index, id)
			}
			face[j] = pos
		}
		faces = append(faces, face)
	}
	mesh, err := geometry.NewMesh3D(verts, faces)
	if err != nil {
		return nil, nil, err
	}
	return mesh, order, nil
}

// loadNodeResults uses the first case. Values follow the mesh vertex order
// when a mesh is present and the file order otherwise.
func (r *THMZResult) loadNodeResults(doc MeshResultsXML, order map[int]int) error {
	if len(doc.Cases) == 0 {
		return nil
	}
	nodes := doc.Cases[0].Nodes
	n := len(nodes)
	if order != nil {
		if len(nodes) != len(order) {
			return fmt.Errorf("mesh results have %d nodes, mesh has %d", len(nodes), len(order))
		}
		n = len(order)
	}
	r.Temperatures = make([]float64, n)
	r.HeatFluxes = make([]geometry.Vec, n)
	r.HeatFluxMagnitudes = make([]float64, n)
	for i, nr := range nodes {
		pos := i
		if order != nil {
			p, ok := order[nr.Index]
			if !ok {
				return fmt.Errorf("mesh results reference unknown node %d", nr.Index)
			}
			pos = p
		}
		r.Temperatures[pos] = nr.Temperature
		r.HeatFluxes[pos] = r.Plane.VectorToXYZ(nr.XFlux, nr.YFlux)
		r.HeatFluxMagnitudes[pos] = math.Hypot(nr.XFlux, nr.YFlux)
	}
	return nil
}

// ErrNoResults is returned by helpers that need a simulated archive.
var ErrNoResults = errors.New("archive has no simulation results")

// UFactorByTag returns the U-factor with the given tag.
func (r *THMZResult) UFactorByTag(tag string) (UFactor, error) {
	if r.UFactors == nil {
		return UFactor{}, ErrNoResults
	}
	for _, u := range r.UFactors {
		if u.Tag == tag {
			return u, nil
		}
	}
	return UFactor{}, fmt.Errorf("u-factor tag %q: %w", tag, os.ErrNotExist)
}
