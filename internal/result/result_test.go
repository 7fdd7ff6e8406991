// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package result

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/fftherm/internal/geometry"
	"github.com/ManuGH/fftherm/internal/model"
	"github.com/ManuGH/fftherm/internal/thmz"
	"github.com/ManuGH/fftherm/internal/xmlutil"
)

const (
	gridCols = 9
	gridRows = 5
)

// gridMesh is a 9 by 5 node grid of quads with 25 mm spacing.
func gridMesh() MeshXML {
	var doc MeshXML
	for r := 0; r < gridRows; r++ {
		for c := 0; c < gridCols; c++ {
			doc.Nodes = append(doc.Nodes, NodeXML{Index: r*gridCols + c + 1, X: float64(c) * 25, Y: float64(r) * 25})
		}
	}
	for r := 0; r < gridRows-1; r++ {
		for c := 0; c < gridCols-1; c++ {
			n := r*gridCols + c + 1
			doc.Elements = append(doc.Elements, ElementXML{
				Index: len(doc.Elements) + 1,
				Node1: n, Node2: n + 1, Node3: n + gridCols + 1, Node4: n + gridCols,
				MaterialID: 1,
			})
		}
	}
	return doc
}

func gridResults() MeshResultsXML {
	var c MeshResultCaseXML
	c.ResultsType = "Temperature"
	for i := 0; i < gridRows*gridCols; i++ {
		c.Nodes = append(c.Nodes, NodeResultXML{
			Index:       i + 1,
			Temperature: -18 + float64(i%gridCols)*4.875,
			XFlux:       30,
			YFlux:       40,
		})
	}
	return MeshResultsXML{Cases: []MeshResultCaseXML{c}}
}

func wallResults() ResultsXML {
	return ResultsXML{Cases: []ResultsCaseXML{{
		ModelType: "Opaque",
		UFactors: []UFactorXML{{
			Tag:      "Wall Assembly",
			DeltaT:   ValueXML{Value: 39, Units: "C"},
			HeatFlux: ValueXML{Value: 76.89, Units: "W/m2"},
			Projections: []ProjectionXML{
				{LengthType: LengthTotal, Length: ValueXML{Value: 200, Units: "mm"}, UFactor: ValueXML{Value: 1.971534, Units: "W/m2-K"}},
				{LengthType: LengthProjectedX, Length: ValueXML{Value: 0, Units: "mm"}, UFactor: ValueXML{Value: 0, Units: "W/m2-K"}},
				{LengthType: LengthProjectedY, Length: ValueXML{Value: 200, Units: "mm"}, UFactor: ValueXML{Value: 1.971534, Units: "W/m2-K"}},
			},
		}},
	}}}
}

// writeArchive zips the given documents into dir/name.
func writeArchive(t *testing.T, dir, name string, docs map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for entry, doc := range docs {
		data, err := xmlutil.MarshalDocument(doc)
		require.NoError(t, err)
		w, err := zw.Create(entry)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func simulatedArchive(t *testing.T) string {
	t.Helper()
	modelDoc := thmz.ThermModelXML{Version: thmz.FileVersion}
	modelDoc.Properties.General.Notes = "Plane: -100, 300, 0; 0, 0, 1; 1, 0, 0"
	return writeArchive(t, t.TempDir(), "test_result.thmz", map[string]any{
		thmz.EntryModel:       modelDoc,
		thmz.EntryMesh:        gridMesh(),
		thmz.EntryMeshResults: gridResults(),
		thmz.EntryResults:     wallResults(),
	})
}

func unsimulatedArchive(t *testing.T) string {
	t.Helper()
	m, err := model.FromLayers([]float64{100, 200, 100}, 200)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "test_no_result.thmz")
	require.NoError(t, thmz.WriteTHMZ(context.Background(), m, path))
	return path
}

func TestLoadMesh(t *testing.T) {
	r, err := Load(simulatedArchive(t))
	require.NoError(t, err)
	assert.Equal(t, geometry.Vec{X: -100, Y: 300}, r.Plane.Origin)

	require.NotNil(t, r.Mesh)
	assert.Len(t, r.Mesh.Faces, 32)
	assert.Len(t, r.Mesh.Vertices, 45)
	assert.Equal(t, geometry.Vec{X: -75, Y: 325}, r.Mesh.Vertices[gridCols+1])
	assert.Equal(t, []int{0, 1, gridCols + 1, gridCols}, r.Mesh.Faces[0])

	empty, err := Load(unsimulatedArchive(t))
	require.NoError(t, err)
	assert.Equal(t, geometry.WorldXY.Normal, empty.Plane.Normal)
	assert.Nil(t, empty.Mesh)
}

func TestLoadMeshResults(t *testing.T) {
	r, err := Load(simulatedArchive(t))
	require.NoError(t, err)

	require.Len(t, r.Temperatures, 45)
	assert.Equal(t, -18.0, r.Temperatures[0])
	assert.Equal(t, 21.0, r.Temperatures[gridCols-1])
	require.Len(t, r.HeatFluxes, 45)
	assert.Equal(t, geometry.Vec{X: 30, Y: 40}, r.HeatFluxes[3])
	require.Len(t, r.HeatFluxMagnitudes, 45)
	for _, v := range r.HeatFluxMagnitudes {
		assert.InDelta(t, 50, v, 1e-12)
	}

	empty, err := Load(unsimulatedArchive(t))
	require.NoError(t, err)
	assert.Nil(t, empty.Temperatures)
	assert.Nil(t, empty.HeatFluxes)
	assert.Nil(t, empty.HeatFluxMagnitudes)
}

func TestLoadUFactors(t *testing.T) {
	r, err := Load(simulatedArchive(t))
	require.NoError(t, err)

	require.Len(t, r.UFactors, 1)
	u := r.UFactors[0]
	assert.Equal(t, 1.971534, u.TotalUFactor)
	assert.Equal(t, "Wall Assembly", u.Tag)
	assert.Equal(t, 39.0, u.DeltaT)
	assert.Equal(t, 200.0, u.ProjectedYLength)
	assert.Nil(t, u.CustomUFactor)

	got, err := r.UFactorByTag("Wall Assembly")
	require.NoError(t, err)
	assert.Equal(t, u, got)
	_, err = r.UFactorByTag("Frame")
	assert.True(t, errors.Is(err, os.ErrNotExist))

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"total_u_factor":1.971534`)
	assert.NotContains(t, string(raw), "custom_length")

	empty, err := Load(unsimulatedArchive(t))
	require.NoError(t, err)
	assert.Nil(t, empty.UFactors)
	_, err = empty.UFactorByTag("Wall Assembly")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestCustomLength(t *testing.T) {
	x := wallResults().Cases[0].UFactors[0]
	x.Projections = append(x.Projections, ProjectionXML{
		LengthType: LengthCustom,
		Length:     ValueXML{Value: 150},
		UFactor:    ValueXML{Value: 2.5},
	})
	u := uFactorFromXML(x)
	require.NotNil(t, u.CustomLength)
	assert.Equal(t, 150.0, *u.CustomLength)
	assert.Equal(t, 2.5, *u.CustomUFactor)
}

func TestLoadRejectsBrokenMesh(t *testing.T) {
	mesh := gridMesh()
	mesh.Elements[0].Node3 = 999
	path := writeArchive(t, t.TempDir(), "broken.thmz", map[string]any{thmz.EntryMesh: mesh})
	_, err := Load(path)
	assert.Error(t, err)

	results := gridResults()
	results.Cases[0].Nodes = results.Cases[0].Nodes[:10]
	path = writeArchive(t, t.TempDir(), "short.thmz", map[string]any{
		thmz.EntryMesh:        gridMesh(),
		thmz.EntryMeshResults: results,
	})
	_, err = Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.thmz"))
	assert.Error(t, err)
}

func TestResultsWithoutMesh(t *testing.T) {
	path := writeArchive(t, t.TempDir(), "nomesh.thmz", map[string]any{thmz.EntryMeshResults: gridResults()})
	r, err := Load(path)
	require.NoError(t, err)
	assert.Nil(t, r.Mesh)
	assert.Len(t, r.Temperatures, 45)
	assert.Equal(t, geometry.WorldXY, r.Plane)
}
