// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package thmz

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/fftherm/internal/condition"
	"github.com/ManuGH/fftherm/internal/geometry"
	"github.com/ManuGH/fftherm/internal/lib"
	"github.com/ManuGH/fftherm/internal/material"
	"github.com/ManuGH/fftherm/internal/model"
	"github.com/ManuGH/fftherm/internal/xmlutil"
)

// twoLayerWall has fixed identifiers so its XML is stable.
func twoLayerWall(t *testing.T) *model.Model {
	t.Helper()
	m, err := model.FromLayers([]float64{100, 200}, 1000)
	require.NoError(t, err)
	m.SetDisplayName("Golden Wall")

	shapes := m.Shapes()
	require.NoError(t, shapes[0].SetIdentifier("11111111-1111-4111-8111-000000000001"))
	require.NoError(t, shapes[1].SetIdentifier("11111111-1111-4111-8111-000000000002"))
	shapes[0].Properties().SetMaterial(lib.Concrete())
	shapes[1].Properties().SetMaterial(lib.AirCavity())

	bounds := m.Boundaries()
	require.NoError(t, bounds[0].SetIdentifier("22222222-2222-4222-8222-000000000001"))
	require.NoError(t, bounds[1].SetIdentifier("33333333-3333-4333-8333-000000000001"))
	bounds[1].Properties().SetUFactorTag("Wall Assembly")
	return m
}

// normalizeXML drops indentation and blank lines.
func normalizeXML(s string) string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, "\n")
}

func assertGolden(t *testing.T, name string, got []byte) {
	t.Helper()
	want, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	if normalizeXML(string(got)) != normalizeXML(string(want)) {
		t.Errorf("output does not match %s\nwant:\n%s\ngot:\n%s", name, want, got)
	}
}

func TestModelToThermXMLGolden(t *testing.T) {
	tests := []struct {
		name  string
		units model.Units
	}{
		{name: "millimeters", units: model.Millimeters},
		{name: "meters", units: model.Meters},
		{name: "inches", units: model.Inches},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := twoLayerWall(t)
			require.NoError(t, m.ConvertToUnits(tt.units))

			out, err := MarshalModel(m)
			require.NoError(t, err)
			assertGolden(t, "two_layer_wall.golden.xml", out)
			assert.Equal(t, tt.units, m.Units(), "input model must not be converted")
		})
	}
}

func TestModelToThermXMLVerticalPlane(t *testing.T) {
	face, err := geometry.NewFace3D([]geometry.Vec{
		{X: 0, Y: 0, Z: 0}, {X: 0, Y: 100, Z: 0}, {X: 0, Y: 100, Z: 50}, {X: 0, Y: 0, Z: 50},
	}, nil)
	require.NoError(t, err)
	s, err := model.NewShape("", face)
	require.NoError(t, err)
	b, err := model.NewBoundary("", []geometry.LineSegment3D{
		geometry.SegmentFromEndPoints(geometry.Vec{Z: 50}, geometry.Vec{}),
	})
	require.NoError(t, err)
	m, err := model.New("vertical")
	require.NoError(t, err)
	m.AddShapes(s)
	m.AddBoundaries(b)

	doc, err := ModelToThermXML(m)
	require.NoError(t, err)
	assert.Equal(t, "Down", doc.Properties.ModelExposure.GravityOrientation)

	pl, err := geometry.ParsePlane(doc.Properties.General.Notes)
	require.NoError(t, err)
	assert.InDelta(t, 1, pl.Normal.X, 1e-12)

	require.Len(t, doc.Polygons.Polygons, 1)
	poly := doc.Polygons.Polygons[0]
	assert.Equal(t, lib.GenericConcreteName, poly.Material)
	pts := make([]geometry.Point2D, len(poly.Points))
	for i, p := range poly.Points {
		pts[i] = geometry.Point2D{X: p.X, Y: p.Y}
	}
	assert.False(t, geometry.IsClockwise2D(pts))
	assert.InDelta(t, 5000, geometry.SignedArea2D(pts), 1e-9)

	require.Len(t, doc.Boundaries.Conditions, 1)
	bc := doc.Boundaries.Conditions[0]
	assert.Equal(t, lib.ExteriorName, bc.Name)
	assert.Equal(t, s.ThermUUID(), bc.NeighborPolygonUUID)
}

func TestModelToThermXMLRejects(t *testing.T) {
	empty, err := model.New("empty")
	require.NoError(t, err)
	_, err = ModelToThermXML(empty)
	assert.Error(t, err)

	holed, err := geometry.NewFace3D(
		[]geometry.Vec{{}, {X: 10}, {X: 10, Y: 10}, {Y: 10}},
		[][]geometry.Vec{{{X: 2, Y: 2}, {X: 2, Y: 4}, {X: 4, Y: 4}}},
	)
	require.NoError(t, err)
	s, err := model.NewShape("holed", holed)
	require.NoError(t, err)
	m, err := model.New("")
	require.NoError(t, err)
	m.AddShapes(s)
	_, err = ModelToThermXML(m)
	assert.ErrorIs(t, err, ErrPolygonHoles)
}

func TestShapeToThermXML(t *testing.T) {
	m := twoLayerWall(t)
	out, err := ShapeToThermXML(m.Shapes()[1], geometry.WorldXY)
	require.NoError(t, err)

	var poly PolygonXML
	require.NoError(t, xmlutil.DecodeString(out, &poly))
	assert.Equal(t, "11111111-1111-4111-8111-000000000002", poly.UUID)
	assert.Equal(t, lib.AirCavityName, poly.Material)
	assert.Len(t, poly.Points, 4)
}

func TestBoundaryToThermXMLSegments(t *testing.T) {
	b, err := model.NewBoundary("", []geometry.LineSegment3D{
		geometry.SegmentFromEndPoints(geometry.Vec{}, geometry.Vec{X: 10}),
		geometry.SegmentFromEndPoints(geometry.Vec{X: 10}, geometry.Vec{X: 10, Y: 5}),
	})
	require.NoError(t, err)
	out, err := BoundaryToThermXML(b, geometry.WorldXY)
	require.NoError(t, err)

	var doc BoundariesXML
	require.NoError(t, xmlutil.DecodeString(out, &doc))
	require.Len(t, doc.Conditions, 2)
	assert.Equal(t, b.SegmentUUID(0), doc.Conditions[0].UUID)
	assert.Equal(t, b.SegmentUUID(1), doc.Conditions[1].UUID)
	assert.Equal(t, PointXML{X: 10, Y: 5}, doc.Conditions[1].EndPoint)
	assert.Empty(t, doc.Conditions[0].NeighborPolygonUUID)
}

func TestWriteAndReadTHMZ(t *testing.T) {
	m := twoLayerWall(t)
	path := filepath.Join(t.TempDir(), "nested", "model.thmz")
	require.NoError(t, WriteTHMZ(context.Background(), m, path))

	a, err := ReadTHMZ(path)
	require.NoError(t, err)
	defer func() { _ = a.Close() }()

	assert.Equal(t, path, a.Path())
	assert.Equal(t, []string{EntryGases, EntryMaterials, EntryModel, EntryConditions}, a.Names())
	assert.False(t, a.Has(EntryMesh))

	modelXML, err := a.ReadFile(EntryModel)
	require.NoError(t, err)
	assertGolden(t, "two_layer_wall.golden.xml", modelXML)

	doc, err := a.Model()
	require.NoError(t, err)
	assert.Len(t, doc.Polygons.Polygons, 2)

	matsXML, err := a.ReadFile(EntryMaterials)
	require.NoError(t, err)
	gases, pure, err := readGases(a)
	require.NoError(t, err)
	require.Len(t, gases, 1)
	assert.Equal(t, lib.AirName, gases[0].DisplayName())
	assert.Len(t, pure, 1)
	mats, err := material.ExtractMaterials(bytes.NewReader(matsXML), material.GasesByName(gases))
	require.NoError(t, err)
	require.Len(t, mats, 2)
	assert.True(t, mats[0].Equal(lib.Concrete()))

	condXML, err := a.ReadFile(EntryConditions)
	require.NoError(t, err)
	conds, err := condition.ExtractAllFromXML(bytes.NewReader(condXML))
	require.NoError(t, err)
	names := make([]string, len(conds))
	for i, c := range conds {
		names[i] = c.DisplayName()
	}
	assert.Equal(t, []string{lib.ExteriorName, lib.InteriorName, lib.AdiabaticName}, names)

	_, err = a.ReadFile(EntryResults)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func readGases(a *Archive) ([]*material.Gas, []*material.PureGas, error) {
	rc, err := a.Open(EntryGases)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = rc.Close() }()
	return material.ExtractGases(rc)
}

func TestEncodeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	err := Encode(ctx, twoLayerWall(t), &buf)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewArchive(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(context.Background(), twoLayerWall(t), &buf))
	a, err := NewArchive(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, a.Close())
	assert.True(t, a.Has(EntryModel))

	var root struct {
		XMLName xml.Name
	}
	data, err := a.ReadFile(EntryModel)
	require.NoError(t, err)
	require.NoError(t, xml.Unmarshal(data, &root))
	assert.Equal(t, "ThermModel", root.XMLName.Local)

	_, err = NewArchive([]byte("not a zip"))
	assert.Error(t, err)
}

func TestWriteTHMZFailsOnInvalidModel(t *testing.T) {
	empty, err := model.New("")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "empty.thmz")
	assert.Error(t, WriteTHMZ(context.Background(), empty, path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
