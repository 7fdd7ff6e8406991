// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/fftherm/internal/condition"
	"github.com/ManuGH/fftherm/internal/geometry"
	"github.com/ManuGH/fftherm/internal/ident"
	"github.com/ManuGH/fftherm/internal/lib"
	"github.com/ManuGH/fftherm/internal/material"
	"github.com/ManuGH/fftherm/internal/model"
	"github.com/ManuGH/fftherm/internal/xmlutil"
)

func newAeratedConcrete(t *testing.T) *material.SolidMaterial {
	t.Helper()
	m, err := material.NewSolidMaterial(0.1, 0.9, material.SolidOptions{
		Density:                  material.Float(400),
		Porosity:                 material.Float(0.81),
		SpecificHeat:             material.Float(850),
		VaporDiffusionResistance: material.Float(7.9),
	})
	require.NoError(t, err)
	return m
}

func newWarmInterior(t *testing.T) *condition.SteadyState {
	t.Helper()
	c, err := condition.NewSteadyState("", 26, 3.2)
	require.NoError(t, err)
	return c
}

// romanBathWall returns a three layer wall with concrete, an air cavity and
// aerated concrete.
func romanBathWall(t *testing.T) (*model.Model, *material.SolidMaterial, *condition.SteadyState) {
	t.Helper()
	m, err := model.FromLayers([]float64{100, 200, 100}, 1000)
	require.NoError(t, err)
	aer := newAeratedConcrete(t)
	warm := newWarmInterior(t)
	shapes := m.Shapes()
	shapes[0].Properties().SetMaterial(lib.Concrete())
	shapes[1].Properties().SetMaterial(lib.AirCavity())
	shapes[2].Properties().SetMaterial(aer)
	bounds := m.Boundaries()
	bounds[0].Properties().SetCondition(lib.Exterior())
	bounds[1].Properties().SetCondition(warm)
	m.SetDisplayName("Roman Bath Wall")
	return m, aer, warm
}

func TestFromLayers(t *testing.T) {
	m, err := model.FromLayers([]float64{100, 200, 100}, 1000)
	require.NoError(t, err)
	require.Len(t, m.Shapes(), 3)
	require.Len(t, m.Boundaries(), 2)
	assert.Equal(t, model.Millimeters, m.Units())

	assert.InDelta(t, 100*1000, m.Shapes()[0].Geometry().Area(), 1e-6)
	assert.InDelta(t, 200*1000, m.Shapes()[1].Geometry().Area(), 1e-6)
	assert.Equal(t, 400.0, m.Boundaries()[1].Geometry()[0].P.X)
	assert.True(t, m.Boundaries()[0].Properties().Condition().Equal(lib.Exterior()))
	assert.True(t, m.Boundaries()[1].Properties().Condition().Equal(lib.Interior()))

	pl := m.Plane()
	assert.InDelta(t, 1, pl.Normal.Z, 1e-12)
	require.NoError(t, m.Validate())

	_, err = model.FromLayers(nil, 1000)
	assert.Error(t, err)
	_, err = model.FromLayers([]float64{100, -1}, 1000)
	assert.Error(t, err)
}

func TestModelCollections(t *testing.T) {
	m, _, _ := romanBathWall(t)

	mats := m.Materials()
	assert.Len(t, mats, 3)
	assert.Len(t, m.Conditions(), 2)
	gases := m.Gases()
	require.Len(t, gases, 1)
	assert.Same(t, lib.Air(), gases[0])
	assert.Len(t, m.PureGases(), 1)

	m.Shapes()[2].Properties().SetMaterial(lib.Concrete())
	assert.Len(t, m.Materials(), 2)
}

func TestCheckDuplicateMaterialIdentifiers(t *testing.T) {
	m, aer, _ := romanBathWall(t)

	report, err := m.CheckDuplicateMaterialIdentifiers(false)
	require.NoError(t, err)
	assert.Empty(t, report)

	aer.Thaw()
	require.NoError(t, aer.SetIdentifier(lib.Concrete().Identifier()))
	aer.Freeze()

	report, err = m.CheckDuplicateMaterialIdentifiers(false)
	require.NoError(t, err)
	assert.NotEmpty(t, report)
	_, err = m.CheckDuplicateMaterialIdentifiers(true)
	assert.ErrorIs(t, err, model.ErrDuplicateIdentifier)
	assert.Error(t, m.Validate())
}

func TestCheckDuplicateConditionIdentifiers(t *testing.T) {
	m, _, warm := romanBathWall(t)

	report, err := m.CheckDuplicateConditionIdentifiers(false)
	require.NoError(t, err)
	assert.Empty(t, report)

	warm.Thaw()
	require.NoError(t, warm.SetIdentifier(lib.Exterior().Identifier()))
	warm.Freeze()

	report, err = m.CheckDuplicateConditionIdentifiers(false)
	require.NoError(t, err)
	assert.NotEmpty(t, report)
	_, err = m.CheckDuplicateConditionIdentifiers(true)
	assert.ErrorIs(t, err, model.ErrDuplicateIdentifier)
}

func TestModelDoc(t *testing.T) {
	m, aer, warm := romanBathWall(t)
	d, err := m.Doc()
	require.NoError(t, err)

	therm := d.Properties.Therm
	require.NotNil(t, therm)
	assert.Len(t, therm.Materials, 3)
	assert.Len(t, therm.Conditions, 2)
	assert.Len(t, therm.Gases, 1)
	assert.Len(t, therm.PureGases, 1)

	materialID := func(i int) string {
		var id string
		require.NoError(t, json.Unmarshal(d.Shapes[i].Properties.Therm.Material, &id))
		return id
	}
	conditionID := func(i int) string {
		var id string
		require.NoError(t, json.Unmarshal(d.Boundaries[i].Properties.Therm.Condition, &id))
		return id
	}
	assert.Equal(t, lib.Concrete().Identifier(), materialID(0))
	assert.Equal(t, lib.AirCavity().Identifier(), materialID(1))
	assert.Equal(t, aer.Identifier(), materialID(2))
	assert.Equal(t, lib.Exterior().Identifier(), conditionID(0))
	assert.Equal(t, warm.Identifier(), conditionID(1))
}

func TestModelJSONRoundTrip(t *testing.T) {
	m, aer, warm := romanBathWall(t)
	raw, err := json.Marshal(m)
	require.NoError(t, err)

	loaded, err := model.DecodeJSON(raw)
	require.NoError(t, err)
	again, err := json.Marshal(loaded)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(again))

	assert.Equal(t, "Roman Bath Wall", loaded.DisplayName())
	shapes := loaded.Shapes()
	assert.True(t, shapes[0].Properties().Material().Equal(lib.Concrete()))
	assert.True(t, shapes[1].Properties().Material().Equal(lib.AirCavity()))
	assert.True(t, shapes[2].Properties().Material().Equal(aer))
	bounds := loaded.Boundaries()
	assert.True(t, bounds[0].Properties().Condition().Equal(lib.Exterior()))
	assert.True(t, bounds[1].Properties().Condition().Equal(warm))

	found := false
	for _, mat := range loaded.Materials() {
		found = found || mat.Equal(aer)
	}
	assert.True(t, found)
}

func TestModelFullDoc(t *testing.T) {
	m, aer, _ := romanBathWall(t)
	d, err := m.FullDoc()
	require.NoError(t, err)
	assert.Empty(t, d.Properties.Therm.Materials)

	loaded, err := model.FromDoc(d)
	require.NoError(t, err)
	assert.True(t, loaded.Shapes()[2].Properties().Material().Equal(aer))
	assert.True(t, loaded.Shapes()[1].Properties().Material().Equal(lib.AirCavity()))

	abridged, err := loaded.Doc()
	require.NoError(t, err)
	want, err := m.Doc()
	require.NoError(t, err)
	if diff := cmp.Diff(want, abridged, cmpopts.IgnoreUnexported(geometry.Face3D{})); diff != "" {
		t.Errorf("abridged doc mismatch (-want +got):\n%s", diff)
	}
}

func TestModelMissingReferences(t *testing.T) {
	m, _, _ := romanBathWall(t)
	d, err := m.Doc()
	require.NoError(t, err)
	d.Properties.Therm.Materials = d.Properties.Therm.Materials[:0]

	_, err = model.FromDoc(d)
	assert.ErrorIs(t, err, ident.ErrMissingReference)

	_, err = model.DecodeJSON([]byte(`{"type":"Building","identifier":"x","shapes":[],"properties":{"type":"ModelProperties"}}`))
	assert.Error(t, err)
}

func TestDecodeWithUserLibrary(t *testing.T) {
	wool, err := material.NewSolidMaterial(0.035, 0.9, material.SolidOptions{})
	require.NoError(t, err)
	require.NoError(t, wool.SetDisplayName("Mineral Wool"))
	out, err := xmlutil.MarshalDocument(material.MaterialsDocument([]material.Material{wool}))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "Materials.xml")
	require.NoError(t, os.WriteFile(path, out, 0o600))

	userLib, err := lib.Load(lib.Files{Materials: path})
	require.NoError(t, err)
	libWool, ok := userLib.Material("Mineral Wool")
	require.True(t, ok)

	m, err := model.FromLayers([]float64{100}, 1000)
	require.NoError(t, err)
	m.Shapes()[0].Properties().SetMaterial(libWool)
	d, err := m.Doc()
	require.NoError(t, err)
	d.Properties.Therm.Materials = d.Properties.Therm.Materials[:0]
	raw, err := json.Marshal(d)
	require.NoError(t, err)

	_, err = model.DecodeJSON(raw)
	assert.ErrorIs(t, err, ident.ErrMissingReference)

	loaded, err := model.DecodeJSON(raw, model.WithLibrary(userLib))
	require.NoError(t, err)
	assert.Same(t, libWool, loaded.Shapes()[0].Properties().Material())

	loaded, err = model.DecodeJSON(raw, model.WithLibrary(nil))
	assert.ErrorIs(t, err, ident.ErrMissingReference)
	assert.Nil(t, loaded)
}

func TestConvertToUnits(t *testing.T) {
	m, _, _ := romanBathWall(t)
	require.NoError(t, m.ConvertToUnits(model.Meters))
	assert.Equal(t, model.Meters, m.Units())
	assert.InDelta(t, 0.4, m.Boundaries()[1].Geometry()[0].P.X, 1e-12)
	assert.InDelta(t, 0.1, m.Shapes()[0].Geometry().Area(), 1e-9)
	assert.InDelta(t, 1e-5, m.Tolerance(), 1e-15)

	require.NoError(t, m.ConvertToUnits(model.Millimeters))
	assert.InDelta(t, 400, m.Boundaries()[1].Geometry()[0].P.X, 1e-9)
	assert.Error(t, m.ConvertToUnits("Furlongs"))

	assert.InDelta(t, 25.4, model.ConversionFactor(model.Inches, model.Millimeters), 1e-12)
	u, err := model.ParseUnits("feet")
	require.NoError(t, err)
	assert.Equal(t, model.Feet, u)
}

func TestValidateRejectsOffPlaneShapes(t *testing.T) {
	m, err := model.New("")
	require.NoError(t, err)
	assert.Error(t, m.Validate())

	flat, err := geometry.NewFace3D([]geometry.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}}, nil)
	require.NoError(t, err)
	lifted, err := geometry.NewFace3D([]geometry.Vec{{Z: 5}, {X: 1, Z: 5}, {X: 1, Y: 1, Z: 5}, {Y: 1, Z: 5}}, nil)
	require.NoError(t, err)
	s1, err := model.NewShape("", flat)
	require.NoError(t, err)
	s2, err := model.NewShape("", lifted)
	require.NoError(t, err)
	m.AddShapes(s1)
	require.NoError(t, m.Validate())
	m.AddShapes(s2)
	assert.Error(t, m.Validate())
}

func TestModelWriteAndLoad(t *testing.T) {
	m, _, _ := romanBathWall(t)
	path := filepath.Join(t.TempDir(), "wall.ffjson")
	require.NoError(t, m.WriteFile(path))

	loaded, err := model.Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.Identifier(), loaded.Identifier())
	assert.Equal(t, 3, len(loaded.Shapes()))

	_, err = model.Load(filepath.Join(t.TempDir(), "missing.ffjson"))
	assert.Error(t, err)
}

func TestModelDuplicate(t *testing.T) {
	m, _, _ := romanBathWall(t)
	dup := m.Duplicate()
	require.NoError(t, dup.ConvertToUnits(model.Meters))
	assert.Equal(t, model.Millimeters, m.Units())
	assert.Equal(t, 400.0, m.Boundaries()[1].Geometry()[0].P.X)
	assert.Same(t, m.Shapes()[2].Properties().Material(), dup.Shapes()[2].Properties().Material())
}
