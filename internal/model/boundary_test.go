// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/fftherm/internal/condition"
	"github.com/ManuGH/fftherm/internal/geometry"
	"github.com/ManuGH/fftherm/internal/lib"
	"github.com/ManuGH/fftherm/internal/model"
	"github.com/ManuGH/fftherm/internal/thmz"
)

func twoLines() []geometry.LineSegment3D {
	return []geometry.LineSegment3D{
		geometry.SegmentFromEndPoints(geometry.Vec{}, geometry.Vec{Z: 3}),
		geometry.SegmentFromEndPoints(geometry.Vec{X: 1}, geometry.Vec{X: 1, Z: 3}),
	}
}

func newInteriorWood(t *testing.T) *condition.SteadyState {
	t.Helper()
	c, err := condition.NewSteadyState("", 24, 2.44)
	require.NoError(t, err)
	require.NoError(t, c.SetDisplayName("Interior Wood/Vinyl Frame"))
	return c
}

func TestBoundaryProperties(t *testing.T) {
	b, err := model.NewBoundary("", twoLines())
	require.NoError(t, err)
	b.SetDisplayName("TestBoundary")
	props := b.Properties()

	assert.True(t, props.Condition().Equal(lib.Exterior()))
	props.SetCondition(lib.Interior())
	assert.True(t, props.Condition().Equal(lib.Interior()))

	wood := newInteriorWood(t)
	props.SetCondition(wood)
	assert.True(t, props.Condition().Equal(wood))
	assert.True(t, wood.IsLocked())
}

func TestBoundaryDuplicate(t *testing.T) {
	wood := newInteriorWood(t)
	original, err := model.NewBoundary("", twoLines())
	require.NoError(t, err)
	dup1 := original.Duplicate()

	assert.Same(t, original, original.Properties().Host())
	assert.Same(t, dup1, dup1.Properties().Host())

	assert.True(t, original.Properties().Condition().Equal(dup1.Properties().Condition()))
	dup1.Properties().SetCondition(wood)
	assert.False(t, original.Properties().Condition().Equal(dup1.Properties().Condition()))

	dup2 := dup1.Duplicate()
	assert.True(t, dup1.Properties().Condition().Equal(dup2.Properties().Condition()))
	dup2.Properties().SetCondition(nil)
	assert.False(t, dup1.Properties().Condition().Equal(dup2.Properties().Condition()))
}

func TestBoundaryJSON(t *testing.T) {
	b, err := model.NewBoundary("TestBoundary", twoLines())
	require.NoError(t, err)
	d := b.Doc()
	assert.Equal(t, model.TypeBoundaryProperties, d.Properties.Type)
	assert.Equal(t, model.TypeBoundaryThermProperties, d.Properties.Therm.Type)
	assert.Empty(t, d.Properties.Therm.Condition)

	wood := newInteriorWood(t)
	b.Properties().SetCondition(wood)
	b.Properties().SetUFactorTag("Frame")
	raw, err := json.Marshal(b)
	require.NoError(t, err)

	var bd model.BoundaryDoc
	require.NoError(t, json.Unmarshal(raw, &bd))
	var cond condition.SteadyStateDoc
	require.NoError(t, json.Unmarshal(bd.Properties.Therm.Condition, &cond))
	assert.Equal(t, "Interior Wood/Vinyl Frame", cond.DisplayName)

	loaded, err := model.BoundaryFromDoc(bd)
	require.NoError(t, err)
	assert.True(t, loaded.Properties().Condition().Equal(wood))
	assert.Equal(t, "Frame", loaded.Properties().UFactorTag())

	again, err := json.Marshal(loaded)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(again))
}

func TestBoundaryThermXML(t *testing.T) {
	b, err := model.NewBoundary("", twoLines())
	require.NoError(t, err)
	b.SetDisplayName("TestBoundary")
	wood := newInteriorWood(t)
	b.Properties().SetCondition(wood)

	xmlStr, err := thmz.BoundaryToThermXML(b, geometry.WorldXY)
	require.NoError(t, err)
	assert.Contains(t, xmlStr, wood.DisplayName())
	assert.Contains(t, xmlStr, b.ThermUUID()[:24])
	assert.Equal(t, b.ThermUUID()[:24]+"000000000001", b.SegmentUUID(1))
}
