// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package material_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/fftherm/internal/ident"
	"github.com/ManuGH/fftherm/internal/material"
)

func newCO2Gas(t *testing.T) *material.Gas {
	t.Helper()
	gas, err := material.NewGas(uuid.NewString(), []*material.PureGas{newCO2(t, "")}, []float64{1})
	require.NoError(t, err)
	require.NoError(t, gas.SetDisplayName("CO2"))
	return gas
}

func newAirGas(t *testing.T) *material.Gas {
	t.Helper()
	gas, err := material.NewGas("", []*material.PureGas{pureFromJSON(t, airDoc)}, []float64{1})
	require.NoError(t, err)
	require.NoError(t, gas.SetDisplayName("Air"))
	return gas
}

func TestCavityMaterialInit(t *testing.T) {
	air := newAirGas(t)
	id := uuid.NewString()
	gap, err := material.NewCavityMaterial(id, air, "ISO15099", 0.95, nil)
	require.NoError(t, err)
	require.NoError(t, gap.SetDisplayName("ISO Air Gap"))
	dup := gap.Duplicate()

	assert.Equal(t, id, dup.Identifier())
	assert.Equal(t, "ISO Air Gap", dup.DisplayName())
	assert.Same(t, air, dup.Gas())
	assert.Equal(t, 0.95, dup.Emissivity())
	assert.Equal(t, 0.95, dup.EmissivityBack())
	assert.True(t, air.IsLocked())

	assert.Error(t, gap.SetGas(nil))
	_, err = material.NewCavityMaterial("", air, "Ventilated", 0.9, nil)
	assert.Error(t, err)
}

func TestCavityMaterialEquivalency(t *testing.T) {
	gap1, err := material.NewCavityMaterial("", newAirGas(t), "ISO15099", 0.95, nil)
	require.NoError(t, err)
	gap2 := gap1.Duplicate()
	co2Gap, err := material.NewCavityMaterial("", newCO2Gas(t), "ISO15099", 0.95, nil)
	require.NoError(t, err)

	assert.True(t, gap1.Equal(gap2))
	assert.False(t, gap1.Equal(co2Gap))
	assert.False(t, gap1.Equal(material.Material(nil)))

	require.NoError(t, gap2.SetCavityModel("cen"))
	assert.Equal(t, material.CavityCEN, gap2.CavityModel())
	assert.False(t, gap1.Equal(gap2))
}

func TestCavityMaterialLockability(t *testing.T) {
	gap, err := material.NewCavityMaterial("", newAirGas(t), "ISO15099", 0.95, nil)
	require.NoError(t, err)
	require.NoError(t, gap.SetCavityModel("CEN"))
	gap.Freeze()
	assert.ErrorIs(t, gap.SetCavityModel("NFRC"), ident.ErrLocked)
	gap.Thaw()
	require.NoError(t, gap.SetCavityModel("NFRC"))
}

func TestCavityMaterialThermXML(t *testing.T) {
	co2 := newCO2Gas(t)
	id := uuid.NewString()
	gap, err := material.NewCavityMaterial(id, co2, "ISO15099", 0.95, nil)
	require.NoError(t, err)
	require.NoError(t, gap.SetDisplayName("ISO CO2 Gap"))

	xmlStr, err := material.MarshalThermXML(gap)
	require.NoError(t, err)
	assert.Contains(t, xmlStr, "<Gas>CO2</Gas>")

	dup, err := material.CavityFromThermXMLString(xmlStr, map[string]*material.Gas{"CO2": co2})
	require.NoError(t, err)
	assert.True(t, gap.Equal(dup))
	assert.Equal(t, ident.ThermUUID(id), dup.ThermUUID())
	assert.Equal(t, material.CavityISO15099, dup.CavityModel())
	assert.Same(t, co2, dup.Gas())
	assert.Equal(t, 0.95, dup.EmissivityBack())

	_, err = material.CavityFromThermXMLString(xmlStr, nil)
	assert.ErrorIs(t, err, ident.ErrMissingReference)
}

func TestCavityMaterialJSON(t *testing.T) {
	co2 := newCO2Gas(t)
	id := uuid.NewString()
	gap, err := material.NewCavityMaterial(id, co2, "ISO15099", 0.95, nil)
	require.NoError(t, err)
	require.NoError(t, gap.SetDisplayName("ISO CO2 Gap"))

	full, err := json.Marshal(gap)
	require.NoError(t, err)
	m1, err := material.DecodeMaterialJSON(full, nil)
	require.NoError(t, err)
	dup1 := m1.(*material.CavityMaterial)
	assert.Equal(t, gap.Doc(), dup1.Doc())

	abridged, err := material.MaterialDoc(gap, true)
	require.NoError(t, err)
	raw, err := json.Marshal(abridged)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), `"gas":"`+co2.Identifier()+`"`))

	m2, err := material.DecodeMaterialJSON(raw, map[string]*material.Gas{co2.Identifier(): co2})
	require.NoError(t, err)
	dup2 := m2.(*material.CavityMaterial)
	assert.Equal(t, gap.AbridgedDoc(), dup2.AbridgedDoc())

	assert.True(t, gap.Equal(dup1))
	assert.True(t, gap.Equal(dup2))
	for _, c := range []*material.CavityMaterial{dup1, dup2} {
		assert.Equal(t, id, c.Identifier())
		assert.Equal(t, "ISO CO2 Gap", c.DisplayName())
		assert.Equal(t, material.CavityISO15099, c.CavityModel())
		assert.Equal(t, 0.95, c.EmissivityBack())
	}

	_, err = material.DecodeMaterialJSON(raw, nil)
	assert.ErrorIs(t, err, ident.ErrMissingReference)
	_, err = material.DecodeMaterialJSON([]byte(`{"type":"GlazingSystem"}`), nil)
	assert.Error(t, err)
}
