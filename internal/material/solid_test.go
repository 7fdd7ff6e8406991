// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package material_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/fftherm/internal/ident"
	"github.com/ManuGH/fftherm/internal/material"
)

func newConcrete(t *testing.T, id string) *material.SolidMaterial {
	t.Helper()
	m, err := material.NewSolidMaterial(0.5, 0.95, material.SolidOptions{
		Identifier:               id,
		Density:                  material.Float(800),
		Porosity:                 material.Float(0.81),
		SpecificHeat:             material.Float(1200),
		VaporDiffusionResistance: material.Float(7.9),
	})
	require.NoError(t, err)
	require.NoError(t, m.SetDisplayName("Concrete"))
	return m
}

func assertConcrete(t *testing.T, m *material.SolidMaterial) {
	t.Helper()
	assert.Equal(t, "Concrete", m.DisplayName())
	assert.Equal(t, 0.5, m.Conductivity())
	assert.Equal(t, 0.95, m.Emissivity())
	assert.Equal(t, 0.95, m.EmissivityBack())
	d, ok := m.Density()
	assert.True(t, ok)
	assert.Equal(t, 800.0, d)
	p, _ := m.Porosity()
	assert.Equal(t, 0.81, p)
	cp, _ := m.SpecificHeat()
	assert.Equal(t, 1200.0, cp)
	mu, _ := m.VaporDiffusionResistance()
	assert.Equal(t, 7.9, mu)
}

func TestSolidMaterialInit(t *testing.T) {
	id := uuid.NewString()
	concrete := newConcrete(t, id)
	dup := concrete.Duplicate()

	assert.Equal(t, id, concrete.Identifier())
	assert.Equal(t, id, dup.Identifier())
	assertConcrete(t, concrete)
	assertConcrete(t, dup)
	assert.Equal(t, 2.0, concrete.Resistivity())
	assert.Contains(t, concrete.String(), "Concrete")

	assert.Error(t, concrete.SetConductivity(0))
	assert.Equal(t, 0.5, concrete.Conductivity())
}

func TestSolidMaterialEquivalency(t *testing.T) {
	c1 := newConcrete(t, "")
	c2 := c1.Duplicate()
	insulation, err := material.NewSolidMaterial(0.049, 0.9, material.SolidOptions{
		Density: material.Float(265), SpecificHeat: material.Float(836),
	})
	require.NoError(t, err)

	assert.True(t, c1.Equal(c2))
	assert.False(t, c1.Equal(insulation))

	require.NoError(t, c2.SetDensity(material.Float(600)))
	assert.False(t, c1.Equal(c2))
}

func TestSolidMaterialLockability(t *testing.T) {
	concrete := newConcrete(t, "")
	require.NoError(t, concrete.SetDensity(material.Float(600)))
	concrete.Freeze()
	assert.ErrorIs(t, concrete.SetDensity(material.Float(700)), ident.ErrLocked)
	concrete.Thaw()
	require.NoError(t, concrete.SetDensity(material.Float(700)))

	concrete.Freeze()
	assert.False(t, concrete.Duplicate().IsLocked())
}

func TestSolidMaterialInvalid(t *testing.T) {
	concrete := newConcrete(t, "")

	assert.ErrorIs(t, concrete.SetIdentifier("test_identifier"), ident.ErrInvalidIdentifier)
	assert.Error(t, concrete.SetConductivity(-1))
	assert.Error(t, concrete.SetEmissivity(2))
	assert.Error(t, concrete.SetEmissivityBack(material.Float(2)))
	assert.Error(t, concrete.SetDensity(material.Float(-1)))
	assert.Error(t, concrete.SetSpecificHeat(material.Float(-1)))
	assert.Error(t, concrete.SetPorosity(material.Float(1.5)))
	assertConcrete(t, concrete)

	_, err := material.NewSolidMaterial(0, 0.9, material.SolidOptions{})
	assert.Error(t, err)
}

func TestSolidMaterialThermXML(t *testing.T) {
	id := uuid.NewString()
	concrete := newConcrete(t, id)
	xmlStr, err := material.MarshalThermXML(concrete)
	require.NoError(t, err)
	assert.Contains(t, xmlStr, "<ThermalConductivityDry>0.5</ThermalConductivityDry>")
	assert.Contains(t, xmlStr, "<Emissivity-Back>0.95</Emissivity-Back>")

	dup, err := material.SolidFromThermXMLString(xmlStr)
	require.NoError(t, err)
	assert.True(t, concrete.Equal(dup))
	assert.Equal(t, id, dup.Identifier())
	assertConcrete(t, dup)
	assert.Equal(t, concrete.Color(), dup.Color())
}

func TestSolidMaterialDoc(t *testing.T) {
	id := uuid.NewString()
	concrete := newConcrete(t, id)
	doc := concrete.Doc()

	dup, err := material.SolidFromDoc(doc)
	require.NoError(t, err)
	assert.Equal(t, doc, dup.Doc())
	assert.True(t, concrete.Equal(dup))
	assertConcrete(t, dup)

	doc.Conductivity = 0
	doc.Identifier = "test_identifier"
	_, err = material.SolidFromDoc(doc)
	assert.Error(t, err)
}
