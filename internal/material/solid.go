// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package material

import (
	"fmt"

	"github.com/ManuGH/fftherm/internal/ident"
	"github.com/ManuGH/fftherm/internal/validate"
)

// SolidMaterial is an opaque conductive material.
type SolidMaterial struct {
	ident.Header
	conductivity             float64
	emissivity               float64
	emissivityBack           *float64
	density                  *float64
	porosity                 *float64
	specificHeat             *float64
	vaporDiffusionResistance *float64
}

// SolidOptions holds the optional properties of a SolidMaterial.
// Nil pointers leave the property unset.
type SolidOptions struct {
	Identifier               string
	EmissivityBack           *float64
	Density                  *float64
	Porosity                 *float64
	SpecificHeat             *float64
	VaporDiffusionResistance *float64
}

// NewSolidMaterial returns a validated SolidMaterial. Conductivity is in
// W/m-K and emissivities are fractions.
func NewSolidMaterial(conductivity, emissivity float64, opts SolidOptions) (*SolidMaterial, error) {
	h, err := ident.NewHeader(opts.Identifier)
	if err != nil {
		return nil, err
	}
	m := &SolidMaterial{
		Header:                   h,
		conductivity:             conductivity,
		emissivity:               emissivity,
		emissivityBack:           optCopy(opts.EmissivityBack),
		density:                  optCopy(opts.Density),
		porosity:                 optCopy(opts.Porosity),
		specificHeat:             optCopy(opts.SpecificHeat),
		vaporDiffusionResistance: optCopy(opts.VaporDiffusionResistance),
	}
	if err := m.check(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *SolidMaterial) check() error {
	v := validate.New()
	v.FloatPositive("conductivity", m.conductivity)
	v.FloatRange("emissivity", m.emissivity, 0, 1)
	if m.emissivityBack != nil {
		v.FloatRange("emissivity_back", *m.emissivityBack, 0, 1)
	}
	if m.density != nil {
		v.FloatNonNegative("density", *m.density)
	}
	if m.porosity != nil {
		v.FloatRange("porosity", *m.porosity, 0, 1)
	}
	if m.specificHeat != nil {
		v.FloatNonNegative("specific_heat", *m.specificHeat)
	}
	if m.vaporDiffusionResistance != nil {
		v.FloatNonNegative("vapor_diffusion_resistance", *m.vaporDiffusionResistance)
	}
	return v.Err()
}

// set applies fn to a scratch copy and keeps it only when the result is valid.
func (m *SolidMaterial) set(fn func(*SolidMaterial)) error {
	if err := m.CheckUnlocked(); err != nil {
		return err
	}
	next := *m
	fn(&next)
	if err := next.check(); err != nil {
		return err
	}
	*m = next
	return nil
}

func (m *SolidMaterial) Conductivity() float64 { return m.conductivity }

// Resistivity is the inverse of the conductivity, in m-K/W.
func (m *SolidMaterial) Resistivity() float64 { return 1 / m.conductivity }

func (m *SolidMaterial) Emissivity() float64 { return m.emissivity }

// EmissivityBack falls back to the front emissivity when unset.
func (m *SolidMaterial) EmissivityBack() float64 {
	if m.emissivityBack == nil {
		return m.emissivity
	}
	return *m.emissivityBack
}

func (m *SolidMaterial) Density() (float64, bool)      { return optGet(m.density) }
func (m *SolidMaterial) Porosity() (float64, bool)     { return optGet(m.porosity) }
func (m *SolidMaterial) SpecificHeat() (float64, bool) { return optGet(m.specificHeat) }
func (m *SolidMaterial) VaporDiffusionResistance() (float64, bool) {
	return optGet(m.vaporDiffusionResistance)
}

func (m *SolidMaterial) SetConductivity(v float64) error {
	return m.set(func(n *SolidMaterial) { n.conductivity = v })
}

func (m *SolidMaterial) SetEmissivity(v float64) error {
	return m.set(func(n *SolidMaterial) { n.emissivity = v })
}

// SetEmissivityBack sets the back emissivity; nil restores the default.
func (m *SolidMaterial) SetEmissivityBack(v *float64) error {
	return m.set(func(n *SolidMaterial) { n.emissivityBack = optCopy(v) })
}

func (m *SolidMaterial) SetDensity(v *float64) error {
	return m.set(func(n *SolidMaterial) { n.density = optCopy(v) })
}

func (m *SolidMaterial) SetPorosity(v *float64) error {
	return m.set(func(n *SolidMaterial) { n.porosity = optCopy(v) })
}

func (m *SolidMaterial) SetSpecificHeat(v *float64) error {
	return m.set(func(n *SolidMaterial) { n.specificHeat = optCopy(v) })
}

func (m *SolidMaterial) SetVaporDiffusionResistance(v *float64) error {
	return m.set(func(n *SolidMaterial) { n.vaporDiffusionResistance = optCopy(v) })
}

// Duplicate returns an unlocked copy.
func (m *SolidMaterial) Duplicate() *SolidMaterial {
	return &SolidMaterial{
		Header:                   m.Header.Copy(),
		conductivity:             m.conductivity,
		emissivity:               m.emissivity,
		emissivityBack:           optCopy(m.emissivityBack),
		density:                  optCopy(m.density),
		porosity:                 optCopy(m.porosity),
		specificHeat:             optCopy(m.specificHeat),
		vaporDiffusionResistance: optCopy(m.vaporDiffusionResistance),
	}
}

func (m *SolidMaterial) DuplicateMaterial() Material { return m.Duplicate() }

func (m *SolidMaterial) Equal(other Material) bool {
	o, ok := other.(*SolidMaterial)
	if !ok || o == nil {
		return false
	}
	return m.SameIdentity(&o.Header) &&
		m.Protected() == o.Protected() &&
		m.conductivity == o.conductivity &&
		m.emissivity == o.emissivity &&
		m.EmissivityBack() == o.EmissivityBack() &&
		optEqual(m.density, o.density) &&
		optEqual(m.porosity, o.porosity) &&
		optEqual(m.specificHeat, o.specificHeat) &&
		optEqual(m.vaporDiffusionResistance, o.vaporDiffusionResistance)
}

func (m *SolidMaterial) String() string {
	return fmt.Sprintf("SolidMaterial: %s (k=%g W/m-K)", m.DisplayName(), m.conductivity)
}
