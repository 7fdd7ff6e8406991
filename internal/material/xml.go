// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package material

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/ManuGH/fftherm/internal/ident"
	"github.com/ManuGH/fftherm/internal/xmlutil"
)

// MaterialsDoc is the root of a THERM Materials.xml file.
type MaterialsDoc struct {
	XMLName   xml.Name      `xml:"Materials"`
	Version   string        `xml:"version,attr,omitempty"`
	Materials []MaterialXML `xml:"Material"`
}

// MaterialXML is a single Material element.
type MaterialXML struct {
	XMLName   xml.Name   `xml:"Material"`
	UUID      string     `xml:"UUID"`
	Name      string     `xml:"Name"`
	Protected bool       `xml:"Protected"`
	Color     string     `xml:"Color,omitempty"`
	Solid     *SolidXML  `xml:"Solid,omitempty"`
	Cavity    *CavityXML `xml:"Cavity,omitempty"`
}

type SolidXML struct {
	HygroThermal HygroThermalXML `xml:"HygroThermal"`
	Optical      OpticalXML      `xml:"Optical"`
}

type HygroThermalXML struct {
	BulkDensity                         *float64 `xml:"BulkDensity,omitempty"`
	Porosity                            *float64 `xml:"Porosity,omitempty"`
	SpecificHeatCapacityDry             *float64 `xml:"SpecificHeatCapacityDry,omitempty"`
	ThermalConductivityDry              float64  `xml:"ThermalConductivityDry"`
	WaterVaporDiffusionResistanceFactor *float64 `xml:"WaterVaporDiffusionResistanceFactor,omitempty"`
}

type OpticalXML struct {
	Infrared InfraredXML `xml:"Integrated>Infrared"`
}

type InfraredXML struct {
	Transmittance   float64 `xml:"Transmittance"`
	EmissivityFront float64 `xml:"Emissivity-Front"`
	EmissivityBack  float64 `xml:"Emissivity-Back"`
}

type CavityXML struct {
	CavityStandard  string  `xml:"CavityStandard"`
	Gas             string  `xml:"Gas"`
	EmissivitySide1 float64 `xml:"EmissivitySide1"`
	EmissivitySide2 float64 `xml:"EmissivitySide2"`
}

// GasesDoc is the root of a THERM Gases.xml file.
type GasesDoc struct {
	XMLName   xml.Name     `xml:"Gases"`
	Version   string       `xml:"version,attr,omitempty"`
	PureGases []PureGasXML `xml:"PureGas"`
	Gases     []GasXML     `xml:"Gas"`
}

type PureGasXML struct {
	XMLName    xml.Name             `xml:"PureGas"`
	UUID       string               `xml:"UUID"`
	Name       string               `xml:"Name"`
	Protected  bool                 `xml:"Protected"`
	Color      string               `xml:"Color,omitempty"`
	Properties PureGasPropertiesXML `xml:"Properties"`
}

type PureGasPropertiesXML struct {
	MolecularWeight   float64         `xml:"MolecularWeight"`
	SpecificHeatRatio float64         `xml:"SpecificHeatRatio"`
	Conductivity      CoefficientsXML `xml:"Conductivity"`
	Viscosity         CoefficientsXML `xml:"Viscosity"`
	SpecificHeat      CoefficientsXML `xml:"SpecificHeat"`
}

type CoefficientsXML struct {
	A float64 `xml:"A"`
	B float64 `xml:"B"`
	C float64 `xml:"C"`
}

type GasXML struct {
	XMLName    xml.Name          `xml:"Gas"`
	UUID       string            `xml:"UUID"`
	Name       string            `xml:"Name"`
	Protected  bool              `xml:"Protected"`
	Color      string            `xml:"Color,omitempty"`
	Components []GasComponentXML `xml:"Components>Component"`
}

type GasComponentXML struct {
	Fraction float64 `xml:"Fraction"`
	PureGas  string  `xml:"PureGas"`
}

// ThermXML returns the Material element of the solid.
func (m *SolidMaterial) ThermXML() MaterialXML {
	return MaterialXML{
		UUID:      m.ThermUUID(),
		Name:      m.DisplayName(),
		Protected: m.Protected(),
		Color:     m.Color().Therm(),
		Solid: &SolidXML{
			HygroThermal: HygroThermalXML{
				BulkDensity:                         optCopy(m.density),
				Porosity:                            optCopy(m.porosity),
				SpecificHeatCapacityDry:             optCopy(m.specificHeat),
				ThermalConductivityDry:              m.conductivity,
				WaterVaporDiffusionResistanceFactor: optCopy(m.vaporDiffusionResistance),
			},
			Optical: OpticalXML{Infrared: InfraredXML{
				EmissivityFront: m.emissivity,
				EmissivityBack:  m.EmissivityBack(),
			}},
		},
	}
}

// ThermXML returns the Material element of the cavity. The gas is
// referenced by name.
func (c *CavityMaterial) ThermXML() MaterialXML {
	return MaterialXML{
		UUID:      c.ThermUUID(),
		Name:      c.DisplayName(),
		Protected: c.Protected(),
		Color:     c.Color().Therm(),
		Cavity: &CavityXML{
			CavityStandard:  string(c.cavityModel),
			Gas:             c.gas.DisplayName(),
			EmissivitySide1: c.emissivity,
			EmissivitySide2: c.EmissivityBack(),
		},
	}
}

// SolidFromThermXML builds a SolidMaterial from a Material element.
func SolidFromThermXML(x MaterialXML) (*SolidMaterial, error) {
	if x.Solid == nil {
		return nil, fmt.Errorf("material %q is not a solid", x.Name)
	}
	h, err := ident.HeaderFromTherm(x.UUID, x.Name, x.Protected, x.Color)
	if err != nil {
		return nil, err
	}
	ht := x.Solid.HygroThermal
	ir := x.Solid.Optical.Infrared
	m, err := NewSolidMaterial(ht.ThermalConductivityDry, ir.EmissivityFront, SolidOptions{
		Identifier:               h.Identifier(),
		EmissivityBack:           Float(ir.EmissivityBack),
		Density:                  ht.BulkDensity,
		Porosity:                 ht.Porosity,
		SpecificHeat:             ht.SpecificHeatCapacityDry,
		VaporDiffusionResistance: ht.WaterVaporDiffusionResistanceFactor,
	})
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", x.Name, err)
	}
	m.Header = h
	return m, nil
}

// CavityFromThermXML builds a CavityMaterial, resolving its gas by name.
func CavityFromThermXML(x MaterialXML, gasByName map[string]*Gas) (*CavityMaterial, error) {
	if x.Cavity == nil {
		return nil, fmt.Errorf("material %q is not a cavity", x.Name)
	}
	gas, ok := gasByName[strings.TrimSpace(x.Cavity.Gas)]
	if !ok {
		return nil, fmt.Errorf("cavity %q gas %q: %w", x.Name, x.Cavity.Gas, ident.ErrMissingReference)
	}
	h, err := ident.HeaderFromTherm(x.UUID, x.Name, x.Protected, x.Color)
	if err != nil {
		return nil, err
	}
	c, err := NewCavityMaterial(h.Identifier(), gas, x.Cavity.CavityStandard,
		x.Cavity.EmissivitySide1, Float(x.Cavity.EmissivitySide2))
	if err != nil {
		return nil, fmt.Errorf("cavity %q: %w", x.Name, err)
	}
	c.Header = h
	return c, nil
}

// ThermXML returns the PureGas element.
func (g *PureGas) ThermXML() PureGasXML {
	return PureGasXML{
		UUID:      g.ThermUUID(),
		Name:      g.DisplayName(),
		Protected: g.Protected(),
		Color:     g.Color().Therm(),
		Properties: PureGasPropertiesXML{
			MolecularWeight:   g.molecularWeight,
			SpecificHeatRatio: g.specificHeatRatio,
			Conductivity:      CoefficientsXML(g.conductivity),
			Viscosity:         CoefficientsXML(g.viscosity),
			SpecificHeat:      CoefficientsXML(g.specificHeat),
		},
	}
}

// PureGasFromThermXML builds a PureGas from a PureGas element.
func PureGasFromThermXML(x PureGasXML) (*PureGas, error) {
	h, err := ident.HeaderFromTherm(x.UUID, x.Name, x.Protected, x.Color)
	if err != nil {
		return nil, err
	}
	p := x.Properties
	g := &PureGas{
		Header:            h,
		conductivity:      Coefficients(p.Conductivity),
		viscosity:         Coefficients(p.Viscosity),
		specificHeat:      Coefficients(p.SpecificHeat),
		specificHeatRatio: p.SpecificHeatRatio,
		molecularWeight:   p.MolecularWeight,
	}
	if err := g.check(); err != nil {
		return nil, fmt.Errorf("pure gas %q: %w", x.Name, err)
	}
	return g, nil
}

// ThermXML returns the Gas element. Components reference pure gases by name.
func (g *Gas) ThermXML() GasXML {
	comps := make([]GasComponentXML, len(g.pureGases))
	for i, pg := range g.pureGases {
		comps[i] = GasComponentXML{Fraction: g.fractions[i], PureGas: pg.DisplayName()}
	}
	return GasXML{
		UUID:       g.ThermUUID(),
		Name:       g.DisplayName(),
		Protected:  g.Protected(),
		Color:      g.Color().Therm(),
		Components: comps,
	}
}

// GasFromThermXML builds a Gas, resolving each component by name.
func GasFromThermXML(x GasXML, pureByName map[string]*PureGas) (*Gas, error) {
	pure := make([]*PureGas, 0, len(x.Components))
	fractions := make([]float64, 0, len(x.Components))
	for _, comp := range x.Components {
		pg, ok := pureByName[strings.TrimSpace(comp.PureGas)]
		if !ok {
			return nil, fmt.Errorf("gas %q component %q: %w", x.Name, comp.PureGas, ident.ErrMissingReference)
		}
		pure = append(pure, pg)
		fractions = append(fractions, comp.Fraction)
	}
	h, err := ident.HeaderFromTherm(x.UUID, x.Name, x.Protected, x.Color)
	if err != nil {
		return nil, err
	}
	g, err := NewGas(h.Identifier(), pure, fractions)
	if err != nil {
		return nil, fmt.Errorf("gas %q: %w", x.Name, err)
	}
	g.Header = h
	return g, nil
}

// MarshalThermXML renders a single material, pure gas or gas element.
func MarshalThermXML(v interface{ String() string }) (string, error) {
	var doc interface{}
	switch t := v.(type) {
	case *SolidMaterial:
		doc = t.ThermXML()
	case *CavityMaterial:
		doc = t.ThermXML()
	case *PureGas:
		doc = t.ThermXML()
	case *Gas:
		doc = t.ThermXML()
	default:
		return "", fmt.Errorf("no THERM XML form for %T", v)
	}
	out, err := xmlutil.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// SolidFromThermXMLString parses a single Material element.
func SolidFromThermXMLString(s string) (*SolidMaterial, error) {
	var x MaterialXML
	if err := xmlutil.DecodeString(s, &x); err != nil {
		return nil, fmt.Errorf("decode material: %w", err)
	}
	return SolidFromThermXML(x)
}

// CavityFromThermXMLString parses a single Material element of a cavity.
func CavityFromThermXMLString(s string, gasByName map[string]*Gas) (*CavityMaterial, error) {
	var x MaterialXML
	if err := xmlutil.DecodeString(s, &x); err != nil {
		return nil, fmt.Errorf("decode material: %w", err)
	}
	return CavityFromThermXML(x, gasByName)
}

// PureGasFromThermXMLString parses a single PureGas element.
func PureGasFromThermXMLString(s string) (*PureGas, error) {
	var x PureGasXML
	if err := xmlutil.DecodeString(s, &x); err != nil {
		return nil, fmt.Errorf("decode pure gas: %w", err)
	}
	return PureGasFromThermXML(x)
}

// GasFromThermXMLString parses a single Gas element.
func GasFromThermXMLString(s string, pureByName map[string]*PureGas) (*Gas, error) {
	var x GasXML
	if err := xmlutil.DecodeString(s, &x); err != nil {
		return nil, fmt.Errorf("decode gas: %w", err)
	}
	return GasFromThermXML(x, pureByName)
}

// MaterialsDocument collects materials into a Materials.xml document.
func MaterialsDocument(materials []Material) *MaterialsDoc {
	doc := &MaterialsDoc{Version: "1", Materials: make([]MaterialXML, 0, len(materials))}
	for _, m := range materials {
		switch t := m.(type) {
		case *SolidMaterial:
			doc.Materials = append(doc.Materials, t.ThermXML())
		case *CavityMaterial:
			doc.Materials = append(doc.Materials, t.ThermXML())
		}
	}
	return doc
}

// GasesDocument collects gases into a Gases.xml document.
func GasesDocument(gases []*Gas, pureGases []*PureGas) *GasesDoc {
	doc := &GasesDoc{Version: "1"}
	for _, pg := range pureGases {
		doc.PureGases = append(doc.PureGases, pg.ThermXML())
	}
	for _, g := range gases {
		doc.Gases = append(doc.Gases, g.ThermXML())
	}
	return doc
}

// ExtractGases reads every pure gas and gas mixture of a Gases.xml file.
func ExtractGases(r io.Reader) ([]*Gas, []*PureGas, error) {
	var doc GasesDoc
	if err := xmlutil.Decode(r, &doc); err != nil {
		return nil, nil, fmt.Errorf("decode gases: %w", err)
	}
	pure := make([]*PureGas, 0, len(doc.PureGases))
	byName := make(map[string]*PureGas, len(doc.PureGases))
	for _, x := range doc.PureGases {
		pg, err := PureGasFromThermXML(x)
		if err != nil {
			return nil, nil, err
		}
		pure = append(pure, pg)
		byName[pg.DisplayName()] = pg
	}
	gases := make([]*Gas, 0, len(doc.Gases))
	for _, x := range doc.Gases {
		g, err := GasFromThermXML(x, byName)
		if err != nil {
			return nil, nil, err
		}
		gases = append(gases, g)
	}
	return gases, pure, nil
}

// ExtractMaterials reads every material of a Materials.xml file. Cavity
// gases are resolved by name through gasByName.
func ExtractMaterials(r io.Reader, gasByName map[string]*Gas) ([]Material, error) {
	var doc MaterialsDoc
	if err := xmlutil.Decode(r, &doc); err != nil {
		return nil, fmt.Errorf("decode materials: %w", err)
	}
	out := make([]Material, 0, len(doc.Materials))
	for _, x := range doc.Materials {
		switch {
		case x.Solid != nil:
			m, err := SolidFromThermXML(x)
			if err != nil {
				return nil, err
			}
			out = append(out, m)
		case x.Cavity != nil:
			c, err := CavityFromThermXML(x, gasByName)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
	}
	return out, nil
}

// GasesByName indexes gases by display name.
func GasesByName(gases []*Gas) map[string]*Gas {
	out := make(map[string]*Gas, len(gases))
	for _, g := range gases {
		out[g.DisplayName()] = g
	}
	return out
}

// PureGasesByName indexes pure gases by display name.
func PureGasesByName(pure []*PureGas) map[string]*PureGas {
	out := make(map[string]*PureGas, len(pure))
	for _, pg := range pure {
		out[pg.DisplayName()] = pg
	}
	return out
}
