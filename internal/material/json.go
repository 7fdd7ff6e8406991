// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package material

import (
	"encoding/json"
	"fmt"

	"github.com/ManuGH/fftherm/internal/ident"
	"github.com/ManuGH/fftherm/internal/validate"
)

// Type discriminators used in JSON documents.
const (
	TypeSolidMaterial          = "SolidMaterial"
	TypeCavityMaterial         = "CavityMaterial"
	TypeCavityMaterialAbridged = "CavityMaterialAbridged"
	TypePureGas                = "PureGas"
	TypeGas                    = "Gas"
	TypeGasAbridged            = "GasAbridged"
)

type SolidMaterialDoc struct {
	Type                     string   `json:"type" validate:"eq=SolidMaterial"`
	Identifier               string   `json:"identifier" validate:"required"`
	DisplayName              string   `json:"display_name,omitempty"`
	Conductivity             float64  `json:"conductivity" validate:"gt=0"`
	Emissivity               float64  `json:"emissivity" validate:"gte=0,lte=1"`
	EmissivityBack           *float64 `json:"emissivity_back,omitempty" validate:"omitempty,gte=0,lte=1"`
	Density                  *float64 `json:"density,omitempty" validate:"omitempty,gte=0"`
	Porosity                 *float64 `json:"porosity,omitempty" validate:"omitempty,gte=0,lte=1"`
	SpecificHeat             *float64 `json:"specific_heat,omitempty" validate:"omitempty,gte=0"`
	VaporDiffusionResistance *float64 `json:"vapor_diffusion_resistance,omitempty" validate:"omitempty,gte=0"`
	Protected                bool     `json:"protected"`
	Color                    string   `json:"color,omitempty"`
}

type PureGasDoc struct {
	Type               string   `json:"type" validate:"eq=PureGas"`
	Identifier         string   `json:"identifier" validate:"required"`
	DisplayName        string   `json:"display_name,omitempty"`
	ConductivityCoeffA float64  `json:"conductivity_coeff_a"`
	ViscosityCoeffA    float64  `json:"viscosity_coeff_a"`
	SpecificHeatCoeffA float64  `json:"specific_heat_coeff_a"`
	ConductivityCoeffB float64  `json:"conductivity_coeff_b"`
	ViscosityCoeffB    float64  `json:"viscosity_coeff_b"`
	SpecificHeatCoeffB float64  `json:"specific_heat_coeff_b"`
	ConductivityCoeffC float64  `json:"conductivity_coeff_c"`
	ViscosityCoeffC    float64  `json:"viscosity_coeff_c"`
	SpecificHeatCoeffC float64  `json:"specific_heat_coeff_c"`
	SpecificHeatRatio  *float64 `json:"specific_heat_ratio,omitempty" validate:"omitempty,gte=1"`
	MolecularWeight    *float64 `json:"molecular_weight,omitempty" validate:"omitempty,gte=20,lte=200"`
	Protected          bool     `json:"protected"`
	Color              string   `json:"color,omitempty"`
}

type GasDoc struct {
	Type         string       `json:"type" validate:"eq=Gas"`
	Identifier   string       `json:"identifier" validate:"required"`
	DisplayName  string       `json:"display_name,omitempty"`
	PureGases    []PureGasDoc `json:"pure_gases" validate:"min=1,max=4,dive"`
	GasFractions []float64    `json:"gas_fractions" validate:"min=1,max=4,dive,gte=0,lte=1"`
	Protected    bool         `json:"protected"`
	Color        string       `json:"color,omitempty"`
}

// GasAbridgedDoc references its pure gases by identifier.
type GasAbridgedDoc struct {
	Type         string    `json:"type" validate:"eq=GasAbridged"`
	Identifier   string    `json:"identifier" validate:"required"`
	DisplayName  string    `json:"display_name,omitempty"`
	PureGases    []string  `json:"pure_gases" validate:"min=1,max=4,dive,required"`
	GasFractions []float64 `json:"gas_fractions" validate:"min=1,max=4,dive,gte=0,lte=1"`
	Protected    bool      `json:"protected"`
	Color        string    `json:"color,omitempty"`
}

type CavityMaterialDoc struct {
	Type           string   `json:"type" validate:"eq=CavityMaterial"`
	Identifier     string   `json:"identifier" validate:"required"`
	DisplayName    string   `json:"display_name,omitempty"`
	Gas            GasDoc   `json:"gas"`
	CavityModel    string   `json:"cavity_model" validate:"required"`
	Emissivity     float64  `json:"emissivity" validate:"gte=0,lte=1"`
	EmissivityBack *float64 `json:"emissivity_back,omitempty" validate:"omitempty,gte=0,lte=1"`
	Protected      bool     `json:"protected"`
	Color          string   `json:"color,omitempty"`
}

// CavityMaterialAbridgedDoc references its gas by identifier.
type CavityMaterialAbridgedDoc struct {
	Type           string   `json:"type" validate:"eq=CavityMaterialAbridged"`
	Identifier     string   `json:"identifier" validate:"required"`
	DisplayName    string   `json:"display_name,omitempty"`
	Gas            string   `json:"gas" validate:"required"`
	CavityModel    string   `json:"cavity_model" validate:"required"`
	Emissivity     float64  `json:"emissivity" validate:"gte=0,lte=1"`
	EmissivityBack *float64 `json:"emissivity_back,omitempty" validate:"omitempty,gte=0,lte=1"`
	Protected      bool     `json:"protected"`
	Color          string   `json:"color,omitempty"`
}

// Doc returns the JSON document of the material.
func (m *SolidMaterial) Doc() SolidMaterialDoc {
	return SolidMaterialDoc{
		Type:                     TypeSolidMaterial,
		Identifier:               m.Identifier(),
		DisplayName:              m.DisplayName(),
		Conductivity:             m.conductivity,
		Emissivity:               m.emissivity,
		EmissivityBack:           optCopy(m.emissivityBack),
		Density:                  optCopy(m.density),
		Porosity:                 optCopy(m.porosity),
		SpecificHeat:             optCopy(m.specificHeat),
		VaporDiffusionResistance: optCopy(m.vaporDiffusionResistance),
		Protected:                m.Protected(),
		Color:                    m.Color().String(),
	}
}

// MarshalJSON implements json.Marshaler.
func (m *SolidMaterial) MarshalJSON() ([]byte, error) { return json.Marshal(m.Doc()) }

// SolidFromDoc validates a document and builds the material.
func SolidFromDoc(d SolidMaterialDoc) (*SolidMaterial, error) {
	if err := validate.Struct(d); err != nil {
		return nil, err
	}
	m, err := NewSolidMaterial(d.Conductivity, d.Emissivity, SolidOptions{
		Identifier:               d.Identifier,
		EmissivityBack:           d.EmissivityBack,
		Density:                  d.Density,
		Porosity:                 d.Porosity,
		SpecificHeat:             d.SpecificHeat,
		VaporDiffusionResistance: d.VaporDiffusionResistance,
	})
	if err != nil {
		return nil, err
	}
	if err := m.Apply(d.DisplayName, d.Protected, d.Color); err != nil {
		return nil, err
	}
	return m, nil
}

// Doc returns the JSON document of the pure gas.
func (g *PureGas) Doc() PureGasDoc {
	ratio, weight := g.specificHeatRatio, g.molecularWeight
	return PureGasDoc{
		Type:               TypePureGas,
		Identifier:         g.Identifier(),
		DisplayName:        g.DisplayName(),
		ConductivityCoeffA: g.conductivity.A,
		ViscosityCoeffA:    g.viscosity.A,
		SpecificHeatCoeffA: g.specificHeat.A,
		ConductivityCoeffB: g.conductivity.B,
		ViscosityCoeffB:    g.viscosity.B,
		SpecificHeatCoeffB: g.specificHeat.B,
		ConductivityCoeffC: g.conductivity.C,
		ViscosityCoeffC:    g.viscosity.C,
		SpecificHeatCoeffC: g.specificHeat.C,
		SpecificHeatRatio:  &ratio,
		MolecularWeight:    &weight,
		Protected:          g.Protected(),
		Color:              g.Color().String(),
	}
}

// MarshalJSON implements json.Marshaler.
func (g *PureGas) MarshalJSON() ([]byte, error) { return json.Marshal(g.Doc()) }

// PureGasFromDoc validates a document and builds the pure gas.
func PureGasFromDoc(d PureGasDoc) (*PureGas, error) {
	if err := validate.Struct(d); err != nil {
		return nil, err
	}
	h, err := ident.NewHeader(d.Identifier)
	if err != nil {
		return nil, err
	}
	if err := h.Apply(d.DisplayName, d.Protected, d.Color); err != nil {
		return nil, err
	}
	g := &PureGas{
		Header:            h,
		conductivity:      Coefficients{A: d.ConductivityCoeffA, B: d.ConductivityCoeffB, C: d.ConductivityCoeffC},
		viscosity:         Coefficients{A: d.ViscosityCoeffA, B: d.ViscosityCoeffB, C: d.ViscosityCoeffC},
		specificHeat:      Coefficients{A: d.SpecificHeatCoeffA, B: d.SpecificHeatCoeffB, C: d.SpecificHeatCoeffC},
		specificHeatRatio: DefaultSpecificHeatRatio,
		molecularWeight:   DefaultMolecularWeight,
	}
	if d.SpecificHeatRatio != nil {
		g.specificHeatRatio = *d.SpecificHeatRatio
	}
	if d.MolecularWeight != nil {
		g.molecularWeight = *d.MolecularWeight
	}
	if err := g.check(); err != nil {
		return nil, err
	}
	return g, nil
}

// Doc returns the JSON document of the gas with its pure gases inline.
func (g *Gas) Doc() GasDoc {
	pure := make([]PureGasDoc, len(g.pureGases))
	for i, pg := range g.pureGases {
		pure[i] = pg.Doc()
	}
	return GasDoc{
		Type:         TypeGas,
		Identifier:   g.Identifier(),
		DisplayName:  g.DisplayName(),
		PureGases:    pure,
		GasFractions: g.Fractions(),
		Protected:    g.Protected(),
		Color:        g.Color().String(),
	}
}

// AbridgedDoc returns the JSON document with pure gas identifiers.
func (g *Gas) AbridgedDoc() GasAbridgedDoc {
	ids := make([]string, len(g.pureGases))
	for i, pg := range g.pureGases {
		ids[i] = pg.Identifier()
	}
	return GasAbridgedDoc{
		Type:         TypeGasAbridged,
		Identifier:   g.Identifier(),
		DisplayName:  g.DisplayName(),
		PureGases:    ids,
		GasFractions: g.Fractions(),
		Protected:    g.Protected(),
		Color:        g.Color().String(),
	}
}

// MarshalJSON implements json.Marshaler.
func (g *Gas) MarshalJSON() ([]byte, error) { return json.Marshal(g.Doc()) }

// GasFromDoc validates a document and builds the gas and its pure gases.
func GasFromDoc(d GasDoc) (*Gas, error) {
	if err := validate.Struct(d); err != nil {
		return nil, err
	}
	pure := make([]*PureGas, len(d.PureGases))
	for i, pd := range d.PureGases {
		pg, err := PureGasFromDoc(pd)
		if err != nil {
			return nil, fmt.Errorf("pure gas %d: %w", i, err)
		}
		pure[i] = pg
	}
	return gasWithHeader(d.Identifier, d.DisplayName, d.Protected, d.Color, pure, d.GasFractions)
}

// GasFromAbridgedDoc builds a gas whose pure gases are looked up by identifier.
func GasFromAbridgedDoc(d GasAbridgedDoc, pureByID map[string]*PureGas) (*Gas, error) {
	if err := validate.Struct(d); err != nil {
		return nil, err
	}
	pure := make([]*PureGas, len(d.PureGases))
	for i, id := range d.PureGases {
		pg, ok := pureByID[id]
		if !ok {
			return nil, fmt.Errorf("gas %q pure gas %q: %w", d.Identifier, id, ident.ErrMissingReference)
		}
		pure[i] = pg
	}
	return gasWithHeader(d.Identifier, d.DisplayName, d.Protected, d.Color, pure, d.GasFractions)
}

func gasWithHeader(id, name string, protected bool, color string, pure []*PureGas, fractions []float64) (*Gas, error) {
	g, err := NewGas(id, pure, fractions)
	if err != nil {
		return nil, err
	}
	if err := g.Apply(name, protected, color); err != nil {
		return nil, err
	}
	return g, nil
}

// Doc returns the JSON document of the cavity with its gas inline.
func (c *CavityMaterial) Doc() CavityMaterialDoc {
	return CavityMaterialDoc{
		Type:           TypeCavityMaterial,
		Identifier:     c.Identifier(),
		DisplayName:    c.DisplayName(),
		Gas:            c.gas.Doc(),
		CavityModel:    string(c.cavityModel),
		Emissivity:     c.emissivity,
		EmissivityBack: optCopy(c.emissivityBack),
		Protected:      c.Protected(),
		Color:          c.Color().String(),
	}
}

// AbridgedDoc returns the JSON document with the gas identifier.
func (c *CavityMaterial) AbridgedDoc() CavityMaterialAbridgedDoc {
	return CavityMaterialAbridgedDoc{
		Type:           TypeCavityMaterialAbridged,
		Identifier:     c.Identifier(),
		DisplayName:    c.DisplayName(),
		Gas:            c.gas.Identifier(),
		CavityModel:    string(c.cavityModel),
		Emissivity:     c.emissivity,
		EmissivityBack: optCopy(c.emissivityBack),
		Protected:      c.Protected(),
		Color:          c.Color().String(),
	}
}

// MarshalJSON implements json.Marshaler.
func (c *CavityMaterial) MarshalJSON() ([]byte, error) { return json.Marshal(c.Doc()) }

// CavityFromDoc validates a document and builds the cavity and its gas.
func CavityFromDoc(d CavityMaterialDoc) (*CavityMaterial, error) {
	if err := validate.Struct(d); err != nil {
		return nil, err
	}
	gas, err := GasFromDoc(d.Gas)
	if err != nil {
		return nil, fmt.Errorf("cavity gas: %w", err)
	}
	return cavityWithHeader(d.Identifier, d.DisplayName, d.Protected, d.Color, gas, d.CavityModel, d.Emissivity, d.EmissivityBack)
}

// CavityFromAbridgedDoc builds a cavity whose gas is looked up by identifier.
func CavityFromAbridgedDoc(d CavityMaterialAbridgedDoc, gasByID map[string]*Gas) (*CavityMaterial, error) {
	if err := validate.Struct(d); err != nil {
		return nil, err
	}
	gas, ok := gasByID[d.Gas]
	if !ok {
		return nil, fmt.Errorf("cavity %q gas %q: %w", d.Identifier, d.Gas, ident.ErrMissingReference)
	}
	return cavityWithHeader(d.Identifier, d.DisplayName, d.Protected, d.Color, gas, d.CavityModel, d.Emissivity, d.EmissivityBack)
}

func cavityWithHeader(id, name string, protected bool, color string, gas *Gas, model string, e float64, eBack *float64) (*CavityMaterial, error) {
	c, err := NewCavityMaterial(id, gas, model, e, eBack)
	if err != nil {
		return nil, err
	}
	if err := c.Apply(name, protected, color); err != nil {
		return nil, err
	}
	return c, nil
}

// MaterialDoc returns the full or abridged JSON document of m.
func MaterialDoc(m Material, abridged bool) (interface{}, error) {
	switch t := m.(type) {
	case *SolidMaterial:
		return t.Doc(), nil
	case *CavityMaterial:
		if abridged {
			return t.AbridgedDoc(), nil
		}
		return t.Doc(), nil
	default:
		return nil, fmt.Errorf("unsupported material %T", m)
	}
}

// DecodeMaterialJSON reads any material document. gasByID resolves the gas
// of abridged cavities and may be nil otherwise.
func DecodeMaterialJSON(data []byte, gasByID map[string]*Gas) (Material, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode material: %w", err)
	}
	switch head.Type {
	case TypeSolidMaterial:
		var d SolidMaterialDoc
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("decode solid material: %w", err)
		}
		return SolidFromDoc(d)
	case TypeCavityMaterial:
		var d CavityMaterialDoc
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("decode cavity material: %w", err)
		}
		return CavityFromDoc(d)
	case TypeCavityMaterialAbridged:
		var d CavityMaterialAbridgedDoc
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("decode cavity material: %w", err)
		}
		return CavityFromAbridgedDoc(d, gasByID)
	default:
		return nil, fmt.Errorf("unknown material type %q", head.Type)
	}
}
