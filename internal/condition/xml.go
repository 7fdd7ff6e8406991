// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package condition

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/ManuGH/fftherm/internal/ident"
	"github.com/ManuGH/fftherm/internal/xmlutil"
)

// BoundaryConditionsDoc is the root of a THERM steady-state boundary
// condition library (BoundaryConditionsSteadyState.xml, SteadyStateBC.xml).
type BoundaryConditionsDoc struct {
	XMLName    xml.Name               `xml:"BoundaryConditions"`
	Version    string                 `xml:"version,attr,omitempty"`
	Conditions []BoundaryConditionXML `xml:"BoundaryCondition"`
}

type BoundaryConditionXML struct {
	XMLName       xml.Name          `xml:"BoundaryCondition"`
	UUID          string            `xml:"UUID"`
	Name          string            `xml:"Name"`
	Protected     bool              `xml:"Protected"`
	Color         string            `xml:"Color,omitempty"`
	Comprehensive *ComprehensiveXML `xml:"Comprehensive,omitempty"`
}

type ComprehensiveXML struct {
	RelativeHumidity float64         `xml:"RelativeHumidity"`
	Convection       ConvectionXML   `xml:"Convection"`
	ConstantFlux     ConstantFluxXML `xml:"ConstantFlux"`
	Radiation        EnclosureXML    `xml:"Radiation>AutomaticEnclosure"`
}

type ConvectionXML struct {
	Temperature     float64 `xml:"Temperature"`
	FilmCoefficient float64 `xml:"FilmCoefficient"`
}

type ConstantFluxXML struct {
	Flux float64 `xml:"Flux"`
}

type EnclosureXML struct {
	Temperature float64 `xml:"Temperature"`
	Emissivity  float64 `xml:"Emissivity"`
}

// ThermXML returns the BoundaryCondition element.
func (c *SteadyState) ThermXML() BoundaryConditionXML {
	return BoundaryConditionXML{
		UUID:      c.ThermUUID(),
		Name:      c.DisplayName(),
		Protected: c.Protected(),
		Color:     c.Color().Therm(),
		Comprehensive: &ComprehensiveXML{
			RelativeHumidity: c.relativeHumidity,
			Convection: ConvectionXML{
				Temperature:     c.temperature,
				FilmCoefficient: c.filmCoefficient,
			},
			ConstantFlux: ConstantFluxXML{Flux: c.heatFlux},
			Radiation: EnclosureXML{
				Temperature: c.RadiantTemperature(),
				Emissivity:  c.emissivity,
			},
		},
	}
}

// FromThermXML builds a condition from a BoundaryCondition element.
func FromThermXML(x BoundaryConditionXML) (*SteadyState, error) {
	if x.Comprehensive == nil {
		return nil, fmt.Errorf("boundary condition %q: not a comprehensive condition", x.Name)
	}
	h, err := ident.HeaderFromTherm(x.UUID, x.Name, x.Protected, x.Color)
	if err != nil {
		return nil, err
	}
	cx := x.Comprehensive
	c := &SteadyState{
		Header:           h,
		temperature:      cx.Convection.Temperature,
		filmCoefficient:  cx.Convection.FilmCoefficient,
		emissivity:       cx.Radiation.Emissivity,
		heatFlux:         cx.ConstantFlux.Flux,
		relativeHumidity: cx.RelativeHumidity,
	}
	if cx.Radiation.Temperature != cx.Convection.Temperature {
		t := cx.Radiation.Temperature
		c.radiantTemperature = &t
	}
	if err := c.check(); err != nil {
		return nil, fmt.Errorf("boundary condition %q: %w", x.Name, err)
	}
	return c, nil
}

// MarshalThermXML renders the single BoundaryCondition element.
func (c *SteadyState) MarshalThermXML() (string, error) {
	out, err := xmlutil.Marshal(c.ThermXML())
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// FromThermXMLString parses a single BoundaryCondition element.
func FromThermXMLString(s string) (*SteadyState, error) {
	var x BoundaryConditionXML
	if err := xmlutil.DecodeString(s, &x); err != nil {
		return nil, fmt.Errorf("decode boundary condition: %w", err)
	}
	return FromThermXML(x)
}

// Document collects conditions into a boundary condition library document.
func Document(conditions []*SteadyState) *BoundaryConditionsDoc {
	doc := &BoundaryConditionsDoc{Version: "1", Conditions: make([]BoundaryConditionXML, 0, len(conditions))}
	for _, c := range conditions {
		doc.Conditions = append(doc.Conditions, c.ThermXML())
	}
	return doc
}

// ExtractAllFromXML reads every comprehensive condition of a library file.
// Conditions of other kinds are skipped.
func ExtractAllFromXML(r io.Reader) ([]*SteadyState, error) {
	var doc BoundaryConditionsDoc
	if err := xmlutil.Decode(r, &doc); err != nil {
		return nil, fmt.Errorf("decode boundary conditions: %w", err)
	}
	out := make([]*SteadyState, 0, len(doc.Conditions))
	for _, x := range doc.Conditions {
		if x.Comprehensive == nil {
			continue
		}
		c, err := FromThermXML(x)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ByName indexes conditions by display name.
func ByName(conditions []*SteadyState) map[string]*SteadyState {
	out := make(map[string]*SteadyState, len(conditions))
	for _, c := range conditions {
		out[c.DisplayName()] = c
	}
	return out
}
