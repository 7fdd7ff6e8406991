// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package condition

import (
	"encoding/json"
	"fmt"

	"github.com/ManuGH/fftherm/internal/ident"
	"github.com/ManuGH/fftherm/internal/validate"
)

// TypeSteadyState is the JSON type discriminator of a SteadyState.
const TypeSteadyState = "SteadyState"

type SteadyStateDoc struct {
	Type               string   `json:"type" validate:"eq=SteadyState"`
	Identifier         string   `json:"identifier" validate:"required"`
	DisplayName        string   `json:"display_name,omitempty"`
	Temperature        float64  `json:"temperature"`
	FilmCoefficient    float64  `json:"film_coefficient" validate:"gte=0"`
	Emissivity         *float64 `json:"emissivity,omitempty" validate:"omitempty,gte=0,lte=1"`
	RadiantTemperature *float64 `json:"radiant_temperature,omitempty"`
	HeatFlux           float64  `json:"heat_flux"`
	RelativeHumidity   *float64 `json:"relative_humidity,omitempty" validate:"omitempty,gte=0,lte=1"`
	Protected          bool     `json:"protected"`
	Color              string   `json:"color,omitempty"`
}

// Doc returns the JSON document of the condition.
func (c *SteadyState) Doc() SteadyStateDoc {
	e, rh := c.emissivity, c.relativeHumidity
	d := SteadyStateDoc{
		Type:             TypeSteadyState,
		Identifier:       c.Identifier(),
		DisplayName:      c.DisplayName(),
		Temperature:      c.temperature,
		FilmCoefficient:  c.filmCoefficient,
		Emissivity:       &e,
		HeatFlux:         c.heatFlux,
		RelativeHumidity: &rh,
		Protected:        c.Protected(),
		Color:            c.Color().String(),
	}
	if c.radiantTemperature != nil {
		t := *c.radiantTemperature
		d.RadiantTemperature = &t
	}
	return d
}

// MarshalJSON implements json.Marshaler.
func (c *SteadyState) MarshalJSON() ([]byte, error) { return json.Marshal(c.Doc()) }

// FromDoc validates a document and builds the condition.
func FromDoc(d SteadyStateDoc) (*SteadyState, error) {
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
	c := &SteadyState{
		Header:           h,
		temperature:      d.Temperature,
		filmCoefficient:  d.FilmCoefficient,
		emissivity:       DefaultEmissivity,
		heatFlux:         d.HeatFlux,
		relativeHumidity: DefaultRelativeHumidity,
	}
	if d.Emissivity != nil {
		c.emissivity = *d.Emissivity
	}
	if d.RelativeHumidity != nil {
		c.relativeHumidity = *d.RelativeHumidity
	}
	if d.RadiantTemperature != nil {
		t := *d.RadiantTemperature
		c.radiantTemperature = &t
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return c, nil
}

// DecodeJSON reads a SteadyState document.
func DecodeJSON(data []byte) (*SteadyState, error) {
	var d SteadyStateDoc
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode condition: %w", err)
	}
	return FromDoc(d)
}
