// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package condition models THERM steady-state boundary conditions.
package condition

import (
	"fmt"

	"github.com/ManuGH/fftherm/internal/ident"
	"github.com/ManuGH/fftherm/internal/validate"
)

// Defaults applied by NewSteadyState.
const (
	DefaultEmissivity       = 1.0
	DefaultHeatFlux         = 0.0
	DefaultRelativeHumidity = 0.5
)

// SteadyState is the comprehensive steady-state condition of THERM: a
// convective film, an automatic radiation enclosure and a constant flux.
type SteadyState struct {
	ident.Header
	temperature        float64
	filmCoefficient    float64
	emissivity         float64
	radiantTemperature *float64
	heatFlux           float64
	relativeHumidity   float64
}

// NewSteadyState returns a condition at temperature (C) with the given film
// coefficient (W/m2-K). An empty id gets a random identifier.
func NewSteadyState(id string, temperature, filmCoefficient float64) (*SteadyState, error) {
	h, err := ident.NewHeader(id)
	if err != nil {
		return nil, err
	}
	c := &SteadyState{
		Header:           h,
		temperature:      temperature,
		filmCoefficient:  filmCoefficient,
		emissivity:       DefaultEmissivity,
		heatFlux:         DefaultHeatFlux,
		relativeHumidity: DefaultRelativeHumidity,
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *SteadyState) check() error {
	v := validate.New()
	v.Finite("temperature", c.temperature)
	v.FloatNonNegative("film_coefficient", c.filmCoefficient)
	v.FloatRange("emissivity", c.emissivity, 0, 1)
	if c.radiantTemperature != nil {
		v.Finite("radiant_temperature", *c.radiantTemperature)
	}
	v.Finite("heat_flux", c.heatFlux)
	v.FloatRange("relative_humidity", c.relativeHumidity, 0, 1)
	return v.Err()
}

func (c *SteadyState) set(fn func(*SteadyState)) error {
	if err := c.CheckUnlocked(); err != nil {
		return err
	}
	next := *c
	fn(&next)
	if err := next.check(); err != nil {
		return err
	}
	*c = next
	return nil
}

func (c *SteadyState) Temperature() float64      { return c.temperature }
func (c *SteadyState) FilmCoefficient() float64  { return c.filmCoefficient }
func (c *SteadyState) Emissivity() float64       { return c.emissivity }
func (c *SteadyState) HeatFlux() float64         { return c.heatFlux }
func (c *SteadyState) RelativeHumidity() float64 { return c.relativeHumidity }

// RadiantTemperature follows the air temperature unless set explicitly.
func (c *SteadyState) RadiantTemperature() float64 {
	if c.radiantTemperature == nil {
		return c.temperature
	}
	return *c.radiantTemperature
}

func (c *SteadyState) SetTemperature(v float64) error {
	return c.set(func(n *SteadyState) { n.temperature = v })
}

func (c *SteadyState) SetFilmCoefficient(v float64) error {
	return c.set(func(n *SteadyState) { n.filmCoefficient = v })
}

func (c *SteadyState) SetEmissivity(v float64) error {
	return c.set(func(n *SteadyState) { n.emissivity = v })
}

// SetRadiantTemperature sets the enclosure temperature. nil restores the
// default of following the air temperature.
func (c *SteadyState) SetRadiantTemperature(v *float64) error {
	return c.set(func(n *SteadyState) {
		if v == nil {
			n.radiantTemperature = nil
			return
		}
		t := *v
		n.radiantTemperature = &t
	})
}

func (c *SteadyState) SetHeatFlux(v float64) error {
	return c.set(func(n *SteadyState) { n.heatFlux = v })
}

func (c *SteadyState) SetRelativeHumidity(v float64) error {
	return c.set(func(n *SteadyState) { n.relativeHumidity = v })
}

// Duplicate returns an unlocked copy.
func (c *SteadyState) Duplicate() *SteadyState {
	d := *c
	d.Header = c.Header.Copy()
	if c.radiantTemperature != nil {
		t := *c.radiantTemperature
		d.radiantTemperature = &t
	}
	return &d
}

// Equal compares every value except the lock state.
func (c *SteadyState) Equal(o *SteadyState) bool {
	if o == nil {
		return false
	}
	return c.SameIdentity(&o.Header) &&
		c.Protected() == o.Protected() &&
		c.temperature == o.temperature &&
		c.filmCoefficient == o.filmCoefficient &&
		c.emissivity == o.emissivity &&
		c.RadiantTemperature() == o.RadiantTemperature() &&
		c.heatFlux == o.heatFlux &&
		c.relativeHumidity == o.relativeHumidity
}

func (c *SteadyState) String() string {
	return fmt.Sprintf("SteadyState: %s [%gC, %g W/m2-K]", c.DisplayName(), c.temperature, c.filmCoefficient)
}
