// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package material

import (
	"fmt"
	"math"
	"strings"

	"github.com/ManuGH/fftherm/internal/ident"
	"github.com/ManuGH/fftherm/internal/validate"
)

const (
	// DefaultTemperature is the temperature, in Kelvin, at which gas
	// properties are reported unless another one is requested.
	DefaultTemperature = 273.15
	// DefaultPressure is atmospheric pressure in Pa.
	DefaultPressure = 101325.0
	// DefaultSpecificHeatRatio and DefaultMolecularWeight apply when a pure
	// gas leaves them unset.
	DefaultSpecificHeatRatio = 1.0
	DefaultMolecularWeight   = 20.0
	// UniversalGasConstant is in J/kmol-K.
	UniversalGasConstant = 8314.462618

	fractionTolerance = 1e-3
	maxGasComponents  = 4
)

// Coefficients describe a property as A + B*T + C*T^2.
type Coefficients struct {
	A, B, C float64
}

// At evaluates the polynomial at temperature t in Kelvin.
func (c Coefficients) At(t float64) float64 {
	return c.A + c.B*t + c.C*t*t
}

// PureGas is a single gas with temperature dependent properties.
type PureGas struct {
	ident.Header
	conductivity      Coefficients
	viscosity         Coefficients
	specificHeat      Coefficients
	specificHeatRatio float64
	molecularWeight   float64
}

// NewPureGas returns a PureGas from the A coefficients of conductivity
// (W/m-K), viscosity (kg/m-s) and specific heat (J/kg-K). B and C
// coefficients start at zero.
func NewPureGas(id string, conductivityA, viscosityA, specificHeatA float64) (*PureGas, error) {
	h, err := ident.NewHeader(id)
	if err != nil {
		return nil, err
	}
	g := &PureGas{
		Header:            h,
		conductivity:      Coefficients{A: conductivityA},
		viscosity:         Coefficients{A: viscosityA},
		specificHeat:      Coefficients{A: specificHeatA},
		specificHeatRatio: DefaultSpecificHeatRatio,
		molecularWeight:   DefaultMolecularWeight,
	}
	if err := g.check(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *PureGas) check() error {
	v := validate.New()
	v.Finite("conductivity_coeff_a", g.conductivity.A)
	v.Finite("viscosity_coeff_a", g.viscosity.A)
	v.Finite("specific_heat_coeff_a", g.specificHeat.A)
	v.FloatRange("specific_heat_ratio", g.specificHeatRatio, 1, math.MaxFloat64)
	v.FloatRange("molecular_weight", g.molecularWeight, 20, 200)
	if g.conductivityAt(DefaultTemperature) <= 0 {
		v.AddError("conductivity", "conductivity must be positive at the default temperature", g.conductivity)
	}
	if g.viscosityAt(DefaultTemperature) <= 0 {
		v.AddError("viscosity", "viscosity must be positive at the default temperature", g.viscosity)
	}
	if g.specificHeatAt(DefaultTemperature) <= 0 {
		v.AddError("specific_heat", "specific heat must be positive at the default temperature", g.specificHeat)
	}
	return v.Err()
}

func (g *PureGas) set(fn func(*PureGas)) error {
	if err := g.CheckUnlocked(); err != nil {
		return err
	}
	next := *g
	fn(&next)
	if err := next.check(); err != nil {
		return err
	}
	*g = next
	return nil
}

func (g *PureGas) conductivityAt(t float64) float64 { return g.conductivity.At(t) }
func (g *PureGas) viscosityAt(t float64) float64    { return g.viscosity.At(t) }
func (g *PureGas) specificHeatAt(t float64) float64 { return g.specificHeat.At(t) }

func (g *PureGas) ConductivityCoefficients() Coefficients { return g.conductivity }
func (g *PureGas) ViscosityCoefficients() Coefficients    { return g.viscosity }
func (g *PureGas) SpecificHeatCoefficients() Coefficients { return g.specificHeat }
func (g *PureGas) SpecificHeatRatio() float64             { return g.specificHeatRatio }
func (g *PureGas) MolecularWeight() float64               { return g.molecularWeight }

func (g *PureGas) SetConductivityCoefficients(c Coefficients) error {
	return g.set(func(n *PureGas) { n.conductivity = c })
}

func (g *PureGas) SetViscosityCoefficients(c Coefficients) error {
	return g.set(func(n *PureGas) { n.viscosity = c })
}

func (g *PureGas) SetSpecificHeatCoefficients(c Coefficients) error {
	return g.set(func(n *PureGas) { n.specificHeat = c })
}

func (g *PureGas) SetSpecificHeatRatio(v float64) error {
	return g.set(func(n *PureGas) { n.specificHeatRatio = v })
}

func (g *PureGas) SetMolecularWeight(v float64) error {
	return g.set(func(n *PureGas) { n.molecularWeight = v })
}

// Conductivity at the default temperature, in W/m-K.
func (g *PureGas) Conductivity() float64 { return g.ConductivityAt(DefaultTemperature) }

// Viscosity at the default temperature, in kg/m-s.
func (g *PureGas) Viscosity() float64 { return g.ViscosityAt(DefaultTemperature) }

// SpecificHeat at the default temperature, in J/kg-K.
func (g *PureGas) SpecificHeat() float64 { return g.SpecificHeatAt(DefaultTemperature) }

// Density at the default temperature and pressure, in kg/m3.
func (g *PureGas) Density() float64 { return g.DensityAt(DefaultTemperature, DefaultPressure) }

// Prandtl number at the default temperature.
func (g *PureGas) Prandtl() float64 { return g.PrandtlAt(DefaultTemperature) }

func (g *PureGas) ConductivityAt(t float64) float64 { return g.conductivityAt(t) }
func (g *PureGas) ViscosityAt(t float64) float64    { return g.viscosityAt(t) }
func (g *PureGas) SpecificHeatAt(t float64) float64 { return g.specificHeatAt(t) }

// DensityAt applies the ideal gas law at temperature t (K) and pressure p (Pa).
func (g *PureGas) DensityAt(t, p float64) float64 {
	return p * g.molecularWeight / (UniversalGasConstant * t)
}

// PrandtlAt returns viscosity * specific heat / conductivity at t.
func (g *PureGas) PrandtlAt(t float64) float64 {
	return g.ViscosityAt(t) * g.SpecificHeatAt(t) / g.ConductivityAt(t)
}

// Duplicate returns an unlocked copy.
func (g *PureGas) Duplicate() *PureGas {
	c := *g
	c.Header = g.Header.Copy()
	return &c
}

// Equal compares every value except the lock state.
func (g *PureGas) Equal(o *PureGas) bool {
	if o == nil {
		return false
	}
	return g.SameIdentity(&o.Header) &&
		g.Protected() == o.Protected() &&
		g.conductivity == o.conductivity &&
		g.viscosity == o.viscosity &&
		g.specificHeat == o.specificHeat &&
		g.specificHeatRatio == o.specificHeatRatio &&
		g.molecularWeight == o.molecularWeight
}

func (g *PureGas) String() string {
	return fmt.Sprintf("PureGas: %s", g.DisplayName())
}

// Gas is a mixture of up to four pure gases by mole fraction.
type Gas struct {
	ident.Header
	pureGases []*PureGas
	fractions []float64
}

// NewGas returns a mixture. The pure gases are locked since they may be
// shared by several mixtures.
func NewGas(id string, pureGases []*PureGas, fractions []float64) (*Gas, error) {
	h, err := ident.NewHeader(id)
	if err != nil {
		return nil, err
	}
	if err := checkMixture(pureGases, fractions); err != nil {
		return nil, err
	}
	g := &Gas{Header: h}
	g.assign(pureGases, fractions)
	return g, nil
}

func checkMixture(pureGases []*PureGas, fractions []float64) error {
	v := validate.New()
	v.Range("pure_gases", len(pureGases), 1, maxGasComponents)
	if len(fractions) != len(pureGases) {
		v.AddError("gas_fractions",
			fmt.Sprintf("got %d fractions for %d pure gases", len(fractions), len(pureGases)),
			fractions)
	}
	sum := 0.0
	for i, f := range fractions {
		v.FloatRange(fmt.Sprintf("gas_fractions[%d]", i), f, 0, 1)
		sum += f
	}
	if math.Abs(sum-1) > fractionTolerance {
		v.AddError("gas_fractions", fmt.Sprintf("fractions must sum to 1, got %g", sum), fractions)
	}
	for i, pg := range pureGases {
		if pg == nil {
			v.AddError(fmt.Sprintf("pure_gases[%d]", i), "pure gas is nil", nil)
		}
	}
	return v.Err()
}

func (g *Gas) assign(pureGases []*PureGas, fractions []float64) {
	for _, pg := range pureGases {
		pg.Freeze()
	}
	g.pureGases = append([]*PureGas(nil), pureGases...)
	g.fractions = append([]float64(nil), fractions...)
}

// PureGases returns the components in order.
func (g *Gas) PureGases() []*PureGas { return append([]*PureGas(nil), g.pureGases...) }

// Fractions returns the mole fractions in component order.
func (g *Gas) Fractions() []float64 { return append([]float64(nil), g.fractions...) }

// SetGasFractions replaces the fractions of the current components.
func (g *Gas) SetGasFractions(fractions []float64) error {
	if err := g.CheckUnlocked(); err != nil {
		return err
	}
	if err := checkMixture(g.pureGases, fractions); err != nil {
		return err
	}
	g.fractions = append([]float64(nil), fractions...)
	return nil
}

// SetComponents replaces both the pure gases and their fractions.
func (g *Gas) SetComponents(pureGases []*PureGas, fractions []float64) error {
	if err := g.CheckUnlocked(); err != nil {
		return err
	}
	if err := checkMixture(pureGases, fractions); err != nil {
		return err
	}
	g.assign(pureGases, fractions)
	return nil
}

func (g *Gas) weighted(fn func(*PureGas) float64) float64 {
	total := 0.0
	for i, pg := range g.pureGases {
		total += g.fractions[i] * fn(pg)
	}
	return total
}

// MolecularWeight is the fraction weighted molecular weight.
func (g *Gas) MolecularWeight() float64 {
	return g.weighted(func(pg *PureGas) float64 { return pg.molecularWeight })
}

func (g *Gas) ConductivityAt(t float64) float64 {
	return g.weighted(func(pg *PureGas) float64 { return pg.ConductivityAt(t) })
}

func (g *Gas) ViscosityAt(t float64) float64 {
	return g.weighted(func(pg *PureGas) float64 { return pg.ViscosityAt(t) })
}

func (g *Gas) SpecificHeatAt(t float64) float64 {
	return g.weighted(func(pg *PureGas) float64 { return pg.SpecificHeatAt(t) })
}

// DensityAt applies the ideal gas law with the mixture molecular weight.
func (g *Gas) DensityAt(t, p float64) float64 {
	return p * g.MolecularWeight() / (UniversalGasConstant * t)
}

func (g *Gas) PrandtlAt(t float64) float64 {
	return g.ViscosityAt(t) * g.SpecificHeatAt(t) / g.ConductivityAt(t)
}

func (g *Gas) Conductivity() float64 { return g.ConductivityAt(DefaultTemperature) }
func (g *Gas) Viscosity() float64    { return g.ViscosityAt(DefaultTemperature) }
func (g *Gas) SpecificHeat() float64 { return g.SpecificHeatAt(DefaultTemperature) }
func (g *Gas) Density() float64      { return g.DensityAt(DefaultTemperature, DefaultPressure) }
func (g *Gas) Prandtl() float64      { return g.PrandtlAt(DefaultTemperature) }

// Duplicate returns an unlocked copy that shares its pure gases.
func (g *Gas) Duplicate() *Gas {
	return &Gas{
		Header:    g.Header.Copy(),
		pureGases: append([]*PureGas(nil), g.pureGases...),
		fractions: append([]float64(nil), g.fractions...),
	}
}

// Equal compares identity, fractions and every component.
func (g *Gas) Equal(o *Gas) bool {
	if o == nil || !g.SameIdentity(&o.Header) || g.Protected() != o.Protected() ||
		len(g.pureGases) != len(o.pureGases) {
		return false
	}
	for i := range g.pureGases {
		if g.fractions[i] != o.fractions[i] || !g.pureGases[i].Equal(o.pureGases[i]) {
			return false
		}
	}
	return true
}

func (g *Gas) String() string {
	parts := make([]string, len(g.pureGases))
	for i, pg := range g.pureGases {
		parts[i] = fmt.Sprintf("%s %.0f%%", pg.DisplayName(), g.fractions[i]*100)
	}
	return fmt.Sprintf("Gas: %s [%s]", g.DisplayName(), strings.Join(parts, ", "))
}
