// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ManuGH/fftherm/internal/condition"
	"github.com/ManuGH/fftherm/internal/geometry"
	"github.com/ManuGH/fftherm/internal/material"
	"github.com/ManuGH/fftherm/internal/simulation"
	"github.com/ManuGH/fftherm/internal/validate"
)

// Units of model geometry.
type Units string

const (
	Millimeters Units = "Millimeters"
	Centimeters Units = "Centimeters"
	Meters      Units = "Meters"
	Inches      Units = "Inches"
	Feet        Units = "Feet"
)

var unitsInMeters = map[Units]float64{
	Millimeters: 0.001,
	Centimeters: 0.01,
	Meters:      1,
	Inches:      0.0254,
	Feet:        0.3048,
}

// ParseUnits matches s case-insensitively.
func ParseUnits(s string) (Units, error) {
	for u := range unitsInMeters {
		if strings.EqualFold(string(u), strings.TrimSpace(s)) {
			return u, nil
		}
	}
	return "", fmt.Errorf("units %q are not supported", s)
}

// ConversionFactor returns the factor that converts lengths in from to to.
func ConversionFactor(from, to Units) float64 {
	return unitsInMeters[from] / unitsInMeters[to]
}

// Defaults of a new Model.
const (
	DefaultUnits          = Millimeters
	DefaultTolerance      = 0.01
	DefaultAngleTolerance = 1.0
)

// ErrDuplicateIdentifier is returned by the duplicate checks.
var ErrDuplicateIdentifier = errors.New("duplicate identifier")

// Model is a THERM cross section.
type Model struct {
	object
	units          Units
	tolerance      float64
	angleTolerance float64
	shapes         []*Shape
	boundaries     []*Boundary
	simulation     *simulation.SimulationParameter
}

// New returns an empty model in millimeters.
func New(id string) (*Model, error) {
	obj, err := newObject(id)
	if err != nil {
		return nil, err
	}
	return &Model{
		object:         obj,
		units:          DefaultUnits,
		tolerance:      DefaultTolerance,
		angleTolerance: DefaultAngleTolerance,
		simulation:     simulation.NewSimulationParameter(nil, nil),
	}, nil
}

func (m *Model) Units() Units            { return m.units }
func (m *Model) Tolerance() float64      { return m.tolerance }
func (m *Model) AngleTolerance() float64 { return m.angleTolerance }
func (m *Model) Shapes() []*Shape        { return append([]*Shape(nil), m.shapes...) }
func (m *Model) Boundaries() []*Boundary { return append([]*Boundary(nil), m.boundaries...) }
func (m *Model) HasShapes() bool         { return len(m.shapes) > 0 }

func (m *Model) Simulation() *simulation.SimulationParameter { return m.simulation }

// SetSimulation replaces the simulation parameter. nil restores defaults.
func (m *Model) SetSimulation(p *simulation.SimulationParameter) {
	if p == nil {
		p = simulation.NewSimulationParameter(nil, nil)
	}
	m.simulation = p
}

func (m *Model) SetTolerance(tol float64) error {
	v := validate.New()
	v.FloatPositive("tolerance", tol)
	if err := v.Err(); err != nil {
		return err
	}
	m.tolerance = tol
	return nil
}

func (m *Model) SetAngleTolerance(tol float64) error {
	v := validate.New()
	v.FloatPositive("angle_tolerance", tol)
	if err := v.Err(); err != nil {
		return err
	}
	m.angleTolerance = tol
	return nil
}

// SetUnits relabels the geometry without scaling it. Use ConvertToUnits to
// scale.
func (m *Model) SetUnits(u Units) error {
	if _, ok := unitsInMeters[u]; !ok {
		return fmt.Errorf("units %q are not supported", u)
	}
	m.units = u
	return nil
}

func (m *Model) AddShapes(shapes ...*Shape) {
	m.shapes = append(m.shapes, shapes...)
}

func (m *Model) AddBoundaries(boundaries ...*Boundary) {
	m.boundaries = append(m.boundaries, boundaries...)
}

// Plane returns the plane of the first shape, or world XY for an empty model.
func (m *Model) Plane() geometry.Plane {
	if len(m.shapes) == 0 {
		return geometry.WorldXY
	}
	return m.shapes[0].geometry.Plane()
}

// ConvertToUnits scales the geometry and tolerance about the world origin.
func (m *Model) ConvertToUnits(u Units) error {
	if _, ok := unitsInMeters[u]; !ok {
		return fmt.Errorf("units %q are not supported", u)
	}
	if u == m.units {
		return nil
	}
	factor := ConversionFactor(m.units, u)
	origin := geometry.Vec{}
	for _, s := range m.shapes {
		s.scale(factor, origin)
	}
	for _, b := range m.boundaries {
		b.scale(factor, origin)
	}
	m.tolerance *= factor
	m.units = u
	return nil
}

// Duplicate returns a deep copy of the geometry. Materials and conditions
// are shared.
func (m *Model) Duplicate() *Model {
	d := *m
	d.shapes = make([]*Shape, len(m.shapes))
	for i, s := range m.shapes {
		d.shapes[i] = s.Duplicate()
	}
	d.boundaries = make([]*Boundary, len(m.boundaries))
	for i, b := range m.boundaries {
		d.boundaries[i] = b.Duplicate()
	}
	d.simulation = m.simulation.Duplicate()
	return &d
}

// Materials returns the unique materials of all shapes in first-seen order.
func (m *Model) Materials() []material.Material {
	seen := make(map[string]bool)
	var out []material.Material
	for _, s := range m.shapes {
		mat := s.properties.Material()
		if !seen[mat.Identifier()] {
			seen[mat.Identifier()] = true
			out = append(out, mat)
		}
	}
	return out
}

// Conditions returns the unique conditions of all boundaries.
func (m *Model) Conditions() []*condition.SteadyState {
	seen := make(map[string]bool)
	var out []*condition.SteadyState
	for _, b := range m.boundaries {
		c := b.properties.Condition()
		if !seen[c.Identifier()] {
			seen[c.Identifier()] = true
			out = append(out, c)
		}
	}
	return out
}

// Gases returns the unique gases of all cavity materials.
func (m *Model) Gases() []*material.Gas {
	seen := make(map[string]bool)
	var out []*material.Gas
	for _, mat := range m.Materials() {
		c, ok := mat.(*material.CavityMaterial)
		if !ok {
			continue
		}
		if g := c.Gas(); !seen[g.Identifier()] {
			seen[g.Identifier()] = true
			out = append(out, g)
		}
	}
	return out
}

// PureGases returns the unique pure gases of all gases.
func (m *Model) PureGases() []*material.PureGas {
	seen := make(map[string]bool)
	var out []*material.PureGas
	for _, g := range m.Gases() {
		for _, pg := range g.PureGases() {
			if !seen[pg.Identifier()] {
				seen[pg.Identifier()] = true
				out = append(out, pg)
			}
		}
	}
	return out
}

// CheckDuplicateMaterialIdentifiers reports materials that share an
// identifier without being equal. With raise set, a non-empty report is
// returned as an error wrapping ErrDuplicateIdentifier.
func (m *Model) CheckDuplicateMaterialIdentifiers(raise bool) (string, error) {
	byID := make(map[string][]material.Material)
	var order []string
	for _, s := range m.shapes {
		mat := s.properties.Material()
		id := mat.Identifier()
		if _, ok := byID[id]; !ok {
			order = append(order, id)
		}
		byID[id] = append(byID[id], mat)
	}
	var dups []string
	for _, id := range order {
		mats := byID[id]
		for _, other := range mats[1:] {
			if !mats[0].Equal(other) {
				dups = append(dups, id)
				break
			}
		}
	}
	return duplicateReport("material", dups, raise)
}

// CheckDuplicateConditionIdentifiers reports conditions that share an
// identifier without being equal.
func (m *Model) CheckDuplicateConditionIdentifiers(raise bool) (string, error) {
	byID := make(map[string][]*condition.SteadyState)
	var order []string
	for _, b := range m.boundaries {
		c := b.properties.Condition()
		if _, ok := byID[c.Identifier()]; !ok {
			order = append(order, c.Identifier())
		}
		byID[c.Identifier()] = append(byID[c.Identifier()], c)
	}
	var dups []string
	for _, id := range order {
		conds := byID[id]
		for _, other := range conds[1:] {
			if !conds[0].Equal(other) {
				dups = append(dups, id)
				break
			}
		}
	}
	return duplicateReport("condition", dups, raise)
}

func duplicateReport(kind string, ids []string, raise bool) (string, error) {
	if len(ids) == 0 {
		return "", nil
	}
	sort.Strings(ids)
	msg := fmt.Sprintf("the following duplicated %s identifiers were found:\n%s", kind, strings.Join(ids, "\n"))
	if raise {
		return msg, fmt.Errorf("%w: %s", ErrDuplicateIdentifier, msg)
	}
	return msg, nil
}

// Validate checks that the model has shapes, that every shape and boundary
// lies in the model plane within tolerance, and that no identifiers clash.
func (m *Model) Validate() error {
	v := validate.New()
	if len(m.shapes) == 0 {
		v.AddError("shapes", "model has no shapes", nil)
		return v.Err()
	}
	pl := m.Plane()
	for _, s := range m.shapes {
		if !s.geometry.IsCoplanar(pl, m.tolerance) {
			v.AddError("shapes", "shape is not in the model plane", s.Identifier())
		}
	}
	for _, b := range m.boundaries {
		for _, seg := range b.geometry {
			if pl.DistanceToPoint(seg.P1()) > m.tolerance || pl.DistanceToPoint(seg.P2()) > m.tolerance {
				v.AddError("boundaries", "boundary is not in the model plane", b.Identifier())
				break
			}
		}
	}
	if msg, _ := m.CheckDuplicateMaterialIdentifiers(false); msg != "" {
		v.AddError("materials", msg, nil)
	}
	if msg, _ := m.CheckDuplicateConditionIdentifiers(false); msg != "" {
		v.AddError("conditions", msg, nil)
	}
	return v.Err()
}

func (m *Model) String() string { return "Model: " + m.DisplayName() }
