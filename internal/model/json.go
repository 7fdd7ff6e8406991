// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/renameio/v2"

	"github.com/ManuGH/fftherm/internal/condition"
	"github.com/ManuGH/fftherm/internal/geometry"
	"github.com/ManuGH/fftherm/internal/ident"
	"github.com/ManuGH/fftherm/internal/lib"
	"github.com/ManuGH/fftherm/internal/material"
	"github.com/ManuGH/fftherm/internal/simulation"
	"github.com/ManuGH/fftherm/internal/validate"
)

// JSON type discriminators.
const (
	TypeModel                           = "Model"
	TypeShape                           = "Shape"
	TypeBoundary                        = "Boundary"
	TypeModelProperties                 = "ModelProperties"
	TypeModelThermProperties            = "ModelThermProperties"
	TypeShapeProperties                 = "ShapeProperties"
	TypeShapeThermProperties            = "ShapeThermProperties"
	TypeShapeThermPropertiesAbridged    = "ShapeThermPropertiesAbridged"
	TypeBoundaryProperties              = "BoundaryProperties"
	TypeBoundaryThermProperties         = "BoundaryThermProperties"
	TypeBoundaryThermPropertiesAbridged = "BoundaryThermPropertiesAbridged"
)

type ShapeDoc struct {
	Type        string             `json:"type" validate:"eq=Shape"`
	Identifier  string             `json:"identifier" validate:"required"`
	DisplayName string             `json:"display_name,omitempty"`
	Geometry    *geometry.Face3D   `json:"geometry"`
	Properties  ShapePropertiesDoc `json:"properties"`
}

type ShapePropertiesDoc struct {
	Type  string         `json:"type" validate:"eq=ShapeProperties"`
	Therm *ShapeThermDoc `json:"therm,omitempty"`
}

// ShapeThermDoc holds a full material document or, in the abridged form,
// a material identifier.
type ShapeThermDoc struct {
	Type     string          `json:"type" validate:"oneof=ShapeThermProperties ShapeThermPropertiesAbridged"`
	Material json.RawMessage `json:"material,omitempty"`
}

type BoundaryDoc struct {
	Type        string                   `json:"type" validate:"eq=Boundary"`
	Identifier  string                   `json:"identifier" validate:"required"`
	DisplayName string                   `json:"display_name,omitempty"`
	Geometry    []geometry.LineSegment3D `json:"geometry" validate:"min=1"`
	Properties  BoundaryPropertiesDoc    `json:"properties"`
}

type BoundaryPropertiesDoc struct {
	Type  string            `json:"type" validate:"eq=BoundaryProperties"`
	Therm *BoundaryThermDoc `json:"therm,omitempty"`
}

type BoundaryThermDoc struct {
	Type       string          `json:"type" validate:"oneof=BoundaryThermProperties BoundaryThermPropertiesAbridged"`
	Condition  json.RawMessage `json:"condition,omitempty"`
	UFactorTag string          `json:"u_factor_tag,omitempty"`
}

type ModelDoc struct {
	Type           string             `json:"type" validate:"eq=Model"`
	Identifier     string             `json:"identifier" validate:"required"`
	DisplayName    string             `json:"display_name,omitempty"`
	Units          string             `json:"units,omitempty"`
	Tolerance      float64            `json:"tolerance,omitempty" validate:"gte=0"`
	AngleTolerance float64            `json:"angle_tolerance,omitempty" validate:"gte=0"`
	Shapes         []ShapeDoc         `json:"shapes" validate:"dive"`
	Boundaries     []BoundaryDoc      `json:"boundaries,omitempty" validate:"dive"`
	Properties     ModelPropertiesDoc `json:"properties"`
}

type ModelPropertiesDoc struct {
	Type  string         `json:"type" validate:"eq=ModelProperties"`
	Therm *ModelThermDoc `json:"therm,omitempty"`
}

// ModelThermDoc lists every object the shapes and boundaries reference.
// Materials and gases are stored abridged.
type ModelThermDoc struct {
	Type                string                             `json:"type" validate:"eq=ModelThermProperties"`
	Materials           []json.RawMessage                  `json:"materials"`
	Conditions          []condition.SteadyStateDoc         `json:"conditions"`
	Gases               []json.RawMessage                  `json:"gases"`
	PureGases           []material.PureGasDoc              `json:"pure_gases"`
	SimulationParameter *simulation.SimulationParameterDoc `json:"simulation_parameter,omitempty"`
}

func rawString(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

// Doc returns the standalone document of the shape with the material
// nested. The material is omitted when the default is in use.
func (s *Shape) Doc() (ShapeDoc, error) {
	therm := &ShapeThermDoc{Type: TypeShapeThermProperties}
	if !s.properties.IsDefault() {
		md, err := material.MaterialDoc(s.properties.material, false)
		if err != nil {
			return ShapeDoc{}, err
		}
		raw, err := json.Marshal(md)
		if err != nil {
			return ShapeDoc{}, err
		}
		therm.Material = raw
	}
	return s.doc(therm), nil
}

func (s *Shape) abridgedDoc() ShapeDoc {
	return s.doc(&ShapeThermDoc{
		Type:     TypeShapeThermPropertiesAbridged,
		Material: rawString(s.properties.Material().Identifier()),
	})
}

func (s *Shape) doc(therm *ShapeThermDoc) ShapeDoc {
	return ShapeDoc{
		Type:        TypeShape,
		Identifier:  s.identifier,
		DisplayName: s.displayName,
		Geometry:    s.geometry,
		Properties:  ShapePropertiesDoc{Type: TypeShapeProperties, Therm: therm},
	}
}

func (s *Shape) MarshalJSON() ([]byte, error) {
	d, err := s.Doc()
	if err != nil {
		return nil, err
	}
	return json.Marshal(d)
}

// Doc returns the standalone document of the boundary with the condition
// nested. The condition is omitted when the default is in use.
func (b *Boundary) Doc() BoundaryDoc {
	therm := &BoundaryThermDoc{Type: TypeBoundaryThermProperties, UFactorTag: b.properties.uFactorTag}
	if !b.properties.IsDefault() {
		raw, _ := json.Marshal(b.properties.condition.Doc())
		therm.Condition = raw
	}
	return b.doc(therm)
}

func (b *Boundary) abridgedDoc() BoundaryDoc {
	return b.doc(&BoundaryThermDoc{
		Type:       TypeBoundaryThermPropertiesAbridged,
		Condition:  rawString(b.properties.Condition().Identifier()),
		UFactorTag: b.properties.uFactorTag,
	})
}

func (b *Boundary) doc(therm *BoundaryThermDoc) BoundaryDoc {
	return BoundaryDoc{
		Type:        TypeBoundary,
		Identifier:  b.identifier,
		DisplayName: b.displayName,
		Geometry:    b.Geometry(),
		Properties:  BoundaryPropertiesDoc{Type: TypeBoundaryProperties, Therm: therm},
	}
}

func (b *Boundary) MarshalJSON() ([]byte, error) { return json.Marshal(b.Doc()) }

// Doc returns the abridged model document: the model properties list the
// materials, conditions and gases and the shapes and boundaries reference
// them by identifier.
func (m *Model) Doc() (ModelDoc, error) {
	therm := &ModelThermDoc{
		Type:       TypeModelThermProperties,
		Materials:  []json.RawMessage{},
		Conditions: []condition.SteadyStateDoc{},
		Gases:      []json.RawMessage{},
		PureGases:  []material.PureGasDoc{},
	}
	for _, mat := range m.Materials() {
		md, err := material.MaterialDoc(mat, true)
		if err != nil {
			return ModelDoc{}, err
		}
		raw, err := json.Marshal(md)
		if err != nil {
			return ModelDoc{}, err
		}
		therm.Materials = append(therm.Materials, raw)
	}
	for _, c := range m.Conditions() {
		therm.Conditions = append(therm.Conditions, c.Doc())
	}
	for _, g := range m.Gases() {
		raw, err := json.Marshal(g.AbridgedDoc())
		if err != nil {
			return ModelDoc{}, err
		}
		therm.Gases = append(therm.Gases, raw)
	}
	for _, pg := range m.PureGases() {
		therm.PureGases = append(therm.PureGases, pg.Doc())
	}
	sp := m.simulation.Doc()
	therm.SimulationParameter = &sp

	d := m.doc(therm)
	for _, s := range m.shapes {
		d.Shapes = append(d.Shapes, s.abridgedDoc())
	}
	for _, b := range m.boundaries {
		d.Boundaries = append(d.Boundaries, b.abridgedDoc())
	}
	return d, nil
}

// FullDoc returns the model document with materials and conditions nested
// in each shape and boundary.
func (m *Model) FullDoc() (ModelDoc, error) {
	sp := m.simulation.Doc()
	d := m.doc(&ModelThermDoc{Type: TypeModelThermProperties, SimulationParameter: &sp})
	for _, s := range m.shapes {
		sd, err := s.Doc()
		if err != nil {
			return ModelDoc{}, err
		}
		d.Shapes = append(d.Shapes, sd)
	}
	for _, b := range m.boundaries {
		d.Boundaries = append(d.Boundaries, b.Doc())
	}
	return d, nil
}

func (m *Model) doc(therm *ModelThermDoc) ModelDoc {
	return ModelDoc{
		Type:           TypeModel,
		Identifier:     m.identifier,
		DisplayName:    m.displayName,
		Units:          string(m.units),
		Tolerance:      m.tolerance,
		AngleTolerance: m.angleTolerance,
		Shapes:         []ShapeDoc{},
		Properties:     ModelPropertiesDoc{Type: TypeModelProperties, Therm: therm},
	}
}

func (m *Model) MarshalJSON() ([]byte, error) {
	d, err := m.Doc()
	if err != nil {
		return nil, err
	}
	return json.Marshal(d)
}

// DecodeOption configures how documents resolve references.
type DecodeOption func(*decodeOptions)

type decodeOptions struct {
	library *lib.Library
}

// WithLibrary resolves references that the document does not define
// against l instead of the default library, e.g. the user library loaded
// from the THERM install.
func WithLibrary(l *lib.Library) DecodeOption {
	return func(o *decodeOptions) {
		if l != nil {
			o.library = l
		}
	}
}

// registry resolves identifiers of the model properties with a library as
// fallback.
type registry struct {
	pureGases  map[string]*material.PureGas
	gases      map[string]*material.Gas
	materials  map[string]material.Material
	conditions map[string]*condition.SteadyState
}

func newRegistry(opts []DecodeOption) *registry {
	o := decodeOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	l := o.library
	if l == nil {
		l = lib.Default()
	}
	r := &registry{
		pureGases:  map[string]*material.PureGas{},
		gases:      map[string]*material.Gas{},
		materials:  map[string]material.Material{},
		conditions: map[string]*condition.SteadyState{},
	}
	for _, pg := range l.PureGases() {
		r.pureGases[pg.Identifier()] = pg
	}
	for _, g := range l.Gases() {
		r.gases[g.Identifier()] = g
	}
	for _, mat := range l.Materials() {
		r.materials[mat.Identifier()] = mat
	}
	for _, c := range l.Conditions() {
		r.conditions[c.Identifier()] = c
	}
	return r
}

func (r *registry) load(t *ModelThermDoc) error {
	if t == nil {
		return nil
	}
	for _, d := range t.PureGases {
		pg, err := material.PureGasFromDoc(d)
		if err != nil {
			return fmt.Errorf("pure gas %q: %w", d.Identifier, err)
		}
		r.pureGases[pg.Identifier()] = pg
	}
	for _, raw := range t.Gases {
		g, err := decodeGas(raw, r.pureGases)
		if err != nil {
			return err
		}
		r.gases[g.Identifier()] = g
	}
	for _, raw := range t.Materials {
		mat, err := material.DecodeMaterialJSON(raw, r.gases)
		if err != nil {
			return err
		}
		r.materials[mat.Identifier()] = mat
	}
	for _, d := range t.Conditions {
		c, err := condition.FromDoc(d)
		if err != nil {
			return fmt.Errorf("condition %q: %w", d.Identifier, err)
		}
		r.conditions[c.Identifier()] = c
	}
	return nil
}

func decodeGas(raw json.RawMessage, pureByID map[string]*material.PureGas) (*material.Gas, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("decode gas: %w", err)
	}
	switch head.Type {
	case material.TypeGas:
		var d material.GasDoc
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode gas: %w", err)
		}
		return material.GasFromDoc(d)
	case material.TypeGasAbridged:
		var d material.GasAbridgedDoc
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode gas: %w", err)
		}
		return material.GasFromAbridgedDoc(d, pureByID)
	default:
		return nil, fmt.Errorf("unknown gas type %q", head.Type)
	}
}

// reference decodes either an identifier string or a nested document.
func reference(raw json.RawMessage) (id string, nested bool, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false, nil
	}
	if raw[0] == '"' {
		err = json.Unmarshal(raw, &id)
		return id, false, err
	}
	return "", true, nil
}

func (r *registry) shape(d ShapeDoc) (*Shape, error) {
	if d.Geometry == nil {
		return nil, fmt.Errorf("shape %q: geometry is required", d.Identifier)
	}
	s, err := NewShape(d.Identifier, d.Geometry)
	if err != nil {
		return nil, err
	}
	s.SetDisplayName(d.DisplayName)
	if d.Properties.Therm == nil {
		return s, nil
	}
	id, nested, err := reference(d.Properties.Therm.Material)
	switch {
	case err != nil:
		return nil, fmt.Errorf("shape %q material: %w", d.Identifier, err)
	case nested:
		mat, err := material.DecodeMaterialJSON(d.Properties.Therm.Material, r.gases)
		if err != nil {
			return nil, fmt.Errorf("shape %q: %w", d.Identifier, err)
		}
		s.properties.SetMaterial(mat)
	case id != "":
		mat, ok := r.materials[id]
		if !ok {
			return nil, fmt.Errorf("shape %q material %q: %w", d.Identifier, id, ident.ErrMissingReference)
		}
		s.properties.SetMaterial(mat)
	}
	return s, nil
}

func (r *registry) boundary(d BoundaryDoc) (*Boundary, error) {
	b, err := NewBoundary(d.Identifier, d.Geometry)
	if err != nil {
		return nil, err
	}
	b.SetDisplayName(d.DisplayName)
	if d.Properties.Therm == nil {
		return b, nil
	}
	b.properties.uFactorTag = d.Properties.Therm.UFactorTag
	id, nested, err := reference(d.Properties.Therm.Condition)
	switch {
	case err != nil:
		return nil, fmt.Errorf("boundary %q condition: %w", d.Identifier, err)
	case nested:
		c, err := condition.DecodeJSON(d.Properties.Therm.Condition)
		if err != nil {
			return nil, fmt.Errorf("boundary %q: %w", d.Identifier, err)
		}
		b.properties.SetCondition(c)
	case id != "":
		c, ok := r.conditions[id]
		if !ok {
			return nil, fmt.Errorf("boundary %q condition %q: %w", d.Identifier, id, ident.ErrMissingReference)
		}
		b.properties.SetCondition(c)
	}
	return b, nil
}

// ShapeFromDoc builds a standalone shape. Abridged material references
// resolve against the default library unless WithLibrary is given.
func ShapeFromDoc(d ShapeDoc, opts ...DecodeOption) (*Shape, error) {
	if err := validate.Struct(d); err != nil {
		return nil, err
	}
	return newRegistry(opts).shape(d)
}

// BoundaryFromDoc builds a standalone boundary.
func BoundaryFromDoc(d BoundaryDoc, opts ...DecodeOption) (*Boundary, error) {
	if err := validate.Struct(d); err != nil {
		return nil, err
	}
	return newRegistry(opts).boundary(d)
}

// FromDoc builds a model from either document form.
func FromDoc(d ModelDoc, opts ...DecodeOption) (*Model, error) {
	if err := validate.Struct(d); err != nil {
		return nil, err
	}
	m, err := New(d.Identifier)
	if err != nil {
		return nil, err
	}
	m.SetDisplayName(d.DisplayName)
	if d.Units != "" {
		if m.units, err = ParseUnits(d.Units); err != nil {
			return nil, err
		}
	}
	if d.Tolerance > 0 {
		m.tolerance = d.Tolerance
	}
	if d.AngleTolerance > 0 {
		m.angleTolerance = d.AngleTolerance
	}

	r := newRegistry(opts)
	therm := d.Properties.Therm
	if err := r.load(therm); err != nil {
		return nil, err
	}
	if therm != nil && therm.SimulationParameter != nil {
		sp, err := simulation.ParameterFromDoc(*therm.SimulationParameter)
		if err != nil {
			return nil, err
		}
		m.simulation = sp
	}
	for _, sd := range d.Shapes {
		s, err := r.shape(sd)
		if err != nil {
			return nil, err
		}
		m.shapes = append(m.shapes, s)
	}
	for _, bd := range d.Boundaries {
		b, err := r.boundary(bd)
		if err != nil {
			return nil, err
		}
		m.boundaries = append(m.boundaries, b)
	}
	return m, nil
}

// DecodeJSON reads a model document.
func DecodeJSON(data []byte, opts ...DecodeOption) (*Model, error) {
	var d ModelDoc
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return FromDoc(d, opts...)
}

// Load reads a model file.
func Load(path string, opts ...DecodeOption) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	m, err := DecodeJSON(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// WriteFile writes the abridged model document atomically.
func (m *Model) WriteFile(path string) error {
	d, err := m.Doc()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	if err := renameio.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}
