// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package simulation holds the THERM simulation settings: meshing control
// and the exposure of the modeled cross section in a building.
package simulation

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/ManuGH/fftherm/internal/geometry"
	"github.com/ManuGH/fftherm/internal/validate"
	"github.com/ManuGH/fftherm/internal/xmlutil"
)

type ModelType string

const (
	ModelWindow     ModelType = "Window"
	ModelOpaqueWall ModelType = "Opaque Wall"
	ModelOpaqueRoof ModelType = "Opaque Roof"
	ModelOther      ModelType = "Other"
)

var (
	ModelTypes = []string{string(ModelWindow), string(ModelOpaqueWall), string(ModelOpaqueRoof), string(ModelOther)}

	WindowSections = []string{
		"Sill", "Jamb", "Head", "Horizontal Divider", "Vertical Divider",
		"Horizontal Meeting Rail", "Vertical Meeting Rail", "Common Frame", "Spacer",
	}
	OpaqueSections = []string{
		"Sill Plate", "Header", "End Section", "Middle Section", "Thermal Bridge",
		"Window Framing - Sill", "Rough Opening - Header", "Rough Opening - Jamb",
	}
	OtherSections = []string{"General Cross Section", "Common Thermal Bridge"}

	GravityOrientations = []string{"Down", "Up", "Left", "Right", "Into Screen", "Out Of Screen"}
)

// THERM model purposes written to the Exposure element.
const (
	purposeWindow = "Window/Transparent Facade"
	purposeOpaque = "Opaque Facade"
	purposeOther  = "Other"
	assemblyWall  = "Walls"
	assemblyRoof  = "Roof"
)

// match returns the canonical spelling of s in options, ignoring case.
func match(kind, s string, options []string) (string, error) {
	clean := strings.ToLower(strings.TrimSpace(s))
	for _, o := range options {
		if strings.ToLower(o) == clean {
			return o, nil
		}
	}
	return "", fmt.Errorf("%s %q is not supported (choose from: %s)", kind, s, strings.Join(options, ", "))
}

// Sections returns the cross sections allowed for a model type.
func Sections(t ModelType) []string {
	switch t {
	case ModelWindow:
		return WindowSections
	case ModelOpaqueWall, ModelOpaqueRoof:
		return OpaqueSections
	default:
		return OtherSections
	}
}

// ModelExposure describes where the modeled detail sits in a building.
// Unset cross section and gravity values fall back to defaults derived from
// the model type and the model plane.
type ModelExposure struct {
	modelType          ModelType
	crossSectionType   string
	gravityOrientation string
	windOrientation    float64
}

// DefaultModelExposure returns an Other / General Cross Section exposure.
func DefaultModelExposure() *ModelExposure {
	return &ModelExposure{modelType: ModelOther}
}

// NewModelExposure validates and normalizes the inputs. Empty strings select
// the defaults.
func NewModelExposure(modelType, crossSectionType, gravityOrientation string, windOrientation float64) (*ModelExposure, error) {
	e := DefaultModelExposure()
	if modelType != "" {
		mt, err := match("model type", modelType, ModelTypes)
		if err != nil {
			return nil, err
		}
		e.modelType = ModelType(mt)
	}
	if err := e.SetCrossSectionType(crossSectionType); err != nil {
		return nil, err
	}
	if err := e.SetGravityOrientation(gravityOrientation); err != nil {
		return nil, err
	}
	if err := e.SetWindOrientation(windOrientation); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *ModelExposure) ModelType() ModelType { return e.modelType }

// CrossSectionType returns the explicit cross section or the first one
// allowed for the model type.
func (e *ModelExposure) CrossSectionType() string {
	if e.crossSectionType == "" {
		return Sections(e.modelType)[0]
	}
	return e.crossSectionType
}

// GravityOrientation returns the explicit gravity orientation, if any.
func (e *ModelExposure) GravityOrientation() (string, bool) {
	return e.gravityOrientation, e.gravityOrientation != ""
}

func (e *ModelExposure) WindOrientation() float64 { return e.windOrientation }

func (e *ModelExposure) SetModelType(v string) error {
	mt := ModelOther
	if v != "" {
		canonical, err := match("model type", v, ModelTypes)
		if err != nil {
			return err
		}
		mt = ModelType(canonical)
	}
	if err := checkSection(mt, e.crossSectionType); err != nil {
		return err
	}
	e.modelType = mt
	return nil
}

// SetCrossSectionType sets the cross section. An empty value restores the
// model type default.
func (e *ModelExposure) SetCrossSectionType(v string) error {
	if v == "" {
		e.crossSectionType = ""
		return nil
	}
	all := append(append(append([]string{}, WindowSections...), OpaqueSections...), OtherSections...)
	canonical, err := match("cross section type", v, all)
	if err != nil {
		return err
	}
	if err := checkSection(e.modelType, canonical); err != nil {
		return err
	}
	e.crossSectionType = canonical
	return nil
}

func checkSection(mt ModelType, section string) error {
	if section == "" {
		return nil
	}
	allowed := Sections(mt)
	for _, s := range allowed {
		if s == section {
			return nil
		}
	}
	return fmt.Errorf("cross section type %q is not supported for model type %q (choose from: %s)",
		section, mt, strings.Join(allowed, ", "))
}

// SetGravityOrientation sets the gravity direction. An empty value derives
// it from the model plane when writing.
func (e *ModelExposure) SetGravityOrientation(v string) error {
	if v == "" {
		e.gravityOrientation = ""
		return nil
	}
	canonical, err := match("gravity orientation", v, GravityOrientations)
	if err != nil {
		return err
	}
	e.gravityOrientation = canonical
	return nil
}

// SetWindOrientation sets the direction the exterior surface faces in
// degrees (0 = North, 90 = East).
func (e *ModelExposure) SetWindOrientation(v float64) error {
	val := validate.New()
	val.FloatRange("wind_orientation", v, 0, 360)
	if err := val.Err(); err != nil {
		return err
	}
	e.windOrientation = v
	return nil
}

// GravityFor resolves the gravity orientation for a model in plane. Planes
// within 45 degrees of horizontal look down on the detail, so gravity points
// into the screen.
func (e *ModelExposure) GravityFor(plane *geometry.Plane) string {
	if e.gravityOrientation != "" {
		return e.gravityOrientation
	}
	if plane == nil {
		return "Down"
	}
	n := plane.Normal
	if n.Z < 0 {
		n = geometry.Vec{X: -n.X, Y: -n.Y, Z: -n.Z}
	}
	if geometry.AngleDeg(n, geometry.ZAxis) < 45 {
		return "Into Screen"
	}
	return "Down"
}

func (e *ModelExposure) Duplicate() *ModelExposure {
	c := *e
	return &c
}

func (e *ModelExposure) Equal(o *ModelExposure) bool {
	return o != nil && *e == *o
}

func (e *ModelExposure) String() string {
	return fmt.Sprintf("ModelExposure: %s - %s", e.modelType, e.CrossSectionType())
}

// ModelExposureXML is the ModelExposure element of a THERM model.
type ModelExposureXML struct {
	XMLName            xml.Name    `xml:"ModelExposure"`
	ModelOrientation   float64     `xml:"ModelOrientation"`
	GravityOrientation string      `xml:"GravityOrientation"`
	Exposure           ExposureXML `xml:"Exposure"`
}

type ExposureXML struct {
	ModelPurpose       string `xml:"ModelPurpose"`
	Assembly           string `xml:"Assembly,omitempty"`
	WindowCrossSection string `xml:"WindowCrossSection,omitempty"`
	OpaqueCrossSection string `xml:"OpaqueCrossSection,omitempty"`
	OtherCrossSection  string `xml:"OtherCrossSection,omitempty"`
}

// ThermXML returns the ModelExposure element. plane may be nil.
func (e *ModelExposure) ThermXML(plane *geometry.Plane) ModelExposureXML {
	x := ModelExposureXML{
		ModelOrientation:   e.windOrientation,
		GravityOrientation: e.GravityFor(plane),
	}
	section := e.CrossSectionType()
	switch e.modelType {
	case ModelWindow:
		x.Exposure = ExposureXML{ModelPurpose: purposeWindow, WindowCrossSection: section}
	case ModelOpaqueWall:
		x.Exposure = ExposureXML{ModelPurpose: purposeOpaque, Assembly: assemblyWall, OpaqueCrossSection: section}
	case ModelOpaqueRoof:
		x.Exposure = ExposureXML{ModelPurpose: purposeOpaque, Assembly: assemblyRoof, OpaqueCrossSection: section}
	default:
		x.Exposure = ExposureXML{ModelPurpose: purposeOther, OtherCrossSection: section}
	}
	return x
}

// ExposureFromThermXML reads a ModelExposure element.
func ExposureFromThermXML(x ModelExposureXML) (*ModelExposure, error) {
	var modelType, section string
	switch x.Exposure.ModelPurpose {
	case purposeOther:
		modelType, section = string(ModelOther), x.Exposure.OtherCrossSection
	case purposeWindow:
		modelType, section = string(ModelWindow), x.Exposure.WindowCrossSection
	case purposeOpaque:
		assembly := x.Exposure.Assembly
		if assembly == assemblyWall {
			assembly = "Wall"
		}
		modelType, section = "Opaque "+assembly, x.Exposure.OpaqueCrossSection
	default:
		return nil, fmt.Errorf("unknown model purpose %q", x.Exposure.ModelPurpose)
	}
	return NewModelExposure(modelType, section, x.GravityOrientation, x.ModelOrientation)
}

// MarshalThermXML renders the element without a model plane.
func (e *ModelExposure) MarshalThermXML() (string, error) {
	out, err := xmlutil.Marshal(e.ThermXML(nil))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ExposureFromThermXMLString parses a single ModelExposure element.
func ExposureFromThermXMLString(s string) (*ModelExposure, error) {
	var x ModelExposureXML
	if err := xmlutil.DecodeString(s, &x); err != nil {
		return nil, fmt.Errorf("decode model exposure: %w", err)
	}
	return ExposureFromThermXML(x)
}
