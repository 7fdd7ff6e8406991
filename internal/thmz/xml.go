// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package thmz translates models into THERM model XML and writes the zipped
// .thmz project files THERM opens and simulates.
package thmz

import (
	"encoding/xml"
	"errors"
	"fmt"
	"math"

	"github.com/ManuGH/fftherm/internal/geometry"
	"github.com/ManuGH/fftherm/internal/model"
	"github.com/ManuGH/fftherm/internal/simulation"
	"github.com/ManuGH/fftherm/internal/xmlutil"
)

// FileVersion is written to the root of every THERM model.
const FileVersion = "1"

// ProductName is written to the General properties.
const ProductName = "fftherm"

// ErrPolygonHoles is returned for shapes with holes, which THERM polygons
// cannot represent.
var ErrPolygonHoles = errors.New("THERM polygons cannot contain holes")

// ThermModelXML is the root of Model.xml inside a .thmz archive.
type ThermModelXML struct {
	XMLName          xml.Name                  `xml:"ThermModel"`
	Version          string                    `xml:"Version"`
	CalculationReady bool                      `xml:"CalculationReady"`
	Properties       PropertiesXML             `xml:"Properties"`
	MeshControl      simulation.MeshControlXML `xml:"MeshControl"`
	Polygons         PolygonsXML               `xml:"Polygons"`
	Boundaries       BoundariesXML             `xml:"Boundaries"`
}

type PropertiesXML struct {
	General            GeneralXML                  `xml:"General"`
	CalculationOptions CalculationOptionsXML       `xml:"CalculationOptions"`
	ModelExposure      simulation.ModelExposureXML `xml:"ModelExposure"`
}

// GeneralXML carries the model title. Notes holds the 3D plane of the
// cross section so results can be mapped back into model space.
type GeneralXML struct {
	ProductName string `xml:"ProductName"`
	Title       string `xml:"Title"`
	Notes       string `xml:"Notes"`
	Units       string `xml:"Units"`
}

type CalculationOptionsXML struct {
	SimulationEngine       string `xml:"SimulationEngine"`
	CalculationMode        string `xml:"CalculationMode"`
	SteadyStateCalculation bool   `xml:"SteadyStateCalculation"`
	CondensationIndex      bool   `xml:"CondensationIndex"`
}

type PolygonsXML struct {
	Polygons []PolygonXML `xml:"Polygon"`
}

type PolygonXML struct {
	XMLName      xml.Name   `xml:"Polygon"`
	UUID         string     `xml:"UUID"`
	ID           int        `xml:"ID"`
	Name         string     `xml:"Name,omitempty"`
	Material     string     `xml:"Material"`
	MaterialUUID string     `xml:"MaterialUUID"`
	Points       []PointXML `xml:"Points>Point"`
	Type         string     `xml:"Type"`
}

type PointXML struct {
	X float64 `xml:"x"`
	Y float64 `xml:"y"`
}

type BoundariesXML struct {
	XMLName    xml.Name               `xml:"Boundaries"`
	Conditions []BoundaryConditionXML `xml:"BoundaryCondition"`
}

// BoundaryConditionXML is one boundary segment. Name refers to a condition
// of SteadyStateBC.xml and FluxTag to the U-factor tag.
type BoundaryConditionXML struct {
	ID                  int      `xml:"ID"`
	UUID                string   `xml:"UUID"`
	Name                string   `xml:"Name"`
	FluxTag             string   `xml:"FluxTag,omitempty"`
	IsBlocking          bool     `xml:"IsBlocking"`
	NeighborPolygonUUID string   `xml:"NeighborPolygonUUID,omitempty"`
	StartPoint          PointXML `xml:"StartPoint"`
	EndPoint            PointXML `xml:"EndPoint"`
	Side                int      `xml:"Side"`
	Color               string   `xml:"Color"`
	Status              int      `xml:"Status"`
}

// coordinate precision in millimeters
const pointDigits = 1e6

func point(p geometry.Point2D) PointXML {
	return PointXML{X: roundCoord(p.X), Y: roundCoord(p.Y)}
}

func roundCoord(v float64) float64 {
	r := math.Round(v*pointDigits) / pointDigits
	if r == 0 {
		return 0
	}
	return r
}

func shapePolygon(s *model.Shape, id int, pl geometry.Plane) (PolygonXML, error) {
	face := s.Geometry()
	if face.HasHoles() {
		return PolygonXML{}, fmt.Errorf("shape %q: %w", s.Identifier(), ErrPolygonHoles)
	}
	pts := geometry.Polygon2D(face.Boundary, pl)
	if geometry.IsClockwise2D(pts) {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	mat := s.Properties().Material()
	poly := PolygonXML{
		UUID:         s.ThermUUID(),
		ID:           id,
		Name:         s.DisplayName(),
		Material:     mat.DisplayName(),
		MaterialUUID: mat.ThermUUID(),
		Points:       make([]PointXML, len(pts)),
		Type:         "Material",
	}
	for i, p := range pts {
		poly.Points[i] = point(p)
	}
	return poly, nil
}

// boundarySegments returns one element per segment. neighbor maps a
// segment to the polygon it rests on and may be nil.
func boundarySegments(b *model.Boundary, firstID int, pl geometry.Plane, neighbor func(a, z geometry.Point2D) string) []BoundaryConditionXML {
	cond := b.Properties().Condition()
	segs := b.Geometry()
	out := make([]BoundaryConditionXML, 0, len(segs))
	for i, seg := range segs {
		a, z := pl.XYZToXY(seg.P1()), pl.XYZToXY(seg.P2())
		bc := BoundaryConditionXML{
			ID:         firstID + i,
			UUID:       b.SegmentUUID(i),
			Name:       cond.DisplayName(),
			FluxTag:    b.Properties().UFactorTag(),
			IsBlocking: true,
			StartPoint: point(a),
			EndPoint:   point(z),
			Color:      cond.Color().Therm(),
		}
		if neighbor != nil {
			bc.NeighborPolygonUUID = neighbor(a, z)
		}
		out = append(out, bc)
	}
	return out
}

// ShapeToThermXML renders a single Polygon element with coordinates in the
// units of the shape.
func ShapeToThermXML(s *model.Shape, pl geometry.Plane) (string, error) {
	poly, err := shapePolygon(s, 1, pl)
	if err != nil {
		return "", err
	}
	out, err := xmlutil.Marshal(poly)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// BoundaryToThermXML renders the Boundaries element of a single boundary.
func BoundaryToThermXML(b *model.Boundary, pl geometry.Plane) (string, error) {
	out, err := xmlutil.Marshal(BoundariesXML{Conditions: boundarySegments(b, 1, pl, nil)})
	if err != nil {
		return "", err
	}
	return string(out), nil
}
