// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package thmz

import (
	"math"

	"github.com/ManuGH/fftherm/internal/geometry"
	"github.com/ManuGH/fftherm/internal/model"
	"github.com/ManuGH/fftherm/internal/xmlutil"
)

// ModelToThermXML returns the THERM model document. The model is copied and
// converted to millimeters; the input is not modified.
func ModelToThermXML(m *model.Model) (*ThermModelXML, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	mm := m.Duplicate()
	if err := mm.ConvertToUnits(model.Millimeters); err != nil {
		return nil, err
	}
	pl := mm.Plane()
	sim := mm.Simulation()

	doc := &ThermModelXML{
		Version:          FileVersion,
		CalculationReady: true,
		Properties: PropertiesXML{
			General: GeneralXML{
				ProductName: ProductName,
				Title:       mm.DisplayName(),
				Notes:       pl.String(),
				Units:       "SI",
			},
			CalculationOptions: CalculationOptionsXML{
				SimulationEngine:       "Conrad",
				CalculationMode:        "cmSteadyState",
				SteadyStateCalculation: true,
			},
			ModelExposure: sim.Exposure().ThermXML(&pl),
		},
		MeshControl: sim.Mesh().ThermXML(),
	}

	polys := make([]PolygonXML, 0, len(mm.Shapes()))
	for i, s := range mm.Shapes() {
		p, err := shapePolygon(s, i+1, pl)
		if err != nil {
			return nil, err
		}
		polys = append(polys, p)
	}
	doc.Polygons.Polygons = polys

	neighbor := neighborFinder(polys, mm.Tolerance())
	id := 1
	for _, b := range mm.Boundaries() {
		segs := boundarySegments(b, id, pl, neighbor)
		doc.Boundaries.Conditions = append(doc.Boundaries.Conditions, segs...)
		id += len(segs)
	}
	return doc, nil
}

// MarshalModel renders Model.xml for m.
func MarshalModel(m *model.Model) ([]byte, error) {
	doc, err := ModelToThermXML(m)
	if err != nil {
		return nil, err
	}
	return xmlutil.MarshalDocument(doc)
}

// neighborFinder returns the UUID of the first polygon with an edge under
// both segment end points.
func neighborFinder(polys []PolygonXML, tol float64) func(a, z geometry.Point2D) string {
	return func(a, z geometry.Point2D) string {
		for _, p := range polys {
			n := len(p.Points)
			for i := range p.Points {
				e1, e2 := p.Points[i], p.Points[(i+1)%n]
				if onEdge(a, e1, e2, tol) && onEdge(z, e1, e2, tol) {
					return p.UUID
				}
			}
		}
		return ""
	}
}

func onEdge(p geometry.Point2D, a, b PointXML, tol float64) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	t := 0.0
	if l2 > 0 {
		t = ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	}
	t = math.Max(0, math.Min(1, t))
	cx, cy := a.X+t*dx, a.Y+t*dy
	return math.Hypot(p.X-cx, p.Y-cy) <= tol
}
