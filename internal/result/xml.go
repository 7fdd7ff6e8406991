// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package result

import "encoding/xml"

// MeshXML is Mesh.xml of a simulated .thmz archive.
type MeshXML struct {
	XMLName  xml.Name     `xml:"Mesh"`
	Nodes    []NodeXML    `xml:"Nodes>Node"`
	Elements []ElementXML `xml:"Elements>Element"`
}

type NodeXML struct {
	Index int     `xml:"Index"`
	X     float64 `xml:"x"`
	Y     float64 `xml:"y"`
}

// ElementXML is a triangle or quad. Node4 is zero for triangles.
type ElementXML struct {
	Index      int `xml:"Index"`
	Node1      int `xml:"Node1"`
	Node2      int `xml:"Node2"`
	Node3      int `xml:"Node3"`
	Node4      int `xml:"Node4"`
	MaterialID int `xml:"MaterialID"`
}

// MeshResultsXML is SteadyStateMeshResults.xml.
type MeshResultsXML struct {
	XMLName xml.Name            `xml:"SteadyStateMeshResults"`
	Cases   []MeshResultCaseXML `xml:"Case"`
}

type MeshResultCaseXML struct {
	ResultsType string          `xml:"ResultsType"`
	Nodes       []NodeResultXML `xml:"Nodes>Node"`
}

type NodeResultXML struct {
	Index       int     `xml:"Index"`
	Temperature float64 `xml:"Temperature"`
	XFlux       float64 `xml:"X-flux"`
	YFlux       float64 `xml:"Y-flux"`
}

// ResultsXML is SteadyStateResults.xml.
type ResultsXML struct {
	XMLName xml.Name         `xml:"SteadyStateResults"`
	Cases   []ResultsCaseXML `xml:"Case"`
}

type ResultsCaseXML struct {
	ModelType       string       `xml:"ModelType"`
	SimulationError bool         `xml:"SimulationError"`
	UFactors        []UFactorXML `xml:"UFactors"`
}

type UFactorXML struct {
	Tag         string          `xml:"Tag"`
	DeltaT      ValueXML        `xml:"DeltaT"`
	HeatFlux    ValueXML        `xml:"HeatFlux"`
	Projections []ProjectionXML `xml:"Projection"`
}

// ProjectionXML is one length basis of a U-factor.
type ProjectionXML struct {
	LengthType string   `xml:"Length-type"`
	Length     ValueXML `xml:"Length"`
	UFactor    ValueXML `xml:"U-factor"`
}

type ValueXML struct {
	Value float64 `xml:"value,attr"`
	Units string  `xml:"units,attr,omitempty"`
}

// Projection length types.
const (
	LengthTotal      = "Total Length"
	LengthProjectedX = "Projected X"
	LengthProjectedY = "Projected Y"
	LengthCustom     = "Custom Length"
)
