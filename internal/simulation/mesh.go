// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package simulation

import (
	"encoding/xml"
	"fmt"

	"github.com/ManuGH/fftherm/internal/validate"
)

// Mesher names accepted by THERM.
const (
	MeshSimmetrix = "Simmetrix Version 2022"
	MeshQuadTree  = "QuadTree Mesher"
)

var MeshTypes = []string{MeshSimmetrix, MeshQuadTree}

// Defaults of MeshControl.
const (
	DefaultMeshParameter     = 20
	DefaultErrorLimit        = 10.0
	DefaultMaxIterations     = 5
	DefaultRunErrorEstimator = true
)

// MeshControl sets how THERM meshes the model and refines it.
type MeshControl struct {
	meshType          string
	parameter         int
	runErrorEstimator bool
	errorLimit        float64
	maxIterations     int
}

// DefaultMeshControl returns the THERM default meshing settings.
func DefaultMeshControl() *MeshControl {
	return &MeshControl{
		meshType:          MeshSimmetrix,
		parameter:         DefaultMeshParameter,
		runErrorEstimator: DefaultRunErrorEstimator,
		errorLimit:        DefaultErrorLimit,
		maxIterations:     DefaultMaxIterations,
	}
}

// NewMeshControl validates the settings. An empty meshType selects the
// Simmetrix mesher.
func NewMeshControl(meshType string, parameter int, runErrorEstimator bool, errorLimit float64, maxIterations int) (*MeshControl, error) {
	m := &MeshControl{
		meshType:          MeshSimmetrix,
		parameter:         parameter,
		runErrorEstimator: runErrorEstimator,
		errorLimit:        errorLimit,
		maxIterations:     maxIterations,
	}
	if meshType != "" {
		canonical, err := match("mesh type", meshType, MeshTypes)
		if err != nil {
			return nil, err
		}
		m.meshType = canonical
	}
	if err := m.check(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MeshControl) check() error {
	v := validate.New()
	v.Range("parameter", m.parameter, 1, 100)
	v.FloatPositive("error_limit", m.errorLimit)
	v.Positive("max_iterations", m.maxIterations)
	return v.Err()
}

func (m *MeshControl) MeshType() string          { return m.meshType }
func (m *MeshControl) Parameter() int            { return m.parameter }
func (m *MeshControl) RunErrorEstimator() bool   { return m.runErrorEstimator }
func (m *MeshControl) ErrorLimit() float64       { return m.errorLimit }
func (m *MeshControl) MaxIterations() int        { return m.maxIterations }
func (m *MeshControl) Duplicate() *MeshControl   { c := *m; return &c }
func (m *MeshControl) Equal(o *MeshControl) bool { return o != nil && *m == *o }

func (m *MeshControl) String() string {
	return fmt.Sprintf("MeshControl: %s [%d]", m.meshType, m.parameter)
}

// MeshControlXML is the MeshControl element of a THERM model.
type MeshControlXML struct {
	XMLName           xml.Name `xml:"MeshControl"`
	MeshType          string   `xml:"MeshType"`
	MeshParameter     int      `xml:"MeshParameter"`
	RunErrorEstimator bool     `xml:"RunErrorEstimator"`
	ErrorEnergyNorm   float64  `xml:"ErrorEnergyNorm"`
	MaximumIterations int      `xml:"MaximumIterations"`
}

func (m *MeshControl) ThermXML() MeshControlXML {
	return MeshControlXML{
		MeshType:          m.meshType,
		MeshParameter:     m.parameter,
		RunErrorEstimator: m.runErrorEstimator,
		ErrorEnergyNorm:   m.errorLimit,
		MaximumIterations: m.maxIterations,
	}
}

func MeshControlFromThermXML(x MeshControlXML) (*MeshControl, error) {
	return NewMeshControl(x.MeshType, x.MeshParameter, x.RunErrorEstimator, x.ErrorEnergyNorm, x.MaximumIterations)
}
