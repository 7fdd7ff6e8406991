// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package simulation

import (
	"encoding/json"
	"fmt"

	"github.com/ManuGH/fftherm/internal/validate"
)

type ModelExposureDoc struct {
	Type               string  `json:"type" validate:"eq=ModelExposure"`
	ModelType          string  `json:"model_type,omitempty"`
	CrossSectionType   string  `json:"cross_section_type,omitempty"`
	GravityOrientation string  `json:"gravity_orientation,omitempty"`
	WindOrientation    float64 `json:"wind_orientation" validate:"gte=0,lte=360"`
}

type MeshControlDoc struct {
	Type              string   `json:"type" validate:"eq=MeshControl"`
	MeshType          string   `json:"mesh_type,omitempty"`
	Parameter         *int     `json:"parameter,omitempty" validate:"omitempty,gte=1,lte=100"`
	RunErrorEstimator *bool    `json:"run_error_estimator,omitempty"`
	ErrorLimit        *float64 `json:"error_limit,omitempty" validate:"omitempty,gt=0"`
	MaxIterations     *int     `json:"max_iterations,omitempty" validate:"omitempty,gte=1"`
}

type SimulationParameterDoc struct {
	Type     string            `json:"type" validate:"eq=SimulationParameter"`
	Mesh     *MeshControlDoc   `json:"mesh,omitempty"`
	Exposure *ModelExposureDoc `json:"exposure,omitempty"`
}

// Doc writes the cross section and gravity only when set explicitly.
func (e *ModelExposure) Doc() ModelExposureDoc {
	return ModelExposureDoc{
		Type:               "ModelExposure",
		ModelType:          string(e.modelType),
		CrossSectionType:   e.crossSectionType,
		GravityOrientation: e.gravityOrientation,
		WindOrientation:    e.windOrientation,
	}
}

func (e *ModelExposure) MarshalJSON() ([]byte, error) { return json.Marshal(e.Doc()) }

func ExposureFromDoc(d ModelExposureDoc) (*ModelExposure, error) {
	if err := validate.Struct(d); err != nil {
		return nil, err
	}
	return NewModelExposure(d.ModelType, d.CrossSectionType, d.GravityOrientation, d.WindOrientation)
}

func (m *MeshControl) Doc() MeshControlDoc {
	param, run, limit, iter := m.parameter, m.runErrorEstimator, m.errorLimit, m.maxIterations
	return MeshControlDoc{
		Type:              "MeshControl",
		MeshType:          m.meshType,
		Parameter:         &param,
		RunErrorEstimator: &run,
		ErrorLimit:        &limit,
		MaxIterations:     &iter,
	}
}

func (m *MeshControl) MarshalJSON() ([]byte, error) { return json.Marshal(m.Doc()) }

// MeshControlFromDoc fills missing fields with the defaults.
func MeshControlFromDoc(d MeshControlDoc) (*MeshControl, error) {
	if err := validate.Struct(d); err != nil {
		return nil, err
	}
	def := DefaultMeshControl()
	param, run, limit, iter := def.parameter, def.runErrorEstimator, def.errorLimit, def.maxIterations
	if d.Parameter != nil {
		param = *d.Parameter
	}
	if d.RunErrorEstimator != nil {
		run = *d.RunErrorEstimator
	}
	if d.ErrorLimit != nil {
		limit = *d.ErrorLimit
	}
	if d.MaxIterations != nil {
		iter = *d.MaxIterations
	}
	return NewMeshControl(d.MeshType, param, run, limit, iter)
}

func (p *SimulationParameter) Doc() SimulationParameterDoc {
	mesh, exposure := p.mesh.Doc(), p.exposure.Doc()
	return SimulationParameterDoc{Type: "SimulationParameter", Mesh: &mesh, Exposure: &exposure}
}

func (p *SimulationParameter) MarshalJSON() ([]byte, error) { return json.Marshal(p.Doc()) }

// ParameterFromDoc builds a SimulationParameter. Missing parts get defaults.
func ParameterFromDoc(d SimulationParameterDoc) (*SimulationParameter, error) {
	if d.Type != "SimulationParameter" {
		return nil, fmt.Errorf("expected SimulationParameter, got %q", d.Type)
	}
	var (
		mesh     *MeshControl
		exposure *ModelExposure
		err      error
	)
	if d.Mesh != nil {
		if mesh, err = MeshControlFromDoc(*d.Mesh); err != nil {
			return nil, fmt.Errorf("mesh: %w", err)
		}
	}
	if d.Exposure != nil {
		if exposure, err = ExposureFromDoc(*d.Exposure); err != nil {
			return nil, fmt.Errorf("exposure: %w", err)
		}
	}
	return NewSimulationParameter(mesh, exposure), nil
}

// DecodeParameterJSON reads a SimulationParameter document.
func DecodeParameterJSON(data []byte) (*SimulationParameter, error) {
	var d SimulationParameterDoc
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode simulation parameter: %w", err)
	}
	return ParameterFromDoc(d)
}
