// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package simulation

// SimulationParameter bundles the meshing procedure and the exposure of a
// model. Neither part is ever nil.
type SimulationParameter struct {
	mesh     *MeshControl
	exposure *ModelExposure
}

// NewSimulationParameter returns a parameter with defaults for nil parts.
func NewSimulationParameter(mesh *MeshControl, exposure *ModelExposure) *SimulationParameter {
	p := &SimulationParameter{}
	p.SetMesh(mesh)
	p.SetExposure(exposure)
	return p
}

func (p *SimulationParameter) Mesh() *MeshControl       { return p.mesh }
func (p *SimulationParameter) Exposure() *ModelExposure { return p.exposure }

// SetMesh replaces the mesh control. nil restores the default.
func (p *SimulationParameter) SetMesh(m *MeshControl) {
	if m == nil {
		m = DefaultMeshControl()
	}
	p.mesh = m
}

// SetExposure replaces the exposure. nil restores the default.
func (p *SimulationParameter) SetExposure(e *ModelExposure) {
	if e == nil {
		e = DefaultModelExposure()
	}
	p.exposure = e
}

func (p *SimulationParameter) Duplicate() *SimulationParameter {
	return &SimulationParameter{mesh: p.mesh.Duplicate(), exposure: p.exposure.Duplicate()}
}

func (p *SimulationParameter) Equal(o *SimulationParameter) bool {
	return o != nil && p.mesh.Equal(o.mesh) && p.exposure.Equal(o.exposure)
}

func (p *SimulationParameter) String() string { return "Therm SimulationParameter" }
