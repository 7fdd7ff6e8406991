// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package result

import "fmt"

// UFactor is the result of one U-factor tag. Lengths are in millimeters,
// delta T in kelvin, heat flux in W/m2 and U-factors in W/m2-K.
type UFactor struct {
	Tag      string  `json:"tag"`
	DeltaT   float64 `json:"delta_t"`
	HeatFlux float64 `json:"heat_flux"`

	TotalLength       float64 `json:"total_length"`
	TotalUFactor      float64 `json:"total_u_factor"`
	ProjectedXLength  float64 `json:"projected_x_length"`
	ProjectedXUFactor float64 `json:"projected_x_u_factor"`
	ProjectedYLength  float64 `json:"projected_y_length"`
	ProjectedYUFactor float64 `json:"projected_y_u_factor"`

	CustomLength  *float64 `json:"custom_length,omitempty"`
	CustomUFactor *float64 `json:"custom_u_factor,omitempty"`
}

func uFactors(doc ResultsXML) []UFactor {
	out := []UFactor{}
	for _, c := range doc.Cases {
		for _, x := range c.UFactors {
			out = append(out, uFactorFromXML(x))
		}
	}
	return out
}

func uFactorFromXML(x UFactorXML) UFactor {
	u := UFactor{Tag: x.Tag, DeltaT: x.DeltaT.Value, HeatFlux: x.HeatFlux.Value}
	for _, p := range x.Projections {
		length, uf := p.Length.Value, p.UFactor.Value
		switch p.LengthType {
		case LengthTotal:
			u.TotalLength, u.TotalUFactor = length, uf
		case LengthProjectedX:
			u.ProjectedXLength, u.ProjectedXUFactor = length, uf
		case LengthProjectedY:
			u.ProjectedYLength, u.ProjectedYUFactor = length, uf
		case LengthCustom:
			u.CustomLength, u.CustomUFactor = &length, &uf
		}
	}
	return u
}

func (u UFactor) String() string {
	return fmt.Sprintf("UFactor: %s %.6g W/m2-K", u.Tag, u.TotalUFactor)
}
