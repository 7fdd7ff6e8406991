// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package material

import (
	"fmt"
	"strings"

	"github.com/ManuGH/fftherm/internal/ident"
	"github.com/ManuGH/fftherm/internal/validate"
)

// CavityModel is the standard THERM uses to compute cavity heat transfer.
type CavityModel string

const (
	CavityCEN                CavityModel = "CEN"
	CavityNFRC               CavityModel = "NFRC"
	CavityISO15099           CavityModel = "ISO15099"
	CavityISO15099Ventilated CavityModel = "ISO15099Ventilated"
)

// CavityModels lists the supported cavity models.
var CavityModels = []CavityModel{CavityCEN, CavityNFRC, CavityISO15099, CavityISO15099Ventilated}

// ParseCavityModel matches s case-insensitively against CavityModels.
func ParseCavityModel(s string) (CavityModel, error) {
	clean := strings.ToLower(strings.TrimSpace(s))
	for _, m := range CavityModels {
		if strings.ToLower(string(m)) == clean {
			return m, nil
		}
	}
	return "", fmt.Errorf("cavity model %q is not supported (choose from %v)", s, CavityModels)
}

// CavityMaterial is an air space filled with a Gas.
type CavityMaterial struct {
	ident.Header
	gas            *Gas
	cavityModel    CavityModel
	emissivity     float64
	emissivityBack *float64
}

// NewCavityMaterial returns a cavity filled with gas. The gas is locked.
func NewCavityMaterial(id string, gas *Gas, model string, emissivity float64, emissivityBack *float64) (*CavityMaterial, error) {
	h, err := ident.NewHeader(id)
	if err != nil {
		return nil, err
	}
	cm, err := ParseCavityModel(model)
	if err != nil {
		return nil, err
	}
	c := &CavityMaterial{
		Header:         h,
		gas:            gas,
		cavityModel:    cm,
		emissivity:     emissivity,
		emissivityBack: optCopy(emissivityBack),
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	gas.Freeze()
	return c, nil
}

func (c *CavityMaterial) check() error {
	v := validate.New()
	if c.gas == nil {
		v.AddError("gas", "cavity gas is required", nil)
	}
	v.FloatRange("emissivity", c.emissivity, 0, 1)
	if c.emissivityBack != nil {
		v.FloatRange("emissivity_back", *c.emissivityBack, 0, 1)
	}
	return v.Err()
}

func (c *CavityMaterial) set(fn func(*CavityMaterial)) error {
	if err := c.CheckUnlocked(); err != nil {
		return err
	}
	next := *c
	fn(&next)
	if err := next.check(); err != nil {
		return err
	}
	*c = next
	return nil
}

func (c *CavityMaterial) Gas() *Gas               { return c.gas }
func (c *CavityMaterial) CavityModel() CavityModel { return c.cavityModel }
func (c *CavityMaterial) Emissivity() float64      { return c.emissivity }

// EmissivityBack falls back to the front emissivity when unset.
func (c *CavityMaterial) EmissivityBack() float64 {
	if c.emissivityBack == nil {
		return c.emissivity
	}
	return *c.emissivityBack
}

// SetGas replaces the fill gas and locks it.
func (c *CavityMaterial) SetGas(g *Gas) error {
	if err := c.set(func(n *CavityMaterial) { n.gas = g }); err != nil {
		return err
	}
	g.Freeze()
	return nil
}

func (c *CavityMaterial) SetCavityModel(model string) error {
	cm, err := ParseCavityModel(model)
	if err != nil {
		return err
	}
	return c.set(func(n *CavityMaterial) { n.cavityModel = cm })
}

func (c *CavityMaterial) SetEmissivity(v float64) error {
	return c.set(func(n *CavityMaterial) { n.emissivity = v })
}

func (c *CavityMaterial) SetEmissivityBack(v *float64) error {
	return c.set(func(n *CavityMaterial) { n.emissivityBack = optCopy(v) })
}

// Duplicate returns an unlocked copy that shares the gas.
func (c *CavityMaterial) Duplicate() *CavityMaterial {
	return &CavityMaterial{
		Header:         c.Header.Copy(),
		gas:            c.gas,
		cavityModel:    c.cavityModel,
		emissivity:     c.emissivity,
		emissivityBack: optCopy(c.emissivityBack),
	}
}

func (c *CavityMaterial) DuplicateMaterial() Material { return c.Duplicate() }

func (c *CavityMaterial) Equal(other Material) bool {
	o, ok := other.(*CavityMaterial)
	if !ok || o == nil {
		return false
	}
	return c.SameIdentity(&o.Header) &&
		c.Protected() == o.Protected() &&
		c.cavityModel == o.cavityModel &&
		c.emissivity == o.emissivity &&
		c.EmissivityBack() == o.EmissivityBack() &&
		c.gas.Equal(o.gas)
}

func (c *CavityMaterial) String() string {
	return fmt.Sprintf("CavityMaterial: %s (%s, %s)", c.DisplayName(), c.gas.DisplayName(), c.cavityModel)
}
