// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package lib is the default THERM library: the pure gases, gases,
// materials and boundary conditions every model can reference without
// declaring them. User library files from the THERM installation can be
// merged on top.
package lib

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/ManuGH/fftherm/internal/condition"
	"github.com/ManuGH/fftherm/internal/log"
	"github.com/ManuGH/fftherm/internal/material"
	"github.com/ManuGH/fftherm/internal/metrics"
)

//go:embed data/*.xml
var data embed.FS

// Names of the built-in objects.
const (
	GenericConcreteName = "Generic Concrete"
	ConcreteName        = "Concrete"
	AirCavityName       = "Air Cavity"
	ExteriorName        = "NFRC 100-2010 Exterior"
	InteriorName        = "NFRC 100-2010 Interior"
	AdiabaticName       = "Adiabatic"
	AirName             = "Air"
)

// Library is a locked, read-only set of THERM objects.
type Library struct {
	pureGases  []*material.PureGas
	gases      []*material.Gas
	materials  []material.Material
	conditions []*condition.SteadyState
}

// Files points at user library files. Empty paths are skipped.
type Files struct {
	Gases      string
	Materials  string
	Conditions string
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
	defaultErr  error
)

// Default returns the embedded library. It panics if the embedded data is
// unreadable, which only a broken build can cause.
func Default() *Library {
	defaultOnce.Do(func() {
		defaultLib, defaultErr = loadEmbedded()
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("lib: embedded library: %v", defaultErr))
	}
	return defaultLib
}

func loadEmbedded() (*Library, error) {
	open := func(name string) (io.Reader, error) {
		b, err := data.ReadFile("data/" + name)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(b), nil
	}
	gr, err := open("Gases.xml")
	if err != nil {
		return nil, err
	}
	mr, err := open("Materials.xml")
	if err != nil {
		return nil, err
	}
	cr, err := open("SteadyStateBC.xml")
	if err != nil {
		return nil, err
	}
	return parse(gr, mr, cr)
}

// parse reads the three library documents. Nil readers are skipped.
func parse(gases, materials, conditions io.Reader) (*Library, error) {
	l := &Library{}
	if gases != nil {
		g, pg, err := material.ExtractGases(gases)
		if err != nil {
			return nil, err
		}
		l.gases, l.pureGases = g, pg
	}
	if materials != nil {
		m, err := material.ExtractMaterials(materials, material.GasesByName(l.gases))
		if err != nil {
			return nil, err
		}
		l.materials = m
	}
	if conditions != nil {
		c, err := condition.ExtractAllFromXML(conditions)
		if err != nil {
			return nil, err
		}
		l.conditions = c
	}
	l.lock()
	return l, nil
}

func (l *Library) lock() {
	for _, pg := range l.pureGases {
		pg.Freeze()
	}
	for _, g := range l.gases {
		g.Freeze()
	}
	for _, m := range l.materials {
		m.Freeze()
	}
	for _, c := range l.conditions {
		c.Freeze()
	}
}

// Load returns the default library merged with the user files. Cavity
// materials of the user file may reference built-in gases. User entries
// whose name matches a protected built-in are ignored.
func Load(files Files) (*Library, error) {
	base := Default()
	logger := log.WithComponent("lib")

	readOpt := func(path string) (io.Reader, func(), error) {
		if path == "" {
			return nil, func() {}, nil
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open library file: %w", err)
		}
		return f, func() { _ = f.Close() }, nil
	}

	user := &Library{}
	gr, closeG, err := readOpt(files.Gases)
	if err != nil {
		return nil, err
	}
	defer closeG()
	if gr != nil {
		if user.gases, user.pureGases, err = material.ExtractGases(gr); err != nil {
			return nil, fmt.Errorf("%s: %w", files.Gases, err)
		}
	}

	merged := &Library{}
	merged.pureGases = mergeByName(base.pureGases, user.pureGases, (*material.PureGas).DisplayName, (*material.PureGas).Protected)
	merged.gases = mergeByName(base.gases, user.gases, (*material.Gas).DisplayName, (*material.Gas).Protected)

	mr, closeM, err := readOpt(files.Materials)
	if err != nil {
		return nil, err
	}
	defer closeM()
	if mr != nil {
		if user.materials, err = material.ExtractMaterials(mr, material.GasesByName(merged.gases)); err != nil {
			return nil, fmt.Errorf("%s: %w", files.Materials, err)
		}
	}
	merged.materials = mergeByName(base.materials, user.materials, material.Material.DisplayName, material.Material.Protected)

	cr, closeC, err := readOpt(files.Conditions)
	if err != nil {
		return nil, err
	}
	defer closeC()
	if cr != nil {
		if user.conditions, err = condition.ExtractAllFromXML(cr); err != nil {
			return nil, fmt.Errorf("%s: %w", files.Conditions, err)
		}
	}
	merged.conditions = mergeByName(base.conditions, user.conditions, (*condition.SteadyState).DisplayName, (*condition.SteadyState).Protected)

	merged.lock()
	metrics.SetLibraryEntries("materials", len(merged.materials))
	metrics.SetLibraryEntries("gases", len(merged.gases))
	metrics.SetLibraryEntries("conditions", len(merged.conditions))
	logger.Debug().
		Str(log.FieldEvent, "lib.loaded").
		Int("materials", len(merged.materials)).
		Int("gases", len(merged.gases)).
		Int("conditions", len(merged.conditions)).
		Msg("library loaded")
	return merged, nil
}

// mergeByName appends user entries to base. A user entry replaces an
// unprotected base entry of the same name and is dropped when the base entry
// is protected.
func mergeByName[T any](base, user []T, name func(T) string, protected func(T) bool) []T {
	out := append([]T(nil), base...)
	index := make(map[string]int, len(out))
	for i, v := range out {
		index[name(v)] = i
	}
	for _, v := range user {
		i, ok := index[name(v)]
		switch {
		case !ok:
			index[name(v)] = len(out)
			out = append(out, v)
		case !protected(out[i]):
			out[i] = v
		}
	}
	return out
}

func (l *Library) PureGases() []*material.PureGas {
	return append([]*material.PureGas(nil), l.pureGases...)
}

func (l *Library) Gases() []*material.Gas {
	return append([]*material.Gas(nil), l.gases...)
}

func (l *Library) Materials() []material.Material {
	return append([]material.Material(nil), l.materials...)
}

func (l *Library) Conditions() []*condition.SteadyState {
	return append([]*condition.SteadyState(nil), l.conditions...)
}

// Material looks up a material by identifier or display name.
func (l *Library) Material(key string) (material.Material, bool) {
	for _, m := range l.materials {
		if m.Identifier() == key || m.DisplayName() == key {
			return m, true
		}
	}
	return nil, false
}

// Gas looks up a gas by identifier or display name.
func (l *Library) Gas(key string) (*material.Gas, bool) {
	for _, g := range l.gases {
		if g.Identifier() == key || g.DisplayName() == key {
			return g, true
		}
	}
	return nil, false
}

// PureGas looks up a pure gas by identifier or display name.
func (l *Library) PureGas(key string) (*material.PureGas, bool) {
	for _, g := range l.pureGases {
		if g.Identifier() == key || g.DisplayName() == key {
			return g, true
		}
	}
	return nil, false
}

// Condition looks up a condition by identifier or display name.
func (l *Library) Condition(key string) (*condition.SteadyState, bool) {
	for _, c := range l.conditions {
		if c.Identifier() == key || c.DisplayName() == key {
			return c, true
		}
	}
	return nil, false
}

// MaterialNames returns the sorted display names of all materials.
func (l *Library) MaterialNames() []string {
	names := make([]string, 0, len(l.materials))
	for _, m := range l.materials {
		names = append(names, m.DisplayName())
	}
	sort.Strings(names)
	return names
}

func mustMaterial(name string) material.Material {
	m, ok := Default().Material(name)
	if !ok {
		panic("lib: missing built-in material " + name)
	}
	return m
}

func mustCondition(name string) *condition.SteadyState {
	c, ok := Default().Condition(name)
	if !ok {
		panic("lib: missing built-in condition " + name)
	}
	return c
}

// GenericConcrete is the default material of a shape.
func GenericConcrete() *material.SolidMaterial {
	return mustMaterial(GenericConcreteName).(*material.SolidMaterial)
}

func Concrete() *material.SolidMaterial {
	return mustMaterial(ConcreteName).(*material.SolidMaterial)
}

func AirCavity() *material.CavityMaterial {
	return mustMaterial(AirCavityName).(*material.CavityMaterial)
}

// Exterior is the default condition of a boundary.
func Exterior() *condition.SteadyState { return mustCondition(ExteriorName) }

func Interior() *condition.SteadyState { return mustCondition(InteriorName) }

func Adiabatic() *condition.SteadyState { return mustCondition(AdiabaticName) }

// Air is the air gas mixture.
func Air() *material.Gas {
	g, ok := Default().Gas(AirName)
	if !ok {
		panic("lib: missing built-in gas " + AirName)
	}
	return g
}
