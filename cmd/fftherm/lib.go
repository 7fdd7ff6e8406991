// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"strings"

	"github.com/urfave/cli"

	"github.com/ManuGH/fftherm/internal/lib"
	"github.com/ManuGH/fftherm/internal/material"
	"github.com/ManuGH/fftherm/internal/model"
)

func (s *session) libCommand() cli.Command {
	sub := func(name, usage string, action cli.ActionFunc) cli.Command {
		return cli.Command{Name: name, Usage: usage, OnUsageError: onUsageError, Action: action}
	}
	return cli.Command{
		Name:         "lib",
		Usage:        "list the material, gas and condition library",
		Action:       groupAction,
		OnUsageError: onUsageError,
		Subcommands: []cli.Command{
			sub("materials", "list solid and cavity materials", s.libMaterials),
			sub("gases", "list gases and their mixtures", s.libGases),
			sub("conditions", "list steady-state boundary conditions", s.libConditions),
		},
	}
}

// library loads the built-in library merged with the configured THERM
// library files.
func (s *session) library(c *cli.Context) (*lib.Library, error) {
	if _, err := args(c, 0, 0); err != nil {
		return nil, err
	}
	cfg, err := s.config()
	if err != nil {
		return nil, err
	}
	return lib.Load(cfg.Folders.LibFiles())
}

// loadModel reads a model file and resolves its references against the
// configured library. Without a usable config the built-in library is
// used, so translation works before THERM is installed.
func (s *session) loadModel(path string) (*model.Model, error) {
	if s.loadErr != nil {
		return model.Load(path)
	}
	l, err := lib.Load(s.cfg.Folders.LibFiles())
	if err != nil {
		return nil, err
	}
	return model.Load(path, model.WithLibrary(l))
}

func (s *session) libMaterials(c *cli.Context) error {
	l, err := s.library(c)
	if err != nil {
		return err
	}
	t := s.table()
	t.AddHeader("NAME", "TYPE", "CONDUCTIVITY", "EMISSIVITY", "GAS")
	for _, m := range l.Materials() {
		switch m := m.(type) {
		case *material.SolidMaterial:
			t.AddLine(m.DisplayName(), "solid", num(m.Conductivity()), num(m.Emissivity()), "")
		case *material.CavityMaterial:
			t.AddLine(m.DisplayName(), "cavity", "", num(m.Emissivity()), m.Gas().DisplayName())
		}
	}
	t.Print()
	return nil
}

func (s *session) libGases(c *cli.Context) error {
	l, err := s.library(c)
	if err != nil {
		return err
	}
	t := s.table()
	t.AddHeader("NAME", "CONDUCTIVITY", "VISCOSITY", "SPECIFIC HEAT", "COMPONENTS")
	for _, g := range l.Gases() {
		fractions := g.Fractions()
		parts := make([]string, len(fractions))
		for i, pg := range g.PureGases() {
			parts[i] = pg.DisplayName() + " " + num(fractions[i]*100) + "%"
		}
		t.AddLine(g.DisplayName(), num(g.Conductivity()), num(g.Viscosity()), num(g.SpecificHeat()),
			strings.Join(parts, ", "))
	}
	t.Print()
	return nil
}

func (s *session) libConditions(c *cli.Context) error {
	l, err := s.library(c)
	if err != nil {
		return err
	}
	t := s.table()
	t.AddHeader("NAME", "TEMPERATURE", "FILM COEFFICIENT", "EMISSIVITY", "HEAT FLUX")
	for _, bc := range l.Conditions() {
		t.AddLine(bc.DisplayName(), num(bc.Temperature()), num(bc.FilmCoefficient()),
			num(bc.Emissivity()), num(bc.HeatFlux()))
	}
	t.Print()
	return nil
}
