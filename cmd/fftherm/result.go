// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"encoding/json"

	"github.com/urfave/cli"

	"github.com/ManuGH/fftherm/internal/result"
)

func (s *session) resultCommand() cli.Command {
	return cli.Command{
		Name:         "result",
		Usage:        "read the results of a simulated .thmz archive",
		Action:       groupAction,
		OnUsageError: onUsageError,
		Subcommands: []cli.Command{
			{
				Name:         "u-factors",
				Usage:        "print the U-factors of each tag",
				ArgsUsage:    "THMZ",
				OnUsageError: onUsageError,
				Flags: []cli.Flag{
					cli.BoolFlag{Name: "json", Usage: "print JSON instead of a table"},
				},
				Action: s.resultUFactors,
			},
			{
				Name:         "temperatures",
				Usage:        "print the temperature and heat flux of each mesh node",
				ArgsUsage:    "THMZ",
				OnUsageError: onUsageError,
				Action:       s.resultTemperatures,
			},
		},
	}
}

func loadResult(c *cli.Context) (*result.THMZResult, error) {
	a, err := args(c, 1, 1)
	if err != nil {
		return nil, err
	}
	return result.Load(a[0])
}

func (s *session) resultUFactors(c *cli.Context) error {
	r, err := loadResult(c)
	if err != nil {
		return err
	}
	if r.UFactors == nil {
		return result.ErrNoResults
	}
	if c.Bool("json") {
		enc := json.NewEncoder(s.out)
		enc.SetIndent("", "  ")
		return enc.Encode(r.UFactors)
	}
	t := s.table()
	t.AddHeader("TAG", "DELTA T", "HEAT FLUX", "TOTAL LENGTH", "U-FACTOR", "PROJ X", "PROJ Y")
	for _, u := range r.UFactors {
		t.AddLine(u.Tag, num(u.DeltaT), num(u.HeatFlux), num(u.TotalLength),
			num(u.TotalUFactor), num(u.ProjectedXUFactor), num(u.ProjectedYUFactor))
	}
	t.Print()
	return nil
}

func (s *session) resultTemperatures(c *cli.Context) error {
	r, err := loadResult(c)
	if err != nil {
		return err
	}
	if r.Temperatures == nil {
		return result.ErrNoResults
	}
	t := s.table()
	t.AddHeader("NODE", "X", "Y", "Z", "TEMPERATURE", "HEAT FLUX")
	for i, temp := range r.Temperatures {
		x, y, z := "", "", ""
		if r.Mesh != nil {
			v := r.Mesh.Vertices[i]
			x, y, z = num(v.X), num(v.Y), num(v.Z)
		}
		t.AddLine(i+1, x, y, z, num(temp), num(r.HeatFluxMagnitudes[i]))
	}
	t.Print()
	return nil
}
