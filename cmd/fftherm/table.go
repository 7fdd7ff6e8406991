// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"strconv"
	"text/tabwriter"

	"github.com/cheynewallace/tabby"
)

func (s *session) table() *tabby.Tabby {
	return tabby.NewCustom(tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
