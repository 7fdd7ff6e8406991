// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package lib_test

import "github.com/ManuGH/fftherm/internal/xmlutil"

func marshal(doc interface{}) (string, error) {
	out, err := xmlutil.MarshalDocument(doc)
	return string(out), err
}
