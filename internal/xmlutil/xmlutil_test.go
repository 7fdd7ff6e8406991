// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package xmlutil

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type named struct {
	XMLName xml.Name `xml:"Material"`
	Name    string   `xml:"Name"`
}

func TestDecodeLegacyCharset(t *testing.T) {
	// "Béton" encoded as ISO-8859-1
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<Material><Name>B\xe9ton</Name></Material>"
	var m named
	require.NoError(t, DecodeString(doc, &m))
	assert.Equal(t, "Béton", m.Name)
}

func TestDecodeRejectsEntityExpansion(t *testing.T) {
	doc := `<?xml version="1.0"?>
<!DOCTYPE lolz [<!ENTITY lol "lol">]>
<Material><Name>&lol;</Name></Material>`
	var m named
	assert.Error(t, DecodeString(doc, &m))
}

func TestDecodeUnknownCharset(t *testing.T) {
	doc := `<?xml version="1.0" encoding="EBCDIC"?><Material><Name>x</Name></Material>`
	var m named
	assert.Error(t, DecodeString(doc, &m))
}

func TestMarshalDocument(t *testing.T) {
	out, err := MarshalDocument(named{Name: "Concrete"})
	require.NoError(t, err)
	s := string(out)
	assert.True(t, strings.HasPrefix(s, Header))
	assert.Contains(t, s, "<Material>\n  <Name>Concrete</Name>\n</Material>")

	root, err := RootName(out)
	require.NoError(t, err)
	assert.Equal(t, "Material", root)
}
