// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package xmlutil holds the hardened decoder and the indented encoder used
// for every THERM XML document.
package xmlutil

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// MaxDocumentSize caps the bytes read from a single XML document.
const MaxDocumentSize = 64 * 1024 * 1024

// Header is written at the top of every document.
const Header = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// NewDecoder returns a strict decoder with entity expansion disabled.
// Documents declared as ISO-8859-1, ISO-8859-15 or windows-1252 are
// transcoded to UTF-8.
func NewDecoder(r io.Reader) *xml.Decoder {
	dec := xml.NewDecoder(io.LimitReader(r, MaxDocumentSize))
	dec.Strict = true
	dec.Entity = make(map[string]string)
	dec.CharsetReader = charsetReader
	return dec
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "utf-8", "utf8", "":
		return input, nil
	case "iso-8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	default:
		return nil, fmt.Errorf("unsupported XML charset %q", label)
	}
}

// Decode reads a single document into v.
func Decode(r io.Reader, v interface{}) error {
	if err := NewDecoder(r).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// DecodeString reads a single document from s into v.
func DecodeString(s string, v interface{}) error {
	return Decode(strings.NewReader(s), v)
}

// Marshal renders v indented with two spaces and without a declaration.
func Marshal(v interface{}) ([]byte, error) {
	return xml.MarshalIndent(v, "", "  ")
}

// MarshalDocument renders v as a complete document with the XML declaration.
func MarshalDocument(v interface{}) ([]byte, error) {
	out, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(len(Header) + len(out) + 1)
	buf.WriteString(Header)
	buf.Write(out)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// RootName returns the local name of the first element in data.
func RootName(data []byte) (string, error) {
	dec := NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se.Name.Local, nil
		}
	}
}
