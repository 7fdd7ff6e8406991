// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package geometry

import (
	"encoding/json"
	"fmt"
)

type vecDoc [3]float64

func toDoc(v Vec) vecDoc   { return vecDoc{v.X, v.Y, v.Z} }
func fromDoc(d vecDoc) Vec { return Vec{X: d[0], Y: d[1], Z: d[2]} }

func loopToDoc(loop []Vec) []vecDoc {
	out := make([]vecDoc, len(loop))
	for i, v := range loop {
		out[i] = toDoc(v)
	}
	return out
}

func loopFromDoc(loop []vecDoc) []Vec {
	out := make([]Vec, len(loop))
	for i, v := range loop {
		out[i] = fromDoc(v)
	}
	return out
}

type planeDoc struct {
	Type string `json:"type"`
	N    vecDoc `json:"n"`
	O    vecDoc `json:"o"`
	X    vecDoc `json:"x"`
}

// MarshalJSON implements json.Marshaler.
func (p Plane) MarshalJSON() ([]byte, error) {
	return json.Marshal(planeDoc{Type: "Plane", N: toDoc(p.Normal), O: toDoc(p.Origin), X: toDoc(p.XAxis)})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Plane) UnmarshalJSON(b []byte) error {
	var doc planeDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	if doc.Type != "Plane" {
		return fmt.Errorf("expected Plane, got %q", doc.Type)
	}
	pl, err := NewPlane(fromDoc(doc.O), fromDoc(doc.N), fromDoc(doc.X))
	if err != nil {
		return err
	}
	*p = pl
	return nil
}

type faceDoc struct {
	Type     string     `json:"type"`
	Boundary []vecDoc   `json:"boundary"`
	Holes    [][]vecDoc `json:"holes,omitempty"`
	Plane    *Plane     `json:"plane,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (f *Face3D) MarshalJSON() ([]byte, error) {
	doc := faceDoc{Type: "Face3D", Boundary: loopToDoc(f.Boundary)}
	for _, h := range f.Holes {
		doc.Holes = append(doc.Holes, loopToDoc(h))
	}
	pl := f.plane
	doc.Plane = &pl
	return json.Marshal(doc)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Face3D) UnmarshalJSON(b []byte) error {
	var doc faceDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	if doc.Type != "Face3D" {
		return fmt.Errorf("expected Face3D, got %q", doc.Type)
	}
	holes := make([][]Vec, 0, len(doc.Holes))
	for _, h := range doc.Holes {
		holes = append(holes, loopFromDoc(h))
	}
	var (
		face *Face3D
		err  error
	)
	if doc.Plane != nil {
		face, err = NewFace3DInPlane(loopFromDoc(doc.Boundary), holes, *doc.Plane)
	} else {
		face, err = NewFace3D(loopFromDoc(doc.Boundary), holes)
	}
	if err != nil {
		return err
	}
	*f = *face
	return nil
}

type segmentDoc struct {
	Type string `json:"type"`
	P    vecDoc `json:"p"`
	V    vecDoc `json:"v"`
}

// MarshalJSON implements json.Marshaler.
func (s LineSegment3D) MarshalJSON() ([]byte, error) {
	return json.Marshal(segmentDoc{Type: "LineSegment3D", P: toDoc(s.P), V: toDoc(s.V)})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *LineSegment3D) UnmarshalJSON(b []byte) error {
	var doc segmentDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	if doc.Type != "LineSegment3D" {
		return fmt.Errorf("expected LineSegment3D, got %q", doc.Type)
	}
	*s = LineSegment3D{P: fromDoc(doc.P), V: fromDoc(doc.V)}
	return nil
}
