// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package thmz

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/renameio/v2"
	"github.com/klauspost/compress/zip"

	"github.com/ManuGH/fftherm/internal/condition"
	"github.com/ManuGH/fftherm/internal/lib"
	"github.com/ManuGH/fftherm/internal/log"
	"github.com/ManuGH/fftherm/internal/material"
	"github.com/ManuGH/fftherm/internal/metrics"
	"github.com/ManuGH/fftherm/internal/model"
	"github.com/ManuGH/fftherm/internal/xmlutil"
)

// Archive entry names.
const (
	EntryModel       = "Model.xml"
	EntryMaterials   = "Materials.xml"
	EntryGases       = "Gases.xml"
	EntryConditions  = "SteadyStateBC.xml"
	EntryMesh        = "Mesh.xml"
	EntryMeshResults = "SteadyStateMeshResults.xml"
	EntryResults     = "SteadyStateResults.xml"
)

// maxEntrySize caps a decompressed entry.
const maxEntrySize = 256 * 1024 * 1024

type entry struct {
	name string
	data []byte
}

// entries renders every document of the archive in write order.
func entries(m *model.Model) ([]entry, error) {
	modelXML, err := MarshalModel(m)
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	mats, err := xmlutil.MarshalDocument(material.MaterialsDocument(m.Materials()))
	if err != nil {
		return nil, fmt.Errorf("materials: %w", err)
	}
	gases, err := xmlutil.MarshalDocument(material.GasesDocument(m.Gases(), m.PureGases()))
	if err != nil {
		return nil, fmt.Errorf("gases: %w", err)
	}
	conds, err := xmlutil.MarshalDocument(condition.Document(conditions(m)))
	if err != nil {
		return nil, fmt.Errorf("conditions: %w", err)
	}
	return []entry{
		{EntryModel, modelXML},
		{EntryMaterials, mats},
		{EntryGases, gases},
		{EntryConditions, conds},
	}, nil
}

// conditions returns the model conditions plus the adiabatic condition THERM
// assigns to every edge without a boundary.
func conditions(m *model.Model) []*condition.SteadyState {
	conds := m.Conditions()
	adiabatic := lib.Adiabatic()
	for _, c := range conds {
		if c.DisplayName() == adiabatic.DisplayName() {
			return conds
		}
	}
	return append(conds, adiabatic)
}

// Encode writes the .thmz archive of m to w.
func Encode(ctx context.Context, m *model.Model, w io.Writer) error {
	files, err := entries(m)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(w)
	modified := time.Now()
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			_ = zw.Close()
			return err
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: f.name, Method: zip.Deflate, Modified: modified})
		if err != nil {
			_ = zw.Close()
			return fmt.Errorf("create %s: %w", f.name, err)
		}
		if _, err := fw.Write(f.data); err != nil {
			_ = zw.Close()
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}

// WriteTHMZ writes m as a .thmz file. The file is replaced atomically and
// missing parent directories are created.
func WriteTHMZ(ctx context.Context, m *model.Model, path string) (err error) {
	logger := log.WithComponentFromContext(ctx, "thmz")
	start := time.Now()
	defer func() { metrics.RecordTHMZWritten(err == nil, len(m.Shapes())) }()

	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	pendingFile, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending thmz file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending thmz file")
		}
	}()

	if err := Encode(ctx, m, pendingFile); err != nil {
		return err
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace thmz file: %w", err)
	}

	logger.Info().
		Str(log.FieldEvent, "thmz.written").
		Str(log.FieldThmzPath, path).
		Str(log.FieldModel, m.Identifier()).
		Int(log.FieldShapes, len(m.Shapes())).
		Int(log.FieldBoundaries, len(m.Boundaries())).
		Dur(log.FieldDuration, time.Since(start)).
		Msg("wrote thmz file")
	return nil
}

// Archive is an opened .thmz file.
type Archive struct {
	path   string
	closer io.Closer
	files  map[string]*zip.File
}

// ReadTHMZ opens the archive at path. Close releases the file.
func ReadTHMZ(path string) (*Archive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open thmz %s: %w", path, err)
	}
	a := newArchive(&rc.Reader)
	a.path, a.closer = path, rc
	return a, nil
}

// NewArchive reads an in-memory archive.
func NewArchive(data []byte) (*Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open thmz: %w", err)
	}
	return newArchive(zr), nil
}

func newArchive(zr *zip.Reader) *Archive {
	a := &Archive{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		a.files[f.Name] = f
	}
	return a
}

func (a *Archive) Path() string { return a.path }

// Names lists the entries in lexical order.
func (a *Archive) Names() []string {
	names := make([]string, 0, len(a.files))
	for n := range a.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (a *Archive) Has(name string) bool {
	_, ok := a.files[name]
	return ok
}

// Open returns a reader for an entry. It fails with os.ErrNotExist when the
// entry is missing.
func (a *Archive) Open(name string) (io.ReadCloser, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("thmz entry %s: %w", name, os.ErrNotExist)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("thmz entry %s: %w", name, err)
	}
	return rc, nil
}

// ReadFile returns the decompressed contents of an entry.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	rc, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("read thmz entry %s: %w", name, err)
	}
	if len(data) > maxEntrySize {
		return nil, fmt.Errorf("thmz entry %s exceeds %d bytes", name, maxEntrySize)
	}
	return data, nil
}

// Model decodes Model.xml.
func (a *Archive) Model() (*ThermModelXML, error) {
	rc, err := a.Open(EntryModel)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	var doc ThermModelXML
	if err := xmlutil.Decode(rc, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", EntryModel, err)
	}
	return &doc, nil
}

func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
