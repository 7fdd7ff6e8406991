// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/fftherm/internal/ident"
	"github.com/ManuGH/fftherm/internal/log"
	"github.com/ManuGH/fftherm/internal/model"
	"github.com/ManuGH/fftherm/internal/thmz"
)

// readModel decodes the model JSON of the request body. It writes the error
// response itself and returns nil on failure.
func (s *Server) readModel(w http.ResponseWriter, r *http.Request) *model.Model {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", err)
			return nil
		}
		writeError(w, http.StatusBadRequest, "read_failed", err)
		return nil
	}
	m, err := model.DecodeJSON(data, model.WithLibrary(s.lib))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_model", err)
		return nil
	}
	return m
}

func (s *Server) handleTranslateTHMZ(w http.ResponseWriter, r *http.Request) {
	m := s.readModel(w, r)
	if m == nil {
		return
	}
	var buf bytes.Buffer
	if err := thmz.Encode(r.Context(), m, &buf); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "translation_failed", err)
		return
	}
	logger := log.WithComponentFromContext(r.Context(), "api")
	logger.Debug().
		Str(log.FieldModel, m.Identifier()).
		Int("bytes", buf.Len()).
		Msg("model translated to thmz")

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s.thmz"`, ident.CleanString(m.DisplayName())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleTranslateXML(w http.ResponseWriter, r *http.Request) {
	m := s.readModel(w, r)
	if m == nil {
		return
	}
	out, err := thmz.MarshalModel(m)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "translation_failed", err)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "kind") {
	case "materials":
		writeJSON(w, http.StatusOK, s.lib.Materials())
	case "gases":
		writeJSON(w, http.StatusOK, s.lib.Gases())
	case "pure-gases":
		writeJSON(w, http.StatusOK, s.lib.PureGases())
	case "conditions":
		writeJSON(w, http.StatusOK, s.lib.Conditions())
	default:
		writeNotFound(w)
	}
}
