// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package middleware

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// StackConfig selects the optional layers of the ingress stack. Panic
// recovery, path cleaning and request IDs are always installed.
type StackConfig struct {
	SecurityHeaders bool
	CSP             string
	Metrics         bool
	AccessLog       bool
	// Timeout cancels the request context of slow handlers; zero disables it.
	Timeout time.Duration
}

// NewRouter returns a chi router with the stack installed.
func NewRouter(cfg StackConfig) *chi.Mux {
	r := chi.NewRouter()
	r.Use(cfg.layers()...)
	return r
}

// layers lists the middleware outermost first. Metrics and the access log
// sit inside the security headers so they observe the final status.
func (cfg StackConfig) layers() chi.Middlewares {
	out := chi.Middlewares{chimw.Recoverer, chimw.CleanPath, RequestID}
	if cfg.SecurityHeaders {
		out = append(out, SecurityHeaders(cfg.CSP))
	}
	if cfg.Metrics {
		out = append(out, Metrics())
	}
	if cfg.AccessLog {
		out = append(out, Logging)
	}
	if cfg.Timeout > 0 {
		out = append(out, chimw.Timeout(cfg.Timeout))
	}
	return out
}
