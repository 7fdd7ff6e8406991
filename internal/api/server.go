// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api serves model translation and the THERM library over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuGH/fftherm/internal/api/middleware"
	"github.com/ManuGH/fftherm/internal/health"
	"github.com/ManuGH/fftherm/internal/lib"
	"github.com/ManuGH/fftherm/internal/log"
)

const (
	maxBodyBytes    = 32 << 20
	requestTimeout  = time.Minute
	shutdownTimeout = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	Library *lib.Library
	Version string
	// RateLimit is requests per minute and client IP; zero disables it.
	RateLimit int
	// Health serves /healthz and /readyz. Nil selects a manager without
	// component checks.
	Health *health.Manager
}

// Server holds the HTTP routes of fftherm.
type Server struct {
	lib    *lib.Library
	router chi.Router
}

// New builds the server. A nil library selects the embedded default.
func New(opts Options) *Server {
	s := &Server{lib: opts.Library}
	if s.lib == nil {
		s.lib = lib.Default()
	}
	hm := opts.Health
	if hm == nil {
		hm = health.NewManager(opts.Version)
	}

	r := middleware.NewRouter(middleware.StackConfig{
		SecurityHeaders: true,
		Metrics:         true,
		AccessLog:       true,
		Timeout:         requestTimeout,
	})
	r.Get("/healthz", hm.ServeHealth)
	r.Get("/readyz", hm.ServeReady)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/v1", func(r chi.Router) {
		if opts.RateLimit > 0 {
			r.Use(middleware.APIRateLimit(opts.RateLimit))
		}
		r.Post("/translate/thmz", s.handleTranslateTHMZ)
		r.Post("/translate/xml", s.handleTranslateXML)
		r.Get("/library/{kind}", s.handleLibrary)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { writeNotFound(w) })
	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx ends, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx ends. It closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logger := log.WithComponentFromContext(ctx, "api")
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	logger.Info().
		Str(log.FieldEvent, "api.listening").
		Str("addr", ln.Addr().String()).
		Msg("HTTP API listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info().Str(log.FieldEvent, "api.stopped").Msg("HTTP API stopped")
	return nil
}
