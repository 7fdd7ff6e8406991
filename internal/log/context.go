// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

import (
	"context"

	"github.com/rs/zerolog"
)

// correlation is a context key whose value is copied into every log line
// written through WithContext under the field of the same name.
type correlation string

const (
	runIDKey     correlation = FieldRunID
	requestIDKey correlation = FieldRequestID
)

// correlations lists the keys in the order they appear in log output.
var correlations = []correlation{requestIDKey, runIDKey}

func with(ctx context.Context, key correlation, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, key, id)
}

func lookup(ctx context.Context, key correlation) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(key).(string)
	return id
}

// ContextWithRunID tags ctx with the ID of a THERM run.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return with(ctx, runIDKey, id)
}

// ContextWithRequestID tags ctx with the ID of an HTTP request.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return with(ctx, requestIDKey, id)
}

func RunIDFromContext(ctx context.Context) string { return lookup(ctx, runIDKey) }

func RequestIDFromContext(ctx context.Context) string { return lookup(ctx, requestIDKey) }

// WithContext adds the non-empty correlation IDs of ctx to logger.
func WithContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	var b *zerolog.Context
	for _, key := range correlations {
		id := lookup(ctx, key)
		if id == "" {
			continue
		}
		if b == nil {
			c := logger.With()
			b = &c
		}
		*b = b.Str(string(key), id)
	}
	if b == nil {
		return logger
	}
	return b.Logger()
}

// WithComponentFromContext is WithComponent plus the correlation IDs of ctx.
func WithComponentFromContext(ctx context.Context, component string) zerolog.Logger {
	return WithContext(ctx, WithComponent(component))
}

// FromContext returns the logger attached to ctx by zerolog, or the base
// logger with the correlation IDs of ctx.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return L()
	}
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	l := WithContext(ctx, Base())
	return &l
}
