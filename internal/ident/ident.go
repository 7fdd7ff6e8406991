// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package ident holds the identity fields shared by every THERM library
// object: identifier, display name, color, protection and lock state.
package ident

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrLocked is returned by every setter of a locked object.
	ErrLocked = errors.New("object is locked")
	// ErrInvalidIdentifier is returned when an identifier is not a UUID.
	ErrInvalidIdentifier = errors.New("identifier must be a UUID")
	// ErrMissingReference is returned when a reference by identifier or name
	// cannot be resolved.
	ErrMissingReference = errors.New("missing reference")
)

// thermNamespace seeds name-based UUIDs for identifiers that are not UUIDs.
var thermNamespace = uuid.MustParse("0b7c1f3e-5d0a-4d2b-9c0e-7a1b2c3d4e5f")

// NewIdentifier returns a random UUID identifier.
func NewIdentifier() string {
	return uuid.NewString()
}

// ParseIdentifier validates id and returns its canonical lower-case form.
func ParseIdentifier(id string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	}
	return parsed.String(), nil
}

// ThermUUID returns the 36 character UUID THERM stores for id. Identifiers
// that are not UUIDs map to a stable name-based UUID.
func ThermUUID(id string) string {
	if parsed, err := uuid.Parse(strings.TrimSpace(id)); err == nil {
		return parsed.String()
	}
	return uuid.NewSHA1(thermNamespace, []byte(id)).String()
}

// Header is embedded by materials, gases and conditions.
type Header struct {
	identifier  string
	displayName string
	color       Color
	protected   bool
	locked      bool
}

// NewHeader returns a Header for id. An empty id gets a random UUID.
func NewHeader(id string) (Header, error) {
	if id == "" {
		id = NewIdentifier()
	}
	canonical, err := ParseIdentifier(id)
	if err != nil {
		return Header{}, err
	}
	return Header{identifier: canonical, color: ColorFromIdentifier(canonical)}, nil
}

// Identifier returns the UUID of the object.
func (h *Header) Identifier() string { return h.identifier }

// ThermUUID returns the identifier in the form THERM writes it.
func (h *Header) ThermUUID() string { return ThermUUID(h.identifier) }

// DisplayName returns the display name, falling back to the identifier.
func (h *Header) DisplayName() string {
	if h.displayName == "" {
		return h.identifier
	}
	return h.displayName
}

// Color returns the display color.
func (h *Header) Color() Color { return h.color }

// Protected reports whether THERM should treat the object as read-only.
func (h *Header) Protected() bool { return h.protected }

// IsLocked reports whether setters are currently refused.
func (h *Header) IsLocked() bool { return h.locked }

// Freeze makes every setter return ErrLocked until Thaw is called.
func (h *Header) Freeze() { h.locked = true }

// Thaw re-enables the setters.
func (h *Header) Thaw() { h.locked = false }

// CheckUnlocked returns ErrLocked when the object is locked.
func (h *Header) CheckUnlocked() error {
	if h.locked {
		return ErrLocked
	}
	return nil
}

// SetIdentifier replaces the identifier. Only UUIDs are accepted.
func (h *Header) SetIdentifier(id string) error {
	if err := h.CheckUnlocked(); err != nil {
		return err
	}
	canonical, err := ParseIdentifier(id)
	if err != nil {
		return err
	}
	h.identifier = canonical
	return nil
}

func (h *Header) SetDisplayName(name string) error {
	if err := h.CheckUnlocked(); err != nil {
		return err
	}
	h.displayName = name
	return nil
}

func (h *Header) SetColor(c Color) error {
	if err := h.CheckUnlocked(); err != nil {
		return err
	}
	h.color = c
	return nil
}

func (h *Header) SetProtected(p bool) error {
	if err := h.CheckUnlocked(); err != nil {
		return err
	}
	h.protected = p
	return nil
}

// Copy returns an unlocked copy of the header.
func (h *Header) Copy() Header {
	c := *h
	c.locked = false
	return c
}

// SameIdentity compares identifier and display name.
func (h *Header) SameIdentity(o *Header) bool {
	return h.identifier == o.identifier && h.DisplayName() == o.DisplayName()
}

// Apply sets the display name, protection and color read from a JSON
// document. Empty values leave the current ones in place.
func (h *Header) Apply(name string, protected bool, color string) error {
	if name != "" {
		if err := h.SetDisplayName(name); err != nil {
			return err
		}
	}
	if err := h.SetProtected(protected); err != nil {
		return err
	}
	if color == "" {
		return nil
	}
	c, err := ParseColor(color)
	if err != nil {
		return err
	}
	return h.SetColor(c)
}

// HeaderFromTherm builds a Header from the fields of a THERM library
// element. UUIDs are accepted in any case, other identifiers map to stable
// name-based UUIDs and unreadable colors keep the derived one.
func HeaderFromTherm(id, name string, protected bool, color string) (Header, error) {
	h, err := NewHeader(ThermUUID(id))
	if err != nil {
		return Header{}, err
	}
	h.displayName = strings.TrimSpace(name)
	h.protected = protected
	if color != "" {
		if c, err := ParseColor(color); err == nil {
			h.color = c
		}
	}
	return h, nil
}
