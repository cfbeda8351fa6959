package model

import (
	"errors"
	"fmt"
)

var (
	ErrSchema         = errors.New("catalog schema error")
	ErrNoMatch        = errors.New("no matching catalog entry")
	ErrEmptyFavorites = errors.New("at least one favorite is required")
)

// SchemaError is returned when a required column has no recognised header.
type SchemaError struct {
	Column string
	Source string
}

func (e *SchemaError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("missing %s column", e.Column)
	}
	return fmt.Sprintf("%s: missing %s column", e.Source, e.Column)
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// NoMatchError carries the user's original text so it can be echoed back.
type NoMatchError struct {
	Query string
}

func (e *NoMatchError) Error() string { return fmt.Sprintf("no close match for %q", e.Query) }

func (e *NoMatchError) Unwrap() error { return ErrNoMatch }
