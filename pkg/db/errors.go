package db

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an identifier is absent from an index or a
// per-group sequence file does not exist.
var ErrNotFound = errors.New("not found")

// NotFoundError names what was looked up. errors.Is(err, ErrNotFound) holds.
type NotFoundError struct {
	Kind string // species, group, protein, gene, group proteins, ...
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// TableError reports a malformed row in one of the source tables.
type TableError struct {
	File   string
	Line   int
	Column string
	Err    error
}

func (e *TableError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: column %s: %v", e.File, e.Line, e.Column, e.Err)
}

func (e *TableError) Unwrap() error {
	return e.Err
}
