package resolve

import (
	"errors"
	"fmt"

	"github.com/cachegraph/cachegraph/internal/schema"
)

var (
	// ErrUnknownField is returned when resolving a field name the schema
	// does not declare.
	ErrUnknownField = errors.New("unknown field")

	// ErrReadOnlyField is returned when writing through a derived or
	// @hash field.
	ErrReadOnlyField = errors.New("field is read-only")

	// ErrMissingDiscriminator is returned when a polymorphic field's raw
	// value lacks a discriminator, or the discriminator names no
	// registered schema.
	ErrMissingDiscriminator = errors.New("missing polymorphic discriminator")

	// ErrTraitMismatch is returned when a polymorphic discriminator names
	// a schema that does not implement the field's `as` trait.
	ErrTraitMismatch = errors.New("schema does not implement required trait")

	// ErrDuplicateIdentityKey is returned by the diff layer when two
	// elements of the same array produce the same identity key.
	ErrDuplicateIdentityKey = errors.New("duplicate identity key")
)

// ResolveError wraps a resolution failure with the schema type, field
// name, and field kind it occurred on, so callers can surface a precise
// diagnostic. No resolution failure is swallowed.
type ResolveError struct {
	Schema string
	Field  string
	Kind   schema.FieldKind
	Err    error
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s.%s (%s): %v", e.Schema, e.Field, e.Kind, e.Err)
}

// Unwrap exposes the underlying failure.
func (e *ResolveError) Unwrap() error {
	return e.Err
}

func fieldError(sch *schema.ResourceSchema, f *schema.Field, err error) error {
	re := &ResolveError{Schema: sch.Type, Err: err}
	if f != nil {
		re.Field = f.Name
		re.Kind = f.Kind
	}
	return re
}
