package schema

import (
	"errors"
	"fmt"
)

// Sentinel errors for schema registration and lookup. Resolution-layer
// errors wrap these where the failure originates in schema shape.
var (
	// ErrInvalidSchema is returned when a schema violates a structural
	// invariant at registration time.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrDuplicateSchema is returned when a type is re-registered with
	// different content. Re-registering identical content is a no-op.
	ErrDuplicateSchema = errors.New("schema already registered with different content")

	// ErrUnknownSchema is returned when resolving a type that was never
	// registered.
	ErrUnknownSchema = errors.New("unknown schema")

	// ErrUnknownFieldKind is returned when a document carries a kind
	// outside the closed kind set.
	ErrUnknownFieldKind = errors.New("unknown field kind")

	// ErrInvalidAliasTarget is returned at registration when an alias
	// targets an @id, @hash, @local, or derived field.
	ErrInvalidAliasTarget = errors.New("invalid alias target")

	// ErrCircularAlias is returned when an alias chain loops back on
	// itself, at registration or at first resolution.
	ErrCircularAlias = errors.New("circular alias")

	// ErrInvalidIdentityField is returned when a schema-array key strategy
	// names a field that is not a field-kind field on the target schema.
	ErrInvalidIdentityField = errors.New("invalid identity field")
)

// ValidationError is one structural violation found while validating a
// schema, with enough context to point at the offending field.
type ValidationError struct {
	Schema  string
	Field   string
	Kind    FieldKind
	Message string
	Hint    string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s.%s (%s): %s", e.Schema, e.Field, e.Kind, e.Message)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Schema, e.Message)
	}
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

// Unwrap exposes the sentinel this violation is classified under.
func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidSchema
}
