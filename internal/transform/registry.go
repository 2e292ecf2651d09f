// Package transform holds the lookup tables for named transforms,
// derivations, and hash functions. Implementations are supplied by the
// application; this package only registers and resolves them, it never
// executes anything on its own.
package transform

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUnknownTransform is returned when a field names a transform or
	// hash function that was never registered.
	ErrUnknownTransform = errors.New("unknown transform")

	// ErrUnknownDerivation is returned when a derived field names a
	// derivation that was never registered.
	ErrUnknownDerivation = errors.New("unknown derivation")

	// ErrDuplicateRegistration is returned when a name is registered twice.
	ErrDuplicateRegistration = errors.New("name already registered")
)

// Transform converts one field's value between its cache representation
// and its externally observable representation. Deserialize is the read
// direction, Serialize the write direction.
type Transform interface {
	Serialize(value any, options map[string]any) (any, error)
	Deserialize(value any, options map[string]any) (any, error)
}

// RecordHandle is the view of a record a derivation may read through.
// Field reads go through the resolver, so derivations observe transformed
// and aliased values.
type RecordHandle interface {
	// ResourceType returns the record's schema type.
	ResourceType() string
	// Get resolves a field on the record.
	Get(fieldName string) (any, error)
}

// Derivation computes a read-only field value from a record. Results are
// memoized per (record, field) by the resolver.
type Derivation func(rec RecordHandle, options map[string]any, fieldName string) (any, error)

// HashFunc computes an identity key from raw cache data. The signature
// takes the raw data only: a hash function cannot reach record-level APIs,
// derived values, or aliases.
type HashFunc func(data map[string]any, options map[string]any) (string, error)

// Registry maps names to transform, derivation, and hash implementations.
// Everything must be registered before the first field naming it is
// resolved; registration after bootstrap is allowed but the registry never
// replaces an existing name silently.
type Registry struct {
	mu          sync.RWMutex
	transforms  map[string]Transform
	derivations map[string]Derivation
	hashes      map[string]HashFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		transforms:  make(map[string]Transform),
		derivations: make(map[string]Derivation),
		hashes:      make(map[string]HashFunc),
	}
}

// RegisterTransform adds a named transform.
func (r *Registry) RegisterTransform(name string, t Transform) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.transforms[name]; ok {
		return fmt.Errorf("%w: transform %q", ErrDuplicateRegistration, name)
	}
	r.transforms[name] = t
	return nil
}

// RegisterDerivation adds a named derivation.
func (r *Registry) RegisterDerivation(name string, d Derivation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.derivations[name]; ok {
		return fmt.Errorf("%w: derivation %q", ErrDuplicateRegistration, name)
	}
	r.derivations[name] = d
	return nil
}

// RegisterHash adds a named hash function.
func (r *Registry) RegisterHash(name string, h HashFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.hashes[name]; ok {
		return fmt.Errorf("%w: hash %q", ErrDuplicateRegistration, name)
	}
	r.hashes[name] = h
	return nil
}

// Transform looks up a named transform.
func (r *Registry) Transform(name string) (Transform, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.transforms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransform, name)
	}
	return t, nil
}

// Derivation looks up a named derivation.
func (r *Registry) Derivation(name string) (Derivation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.derivations[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDerivation, name)
	}
	return d, nil
}

// Hash looks up a named hash function. A missing hash function reports
// ErrUnknownTransform: @hash fields name their hash in the type slot the
// same way field kinds name transforms.
func (r *Registry) Hash(name string) (HashFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.hashes[name]
	if !ok {
		return nil, fmt.Errorf("%w: hash %q", ErrUnknownTransform, name)
	}
	return h, nil
}
