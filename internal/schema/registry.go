package schema

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// Registry is the process-wide schema store. Registration happens during
// application bootstrap and is the only mutation point; every other
// component treats the registry as read-only. Readers are always safe
// concurrently; writers are serialized by the registry itself.
type Registry struct {
	mu        sync.RWMutex
	schemas   map[string]*ResourceSchema
	validator *Validator
}

// NewRegistry creates an empty schema registry.
func NewRegistry() *Registry {
	return &Registry{
		schemas:   make(map[string]*ResourceSchema),
		validator: NewValidator(),
	}
}

// Register validates and stores a schema. Re-registering identical content
// is a no-op; re-registering a type with different content fails with
// ErrDuplicateSchema regardless of call order. Structural violations fail
// with the relevant sentinel wrapped in ValidationErrors, and the schema
// is not stored.
func (r *Registry) Register(s *ResourceSchema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.schemas[s.Type]; ok {
		if schemasEqual(existing, s) {
			return nil
		}
		return fmt.Errorf("%w: %q", ErrDuplicateSchema, s.Type)
	}

	if err := r.validator.Validate(s, r.schemas); err != nil {
		return fmt.Errorf("schema validation failed for %q: %w", s.Type, err)
	}

	s.Legacy = s.computeLegacy()
	r.schemas[s.Type] = s
	return nil
}

// Resolve returns the schema registered under the given type, failing with
// ErrUnknownSchema when absent.
func (r *Registry) Resolve(resourceType string) (*ResourceSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schemas[resourceType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, resourceType)
	}
	return s, nil
}

// Get returns the schema and whether it is registered.
func (r *Registry) Get(resourceType string) (*ResourceSchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schemas[resourceType]
	return s, ok
}

// Exists reports whether a type is registered.
func (r *Registry) Exists(resourceType string) bool {
	_, ok := r.Get(resourceType)
	return ok
}

// List returns the registered type names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	return names
}

// Count returns the number of registered schemas.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.schemas)
}

// Clear removes all registered schemas. Intended for tests.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.schemas = make(map[string]*ResourceSchema)
}

// Warnings returns advisory findings from all registrations so far.
func (r *Registry) Warnings() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.validator.Warnings()...)
}

// ValidateAll re-runs cross-schema checks once every schema is registered,
// covering forward references that single-schema validation had to defer:
// schema-array targets, key-strategy fields, and relationship inverses.
func (r *Registry) ValidateAll() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v := NewValidator()
	for _, s := range r.schemas {
		for _, f := range s.Fields {
			opts := f.options()
			switch f.Kind {
			case KindSchemaObject, KindSchemaArray:
				if opts.Polymorphic {
					continue
				}
				target, ok := r.schemas[f.Type]
				if !ok {
					v.fail(s, f, fmt.Sprintf("references unregistered object schema %q", f.Type),
						"Register the object schema before resolving records")
					continue
				}
				if f.Kind == KindSchemaArray {
					v.validateKeyStrategy(s, f, r.schemas)
					if opts.Key == "@hash" && target.IdentityField() == nil {
						v.failAs(s, f, ErrInvalidIdentityField,
							fmt.Sprintf("@hash key strategy requires an @hash field on %q", f.Type), "")
					}
				}
			case KindResource, KindCollection, KindBelongsTo, KindHasMany:
				if opts.Polymorphic {
					continue
				}
				target, ok := r.schemas[f.Type]
				if !ok {
					v.fail(s, f, fmt.Sprintf("references unregistered resource %q", f.Type), "")
					continue
				}
				if opts.Inverse != "" {
					inv := target.FieldNamed(opts.Inverse)
					if inv == nil || !inv.Kind.Relationship() {
						v.fail(s, f, fmt.Sprintf("inverse %q is not a relationship field on %q",
							opts.Inverse, f.Type), "")
					}
				}
			}
		}
	}

	if len(v.errors) == 0 {
		return nil
	}
	errs := make([]error, len(v.errors))
	for i, e := range v.errors {
		errs[i] = e
	}
	// errors.Join keeps each violation reachable through errors.Is/As.
	return fmt.Errorf("cross-schema validation failed with %d errors: %w",
		len(v.errors), errors.Join(errs...))
}

// schemasEqual compares the registered content of two schemas, ignoring
// flags the registry computes itself.
func schemasEqual(a, b *ResourceSchema) bool {
	return a.Type == b.Type &&
		a.Mode == b.Mode &&
		reflect.DeepEqual(a.Traits, b.Traits) &&
		reflect.DeepEqual(a.Fields, b.Fields)
}
