package schema

import (
	"strings"
)

// Mode distinguishes cacheable, addressable resource schemas from embedded
// object schemas. Resource schemas must carry an @id field; object schemas
// may carry an @hash field or no identity at all.
type Mode int

const (
	ModeResource Mode = iota
	ModeObject
)

// String returns the document representation of the mode.
func (m Mode) String() string {
	if m == ModeObject {
		return "object"
	}
	return "resource"
}

// ResourceSchema is the declarative description of a resource's shape: an
// ordered field sequence with unique names, optional traits, and exactly
// zero or one identity-bearing field. Schemas are immutable once
// registered; records reference them by type name, never by copy.
type ResourceSchema struct {
	// Type is the unique registry key.
	Type string

	// Mode selects resource (addressable) or object (embedded) rules.
	Mode Mode

	// Traits are abstract names this schema implements, checked by
	// polymorphic `as` constraints.
	Traits []string

	// Fields is the ordered field sequence, including the identity field.
	Fields []*Field

	// Legacy is set at registration when every field uses a legacy kind;
	// it selects the compatibility code path in consumers.
	Legacy bool
}

// NewResourceSchema returns an empty resource-mode schema.
func NewResourceSchema(resourceType string) *ResourceSchema {
	return &ResourceSchema{Type: resourceType, Mode: ModeResource}
}

// NewObjectSchema returns an empty object-mode schema.
func NewObjectSchema(name string) *ResourceSchema {
	return &ResourceSchema{Type: name, Mode: ModeObject}
}

// FieldNamed returns the field with the given name, or nil. An @hash field
// with a null name is not addressable by name.
func (s *ResourceSchema) FieldNamed(name string) *Field {
	if name == "" {
		return nil
	}
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// IdentityField returns the schema's identity-bearing field (@id or
// @hash), or nil when the schema has none.
func (s *ResourceSchema) IdentityField() *Field {
	for _, f := range s.Fields {
		if f.Kind.IdentityBearing() {
			return f
		}
	}
	return nil
}

// HasTrait reports whether the schema declares the named trait.
func (s *ResourceSchema) HasTrait(trait string) bool {
	for _, t := range s.Traits {
		if t == trait {
			return true
		}
	}
	return false
}

// computeLegacy reports whether every field uses a legacy kind. The
// identity field does not participate: legacy schemas still carry @id.
func (s *ResourceSchema) computeLegacy() bool {
	sawField := false
	for _, f := range s.Fields {
		if f.Kind.IdentityBearing() {
			continue
		}
		sawField = true
		if !f.Kind.Legacy() {
			return false
		}
	}
	return sawField
}

// Object schema naming convention. The registry enforces it as a warning,
// not an error: global object schemas are "$field:<Name>", resource-scoped
// ones "$<Resource>:$field:<Name>", and inline anonymous ones
// "$<Resource>.<path>:$field:anonymous".

const objectSchemaMarker = "$field:"

// GlobalObjectSchemaName returns the conventional name for a globally
// shared object schema.
func GlobalObjectSchemaName(name string) string {
	return objectSchemaMarker + name
}

// ScopedObjectSchemaName returns the conventional name for an object
// schema scoped to one resource.
func ScopedObjectSchemaName(resource, name string) string {
	return "$" + resource + ":" + objectSchemaMarker + name
}

// AnonymousObjectSchemaName returns the conventional name for an inline
// object schema defined at a field path within a resource.
func AnonymousObjectSchemaName(resource, path string) string {
	return "$" + resource + "." + path + ":" + objectSchemaMarker + "anonymous"
}

// IsObjectSchemaName reports whether a type name follows the object schema
// naming convention.
func IsObjectSchemaName(name string) bool {
	return strings.Contains(name, objectSchemaMarker)
}
