// Package schema defines the field schema model for the normalized resource
// cache: the closed set of field kinds, the ResourceSchema document, and the
// registry that validates and stores schemas at application bootstrap.
package schema

import "fmt"

// FieldKind identifies the behavior of a single field in a resource or
// object schema. The set is closed; unknown kinds are rejected when a
// schema document is parsed.
type FieldKind int

const (
	// KindField is a cached primitive value with an optional named transform.
	KindField FieldKind = iota

	// KindAlias renames the cache key of another field definition while
	// reusing that definition's read/write/transform behavior.
	KindAlias

	// KindIdentity ("@id") is the resource's primary key, read raw with
	// no transform. At most one per resource schema.
	KindIdentity

	// KindHash ("@hash") is a computed identity key for embedded objects.
	// Its value is derived from raw cache data only and never stored back.
	KindHash

	// KindLocal ("@local") lives on the record instance, not in the cache,
	// and is never sent over the wire.
	KindLocal

	// KindObject is a cached untyped object with an optional whole-object
	// transform. Not deep-tracked.
	KindObject

	// KindSchemaObject is a cached object described by a named object
	// schema, optionally polymorphic.
	KindSchemaObject

	// KindArray is a cached primitive array with an optional per-element
	// transform. Not deep-tracked.
	KindArray

	// KindSchemaArray is a cached array of objects described by a named
	// object schema, with a per-element identity key strategy.
	KindSchemaArray

	// KindDerived is a computed read-only value, memoized per record.
	KindDerived

	// KindResource is a single relationship pointer to another resource.
	KindResource

	// KindCollection is an array of relationship pointers.
	KindCollection

	// KindAttribute is the legacy equivalent of KindField. Its transform
	// is advisory: an unregistered transform name passes the raw value
	// through instead of failing.
	KindAttribute

	// KindBelongsTo is the legacy equivalent of KindResource.
	KindBelongsTo

	// KindHasMany is the legacy equivalent of KindCollection.
	KindHasMany
)

// String returns the document representation of the kind.
func (k FieldKind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindAlias:
		return "alias"
	case KindIdentity:
		return "@id"
	case KindHash:
		return "@hash"
	case KindLocal:
		return "@local"
	case KindObject:
		return "object"
	case KindSchemaObject:
		return "schema-object"
	case KindArray:
		return "array"
	case KindSchemaArray:
		return "schema-array"
	case KindDerived:
		return "derived"
	case KindResource:
		return "resource"
	case KindCollection:
		return "collection"
	case KindAttribute:
		return "attribute"
	case KindBelongsTo:
		return "belongsTo"
	case KindHasMany:
		return "hasMany"
	default:
		return "unknown"
	}
}

// ParseFieldKind converts a document kind string to a FieldKind.
func ParseFieldKind(s string) (FieldKind, error) {
	switch s {
	case "field":
		return KindField, nil
	case "alias":
		return KindAlias, nil
	case "@id":
		return KindIdentity, nil
	case "@hash":
		return KindHash, nil
	case "@local":
		return KindLocal, nil
	case "object":
		return KindObject, nil
	case "schema-object":
		return KindSchemaObject, nil
	case "array":
		return KindArray, nil
	case "schema-array":
		return KindSchemaArray, nil
	case "derived":
		return KindDerived, nil
	case "resource":
		return KindResource, nil
	case "collection":
		return KindCollection, nil
	case "attribute":
		return KindAttribute, nil
	case "belongsTo":
		return KindBelongsTo, nil
	case "hasMany":
		return KindHasMany, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFieldKind, s)
	}
}

// IdentityBearing reports whether the kind carries resource or object
// identity (@id or @hash).
func (k FieldKind) IdentityBearing() bool {
	return k == KindIdentity || k == KindHash
}

// Legacy reports whether the kind belongs to the backward-compatibility
// field set.
func (k FieldKind) Legacy() bool {
	return k == KindAttribute || k == KindBelongsTo || k == KindHasMany
}

// Relationship reports whether the kind is a pointer to other resources.
func (k FieldKind) Relationship() bool {
	switch k {
	case KindResource, KindCollection, KindBelongsTo, KindHasMany:
		return true
	}
	return false
}

// Writable reports whether values of this kind may be written through the
// resolver. Derived and @hash values are computed, never stored.
func (k FieldKind) Writable() bool {
	return k != KindDerived && k != KindHash
}

// AliasTarget reports whether a field of this kind may be the target of an
// alias. Identity-bearing, local, and derived fields cannot be aliased.
func (k FieldKind) AliasTarget() bool {
	switch k {
	case KindIdentity, KindHash, KindLocal, KindDerived:
		return false
	}
	return true
}

// Field is one entry in a schema's field sequence. It is a tagged union
// over FieldKind: the meaning of Type and Options depends on Kind.
//
//   - KindField/KindAttribute/KindArray/KindObject: Type names a transform,
//     Options.Transform holds the transform's options.
//   - KindAlias: Type is empty, Options.Target holds the full target field
//     definition.
//   - KindHash/KindDerived: Type names a hash function or derivation.
//   - KindSchemaObject/KindSchemaArray: Type names a registered object
//     schema (unless polymorphic).
//   - KindResource/KindCollection and legacy equivalents: Type names the
//     target resource type (unless polymorphic).
type Field struct {
	Name    string
	Kind    FieldKind
	Type    string
	Options *FieldOptions
}

// FieldOptions carries the kind-specific options of a Field. Only the
// members meaningful for the field's kind are set; the document parser
// rejects options that do not belong to the kind.
type FieldOptions struct {
	// Target is the aliased field definition (KindAlias only).
	Target *Field

	// DefaultValue is returned by the first read of an unwritten @local
	// field.
	DefaultValue any

	// Polymorphic marks schema-object/schema-array/resource/collection
	// fields whose concrete schema is chosen at resolution time.
	Polymorphic bool

	// DiscriminatorKey overrides the raw-data key read to pick a concrete
	// schema. Empty means the literal key "type".
	DiscriminatorKey string

	// As names a trait the concrete schema must implement.
	As string

	// Key is the schema-array identity strategy: "@identity", "@index",
	// "@hash", or the name of a field-kind field on the target schema.
	Key string

	// Inverse names the reciprocal relationship field on the target
	// schema. Empty means unidirectional.
	Inverse string

	// Async marks relationships resolved through link descriptors by the
	// external fetch layer.
	Async bool

	// ResetOnRemoteUpdate exists only on legacy relationship kinds; the
	// modern kinds have no analogue and the parser rejects it there.
	ResetOnRemoteUpdate bool

	// Transform holds options handed to the field's transform, hash
	// function, or derivation.
	Transform map[string]any
}

// options returns o, or an empty options value when o is nil, so callers
// can read members without nil checks.
func (f *Field) options() FieldOptions {
	if f.Options == nil {
		return FieldOptions{}
	}
	return *f.Options
}

// DiscriminatorKey returns the raw-data key used to pick a concrete schema
// for this field, defaulting to "type".
func (f *Field) DiscriminatorKey() string {
	if key := f.options().DiscriminatorKey; key != "" {
		return key
	}
	return "type"
}
