package schema

import (
	"errors"
	"fmt"
)

// maxAliasDepth bounds alias chain traversal so that programmatically
// constructed pointer cycles cannot hang validation.
const maxAliasDepth = 64

// Validator performs the structural checks that make a registered schema
// trustworthy: identity rules, unique field names, per-kind option shape,
// alias target restrictions, and alias cycle detection. All violations for
// a schema are collected before reporting.
type Validator struct {
	errors   []*ValidationError
	warnings []string
}

// NewValidator creates an empty validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks a single schema. The registered map provides the schemas
// already known to the registry so cross-schema checks (schema-array key
// strategies) can run when the target is available; forward references are
// deferred to ValidateAll.
func (v *Validator) Validate(s *ResourceSchema, registered map[string]*ResourceSchema) error {
	v.errors = v.errors[:0]

	if s.Type == "" {
		v.fail(s, nil, "schema has no type", "Set a unique type name")
	}

	v.validateIdentity(s)
	v.validateFieldNames(s)
	for _, f := range s.Fields {
		v.validateField(s, f, registered)
	}
	v.validateNaming(s)

	if len(v.errors) == 0 {
		return nil
	}
	errs := make([]error, len(v.errors))
	for i, e := range v.errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Errors returns the violations found by the last Validate call.
func (v *Validator) Errors() []*ValidationError {
	return v.errors
}

// Warnings returns advisory findings accumulated across Validate calls.
func (v *Validator) Warnings() []string {
	return v.warnings
}

func (v *Validator) fail(s *ResourceSchema, f *Field, msg, hint string) {
	ve := &ValidationError{Schema: s.Type, Message: msg, Hint: hint}
	if f != nil {
		ve.Field = f.Name
		ve.Kind = f.Kind
	}
	v.errors = append(v.errors, ve)
}

func (v *Validator) failAs(s *ResourceSchema, f *Field, err error, msg, hint string) {
	ve := &ValidationError{Schema: s.Type, Message: msg, Hint: hint, Err: err}
	if f != nil {
		ve.Field = f.Name
		ve.Kind = f.Kind
	}
	v.errors = append(v.errors, ve)
}

// validateIdentity enforces the zero-or-one identity rule and the
// mode-specific identity kinds: resources require @id, objects allow @hash
// or nothing.
func (v *Validator) validateIdentity(s *ResourceSchema) {
	var identity []*Field
	for _, f := range s.Fields {
		if f.Kind.IdentityBearing() {
			identity = append(identity, f)
		}
	}

	if len(identity) > 1 {
		v.fail(s, nil,
			fmt.Sprintf("schema has %d identity-bearing fields, expected at most 1", len(identity)),
			"Keep a single @id or @hash field")
		return
	}

	switch s.Mode {
	case ModeResource:
		if len(identity) == 0 {
			v.fail(s, nil, "resource schema has no @id field",
				"Add a field with kind @id, e.g. {kind: \"@id\", name: \"id\"}")
		} else if identity[0].Kind != KindIdentity {
			v.fail(s, identity[0], "resource schema must use @id, not @hash",
				"Resources are addressable by primary key; @hash is for embedded objects")
		}
	case ModeObject:
		if len(identity) == 1 && identity[0].Kind != KindHash {
			v.fail(s, identity[0], "object schema must use @hash or no identity, not @id",
				"Embedded objects are not addressable; use @hash for comparison identity")
		}
	}
}

// validateFieldNames rejects duplicate names. Only @hash may omit its
// name; a null-named @hash is UI-invisible and cannot collide.
func (v *Validator) validateFieldNames(s *ResourceSchema) {
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			if f.Kind != KindHash {
				v.fail(s, f, "field has no name", "Only @hash fields may omit the name")
			}
			continue
		}
		if seen[f.Name] {
			v.fail(s, f, fmt.Sprintf("duplicate field name %q", f.Name), "")
		}
		seen[f.Name] = true
	}
}

func (v *Validator) validateField(s *ResourceSchema, f *Field, registered map[string]*ResourceSchema) {
	opts := f.options()

	// resetOnRemoteUpdate never made the jump from the legacy kinds; the
	// asymmetry is deliberate and preserved.
	if opts.ResetOnRemoteUpdate && !f.Kind.Legacy() {
		v.fail(s, f, "resetOnRemoteUpdate is only supported on legacy relationship kinds", "")
	}

	switch f.Kind {
	case KindAlias:
		if f.Type != "" {
			v.fail(s, f, "alias fields carry no type; the target defines behavior",
				"Set type to null and put the target field schema in options")
		}
		v.validateAliasChain(s, f)

	case KindIdentity:
		if f.Type != "" {
			v.fail(s, f, "@id fields are read raw and take no transform", "")
		}

	case KindHash:
		if f.Type == "" {
			v.fail(s, f, "@hash fields must name a hash function in type", "")
		}

	case KindDerived:
		if f.Type == "" {
			v.fail(s, f, "derived fields must name a derivation in type", "")
		}

	case KindSchemaObject:
		if f.Type == "" && !opts.Polymorphic {
			v.fail(s, f, "schema-object fields must name an object schema or be polymorphic", "")
		}

	case KindSchemaArray:
		if f.Type == "" && !opts.Polymorphic {
			v.fail(s, f, "schema-array fields must name an object schema or be polymorphic", "")
		}
		v.validateKeyStrategy(s, f, registered)

	case KindResource, KindCollection, KindBelongsTo, KindHasMany:
		if f.Type == "" && !opts.Polymorphic {
			v.fail(s, f, "relationship fields must name a target resource type or be polymorphic", "")
		}
	}
}

// validateKeyStrategy checks a schema-array identity key. The reserved
// strategies are always valid shapes; a bare field name must refer to a
// field-kind field on the target schema. Targets not yet registered are
// checked again in Registry.ValidateAll.
func (v *Validator) validateKeyStrategy(s *ResourceSchema, f *Field, registered map[string]*ResourceSchema) {
	key := f.options().Key
	switch key {
	case "", "@identity", "@index", "@hash":
		return
	}
	if f.options().Polymorphic {
		// Concrete schema is unknown until resolution; nothing to check here.
		return
	}
	target, ok := registered[f.Type]
	if !ok {
		return
	}
	if named := target.FieldNamed(key); named == nil || named.Kind != KindField {
		v.failAs(s, f, ErrInvalidIdentityField,
			fmt.Sprintf("identity key %q is not a field-kind field on %q", key, f.Type),
			"Key a schema-array by @identity, @index, @hash, or the name of a plain field")
	}
}

// validateAliasChain walks an alias to its ultimate target, rejecting
// restricted target kinds and name cycles. Embedded alias targets are
// followed directly; an alias target given only by name is resolved
// against the schema's declared fields.
func (v *Validator) validateAliasChain(s *ResourceSchema, f *Field) {
	visited := map[string]bool{}
	if f.Name != "" {
		visited[f.Name] = true
	}

	cur := f
	for depth := 0; ; depth++ {
		if depth >= maxAliasDepth {
			v.failAs(s, f, ErrCircularAlias,
				fmt.Sprintf("alias chain exceeds %d links", maxAliasDepth), "")
			return
		}

		target := cur.options().Target
		if target == nil {
			// A by-name alias link: continue through the declared field.
			if cur != f {
				decl := s.FieldNamed(cur.Name)
				if decl != nil && decl.Kind == KindAlias {
					cur = decl
					target = cur.options().Target
				}
			}
			if target == nil {
				v.fail(s, f, "alias has no target field in options",
					"options must hold the full target field schema")
				return
			}
		}

		if !target.Kind.AliasTarget() {
			v.failAs(s, f, ErrInvalidAliasTarget,
				fmt.Sprintf("alias cannot target a %s field", target.Kind),
				"@id, @hash, @local, and derived fields cannot be aliased")
			return
		}

		if target.Kind != KindAlias {
			return
		}
		if target.Name != "" {
			if visited[target.Name] {
				v.failAs(s, f, ErrCircularAlias,
					fmt.Sprintf("alias chain revisits %q", target.Name), "")
				return
			}
			visited[target.Name] = true
		}
		cur = target
	}
}

// validateNaming applies the object schema naming convention as a warning:
// it is advisory, enforced by the registry rather than the type system.
func (v *Validator) validateNaming(s *ResourceSchema) {
	switch {
	case s.Mode == ModeObject && !IsObjectSchemaName(s.Type):
		v.warnings = append(v.warnings,
			fmt.Sprintf("object schema %q does not follow the $field: naming convention", s.Type))
	case s.Mode == ModeResource && IsObjectSchemaName(s.Type):
		v.warnings = append(v.warnings,
			fmt.Sprintf("resource schema %q uses the object schema naming convention", s.Type))
	}
}
