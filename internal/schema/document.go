package schema

import (
	"encoding/json"
	"fmt"
)

// SchemaDocument is the plain structured form of a schema: the shape that
// crosses process boundaries (files, wire). Parse and Document round-trip
// it losslessly. The identity field may appear either in the identity slot
// or inline in the field sequence; the canonical encoding keeps it in the
// identity slot.
type SchemaDocument struct {
	Type     string           `json:"type" mapstructure:"type"`
	Mode     string           `json:"mode,omitempty" mapstructure:"mode"`
	Identity *FieldDocument   `json:"identity,omitempty" mapstructure:"identity"`
	Traits   []string         `json:"traits,omitempty" mapstructure:"traits"`
	Fields   []*FieldDocument `json:"fields" mapstructure:"fields"`
	Legacy   bool             `json:"legacy,omitempty" mapstructure:"legacy"`
}

// FieldDocument is the document form of a single field. Name is a pointer
// because @hash fields may carry an explicit null name.
type FieldDocument struct {
	Kind    string         `json:"kind" mapstructure:"kind"`
	Name    *string        `json:"name" mapstructure:"name"`
	Type    string         `json:"type,omitempty" mapstructure:"type"`
	Options map[string]any `json:"options,omitempty" mapstructure:"options"`
}

// ParseDocument converts a document to the typed schema model, rejecting
// unknown kinds and malformed options immediately so the resolver never
// sees stringly-typed kind values.
func ParseDocument(doc *SchemaDocument) (*ResourceSchema, error) {
	if doc.Type == "" {
		return nil, fmt.Errorf("%w: document has no type", ErrInvalidSchema)
	}

	s := &ResourceSchema{Type: doc.Type, Traits: doc.Traits}
	switch doc.Mode {
	case "resource":
		s.Mode = ModeResource
	case "object":
		s.Mode = ModeObject
	case "":
		s.Mode = inferMode(doc)
	default:
		return nil, fmt.Errorf("%w: %q: unknown mode %q", ErrInvalidSchema, doc.Type, doc.Mode)
	}

	if doc.Identity != nil {
		f, err := parseField(doc.Type, doc.Identity)
		if err != nil {
			return nil, err
		}
		if !f.Kind.IdentityBearing() {
			return nil, fmt.Errorf("%w: %q: identity slot holds a %s field",
				ErrInvalidSchema, doc.Type, f.Kind)
		}
		s.Fields = append(s.Fields, f)
	}
	for _, fd := range doc.Fields {
		f, err := parseField(doc.Type, fd)
		if err != nil {
			return nil, err
		}
		s.Fields = append(s.Fields, f)
	}
	return s, nil
}

// ParseJSON parses a JSON schema document.
func ParseJSON(data []byte) (*ResourceSchema, error) {
	var doc SchemaDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	return ParseDocument(&doc)
}

// inferMode picks the schema mode when the document does not state one:
// the object schema naming convention or an @hash identity means object
// mode, anything else is a resource.
func inferMode(doc *SchemaDocument) Mode {
	if IsObjectSchemaName(doc.Type) {
		return ModeObject
	}
	if doc.Identity != nil && doc.Identity.Kind == "@hash" {
		return ModeObject
	}
	for _, fd := range doc.Fields {
		if fd.Kind == "@hash" {
			return ModeObject
		}
	}
	return ModeResource
}

func parseField(schemaType string, fd *FieldDocument) (*Field, error) {
	kind, err := ParseFieldKind(fd.Kind)
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", schemaType, err)
	}

	f := &Field{Kind: kind, Type: fd.Type}
	if fd.Name != nil {
		f.Name = *fd.Name
	}

	opts, err := parseOptions(schemaType, f, fd.Options)
	if err != nil {
		return nil, err
	}
	f.Options = opts
	return f, nil
}

// parseOptions decodes the options map according to the field's kind.
// Kinds whose options feed a transform or derivation keep the map
// verbatim; structured kinds are decoded strictly so a typo fails at parse
// time rather than resolving to nothing.
func parseOptions(schemaType string, f *Field, raw map[string]any) (*FieldOptions, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	badOption := func(key string) error {
		return fmt.Errorf("%w: %q: field %q (%s) has unsupported option %q",
			ErrInvalidSchema, schemaType, f.Name, f.Kind, key)
	}

	switch f.Kind {
	case KindField, KindAttribute, KindObject, KindArray, KindHash, KindDerived:
		return &FieldOptions{Transform: raw}, nil

	case KindIdentity:
		for key := range raw {
			return nil, badOption(key)
		}
		return nil, nil

	case KindAlias:
		targetDoc, err := fieldDocumentFromMap(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: alias %q: %v", ErrInvalidSchema, schemaType, f.Name, err)
		}
		target, err := parseField(schemaType, targetDoc)
		if err != nil {
			return nil, err
		}
		return &FieldOptions{Target: target}, nil

	case KindLocal:
		opts := &FieldOptions{}
		for key, v := range raw {
			if key != "defaultValue" {
				return nil, badOption(key)
			}
			opts.DefaultValue = v
		}
		return opts, nil
	}

	// Structured kinds: schema-object, schema-array, relationships.
	opts := &FieldOptions{}
	for key, v := range raw {
		switch key {
		case "polymorphic":
			b, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: %q: field %q: polymorphic must be a bool",
					ErrInvalidSchema, schemaType, f.Name)
			}
			opts.Polymorphic = b
		case "type":
			str, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %q: field %q: discriminator type must be a string",
					ErrInvalidSchema, schemaType, f.Name)
			}
			opts.DiscriminatorKey = str
		case "as":
			opts.As, _ = v.(string)
		case "key":
			if f.Kind != KindSchemaArray {
				return nil, badOption(key)
			}
			opts.Key, _ = v.(string)
		case "inverse":
			if !f.Kind.Relationship() {
				return nil, badOption(key)
			}
			opts.Inverse, _ = v.(string)
		case "async":
			if !f.Kind.Relationship() {
				return nil, badOption(key)
			}
			opts.Async, _ = v.(bool)
		case "resetOnRemoteUpdate":
			// Only the legacy relationship kinds ever supported this.
			if f.Kind != KindBelongsTo && f.Kind != KindHasMany {
				return nil, badOption(key)
			}
			opts.ResetOnRemoteUpdate, _ = v.(bool)
		default:
			return nil, badOption(key)
		}
	}
	return opts, nil
}

func fieldDocumentFromMap(m map[string]any) (*FieldDocument, error) {
	doc := &FieldDocument{}
	for key, v := range m {
		switch key {
		case "kind":
			str, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("target kind must be a string")
			}
			doc.Kind = str
		case "name":
			if v == nil {
				continue
			}
			str, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("target name must be a string or null")
			}
			doc.Name = &str
		case "type":
			if v == nil {
				continue
			}
			str, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("target type must be a string or null")
			}
			doc.Type = str
		case "options":
			if v == nil {
				continue
			}
			nested, ok := v.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("target options must be an object")
			}
			doc.Options = nested
		default:
			return nil, fmt.Errorf("unsupported target key %q", key)
		}
	}
	if doc.Kind == "" {
		return nil, fmt.Errorf("target has no kind")
	}
	return doc, nil
}

// Document re-encodes a schema into its canonical document form: identity
// in the identity slot, remaining fields in declaration order.
func (s *ResourceSchema) Document() *SchemaDocument {
	doc := &SchemaDocument{
		Type:   s.Type,
		Mode:   s.Mode.String(),
		Traits: s.Traits,
		Legacy: s.Legacy,
	}
	for _, f := range s.Fields {
		fd := encodeField(f)
		if f.Kind.IdentityBearing() && doc.Identity == nil {
			doc.Identity = fd
			continue
		}
		doc.Fields = append(doc.Fields, fd)
	}
	return doc
}

func encodeField(f *Field) *FieldDocument {
	fd := &FieldDocument{Kind: f.Kind.String(), Type: f.Type}
	if f.Name != "" || f.Kind != KindHash {
		name := f.Name
		fd.Name = &name
	}
	fd.Options = encodeOptions(f)
	return fd
}

func encodeOptions(f *Field) map[string]any {
	if f.Options == nil {
		return nil
	}
	opts := *f.Options

	switch f.Kind {
	case KindField, KindAttribute, KindObject, KindArray, KindHash, KindDerived:
		return opts.Transform
	case KindAlias:
		if opts.Target == nil {
			return nil
		}
		target := encodeField(opts.Target)
		m := map[string]any{"kind": target.Kind}
		if target.Name != nil {
			m["name"] = *target.Name
		}
		if target.Type != "" {
			m["type"] = target.Type
		}
		if len(target.Options) > 0 {
			m["options"] = target.Options
		}
		return m
	case KindLocal:
		if opts.DefaultValue == nil {
			return nil
		}
		return map[string]any{"defaultValue": opts.DefaultValue}
	}

	m := map[string]any{}
	if opts.Polymorphic {
		m["polymorphic"] = true
	}
	if opts.DiscriminatorKey != "" {
		m["type"] = opts.DiscriminatorKey
	}
	if opts.As != "" {
		m["as"] = opts.As
	}
	if opts.Key != "" {
		m["key"] = opts.Key
	}
	if opts.Inverse != "" {
		m["inverse"] = opts.Inverse
	}
	if opts.Async {
		m["async"] = true
	}
	if opts.ResetOnRemoteUpdate {
		m["resetOnRemoteUpdate"] = true
	}
	if len(m) == 0 {
		return nil
	}
	return m
}
