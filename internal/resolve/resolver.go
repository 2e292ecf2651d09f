// Package resolve implements the field-resolution engine: given a
// registered schema, a field name, and a raw cache record, it computes the
// externally observable value by dispatching on the field's kind. It also
// computes per-element identity for schema-arrays and concrete schemas for
// polymorphic fields.
package resolve

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cachegraph/cachegraph/internal/schema"
	"github.com/cachegraph/cachegraph/internal/store"
	"github.com/cachegraph/cachegraph/internal/transform"
)

// Resolver dispatches field resolution over a schema registry, a
// transform registry, and a raw cache store. Resolution is synchronous
// and never performs I/O beyond the raw store; async relationships return
// pointer structures for the external fetch layer.
type Resolver struct {
	schemas    *schema.Registry
	transforms *transform.Registry
	store      store.Store
	records    *RecordTable
	log        *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger attaches a structured logger. Library default is a no-op
// logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) { r.log = l }
}

// WithNotifier wires the host reactivity layer's invalidation callback.
func WithNotifier(n Notifier) Option {
	return func(r *Resolver) { r.records.SetNotifier(n) }
}

// New creates a Resolver. The registries are shared, read-only
// collaborators; per-record state is owned by the resolver.
func New(schemas *schema.Registry, transforms *transform.Registry, st store.Store, opts ...Option) *Resolver {
	r := &Resolver{
		schemas:    schemas,
		transforms: transforms,
		store:      st,
		records:    NewRecordTable(),
		log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Records exposes the per-record state table, including the Invalidate
// entry point and record destruction.
func (r *Resolver) Records() *RecordTable {
	return r.records
}

// Invalidate drops the memoized value of one field and signals the
// reactivity layer. The host calls this when it observes a change in a
// dependency of a derived or aliased field.
func (r *Resolver) Invalidate(key RecordKey, fieldName string) {
	r.records.Invalidate(key, fieldName)
}

// ResolvedValue is the result of a field resolution: the observable value
// plus the change-tracking token the reactivity layer keys on.
type ResolvedValue struct {
	Value any
	Token ChangeToken
}

// ResolvedObject is the observable value of a schema-object field: the
// concrete schema chosen for it and its raw data.
type ResolvedObject struct {
	Schema string
	Data   map[string]any
}

// ResolvedArrayElement is one member of a resolved schema-array, carrying
// the identity key the diffing layer matches members by.
type ResolvedArrayElement struct {
	Schema string
	Key    any
	Data   map[string]any
}

// Resolve reads the raw record from the store and resolves one field.
func (r *Resolver) Resolve(ctx context.Context, resourceType, id, fieldName string) (ResolvedValue, error) {
	sch, err := r.schemas.Resolve(resourceType)
	if err != nil {
		return ResolvedValue{}, err
	}
	raw, err := r.store.GetRaw(ctx, resourceType, id)
	if err != nil {
		return ResolvedValue{}, err
	}
	return r.ResolveField(ctx, sch, fieldName, raw, RecordKey{Type: resourceType, ID: id})
}

// ResolveField resolves one field against an already loaded raw record.
func (r *Resolver) ResolveField(ctx context.Context, sch *schema.ResourceSchema, fieldName string, raw map[string]any, key RecordKey) (ResolvedValue, error) {
	f := sch.FieldNamed(fieldName)
	if f == nil {
		return ResolvedValue{}, &ResolveError{Schema: sch.Type, Field: fieldName, Kind: schema.FieldKind(-1), Err: ErrUnknownField}
	}

	value, err := r.resolveValue(ctx, sch, f, f.Name, raw, key, nil)
	if err != nil {
		r.log.Debug("field resolution failed",
			zap.String("schema", sch.Type),
			zap.String("field", fieldName),
			zap.Error(err))
		return ResolvedValue{}, fieldError(sch, f, err)
	}
	return ResolvedValue{Value: value, Token: r.records.Token(key, fieldName)}, nil
}

// resolveValue dispatches on the field kind. slot is the cache key the
// value is read from: an alias renames it to the target's name at each
// hop while reusing the target kind's read/write/transform logic, so the
// alias and its target share one cache slot.
func (r *Resolver) resolveValue(ctx context.Context, sch *schema.ResourceSchema, f *schema.Field, slot string, raw map[string]any, key RecordKey, visited map[string]bool) (any, error) {
	switch f.Kind {
	case schema.KindField:
		return r.resolveTransformed(key, f, slot, raw, false)

	case schema.KindAttribute:
		return r.resolveTransformed(key, f, slot, raw, true)

	case schema.KindAlias:
		return r.resolveAlias(ctx, sch, f, slot, raw, key, visited)

	case schema.KindIdentity:
		// Primary key: read raw, no transform.
		return raw[f.Name], nil

	case schema.KindHash:
		hash, err := r.transforms.Hash(f.Type)
		if err != nil {
			return nil, err
		}
		// Hash functions see raw cache data only, never a record handle.
		return hash(raw, opt(f).Transform)

	case schema.KindLocal:
		if v, ok := r.records.localGet(key, slot); ok {
			return v, nil
		}
		return opt(f).DefaultValue, nil

	case schema.KindObject:
		value := raw[slot]
		if f.Type == "" || value == nil {
			return value, nil
		}
		tr, err := r.transforms.Transform(f.Type)
		if err != nil {
			return nil, err
		}
		return tr.Deserialize(value, opt(f).Transform)

	case schema.KindArray:
		return r.resolveArray(f, slot, raw)

	case schema.KindSchemaObject:
		return r.resolveSchemaObject(f, slot, raw)

	case schema.KindSchemaArray:
		return r.resolveSchemaArray(f, slot, raw)

	case schema.KindDerived:
		return r.resolveDerived(ctx, sch, f, raw, key)

	case schema.KindResource, schema.KindBelongsTo:
		return r.shapePointer(f, raw[slot])

	case schema.KindCollection, schema.KindHasMany:
		return r.shapeCollection(f, raw[slot])

	default:
		return nil, fmt.Errorf("unhandled field kind %s", f.Kind)
	}
}

// resolveAlias resolves the target field definition against the alias's
// own cache slot. The visited set catches chains that loop back, whether
// built from embedded targets or by-name references to declared fields.
func (r *Resolver) resolveAlias(ctx context.Context, sch *schema.ResourceSchema, f *schema.Field, slot string, raw map[string]any, key RecordKey, visited map[string]bool) (any, error) {
	if visited == nil {
		visited = make(map[string]bool)
	}
	if f.Name != "" {
		if visited[f.Name] {
			return nil, fmt.Errorf("%w: chain revisits %q", schema.ErrCircularAlias, f.Name)
		}
		visited[f.Name] = true
	}

	target := opt(f).Target
	if target == nil {
		// A by-name link: continue through the schema's declared field.
		if decl := sch.FieldNamed(f.Name); decl != nil && decl != f && decl.Kind == schema.KindAlias {
			target = opt(decl).Target
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%w: alias %q has no target", schema.ErrInvalidSchema, f.Name)
	}
	if !target.Kind.AliasTarget() {
		return nil, fmt.Errorf("%w: alias cannot target a %s field", schema.ErrInvalidAliasTarget, target.Kind)
	}
	if target.Name != "" {
		slot = target.Name
	}
	return r.resolveValue(ctx, sch, target, slot, raw, key, visited)
}

// resolveTransformed reads a primitive field, applying the deserialize
// direction of its transform and memoizing the result per record. Legacy
// attribute transforms are advisory: an unregistered name passes the raw
// value through.
func (r *Resolver) resolveTransformed(key RecordKey, f *schema.Field, slot string, raw map[string]any, advisory bool) (any, error) {
	value := raw[slot]
	if f.Type == "" {
		return value, nil
	}

	if memoized, ok := r.records.memoGet(key, slot); ok {
		return memoized, nil
	}

	tr, err := r.transforms.Transform(f.Type)
	if err != nil {
		if advisory {
			return value, nil
		}
		return nil, err
	}
	out, err := tr.Deserialize(value, opt(f).Transform)
	if err != nil {
		return nil, err
	}
	r.records.memoSet(key, slot, out)
	return out, nil
}

func (r *Resolver) resolveArray(f *schema.Field, slot string, raw map[string]any) (any, error) {
	value := raw[slot]
	if f.Type == "" || value == nil {
		return value, nil
	}
	elems, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("array field holds %T, expected a slice", value)
	}
	tr, err := r.transforms.Transform(f.Type)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(elems))
	for i, e := range elems {
		v, err := tr.Deserialize(e, opt(f).Transform)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// concreteSchemaFor picks the schema for one schema-object/schema-array
// element, delegating to the polymorphism resolver when the field is
// polymorphic.
func (r *Resolver) concreteSchemaFor(f *schema.Field, elem map[string]any) (*schema.ResourceSchema, error) {
	schemaType := f.Type
	if opt(f).Polymorphic {
		concrete, err := ResolveConcreteSchema(r.schemas, f, elem)
		if err != nil {
			return nil, err
		}
		schemaType = concrete
	}
	return r.schemas.Resolve(schemaType)
}

func (r *Resolver) resolveSchemaObject(f *schema.Field, slot string, raw map[string]any) (any, error) {
	value := raw[slot]
	if value == nil {
		return nil, nil
	}
	elem, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("schema-object field holds %T, expected an object", value)
	}
	concrete, err := r.concreteSchemaFor(f, elem)
	if err != nil {
		return nil, err
	}
	return &ResolvedObject{Schema: concrete.Type, Data: elem}, nil
}

func (r *Resolver) resolveSchemaArray(f *schema.Field, slot string, raw map[string]any) (any, error) {
	value := raw[slot]
	if value == nil {
		return []ResolvedArrayElement(nil), nil
	}
	elems, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("schema-array field holds %T, expected a slice", value)
	}

	strategy := opt(f).Key
	out := make([]ResolvedArrayElement, 0, len(elems))
	for i, e := range elems {
		elem, ok := e.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("element %d holds %T, expected an object", i, e)
		}
		concrete, err := r.concreteSchemaFor(f, elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elemKey, err := r.ComputeKey(strategy, concrete, elem, i)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, ResolvedArrayElement{Schema: concrete.Type, Key: elemKey, Data: elem})
	}
	return out, nil
}

// resolveDerived invokes the named derivation and memoizes the result per
// (record, field). The memo is dropped through Invalidate when the host
// reactivity layer reports a dependency change.
func (r *Resolver) resolveDerived(ctx context.Context, sch *schema.ResourceSchema, f *schema.Field, raw map[string]any, key RecordKey) (any, error) {
	if memoized, ok := r.records.memoGet(key, f.Name); ok {
		return memoized, nil
	}

	derivation, err := r.transforms.Derivation(f.Type)
	if err != nil {
		return nil, err
	}

	handle := &recordHandle{resolver: r, ctx: ctx, schema: sch, raw: raw, key: key}
	value, err := derivation(handle, opt(f).Transform, f.Name)
	if err != nil {
		return nil, err
	}
	r.records.memoSet(key, f.Name, value)
	return value, nil
}

// recordHandle is the view of a record handed to derivations. Reads go
// back through the resolver, so a derivation observes transformed and
// aliased values, never raw cache data.
type recordHandle struct {
	resolver *Resolver
	ctx      context.Context
	schema   *schema.ResourceSchema
	raw      map[string]any
	key      RecordKey
}

func (h *recordHandle) ResourceType() string {
	return h.schema.Type
}

func (h *recordHandle) Get(fieldName string) (any, error) {
	resolved, err := h.resolver.ResolveField(h.ctx, h.schema, fieldName, h.raw, h.key)
	if err != nil {
		return nil, err
	}
	return resolved.Value, nil
}
