package resolve

import (
	"context"
	"fmt"

	"github.com/cachegraph/cachegraph/internal/schema"
)

// WriteField writes a value through a field definition: the serialize
// direction of its transform runs exactly once before the raw value is
// stored, the affected memo entries are dropped, versions bumped, and the
// reactivity layer notified. Writes through an alias land in the target's
// cache slot, so the alias and its target observe one logical value.
func (r *Resolver) WriteField(ctx context.Context, sch *schema.ResourceSchema, key RecordKey, fieldName string, value any) error {
	f := sch.FieldNamed(fieldName)
	if f == nil {
		return &ResolveError{Schema: sch.Type, Field: fieldName, Kind: schema.FieldKind(-1), Err: ErrUnknownField}
	}

	slot, err := r.writeValue(ctx, sch, f, f.Name, key, value, nil)
	if err != nil {
		return fieldError(sch, f, err)
	}
	r.records.Invalidate(key, fieldName)
	if slot != fieldName {
		// Alias writes also invalidate the shared slot so consumers of
		// the target name observe the change.
		r.records.Invalidate(key, slot)
	}
	return nil
}

// writeValue applies the write and returns the cache slot it landed in.
func (r *Resolver) writeValue(ctx context.Context, sch *schema.ResourceSchema, f *schema.Field, slot string, key RecordKey, value any, visited map[string]bool) (string, error) {
	if !f.Kind.Writable() {
		return slot, ErrReadOnlyField
	}

	switch f.Kind {
	case schema.KindAlias:
		return r.writeAlias(ctx, sch, f, slot, key, value, visited)

	case schema.KindLocal:
		// Record-instance state: never touches the cache store.
		r.records.localSet(key, slot, value)
		return slot, nil

	case schema.KindField:
		return slot, r.writeTransformed(ctx, f, slot, key, value, false)

	case schema.KindAttribute:
		return slot, r.writeTransformed(ctx, f, slot, key, value, true)

	case schema.KindObject:
		if f.Type != "" && value != nil {
			tr, err := r.transforms.Transform(f.Type)
			if err != nil {
				return slot, err
			}
			serialized, err := tr.Serialize(value, opt(f).Transform)
			if err != nil {
				return slot, err
			}
			value = serialized
		}
		return slot, r.store.SetRaw(ctx, key.Type, key.ID, slot, value)

	case schema.KindArray:
		return slot, r.writeArray(ctx, f, slot, key, value)

	default:
		// @id, schema-object, schema-array, and relationship pointers are
		// stored raw; shaping happens on the read side.
		return slot, r.store.SetRaw(ctx, key.Type, key.ID, slot, value)
	}
}

func (r *Resolver) writeAlias(ctx context.Context, sch *schema.ResourceSchema, f *schema.Field, slot string, key RecordKey, value any, visited map[string]bool) (string, error) {
	if visited == nil {
		visited = make(map[string]bool)
	}
	if f.Name != "" {
		if visited[f.Name] {
			return slot, fmt.Errorf("%w: chain revisits %q", schema.ErrCircularAlias, f.Name)
		}
		visited[f.Name] = true
	}

	target := opt(f).Target
	if target == nil {
		if decl := sch.FieldNamed(f.Name); decl != nil && decl != f && decl.Kind == schema.KindAlias {
			target = opt(decl).Target
		}
	}
	if target == nil {
		return slot, fmt.Errorf("%w: alias %q has no target", schema.ErrInvalidSchema, f.Name)
	}
	if !target.Kind.AliasTarget() {
		return slot, fmt.Errorf("%w: alias cannot target a %s field", schema.ErrInvalidAliasTarget, target.Kind)
	}
	if target.Name != "" {
		slot = target.Name
	}
	return r.writeValue(ctx, sch, target, slot, key, value, visited)
}

func (r *Resolver) writeTransformed(ctx context.Context, f *schema.Field, slot string, key RecordKey, value any, advisory bool) error {
	if f.Type != "" {
		tr, err := r.transforms.Transform(f.Type)
		if err != nil {
			if !advisory {
				return err
			}
		} else {
			serialized, err := tr.Serialize(value, opt(f).Transform)
			if err != nil {
				return err
			}
			value = serialized
		}
	}
	return r.store.SetRaw(ctx, key.Type, key.ID, slot, value)
}

func (r *Resolver) writeArray(ctx context.Context, f *schema.Field, slot string, key RecordKey, value any) error {
	if f.Type == "" || value == nil {
		return r.store.SetRaw(ctx, key.Type, key.ID, slot, value)
	}
	elems, ok := value.([]any)
	if !ok {
		return fmt.Errorf("array field takes a slice, got %T", value)
	}
	tr, err := r.transforms.Transform(f.Type)
	if err != nil {
		return err
	}
	out := make([]any, len(elems))
	for i, e := range elems {
		v, err := tr.Serialize(e, opt(f).Transform)
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = v
	}
	return r.store.SetRaw(ctx, key.Type, key.ID, slot, out)
}

// DestroyRecord drops a record from the store and discards all of its
// instance state, including @local values and memoized results.
func (r *Resolver) DestroyRecord(ctx context.Context, key RecordKey) error {
	if err := r.store.DeleteRaw(ctx, key.Type, key.ID); err != nil {
		return err
	}
	r.records.Destroy(key)
	return nil
}
