package resolve

import (
	"fmt"

	"github.com/cachegraph/cachegraph/internal/schema"
)

// ResourcePointer is the stable pointer structure returned for resource
// relationship fields. Resolution ends here; the external fetch layer
// turns pointers and links into loaded records.
type ResourcePointer struct {
	Type  string
	ID    string
	Links map[string]string
}

// CollectionPointer is the pointer structure for collection relationship
// fields: the current membership plus pagination links for the fetch
// layer.
type CollectionPointer struct {
	Data  []ResourcePointer
	Links map[string]string
}

// shapePointer normalizes a raw relationship value into a ResourcePointer.
// Accepted shapes: nil, {"type","id"}, and {"data": {...}, "links": {...}}
// for async relationships that arrived as link descriptors.
func (r *Resolver) shapePointer(f *schema.Field, raw any) (*ResourcePointer, error) {
	if raw == nil {
		return nil, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("relationship value must be an object, got %T", raw)
	}

	ptr := &ResourcePointer{Links: shapeLinks(m["links"])}

	data := m
	if inner, ok := m["data"].(map[string]any); ok {
		data = inner
	} else if _, hasData := m["data"]; hasData && m["data"] == nil {
		// Explicit null data: an empty pointer that may still carry links.
		if ptr.Links == nil {
			return nil, nil
		}
		return ptr, nil
	}

	ptr.Type, _ = data["type"].(string)
	ptr.ID = stringify(data["id"])

	if opt(f).Polymorphic && ptr.Type != "" {
		if _, err := ResolveConcreteSchema(r.schemas, f, data); err != nil {
			return nil, err
		}
	}
	return ptr, nil
}

// shapeCollection normalizes a raw collection value. Accepted shapes:
// nil, a bare pointer array, and {"data": [...], "links": {...}} for
// async or paginated collections.
func (r *Resolver) shapeCollection(f *schema.Field, raw any) (*CollectionPointer, error) {
	col := &CollectionPointer{}
	if raw == nil {
		return col, nil
	}

	elems, ok := raw.([]any)
	if !ok {
		m, isMap := raw.(map[string]any)
		if !isMap {
			return nil, fmt.Errorf("collection value must be an array or object, got %T", raw)
		}
		col.Links = shapeLinks(m["links"])
		if m["data"] == nil {
			return col, nil
		}
		elems, ok = m["data"].([]any)
		if !ok {
			return nil, fmt.Errorf("collection data must be an array, got %T", m["data"])
		}
	}

	col.Data = make([]ResourcePointer, 0, len(elems))
	for i, e := range elems {
		ptr, err := r.shapePointer(f, e)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
		if ptr != nil {
			col.Data = append(col.Data, *ptr)
		}
	}
	return col, nil
}

func shapeLinks(raw any) map[string]string {
	m, ok := raw.(map[string]any)
	if !ok || len(m) == 0 {
		return nil
	}
	links := make(map[string]string, len(m))
	for name, v := range m {
		if s, ok := v.(string); ok {
			links[name] = s
		}
	}
	return links
}

func stringify(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	default:
		return fmt.Sprintf("%v", id)
	}
}
