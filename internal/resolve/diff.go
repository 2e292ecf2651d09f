package resolve

import (
	"fmt"
	"reflect"

	"github.com/cachegraph/cachegraph/internal/schema"
)

// MemberMove records one element present in both versions of an array at
// different positions.
type MemberMove struct {
	Key  any
	From int
	To   int
}

// ArrayDiff is the membership change between two versions of a
// schema-array, keyed by the configured identity strategy. Consumers use
// it to decide add/remove/move of array members without re-rendering
// unchanged ones.
type ArrayDiff struct {
	Added   []any
	Removed []any
	Moved   []MemberMove
}

// DiffArray matches two versions of a schema-array by identity key and
// reports membership changes. Seeing the whole array is what makes
// duplicate detection possible, so ErrDuplicateIdentityKey is raised here
// rather than by ComputeKey.
func (r *Resolver) DiffArray(strategy string, target *schema.ResourceSchema, prev, next []map[string]any) (*ArrayDiff, error) {
	prevKeys, err := r.keyIndex(strategy, target, prev)
	if err != nil {
		return nil, err
	}
	nextKeys, err := r.keyIndex(strategy, target, next)
	if err != nil {
		return nil, err
	}

	diff := &ArrayDiff{}
	for i, elem := range next {
		key, err := r.ComputeKey(strategy, target, elem, i)
		if err != nil {
			return nil, err
		}
		from, existed := prevKeys[key]
		switch {
		case !existed:
			diff.Added = append(diff.Added, key)
		case from != i:
			diff.Moved = append(diff.Moved, MemberMove{Key: key, From: from, To: i})
		}
	}
	for i, elem := range prev {
		key, err := r.ComputeKey(strategy, target, elem, i)
		if err != nil {
			return nil, err
		}
		if _, kept := nextKeys[key]; !kept {
			diff.Removed = append(diff.Removed, key)
		}
	}
	return diff, nil
}

// keyIndex computes every element's identity key and maps key to index,
// failing when two siblings collide.
func (r *Resolver) keyIndex(strategy string, target *schema.ResourceSchema, elems []map[string]any) (map[any]int, error) {
	index := make(map[any]int, len(elems))
	for i, elem := range elems {
		key, err := r.ComputeKey(strategy, target, elem, i)
		if err != nil {
			return nil, err
		}
		if key != nil && !reflect.TypeOf(key).Comparable() {
			return nil, fmt.Errorf("%w: key of type %T is not comparable",
				schema.ErrInvalidIdentityField, key)
		}
		if prior, dup := index[key]; dup {
			return nil, fmt.Errorf("%w: elements %d and %d share key %v",
				ErrDuplicateIdentityKey, prior, i, key)
		}
		index[key] = i
	}
	return index, nil
}
