package resolve

import (
	"fmt"
	"reflect"

	"github.com/cachegraph/cachegraph/internal/schema"
)

// Reserved schema-array key strategies. Anything else names a field-kind
// field on the target schema. Whichever strategy is configured is
// authoritative and exclusive; there is no fallback chain.
const (
	KeyIdentity = "@identity"
	KeyIndex    = "@index"
	KeyHash     = "@hash"
)

// ComputeKey returns the identity key for one element of a schema-array
// under the given strategy. target is the element's concrete schema (the
// polymorphism resolver picks it first for polymorphic arrays).
//
//   - @identity (the default): the raw element's own object identity.
//     Unstable across wholesale data replacement by nature.
//   - @index: the positional index; shifts on insertion and removal.
//   - @hash: the target schema's @hash transform over the raw element.
//   - <field-name>: the raw, untransformed value of the named field-kind
//     field. Uniqueness among siblings is the caller's responsibility;
//     the diff layer detects collisions.
func (r *Resolver) ComputeKey(strategy string, target *schema.ResourceSchema, elem map[string]any, index int) (any, error) {
	switch strategy {
	case "", KeyIdentity:
		if elem == nil {
			return nil, nil
		}
		return reflect.ValueOf(elem).Pointer(), nil

	case KeyIndex:
		return index, nil

	case KeyHash:
		idf := target.IdentityField()
		if idf == nil || idf.Kind != schema.KindHash {
			return nil, fmt.Errorf("%w: schema %q has no @hash field",
				schema.ErrInvalidIdentityField, target.Type)
		}
		hash, err := r.transforms.Hash(idf.Type)
		if err != nil {
			return nil, err
		}
		return hash(elem, opt(idf).Transform)

	default:
		f := target.FieldNamed(strategy)
		if f == nil || f.Kind != schema.KindField {
			return nil, fmt.Errorf("%w: %q is not a field-kind field on %q",
				schema.ErrInvalidIdentityField, strategy, target.Type)
		}
		return elem[strategy], nil
	}
}
