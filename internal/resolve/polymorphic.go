package resolve

import (
	"fmt"

	"github.com/cachegraph/cachegraph/internal/schema"
)

// ResolveConcreteSchema picks the concrete schema for a polymorphic
// field's raw element. The discriminator key is the field's `type` option
// when set, else the literal key "type". Pure given the registry.
func ResolveConcreteSchema(reg *schema.Registry, f *schema.Field, rawElement map[string]any) (string, error) {
	key := f.DiscriminatorKey()

	raw, present := rawElement[key]
	discriminator, _ := raw.(string)
	if !present || discriminator == "" {
		return "", fmt.Errorf("%w: no %q key in raw data", ErrMissingDiscriminator, key)
	}

	concrete, ok := reg.Get(discriminator)
	if !ok {
		return "", fmt.Errorf("%w: %q is not a registered schema", ErrMissingDiscriminator, discriminator)
	}

	if as := opt(f).As; as != "" {
		if concrete.Type != as && !concrete.HasTrait(as) {
			return "", fmt.Errorf("%w: %q does not implement %q", ErrTraitMismatch, discriminator, as)
		}
	}
	return discriminator, nil
}

// opt reads a field's options without nil checks at every call site.
func opt(f *schema.Field) schema.FieldOptions {
	if f.Options == nil {
		return schema.FieldOptions{}
	}
	return *f.Options
}
