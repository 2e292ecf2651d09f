package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cachegraph/cachegraph/internal/schema"
)

func polymorphicFixture(t *testing.T) *fixture {
	t.Helper()
	fx := newFixture(t)

	require.NoError(t, fx.schemas.Register(&schema.ResourceSchema{
		Type:   "comment",
		Mode:   schema.ModeResource,
		Traits: []string{"reactable"},
		Fields: []*schema.Field{
			{Name: "id", Kind: schema.KindIdentity},
			{Name: "body", Kind: schema.KindField},
		},
	}))
	require.NoError(t, fx.schemas.Register(&schema.ResourceSchema{
		Type: "like",
		Mode: schema.ModeResource,
		Fields: []*schema.Field{
			{Name: "id", Kind: schema.KindIdentity},
		},
	}))
	return fx
}

func TestResolveConcreteSchema(t *testing.T) {
	fx := polymorphicFixture(t)
	f := &schema.Field{Name: "subject", Kind: schema.KindSchemaObject,
		Options: &schema.FieldOptions{Polymorphic: true}}

	t.Run("default discriminator key", func(t *testing.T) {
		concrete, err := ResolveConcreteSchema(fx.schemas, f, map[string]any{"type": "comment"})
		require.NoError(t, err)
		assert.Equal(t, "comment", concrete)
	})

	t.Run("custom discriminator key", func(t *testing.T) {
		custom := &schema.Field{Name: "subject", Kind: schema.KindSchemaObject,
			Options: &schema.FieldOptions{Polymorphic: true, DiscriminatorKey: "kind"}}
		concrete, err := ResolveConcreteSchema(fx.schemas, custom, map[string]any{"kind": "like"})
		require.NoError(t, err)
		assert.Equal(t, "like", concrete)

		// The configured key is exclusive: a "type" key is not consulted.
		_, err = ResolveConcreteSchema(fx.schemas, custom, map[string]any{"type": "like"})
		require.ErrorIs(t, err, ErrMissingDiscriminator)
	})

	t.Run("missing discriminator", func(t *testing.T) {
		_, err := ResolveConcreteSchema(fx.schemas, f, map[string]any{"body": "hi"})
		require.ErrorIs(t, err, ErrMissingDiscriminator)

		_, err = ResolveConcreteSchema(fx.schemas, f, map[string]any{"type": ""})
		require.ErrorIs(t, err, ErrMissingDiscriminator)
	})

	t.Run("unregistered discriminator", func(t *testing.T) {
		_, err := ResolveConcreteSchema(fx.schemas, f, map[string]any{"type": "ghost"})
		require.ErrorIs(t, err, ErrMissingDiscriminator)
	})

	t.Run("trait constraint", func(t *testing.T) {
		constrained := &schema.Field{Name: "subject", Kind: schema.KindSchemaObject,
			Options: &schema.FieldOptions{Polymorphic: true, As: "reactable"}}

		concrete, err := ResolveConcreteSchema(fx.schemas, constrained, map[string]any{"type": "comment"})
		require.NoError(t, err)
		assert.Equal(t, "comment", concrete)

		_, err = ResolveConcreteSchema(fx.schemas, constrained, map[string]any{"type": "like"})
		require.ErrorIs(t, err, ErrTraitMismatch)
	})

	t.Run("as may name the concrete type itself", func(t *testing.T) {
		exact := &schema.Field{Name: "subject", Kind: schema.KindSchemaObject,
			Options: &schema.FieldOptions{Polymorphic: true, As: "like"}}
		concrete, err := ResolveConcreteSchema(fx.schemas, exact, map[string]any{"type": "like"})
		require.NoError(t, err)
		assert.Equal(t, "like", concrete)
	})
}

func TestPolymorphicSchemaObjectResolution(t *testing.T) {
	ctx := context.Background()
	fx := polymorphicFixture(t)

	require.NoError(t, fx.schemas.Register(&schema.ResourceSchema{
		Type: "activity",
		Mode: schema.ModeResource,
		Fields: []*schema.Field{
			{Name: "id", Kind: schema.KindIdentity},
			{Name: "subject", Kind: schema.KindSchemaObject,
				Options: &schema.FieldOptions{Polymorphic: true}},
		},
	}))
	sch, _ := fx.schemas.Get("activity")
	key := RecordKey{Type: "activity", ID: "1"}

	raw := map[string]any{"subject": map[string]any{"type": "comment", "body": "hi"}}
	resolved, err := fx.resolver.ResolveField(ctx, sch, "subject", raw, key)
	require.NoError(t, err)

	obj := resolved.Value.(*ResolvedObject)
	assert.Equal(t, "comment", obj.Schema)
	assert.Equal(t, "hi", obj.Data["body"])

	raw = map[string]any{"subject": map[string]any{"body": "hi"}}
	_, err = fx.resolver.ResolveField(ctx, sch, "subject", raw, key)
	require.ErrorIs(t, err, ErrMissingDiscriminator)
}
