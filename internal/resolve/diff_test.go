package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cachegraph/cachegraph/internal/schema"
)

func TestDiffArray(t *testing.T) {
	fx := newFixture(t)
	target := tagSchema()

	tag := func(label string) map[string]any {
		return map[string]any{"label": label}
	}

	t.Run("added removed and moved", func(t *testing.T) {
		prev := []map[string]any{tag("a"), tag("b"), tag("c")}
		next := []map[string]any{tag("b"), tag("c"), tag("d")}

		diff, err := fx.resolver.DiffArray("label", target, prev, next)
		require.NoError(t, err)

		assert.Equal(t, []any{"d"}, diff.Added)
		assert.Equal(t, []any{"a"}, diff.Removed)
		assert.Equal(t, []MemberMove{
			{Key: "b", From: 1, To: 0},
			{Key: "c", From: 2, To: 1},
		}, diff.Moved)
	})

	t.Run("identical arrays produce an empty diff", func(t *testing.T) {
		elems := []map[string]any{tag("a"), tag("b")}
		diff, err := fx.resolver.DiffArray("label", target, elems, elems)
		require.NoError(t, err)

		assert.Empty(t, diff.Added)
		assert.Empty(t, diff.Removed)
		assert.Empty(t, diff.Moved)
	})

	t.Run("duplicate keys among siblings", func(t *testing.T) {
		_, err := fx.resolver.DiffArray("label", target,
			nil, []map[string]any{tag("a"), tag("b"), tag("a")})
		require.ErrorIs(t, err, ErrDuplicateIdentityKey)
		assert.Contains(t, err.Error(), "elements 0 and 2")
	})

	t.Run("non-comparable keys are rejected", func(t *testing.T) {
		_, err := fx.resolver.DiffArray("label", target,
			nil, []map[string]any{{"label": []any{"a"}}})
		require.ErrorIs(t, err, schema.ErrInvalidIdentityField)
	})

	t.Run("index keys diff positionally", func(t *testing.T) {
		prev := []map[string]any{tag("a"), tag("b")}
		next := []map[string]any{tag("b")}

		diff, err := fx.resolver.DiffArray("@index", target, prev, next)
		require.NoError(t, err)

		// Under @index the second element inherits key 0, so the diff sees
		// one removal at the tail, not a move.
		assert.Empty(t, diff.Added)
		assert.Equal(t, []any{1}, diff.Removed)
		assert.Empty(t, diff.Moved)
	})
}
