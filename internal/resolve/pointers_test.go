package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cachegraph/cachegraph/internal/schema"
)

func relationshipFixture(t *testing.T) (*fixture, *schema.ResourceSchema) {
	t.Helper()
	fx := newFixture(t)

	require.NoError(t, fx.schemas.Register(&schema.ResourceSchema{
		Type: "post",
		Mode: schema.ModeResource,
		Fields: []*schema.Field{
			{Name: "id", Kind: schema.KindIdentity},
			{Name: "author", Kind: schema.KindResource, Type: "user"},
			{Name: "comments", Kind: schema.KindCollection, Type: "comment",
				Options: &schema.FieldOptions{Async: true}},
			{Name: "subject", Kind: schema.KindResource,
				Options: &schema.FieldOptions{Polymorphic: true}},
		},
	}))
	sch, _ := fx.schemas.Get("post")
	return fx, sch
}

func TestResourcePointerShapes(t *testing.T) {
	ctx := context.Background()
	fx, sch := relationshipFixture(t)
	key := RecordKey{Type: "post", ID: "1"}

	resolveAuthor := func(t *testing.T, raw any) (*ResourcePointer, error) {
		t.Helper()
		resolved, err := fx.resolver.ResolveField(ctx, sch, "author",
			map[string]any{"author": raw}, key)
		if err != nil {
			return nil, err
		}
		return resolved.Value.(*ResourcePointer), nil
	}

	t.Run("nil stays nil", func(t *testing.T) {
		ptr, err := resolveAuthor(t, nil)
		require.NoError(t, err)
		assert.Nil(t, ptr)
	})

	t.Run("bare pointer", func(t *testing.T) {
		ptr, err := resolveAuthor(t, map[string]any{"type": "user", "id": "7"})
		require.NoError(t, err)
		require.NotNil(t, ptr)
		assert.Equal(t, "user", ptr.Type)
		assert.Equal(t, "7", ptr.ID)
	})

	t.Run("numeric ids are stringified", func(t *testing.T) {
		ptr, err := resolveAuthor(t, map[string]any{"type": "user", "id": float64(7)})
		require.NoError(t, err)
		assert.Equal(t, "7", ptr.ID)
	})

	t.Run("data plus links", func(t *testing.T) {
		ptr, err := resolveAuthor(t, map[string]any{
			"data":  map[string]any{"type": "user", "id": "7"},
			"links": map[string]any{"related": "/posts/1/author"},
		})
		require.NoError(t, err)
		require.NotNil(t, ptr)
		assert.Equal(t, "user", ptr.Type)
		assert.Equal(t, "/posts/1/author", ptr.Links["related"])
	})

	t.Run("explicit null data keeps the links", func(t *testing.T) {
		ptr, err := resolveAuthor(t, map[string]any{
			"data":  nil,
			"links": map[string]any{"related": "/posts/1/author"},
		})
		require.NoError(t, err)
		require.NotNil(t, ptr)
		assert.Empty(t, ptr.ID)
		assert.Equal(t, "/posts/1/author", ptr.Links["related"])
	})

	t.Run("explicit null data without links is nil", func(t *testing.T) {
		ptr, err := resolveAuthor(t, map[string]any{"data": nil})
		require.NoError(t, err)
		assert.Nil(t, ptr)
	})

	t.Run("non-object values fail", func(t *testing.T) {
		_, err := resolveAuthor(t, "user/7")
		require.Error(t, err)
	})
}

func TestCollectionPointerShapes(t *testing.T) {
	ctx := context.Background()
	fx, sch := relationshipFixture(t)
	key := RecordKey{Type: "post", ID: "1"}

	resolveComments := func(t *testing.T, raw any) (*CollectionPointer, error) {
		t.Helper()
		resolved, err := fx.resolver.ResolveField(ctx, sch, "comments",
			map[string]any{"comments": raw}, key)
		if err != nil {
			return nil, err
		}
		return resolved.Value.(*CollectionPointer), nil
	}

	t.Run("nil is an empty collection", func(t *testing.T) {
		col, err := resolveComments(t, nil)
		require.NoError(t, err)
		require.NotNil(t, col)
		assert.Empty(t, col.Data)
	})

	t.Run("bare pointer array", func(t *testing.T) {
		col, err := resolveComments(t, []any{
			map[string]any{"type": "comment", "id": "1"},
			map[string]any{"type": "comment", "id": "2"},
		})
		require.NoError(t, err)
		require.Len(t, col.Data, 2)
		assert.Equal(t, "2", col.Data[1].ID)
	})

	t.Run("data plus pagination links", func(t *testing.T) {
		col, err := resolveComments(t, map[string]any{
			"data":  []any{map[string]any{"type": "comment", "id": "1"}},
			"links": map[string]any{"next": "/posts/1/comments?page=2"},
		})
		require.NoError(t, err)
		require.Len(t, col.Data, 1)
		assert.Equal(t, "/posts/1/comments?page=2", col.Links["next"])
	})

	t.Run("links only", func(t *testing.T) {
		col, err := resolveComments(t, map[string]any{
			"links": map[string]any{"related": "/posts/1/comments"},
		})
		require.NoError(t, err)
		assert.Empty(t, col.Data)
		assert.Equal(t, "/posts/1/comments", col.Links["related"])
	})

	t.Run("non-array data fails", func(t *testing.T) {
		_, err := resolveComments(t, map[string]any{"data": "nope"})
		require.Error(t, err)
	})
}

func TestPolymorphicPointer(t *testing.T) {
	ctx := context.Background()
	fx, sch := relationshipFixture(t)
	key := RecordKey{Type: "post", ID: "1"}

	raw := map[string]any{"subject": map[string]any{"type": "user", "id": "7"}}
	resolved, err := fx.resolver.ResolveField(ctx, sch, "subject", raw, key)
	require.NoError(t, err)
	ptr := resolved.Value.(*ResourcePointer)
	assert.Equal(t, "user", ptr.Type)

	raw = map[string]any{"subject": map[string]any{"type": "ghost", "id": "7"}}
	_, err = fx.resolver.ResolveField(ctx, sch, "subject", raw, key)
	require.ErrorIs(t, err, ErrMissingDiscriminator)
}
