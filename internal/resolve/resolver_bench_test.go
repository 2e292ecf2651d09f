package resolve

import (
	"context"
	"fmt"
	"testing"

	"github.com/cachegraph/cachegraph/internal/schema"
	"github.com/cachegraph/cachegraph/internal/store"
	"github.com/cachegraph/cachegraph/internal/transform"
)

func benchResolver(b *testing.B) (*Resolver, *schema.ResourceSchema, RecordKey) {
	schemas := schema.NewRegistry()
	if err := schemas.Register(userTestSchema()); err != nil {
		b.Fatal(err)
	}

	transforms := transform.DefaultRegistry()
	transforms.RegisterTransform("counted", &countingTransform{})
	transforms.RegisterDerivation("shout",
		func(rec transform.RecordHandle, _ map[string]any, _ string) (any, error) {
			return rec.Get("name")
		})

	st := store.NewMemoryStore()
	st.PutRaw(context.Background(), "user", "1", map[string]any{
		"id": "1", "name": "Ada", "age": 36,
	})

	sch, _ := schemas.Get("user")
	return New(schemas, transforms, st), sch, RecordKey{Type: "user", ID: "1"}
}

func BenchmarkResolvePlainField(b *testing.B) {
	r, sch, key := benchResolver(b)
	raw := map[string]any{"name": "Ada"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.ResolveField(context.Background(), sch, "name", raw, key)
	}
}

func BenchmarkResolveAliasChain(b *testing.B) {
	r, sch, key := benchResolver(b)
	raw := map[string]any{"name": "Ada"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.ResolveField(context.Background(), sch, "displayName", raw, key)
	}
}

func BenchmarkResolveDerivedMemoized(b *testing.B) {
	r, sch, key := benchResolver(b)
	raw := map[string]any{"name": "Ada"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.ResolveField(context.Background(), sch, "fullName", raw, key)
	}
}

func BenchmarkComputeHashKey(b *testing.B) {
	r, _, _ := benchResolver(b)
	target := tagSchema()
	elem := map[string]any{"label": "go", "weight": 3}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.ComputeKey("@hash", target, elem, 0)
	}
}

func BenchmarkDiffArray100(b *testing.B) {
	r, _, _ := benchResolver(b)
	target := tagSchema()

	prev := make([]map[string]any, 100)
	next := make([]map[string]any, 100)
	for i := range prev {
		prev[i] = map[string]any{"label": fmt.Sprintf("tag-%d", i)}
		// Shift by one and replace the tail to exercise every branch.
		next[i] = map[string]any{"label": fmt.Sprintf("tag-%d", (i+1)%101)}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.DiffArray("label", target, prev, next)
	}
}
