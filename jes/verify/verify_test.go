package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omidbimo/jeskit/jes"
)

func load(t *testing.T, doc string) *jes.Context {
	t.Helper()
	ctx, err := jes.Init(make([]byte, 1<<14), jes.SearchLinear)
	require.NoError(t, err)
	require.NoError(t, ctx.Load([]byte(doc)))
	return ctx
}

func TestTree_EmptyAndValid(t *testing.T) {
	ctx, err := jes.Init(make([]byte, 1<<14), jes.SearchLinear)
	require.NoError(t, err)
	assert.Empty(t, Tree(ctx), "an empty tree has nothing to violate")

	docs := []string{
		`{}`,
		`[]`,
		`{"a":{"b":[1,2,3],"c":null},"d":"s"}`,
		`[[],{},[{"x":1}]]`,
		`42`,
	}
	for _, doc := range docs {
		ctx := load(t, doc)
		assert.Empty(t, Tree(ctx), "document %q should verify clean", doc)
	}
}

func TestTree_CleanAfterMutations(t *testing.T) {
	ctx := load(t, `{"a":{"b":[1,2,3]},"z":0}`)

	key, err := ctx.GetKey(ctx.Root(), "a.b")
	require.NoError(t, err)
	array, err := ctx.GetKeyValue(key)
	require.NoError(t, err)

	_, err = ctx.AppendArrayValue(array, jes.String, "tail")
	require.NoError(t, err)
	_, err = ctx.AddArrayValue(array, 0, jes.Null, "")
	require.NoError(t, err)
	mid, err := ctx.ArrayValue(array, 2)
	require.NoError(t, err)
	require.NoError(t, ctx.DeleteElement(mid))

	a, err := ctx.GetKey(ctx.Root(), "a")
	require.NoError(t, err)
	_, err = ctx.AddKeyAfter(a, "m")
	require.NoError(t, err)
	m, err := ctx.GetKey(ctx.Root(), "m")
	require.NoError(t, err)
	require.NoError(t, ctx.UpdateKeyValueToObject(m))

	z, err := ctx.GetKey(ctx.Root(), "z")
	require.NoError(t, err)
	require.NoError(t, ctx.DeleteElement(z))

	assert.Empty(t, Tree(ctx), "invariants must hold after any public mutation sequence")
}

func TestTree_KeyWithoutValueIsLegal(t *testing.T) {
	// A freshly added key has no value yet. That shape is refused by the
	// serializer, not by the store, so the invariant walk stays clean.
	ctx := load(t, `{}`)
	_, err := ctx.AddKey(ctx.Root(), "pending")
	require.NoError(t, err)
	assert.Empty(t, Tree(ctx))
}
