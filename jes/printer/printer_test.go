package printer

import (
	"bytes"
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

func TestPrinter_Tree(t *testing.T) {
	ctx := load(t, `{"a":[1,"s"],"b":null}`)

	var buf bytes.Buffer
	p := New(&buf, Options{ShowValues: true})
	require.NoError(t, p.Tree(ctx))

	want := `OBJECT
  KEY "a"
    ARRAY
      NUMBER 1
      STRING "s"
  KEY "b"
    NULL
`
	assert.Equal(t, want, buf.String())
}

func TestPrinter_EmptyTree(t *testing.T) {
	ctx, err := jes.Init(make([]byte, 1<<14), jes.SearchLinear)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{}).Tree(ctx))
	assert.Equal(t, "(empty tree)\n", buf.String())
}

func TestPrinter_MaxDepth(t *testing.T) {
	ctx := load(t, `{"a":{"b":{"c":1}}}`)

	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{MaxDepth: 2}).Tree(ctx))
	assert.Equal(t, "OBJECT\n  KEY \"a\"\n", buf.String())
}

func TestPrinter_HidesValues(t *testing.T) {
	ctx := load(t, `{"n":12345}`)

	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{}).Tree(ctx))
	assert.Contains(t, buf.String(), "NUMBER (5 bytes)")
	assert.NotContains(t, buf.String(), "12345")
}

func TestElementString(t *testing.T) {
	ctx := load(t, `{"k":"v"}`)

	key, err := ctx.GetKey(ctx.Root(), "k")
	require.NoError(t, err)
	assert.Equal(t, `KEY "k"`, ElementString(key))

	value, err := ctx.GetKeyValue(key)
	require.NoError(t, err)
	assert.Equal(t, `STRING "v"`, ElementString(value))

	assert.Equal(t, "(nil element)", ElementString(nil))
}

func TestStatusLine(t *testing.T) {
	ctx := load(t, `{}`)
	assert.Equal(t, "status: NO_ERROR", StatusLine(ctx))

	err := ctx.Load([]byte(`{"k":01}`))
	require.Error(t, err)
	assert.Equal(t,
		"status: INVALID_NUMBER at line 1, column 6 (token NUMBER, element KEY)",
		StatusLine(ctx))
}

func TestWorkspaceLine(t *testing.T) {
	ctx := load(t, `{"a":1}`)
	line := WorkspaceLine(ctx)
	assert.Contains(t, line, "workspace: 16384 bytes")
	assert.Contains(t, line, "pool 3/")
}
