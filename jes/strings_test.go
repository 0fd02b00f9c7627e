package jes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeString(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"plain", "plain"},
		{"", ""},
		{`tab\there`, "tab\there"},
		{`line\nbreak`, "line\nbreak"},
		{`quote\"and\\slash\/`, "quote\"and\\slash/"},
		{`\b\f\r`, "\b\f\r"},
		{`\u0041\u0042\u0043`, "ABC"},
		{`caf\u00e9`, "café"},
		{`\uD834\uDD1E`, "\U0001D11E"},
		{`x\uD83D\uDE00y`, "x\U0001F600y"},
	}
	for _, tc := range cases {
		got, err := DecodeString([]byte(tc.raw))
		require.NoError(t, err, "raw %q", tc.raw)
		assert.Equal(t, tc.want, got, "raw %q", tc.raw)
	}
}

func TestDecodeString_RoundtripWithScanner(t *testing.T) {
	// Whatever the tokenizer accepts, DecodeString must decode.
	ctx := newTestContext(t, 1<<14, SearchLinear)
	mustLoad(t, ctx, `{"k":"a\u00e9\uD834\uDD1E\n"}`)

	key, err := ctx.GetKey(ctx.Root(), "k")
	require.NoError(t, err)
	value, err := ctx.GetKeyValue(key)
	require.NoError(t, err)

	decoded, err := DecodeString(value.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "aé\U0001D11E\n", decoded)
}

func TestDecodeString_Malformed(t *testing.T) {
	cases := []struct {
		raw    string
		status Status
	}{
		{`dangling\`, UnexpectedEOF},
		{`short\u00`, UnexpectedEOF},
		{`bad\uZZZZ`, InvalidUnicode},
		{`escape\q`, UnexpectedSymbol},
	}
	for _, tc := range cases {
		_, err := DecodeString([]byte(tc.raw))
		assert.ErrorIs(t, err, tc.status, "raw %q", tc.raw)
	}
}
