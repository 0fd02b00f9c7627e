package mmfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	content := []byte(`{"mapped":true}`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	data, cleanup, err := Map(path)
	require.NoError(t, err)
	assert.Equal(t, content, data)
	assert.NoError(t, cleanup())
}

func TestMap_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	data, cleanup, err := Map(path)
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.NoError(t, cleanup())
}

func TestMap_MissingFile(t *testing.T) {
	_, _, err := Map(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
