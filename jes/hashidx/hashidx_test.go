package hashidx

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore backs the resolver: ref -> (parent, key).
type testStore map[Ref]struct {
	parent uint32
	key    string
}

func (s testStore) resolve(r Ref) (uint32, []byte, bool) {
	e, ok := s[r]
	if !ok {
		return 0, nil, false
	}
	return e.parent, []byte(e.key), true
}

func newTestTable(t *testing.T, slots int) (*Table, testStore) {
	t.Helper()
	store := testStore{}
	table, err := New(make([]byte, slots*EntrySize), store.resolve)
	require.NoError(t, err)
	require.Equal(t, slots, table.Capacity())
	return table, store
}

func (s testStore) put(table *Table, r Ref, parent uint32, key string) error {
	s[r] = struct {
		parent uint32
		key    string
	}{parent, key}
	return table.Add(parent, []byte(key), r)
}

func TestTable_AddFind(t *testing.T) {
	table, store := newTestTable(t, 16)

	require.NoError(t, store.put(table, 1, 0, "alpha"))
	require.NoError(t, store.put(table, 2, 0, "beta"))
	require.NoError(t, store.put(table, 3, 5, "alpha"), "same name under another parent must coexist")

	r, ok := table.Find(0, []byte("alpha"))
	assert.True(t, ok)
	assert.Equal(t, Ref(1), r)

	r, ok = table.Find(5, []byte("alpha"))
	assert.True(t, ok)
	assert.Equal(t, Ref(3), r)

	_, ok = table.Find(9, []byte("alpha"))
	assert.False(t, ok, "no entry for that parent")
	_, ok = table.Find(0, []byte("gamma"))
	assert.False(t, ok)

	assert.Equal(t, 3, table.Count())
}

func TestTable_Duplicate(t *testing.T) {
	table, store := newTestTable(t, 16)

	require.NoError(t, store.put(table, 1, 0, "alpha"))
	err := table.Add(0, []byte("alpha"), 7)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, 1, table.Count(), "a rejected add must not grow the table")
}

func TestTable_RemoveKeepsChains(t *testing.T) {
	// A tiny table forces every key into one probe chain.
	table, store := newTestTable(t, 4)

	require.NoError(t, store.put(table, 0, 0, "a"))
	require.NoError(t, store.put(table, 1, 0, "b"))
	require.NoError(t, store.put(table, 2, 0, "c"))

	table.Remove(0, []byte("b"), 1)
	delete(store, 1)

	_, ok := table.Find(0, []byte("b"))
	assert.False(t, ok, "removed key must miss")

	for r, e := range store {
		got, ok := table.Find(e.parent, []byte(e.key))
		assert.True(t, ok, "key %q must survive the removal", e.key)
		assert.Equal(t, r, got)
	}
}

func TestTable_TombstoneReuse(t *testing.T) {
	table, store := newTestTable(t, 4)

	require.NoError(t, store.put(table, 0, 0, "a"))
	require.NoError(t, store.put(table, 1, 0, "b"))
	table.Remove(0, []byte("a"), 0)
	delete(store, 0)

	// The freed slot must be usable again.
	require.NoError(t, store.put(table, 2, 0, "c"))
	require.NoError(t, store.put(table, 3, 0, "d"))
	require.NoError(t, store.put(table, 4, 0, "e"))

	for r, e := range store {
		got, ok := table.Find(e.parent, []byte(e.key))
		assert.True(t, ok, "key %q should be findable", e.key)
		assert.Equal(t, r, got)
	}
}

func TestTable_Full(t *testing.T) {
	table, store := newTestTable(t, 4)

	for i := range 4 {
		require.NoError(t, store.put(table, Ref(i), 0, fmt.Sprintf("key%d", i)))
	}
	err := table.Add(0, []byte("overflow"), 99)
	assert.ErrorIs(t, err, ErrFull)
}

func TestTable_Disabled(t *testing.T) {
	table, store := newTestTable(t, 8)
	require.NoError(t, store.put(table, 1, 0, "alpha"))

	table.SetEnabled(false)
	assert.NoError(t, table.Add(0, []byte("beta"), 2), "adds become no-ops")
	_, ok := table.Find(0, []byte("alpha"))
	assert.False(t, ok, "finds miss while disabled")

	table.SetEnabled(true)
	_, ok = table.Find(0, []byte("alpha"))
	assert.True(t, ok)
}

func TestTable_RegionTooSmall(t *testing.T) {
	_, err := New(make([]byte, EntrySize-1), testStore{}.resolve)
	assert.ErrorIs(t, err, ErrRegionTooSmall)
}

func TestHash_ParentChangesHash(t *testing.T) {
	h1 := Hash(1, []byte("key"))
	h2 := Hash(2, []byte("key"))
	assert.NotEqual(t, h1, h2, "the parent descriptor participates in the hash")
	assert.Equal(t, h1, Hash(1, []byte("key")), "the hash is deterministic")
}
