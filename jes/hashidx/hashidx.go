// Package hashidx provides the key lookup table carved out of the tail of
// the engine workspace.
//
// Entries are (hash, node ref) pairs in an open-addressed table with linear
// probing. The hash covers both the parent object's descriptor and the key
// bytes, so identically named keys under different objects coexist. The
// table stores no key bytes of its own: a resolver callback reads them back
// from the node pool when a probe needs an exact comparison.
//
// Removal writes a tombstone instead of clearing the slot, keeping probe
// chains intact for keys inserted after the removed one.
package hashidx

import (
	"bytes"
	"errors"

	"github.com/omidbimo/jeskit/internal/layout"
)

const (
	fnvPrime32       = 16777619
	fnvOffsetBasis32 = 2166136261

	refEmpty     = 0xFFFFFFFF
	refTombstone = 0xFFFFFFFE
)

var (
	// ErrDuplicate indicates the (parent, key) pair is already present.
	ErrDuplicate = errors.New("hashidx: duplicate key")

	// ErrFull indicates a probe cycled the whole table without a free slot.
	ErrFull = errors.New("hashidx: table full")

	// ErrRegionTooSmall indicates the workspace tail cannot hold one entry.
	ErrRegionTooSmall = errors.New("hashidx: region too small")
)

// Ref identifies a key node in the pool. Values at or above 0xFFFFFFFE are
// reserved for slot bookkeeping and must not be used by callers.
type Ref = uint32

// ResolveFunc reads the parent descriptor and the key bytes of a live key
// node. It reports ok=false when ref no longer names a live key.
type ResolveFunc func(ref Ref) (parent uint32, key []byte, ok bool)

type entry struct {
	hash uint32
	ref  uint32
}

// EntrySize is the per-slot footprint in workspace bytes.
var EntrySize = layout.SizeOf[entry]()

// Table is the open-addressed key index. It owns no memory: the entry
// array is an overlay on the region handed to New.
type Table struct {
	entries []entry
	resolve ResolveFunc
	count   int
	enabled bool
}

// New overlays a table on region and clears it. The usable capacity is
// len(region)/EntrySize entries.
func New(region []byte, resolve ResolveFunc) (*Table, error) {
	capacity := len(region) / EntrySize
	if capacity == 0 {
		return nil, ErrRegionTooSmall
	}
	entries, err := layout.Overlay[entry](region, capacity)
	if err != nil {
		return nil, err
	}
	t := &Table{entries: entries, resolve: resolve, enabled: true}
	t.Reset()
	return t, nil
}

// Reset empties the table without touching capacity or the enabled switch.
func (t *Table) Reset() {
	for i := range t.entries {
		t.entries[i] = entry{ref: refEmpty}
	}
	t.count = 0
}

// Capacity returns the number of slots.
func (t *Table) Capacity() int { return len(t.entries) }

// Count returns the number of live entries.
func (t *Table) Count() int { return t.count }

// Enabled reports whether the table participates in key bookkeeping.
func (t *Table) Enabled() bool { return t.enabled }

// SetEnabled turns the table on or off at runtime. While off, Add and
// Remove are no-ops and Find always misses, so callers fall back to a
// linear child scan.
func (t *Table) SetEnabled(on bool) { t.enabled = on }

// Hash computes the compound FNV-1a hash of the parent descriptor
// (little-endian bytes) followed by the key bytes.
func Hash(parent uint32, key []byte) uint32 {
	hash := uint32(fnvOffsetBasis32)
	for i := 0; i < 4; i++ {
		hash ^= uint32(byte(parent >> (8 * i)))
		hash *= fnvPrime32
	}
	for _, c := range key {
		hash ^= uint32(c)
		hash *= fnvPrime32
	}
	return hash
}

// Add registers ref as the key node for (parent, key). It returns
// ErrDuplicate when an equal key under the same parent is already present
// and ErrFull when no slot is free.
func (t *Table) Add(parent uint32, key []byte, ref Ref) error {
	if !t.enabled {
		return nil
	}
	hash := Hash(parent, key)
	idx := int(hash % uint32(len(t.entries)))
	insertAt := -1

	for range t.entries {
		e := &t.entries[idx]
		switch e.ref {
		case refEmpty:
			if insertAt < 0 {
				insertAt = idx
			}
			t.entries[insertAt] = entry{hash: hash, ref: ref}
			t.count++
			return nil
		case refTombstone:
			// Reusable, but the probe must continue: an equal key may
			// live further down the chain.
			if insertAt < 0 {
				insertAt = idx
			}
		default:
			if e.hash == hash && t.matches(e.ref, parent, key) {
				return ErrDuplicate
			}
		}
		idx = (idx + 1) % len(t.entries)
	}

	if insertAt >= 0 {
		t.entries[insertAt] = entry{hash: hash, ref: ref}
		t.count++
		return nil
	}
	return ErrFull
}

// Find returns the ref registered for (parent, key).
func (t *Table) Find(parent uint32, key []byte) (Ref, bool) {
	if !t.enabled {
		return 0, false
	}
	hash := Hash(parent, key)
	idx := int(hash % uint32(len(t.entries)))

	for range t.entries {
		e := &t.entries[idx]
		switch e.ref {
		case refEmpty:
			return 0, false
		case refTombstone:
			// Keep probing through removed slots.
		default:
			if e.hash == hash && t.matches(e.ref, parent, key) {
				return e.ref, true
			}
		}
		idx = (idx + 1) % len(t.entries)
	}
	return 0, false
}

// Remove drops the entry holding ref for (parent, key). Removing an absent
// entry is a no-op.
func (t *Table) Remove(parent uint32, key []byte, ref Ref) {
	if !t.enabled {
		return
	}
	hash := Hash(parent, key)
	idx := int(hash % uint32(len(t.entries)))

	for range t.entries {
		e := &t.entries[idx]
		switch e.ref {
		case refEmpty:
			return
		case refTombstone:
		default:
			if e.hash == hash && e.ref == ref {
				*e = entry{ref: refTombstone}
				t.count--
				return
			}
		}
		idx = (idx + 1) % len(t.entries)
	}
}

func (t *Table) matches(ref Ref, parent uint32, key []byte) bool {
	p, k, ok := t.resolve(ref)
	return ok && p == parent && bytes.Equal(k, key)
}
