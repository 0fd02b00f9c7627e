package jes

import (
	"encoding/binary"
	"unsafe"

	"github.com/omidbimo/jeskit/internal/layout"
	"github.com/omidbimo/jeskit/jes/hashidx"
	"github.com/omidbimo/jeskit/jes/scan"
)

// Mode selects how keys are searched inside objects.
type Mode uint8

const (
	// SearchLinear scans an object's children on every key lookup. The
	// whole workspace remainder backs the node pool.
	SearchLinear Mode = iota

	// SearchHashed carves a hash table out of the workspace tail for O(1)
	// key lookup and eager duplicate detection.
	SearchHashed
)

const (
	contextCookie = 0xABC09DEF

	// ContextHeaderSize is the workspace prefix reserved for the context
	// header. Init fails on buffers smaller than this.
	ContextHeaderSize = 64

	// poolPercent is the share of the remaining workspace given to the
	// node pool in hashed mode; the tail holds the hash table.
	poolPercent = 75

	// DefaultPathSeparator separates key names in GetKey paths.
	DefaultPathSeparator = '.'

	maxPathLength = 256
)

var (
	elementSize  = layout.SizeOf[Element]()
	elementAlign = layout.AlignOf[Element]()
)

// ElementSize returns the workspace bytes one node slot occupies.
func ElementSize() int { return elementSize }

// Context is a JSON document engine bound to one workspace buffer. It is
// not safe for concurrent use.
type Context struct {
	cookie    uint32
	workspace []byte
	mode      Mode

	pool      []Element
	poolOff   int
	poolBytes int
	capacity  int
	nextFree  int // bump index; grows until capacity
	freeHead  ref // LIFO list of freed slots, linked through the sibling field
	liveCount int
	rootRef   ref

	table    *hashidx.Table
	tableOff int

	status Status
	sep    byte

	// diagnostics from the most recent Load
	lastTok scan.Token
	iterRef ref
	input   []byte
}

type geometry struct {
	poolOff   int
	poolBytes int
	capacity  int
	tableOff  int
}

func computeGeometry(buf []byte, mode Mode) (geometry, error) {
	var g geometry
	if len(buf) < ContextHeaderSize {
		return g, InvalidParameter
	}
	g.poolOff = layout.AlignOffset(buf, ContextHeaderSize, elementAlign)
	avail := len(buf) - g.poolOff
	if avail < 0 {
		return g, InvalidParameter
	}

	switch mode {
	case SearchLinear:
		g.poolBytes = layout.AlignDown(avail, elementSize)
		g.tableOff = len(buf)
	case SearchHashed:
		g.poolBytes = layout.AlignDown(avail*poolPercent/100, elementSize)
		g.tableOff = layout.AlignOffset(buf, g.poolOff+g.poolBytes, 8)
		if g.tableOff >= len(buf) {
			return g, OutOfMemory
		}
	default:
		return g, InvalidParameter
	}

	g.capacity = g.poolBytes / elementSize
	if g.capacity > maxPoolCapacity {
		// The largest live descriptor must stay below the sentinel.
		g.capacity = maxPoolCapacity
	}
	return g, nil
}

// Init lays a fresh context over workspace. The buffer is partitioned into
// the context header, the node pool, and (in hashed mode) the hash table;
// both data regions are zeroed. The workspace must stay reachable and must
// not be used for anything else during the context's lifetime.
func Init(workspace []byte, mode Mode) (*Context, error) {
	g, err := computeGeometry(workspace, mode)
	if err != nil {
		return nil, err
	}

	c := &Context{
		workspace: workspace,
		mode:      mode,
		sep:       DefaultPathSeparator,
		rootRef:   refNone,
		freeHead:  refNone,
	}
	if err := c.applyGeometry(g, true); err != nil {
		return nil, err
	}

	binary.LittleEndian.PutUint32(workspace[0:4], contextCookie)
	workspace[4] = byte(mode)
	c.cookie = contextCookie
	return c, nil
}

// applyGeometry installs the region overlays described by g. When wipe is
// set both regions are zeroed; otherwise the pool content is preserved
// (Resize copies it beforehand).
func (c *Context) applyGeometry(g geometry, wipe bool) error {
	if wipe {
		layout.Zero(c.workspace[g.poolOff:], g.poolBytes)
	}
	pool, err := layout.Overlay[Element](c.workspace[g.poolOff:], g.capacity)
	if err != nil {
		return OutOfMemory
	}
	c.pool = pool
	c.poolOff = g.poolOff
	c.poolBytes = g.poolBytes
	c.capacity = g.capacity
	c.tableOff = g.tableOff

	if c.mode == SearchHashed {
		enabled := true
		if c.table != nil {
			enabled = c.table.Enabled()
		}
		table, err := hashidx.New(c.workspace[g.tableOff:], c.resolveKey)
		if err != nil {
			return OutOfMemory
		}
		table.SetEnabled(enabled)
		c.table = table
	}
	return nil
}

// resolveKey reads back the parent descriptor and name bytes of a live key
// slot for the hash table's probe comparisons.
func (c *Context) resolveKey(r hashidx.Ref) (uint32, []byte, bool) {
	if int(r) >= c.capacity {
		return 0, nil, false
	}
	el := &c.pool[r]
	if Type(el.typ) != Key {
		return 0, nil, false
	}
	return uint32(el.parent), el.Bytes(), true
}

// Reset empties the tree and forgets the loaded document. The workspace,
// mode, path separator and hash switch are preserved.
func (c *Context) Reset() {
	if c == nil || c.cookie != contextCookie {
		return
	}
	c.status = NoError
	c.input = nil
	c.lastTok = scan.Token{}
	c.iterRef = refNone
	c.rootRef = refNone
	c.freeHead = refNone
	c.nextFree = 0
	c.liveCount = 0

	g, err := computeGeometry(c.workspace, c.mode)
	if err != nil {
		// Geometry was valid at Init time and the workspace is unchanged.
		c.status = BrokenTree
		return
	}
	if err := c.applyGeometry(g, true); err != nil {
		c.status = BrokenTree
	}
}

// Resize moves the context onto a strictly larger workspace. The node pool
// is copied as-is (descriptors and element pointers stay valid) and, in
// hashed mode, every key is re-registered in the new hash table by a
// pre-order walk. Shrinking is refused with InvalidOperation.
func (c *Context) Resize(workspace []byte) error {
	if err := c.begin(); err != nil {
		return err
	}
	if len(workspace) <= len(c.workspace) {
		return c.fail(InvalidOperation)
	}

	g, err := computeGeometry(workspace, c.mode)
	if err != nil {
		return c.fail(statusOf(err))
	}
	if g.capacity < c.capacity {
		return c.fail(InvalidOperation)
	}

	// Relocate header and pool content before switching overlays.
	copy(workspace[:ContextHeaderSize], c.workspace[:ContextHeaderSize])
	copy(workspace[g.poolOff:g.poolOff+c.poolBytes], c.workspace[c.poolOff:c.poolOff+c.poolBytes])
	layout.Zero(workspace[g.poolOff+c.poolBytes:], g.poolBytes-c.poolBytes)

	c.workspace = workspace
	if err := c.applyGeometry(g, false); err != nil {
		return c.fail(OutOfMemory)
	}

	if c.mode == SearchHashed {
		c.rehash()
	}
	return nil
}

// SetPathSeparator replaces the character GetKey splits paths on.
func (c *Context) SetPathSeparator(sep byte) {
	if c != nil && c.cookie == contextCookie {
		c.sep = sep
	}
}

// SetHashIndexEnabled turns the hash table on or off at runtime. While off,
// key lookups fall back to linear child scans. Calling it in linear mode
// has no effect.
func (c *Context) SetHashIndexEnabled(on bool) {
	if c != nil && c.cookie == contextCookie && c.table != nil {
		c.table.SetEnabled(on)
		if on {
			c.table.Reset()
			c.rehash()
		}
	}
}

// Status returns the outcome of the most recent operation.
func (c *Context) Status() Status {
	if c == nil || c.cookie != contextCookie {
		return InvalidContext
	}
	return c.status
}

// StatusBlock returns the diagnostic snapshot of the context.
func (c *Context) StatusBlock() StatusBlock {
	if c == nil || c.cookie != contextCookie {
		return StatusBlock{Status: InvalidContext}
	}
	blk := StatusBlock{
		Status:    c.status,
		TokenType: c.lastTok.Type,
		Line:      c.lastTok.Line,
		Column:    c.lastTok.Column,
	}
	if c.iterRef != refNone {
		blk.ElementType = Type(c.pool[c.iterRef].typ)
	}
	return blk
}

// ElementCount returns the number of live elements.
func (c *Context) ElementCount() int {
	if c == nil || c.cookie != contextCookie {
		return 0
	}
	return c.liveCount
}

// ElementCapacity returns the number of slots the pool can hold.
func (c *Context) ElementCapacity() int {
	if c == nil || c.cookie != contextCookie {
		return 0
	}
	return c.capacity
}

// WorkspaceSize returns the size of the buffer backing the context.
func (c *Context) WorkspaceSize() int {
	if c == nil || c.cookie != contextCookie {
		return 0
	}
	return len(c.workspace)
}

// begin validates the context and clears the sticky status for a new
// public operation.
func (c *Context) begin() error {
	if c == nil || c.cookie != contextCookie {
		return InvalidContext
	}
	c.status = NoError
	return nil
}

func (c *Context) fail(s Status) error {
	c.status = s
	return s
}

func statusOf(err error) Status {
	if s, ok := err.(Status); ok {
		return s
	}
	return InvalidParameter
}

// at returns the element stored in slot r, or nil for the none sentinel.
func (c *Context) at(r ref) *Element {
	if r == refNone {
		return nil
	}
	return &c.pool[r]
}

// refOf returns the slot index of a pool element pointer.
func (c *Context) refOf(el *Element) ref {
	if el == nil {
		return refNone
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(c.pool)))
	off := uintptr(unsafe.Pointer(el)) - base
	return ref(off / uintptr(elementSize))
}

// validate accepts an externally supplied element pointer only if it lies
// on a slot boundary inside the pool and all four of its descriptors are
// either none or within capacity.
func (c *Context) validate(el *Element) bool {
	if el == nil || c.capacity == 0 {
		return false
	}
	if Type(el.typ) == Unknown {
		// Freed slot.
		return false
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(c.pool)))
	p := uintptr(unsafe.Pointer(el))
	if p < base {
		return false
	}
	off := p - base
	if off%uintptr(elementSize) != 0 {
		return false
	}
	if off/uintptr(elementSize) >= uintptr(c.capacity) {
		return false
	}
	for _, d := range [...]ref{el.parent, el.sibling, el.firstChild, el.lastChild} {
		if d != refNone && int(d) >= c.capacity {
			return false
		}
	}
	return true
}
