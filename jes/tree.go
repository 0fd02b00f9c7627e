package jes

import (
	"bytes"

	"github.com/omidbimo/jeskit/jes/hashidx"
)

// insertAfter links a new element under parent as the sibling immediately
// following anchor. With anchor == none the element is prepended; with
// parent == none it becomes the root of an empty tree.
func (c *Context) insertAfter(parent, anchor ref, typ Type, value []byte) (*Element, error) {
	if len(value) > MaxValueLength {
		return nil, InvalidParameter
	}
	if parent == refNone {
		if c.rootRef != refNone {
			return nil, InvalidParameter
		}
	} else if anchor != refNone && c.pool[anchor].parent != parent {
		return nil, InvalidParameter
	}

	el, err := c.allocate()
	if err != nil {
		return nil, err
	}
	r := c.refOf(el)

	if parent != refNone {
		par := &c.pool[parent]
		el.parent = parent

		if anchor != refNone {
			anc := &c.pool[anchor]
			el.sibling = anc.sibling
			anc.sibling = r
			if par.lastChild == anchor {
				par.lastChild = r
			}
		} else {
			el.sibling = par.firstChild
			par.firstChild = r
			if par.lastChild == refNone {
				par.lastChild = r
			}
		}
	} else {
		c.rootRef = r
	}

	el.typ = uint16(typ)
	el.setValue(value)
	return el, nil
}

// appendChild inserts after the parent's last child.
func (c *Context) appendChild(parent ref, typ Type, value []byte) (*Element, error) {
	anchor := refNone
	if parent != refNone {
		anchor = c.pool[parent].lastChild
	}
	return c.insertAfter(parent, anchor, typ, value)
}

// insertKey adds a key element under parent after anchor, refusing names
// already present in that object and keeping the hash index in step.
func (c *Context) insertKey(parent, anchor ref, name []byte) (*Element, error) {
	if c.findKey(parent, name) != nil {
		return nil, DuplicateKey
	}

	el, err := c.insertAfter(parent, anchor, Key, name)
	if err != nil {
		return nil, err
	}

	if c.table != nil {
		r := c.refOf(el)
		if err := c.table.Add(uint32(parent), name, uint32(r)); err != nil {
			// Roll the insertion back so a full table does not leave an
			// unindexed key behind.
			c.deleteSubtree(r)
			if err == hashidx.ErrDuplicate {
				return nil, DuplicateKey
			}
			return nil, OutOfMemory
		}
	}
	return el, nil
}

// findKey returns the key named name inside the object parent, or nil.
func (c *Context) findKey(parent ref, name []byte) *Element {
	if parent == refNone || Type(c.pool[parent].typ) != Object {
		return nil
	}

	if c.table != nil && c.table.Enabled() {
		r, ok := c.table.Find(uint32(parent), name)
		if !ok {
			return nil
		}
		return &c.pool[r]
	}

	for it := c.pool[parent].firstChild; it != refNone; it = c.pool[it].sibling {
		el := &c.pool[it]
		if Type(el.typ) != Key {
			break
		}
		if el.Len() == len(name) && bytes.Equal(el.Bytes(), name) {
			return el
		}
	}
	return nil
}

// hashRemove drops a key node's index entry; parent is the owning object.
func (c *Context) hashRemove(parent, key ref) {
	if c.table != nil {
		c.table.Remove(uint32(parent), c.pool[key].Bytes(), uint32(key))
	}
}

// deleteSubtree frees the whole branch rooted at target and patches the
// parent's child links. The walk repeatedly descends to the leftmost leaf,
// unlinks it, and ascends, so no per-level state is kept.
func (c *Context) deleteSubtree(target ref) {
	if target == refNone {
		return
	}

	iter := target
	for {
		for c.pool[iter].firstChild != refNone {
			iter = c.pool[iter].firstChild
		}
		if iter == target {
			break
		}

		parent := c.pool[iter].parent
		c.pool[parent].firstChild = c.pool[iter].sibling
		if Type(c.pool[iter].typ) == Key {
			c.hashRemove(parent, iter)
		}
		c.free(iter)
		iter = parent
	}

	// The subtree below target is gone; unlink target itself.
	parent := c.pool[target].parent
	if parent != refNone {
		par := &c.pool[parent]
		if par.firstChild == target {
			par.firstChild = c.pool[target].sibling
			if par.lastChild == target {
				par.lastChild = c.pool[target].sibling
			}
		} else {
			prev := refNone
			for it := par.firstChild; it != refNone; it = c.pool[it].sibling {
				if c.pool[it].sibling == target {
					prev = it
					break
				}
			}
			if prev != refNone {
				c.pool[prev].sibling = c.pool[target].sibling
				if par.lastChild == target {
					par.lastChild = prev
				}
			}
		}
	} else if c.rootRef == target {
		c.rootRef = refNone
	}

	if Type(c.pool[target].typ) == Key {
		c.hashRemove(parent, target)
	}
	c.free(target)

	if c.iterRef == target {
		c.iterRef = refNone
	}
}

// parentOfType walks parent links until it finds an element of type t.
func (c *Context) parentOfType(r ref, t Type) ref {
	for it := c.pool[r].parent; it != refNone; it = c.pool[it].parent {
		if Type(c.pool[it].typ) == t {
			return it
		}
	}
	return refNone
}

// containerParent walks parent links until it reaches an object or array.
func (c *Context) containerParent(r ref) ref {
	for it := c.pool[r].parent; it != refNone; it = c.pool[it].parent {
		t := Type(c.pool[it].typ)
		if t == Object || t == Array {
			return it
		}
	}
	return refNone
}

// rehash re-registers every key in the hash table by a pre-order walk:
// visit node, descend to children, then siblings, then backtrack.
func (c *Context) rehash() {
	if c.table == nil {
		return
	}
	iter := c.rootRef
	for iter != refNone {
		el := &c.pool[iter]
		if Type(el.typ) == Key {
			_ = c.table.Add(uint32(el.parent), el.Bytes(), uint32(iter))
		}

		switch {
		case el.firstChild != refNone:
			iter = el.firstChild
		case el.sibling != refNone:
			iter = el.sibling
		default:
			for {
				iter = c.pool[iter].parent
				if iter == refNone {
					break
				}
				if c.pool[iter].sibling != refNone {
					iter = c.pool[iter].sibling
					break
				}
			}
		}
	}
}
