package jes

// allocate claims a fresh slot, preferring the free list over the bump
// index, and initializes all four descriptors to none.
func (c *Context) allocate() (*Element, error) {
	if c.liveCount >= c.capacity {
		return nil, OutOfMemory
	}

	var r ref
	if c.freeHead != refNone {
		r = c.freeHead
		c.freeHead = c.pool[r].sibling
	} else {
		if c.nextFree >= c.capacity {
			return nil, OutOfMemory
		}
		r = ref(c.nextFree)
		c.nextFree++
	}

	el := &c.pool[r]
	*el = Element{
		parent:     refNone,
		sibling:    refNone,
		firstChild: refNone,
		lastChild:  refNone,
	}
	c.liveCount++
	return el, nil
}

// free returns slot r to the LIFO free list. The Unknown tag keeps freed
// slots from being mistaken for live elements.
func (c *Context) free(r ref) {
	el := &c.pool[r]
	*el = Element{
		typ:        uint16(Unknown),
		parent:     refNone,
		sibling:    c.freeHead,
		firstChild: refNone,
		lastChild:  refNone,
	}
	c.freeHead = r
	c.liveCount--
}
