package jes

// Root returns the tree's root element, or nil when the tree is empty.
func (c *Context) Root() *Element {
	if c == nil || c.cookie != contextCookie {
		return nil
	}
	return c.at(c.rootRef)
}

// Parent returns el's parent, or nil at the root.
func (c *Context) Parent(el *Element) (*Element, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	if el == nil || !c.validate(el) {
		return nil, c.fail(InvalidParameter)
	}
	return c.at(el.parent), nil
}

// Child returns el's first child, or nil when el has none.
func (c *Context) Child(el *Element) (*Element, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	if el == nil || !c.validate(el) {
		return nil, c.fail(InvalidParameter)
	}
	return c.at(el.firstChild), nil
}

// LastChild returns el's last child, or nil when el has none.
func (c *Context) LastChild(el *Element) (*Element, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	if el == nil || !c.validate(el) {
		return nil, c.fail(InvalidParameter)
	}
	return c.at(el.lastChild), nil
}

// Sibling returns the element following el under the same parent, or nil.
func (c *Context) Sibling(el *Element) (*Element, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	if el == nil || !c.validate(el) {
		return nil, c.fail(InvalidParameter)
	}
	return c.at(el.sibling), nil
}

// ParentType returns the type of el's parent, or Unknown at the root.
func (c *Context) ParentType(el *Element) Type {
	if c == nil || c.cookie != contextCookie {
		return Unknown
	}
	if el == nil || !c.validate(el) {
		c.status = InvalidParameter
		return Unknown
	}
	parent := c.at(el.parent)
	if parent == nil {
		return Unknown
	}
	return parent.Type()
}

// GetKeyValue returns the value element owned by a key, or nil when the
// key has no value yet.
func (c *Context) GetKeyValue(key *Element) (*Element, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	if key == nil || !c.validate(key) || key.Type() != Key {
		return nil, c.fail(InvalidParameter)
	}
	return c.at(key.firstChild), nil
}

// ArraySize returns the number of direct children of an array element.
func (c *Context) ArraySize(array *Element) (int, error) {
	if err := c.begin(); err != nil {
		return 0, err
	}
	if array == nil || !c.validate(array) || array.Type() != Array {
		return 0, c.fail(InvalidParameter)
	}
	n := 0
	for it := array.firstChild; it != refNone; it = c.pool[it].sibling {
		n++
	}
	return n, nil
}

// ArrayValue returns the array element at index. Negative indices count
// from the end, so -1 is the last element. Out-of-range indices report
// ElementNotFound.
func (c *Context) ArrayValue(array *Element, index int) (*Element, error) {
	size, err := c.ArraySize(array)
	if err != nil {
		return nil, err
	}
	if index < 0 {
		index += size
	}
	if index < 0 || index >= size {
		return nil, c.fail(ElementNotFound)
	}

	it := array.firstChild
	for ; index > 0; index-- {
		it = c.pool[it].sibling
	}
	if it == refNone {
		return nil, c.fail(BrokenTree)
	}
	return &c.pool[it], nil
}
