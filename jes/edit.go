package jes

import (
	"unsafe"

	"github.com/omidbimo/jeskit/jes/scan"
)

// stringBytes views a string's bytes without copying, so stored values
// borrow the caller's memory exactly like parsed values borrow the input.
func stringBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// normalizeValue validates (typ, value) and returns the bytes the new
// element will reference. Containers and literals ignore value and use the
// canonical structural text.
func normalizeValue(typ Type, value string) ([]byte, Status) {
	switch typ {
	case Object:
		return braceText, NoError
	case Array:
		return bracketText, NoError
	case True:
		return trueText, NoError
	case False:
		return falseText, NoError
	case Null:
		return nullText, NoError
	case String:
		b := stringBytes(value)
		if len(b) > MaxValueLength || !scan.ValidString(b) {
			return nil, InvalidParameter
		}
		return b, NoError
	case Number:
		b := stringBytes(value)
		if len(b) > MaxValueLength || !scan.ValidNumber(b) {
			return nil, InvalidParameter
		}
		return b, NoError
	}
	return nil, InvalidParameter
}

func validKeyName(b []byte) bool {
	return len(b) <= MaxKeyLength && scan.ValidString(b)
}

// childLegal reports whether a value element of type childType may be
// placed under parent without breaking the tree shape.
func (c *Context) childLegal(parent *Element, childType Type) bool {
	switch parent.Type() {
	case Array:
		return childType != Key
	case Key:
		// A key owns exactly one value.
		return !parent.hasChild()
	}
	return false
}

// AddElement appends a value element under parent. With parent == nil the
// element becomes the root of an empty tree. Keys cannot be created this
// way; use AddKey.
func (c *Context) AddElement(parent *Element, typ Type, value string) (*Element, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	if parent == nil {
		if c.rootRef != refNone {
			return nil, c.fail(InvalidParameter)
		}
	} else if !c.validate(parent) {
		return nil, c.fail(InvalidParameter)
	}
	if !isValueType(typ) {
		return nil, c.fail(InvalidParameter)
	}

	b, status := normalizeValue(typ, value)
	if status != NoError {
		return nil, c.fail(status)
	}

	parentRef := refNone
	if parent != nil {
		if !c.childLegal(parent, typ) {
			return nil, c.fail(InvalidParameter)
		}
		parentRef = c.refOf(parent)
	}

	el, err := c.appendChild(parentRef, typ, b)
	if err != nil {
		return nil, c.fail(statusOf(err))
	}
	return el, nil
}

// AddKey appends a key named name under parent. parent may be an object,
// or a key — in which case the key's object value is descended into, or
// created when the key has no value yet. Duplicate names are refused.
func (c *Context) AddKey(parent *Element, name string) (*Element, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	if parent == nil || !c.validate(parent) {
		return nil, c.fail(InvalidParameter)
	}
	nameBytes := stringBytes(name)
	if !validKeyName(nameBytes) {
		return nil, c.fail(InvalidParameter)
	}

	var object *Element
	switch parent.Type() {
	case Object:
		object = parent
	case Key:
		object = c.at(parent.firstChild)
		if object == nil {
			created, err := c.appendChild(c.refOf(parent), Object, braceText)
			if err != nil {
				return nil, c.fail(statusOf(err))
			}
			object = created
		} else if object.Type() != Object {
			return nil, c.fail(UnexpectedElement)
		}
	default:
		return nil, c.fail(InvalidParameter)
	}

	objectRef := c.refOf(object)
	el, err := c.insertKey(objectRef, object.lastChild, nameBytes)
	if err != nil {
		return nil, c.fail(statusOf(err))
	}
	return el, nil
}

// AddKeyBefore inserts a key named name immediately before key under the
// same object.
func (c *Context) AddKeyBefore(key *Element, name string) (*Element, error) {
	return c.addKeyAt(key, name, true)
}

// AddKeyAfter inserts a key named name immediately after key under the
// same object.
func (c *Context) AddKeyAfter(key *Element, name string) (*Element, error) {
	return c.addKeyAt(key, name, false)
}

func (c *Context) addKeyAt(key *Element, name string, before bool) (*Element, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	if key == nil || !c.validate(key) || key.Type() != Key {
		return nil, c.fail(InvalidParameter)
	}
	nameBytes := stringBytes(name)
	if !validKeyName(nameBytes) {
		return nil, c.fail(InvalidParameter)
	}

	parent := key.parent
	if parent == refNone || Type(c.pool[parent].typ) != Object {
		return nil, c.fail(BrokenTree)
	}

	anchor := c.refOf(key)
	if before {
		anchor = refNone
		target := c.refOf(key)
		for it := c.pool[parent].firstChild; it != refNone; it = c.pool[it].sibling {
			if it == target {
				break
			}
			anchor = it
		}
	}

	el, err := c.insertKey(parent, anchor, nameBytes)
	if err != nil {
		return nil, c.fail(statusOf(err))
	}
	return el, nil
}

// UpdateKey renames a key in place, keeping the hash index consistent.
// Renaming to a name already present under the same object is refused.
func (c *Context) UpdateKey(key *Element, name string) error {
	if err := c.begin(); err != nil {
		return err
	}
	if key == nil || !c.validate(key) || key.Type() != Key {
		return c.fail(InvalidParameter)
	}
	nameBytes := stringBytes(name)
	if !validKeyName(nameBytes) {
		return c.fail(InvalidParameter)
	}

	parent := key.parent
	if existing := c.findKey(parent, nameBytes); existing != nil && existing != key {
		return c.fail(DuplicateKey)
	}

	r := c.refOf(key)
	c.hashRemove(parent, r)
	key.setValue(nameBytes)
	if c.table != nil {
		_ = c.table.Add(uint32(parent), nameBytes, uint32(r))
	}
	return nil
}

// UpdateKeyValue replaces a key's value with a new element of the given
// type. The old value subtree is deleted first; if inserting the new value
// then fails, the key is left without a value and the caller should retry
// the assignment or discard the context.
func (c *Context) UpdateKeyValue(key *Element, typ Type, value string) error {
	if err := c.begin(); err != nil {
		return err
	}
	if key == nil || !c.validate(key) || key.Type() != Key {
		return c.fail(InvalidParameter)
	}
	if !isValueType(typ) {
		return c.fail(InvalidParameter)
	}
	b, status := normalizeValue(typ, value)
	if status != NoError {
		return c.fail(status)
	}

	c.deleteSubtree(key.firstChild)
	if _, err := c.appendChild(c.refOf(key), typ, b); err != nil {
		return c.fail(statusOf(err))
	}
	return nil
}

// UpdateKeyValueToObject replaces the key's value with an empty object.
func (c *Context) UpdateKeyValueToObject(key *Element) error {
	return c.UpdateKeyValue(key, Object, "")
}

// UpdateKeyValueToArray replaces the key's value with an empty array.
func (c *Context) UpdateKeyValueToArray(key *Element) error {
	return c.UpdateKeyValue(key, Array, "")
}

// UpdateKeyValueToTrue replaces the key's value with the true literal.
func (c *Context) UpdateKeyValueToTrue(key *Element) error {
	return c.UpdateKeyValue(key, True, "")
}

// UpdateKeyValueToFalse replaces the key's value with the false literal.
func (c *Context) UpdateKeyValueToFalse(key *Element) error {
	return c.UpdateKeyValue(key, False, "")
}

// UpdateKeyValueToNull replaces the key's value with the null literal.
func (c *Context) UpdateKeyValueToNull(key *Element) error {
	return c.UpdateKeyValue(key, Null, "")
}

// AppendArrayValue appends a value of the given type to an array.
func (c *Context) AppendArrayValue(array *Element, typ Type, value string) (*Element, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	if array == nil || !c.validate(array) || array.Type() != Array {
		return nil, c.fail(InvalidParameter)
	}
	if !isValueType(typ) {
		return nil, c.fail(InvalidParameter)
	}
	b, status := normalizeValue(typ, value)
	if status != NoError {
		return nil, c.fail(status)
	}

	el, err := c.appendChild(c.refOf(array), typ, b)
	if err != nil {
		return nil, c.fail(statusOf(err))
	}
	return el, nil
}

// AddArrayValue inserts a value so that it ends up at the given index.
// Negative indices count from the end. Indices past either end clamp to a
// prepend or an append.
func (c *Context) AddArrayValue(array *Element, index int, typ Type, value string) (*Element, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	if array == nil || !c.validate(array) || array.Type() != Array {
		return nil, c.fail(InvalidParameter)
	}
	if !isValueType(typ) {
		return nil, c.fail(InvalidParameter)
	}
	b, status := normalizeValue(typ, value)
	if status != NoError {
		return nil, c.fail(status)
	}

	size := 0
	for it := array.firstChild; it != refNone; it = c.pool[it].sibling {
		size++
	}
	if index < 0 {
		index += size
	}
	if index < 0 {
		index = 0
	}

	arrayRef := c.refOf(array)
	anchor := refNone
	if index >= size {
		anchor = array.lastChild
	} else {
		// Insert after the element preceding index; index 0 prepends.
		it := array.firstChild
		for ; index > 0; index-- {
			anchor = it
			it = c.pool[it].sibling
		}
	}

	el, err := c.insertAfter(arrayRef, anchor, typ, b)
	if err != nil {
		return nil, c.fail(statusOf(err))
	}
	return el, nil
}

// UpdateArrayValue retags the element at index in place, deleting any
// subtree the old value owned, so the array order is preserved. Negative
// indices count from the end; out-of-range indices report ElementNotFound.
func (c *Context) UpdateArrayValue(array *Element, index int, typ Type, value string) (*Element, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	if array == nil || !c.validate(array) || array.Type() != Array {
		return nil, c.fail(InvalidParameter)
	}
	if !isValueType(typ) {
		return nil, c.fail(InvalidParameter)
	}
	b, status := normalizeValue(typ, value)
	if status != NoError {
		return nil, c.fail(status)
	}

	size := 0
	for it := array.firstChild; it != refNone; it = c.pool[it].sibling {
		size++
	}
	if index < 0 {
		index += size
	}
	if index < 0 || index >= size {
		return nil, c.fail(ElementNotFound)
	}

	target := array.firstChild
	for ; index > 0; index-- {
		target = c.pool[target].sibling
	}

	el := &c.pool[target]
	c.deleteSubtree(el.firstChild)
	el.typ = uint16(typ)
	el.setValue(b)
	return el, nil
}

// DeleteElement removes el and its whole subtree. Deleting nil is a no-op.
func (c *Context) DeleteElement(el *Element) error {
	if err := c.begin(); err != nil {
		return err
	}
	if el == nil {
		return nil
	}
	if !c.validate(el) {
		return c.fail(InvalidParameter)
	}
	c.deleteSubtree(c.refOf(el))
	return nil
}
