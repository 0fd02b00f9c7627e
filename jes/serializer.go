package jes

// Serializer states. Evaluate re-validates the tree shape while summing
// the output length; Render trusts the evaluated tree and only emits.
type evalState uint8

const (
	evExpectValue evalState = iota
	evExpectKey
	evExpectKeyValue
	evHaveKeyValue
	evExpectArrayValue
	evHaveArrayValue
	evHaveValue
)

// Evaluate walks the tree in pre-order and returns the exact number of
// bytes Render will produce for the same compact flag. An empty tree
// evaluates to zero. A key without a value fails with RenderFailed; any
// other shape violation fails with UnexpectedElement.
func (c *Context) Evaluate(compact bool) (int, error) {
	if err := c.begin(); err != nil {
		return 0, err
	}
	if c.rootRef == refNone {
		return 0, nil
	}

	length := 0
	indent := 0
	state := evExpectValue
	iter := c.rootRef

	for iter != refNone {
		el := &c.pool[iter]
		parentType := c.parentTypeOf(iter)

		switch Type(el.typ) {
		case Object:
			if state != evExpectValue && state != evExpectKeyValue && state != evExpectArrayValue {
				return 0, c.fail(UnexpectedElement)
			}
			state = evExpectKey
			length++
			if !compact {
				if parentType == Array {
					length += 1 + indent
				}
				indent += 2
			}

		case Key:
			if state != evExpectKey {
				return 0, c.fail(UnexpectedElement)
			}
			state = evExpectKeyValue
			length += el.Len() + 3 // "name":
			if !compact {
				length += 2 + indent // newline + indent, space after colon
			}

		case Array:
			if state != evExpectValue && state != evExpectKeyValue && state != evExpectArrayValue {
				return 0, c.fail(UnexpectedElement)
			}
			state = evExpectArrayValue
			length++
			if !compact {
				if parentType == Array {
					length += 1 + indent
				}
				indent += 2
			}

		case String:
			next, ok := valueTransition(state)
			if !ok {
				return 0, c.fail(UnexpectedElement)
			}
			state = next
			length += el.Len() + 2
			if !compact && parentType == Array {
				length += 1 + indent
			}

		case Number, True, False, Null:
			next, ok := valueTransition(state)
			if !ok {
				return 0, c.fail(UnexpectedElement)
			}
			state = next
			length += el.Len()
			if !compact && parentType == Array {
				length += 1 + indent
			}

		default:
			return 0, c.fail(BrokenTree)
		}

		if el.firstChild != refNone {
			iter = el.firstChild
			continue
		}

		// Childless container: emit its closing delimiter in place.
		switch Type(el.typ) {
		case Object, Array:
			length++
			if !compact {
				indent -= 2
			}
		}

		if el.sibling != refNone {
			if Type(el.typ) == Key {
				// A key with a following sibling but no value.
				return 0, c.fail(UnexpectedElement)
			}
			length++ // comma
			iter = el.sibling
			state = evExpectArrayValue
			continue
		}

		if Type(el.typ) == Key {
			// Trailing key without a value; reported below.
			break
		}

		// Ascend, closing containers on the way, until a sibling branch
		// or the root is reached.
		for {
			iter = c.pool[iter].parent
			if iter == refNone {
				break
			}
			pel := &c.pool[iter]
			switch Type(pel.typ) {
			case Key:
				state = evHaveKeyValue
			case Object, Array:
				if !compact {
					indent -= 2
					length += 1 + indent
				}
				length++
			}

			if pel.sibling != refNone {
				iter = pel.sibling
				length++ // comma
				switch c.parentTypeOf(iter) {
				case Object:
					state = evExpectKey
				case Array:
					state = evExpectArrayValue
				default:
					return 0, c.fail(UnexpectedElement)
				}
				break
			}
		}
	}

	if state == evExpectKeyValue {
		return 0, c.fail(RenderFailed)
	}
	return length, nil
}

func valueTransition(state evalState) (evalState, bool) {
	switch state {
	case evExpectValue:
		return evHaveValue, true
	case evExpectKeyValue:
		return evHaveKeyValue, true
	case evExpectArrayValue:
		return evHaveArrayValue, true
	}
	return state, false
}

func (c *Context) parentTypeOf(r ref) Type {
	p := c.pool[r].parent
	if p == refNone {
		return Unknown
	}
	return Type(c.pool[p].typ)
}

// Render serializes the tree into dst and returns the number of bytes
// written (not NUL-terminated). It first evaluates the tree and refuses
// with OutOfMemory when dst is smaller than the required size.
func (c *Context) Render(dst []byte, compact bool) (int, error) {
	if err := c.begin(); err != nil {
		return 0, err
	}
	if dst == nil {
		return 0, c.fail(InvalidParameter)
	}

	required, err := c.Evaluate(compact)
	if err != nil {
		return 0, err
	}
	if len(dst) < required {
		return 0, c.fail(OutOfMemory)
	}
	if required == 0 {
		return 0, nil
	}

	pos := 0
	indent := 0
	iter := c.rootRef

	for iter != refNone {
		el := &c.pool[iter]
		parentType := c.parentTypeOf(iter)

		switch Type(el.typ) {
		case Object:
			if !compact {
				if parentType == Array {
					pos = writeIndent(dst, pos, indent)
				}
				indent += 2
			}
			dst[pos] = '{'
			pos++

		case Array:
			if !compact {
				if parentType == Array {
					pos = writeIndent(dst, pos, indent)
				}
				indent += 2
			}
			dst[pos] = '['
			pos++

		case Key:
			if !compact {
				pos = writeIndent(dst, pos, indent)
			}
			dst[pos] = '"'
			pos++
			pos += copy(dst[pos:], el.Bytes())
			dst[pos] = '"'
			dst[pos+1] = ':'
			pos += 2
			if !compact {
				dst[pos] = ' '
				pos++
			}

		case String:
			if !compact && parentType == Array {
				pos = writeIndent(dst, pos, indent)
			}
			dst[pos] = '"'
			pos++
			pos += copy(dst[pos:], el.Bytes())
			dst[pos] = '"'
			pos++

		default: // Number, True, False, Null
			if !compact && parentType == Array {
				pos = writeIndent(dst, pos, indent)
			}
			pos += copy(dst[pos:], el.Bytes())
		}

		if el.firstChild != refNone {
			iter = el.firstChild
			continue
		}

		switch Type(el.typ) {
		case Object:
			if !compact {
				indent -= 2
			}
			dst[pos] = '}'
			pos++
		case Array:
			if !compact {
				indent -= 2
			}
			dst[pos] = ']'
			pos++
		}

		if el.sibling != refNone {
			iter = el.sibling
			dst[pos] = ','
			pos++
			continue
		}

		for {
			iter = c.pool[iter].parent
			if iter == refNone {
				break
			}
			pel := &c.pool[iter]
			switch Type(pel.typ) {
			case Object:
				if !compact {
					dst[pos] = '\n'
					pos++
					indent -= 2
					pos = writeSpaces(dst, pos, indent)
				}
				dst[pos] = '}'
				pos++
			case Array:
				if !compact {
					dst[pos] = '\n'
					pos++
					indent -= 2
					pos = writeSpaces(dst, pos, indent)
				}
				dst[pos] = ']'
				pos++
			}

			if pel.sibling != refNone {
				iter = pel.sibling
				dst[pos] = ','
				pos++
				break
			}
		}
	}

	return pos, nil
}

// writeIndent emits a newline followed by the current indentation.
func writeIndent(dst []byte, pos, indent int) int {
	dst[pos] = '\n'
	pos++
	return writeSpaces(dst, pos, indent)
}

func writeSpaces(dst []byte, pos, n int) int {
	for i := 0; i < n; i++ {
		dst[pos+i] = ' '
	}
	return pos + n
}
