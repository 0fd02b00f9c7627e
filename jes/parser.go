package jes

import "github.com/omidbimo/jeskit/jes/scan"

// Parser states. The machine consumes one token per step with no
// backtracking; ancestor walks happen only when a container closes.
type parseState uint8

const (
	psStart parseState = iota
	psExpectKey
	psExpectColon
	psExpectKeyValue
	psHaveKeyValue
	psExpectArrayValue
	psHaveArrayValue
	psExpectEOF
	psEnd
)

// Load parses a JSON document and builds the element tree over it. The
// tree borrows data: it must stay reachable and unchanged while the
// context holds the parsed tree. On failure the tree is left partially
// built and StatusBlock locates the offending token.
func (c *Context) Load(data []byte) error {
	if c == nil || c.cookie != contextCookie {
		return InvalidContext
	}
	if len(data) == 0 {
		return c.fail(InvalidParameter)
	}

	c.Reset()
	c.input = data
	return c.parse(data)
}

func (c *Context) parse(data []byte) error {
	s := scan.New(data)
	state := psStart
	iter := refNone

	for state != psEnd {
		tok, err := s.Next()
		c.lastTok = tok
		c.iterRef = iter
		if err != nil {
			return c.fail(scanStatus(err))
		}

		var status Status
		switch state {
		case psStart:
			iter, state, status = c.parseStart(tok, iter)
		case psExpectKey:
			iter, state, status = c.parseExpectKey(tok, iter)
		case psExpectColon:
			if tok.Type == scan.Colon {
				state = psExpectKeyValue
			} else {
				status = c.eofOr(tok, UnexpectedToken)
			}
		case psExpectKeyValue:
			iter, state, status = c.parseExpectKeyValue(tok, iter)
		case psHaveKeyValue:
			iter, state, status = c.parseHaveKeyValue(tok, iter)
		case psExpectArrayValue:
			iter, state, status = c.parseExpectArrayValue(tok, iter)
		case psHaveArrayValue:
			iter, state, status = c.parseHaveArrayValue(tok, iter)
		case psExpectEOF:
			if tok.Type == scan.EOF {
				state = psEnd
			} else {
				status = UnexpectedToken
			}
		default:
			status = ParsingFailed
		}

		c.iterRef = iter
		if status != NoError {
			return c.fail(status)
		}
	}

	return nil
}

// eofOr maps a premature end of input to UnexpectedEOF, otherwise fallback.
func (c *Context) eofOr(tok scan.Token, fallback Status) Status {
	if tok.Type == scan.EOF {
		return UnexpectedEOF
	}
	return fallback
}

func tokenValueType(t scan.Type) (Type, bool) {
	switch t {
	case scan.String:
		return String, true
	case scan.Number:
		return Number, true
	case scan.True:
		return True, true
	case scan.False:
		return False, true
	case scan.Null:
		return Null, true
	}
	return Unknown, false
}

func (c *Context) parseStart(tok scan.Token, iter ref) (ref, parseState, Status) {
	switch tok.Type {
	case scan.OpenBrace:
		el, err := c.appendChild(iter, Object, tok.Value)
		if err != nil {
			return iter, psStart, statusOf(err)
		}
		return c.refOf(el), psExpectKey, NoError
	case scan.OpenBracket:
		el, err := c.appendChild(iter, Array, tok.Value)
		if err != nil {
			return iter, psStart, statusOf(err)
		}
		return c.refOf(el), psExpectArrayValue, NoError
	}
	if vt, ok := tokenValueType(tok.Type); ok {
		el, err := c.appendChild(iter, vt, tok.Value)
		if err != nil {
			return iter, psStart, statusOf(err)
		}
		return c.refOf(el), psExpectEOF, NoError
	}
	return iter, psStart, c.eofOr(tok, UnexpectedToken)
}

func (c *Context) parseExpectKey(tok scan.Token, iter ref) (ref, parseState, Status) {
	switch tok.Type {
	case scan.String:
		if len(tok.Value) > MaxKeyLength {
			return iter, psExpectKey, InvalidParameter
		}
		el, err := c.insertKey(iter, c.pool[iter].lastChild, tok.Value)
		if err != nil {
			return iter, psExpectKey, statusOf(err)
		}
		return c.refOf(el), psExpectColon, NoError
	case scan.CloseBrace:
		return c.closeObject(iter, psExpectKey)
	}
	return iter, psExpectKey, c.eofOr(tok, UnexpectedToken)
}

func (c *Context) parseExpectKeyValue(tok scan.Token, iter ref) (ref, parseState, Status) {
	switch tok.Type {
	case scan.OpenBrace:
		el, err := c.appendChild(iter, Object, tok.Value)
		if err != nil {
			return iter, psExpectKeyValue, statusOf(err)
		}
		return c.refOf(el), psExpectKey, NoError
	case scan.OpenBracket:
		el, err := c.appendChild(iter, Array, tok.Value)
		if err != nil {
			return iter, psExpectKeyValue, statusOf(err)
		}
		return c.refOf(el), psExpectArrayValue, NoError
	}
	if vt, ok := tokenValueType(tok.Type); ok {
		el, err := c.appendChild(iter, vt, tok.Value)
		if err != nil {
			return iter, psExpectKeyValue, statusOf(err)
		}
		return c.refOf(el), psHaveKeyValue, NoError
	}
	return iter, psExpectKeyValue, c.eofOr(tok, UnexpectedToken)
}

func (c *Context) parseHaveKeyValue(tok scan.Token, iter ref) (ref, parseState, Status) {
	switch tok.Type {
	case scan.CloseBrace:
		return c.closeObject(iter, psHaveKeyValue)
	case scan.Comma:
		next, status := c.ascendAfterComma(iter, Object)
		if status != NoError {
			return iter, psHaveKeyValue, status
		}
		return next, psExpectKey, NoError
	}
	return iter, psHaveKeyValue, c.eofOr(tok, UnexpectedToken)
}

func (c *Context) parseExpectArrayValue(tok scan.Token, iter ref) (ref, parseState, Status) {
	switch tok.Type {
	case scan.OpenBrace:
		el, err := c.appendChild(iter, Object, tok.Value)
		if err != nil {
			return iter, psExpectArrayValue, statusOf(err)
		}
		return c.refOf(el), psExpectKey, NoError
	case scan.OpenBracket:
		el, err := c.appendChild(iter, Array, tok.Value)
		if err != nil {
			return iter, psExpectArrayValue, statusOf(err)
		}
		return c.refOf(el), psExpectArrayValue, NoError
	case scan.CloseBracket:
		return c.closeArray(iter, psExpectArrayValue)
	}
	if vt, ok := tokenValueType(tok.Type); ok {
		el, err := c.appendChild(iter, vt, tok.Value)
		if err != nil {
			return iter, psExpectArrayValue, statusOf(err)
		}
		return c.refOf(el), psHaveArrayValue, NoError
	}
	return iter, psExpectArrayValue, c.eofOr(tok, UnexpectedToken)
}

func (c *Context) parseHaveArrayValue(tok scan.Token, iter ref) (ref, parseState, Status) {
	switch tok.Type {
	case scan.CloseBracket:
		return c.closeArray(iter, psHaveArrayValue)
	case scan.Comma:
		next, status := c.ascendAfterComma(iter, Array)
		if status != NoError {
			return iter, psHaveArrayValue, status
		}
		return next, psExpectArrayValue, NoError
	}
	return iter, psHaveArrayValue, c.eofOr(tok, UnexpectedToken)
}

// ascendAfterComma moves the cursor from a finished value back to its
// containing object or array. A comma directly after an opening delimiter
// or a second comma in a row leaves the cursor on a childless container
// and is rejected.
func (c *Context) ascendAfterComma(iter ref, want Type) (ref, Status) {
	t := Type(c.pool[iter].typ)
	if t == Object || t == Array {
		if !c.pool[iter].hasChild() {
			return iter, UnexpectedToken
		}
	} else {
		iter = c.containerParent(iter)
	}
	if iter == refNone || Type(c.pool[iter].typ) != want {
		return iter, UnexpectedToken
	}
	return iter, NoError
}

// closeObject handles '}': it locates the object being closed, then moves
// to that object's container parent and picks the next state from its
// type. At the root it expects end of input.
func (c *Context) closeObject(iter ref, state parseState) (ref, parseState, Status) {
	// An object still in ExpectKey with children means the comma before
	// this brace promised another member.
	if Type(c.pool[iter].typ) == Object && state == psExpectKey && c.pool[iter].hasChild() {
		return iter, state, UnexpectedToken
	}

	if Type(c.pool[iter].typ) != Object {
		iter = c.parentOfType(iter, Object)
		if iter == refNone {
			return iter, state, UnexpectedToken
		}
	}
	return c.ascendFromClosed(iter, state)
}

// closeArray handles ']' symmetrically to closeObject.
func (c *Context) closeArray(iter ref, state parseState) (ref, parseState, Status) {
	if Type(c.pool[iter].typ) == Array && state == psExpectArrayValue && c.pool[iter].hasChild() {
		return iter, state, UnexpectedToken
	}

	if Type(c.pool[iter].typ) != Array {
		iter = c.parentOfType(iter, Array)
		if iter == refNone {
			return iter, state, UnexpectedToken
		}
	}
	return c.ascendFromClosed(iter, state)
}

func (c *Context) ascendFromClosed(iter ref, state parseState) (ref, parseState, Status) {
	iter = c.containerParent(iter)
	if iter == refNone {
		return iter, psExpectEOF, NoError
	}
	switch Type(c.pool[iter].typ) {
	case Array:
		return iter, psHaveArrayValue, NoError
	case Object:
		return iter, psHaveKeyValue, NoError
	}
	return iter, state, BrokenTree
}

func scanStatus(err error) Status {
	switch err {
	case scan.ErrUnexpectedSymbol:
		return UnexpectedSymbol
	case scan.ErrUnexpectedEOF:
		return UnexpectedEOF
	case scan.ErrInvalidNumber:
		return InvalidNumber
	case scan.ErrInvalidUnicode:
		return InvalidUnicode
	case scan.ErrInvalidToken:
		return UnexpectedToken
	}
	return ParsingFailed
}
