package jes

import "strings"

// GetKey resolves a separator-delimited key path starting at parent, which
// must be an object or a key. Each segment selects a key inside the object
// at hand; when the cursor sits on a key, the walk first descends into its
// object value. The final key element is returned; a missing segment or an
// empty path reports ElementNotFound, a path of maxPathLength bytes or
// more reports PathTooLong.
func (c *Context) GetKey(parent *Element, path string) (*Element, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	if parent == nil || !c.validate(parent) {
		return nil, c.fail(InvalidParameter)
	}
	if len(path) >= maxPathLength {
		return nil, c.fail(PathTooLong)
	}
	if t := parent.Type(); t != Object && t != Key {
		return nil, c.fail(InvalidParameter)
	}
	if path == "" {
		return nil, c.fail(ElementNotFound)
	}

	iter := c.refOf(parent)
	rest := path
	for {
		segment := rest
		if i := strings.IndexByte(rest, c.sep); i >= 0 {
			segment = rest[:i]
			rest = rest[i+1:]
		} else {
			rest = ""
		}

		if Type(c.pool[iter].typ) == Key {
			iter = c.pool[iter].firstChild
			if iter == refNone {
				return nil, c.fail(ElementNotFound)
			}
		}

		key := c.findKey(iter, []byte(segment))
		if key == nil {
			return nil, c.fail(ElementNotFound)
		}
		if rest == "" {
			return key, nil
		}
		iter = c.refOf(key)
	}
}
