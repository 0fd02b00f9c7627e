package jes

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// DecodeString converts a raw string view — the escaped bytes a String or
// Key element references — into UTF-8. Simple escapes are mapped directly;
// runs of \uXXXX units are decoded as UTF-16, which pairs surrogates into
// their supplementary code points. Unlike the element accessors this
// helper builds a new string.
func DecodeString(raw []byte) (string, error) {
	if bytes.IndexByte(raw, '\\') < 0 {
		return string(raw), nil
	}

	var sb strings.Builder
	sb.Grow(len(raw))

	utf16be := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()

	for i := 0; i < len(raw); {
		c := raw[i]
		if c != '\\' {
			sb.WriteByte(c)
			i++
			continue
		}
		i++
		if i >= len(raw) {
			return "", UnexpectedEOF
		}

		switch raw[i] {
		case '"':
			sb.WriteByte('"')
			i++
		case '\\':
			sb.WriteByte('\\')
			i++
		case '/':
			sb.WriteByte('/')
			i++
		case 'b':
			sb.WriteByte('\b')
			i++
		case 'f':
			sb.WriteByte('\f')
			i++
		case 'n':
			sb.WriteByte('\n')
			i++
		case 'r':
			sb.WriteByte('\r')
			i++
		case 't':
			sb.WriteByte('\t')
			i++
		case 'u':
			i++
			// Collect the contiguous run of \uXXXX units so surrogate
			// pairs reach the UTF-16 decoder together.
			var units []byte
			for {
				if i+4 > len(raw) {
					return "", UnexpectedEOF
				}
				hi, ok1 := hexNibblePair(raw[i], raw[i+1])
				lo, ok2 := hexNibblePair(raw[i+2], raw[i+3])
				if !ok1 || !ok2 {
					return "", InvalidUnicode
				}
				units = append(units, hi, lo)
				i += 4
				if i+1 < len(raw) && raw[i] == '\\' && raw[i+1] == 'u' {
					i += 2
					continue
				}
				break
			}
			decoded, err := utf16be.Bytes(units)
			if err != nil {
				return "", InvalidUnicode
			}
			sb.Write(decoded)
		default:
			return "", UnexpectedSymbol
		}
	}
	return sb.String(), nil
}

func hexNibblePair(a, b byte) (byte, bool) {
	hi, ok := hexNibble(a)
	if !ok {
		return 0, false
	}
	lo, ok := hexNibble(b)
	if !ok {
		return 0, false
	}
	return hi<<4 | lo, true
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 0xA, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 0xA, true
	}
	return 0, false
}
