package scan

import "errors"

var (
	// ErrUnexpectedSymbol indicates a byte that cannot start or continue a token.
	ErrUnexpectedSymbol = errors.New("scan: unexpected symbol")

	// ErrUnexpectedEOF indicates input that ends inside a token.
	ErrUnexpectedEOF = errors.New("scan: unexpected end of input")

	// ErrInvalidNumber indicates a number token that violates the JSON grammar.
	ErrInvalidNumber = errors.New("scan: invalid number")

	// ErrInvalidUnicode indicates a malformed \u escape or broken surrogate pair.
	ErrInvalidUnicode = errors.New("scan: invalid unicode escape")

	// ErrInvalidToken indicates a literal that is not exactly true, false or null.
	ErrInvalidToken = errors.New("scan: invalid literal")
)
