package jes

import "github.com/omidbimo/jeskit/jes/scan"

// Status is the outcome of the most recent operation on a Context. Every
// public entry point records its status before returning; failing calls
// also return the status as their error value.
type Status uint8

const (
	NoError Status = iota
	InvalidContext
	InvalidParameter
	OutOfMemory
	UnexpectedSymbol
	UnexpectedToken
	UnexpectedElement
	UnexpectedEOF
	InvalidNumber
	InvalidUnicode
	ElementNotFound
	DuplicateKey
	PathTooLong
	ParsingFailed
	RenderFailed
	BrokenTree
	InvalidOperation
)

var statusNames = [...]string{
	NoError:           "NO_ERROR",
	InvalidContext:    "INVALID_CONTEXT",
	InvalidParameter:  "INVALID_PARAMETER",
	OutOfMemory:       "OUT_OF_MEMORY",
	UnexpectedSymbol:  "UNEXPECTED_SYMBOL",
	UnexpectedToken:   "UNEXPECTED_TOKEN",
	UnexpectedElement: "UNEXPECTED_ELEMENT",
	UnexpectedEOF:     "UNEXPECTED_EOF",
	InvalidNumber:     "INVALID_NUMBER",
	InvalidUnicode:    "INVALID_UNICODE",
	ElementNotFound:   "ELEMENT_NOT_FOUND",
	DuplicateKey:      "DUPLICATE_KEY",
	PathTooLong:       "PATH_TOO_LONG",
	ParsingFailed:     "PARSING_FAILED",
	RenderFailed:      "RENDER_FAILED",
	BrokenTree:        "BROKEN_TREE",
	InvalidOperation:  "INVALID_OPERATION",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "UNKNOWN_STATUS"
}

// Error makes Status usable as an error. NoError is never returned as a
// non-nil error.
func (s Status) Error() string { return s.String() }

// StatusBlock is a snapshot of the context's diagnostic state, chiefly
// useful after a failed Load.
type StatusBlock struct {
	Status      Status
	TokenType   scan.Type // last token the parser saw
	ElementType Type      // type of the element being built when parsing stopped
	Line        int       // 1-based line of the last token
	Column      int       // 1-based column of the last token
}
