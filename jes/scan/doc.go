// Package scan tokenizes JSON text per RFC 8259.
//
// The scanner walks the input bytes once with single-character lookahead
// and produces one token at a time. Token values are views into the input
// buffer: no bytes are copied and escape sequences are left undecoded.
// A cursor tracks line and column so parse failures can be located in the
// source text.
package scan
