package search

import (
	"bytes"
	"fmt"
)

// Pattern is the compiled form of a hex prefix: one byte per pair of source
// digits, plus an optional standalone nibble when the source had odd length.
// A Pattern is immutable and safe for concurrent use by any number of
// workers.
type Pattern struct {
	full   []byte
	odd    byte
	hasOdd bool
}

// InvalidCharError reports the first non-hex character found while parsing a
// prefix, with its 0-based position in the source string.
type InvalidCharError struct {
	Char byte
	Pos  int
}

func (e InvalidCharError) Error() string {
	return fmt.Sprintf("search: invalid hex character %q at position %d", e.Char, e.Pos)
}

// ParsePattern compiles a hex string into a Pattern. The string is scanned
// left to right, a pair of digits at a time; an odd trailing digit becomes a
// standalone nibble constraining only the high half of the next digest byte.
// Scanning stops at the first character outside [0-9a-fA-F], so the reported
// error is always the leftmost offender.
func ParsePattern(s string) (*Pattern, error) {
	full := make([]byte, 0, len(s)/2)
	i := 0
	for ; i+1 < len(s); i += 2 {
		hi, ok := hexNibble(s[i])
		if !ok {
			return nil, InvalidCharError{Char: s[i], Pos: i}
		}
		lo, ok := hexNibble(s[i+1])
		if !ok {
			return nil, InvalidCharError{Char: s[i+1], Pos: i + 1}
		}
		full = append(full, hi<<4|lo)
	}

	p := &Pattern{full: full}
	if i < len(s) {
		nib, ok := hexNibble(s[i])
		if !ok {
			return nil, InvalidCharError{Char: s[i], Pos: i}
		}
		p.odd = nib
		p.hasOdd = true
	}
	return p, nil
}

// Len returns the number of hex digits the pattern constrains.
func (p *Pattern) Len() int {
	n := len(p.full) * 2
	if p.hasOdd {
		n++
	}
	return n
}

// Test reports whether digest begins with the pattern. It runs once per
// probe and probe volume dominates the search, so it must not allocate.
func (p *Pattern) Test(digest []byte) bool {
	n := len(p.full)
	if n > len(digest) {
		return false
	}
	if !bytes.Equal(digest[:n], p.full) {
		return false
	}
	if !p.hasOdd {
		return true
	}
	if n == len(digest) {
		return false
	}
	return digest[n]>>4 == p.odd
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
