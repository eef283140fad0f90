package md5

import (
	"errors"
	"fmt"
)

// Failure kinds. Every parse failure wraps exactly one of these in a
// *SyntaxError; use errors.Is to classify and errors.As to get the offset.
var (
	ErrTagMismatch        = errors.New("tag mismatch")
	ErrInvalidInteger     = errors.New("invalid integer")
	ErrInvalidFloat       = errors.New("invalid float")
	ErrUnterminatedString = errors.New("unterminated string")
	ErrInvalidBias        = errors.New("bias outside [-1, 1]")
	ErrUnexpectedEOF      = errors.New("unexpected end of input")
)

// ErrComponentRange is returned by Anim.Components for a frame or joint
// outside the parsed document, or a component run past the end of a frame.
var ErrComponentRange = errors.New("md5: component range")

// SyntaxError reports where a document stopped matching the grammar.
type SyntaxError struct {
	Offset int    // byte offset of the offending token
	Line   int    // 1-based line of Offset
	Want   string // what the grammar expected there
	Err    error  // one of the Err* kinds above
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("md5: line %d (offset %d): want %s: %v", e.Line, e.Offset, e.Want, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }
