package expression

import (
	"errors"
	"fmt"
)

var (
	// ErrThresholdNoChildren is returned when a threshold expression has no
	// arguments at all, not even the threshold value k.
	ErrThresholdNoChildren = errors.New("threshold expression has no children")

	// ErrThresholdKNotTerminal is returned when the first argument of a
	// threshold expression is not a leaf.
	ErrThresholdKNotTerminal = errors.New("threshold value must be a terminal")
)

// MismatchedParensError is returned when an opening delimiter of one family
// is closed by the other family, e.g. "a{b)".
type MismatchedParensError struct {
	OpenCh   byte
	OpenPos  int
	CloseCh  byte
	ClosePos int
}

func (e MismatchedParensError) Error() string {
	return fmt.Sprintf(
		"'%c' at position %d closed by '%c' at position %d",
		e.OpenCh, e.OpenPos, e.CloseCh, e.ClosePos,
	)
}

// UnmatchedOpenParenError is returned when an opening delimiter is never
// closed.
type UnmatchedOpenParenError struct {
	Ch  byte
	Pos int
}

func (e UnmatchedOpenParenError) Error() string {
	return fmt.Sprintf("'%c' at position %d not closed", e.Ch, e.Pos)
}

// UnmatchedCloseParenError is returned when a closing delimiter appears with
// no matching opener.
type UnmatchedCloseParenError struct {
	Ch  byte
	Pos int
}

func (e UnmatchedCloseParenError) Error() string {
	return fmt.Sprintf("'%c' at position %d not opened", e.Ch, e.Pos)
}

// ExpectedParenOrCommaError is returned when a closed subexpression is
// followed by a byte other than ')', '}' or ','.
type ExpectedParenOrCommaError struct {
	Ch  byte
	Pos int
}

func (e ExpectedParenOrCommaError) Error() string {
	return fmt.Sprintf(
		"expected ')' or ',', got '%c' at position %d", e.Ch, e.Pos,
	)
}

// TrailingCharacterError is returned when bytes follow the outermost closed
// expression, or a comma appears at the top level.
type TrailingCharacterError struct {
	Ch  byte
	Pos int
}

func (e TrailingCharacterError) Error() string {
	return fmt.Sprintf(
		"trailing character '%c' at position %d", e.Ch, e.Pos,
	)
}

// MaxRecursionDepthExceededError is returned when an expression nests deeper
// than MaxRecursionDepth. It is reported before any recursive construction
// takes place.
type MaxRecursionDepthExceededError struct {
	Actual int
	Limit  int
}

func (e MaxRecursionDepthExceededError) Error() string {
	return fmt.Sprintf(
		"maximum recursion depth exceeded: %d > %d", e.Actual, e.Limit,
	)
}

// UnexpectedError is the generic syntax error used by the arity combinators
// when a node has the wrong number of arguments, and by ParseNum for
// non-canonical numbers.
type UnexpectedError struct {
	Token string
}

func (e UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected '%s'", e.Token)
}

// ThresholdError is returned when a threshold value k is outside of
// 1 <= k <= n.
type ThresholdError struct {
	K int
	N int
}

func (e ThresholdError) Error() string {
	return fmt.Sprintf("invalid threshold %d-of-%d", e.K, e.N)
}
