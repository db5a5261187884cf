// Package expression implements the function-like expression language used
// by descriptor strings: a name, optionally followed by a parenthesized,
// comma-separated argument list. An alternate brace-delimited form is used
// for taproot script trees, where the leaves are themselves parenthesized
// expressions.
//
// Parsing is a two-pass process. A linear structural pre-check validates
// delimiter matching and measures the maximum nesting depth; the recursive
// construction pass that follows is therefore bounded and cannot be driven
// into stack exhaustion by adversarial input.
package expression

import (
	"github.com/ark-network/miniscript/descriptor"
)

// MaxRecursionDepth is the deepest nesting the parser accepts.
const MaxRecursionDepth = 402

// Tree is a token of the form `x` or `x(...)`. Name is a substring of the
// original input; no parse ever copies character data.
type Tree struct {
	// Name is the `x`.
	Name string
	// Args are the comma-separated contents of the `(...)`, if any.
	Args []Tree
}

// FromString parses a parenthesized expression tree, verifying and stripping
// an optional trailing checksum first.
func FromString(s string) (Tree, error) {
	top, _, err := fromSliceDelim(s, 0, '(')
	if err != nil {
		return Tree{}, err
	}
	// The pre-check guarantees there is no remainder after the top-level
	// expression.
	return top, nil
}

// FromBracedString parses the brace-delimited tree form used for taproot
// script trees. Leaves may themselves be parenthesized expressions
// containing commas; those are kept opaque and can be re-parsed with
// FromString.
func FromBracedString(s string) (Tree, error) {
	top, _, err := fromSliceDelim(s, 0, '{')
	if err != nil {
		return Tree{}, err
	}
	return top, nil
}

// Equal reports structural equality: same names and same arities, recursively.
//
// The comparison runs over an explicit worklist rather than by recursing, so
// it is safe on trees as deep as MaxRecursionDepth allows.
func (t *Tree) Equal(other *Tree) bool {
	type pair struct {
		a, b *Tree
	}
	stack := []pair{{t, other}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.a.Name != p.b.Name || len(p.a.Args) != len(p.b.Args) {
			return false
		}
		for i := range p.a.Args {
			stack = append(stack, pair{&p.a.Args[i], &p.b.Args[i]})
		}
	}
	return true
}

// parsePreCheck validates that s is a structurally well-formed expression
// string with an optional checksum, and returns s with the checksum removed.
//
// It scans left to right over bytes (the descriptor charset is ASCII, so
// byte positions are character positions) keeping a stack of open
// delimiters, and records the maximum stack depth seen. That measurement is
// the authoritative bound for the recursive pass.
func parsePreCheck(s string, open, close byte) (string, error) {
	s, err := descriptor.VerifyChecksum(s)
	if err != nil {
		return "", err
	}

	type openParen struct {
		ch  byte
		pos int
	}

	maxDepth := 0
	stack := make([]openParen, 0, 128)
	for pos := 0; pos < len(s); pos++ {
		ch := s[pos]
		switch {
		case ch == open:
			stack = append(stack, openParen{ch: ch, pos: pos})
			if maxDepth < len(stack) {
				maxDepth = len(stack)
			}

		case ch == close:
			if len(stack) == 0 {
				// Only reachable when there are no open parens at
				// all; with open parens pending, an extra closer is
				// caught below as a trailing character.
				return "", UnmatchedCloseParenError{Ch: ch, Pos: pos}
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if (top.ch == '(' && ch == '}') || (top.ch == '{' && ch == ')') {
				return "", MismatchedParensError{
					OpenCh:   top.ch,
					OpenPos:  top.pos,
					CloseCh:  ch,
					ClosePos: pos,
				}
			}

			if len(stack) > 0 {
				// Not the last paren; the string must continue with
				// a ',' or another closer.
				if pos == len(s)-1 {
					outer := stack[len(stack)-1]
					return "", UnmatchedOpenParenError{
						Ch:  outer.ch,
						Pos: outer.pos,
					}
				}
				next := s[pos+1]
				if next != ')' && next != '}' && next != ',' {
					return "", ExpectedParenOrCommaError{
						Ch:  next,
						Pos: pos + 1,
					}
				}
			} else {
				// Last paren; this must be the end of the string.
				if pos < len(s)-1 {
					return "", TrailingCharacterError{
						Ch:  s[pos+1],
						Pos: pos + 1,
					}
				}
			}

		case ch == ',' && len(stack) == 0:
			// Commas are only meaningful inside an argument list.
			return "", TrailingCharacterError{Ch: ch, Pos: pos}
		}
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return "", UnmatchedOpenParenError{Ch: top.ch, Pos: top.pos}
	}

	if maxDepth > MaxRecursionDepth {
		return "", MaxRecursionDepthExceededError{
			Actual: maxDepth,
			Limit:  MaxRecursionDepth,
		}
	}

	return s, nil
}

type found int

const (
	foundNothing found = iota
	foundLBracket
	foundComma
	foundRBracket
)

// nextExpr scans for the next structurally significant byte at the current
// syntactic level and returns its kind and position.
//
// In paren mode the first '(', ',' or ')' terminates the scan: nested groups
// are handled by recursive re-slicing, not here. In brace mode, parenthesized
// subexpressions are opaque leaves, so the scan skips over them with a local
// counter and only a brace or a level-zero comma terminates it.
func nextExpr(sl string, delim byte) (found, int) {
	if delim == '(' {
		for n := 0; n < len(sl); n++ {
			switch sl[n] {
			case '(':
				return foundLBracket, n
			case ',':
				return foundComma, n
			case ')':
				return foundRBracket, n
			}
		}
		return foundNothing, 0
	}

	parens := 0
	for n := 0; n < len(sl); n++ {
		switch sl[n] {
		case '{':
			return foundLBracket, n
		case '(':
			parens++
		case ')':
			parens--
		case ',':
			if parens == 0 {
				return foundComma, n
			}
		case '}':
			return foundRBracket, n
		}
	}
	return foundNothing, 0
}

func closingDelim(delim byte) byte {
	if delim == '{' {
		return '}'
	}
	return ')'
}

// fromSliceDelim parses one expression from the front of sl and returns it
// together with the unconsumed remainder. At depth 0 it first runs the
// structural pre-check on the whole input; recursive calls rely on that
// check instead of re-running it.
func fromSliceDelim(sl string, depth uint32, delim byte) (Tree, string, error) {
	if depth == 0 {
		var err error
		sl, err = parsePreCheck(sl, delim, closingDelim(delim))
		if err != nil {
			return Tree{}, "", err
		}
	}

	kind, n := nextExpr(sl, delim)
	switch kind {
	case foundNothing:
		// The whole slice is a leaf name.
		return Tree{Name: sl}, "", nil

	case foundComma, foundRBracket:
		// Leaf with trailing structure belonging to the caller.
		return Tree{Name: sl[:n]}, sl[n:], nil

	default:
		// Function call: parse children until the matching closer.
		ret := Tree{Name: sl[:n]}
		sl = sl[n+1:]
		for {
			arg, rem, err := fromSliceDelim(sl, depth+1, delim)
			if err != nil {
				return Tree{}, "", err
			}
			ret.Args = append(ret.Args, arg)

			// The pre-check guarantees rem starts with ',' or the
			// closing delimiter.
			sl = rem[1:]
			if rem[0] != ',' {
				break
			}
		}
		return ret, sl, nil
	}
}
