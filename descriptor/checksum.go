// Package descriptor implements the descriptor checksum defined in BIP-380.
//
// Descriptor strings may carry an optional "#"-separated 8-character checksum
// suffix. The checksum protects against character substitutions and swaps in
// strings that are routinely copied by hand.
package descriptor

import (
	"fmt"
	"strings"
)

// InputCharset is the set of characters allowed in a descriptor string,
// ordered such that the BIP-380 symbol value of a character is its index.
const InputCharset = "0123456789()[],'/*abcdefgh@:$%{}IJKLMNOPQRSTUVWXYZ&+-.;<=>?!^_|~ijklmnopqrstuvwxyzABCDEFGH`#\"\\ "

// ChecksumCharset is the bech32 character set, used to encode the 40-bit
// checksum as 8 characters.
const ChecksumCharset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// ChecksumLength is the number of characters in an encoded checksum.
const ChecksumLength = 8

// InvalidCharacterError is returned when a descriptor contains a character
// outside of InputCharset, or a checksum contains a character outside of
// ChecksumCharset.
type InvalidCharacterError struct {
	Ch  byte
	Pos int
}

func (e InvalidCharacterError) Error() string {
	return fmt.Sprintf("invalid character '%c' at position %d", e.Ch, e.Pos)
}

// ChecksumMismatchError is returned when a descriptor carries a checksum that
// does not match its payload.
type ChecksumMismatchError struct {
	Actual   string
	Expected string
}

func (e ChecksumMismatchError) Error() string {
	return fmt.Sprintf(
		"invalid checksum '%s', expected '%s'", e.Actual, e.Expected,
	)
}

// InvalidChecksumLengthError is returned when the part after '#' is not
// exactly ChecksumLength characters.
type InvalidChecksumLengthError struct {
	Actual int
}

func (e InvalidChecksumLengthError) Error() string {
	return fmt.Sprintf(
		"invalid checksum length %d, expected %d", e.Actual, ChecksumLength,
	)
}

// VerifyChecksum checks that every character of s belongs to InputCharset
// and, if s carries a '#'-separated checksum suffix, verifies it. It returns
// s with the checksum suffix removed.
//
// A descriptor without a '#' is accepted as-is: the checksum is optional.
func VerifyChecksum(s string) (string, error) {
	payload := s
	checksum := ""
	hasChecksum := false
	if idx := strings.IndexByte(s, '#'); idx >= 0 {
		payload = s[:idx]
		checksum = s[idx+1:]
		hasChecksum = true
	}

	eng := newEngine()
	for pos := 0; pos < len(payload); pos++ {
		if err := eng.input(payload[pos]); err != nil {
			return "", InvalidCharacterError{Ch: payload[pos], Pos: pos}
		}
	}

	if hasChecksum {
		if len(checksum) != ChecksumLength {
			return "", InvalidChecksumLengthError{Actual: len(checksum)}
		}
		expected := eng.checksum()
		if checksum != expected {
			return "", ChecksumMismatchError{
				Actual:   checksum,
				Expected: expected,
			}
		}
	}

	return payload, nil
}

// AppendChecksum computes the checksum of s and returns "s#checksum". It
// fails if s contains a character outside of InputCharset or already carries
// a checksum.
func AppendChecksum(s string) (string, error) {
	if strings.IndexByte(s, '#') >= 0 {
		return "", fmt.Errorf("descriptor already has a checksum")
	}

	eng := newEngine()
	for pos := 0; pos < len(s); pos++ {
		if err := eng.input(s[pos]); err != nil {
			return "", InvalidCharacterError{Ch: s[pos], Pos: pos}
		}
	}

	return s + "#" + eng.checksum(), nil
}

// engine is the BIP-380 checksum state machine. Characters are fed one at a
// time; group classes are folded in every third character.
type engine struct {
	c        uint64
	cls      int
	clsCount int
}

func newEngine() *engine {
	return &engine{c: 1}
}

func (e *engine) input(ch byte) error {
	pos := strings.IndexByte(InputCharset, ch)
	if pos < 0 {
		return fmt.Errorf("character not in charset")
	}

	e.c = polymod(e.c, pos&31)
	e.cls = e.cls*3 + (pos >> 5)
	e.clsCount++
	if e.clsCount == 3 {
		e.c = polymod(e.c, e.cls)
		e.cls = 0
		e.clsCount = 0
	}
	return nil
}

func (e *engine) checksum() string {
	c := e.c
	if e.clsCount > 0 {
		c = polymod(c, e.cls)
	}
	for i := 0; i < ChecksumLength; i++ {
		c = polymod(c, 0)
	}
	c ^= 1

	sum := make([]byte, ChecksumLength)
	for i := 0; i < ChecksumLength; i++ {
		sum[i] = ChecksumCharset[(c>>(5*(ChecksumLength-1-i)))&31]
	}
	return string(sum)
}

// polymod is one step of the BIP-380 checksum polynomial, over GF(2^5) with
// a degree-8 generator.
func polymod(c uint64, val int) uint64 {
	c0 := c >> 35
	c = ((c & 0x7ffffffff) << 5) ^ uint64(val)
	if c0&1 != 0 {
		c ^= 0xf5dee51989
	}
	if c0&2 != 0 {
		c ^= 0xa9fdca3312
	}
	if c0&4 != 0 {
		c ^= 0x1bab10e32d
	}
	if c0&8 != 0 {
		c ^= 0x3706b1677a
	}
	if c0&16 != 0 {
		c ^= 0x644d626ffd
	}
	return c
}
