package expression

import (
	"fmt"
	"strconv"
)

// Threshold is a k-of-n collection: the condition it models is satisfied by
// any k of its n items. The invariant 1 <= k <= n is established at
// construction and never broken afterwards.
type Threshold[T any] struct {
	k     int
	items []T
}

// NewThreshold builds a threshold over items, validating 1 <= k <= n.
func NewThreshold[T any](k int, items []T) (Threshold[T], error) {
	if k < 1 || k > len(items) {
		return Threshold[T]{}, ThresholdError{K: k, N: len(items)}
	}
	return Threshold[T]{k: k, items: items}, nil
}

// K returns the threshold value.
func (t Threshold[T]) K() int { return t.k }

// N returns the number of items.
func (t Threshold[T]) N() int { return len(t.items) }

// Items returns the underlying items. The slice must not be mutated.
func (t Threshold[T]) Items() []T { return t.items }

// TranslateThreshold maps every item of t through f, preserving k. This is
// how a placeholder threshold from ToNullThreshold becomes a real one.
func TranslateThreshold[T, U any](
	t Threshold[T], f func(T) (U, error),
) (Threshold[U], error) {
	items := make([]U, 0, len(t.items))
	for _, item := range t.items {
		mapped, err := f(item)
		if err != nil {
			return Threshold[U]{}, err
		}
		items = append(items, mapped)
	}
	return Threshold[U]{k: t.k, items: items}, nil
}

// ToNullThreshold interprets t as a threshold expression `name(k,X1,...,Xn)`.
// It validates the shape (at least one argument, the first of which is a
// leaf holding a canonical number) but does not convert the children;
// instead it returns a threshold of n placeholders for the caller to
// translate into the real child type.
func (t *Tree) ToNullThreshold() (Threshold[struct{}], error) {
	if len(t.Args) == 0 {
		return Threshold[struct{}]{}, ErrThresholdNoChildren
	}
	if len(t.Args[0].Args) != 0 {
		return Threshold[struct{}]{}, ErrThresholdKNotTerminal
	}

	k, err := ParseNum(t.Args[0].Name)
	if err != nil {
		return Threshold[struct{}]{}, fmt.Errorf(
			"parsing threshold value: %w", err,
		)
	}

	return NewThreshold(int(k), make([]struct{}, len(t.Args)-1))
}

// ParseNum parses a string as a u32, for timelocks and threshold values.
// Only canonical decimal representations are accepted: any single digit, or
// a multi-digit string starting with 1-9. Signs and leading zeros are
// rejected.
func ParseNum(s string) (uint32, error) {
	if len(s) > 1 {
		if s[0] < '1' || s[0] > '9' {
			return 0, UnexpectedError{
				Token: fmt.Sprintf("number must start with a digit 1-9: %s", s),
			}
		}
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, UnexpectedError{Token: s}
	}
	return uint32(n), nil
}
