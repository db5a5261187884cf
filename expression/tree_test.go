package expression_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ark-network/miniscript/expression"
)

func leaf(name string) expression.Tree {
	return expression.Tree{Name: name}
}

func node(name string, args ...expression.Tree) expression.Tree {
	return expression.Tree{Name: name, Args: args}
}

func TestParseBasic(t *testing.T) {
	tree, err := expression.FromString("thresh")
	require.NoError(t, err)
	require.True(t, tree.Equal(&expression.Tree{Name: "thresh"}))

	tree, err = expression.FromString("thresh()")
	require.NoError(t, err)
	expected := node("thresh", leaf(""))
	require.True(t, tree.Equal(&expected))

	_, err = expression.FromString("thresh,")
	require.Equal(
		t, expression.TrailingCharacterError{Ch: ',', Pos: 6}, err,
	)

	_, err = expression.FromString("thresh,thresh")
	require.Equal(
		t, expression.TrailingCharacterError{Ch: ',', Pos: 6}, err,
	)

	_, err = expression.FromString("thresh()thresh()")
	require.Equal(
		t, expression.TrailingCharacterError{Ch: 't', Pos: 8}, err,
	)

	_, err = expression.FromString("thresh()xyz")
	require.Equal(
		t, expression.TrailingCharacterError{Ch: 'x', Pos: 8}, err,
	)

	_, err = expression.FromString("thresh(a()b)")
	require.Equal(
		t, expression.ExpectedParenOrCommaError{Ch: 'b', Pos: 10}, err,
	)
}

func TestParseParens(t *testing.T) {
	_, err := expression.FromString("a(")
	require.Equal(
		t, expression.UnmatchedOpenParenError{Ch: '(', Pos: 1}, err,
	)

	_, err = expression.FromString(")")
	require.Equal(
		t, expression.UnmatchedCloseParenError{Ch: ')', Pos: 0}, err,
	)

	_, err = expression.FromString("x(y))")
	require.Equal(
		t, expression.TrailingCharacterError{Ch: ')', Pos: 4}, err,
	)

	_, err = expression.FromString("x(y)}")
	require.Equal(
		t, expression.TrailingCharacterError{Ch: '}', Pos: 4}, err,
	)
}

func TestParseDescriptor(t *testing.T) {
	keys := []string{
		"02c2fd50ceae468857bb7eb32ae9cd4083e6c7e42fbbec179d81134b3e3830586c",
		"0257f4a2816338436cccabc43aa724cf6e69e43e84c3c8a305212761389dd73a8a",
	}
	desc := "wsh(t:or_c(pk(" + keys[0] + "),v:pkh(" + keys[1] + ")))"

	tree, err := expression.FromString(desc)
	require.NoError(t, err)

	expected := node(
		"wsh",
		node(
			"t:or_c",
			node("pk", leaf(keys[0])),
			node("v:pkh", leaf(keys[1])),
		),
	)
	require.True(t, tree.Equal(&expected))
}

func TestParseChecksum(t *testing.T) {
	tree, err := expression.FromString("raw(deadbeef)#89f8spxm")
	require.NoError(t, err)
	expected := node("raw", leaf("deadbeef"))
	require.True(t, tree.Equal(&expected))

	_, err = expression.FromString("raw(deadbeef)#89f8spxn")
	require.Error(t, err)
}

func TestParseBraced(t *testing.T) {
	// In the braced form, parenthesized leaves are opaque: the commas of
	// pk() arguments and of multi_a do not split brace-level children.
	tree, err := expression.FromBracedString("{pk(a),{multi_a(2,b,c),pk(d)}}")
	require.NoError(t, err)

	expected := node(
		"",
		leaf("pk(a)"),
		node("", leaf("multi_a(2,b,c)"), leaf("pk(d)")),
	)
	require.True(t, tree.Equal(&expected))
}

func TestParseMaxDepth(t *testing.T) {
	deepest := strings.Repeat("x(", expression.MaxRecursionDepth) +
		"x" + strings.Repeat(")", expression.MaxRecursionDepth)
	tree, err := expression.FromString(deepest)
	require.NoError(t, err)

	// Equality at the maximum depth must not exhaust the stack either.
	again, err := expression.FromString(deepest)
	require.NoError(t, err)
	require.True(t, tree.Equal(&again))
	require.True(t, again.Equal(&tree))

	tooDeep := strings.Repeat("x(", expression.MaxRecursionDepth+1) +
		"x" + strings.Repeat(")", expression.MaxRecursionDepth+1)
	_, err = expression.FromString(tooDeep)
	require.Equal(t, expression.MaxRecursionDepthExceededError{
		Actual: expression.MaxRecursionDepth + 1,
		Limit:  expression.MaxRecursionDepth,
	}, err)
}

func TestTreeEqual(t *testing.T) {
	a := node("and", node("pk", leaf("x")), leaf("y"))
	b := node("and", node("pk", leaf("x")), leaf("y"))
	c := node("and", node("pk", leaf("x")), leaf("z"))
	d := node("and", node("pk", leaf("x")))

	require.True(t, a.Equal(&a))
	require.True(t, a.Equal(&b))
	require.True(t, b.Equal(&a))
	require.False(t, a.Equal(&c))
	require.False(t, a.Equal(&d))
}
