package expression

// FromTreeFunc builds a value of type T from a parsed expression node. AST
// node types provide one of these; the arity combinators below invoke it on
// children after checking the child count.
type FromTreeFunc[T any] func(*Tree) (T, error)

// Terminal converts a node with no arguments through convert. A node with
// arguments is rejected as unexpected.
func Terminal[T any](tree *Tree, convert func(string) (T, error)) (T, error) {
	var zero T
	if len(tree.Args) != 0 {
		return zero, UnexpectedError{Token: tree.Name}
	}
	v, err := convert(tree.Name)
	if err != nil {
		return zero, UnexpectedError{Token: err.Error()}
	}
	return v, nil
}

// Unary converts a node with exactly one argument: the child is built with
// fromTree, then wrapped by convert.
func Unary[L, T any](
	tree *Tree, fromTree FromTreeFunc[L], convert func(L) T,
) (T, error) {
	var zero T
	if len(tree.Args) != 1 {
		return zero, UnexpectedError{Token: tree.Name}
	}
	left, err := fromTree(&tree.Args[0])
	if err != nil {
		return zero, err
	}
	return convert(left), nil
}

// Binary converts a node with exactly two arguments.
func Binary[L, R, T any](
	tree *Tree,
	fromLeft FromTreeFunc[L],
	fromRight FromTreeFunc[R],
	convert func(L, R) T,
) (T, error) {
	var zero T
	if len(tree.Args) != 2 {
		return zero, UnexpectedError{Token: tree.Name}
	}
	left, err := fromLeft(&tree.Args[0])
	if err != nil {
		return zero, err
	}
	right, err := fromRight(&tree.Args[1])
	if err != nil {
		return zero, err
	}
	return convert(left, right), nil
}
