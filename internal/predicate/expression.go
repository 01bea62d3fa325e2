package predicate

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/jacoelho/jtree/internal/tree"
)

// Compile turns an expr-lang boolean expression into a predicate. The
// expression sees:
//
//	value      the node as plain data (maps, slices, float64, string, bool)
//	kind       the node kind name, e.g. "object"
//	has(path)  whether a dotted path resolves below the node
//	get(path)  the data at a dotted path below the node, or nil
//
// Nodes for which the expression fails at run time do not match.
func Compile(source string) (func(tree.Value) bool, error) {
	if source == "" {
		return nil, fmt.Errorf("%w: expression is empty", ErrInvalidInput)
	}

	program, err := expr.Compile(source, expr.Env(newEnv(tree.Null())), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return func(node tree.Value) bool {
		out, err := vm.Run(program, newEnv(node))
		if err != nil {
			return false
		}
		matched, ok := out.(bool)
		return ok && matched
	}, nil
}

func newEnv(node tree.Value) map[string]any {
	return map[string]any{
		"value": tree.ToAny(node),
		"kind":  node.Kind().String(),
		"has": func(path string) bool {
			_, err := tree.Walk(node, tree.ParsePath(path))
			return err == nil
		},
		"get": func(path string) any {
			v, err := tree.Walk(node, tree.ParsePath(path))
			if err != nil {
				return nil
			}
			return tree.ToAny(v)
		},
	}
}
