// Package query selects tree nodes with RFC 9535 JSONPath expressions.
package query

import (
	"errors"
	"fmt"

	"github.com/theory/jsonpath"
	"github.com/theory/jsonpath/spec"

	"github.com/jacoelho/jtree/internal/tree"
)

var (
	ErrInvalidInput = errors.New("invalid query input")
	ErrSyntax       = errors.New("invalid JSONPath")
)

// Query is a compiled JSONPath expression.
type Query struct {
	source string
	path   *jsonpath.Path
}

func Compile(source string) (*Query, error) {
	if source == "" {
		return nil, fmt.Errorf("%w: JSONPath expression is empty", ErrInvalidInput)
	}

	path, err := jsonpath.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrSyntax, source, err)
	}

	return &Query{source: source, path: path}, nil
}

func (q *Query) String() string {
	return q.source
}

// Select returns the selected nodes in document order. Each result is a deep
// copy of the node in root, so object members keep their document order and
// changing a result does not change root.
func (q *Query) Select(root tree.Value) ([]tree.Value, error) {
	located := q.path.SelectLocated(tree.ToAny(root))

	out := make([]tree.Value, 0, len(located))
	for node := range located.All() {
		v, err := tree.Walk(root, toPath(node.Path))
		if err != nil {
			return nil, fmt.Errorf("resolve JSONPath result %s: %w", node.Path, err)
		}
		out = append(out, tree.Clone(v))
	}
	return out, nil
}

// toPath converts a normalized JSONPath location into a tree path.
func toPath(np spec.NormalizedPath) tree.Path {
	path := make(tree.Path, 0, len(np))
	for _, sel := range np {
		switch s := sel.(type) {
		case spec.Name:
			path = append(path, tree.Key(string(s)))
		case spec.Index:
			path = append(path, tree.Index(int(s)))
		}
	}
	return path
}

// Select compiles source and applies it to root.
func Select(root tree.Value, source string) ([]tree.Value, error) {
	q, err := Compile(source)
	if err != nil {
		return nil, err
	}
	return q.Select(root)
}
