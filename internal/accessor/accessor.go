// Package accessor creates, reads, updates and deletes tree values by path.
//
// Create is lenient: it synthesizes missing intermediate objects and
// overwrites the target. Update and Delete are strict: every intermediate and
// the target itself must already exist. All four reject an empty path.
//
// Mutating operations change the tree in place. The caller must hold the only
// live use of the tree while a mutating call runs.
package accessor

import (
	"fmt"

	"github.com/jacoelho/jtree/internal/tree"
)

// Create sets value at path, creating empty objects for every intermediate
// segment that is absent or cannot hold the next segment. An array index past
// the end grows the array, padding with null.
//
// Replacing an intermediate drops whatever it held: a scalar, a null, or a
// whole array reached with a non-index key. The root is the one node Create
// cannot replace, because the caller holds it; a root that cannot take the
// first segment fails with ErrNotContainer and is left unchanged.
func Create(root tree.Value, path tree.Path, value tree.Value) error {
	if len(path) == 0 {
		return tree.EmptyPathError()
	}
	if err := checkIndexes(path); err != nil {
		return err
	}
	if !canHold(root, path[0]) {
		return &tree.PathError{
			Err:  tree.ErrNotContainer,
			Msg:  fmt.Sprintf("Cannot create '%s': root is a %s", path[0], root.Kind()),
			Path: path[:1],
		}
	}

	node := root
	last := len(path) - 1
	for i, seg := range path[:last] {
		child, ok := tree.Child(node, seg)
		if !ok || !canHold(child, path[i+1]) {
			child = tree.NewObject()
			put(node, seg, child)
		}
		node = child
	}

	put(node, path[last], value)
	return nil
}

// Read returns the value at path. Every segment must exist.
func Read(root tree.Value, path tree.Path) (tree.Value, error) {
	return tree.Resolve(root, path)
}

// ReadOr returns the value at path, or fallback when the path does not resolve.
func ReadOr(root tree.Value, path tree.Path, fallback tree.Value) tree.Value {
	v, err := tree.Resolve(root, path)
	if err != nil {
		return fallback
	}
	return v
}

// Has reports whether path resolves.
func Has(root tree.Value, path tree.Path) bool {
	_, err := tree.Resolve(root, path)
	return err == nil
}

// Update overwrites the existing value at path.
func Update(root tree.Value, path tree.Path, value tree.Value) error {
	parent, last, err := target(root, path)
	if err != nil {
		return err
	}

	switch parent.Kind() {
	case tree.ArrayKind:
		i, _ := last.ArrayIndex()
		parent.Array().Set(i, value)
	case tree.ObjectKind:
		parent.Object().Set(last.String(), value)
	}
	return nil
}

// Delete removes the value at path. Array elements after the removed index
// shift down by one.
func Delete(root tree.Value, path tree.Path) error {
	parent, last, err := target(root, path)
	if err != nil {
		return err
	}

	switch parent.Kind() {
	case tree.ArrayKind:
		i, _ := last.ArrayIndex()
		parent.Array().RemoveAt(i)
	case tree.ObjectKind:
		parent.Object().Delete(last.String())
	}
	return nil
}

// target walks all but the last segment and checks the last one exists.
func target(root tree.Value, path tree.Path) (tree.Value, tree.Segment, error) {
	if len(path) == 0 {
		return tree.Value{}, tree.Segment{}, tree.EmptyPathError()
	}

	last := len(path) - 1
	parent, err := tree.Walk(root, path[:last])
	if err != nil {
		return tree.Value{}, tree.Segment{}, err
	}

	if _, ok := tree.Child(parent, path[last]); !ok {
		return tree.Value{}, tree.Segment{}, tree.TargetAbsentError(path)
	}

	return parent, path[last], nil
}

// canHold reports whether seg can be stored into node without replacing it.
func canHold(node tree.Value, seg tree.Segment) bool {
	switch node.Kind() {
	case tree.ObjectKind:
		return true
	case tree.ArrayKind:
		_, ok := seg.ArrayIndex()
		return ok
	default:
		return false
	}
}

// put stores v under seg. node must satisfy canHold.
func put(node tree.Value, seg tree.Segment, v tree.Value) {
	switch node.Kind() {
	case tree.ArrayKind:
		i, _ := seg.ArrayIndex()
		node.Array().Put(i, v)
	case tree.ObjectKind:
		node.Object().Set(seg.String(), v)
	}
}

func checkIndexes(path tree.Path) error {
	for i, seg := range path {
		if seg.IsIndex() {
			if _, ok := seg.ArrayIndex(); !ok {
				return &tree.PathError{
					Err:  tree.ErrInvalidIndex,
					Path: path[:i+1],
					Msg:  fmt.Sprintf("Array index %s is negative at path: %s", seg, path[:i+1]),
				}
			}
		}
	}
	return nil
}
