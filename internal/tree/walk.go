package tree

// Child resolves seg against node. Arrays take index-like segments, objects
// take the segment's string form, and scalars have no children.
func Child(node Value, seg Segment) (Value, bool) {
	switch node.kind {
	case ArrayKind:
		i, ok := seg.ArrayIndex()
		if !ok {
			return Value{}, false
		}
		return node.arr.At(i)
	case ObjectKind:
		return node.obj.Get(seg.String())
	default:
		return Value{}, false
	}
}

// Walk follows every segment of path from root, requiring each to exist. An
// empty path yields root itself.
func Walk(root Value, path Path) (Value, error) {
	node := root
	for i, seg := range path {
		child, ok := Child(node, seg)
		if !ok {
			return Value{}, NotFoundError(path, i, node)
		}
		node = child
	}

	return node, nil
}

// Resolve is Walk for callers that require a non-empty path.
func Resolve(root Value, path Path) (Value, error) {
	if len(path) == 0 {
		return Value{}, EmptyPathError()
	}

	return Walk(root, path)
}
