// Package search locates nodes anywhere in a tree by key name or predicate.
//
// Every operation walks the tree depth-first in pre-order: a node is visited
// before its children, array elements in index order and object members in
// enumeration order. The walk uses an explicit stack, so tree depth is bounded
// only by memory. Null nodes are never handed to a predicate and have no
// children.
package search

import (
	"errors"
	"slices"
	"strings"

	"github.com/jacoelho/jtree/internal/stack"
	"github.com/jacoelho/jtree/internal/tree"
)

var (
	ErrNotAnArray = errors.New("target is not an array")
	ErrNoMatch    = errors.New("no matching node")
)

// Predicate selects nodes. It must not mutate the tree it is given.
type Predicate func(tree.Value) bool

// Match is a located node. Path is the dotted rendering of its location and is
// empty for the root; Value references the node inside the searched tree.
type Match struct {
	Path  string
	Value tree.Value
}

// FindByKey returns every object member named key, at any depth.
func FindByKey(root tree.Value, key string) []Match {
	var matches []Match
	walk(root, func(f frame) bool {
		if f.keyed && f.trail.seg == key {
			matches = append(matches, Match{Path: f.trail.String(), Value: f.value})
		}
		return true
	})
	return matches
}

// FindByValue returns every node, the root included, that satisfies pred.
// Descendants of a matching node are still examined.
func FindByValue(root tree.Value, pred Predicate) []Match {
	var matches []Match
	walk(root, func(f frame) bool {
		if !f.value.IsNull() && pred(f.value) {
			matches = append(matches, Match{Path: f.trail.String(), Value: f.value})
		}
		return true
	})
	return matches
}

// FilterArray resolves path like accessor.Read and returns, in order, the
// elements of the array found there that satisfy pred. The source array is
// not modified.
func FilterArray(root tree.Value, path tree.Path, pred Predicate) ([]tree.Value, error) {
	target, err := tree.Resolve(root, path)
	if err != nil {
		return nil, err
	}

	arr := target.Array()
	if arr == nil {
		return nil, &tree.PathError{Err: ErrNotAnArray, Path: path, Msg: "Target is not an array"}
	}

	filtered := make([]tree.Value, 0, arr.Len())
	for _, item := range arr.All() {
		if pred(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// FindFirst returns the first node in walk order that satisfies pred.
func FindFirst(root tree.Value, pred Predicate) (Match, error) {
	var (
		found Match
		ok    bool
	)
	walk(root, func(f frame) bool {
		if !f.value.IsNull() && pred(f.value) {
			found = Match{Path: f.trail.String(), Value: f.value}
			ok = true
			return false
		}
		return true
	})

	if !ok {
		return Match{}, &tree.PathError{Err: ErrNoMatch, Msg: "No matching object found"}
	}
	return found, nil
}

// Exists reports whether any node satisfies pred. It stops at the first match.
func Exists(root tree.Value, pred Predicate) bool {
	_, err := FindFirst(root, pred)
	return err == nil
}

// Count returns how many nodes, the root included, satisfy pred.
func Count(root tree.Value, pred Predicate) int {
	n := 0
	walk(root, func(f frame) bool {
		if !f.value.IsNull() && pred(f.value) {
			n++
		}
		return true
	})
	return n
}

// trail is a parent-linked path from the root; nil is the root itself.
type trail struct {
	parent *trail
	seg    string
}

func (t *trail) String() string {
	var segs []string
	for cur := t; cur != nil; cur = cur.parent {
		segs = append(segs, cur.seg)
	}
	slices.Reverse(segs)
	return strings.Join(segs, ".")
}

type frame struct {
	value tree.Value
	trail *trail
	keyed bool // reached through an object member
}

// walk visits nodes in pre-order until visit returns false.
func walk(root tree.Value, visit func(frame) bool) {
	work := stack.NewWithCapacity[frame](16)
	work.Push(frame{value: root})

	for !work.IsEmpty() {
		f, _ := work.Pop()
		if !visit(f) {
			return
		}
		work.PushReversed(children(f)...)
	}
}

func children(f frame) []frame {
	switch f.value.Kind() {
	case tree.ArrayKind:
		arr := f.value.Array()
		out := make([]frame, 0, arr.Len())
		for i, item := range arr.All() {
			out = append(out, frame{value: item, trail: &trail{parent: f.trail, seg: tree.Index(i).String()}})
		}
		return out
	case tree.ObjectKind:
		obj := f.value.Object()
		out := make([]frame, 0, obj.Len())
		for key, item := range obj.All() {
			out = append(out, frame{value: item, trail: &trail{parent: f.trail, seg: key}, keyed: true})
		}
		return out
	default:
		return nil
	}
}
