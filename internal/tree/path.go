package tree

import (
	"strconv"
	"strings"
)

// Segment is one step of a Path: an object key or an array index. A segment
// carries no node type of its own; it is matched against whatever node the
// walk reaches.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

func Key(name string) Segment {
	return Segment{key: name}
}

func Index(i int) Segment {
	return Segment{index: i, isIndex: true}
}

func (s Segment) IsIndex() bool {
	return s.isIndex
}

// ArrayIndex is the position the segment selects in an array node. Key
// segments qualify only when they are canonical non-negative decimals.
func (s Segment) ArrayIndex() (int, bool) {
	if s.isIndex {
		return s.index, s.index >= 0
	}
	return parseIndex(s.key)
}

// String is the key, or the decimal form of the index. Index segments used
// against an object node look up this string.
func (s Segment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// Path addresses a node from the root of a tree.
type Path []Segment

// String joins the segments with dots. Keys containing dots are not escaped,
// so the result does not always parse back to the same path.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = seg.String()
	}
	return strings.Join(parts, ".")
}

// Append returns a new path with segs after the segments of p.
func (p Path) Append(segs ...Segment) Path {
	out := make(Path, 0, len(p)+len(segs))
	out = append(out, p...)
	return append(out, segs...)
}

// ParsePath splits a dotted path. Canonical decimal parts become index
// segments, everything else a key. The empty string yields an empty path.
func ParsePath(dotted string) Path {
	if dotted == "" {
		return nil
	}

	parts := strings.Split(dotted, ".")
	path := make(Path, len(parts))
	for i, part := range parts {
		if idx, ok := parseIndex(part); ok {
			path[i] = Index(idx)
			continue
		}
		path[i] = Key(part)
	}
	return path
}

func parseIndex(s string) (int, bool) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
