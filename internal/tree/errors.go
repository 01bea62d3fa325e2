package tree

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyPath           = errors.New("empty path")
	ErrMissingIntermediate = errors.New("missing path segment")
	ErrTargetAbsent        = errors.New("target does not exist")
	ErrNotContainer        = errors.New("not an object or array")
	ErrInvalidIndex        = errors.New("invalid array index")
	ErrUnsupportedType     = errors.New("unsupported value type")
)

// PathError is a failed path operation. Error returns the diagnostic and
// errors.Is matches Err.
type PathError struct {
	Err  error
	Path Path
	Msg  string
}

func (e *PathError) Error() string {
	return e.Msg
}

func (e *PathError) Unwrap() error {
	return e.Err
}

func EmptyPathError() *PathError {
	return &PathError{Err: ErrEmptyPath, Msg: "Path cannot be empty"}
}

// NotFoundError reports that path[i] has no match in node.
func NotFoundError(path Path, i int, node Value) *PathError {
	prefix := path[:i+1]
	seg := path[i]

	msg := fmt.Sprintf("Key '%s' not found at path: %s", seg, prefix)
	if seg.IsIndex() && node.Kind() == ArrayKind {
		msg = fmt.Sprintf("Array index %d not found at path: %s", seg.index, prefix)
	}

	return &PathError{Err: ErrMissingIntermediate, Path: prefix, Msg: msg}
}

// TargetAbsentError reports that the final segment of path is absent from its parent.
func TargetAbsentError(path Path) *PathError {
	return &PathError{
		Err:  ErrTargetAbsent,
		Path: path,
		Msg:  fmt.Sprintf("Target key '%s' does not exist at path: %s", path[len(path)-1], path),
	}
}
