package formatter

import (
	"github.com/jacoelho/jtree/internal/search"
	"github.com/jacoelho/jtree/internal/tree"
)

// Formatter defines the interface for rendering command results.
// Implementations are responsible for determining the output device (stdout, file, etc.).
type Formatter interface {
	// Value renders a single node in the document format.
	Value(v tree.Value) error
	// Values renders a list of nodes, such as filter or select output.
	Values(vs []tree.Value) error
	// Matches renders search matches together with their paths.
	Matches(ms []search.Match) error
	Count(n int) error
	Bool(b bool) error
	// Diff renders the line difference between two encodings of a document.
	Diff(before, after []byte) error
}
