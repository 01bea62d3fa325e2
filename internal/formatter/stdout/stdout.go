package stdout

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/jacoelho/jtree/internal/document"
	"github.com/jacoelho/jtree/internal/formatter"
	"github.com/jacoelho/jtree/internal/search"
	"github.com/jacoelho/jtree/internal/tree"
)

// Formatter implements stdout-based output formatting.
type Formatter struct {
	writer io.Writer
	format document.Format

	path    *color.Color
	inserts *color.Color
	deletes *color.Color
}

// New creates a new stdout formatter that outputs to stdout.
// Colours are used only when stdout is a terminal and noColor is unset.
func New(format document.Format, noColor bool) formatter.Formatter {
	colored := !noColor && isatty.IsTerminal(os.Stdout.Fd())
	return NewWithWriter(os.Stdout, format, colored)
}

// NewWithWriter creates a new stdout formatter with a custom writer.
// This is useful for testing or redirecting output to files.
func NewWithWriter(writer io.Writer, format document.Format, colored bool) formatter.Formatter {
	f := &Formatter{
		writer:  writer,
		format:  format,
		path:    color.New(color.FgCyan),
		inserts: color.New(color.FgGreen),
		deletes: color.New(color.FgRed),
	}

	for _, c := range []*color.Color{f.path, f.inserts, f.deletes} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return f
}

func (f *Formatter) Value(v tree.Value) error {
	data, err := document.Encode(v, f.format)
	if err != nil {
		return err
	}
	_, err = f.writer.Write(data)
	return err
}

func (f *Formatter) Values(vs []tree.Value) error {
	return f.Value(tree.FromSlice(vs...))
}

// Matches prints one match per line: the path, a tab, then the value as compact JSON.
func (f *Formatter) Matches(ms []search.Match) error {
	for _, m := range ms {
		data, err := m.Value.MarshalJSON()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(f.writer, "%s\t%s\n", f.path.Sprint(m.Path), data); err != nil {
			return err
		}
	}
	return nil
}

func (f *Formatter) Count(n int) error {
	_, err := fmt.Fprintln(f.writer, n)
	return err
}

func (f *Formatter) Bool(b bool) error {
	_, err := fmt.Fprintln(f.writer, b)
	return err
}

func (f *Formatter) Diff(before, after []byte) error {
	dmp := diffpatch.New()
	from, to, lines := dmp.DiffLinesToChars(string(before), string(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(from, to, false), lines)

	for _, d := range diffs {
		prefix, c := "  ", (*color.Color)(nil)
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix, c = "+ ", f.inserts
		case diffpatch.DiffDelete:
			prefix, c = "- ", f.deletes
		}

		for _, line := range splitLines(d.Text) {
			text := prefix + line
			if c != nil {
				text = c.Sprint(text)
			}
			if _, err := fmt.Fprintln(f.writer, text); err != nil {
				return err
			}
		}
	}

	return nil
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
