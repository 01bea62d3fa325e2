// Package command executes one jtree invocation against a document file.
package command

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jacoelho/jtree/internal/accessor"
	"github.com/jacoelho/jtree/internal/config"
	"github.com/jacoelho/jtree/internal/document"
	"github.com/jacoelho/jtree/internal/exit"
	"github.com/jacoelho/jtree/internal/formatter"
	"github.com/jacoelho/jtree/internal/formatter/stdout"
	"github.com/jacoelho/jtree/internal/predicate"
	"github.com/jacoelho/jtree/internal/query"
	"github.com/jacoelho/jtree/internal/search"
	"github.com/jacoelho/jtree/internal/template"
	"github.com/jacoelho/jtree/internal/tree"
)

// Runner holds a loaded document and everything a command needs to act on it.
type Runner struct {
	config    *config.Config
	formatter formatter.Formatter
	logger    *slog.Logger
	stderr    io.Writer

	root   tree.Value
	format document.Format
	output document.Format

	path     tree.Path
	value    tree.Value
	fallback *tree.Value
	pred     search.Predicate
	query    *query.Query
}

// New loads the document named by cfg and prepares the command's inputs.
// If preparation fails, returns nil runner and exit result.
func New(cfg *config.Config) (*Runner, *exit.Result) {
	output, err := outputFormat(cfg)
	if err != nil {
		return nil, exit.Errorf("Error: %v", err)
	}

	r, err := newRunner(cfg, output, stdout.New(output, cfg.NoColor), os.Stderr)
	if err != nil {
		return nil, exit.Errorf("Error: %v", err)
	}
	return r, nil
}

// newRunner prepares a runner that renders through f; output must be the
// format f renders documents in.
func newRunner(cfg *config.Config, output document.Format, f formatter.Formatter, stderr io.Writer) (*Runner, error) {
	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	root, format, err := document.Load(cfg.File)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded document", "file", cfg.File, "format", format, "kind", root.Kind())

	r := &Runner{
		config:    cfg,
		formatter: f,
		logger:    logger,
		stderr:    stderr,
		root:      root,
		format:    format,
		output:    output,
		path:      tree.ParsePath(cfg.Path),
	}

	if cfg.Value != "" {
		if r.value, err = r.literal("--value", cfg.Value); err != nil {
			return nil, err
		}
	}

	if cfg.HasDefault {
		fallback, err := r.literal("--default", cfg.Default)
		if err != nil {
			return nil, err
		}
		r.fallback = &fallback
	}

	if cfg.UsesPredicate() {
		if r.pred, err = r.predicate(); err != nil {
			return nil, err
		}
	}

	if cfg.Command == config.CommandSelect {
		if r.query, err = query.Compile(cfg.JSONPath); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func outputFormat(cfg *config.Config) (document.Format, error) {
	if cfg.Format == "" {
		return document.FormatFromPath(cfg.File), nil
	}
	return document.ParseFormat(cfg.Format)
}

// literal renders text as a template and decodes the result as JSON.
func (r *Runner) literal(option, text string) (tree.Value, error) {
	rendered, err := template.Apply(text, r.config.Variables)
	if err != nil {
		return tree.Value{}, fmt.Errorf("%s: %w", option, err)
	}

	v, err := document.DecodeJSON([]byte(rendered))
	if err != nil {
		return tree.Value{}, fmt.Errorf("%s: %w", option, err)
	}

	r.logger.Debug("decoded literal", "option", option, "kind", v.Kind())
	return v, nil
}

func (r *Runner) predicate() (search.Predicate, error) {
	if r.config.Where != "" {
		pred, err := predicate.Compile(r.config.Where)
		if err != nil {
			return nil, fmt.Errorf("--where: %w", err)
		}
		return pred, nil
	}

	op, err := predicate.ParseOperator(r.config.Op)
	if err != nil {
		return nil, fmt.Errorf("--op: %w", err)
	}

	expr := predicate.Expr{Op: op}
	if r.config.HasExpect {
		// Bare words compare as strings.
		expected, err := r.literal("--expect", r.config.Expect)
		if err != nil {
			expected = tree.FromString(r.config.Expect)
		}
		expr.Value = expected
		expr.HasValue = true
	}

	pred, err := predicate.NewEvaluator().Predicate(expr)
	if err != nil {
		return nil, fmt.Errorf("--op: %w", err)
	}

	if r.config.Field != "" {
		pred = predicate.Field(tree.ParsePath(r.config.Field), pred)
	}
	return pred, nil
}

// Run executes the configured command and returns the process exit code.
func (r *Runner) Run() int {
	start := time.Now()
	defer func() {
		r.logger.Debug("command finished", "command", r.config.Command, "duration", time.Since(start))
	}()

	switch r.config.Command {
	case config.CommandCreate:
		return r.mutate(func() error { return accessor.Create(r.root, r.path, r.value) })
	case config.CommandUpdate:
		return r.mutate(func() error { return accessor.Update(r.root, r.path, r.value) })
	case config.CommandDelete:
		return r.mutate(func() error { return accessor.Delete(r.root, r.path) })

	case config.CommandRead:
		if r.fallback != nil {
			return r.done(r.formatter.Value(accessor.ReadOr(r.root, r.path, *r.fallback)))
		}
		v, err := accessor.Read(r.root, r.path)
		if err != nil {
			return r.fail(err)
		}
		return r.done(r.formatter.Value(v))

	case config.CommandFindKey:
		matches := search.FindByKey(r.root, r.config.Key)
		r.logger.Debug("search complete", "matches", len(matches))
		return r.done(r.formatter.Matches(matches))

	case config.CommandFindValue:
		matches := search.FindByValue(r.root, r.pred)
		r.logger.Debug("search complete", "matches", len(matches))
		return r.done(r.formatter.Matches(matches))

	case config.CommandFilter:
		items, err := search.FilterArray(r.root, r.path, r.pred)
		if err != nil {
			return r.fail(err)
		}
		return r.done(r.formatter.Values(items))

	case config.CommandFirst:
		m, err := search.FindFirst(r.root, r.pred)
		if err != nil {
			return r.fail(err)
		}
		return r.done(r.formatter.Matches([]search.Match{m}))

	case config.CommandExists:
		var found bool
		if r.pred == nil {
			found = accessor.Has(r.root, r.path)
		} else {
			found = search.Exists(r.root, r.pred)
		}
		if err := r.formatter.Bool(found); err != nil {
			return r.fail(err)
		}
		if !found {
			return exit.CodeFailure
		}
		return exit.CodeSuccess

	case config.CommandCount:
		return r.done(r.formatter.Count(search.Count(r.root, r.pred)))

	case config.CommandSelect:
		items, err := r.query.Select(r.root)
		if err != nil {
			return r.fail(err)
		}
		return r.done(r.formatter.Values(items))
	}

	return r.fail(fmt.Errorf("%w: %q", config.ErrUnknownCommand, r.config.Command))
}

// mutate applies change to the document. The result is written back with
// --write, shown as a diff with --diff, and printed otherwise.
func (r *Runner) mutate(change func() error) int {
	var before []byte
	if r.config.Diff {
		var err error
		if before, err = document.Encode(r.root, r.output); err != nil {
			return r.fail(err)
		}
	}

	if err := change(); err != nil {
		return r.fail(err)
	}
	r.logger.Debug("document modified", "command", r.config.Command, "path", r.path.String())

	if r.config.Write {
		if err := document.Save(r.config.File, r.root, r.format); err != nil {
			return r.fail(err)
		}
		r.logger.Debug("document saved", "file", r.config.File, "format", r.format)
	}

	switch {
	case r.config.Diff:
		after, err := document.Encode(r.root, r.output)
		if err != nil {
			return r.fail(err)
		}
		return r.done(r.formatter.Diff(before, after))
	case r.config.Write:
		return exit.CodeSuccess
	default:
		return r.done(r.formatter.Value(r.root))
	}
}

func (r *Runner) done(err error) int {
	if err != nil {
		return r.fail(err)
	}
	return exit.CodeSuccess
}

func (r *Runner) fail(err error) int {
	var pathErr *tree.PathError
	if errors.As(err, &pathErr) {
		r.logger.Debug("path error", "path", pathErr.Path.String(), "cause", pathErr.Err)
	}

	result := exit.Errorf("Error: %v", err)
	result.Output = r.stderr
	result.Print()
	return result.ExitCode
}
