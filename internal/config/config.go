package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/jacoelho/jtree/internal/document"
	"github.com/jacoelho/jtree/internal/exit"
	"github.com/jacoelho/jtree/internal/predicate"
)

var (
	ErrNoArguments           = errors.New("no arguments provided")
	ErrUnknownCommand        = errors.New("unknown command")
	ErrNoDocument            = errors.New("no document file specified")
	ErrTooManyDocuments      = errors.New("only one document file may be specified")
	ErrMissingOption         = errors.New("missing required option")
	ErrConflictingOptions    = errors.New("conflicting options")
	ErrInvalidVariableFormat = errors.New("variable must be in format name=value")
	ErrEmptyVariableName     = errors.New("variable name cannot be empty")
)

type Command string

const (
	CommandCreate    Command = "create"
	CommandRead      Command = "read"
	CommandUpdate    Command = "update"
	CommandDelete    Command = "delete"
	CommandFindKey   Command = "find-key"
	CommandFindValue Command = "find-value"
	CommandFilter    Command = "filter"
	CommandFirst     Command = "first"
	CommandExists    Command = "exists"
	CommandCount     Command = "count"
	CommandSelect    Command = "select"
)

var commands = []Command{
	CommandCreate, CommandRead, CommandUpdate, CommandDelete,
	CommandFindKey, CommandFindValue, CommandFilter, CommandFirst,
	CommandExists, CommandCount, CommandSelect,
}

// Mutates reports whether the command changes the document.
func (c Command) Mutates() bool {
	return c == CommandCreate || c == CommandUpdate || c == CommandDelete
}

// NeedsPredicate reports whether the command selects nodes with --where or --op.
func (c Command) NeedsPredicate() bool {
	switch c {
	case CommandFindValue, CommandFilter, CommandFirst, CommandExists, CommandCount:
		return true
	default:
		return false
	}
}

func parseCommand(name string) (Command, error) {
	c := Command(name)
	if slices.Contains(commands, c) {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

// Config represents the complete configuration for one jtree invocation.
type Config struct {
	Command Command
	File    string

	// Addressing
	Path     string
	Key      string
	JSONPath string

	// Values are template-rendered and decoded as JSON
	Value      string
	Default    string
	HasDefault bool
	Variables  map[string]any

	// Predicates: Where takes precedence over Op
	Where     string
	Op        string
	Expect    string
	HasExpect bool
	Field     string

	// Output
	Format  string // empty keeps the input format
	Write   bool
	Diff    bool
	NoColor bool
	Debug   bool
}

// UsesPredicate reports whether this invocation selects nodes with --where or
// --op. exists with --path checks the path instead.
func (c *Config) UsesPredicate() bool {
	if c.Command == CommandExists && c.Path != "" {
		return false
	}
	return c.Command.NeedsPredicate()
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.File == "" {
		return ErrNoDocument
	}
	if _, err := os.Stat(c.File); err != nil {
		return fmt.Errorf("document %s not found: %w", c.File, err)
	}

	switch c.Command {
	case CommandCreate, CommandUpdate:
		if c.Path == "" {
			return fmt.Errorf("%w: %s requires --path", ErrMissingOption, c.Command)
		}
		if c.Value == "" {
			return fmt.Errorf("%w: %s requires --value", ErrMissingOption, c.Command)
		}
	case CommandRead, CommandDelete, CommandFilter:
		if c.Path == "" {
			return fmt.Errorf("%w: %s requires --path", ErrMissingOption, c.Command)
		}
	case CommandFindKey:
		if c.Key == "" {
			return fmt.Errorf("%w: %s requires --key", ErrMissingOption, c.Command)
		}
	case CommandSelect:
		if c.JSONPath == "" {
			return fmt.Errorf("%w: %s requires --jsonpath", ErrMissingOption, c.Command)
		}
	}

	if c.HasDefault && c.Command != CommandRead {
		return fmt.Errorf("%w: --default only applies to read", ErrConflictingOptions)
	}

	if c.Command == CommandExists && c.Path != "" && (c.Where != "" || c.Op != "") {
		return fmt.Errorf("%w: exists takes --path or a predicate, not both", ErrConflictingOptions)
	}

	if c.UsesPredicate() {
		if c.Where == "" && c.Op == "" {
			return fmt.Errorf("%w: %s requires --where or --op", ErrMissingOption, c.Command)
		}
		if c.Where != "" && c.Op != "" {
			return fmt.Errorf("%w: --where and --op cannot be combined", ErrConflictingOptions)
		}
		if c.Op != "" {
			if _, err := predicate.ParseOperator(c.Op); err != nil {
				return err
			}
		}
	}

	if c.Write && !c.Command.Mutates() {
		return fmt.Errorf("%w: --write only applies to create, update and delete", ErrConflictingOptions)
	}

	if c.Format != "" {
		if _, err := document.ParseFormat(c.Format); err != nil {
			return err
		}
	}

	return nil
}

// variablesFlag implements flag.Value for parsing multiple -variable flags.
type variablesFlag map[string]any

// String returns a string representation of the variables flag for flag.Value interface.
func (v variablesFlag) String() string {
	var pairs []string
	for k, val := range v {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, val))
	}
	slices.Sort(pairs)
	return strings.Join(pairs, ",")
}

// Set parses and stores a variable in name=value format for flag.Value interface.
func (v variablesFlag) Set(value string) error {
	parts := strings.SplitN(value, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("%w, got: %s", ErrInvalidVariableFormat, value)
	}

	name := strings.TrimSpace(parts[0])
	if name == "" {
		return ErrEmptyVariableName
	}

	v[name] = parts[1]
	return nil
}

// optionalString records whether the flag was given at all, so an empty
// value can be told apart from an absent one.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string {
	return o.value
}

func (o *optionalString) Set(value string) error {
	o.value = value
	o.set = true
	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) < 2 {
		return nil, exit.Usagef("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	switch args[1] {
	case "help", "-h", "-help", "--help":
		return nil, exit.Success(Usage())
	}

	command, err := parseCommand(args[1])
	if err != nil {
		return nil, exit.Usagef("Error: %v\n\n%s", err, Usage())
	}

	fs := flag.NewFlagSet(args[0]+" "+args[1], flag.ContinueOnError)

	// Suppress the default usage output since we handle it ourselves
	fs.Usage = func() {}
	// Suppress error output since we handle it ourselves
	fs.SetOutput(io.Discard)

	var (
		path         = fs.String("path", "", "Dotted path, e.g. countries.0.name")
		key          = fs.String("key", "", "Key name for find-key")
		jsonPath     = fs.String("jsonpath", "", "JSONPath expression for select")
		value        = fs.String("value", "", "JSON value for create and update (template-rendered)")
		where        = fs.String("where", "", "expr-lang predicate, e.g. 'kind == \"object\" && has(\"id\")'")
		op           = fs.String("op", "", "Predicate operator, e.g. equals, starts_with, type_is")
		expect       optionalString
		fallback     optionalString
		field        = fs.String("field", "", "Dotted path the --op predicate is applied to, relative to each node")
		format       = fs.String("format", "", "Output format for documents: json or yaml")
		write        = fs.Bool("write", false, "Write the modified document back to the file")
		diff         = fs.Bool("diff", false, "Show a diff of the document after create, update or delete")
		noColor      = fs.Bool("no-color", false, "Disable coloured output")
		debug        = fs.Bool("debug", false, "Enable debug logging")
		variables    = make(variablesFlag)
		variableFile = fs.String("variable-file", "", "Path to key=value file containing template variables")
	)

	fs.Var(&fallback, "default", "JSON value printed by read when --path does not resolve")
	fs.Var(&expect, "expect", "Value compared by --op; text that is not JSON is a string")
	fs.Var(variables, "variable", "Variable in format name=value (can be used multiple times)")

	files, err := parseInterleaved(fs, args[2:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Usagef("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	switch {
	case len(files) == 0:
		return nil, exit.Usagef("Error: %v\n\n%s", ErrNoDocument, Usage())
	case len(files) > 1:
		return nil, exit.Usagef("Error: %v\n\n%s", ErrTooManyDocuments, Usage())
	}

	// Command-line variables take precedence over file variables
	var finalVariables map[string]any
	if *variableFile != "" {
		fileVariables, err := loadVariableFile(*variableFile)
		if err != nil {
			return nil, exit.Usagef("Error: failed to load variable file: %v\n\n%s", err, Usage())
		}
		finalVariables = make(map[string]any)
		maps.Copy(finalVariables, fileVariables)
	}
	if len(variables) > 0 {
		if finalVariables == nil {
			finalVariables = make(map[string]any)
		}
		maps.Copy(finalVariables, variables)
	}

	config := &Config{
		Command:    command,
		File:       files[0],
		Path:       *path,
		Key:        *key,
		JSONPath:   *jsonPath,
		Value:      *value,
		Default:    fallback.value,
		HasDefault: fallback.set,
		Variables:  finalVariables,
		Where:      *where,
		Op:         *op,
		Expect:     expect.value,
		HasExpect:  expect.set,
		Field:      *field,
		Format:     *format,
		Write:      *write,
		Diff:       *diff,
		NoColor:    *noColor,
		Debug:      *debug,
	}

	if err := config.Validate(); err != nil {
		return nil, exit.Usagef("Error: %v\n\n%s", err, Usage())
	}

	return config, nil
}

// parseInterleaved allows flags before and after positional arguments.
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// loadVariableFile loads variables from a key=value format file.
// It supports comments (lines starting with #) and empty lines.
func loadVariableFile(filename string) (map[string]any, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	variables := make(map[string]any)
	for lineNum, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid format at line %d: %s (expected key=value)", lineNum+1, line)
		}

		key := strings.TrimSpace(parts[0])
		if key == "" {
			return nil, fmt.Errorf("empty key at line %d: %s", lineNum+1, line)
		}

		variables[key] = strings.TrimSpace(parts[1])
	}

	return variables, nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	ops := make([]string, 0, len(predicate.Operators()))
	for _, op := range predicate.Operators() {
		ops = append(ops, string(op))
	}

	return usage + "\n\nOperators:\n  " + strings.Join(ops, ", ")
}

const usage = `jtree - path-addressed JSON/YAML tree tool

Usage: jtree <command> [options] <file>

Commands:
  create      Set --value at --path, creating missing objects
  read        Print the value at --path, or --default when it does not resolve
  update      Overwrite the existing value at --path with --value
  delete      Remove the value at --path
  find-key    List every member named --key with its path
  find-value  List every node matching the predicate with its path
  filter      Print elements of the array at --path matching the predicate
  first       Print the first node matching the predicate
  exists      Exit 0 when --path resolves or a node matches the predicate, 1 otherwise
  count       Print how many nodes match the predicate
  select      Print nodes selected by a --jsonpath expression

Options:
  --path PATH             Dotted path, e.g. countries.0.lobs.1.name
  --key NAME              Key name for find-key
  --value JSON            JSON value for create and update; rendered as a template first
  --default JSON          Value read prints when --path does not resolve
  --where EXPR            expr-lang predicate over value, kind, has(path) and get(path)
  --op OP                 Predicate operator (equals, contains, regex, type_is, ...)
  --expect VALUE          Expected value for --op; text that is not JSON is a string
  --field PATH            Apply --op to this path below each node
  --jsonpath EXPR         JSONPath expression for select
  --format FORMAT         Output format for documents: json or yaml (default: input format)
  --write                 Save the modified document back to the file
  --diff                  Show the document diff after a modification
  --no-color              Disable coloured output
  --debug                 Enable debug logging on stderr
  --variable NAME=VALUE   Template variable (can be used multiple times)
  --variable-file FILE    Path to key=value file containing template variables
  -h, --help              Show this help message

Examples:
  jtree read --path countries.0.lobs.0.products.1.name data.json
  jtree read --path countries.0.code --default '"US"' data.json
  jtree exists --path countries.1.lobs.0 data.json
  jtree update --path countries.0.name --value '"United States"' --write data.json
  jtree create --path countries.0.lobs.0.products.2 --value '{"id":"{{uuid}}"}' --diff data.json
  jtree find-key --key id data.json
  jtree count --where 'kind == "object" && has("id")' data.json
  jtree filter --path countries.0.lobs --op starts_with --field name --expect '"Comm"' data.json
  jtree select --jsonpath '$..products[?@.id == "P-1001"].name' data.json`
}
