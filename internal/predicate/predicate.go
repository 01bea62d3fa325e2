// Package predicate builds search predicates from operator expressions and
// from expr-lang source text.
package predicate

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/jacoelho/jtree/internal/number"
	"github.com/jacoelho/jtree/internal/tree"
)

var (
	ErrInvalidInput = errors.New("invalid predicate input")
	ErrUnsupported  = errors.New("unsupported predicate operation")
)

type Operator string

const (
	OpEquals             Operator = "equals"
	OpNotEquals          Operator = "not_equals"
	OpContains           Operator = "contains"
	OpRegex              Operator = "regex"
	OpExists             Operator = "exists"
	OpLength             Operator = "length"
	OpGreaterThan        Operator = "greater_than"
	OpLessThan           Operator = "less_than"
	OpGreaterThanOrEqual Operator = "greater_than_or_equal"
	OpLessThanOrEqual    Operator = "less_than_or_equal"
	OpStartsWith         Operator = "starts_with"
	OpEndsWith           Operator = "ends_with"
	OpNotContains        Operator = "not_contains"
	OpIn                 Operator = "in"
	OpTypeIs             Operator = "type_is"
)

// Expr compares a node against Value using Op.
type Expr struct {
	Op       Operator
	Value    tree.Value
	HasValue bool
}

var supportedOperatorSet = map[Operator]struct{}{
	OpEquals:             {},
	OpNotEquals:          {},
	OpContains:           {},
	OpRegex:              {},
	OpExists:             {},
	OpLength:             {},
	OpGreaterThan:        {},
	OpLessThan:           {},
	OpGreaterThanOrEqual: {},
	OpLessThanOrEqual:    {},
	OpStartsWith:         {},
	OpEndsWith:           {},
	OpNotContains:        {},
	OpIn:                 {},
	OpTypeIs:             {},
}

type regexCompiler interface {
	Compile(pattern string) (*regexp.Regexp, error)
}

type cachedRegexCompiler struct {
	mu       sync.RWMutex
	patterns map[string]*regexp.Regexp
}

func newCachedRegexCompiler() *cachedRegexCompiler {
	return &cachedRegexCompiler{
		patterns: make(map[string]*regexp.Regexp),
	}
}

func (c *cachedRegexCompiler) Compile(pattern string) (*regexp.Regexp, error) {
	c.mu.RLock()
	if compiled, ok := c.patterns[pattern]; ok {
		c.mu.RUnlock()
		return compiled, nil
	}
	c.mu.RUnlock()

	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid regex %q: %v", ErrInvalidInput, pattern, err)
	}

	c.mu.Lock()
	c.patterns[pattern] = compiled
	c.mu.Unlock()

	return compiled, nil
}

type operationFunc func(actual tree.Value, expected tree.Value) (bool, error)

// Evaluator applies operator expressions to tree nodes.
type Evaluator struct {
	regexCompiler regexCompiler
	operations    map[Operator]operationFunc
}

func NewEvaluator() *Evaluator {
	return newEvaluator(newCachedRegexCompiler())
}

func newEvaluator(compiler regexCompiler) *Evaluator {
	e := &Evaluator{
		regexCompiler: compiler,
	}

	e.operations = map[Operator]operationFunc{
		OpEquals: func(actual, expected tree.Value) (bool, error) {
			return tree.Equal(actual, expected), nil
		},
		OpNotEquals: func(actual, expected tree.Value) (bool, error) {
			return !tree.Equal(actual, expected), nil
		},
		OpContains: evaluateContains,
		OpRegex:    e.evaluateRegex,
		OpExists: func(actual, _ tree.Value) (bool, error) {
			return evaluateExists(actual), nil
		},
		OpLength:             evaluateLength,
		OpGreaterThan:        evaluateGreaterThan,
		OpLessThan:           evaluateLessThan,
		OpGreaterThanOrEqual: evaluateGreaterThanOrEqual,
		OpLessThanOrEqual:    evaluateLessThanOrEqual,
		OpStartsWith:         evaluateStartsWith,
		OpEndsWith:           evaluateEndsWith,
		OpNotContains:        evaluateNotContains,
		OpIn:                 evaluateIn,
		OpTypeIs:             evaluateTypeIs,
	}

	return e
}

// Operators returns every supported operator, sorted by name.
func Operators() []Operator {
	ops := slices.Collect(maps.Keys(supportedOperatorSet))
	slices.Sort(ops)
	return ops
}

func isSupportedOperator(op Operator) bool {
	_, ok := supportedOperatorSet[op]
	return ok
}

func ParseOperator(input string) (Operator, error) {
	op := Operator(input)
	if isSupportedOperator(op) {
		return op, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupported, input)
}

func ValidateExpr(expr Expr) error {
	if !isSupportedOperator(expr.Op) {
		return fmt.Errorf("%w: %q", ErrUnsupported, expr.Op)
	}

	if expr.Op == OpExists {
		if expr.HasValue {
			return fmt.Errorf("%w: operation %q does not accept a value", ErrInvalidInput, expr.Op)
		}
		return nil
	}

	if !expr.HasValue {
		return fmt.Errorf("%w: operation %q requires a value", ErrInvalidInput, expr.Op)
	}

	switch expr.Op {
	case OpTypeIs:
		if _, err := parseTypeValue(expr.Value); err != nil {
			return err
		}
	case OpLength:
		if _, err := requireLength(expr.Value); err != nil {
			return err
		}
	case OpIn:
		if expr.Value.Kind() != tree.ArrayKind {
			return fmt.Errorf("%w: %q requires array expected value, got %s", ErrInvalidInput, OpIn, expr.Value.Kind())
		}
	}

	return nil
}

func (e *Evaluator) Evaluate(expr Expr, actual tree.Value) (bool, error) {
	if err := ValidateExpr(expr); err != nil {
		return false, err
	}

	opFunc, ok := e.operations[expr.Op]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnsupported, expr.Op)
	}

	return opFunc(actual, expr.Value)
}

// Predicate validates expr once and returns a total predicate: nodes the
// operation cannot be applied to do not match.
func (e *Evaluator) Predicate(expr Expr) (func(tree.Value) bool, error) {
	if err := ValidateExpr(expr); err != nil {
		return nil, err
	}
	if expr.Op == OpRegex {
		pattern, err := requireStringExpected(OpRegex, expr.Value)
		if err != nil {
			return nil, err
		}
		if _, err := e.regexCompiler.Compile(pattern); err != nil {
			return nil, err
		}
	}

	return func(actual tree.Value) bool {
		ok, err := e.Evaluate(expr, actual)
		return err == nil && ok
	}, nil
}

// Field applies pred to the node found at path relative to the tested node.
// Nodes where path does not resolve do not match.
func Field(path tree.Path, pred func(tree.Value) bool) func(tree.Value) bool {
	return func(node tree.Value) bool {
		target, err := tree.Walk(node, path)
		if err != nil {
			return false
		}
		return pred(target)
	}
}

func evaluateContains(actual, expected tree.Value) (bool, error) {
	if arr := actual.Array(); arr != nil {
		for _, item := range arr.All() {
			if tree.Equal(item, expected) {
				return true, nil
			}
		}
		return false, nil
	}

	return evaluateStringComparison(OpContains, actual, expected, strings.Contains)
}

func (e *Evaluator) evaluateRegex(actual, expected tree.Value) (bool, error) {
	actualString, err := requireStringActual(OpRegex, actual)
	if err != nil {
		return false, err
	}
	pattern, err := requireStringExpected(OpRegex, expected)
	if err != nil {
		return false, err
	}

	regex, err := e.regexCompiler.Compile(pattern)
	if err != nil {
		return false, err
	}

	return regex.MatchString(actualString), nil
}

func evaluateExists(actual tree.Value) bool {
	switch actual.Kind() {
	case tree.NullKind:
		return false
	case tree.StringKind, tree.ArrayKind, tree.ObjectKind:
		return actual.Len() > 0
	default:
		return true
	}
}

func evaluateLength(actual, expected tree.Value) (bool, error) {
	expectedLength, err := requireLength(expected)
	if err != nil {
		return false, err
	}

	switch actual.Kind() {
	case tree.StringKind:
		s, _ := actual.AsString()
		return utf8.RuneCountInString(s) == expectedLength, nil
	case tree.ArrayKind, tree.ObjectKind:
		return actual.Len() == expectedLength, nil
	default:
		return false, fmt.Errorf("%w: %q requires string/array/object actual value, got %s", ErrInvalidInput, OpLength, actual.Kind())
	}
}

func requireLength(expected tree.Value) (int, error) {
	n, ok := expected.AsNumber()
	if !ok {
		return 0, fmt.Errorf("%w: %q requires integer expected value, got %s", ErrInvalidInput, OpLength, expected.Kind())
	}
	length, ok := number.Integral(n)
	if !ok || length < 0 {
		return 0, fmt.Errorf("%w: %q requires non-negative integer expected value, got %v", ErrInvalidInput, OpLength, n)
	}
	return length, nil
}

func evaluateGreaterThan(actual, expected tree.Value) (bool, error) {
	return evaluateNumericComparison(OpGreaterThan, actual, expected, func(a, b float64) bool { return a > b })
}

func evaluateLessThan(actual, expected tree.Value) (bool, error) {
	return evaluateNumericComparison(OpLessThan, actual, expected, func(a, b float64) bool { return a < b })
}

func evaluateGreaterThanOrEqual(actual, expected tree.Value) (bool, error) {
	return evaluateNumericComparison(OpGreaterThanOrEqual, actual, expected, func(a, b float64) bool { return a >= b })
}

func evaluateLessThanOrEqual(actual, expected tree.Value) (bool, error) {
	return evaluateNumericComparison(OpLessThanOrEqual, actual, expected, func(a, b float64) bool { return a <= b })
}

func evaluateNumericComparison(op Operator, actual, expected tree.Value, compare func(float64, float64) bool) (bool, error) {
	actualNumber, actualIsNumber := actual.AsNumber()
	expectedNumber, expectedIsNumber := expected.AsNumber()
	if !actualIsNumber || !expectedIsNumber {
		return false, fmt.Errorf("%w: %q requires numeric values, got %s and %s", ErrInvalidInput, op, actual.Kind(), expected.Kind())
	}

	return compare(actualNumber, expectedNumber), nil
}

func evaluateStartsWith(actual, expected tree.Value) (bool, error) {
	return evaluateStringComparison(OpStartsWith, actual, expected, strings.HasPrefix)
}

func evaluateEndsWith(actual, expected tree.Value) (bool, error) {
	return evaluateStringComparison(OpEndsWith, actual, expected, strings.HasSuffix)
}

func evaluateNotContains(actual, expected tree.Value) (bool, error) {
	found, err := evaluateContains(actual, expected)
	if err != nil {
		return false, err
	}
	return !found, nil
}

func evaluateIn(actual, expected tree.Value) (bool, error) {
	arr := expected.Array()
	if arr == nil {
		return false, fmt.Errorf("%w: %q requires array expected value, got %s", ErrInvalidInput, OpIn, expected.Kind())
	}

	for _, item := range arr.All() {
		if tree.Equal(actual, item) {
			return true, nil
		}
	}

	return false, nil
}

func evaluateTypeIs(actual, expected tree.Value) (bool, error) {
	expectedKind, err := parseTypeValue(expected)
	if err != nil {
		return false, err
	}

	return actual.Kind() == expectedKind, nil
}

func parseTypeValue(value tree.Value) (tree.Kind, error) {
	typeValue, ok := value.AsString()
	if !ok {
		return tree.NullKind, fmt.Errorf("%w: %q requires string expected value, got %s", ErrInvalidInput, OpTypeIs, value.Kind())
	}

	kind, ok := tree.ParseKind(strings.ToLower(strings.TrimSpace(typeValue)))
	if !ok {
		return tree.NullKind, fmt.Errorf("%w: %q requires one of array, object, string, number, boolean, null, got %q", ErrInvalidInput, OpTypeIs, typeValue)
	}

	return kind, nil
}

func evaluateStringComparison(op Operator, actual, expected tree.Value, compare func(actual string, expected string) bool) (bool, error) {
	actualString, err := requireStringActual(op, actual)
	if err != nil {
		return false, err
	}

	expectedString, err := requireStringExpected(op, expected)
	if err != nil {
		return false, err
	}

	return compare(actualString, expectedString), nil
}

func requireStringActual(op Operator, actual tree.Value) (string, error) {
	actualString, ok := actual.AsString()
	if !ok {
		return "", fmt.Errorf("%w: %q requires string actual value, got %s", ErrInvalidInput, op, actual.Kind())
	}

	return actualString, nil
}

func requireStringExpected(op Operator, expected tree.Value) (string, error) {
	expectedString, ok := expected.AsString()
	if !ok {
		return "", fmt.Errorf("%w: %q requires string expected value, got %s", ErrInvalidInput, op, expected.Kind())
	}

	return expectedString, nil
}
