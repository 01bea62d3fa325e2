package predicate

import (
	"errors"
	"testing"

	"github.com/jacoelho/jtree/internal/tree"
)

func TestParseOperator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "supported", input: "equals"},
		{name: "supported_type_is", input: "type_is"},
		{name: "unsupported", input: "bad", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseOperator(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOperator() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateExpr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		expr    Expr
		wantErr error
	}{
		{name: "exists_without_value", expr: Expr{Op: OpExists}},
		{name: "exists_with_value", expr: Expr{Op: OpExists, Value: tree.FromBool(true), HasValue: true}, wantErr: ErrInvalidInput},
		{name: "equals_without_value", expr: Expr{Op: OpEquals}, wantErr: ErrInvalidInput},
		{name: "equals_with_value", expr: Expr{Op: OpEquals, Value: tree.FromString("ok"), HasValue: true}},
		{name: "type_is_valid", expr: Expr{Op: OpTypeIs, Value: tree.FromString("Array"), HasValue: true}},
		{name: "type_is_invalid_value", expr: Expr{Op: OpTypeIs, Value: tree.FromString("list"), HasValue: true}, wantErr: ErrInvalidInput},
		{name: "length_fraction", expr: Expr{Op: OpLength, Value: tree.FromFloat(1.5), HasValue: true}, wantErr: ErrInvalidInput},
		{name: "in_scalar", expr: Expr{Op: OpIn, Value: tree.FromString("x"), HasValue: true}, wantErr: ErrInvalidInput},
		{name: "unknown_operator", expr: Expr{Op: "near"}, wantErr: ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateExpr(tt.expr)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("ValidateExpr() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ValidateExpr() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	str := func(s string) tree.Value { return tree.FromString(s) }
	num := func(f float64) tree.Value { return tree.FromFloat(f) }

	tests := []struct {
		name     string
		op       Operator
		actual   tree.Value
		expected tree.Value
		want     bool
		wantErr  bool
	}{
		{name: "equals_string", op: OpEquals, actual: str("USA"), expected: str("USA"), want: true},
		{name: "equals_number", op: OpEquals, actual: tree.FromInt(2), expected: num(2), want: true},
		{name: "equals_object", op: OpEquals,
			actual:   tree.FromKeyVals(tree.KV("a", tree.FromInt(1)), tree.KV("b", tree.Null())),
			expected: tree.FromKeyVals(tree.KV("b", tree.Null()), tree.KV("a", tree.FromInt(1))),
			want:     true},
		{name: "not_equals", op: OpNotEquals, actual: str("a"), expected: str("b"), want: true},
		{name: "contains_string", op: OpContains, actual: str("Commercial Lines"), expected: str("Commercial"), want: true},
		{name: "contains_array", op: OpContains, actual: tree.FromSlice(str("auth"), str("dashboard")), expected: str("dashboard"), want: true},
		{name: "contains_number_actual", op: OpContains, actual: num(1), expected: str("1"), wantErr: true},
		{name: "not_contains", op: OpNotContains, actual: str("Retail"), expected: str("Commercial"), want: true},
		{name: "regex", op: OpRegex, actual: str("P-1001"), expected: str(`^P-\d+$`), want: true},
		{name: "regex_invalid", op: OpRegex, actual: str("P-1001"), expected: str(`(`), wantErr: true},
		{name: "length_string_runes", op: OpLength, actual: str("héllo"), expected: num(5), want: true},
		{name: "length_array", op: OpLength, actual: tree.FromSlice(num(1), num(2)), expected: num(2), want: true},
		{name: "length_number", op: OpLength, actual: num(12), expected: num(2), wantErr: true},
		{name: "greater_than", op: OpGreaterThan, actual: num(3), expected: num(2), want: true},
		{name: "less_than", op: OpLessThan, actual: num(3), expected: num(2), want: false},
		{name: "greater_than_or_equal", op: OpGreaterThanOrEqual, actual: num(2), expected: num(2), want: true},
		{name: "less_than_or_equal", op: OpLessThanOrEqual, actual: num(1), expected: num(2), want: true},
		{name: "numeric_string", op: OpGreaterThan, actual: str("3"), expected: num(2), wantErr: true},
		{name: "starts_with", op: OpStartsWith, actual: str("P-1001"), expected: str("P-1"), want: true},
		{name: "ends_with", op: OpEndsWith, actual: str("P-1001"), expected: str("01"), want: true},
		{name: "in", op: OpIn, actual: str("dev"), expected: tree.FromSlice(str("dev"), str("prod")), want: true},
		{name: "not_in", op: OpIn, actual: str("qa"), expected: tree.FromSlice(str("dev"), str("prod")), want: false},
		{name: "type_is_object", op: OpTypeIs, actual: tree.NewObject(), expected: str("object"), want: true},
		{name: "type_is_null", op: OpTypeIs, actual: tree.Null(), expected: str("null"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NewEvaluator().Evaluate(Expr{Op: tt.op, Value: tt.expected, HasValue: true}, tt.actual)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Evaluate(%s, %v) error = %v, wantErr %v", tt.op, tt.actual, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("Evaluate(%s, %v) = %v, want %v", tt.op, tt.actual, got, tt.want)
			}
		})
	}
}

func TestEvaluateExists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		actual tree.Value
		want   bool
	}{
		{actual: tree.Null(), want: false},
		{actual: tree.FromString(""), want: false},
		{actual: tree.NewArray(), want: false},
		{actual: tree.FromBool(false), want: true},
		{actual: tree.FromInt(0), want: true},
		{actual: tree.FromKeyVals(tree.KV("a", tree.Null())), want: true},
	}

	for _, tt := range tests {
		got, err := NewEvaluator().Evaluate(Expr{Op: OpExists}, tt.actual)
		if err != nil {
			t.Fatalf("Evaluate(exists, %v) error = %v", tt.actual, err)
		}
		if got != tt.want {
			t.Fatalf("Evaluate(exists, %v) = %v, want %v", tt.actual, got, tt.want)
		}
	}
}

func TestPredicate(t *testing.T) {
	t.Parallel()

	e := NewEvaluator()

	pred, err := e.Predicate(Expr{Op: OpStartsWith, Value: tree.FromString("P-"), HasValue: true})
	if err != nil {
		t.Fatalf("Predicate() error = %v", err)
	}
	if !pred(tree.FromString("P-1001")) {
		t.Fatal("pred(\"P-1001\") = false, want true")
	}
	if pred(tree.FromInt(7)) {
		t.Fatal("pred(7) = true, want false for inapplicable node")
	}

	if _, err := e.Predicate(Expr{Op: OpRegex, Value: tree.FromString("("), HasValue: true}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Predicate(bad regex) error = %v, want ErrInvalidInput", err)
	}
	if _, err := e.Predicate(Expr{Op: OpEquals}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Predicate(no value) error = %v, want ErrInvalidInput", err)
	}
}

func TestField(t *testing.T) {
	t.Parallel()

	equalsID, err := NewEvaluator().Predicate(Expr{Op: OpEquals, Value: tree.FromString("P-1002"), HasValue: true})
	if err != nil {
		t.Fatalf("Predicate() error = %v", err)
	}
	pred := Field(tree.ParsePath("id"), equalsID)

	product := tree.FromKeyVals(tree.KV("id", tree.FromString("P-1002")))
	if !pred(product) {
		t.Fatalf("Field(id)(%v) = false, want true", product)
	}
	if pred(tree.FromKeyVals(tree.KV("name", tree.FromString("P-1002")))) {
		t.Fatal("Field(id) matched a node without id")
	}
	if pred(tree.FromString("P-1002")) {
		t.Fatal("Field(id) matched a scalar")
	}
}
