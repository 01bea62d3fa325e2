package query

import (
	"errors"
	"testing"

	"github.com/jacoelho/jtree/internal/tree"
)

func sampleTree() tree.Value {
	product := func(id, name string, price int) tree.Value {
		return tree.FromKeyVals(
			tree.KV("id", tree.FromString(id)),
			tree.KV("name", tree.FromString(name)),
			tree.KV("price", tree.FromInt(price)),
		)
	}

	return tree.FromKeyVals(tree.KV("lobs", tree.FromSlice(
		tree.FromKeyVals(tree.KV("name", tree.FromString("Retail")), tree.KV("products", tree.FromSlice(
			product("P-1001", "PolicyPro", 100),
			product("P-1002", "ClaimTrack", 250),
		))),
	)))
}

func TestSelect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr string
		want []tree.Value
	}{
		{
			name: "child path",
			expr: "$.lobs[0].name",
			want: []tree.Value{tree.FromString("Retail")},
		},
		{
			name: "descendant ids",
			expr: "$..id",
			want: []tree.Value{tree.FromString("P-1001"), tree.FromString("P-1002")},
		},
		{
			name: "filter",
			expr: "$.lobs[*].products[?@.price > 200].name",
			want: []tree.Value{tree.FromString("ClaimTrack")},
		},
		{
			name: "no match",
			expr: "$.missing",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Select(sampleTree(), tt.expr)
			if err != nil {
				t.Fatalf("Select(%q) error = %v", tt.expr, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Select(%q) = %v, want %v", tt.expr, got, tt.want)
			}
			for i := range got {
				if !tree.Equal(got[i], tt.want[i]) {
					t.Fatalf("Select(%q)[%d] = %v, want %v", tt.expr, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSelectReturnsCopies(t *testing.T) {
	t.Parallel()

	root := sampleTree()
	got, err := Select(root, "$.lobs[0]")
	if err != nil || len(got) != 1 {
		t.Fatalf("Select() = (%v, %v), want one result", got, err)
	}

	got[0].Object().Set("name", tree.FromString("Changed"))

	name, err := tree.Resolve(root, tree.ParsePath("lobs.0.name"))
	if err != nil || !tree.Equal(name, tree.FromString("Retail")) {
		t.Fatalf("root name = (%v, %v), want Retail", name, err)
	}
}

func TestSelectKeepsMemberOrder(t *testing.T) {
	t.Parallel()

	root := tree.FromKeyVals(tree.KV("items", tree.FromSlice(
		tree.FromKeyVals(tree.KV("z", tree.FromInt(1)), tree.KV("a", tree.FromInt(2))),
	)))

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{name: "object", source: "$.items[0]", want: `{"z":1,"a":2}`},
		{name: "wrapped", source: "$.items", want: `[{"z":1,"a":2}]`},
		{name: "root", source: "$", want: `{"items":[{"z":1,"a":2}]}`},
		{name: "negative_index", source: "$.items[-1]", want: `{"z":1,"a":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Select(root, tt.source)
			if err != nil || len(got) != 1 {
				t.Fatalf("Select(%q) = (%v, %v), want one result", tt.source, got, err)
			}
			if got[0].String() != tt.want {
				t.Fatalf("Select(%q) = %s, want %s", tt.source, got[0], tt.want)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	if _, err := Compile(""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Compile(\"\") error = %v, want ErrInvalidInput", err)
	}
	if _, err := Compile("$[?"); !errors.Is(err, ErrSyntax) {
		t.Fatalf("Compile(\"$[?\") error = %v, want ErrSyntax", err)
	}
}
