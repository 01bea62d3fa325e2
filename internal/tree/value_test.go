package tree

import (
	"errors"
	"testing"
)

func TestKindString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value Value
		want  string
	}{
		{value: Null(), want: "null"},
		{value: FromBool(true), want: "boolean"},
		{value: FromInt(1), want: "number"},
		{value: FromString("x"), want: "string"},
		{value: NewArray(), want: "array"},
		{value: NewObject(), want: "object"},
	}

	for _, tt := range tests {
		if got := tt.value.Kind().String(); got != tt.want {
			t.Fatalf("Kind().String() = %q, want %q", got, tt.want)
		}
		parsed, ok := ParseKind(tt.want)
		if !ok || parsed != tt.value.Kind() {
			t.Fatalf("ParseKind(%q) = (%v, %v), want (%v, true)", tt.want, parsed, ok, tt.value.Kind())
		}
	}

	if _, ok := ParseKind("tuple"); ok {
		t.Fatal("ParseKind(\"tuple\") ok = true, want false")
	}
}

func TestZeroValueIsNull(t *testing.T) {
	t.Parallel()

	var v Value
	if !v.IsNull() {
		t.Fatalf("zero Value kind = %v, want null", v.Kind())
	}
	if v.Array() != nil || v.Object() != nil {
		t.Fatal("zero Value should expose no containers")
	}
}

func TestContainersAlias(t *testing.T) {
	t.Parallel()

	inner := FromKeyVals(KV("name", FromString("a")))
	root := FromKeyVals(KV("inner", inner))

	got, ok := root.Object().Get("inner")
	if !ok {
		t.Fatal("Get(inner) ok = false")
	}
	got.Object().Set("name", FromString("b"))

	name, _ := inner.Object().Get("name")
	if s, _ := name.AsString(); s != "b" {
		t.Fatalf("aliased object name = %q, want %q", s, "b")
	}
}

func TestObjectOrder(t *testing.T) {
	t.Parallel()

	obj := FromKeyVals(
		KV("b", FromInt(1)),
		KV("a", FromInt(2)),
		KV("c", FromInt(3)),
	).Object()

	obj.Set("a", FromInt(20))
	obj.Set("d", FromInt(4))
	obj.Delete("b")

	want := []string{"a", "c", "d"}
	got := obj.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", got, want)
		}
	}

	if obj.Delete("missing") {
		t.Fatal("Delete(missing) = true, want false")
	}
}

func TestArrayOperations(t *testing.T) {
	t.Parallel()

	arr := FromSlice(FromString("a"), FromString("b"), FromString("c")).Array()

	if !arr.RemoveAt(0) {
		t.Fatal("RemoveAt(0) = false")
	}
	if arr.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", arr.Len())
	}
	first, _ := arr.At(0)
	if s, _ := first.AsString(); s != "b" {
		t.Fatalf("At(0) = %q, want %q", s, "b")
	}

	arr.Put(4, FromString("e"))
	if arr.Len() != 5 {
		t.Fatalf("Len() after Put(4) = %d, want 5", arr.Len())
	}
	pad, _ := arr.At(3)
	if !pad.IsNull() {
		t.Fatalf("padding element = %v, want null", pad)
	}

	if arr.Set(9, Null()) {
		t.Fatal("Set(9) = true, want false")
	}
	if _, ok := arr.At(-1); ok {
		t.Fatal("At(-1) ok = true, want false")
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	a := FromKeyVals(KV("x", FromInt(1)), KV("y", FromSlice(FromBool(true), Null())))
	b := FromKeyVals(KV("y", FromSlice(FromBool(true), Null())), KV("x", FromFloat(1)))
	c := FromKeyVals(KV("x", FromInt(1)), KV("y", FromSlice(FromBool(false), Null())))

	if !Equal(a, b) {
		t.Fatalf("Equal(%v, %v) = false, want true", a, b)
	}
	if Equal(a, c) {
		t.Fatalf("Equal(%v, %v) = true, want false", a, c)
	}
	if Equal(FromString("1"), FromInt(1)) {
		t.Fatal("Equal(\"1\", 1) = true, want false")
	}
}

func TestClone(t *testing.T) {
	t.Parallel()

	original := FromKeyVals(KV("list", FromSlice(FromInt(1))))
	cloned := Clone(original)

	list, _ := cloned.Object().Get("list")
	list.Array().Append(FromInt(2))

	origList, _ := original.Object().Get("list")
	if origList.Len() != 1 {
		t.Fatalf("original list length = %d, want 1", origList.Len())
	}
}

func TestMarshalJSON(t *testing.T) {
	t.Parallel()

	v := FromKeyVals(
		KV("z", FromString("a\"b")),
		KV("a", FromSlice(FromInt(1), FromFloat(2.5), FromBool(false), Null())),
		KV("m", NewObject()),
	)

	got := v.String()
	want := `{"z":"a\"b","a":[1,2.5,false,null],"m":{}}`
	if got != want {
		t.Fatalf("String() = %s, want %s", got, want)
	}
}

func TestAnyConversion(t *testing.T) {
	t.Parallel()

	input := map[string]any{
		"b":    []any{int64(1), "two", nil},
		"a":    true,
		"next": map[string]any{"f": float32(0.5)},
	}

	v, err := FromAny(input)
	if err != nil {
		t.Fatalf("FromAny() error = %v", err)
	}
	if got := v.Object().Keys(); got[0] != "a" || got[1] != "b" || got[2] != "next" {
		t.Fatalf("FromAny() keys = %v, want sorted", got)
	}

	back, err := FromAny(ToAny(v))
	if err != nil {
		t.Fatalf("FromAny(ToAny()) error = %v", err)
	}
	if !Equal(v, back) {
		t.Fatalf("FromAny(ToAny(v)) = %v, want %v", back, v)
	}

	_, err = FromAny(map[string]any{"ch": make(chan int)})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("FromAny(chan) error = %v, want ErrUnsupportedType", err)
	}
}
