package tree

import (
	"fmt"
	"slices"

	"github.com/jacoelho/jtree/internal/number"
)

// ToAny converts v into the generic form produced by encoding/json:
// map[string]any, []any, float64, string, bool or nil.
func ToAny(v Value) any {
	switch v.kind {
	case BoolKind:
		return v.b
	case NumberKind:
		return v.n
	case StringKind:
		return v.s
	case ArrayKind:
		out := make([]any, len(v.arr.items))
		for i, item := range v.arr.items {
			out[i] = ToAny(item)
		}
		return out
	case ObjectKind:
		out := make(map[string]any, v.obj.Len())
		for _, key := range v.obj.keys {
			out[key] = ToAny(v.obj.fields[key])
		}
		return out
	default:
		return nil
	}
}

// FromAny converts generic decoded data into a Value. Map keys are sorted
// because Go maps carry no order of their own.
func FromAny(x any) (Value, error) {
	switch current := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return current, nil
	case bool:
		return FromBool(current), nil
	case string:
		return FromString(current), nil
	case []any:
		arr := &Array{items: make([]Value, len(current))}
		for i, item := range current {
			converted, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			arr.items[i] = converted
		}
		return Value{kind: ArrayKind, arr: arr}, nil
	case map[string]any:
		keys := make([]string, 0, len(current))
		for key := range current {
			keys = append(keys, key)
		}
		slices.Sort(keys)

		obj := newObject(len(keys))
		for _, key := range keys {
			converted, err := FromAny(current[key])
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", key, err)
			}
			obj.Set(key, converted)
		}
		return Value{kind: ObjectKind, obj: obj}, nil
	}

	if f, ok := number.ToFloat64(x); ok {
		return FromFloat(f), nil
	}

	return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedType, x)
}
