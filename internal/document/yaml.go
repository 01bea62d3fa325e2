package document

import (
	"bytes"
	"fmt"
	"math"

	"github.com/goccy/go-yaml"

	"github.com/jacoelho/jtree/internal/tree"
)

// DecodeYAML parses the first YAML document in data. Mapping keys keep their
// document order; non-string keys are rendered with fmt.
func DecodeYAML(data []byte) (tree.Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return tree.Value{}, ErrEmptyDocument
	}

	var raw any
	if err := yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap()); err != nil {
		return tree.Value{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	v, err := fromYAML(raw)
	if err != nil {
		return tree.Value{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return v, nil
}

func fromYAML(raw any) (tree.Value, error) {
	switch current := raw.(type) {
	case yaml.MapSlice:
		obj := tree.NewObject()
		for _, item := range current {
			key, ok := item.Key.(string)
			if !ok {
				key = fmt.Sprint(item.Key)
			}
			v, err := fromYAML(item.Value)
			if err != nil {
				return tree.Value{}, fmt.Errorf("key %q: %w", key, err)
			}
			obj.Object().Set(key, v)
		}
		return obj, nil
	case []any:
		arr := tree.NewArray()
		for i, item := range current {
			v, err := fromYAML(item)
			if err != nil {
				return tree.Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			arr.Array().Append(v)
		}
		return arr, nil
	default:
		return tree.FromAny(raw)
	}
}

// EncodeYAML renders v as YAML, keeping object member order.
func EncodeYAML(v tree.Value) ([]byte, error) {
	data, err := yaml.Marshal(toYAML(v))
	if err != nil {
		return nil, fmt.Errorf("encode YAML: %w", err)
	}
	return data, nil
}

func toYAML(v tree.Value) any {
	switch v.Kind() {
	case tree.ArrayKind:
		out := make([]any, 0, v.Len())
		for _, item := range v.Array().All() {
			out = append(out, toYAML(item))
		}
		return out
	case tree.ObjectKind:
		out := make(yaml.MapSlice, 0, v.Len())
		for key, item := range v.Object().All() {
			out = append(out, yaml.MapItem{Key: key, Value: toYAML(item)})
		}
		return out
	case tree.NumberKind:
		n, _ := v.AsNumber()
		// Integral numbers are emitted without a fractional part.
		if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
			return int64(n)
		}
		return n
	default:
		return tree.ToAny(v)
	}
}
