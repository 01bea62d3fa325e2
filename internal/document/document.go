// Package document converts between JSON or YAML text and tree values and
// loads and saves documents on disk.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jacoelho/jtree/internal/tree"
)

var (
	ErrEmptyDocument = errors.New("document is empty")
	ErrInvalid       = errors.New("invalid document")
	ErrFormat        = errors.New("unsupported format")
)

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" and "yml", case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrFormat, name)
	}
}

// FormatFromPath picks YAML for .yaml and .yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

func Decode(data []byte, format Format) (tree.Value, error) {
	switch format {
	case JSON:
		return DecodeJSON(data)
	case YAML:
		return DecodeYAML(data)
	default:
		return tree.Value{}, fmt.Errorf("%w: %q", ErrFormat, format)
	}
}

func Encode(v tree.Value, format Format) ([]byte, error) {
	switch format {
	case JSON:
		return EncodeJSON(v, true)
	case YAML:
		return EncodeYAML(v)
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, format)
	}
}

// DecodeJSON parses a single JSON value, keeping object members in document order.
func DecodeJSON(data []byte) (tree.Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return tree.Value{}, ErrEmptyDocument
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeJSONValue(dec)
	if err != nil {
		return tree.Value{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if _, err := dec.Token(); err != io.EOF {
		return tree.Value{}, fmt.Errorf("%w: unexpected data after top-level value", ErrInvalid)
	}

	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (tree.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return tree.Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return tree.Null(), nil
	case bool:
		return tree.FromBool(t), nil
	case string:
		return tree.FromString(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return tree.Value{}, fmt.Errorf("number %s: %w", t, err)
		}
		return tree.FromFloat(f), nil
	case json.Delim:
		switch t {
		case '[':
			arr := tree.NewArray()
			for dec.More() {
				item, err := decodeJSONValue(dec)
				if err != nil {
					return tree.Value{}, err
				}
				arr.Array().Append(item)
			}
			_, err := dec.Token()
			return arr, err
		case '{':
			obj := tree.NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return tree.Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return tree.Value{}, fmt.Errorf("object key %v is not a string", keyTok)
				}
				item, err := decodeJSONValue(dec)
				if err != nil {
					return tree.Value{}, err
				}
				obj.Object().Set(key, item)
			}
			_, err := dec.Token()
			return obj, err
		}
	}

	return tree.Value{}, fmt.Errorf("unexpected token %v", tok)
}

// EncodeJSON renders v as JSON, indented by two spaces when pretty is set.
// The output ends with a newline.
func EncodeJSON(v tree.Value, pretty bool) ([]byte, error) {
	data, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if pretty {
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return nil, err
		}
	} else {
		buf.Write(data)
	}
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// Load reads a document, choosing the decoder from the file extension.
func Load(path string) (tree.Value, Format, error) {
	format := FormatFromPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return tree.Value{}, format, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	v, err := Decode(data, format)
	if err != nil {
		return tree.Value{}, format, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return v, format, nil
}

// Save writes v to path in the given format, replacing any previous content.
func Save(path string, v tree.Value, format Format) error {
	data, err := Encode(v, format)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
