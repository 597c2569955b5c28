package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Reserved metadata keys that surface as dedicated grid columns. Everything
// else in a field's metadata bag is opaque pass-through data.
const (
	MetaSourceName   = "source_name"
	MetaTargetName   = "target_name"
	MetaComment      = "comment"
	MetaIsPrimaryKey = "is_primary_key"
)

// TypeOptions is the data type vocabulary offered by the editor.
var TypeOptions = []string{
	"string", "integer", "long", "double", "float", "boolean",
	"date", "timestamp", "decimal", "array", "struct", "map",
}

// FieldSpec is one field of a persisted schema document.
type FieldSpec struct {
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Nullable bool           `json:"nullable"`
	Metadata map[string]any `json:"metadata"`
}

// Document is the persisted unit stored in the registry's DataSchema column.
type Document struct {
	Fields []FieldSpec `json:"fields"`
}

// Identity returns the effective identity of the field for matching edited
// grid rows: metadata.target_name when set, the field name otherwise.
func (f FieldSpec) Identity() string {
	if v, ok := f.Metadata[MetaTargetName]; ok {
		return stringValue(v)
	}
	return f.Name
}

// ParseDocument parses a raw DataSchema string into a field sequence.
//
// An empty string yields an empty sequence. Malformed JSON is a hard error so
// the caller can block editing instead of silently dropping fields. Valid JSON
// of the wrong shape (not an object, or no "fields" array) degrades to an
// empty sequence.
func ParseDocument(raw string) ([]FieldSpec, error) {
	if raw == "" {
		return nil, nil
	}

	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("invalid schema document: %w", err)
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil, nil
	}
	rawFields, ok := obj["fields"].([]any)
	if !ok {
		return nil, nil
	}

	fields := make([]FieldSpec, 0, len(rawFields))
	for _, rf := range rawFields {
		m, ok := rf.(map[string]any)
		if !ok {
			continue
		}
		fields = append(fields, fieldFromMap(m))
	}
	return fields, nil
}

func fieldFromMap(m map[string]any) FieldSpec {
	field := FieldSpec{
		Name:     stringValue(m["name"]),
		Type:     stringValue(m["type"]),
		Nullable: true,
	}
	if v, ok := m["nullable"].(bool); ok {
		field.Nullable = v
	}
	if meta, ok := m["metadata"].(map[string]any); ok {
		field.Metadata = meta
	}
	return field
}

// copyField makes a deep copy so grid edits never mutate the loaded document.
func copyField(f FieldSpec) FieldSpec {
	out := f
	out.Metadata = copyValue(f.Metadata).(map[string]any)
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = copyValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	default:
		return t
	}
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

// truthy reports whether a metadata value counts as set for checkbox columns.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(t, "true")
	case float64:
		return t != 0
	default:
		return false
	}
}
