package schema

import (
	"encoding/json"
	"sort"
	"strings"
)

// BaseColumns is the fixed column set of the editing grid. Schemas with extra
// metadata keys get one additional "metadata.<key>" column per key.
var BaseColumns = []string{
	"Source Name",
	"Target Name",
	"Data Type",
	"Nullable",
	"Is Primary Key",
	"Is SCD Join Key",
	"Is SCD Sequence Key",
	"Comment",
}

// MetadataColumnPrefix prefixes grid columns synthesized from non-reserved
// metadata keys.
const MetadataColumnPrefix = "metadata."

// FlexBool is a boolean grid cell that tolerates loosely typed input: native
// JSON booleans, case-insensitive "true"/"false" strings, and numbers.
// Anything unrecognized decodes to false.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*b = false
		return nil
	}
	*b = FlexBool(truthy(v))
	return nil
}

func (b FlexBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}

// EditableRow is the flat per-field projection shown in the editing grid.
// Metadata holds the cells of the synthesized "metadata.<key>" columns.
type EditableRow struct {
	SourceName       string         `json:"sourceName"`
	TargetName       string         `json:"targetName"`
	DataType         string         `json:"dataType"`
	Nullable         FlexBool       `json:"nullable"`
	IsPrimaryKey     FlexBool       `json:"isPrimaryKey"`
	IsScdJoinKey     FlexBool       `json:"isScdJoinKey"`
	IsScdSequenceKey FlexBool       `json:"isScdSequenceKey"`
	Comment          string         `json:"comment"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// Grid is the tabular editing view of a schema document.
type Grid struct {
	Columns []string      `json:"columns"`
	Rows    []EditableRow `json:"rows"`
}

// ToGrid projects a field sequence into the editing grid.
//
// IsPrimaryKey is read from each field's metadata.is_primary_key flag, not
// from membership in primaryKeys; the two SCD checkboxes are derived from key
// set membership keyed by target_name. The asymmetry matches what downstream
// consumers of the registry expect today.
func ToGrid(fields []FieldSpec, primaryKeys, scdJoinKeys, scdSequenceKeys []string) Grid {
	columns := append([]string{}, BaseColumns...)
	if len(fields) == 0 {
		return Grid{Columns: columns, Rows: []EditableRow{}}
	}

	metaKeys := metadataColumnKeys(fields)
	for _, key := range metaKeys {
		columns = append(columns, MetadataColumnPrefix+key)
	}

	joinSet := keySet(scdJoinKeys)
	seqSet := keySet(scdSequenceKeys)

	rows := make([]EditableRow, 0, len(fields))
	for _, field := range fields {
		targetName := stringValue(field.Metadata[MetaTargetName])
		row := EditableRow{
			SourceName:       stringValue(field.Metadata[MetaSourceName]),
			TargetName:       targetName,
			DataType:         field.Type,
			Nullable:         FlexBool(field.Nullable),
			IsPrimaryKey:     FlexBool(truthy(field.Metadata[MetaIsPrimaryKey])),
			IsScdJoinKey:     FlexBool(joinSet[targetName]),
			IsScdSequenceKey: FlexBool(seqSet[targetName]),
			Comment:          stringValue(field.Metadata[MetaComment]),
		}
		if len(metaKeys) > 0 {
			row.Metadata = make(map[string]any, len(metaKeys))
			for _, key := range metaKeys {
				if v, ok := field.Metadata[key]; ok {
					row.Metadata[key] = v
				} else {
					row.Metadata[key] = ""
				}
			}
		}
		rows = append(rows, row)
	}

	return Grid{Columns: columns, Rows: rows}
}

// FromGrid converts edited grid rows back into a schema document plus the
// three key lists, in grid row order.
//
// Rows are matched against originalFields by TargetName so metadata keys the
// grid never displayed survive the round trip. Unmatched rows become new
// fields with empty metadata. Key lists keep duplicates and ordering exactly
// as the rows produced them.
func FromGrid(rows []EditableRow, originalFields []FieldSpec) (Document, []string, []string, []string) {
	originals := make(map[string]FieldSpec, len(originalFields))
	for _, field := range originalFields {
		originals[field.Identity()] = field
	}

	fields := make([]FieldSpec, 0, len(rows))
	primaryKeys := []string{}
	scdJoinKeys := []string{}
	scdSequenceKeys := []string{}

	for _, row := range rows {
		name := row.TargetName

		var field FieldSpec
		if orig, ok := originals[name]; ok {
			field = copyField(orig)
		} else {
			field = FieldSpec{Name: name, Type: row.DataType, Nullable: true}
		}
		if field.Metadata == nil {
			field.Metadata = map[string]any{}
		}

		field.Type = row.DataType
		field.Nullable = bool(row.Nullable)

		if row.SourceName != "" {
			field.Metadata[MetaSourceName] = row.SourceName
		}
		if row.TargetName != "" {
			field.Metadata[MetaTargetName] = row.TargetName
		}
		if row.Comment != "" {
			field.Metadata[MetaComment] = row.Comment
		} else {
			// Clear-on-empty: a comment wiped in the grid must not linger.
			delete(field.Metadata, MetaComment)
		}
		field.Metadata[MetaIsPrimaryKey] = bool(row.IsPrimaryKey)

		for key, value := range row.Metadata {
			if isReservedMetadataKey(key) {
				continue
			}
			if keepMetadataValue(value) {
				field.Metadata[key] = value
			}
		}

		fields = append(fields, field)

		if row.IsPrimaryKey {
			primaryKeys = append(primaryKeys, name)
		}
		if row.IsScdJoinKey {
			scdJoinKeys = append(scdJoinKeys, name)
		}
		if row.IsScdSequenceKey {
			scdSequenceKeys = append(scdSequenceKeys, name)
		}
	}

	return Document{Fields: fields}, primaryKeys, scdJoinKeys, scdSequenceKeys
}

// metadataColumnKeys is the sorted union of non-reserved metadata keys across
// all fields. Fields missing a key still get an empty cell for its column.
func metadataColumnKeys(fields []FieldSpec) []string {
	union := map[string]bool{}
	for _, field := range fields {
		for key := range field.Metadata {
			if !isReservedMetadataKey(key) {
				union[key] = true
			}
		}
	}
	keys := make([]string, 0, len(union))
	for key := range union {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func isReservedMetadataKey(key string) bool {
	switch key {
	case MetaSourceName, MetaTargetName, MetaComment, MetaIsPrimaryKey:
		return true
	}
	return false
}

// keepMetadataValue reports whether an edited metadata cell carries a value.
// Falsy non-empty values (false, 0) are kept; only nil and the empty string
// mean absence.
func keepMetadataValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	default:
		return true
	}
}

func keySet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[strings.TrimSpace(k)] = true
	}
	return set
}
