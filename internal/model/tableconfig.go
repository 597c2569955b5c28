package model

// Registry column names, as persisted in the warehouse.
const (
	ColTableKey        = "TableKey"
	ColSourceSystem    = "SourceSystem"
	ColTableName       = "TableName"
	ColDataSchema      = "DataSchema"
	ColPrimaryKeys     = "PrimaryKeys"
	ColScdJoinKeys     = "ScdJoinKeys"
	ColScdSequenceKeys = "ScdSequenceKeys"
)

// TableSummary is one row of the registry list view.
type TableSummary struct {
	TableKey     string `json:"tableKey"`
	SourceSystem string `json:"sourceSystem"`
	TableName    string `json:"tableName"`
	RawSchema    string `json:"rawSchema,omitempty"`
}

// TableConfigRow is the full registry row for a single table. Raw carries any
// registry columns beyond the known ones so they pass through untouched.
type TableConfigRow struct {
	TableKey        string         `json:"tableKey"`
	SourceSystem    string         `json:"sourceSystem"`
	TableName       string         `json:"tableName"`
	DataSchema      string         `json:"dataSchema"`
	PrimaryKeys     string         `json:"primaryKeys"`
	ScdJoinKeys     string         `json:"scdJoinKeys"`
	ScdSequenceKeys string         `json:"scdSequenceKeys"`
	Raw             map[string]any `json:"raw,omitempty"`
}

// ColumnInfo describes one column of the registry table itself (DESCRIBE
// output).
type ColumnInfo struct {
	Name     string `json:"name"`
	DataType string `json:"dataType"`
	Comment  string `json:"comment"`
}
