package model

import "time"

// SchemaRevision is an audit record appended on every successful schema save.
// Stored in the editor's own MySQL database, not in the warehouse.
type SchemaRevision struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	TableKey        string    `json:"tableKey" gorm:"index;size:255;not null"`
	DataSchema      string    `json:"dataSchema" gorm:"type:longtext"`
	PrimaryKeys     string    `json:"primaryKeys" gorm:"size:2048"`
	ScdJoinKeys     string    `json:"scdJoinKeys" gorm:"size:2048"`
	ScdSequenceKeys string    `json:"scdSequenceKeys" gorm:"size:2048"`
	EditedBy        string    `json:"editedBy" gorm:"size:255"`
	CreatedAt       time.Time `json:"createdAt"`
}

// TableName sets the revision table name.
func (SchemaRevision) TableName() string {
	return "schema_revisions"
}
