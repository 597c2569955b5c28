package repository

import (
	"context"

	"tableconfig-editor/internal/model"
)

// TableConfigRepository reads and writes registry rows in the warehouse.
// Gateway rows are converted to typed records here; nothing above this layer
// sees raw result sets.
type TableConfigRepository interface {
	List(ctx context.Context) ([]*model.TableSummary, error)
	Get(ctx context.Context, tableKey string) (*model.TableConfigRow, error)
	UpdateDataSchema(ctx context.Context, tableKey, schemaJSON string) error
	UpdateColumns(ctx context.Context, tableKey string, updates map[string]*string) error
	Insert(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, tableKey string) error
	Describe(ctx context.Context) ([]*model.ColumnInfo, error)
}

// RevisionRepository stores the schema save audit trail.
type RevisionRepository interface {
	Append(ctx context.Context, revision *model.SchemaRevision) error
	ListByTableKey(ctx context.Context, tableKey string, limit int) ([]*model.SchemaRevision, error)
}
