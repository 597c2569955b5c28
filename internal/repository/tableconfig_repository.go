package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"tableconfig-editor/internal/model"
	"tableconfig-editor/internal/warehouse"
)

type tableConfigRepository struct {
	gateway   warehouse.Gateway
	tableName string // fully qualified registry table name
}

// NewTableConfigRepository creates a registry repository backed by the given
// warehouse gateway.
func NewTableConfigRepository(gateway warehouse.Gateway, fullTableName string) TableConfigRepository {
	return &tableConfigRepository{gateway: gateway, tableName: fullTableName}
}

// List retrieves every registry row, ordered for the list page.
func (r *tableConfigRepository) List(ctx context.Context) ([]*model.TableSummary, error) {
	query := fmt.Sprintf(
		"SELECT %s, %s, %s, %s FROM %s ORDER BY %s, %s",
		model.ColTableKey, model.ColSourceSystem, model.ColTableName, model.ColDataSchema,
		r.tableName,
		model.ColSourceSystem, model.ColTableName,
	)

	rs, err := r.gateway.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list table configurations: %w", err)
	}

	summaries := make([]*model.TableSummary, 0, len(rs.Rows))
	for _, row := range rs.Maps() {
		summaries = append(summaries, &model.TableSummary{
			TableKey:     stringCell(row, model.ColTableKey),
			SourceSystem: stringCell(row, model.ColSourceSystem),
			TableName:    stringCell(row, model.ColTableName),
			RawSchema:    stringCell(row, model.ColDataSchema),
		})
	}
	return summaries, nil
}

// Get retrieves the full configuration row for one table.
func (r *tableConfigRepository) Get(ctx context.Context, tableKey string) (*model.TableConfigRow, error) {
	query := fmt.Sprintf(
		"SELECT * FROM %s WHERE %s = %s",
		r.tableName, model.ColTableKey, warehouse.QuoteLiteral(tableKey),
	)

	rs, err := r.gateway.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch table configuration: %w", err)
	}
	rows := rs.Maps()
	if len(rows) == 0 {
		return nil, ErrTableNotFound
	}

	raw := rows[0]
	config := &model.TableConfigRow{
		TableKey:        stringCell(raw, model.ColTableKey),
		SourceSystem:    stringCell(raw, model.ColSourceSystem),
		TableName:       stringCell(raw, model.ColTableName),
		DataSchema:      stringCell(raw, model.ColDataSchema),
		PrimaryKeys:     stringCell(raw, model.ColPrimaryKeys),
		ScdJoinKeys:     stringCell(raw, model.ColScdJoinKeys),
		ScdSequenceKeys: stringCell(raw, model.ColScdSequenceKeys),
		Raw:             raw,
	}
	return config, nil
}

// UpdateDataSchema overwrites the DataSchema column for one table.
func (r *tableConfigRepository) UpdateDataSchema(ctx context.Context, tableKey, schemaJSON string) error {
	statement := fmt.Sprintf(
		"UPDATE %s SET %s = %s WHERE %s = %s",
		r.tableName,
		model.ColDataSchema, warehouse.QuoteLiteral(schemaJSON),
		model.ColTableKey, warehouse.QuoteLiteral(tableKey),
	)
	if err := r.gateway.Exec(ctx, statement); err != nil {
		return fmt.Errorf("failed to update data schema: %w", err)
	}
	return nil
}

// UpdateColumns sets the given registry columns for one table. A nil value
// writes NULL.
func (r *tableConfigRepository) UpdateColumns(ctx context.Context, tableKey string, updates map[string]*string) error {
	if len(updates) == 0 {
		return nil
	}

	columns := make([]string, 0, len(updates))
	for column := range updates {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	clauses := make([]string, 0, len(columns))
	for _, column := range columns {
		if value := updates[column]; value == nil {
			clauses = append(clauses, fmt.Sprintf("%s = NULL", column))
		} else {
			clauses = append(clauses, fmt.Sprintf("%s = %s", column, warehouse.QuoteLiteral(*value)))
		}
	}

	statement := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = %s",
		r.tableName, strings.Join(clauses, ", "),
		model.ColTableKey, warehouse.QuoteLiteral(tableKey),
	)
	if err := r.gateway.Exec(ctx, statement); err != nil {
		return fmt.Errorf("failed to update table configuration: %w", err)
	}
	return nil
}

// Insert adds a new registry row.
func (r *tableConfigRepository) Insert(ctx context.Context, values map[string]string) error {
	columns := make([]string, 0, len(values))
	for column := range values {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	literals := make([]string, 0, len(columns))
	for _, column := range columns {
		literals = append(literals, warehouse.QuoteLiteral(values[column]))
	}

	statement := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		r.tableName, strings.Join(columns, ", "), strings.Join(literals, ", "),
	)
	if err := r.gateway.Exec(ctx, statement); err != nil {
		return fmt.Errorf("failed to insert table configuration: %w", err)
	}
	return nil
}

// Delete removes a registry row.
func (r *tableConfigRepository) Delete(ctx context.Context, tableKey string) error {
	statement := fmt.Sprintf(
		"DELETE FROM %s WHERE %s = %s",
		r.tableName, model.ColTableKey, warehouse.QuoteLiteral(tableKey),
	)
	if err := r.gateway.Exec(ctx, statement); err != nil {
		return fmt.Errorf("failed to delete table configuration: %w", err)
	}
	return nil
}

// Describe returns the schema of the registry table itself.
func (r *tableConfigRepository) Describe(ctx context.Context) ([]*model.ColumnInfo, error) {
	rs, err := r.gateway.Query(ctx, fmt.Sprintf("DESCRIBE %s", r.tableName))
	if err != nil {
		return nil, fmt.Errorf("failed to describe registry table: %w", err)
	}

	columns := make([]*model.ColumnInfo, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		info := &model.ColumnInfo{}
		if len(row) > 0 {
			info.Name = cellString(row[0])
		}
		if len(row) > 1 {
			info.DataType = cellString(row[1])
		}
		if len(row) > 2 {
			info.Comment = cellString(row[2])
		}
		columns = append(columns, info)
	}
	return columns, nil
}

func stringCell(row map[string]any, column string) string {
	return cellString(row[column])
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
