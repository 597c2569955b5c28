package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tableconfig-editor/internal/warehouse"
)

// fakeGateway records statements and serves canned results.
type fakeGateway struct {
	results    map[string]*warehouse.ResultSet
	statements []string
	failWith   error
}

func (f *fakeGateway) Query(ctx context.Context, statement string) (*warehouse.ResultSet, error) {
	f.statements = append(f.statements, statement)
	if f.failWith != nil {
		return nil, f.failWith
	}
	for prefix, rs := range f.results {
		if strings.HasPrefix(statement, prefix) {
			return rs, nil
		}
	}
	return &warehouse.ResultSet{}, nil
}

func (f *fakeGateway) Exec(ctx context.Context, statement string) error {
	f.statements = append(f.statements, statement)
	return f.failWith
}

func (f *fakeGateway) Ping(ctx context.Context) error { return f.failWith }
func (f *fakeGateway) Name() string                   { return "fake" }
func (f *fakeGateway) QuoteIdent(name string) string  { return "`" + name + "`" }

func TestListTableConfigurations(t *testing.T) {
	gateway := &fakeGateway{results: map[string]*warehouse.ResultSet{
		"SELECT TableKey": {
			Columns: []string{"TableKey", "SourceSystem", "TableName", "DataSchema"},
			Rows: [][]any{
				{"customers", "crm", "dim_customers", `{"fields":[]}`},
				{"orders", "erp", "fact_orders", ""},
			},
		},
	}}

	repo := NewTableConfigRepository(gateway, "demo.cfg.table_config")
	summaries, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].TableKey != "customers" || summaries[0].RawSchema != `{"fields":[]}` {
		t.Errorf("Unexpected first summary: %+v", summaries[0])
	}
	if !strings.Contains(gateway.statements[0], "ORDER BY SourceSystem, TableName") {
		t.Errorf("Expected deterministic ordering, got: %s", gateway.statements[0])
	}
}

func TestGetTableConfiguration(t *testing.T) {
	gateway := &fakeGateway{results: map[string]*warehouse.ResultSet{
		"SELECT *": {
			Columns: []string{"TableKey", "SourceSystem", "TableName", "DataSchema", "PrimaryKeys", "ScdJoinKeys", "ScdSequenceKeys", "Owner"},
			Rows:    [][]any{{"orders", "erp", "fact_orders", `{"fields":[]}`, `["id"]`, "id", nil, "data-team"}},
		},
	}}

	repo := NewTableConfigRepository(gateway, "demo.cfg.table_config")
	config, err := repo.Get(context.Background(), "orders")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if config.PrimaryKeys != `["id"]` || config.ScdJoinKeys != "id" || config.ScdSequenceKeys != "" {
		t.Errorf("Unexpected key columns: %+v", config)
	}
	// Unknown registry columns pass through in Raw.
	if config.Raw["Owner"] != "data-team" {
		t.Errorf("Expected Owner passthrough, got %v", config.Raw)
	}
	if !strings.Contains(gateway.statements[0], "WHERE TableKey = 'orders'") {
		t.Errorf("Unexpected query: %s", gateway.statements[0])
	}
}

func TestGetTableConfigurationNotFound(t *testing.T) {
	repo := NewTableConfigRepository(&fakeGateway{}, "demo.cfg.table_config")

	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("Expected ErrTableNotFound, got %v", err)
	}
}

func TestUpdateDataSchemaEscapesLiterals(t *testing.T) {
	gateway := &fakeGateway{}
	repo := NewTableConfigRepository(gateway, "demo.cfg.table_config")

	schema := `{"fields":[{"name":"o'brien"}]}`
	if err := repo.UpdateDataSchema(context.Background(), "orders", schema); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	statement := gateway.statements[0]
	if !strings.Contains(statement, `o''brien`) {
		t.Errorf("Expected escaped quote in statement: %s", statement)
	}
	if !strings.Contains(statement, "WHERE TableKey = 'orders'") {
		t.Errorf("Expected keyed update, got: %s", statement)
	}
}

func TestUpdateColumnsWritesNullForNil(t *testing.T) {
	gateway := &fakeGateway{}
	repo := NewTableConfigRepository(gateway, "demo.cfg.table_config")

	pk := `["id"]`
	updates := map[string]*string{
		"PrimaryKeys":     &pk,
		"ScdJoinKeys":     nil,
		"ScdSequenceKeys": nil,
	}
	if err := repo.UpdateColumns(context.Background(), "orders", updates); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	statement := gateway.statements[0]
	if !strings.Contains(statement, `PrimaryKeys = '["id"]'`) {
		t.Errorf("Expected quoted key list, got: %s", statement)
	}
	if !strings.Contains(statement, "ScdJoinKeys = NULL") || !strings.Contains(statement, "ScdSequenceKeys = NULL") {
		t.Errorf("Expected NULL clauses, got: %s", statement)
	}
}

func TestDescribeRegistry(t *testing.T) {
	gateway := &fakeGateway{results: map[string]*warehouse.ResultSet{
		"DESCRIBE": {
			Columns: []string{"col_name", "data_type", "comment"},
			Rows: [][]any{
				{"TableKey", "string", "unique key"},
				{"DataSchema", "string", nil},
			},
		},
	}}
	repo := NewTableConfigRepository(gateway, "demo.cfg.table_config")

	columns, err := repo.Describe(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(columns) != 2 || columns[0].Name != "TableKey" || columns[1].Comment != "" {
		t.Errorf("Unexpected describe output: %+v", columns)
	}
}
