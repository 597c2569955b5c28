package warehouse

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSnowflakeGatewayQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT TableKey, SourceSystem").
		WillReturnRows(sqlmock.NewRows([]string{"TableKey", "SourceSystem", "TableName"}).
			AddRow("orders", "erp", "fact_orders").
			AddRow("customers", "crm", []byte("dim_customers")))

	gateway := &SnowflakeGateway{db: db}
	rs, err := gateway.Query(context.Background(), "SELECT TableKey, SourceSystem, TableName FROM cfg")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(rs.Columns) != 3 || rs.Columns[0] != "TableKey" {
		t.Errorf("Unexpected columns: %v", rs.Columns)
	}
	if len(rs.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rs.Rows))
	}
	// Driver byte slices come back as strings.
	if rs.Rows[1][2] != "dim_customers" {
		t.Errorf("Expected byte slice converted to string, got %T %v", rs.Rows[1][2], rs.Rows[1][2])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestSnowflakeGatewayQueryMaps(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT \\*").
		WillReturnRows(sqlmock.NewRows([]string{"TableKey", "DataSchema"}).
			AddRow("orders", `{"fields":[]}`))

	gateway := &SnowflakeGateway{db: db}
	rs, err := gateway.Query(context.Background(), "SELECT * FROM cfg WHERE TableKey = 'orders'")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	maps := rs.Maps()
	if len(maps) != 1 {
		t.Fatalf("Expected 1 row map, got %d", len(maps))
	}
	if maps[0]["DataSchema"] != `{"fields":[]}` {
		t.Errorf("Unexpected DataSchema value: %v", maps[0]["DataSchema"])
	}
}

func TestSnowflakeGatewayExec(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE cfg SET DataSchema").
		WillReturnResult(sqlmock.NewResult(0, 1))

	gateway := &SnowflakeGateway{db: db}
	if err := gateway.Exec(context.Background(), "UPDATE cfg SET DataSchema = '{}' WHERE TableKey = 'orders'"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}
