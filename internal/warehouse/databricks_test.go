package warehouse

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestGateway(t *testing.T, handler http.Handler) (*DatabricksGateway, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)

	gateway, err := NewDatabricksGateway(&DatabricksConfig{
		Host:        server.URL,
		Token:       "test-token",
		WarehouseID: "wh-123",
	})
	if err != nil {
		server.Close()
		t.Fatalf("Failed to create gateway: %v", err)
	}
	return gateway, server
}

func TestDatabricksGatewayQueryInlineResult(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("Missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		if r.Method != "POST" || r.URL.Path != "/api/2.0/sql/statements" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var req DatabricksStatementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Bad request body: %v", err)
		}
		if req.WarehouseID != "wh-123" {
			t.Errorf("Expected warehouse ID wh-123, got %s", req.WarehouseID)
		}

		json.NewEncoder(w).Encode(DatabricksStatementExecution{
			StatementID: "stmt-1",
			Status:      DatabricksStatementStatus{State: "SUCCEEDED"},
			Manifest: &DatabricksResultManifest{
				Schema: DatabricksResultSchema{Columns: []DatabricksColumn{
					{Name: "TableKey"}, {Name: "TableName"},
				}},
			},
			Result: &DatabricksStatementData{
				DataArray: [][]any{{"orders", "fact_orders"}},
			},
		})
	})

	gateway, server := newTestGateway(t, handler)
	defer server.Close()

	rs, err := gateway.Query(context.Background(), "SELECT TableKey, TableName FROM cfg")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(rs.Columns) != 2 || rs.Columns[0] != "TableKey" {
		t.Errorf("Unexpected columns: %v", rs.Columns)
	}
	if len(rs.Rows) != 1 || rs.Rows[0][0] != "orders" {
		t.Errorf("Unexpected rows: %v", rs.Rows)
	}
}

func TestDatabricksGatewayPollsPendingStatement(t *testing.T) {
	polls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "POST":
			json.NewEncoder(w).Encode(DatabricksStatementExecution{
				StatementID: "stmt-2",
				Status:      DatabricksStatementStatus{State: "PENDING"},
			})
		case strings.HasSuffix(r.URL.Path, "/stmt-2"):
			polls++
			state := "RUNNING"
			var result *DatabricksStatementData
			if polls >= 2 {
				state = "SUCCEEDED"
				result = &DatabricksStatementData{DataArray: [][]any{{"1"}}}
			}
			json.NewEncoder(w).Encode(DatabricksStatementExecution{
				StatementID: "stmt-2",
				Status:      DatabricksStatementStatus{State: state},
				Result:      result,
			})
		default:
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
	})

	gateway, server := newTestGateway(t, handler)
	defer server.Close()
	gateway.poller.pollInterval = 0

	rs, err := gateway.Query(context.Background(), "SELECT 1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if polls < 2 {
		t.Errorf("Expected at least 2 polls, got %d", polls)
	}
	if len(rs.Rows) != 1 {
		t.Errorf("Expected 1 row, got %d", len(rs.Rows))
	}
}

func TestDatabricksGatewayStatementFailure(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(DatabricksStatementExecution{
			StatementID: "stmt-3",
			Status: DatabricksStatementStatus{
				State: "FAILED",
				Error: &DatabricksError{Message: "TABLE_OR_VIEW_NOT_FOUND", ErrorCode: "BAD_REQUEST"},
			},
		})
	})

	gateway, server := newTestGateway(t, handler)
	defer server.Close()

	if _, err := gateway.Query(context.Background(), "SELECT * FROM missing"); err == nil {
		t.Error("Expected error for failed statement")
	} else if !strings.Contains(err.Error(), "TABLE_OR_VIEW_NOT_FOUND") {
		t.Errorf("Expected statement error message, got: %v", err)
	}
}

func TestWarehouseIDFromHTTPPath(t *testing.T) {
	if id := warehouseIDFromHTTPPath("/sql/1.0/warehouses/abc123"); id != "abc123" {
		t.Errorf("Expected abc123, got %s", id)
	}
	if id := warehouseIDFromHTTPPath(""); id != "" {
		t.Errorf("Expected empty ID, got %s", id)
	}
}
