package warehouse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DatabricksRESTClient wraps the Databricks SQL Statement Execution API.
type DatabricksRESTClient struct {
	baseURL     string
	httpClient  *http.Client
	token       string // Personal Access Token
	warehouseID string // SQL Warehouse ID
	catalog     string
	schema      string
}

// NewDatabricksRESTClient creates a new Databricks REST client
func NewDatabricksRESTClient(host, token, warehouseID string) (*DatabricksRESTClient, error) {
	if host == "" {
		return nil, fmt.Errorf("server hostname is required")
	}
	if token == "" {
		return nil, fmt.Errorf("access token is required")
	}
	if warehouseID == "" {
		return nil, fmt.Errorf("warehouse ID is required")
	}

	baseURL := host
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	return &DatabricksRESTClient{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 120 * time.Second},
		token:       token,
		warehouseID: warehouseID,
	}, nil
}

// ExecuteStatement submits a SQL statement for execution
func (c *DatabricksRESTClient) ExecuteStatement(ctx context.Context, sql string) (*DatabricksStatementExecution, error) {
	url := fmt.Sprintf("%s/api/2.0/sql/statements", c.baseURL)

	payload := DatabricksStatementRequest{
		Statement:   sql,
		WarehouseID: c.warehouseID,
		WaitTimeout: "30s",
		Catalog:     c.catalog,
		Schema:      c.schema,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.setAuthHeader(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var execution DatabricksStatementExecution
	if err := json.NewDecoder(resp.Body).Decode(&execution); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &execution, nil
}

// GetStatement retrieves statement status and, once finished, its result
func (c *DatabricksRESTClient) GetStatement(ctx context.Context, statementID string) (*DatabricksStatementExecution, error) {
	url := fmt.Sprintf("%s/api/2.0/sql/statements/%s", c.baseURL, statementID)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.setAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var execution DatabricksStatementExecution
	if err := json.NewDecoder(resp.Body).Decode(&execution); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &execution, nil
}

// CancelStatement cancels a running statement
func (c *DatabricksRESTClient) CancelStatement(ctx context.Context, statementID string) error {
	url := fmt.Sprintf("%s/api/2.0/sql/statements/%s/cancel", c.baseURL, statementID)

	req, err := http.NewRequestWithContext(ctx, "POST", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.setAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// setAuthHeader sets the Bearer token authorization header
func (c *DatabricksRESTClient) setAuthHeader(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
}

// =============================================================================
// Databricks Data Structures
// =============================================================================

// DatabricksStatementRequest represents a statement request
type DatabricksStatementRequest struct {
	Statement   string `json:"statement"`
	WarehouseID string `json:"warehouse_id"`
	WaitTimeout string `json:"wait_timeout,omitempty"`
	Catalog     string `json:"catalog,omitempty"`
	Schema      string `json:"schema,omitempty"`
}

// DatabricksStatementExecution represents statement execution state
type DatabricksStatementExecution struct {
	StatementID string                    `json:"statement_id"`
	Status      DatabricksStatementStatus `json:"status"`
	Manifest    *DatabricksResultManifest `json:"manifest,omitempty"`
	Result      *DatabricksStatementData  `json:"result,omitempty"`
}

// DatabricksStatementStatus represents statement status
type DatabricksStatementStatus struct {
	State string           `json:"state"` // PENDING, RUNNING, SUCCEEDED, FAILED, CANCELED, CLOSED
	Error *DatabricksError `json:"error,omitempty"`
}

// DatabricksStatementData carries the rows of a finished statement
type DatabricksStatementData struct {
	DataArray [][]any `json:"data_array"`
	RowCount  int64   `json:"row_count"`
}

// DatabricksResultManifest describes result shape
type DatabricksResultManifest struct {
	Schema        DatabricksResultSchema `json:"schema"`
	TotalRowCount int64                  `json:"total_row_count"`
}

// DatabricksResultSchema represents result schema
type DatabricksResultSchema struct {
	Columns []DatabricksColumn `json:"columns"`
}

// DatabricksColumn represents a column definition
type DatabricksColumn struct {
	Name     string `json:"name"`
	TypeText string `json:"type_text"`
	Position int    `json:"position"`
}

// DatabricksError represents an error response
type DatabricksError struct {
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
}
