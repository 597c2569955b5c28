package warehouse

import (
	"context"
	"strings"
)

// DatabricksConfig holds Databricks connection settings.
type DatabricksConfig struct {
	Host        string // workspace server hostname
	Token       string // Personal Access Token
	WarehouseID string // SQL Warehouse ID
	HTTPPath    string // warehouse HTTP path, warehouse ID derived when unset
	Catalog     string
	Schema      string
}

// DatabricksGateway executes statements through the SQL Statement Execution
// REST API.
type DatabricksGateway struct {
	client *DatabricksRESTClient
	poller *DatabricksStatementPoller
}

// NewDatabricksGateway creates a Databricks-backed gateway.
func NewDatabricksGateway(cfg *DatabricksConfig) (*DatabricksGateway, error) {
	warehouseID := cfg.WarehouseID
	if warehouseID == "" {
		warehouseID = warehouseIDFromHTTPPath(cfg.HTTPPath)
	}

	client, err := NewDatabricksRESTClient(cfg.Host, cfg.Token, warehouseID)
	if err != nil {
		return nil, err
	}
	client.catalog = cfg.Catalog
	client.schema = cfg.Schema

	return &DatabricksGateway{
		client: client,
		poller: NewDatabricksStatementPoller(client),
	}, nil
}

func (g *DatabricksGateway) Query(ctx context.Context, statement string) (*ResultSet, error) {
	execution, err := g.poller.ExecuteAndWait(ctx, statement)
	if err != nil {
		return nil, err
	}
	return resultSetFromExecution(execution), nil
}

func (g *DatabricksGateway) Exec(ctx context.Context, statement string) error {
	_, err := g.poller.ExecuteAndWait(ctx, statement)
	return err
}

func (g *DatabricksGateway) Ping(ctx context.Context) error {
	_, err := g.Query(ctx, "SELECT 1")
	return err
}

func (g *DatabricksGateway) Name() string {
	return "databricks"
}

func (g *DatabricksGateway) QuoteIdent(name string) string {
	return backtickIdent(name)
}

func resultSetFromExecution(execution *DatabricksStatementExecution) *ResultSet {
	rs := &ResultSet{}

	if execution.Manifest != nil {
		for _, col := range execution.Manifest.Schema.Columns {
			rs.Columns = append(rs.Columns, col.Name)
		}
	}
	if execution.Result != nil {
		rs.Rows = execution.Result.DataArray
	}
	return rs
}

// warehouseIDFromHTTPPath extracts the warehouse ID from an HTTP path of the
// form /sql/1.0/warehouses/<id>.
func warehouseIDFromHTTPPath(httpPath string) string {
	if httpPath == "" {
		return ""
	}
	parts := strings.FieldsFunc(httpPath, func(r rune) bool { return r == '/' })
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

var _ Gateway = (*DatabricksGateway)(nil)
