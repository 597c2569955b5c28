package warehouse

import (
	"context"
	"fmt"
)

// Gateway executes SQL statements against the configured warehouse. One
// gateway is constructed at process start and shared across requests; the
// schema conversion layer never sees it.
type Gateway interface {
	// Query executes a statement and returns the full result set.
	Query(ctx context.Context, statement string) (*ResultSet, error)
	// Exec executes a statement and discards any result.
	Exec(ctx context.Context, statement string) error
	// Ping verifies warehouse connectivity.
	Ping(ctx context.Context) error
	// Name returns the backend name (databricks, snowflake, bigquery).
	Name() string
	// QuoteIdent renders an identifier in the backend's quoting dialect.
	QuoteIdent(name string) string
}

// ResultSet is tabular query output.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// Maps converts rows into column-keyed dictionaries.
func (r *ResultSet) Maps() []map[string]any {
	out := make([]map[string]any, 0, len(r.Rows))
	for _, row := range r.Rows {
		m := make(map[string]any, len(r.Columns))
		for i, col := range r.Columns {
			if i < len(row) {
				m[col] = row[i]
			}
		}
		out = append(out, m)
	}
	return out
}

// Config selects and configures the warehouse backend.
type Config struct {
	Type       string
	Databricks DatabricksConfig
	Snowflake  SnowflakeConfig
	BigQuery   BigQueryConfig
}

// New constructs the gateway for the configured backend type.
func New(ctx context.Context, cfg *Config) (Gateway, error) {
	switch cfg.Type {
	case "", "databricks":
		return NewDatabricksGateway(&cfg.Databricks)
	case "snowflake":
		return NewSnowflakeGateway(&cfg.Snowflake)
	case "bigquery":
		return NewBigQueryGateway(ctx, &cfg.BigQuery)
	default:
		return nil, fmt.Errorf("unsupported warehouse type: %s", cfg.Type)
	}
}
