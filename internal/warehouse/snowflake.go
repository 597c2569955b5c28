package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/snowflakedb/gosnowflake"
)

// SnowflakeConfig holds Snowflake connection settings.
type SnowflakeConfig struct {
	Account   string
	User      string
	Password  string
	Role      string
	Warehouse string
	Database  string
	Schema    string
}

// SnowflakeGateway executes statements over database/sql with the gosnowflake
// driver.
type SnowflakeGateway struct {
	db *sql.DB
}

// NewSnowflakeGateway creates a Snowflake-backed gateway.
func NewSnowflakeGateway(cfg *SnowflakeConfig) (*SnowflakeGateway, error) {
	if cfg.Account == "" || cfg.User == "" {
		return nil, fmt.Errorf("snowflake account and user are required")
	}

	dsn, err := gosnowflake.DSN(&gosnowflake.Config{
		Account:   cfg.Account,
		User:      cfg.User,
		Password:  cfg.Password,
		Role:      cfg.Role,
		Warehouse: cfg.Warehouse,
		Database:  cfg.Database,
		Schema:    cfg.Schema,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build Snowflake DSN: %w", err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open Snowflake connection: %w", err)
	}

	// The editor serves one operator at a time; a small pool is plenty.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &SnowflakeGateway{db: db}, nil
}

func (g *SnowflakeGateway) Query(ctx context.Context, statement string) (*ResultSet, error) {
	rows, err := g.db.QueryContext(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

func (g *SnowflakeGateway) Exec(ctx context.Context, statement string) error {
	if _, err := g.db.ExecContext(ctx, statement); err != nil {
		return fmt.Errorf("statement failed: %w", err)
	}
	return nil
}

func (g *SnowflakeGateway) Ping(ctx context.Context) error {
	return g.db.PingContext(ctx)
}

func (g *SnowflakeGateway) Name() string {
	return "snowflake"
}

func (g *SnowflakeGateway) QuoteIdent(name string) string {
	return doubleQuoteIdent(name)
}

// Close releases the connection pool.
func (g *SnowflakeGateway) Close() error {
	return g.db.Close()
}

// scanRows reads a sql.Rows cursor into a ResultSet, converting driver byte
// slices to strings.
func scanRows(rows *sql.Rows) (*ResultSet, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	rs := &ResultSet{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		rs.Rows = append(rs.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return rs, nil
}

var _ Gateway = (*SnowflakeGateway)(nil)
