package warehouse

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// BigQueryConfig holds BigQuery connection settings.
type BigQueryConfig struct {
	ProjectID       string
	Location        string
	CredentialsFile string // optional, falls back to application default credentials
}

// BigQueryGateway executes statements with the native BigQuery client.
type BigQueryGateway struct {
	client   *bigquery.Client
	location string
}

// NewBigQueryGateway creates a BigQuery-backed gateway.
func NewBigQueryGateway(ctx context.Context, cfg *BigQueryConfig) (*BigQueryGateway, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("project ID is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := bigquery.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create BigQuery client: %w", err)
	}

	return &BigQueryGateway{client: client, location: cfg.Location}, nil
}

func (g *BigQueryGateway) Query(ctx context.Context, statement string) (*ResultSet, error) {
	q := g.client.Query(statement)
	q.Location = g.location

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	rs := &ResultSet{}
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row iteration failed: %w", err)
		}
		values := make([]any, len(row))
		for i, v := range row {
			values[i] = v
		}
		rs.Rows = append(rs.Rows, values)
	}

	for _, field := range it.Schema {
		rs.Columns = append(rs.Columns, field.Name)
	}
	return rs, nil
}

func (g *BigQueryGateway) Exec(ctx context.Context, statement string) error {
	q := g.client.Query(statement)
	q.Location = g.location

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("statement failed: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("failed to wait for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("job failed: %w", err)
	}
	return nil
}

func (g *BigQueryGateway) Ping(ctx context.Context) error {
	_, err := g.Query(ctx, "SELECT 1")
	return err
}

func (g *BigQueryGateway) Name() string {
	return "bigquery"
}

func (g *BigQueryGateway) QuoteIdent(name string) string {
	return backtickIdent(name)
}

// Close releases the underlying client.
func (g *BigQueryGateway) Close() error {
	return g.client.Close()
}

var _ Gateway = (*BigQueryGateway)(nil)
