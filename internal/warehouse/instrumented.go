package warehouse

import (
	"context"
	"time"

	"tableconfig-editor/internal/middleware"
)

// instrumentedGateway records Prometheus metrics around every statement.
type instrumentedGateway struct {
	next Gateway
}

// Instrument wraps a gateway with statement metrics.
func Instrument(next Gateway) Gateway {
	return &instrumentedGateway{next: next}
}

func (g *instrumentedGateway) Query(ctx context.Context, statement string) (*ResultSet, error) {
	start := time.Now()
	result, err := g.next.Query(ctx, statement)
	if err != nil {
		middleware.RecordStatementMetrics(g.next.Name(), "error", time.Since(start), 0)
		middleware.RecordStatementError(g.next.Name(), "query")
		return nil, err
	}
	middleware.RecordStatementMetrics(g.next.Name(), "success", time.Since(start), int64(len(result.Rows)))
	return result, nil
}

func (g *instrumentedGateway) Exec(ctx context.Context, statement string) error {
	start := time.Now()
	if err := g.next.Exec(ctx, statement); err != nil {
		middleware.RecordStatementMetrics(g.next.Name(), "error", time.Since(start), 0)
		middleware.RecordStatementError(g.next.Name(), "exec")
		return err
	}
	middleware.RecordStatementMetrics(g.next.Name(), "success", time.Since(start), 0)
	return nil
}

func (g *instrumentedGateway) Ping(ctx context.Context) error {
	return g.next.Ping(ctx)
}

func (g *instrumentedGateway) Name() string {
	return g.next.Name()
}

func (g *instrumentedGateway) QuoteIdent(name string) string {
	return g.next.QuoteIdent(name)
}
