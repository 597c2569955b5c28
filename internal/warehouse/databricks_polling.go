package warehouse

import (
	"context"
	"fmt"
	"time"
)

// DatabricksStatementPoller handles polling for statement completion
type DatabricksStatementPoller struct {
	client       *DatabricksRESTClient
	pollInterval time.Duration
	maxAttempts  int
}

// NewDatabricksStatementPoller creates a new statement poller
func NewDatabricksStatementPoller(client *DatabricksRESTClient) *DatabricksStatementPoller {
	return &DatabricksStatementPoller{
		client:       client,
		pollInterval: 1 * time.Second,
		maxAttempts:  300, // 5 minutes max with 1s polling
	}
}

// ExecuteAndWait executes a statement and waits for completion
func (p *DatabricksStatementPoller) ExecuteAndWait(ctx context.Context, sql string) (*DatabricksStatementExecution, error) {
	execution, err := p.client.ExecuteStatement(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to execute statement: %w", err)
	}

	// The wait_timeout on submission usually returns a finished statement
	// inline; fall back to polling for long-running ones.
	if done, err := checkTerminalState(execution); done {
		if err != nil {
			return nil, err
		}
		return execution, nil
	}

	return p.waitForCompletion(ctx, execution.StatementID)
}

// waitForCompletion polls until the statement reaches a terminal state
func (p *DatabricksStatementPoller) waitForCompletion(ctx context.Context, statementID string) (*DatabricksStatementExecution, error) {
	attempts := 0

	for {
		attempts++
		if attempts > p.maxAttempts {
			return nil, fmt.Errorf("statement timeout after %d attempts", attempts)
		}

		execution, err := p.client.GetStatement(ctx, statementID)
		if err != nil {
			return nil, fmt.Errorf("failed to get statement status: %w", err)
		}

		if done, err := checkTerminalState(execution); done {
			if err != nil {
				return nil, err
			}
			return execution, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.pollInterval):
		}
	}
}

// checkTerminalState reports whether execution finished and with what error.
func checkTerminalState(execution *DatabricksStatementExecution) (bool, error) {
	switch execution.Status.State {
	case "SUCCEEDED":
		return true, nil
	case "FAILED", "CANCELED", "CLOSED":
		if execution.Status.Error != nil {
			return true, fmt.Errorf("statement %s: %s", execution.Status.State, execution.Status.Error.Message)
		}
		return true, fmt.Errorf("statement %s", execution.Status.State)
	case "PENDING", "RUNNING":
		return false, nil
	default:
		return true, fmt.Errorf("unknown statement state: %s", execution.Status.State)
	}
}
