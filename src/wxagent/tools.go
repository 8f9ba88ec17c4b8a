package wxagent

import (
	"context"
	"fmt"

	"wxcopilot/src/agent"
	"wxcopilot/src/warehouse"
)

// Tool name constants
const (
	ValidateQueryToolName = "validate_query"
	ExecuteQueryToolName  = "execute_query"
)

const validateQueryPrompt = `Validates a BigQuery SQL statement with a dry run, without executing it or reading any data.

Usage:
- Call this before execute_query with the exact statement you intend to run.
- Returns whether the statement is valid and the total bytes it would process.
- Only SELECT statements pass validation; anything destructive is rejected.`

const executeQueryPrompt = `Executes a validated SELECT statement against the weather table and returns the rows as plain text.

Usage:
- Validate the statement with validate_query first.
- Results are capped; use LIMIT and aggregation to keep them small.
- On failure the error text explains what went wrong so you can revise the query.`

// ValidateQueryInput represents the parameters for validate_query
type ValidateQueryInput struct {
	Query string `json:"query" required:"true" description:"The SQL statement to validate"`
}

// ValidateQueryOutput represents the response from validate_query
type ValidateQueryOutput struct {
	Valid               bool   `json:"valid" description:"Whether the statement is valid"`
	TotalBytesProcessed int64  `json:"total_bytes_processed" description:"Bytes the query would process"`
	Message             string `json:"message" description:"Human-readable validation summary"`
}

// ExecuteQueryInput represents the parameters for execute_query
type ExecuteQueryInput struct {
	Query string `json:"query" required:"true" description:"The SELECT statement to execute"`
}

// ExecuteQueryOutput represents the response from execute_query
type ExecuteQueryOutput struct {
	Result   string `json:"result" description:"Query results rendered as a plain-text table"`
	RowCount int    `json:"row_count" description:"Number of rows returned"`
}

// NewValidateQueryTool returns the validate_query tool backed by the gateway.
func NewValidateQueryTool(gw warehouse.Gateway) (agent.Tool, error) {
	return agent.NewGenericTool(ValidateQueryToolName, validateQueryPrompt,
		func(ctx context.Context, input ValidateQueryInput) (ValidateQueryOutput, error) {
			bytes, err := gw.Validate(ctx, input.Query)
			if err != nil {
				// Returned as a value, not an error: an invalid statement is
				// a readable result for the model, not a tool failure.
				return ValidateQueryOutput{
					Valid:   false,
					Message: err.Error(),
				}, nil
			}
			return ValidateQueryOutput{
				Valid:               true,
				TotalBytesProcessed: bytes,
				Message:             fmt.Sprintf("Query is valid. It would process %d bytes.", bytes),
			}, nil
		})
}

// NewExecuteQueryTool returns the execute_query tool backed by the gateway.
func NewExecuteQueryTool(gw warehouse.Gateway) (agent.Tool, error) {
	return agent.NewGenericTool(ExecuteQueryToolName, executeQueryPrompt,
		func(ctx context.Context, input ExecuteQueryInput) (ExecuteQueryOutput, error) {
			result, err := gw.Execute(ctx, input.Query)
			if err != nil {
				return ExecuteQueryOutput{}, err
			}
			return ExecuteQueryOutput{
				Result:   warehouse.FormatResult(result),
				RowCount: result.RowCount,
			}, nil
		})
}

// NewToolbox builds the toolbox for one agent. The validation tool is
// optional so deployments can run execute-only.
func NewToolbox(gw warehouse.Gateway, enableValidation bool) (*agent.DefaultToolbox, error) {
	toolbox := agent.NewToolbox[agent.Tool]()

	if enableValidation {
		validate, err := NewValidateQueryTool(gw)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", ValidateQueryToolName, err)
		}
		if err := toolbox.RegisterTool(validate); err != nil {
			return nil, err
		}
	}

	execute, err := NewExecuteQueryTool(gw)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", ExecuteQueryToolName, err)
	}
	if err := toolbox.RegisterTool(execute); err != nil {
		return nil, err
	}

	return toolbox, nil
}
