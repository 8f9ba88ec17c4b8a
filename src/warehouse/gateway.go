// Package warehouse provides the query execution gateway against the
// weather data warehouse: dry-run validation, read-only execution, and
// schema introspection.
package warehouse

import (
	"context"
	"time"
)

// Field describes a single column of the warehouse table.
type Field struct {
	Name        string
	Type        string
	Mode        string // NULLABLE, REQUIRED, or REPEATED
	Description string
}

// TableInfo holds table-level metadata.
type TableInfo struct {
	Project      string
	Dataset      string
	Table        string
	FullTableID  string
	NumRows      uint64
	NumBytes     int64
	LastModified time.Time
	Description  string
}

// QueryResult is the tabular outcome of a successful execution. Column
// order follows the result schema so rendering is deterministic.
type QueryResult struct {
	Columns  []string
	Rows     [][]interface{}
	RowCount int
	// Truncated is set when the row cap stopped the read before the
	// result set was exhausted.
	Truncated bool
}

// Gateway is the warehouse boundary. Validate must be side-effect free.
type Gateway interface {
	// Validate dry-runs the statement and returns the total bytes the
	// query would process. A non-nil error means the statement is invalid.
	Validate(ctx context.Context, sql string) (int64, error)

	// Execute runs the statement and returns its rows, capped at the
	// configured maximum.
	Execute(ctx context.Context, sql string) (*QueryResult, error)

	// TableSchema returns the ordered field list of the configured table.
	TableSchema(ctx context.Context) ([]Field, error)

	// TableInfo returns table-level metadata for the configured table.
	TableInfo(ctx context.Context) (*TableInfo, error)

	// SampleRows fetches up to limit rows from the configured table.
	SampleRows(ctx context.Context, limit int) (*QueryResult, error)

	// Ping verifies warehouse connectivity.
	Ping(ctx context.Context) error

	// TableID returns the fully qualified table identifier.
	TableID() string
}
