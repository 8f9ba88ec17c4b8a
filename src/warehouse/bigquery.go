package warehouse

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

const defaultMaxRows = 1000

// Config holds configuration for the BigQuery gateway.
type Config struct {
	ProjectID      string // project that runs the query jobs
	TableProjectID string // project that owns the weather table
	Dataset        string
	Table          string
	MaxRows        int // hard cap on rows fetched per execution
	Logger         *slog.Logger
}

var _ Gateway = (*BigQueryGateway)(nil)

// BigQueryGateway implements Gateway against BigQuery.
type BigQueryGateway struct {
	client *bigquery.Client
	config Config
	logger *slog.Logger
}

// NewBigQueryGateway creates a gateway using application default credentials.
func NewBigQueryGateway(ctx context.Context, config Config) (*BigQueryGateway, error) {
	if config.ProjectID == "" {
		return nil, fmt.Errorf("warehouse: project id is required")
	}
	if config.MaxRows <= 0 {
		config.MaxRows = defaultMaxRows
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "bigquery_gateway")

	client, err := bigquery.NewClient(ctx, config.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("warehouse: failed to create client: %w", err)
	}

	logger.Info("initialized bigquery client", "project", config.ProjectID)
	return &BigQueryGateway{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

// TableID returns the fully qualified table identifier.
func (g *BigQueryGateway) TableID() string {
	return fmt.Sprintf("%s.%s.%s", g.config.TableProjectID, g.config.Dataset, g.config.Table)
}

// Validate dry-runs the statement without executing it.
func (g *BigQueryGateway) Validate(ctx context.Context, sql string) (int64, error) {
	if err := CheckReadOnly(sql); err != nil {
		return 0, err
	}

	q := g.client.Query(sql)
	q.DryRun = true
	q.DisableQueryCache = true

	job, err := q.Run(ctx)
	if err != nil {
		g.logger.Debug("query validation failed", "error", err)
		return 0, fmt.Errorf("query validation failed: %w", err)
	}

	status := job.LastStatus()
	if err := status.Err(); err != nil {
		g.logger.Debug("query validation failed", "error", err)
		return 0, fmt.Errorf("query validation failed: %w", err)
	}

	bytes := status.Statistics.TotalBytesProcessed
	g.logger.Info("query validation successful", "total_bytes_processed", bytes)
	return bytes, nil
}

// Execute runs the statement and collects up to MaxRows rows.
func (g *BigQueryGateway) Execute(ctx context.Context, sql string) (*QueryResult, error) {
	if err := CheckReadOnly(sql); err != nil {
		return nil, err
	}

	g.logger.Info("executing query", "sql", truncateForLog(sql))

	it, err := g.client.Query(sql).Read(ctx)
	if err != nil {
		g.logger.Error("query execution failed", "error", err)
		return nil, fmt.Errorf("query execution failed: %w", err)
	}

	result := &QueryResult{}
	for {
		var values []bigquery.Value
		err := it.Next(&values)
		if err == iterator.Done {
			break
		}
		if err != nil {
			g.logger.Error("failed to read row", "error", err)
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		if len(result.Columns) == 0 {
			for _, field := range it.Schema {
				result.Columns = append(result.Columns, field.Name)
			}
		}

		row := make([]interface{}, len(values))
		for i, v := range values {
			row[i] = v
		}
		result.Rows = append(result.Rows, row)
		result.RowCount++

		if result.RowCount >= g.config.MaxRows {
			result.Truncated = true
			break
		}
	}

	g.logger.Info("query returned rows", "count", result.RowCount, "truncated", result.Truncated)
	return result, nil
}

// TableSchema returns the ordered field list of the configured table.
func (g *BigQueryGateway) TableSchema(ctx context.Context) ([]Field, error) {
	md, err := g.tableMetadata(ctx)
	if err != nil {
		return nil, err
	}

	fields := make([]Field, 0, len(md.Schema))
	for _, fs := range md.Schema {
		fields = append(fields, Field{
			Name:        fs.Name,
			Type:        string(fs.Type),
			Mode:        fieldMode(fs),
			Description: fs.Description,
		})
	}
	g.logger.Info("retrieved table schema", "table", g.TableID(), "fields", len(fields))
	return fields, nil
}

// TableInfo returns table-level metadata.
func (g *BigQueryGateway) TableInfo(ctx context.Context) (*TableInfo, error) {
	md, err := g.tableMetadata(ctx)
	if err != nil {
		return nil, err
	}

	return &TableInfo{
		Project:      g.config.TableProjectID,
		Dataset:      g.config.Dataset,
		Table:        g.config.Table,
		FullTableID:  g.TableID(),
		NumRows:      md.NumRows,
		NumBytes:     md.NumBytes,
		LastModified: md.LastModifiedTime,
		Description:  md.Description,
	}, nil
}

// SampleRows fetches up to limit rows from the configured table.
func (g *BigQueryGateway) SampleRows(ctx context.Context, limit int) (*QueryResult, error) {
	if limit <= 0 {
		limit = 5
	}
	sql := fmt.Sprintf("SELECT * FROM `%s` LIMIT %d", g.TableID(), limit)
	return g.Execute(ctx, sql)
}

// Ping verifies connectivity by fetching table metadata.
func (g *BigQueryGateway) Ping(ctx context.Context) error {
	_, err := g.tableMetadata(ctx)
	return err
}

// Close releases the underlying client.
func (g *BigQueryGateway) Close() error {
	return g.client.Close()
}

func (g *BigQueryGateway) tableMetadata(ctx context.Context) (*bigquery.TableMetadata, error) {
	table := g.client.DatasetInProject(g.config.TableProjectID, g.config.Dataset).Table(g.config.Table)
	md, err := table.Metadata(ctx)
	if err != nil {
		g.logger.Error("failed to get table metadata", "table", g.TableID(), "error", err)
		return nil, fmt.Errorf("failed to get table metadata for %s: %w", g.TableID(), err)
	}
	return md, nil
}

func fieldMode(fs *bigquery.FieldSchema) string {
	switch {
	case fs.Repeated:
		return "REPEATED"
	case fs.Required:
		return "REQUIRED"
	default:
		return "NULLABLE"
	}
}

func truncateForLog(sql string) string {
	if len(sql) > 200 {
		return sql[:200] + "..."
	}
	return sql
}
