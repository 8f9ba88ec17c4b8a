// Package schemactx produces the schema context text injected into every
// model-bound question.
package schemactx

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"wxcopilot/src/warehouse"
)

// Source selects where the base schema description comes from.
type Source string

const (
	// SourceIntrospected builds the description from live table metadata.
	SourceIntrospected Source = "introspected"
	// SourceStatic reads the description from a document on disk.
	SourceStatic Source = "static"
)

const defaultSampleLimit = 3

// Config holds configuration for the provider.
type Config struct {
	Source      Source
	StaticPath  string   // document path when Source is static
	FS          afero.Fs // filesystem used for the static document
	SampleLimit int
	Gateway     warehouse.Gateway
	Logger      *slog.Logger
}

// Provider loads and caches the schema context. The cache is populated at
// most once, on the first successful load, and shared read-only afterwards;
// a restart is required to pick up schema changes.
type Provider struct {
	config Config
	logger *slog.Logger

	mu     sync.Mutex
	cached string
}

// NewProvider creates a schema context provider.
func NewProvider(config Config) *Provider {
	if config.Source == "" {
		config.Source = SourceIntrospected
	}
	if config.SampleLimit <= 0 {
		config.SampleLimit = defaultSampleLimit
	}
	if config.FS == nil {
		config.FS = afero.NewOsFs()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		config: config,
		logger: logger.With("component", "schema_context"),
	}
}

// GetContext returns the schema context, optionally with sample rows
// appended. It never fails the caller: a failed base load falls back to a
// minimal hard-coded description, and a failed sample fetch simply omits
// the samples section.
func (p *Provider) GetContext(ctx context.Context, includeSamples bool) string {
	base := p.baseContext(ctx)

	if !includeSamples {
		return base
	}

	samples, err := p.sampleSection(ctx)
	if err != nil {
		p.logger.Warn("failed to fetch sample rows, omitting samples section", "error", err)
		return base
	}
	return base + samples
}

// baseContext returns the cached description, loading it on first use.
func (p *Provider) baseContext(ctx context.Context) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != "" {
		return p.cached
	}

	text, err := p.load(ctx)
	if err != nil {
		p.logger.Error("failed to load schema description, using fallback", "error", err)
		// Not cached: a later turn may succeed.
		return p.fallbackContext()
	}

	p.cached = text
	return p.cached
}

func (p *Provider) load(ctx context.Context) (string, error) {
	var description string
	var err error
	switch p.config.Source {
	case SourceStatic:
		description, err = p.loadStatic()
	default:
		description, err = p.introspect(ctx)
	}
	if err != nil {
		return "", err
	}
	return description + p.queryGuidelines(), nil
}

func (p *Provider) loadStatic() (string, error) {
	data, err := afero.ReadFile(p.config.FS, p.config.StaticPath)
	if err != nil {
		return "", fmt.Errorf("failed to read schema document %s: %w", p.config.StaticPath, err)
	}
	return strings.TrimRight(string(data), "\n") + "\n", nil
}

func (p *Provider) sampleSection(ctx context.Context) (string, error) {
	result, err := p.config.Gateway.SampleRows(ctx, p.config.SampleLimit)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n## Sample Data (%d rows):\n\n", result.RowCount)
	b.WriteString(warehouse.FormatResult(result))
	b.WriteByte('\n')
	return b.String(), nil
}

// fallbackContext is the minimal description used when the base load fails.
func (p *Provider) fallbackContext() string {
	return fmt.Sprintf(`# Weather Data Table

**Table**: `+"`%s`"+`
Current weather observations by location. The schema could not be loaded;
inspect the table with a small SELECT before relying on column names.
`, p.config.Gateway.TableID()) + p.queryGuidelines()
}
