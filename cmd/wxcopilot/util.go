package main

import (
	"context"
	"fmt"
	"log/slog"

	"wxcopilot/src/app"
	"wxcopilot/src/config"
)

// buildApp loads configuration and initializes the application. The
// --log-level flag overrides the LOG_LEVEL environment variable.
func buildApp(ctx context.Context, cli *CLI, opts app.Options) (*app.App, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}

	logger := createCLILogger(cfg.LogLevel)

	a, err := app.New(ctx, cfg, logger, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("startup failed: %w", err)
	}
	return a, logger, nil
}
