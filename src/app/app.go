// Package app wires the configured components into a running application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"wxcopilot/src/config"
	"wxcopilot/src/copilot"
	"wxcopilot/src/llmclient"
	"wxcopilot/src/schemactx"
	"wxcopilot/src/storage"
	"wxcopilot/src/warehouse"
	"wxcopilot/src/wxagent"
)

// App holds all initialized services.
type App struct {
	Config  *config.Config
	Model   *llmclient.ModelClient
	Gateway *warehouse.BigQueryGateway
	Schema  *schemactx.Provider
	Runner  *wxagent.Runner
	Store   *storage.DB
	Copilot *copilot.Copilot
	Logger  *slog.Logger

	sessionID string
}

// Options adjusts optional behavior of New.
type Options struct {
	// SessionID resumes a specific persisted session; empty starts a new one.
	SessionID string
	// ResumeLast resumes the most recently used session when SessionID is
	// empty.
	ResumeLast bool
	// DisableStore skips transcript persistence.
	DisableStore bool
}

// New builds the full application from a validated configuration.
// Construction fails fast: an unreachable warehouse or a broken transcript
// store is reported before the first turn is accepted.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	gateway, err := warehouse.NewBigQueryGateway(ctx, warehouse.Config{
		ProjectID:      cfg.ProjectID,
		TableProjectID: cfg.TableProjectID,
		Dataset:        cfg.Dataset,
		Table:          cfg.Table,
		MaxRows:        cfg.MaxQueryResults,
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create warehouse gateway: %w", err)
	}

	// Client construction only resolves credentials; this is the first call
	// that actually reaches the configured project.
	if err := verifyWarehouse(ctx, gateway); err != nil {
		gateway.Close()
		return nil, err
	}

	schema := schemactx.NewProvider(schemactx.Config{
		Source:     schemactx.Source(cfg.SchemaSource),
		StaticPath: cfg.StaticSchemaPath,
		Gateway:    gateway,
		Logger:     logger,
	})

	client := llmclient.NewClient(llmclient.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Logger:  logger,
	})
	model := client.Model(cfg.Model)

	runner, err := wxagent.NewRunner(wxagent.Config{
		Model:                model,
		Gateway:              gateway,
		SchemaContext:        schema,
		EnableValidationTool: cfg.EnableValidationTool,
		MaxToolRounds:        cfg.MaxToolRounds,
		TurnTimeout:          cfg.TurnTimeout,
		Temperature:          cfg.Temperature,
		MaxQueryResults:      cfg.MaxQueryResults,
		Logger:               logger,
	})
	if err != nil {
		gateway.Close()
		return nil, fmt.Errorf("failed to create agent runner: %w", err)
	}

	var store *storage.DB
	if !opts.DisableStore {
		if err := config.EnsureParentDir(cfg.DatabasePath); err != nil {
			gateway.Close()
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		store, err = storage.Open(cfg.DatabasePath)
		if err != nil {
			gateway.Close()
			return nil, fmt.Errorf("failed to open transcript store: %w", err)
		}
	}

	sessionID := opts.SessionID
	resuming := sessionID != ""
	if sessionID == "" && opts.ResumeLast && store != nil {
		sessionID, err = store.LatestSessionID(ctx)
		if err != nil {
			logger.Warn("failed to look up latest session", "error", err)
		}
		resuming = sessionID != ""
	}
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	copilotCfg := copilot.Config{
		Agent:           runner,
		Schema:          schema,
		Gateway:         gateway,
		ModelID:         cfg.Model,
		MaxTurns:        cfg.MaxHistoryTurns,
		MaxQueryResults: cfg.MaxQueryResults,
		SessionID:       sessionID,
		Logger:          logger,
	}
	if store != nil {
		copilotCfg.Store = store
	}

	cp, err := copilot.New(copilotCfg)
	if err != nil {
		gateway.Close()
		if store != nil {
			store.Close()
		}
		return nil, err
	}

	a := &App{
		Config:    cfg,
		Model:     model,
		Gateway:   gateway,
		Schema:    schema,
		Runner:    runner,
		Store:     store,
		Copilot:   cp,
		Logger:    logger,
		sessionID: sessionID,
	}

	if store != nil && resuming {
		if err := a.resumeSession(ctx); err != nil {
			logger.Warn("failed to resume session", "session_id", sessionID, "error", err)
		}
	}

	return a, nil
}

// verifyWarehouse confirms the configured table is reachable so a bad
// project or table fails startup instead of the first question.
func verifyWarehouse(ctx context.Context, gw warehouse.Gateway) error {
	if err := gw.Ping(ctx); err != nil {
		return fmt.Errorf("warehouse unreachable: %w", err)
	}
	return nil
}

// SessionID returns the active session identifier.
func (a *App) SessionID() string {
	return a.sessionID
}

func (a *App) resumeSession(ctx context.Context) error {
	turns, err := a.Store.RecentTurns(ctx, a.sessionID, a.Config.MaxHistoryTurns)
	if err != nil {
		return err
	}

	resumed := make([]copilot.Turn, 0, len(turns))
	for _, t := range turns {
		resumed = append(resumed, copilot.Turn{Role: t.Role, Content: t.Content, CreatedAt: t.CreatedAt})
	}
	a.Copilot.Resume(resumed)
	a.Logger.Info("resumed session", "session_id", a.sessionID, "turns", len(resumed))
	return nil
}

// Close releases the warehouse client and transcript store.
func (a *App) Close() error {
	var firstErr error
	if a.Gateway != nil {
		if err := a.Gateway.Close(); err != nil {
			firstErr = err
		}
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
