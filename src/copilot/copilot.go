package copilot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"wxcopilot/src/warehouse"
	"wxcopilot/src/wxagent"
)

// Response is the result of one conversational turn. The four fields are
// present on every path: commands, questions, and failures all produce the
// same shape.
type Response struct {
	Answer     string   `json:"answer"`
	Success    bool     `json:"success"`
	IsCommand  bool     `json:"is_command,omitempty"`
	Error      string   `json:"error,omitempty"`
	SQLQueries []string `json:"sql_queries,omitempty"`
}

// QuestionAgent answers a natural-language question about the warehouse.
type QuestionAgent interface {
	Ask(ctx context.Context, question string) *wxagent.AgentResponse
}

// SchemaContext supplies the schema description used by the /schema command.
type SchemaContext interface {
	GetContext(ctx context.Context, includeSamples bool) string
}

// TurnStore persists conversation turns across process restarts.
type TurnStore interface {
	SaveTurn(ctx context.Context, sessionID, role, content string, sqlQueries []string) error
	ClearSession(ctx context.Context, sessionID string) error
}

// Config holds the dependencies of a Copilot.
type Config struct {
	Agent     QuestionAgent
	Schema    SchemaContext
	Gateway   warehouse.Gateway
	ModelID   string
	MaxTurns  int
	// MaxQueryResults is surfaced by the status command.
	MaxQueryResults int
	SessionID       string
	Store           TurnStore // optional
	Logger          *slog.Logger
}

// Copilot dispatches conversational turns between the command handlers and
// the question agent, maintaining session state along the way.
type Copilot struct {
	agent      QuestionAgent
	schema     SchemaContext
	gateway    warehouse.Gateway
	modelID    string
	maxResults int
	session    *Session
	sessionID  string
	store      TurnStore
	logger     *slog.Logger
}

// New creates a Copilot. Agent, Schema, and Gateway are required.
func New(cfg Config) (*Copilot, error) {
	if cfg.Agent == nil {
		return nil, fmt.Errorf("copilot: question agent is required")
	}
	if cfg.Schema == nil {
		return nil, fmt.Errorf("copilot: schema context is required")
	}
	if cfg.Gateway == nil {
		return nil, fmt.Errorf("copilot: warehouse gateway is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Copilot{
		agent:      cfg.Agent,
		schema:     cfg.Schema,
		gateway:    cfg.Gateway,
		modelID:    cfg.ModelID,
		maxResults: cfg.MaxQueryResults,
		session:    NewSession(cfg.MaxTurns),
		sessionID:  cfg.SessionID,
		store:      cfg.Store,
		logger:     logger,
	}, nil
}

// Session exposes the underlying session, primarily for front ends that
// render the transcript themselves.
func (c *Copilot) Session() *Session {
	return c.session
}

// Resume seeds the in-memory session from previously persisted turns
// without writing them back to the store.
func (c *Copilot) Resume(turns []Turn) {
	for _, t := range turns {
		c.session.Append(t.Role, t.Content)
	}
}

// ProcessTurn handles one unit of user input: a slash command or a
// natural-language question. It never panics out to the caller; internal
// failures become failed responses.
func (c *Copilot) ProcessTurn(ctx context.Context, input string) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("turn panicked", "panic", r)
			resp = &Response{
				Answer:  "An internal error occurred while processing your request.",
				Success: false,
				Error:   fmt.Sprintf("panic: %v", r),
			}
		}
	}()

	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &Response{
			Answer:  "Please enter a question or a command. Type /help for available commands.",
			Success: false,
			Error:   "empty input",
		}
	}

	if strings.HasPrefix(trimmed, "/") {
		return c.dispatchCommand(ctx, trimmed)
	}

	c.appendTurn(ctx, RoleUser, trimmed, nil)

	agentResp := c.agent.Ask(ctx, trimmed)
	if agentResp.Success {
		c.appendTurn(ctx, RoleAssistant, agentResp.Answer, agentResp.SQLQueries)
	}

	return &Response{
		Answer:     agentResp.Answer,
		Success:    agentResp.Success,
		Error:      agentResp.Error,
		SQLQueries: agentResp.SQLQueries,
	}
}

func (c *Copilot) appendTurn(ctx context.Context, role, content string, sqlQueries []string) {
	c.session.Append(role, content)
	if c.store == nil {
		return
	}
	if err := c.store.SaveTurn(ctx, c.sessionID, role, content, sqlQueries); err != nil {
		c.logger.Warn("failed to persist turn", "role", role, "error", err)
	}
}
