package wxagent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"wxcopilot/src/agent"
	"wxcopilot/src/aisdk"
	"wxcopilot/src/warehouse"
)

// SchemaContextProvider supplies the schema text injected into every
// question.
type SchemaContextProvider interface {
	GetContext(ctx context.Context, includeSamples bool) string
}

// AgentResponse is the outcome of one question, independent of how many
// tool calls occurred inside it.
type AgentResponse struct {
	Question   string
	Answer     string
	Success    bool
	Error      string
	SQLQueries []string // statements passed to execute_query, in order
}

// Config holds configuration for creating a Runner.
type Config struct {
	Model                aisdk.ModelClient
	Gateway              warehouse.Gateway
	SchemaContext        SchemaContextProvider
	EnableValidationTool bool
	MaxToolRounds        int
	TurnTimeout          time.Duration
	Temperature          float64
	MaxQueryResults      int
	Logger               *slog.Logger
}

// Runner owns the bounded tool-calling loop for one conversation.
type Runner struct {
	config  Config
	toolbox *agent.DefaultToolbox
	logger  *slog.Logger
}

// NewRunner creates a runner with the warehouse tools registered.
func NewRunner(config Config) (*Runner, error) {
	if config.Model == nil {
		return nil, fmt.Errorf("wxagent: model client is required")
	}
	if config.Gateway == nil {
		return nil, fmt.Errorf("wxagent: warehouse gateway is required")
	}
	if config.SchemaContext == nil {
		return nil, fmt.Errorf("wxagent: schema context provider is required")
	}
	if config.MaxToolRounds <= 0 {
		config.MaxToolRounds = DefaultMaxToolRounds
	}
	if config.TurnTimeout <= 0 {
		config.TurnTimeout = DefaultTurnTimeout
	}
	if config.Temperature == 0 {
		config.Temperature = DefaultTemperature
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "wxagent")

	toolbox, err := NewToolbox(config.Gateway, config.EnableValidationTool)
	if err != nil {
		return nil, err
	}
	toolbox.RegisterMiddleware(agent.LoggingMiddleware(logger))

	return &Runner{
		config:  config,
		toolbox: toolbox,
		logger:  logger,
	}, nil
}

// Ask answers one natural language question. Individual SQL failures are fed
// back to the model as tool errors; the response is unsuccessful only when
// the completion service fails or the round limit is exhausted.
func (r *Runner) Ask(ctx context.Context, question string) *AgentResponse {
	ctx, cancel := context.WithTimeout(ctx, r.config.TurnTimeout)
	defer cancel()

	r.logger.Info("processing question", "question", question)

	schemaContext := r.config.SchemaContext.GetContext(ctx, false)
	enhanced := EnhanceQuestion(schemaContext, question, EnhanceOptions{
		FullTableName:   r.config.Gateway.TableID(),
		MaxQueryResults: r.config.MaxQueryResults,
	})

	ag := &agent.Agent{
		Model:   r.config.Model,
		Toolbox: r.toolbox,
		Logger:  r.logger,
	}
	temperature := r.config.Temperature

	messages := []*aisdk.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: enhanced},
	}

	response := &AgentResponse{Question: question}

	for round := 1; round <= r.config.MaxToolRounds; round++ {
		ag.Temperature = &temperature

		reply, err := ag.SendMessage(ctx, messages, nil)
		if err != nil {
			r.logger.Error("completion request failed", "round", round, "error", err)
			response.Answer = fmt.Sprintf("Error processing query: %v", err)
			response.Error = err.Error()
			return response
		}
		messages = append(messages, reply)

		if len(reply.ToolCalls) == 0 {
			answer := reply.Content
			if answer == "" {
				answer = "No answer generated"
			}
			response.Answer = answer
			response.Success = true
			r.logger.Info("question answered", "rounds", round, "queries", len(response.SQLQueries))
			return response
		}

		for i := range reply.ToolCalls {
			call := &reply.ToolCalls[i]
			if call.Function.Name == ExecuteQueryToolName {
				if sql := extractQuery(call.Function.Arguments); sql != "" {
					response.SQLQueries = append(response.SQLQueries, sql)
				}
			}
			messages = append(messages, r.runToolCall(ctx, call))
		}
	}

	err := fmt.Sprintf("no final answer after %d tool-call rounds", r.config.MaxToolRounds)
	r.logger.Warn("round limit exhausted", "max_rounds", r.config.MaxToolRounds)
	response.Answer = "I could not produce a working query for this question. Try rephrasing it or narrowing it down."
	response.Error = err
	return response
}

// runToolCall dispatches one tool call and wraps the outcome as a tool
// message. Failures become readable text for the model, never an abort.
func (r *Runner) runToolCall(ctx context.Context, call *aisdk.ToolCall) *aisdk.Message {
	resp, err := r.toolbox.ExecuteTool(ctx, call)

	var content string
	switch {
	case err != nil:
		content = fmt.Sprintf("tool error: %v", err)
	case resp.IsError:
		content = fmt.Sprintf("tool error: %s", resp.Content)
	default:
		content = string(resp.Content)
	}

	return &aisdk.Message{
		Role:       "tool",
		Content:    content,
		Name:       call.Function.Name,
		ToolCallID: call.ID,
	}
}

func extractQuery(arguments json.RawMessage) string {
	var input ExecuteQueryInput
	if err := json.Unmarshal(arguments, &input); err != nil {
		return ""
	}
	return input.Query
}
