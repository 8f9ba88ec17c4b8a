// Package agent provides the tool-calling primitives shared by agents.
package agent

import (
	"context"
	"log/slog"

	"wxcopilot/src/aisdk"
)

// Agent binds a model client to a toolbox and a system prompt.
type Agent struct {
	SystemPrompt string
	Model        aisdk.ModelClient
	Toolbox      *DefaultToolbox
	Temperature  *float64
	Logger       *slog.Logger
}

// SendMessage submits the running exchange plus an optional new message and
// returns the model's reply. The full message slice is resubmitted on every
// call, per the tool-calling protocol.
func (a *Agent) SendMessage(ctx context.Context, messages []*aisdk.Message, message *aisdk.Message) (*aisdk.Message, error) {
	if message != nil {
		messages = append(messages, message)
	}

	var chatTools []*aisdk.ChatTool
	if a.Toolbox != nil {
		chatTools = ToChatTools(a.Toolbox.Tools())
	}

	ccr := &aisdk.ChatCompletionRequest{
		Messages:    messages,
		Tools:       chatTools,
		Temperature: a.Temperature,
	}
	response, err := a.Model.CreateChatCompletion(ctx, ccr)
	if err != nil {
		return nil, err
	}

	return response.FirstMessage()
}
