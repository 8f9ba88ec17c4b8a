package llmclient

import (
	"context"

	"wxcopilot/src/aisdk"
)

var _ aisdk.ModelClient = (*ModelClient)(nil)

// ModelClient binds the client to a single model so callers never need to
// carry the model identifier around.
type ModelClient struct {
	client *Client
	model  string
}

// CreateChatCompletion sends the request with the bound model set.
func (m *ModelClient) CreateChatCompletion(ctx context.Context, req *aisdk.ChatCompletionRequest) (*aisdk.ChatCompletionResponse, error) {
	if req.Model == "" {
		req.Model = m.model
	}
	return m.client.CreateChatCompletion(ctx, req)
}

// ModelID returns the bound model identifier.
func (m *ModelClient) ModelID() string {
	return m.model
}
