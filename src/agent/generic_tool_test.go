package agent

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wxcopilot/src/aisdk"
)

type echoInput struct {
	Text  string `json:"text" required:"true" description:"Text to echo"`
	Times int    `json:"times" description:"Repeat count"`
}

type echoOutput struct {
	Echoed string `json:"echoed"`
}

func newEchoTool(t *testing.T) Tool {
	t.Helper()
	tool, err := NewGenericTool("echo", "Echoes text back",
		func(ctx context.Context, input echoInput) (echoOutput, error) {
			out := input.Text
			for i := 1; i < input.Times; i++ {
				out += " " + input.Text
			}
			return echoOutput{Echoed: out}, nil
		})
	require.NoError(t, err)
	return tool
}

func callWith(args string) *aisdk.ToolCall {
	return &aisdk.ToolCall{
		ID:   "call_1",
		Type: "function",
		Function: aisdk.FunctionCall{
			Name:      "echo",
			Arguments: json.RawMessage(args),
		},
	}
}

func TestGenericToolExecute(t *testing.T) {
	tool := newEchoTool(t)

	resp, err := tool.Execute(context.Background(), callWith(`{"text":"hi","times":2}`))
	require.NoError(t, err)
	require.False(t, resp.IsError)

	var out echoOutput
	require.NoError(t, json.Unmarshal(resp.Content, &out))
	assert.Equal(t, "hi hi", out.Echoed)
}

func TestGenericToolMissingRequiredField(t *testing.T) {
	tool := newEchoTool(t)

	resp, err := tool.Execute(context.Background(), callWith(`{"times":2}`))
	require.NoError(t, err, "validation failures are tool responses, not errors")
	assert.True(t, resp.IsError)
	assert.Contains(t, string(resp.Content), "text")
}

func TestGenericToolMalformedArguments(t *testing.T) {
	tool := newEchoTool(t)

	resp, err := tool.Execute(context.Background(), callWith(`{"text":`))
	require.NoError(t, err)
	assert.True(t, resp.IsError)
}

func TestGenericToolSchema(t *testing.T) {
	tool := newEchoTool(t)

	assert.Equal(t, "echo", tool.GetName())
	assert.Equal(t, "function", tool.GetType())

	params := tool.GetParameters()
	require.NotNil(t, params)

	raw, err := json.Marshal(params)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"text"`)
	assert.Contains(t, string(raw), `"required"`)
}

func TestToolboxRegistration(t *testing.T) {
	toolbox := NewToolbox[Tool]()
	tool := newEchoTool(t)

	require.NoError(t, toolbox.RegisterTool(tool))
	assert.True(t, toolbox.HasTool("echo"))
	assert.Error(t, toolbox.RegisterTool(tool), "duplicate registration must fail")

	_, err := toolbox.ExecuteTool(context.Background(), &aisdk.ToolCall{
		Function: aisdk.FunctionCall{Name: "missing"},
	})
	assert.Error(t, err)
}
