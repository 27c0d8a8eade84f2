package orchestrator

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/medassist/medichat/components"
	"github.com/medassist/medichat/schema"
	"github.com/medassist/medichat/tools"
)

// scriptedClient replays a fixed sequence of responses and records every
// request it received.
type scriptedClient struct {
	responses []openai.ChatCompletionResponse
	err       error
	requests  []openai.ChatCompletionRequest
}

func (c *scriptedClient) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	c.requests = append(c.requests, request)
	if c.err != nil {
		return openai.ChatCompletionResponse{}, c.err
	}
	idx := len(c.requests) - 1
	if idx >= len(c.responses) {
		idx = len(c.responses) - 1
	}
	return c.responses[idx], nil
}

type echoTool struct {
	tools.Config
	result string
	err    error
	calls  []string
}

func newEchoTool(name, result string) *echoTool {
	t := &echoTool{result: result}
	t.SetName(name)
	t.SetDescription(name + " tool")
	return t
}

func (t *echoTool) InputSchema() any { return map[string]any{"type": "object"} }

func (t *echoTool) Call(ctx context.Context, arguments string) (string, error) {
	t.calls = append(t.calls, arguments)
	return t.result, t.err
}

func textChoice(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: components.AssistantRole, Content: content}},
		},
	}
}

func toolCallChoice(calls ...openai.ToolCall) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: components.AssistantRole, ToolCalls: calls}},
		},
	}
}

func history(content string) []components.Message {
	return []components.Message{
		*components.NewMessage(components.UserRole, schema.NewString(content)),
	}
}

func TestRespondDirect(t *testing.T) {
	client := &scriptedClient{responses: []openai.ChatCompletionResponse{
		textChoice("Hello! How can I help?"),
	}}
	agent := New(WithClient(client), WithModel("gemini-2.0-flash"))

	got, err := agent.Respond(context.Background(), history("Hello"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hello! How can I help?" {
		t.Errorf("answer mismatch, got:%s", got)
	}
	req := client.requests[0]
	if req.Messages[0].Role != components.SystemRole {
		t.Error("first message should carry the instructions")
	}
	if req.Messages[1].Content != "Hello" {
		t.Errorf("history should follow the instructions, got:%s", req.Messages[1].Content)
	}
}

func TestRespondAdvertisesTools(t *testing.T) {
	client := &scriptedClient{responses: []openai.ChatCompletionResponse{textChoice("ok")}}
	retrievalTool := newEchoTool("retrieval", "")
	searchTool := newEchoTool("search_tool", "")
	agent := New(WithClient(client), WithTools(retrievalTool, searchTool))

	if _, err := agent.Respond(context.Background(), history("question")); err != nil {
		t.Fatal(err)
	}
	defs := client.requests[0].Tools
	if len(defs) != 2 {
		t.Fatalf("expect 2 tool definitions, got:%d", len(defs))
	}
	if defs[0].Function.Name != "retrieval" || defs[1].Function.Name != "search_tool" {
		t.Errorf("tool names mismatch: %s %s", defs[0].Function.Name, defs[1].Function.Name)
	}
}

func TestRespondDispatchesToolCalls(t *testing.T) {
	retrievalTool := newEchoTool("retrieval", "<b>retrieved context</b>")
	client := &scriptedClient{responses: []openai.ChatCompletionResponse{
		toolCallChoice(openai.ToolCall{
			ID:   "call-1",
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      "retrieval",
				Arguments: `{"question":"What are the symptoms of Cancer?"}`,
			},
		}),
		textChoice("final synthesized answer"),
	}}
	agent := New(WithClient(client), WithTools(retrievalTool))

	got, err := agent.Respond(context.Background(), history("What are the symptoms of Cancer?"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "final synthesized answer" {
		t.Errorf("answer mismatch, got:%s", got)
	}
	if len(retrievalTool.calls) != 1 {
		t.Fatalf("expect 1 tool call, got:%d", len(retrievalTool.calls))
	}
	// the second request must contain the assistant tool-call message and the
	// tool result keyed to the call ID
	second := client.requests[1].Messages
	last := second[len(second)-1]
	if last.Role != components.ToolRole || last.ToolCallID != "call-1" {
		t.Errorf("tool result message malformed: %+v", last)
	}
	if last.Content != "<b>retrieved context</b>" {
		t.Errorf("tool result content mismatch: %s", last.Content)
	}
}

func TestRespondUnknownTool(t *testing.T) {
	client := &scriptedClient{responses: []openai.ChatCompletionResponse{
		toolCallChoice(openai.ToolCall{
			ID:       "call-1",
			Function: openai.FunctionCall{Name: "nonexistent"},
		}),
	}}
	agent := New(WithClient(client))

	_, err := agent.Respond(context.Background(), history("question"))
	var aerr *components.AgentError
	if !errors.As(err, &aerr) {
		t.Fatalf("expect AgentError, got:%v", err)
	}
}

func TestRespondToolError(t *testing.T) {
	failing := newEchoTool("retrieval", "")
	failing.err = errors.New("vector store unreachable")
	client := &scriptedClient{responses: []openai.ChatCompletionResponse{
		toolCallChoice(openai.ToolCall{
			ID:       "call-1",
			Function: openai.FunctionCall{Name: "retrieval"},
		}),
	}}
	agent := New(WithClient(client), WithTools(failing))

	_, err := agent.Respond(context.Background(), history("question"))
	if err == nil || !errors.Is(err, failing.err) {
		t.Errorf("tool failure should surface, got:%v", err)
	}
}

func TestRespondClientError(t *testing.T) {
	client := &scriptedClient{err: errors.New("rate limited")}
	agent := New(WithClient(client), WithName("medichat"))

	_, err := agent.Respond(context.Background(), history("question"))
	var aerr *components.AgentError
	if !errors.As(err, &aerr) {
		t.Fatalf("expect AgentError, got:%v", err)
	}
	if aerr.Agent != "medichat" {
		t.Errorf("agent name mismatch, got:%s", aerr.Agent)
	}
}

func TestRespondNoChoices(t *testing.T) {
	client := &scriptedClient{responses: []openai.ChatCompletionResponse{{}}}
	agent := New(WithClient(client))

	if _, err := agent.Respond(context.Background(), history("question")); err == nil {
		t.Error("expect error when the model returns no choices")
	}
}

func TestRespondToolRoundLimit(t *testing.T) {
	looping := newEchoTool("retrieval", "partial")
	client := &scriptedClient{responses: []openai.ChatCompletionResponse{
		toolCallChoice(openai.ToolCall{
			ID:       "call-1",
			Function: openai.FunctionCall{Name: "retrieval"},
		}),
	}}
	agent := New(WithClient(client), WithTools(looping), WithMaxToolRounds(2))

	_, err := agent.Respond(context.Background(), history("question"))
	var aerr *components.AgentError
	if !errors.As(err, &aerr) {
		t.Fatalf("expect AgentError after the round limit, got:%v", err)
	}
	if len(looping.calls) != 3 {
		t.Errorf("expect 3 dispatches for limit 2 (rounds 0..2), got:%d", len(looping.calls))
	}
}

func TestDefaultInstructions(t *testing.T) {
	client := &scriptedClient{responses: []openai.ChatCompletionResponse{textChoice("ok")}}
	agent := New(WithClient(client))
	if _, err := agent.Respond(context.Background(), history("hi")); err != nil {
		t.Fatal(err)
	}
	if client.requests[0].Messages[0].Content != DefaultInstructions {
		t.Error("default instructions should be used when none are set")
	}
}
