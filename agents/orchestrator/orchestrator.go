// Package orchestrator implements the tool-routing agent. It does not route
// between retrieval and search itself: the two tools are advertised to the
// language model as callable functions, and the model decides per turn
// whether to call zero, one, or both before synthesizing the final answer.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/medassist/medichat/components"
	"github.com/medassist/medichat/tools"
)

// DefaultInstructions encodes the tool selection policy as natural-language
// instructions to the model rather than application branching.
const DefaultInstructions = `You are a professional Medical Assistant AI. For every user query,
you should analyze whether the information exists in your medical knowledge base (vector store)
or if up-to-date information is needed from the internet.

You have two tools:
- retrieval: For medical knowledge stored in the vector database.
- search_tool: For finding the latest info via online search.

**If the question is about recent treatments, statistics, new diseases, or evolving guidelines, always use search_tool.**
**If the question is a general medical explanation, use retrieval.**
**If unsure, use both and combine results.**

Always provide structured responses with clear sections and bullet points where necessary.
Use only simple HTML tags (<b>, <i>, <ul>, <li>, <br>) for formatting.
Avoid repetition between retrieved and searched content. Summarize both into one clear answer.`

const defaultMaxToolRounds = 4

var errNoChoices = errors.New("model returned no choices")

// ChatCompleter is the slice of the OpenAI-compatible client the agent needs.
// *openai.Client satisfies it.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Agent owns a fixed set of tools attached at construction time and a chat
// client. The tool set does not change for the lifetime of a session.
type Agent struct {
	client        ChatCompleter
	model         string
	temperature   float32
	maxTokens     int
	instructions  string
	tools         []tools.Tool
	maxToolRounds int
	name          string
}

func New(options ...Option) *Agent {
	ret := new(Agent)
	for _, opt := range options {
		opt(ret)
	}
	if ret.instructions == "" {
		ret.instructions = DefaultInstructions
	}
	if ret.maxToolRounds <= 0 {
		ret.maxToolRounds = defaultMaxToolRounds
	}
	if ret.name == "" {
		ret.name = "Medical Assistant"
	}
	return ret
}

func (a *Agent) Name() string {
	return a.name
}

// Tools returns the capabilities attached to the agent.
func (a *Agent) Tools() []tools.Tool {
	return a.tools
}

// Respond produces one final text answer for the given conversation history.
// The response is derived solely from the supplied history; the agent itself
// holds no conversation state.
func (a *Agent) Respond(ctx context.Context, history []components.Message) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    components.SystemRole,
		Content: a.instructions,
	})
	for _, msg := range history {
		v := new(openai.ChatCompletionMessage)
		msg.ToOpenAI(v)
		messages = append(messages, *v)
	}

	defs := a.toolDefinitions()
	for round := 0; round <= a.maxToolRounds; round++ {
		res, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       a.model,
			Temperature: a.temperature,
			MaxTokens:   a.maxTokens,
			Messages:    messages,
			Tools:       defs,
		})
		if err != nil {
			return "", &components.AgentError{Agent: a.name, Err: err}
		}
		if len(res.Choices) == 0 {
			return "", &components.AgentError{Agent: a.name, Err: errNoChoices}
		}
		msg := res.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}
		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			result, err := a.dispatch(ctx, call)
			if err != nil {
				return "", &components.AgentError{Agent: a.name, Err: err}
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       components.ToolRole,
				Content:    result,
				Name:       call.Function.Name,
				ToolCallID: call.ID,
			})
		}
	}
	return "", &components.AgentError{Agent: a.name, Err: fmt.Errorf("tool call limit of %d rounds exceeded", a.maxToolRounds)}
}

func (a *Agent) toolDefinitions() []openai.Tool {
	defs := make([]openai.Tool, 0, len(a.tools))
	for _, t := range a.tools {
		defs = append(defs, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.InputSchema(),
			},
		})
	}
	return defs
}

func (a *Agent) dispatch(ctx context.Context, call openai.ToolCall) (string, error) {
	for _, t := range a.tools {
		if t.Name() == call.Function.Name {
			return t.Call(ctx, call.Function.Arguments)
		}
	}
	return "", fmt.Errorf("model requested unknown tool %q", call.Function.Name)
}
