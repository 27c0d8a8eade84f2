// Package agents provides a structured-output chat agent bound to an
// instructor client. The language model interface is the OpenAI-compatible
// chat-completions protocol pointed at the configured provider endpoint.
package agents

import (
	"errors"

	"context"

	"github.com/bububa/instructor-go/pkg/instructor"
	openai "github.com/sashabaranov/go-openai"

	"github.com/medassist/medichat/components"
	"github.com/medassist/medichat/components/systemprompt"
	"github.com/medassist/medichat/components/systemprompt/house"
	"github.com/medassist/medichat/schema"
)

// ErrUnsupportedClient is returned when the instructor client does not speak
// the OpenAI-compatible protocol this module is configured for.
var ErrUnsupportedClient = errors.New("unsupported instructor client")

// Config represents general agents configuration
type Config struct {
	// client for interacting with the language model
	client instructor.Instructor
	// memory stores chat history; nil makes the agent stateless, so repeated
	// calls depend only on the supplied input
	memory *components.Memory
	// systemPromptGenerator generates the system prompt
	systemPromptGenerator systemprompt.Generator
	// model is the llm model identifier
	model string
	// temperature for response generation, typically ranging from 0 to 1
	temperature float32
	// maxTokens is the maximum number of tokens allowed in the response
	maxTokens int
	// name is the agent name presentation
	name string
}

// Agent obtains schema-validated responses from a language model.
type Agent[I schema.Schema, O schema.Schema] struct {
	Config
}

// NewAgent initializes the Agent
func NewAgent[I schema.Schema, O schema.Schema](options ...Option) *Agent[I, O] {
	ret := new(Agent[I, O])
	for _, opt := range options {
		opt(&ret.Config)
	}
	if ret.systemPromptGenerator == nil {
		ret.systemPromptGenerator = house.New()
	}
	return ret
}

func (a Agent[I, O]) Name() string {
	return a.name
}

// ResetMemory resets the memory to an empty state
func (a *Agent[I, O]) ResetMemory() {
	if a.memory != nil {
		a.memory.Reset()
	}
}

// Run obtains a response from the language model synchronously.
func (a *Agent[I, O]) Run(ctx context.Context, userInput *I, output *O, llmResp *components.LLMResponse) error {
	messages := a.buildMessages(userInput)
	switch clt := a.client.(type) {
	case *instructor.InstructorOpenAI:
		chatReq := openai.ChatCompletionRequest{
			Model:       a.model,
			Temperature: a.temperature,
			MaxTokens:   a.maxTokens,
			Messages:    messages,
		}
		res, err := clt.CreateChatCompletion(ctx, chatReq, output)
		if err != nil {
			return err
		}
		if llmResp != nil {
			llmResp.FromOpenAI(&res)
		}
	default:
		return ErrUnsupportedClient
	}
	if a.memory != nil {
		a.memory.NewMessage(components.AssistantRole, *output)
	}
	return nil
}

func (a *Agent[I, O]) buildMessages(userInput *I) []openai.ChatCompletionMessage {
	var history []components.Message
	if a.memory != nil {
		if userInput != nil {
			a.memory.NewTurn()
			a.memory.NewMessage(components.UserRole, *userInput)
		}
		history = a.memory.PromptHistory()
	} else if userInput != nil {
		history = []components.Message{*components.NewMessage(components.UserRole, *userInput)}
	}
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    components.SystemRole,
		Content: a.systemPromptGenerator.Generate(),
	})
	for _, msg := range history {
		v := new(openai.ChatCompletionMessage)
		msg.ToOpenAI(v)
		messages = append(messages, *v)
	}
	return messages
}

// SystemPrompt returns the system prompt
func (a *Agent[I, O]) SystemPrompt() string {
	return a.systemPromptGenerator.Generate()
}

// RegisterSystemPromptContextProvider registers a new context provider
func (a *Agent[I, O]) RegisterSystemPromptContextProvider(provider systemprompt.ContextProvider) {
	a.systemPromptGenerator.AddContextProviders(provider)
}
