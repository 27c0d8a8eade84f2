package components

import (
	"github.com/rs/xid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/medassist/medichat/schema"
)

// NewTurnID returns a new turn ID.
func NewTurnID() string {
	return xid.New().String()
}

// MessageRole is the role of the message sender (e.g., 'user', 'system', 'tool')
type MessageRole = string

const (
	SystemRole    MessageRole = "system"
	UserRole      MessageRole = "user"
	AssistantRole MessageRole = "assistant"
	ToolRole      MessageRole = "tool"
)

// Message represents a single entry in the chat history.
type Message struct {
	content schema.Schema
	role    MessageRole
	// turnID groups the user message and the reply it produced.
	turnID string
	// failed marks a turn whose agent call errored. Failed turns stay in the
	// visible history but are excluded from prompts so a resubmission does not
	// duplicate context.
	failed bool
}

// NewMessage returns a new Message
func NewMessage(role MessageRole, content schema.Schema) *Message {
	return &Message{
		role:    role,
		content: content,
	}
}

// SetTurnID set message turnID
func (m *Message) SetTurnID(turnID string) *Message {
	m.turnID = turnID
	return m
}

// Role returns message role
func (m Message) Role() MessageRole {
	return m.role
}

// Content returns message content
func (m Message) Content() schema.Schema {
	return m.content
}

// TurnID returns message turnID
func (m Message) TurnID() string {
	return m.turnID
}

// Failed reports whether the message belongs to a failed turn.
func (m Message) Failed() bool {
	return m.failed
}

// ToOpenAI convert message to openai ChatCompletionMessage
func (m Message) ToOpenAI(dist *openai.ChatCompletionMessage) {
	dist.Role = m.role
	dist.Content = schema.Stringify(m.content)
}
