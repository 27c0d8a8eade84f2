package components

import (
	"fmt"
	"sync"

	"github.com/medassist/medichat/schema"
)

// Memory manages the chat history for one session.
// threadsafe
type Memory struct {
	// history is a list of messages representing the chat history.
	history []Message
	// turnID is the ID of the current turn.
	turnID string
	// maxMessages is the maximum number of messages to keep in history.
	// When exceeded, oldest messages are removed first. Zero means unbounded.
	maxMessages int
	mtx         *sync.RWMutex
}

// NewMemory initializes the Memory with an empty history and optional constraints.
func NewMemory(maxMessages int) *Memory {
	return &Memory{
		maxMessages: maxMessages,
		history:     make([]Message, 0, maxMessages+1),
		mtx:         new(sync.RWMutex),
	}
}

// MaxMessages returns the max number of messages
func (m *Memory) MaxMessages() int {
	return m.maxMessages
}

// SetMaxMessages set the max number of messages
func (m *Memory) SetMaxMessages(maxMessages int) *Memory {
	m.maxMessages = maxMessages
	return m
}

// TurnID returns the current turn ID
func (m *Memory) TurnID() string {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return m.turnID
}

// NewTurn starts a new turn and returns its generated ID.
func (m *Memory) NewTurn() string {
	m.mtx.Lock()
	m.turnID = NewTurnID()
	id := m.turnID
	m.mtx.Unlock()
	return id
}

// NewMessage adds a message to the chat history and manages overflow.
func (m *Memory) NewMessage(role MessageRole, content schema.Schema) *Message {
	m.mtx.Lock()
	msg := NewMessage(role, content).SetTurnID(m.turnID)
	m.history = append(m.history, *msg)
	if m.maxMessages > 0 && len(m.history) > m.maxMessages {
		m.history = m.history[1:]
	}
	m.mtx.Unlock()
	return msg
}

// History returns a copy of the full chat history, failed turns included.
func (m *Memory) History() []Message {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	history := make([]Message, len(m.history))
	copy(history, m.history)
	return history
}

// PromptHistory returns the history used as model context. Turns marked as
// failed are skipped so a retried question does not appear twice.
func (m *Memory) PromptHistory() []Message {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	history := make([]Message, 0, len(m.history))
	for _, msg := range m.history {
		if msg.failed {
			continue
		}
		history = append(history, msg)
	}
	return history
}

// FailTurn marks every message of a turn as failed.
// Returns an error if the turn ID is not found in the memory.
func (m *Memory) FailTurn(turnID string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	found := false
	for idx := range m.history {
		if m.history[idx].turnID == turnID {
			m.history[idx].failed = true
			found = true
		}
	}
	if !found {
		return fmt.Errorf("turn %s not found in memory", turnID)
	}
	return nil
}

// DeleteTurn removes messages from the memory by turn ID.
// Returns an error if the turn ID is not found in the memory.
func (m *Memory) DeleteTurn(turnID string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	l := len(m.history)
	list := make([]Message, 0, l)
	for _, v := range m.history {
		if v.turnID == turnID {
			continue
		}
		list = append(list, v)
	}
	m.history = list
	num := len(list)
	if num == l {
		return fmt.Errorf("turn %s not found in memory", turnID)
	}
	if num == 0 {
		m.turnID = ""
	} else if turnID == m.turnID {
		m.turnID = m.history[num-1].turnID
	}
	return nil
}

// Reset drops the whole history.
func (m *Memory) Reset() {
	m.mtx.Lock()
	m.history = make([]Message, 0, m.maxMessages)
	m.turnID = ""
	m.mtx.Unlock()
}

// MessageCount returns the number of messages in the chat history.
func (m *Memory) MessageCount() int {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return len(m.history)
}
