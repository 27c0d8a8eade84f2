// Package session binds one conversation to one agent: it keeps the
// alternating user/assistant history, serializes concurrent messages, and
// keeps a failed exchange from corrupting the context of the next one.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/medassist/medichat/components"
	"github.com/medassist/medichat/schema"
)

// Responder produces the assistant reply for the conversation so far.
type Responder interface {
	Respond(ctx context.Context, history []components.Message) (string, error)
}

// State of a session lifecycle.
type State int32

const (
	Uninitialized State = iota
	Active
	Closed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Active:
		return "active"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// ErrClosed is returned when a message arrives after Close.
type sessionError string

func (e sessionError) Error() string { return string(e) }

const ErrClosed = sessionError("session: closed")

// Session owns a single conversation. All methods are safe for concurrent
// use; OnMessage holds the session lock for the full exchange so overlapping
// messages are answered one at a time in arrival order.
type Session struct {
	id     string
	agent  Responder
	memory *components.Memory
	logger *slog.Logger

	mu    sync.Mutex
	state atomic.Int32
	turns atomic.Uint64
	fails atomic.Uint64
}

type Option func(*Session)

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func WithMemory(m *components.Memory) Option {
	return func(s *Session) { s.memory = m }
}

// New starts an Active session around the given agent.
func New(agent Responder, opts ...Option) *Session {
	s := &Session{
		id:    uuid.NewString(),
		agent: agent,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.memory == nil {
		s.memory = components.NewMemory(0)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With(slog.String("session_id", s.id))
	s.state.Store(int32(Active))
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() State { return State(s.state.Load()) }

// Turns is the count of completed exchanges, failed ones included.
func (s *Session) Turns() uint64 { return s.turns.Load() }

// Failures is the count of exchanges whose agent call errored.
func (s *Session) Failures() uint64 { return s.fails.Load() }

// History returns a copy of the full conversation, failed turns included.
func (s *Session) History() []components.Message {
	return s.memory.History()
}

// OnMessage records the user's message, asks the agent for a reply, and
// records the reply under the assistant role. If the agent fails, the user
// message stays in the history but its turn is marked failed so it is not
// replayed into later prompts, and the error is returned for display.
func (s *Session) OnMessage(ctx context.Context, content string) (string, error) {
	if s.State() != Active {
		return "", ErrClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	turnID := s.memory.NewTurn()
	s.memory.NewMessage(components.UserRole, schema.NewString(content))
	s.turns.Inc()

	reply, err := s.agent.Respond(ctx, s.memory.PromptHistory())
	if err != nil {
		s.fails.Inc()
		if ferr := s.memory.FailTurn(turnID); ferr != nil {
			s.logger.Warn("mark failed turn", slog.String("turn_id", turnID), slog.Any("error", ferr))
		}
		s.logger.Error("exchange failed", slog.String("turn_id", turnID), slog.Any("error", err))
		return "", err
	}
	s.memory.NewMessage(components.AssistantRole, schema.NewString(reply))
	s.logger.Info("exchange completed", slog.String("turn_id", turnID))
	return reply, nil
}

// Close ends the session. Further messages are rejected with ErrClosed.
func (s *Session) Close() {
	s.state.Store(int32(Closed))
	s.logger.Info("session closed",
		slog.Uint64("turns", s.turns.Load()),
		slog.Uint64("failures", s.fails.Load()))
}
