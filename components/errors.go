package components

import (
	"errors"
	"fmt"
)

// ErrNoResults reports that an external provider answered with zero
// candidates or passages. Tools translate it into a defined fallback string
// rather than returning empty text.
var ErrNoResults = errors.New("provider returned no results")

// ServiceError wraps a failed call to an external service (embedding
// provider, vector store, search provider or language model). It is caught at
// the session boundary and surfaced to the user as a chat message.
type ServiceError struct {
	Service string
	Err     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service failed: %v", e.Service, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError returns a ServiceError for the named service.
func NewServiceError(service string, err error) *ServiceError {
	return &ServiceError{Service: service, Err: err}
}

// AgentError wraps a failure to select a tool or synthesize a response.
type AgentError struct {
	Agent string
	Err   error
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("agent %s failed: %v", e.Agent, e.Err)
}

func (e *AgentError) Unwrap() error {
	return e.Err
}
