// Package provider abstracts the LLM completion backend.
//
// The core treats a backend as a black-box function from an ordered list of
// role-tagged messages to a single text completion. Backends are selected at
// construction time; a failed call is never retried.
package provider

import (
	"context"
	"fmt"
)

// Role tags a message with its conversational origin.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged entry in a completion request.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Provider produces a text completion for an ordered message list.
type Provider interface {
	// Name returns a short backend identifier used for logging.
	Name() string

	// Complete sends the messages to the backend and returns the raw
	// completion text. Failures are returned as *Error.
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Error is a typed completion failure (network, timeout, malformed response).
type Error struct {
	Backend string
	Op      string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("provider %s: %s", e.Backend, e.Op)
	}
	return fmt.Sprintf("provider %s: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
