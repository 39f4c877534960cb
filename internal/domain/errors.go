package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredential = errors.New("completion backend credential is not configured")
	ErrEmptyPrompt       = errors.New("prompt is empty")
	ErrEmptyModel        = errors.New("model is empty")

	ErrBlankInput    = errors.New("input is blank")
	ErrBusy          = errors.New("a response is already in progress")
	ErrChatDisabled  = errors.New("chat is disabled")
	ErrSessionClosed = errors.New("session is closed")

	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
	ErrTooManySessions = errors.New("too many active sessions")

	ErrContentNotFound = errors.New("site content not found")
)

// FailureKind classifies why a completion call failed.
type FailureKind string

const (
	FailureNetwork   FailureKind = "network"
	FailureAuth      FailureKind = "auth"
	FailureQuota     FailureKind = "quota"
	FailureMalformed FailureKind = "malformed"
	FailureTimeout   FailureKind = "timeout"
)

// CompletionError is returned by every CompletionClient adapter on failure.
type CompletionError struct {
	Kind  FailureKind
	Model ModelID
	Err   error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion %s failure (model=%s): %v", e.Kind, e.Model, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// NewCompletionError wraps err with a failure kind.
func NewCompletionError(kind FailureKind, model ModelID, err error) *CompletionError {
	return &CompletionError{Kind: kind, Model: model, Err: err}
}

// FailureKindOf returns the kind of a CompletionError anywhere in err's chain.
func FailureKindOf(err error) (FailureKind, bool) {
	var ce *CompletionError
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return "", false
}
