package domain

import "time"

type SessionID string
type TurnID string

// ModelID names a model on the configured completion backend.
type ModelID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Phase is the position of a conversation in its response cycle.
type Phase string

const (
	PhaseDisabled           Phase = "disabled"            // no usable completion backend
	PhaseIdle               Phase = "idle"                // ready for input
	PhaseAwaitingRetrieval  Phase = "awaiting_retrieval"  // excerpt selection in flight
	PhaseAwaitingGeneration Phase = "awaiting_generation" // answer composition in flight
)

// Awaiting reports whether a response cycle is in flight.
func (p Phase) Awaiting() bool {
	return p == PhaseAwaitingRetrieval || p == PhaseAwaitingGeneration
}

type Timestamp = time.Time
