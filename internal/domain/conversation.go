package domain

// Turn is one message in a transcript. Turns are never mutated after creation.
type Turn struct {
	ID        TurnID
	Role      Role
	Content   string
	CreatedAt Timestamp

	// Excerpts holds the knowledge snippets the answer was grounded on.
	// Only set on assistant turns produced after a successful retrieval.
	Excerpts ExcerptSet
}

// ExcerptSet is the ordered result of a retrieval step. It may be empty.
type ExcerptSet []string

// Empty reports whether no excerpt was selected.
func (e ExcerptSet) Empty() bool {
	return len(e) == 0
}

// Snapshot is a read-only copy of a conversation's state, handed to whatever
// renders the chat.
type Snapshot struct {
	SessionID    SessionID
	Phase        Phase
	Transcript   []Turn
	PendingInput string
}

// Enabled reports whether the conversation accepts input at all.
func (s Snapshot) Enabled() bool {
	return s.Phase != PhaseDisabled
}

// AwaitingResponse reports whether a response cycle is in flight.
func (s Snapshot) AwaitingResponse() bool {
	return s.Phase.Awaiting()
}
