package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/PabloGalante/folio-agent/internal/domain"
)

type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

// Generate echoes the tail of the prompt so local runs need no credentials.
func (m *MockLLM) Generate(ctx context.Context, model domain.ModelID, prompt string) (string, error) {
	if err := validateRequest(model, prompt); err != nil {
		return "", err
	}
	lines := strings.Split(strings.TrimSpace(prompt), "\n")
	return fmt.Sprintf("[MOCK %s] %s", model, lines[len(lines)-1]), nil
}

// Call is one recorded Generate invocation.
type Call struct {
	Model  domain.ModelID
	Prompt string
}

// Reply is one scripted Generate outcome.
type Reply struct {
	Text string
	Err  error

	// Wait, when set, blocks the call until it is closed or ctx is done.
	Wait <-chan struct{}
}

// ScriptedClient replays queued replies in order and records every call.
type ScriptedClient struct {
	mu      sync.Mutex
	replies []Reply
	calls   []Call
}

func NewScriptedClient(replies ...Reply) *ScriptedClient {
	return &ScriptedClient{replies: replies}
}

// Push queues more replies.
func (s *ScriptedClient) Push(replies ...Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, replies...)
}

// Calls returns a copy of the recorded calls.
func (s *ScriptedClient) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Generate implements domain.CompletionClient.
func (s *ScriptedClient) Generate(ctx context.Context, model domain.ModelID, prompt string) (string, error) {
	if err := validateRequest(model, prompt); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.calls = append(s.calls, Call{Model: model, Prompt: prompt})
	if len(s.replies) == 0 {
		s.mu.Unlock()
		return "", domain.NewCompletionError(domain.FailureMalformed, model, errors.New("scripted client: no reply queued"))
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	s.mu.Unlock()

	if reply.Wait != nil {
		select {
		case <-reply.Wait:
		case <-ctx.Done():
			return "", domain.NewCompletionError(domain.FailureTimeout, model, ctx.Err())
		}
	}

	if reply.Err != nil {
		return "", reply.Err
	}
	return reply.Text, nil
}
