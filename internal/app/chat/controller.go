package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/folio-agent/internal/app/rag"
	"github.com/PabloGalante/folio-agent/internal/domain"
	"github.com/PabloGalante/folio-agent/internal/observability"
)

const (
	// FallbackMessage replaces the answer whenever a response cycle fails.
	FallbackMessage = "Sorry, I couldn't answer that just now. Please try again in a moment."

	// ConfigErrorMessage is the only message a disabled chat ever shows.
	ConfigErrorMessage = "The chat assistant is unavailable because no API key has been configured for this site."
)

// Pipeline is the retrieve-then-answer run the controller drives once per turn.
type Pipeline interface {
	Run(ctx context.Context, question string, onRetrieved func(domain.ExcerptSet)) (rag.Result, error)
}

// Controller owns one conversation: its transcript, pending input and the
// single response cycle that may be in flight.
type Controller struct {
	id       domain.SessionID
	pipeline Pipeline
	now      func() time.Time
	newID    func() domain.TurnID

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	phase      domain.Phase
	transcript []domain.Turn
	pending    string
	lastActive time.Time
	closed     bool
	subs       map[int]chan domain.Snapshot
	nextSub    int
}

type Option func(*Controller)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithTurnIDs replaces the UUID turn id generator.
func WithTurnIDs(next func() domain.TurnID) Option {
	return func(c *Controller) { c.newID = next }
}

// NewController creates a conversation. A nil pipeline yields a disabled
// controller whose transcript holds only ConfigErrorMessage.
func NewController(id domain.SessionID, pipeline Pipeline, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Controller{
		id:       id,
		pipeline: pipeline,
		now:      time.Now,
		newID:    func() domain.TurnID { return domain.TurnID(uuid.NewString()) },
		ctx:      ctx,
		cancel:   cancel,
		phase:    domain.PhaseIdle,
		subs:     make(map[int]chan domain.Snapshot),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.lastActive = c.now()

	if pipeline == nil {
		c.phase = domain.PhaseDisabled
		c.appendLocked(domain.RoleAssistant, ConfigErrorMessage, nil)
	}

	return c
}

func (c *Controller) ID() domain.SessionID {
	return c.id
}

// Submit runs one full response cycle for text and returns the assistant turn.
//
// Blank input, a cycle already in flight, a disabled chat or a closed
// controller are rejected with ErrBlankInput, ErrBusy, ErrChatDisabled or
// ErrSessionClosed; a rejected submit changes nothing. Completion failures are
// not returned: they become an assistant turn carrying FallbackMessage.
func (c *Controller) Submit(ctx context.Context, text string) (domain.Turn, error) {
	question := strings.TrimSpace(text)

	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return domain.Turn{}, domain.ErrSessionClosed
	case c.phase == domain.PhaseDisabled:
		c.mu.Unlock()
		return domain.Turn{}, domain.ErrChatDisabled
	case c.phase.Awaiting():
		c.mu.Unlock()
		return domain.Turn{}, domain.ErrBusy
	case question == "":
		c.mu.Unlock()
		return domain.Turn{}, domain.ErrBlankInput
	}

	c.appendLocked(domain.RoleUser, question, nil)
	c.pending = ""
	c.phase = domain.PhaseAwaitingRetrieval
	c.publishLocked()
	c.mu.Unlock()

	log := observability.LoggerFromContext(ctx).With("session_id", c.id)
	log.Info("response cycle started")

	// The cycle outlives the caller's request but not the session.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()
	stop := context.AfterFunc(c.ctx, cancel)
	defer stop()

	res, err := c.run(runCtx, question)

	c.mu.Lock()
	defer c.mu.Unlock()

	var turn domain.Turn
	if err != nil {
		log.Error("response cycle failed", "error", err)
		turn = c.appendLocked(domain.RoleAssistant, FallbackMessage, nil)
	} else {
		log.Info("response cycle completed", "excerpts", len(res.Excerpts))
		turn = c.appendLocked(domain.RoleAssistant, res.Answer, res.Excerpts)
	}
	c.phase = domain.PhaseIdle
	c.publishLocked()

	return turn, nil
}

// run shields the cycle from panics in the pipeline so the controller never
// stays stuck awaiting.
func (c *Controller) run(ctx context.Context, question string) (res rag.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline panic: %v", r)
		}
	}()

	return c.pipeline.Run(ctx, question, func(domain.ExcerptSet) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.phase == domain.PhaseAwaitingRetrieval {
			c.phase = domain.PhaseAwaitingGeneration
			c.publishLocked()
		}
	})
}

// UpdatePendingInput stores the text the visitor is typing.
func (c *Controller) UpdatePendingInput(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closed:
		return domain.ErrSessionClosed
	case c.phase == domain.PhaseDisabled:
		return domain.ErrChatDisabled
	}

	c.pending = text
	c.lastActive = c.now()
	c.publishLocked()
	return nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// IdleSince reports when the conversation last changed and whether a
// response cycle is in flight.
func (c *Controller) IdleSince() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive, c.phase.Awaiting()
}

// Subscribe delivers the current snapshot and then every later one. A slow
// reader only ever sees the latest. The channel closes with the controller.
func (c *Controller) Subscribe() (<-chan domain.Snapshot, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan domain.Snapshot, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.snapshotLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(sub)
			}
		})
	}
}

// Close ends the conversation: in-flight calls are abandoned and subscribers
// are released.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
}

func (c *Controller) appendLocked(role domain.Role, content string, excerpts domain.ExcerptSet) domain.Turn {
	turn := domain.Turn{
		ID:        c.newID(),
		Role:      role,
		Content:   content,
		CreatedAt: c.now(),
		Excerpts:  excerpts,
	}
	c.transcript = append(c.transcript, turn)
	c.lastActive = turn.CreatedAt
	return turn
}

func (c *Controller) snapshotLocked() domain.Snapshot {
	transcript := make([]domain.Turn, len(c.transcript))
	copy(transcript, c.transcript)

	return domain.Snapshot{
		SessionID:    c.id,
		Phase:        c.phase,
		Transcript:   transcript,
		PendingInput: c.pending,
	}
}

// publishLocked replaces whatever a subscriber has not read yet.
func (c *Controller) publishLocked() {
	if len(c.subs) == 0 {
		return
	}
	snap := c.snapshotLocked()
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}
