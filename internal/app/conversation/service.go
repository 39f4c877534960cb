package conversation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/folio-agent/internal/app/chat"
	"github.com/PabloGalante/folio-agent/internal/domain"
	"github.com/PabloGalante/folio-agent/internal/observability"
)

// SessionStore holds the live conversations.
type SessionStore interface {
	CreateSession(c *chat.Controller) error
	GetSession(id domain.SessionID) (*chat.Controller, error)
	DeleteSession(id domain.SessionID) (*chat.Controller, error)
	ListSessions() []*chat.Controller
}

type Service struct {
	pipeline chat.Pipeline
	store    SessionStore
	now      func() time.Time
	idleTTL  time.Duration
}

// NewService creates the session registry. A nil pipeline means the chat
// backend is not configured: every session is created disabled.
func NewService(pipeline chat.Pipeline, store SessionStore, idleTTL time.Duration) *Service {
	return &Service{
		pipeline: pipeline,
		store:    store,
		now:      time.Now,
		idleTTL:  idleTTL,
	}
}

// Enabled reports whether new sessions can chat.
func (s *Service) Enabled() bool {
	return s.pipeline != nil
}

func (s *Service) StartSession(ctx context.Context) (domain.Snapshot, error) {
	id := domain.SessionID(uuid.NewString())
	log := observability.LoggerFromContext(ctx).With("session_id", id)

	c := chat.NewController(id, s.pipeline, chat.WithClock(s.now))
	if err := s.store.CreateSession(c); err != nil {
		log.Error("failed to create session", "error", err)
		c.Close()
		return domain.Snapshot{}, err
	}

	log.Info("session started", "enabled", s.Enabled())
	return c.Snapshot(), nil
}

func (s *Service) GetSnapshot(ctx context.Context, id domain.SessionID) (domain.Snapshot, error) {
	c, err := s.store.GetSession(id)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return c.Snapshot(), nil
}

// Submit runs one response cycle and returns the state after it. Rejected
// submits return the unchanged state together with the rejection error.
func (s *Service) Submit(ctx context.Context, id domain.SessionID, text string) (domain.Snapshot, error) {
	c, err := s.store.GetSession(id)
	if err != nil {
		return domain.Snapshot{}, err
	}

	log := observability.LoggerFromContext(ctx).With("session_id", id)
	log.Info("submitting message", "length", len(text))

	if _, err := c.Submit(ctx, text); err != nil {
		log.Info("submit rejected", "reason", err)
		return c.Snapshot(), err
	}
	return c.Snapshot(), nil
}

func (s *Service) UpdatePendingInput(ctx context.Context, id domain.SessionID, text string) (domain.Snapshot, error) {
	c, err := s.store.GetSession(id)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if err := c.UpdatePendingInput(text); err != nil {
		return c.Snapshot(), err
	}
	return c.Snapshot(), nil
}

// Subscribe streams snapshots of one session until cancel is called or the
// session ends.
func (s *Service) Subscribe(ctx context.Context, id domain.SessionID) (<-chan domain.Snapshot, func(), error) {
	c, err := s.store.GetSession(id)
	if err != nil {
		return nil, nil, err
	}
	updates, cancel := c.Subscribe()
	return updates, cancel, nil
}

// EndSession drops the session and abandons any call in flight.
func (s *Service) EndSession(ctx context.Context, id domain.SessionID) error {
	c, err := s.store.DeleteSession(id)
	if err != nil {
		return err
	}
	c.Close()
	observability.LoggerFromContext(ctx).Info("session ended", "session_id", id)
	return nil
}

// SweepIdle ends sessions untouched for longer than the idle TTL. Sessions
// with a response in flight are left alone.
func (s *Service) SweepIdle(ctx context.Context) int {
	if s.idleTTL <= 0 {
		return 0
	}

	cutoff := s.now().Add(-s.idleTTL)
	ended := 0
	for _, c := range s.store.ListSessions() {
		last, awaiting := c.IdleSince()
		if awaiting || last.After(cutoff) {
			continue
		}
		if err := s.EndSession(ctx, c.ID()); err == nil {
			ended++
		}
	}
	return ended
}

// RunIdleSweeper calls SweepIdle every interval until ctx is done.
func (s *Service) RunIdleSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log := observability.Logger().With("component", "idle_sweeper")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.SweepIdle(ctx); n > 0 {
				log.Info("expired idle sessions", "count", n)
			}
		}
	}
}
