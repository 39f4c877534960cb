package portfolio

import (
	"context"
	"fmt"
	"sync"

	"github.com/PabloGalante/folio-agent/internal/domain"
)

// Service holds the site content: the knowledge document the chat answers
// from and the portfolio catalog. Both are read once and then served as is.
type Service struct {
	source domain.ContentSource

	mu        sync.RWMutex
	loaded    bool
	knowledge string
	catalog   domain.Catalog
}

// NewService creates a portfolio service from a ContentSource
func NewService(source domain.ContentSource) *Service {
	return &Service{
		source: source,
	}
}

// Load reads both documents from the source. Calling it again is a no-op.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return nil
	}

	knowledge, err := s.source.LoadKnowledge(ctx)
	if err != nil {
		return fmt.Errorf("loading knowledge: %w", err)
	}
	catalog, err := s.source.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	s.knowledge = knowledge
	s.catalog = catalog
	s.loaded = true
	return nil
}

// Knowledge returns the knowledge document, or "" before Load.
func (s *Service) Knowledge() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.knowledge
}

// Catalog returns a copy of the catalog so callers cannot reorder it.
func (s *Service) Catalog() domain.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(domain.Catalog, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// Category looks a category up by name.
func (s *Service) Category(name string) (domain.PortfolioCategory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Category(name)
}
