// Package bootstrap wires the configured adapters into the application
// services shared by the API server and the terminal chat.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/PabloGalante/folio-agent/internal/adapters/llm"
	"github.com/PabloGalante/folio-agent/internal/adapters/storage/file"
	firestorestore "github.com/PabloGalante/folio-agent/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/folio-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/folio-agent/internal/app/chat"
	"github.com/PabloGalante/folio-agent/internal/app/conversation"
	"github.com/PabloGalante/folio-agent/internal/app/portfolio"
	"github.com/PabloGalante/folio-agent/internal/app/rag"
	"github.com/PabloGalante/folio-agent/internal/config"
	"github.com/PabloGalante/folio-agent/internal/domain"
	"github.com/PabloGalante/folio-agent/internal/observability"
)

type App struct {
	Portfolio *portfolio.Service
	Chat      *conversation.Service

	closers []func() error
}

// New loads the site content and builds the chat service. A backend with no
// credential is not an error: the chat starts disabled and the content is
// still served.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{}

	source, err := app.contentSource(ctx, cfg.Content, cfg.LLM.GCPProjectID)
	if err != nil {
		return nil, err
	}

	app.Portfolio = portfolio.NewService(source)
	if err := app.Portfolio.Load(ctx); err != nil {
		app.Close()
		return nil, err
	}

	pipeline, err := newPipeline(ctx, cfg, app.Portfolio.Knowledge())
	if err != nil {
		app.Close()
		return nil, err
	}

	store := memstore.NewSessionStore(cfg.Session.MaxSessions)
	app.Chat = conversation.NewService(pipeline, store, cfg.Session.IdleTTL)
	return app, nil
}

// Close releases the content backend.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) contentSource(ctx context.Context, cfg config.ContentConfig, projectID string) (domain.ContentSource, error) {
	log := observability.Logger().With("backend", cfg.Backend)

	switch cfg.Backend {
	case config.ContentDir:
		log.Info("using content directory", "dir", cfg.Dir)
		return file.NewDirStore(cfg.Dir), nil
	case config.ContentFirestore:
		log.Info("using firestore content", "project", projectID)
		store, err := firestorestore.NewStore(ctx, projectID)
		if err != nil {
			return nil, fmt.Errorf("error initializing Firestore store: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	default:
		log.Info("using embedded content")
		return file.NewEmbeddedStore(), nil
	}
}

// newPipeline returns a nil chat.Pipeline, not a nil *rag.Pipeline, when the
// backend is missing its credential.
func newPipeline(ctx context.Context, cfg *config.Config, knowledge string) (chat.Pipeline, error) {
	client, err := llm.NewCompletionClient(ctx, cfg.LLM)
	if errors.Is(err, domain.ErrMissingCredential) {
		observability.Logger().Warn("chat disabled: completion backend is not configured",
			"provider", cfg.LLM.Provider, "error", err)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error initializing completion client: %w", err)
	}

	return rag.NewPipeline(client, knowledge, rag.Options{
		RetrievalModel:  domain.ModelID(cfg.LLM.RetrievalModel),
		GenerationModel: domain.ModelID(cfg.LLM.GenerationModel),
		Language:        cfg.Chat.AnswerLanguage,
		MaxExcerpts:     cfg.Chat.MaxExcerpts,
		StepTimeout:     cfg.LLM.Timeout,
	}), nil
}
