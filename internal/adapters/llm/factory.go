package llm

import (
	"context"
	"fmt"

	"github.com/PabloGalante/folio-agent/internal/config"
	"github.com/PabloGalante/folio-agent/internal/domain"
	"github.com/PabloGalante/folio-agent/internal/observability"
)

// NewCompletionClient builds the configured backend. It returns
// domain.ErrMissingCredential when the backend has no credential, which the
// caller turns into a disabled chat rather than a failure on first use.
func NewCompletionClient(ctx context.Context, cfg config.LLMConfig) (domain.CompletionClient, error) {
	log := observability.Logger().With("provider", cfg.Provider)

	var (
		client domain.CompletionClient
		err    error
	)

	switch cfg.Provider {
	case config.ProviderMock:
		log.Info("using mock completion client")
		client = NewMockLLM()
	case config.ProviderGemini:
		client, err = NewGeminiClient(ctx, cfg.APIKey)
	case config.ProviderVertex:
		client, err = NewVertexClient(ctx, cfg.GCPProjectID, cfg.GCPLocation)
	case config.ProviderOpenAI:
		client, err = NewOpenAIClient(cfg.BaseURL, cfg.APIKey)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.RatePerSecond > 0 {
		log.Info("rate limiting completion calls", "per_second", cfg.RatePerSecond, "burst", cfg.RateBurst)
		client = NewRateLimited(client, cfg.RatePerSecond, cfg.RateBurst)
	}

	return client, nil
}
