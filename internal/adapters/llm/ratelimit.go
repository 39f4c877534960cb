package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/PabloGalante/folio-agent/internal/domain"
)

// RateLimited shares one token bucket across every caller of the wrapped
// client, so all sessions together stay under the upstream quota.
type RateLimited struct {
	next    domain.CompletionClient
	limiter *rate.Limiter
}

func NewRateLimited(next domain.CompletionClient, perSecond float64, burst int) *RateLimited {
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Generate implements domain.CompletionClient.
func (r *RateLimited) Generate(ctx context.Context, model domain.ModelID, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return "", domain.NewCompletionError(domain.FailureTimeout, model, ctx.Err())
		}
		// Wait fails early when the deadline would pass before a token frees up.
		return "", domain.NewCompletionError(domain.FailureQuota, model, fmt.Errorf("local rate limit: %w", err))
	}
	return r.next.Generate(ctx, model, prompt)
}
