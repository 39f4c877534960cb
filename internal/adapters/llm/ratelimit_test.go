package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/folio-agent/internal/domain"
)

func TestRateLimitedPassesThrough(t *testing.T) {
	inner := NewScriptedClient(Reply{Text: "ok"})
	client := NewRateLimited(inner, 10, 1)

	text, err := client.Generate(context.Background(), "m", "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Len(t, inner.Calls(), 1)
}

func TestRateLimitedHonoursDeadline(t *testing.T) {
	inner := NewScriptedClient(Reply{Text: "first"}, Reply{Text: "second"})
	// one token per minute: the second call cannot be served in time.
	client := NewRateLimited(inner, 1.0/60, 1)

	_, err := client.Generate(context.Background(), "m", "p")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = client.Generate(ctx, "m", "p")
	require.Error(t, err)

	kind, ok := domain.FailureKindOf(err)
	require.True(t, ok)
	assert.Contains(t, []domain.FailureKind{domain.FailureQuota, domain.FailureTimeout}, kind)
	assert.Len(t, inner.Calls(), 1, "limited call must not reach the backend")
}
