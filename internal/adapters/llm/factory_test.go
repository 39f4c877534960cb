package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/folio-agent/internal/config"
	"github.com/PabloGalante/folio-agent/internal/domain"
)

func TestFactoryMissingCredential(t *testing.T) {
	for _, p := range []config.Provider{config.ProviderGemini, config.ProviderOpenAI} {
		_, err := NewCompletionClient(context.Background(), config.LLMConfig{Provider: p})
		assert.True(t, errors.Is(err, domain.ErrMissingCredential), "provider %s: %v", p, err)
	}
}

func TestFactoryMockIsRateLimited(t *testing.T) {
	client, err := NewCompletionClient(context.Background(), config.LLMConfig{
		Provider:      config.ProviderMock,
		RatePerSecond: 5,
		RateBurst:     2,
	})
	require.NoError(t, err)

	_, ok := client.(*RateLimited)
	assert.True(t, ok)

	text, err := client.Generate(context.Background(), "mock-model", "line one\nquestion?")
	require.NoError(t, err)
	assert.Equal(t, "[MOCK mock-model] question?", text)
}

func TestFactoryUnknownProvider(t *testing.T) {
	_, err := NewCompletionClient(context.Background(), config.LLMConfig{Provider: "nope"})
	assert.Error(t, err)
}

func TestValidateRequest(t *testing.T) {
	_, err := NewMockLLM().Generate(context.Background(), "", "p")
	assert.ErrorIs(t, err, domain.ErrEmptyModel)

	_, err = NewMockLLM().Generate(context.Background(), "m", "")
	assert.ErrorIs(t, err, domain.ErrEmptyPrompt)
}
