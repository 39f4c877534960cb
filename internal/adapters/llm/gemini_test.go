package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/PabloGalante/folio-agent/internal/domain"
)

func TestClassifyGenAI(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domain.FailureKind
	}{
		{"unauthorized", genai.APIError{Code: 401, Message: "bad key"}, domain.FailureAuth},
		{"quota", genai.APIError{Code: 429, Message: "slow down"}, domain.FailureQuota},
		{"unavailable", genai.APIError{Code: 503, Message: "overloaded"}, domain.FailureNetwork},
		{"pointer", &genai.APIError{Code: 403}, domain.FailureAuth},
		{"wrapped api error", fmt.Errorf("calling model: %w", genai.APIError{Code: 429}), domain.FailureQuota},
		{"deadline", fmt.Errorf("calling model: %w", context.DeadlineExceeded), domain.FailureTimeout},
		{"plain", errors.New("connection reset"), domain.FailureNetwork},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classifyGenAI("gemini-2.5-flash", tc.err)

			var ce *domain.CompletionError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tc.want, ce.Kind)
			assert.Equal(t, domain.ModelID("gemini-2.5-flash"), ce.Model)
		})
	}
}

func TestNewVertexClientWithoutDefaultCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/nonexistent/adc.json")

	_, err := NewVertexClient(context.Background(), "demo-project", "us-central1")

	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}

func TestNewVertexClientRequiresProject(t *testing.T) {
	_, err := NewVertexClient(context.Background(), "", "us-central1")

	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}
