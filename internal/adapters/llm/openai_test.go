package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/folio-agent/internal/domain"
)

func TestOpenAIClientGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "hello", req.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"index":0,"message":{"role":"assistant","content":" hi \n"}}]}`)
	}))
	defer server.Close()

	client, err := NewOpenAIClient(server.URL+"/", "sk-test")
	require.NoError(t, err)

	text, err := client.Generate(context.Background(), "gpt-4o-mini", "hello")
	require.NoError(t, err)
	assert.Equal(t, " hi \n", text)
}

func TestOpenAIClientClassifiesStatus(t *testing.T) {
	cases := []struct {
		status int
		want   domain.FailureKind
	}{
		{http.StatusUnauthorized, domain.FailureAuth},
		{http.StatusTooManyRequests, domain.FailureQuota},
		{http.StatusBadGateway, domain.FailureNetwork},
		{http.StatusBadRequest, domain.FailureMalformed},
	}

	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				fmt.Fprint(w, `{"error":{"message":"nope","type":"x"}}`)
			}))
			defer server.Close()

			client, err := NewOpenAIClient(server.URL, "sk-test")
			require.NoError(t, err)

			text, err := client.Generate(context.Background(), "m", "hello")
			assert.Empty(t, text)

			kind, ok := domain.FailureKindOf(err)
			require.True(t, ok, "expected CompletionError, got %v", err)
			assert.Equal(t, tc.want, kind)
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestOpenAIClientEmptyChoicesIsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer server.Close()

	client, err := NewOpenAIClient(server.URL, "sk-test")
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "m", "hello")
	kind, _ := domain.FailureKindOf(err)
	assert.Equal(t, domain.FailureMalformed, kind)
}

func TestOpenAIClientTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client, err := NewOpenAIClient(server.URL, "sk-test")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.Generate(ctx, "m", "hello")
	kind, _ := domain.FailureKindOf(err)
	assert.Equal(t, domain.FailureTimeout, kind)
}

func TestOpenAIClientRequiresKey(t *testing.T) {
	_, err := NewOpenAIClient("http://localhost", "")
	assert.True(t, errors.Is(err, domain.ErrMissingCredential))
}
