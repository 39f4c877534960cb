package llm

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/auth/credentials"
	"google.golang.org/genai"

	"github.com/PabloGalante/folio-agent/internal/domain"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

type GeminiClient struct {
	client *genai.Client
	config *genai.GenerateContentConfig
}

// NewGeminiClient creates a CompletionClient for the Gemini Developer API.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, domain.ErrMissingCredential
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return newGeminiClient(client), nil
}

// NewVertexClient creates a CompletionClient based on Vertex AI (Gemini),
// authenticated with application default credentials.
func NewVertexClient(ctx context.Context, projectID, location string) (*GeminiClient, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("vertex project and location must be set: %w", domain.ErrMissingCredential)
	}

	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		Scopes: []string{cloudPlatformScope},
	})
	if err != nil {
		return nil, fmt.Errorf("vertex application default credentials: %w: %w", domain.ErrMissingCredential, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:     projectID,
		Location:    location,
		Backend:     genai.BackendVertexAI,
		Credentials: creds,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return newGeminiClient(client), nil
}

func newGeminiClient(client *genai.Client) *GeminiClient {
	// Low temperature: answers must stay close to the excerpts.
	temp := float32(0.2)
	topP := float32(0.9)

	return &GeminiClient{
		client: client,
		config: &genai.GenerateContentConfig{
			Temperature:     &temp,
			TopP:            &topP,
			MaxOutputTokens: int32(2048),
		},
	}
}

// Generate implements domain.CompletionClient.
func (g *GeminiClient) Generate(ctx context.Context, model domain.ModelID, prompt string) (string, error) {
	if err := validateRequest(model, prompt); err != nil {
		return "", err
	}

	res, err := g.client.Models.GenerateContent(ctx, string(model), genai.Text(prompt), g.config)
	if err != nil {
		return "", classifyGenAI(model, err)
	}

	text := res.Text()
	if text == "" {
		return "", domain.NewCompletionError(domain.FailureMalformed, model, errors.New("gemini returned empty text"))
	}

	return text, nil
}

func classifyGenAI(model domain.ModelID, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return domain.NewCompletionError(kindForStatus(apiErr.Code), model, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return domain.NewCompletionError(kindForStatus(apiErrPtr.Code), model, err)
	}
	return classifyTransport(model, err)
}
