package rag

import (
	"context"
	"strings"

	"github.com/PabloGalante/folio-agent/internal/domain"
)

// Answerer composes the reply from retrieved excerpts only.
type Answerer struct {
	llm      domain.CompletionClient
	model    domain.ModelID
	language string
}

func NewAnswerer(llm domain.CompletionClient, model domain.ModelID, language string) *Answerer {
	return &Answerer{llm: llm, model: model, language: language}
}

func (a *Answerer) Name() string {
	return "answerer"
}

// Answer still calls the model for an empty excerpt set; the prompt then
// tells it to decline.
func (a *Answerer) Answer(ctx context.Context, question string, excerpts domain.ExcerptSet) (string, error) {
	reply, err := a.llm.Generate(ctx, a.model, BuildGenerationPrompt(question, excerpts, a.language))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}
