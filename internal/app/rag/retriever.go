package rag

import (
	"context"

	"github.com/PabloGalante/folio-agent/internal/domain"
)

// Retriever selects the parts of the knowledge document that address a question.
type Retriever struct {
	llm         domain.CompletionClient
	model       domain.ModelID
	maxExcerpts int
}

func NewRetriever(llm domain.CompletionClient, model domain.ModelID, maxExcerpts int) *Retriever {
	return &Retriever{llm: llm, model: model, maxExcerpts: maxExcerpts}
}

func (r *Retriever) Name() string {
	return "retriever"
}

// Retrieve returns an empty set, not an error, when nothing is relevant.
func (r *Retriever) Retrieve(ctx context.Context, question, document string) (domain.ExcerptSet, error) {
	raw, err := r.llm.Generate(ctx, r.model, BuildRetrievalPrompt(question, document, r.maxExcerpts))
	if err != nil {
		return nil, err
	}
	return ParseExcerpts(raw, r.maxExcerpts), nil
}
