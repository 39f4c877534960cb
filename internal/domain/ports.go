package domain

import "context"

// CompletionClient is the single call the application makes to a text
// generation backend. Implementations are stateless between calls and never
// return partial text together with an error.
type CompletionClient interface {
	Generate(ctx context.Context, model ModelID, prompt string) (string, error)
}

// ContentSource loads the read-only site content once at startup.
type ContentSource interface {
	LoadKnowledge(ctx context.Context) (string, error)
	LoadCatalog(ctx context.Context) (Catalog, error)
}
