package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/PabloGalante/folio-agent/internal/domain"
	"github.com/PabloGalante/folio-agent/internal/observability"
)

// Result is the outcome of one retrieve-then-answer run.
type Result struct {
	Excerpts domain.ExcerptSet
	Answer   string
}

// Pipeline runs the retrieval step and then the generation step against a
// fixed knowledge document.
type Pipeline struct {
	retriever   *Retriever
	answerer    *Answerer
	document    string
	stepTimeout time.Duration
}

type Options struct {
	RetrievalModel  domain.ModelID
	GenerationModel domain.ModelID
	Language        string
	MaxExcerpts     int

	// StepTimeout bounds each completion call. Zero means no bound.
	StepTimeout time.Duration
}

func NewPipeline(llm domain.CompletionClient, document string, opts Options) *Pipeline {
	if opts.MaxExcerpts < 1 {
		opts.MaxExcerpts = 3
	}
	return &Pipeline{
		retriever:   NewRetriever(llm, opts.RetrievalModel, opts.MaxExcerpts),
		answerer:    NewAnswerer(llm, opts.GenerationModel, opts.Language),
		document:    document,
		stepTimeout: opts.StepTimeout,
	}
}

// Run executes retrieval then generation, strictly in that order.
// onRetrieved, when non-nil, is called between the two steps.
func (p *Pipeline) Run(ctx context.Context, question string, onRetrieved func(domain.ExcerptSet)) (Result, error) {
	log := observability.LoggerFromContext(ctx)

	start := time.Now()
	log.Info("pipeline step start", "step", p.retriever.Name())

	excerpts, err := p.retrieve(ctx, question)
	if err != nil {
		log.Error("pipeline step failed", "step", p.retriever.Name(), "error", err)
		return Result{}, fmt.Errorf("%s: %w", p.retriever.Name(), err)
	}
	log.Info("pipeline step end", "step", p.retriever.Name(),
		"excerpts", len(excerpts), "elapsed_ms", time.Since(start).Milliseconds())

	if onRetrieved != nil {
		onRetrieved(excerpts)
	}

	start = time.Now()
	log.Info("pipeline step start", "step", p.answerer.Name())

	answer, err := p.answer(ctx, question, excerpts)
	if err != nil {
		log.Error("pipeline step failed", "step", p.answerer.Name(), "error", err)
		return Result{Excerpts: excerpts}, fmt.Errorf("%s: %w", p.answerer.Name(), err)
	}
	log.Info("pipeline step end", "step", p.answerer.Name(), "elapsed_ms", time.Since(start).Milliseconds())

	return Result{Excerpts: excerpts, Answer: answer}, nil
}

func (p *Pipeline) retrieve(ctx context.Context, question string) (domain.ExcerptSet, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()
	return p.retriever.Retrieve(ctx, question, p.document)
}

func (p *Pipeline) answer(ctx context.Context, question string, excerpts domain.ExcerptSet) (string, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()
	return p.answerer.Answer(ctx, question, excerpts)
}

func (p *Pipeline) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.stepTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.stepTimeout)
}
