// ABOUTME: Retrieval pipeline: embed the question, query the store, assemble context, generate
// ABOUTME: Distinguishes retrieval failures from generation failures so callers can degrade
package rag

import (
	"context"
	"fmt"
	"strings"
)

// DefaultInstruction constrains the generator to the supplied context.
const DefaultInstruction = "Answer using only the provided context. " +
	"If the context does not contain the answer, say that you do not know."

const (
	DefaultTopK          = 5
	DefaultContextBudget = 2000
)

// RetrieverConfig tunes one Retriever.
type RetrieverConfig struct {
	// TopK is how many nearest entries to request from the store.
	TopK int
	// ContextBudget caps the assembled context length in characters.
	ContextBudget int
	// Instruction is the system instruction sent to the generator.
	Instruction string
	// FallbackToContext returns the raw retrieved context as a degraded
	// answer when generation fails after successful retrieval.
	FallbackToContext bool
}

// AnswerResult is a grounded answer plus the IDs of the entries whose
// text was actually supplied as context.
type AnswerResult struct {
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources,omitempty"`
	Degraded bool     `json:"degraded,omitempty"`
}

// Retriever answers questions against previously ingested content. It is
// stateless per call; the three remote steps run strictly in sequence,
// each depending on the previous result.
type Retriever struct {
	embedder  Embedder
	store     VectorStore
	generator Generator
	cfg       RetrieverConfig
}

// NewRetriever creates a Retriever, filling config zero values with
// defaults.
func NewRetriever(embedder Embedder, store VectorStore, generator Generator, cfg RetrieverConfig) *Retriever {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.ContextBudget <= 0 {
		cfg.ContextBudget = DefaultContextBudget
	}
	if cfg.Instruction == "" {
		cfg.Instruction = DefaultInstruction
	}
	return &Retriever{
		embedder:  embedder,
		store:     store,
		generator: generator,
		cfg:       cfg,
	}
}

// Answer runs the full retrieval flow for one question. Empty questions
// are rejected before any remote call. Failures in the embed or query
// steps wrap ErrRetrieval; a generation failure after successful
// retrieval surfaces as *GenerationError carrying the assembled context,
// or as a degraded raw-context answer when FallbackToContext is set.
func (r *Retriever) Answer(ctx context.Context, question string) (*AnswerResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrInvalidQuestion
	}

	vector, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: embed question: %w", ErrRetrieval, err)
	}

	matches, err := r.store.Query(ctx, vector, r.cfg.TopK)
	if err != nil {
		return nil, fmt.Errorf("%w: query store: %w", ErrRetrieval, err)
	}

	contextText, sources := AssembleContext(matches, r.cfg.ContextBudget)

	answer, err := r.generator.Generate(ctx, r.cfg.Instruction, contextText, question)
	if err != nil {
		if r.cfg.FallbackToContext && contextText != "" {
			return &AnswerResult{Answer: contextText, Sources: sources, Degraded: true}, nil
		}
		return nil, &GenerationError{Err: err, Context: contextText, Sources: sources}
	}

	return &AnswerResult{Answer: answer, Sources: sources}, nil
}
