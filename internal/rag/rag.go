// ABOUTME: Capability interfaces consumed by the ingestion and retrieval pipelines
// ABOUTME: Implementations are injected at construction so tests can substitute fakes
package rag

import (
	"context"

	"github.com/harper/docchat/internal/models"
)

// Embedder turns text into a fixed-dimension vector. Calls are remote:
// potentially slow, potentially failing, never assumed cheap.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// VectorStore persists indexed entries and answers nearest-neighbor
// queries, best similarity first.
type VectorStore interface {
	Upsert(ctx context.Context, entries []models.IndexedEntry) error
	Query(ctx context.Context, vector []float64, topK int) ([]models.RetrievalMatch, error)
}

// Generator produces an answer from an instruction, assembled context,
// and the user's question.
type Generator interface {
	Generate(ctx context.Context, instruction, contextText, question string) (string, error)
}
