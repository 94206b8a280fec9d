// ABOUTME: Ingestion pipeline: chunk, embed concurrently under a bound, then one batch upsert
// ABOUTME: Any chunk embedding failure aborts the whole document; nothing is upserted
package rag

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/harper/docchat/internal/chunker"
	"github.com/harper/docchat/internal/models"
)

const (
	// DefaultConcurrency bounds outstanding embedding requests per
	// ingestion. Unbounded fan-out trips upstream rate limits.
	DefaultConcurrency = 4
)

// IngestResult reports a completed ingestion.
type IngestResult struct {
	SourceID   string `json:"source_id"`
	ChunkCount int    `json:"chunks"`
}

// Ingestor indexes one document at a time: chunk, embed each chunk, then
// commit the full batch with a single upsert.
type Ingestor struct {
	chunker     *chunker.Chunker
	embedder    Embedder
	store       VectorStore
	concurrency int
}

// NewIngestor creates an Ingestor. maxChunkLength <= 0 falls back to the
// chunker default; concurrency <= 0 falls back to DefaultConcurrency.
func NewIngestor(embedder Embedder, store VectorStore, maxChunkLength, concurrency int) *Ingestor {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Ingestor{
		chunker:     chunker.New(maxChunkLength),
		embedder:    embedder,
		store:       store,
		concurrency: concurrency,
	}
}

// Ingest chunks text, embeds every chunk with at most `concurrency`
// embedding calls in flight, and upserts the whole batch as one logical
// write. If any embedding fails the document is not indexed at all and an
// *IngestionError reports which chunks failed. There is no retry here:
// retry is caller policy.
func (in *Ingestor) Ingest(ctx context.Context, sourceID, text string) (*IngestResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	chunks := in.chunker.Split(sourceID, text)
	if len(chunks) == 0 {
		return nil, ErrEmptyInput
	}

	entries := make([]models.IndexedEntry, len(chunks))
	errs := make([]error, len(chunks))

	sem := make(chan struct{}, in.concurrency)
	var wg sync.WaitGroup
	for i, ch := range chunks {
		wg.Add(1)
		go func(i int, ch models.Chunk) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			}
			vec, err := in.embedder.Embed(ctx, ch.Text)
			if err != nil {
				errs[i] = err
				return
			}
			entries[i] = models.NewIndexedEntry(ch, vec)
		}(i, ch)
	}
	wg.Wait()

	var failed []int
	var first error
	for i, err := range errs {
		if err != nil {
			failed = append(failed, chunks[i].Index)
			if first == nil {
				first = err
			}
		}
	}
	if len(failed) > 0 {
		return nil, &IngestionError{
			SourceID:     sourceID,
			Attempted:    len(chunks),
			FailedChunks: failed,
			Err:          first,
		}
	}

	// A cancelled ingestion must not commit a batch.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := in.store.Upsert(ctx, entries); err != nil {
		return nil, fmt.Errorf("upsert batch for %s: %w", sourceID, err)
	}

	return &IngestResult{SourceID: sourceID, ChunkCount: len(chunks)}, nil
}
