// ABOUTME: Error taxonomy for the ingestion and retrieval pipelines
// ABOUTME: Sentinel errors plus structured IngestionError and GenerationError
package rag

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput rejects empty or whitespace-only text before any
	// remote call is made.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidQuestion rejects empty or whitespace-only questions.
	ErrInvalidQuestion = errors.New("invalid question")

	// ErrEmbeddingUnavailable marks embedding service failures
	// (network, auth, quota).
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrStoreUnavailable marks vector store transport failures.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrGenerationUnavailable marks answer generation failures.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrRetrieval marks a failure in the embed-question or query-store
	// steps, before generation was attempted.
	ErrRetrieval = errors.New("retrieval failed")
)

// IngestionError reports that a document's indexing was aborted. Nothing
// was upserted: a partially indexed document would later be
// indistinguishable from a fully indexed one.
type IngestionError struct {
	SourceID     string
	Attempted    int   // chunks whose embedding was attempted
	FailedChunks []int // chunk indexes whose embedding failed
	Err          error // first underlying failure
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingestion of %s failed: %d of %d chunk embeddings failed: %v",
		e.SourceID, len(e.FailedChunks), e.Attempted, e.Err)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

// GenerationError reports that retrieval succeeded but answer generation
// failed. Context and Sources carry the assembled retrieval output so a
// caller can serve a degraded raw-context response instead of nothing.
type GenerationError struct {
	Err     error
	Context string
	Sources []string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed after successful retrieval: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
