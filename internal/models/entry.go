// ABOUTME: IndexedEntry and RetrievalMatch models for the vector store boundary
// ABOUTME: Entries are immutable once written; matches are recomputed per query
package models

import "github.com/google/uuid"

// IndexedEntry is a chunk's text plus its embedding vector, persisted in
// the vector store under a globally unique identifier. Entries are never
// mutated after creation.
type IndexedEntry struct {
	ID         string    `json:"id"`
	SourceID   string    `json:"source_id"`
	ChunkIndex int       `json:"chunk_index"`
	Text       string    `json:"text"`
	Vector     []float64 `json:"vector"`
}

// NewIndexedEntry pairs a chunk with its vector under a fresh unique ID.
func NewIndexedEntry(chunk Chunk, vector []float64) IndexedEntry {
	return IndexedEntry{
		ID:         "entry_" + uuid.New().String(),
		SourceID:   chunk.SourceID,
		ChunkIndex: chunk.Index,
		Text:       chunk.Text,
		Vector:     vector,
	}
}

// RetrievalMatch is an indexed entry's text and metadata plus the
// similarity score it earned against one query vector.
type RetrievalMatch struct {
	EntryID    string  `json:"entry_id"`
	SourceID   string  `json:"source_id"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}
