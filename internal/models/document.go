// ABOUTME: Document and Chunk models for the ingestion side of the pipeline
// ABOUTME: A chunk is an ordered contiguous span of a document's text
package models

// Document is the raw input to ingestion: extracted plain text plus an
// opaque source identifier. Documents are transient; only their chunks
// survive ingestion.
type Document struct {
	SourceID string `json:"source_id"`
	Text     string `json:"text"`
}

// Chunk is a bounded span of a document's text. Index is the chunk's
// position within the document, so results can be traced back to where
// in the source they came from.
type Chunk struct {
	SourceID string `json:"source_id"`
	Index    int    `json:"index"`
	Text     string `json:"text"`
}
