// ABOUTME: In-memory vector store using brute-force cosine similarity
// ABOUTME: Default backend for development and tests; stable ordering on ties
package vectorstore

import (
	"context"
	"sort"
	"sync"

	"github.com/harper/docchat/internal/models"
)

// MemoryStore holds entries in process memory. Safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	dimension int
	entries   []models.IndexedEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Upsert appends entries, pinning the store's vector dimension to the
// first vector ever written.
func (s *MemoryStore) Upsert(ctx context.Context, entries []models.IndexedEntry) error {
	if len(entries) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	dim, err := checkDimensions(entries, s.dimension)
	if err != nil {
		return err
	}
	s.dimension = dim
	s.entries = append(s.entries, entries...)
	return nil
}

// Query scores every stored entry against vector and returns the topK
// best matches, highest similarity first. Ties keep insertion order.
func (s *MemoryStore) Query(ctx context.Context, vector []float64, topK int) ([]models.RetrievalMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if topK <= 0 {
		topK = 1
	}

	matches := make([]models.RetrievalMatch, 0, len(s.entries))
	for _, e := range s.entries {
		matches = append(matches, models.RetrievalMatch{
			EntryID:    e.ID,
			SourceID:   e.SourceID,
			ChunkIndex: e.ChunkIndex,
			Text:       e.Text,
			Score:      cosineSimilarity(vector, e.Vector),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Len reports how many entries the store holds.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
