// ABOUTME: Qdrant vector store backend over its REST API
// ABOUTME: Creates the collection on first upsert with a pinned dimension and cosine distance
package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harper/docchat/internal/models"
	"github.com/harper/docchat/internal/rag"
)

// QdrantConfig holds connection details for a Qdrant instance.
type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// QdrantStore is a minimal REST client to Qdrant. The collection is
// created on first upsert using the batch's vector dimension; every later
// write must match it.
type QdrantStore struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client

	mu        sync.Mutex
	dimension int
	ensured   bool
}

// NewQdrantStore creates a Qdrant-backed store.
func NewQdrantStore(cfg QdrantConfig) *QdrantStore {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	collection := cfg.Collection
	if collection == "" {
		collection = "docchat"
	}
	return &QdrantStore{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// Upsert writes the batch as one logical call with wait=true so the
// write is durable before we report success.
func (s *QdrantStore) Upsert(ctx context.Context, entries []models.IndexedEntry) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	dim, err := checkDimensions(entries, s.dimension)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.dimension = dim
	needEnsure := !s.ensured
	s.mu.Unlock()

	if needEnsure {
		if err := s.ensureCollection(ctx, dim); err != nil {
			return err
		}
		s.mu.Lock()
		s.ensured = true
		s.mu.Unlock()
	}

	points := make([]map[string]any, len(entries))
	for i, e := range entries {
		points[i] = map[string]any{
			// Qdrant point IDs must be integers or UUIDs; the entry ID
			// travels in the payload.
			"id":     uuid.New().String(),
			"vector": e.Vector,
			"payload": map[string]any{
				"entry_id":    e.ID,
				"source_id":   e.SourceID,
				"chunk_index": e.ChunkIndex,
				"text":        e.Text,
			},
		}
	}
	body := map[string]any{"points": points}
	return s.putJSON(ctx, fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection), body)
}

// Query runs a nearest-neighbor search and maps payloads back to matches.
func (s *QdrantStore) Query(ctx context.Context, vector []float64, topK int) ([]models.RetrievalMatch, error) {
	if topK <= 0 {
		topK = 1
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection)
	if err := s.postJSON(ctx, url, req, &resp); err != nil {
		return nil, err
	}

	matches := make([]models.RetrievalMatch, 0, len(resp.Result))
	for _, r := range resp.Result {
		m := models.RetrievalMatch{Score: r.Score}
		if v, ok := r.Payload["entry_id"].(string); ok {
			m.EntryID = v
		}
		if v, ok := r.Payload["source_id"].(string); ok {
			m.SourceID = v
		}
		if v, ok := r.Payload["chunk_index"].(float64); ok {
			m.ChunkIndex = int(v)
		}
		if v, ok := r.Payload["text"].(string); ok {
			m.Text = v
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// ensureCollection creates the collection if missing. Qdrant answers 200
// when it already exists with the same schema.
func (s *QdrantStore) ensureCollection(ctx context.Context, dimension int) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	return s.putJSON(ctx, fmt.Sprintf("%s/collections/%s", s.url, s.collection), body)
}

func (s *QdrantStore) putJSON(ctx context.Context, url string, body any) error {
	return s.doJSON(ctx, http.MethodPut, url, body, nil)
}

func (s *QdrantStore) postJSON(ctx context.Context, url string, body any, out any) error {
	return s.doJSON(ctx, http.MethodPost, url, body, out)
}

func (s *QdrantStore) doJSON(ctx context.Context, method, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal qdrant request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build qdrant request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", rag.ErrStoreUnavailable, method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s: %s", rag.ErrStoreUnavailable, method, url, resp.Status)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode response from %s: %w", rag.ErrStoreUnavailable, url, err)
		}
	}
	return nil
}
