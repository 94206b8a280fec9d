// ABOUTME: Charm KV vector store backend with cloud sync and cosine similarity scan
// ABOUTME: Entries are JSON values under an entry: key prefix; the client is injected, not global
package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/kv"
	"github.com/harper/docchat/internal/models"
	"github.com/harper/docchat/internal/rag"
)

// EntryPrefix namespaces indexed entries inside the KV database.
const EntryPrefix = "entry:"

// CharmConfig holds Charm KV connection settings.
type CharmConfig struct {
	Host     string
	DBName   string
	AutoSync bool
}

// DefaultCharmConfig returns the default Charm settings.
func DefaultCharmConfig() CharmConfig {
	host := os.Getenv("CHARM_HOST")
	if host == "" {
		host = "cloud.charm.sh"
	}
	return CharmConfig{Host: host, DBName: "docchat", AutoSync: true}
}

// CharmStore persists entries in Charm KV so an index survives restarts
// and syncs across machines linked to the same Charm account.
type CharmStore struct {
	kv       *kv.KV
	autoSync bool

	mu        sync.Mutex
	dimension int
}

// NewCharmStore opens the Charm KV database and pulls remote data once.
func NewCharmStore(cfg CharmConfig) (*CharmStore, error) {
	if cfg.Host != "" {
		os.Setenv("CHARM_HOST", cfg.Host)
	}
	dbName := cfg.DBName
	if dbName == "" {
		dbName = "docchat"
	}

	db, err := kv.OpenWithDefaults(dbName)
	if err != nil {
		return nil, fmt.Errorf("%w: open charm kv: %w", rag.ErrStoreUnavailable, err)
	}

	s := &CharmStore{kv: db, autoSync: cfg.AutoSync}
	if cfg.AutoSync {
		_ = db.Sync()
	}
	return s, nil
}

// Close closes the underlying KV database.
func (s *CharmStore) Close() error {
	if s.kv != nil {
		return s.kv.Close()
	}
	return nil
}

// Upsert writes each entry as a JSON value and syncs once for the batch.
func (s *CharmStore) Upsert(ctx context.Context, entries []models.IndexedEntry) error {
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

	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal entry %s: %w", e.ID, err)
		}
		if err := s.kv.Set([]byte(entryKey(e.ID)), data); err != nil {
			return fmt.Errorf("%w: set %s: %w", rag.ErrStoreUnavailable, e.ID, err)
		}
	}
	if s.autoSync {
		_ = s.kv.Sync()
	}
	return nil
}

// Query scans all stored entries and ranks them by cosine similarity.
func (s *CharmStore) Query(ctx context.Context, vector []float64, topK int) ([]models.RetrievalMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if topK <= 0 {
		topK = 1
	}

	keys, err := s.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("%w: list keys: %w", rag.ErrStoreUnavailable, err)
	}

	var matches []models.RetrievalMatch
	for _, key := range keys {
		if !strings.HasPrefix(string(key), EntryPrefix) {
			continue
		}
		data, err := s.kv.Get(key)
		if err != nil || data == nil {
			continue
		}
		var e models.IndexedEntry
		if err := json.Unmarshal(data, &e); err != nil {
			continue
		}
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

// entryKey generates the KV key for an indexed entry
func entryKey(entryID string) string {
	return EntryPrefix + entryID
}
