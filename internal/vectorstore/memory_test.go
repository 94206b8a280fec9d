// ABOUTME: Tests for the in-memory vector store
// ABOUTME: Verifies ranking order, dimension pinning, stable ties, and the topK bound

package vectorstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/harper/docchat/internal/models"
)

func entry(id string, vector []float64, text string) models.IndexedEntry {
	return models.IndexedEntry{ID: id, SourceID: "doc", Text: text, Vector: vector}
}

func TestMemoryStore_UpsertAndQuery(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	err := s.Upsert(ctx, []models.IndexedEntry{
		entry("a", []float64{1, 0}, "aligned"),
		entry("b", []float64{0, 1}, "orthogonal"),
		entry("c", []float64{0.9, 0.1}, "close"),
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}

	matches, err := s.Query(ctx, []float64{1, 0}, 2)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Query() = %d matches, want 2", len(matches))
	}
	if matches[0].EntryID != "a" || matches[1].EntryID != "c" {
		t.Errorf("order = [%s %s], want [a c]", matches[0].EntryID, matches[1].EntryID)
	}
	if matches[0].Score < matches[1].Score {
		t.Errorf("scores not descending: %v then %v", matches[0].Score, matches[1].Score)
	}
}

func TestMemoryStore_TopKBestFirstRegardlessOfInsertionOrder(t *testing.T) {
	// Five relevant entries and five unrelated entries, interleaved.
	s := NewMemoryStore()
	ctx := context.Background()

	var entries []models.IndexedEntry
	for i := 0; i < 5; i++ {
		// Mammal-ish entries point mostly along the first axis.
		entries = append(entries, entry(
			fmt.Sprintf("mammal-%d", i),
			[]float64{1, 0.1 * float64(i), 0},
			fmt.Sprintf("Mammal fact %d.", i),
		))
		// Unrelated entries point along the third axis.
		entries = append(entries, entry(
			fmt.Sprintf("other-%d", i),
			[]float64{0, 0.1 * float64(i), 1},
			fmt.Sprintf("Unrelated fact %d.", i),
		))
	}
	if err := s.Upsert(ctx, entries); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	matches, err := s.Query(ctx, []float64{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Query() = %d matches, want 2", len(matches))
	}
	for _, m := range matches {
		if len(m.EntryID) < 6 || m.EntryID[:6] != "mammal" {
			t.Errorf("match %s is not a mammal entry", m.EntryID)
		}
	}
}

func TestMemoryStore_StableTieOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	// Identical vectors: identical scores, insertion order must hold.
	err := s.Upsert(ctx, []models.IndexedEntry{
		entry("first", []float64{1, 1}, "one"),
		entry("second", []float64{1, 1}, "two"),
		entry("third", []float64{1, 1}, "three"),
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	matches, err := s.Query(ctx, []float64{1, 1}, 3)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if matches[i].EntryID != w {
			t.Errorf("matches[%d] = %s, want %s", i, matches[i].EntryID, w)
		}
	}
}

func TestMemoryStore_DimensionPinning(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Upsert(ctx, []models.IndexedEntry{entry("a", []float64{1, 2, 3}, "x")}); err != nil {
		t.Fatalf("first Upsert() error = %v", err)
	}

	err := s.Upsert(ctx, []models.IndexedEntry{entry("b", []float64{1, 2}, "y")})
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, mismatched batch must not be stored", s.Len())
	}
}

func TestMemoryStore_RejectsEmptyVector(t *testing.T) {
	s := NewMemoryStore()
	err := s.Upsert(context.Background(), []models.IndexedEntry{entry("a", nil, "x")})
	if err == nil {
		t.Fatal("expected error for empty vector")
	}
}

func TestMemoryStore_QueryEmptyStore(t *testing.T) {
	s := NewMemoryStore()
	matches, err := s.Query(context.Background(), []float64{1}, 5)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("Query() = %d matches, want 0", len(matches))
	}
}
