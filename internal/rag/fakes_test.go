// ABOUTME: Fake capability implementations shared by the pipeline tests
// ABOUTME: Count calls, inject failures, and track embedding concurrency

package rag

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/harper/docchat/internal/models"
)

// fakeEmbedder returns a small deterministic vector per call and records
// how many embedding calls ran at once.
type fakeEmbedder struct {
	mu        sync.Mutex
	calls     int
	inFlight  int32
	highWater int32
	failOn    map[string]error // text -> error
	embedFn   func(text string) ([]float64, error)
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	cur := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		high := atomic.LoadInt32(&f.highWater)
		if cur <= high || atomic.CompareAndSwapInt32(&f.highWater, high, cur) {
			break
		}
	}

	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if err, ok := f.failOn[text]; ok {
		return nil, err
	}
	if f.embedFn != nil {
		return f.embedFn(text)
	}
	return []float64{1, 0, 0}, nil
}

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeStore records upserted batches and serves canned query results.
type fakeStore struct {
	mu         sync.Mutex
	upserts    [][]models.IndexedEntry
	matches    []models.RetrievalMatch
	upsertErr  error
	queryErr   error
	lastTopK   int
	lastVector []float64
}

func (f *fakeStore) Upsert(ctx context.Context, entries []models.IndexedEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, entries)
	return nil
}

func (f *fakeStore) Query(ctx context.Context, vector []float64, topK int) ([]models.RetrievalMatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastVector = vector
	f.lastTopK = topK
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if topK < len(f.matches) {
		return f.matches[:topK], nil
	}
	return f.matches, nil
}

func (f *fakeStore) upsertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.upserts)
}

// fakeGenerator returns a fixed answer or a fixed error.
type fakeGenerator struct {
	answer      string
	err         error
	lastContext string
	lastSystem  string
}

func (f *fakeGenerator) Generate(ctx context.Context, instruction, contextText, question string) (string, error) {
	f.lastSystem = instruction
	f.lastContext = contextText
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

var errBoom = errors.New("boom")
