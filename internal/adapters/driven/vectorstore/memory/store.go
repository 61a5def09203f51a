// Package memory provides an in-memory vector store for tests and
// local development.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/nyayalabs/nyaya-cli/internal/core/domain"
	"github.com/nyayalabs/nyaya-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// entry pairs a stored chunk with its embedding.
type entry struct {
	chunk  domain.Chunk
	vector []float32
}

// Store holds embedded chunks in memory and ranks queries by cosine
// similarity. Nothing is persisted.
type Store struct {
	mu       sync.RWMutex
	embedder driven.EmbeddingService
	entries  map[string]entry
	order    []string
}

// New creates an empty in-memory store.
func New(embedder driven.EmbeddingService) *Store {
	return &Store{
		embedder: embedder,
		entries:  make(map[string]entry),
	}
}

// Upsert embeds and stores the given chunks, replacing entries with
// matching IDs.
func (s *Store) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: embed batch: %w", domain.ErrEmbeddingUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range chunks {
		if _, exists := s.entries[c.ID]; !exists {
			s.order = append(s.order, c.ID)
		}
		s.entries[c.ID] = entry{chunk: c, vector: vectors[i]}
	}
	return nil
}

// Search returns the k most similar chunks, ordered by descending
// cosine similarity. Ties preserve insertion order.
func (s *Store) Search(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrEmbeddingUnavailable, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.RetrievedChunk, 0, len(s.order))
	for _, id := range s.order {
		e := s.entries[id]
		results = append(results, domain.RetrievedChunk{
			Chunk: e.chunk,
			Score: cosine(queryVec, e.vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Clear removes all stored chunks.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
	s.order = nil
	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// cosine computes the cosine similarity of two vectors. Mismatched or
// zero-length vectors score 0.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
