package driven

import (
	"context"

	"github.com/nyayalabs/nyaya-cli/internal/core/domain"
)

// VectorStore persists embedded chunks and answers similarity queries.
// Embedding happens inside the store: callers hand over text, the store
// owns the vector representation and the persisted copy of each chunk.
//
// Implementations may include:
//   - chromem-go (embedded, persistent)
//   - Astra DB Data API (hosted)
//   - in-memory (tests and local development)
type VectorStore interface {
	// Upsert embeds and stores the given chunks.
	Upsert(ctx context.Context, chunks []domain.Chunk) error

	// Search returns the k most similar chunks to the query text,
	// ordered by descending similarity score.
	Search(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Clear removes all stored chunks.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
