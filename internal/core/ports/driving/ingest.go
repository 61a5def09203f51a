package driving

import (
	"context"

	"github.com/nyayalabs/nyaya-cli/internal/core/domain"
)

// IngestService builds chunks from source documents and, optionally,
// persists them to the vector store.
type IngestService interface {
	// Ingest extracts, normalises, chunks, and tags the given sources
	// in input order. Unreadable sources are skipped and reported in
	// the result, never aborting the batch. An empty input produces an
	// empty result without error.
	Ingest(ctx context.Context, inputs []domain.DocumentInput) (*domain.IngestResult, error)

	// IngestAndStore ingests the sources and upserts the chunks into
	// the vector store, returning the stored chunk count. When reload
	// is false and the store already holds chunks, ingestion is skipped
	// and the existing count is returned.
	IngestAndStore(ctx context.Context, inputs []domain.DocumentInput, reload bool) (int, error)
}
