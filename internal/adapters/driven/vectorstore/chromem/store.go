// Package chromem provides an embedded, persistent vector store
// adapter backed by chromem-go.
package chromem

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/philippgille/chromem-go"

	"github.com/nyayalabs/nyaya-cli/internal/core/domain"
	"github.com/nyayalabs/nyaya-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// DefaultCollection is the collection holding the legal corpus.
const DefaultCollection = "legal_documents"

// Config holds configuration for the chromem store.
type Config struct {
	// Path is the on-disk location of the database. Empty runs the
	// store in memory.
	Path string

	// Collection is the collection name (default: legal_documents).
	Collection string

	// Compress enables gzip compression of persisted documents.
	Compress bool
}

// Store persists embedded chunks in a chromem-go collection. Embedding
// is delegated to the configured EmbeddingService.
type Store struct {
	mu         sync.Mutex
	db         *chromem.DB
	collection *chromem.Collection
	name       string
	embedFunc  chromem.EmbeddingFunc
}

// New opens (or creates) the chromem database and collection.
func New(cfg Config, embedder driven.EmbeddingService) (*Store, error) {
	var (
		db  *chromem.DB
		err error
	)
	if cfg.Path == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(cfg.Path, cfg.Compress)
		if err != nil {
			return nil, fmt.Errorf("open chromem db: %w", err)
		}
	}

	name := cfg.Collection
	if name == "" {
		name = DefaultCollection
	}

	embedFunc := func(ctx context.Context, text string) ([]float32, error) {
		return embedder.Embed(ctx, text)
	}

	collection, err := db.GetOrCreateCollection(name, nil, embedFunc)
	if err != nil {
		return nil, fmt.Errorf("open collection %s: %w", name, err)
	}

	return &Store{
		db:         db,
		collection: collection,
		name:       name,
		embedFunc:  embedFunc,
	}, nil
}

// Upsert embeds and stores the given chunks.
func (s *Store) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = chromem.Document{
			ID:       c.ID,
			Content:  c.Content,
			Metadata: c.Metadata,
		}
	}

	s.mu.Lock()
	collection := s.collection
	s.mu.Unlock()

	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("%w: add documents: %w", domain.ErrRetrievalUnavailable, err)
	}
	return nil
}

// Search returns the k most similar chunks to the query text.
func (s *Store) Search(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error) {
	s.mu.Lock()
	collection := s.collection
	s.mu.Unlock()

	// chromem rejects nResults above the collection size.
	if count := collection.Count(); count < k {
		k = count
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", domain.ErrRetrievalUnavailable, err)
	}

	out := make([]domain.RetrievedChunk, len(results))
	for i, r := range results {
		out[i] = domain.RetrievedChunk{
			Chunk: domain.Chunk{
				ID:       r.ID,
				Content:  r.Content,
				Metadata: r.Metadata,
			},
			Score: float64(r.Similarity),
		}
	}
	return out, nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collection.Count(), nil
}

// Clear removes all stored chunks by recreating the collection.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteCollection(s.name); err != nil {
		return fmt.Errorf("delete collection %s: %w", s.name, err)
	}
	collection, err := s.db.GetOrCreateCollection(s.name, nil, s.embedFunc)
	if err != nil {
		return fmt.Errorf("recreate collection %s: %w", s.name, err)
	}
	s.collection = collection
	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	// chromem persists on write; nothing to flush
	return nil
}
