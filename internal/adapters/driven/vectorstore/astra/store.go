// Package astra provides a hosted vector store adapter using the
// Astra DB Data API (JSON over HTTP).
package astra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nyayalabs/nyaya-cli/internal/core/domain"
	"github.com/nyayalabs/nyaya-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultKeyspace   = "default_keyspace"
	DefaultCollection = "legal_documents"
	DefaultTimeout    = 30 * time.Second

	// insertBatchSize bounds documents per insertMany command, per the
	// Data API limit.
	insertBatchSize = 20
)

// Config holds configuration for the Astra DB store.
type Config struct {
	// Endpoint is the database API endpoint, e.g.
	// https://<db-id>-<region>.apps.astra.datastax.com (required).
	Endpoint string

	// Token is the application token (required).
	Token string

	// Keyspace is the keyspace name (default: default_keyspace).
	Keyspace string

	// Collection is the collection name (default: legal_documents).
	Collection string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Store persists embedded chunks in an Astra DB collection. Embedding
// is delegated to the configured EmbeddingService.
type Store struct {
	client   *http.Client
	embedder driven.EmbeddingService
	url      string
	token    string
}

// document is the Data API document shape for one chunk.
type document struct {
	ID       string            `json:"_id"`
	Vector   []float32         `json:"$vector,omitempty"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// apiResponse is the common Data API response envelope.
type apiResponse struct {
	Status struct {
		InsertedIDs  []string `json:"insertedIds"`
		Count        int      `json:"count"`
		DeletedCount int      `json:"deletedCount"`
	} `json:"status"`
	Data struct {
		Documents []struct {
			document
			Similarity float64 `json:"$similarity"`
		} `json:"documents"`
	} `json:"data"`
	Errors []struct {
		Message   string `json:"message"`
		ErrorCode string `json:"errorCode"`
	} `json:"errors"`
}

// New creates a new Astra DB store.
func New(cfg Config, embedder driven.EmbeddingService) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("astra: endpoint is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("astra: token is required")
	}
	if cfg.Keyspace == "" {
		cfg.Keyspace = DefaultKeyspace
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Store{
		client:   &http.Client{Timeout: cfg.Timeout},
		embedder: embedder,
		url:      fmt.Sprintf("%s/api/json/v1/%s/%s", cfg.Endpoint, cfg.Keyspace, cfg.Collection),
		token:    cfg.Token,
	}, nil
}

// Upsert embeds and stores the given chunks in bounded batches.
func (s *Store) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	for start := 0; start < len(chunks); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := s.insertBatch(ctx, chunks[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) insertBatch(ctx context.Context, chunks []domain.Chunk) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: embed batch: %w", domain.ErrEmbeddingUnavailable, err)
	}

	docs := make([]document, len(chunks))
	for i, c := range chunks {
		docs[i] = document{
			ID:       c.ID,
			Vector:   vectors[i],
			Content:  c.Content,
			Metadata: c.Metadata,
		}
	}

	_, err = s.command(ctx, map[string]any{
		"insertMany": map[string]any{
			"documents": docs,
			"options":   map[string]any{"ordered": false},
		},
	})
	return err
}

// Search embeds the query and returns the k nearest chunks by vector
// similarity.
func (s *Store) Search(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrEmbeddingUnavailable, err)
	}

	resp, err := s.command(ctx, map[string]any{
		"find": map[string]any{
			"sort": map[string]any{"$vector": vector},
			"options": map[string]any{
				"limit":             k,
				"includeSimilarity": true,
			},
		},
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.RetrievedChunk, 0, len(resp.Data.Documents))
	for _, doc := range resp.Data.Documents {
		out = append(out, domain.RetrievedChunk{
			Chunk: domain.Chunk{
				ID:       doc.ID,
				Content:  doc.Content,
				Metadata: doc.Metadata,
			},
			Score: doc.Similarity,
		})
	}
	return out, nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	resp, err := s.command(ctx, map[string]any{
		"countDocuments": map[string]any{},
	})
	if err != nil {
		return 0, err
	}
	return resp.Status.Count, nil
}

// Clear removes all stored chunks.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.command(ctx, map[string]any{
		"deleteMany": map[string]any{},
	})
	return err
}

// command posts one Data API command and decodes the envelope.
func (s *Store) command(ctx context.Context, body map[string]any) (*apiResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Token", s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send command: %w", domain.ErrRetrievalUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: astra error (status %d): %s", domain.ErrRetrievalUnavailable, resp.StatusCode, string(respBody))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(apiResp.Errors) > 0 {
		return nil, fmt.Errorf("%w: astra error: %s", domain.ErrRetrievalUnavailable, apiResp.Errors[0].Message)
	}

	return &apiResp, nil
}

// Close releases resources.
func (s *Store) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
