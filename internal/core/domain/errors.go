package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotReady indicates the engine was called before ingestion and
	// setup completed. Reported distinctly from generation failures so
	// operators can tell "not ready" from "degraded".
	ErrNotReady = errors.New("engine not ready")

	// ErrExtractionFailed indicates a source document could not be read
	// at all. The failing source is skipped and reported; remaining
	// sources continue.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrRetrievalUnavailable indicates the vector store could not be
	// reached. Chat calls degrade to empty-context synthesis rather
	// than failing.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")

	// ErrGenerationFailed indicates the completion provider failed.
	// Surfaced to the caller; the turn is not recorded in history.
	ErrGenerationFailed = errors.New("answer generation failed")

	// ErrCompletionUnavailable indicates no completion service is configured.
	ErrCompletionUnavailable = errors.New("completion service unavailable")

	// ErrEmbeddingUnavailable indicates no embedding service is configured.
	// Similarity search is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
