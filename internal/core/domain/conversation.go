package domain

import "time"

// Turn is one completed (query, answer) exchange within a session.
// Turns are never mutated after creation.
type Turn struct {
	// Query is the raw user query as received.
	Query string

	// Answer is the generated answer text.
	Answer string

	// At is when the exchange completed.
	At time.Time
}

// Answer is the result of one conversational retrieval call.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Supporting are the chunks used as context, in descending similarity.
	Supporting []RetrievedChunk

	// SessionID is the session the turn was recorded under. When the
	// caller supplied no session id, this carries the generated one.
	SessionID string
}

// IngestResult is the outcome of building chunks from a set of sources.
type IngestResult struct {
	// Chunks are the tagged chunks in batch order.
	Chunks []Chunk

	// Failed lists sources that could not be read at all.
	Failed []SourceFailure

	// PagesSkipped counts individual pages skipped across all sources.
	PagesSkipped int
}

// SourceFailure records one source document that could not be ingested.
type SourceFailure struct {
	Source string
	Reason string
}

// IngestRun records one completed ingestion run for the ledger.
type IngestRun struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	ChunkCount int
	Failures   []SourceFailure
}
