// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): text extraction, normalisation, chunking,
// completion, embedding, vector storage, prompts, and the ingest ledger.
package driven
