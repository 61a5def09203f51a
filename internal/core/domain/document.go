package domain

import "path/filepath"

// Metadata keys and fixed tag values attached to every ingested chunk.
const (
	MetaChunkID      = "chunk_id"
	MetaSource       = "source"
	MetaDocumentType = "document_type"

	// SourceTag marks chunks produced by the legal document pipeline.
	SourceTag = "legal_documents"

	// DocumentTypeTag classifies the ingested corpus.
	DocumentTypeTag = "legal_code"
)

// DocumentInput identifies one source document for ingestion.
// Exactly one of Path or Data is set: Path points at a file on disk,
// Data carries an already-loaded document body.
type DocumentInput struct {
	// Name is the display name used in logs and failure reports.
	Name string

	// Path is the file location on disk.
	Path string

	// Data is the raw document bytes for in-memory inputs.
	Data []byte
}

// FileInput builds a DocumentInput backed by a file on disk.
func FileInput(path string) DocumentInput {
	return DocumentInput{
		Name: filepath.Base(path),
		Path: path,
	}
}

// MemoryInput builds a DocumentInput backed by an in-memory document body.
func MemoryInput(name string, data []byte) DocumentInput {
	return DocumentInput{
		Name: name,
		Data: data,
	}
}

// InMemory reports whether the input carries its own bytes.
func (d DocumentInput) InMemory() bool {
	return d.Path == ""
}

// ExtractedDocument is the raw text pulled out of one source document,
// before normalisation. Discarded once chunking is complete.
type ExtractedDocument struct {
	// Source is the display name of the originating input.
	Source string

	// Text is the concatenated page text.
	Text string

	// PagesSkipped counts pages whose extraction failed and was skipped.
	PagesSkipped int
}

// Chunk is a bounded-length span of normalised document text prepared
// for embedding and similarity search.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Index is the zero-based position within the ingestion batch.
	Index int

	// Content is the chunk text.
	Content string

	// Metadata carries the fixed ingestion tags plus the sequence index.
	Metadata map[string]string
}

// RetrievedChunk is a chunk returned by similarity search.
type RetrievedChunk struct {
	// Chunk is the stored chunk.
	Chunk Chunk

	// Score is the similarity score, descending across a result set.
	Score float64
}
