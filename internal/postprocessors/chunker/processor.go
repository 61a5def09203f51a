// Package chunker provides a recursive text chunking processor that
// prefers semantic boundaries over hard cuts.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/nyayalabs/nyaya-cli/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.Chunker = (*Processor)(nil)

// DefaultChunkSize is the default number of bytes per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping bytes between
// adjacent chunks.
const DefaultOverlap = 200

// Boundary levels, most preferred first: paragraph break, line break,
// sentence end, word break. A hard cut is the final fallback.
var boundaryLevels = [][]string{
	{"\n\n"},
	{"\n"},
	{". ", "! ", "? "},
	{" "},
}

// Processor splits text into overlapping bounded-size chunks, breaking
// at the best boundary available within each window.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the maximum chunk size in bytes.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between adjacent chunks in bytes.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Overlap must stay below the chunk size to guarantee progress.
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Split divides text into ordered chunks covering the whole input with
// no gaps. Each chunk except possibly the last ends at the latest
// boundary within its window; adjacent chunks overlap by the configured
// amount. Empty input produces no chunks.
func (p *Processor) Split(text string) []string {
	if text == "" {
		return nil
	}
	if len(text) <= p.chunkSize {
		return []string{text}
	}

	estimated := len(text)/(p.chunkSize-p.overlap) + 1
	chunks := make([]string, 0, estimated)

	start := 0
	for start < len(text) {
		end := start + p.chunkSize
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}

		cut := p.boundary(text, start, end)
		chunks = append(chunks, text[start:cut])

		// Step back by the overlap so adjacent chunks share context.
		// The boundary is always past start+overlap, so this advances.
		start = cut - p.overlap
	}

	return chunks
}

// boundary returns the cut position for the window [start, end),
// preferring the latest paragraph, line, sentence, or word boundary.
// The returned cut always satisfies start+overlap < cut <= end.
func (p *Processor) boundary(text string, start, end int) int {
	window := text[start:end]

	for _, seps := range boundaryLevels {
		best := -1
		for _, sep := range seps {
			if i := strings.LastIndex(window, sep); i >= 0 && i+len(sep) > best {
				best = i + len(sep)
			}
		}
		if best > p.overlap {
			return start + best
		}
	}

	// No usable boundary: hard cut, backed up to a rune start so a
	// multi-byte character is never split.
	cut := end
	for cut > start && !utf8.RuneStart(text[cut]) {
		cut--
	}
	if cut <= start+p.overlap {
		cut = end
	}
	return cut
}
