package driven

import (
	"context"

	"github.com/nyayalabs/nyaya-cli/internal/core/domain"
)

// TextExtractor pulls raw text out of a source document.
// Extraction is treated as a black box; implementations wrap external
// tooling (e.g. pdftotext) or test doubles.
//
// A failed page must be skipped, not abort the document; only a document
// that cannot be read at all returns an error (wrapping
// domain.ErrExtractionFailed).
type TextExtractor interface {
	// Extract returns the raw text of one document input.
	Extract(ctx context.Context, input domain.DocumentInput) (*domain.ExtractedDocument, error)
}

// CommandRunner executes an external command and returns its stdout.
// Abstracted so extractors can be tested without the real binaries.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
