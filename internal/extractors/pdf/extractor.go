// Package pdf extracts text from PDF documents using the poppler
// command-line tools (pdftotext, pdfinfo).
package pdf

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/nyayalabs/nyaya-cli/internal/core/domain"
	"github.com/nyayalabs/nyaya-cli/internal/core/ports/driven"
	"github.com/nyayalabs/nyaya-cli/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// pagesLine matches the page count line of pdfinfo output.
var pagesLine = regexp.MustCompile(`(?m)^Pages:\s+(\d+)\s*$`)

// Extractor pulls text out of PDF files page by page. A page whose
// extraction fails is skipped; the rest of the document continues.
type Extractor struct {
	runner driven.CommandRunner
}

// Option configures the extractor.
type Option func(*Extractor)

// WithRunner replaces the command runner. Used in tests.
func WithRunner(r driven.CommandRunner) Option {
	return func(e *Extractor) {
		e.runner = r
	}
}

// New creates a new PDF extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		runner: execRunner{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the text of all readable pages of the input, joined
// with newlines. In-memory inputs are spooled to a temporary file for
// the external tools. Returns domain.ErrExtractionFailed when the
// document cannot be read at all.
func (e *Extractor) Extract(ctx context.Context, input domain.DocumentInput) (*domain.ExtractedDocument, error) {
	path := input.Path
	if input.InMemory() {
		tmp, err := spoolToTemp(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, input.Name, err)
		}
		defer os.Remove(tmp)
		path = tmp
	}

	pages, err := e.pageCount(ctx, path)
	if err != nil {
		// Without a page count, fall back to whole-document extraction.
		logger.Debug("pdfinfo failed for %s, extracting whole document: %v", input.Name, err)
		out, err := e.runner.Run(ctx, "pdftotext", "-layout", path, "-")
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, input.Name, err)
		}
		return &domain.ExtractedDocument{Source: input.Name, Text: string(out)}, nil
	}

	var parts []string
	skipped := 0
	for page := 1; page <= pages; page++ {
		n := strconv.Itoa(page)
		out, err := e.runner.Run(ctx, "pdftotext", "-layout", "-f", n, "-l", n, path, "-")
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, input.Name, ctx.Err())
			}
			logger.Warn("skipping page %d of %s: %v", page, input.Name, err)
			skipped++
			continue
		}
		if text := string(out); strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: %s: no readable pages", domain.ErrExtractionFailed, input.Name)
	}

	return &domain.ExtractedDocument{
		Source:       input.Name,
		Text:         strings.Join(parts, "\n"),
		PagesSkipped: skipped,
	}, nil
}

// pageCount reads the document's page count via pdfinfo.
func (e *Extractor) pageCount(ctx context.Context, path string) (int, error) {
	out, err := e.runner.Run(ctx, "pdfinfo", path)
	if err != nil {
		return 0, err
	}

	m := pagesLine.FindSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("no page count in pdfinfo output")
	}
	return strconv.Atoi(string(m[1]))
}

// spoolToTemp writes an in-memory document to a temporary file.
func spoolToTemp(input domain.DocumentInput) (string, error) {
	f, err := os.CreateTemp("", "nyaya-*.pdf")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(input.Data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}
