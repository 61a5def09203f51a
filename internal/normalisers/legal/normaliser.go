// Package legal provides text normalisation for statute text extracted
// from scanned or typeset legal documents.
package legal

import (
	"regexp"
	"strings"

	"github.com/nyayalabs/nyaya-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var (
	// Lines consisting of a bare page number.
	pageNumberLine = regexp.MustCompile(`^\s*\d+\s*$`)

	// "Page N ..." header/footer lines.
	pageFooterLine = regexp.MustCompile(`^\s*Page\s+\d+.*$`)

	// Words split across a line break by a hyphen.
	hyphenBreak = regexp.MustCompile(`(\w+)-[ \t]*\n[ \t]*(\w+)`)

	// Runs of dots (form dotted lines) and underscores (form fields).
	ellipsisRun   = regexp.MustCompile(`\.{3,}`)
	underscoreRun = regexp.MustCompile(`_{3,}`)

	// Paragraph break normalisation.
	newlineRun = regexp.MustCompile(`\n{3,}`)

	// Trailing spaces before a line break.
	trailingSpace = regexp.MustCompile(`[ \t]+\n`)

	// Legal citation abbreviations.
	sectionRef = regexp.MustCompile(`\bSec\.?\s*(\d+)`)
	articleRef = regexp.MustCompile(`\bArt\.?\s*(\d+)`)

	// Final whitespace collapse.
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Normaliser cleans raw statute text: page artifacts, hyphenation,
// form-field noise, and citation abbreviations.
type Normaliser struct{}

// New creates a new legal text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Normalise cleans raw extracted text. It is pure and idempotent:
// normalising already-clean text changes nothing. Empty input yields
// an empty string.
//
// Line-based rules run first, while line breaks are still intact; the
// final whitespace collapse then flattens all remaining newlines to
// single spaces. Paragraph boundaries are intentionally not preserved;
// the chunker works from sentence boundaries instead.
func (n *Normaliser) Normalise(raw string) string {
	if raw == "" {
		return ""
	}

	text := dropArtifactLines(raw)
	text = hyphenBreak.ReplaceAllString(text, "$1$2")

	text = ellipsisRun.ReplaceAllString(text, "...")
	text = underscoreRun.ReplaceAllString(text, "")

	text = newlineRun.ReplaceAllString(text, "\n\n")
	text = trailingSpace.ReplaceAllString(text, "\n")

	text = sectionRef.ReplaceAllString(text, "Section $1")
	text = articleRef.ReplaceAllString(text, "Article $1")

	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// dropArtifactLines removes lines that carry no statute text: bare page
// numbers and "Page N" headers/footers.
func dropArtifactLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if pageNumberLine.MatchString(line) || pageFooterLine.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
