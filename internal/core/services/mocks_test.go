package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/nyayalabs/nyaya-cli/internal/core/domain"
	"github.com/nyayalabs/nyaya-cli/internal/core/ports/driven"
)

// mockExtractor answers by input name.
type mockExtractor struct {
	texts   map[string]string
	skipped map[string]int
	errs    map[string]error
}

var _ driven.TextExtractor = (*mockExtractor)(nil)

func (m *mockExtractor) Extract(_ context.Context, input domain.DocumentInput) (*domain.ExtractedDocument, error) {
	if err, ok := m.errs[input.Name]; ok {
		return nil, err
	}
	text, ok := m.texts[input.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrExtractionFailed, input.Name)
	}
	return &domain.ExtractedDocument{
		Source:       input.Name,
		Text:         text,
		PagesSkipped: m.skipped[input.Name],
	}, nil
}

// passthroughNormaliser trims and records what it saw.
type passthroughNormaliser struct {
	saw string
}

var _ driven.Normaliser = (*passthroughNormaliser)(nil)

func (m *passthroughNormaliser) Normalise(raw string) string {
	m.saw = raw
	return strings.TrimSpace(raw)
}

// sentenceChunker splits on ". " so tests control chunk counts.
type sentenceChunker struct{}

var _ driven.Chunker = (*sentenceChunker)(nil)

func (sentenceChunker) Split(text string) []string {
	if text == "" {
		return nil
	}
	return strings.SplitAfter(text, ". ")
}

// mockVectorStore keeps chunks in a slice and scores by naive term overlap.
type mockVectorStore struct {
	chunks    []domain.Chunk
	countErr  error
	upsertErr error
	searchErr error
	clearErr  error

	searches []string
	cleared  int
}

var _ driven.VectorStore = (*mockVectorStore)(nil)

func (m *mockVectorStore) Upsert(_ context.Context, chunks []domain.Chunk) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.chunks = append(m.chunks, chunks...)
	return nil
}

func (m *mockVectorStore) Search(_ context.Context, query string, k int) ([]domain.RetrievedChunk, error) {
	m.searches = append(m.searches, query)
	if m.searchErr != nil {
		return nil, m.searchErr
	}

	terms := strings.Fields(strings.ToLower(query))
	var out []domain.RetrievedChunk
	for _, c := range m.chunks {
		score := 0.0
		content := strings.ToLower(c.Content)
		for _, t := range terms {
			if strings.Contains(content, t) {
				score++
			}
		}
		if score > 0 {
			out = append(out, domain.RetrievedChunk{Chunk: c, Score: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

func (m *mockVectorStore) Count(_ context.Context) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.chunks), nil
}

func (m *mockVectorStore) Clear(_ context.Context) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.cleared++
	m.chunks = nil
	return nil
}

func (m *mockVectorStore) Close() error { return nil }

// mockLedger records runs in memory.
type mockLedger struct {
	runs []domain.IngestRun
	err  error
}

var _ driven.IngestLedger = (*mockLedger)(nil)

func (m *mockLedger) RecordRun(_ context.Context, run domain.IngestRun) error {
	if m.err != nil {
		return m.err
	}
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockLedger) LastRun(_ context.Context) (*domain.IngestRun, error) {
	if len(m.runs) == 0 {
		return nil, domain.ErrNotFound
	}
	run := m.runs[len(m.runs)-1]
	return &run, nil
}

func (m *mockLedger) Close() error { return nil }

// mockCompletion replays scripted responses in order and records every
// message sequence it was called with.
type mockCompletion struct {
	responses []string
	err       error

	calls [][]driven.ChatMessage
}

var _ driven.CompletionService = (*mockCompletion)(nil)

func (m *mockCompletion) Complete(_ context.Context, messages []driven.ChatMessage, _ driven.CompleteOptions) (string, error) {
	m.calls = append(m.calls, messages)
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", fmt.Errorf("no scripted response left")
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

func (m *mockCompletion) ModelName() string            { return "mock-model" }
func (m *mockCompletion) Ping(_ context.Context) error { return nil }
func (m *mockCompletion) Close() error                 { return nil }

// mockPrompts serves prompts from a map, falling back to the name itself.
type mockPrompts struct {
	prompts map[string]string
}

var _ driven.PromptStore = (*mockPrompts)(nil)

func (m *mockPrompts) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return name + " instructions", nil
}

func (m *mockPrompts) Reload() {}
