package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nyayalabs/nyaya-cli/internal/core/domain"
	"github.com/nyayalabs/nyaya-cli/internal/core/ports/driven"
	"github.com/nyayalabs/nyaya-cli/internal/core/ports/driving"
	"github.com/nyayalabs/nyaya-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService turns source documents into tagged chunks and loads
// them into the vector store. Extraction failures on individual sources
// are reported, not fatal; the rest of the batch proceeds.
type IngestService struct {
	extractor  driven.TextExtractor
	normaliser driven.Normaliser
	chunker    driven.Chunker
	store      driven.VectorStore
	ledger     driven.IngestLedger
}

// NewIngestService creates the ingestion pipeline from its collaborators.
func NewIngestService(
	extractor driven.TextExtractor,
	normaliser driven.Normaliser,
	chunker driven.Chunker,
	store driven.VectorStore,
) *IngestService {
	return &IngestService{
		extractor:  extractor,
		normaliser: normaliser,
		chunker:    chunker,
		store:      store,
	}
}

// SetLedger attaches an optional run ledger. Ledger writes are best
// effort and never fail an ingestion.
func (s *IngestService) SetLedger(l driven.IngestLedger) {
	s.ledger = l
}

// Ingest extracts, normalises, and chunks the given sources. Sources
// that cannot be read at all are collected in the result's Failed list.
// An empty input produces an empty result; a batch where every source
// fails returns domain.ErrExtractionFailed.
func (s *IngestService) Ingest(ctx context.Context, inputs []domain.DocumentInput) (*domain.IngestResult, error) {
	result := &domain.IngestResult{}
	if len(inputs) == 0 {
		return result, nil
	}

	var texts []string
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logger.Debug("extracting %s", input.Name)
		doc, err := s.extractor.Extract(ctx, input)
		if err != nil {
			logger.Warn("skipping %s: %v", input.Name, err)
			result.Failed = append(result.Failed, domain.SourceFailure{
				Source: input.Name,
				Reason: err.Error(),
			})
			continue
		}

		result.PagesSkipped += doc.PagesSkipped
		texts = append(texts, doc.Text)
	}

	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: all %d sources failed", domain.ErrExtractionFailed, len(inputs))
	}

	normalised := s.normaliser.Normalise(strings.Join(texts, "\n\n"))
	pieces := s.chunker.Split(normalised)

	result.Chunks = make([]domain.Chunk, 0, len(pieces))
	for i, content := range pieces {
		result.Chunks = append(result.Chunks, domain.Chunk{
			ID:      uuid.NewString(),
			Index:   i,
			Content: content,
			Metadata: map[string]string{
				domain.MetaChunkID:      strconv.Itoa(i),
				domain.MetaSource:       domain.SourceTag,
				domain.MetaDocumentType: domain.DocumentTypeTag,
			},
		})
	}

	logger.Info("ingested %d chunks from %d sources (%d failed, %d pages skipped)",
		len(result.Chunks), len(inputs), len(result.Failed), result.PagesSkipped)

	return result, nil
}

// IngestAndStore runs the pipeline and loads the chunks into the vector
// store. When the store already holds chunks and reload is false, the
// existing corpus is kept and its count is returned. With reload, the
// store is cleared first. Returns the number of chunks available.
func (s *IngestService) IngestAndStore(ctx context.Context, inputs []domain.DocumentInput, reload bool) (int, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("checking store: %w", err)
	}

	if count > 0 && !reload {
		logger.Info("store already holds %d chunks, skipping ingestion", count)
		return count, nil
	}

	started := time.Now()

	if count > 0 {
		logger.Debug("reload requested, clearing %d existing chunks", count)
		if err := s.store.Clear(ctx); err != nil {
			return 0, fmt.Errorf("clearing store: %w", err)
		}
	}

	result, err := s.Ingest(ctx, inputs)
	if err != nil {
		return 0, err
	}

	if err := s.store.Upsert(ctx, result.Chunks); err != nil {
		return 0, fmt.Errorf("storing chunks: %w", err)
	}

	s.recordRun(ctx, started, result)

	return len(result.Chunks), nil
}

// recordRun writes the run to the ledger when one is attached.
func (s *IngestService) recordRun(ctx context.Context, started time.Time, result *domain.IngestResult) {
	if s.ledger == nil {
		return
	}

	run := domain.IngestRun{
		ID:         uuid.NewString(),
		StartedAt:  started,
		FinishedAt: time.Now(),
		ChunkCount: len(result.Chunks),
		Failures:   result.Failed,
	}
	if err := s.ledger.RecordRun(ctx, run); err != nil {
		logger.Warn("recording ingest run: %v", err)
	}
}
