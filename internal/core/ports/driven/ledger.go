package driven

import (
	"context"

	"github.com/nyayalabs/nyaya-cli/internal/core/domain"
)

// IngestLedger records the outcome of ingestion runs: when a run
// happened, how many chunks it produced, and which sources failed.
// The ledger is operational bookkeeping only; chunks themselves live
// in the VectorStore.
type IngestLedger interface {
	// RecordRun persists one completed ingestion run.
	RecordRun(ctx context.Context, run domain.IngestRun) error

	// LastRun returns the most recent run, or domain.ErrNotFound when
	// no run has been recorded.
	LastRun(ctx context.Context) (*domain.IngestRun, error)

	// Close releases resources.
	Close() error
}
