package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nyayalabs/nyaya-cli/internal/core/domain"
)

var ingestReload bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest statute PDFs into the vector store",
	Long: `Extracts, cleans, and chunks the given PDF files and loads them into
the vector store. Without arguments the documents configured in
config.toml are ingested. When the store already holds a corpus,
ingestion is skipped unless --reload is given.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestReload, "reload", false, "clear the store and re-ingest")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	d, err := ensureDeps()
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = d.Config.DocumentPaths()
	}
	if len(paths) == 0 {
		return fmt.Errorf("no documents configured; pass files or set documents in config.toml")
	}

	inputs := make([]domain.DocumentInput, 0, len(paths))
	for _, p := range paths {
		inputs = append(inputs, domain.FileInput(p))
	}

	ctx := cmd.Context()
	count, err := d.Ingest.IngestAndStore(ctx, inputs, ingestReload)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	cmd.Printf("Corpus ready: %d chunks.\n", count)
	reportLastRun(ctx, cmd, d)
	return nil
}

// reportLastRun prints source failures from the recorded run, if any.
func reportLastRun(ctx context.Context, cmd *cobra.Command, d *Deps) {
	if d.Ledger == nil {
		return
	}
	run, err := d.Ledger.LastRun(ctx)
	if err != nil || len(run.Failures) == 0 {
		return
	}

	cmd.Printf("Skipped %d source(s):\n", len(run.Failures))
	for _, f := range run.Failures {
		cmd.Printf("  %s: %s\n", f.Source, f.Reason)
	}
}
