// Command nyaya answers questions about Indian legal statutes from an
// ingested PDF corpus.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/nyayalabs/nyaya-cli/internal/adapters/driven/ai"
	"github.com/nyayalabs/nyaya-cli/internal/adapters/driven/config/file"
	"github.com/nyayalabs/nyaya-cli/internal/adapters/driven/storage/sqlite"
	"github.com/nyayalabs/nyaya-cli/internal/adapters/driving/cli"
	"github.com/nyayalabs/nyaya-cli/internal/core/domain"
	"github.com/nyayalabs/nyaya-cli/internal/core/ports/driven"
	"github.com/nyayalabs/nyaya-cli/internal/core/services"
	"github.com/nyayalabs/nyaya-cli/internal/extractors/pdf"
	"github.com/nyayalabs/nyaya-cli/internal/logger"
	"github.com/nyayalabs/nyaya-cli/internal/normalisers/legal"
	"github.com/nyayalabs/nyaya-cli/internal/postprocessors/chunker"
	"github.com/nyayalabs/nyaya-cli/internal/sources/filesystem"
)

func main() {
	// Credentials may live in a local .env during development.
	_ = godotenv.Load()

	if err := cli.Execute(buildDeps); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildDeps wires adapters and services from configuration.
func buildDeps(configDir string) (*cli.Deps, error) {
	if configDir == "" {
		dir, err := file.DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	cfg, err := file.LoadConfig(configDir)
	if err != nil {
		return nil, err
	}

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		return nil, err
	}

	embedder, err := ai.CreateEmbeddingService(cfg.Embedding)
	if err != nil {
		return nil, err
	}

	store, err := ai.CreateVectorStore(cfg.Retrieval, configDir, embedder)
	if err != nil {
		embedder.Close()
		return nil, err
	}

	llm, err := ai.CreateCompletionService(cfg.Completion)
	if err != nil {
		store.Close()
		embedder.Close()
		return nil, err
	}

	ingest := services.NewIngestService(
		pdf.New(),
		legal.New(),
		chunker.New(
			chunker.WithChunkSize(cfg.Chunking.Size),
			chunker.WithOverlap(cfg.Chunking.Overlap),
		),
		store,
	)

	// The ledger is bookkeeping; a broken database never blocks startup.
	var ledger driven.IngestLedger
	if l, err := sqlite.Open(filepath.Join(configDir, "ledger.db")); err != nil {
		logger.Warn("ingest ledger unavailable: %v", err)
	} else {
		ledger = l
		ingest.SetLedger(ledger)
	}

	registry := services.NewHistoryRegistry(services.WithMaxTurns(cfg.History.MaxTurns))
	chat := services.NewChatService(store, llm, registry, prompts,
		services.WithTopK(cfg.Retrieval.TopK))

	if count, err := store.Count(context.Background()); err == nil && count > 0 {
		chat.MarkReady()
	}

	reingest := func(ctx context.Context) {
		inputs := make([]domain.DocumentInput, 0, len(cfg.Documents))
		for _, p := range cfg.DocumentPaths() {
			inputs = append(inputs, domain.FileInput(p))
		}
		count, err := ingest.IngestAndStore(ctx, inputs, true)
		if err != nil {
			logger.Warn("re-ingestion failed: %v", err)
			return
		}
		if count > 0 {
			chat.MarkReady()
		}
	}
	watcher := filesystem.New(cfg.DataDir, reingest)

	return &cli.Deps{
		Config:    cfg,
		ConfigDir: configDir,
		Chat:      chat,
		Ingest:    ingest,
		Ledger:    ledger,
		Watch:     watcher.Watch,
		Close: func() {
			if ledger != nil {
				ledger.Close()
			}
			llm.Close()
			store.Close()
			embedder.Close()
		},
	}, nil
}
