// Package cli provides the nyaya command-line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nyayalabs/nyaya-cli/internal/adapters/driven/config/file"
	"github.com/nyayalabs/nyaya-cli/internal/core/ports/driven"
	"github.com/nyayalabs/nyaya-cli/internal/core/ports/driving"
	"github.com/nyayalabs/nyaya-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Deps carries the wired services the commands run against. Built once
// per invocation by the factory passed to Execute.
type Deps struct {
	Config    file.Config
	ConfigDir string

	Chat   driving.ChatService
	Ingest driving.IngestService

	// Ledger is optional; when present the ingest command reports the
	// recorded run.
	Ledger driven.IngestLedger

	// Watch re-ingests on document changes; nil when watching is not
	// wired. Blocks until the context is cancelled.
	Watch func(ctx context.Context) error

	// Close releases service resources after the command completes.
	Close func()
}

var (
	verbose   bool
	configDir string

	depsFactory func(configDir string) (*Deps, error)
	deps        *Deps
)

var rootCmd = &cobra.Command{
	Use:   "nyaya",
	Short: "Conversational retrieval over Indian legal statutes",
	Long: `nyaya ingests legal statute PDFs into a vector store and answers
questions about them conversationally, grounded in the retrieved text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.nyaya)")
}

// Execute runs the CLI. The factory builds service dependencies on
// first use so commands like version stay dependency-free.
func Execute(factory func(configDir string) (*Deps, error)) error {
	depsFactory = factory
	defer func() {
		if deps != nil && deps.Close != nil {
			deps.Close()
		}
	}()
	return rootCmd.Execute()
}

// ensureDeps builds the service dependencies once.
func ensureDeps() (*Deps, error) {
	if deps != nil {
		return deps, nil
	}
	if depsFactory == nil {
		return nil, fmt.Errorf("services not configured")
	}

	d, err := depsFactory(configDir)
	if err != nil {
		return nil, err
	}
	deps = d
	return deps, nil
}
