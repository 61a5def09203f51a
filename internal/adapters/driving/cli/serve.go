package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nyayalabs/nyaya-cli/internal/adapters/driving/httpapi"
	"github.com/nyayalabs/nyaya-cli/internal/logger"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat API and browser chat page",
	Long: `Starts the HTTP server exposing the JSON chat API and the embedded
browser chat page. With --watch, changes to PDFs in the data directory
trigger automatic re-ingestion.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "re-ingest when documents change on disk")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	d, err := ensureDeps()
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = d.Config.Serve.Addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if serveWatch {
		if d.Watch == nil {
			logger.Warn("watching not available, continuing without it")
		} else {
			go func() {
				if err := d.Watch(ctx); err != nil {
					logger.Warn("document watcher stopped: %v", err)
				}
			}()
		}
	}

	server := httpapi.New(d.Chat, addr)
	return server.ListenAndServe(ctx)
}
