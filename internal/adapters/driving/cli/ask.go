package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var askSession string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-off question about the ingested statutes",
	Long: `Answers a single question from the ingested corpus. Pass --session to
continue a conversation across invocations of the running server.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askSession, "session", "", "session id for conversational context")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	d, err := ensureDeps()
	if err != nil {
		return err
	}

	answer, err := d.Chat.Answer(cmd.Context(), args[0], askSession)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Text)
	if len(answer.Supporting) > 0 {
		cmd.Println()
		cmd.Printf("Supported by %d passage(s); session %s.\n", len(answer.Supporting), answer.SessionID)
	}
	return nil
}
