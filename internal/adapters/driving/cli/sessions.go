package cli

import (
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage chat sessions",
}

var sessionsClearCmd = &cobra.Command{
	Use:   "clear [session-id]",
	Short: "Forget a session's conversation history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := ensureDeps()
		if err != nil {
			return err
		}

		if d.Chat.ClearSession(args[0]) {
			cmd.Printf("Session %s cleared.\n", args[0])
		} else {
			cmd.Printf("No history for session %s.\n", args[0])
		}
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsClearCmd)
	rootCmd.AddCommand(sessionsCmd)
}
