package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HafizAtif90/ai-guardian/chat"
	"github.com/HafizAtif90/ai-guardian/workspace"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List saved chat sessions",
	Long:  `List all saved chat sessions that can be continued with the --session flag`,
	Run: func(cmd *cobra.Command, args []string) {
		historyDir, err := workspace.HistoryDir()
		if err != nil {
			fmt.Printf("Error resolving history directory: %v\n", err)
			os.Exit(1)
		}

		sessions, err := chat.ListAvailableSessions(historyDir)
		if err != nil {
			fmt.Printf("Error listing sessions: %v\n", err)
			os.Exit(1)
		}

		if len(sessions) == 0 {
			fmt.Println("No chat sessions found.")
			fmt.Println("Enable persistence with: guardian config set save_history true")
			return
		}

		fmt.Println("Available chat sessions:")
		fmt.Println()
		for i, id := range sessions {
			status := ""
			if i == 0 {
				status = " (latest)"
			}
			fmt.Printf("  %s%s\n", id, status)
		}

		fmt.Printf("\nUsage:\n")
		fmt.Printf("  guardian --continue       # Continue from latest session (%s)\n", sessions[0])
		fmt.Printf("  guardian --session ID     # Continue from specific session\n")
		fmt.Printf("  guardian                  # Start new session (default)\n")
	},
}
