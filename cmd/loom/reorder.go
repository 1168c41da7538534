package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var reorderCmd = &cobra.Command{
	Use:     "reorder <session-id> <task-id>...",
	Short:   "Reorder all tasks in a session",
	GroupID: "sessions",
	Long: `Reorder replaces the ordering of a session. Every task in the session
must be listed exactly once; the new order is applied atomically or not
at all.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, taskIDs := args[0], args[1:]

		if err := api.ReorderTasks(context.Background(), sessionID, taskIDs, actor); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Reordered %d tasks in %s\n", len(taskIDs), sessionID)
		return nil
	},
}
