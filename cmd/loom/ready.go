package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alfredjeanlab/loom/internal/model"
	"github.com/spf13/cobra"
)

var readyCmd = &cobra.Command{
	Use:     "ready <session-id>",
	Short:   "List tasks in a session ready to work on",
	GroupID: "deps",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assignee, _ := cmd.Flags().GetString("assignee")
		limit, _ := cmd.Flags().GetInt("limit")

		tasks, err := api.ReadyTasks(context.Background(), args[0], model.ReadyFilter{
			Assignee: assignee,
			Limit:    limit,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOutput {
			printJSON(tasks)
		} else {
			printTaskTable(tasks, len(tasks))
		}
		return nil
	},
}

func init() {
	readyCmd.Flags().String("assignee", "", "filter by assignee")
	readyCmd.Flags().Int("limit", 0, "maximum number of tasks to return")
}
