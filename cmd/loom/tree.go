package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:     "tree <task-id>",
	Short:   "List direct subtasks of a task",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := api.Subtasks(context.Background(), args[0])
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
