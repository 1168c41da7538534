package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var blockedCmd = &cobra.Command{
	Use:     "blocked <task-id>",
	Short:   "Check whether a task is blocked",
	GroupID: "deps",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		blocked, err := api.IsBlocked(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOutput {
			printJSON(map[string]any{"task_id": args[0], "blocked": blocked})
			return nil
		}
		if blocked {
			fmt.Printf("%s is blocked\n", args[0])
		} else {
			fmt.Printf("%s is not blocked\n", args[0])
		}
		return nil
	},
}
