package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <task-id>",
	Short:   "Delete a task",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cascade, _ := cmd.Flags().GetBool("cascade")

		cascaded, err := api.DeleteTask(context.Background(), args[0], cascade, actor)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOutput {
			printJSON(map[string]any{"cascaded": cascaded})
			return nil
		}
		fmt.Printf("Deleted task %s", args[0])
		if len(cascaded) > 0 {
			fmt.Printf(" (%d subtasks removed)", len(cascaded))
		}
		fmt.Println()
		return nil
	},
}

func init() {
	deleteCmd.Flags().Bool("cascade", false, "also delete all descendant subtasks")
}
