package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alfredjeanlab/loom/internal/client"
	"github.com/alfredjeanlab/loom/internal/model"
	"github.com/spf13/cobra"
)

var cancelCmd = &cobra.Command{
	Use:     "cancel <task-id>",
	Short:   "Cancel a task with a reason",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reason, _ := cmd.Flags().GetString("reason")

		status := model.StatusCancelled.String()
		task, err := api.UpdateTask(context.Background(), args[0], &client.UpdateTaskRequest{
			Status:       &status,
			CancelReason: &reason,
			Actor:        actor,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOutput {
			printJSON(task)
		} else {
			fmt.Printf("%s cancelled: %s\n", task.ID, task.CancelReason)
		}
		return nil
	},
}

func init() {
	cancelCmd.Flags().String("reason", "", "why the task is being cancelled (required)")
	cancelCmd.MarkFlagRequired("reason")
}
