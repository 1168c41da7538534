package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alfredjeanlab/loom/internal/client"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:     "update <task-id>",
	Short:   "Update fields on a task",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.UpdateTaskRequest{Actor: actor}

		// Only flags the user actually set become part of the patch,
		// so update --parent "" detaches while omitting it leaves the
		// parent alone.
		if cmd.Flags().Changed("title") {
			v, _ := cmd.Flags().GetString("title")
			req.Title = &v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			req.Description = &v
		}
		if cmd.Flags().Changed("status") {
			v, _ := cmd.Flags().GetString("status")
			req.Status = &v
		}
		if cmd.Flags().Changed("reason") {
			v, _ := cmd.Flags().GetString("reason")
			req.CancelReason = &v
		}
		if cmd.Flags().Changed("assignee") {
			v, _ := cmd.Flags().GetString("assignee")
			req.Assignee = &v
		}
		if cmd.Flags().Changed("difficulty") {
			v, _ := cmd.Flags().GetInt("difficulty")
			req.Difficulty = &v
		}
		if cmd.Flags().Changed("parent") {
			v, _ := cmd.Flags().GetString("parent")
			req.ParentID = &v
		}

		task, err := api.UpdateTask(context.Background(), args[0], req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOutput {
			printJSON(task)
		} else {
			printTask(task)
		}
		return nil
	},
}

func init() {
	updateCmd.Flags().String("title", "", "new title")
	updateCmd.Flags().StringP("description", "d", "", "new description")
	updateCmd.Flags().String("status", "", "new status (pending|in_progress|done|cancelled)")
	updateCmd.Flags().String("reason", "", "cancel reason (with --status cancelled)")
	updateCmd.Flags().String("assignee", "", "new assignee")
	updateCmd.Flags().Int("difficulty", 0, "new difficulty (1-5)")
	updateCmd.Flags().String("parent", "", "new parent task ID (empty string detaches)")
}
