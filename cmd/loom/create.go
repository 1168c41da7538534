package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alfredjeanlab/loom/internal/client"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:     "create <title>",
	Short:   "Create a new task",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		description, _ := cmd.Flags().GetString("description")
		parentID, _ := cmd.Flags().GetString("parent")
		assignee, _ := cmd.Flags().GetString("assignee")
		difficulty, _ := cmd.Flags().GetInt("difficulty")

		req := &client.CreateTaskRequest{
			SessionID:   sessionID,
			Title:       args[0],
			Description: description,
			ParentID:    parentID,
			Assignee:    assignee,
			Actor:       actor,
		}
		if cmd.Flags().Changed("difficulty") {
			req.Difficulty = &difficulty
		}

		task, err := api.CreateTask(context.Background(), req)
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
	createCmd.Flags().StringP("session", "s", "", "session the task belongs to (required)")
	createCmd.Flags().StringP("description", "d", "", "task description")
	createCmd.Flags().String("parent", "", "parent task ID")
	createCmd.Flags().String("assignee", "", "assignee")
	createCmd.Flags().Int("difficulty", 0, "difficulty (1-5)")
	createCmd.MarkFlagRequired("session")
}
