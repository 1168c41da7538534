package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alfredjeanlab/loom/internal/client"
	"github.com/alfredjeanlab/loom/internal/model"
	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:     "done <task-id>...",
	Short:   "Mark one or more tasks as done",
	GroupID: "tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := model.StatusDone.String()

		if len(args) == 1 {
			task, err := api.UpdateTask(context.Background(), args[0], &client.UpdateTaskRequest{
				Status: &status,
				Actor:  actor,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			if jsonOutput {
				printJSON(task)
			} else {
				fmt.Printf("%s is now %s\n", task.ID, task.Status)
			}
			return nil
		}

		updates := make([]client.BatchTaskUpdate, 0, len(args))
		for _, id := range args {
			u := client.BatchTaskUpdate{ID: id}
			u.Status = &status
			u.Actor = actor
			updates = append(updates, u)
		}

		results, err := api.UpdateTasks(context.Background(), updates)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOutput {
			printJSON(results)
			return nil
		}
		failed := 0
		for _, r := range results {
			if r.Error != "" {
				failed++
				fmt.Fprintf(os.Stderr, "%s: %s\n", r.ID, r.Error)
				continue
			}
			fmt.Printf("%s is now %s\n", r.ID, r.Task.Status)
		}
		if failed > 0 {
			os.Exit(1)
		}
		return nil
	},
}
