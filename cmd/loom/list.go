package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alfredjeanlab/loom/internal/model"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List tasks",
	GroupID: "tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		status, _ := cmd.Flags().GetStringSlice("status")
		assignee, _ := cmd.Flags().GetString("assignee")
		difficulty, _ := cmd.Flags().GetInt("difficulty")
		search, _ := cmd.Flags().GetString("search")
		sort, _ := cmd.Flags().GetString("sort")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		filter := model.TaskFilter{
			SessionID: sessionID,
			Assignee:  assignee,
			Search:    search,
			Sort:      sort,
			Limit:     limit,
			Offset:    offset,
		}
		for _, s := range status {
			filter.Status = append(filter.Status, model.Status(s))
		}
		if cmd.Flags().Changed("difficulty") {
			filter.Difficulty = &difficulty
		}

		resp, err := api.ListTasks(context.Background(), filter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOutput {
			printJSON(resp)
		} else {
			printTaskTable(resp.Tasks, resp.Total)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringP("session", "s", "", "filter by session")
	listCmd.Flags().StringSlice("status", nil, "filter by status (repeatable)")
	listCmd.Flags().String("assignee", "", "filter by assignee")
	listCmd.Flags().Int("difficulty", 0, "filter by difficulty")
	listCmd.Flags().String("search", "", "substring match on title/description")
	listCmd.Flags().String("sort", "", "sort key, prefix '-' for descending (e.g. -difficulty)")
	listCmd.Flags().Int("limit", 20, "maximum number of tasks to return")
	listCmd.Flags().Int("offset", 0, "offset for pagination")
}
