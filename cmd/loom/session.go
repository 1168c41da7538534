package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Short:   "Manage sessions",
	GroupID: "sessions",
}

var sessionCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := api.CreateSession(context.Background(), args[0], actor)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOutput {
			printJSON(session)
		} else {
			printSession(session)
		}
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		resp, err := api.ListSessions(context.Background(), limit, offset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOutput {
			printJSON(resp)
		} else {
			printSessionTable(resp.Sessions, resp.Total)
		}
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a session and its tasks in order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		session, err := api.GetSession(ctx, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		tasks, err := api.SessionTasks(ctx, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		session.Tasks = tasks.Tasks
		if jsonOutput {
			printJSON(session)
		} else {
			printSession(session)
		}
		return nil
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cascade, _ := cmd.Flags().GetBool("cascade")

		deleted, err := api.DeleteSession(context.Background(), args[0], cascade, actor)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOutput {
			printJSON(map[string]any{"deleted_tasks": deleted})
			return nil
		}
		fmt.Printf("Deleted session %s", args[0])
		if len(deleted) > 0 {
			fmt.Printf(" (%d tasks removed)", len(deleted))
		}
		fmt.Println()
		return nil
	},
}

func init() {
	sessionListCmd.Flags().Int("limit", 50, "maximum number of sessions to return")
	sessionListCmd.Flags().Int("offset", 0, "offset for pagination")
	sessionDeleteCmd.Flags().Bool("cascade", false, "also delete all tasks in the session")

	sessionCmd.AddCommand(sessionCreateCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
}
