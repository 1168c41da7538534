package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alfredjeanlab/loom/internal/model"
	"github.com/alfredjeanlab/loom/internal/ui"
	"github.com/spf13/cobra"
)

var depCmd = &cobra.Command{
	Use:     "dep",
	Short:   "Manage task dependencies",
	GroupID: "deps",
}

var depAddCmd = &cobra.Command{
	Use:   "add <task-id> <blocker-id>",
	Short: "Record that a task is blocked by another",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		blockedID, blockerID := args[0], args[1]

		if err := api.AddDependency(context.Background(), blockedID, blockerID, actor); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s is now blocked by %s\n", blockedID, blockerID)
		return nil
	},
}

var depRemoveCmd = &cobra.Command{
	Use:   "remove <task-id> <blocker-id>",
	Short: "Remove a dependency between tasks",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		blockedID, blockerID := args[0], args[1]

		if err := api.RemoveDependency(context.Background(), blockedID, blockerID, actor); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Removed dependency")
		return nil
	},
}

var depListCmd = &cobra.Command{
	Use:   "list <task-id>",
	Short: "List blockers of a task and tasks it blocks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := api.GetDependencies(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOutput {
			printJSON(deps)
			return nil
		}
		printDepSection("Blocked by:", deps.Blockers)
		fmt.Println()
		printDepSection("Blocking:", deps.Blocking)
		return nil
	},
}

func printDepSection(label string, tasks []*model.Task) {
	fmt.Println(label)
	if len(tasks) == 0 {
		fmt.Printf("  %s\n", ui.RenderMuted("(none)"))
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, t := range tasks {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", t.ID, ui.RenderStatus(t.Status), t.Title)
	}
	w.Flush()
}

func init() {
	depCmd.AddCommand(depAddCmd)
	depCmd.AddCommand(depRemoveCmd)
	depCmd.AddCommand(depListCmd)
}
