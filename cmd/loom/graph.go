package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:     "graph",
	Short:   "Show the task graph",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		resp, err := api.GetGraph(context.Background(), limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOutput {
			printJSON(resp)
			return nil
		}

		printTaskTable(resp.Nodes, len(resp.Nodes))
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SOURCE\tRELATION\tTARGET")
		for _, e := range resp.Edges {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Source, e.Relation, e.Target)
		}
		w.Flush()
		fmt.Println()
		printStats(resp.Stats)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:     "stats",
	Short:   "Show task counts by status",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := api.GetStats(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOutput {
			printJSON(stats)
		} else {
			printStats(stats)
		}
		return nil
	},
}

func init() {
	graphCmd.Flags().Int("limit", 100, "maximum number of nodes to return")
}
