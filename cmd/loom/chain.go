package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var chainCmd = &cobra.Command{
	Use:     "chain <task-id>",
	Short:   "Show the full dependency chain of a task",
	GroupID: "deps",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chain, err := api.DependencyChain(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOutput {
			printJSON(chain)
			return nil
		}
		printChainNodes("Upstream (transitive blockers):", chain.Upstream)
		fmt.Println()
		printChainNodes("Downstream (transitively blocked):", chain.Downstream)
		return nil
	},
}
