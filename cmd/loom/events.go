package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:     "events <entity-id>",
	Short:   "Show the mutation history of a task or session",
	GroupID: "system",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := api.GetEvents(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if jsonOutput {
			printJSON(events)
		} else {
			printEvents(events)
		}
		return nil
	},
}
