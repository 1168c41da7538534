package main

import (
	"os"
	"os/exec"
	"strings"

	"github.com/alfredjeanlab/loom/internal/client"
	"github.com/alfredjeanlab/loom/internal/ui"
	"github.com/spf13/cobra"
)

var (
	serverURL  string
	authToken  string
	jsonOutput bool
	actor      string

	api client.LoomClient
)

func defaultActor() string {
	out, err := exec.Command("git", "config", "user.name").Output()
	if err == nil {
		name := strings.TrimSpace(string(out))
		if name != "" {
			return name
		}
	}
	return "unknown"
}

func defaultServer() string {
	if s := os.Getenv("LOOM_SERVER"); s != "" {
		return s
	}
	if s := activeRemoteURL(); s != "" {
		return s
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	if t := os.Getenv("LOOM_TOKEN"); t != "" {
		return t
	}
	return activeRemoteToken()
}

var rootCmd = &cobra.Command{
	Use:   "loom",
	Short: "CLI client for the Loom task graph service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		api = client.NewHTTPClient(serverURL, authToken)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if api != nil {
			api.Close()
		}
	},
}

func init() {
	if !ui.ShouldUseColor() {
		ui.ForceNoColor()
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer(), "server base URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for authentication")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", defaultActor(), "actor name recorded on mutations")

	rootCmd.AddGroup(
		&cobra.Group{ID: "sessions", Title: "Session Commands:"},
		&cobra.Group{ID: "tasks", Title: "Task Commands:"},
		&cobra.Group{ID: "deps", Title: "Dependency Commands:"},
		&cobra.Group{ID: "system", Title: "System Commands:"},
	)

	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(depCmd)
	rootCmd.AddCommand(readyCmd)
	rootCmd.AddCommand(blockedCmd)
	rootCmd.AddCommand(chainCmd)
	rootCmd.AddCommand(reorderCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
