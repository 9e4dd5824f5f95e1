package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tasktracker",
		Short: "Minimal task tracker: HTTP API server and terminal client",
		Long: `tasktracker serves a small JSON API for tasks and ships a terminal
client for it.

Examples:
  tasktracker serve                      # API on :3001, in-memory store
  tasktracker serve --config tasks.yaml  # settings from a YAML file
  tasktracker ui                         # interactive client
  tasktracker add "Buy milk"             # one-shot commands
  tasktracker list`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newUICmd(),
		newListCmd(),
		newAddCmd(),
		newToggleCmd(),
		newRemoveCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
