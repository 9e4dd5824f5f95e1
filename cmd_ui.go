package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"task-tracker/client"
	"task-tracker/logging"
	"task-tracker/ui"
)

func newUICmd() *cobra.Command {
	var (
		apiURL  string
		logPath string
	)

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive task list",
		Long: `Opens a full-screen task list backed by the API.

Keys:
  enter        add the typed task
  tab          switch between input and list
  space / x    toggle the selected task
  d            delete the selected task
  esc          quit

Request failures are written to the log file, not the screen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close()

			logger := logging.New(f, "text", slog.LevelInfo)
			return ui.Run(client.New(apiURL), logger, tea.WithAltScreen())
		},
	}

	cmd.Flags().StringVar(&apiURL, "api", apiURLDefault(), "task API base URL")
	cmd.Flags().StringVar(&logPath, "log", filepath.Join(os.TempDir(), "tasktracker-ui.log"), "log file")
	return cmd
}

// apiURLDefault lets TASKS_API_URL stand in for --api.
func apiURLDefault() string {
	if v := os.Getenv("TASKS_API_URL"); v != "" {
		return v
	}
	return client.DefaultBaseURL
}
