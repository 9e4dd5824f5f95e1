package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"task-tracker/client"
	"task-tracker/models"
)

func addAPIFlag(cmd *cobra.Command, apiURL *string) {
	cmd.Flags().StringVar(apiURL, "api", apiURLDefault(), "task API base URL")
}

func newListCmd() *cobra.Command {
	var apiURL string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print all tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := client.New(apiURL).List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks yet")
				return nil
			}
			for _, t := range tasks {
				printTask(out, t)
			}
			return nil
		},
	}
	addAPIFlag(cmd, &apiURL)
	return cmd
}

func newAddCmd() *cobra.Command {
	var apiURL string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := client.New(apiURL).Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printTask(cmd.OutOrStdout(), task)
			return nil
		},
	}
	addAPIFlag(cmd, &apiURL)
	return cmd
}

func newToggleCmd() *cobra.Command {
	var apiURL string
	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between open and done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(apiURL)
			tasks, err := c.List(cmd.Context())
			if err != nil {
				return err
			}

			id := args[0]
			var current *models.Task
			for i := range tasks {
				if tasks[i].ID == id {
					current = &tasks[i]
					break
				}
			}
			if current == nil {
				return fmt.Errorf("task %s not found", id)
			}

			updated, err := c.SetCompleted(cmd.Context(), id, !current.Completed)
			if err != nil {
				return err
			}
			if updated == nil {
				return fmt.Errorf("task %s not found", id)
			}
			printTask(cmd.OutOrStdout(), *updated)
			return nil
		},
	}
	addAPIFlag(cmd, &apiURL)
	return cmd
}

func newRemoveCmd() *cobra.Command {
	var apiURL string
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.New(apiURL).Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
	addAPIFlag(cmd, &apiURL)
	return cmd
}

func printTask(w io.Writer, t models.Task) {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	fmt.Fprintf(w, "%s %s  %s\n", box, t.ID, t.Title)
}
