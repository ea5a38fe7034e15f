package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	chatCmd := &cobra.Command{
		Use:   "chat MESSAGE",
		Short: "Send one utterance through the assistant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doJSON(os.Stdout, "POST", "/api/process", map[string]string{"text": args[0]})
		},
	}
	rootCmd.AddCommand(chatCmd)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversation history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doJSON(os.Stdout, "GET", "/api/history", nil)
		},
	}
	rootCmd.AddCommand(historyCmd)

	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "List events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doJSON(os.Stdout, "GET", "/api/events", nil)
		},
	}
	rootCmd.AddCommand(eventsCmd)

	var showCompleted bool
	todosCmd := &cobra.Command{
		Use:   "todos",
		Short: "List to-dos",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/todos"
			if showCompleted {
				path += "?show_completed=true"
			}
			return doJSON(os.Stdout, "GET", path, nil)
		},
	}
	todosCmd.Flags().BoolVar(&showCompleted, "all", false, "Include completed to-dos")
	rootCmd.AddCommand(todosCmd)

	alarmsCmd := &cobra.Command{
		Use:   "alarms",
		Short: "List active alarms",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doJSON(os.Stdout, "GET", "/api/alarms", nil)
		},
	}
	rootCmd.AddCommand(alarmsCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Download the schedule export",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doJSON(os.Stdout, "GET", "/api/export-data", nil)
		},
	}
	rootCmd.AddCommand(exportCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show service status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doJSON(os.Stdout, "GET", "/api/status", nil)
		},
	}
	rootCmd.AddCommand(statusCmd)

	deleteEventCmd := &cobra.Command{
		Use:   "delete-event ID",
		Short: "Delete an event and its linked alarms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doJSON(os.Stdout, "DELETE", fmt.Sprintf("/api/events/%s", args[0]), nil)
		},
	}
	rootCmd.AddCommand(deleteEventCmd)
}
