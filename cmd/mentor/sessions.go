package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/agenticmentor/mentor/pkg/models"
)

var showFragment string

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage stored sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp()
		if err != nil {
			return err
		}
		defer app.Close()

		ids, err := app.State.Sessions()
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Println("No stored sessions.")
			return nil
		}
		for _, id := range ids {
			record, err := app.State.Load(id)
			if err != nil {
				return err
			}
			fmt.Printf("%s  %-22s  %d artifacts  %d messages  %s\n",
				color.CyanString(id),
				record.Phase,
				len(record.Artifacts),
				len(record.ConversationHistory),
				record.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Print a session's project record as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if showFragment != "" {
			value, err := app.State.Fragment(args[0], showFragment)
			if err != nil {
				return err
			}
			return yaml.NewEncoder(os.Stdout).Encode(value)
		}

		record, err := app.State.Load(args[0])
		if err != nil {
			return err
		}
		return yaml.NewEncoder(os.Stdout).Encode(sessionSummary(record))
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete [session-id]",
	Short: "Delete a stored session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.State.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted session %s\n", args[0])
		return nil
	},
}

// sessionSummary flattens a record for display: artifact names instead of
// full payloads, conversation reduced to a count.
func sessionSummary(record *models.ProjectRecord) map[string]any {
	artifacts := make([]string, 0, len(record.Artifacts))
	for name := range record.Artifacts {
		artifacts = append(artifacts, name)
	}
	sort.Strings(artifacts)

	return map[string]any{
		"session_id":     record.SessionID,
		"phase":          string(record.Phase),
		"selection_mode": string(record.SelectionMode),
		"artifacts":      artifacts,
		"messages":       len(record.ConversationHistory),
		"interactions":   record.AgentInteractions,
		"created_at":     record.CreatedAt.Format("2006-01-02 15:04:05"),
		"updated_at":     record.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func init() {
	sessionsShowCmd.Flags().StringVar(&showFragment, "fragment", "", "Print only a dotted-path fragment, e.g. architecture.tech_stack")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}
