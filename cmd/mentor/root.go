package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/agenticmentor/mentor/internal/tui"
)

var chatSession string

var rootCmd = &cobra.Command{
	Use:   "mentor",
	Short: "Project planning collaborators for software ideas",
	Long: `Mentor turns a rough software idea into structured project artifacts:
requirements, architecture, an execution roadmap, UI mockups, and a
shareable export.

With no arguments, launches an interactive chat session. Each message is
classified, routed to the collaborators that can serve it, and folded into
the session's project record.

Core capabilities:
- Collects and organizes requirements from free-form input
- Designs an architecture grounded in the collected requirements
- Plans milestones and sprints against the architecture
- Sketches text wireframes for the main screens
- Exports everything as a single markdown document`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp()
		if err != nil {
			return err
		}
		defer app.Close()
		app.WatchConfig()
		return tui.Run(app.Orchestrator, chatSession)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&chatSession, "session", "", "Resume an existing session by id")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
