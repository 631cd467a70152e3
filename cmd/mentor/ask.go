package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/agenticmentor/mentor/internal/orchestrator"
	"github.com/agenticmentor/mentor/pkg/models"
)

var (
	askSession string
	askAgent   string
	askVerbose bool
)

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Run a single turn without the chat interface",
	Long: `Send one message through the collaborator pipeline and print the reply.

Useful for scripting and for quickly advancing a session from the shell.

Examples:
  mentor ask "I want to build a recipe sharing app"
  mentor ask --session 9f2c... "Design the architecture"
  mentor ask --agent exporter --session 9f2c... "Export the project"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askSession, "session", "", "Session id (empty starts a new session)")
	askCmd.Flags().StringVar(&askAgent, "agent", "", "Run only this collaborator (switches the session to manual mode)")
	askCmd.Flags().BoolVarP(&askVerbose, "verbose", "v", false, "Print the plan and per-collaborator results")
}

func runAsk(cmd *cobra.Command, args []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	req := orchestrator.Request{
		SessionID: askSession,
		Message:   strings.Join(args, " "),
	}
	if askAgent != "" {
		req.Mode = models.SelectionManual
		req.SelectedAgentID = askAgent
	}

	resp, err := app.Orchestrator.ProcessRequest(context.Background(), req)
	if err != nil {
		return err
	}

	if askVerbose {
		fmt.Printf("%s %s\n", color.CyanString("session:"), resp.SessionID)
		fmt.Printf("%s %s (%.2f)\n", color.CyanString("intent:"), resp.Intent.PrimaryIntent, resp.Intent.Confidence)
		fmt.Printf("%s %s\n", color.CyanString("plan:"), strings.Join(resp.Plan, " -> "))
		for _, r := range resp.AgentResults {
			fmt.Printf("  %s %s\n", statusSymbol(r.Status), r.AgentID)
		}
		fmt.Println()
	}

	fmt.Println(resp.Message)

	if askSession == "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "\n%s continue with: mentor ask --session %s \"...\"\n",
			color.YellowString("hint:"), resp.SessionID)
	}
	return nil
}

func statusSymbol(status models.ResultStatus) string {
	switch status {
	case models.ResultSuccess:
		return color.GreenString("✓")
	case models.ResultSkipped:
		return color.YellowString("-")
	default:
		return color.RedString("✗")
	}
}
