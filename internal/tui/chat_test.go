package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agenticmentor/mentor/internal/orchestrator"
	"github.com/agenticmentor/mentor/pkg/models"
)

type scriptedRunner struct {
	lastReq orchestrator.Request
	resp    *orchestrator.Response
	err     error
}

func (s *scriptedRunner) ProcessRequest(_ context.Context, req orchestrator.Request) (*orchestrator.Response, error) {
	s.lastReq = req
	return s.resp, s.err
}

func sized(app *ChatApp) *ChatApp {
	m, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m.(*ChatApp)
}

func TestSubmitSendsSessionAndMode(t *testing.T) {
	runner := &scriptedRunner{resp: &orchestrator.Response{SessionID: "s1", Message: "ok"}}
	app := sized(NewChatApp(runner, "s1"))

	cmd := app.submit("build a recipe app")
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()

	if runner.lastReq.SessionID != "s1" {
		t.Errorf("session = %q", runner.lastReq.SessionID)
	}
	if runner.lastReq.Message != "build a recipe app" {
		t.Errorf("message = %q", runner.lastReq.Message)
	}
	if runner.lastReq.Mode != models.SelectionAuto {
		t.Errorf("mode = %q", runner.lastReq.Mode)
	}
	if _, ok := msg.(turnDoneMsg); !ok {
		t.Fatalf("msg = %T", msg)
	}
	if !app.busy {
		t.Error("app should be busy while the turn runs")
	}
}

func TestModeToggle(t *testing.T) {
	app := sized(NewChatApp(&scriptedRunner{}, ""))

	m, _ := app.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	app = m.(*ChatApp)
	if app.mode != models.SelectionManual {
		t.Errorf("mode = %q after toggle", app.mode)
	}

	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	app = m.(*ChatApp)
	if app.mode != models.SelectionAuto {
		t.Errorf("mode = %q after second toggle", app.mode)
	}
}

func TestApplyResponseTracksSessionState(t *testing.T) {
	app := sized(NewChatApp(&scriptedRunner{}, ""))

	record := models.NewProjectRecord("generated")
	record.Phase = models.PhaseRequirementsComplete
	record.SelectionMode = models.SelectionAuto

	app.applyResponse(&orchestrator.Response{
		SessionID: "generated",
		Message:   "Captured 2 requirements.",
		State:     record,
		AgentResults: []models.AgentResult{
			{AgentID: "requirements_collector", Status: models.ResultSuccess, Content: "Captured 2 requirements."},
		},
	})

	if app.sessionID != "generated" {
		t.Errorf("sessionID = %q", app.sessionID)
	}
	if app.phase != models.PhaseRequirementsComplete {
		t.Errorf("phase = %s", app.phase)
	}
	// Successful results are folded into the assistant message, not echoed.
	if len(app.entries) != 1 || app.entries[0].role != models.RoleAssistant {
		t.Errorf("entries = %+v", app.entries)
	}
}

func TestApplyResponseSurfacesFailures(t *testing.T) {
	app := sized(NewChatApp(&scriptedRunner{}, "s1"))

	app.applyResponse(&orchestrator.Response{
		SessionID: "s1",
		Message:   "Nothing to report for that request yet.",
		AgentResults: []models.AgentResult{
			{AgentID: "exporter", Status: models.ResultError, Content: "disk full"},
		},
	})

	if len(app.entries) != 2 {
		t.Fatalf("entries = %+v", app.entries)
	}
	if app.entries[0].role != "status" || app.entries[0].agentID != "exporter" {
		t.Errorf("first entry = %+v", app.entries[0])
	}
}

func TestNumericInputPicksFromOfferedList(t *testing.T) {
	runner := &scriptedRunner{resp: &orchestrator.Response{SessionID: "s1", Message: "ok"}}
	app := sized(NewChatApp(runner, "s1"))
	app.mode = models.SelectionManual
	app.awaiting = []models.AvailableAgent{
		{ID: "requirements_collector", Name: "Requirements Collector"},
		{ID: "exporter", Name: "Exporter"},
	}

	cmd := app.submit("2")
	cmd()

	if runner.lastReq.SelectedAgentID != "exporter" {
		t.Errorf("selected = %q", runner.lastReq.SelectedAgentID)
	}
	if runner.lastReq.Message == "2" {
		t.Error("bare number should be rewritten into a run request")
	}
}

func TestNonNumericInputWhileAwaitingIsPlainMessage(t *testing.T) {
	runner := &scriptedRunner{resp: &orchestrator.Response{SessionID: "s1", Message: "ok"}}
	app := sized(NewChatApp(runner, "s1"))
	app.awaiting = []models.AvailableAgent{{ID: "exporter", Name: "Exporter"}}

	cmd := app.submit("actually, export everything")
	cmd()

	if runner.lastReq.SelectedAgentID != "" {
		t.Errorf("selected = %q, want none", runner.lastReq.SelectedAgentID)
	}
	if runner.lastReq.Message != "actually, export everything" {
		t.Errorf("message = %q", runner.lastReq.Message)
	}
}
