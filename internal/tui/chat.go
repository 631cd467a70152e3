// Package tui implements the interactive chat interface. One text input,
// one scrolling transcript, and a status bar with the session's phase and
// selection mode.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agenticmentor/mentor/internal/orchestrator"
	"github.com/agenticmentor/mentor/pkg/models"
)

// TurnRunner processes one conversational turn. Satisfied by
// *orchestrator.Orchestrator; narrowed to an interface for testing.
type TurnRunner interface {
	ProcessRequest(ctx context.Context, req orchestrator.Request) (*orchestrator.Response, error)
}

// turnDoneMsg carries a finished turn back into the update loop.
type turnDoneMsg struct {
	resp *orchestrator.Response
	err  error
}

// transcriptEntry is one rendered line group in the conversation view.
type transcriptEntry struct {
	role    string
	agentID string
	content string
}

// ChatApp is the bubbletea model for the chat session.
type ChatApp struct {
	runner    TurnRunner
	sessionID string

	header   *Header
	viewport viewport.Model
	input    textinput.Model

	width  int
	height int
	ready  bool

	entries  []transcriptEntry
	busy     bool
	quitting bool

	mode     models.SelectionMode
	phase    models.Phase
	awaiting []models.AvailableAgent
}

// NewChatApp creates the chat model for a session. An empty sessionID
// starts a new session on the first turn.
func NewChatApp(runner TurnRunner, sessionID string) *ChatApp {
	ti := textinput.New()
	ti.Placeholder = "Describe your project, or ask for requirements, architecture, a roadmap..."
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 60

	return &ChatApp{
		runner:    runner,
		sessionID: sessionID,
		header:    NewHeader(),
		input:     ti,
		mode:      models.SelectionAuto,
		phase:     models.PhaseInitialization,
	}
}

// Init implements tea.Model.
func (a *ChatApp) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (a *ChatApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.header.SetWidth(msg.Width)
		a.input.Width = msg.Width - 8
		vpHeight := msg.Height - lipgloss.Height(a.header.View()) - 5
		if vpHeight < 3 {
			vpHeight = 3
		}
		if !a.ready {
			a.viewport = viewport.New(msg.Width, vpHeight)
			a.ready = true
		} else {
			a.viewport.Width = msg.Width
			a.viewport.Height = vpHeight
		}
		a.refreshViewport()
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			a.quitting = true
			return a, tea.Quit

		case "ctrl+t":
			if a.busy {
				return a, nil
			}
			if a.mode == models.SelectionAuto {
				a.mode = models.SelectionManual
			} else {
				a.mode = models.SelectionAuto
				a.awaiting = nil
			}
			a.refreshViewport()
			return a, nil

		case "enter":
			if a.busy {
				return a, nil
			}
			text := strings.TrimSpace(a.input.Value())
			if text == "" {
				return a, nil
			}
			a.input.Reset()
			return a, a.submit(text)
		}

	case turnDoneMsg:
		a.busy = false
		if msg.err != nil {
			a.entries = append(a.entries, transcriptEntry{role: "error", content: msg.err.Error()})
			a.refreshViewport()
			return a, nil
		}
		a.applyResponse(msg.resp)
		return a, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// submit turns the input into a request. While a collaborator pick is
// pending, a bare number selects from the offered list.
func (a *ChatApp) submit(text string) tea.Cmd {
	req := orchestrator.Request{
		SessionID: a.sessionID,
		Message:   text,
		Mode:      a.mode,
	}
	if len(a.awaiting) > 0 {
		if idx, err := strconv.Atoi(text); err == nil && idx >= 1 && idx <= len(a.awaiting) {
			req.SelectedAgentID = a.awaiting[idx-1].ID
			req.Message = "Run the selected collaborator."
		}
	}

	a.busy = true
	a.entries = append(a.entries, transcriptEntry{role: models.RoleUser, content: text})
	a.refreshViewport()

	runner := a.runner
	return func() tea.Msg {
		resp, err := runner.ProcessRequest(context.Background(), req)
		return turnDoneMsg{resp: resp, err: err}
	}
}

func (a *ChatApp) applyResponse(resp *orchestrator.Response) {
	a.sessionID = resp.SessionID
	if resp.State != nil {
		a.phase = resp.State.Phase
		if resp.State.SelectionMode != "" {
			a.mode = resp.State.SelectionMode
		}
	}
	if resp.AwaitingSelection {
		a.awaiting = resp.AvailableAgents
	} else {
		a.awaiting = nil
	}

	for _, r := range resp.AgentResults {
		if r.Status != models.ResultSuccess {
			a.entries = append(a.entries, transcriptEntry{
				role:    "status",
				agentID: r.AgentID,
				content: fmt.Sprintf("%s: %s", r.Status, r.Content),
			})
		}
	}
	a.entries = append(a.entries, transcriptEntry{role: models.RoleAssistant, content: resp.Message})
	a.refreshViewport()
}

func (a *ChatApp) refreshViewport() {
	if !a.ready {
		return
	}
	var b strings.Builder
	for _, e := range a.entries {
		switch e.role {
		case models.RoleUser:
			b.WriteString(userStyle.Render("you") + "  " + e.content)
		case models.RoleAssistant:
			b.WriteString(assistantStyle.Render(e.content))
		case "status":
			b.WriteString(agentTagStyle.Render(e.agentID) + "  " + statusStyle.Render(e.content))
		case "error":
			b.WriteString(errorStyle.Render("error: " + e.content))
		}
		b.WriteString("\n\n")
	}
	if len(a.awaiting) > 0 {
		b.WriteString(pickerTitleStyle.Render("Pick a collaborator (type its number and press Enter):"))
		b.WriteString("\n")
		for i, agent := range a.awaiting {
			fmt.Fprintf(&b, "  %d. %s - %s\n", i+1, agent.Name, agent.Description)
		}
	}
	a.viewport.SetContent(lipgloss.NewStyle().Width(a.viewport.Width).Render(b.String()))
	a.viewport.GotoBottom()
}

// View implements tea.Model.
func (a *ChatApp) View() string {
	if a.quitting {
		return ""
	}
	if !a.ready {
		return "Loading..."
	}

	prompt := promptStyle.Render("> ")
	inputLine := inputBoxStyle.Width(a.width - 2).Render(prompt + a.input.View())

	status := fmt.Sprintf("phase: %s | mode: %s | ctrl+t toggle mode | ctrl+c quit", a.phase, a.mode)
	if a.busy {
		status = "working... | " + status
	}
	statusBar := statusBarStyle.Width(a.width).Render(status)

	return lipgloss.JoinVertical(lipgloss.Left,
		a.header.View(),
		a.viewport.View(),
		inputLine,
		statusBar,
	)
}

// Run starts the chat program and blocks until it exits.
func Run(runner TurnRunner, sessionID string) error {
	app := NewChatApp(runner, sessionID)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
