package orchestrator

import (
	"github.com/agenticmentor/mentor/pkg/models"
)

// Request is one user turn.
type Request struct {
	// SessionID selects the session. Empty means start a new one.
	SessionID string `json:"session_id,omitempty"`
	// Message is the user's input for this turn.
	Message string `json:"message"`
	// Mode switches the session's selection mode when set.
	Mode models.SelectionMode `json:"mode,omitempty"`
	// SelectedAgentID picks the collaborator for manual mode.
	SelectedAgentID string `json:"selected_agent_id,omitempty"`
}

// Response is the aggregate outcome of one turn.
type Response struct {
	// SessionID identifies the session, including newly created ones.
	SessionID string `json:"session_id"`
	// Message is the synthesized reply shown to the user.
	Message string `json:"message"`
	// Intent is the classification that drove the plan.
	Intent models.IntentResult `json:"intent"`
	// Plan lists the scheduled collaborator ids in execution order.
	Plan []string `json:"plan"`
	// AwaitingSelection is set when manual mode needs a collaborator
	// choice before anything can run.
	AwaitingSelection bool `json:"awaiting_selection,omitempty"`
	// AgentResults holds one entry per scheduled collaborator.
	AgentResults []models.AgentResult `json:"agent_results"`
	// AvailableAgents lists collaborators the user could run next.
	AvailableAgents []models.AvailableAgent `json:"available_agents"`
	// State is a snapshot of the project record after the turn.
	State *models.ProjectRecord `json:"state"`
}
