package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// SelectionMode controls how collaborators are chosen for a turn.
type SelectionMode string

const (
	// SelectionAuto routes through the intent classifier.
	SelectionAuto SelectionMode = "auto"
	// SelectionManual runs only the collaborator the user selected.
	SelectionManual SelectionMode = "manual"
)

// Valid returns true if the mode is a known value.
func (m SelectionMode) Valid() bool {
	switch m {
	case SelectionAuto, SelectionManual:
		return true
	default:
		return false
	}
}

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationEntry is one message in a session's conversation log.
type ConversationEntry struct {
	// Role is "user" or "assistant".
	Role string `json:"role"`
	// Content is the message text.
	Content string `json:"content"`
}

// ProjectRecord is the authoritative per-session project state.
// It is mutated only through the state manager's delta updates.
type ProjectRecord struct {
	// SessionID identifies the session this record belongs to.
	SessionID string `json:"session_id"`
	// ProjectName is an optional human-readable project name.
	ProjectName string `json:"project_name,omitempty"`
	// Phase is the current lifecycle phase.
	Phase Phase `json:"phase"`
	// Artifacts maps artifact name to the producing collaborator's output.
	// Values are opaque structured blobs owned by their producer.
	Artifacts map[string]json.RawMessage `json:"artifacts"`
	// ConversationHistory is the append-only conversation log.
	ConversationHistory []ConversationEntry `json:"conversation_history"`
	// AgentInteractions counts successful runs per collaborator id.
	AgentInteractions map[string]int `json:"agent_interactions,omitempty"`
	// SelectionMode is the agent selection mode for this session.
	SelectionMode SelectionMode `json:"selection_mode"`
	// SelectedAgentID is the manually selected collaborator, if any.
	SelectedAgentID string `json:"selected_agent_id,omitempty"`
	// CreatedAt is when the record was first created.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the record was last mutated.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProjectRecord creates a default record for a session:
// initialization phase, no artifacts, auto selection.
func NewProjectRecord(sessionID string) *ProjectRecord {
	now := time.Now().UTC()
	return &ProjectRecord{
		SessionID:         sessionID,
		Phase:             PhaseInitialization,
		Artifacts:         make(map[string]json.RawMessage),
		AgentInteractions: make(map[string]int),
		SelectionMode:     SelectionAuto,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// HasArtifact returns true if the named artifact is present and non-empty.
// Null values and empty containers ({}, [], "") do not count.
func (r *ProjectRecord) HasArtifact(name string) bool {
	raw, ok := r.Artifacts[name]
	if !ok {
		return false
	}
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0:
		return false
	case bytes.Equal(trimmed, []byte("null")):
		return false
	case bytes.Equal(trimmed, []byte("{}")):
		return false
	case bytes.Equal(trimmed, []byte("[]")):
		return false
	case bytes.Equal(trimmed, []byte(`""`)):
		return false
	}
	return true
}

// Clone returns a deep copy of the record. The state manager hands out
// clones so callers cannot mutate the cached copy behind its back.
func (r *ProjectRecord) Clone() *ProjectRecord {
	out := *r
	out.Artifacts = make(map[string]json.RawMessage, len(r.Artifacts))
	for k, v := range r.Artifacts {
		out.Artifacts[k] = append(json.RawMessage(nil), v...)
	}
	out.ConversationHistory = append([]ConversationEntry(nil), r.ConversationHistory...)
	out.AgentInteractions = make(map[string]int, len(r.AgentInteractions))
	for k, v := range r.AgentInteractions {
		out.AgentInteractions[k] = v
	}
	return &out
}
