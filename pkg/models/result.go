package models

// ResultStatus is the per-task outcome reported to the caller.
type ResultStatus string

const (
	// ResultSuccess indicates the collaborator ran and produced output.
	ResultSuccess ResultStatus = "success"
	// ResultSkipped indicates the collaborator is declared but not available.
	ResultSkipped ResultStatus = "skipped"
	// ResultError indicates the collaborator was attempted and failed.
	ResultError ResultStatus = "error"
)

// Valid returns true if the status is a known value.
func (s ResultStatus) Valid() bool {
	switch s {
	case ResultSuccess, ResultSkipped, ResultError:
		return true
	default:
		return false
	}
}

// AgentResult records the outcome of one scheduled collaborator task.
type AgentResult struct {
	// AgentID is the collaborator id.
	AgentID string `json:"agent_id"`
	// AgentName is the collaborator's display name.
	AgentName string `json:"agent_name"`
	// Status is success, skipped, or error.
	Status ResultStatus `json:"status"`
	// Content is the collaborator's text output, or the error summary.
	Content string `json:"content,omitempty"`
	// StateDeltaKeys lists the artifact names the collaborator mutated.
	StateDeltaKeys []string `json:"state_delta_keys,omitempty"`
}

// AvailableAgent describes a collaborator the caller may select this turn.
type AvailableAgent struct {
	// ID is the collaborator id.
	ID string `json:"id"`
	// Name is the collaborator's display name.
	Name string `json:"name"`
	// Description says what the collaborator does.
	Description string `json:"description"`
}
