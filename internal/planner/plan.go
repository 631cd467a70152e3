// Package planner resolves which collaborators run in a turn and in what
// order, given the capability graph and the current project record.
package planner

import (
	"github.com/agenticmentor/mentor/internal/capability"
)

// Task is one scheduled collaborator invocation.
type Task struct {
	// AgentID is the collaborator to invoke.
	AgentID string `json:"agent_id"`
	// RequiredContext mirrors the collaborator's declared requirement and
	// controls how much of the record is passed to it.
	RequiredContext capability.Requirement `json:"-"`
	// InputOverride replaces the user input for this task, if set.
	InputOverride string `json:"input_override,omitempty"`
	// Tools lists optional tool names granted to the collaborator.
	Tools []string `json:"tools,omitempty"`
}

// ExecutionPlan is an ordered, dependency-resolved list of tasks.
// Order is a valid topological order over produces -> requires edges
// among the scheduled collaborators.
type ExecutionPlan struct {
	// Tasks run strictly in order.
	Tasks []Task `json:"tasks"`
	// AwaitingSelection is set on the empty manual-mode plan: the caller
	// must pick a collaborator before anything runs.
	AwaitingSelection bool `json:"awaiting_selection,omitempty"`
}

// AgentIDs returns the scheduled collaborator ids in plan order.
func (p *ExecutionPlan) AgentIDs() []string {
	ids := make([]string, len(p.Tasks))
	for i, t := range p.Tasks {
		ids[i] = t.AgentID
	}
	return ids
}

// Contains returns true if the plan schedules the collaborator.
func (p *ExecutionPlan) Contains(agentID string) bool {
	for _, t := range p.Tasks {
		if t.AgentID == agentID {
			return true
		}
	}
	return false
}

// Empty returns true if no tasks are scheduled.
func (p *ExecutionPlan) Empty() bool {
	return len(p.Tasks) == 0
}
