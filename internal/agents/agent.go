// Package agents holds the collaborator contract and the built-in
// collaborators that produce the project record's artifacts.
package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agenticmentor/mentor/pkg/models"
)

// Input is what the orchestrator hands a collaborator for one task.
type Input struct {
	// Context holds the artifacts the collaborator declared it requires.
	// Missing artifacts are present as nil entries.
	Context map[string]json.RawMessage
	// Record is the full project record, set only for collaborators whose
	// requirement is All.
	Record *models.ProjectRecord
	// UserInput is the user's message for this turn (or the task's
	// input override).
	UserInput string
	// Phase is the session's current phase.
	Phase models.Phase
	// History is the conversation so far.
	History []models.ConversationEntry
}

// Output is a collaborator's normalized return: artifact mutations plus an
// optional user-facing message.
type Output struct {
	// StateDelta maps artifact name to its new value. Empty means no
	// state mutation.
	StateDelta map[string]json.RawMessage
	// Content is the collaborator's text reply.
	Content string
}

// Agent is the collaborator contract. Implementations are opaque to the
// orchestrator beyond this interface: they take context plus user input and
// return a state delta with optional text, or an error.
type Agent interface {
	ID() string
	Name() string
	Process(ctx context.Context, in Input) (Output, error)
}

// marshalDelta encodes an artifact value for a state delta.
func marshalDelta(artifact string, value any) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode %s artifact: %w", artifact, err)
	}
	return map[string]json.RawMessage{artifact: raw}, nil
}

// decodeArtifact decodes a context artifact into out. Absent or null
// artifacts leave out untouched and return false.
func decodeArtifact(in Input, artifact string, out any) (bool, error) {
	raw, ok := in.Context[artifact]
	if !ok && in.Record != nil {
		raw = in.Record.Artifacts[artifact]
	}
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s artifact: %w", artifact, err)
	}
	return true, nil
}
