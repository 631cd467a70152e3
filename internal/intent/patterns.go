// Package intent classifies user messages into intents and the
// collaborators required to serve them.
package intent

import (
	"github.com/agenticmentor/mentor/internal/capability"
	"github.com/agenticmentor/mentor/pkg/models"
)

// Intent tags.
const (
	IntentRequirementsGathering = "requirements_gathering"
	IntentArchitectureDesign    = "architecture_design"
	IntentMockupCreation        = "mockup_creation"
	IntentExecutionPlanning     = "execution_planning"
	IntentExport                = "export"
)

// Pattern declares the match signals for one intent: keywords and trigger
// phrases counted against the input, and the phases the intent applies in.
type Pattern struct {
	// Intent is the tag returned when this pattern wins.
	Intent string
	// Keywords are matched as case-insensitive substrings.
	Keywords []string
	// Triggers are matched the same way; they count like keywords.
	Triggers []string
	// Phases restricts the pattern to specific phases.
	Phases capability.PhaseSet
	// Agents are the collaborator ids the intent maps to, in order.
	Agents []string
}

// termCount returns the size of the pattern's full term set, used to
// normalize the confidence score.
func (p *Pattern) termCount() int {
	return len(p.Keywords) + len(p.Triggers)
}

// defaultPatterns is the declared pattern table. Declaration order breaks
// ties between patterns with equal hit counts.
var defaultPatterns = []Pattern{
	{
		Intent:   IntentRequirementsGathering,
		Keywords: []string{"need", "want", "goal", "problem", "user story"},
		Triggers: []string{"clarify", "what if", "constraints"},
		Phases:   capability.InPhases(models.PhaseInitialization, models.PhaseDiscovery),
		Agents:   []string{capability.AgentRequirementsCollector},
	},
	{
		Intent:   IntentArchitectureDesign,
		Keywords: []string{"architecture", "tech stack", "database", "api"},
		Triggers: []string{"diagram", "structure", "how does"},
		Phases:   capability.InPhases(models.PhaseRequirementsComplete, models.PhaseArchitectureComplete),
		Agents:   []string{capability.AgentProjectArchitect},
	},
	{
		Intent:   IntentMockupCreation,
		Keywords: []string{"ui", "screen", "flow", "wireframe", "design"},
		Triggers: []string{"looks like", "user journey"},
		Phases:   capability.InPhases(models.PhaseArchitectureComplete, models.PhasePlanningComplete, models.PhaseDesignComplete),
		Agents:   []string{capability.AgentMockup},
	},
	{
		Intent:   IntentExecutionPlanning,
		Keywords: []string{"roadmap", "timeline", "milestone", "sprint"},
		Triggers: []string{"how long", "when", "priority"},
		Phases:   capability.InPhases(models.PhaseArchitectureComplete, models.PhasePlanningComplete),
		Agents:   []string{capability.AgentExecutionPlanner},
	},
	{
		Intent:   IntentExport,
		Keywords: []string{"export", "download", "document", "pdf"},
		Triggers: []string{"generate", "compile"},
		Phases:   capability.AnyPhase(),
		Agents:   []string{capability.AgentExporter},
	},
}

// DefaultPatterns returns the built-in pattern table.
func DefaultPatterns() []Pattern {
	return append([]Pattern(nil), defaultPatterns...)
}

// KnownIntents returns the declared intent tags in declaration order.
func KnownIntents() []string {
	tags := make([]string, len(defaultPatterns))
	for i, p := range defaultPatterns {
		tags[i] = p.Intent
	}
	return tags
}
