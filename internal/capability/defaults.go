package capability

import (
	"github.com/agenticmentor/mentor/pkg/models"
)

// Collaborator ids.
const (
	AgentRequirementsCollector = "requirements_collector"
	AgentProjectArchitect      = "project_architect"
	AgentExecutionPlanner      = "execution_planner"
	AgentMockup                = "mockup_agent"
	AgentExporter              = "exporter"
)

// defaultEntries is the declared capability table. Declaration order is the
// tie-break order for classification and planning.
var defaultEntries = []Entry{
	{
		ID:          AgentRequirementsCollector,
		Name:        "Requirements Collector",
		Description: "Asks structured questions to gather goals, constraints, features. Updates requirements state.",
		Requires:    Require(),
		Produces:    []string{models.ArtifactRequirements},
		Phases:      AnyPhase(),
	},
	{
		ID:          AgentProjectArchitect,
		Name:        "Project Architect",
		Description: "Turns requirements into tech stack, system/ER diagrams, API and data model.",
		Requires:    Require(models.ArtifactRequirements),
		Produces:    []string{models.ArtifactArchitecture},
		Phases:      InPhases(models.PhaseRequirementsComplete, models.PhaseArchitectureComplete),
	},
	{
		ID:          AgentExecutionPlanner,
		Name:        "Execution Planner",
		Description: "Creates phases, milestones, and implementation steps from architecture.",
		Requires:    Require(models.ArtifactArchitecture),
		Produces:    []string{models.ArtifactRoadmap},
		Phases:      InPhases(models.PhaseArchitectureComplete, models.PhasePlanningComplete),
	},
	{
		ID:          AgentMockup,
		Name:        "Mockup Agent",
		Description: "Generates UI wireframes and user-flow diagrams from requirements and architecture.",
		Requires:    Require(models.ArtifactRequirements, models.ArtifactArchitecture),
		Produces:    []string{models.ArtifactMockups},
		Phases:      InPhases(models.PhaseArchitectureComplete, models.PhasePlanningComplete, models.PhaseDesignComplete),
	},
	{
		ID:          AgentExporter,
		Name:        "Exporter",
		Description: "Bundles all artifacts into a Markdown document.",
		Requires:    RequireAll(),
		Produces:    []string{models.ArtifactExport},
		Phases:      AnyPhase(),
	},
}

// FullPipeline is the default agent order when intent is unknown:
// the whole pipeline in dependency order, filtered by phase before planning.
var FullPipeline = []string{
	AgentRequirementsCollector,
	AgentProjectArchitect,
	AgentExecutionPlanner,
	AgentMockup,
	AgentExporter,
}

// phaseTransitions maps a collaborator id to the phase its successful
// completion advances the session to.
var phaseTransitions = map[string]models.Phase{
	AgentRequirementsCollector: models.PhaseRequirementsComplete,
	AgentProjectArchitect:      models.PhaseArchitectureComplete,
	AgentExecutionPlanner:      models.PhasePlanningComplete,
	AgentMockup:                models.PhaseDesignComplete,
	AgentExporter:              models.PhaseExportable,
}

// DefaultStore returns the built-in capability table.
func DefaultStore() *Store {
	return NewStore(defaultEntries)
}

// TransitionFor returns the target phase for a collaborator, if it has one.
func TransitionFor(agentID string) (models.Phase, bool) {
	p, ok := phaseTransitions[agentID]
	return p, ok
}
