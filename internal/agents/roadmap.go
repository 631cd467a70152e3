package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/agenticmentor/mentor/internal/capability"
	"github.com/agenticmentor/mentor/pkg/models"
)

// ExecutionPlannerAgent derives a delivery roadmap (milestones, sprints,
// critical path) from the architecture.
type ExecutionPlannerAgent struct {
	llm Completer
}

// NewExecutionPlannerAgent creates the roadmap collaborator. llm may be
// nil, in which case the layer-slice roadmap derivation is used.
func NewExecutionPlannerAgent(llm Completer) *ExecutionPlannerAgent {
	return &ExecutionPlannerAgent{llm: llm}
}

func (a *ExecutionPlannerAgent) ID() string   { return capability.AgentExecutionPlanner }
func (a *ExecutionPlannerAgent) Name() string { return "Execution Planner" }

const roadmapSystem = `You are a delivery planner. Given a system architecture, reply with a
single JSON object matching this schema:
{"milestones": [{"name": "...", "description": "...", "deliverables": ["..."]}], "sprints": [{"number": 1, "goal": "...", "tasks": ["..."]}], "critical_path": "mermaid gantt chart"}`

// Process produces the roadmap artifact. With a model configured it asks
// for the plan and falls back to the derived roadmap on any failure: one
// foundation milestone, one milestone per architecture layer, and a closing
// hardening milestone, spread over numbered sprints.
func (a *ExecutionPlannerAgent) Process(ctx context.Context, in Input) (Output, error) {
	var arch models.Architecture
	ok, err := decodeArtifact(in, models.ArtifactArchitecture, &arch)
	if err != nil {
		return Output{}, err
	}
	if !ok {
		// Degrade gracefully: an upstream failure may have left the
		// architecture missing. Report rather than abort the plan.
		return Output{Content: "No architecture to plan against yet. Run the architect first."}, nil
	}

	roadmap := a.fromLLM(ctx, arch)
	if roadmap == nil {
		roadmap = deriveRoadmap(arch)
	}

	delta, err := marshalDelta(models.ArtifactRoadmap, roadmap)
	if err != nil {
		return Output{}, err
	}
	content := fmt.Sprintf("Roadmap ready: %d milestone(s) across %d sprint(s).",
		len(roadmap.Milestones), len(roadmap.Sprints))
	return Output{StateDelta: delta, Content: content}, nil
}

// fromLLM asks the model for a roadmap. Returns nil on any failure; a plan
// missing sprints or the critical path gets them derived from its milestones.
func (a *ExecutionPlannerAgent) fromLLM(ctx context.Context, arch models.Architecture) *models.Roadmap {
	if a.llm == nil {
		return nil
	}
	archJSON, err := json.Marshal(arch)
	if err != nil {
		return nil
	}
	raw, err := a.llm.Complete(ctx, roadmapSystem, "Architecture:\n"+string(archJSON))
	if err != nil {
		return nil
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil
	}
	var roadmap models.Roadmap
	if err := json.Unmarshal([]byte(raw[start:end+1]), &roadmap); err != nil {
		return nil
	}
	if len(roadmap.Milestones) == 0 {
		return nil
	}
	if len(roadmap.Sprints) == 0 {
		roadmap.Sprints = sprintsFor(roadmap.Milestones)
	}
	if roadmap.CriticalPath == "" {
		roadmap.CriticalPath = ganttChart(roadmap.Milestones)
	}
	return &roadmap
}

// deriveRoadmap builds the template roadmap when no model is available.
func deriveRoadmap(arch models.Architecture) *models.Roadmap {
	roadmap := &models.Roadmap{
		Milestones: []models.Milestone{
			{
				Name:         "Foundation",
				Description:  "Project scaffolding, CI, and the walking skeleton.",
				Deliverables: []string{"repository layout", "build pipeline", "deploy smoke test"},
			},
		},
	}

	layers := make([]string, 0, len(arch.TechStack))
	for layer := range arch.TechStack {
		layers = append(layers, layer)
	}
	sort.Strings(layers)
	for _, layer := range layers {
		roadmap.Milestones = append(roadmap.Milestones, models.Milestone{
			Name:         fmt.Sprintf("%s slice", layer),
			Description:  fmt.Sprintf("Build out the %s layer (%s).", layer, arch.TechStack[layer]),
			Deliverables: []string{layer + " implementation", layer + " tests"},
		})
	}
	roadmap.Milestones = append(roadmap.Milestones, models.Milestone{
		Name:         "Hardening",
		Description:  "End-to-end tests, performance, and release prep.",
		Deliverables: []string{"e2e suite", "load test report", "release checklist"},
	})

	roadmap.Sprints = sprintsFor(roadmap.Milestones)
	roadmap.CriticalPath = ganttChart(roadmap.Milestones)
	return roadmap
}

// sprintsFor assigns one numbered sprint per milestone.
func sprintsFor(milestones []models.Milestone) []models.Sprint {
	sprints := make([]models.Sprint, 0, len(milestones))
	for i, m := range milestones {
		sprints = append(sprints, models.Sprint{
			Number: i + 1,
			Goal:   m.Name,
			Tasks:  m.Deliverables,
		})
	}
	return sprints
}

func ganttChart(milestones []models.Milestone) string {
	chart := "gantt\n    title Delivery plan\n    dateFormat X\n    section Milestones\n"
	for i, m := range milestones {
		chart += fmt.Sprintf("    %s :%d, %d\n", m.Name, i, i+1)
	}
	return chart
}
