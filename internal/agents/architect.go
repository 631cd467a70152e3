package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agenticmentor/mentor/internal/capability"
	"github.com/agenticmentor/mentor/pkg/models"
)

// ProjectArchitect turns captured requirements into a tech stack, system
// diagram, data schema, and API design.
type ProjectArchitect struct {
	llm Completer
}

// NewProjectArchitect creates the architect. llm may be nil, in which case
// the built-in stack derivation is used.
func NewProjectArchitect(llm Completer) *ProjectArchitect {
	return &ProjectArchitect{llm: llm}
}

func (a *ProjectArchitect) ID() string   { return capability.AgentProjectArchitect }
func (a *ProjectArchitect) Name() string { return "Project Architect" }

const architectSystem = `You are a software architect. Given project requirements,
reply with a single JSON object matching this schema:
{"tech_stack": {"layer": "choice"}, "data_schema": "mermaid erDiagram", "system_diagram": "mermaid flowchart", "api_design": [{"method": "GET", "path": "/x", "description": "..."}], "deployment_strategy": "..."}`

// Process produces the architecture artifact. With a model configured it
// asks for the design and falls back to the heuristic stack on any failure;
// retries beyond that single attempt are not worth a slower turn.
func (a *ProjectArchitect) Process(ctx context.Context, in Input) (Output, error) {
	var reqs models.Requirements
	if _, err := decodeArtifact(in, models.ArtifactRequirements, &reqs); err != nil {
		return Output{}, err
	}

	arch := a.fromLLM(ctx, reqs, in.UserInput)
	if arch == nil {
		arch = deriveArchitecture(reqs, in.UserInput)
	}

	delta, err := marshalDelta(models.ArtifactArchitecture, arch)
	if err != nil {
		return Output{}, err
	}

	content := fmt.Sprintf("Architecture drafted. Stack covers %d layer(s) and %d API endpoint(s).",
		len(arch.TechStack), len(arch.APIDesign))
	return Output{StateDelta: delta, Content: content}, nil
}

// fromLLM asks the model for an architecture. Returns nil on any failure.
func (a *ProjectArchitect) fromLLM(ctx context.Context, reqs models.Requirements, userInput string) *models.Architecture {
	if a.llm == nil {
		return nil
	}
	prompt := fmt.Sprintf("Functional requirements:\n%s\n\nConstraints:\n%s\n\nLatest request:\n%s",
		strings.Join(reqs.Functional, "\n"), strings.Join(reqs.Constraints, "\n"), userInput)
	raw, err := a.llm.Complete(ctx, architectSystem, prompt)
	if err != nil {
		return nil
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil
	}
	var arch models.Architecture
	if err := json.Unmarshal([]byte(raw[start:end+1]), &arch); err != nil {
		return nil
	}
	if len(arch.TechStack) == 0 {
		return nil
	}
	return &arch
}

// deriveArchitecture builds a serviceable default design from requirement
// keywords when no model is available.
func deriveArchitecture(reqs models.Requirements, userInput string) *models.Architecture {
	corpus := strings.ToLower(userInput + " " + strings.Join(reqs.Functional, " ") + " " + strings.Join(reqs.Constraints, " "))

	stack := map[string]string{
		"backend":  "Go (net/http)",
		"database": "PostgreSQL",
	}
	if strings.Contains(corpus, "mobile") {
		stack["frontend"] = "React Native"
	} else {
		stack["frontend"] = "React"
	}
	if strings.Contains(corpus, "realtime") || strings.Contains(corpus, "real-time") {
		stack["messaging"] = "WebSocket"
	}
	if strings.Contains(corpus, "sqlite") || strings.Contains(corpus, "embedded") {
		stack["database"] = "SQLite"
	}

	arch := &models.Architecture{
		TechStack: stack,
		SystemDiagram: "flowchart LR\n" +
			"    client[Client] --> api[API Server]\n" +
			"    api --> db[(Database)]",
		DataSchema: "erDiagram\n" +
			"    USER ||--o{ ITEM : owns",
		DeploymentStrategy: "Single containerized service behind a reverse proxy.",
	}
	for _, fr := range reqs.Functional {
		resource := resourceName(fr)
		if resource == "" {
			continue
		}
		arch.APIDesign = append(arch.APIDesign,
			models.APIEndpoint{Method: "GET", Path: "/" + resource, Description: "List " + resource},
			models.APIEndpoint{Method: "POST", Path: "/" + resource, Description: "Create " + resource},
		)
		if len(arch.APIDesign) >= 6 {
			break
		}
	}
	return arch
}

// resourceName guesses a URL resource from a requirement sentence: the
// first noun-ish word longer than three characters.
func resourceName(requirement string) string {
	for _, word := range strings.Fields(strings.ToLower(requirement)) {
		word = strings.Trim(word, ",.;:!?\"'")
		if len(word) > 3 && !hasAny(word, []string{"user", "want", "need", "should", "must", "with", "that", "have"}) {
			return word
		}
	}
	return ""
}
