package agents

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/agenticmentor/mentor/pkg/models"
)

func architectureFrom(t *testing.T, out Output) models.Architecture {
	t.Helper()
	raw, ok := out.StateDelta[models.ArtifactArchitecture]
	if !ok {
		t.Fatal("no architecture delta")
	}
	var arch models.Architecture
	if err := json.Unmarshal(raw, &arch); err != nil {
		t.Fatalf("decode architecture: %v", err)
	}
	return arch
}

func reqsContext(t *testing.T, reqs models.Requirements) map[string]json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(reqs)
	if err != nil {
		t.Fatal(err)
	}
	return map[string]json.RawMessage{models.ArtifactRequirements: raw}
}

func TestProjectArchitectDerivesStack(t *testing.T) {
	a := NewProjectArchitect(nil)

	out, err := a.Process(context.Background(), Input{
		Context: reqsContext(t, models.Requirements{
			Functional: []string{"Users can share recipes"},
		}),
		UserInput: "design the architecture for a mobile app",
	})
	if err != nil {
		t.Fatal(err)
	}

	arch := architectureFrom(t, out)
	if arch.TechStack["frontend"] != "React Native" {
		t.Errorf("frontend = %q, want mobile stack", arch.TechStack["frontend"])
	}
	if arch.TechStack["backend"] == "" || arch.TechStack["database"] == "" {
		t.Errorf("stack = %v, want backend and database", arch.TechStack)
	}
	if arch.SystemDiagram == "" || arch.DataSchema == "" {
		t.Error("expected diagrams in the derived architecture")
	}
	if len(arch.APIDesign) == 0 {
		t.Error("expected API endpoints derived from functional requirements")
	}
}

func TestProjectArchitectUsesModelOutput(t *testing.T) {
	llm := &stubCompleter{reply: `Here you go:
{"tech_stack": {"backend": "Elixir"}, "system_diagram": "flowchart LR", "api_design": []}`}
	a := NewProjectArchitect(llm)

	out, err := a.Process(context.Background(), Input{
		Context:   reqsContext(t, models.Requirements{Functional: []string{"chat"}}),
		UserInput: "design it",
	})
	if err != nil {
		t.Fatal(err)
	}

	arch := architectureFrom(t, out)
	if arch.TechStack["backend"] != "Elixir" {
		t.Errorf("backend = %q, want the model's choice", arch.TechStack["backend"])
	}
}

func TestProjectArchitectFallsBackOnModelFailure(t *testing.T) {
	a := NewProjectArchitect(&stubCompleter{err: errors.New("model down")})

	out, err := a.Process(context.Background(), Input{
		Context:   reqsContext(t, models.Requirements{Functional: []string{"Users can share recipes"}}),
		UserInput: "design it",
	})
	if err != nil {
		t.Fatal(err)
	}

	arch := architectureFrom(t, out)
	if len(arch.TechStack) == 0 {
		t.Error("fallback architecture should still carry a stack")
	}
}

// stubCompleter fakes the LLM for collaborator tests.
type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(context.Context, string, string) (string, error) {
	return s.reply, s.err
}
