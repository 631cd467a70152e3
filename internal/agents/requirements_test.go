package agents

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/agenticmentor/mentor/pkg/models"
)

func requirementsFrom(t *testing.T, out Output) models.Requirements {
	t.Helper()
	raw, ok := out.StateDelta[models.ArtifactRequirements]
	if !ok {
		t.Fatal("no requirements delta")
	}
	var reqs models.Requirements
	if err := json.Unmarshal(raw, &reqs); err != nil {
		t.Fatalf("decode requirements: %v", err)
	}
	return reqs
}

func TestRequirementsCollectorSortsStatements(t *testing.T) {
	a := NewRequirementsCollector(nil)

	out, err := a.Process(context.Background(), Input{
		UserInput: "Users can share recipes. Must use Postgres only. The app should be fast and secure.",
	})
	if err != nil {
		t.Fatal(err)
	}

	reqs := requirementsFrom(t, out)
	if len(reqs.Functional) != 1 || !strings.Contains(reqs.Functional[0], "share recipes") {
		t.Errorf("functional = %v", reqs.Functional)
	}
	if len(reqs.Constraints) != 1 || !strings.Contains(reqs.Constraints[0], "Postgres") {
		t.Errorf("constraints = %v", reqs.Constraints)
	}
	if len(reqs.NonFunctional) != 1 || !strings.Contains(reqs.NonFunctional[0], "fast") {
		t.Errorf("non-functional = %v", reqs.NonFunctional)
	}
	if len(reqs.Gaps) != 0 {
		t.Errorf("gaps = %v, want none when every bucket is filled", reqs.Gaps)
	}
	if out.Content == "" {
		t.Error("expected a summary message")
	}
}

func TestRequirementsCollectorMergesExistingArtifact(t *testing.T) {
	a := NewRequirementsCollector(nil)

	existing, _ := json.Marshal(models.Requirements{Functional: []string{"Users can share recipes"}})
	out, err := a.Process(context.Background(), Input{
		Context:   map[string]json.RawMessage{models.ArtifactRequirements: existing},
		UserInput: "Users can share recipes. Users can rate recipes",
	})
	if err != nil {
		t.Fatal(err)
	}

	reqs := requirementsFrom(t, out)
	if len(reqs.Functional) != 2 {
		t.Errorf("functional = %v, want existing entry deduplicated", reqs.Functional)
	}
}

func TestRequirementsCollectorUsesModelOutput(t *testing.T) {
	llm := &stubCompleter{reply: `Here is the updated set:
{"functional": ["Users can share recipes"], "constraints": ["Must use Postgres"], "non_functional": ["Fast search"]}`}
	a := NewRequirementsCollector(llm)

	out, err := a.Process(context.Background(), Input{UserInput: "also make search fast"})
	if err != nil {
		t.Fatal(err)
	}

	reqs := requirementsFrom(t, out)
	if len(reqs.Constraints) != 1 || reqs.Constraints[0] != "Must use Postgres" {
		t.Errorf("constraints = %v, want the model's set", reqs.Constraints)
	}
	if len(reqs.NonFunctional) != 1 || reqs.NonFunctional[0] != "Fast search" {
		t.Errorf("non-functional = %v", reqs.NonFunctional)
	}
}

func TestRequirementsCollectorFallsBackOnModelFailure(t *testing.T) {
	a := NewRequirementsCollector(&stubCompleter{err: errors.New("model down")})

	out, err := a.Process(context.Background(), Input{UserInput: "Users can share recipes"})
	if err != nil {
		t.Fatal(err)
	}

	reqs := requirementsFrom(t, out)
	if len(reqs.Functional) != 1 {
		t.Errorf("functional = %v, want the sorted fallback", reqs.Functional)
	}
}

func TestRequirementsCollectorRejectsEmptyModelOutput(t *testing.T) {
	a := NewRequirementsCollector(&stubCompleter{reply: `{"functional": []}`})

	out, err := a.Process(context.Background(), Input{UserInput: "Users can share recipes"})
	if err != nil {
		t.Fatal(err)
	}

	reqs := requirementsFrom(t, out)
	if len(reqs.Functional) != 1 {
		t.Errorf("functional = %v, want fallback when the model returns nothing", reqs.Functional)
	}
}

func TestRequirementsCollectorReportsGaps(t *testing.T) {
	a := NewRequirementsCollector(nil)

	out, err := a.Process(context.Background(), Input{UserInput: "Users can share recipes"})
	if err != nil {
		t.Fatal(err)
	}

	reqs := requirementsFrom(t, out)
	if len(reqs.Gaps) == 0 {
		t.Fatal("expected open questions for the empty buckets")
	}
	if !strings.Contains(out.Content, "Open question") {
		t.Errorf("content = %q, want the first gap surfaced", out.Content)
	}
}
