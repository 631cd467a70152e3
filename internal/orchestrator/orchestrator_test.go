package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/agenticmentor/mentor/internal/agents"
	"github.com/agenticmentor/mentor/internal/capability"
	"github.com/agenticmentor/mentor/internal/intent"
	"github.com/agenticmentor/mentor/internal/registry"
	"github.com/agenticmentor/mentor/internal/state"
	"github.com/agenticmentor/mentor/pkg/models"
)

func testOrchestrator(reg *registry.Registry) (*Orchestrator, *state.Manager) {
	manager := state.NewManager(state.NewMemoryStore())
	if reg == nil {
		reg = registry.Default(nil)
	}
	o := New(Options{
		State:        manager,
		Classifier:   intent.NewRuleClassifier(nil),
		Capabilities: capability.DefaultStore(),
		Registry:     reg,
	})
	return o, manager
}

func TestProcessRequestRunsRequirementsTurn(t *testing.T) {
	o, _ := testOrchestrator(nil)

	resp, err := o.ProcessRequest(context.Background(), Request{
		SessionID: "s1",
		Message:   "I want users to share recipes",
	})
	if err != nil {
		t.Fatal(err)
	}

	if resp.Intent.PrimaryIntent != "requirements_gathering" {
		t.Errorf("intent = %s", resp.Intent.PrimaryIntent)
	}
	if len(resp.Plan) != 1 || resp.Plan[0] != capability.AgentRequirementsCollector {
		t.Fatalf("plan = %v", resp.Plan)
	}
	if len(resp.AgentResults) != 1 {
		t.Fatalf("results = %+v", resp.AgentResults)
	}
	r := resp.AgentResults[0]
	if r.Status != models.ResultSuccess {
		t.Errorf("status = %s: %s", r.Status, r.Content)
	}
	if len(r.StateDeltaKeys) != 1 || r.StateDeltaKeys[0] != models.ArtifactRequirements {
		t.Errorf("delta keys = %v", r.StateDeltaKeys)
	}

	if resp.State.Phase != models.PhaseRequirementsComplete {
		t.Errorf("phase = %s, want requirements_complete", resp.State.Phase)
	}
	if !resp.State.HasArtifact(models.ArtifactRequirements) {
		t.Error("requirements artifact missing from the snapshot")
	}
	if resp.State.AgentInteractions[capability.AgentRequirementsCollector] != 1 {
		t.Errorf("interactions = %v", resp.State.AgentInteractions)
	}
	if resp.Message == "" {
		t.Error("expected a synthesized message")
	}
}

func TestProcessRequestAppendsExactlyOneTurn(t *testing.T) {
	o, manager := testOrchestrator(nil)

	if _, err := o.ProcessRequest(context.Background(), Request{
		SessionID: "s1",
		Message:   "I want users to share recipes and rate them",
	}); err != nil {
		t.Fatal(err)
	}

	record, err := manager.Load("s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(record.ConversationHistory) != 2 {
		t.Fatalf("conversation length = %d, want exactly one user and one assistant entry",
			len(record.ConversationHistory))
	}
	if record.ConversationHistory[0].Role != models.RoleUser {
		t.Errorf("first role = %s", record.ConversationHistory[0].Role)
	}
	if record.ConversationHistory[1].Role != models.RoleAssistant {
		t.Errorf("second role = %s", record.ConversationHistory[1].Role)
	}
}

func TestProcessRequestSecondTurnSeesUpdatedState(t *testing.T) {
	o, _ := testOrchestrator(nil)
	ctx := context.Background()

	if _, err := o.ProcessRequest(ctx, Request{
		SessionID: "s1",
		Message:   "I want users to share recipes",
	}); err != nil {
		t.Fatal(err)
	}

	resp, err := o.ProcessRequest(ctx, Request{
		SessionID: "s1",
		Message:   "What database and api structure should we use?",
	})
	if err != nil {
		t.Fatal(err)
	}

	// Requirements are populated, so only the architect runs.
	if len(resp.Plan) != 1 || resp.Plan[0] != capability.AgentProjectArchitect {
		t.Fatalf("plan = %v", resp.Plan)
	}
	if resp.State.Phase != models.PhaseArchitectureComplete {
		t.Errorf("phase = %s", resp.State.Phase)
	}
}

func TestProcessRequestSerializesConcurrentTurns(t *testing.T) {
	o, manager := testOrchestrator(nil)

	const turns = 8
	var wg sync.WaitGroup
	errs := make(chan error, turns)
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := o.ProcessRequest(context.Background(), Request{
				SessionID: "s1",
				Message:   "I want users to share recipes",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatal(err)
		}
	}

	record, err := manager.Load("s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(record.ConversationHistory) != 2*turns {
		t.Fatalf("conversation length = %d, want %d: turns interleaved",
			len(record.ConversationHistory), 2*turns)
	}
	for i, entry := range record.ConversationHistory {
		want := models.RoleUser
		if i%2 == 1 {
			want = models.RoleAssistant
		}
		if entry.Role != want {
			t.Fatalf("entry %d role = %s, want %s", i, entry.Role, want)
		}
	}
}

func TestProcessRequestGeneratesSessionID(t *testing.T) {
	o, _ := testOrchestrator(nil)

	resp, err := o.ProcessRequest(context.Background(), Request{Message: "hello"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.SessionID == "" {
		t.Error("expected a generated session id")
	}
}

func TestProcessRequestManualModeAwaitsSelection(t *testing.T) {
	o, manager := testOrchestrator(nil)

	resp, err := o.ProcessRequest(context.Background(), Request{
		SessionID: "s1",
		Message:   "do something",
		Mode:      models.SelectionManual,
	})
	if err != nil {
		t.Fatal(err)
	}

	if !resp.AwaitingSelection {
		t.Fatal("expected awaiting selection")
	}
	if len(resp.AgentResults) != 0 {
		t.Errorf("results = %v, want none before a pick", resp.AgentResults)
	}
	if len(resp.AvailableAgents) == 0 {
		t.Error("expected available collaborators to choose from")
	}

	// The short-circuit must not mutate state.
	record, err := manager.Load("s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(record.ConversationHistory) != 0 {
		t.Errorf("conversation grew to %d entries", len(record.ConversationHistory))
	}
}

func TestProcessRequestManualModeRunsSelection(t *testing.T) {
	o, _ := testOrchestrator(nil)

	resp, err := o.ProcessRequest(context.Background(), Request{
		SessionID:       "s1",
		Message:         "export whatever we have",
		Mode:            models.SelectionManual,
		SelectedAgentID: capability.AgentExporter,
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(resp.Plan) != 1 || resp.Plan[0] != capability.AgentExporter {
		t.Fatalf("plan = %v, want just the selection", resp.Plan)
	}
	if resp.State.SelectionMode != models.SelectionManual {
		t.Errorf("mode = %s", resp.State.SelectionMode)
	}
	if resp.State.SelectedAgentID != capability.AgentExporter {
		t.Errorf("selected = %s", resp.State.SelectedAgentID)
	}
}

func TestProcessRequestRejectsUnknownMode(t *testing.T) {
	o, _ := testOrchestrator(nil)

	_, err := o.ProcessRequest(context.Background(), Request{
		SessionID: "s1",
		Message:   "hello",
		Mode:      models.SelectionMode("chaotic"),
	})
	if err == nil {
		t.Fatal("expected an error for an unknown mode")
	}
}

type erroringAgent struct{}

func (erroringAgent) ID() string   { return capability.AgentRequirementsCollector }
func (erroringAgent) Name() string { return "Requirements Collector" }
func (erroringAgent) Process(context.Context, agents.Input) (agents.Output, error) {
	return agents.Output{}, errors.New("upstream service down")
}

type panickyAgent struct{}

func (panickyAgent) ID() string   { return capability.AgentRequirementsCollector }
func (panickyAgent) Name() string { return "Requirements Collector" }
func (panickyAgent) Process(context.Context, agents.Input) (agents.Output, error) {
	panic("boom")
}

func TestProcessRequestAgentErrorDoesNotAbortTurn(t *testing.T) {
	reg := registry.New()
	reg.Register(capability.AgentRequirementsCollector,
		func() (agents.Agent, error) { return erroringAgent{}, nil })
	o, manager := testOrchestrator(reg)

	resp, err := o.ProcessRequest(context.Background(), Request{
		SessionID: "s1",
		Message:   "I want users to share recipes",
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(resp.AgentResults) != 1 || resp.AgentResults[0].Status != models.ResultError {
		t.Fatalf("results = %+v", resp.AgentResults)
	}
	if !strings.Contains(resp.AgentResults[0].Content, "upstream service down") {
		t.Errorf("content = %q", resp.AgentResults[0].Content)
	}

	// The failed collaborator must not advance the phase.
	record, _ := manager.Load("s1")
	if record.Phase != models.PhaseInitialization {
		t.Errorf("phase = %s, want initialization", record.Phase)
	}
	// The conversation still records the turn.
	if len(record.ConversationHistory) != 2 {
		t.Errorf("conversation length = %d", len(record.ConversationHistory))
	}
}

func TestProcessRequestRecoversAgentPanic(t *testing.T) {
	reg := registry.New()
	reg.Register(capability.AgentRequirementsCollector,
		func() (agents.Agent, error) { return panickyAgent{}, nil })
	o, _ := testOrchestrator(reg)

	resp, err := o.ProcessRequest(context.Background(), Request{
		SessionID: "s1",
		Message:   "I want users to share recipes",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.AgentResults[0].Status != models.ResultError {
		t.Errorf("status = %s", resp.AgentResults[0].Status)
	}
	if !strings.Contains(resp.AgentResults[0].Content, "panicked") {
		t.Errorf("content = %q", resp.AgentResults[0].Content)
	}
}

func TestProcessRequestUnavailableAgentIsSkipped(t *testing.T) {
	o, _ := testOrchestrator(registry.New())

	resp, err := o.ProcessRequest(context.Background(), Request{
		SessionID: "s1",
		Message:   "I want users to share recipes",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.AgentResults) != 1 || resp.AgentResults[0].Status != models.ResultSkipped {
		t.Fatalf("results = %+v", resp.AgentResults)
	}
}

func TestProcessRequestSpecificContextIsScoped(t *testing.T) {
	var captured agents.Input
	capturing := &capturingAgent{id: capability.AgentProjectArchitect, captured: &captured}
	reg := registry.New()
	reg.Register(capability.AgentProjectArchitect,
		func() (agents.Agent, error) { return capturing, nil })
	o, manager := testOrchestrator(reg)

	if _, err := manager.Update("s1", state.Delta{
		Phase: models.PhaseRequirementsComplete,
		Artifacts: map[string]json.RawMessage{
			models.ArtifactRequirements: json.RawMessage(`{"functional":["x"]}`),
			models.ArtifactMockups:      json.RawMessage(`[{"screen_name":"Home"}]`),
		},
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := o.ProcessRequest(context.Background(), Request{
		SessionID: "s1",
		Message:   "design the architecture and database",
	}); err != nil {
		t.Fatal(err)
	}

	if captured.Record != nil {
		t.Error("a specific-requirement collaborator must not see the full record")
	}
	if _, ok := captured.Context[models.ArtifactRequirements]; !ok {
		t.Error("required artifact missing from context")
	}
	if _, ok := captured.Context[models.ArtifactMockups]; ok {
		t.Error("unrequested artifact leaked into context")
	}
}

type capturingAgent struct {
	id       string
	captured *agents.Input
}

func (c *capturingAgent) ID() string   { return c.id }
func (c *capturingAgent) Name() string { return c.id }
func (c *capturingAgent) Process(_ context.Context, in agents.Input) (agents.Output, error) {
	*c.captured = in
	return agents.Output{Content: "ok"}, nil
}
