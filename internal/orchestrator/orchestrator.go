package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/agenticmentor/mentor/internal/agents"
	"github.com/agenticmentor/mentor/internal/capability"
	"github.com/agenticmentor/mentor/internal/intent"
	"github.com/agenticmentor/mentor/internal/planner"
	"github.com/agenticmentor/mentor/internal/registry"
	"github.com/agenticmentor/mentor/internal/state"
	"github.com/agenticmentor/mentor/pkg/models"
)

// manualIntent tags turns where the user picked the collaborator directly
// and the classifier was bypassed.
const manualIntent = "manual_selection"

// Options configures an Orchestrator. State, Capabilities and Registry are
// required; a nil Classifier disables auto mode routing and a nil Logger
// disables debug logging.
type Options struct {
	State        *state.Manager
	Classifier   intent.Classifier
	Capabilities *capability.Store
	Registry     *registry.Registry
	Logger       *DebugLogger
}

// Orchestrator coordinates one turn at a time per session. It owns no
// domain logic itself: classification, planning, and artifact production
// all live behind the components it wires together.
type Orchestrator struct {
	state    *state.Manager
	caps     *capability.Store
	planner  *planner.Planner
	registry *registry.Registry
	logger   *DebugLogger
	locks    *sessionLocks

	classifierMu sync.RWMutex
	classifier   intent.Classifier
}

// SetClassifier swaps the classifier. Used when a config reload changes the
// classification mode; in-flight turns keep the classifier they started with.
func (o *Orchestrator) SetClassifier(c intent.Classifier) {
	o.classifierMu.Lock()
	defer o.classifierMu.Unlock()
	o.classifier = c
}

func (o *Orchestrator) getClassifier() intent.Classifier {
	o.classifierMu.RLock()
	defer o.classifierMu.RUnlock()
	return o.classifier
}

// New creates an orchestrator from its components.
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = NopLogger()
	}
	return &Orchestrator{
		state:      opts.State,
		classifier: opts.Classifier,
		caps:       opts.Capabilities,
		planner:    planner.New(opts.Capabilities),
		registry:   opts.Registry,
		logger:     logger,
		locks:      newSessionLocks(),
	}
}

// ProcessRequest runs one turn: load the record, classify the message (or
// honor the manual selection), plan, execute the plan sequentially, and
// append the turn to the conversation. Turns for the same session are
// serialized; a second request queues until the first finishes.
func (o *Orchestrator) ProcessRequest(ctx context.Context, req Request) (*Response, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	unlock := o.locks.lock(sessionID)
	defer unlock()

	record, err := o.state.Load(sessionID)
	if err != nil {
		return nil, err
	}

	mode := record.SelectionMode
	if req.Mode != "" {
		if !req.Mode.Valid() {
			return nil, fmt.Errorf("unknown selection mode %q", req.Mode)
		}
		mode = req.Mode
	}
	if mode == "" {
		mode = models.SelectionAuto
	}
	selected := record.SelectedAgentID
	if req.SelectedAgentID != "" {
		selected = req.SelectedAgentID
	}

	var res models.IntentResult
	if mode == models.SelectionManual {
		seed := []string{}
		if selected != "" {
			seed = append(seed, selected)
		}
		res = models.IntentResult{PrimaryIntent: manualIntent, RequiresAgents: seed, Confidence: 1}
	} else if classifier := o.getClassifier(); classifier != nil {
		res = classifier.Classify(ctx, req.Message, record.Phase)
	} else {
		res = models.UnknownIntent()
	}
	o.logger.Log("session %s: intent=%s agents=%v confidence=%.2f",
		sessionID, res.PrimaryIntent, res.RequiresAgents, res.Confidence)

	plan, err := o.planner.Plan(mode, res, record)
	if err != nil {
		return nil, fmt.Errorf("plan turn: %w", err)
	}
	o.logger.Log("session %s: plan=%v", sessionID, plan.AgentIDs())

	if plan.AwaitingSelection {
		available := o.planner.AvailableAgents(record)
		return &Response{
			SessionID:         sessionID,
			Message:           selectionPrompt(available),
			Intent:            res,
			Plan:              []string{},
			AwaitingSelection: true,
			AgentResults:      []models.AgentResult{},
			AvailableAgents:   available,
			State:             record,
		}, nil
	}

	results := make([]models.AgentResult, 0, len(plan.Tasks))
	for _, task := range plan.Tasks {
		result, updated, err := o.runTask(ctx, sessionID, record, task, req.Message)
		if err != nil {
			return nil, err
		}
		if updated != nil {
			record = updated
		}
		results = append(results, result)
	}

	message := synthesizeMessage(results, res)
	turnDelta := state.Delta{
		AppendConversation: []models.ConversationEntry{
			{Role: models.RoleUser, Content: req.Message},
			{Role: models.RoleAssistant, Content: message},
		},
		SelectionMode: mode,
	}
	if mode == models.SelectionManual {
		turnDelta.SetSelection = true
		turnDelta.SelectedAgentID = selected
	}
	record, err = o.state.Update(sessionID, turnDelta)
	if err != nil {
		return nil, err
	}

	return &Response{
		SessionID:       sessionID,
		Message:         message,
		Intent:          res,
		Plan:            plan.AgentIDs(),
		AgentResults:    results,
		AvailableAgents: o.planner.AvailableAgents(record),
		State:           record,
	}, nil
}

// runTask invokes one scheduled collaborator and applies its delta. Agent
// failures are folded into the result; only persistence failures abort the
// turn. The returned record is non-nil when state changed.
func (o *Orchestrator) runTask(ctx context.Context, sessionID string, record *models.ProjectRecord, task planner.Task, userInput string) (models.AgentResult, *models.ProjectRecord, error) {
	name := task.AgentID
	if entry := o.caps.Get(task.AgentID); entry != nil {
		name = entry.Name
	}

	agent := o.registry.Get(task.AgentID)
	if agent == nil {
		o.logger.Log("session %s: %s not constructible, skipped", sessionID, task.AgentID)
		return models.AgentResult{
			AgentID:   task.AgentID,
			AgentName: name,
			Status:    models.ResultSkipped,
			Content:   "Collaborator is not available in this build.",
		}, nil, nil
	}

	in := buildInput(record, task, userInput)
	out, err := invoke(ctx, agent, in)
	if err != nil {
		o.logger.Log("session %s: %s failed: %v", sessionID, task.AgentID, err)
		return models.AgentResult{
			AgentID:   task.AgentID,
			AgentName: name,
			Status:    models.ResultError,
			Content:   err.Error(),
		}, nil, nil
	}

	delta := state.Delta{
		Artifacts:         out.StateDelta,
		CountInteractions: []string{task.AgentID},
	}
	if target, ok := capability.TransitionFor(task.AgentID); ok {
		delta.Phase = target
	}
	updated, err := o.state.Update(sessionID, delta)
	if err != nil {
		return models.AgentResult{}, nil, fmt.Errorf("apply %s delta: %w", task.AgentID, err)
	}

	return models.AgentResult{
		AgentID:        task.AgentID,
		AgentName:      name,
		Status:         models.ResultSuccess,
		Content:        out.Content,
		StateDeltaKeys: deltaKeys(out.StateDelta),
	}, updated, nil
}

// invoke calls the collaborator, converting a panic into an error so one
// misbehaving collaborator cannot take down the turn.
func invoke(ctx context.Context, agent agents.Agent, in agents.Input) (out agents.Output, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", agent.ID(), r)
		}
	}()
	return agent.Process(ctx, in)
}

// buildInput assembles the collaborator's view of the record. An All
// requirement gets the full record plus every artifact; a specific
// requirement gets exactly the named artifacts, missing ones as nil.
func buildInput(record *models.ProjectRecord, task planner.Task, userInput string) agents.Input {
	in := agents.Input{
		UserInput: userInput,
		Phase:     record.Phase,
		History:   record.ConversationHistory,
	}
	if task.InputOverride != "" {
		in.UserInput = task.InputOverride
	}

	if task.RequiredContext.All() {
		in.Record = record
		in.Context = make(map[string]json.RawMessage, len(record.Artifacts))
		for k, v := range record.Artifacts {
			in.Context[k] = v
		}
		return in
	}

	names := task.RequiredContext.Names()
	in.Context = make(map[string]json.RawMessage, len(names))
	for _, artifact := range names {
		in.Context[artifact] = record.Artifacts[artifact]
	}
	return in
}

// synthesizeMessage builds the user-facing reply from the turn's results.
// Non-empty contents are joined in execution order; with nothing to show it
// falls back to a generic reply.
func synthesizeMessage(results []models.AgentResult, res models.IntentResult) string {
	var parts []string
	for _, r := range results {
		if r.Status == models.ResultSuccess && strings.TrimSpace(r.Content) != "" {
			parts = append(parts, strings.TrimSpace(r.Content))
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, "\n\n")
	}
	for i := len(results) - 1; i >= 0; i-- {
		if strings.TrimSpace(results[i].Content) != "" {
			return strings.TrimSpace(results[i].Content)
		}
	}
	if res.PrimaryIntent == models.IntentUnknown {
		return "I wasn't sure what to do with that. Tell me about your project, or ask for requirements, architecture, a roadmap, mockups, or an export."
	}
	return "Nothing to report for that request yet."
}

func selectionPrompt(available []models.AvailableAgent) string {
	if len(available) == 0 {
		return "Manual mode is on, but no collaborator can run at this phase. Switch to auto mode or add more project detail first."
	}
	var b strings.Builder
	b.WriteString("Manual mode is on. Pick a collaborator to run:\n")
	for _, a := range available {
		fmt.Fprintf(&b, "  - %s: %s\n", a.ID, a.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

func deltaKeys(delta map[string]json.RawMessage) []string {
	if len(delta) == 0 {
		return nil
	}
	keys := make([]string, 0, len(delta))
	for k := range delta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
