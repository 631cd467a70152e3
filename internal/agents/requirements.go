package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agenticmentor/mentor/internal/capability"
	"github.com/agenticmentor/mentor/pkg/models"
)

// constraintMarkers flag requirement lines that are constraints rather than
// features.
var constraintMarkers = []string{
	"must use", "must run", "only", "budget", "deadline", "cannot", "must not", "offline",
}

// nonFunctionalMarkers flag quality attributes.
var nonFunctionalMarkers = []string{
	"fast", "secure", "security", "scalable", "scale", "reliable", "performance",
	"latency", "available", "accessibility", "gdpr", "compliance",
}

// RequirementsCollector captures goals, constraints, and features from the
// conversation and maintains the requirements artifact.
type RequirementsCollector struct {
	llm Completer
}

// Completer produces a single text completion. Collaborators that can work
// without a model accept a nil Completer and fall back to their built-in
// behavior.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// NewRequirementsCollector creates the collector. llm may be nil, in which
// case the marker-word sorter is used.
func NewRequirementsCollector(llm Completer) *RequirementsCollector {
	return &RequirementsCollector{llm: llm}
}

func (a *RequirementsCollector) ID() string   { return capability.AgentRequirementsCollector }
func (a *RequirementsCollector) Name() string { return "Requirements Collector" }

const requirementsSystem = `You are a requirements analyst. Fold the user's latest message into
the existing project requirements and reply with a single JSON object matching this schema:
{"functional": ["..."], "non_functional": ["..."], "constraints": ["..."], "user_stories": [{"as_a": "...", "i_want": "...", "so_that": "..."}]}
Keep every existing entry that is still valid.`

// Process folds the user's message into the requirements artifact. With a
// model configured it asks for the updated set and falls back to marker-word
// sorting on any failure: lines go to functional requirements, constraints,
// or non-functional requirements; anything unclear becomes a gap question.
func (a *RequirementsCollector) Process(ctx context.Context, in Input) (Output, error) {
	var reqs models.Requirements
	if _, err := decodeArtifact(in, models.ArtifactRequirements, &reqs); err != nil {
		return Output{}, err
	}

	if updated := a.fromLLM(ctx, reqs, in.UserInput); updated != nil {
		reqs = *updated
	} else {
		sortStatements(&reqs, in.UserInput)
	}

	reqs.Gaps = nextGaps(reqs)

	delta, err := marshalDelta(models.ArtifactRequirements, reqs)
	if err != nil {
		return Output{}, err
	}

	content := fmt.Sprintf("Requirements updated. Tracking %d functional, %d constraint(s), %d non-functional.",
		len(reqs.Functional), len(reqs.Constraints), len(reqs.NonFunctional))
	if len(reqs.Gaps) > 0 {
		content += " Open question: " + reqs.Gaps[0]
	}
	return Output{StateDelta: delta, Content: content}, nil
}

// fromLLM asks the model to fold the message into the existing set.
// Returns nil on any failure.
func (a *RequirementsCollector) fromLLM(ctx context.Context, current models.Requirements, userInput string) *models.Requirements {
	if a.llm == nil {
		return nil
	}
	existing, err := json.Marshal(current)
	if err != nil {
		return nil
	}
	prompt := fmt.Sprintf("Existing requirements:\n%s\n\nLatest message:\n%s", existing, userInput)
	raw, err := a.llm.Complete(ctx, requirementsSystem, prompt)
	if err != nil {
		return nil
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil
	}
	var reqs models.Requirements
	if err := json.Unmarshal([]byte(raw[start:end+1]), &reqs); err != nil {
		return nil
	}
	if len(reqs.Functional)+len(reqs.Constraints)+len(reqs.NonFunctional) == 0 {
		return nil
	}
	return &reqs
}

// sortStatements buckets each statement of the message by marker words.
func sortStatements(reqs *models.Requirements, userInput string) {
	for _, line := range splitStatements(userInput) {
		lower := strings.ToLower(line)
		switch {
		case hasAny(lower, constraintMarkers):
			reqs.Constraints = appendUnique(reqs.Constraints, line)
		case hasAny(lower, nonFunctionalMarkers):
			reqs.NonFunctional = appendUnique(reqs.NonFunctional, line)
		default:
			reqs.Functional = appendUnique(reqs.Functional, line)
		}
	}
}

// nextGaps returns the open questions worth asking given what is captured.
func nextGaps(reqs models.Requirements) []string {
	var gaps []string
	if len(reqs.Functional) == 0 {
		gaps = append(gaps, "What should the system do? Describe the core features.")
	}
	if len(reqs.Constraints) == 0 {
		gaps = append(gaps, "Any constraints on technology, budget, or timeline?")
	}
	if len(reqs.NonFunctional) == 0 {
		gaps = append(gaps, "Any quality goals, like performance or security targets?")
	}
	return gaps
}

// splitStatements breaks a message into individual requirement statements.
func splitStatements(input string) []string {
	var out []string
	for _, chunk := range strings.FieldsFunc(input, func(r rune) bool {
		return r == '\n' || r == ';' || r == '.'
	}) {
		if s := strings.TrimSpace(chunk); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func hasAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func appendUnique(list []string, item string) []string {
	for _, existing := range list {
		if strings.EqualFold(existing, item) {
			return list
		}
	}
	return append(list, item)
}
