package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agenticmentor/mentor/internal/capability"
	"github.com/agenticmentor/mentor/pkg/models"
)

// Completer produces a single text completion. The agents package's LLM
// client satisfies this.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// LLMClassifier asks a language model to classify the message, falling back
// to the rule-based classifier on any failure. The fallback is silent:
// a broken classifier must never break the turn.
type LLMClassifier struct {
	llm      Completer
	caps     *capability.Store
	patterns []Pattern
	fallback *RuleClassifier
}

// NewLLMClassifier wraps a completer with rule-based fallback.
func NewLLMClassifier(llm Completer, caps *capability.Store, patterns []Pattern) *LLMClassifier {
	if patterns == nil {
		patterns = DefaultPatterns()
	}
	return &LLMClassifier{
		llm:      llm,
		caps:     caps,
		patterns: patterns,
		fallback: NewRuleClassifier(patterns),
	}
}

const classifySystem = `You classify a user's message for a project-planning assistant.
Reply with a single JSON object: {"primary_intent": "...", "requires_agents": ["..."], "confidence": 0.0}
Use intent "unknown" with an empty agent list when nothing fits.`

// Classify queries the model and validates its answer against the declared
// intents and collaborators. Any failure degrades to the rule-based result.
func (c *LLMClassifier) Classify(ctx context.Context, userInput string, phase models.Phase) models.IntentResult {
	if c.llm == nil {
		return c.fallback.Classify(ctx, userInput, phase)
	}

	raw, err := c.llm.Complete(ctx, classifySystem, c.buildPrompt(userInput, phase))
	if err != nil {
		return c.fallback.Classify(ctx, userInput, phase)
	}
	result, err := c.parse(raw)
	if err != nil {
		return c.fallback.Classify(ctx, userInput, phase)
	}
	return result
}

func (c *LLMClassifier) buildPrompt(userInput string, phase models.Phase) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current phase: %s\n\nIntents:\n", phase)
	for _, p := range c.patterns {
		fmt.Fprintf(&b, "- %s (agents: %s)\n", p.Intent, strings.Join(p.Agents, ", "))
	}
	b.WriteString("\nCollaborators:\n")
	for _, entry := range c.caps.Entries() {
		fmt.Fprintf(&b, "- %s: %s\n", entry.ID, entry.Description)
	}
	fmt.Fprintf(&b, "\nUser message:\n%s\n", userInput)
	return b.String()
}

// parse strictly validates the model's output: the intent must be declared
// (or "unknown"), every agent id must exist, and confidence must land in
// [0, 1]. Anything else is treated as a classification failure.
func (c *LLMClassifier) parse(raw string) (models.IntentResult, error) {
	// Models sometimes wrap JSON in prose or fences; take the outermost object.
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return models.IntentResult{}, fmt.Errorf("no JSON object in response")
	}

	var result models.IntentResult
	if err := json.Unmarshal([]byte(raw[start:end+1]), &result); err != nil {
		return models.IntentResult{}, fmt.Errorf("decode intent: %w", err)
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		return models.IntentResult{}, fmt.Errorf("confidence %v out of range", result.Confidence)
	}
	if result.PrimaryIntent == models.IntentUnknown {
		result.RequiresAgents = []string{}
		return result, nil
	}
	known := false
	for _, tag := range KnownIntents() {
		if tag == result.PrimaryIntent {
			known = true
			break
		}
	}
	if !known {
		return models.IntentResult{}, fmt.Errorf("undeclared intent %q", result.PrimaryIntent)
	}
	for _, id := range result.RequiresAgents {
		if c.caps.Get(id) == nil {
			return models.IntentResult{}, fmt.Errorf("undeclared agent %q", id)
		}
	}
	return result, nil
}
