package intent

import (
	"context"
	"strings"

	"github.com/agenticmentor/mentor/pkg/models"
)

// Classifier maps a user message and the current phase to an intent.
// Classification failure is never fatal: implementations return the
// unknown intent rather than an error.
type Classifier interface {
	Classify(ctx context.Context, userInput string, phase models.Phase) models.IntentResult
}

// RuleClassifier scores the declared patterns against the input.
// It is always available and requires no external service.
type RuleClassifier struct {
	patterns []Pattern
}

// NewRuleClassifier creates a classifier over the given patterns.
// Nil patterns means the built-in table.
func NewRuleClassifier(patterns []Pattern) *RuleClassifier {
	if patterns == nil {
		patterns = DefaultPatterns()
	}
	return &RuleClassifier{patterns: patterns}
}

// Classify normalizes the input, counts keyword and trigger hits per
// phase-compatible pattern, and returns the best match. Ties go to the
// earliest declared pattern; no hits at all yields the unknown intent.
func (c *RuleClassifier) Classify(_ context.Context, userInput string, phase models.Phase) models.IntentResult {
	input := strings.ToLower(strings.TrimSpace(userInput))
	if input == "" {
		return models.UnknownIntent()
	}

	best := -1
	bestHits := 0
	for i := range c.patterns {
		p := &c.patterns[i]
		if !p.Phases.Allows(phase) {
			continue
		}
		hits := countHits(input, p)
		if hits > bestHits {
			best = i
			bestHits = hits
		}
	}
	if best < 0 {
		return models.UnknownIntent()
	}

	winner := &c.patterns[best]
	confidence := float64(bestHits) / float64(winner.termCount())
	if confidence > 1 {
		confidence = 1
	}
	return models.IntentResult{
		PrimaryIntent:  winner.Intent,
		RequiresAgents: append([]string(nil), winner.Agents...),
		Confidence:     confidence,
	}
}

func countHits(input string, p *Pattern) int {
	hits := 0
	for _, kw := range p.Keywords {
		if strings.Contains(input, strings.ToLower(kw)) {
			hits++
		}
	}
	for _, trigger := range p.Triggers {
		if strings.Contains(input, strings.ToLower(trigger)) {
			hits++
		}
	}
	return hits
}
