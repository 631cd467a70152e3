package models

// IntentResult is the outcome of classifying one user message.
type IntentResult struct {
	// PrimaryIntent is the winning intent tag, or "unknown".
	PrimaryIntent string `json:"primary_intent"`
	// RequiresAgents lists collaborator ids mapped to the intent, in order.
	RequiresAgents []string `json:"requires_agents"`
	// Confidence is the normalized match score in [0, 1].
	Confidence float64 `json:"confidence"`
}

// IntentUnknown is the tag returned when no pattern matches.
const IntentUnknown = "unknown"

// UnknownIntent returns the zero-confidence result for unmatched input.
func UnknownIntent() IntentResult {
	return IntentResult{PrimaryIntent: IntentUnknown, RequiresAgents: []string{}, Confidence: 0}
}
