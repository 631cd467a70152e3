package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/agenticmentor/mentor/internal/capability"
	"github.com/agenticmentor/mentor/pkg/models"
)

// MockupAgent generates ASCII wireframes and user flows from requirements
// and architecture.
type MockupAgent struct {
	llm Completer
}

// NewMockupAgent creates the mockup collaborator. llm may be nil, in which
// case the built-in wireframe templates are used.
func NewMockupAgent(llm Completer) *MockupAgent {
	return &MockupAgent{llm: llm}
}

func (a *MockupAgent) ID() string   { return capability.AgentMockup }
func (a *MockupAgent) Name() string { return "Mockup Agent" }

const mockupSystem = `You are a UI designer. Given project requirements, reply with a single
JSON array of screens matching this schema:
[{"screen_name": "...", "wireframe_code": "ascii wireframe", "user_flow": "mermaid flowchart", "interactions": ["..."]}]`

// Process produces the mockups artifact. With a model configured it asks
// for the screens and falls back to the template wireframes on any failure:
// one per leading functional requirement, capped at four screens plus the
// home screen.
func (a *MockupAgent) Process(ctx context.Context, in Input) (Output, error) {
	var reqs models.Requirements
	if _, err := decodeArtifact(in, models.ArtifactRequirements, &reqs); err != nil {
		return Output{}, err
	}

	screens := a.fromLLM(ctx, reqs, in.UserInput)
	if screens == nil {
		screens = sketchScreens(reqs)
	}

	delta, err := marshalDelta(models.ArtifactMockups, screens)
	if err != nil {
		return Output{}, err
	}
	return Output{
		StateDelta: delta,
		Content:    fmt.Sprintf("Sketched %d screen(s).", len(screens)),
	}, nil
}

// fromLLM asks the model for the screens. Returns nil on any failure.
func (a *MockupAgent) fromLLM(ctx context.Context, reqs models.Requirements, userInput string) []models.Mockup {
	if a.llm == nil {
		return nil
	}
	prompt := fmt.Sprintf("Functional requirements:\n%s\n\nLatest request:\n%s",
		strings.Join(reqs.Functional, "\n"), userInput)
	raw, err := a.llm.Complete(ctx, mockupSystem, prompt)
	if err != nil {
		return nil
	}
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil
	}
	var screens []models.Mockup
	if err := json.Unmarshal([]byte(raw[start:end+1]), &screens); err != nil {
		return nil
	}
	if len(screens) == 0 {
		return nil
	}
	for _, s := range screens {
		if s.ScreenName == "" || s.WireframeCode == "" {
			return nil
		}
	}
	if len(screens) > 5 {
		screens = screens[:5]
	}
	return screens
}

func sketchScreens(reqs models.Requirements) []models.Mockup {
	screens := []models.Mockup{wireframe("Home", "Overview and primary navigation")}
	for _, fr := range reqs.Functional {
		if len(screens) >= 5 {
			break
		}
		screens = append(screens, wireframe(screenName(fr), fr))
	}
	return screens
}

func wireframe(name, purpose string) models.Mockup {
	frame := "+----------------------------------+\n" +
		fmt.Sprintf("| %-32s |\n", name) +
		"+----------------------------------+\n" +
		"| [ nav ]                          |\n" +
		fmt.Sprintf("| %-32s |\n", truncate(purpose, 32)) +
		"| [ primary action ]               |\n" +
		"+----------------------------------+"
	return models.Mockup{
		ScreenName:    name,
		WireframeCode: frame,
		UserFlow:      fmt.Sprintf("flowchart TD\n    Home --> %s", strings.ReplaceAll(name, " ", "")),
		Interactions:  []string{"tap primary action", "back to home"},
	}
}

// screenName title-cases the first three words of a requirement. Rune-wise,
// so multibyte leading characters survive.
func screenName(requirement string) string {
	words := strings.Fields(requirement)
	if len(words) > 3 {
		words = words[:3]
	}
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// truncate shortens to n runes, never splitting a multibyte character.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
