package agents

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/agenticmentor/mentor/pkg/models"
)

func TestMockupAgentSketchesScreens(t *testing.T) {
	a := NewMockupAgent(nil)

	out, err := a.Process(context.Background(), Input{
		Context: reqsContext(t, models.Requirements{
			Functional: []string{"share recipes with friends", "rate recipes"},
		}),
	})
	if err != nil {
		t.Fatal(err)
	}

	raw, ok := out.StateDelta[models.ArtifactMockups]
	if !ok {
		t.Fatal("no mockups delta")
	}
	var screens []models.Mockup
	if err := json.Unmarshal(raw, &screens); err != nil {
		t.Fatal(err)
	}

	if len(screens) != 3 {
		t.Fatalf("screens = %d, want home plus one per requirement", len(screens))
	}
	if screens[0].ScreenName != "Home" {
		t.Errorf("first screen = %s, want Home", screens[0].ScreenName)
	}
	if screens[1].ScreenName != "Share Recipes With" {
		t.Errorf("screen name = %q", screens[1].ScreenName)
	}
	if !strings.Contains(screens[1].WireframeCode, "+--") {
		t.Error("expected an ASCII wireframe")
	}
	if !strings.HasPrefix(screens[1].UserFlow, "flowchart") {
		t.Errorf("user flow = %q", screens[1].UserFlow)
	}
}

func TestMockupAgentUsesModelOutput(t *testing.T) {
	llm := &stubCompleter{reply: `Screens below:
[{"screen_name": "Login", "wireframe_code": "+--+", "user_flow": "flowchart TD"}]`}
	a := NewMockupAgent(llm)

	out, err := a.Process(context.Background(), Input{
		Context: reqsContext(t, models.Requirements{Functional: []string{"log in"}}),
	})
	if err != nil {
		t.Fatal(err)
	}

	var screens []models.Mockup
	if err := json.Unmarshal(out.StateDelta[models.ArtifactMockups], &screens); err != nil {
		t.Fatal(err)
	}
	if len(screens) != 1 || screens[0].ScreenName != "Login" {
		t.Errorf("screens = %v, want the model's screen", screens)
	}
}

func TestMockupAgentFallsBackOnModelFailure(t *testing.T) {
	a := NewMockupAgent(&stubCompleter{err: errors.New("model down")})

	out, err := a.Process(context.Background(), Input{
		Context: reqsContext(t, models.Requirements{Functional: []string{"share recipes"}}),
	})
	if err != nil {
		t.Fatal(err)
	}

	var screens []models.Mockup
	if err := json.Unmarshal(out.StateDelta[models.ArtifactMockups], &screens); err != nil {
		t.Fatal(err)
	}
	if len(screens) != 2 || screens[0].ScreenName != "Home" {
		t.Errorf("screens = %v, want the template fallback", screens)
	}
}

func TestMockupAgentRejectsUnnamedModelScreens(t *testing.T) {
	a := NewMockupAgent(&stubCompleter{reply: `[{"screen_name": "", "wireframe_code": "+--+"}]`})

	out, err := a.Process(context.Background(), Input{
		Context: reqsContext(t, models.Requirements{Functional: []string{"share recipes"}}),
	})
	if err != nil {
		t.Fatal(err)
	}

	var screens []models.Mockup
	if err := json.Unmarshal(out.StateDelta[models.ArtifactMockups], &screens); err != nil {
		t.Fatal(err)
	}
	if screens[0].ScreenName != "Home" {
		t.Errorf("screens = %v, want fallback for an unusable model reply", screens)
	}
}

func TestScreenNameHandlesMultibyteWords(t *testing.T) {
	if got := screenName("éditer les recettes partagées"); got != "Éditer Les Recettes" {
		t.Errorf("screenName = %q", got)
	}
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	long := strings.Repeat("é", 40)
	got := truncate(long, 32)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate produced invalid UTF-8: %q", got)
	}
	if got != strings.Repeat("é", 29)+"..." {
		t.Errorf("truncate = %q", got)
	}
	if short := truncate("plain", 32); short != "plain" {
		t.Errorf("truncate(plain) = %q", short)
	}
}

func TestMockupAgentCapsScreenCount(t *testing.T) {
	a := NewMockupAgent(nil)

	out, err := a.Process(context.Background(), Input{
		Context: reqsContext(t, models.Requirements{
			Functional: []string{"one", "two", "three", "four", "five", "six"},
		}),
	})
	if err != nil {
		t.Fatal(err)
	}

	var screens []models.Mockup
	if err := json.Unmarshal(out.StateDelta[models.ArtifactMockups], &screens); err != nil {
		t.Fatal(err)
	}
	if len(screens) != 5 {
		t.Errorf("screens = %d, want the cap of 5", len(screens))
	}
}
