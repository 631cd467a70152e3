package state

import (
	"encoding/json"
	"testing"

	"github.com/agenticmentor/mentor/pkg/models"
)

func TestLoadCreatesDefaultRecord(t *testing.T) {
	m := NewManager(NewMemoryStore())

	record, err := m.Load("fresh")
	if err != nil {
		t.Fatal(err)
	}
	if record.SessionID != "fresh" {
		t.Errorf("session id = %q", record.SessionID)
	}
	if record.Phase != models.PhaseInitialization {
		t.Errorf("phase = %s, want initialization", record.Phase)
	}
}

func TestUpdateMergeStrategies(t *testing.T) {
	m := NewManager(NewMemoryStore())

	_, err := m.Update("s1", Delta{
		Artifacts: map[string]json.RawMessage{
			"requirements": json.RawMessage(`{"v":1}`),
		},
		AppendConversation: []models.ConversationEntry{
			{Role: models.RoleUser, Content: "first"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	record, err := m.Update("s1", Delta{
		Artifacts: map[string]json.RawMessage{
			"requirements": json.RawMessage(`{"v":2}`),
			"architecture": json.RawMessage(`{"stack":"go"}`),
		},
		AppendConversation: []models.ConversationEntry{
			{Role: models.RoleAssistant, Content: "second"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	// Artifact keys overwrite.
	if string(record.Artifacts["requirements"]) != `{"v":2}` {
		t.Errorf("requirements = %s, want overwritten value", record.Artifacts["requirements"])
	}
	if string(record.Artifacts["architecture"]) != `{"stack":"go"}` {
		t.Errorf("architecture = %s", record.Artifacts["architecture"])
	}

	// Conversation appends.
	if len(record.ConversationHistory) != 2 {
		t.Fatalf("conversation length = %d, want 2", len(record.ConversationHistory))
	}
	if record.ConversationHistory[0].Content != "first" || record.ConversationHistory[1].Content != "second" {
		t.Errorf("conversation = %+v", record.ConversationHistory)
	}
}

func TestUpdatePhaseIsMonotonic(t *testing.T) {
	m := NewManager(NewMemoryStore())

	record, err := m.Update("s1", Delta{Phase: models.PhaseArchitectureComplete})
	if err != nil {
		t.Fatal(err)
	}
	if record.Phase != models.PhaseArchitectureComplete {
		t.Fatalf("phase = %s", record.Phase)
	}

	// A delta carrying an earlier phase is applied minus the regression.
	record, err = m.Update("s1", Delta{
		Phase: models.PhaseDiscovery,
		Artifacts: map[string]json.RawMessage{
			"requirements": json.RawMessage(`{"v":1}`),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if record.Phase != models.PhaseArchitectureComplete {
		t.Errorf("phase regressed to %s", record.Phase)
	}
	if !record.HasArtifact("requirements") {
		t.Error("non-phase portion of the delta should still apply")
	}
}

func TestUpdateSelectionFields(t *testing.T) {
	m := NewManager(NewMemoryStore())

	record, err := m.Update("s1", Delta{
		SelectionMode:   models.SelectionManual,
		SelectedAgentID: "exporter",
		SetSelection:    true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if record.SelectionMode != models.SelectionManual || record.SelectedAgentID != "exporter" {
		t.Errorf("selection = %s/%s", record.SelectionMode, record.SelectedAgentID)
	}

	// Clearing the selection needs SetSelection, not just an empty id.
	record, err = m.Update("s1", Delta{SetSelection: true})
	if err != nil {
		t.Fatal(err)
	}
	if record.SelectedAgentID != "" {
		t.Errorf("selected agent = %q, want cleared", record.SelectedAgentID)
	}
	if record.SelectionMode != models.SelectionManual {
		t.Error("mode should be untouched by an empty SelectionMode")
	}
}

func TestUpdateCountsInteractions(t *testing.T) {
	m := NewManager(NewMemoryStore())

	m.Update("s1", Delta{CountInteractions: []string{"exporter"}})
	record, err := m.Update("s1", Delta{CountInteractions: []string{"exporter", "mockup_agent"}})
	if err != nil {
		t.Fatal(err)
	}
	if record.AgentInteractions["exporter"] != 2 {
		t.Errorf("exporter interactions = %d, want 2", record.AgentInteractions["exporter"])
	}
	if record.AgentInteractions["mockup_agent"] != 1 {
		t.Errorf("mockup interactions = %d, want 1", record.AgentInteractions["mockup_agent"])
	}
}

func TestUpdateReturnsClones(t *testing.T) {
	m := NewManager(NewMemoryStore())

	record, err := m.Update("s1", Delta{
		Artifacts: map[string]json.RawMessage{"requirements": json.RawMessage(`{"v":1}`)},
	})
	if err != nil {
		t.Fatal(err)
	}

	// Mutating the returned record must not touch the cached copy.
	record.Artifacts["requirements"] = json.RawMessage(`{"hacked":true}`)
	record.Phase = models.PhaseExportable

	reloaded, err := m.Load("s1")
	if err != nil {
		t.Fatal(err)
	}
	if string(reloaded.Artifacts["requirements"]) != `{"v":1}` {
		t.Error("caller mutation leaked into the cache")
	}
	if reloaded.Phase == models.PhaseExportable {
		t.Error("caller phase mutation leaked into the cache")
	}
}

func TestUpdateWriteFailureKeepsCache(t *testing.T) {
	store := &failingStore{MemoryStore: NewMemoryStore()}
	m := NewManager(store)

	if _, err := m.Update("s1", Delta{
		Artifacts: map[string]json.RawMessage{"requirements": json.RawMessage(`{"v":1}`)},
	}); err != nil {
		t.Fatal(err)
	}

	store.fail = true
	_, err := m.Update("s1", Delta{
		Artifacts: map[string]json.RawMessage{"requirements": json.RawMessage(`{"v":2}`)},
	})
	if err == nil {
		t.Fatal("expected persistence error")
	}

	store.fail = false
	record, err := m.Load("s1")
	if err != nil {
		t.Fatal(err)
	}
	if string(record.Artifacts["requirements"]) != `{"v":1}` {
		t.Errorf("cache holds %s, want pre-failure value", record.Artifacts["requirements"])
	}
}

func TestFragment(t *testing.T) {
	m := NewManager(NewMemoryStore())

	_, err := m.Update("s1", Delta{
		Artifacts: map[string]json.RawMessage{
			"architecture": json.RawMessage(`{"tech_stack":{"backend":"Go"}}`),
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	value, err := m.Fragment("s1", "architecture.tech_stack.backend")
	if err != nil {
		t.Fatal(err)
	}
	if value != "Go" {
		t.Errorf("fragment = %v, want Go", value)
	}

	if _, err := m.Fragment("s1", "architecture.missing"); err == nil {
		t.Error("expected error for missing key")
	}
	if _, err := m.Fragment("s1", "architecture.tech_stack.backend.deeper"); err == nil {
		t.Error("expected error when traversing into a leaf")
	}

	// Record fields resolve too.
	value, err = m.Fragment("s1", "phase")
	if err != nil {
		t.Fatal(err)
	}
	if value != string(models.PhaseInitialization) {
		t.Errorf("phase fragment = %v", value)
	}
}

func TestEvictRereadsFromStore(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store)

	if _, err := m.Update("s1", Delta{
		Artifacts: map[string]json.RawMessage{"requirements": json.RawMessage(`{"v":1}`)},
	}); err != nil {
		t.Fatal(err)
	}

	// Write around the manager, then evict; the next load must see the
	// store's version.
	stored, _ := store.Get("s1")
	stored.Artifacts["requirements"] = json.RawMessage(`{"v":99}`)
	store.Save("s1", stored)

	m.Evict("s1")
	record, err := m.Load("s1")
	if err != nil {
		t.Fatal(err)
	}
	if string(record.Artifacts["requirements"]) != `{"v":99}` {
		t.Errorf("post-evict load = %s, want store version", record.Artifacts["requirements"])
	}
}

// failingStore wraps MemoryStore with a switchable Save failure.
type failingStore struct {
	*MemoryStore
	fail bool
}

func (s *failingStore) Save(sessionID string, record *models.ProjectRecord) error {
	if s.fail {
		return ErrStoreUnavailable
	}
	return s.MemoryStore.Save(sessionID, record)
}
