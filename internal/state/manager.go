package state

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/agenticmentor/mentor/pkg/models"
)

// Delta is one atomic record mutation. The two merge strategies are
// declared here rather than special-cased at the call sites: artifact keys
// overwrite, the conversation channel appends.
type Delta struct {
	// Artifacts maps artifact name to its new value (overwrite-by-key).
	Artifacts map[string]json.RawMessage
	// AppendConversation appends entries to the conversation log.
	AppendConversation []models.ConversationEntry
	// Phase advances the lifecycle phase. Regressions are ignored:
	// phases only move forward.
	Phase models.Phase
	// SelectionMode updates the agent selection mode when non-empty.
	SelectionMode models.SelectionMode
	// SelectedAgentID updates the manual selection when SetSelection is
	// true (the empty string clears it).
	SelectedAgentID string
	SetSelection    bool
	// CountInteractions increments the per-agent interaction counter for
	// each listed agent id.
	CountInteractions []string
}

// Empty returns true if the delta mutates nothing.
func (d *Delta) Empty() bool {
	return len(d.Artifacts) == 0 && len(d.AppendConversation) == 0 &&
		d.Phase == "" && d.SelectionMode == "" && !d.SetSelection &&
		len(d.CountInteractions) == 0
}

// Manager owns the in-memory cache of project records and writes every
// update through to the durable store. The cache is authoritative during a
// turn; the store is never read mid-turn.
type Manager struct {
	store Store
	mu    sync.Mutex
	cache map[string]*models.ProjectRecord
	now   func() time.Time
}

// NewManager creates a manager over the given store.
func NewManager(store Store) *Manager {
	return &Manager{
		store: store,
		cache: make(map[string]*models.ProjectRecord),
		now:   time.Now,
	}
}

// Load returns the record for a session: cached if present, else read from
// the store, else a fresh default record. Callers get a clone; the cached
// copy is only mutated through Update.
func (m *Manager) Load(sessionID string) (*models.ProjectRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, err := m.loadLocked(sessionID)
	if err != nil {
		return nil, err
	}
	return record.Clone(), nil
}

func (m *Manager) loadLocked(sessionID string) (*models.ProjectRecord, error) {
	if record, ok := m.cache[sessionID]; ok {
		return record, nil
	}
	record, err := m.store.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if record == nil {
		record = models.NewProjectRecord(sessionID)
	}
	m.cache[sessionID] = record
	return record, nil
}

// Update applies a delta atomically: merge into the cached record, write
// through to the store, and return the updated record. If the write-through
// fails the cache keeps the pre-update record.
func (m *Manager) Update(sessionID string, delta Delta) (*models.ProjectRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, err := m.loadLocked(sessionID)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	for key, value := range delta.Artifacts {
		next.Artifacts[key] = append(json.RawMessage(nil), value...)
	}
	next.ConversationHistory = append(next.ConversationHistory, delta.AppendConversation...)
	if delta.Phase != "" && next.Phase.Before(delta.Phase) {
		next.Phase = delta.Phase
	}
	if delta.SelectionMode != "" {
		next.SelectionMode = delta.SelectionMode
	}
	if delta.SetSelection {
		next.SelectedAgentID = delta.SelectedAgentID
	}
	for _, id := range delta.CountInteractions {
		if next.AgentInteractions == nil {
			next.AgentInteractions = make(map[string]int)
		}
		next.AgentInteractions[id]++
	}
	next.UpdatedAt = m.now().UTC()

	if err := m.store.Save(sessionID, next); err != nil {
		return nil, fmt.Errorf("persist session %s: %w", sessionID, err)
	}
	m.cache[sessionID] = next
	return next.Clone(), nil
}

// Fragment extracts a dotted-path fragment of a record's JSON form, e.g.
// "architecture.tech_stack" or "requirements.functional". Artifact names
// are resolved against the artifact map first, then record fields.
func (m *Manager) Fragment(sessionID, path string) (any, error) {
	record, err := m.Load(sessionID)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if artifacts, ok := tree["artifacts"].(map[string]any); ok {
		for k, v := range artifacts {
			if _, shadowed := tree[k]; !shadowed {
				tree[k] = v
			}
		}
	}

	var value any = tree
	for _, key := range strings.Split(path, ".") {
		node, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("fragment %q: %q is not an object", path, key)
		}
		value, ok = node[key]
		if !ok {
			return nil, fmt.Errorf("fragment %q: key %q not found", path, key)
		}
	}
	return value, nil
}

// Sessions lists the stored session ids.
func (m *Manager) Sessions() ([]string, error) {
	return m.store.List()
}

// Delete removes a session from the cache and the store.
func (m *Manager) Delete(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cache, sessionID)
	return m.store.Delete(sessionID)
}

// Evict drops a session from the cache without touching the store.
// The next Load re-reads from disk.
func (m *Manager) Evict(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cache, sessionID)
}
