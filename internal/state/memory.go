package state

import (
	"sort"
	"sync"

	"github.com/agenticmentor/mentor/pkg/models"
)

// MemoryStore is an in-process store used by tests and the one-shot CLI
// path. Records live only for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*models.ProjectRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*models.ProjectRecord)}
}

// Get returns a copy of the stored record, or (nil, nil) if absent.
func (s *MemoryStore) Get(sessionID string) (*models.ProjectRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[sessionID]
	if !ok {
		return nil, nil
	}
	return record.Clone(), nil
}

// Save stores a copy of the record, guarding against later mutation by the
// caller.
func (s *MemoryStore) Save(sessionID string, record *models.ProjectRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[sessionID] = record.Clone()
	return nil
}

// Delete removes a session's record.
func (s *MemoryStore) Delete(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, sessionID)
	return nil
}

// List returns all stored session ids, sorted for determinism.
func (s *MemoryStore) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
