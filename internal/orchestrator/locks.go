package orchestrator

import "sync"

// sessionLocks serializes turns per session. Concurrent requests for the
// same session queue behind each other; different sessions never contend.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for a session, creating it on first use, and
// returns the matching unlock func.
func (s *sessionLocks) lock(sessionID string) func() {
	s.mu.Lock()
	m, ok := s.locks[sessionID]
	if !ok {
		m = &sync.Mutex{}
		s.locks[sessionID] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}
