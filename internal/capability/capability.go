// Package capability declares the static collaborator capability graph:
// which artifacts each collaborator requires and produces, and in which
// phases it may run. The table is loaded once and read-only afterwards.
package capability

import (
	"github.com/agenticmentor/mentor/pkg/models"
)

// Requirement is the tagged artifact requirement of a collaborator:
// either a specific set of artifact names or everything ("requires all").
// All-requirers are terminal consumers and contribute no dependency edges.
type Requirement struct {
	all   bool
	names []string
}

// RequireAll returns the requirement that consumes the full record.
func RequireAll() Requirement {
	return Requirement{all: true}
}

// Require returns a specific requirement on the named artifacts.
func Require(names ...string) Requirement {
	return Requirement{names: append([]string(nil), names...)}
}

// All returns true for the consume-everything requirement.
func (r Requirement) All() bool { return r.all }

// Names returns the required artifact names. Empty for All requirements.
func (r Requirement) Names() []string {
	return append([]string(nil), r.names...)
}

// Contains returns true if a Specific requirement includes the artifact.
func (r Requirement) Contains(artifact string) bool {
	if r.all {
		return false
	}
	for _, n := range r.names {
		if n == artifact {
			return true
		}
	}
	return false
}

// PhaseSet is the phase compatibility of a collaborator: a specific set of
// phases or any phase.
type PhaseSet struct {
	any    bool
	phases []models.Phase
}

// AnyPhase returns the compatibility set that accepts every phase.
func AnyPhase() PhaseSet {
	return PhaseSet{any: true}
}

// InPhases returns a compatibility set over the given phases.
func InPhases(phases ...models.Phase) PhaseSet {
	return PhaseSet{phases: append([]models.Phase(nil), phases...)}
}

// Allows returns true if the collaborator may run in the given phase.
func (s PhaseSet) Allows(phase models.Phase) bool {
	if s.any {
		return true
	}
	for _, p := range s.phases {
		if p == phase {
			return true
		}
	}
	return false
}

// Entry describes one collaborator in the capability graph.
type Entry struct {
	// ID is the unique collaborator id.
	ID string
	// Name is the display name surfaced to callers.
	Name string
	// Description says what the collaborator does. The LLM classifier
	// includes it in its prompt.
	Description string
	// Requires declares the artifacts the collaborator consumes.
	Requires Requirement
	// Produces lists the artifact names the collaborator writes.
	Produces []string
	// Phases declares the phases the collaborator may run in.
	Phases PhaseSet
}

// ProducesArtifact returns true if the entry produces the named artifact.
func (e *Entry) ProducesArtifact(artifact string) bool {
	for _, p := range e.Produces {
		if p == artifact {
			return true
		}
	}
	return false
}

// Store is the read-only capability lookup table. Iteration follows
// declaration order, which is the tie-break order used everywhere else.
type Store struct {
	entries []Entry
	byID    map[string]int
}

// NewStore builds a store from entries in declaration order.
// Duplicate ids keep the first declaration.
func NewStore(entries []Entry) *Store {
	s := &Store{byID: make(map[string]int, len(entries))}
	for _, e := range entries {
		if _, dup := s.byID[e.ID]; dup {
			continue
		}
		s.byID[e.ID] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return s
}

// Get returns the entry for id, or nil if unknown.
func (s *Store) Get(id string) *Entry {
	i, ok := s.byID[id]
	if !ok {
		return nil
	}
	return &s.entries[i]
}

// Entries returns all entries in declaration order.
func (s *Store) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// IDs returns all collaborator ids in declaration order.
func (s *Store) IDs() []string {
	ids := make([]string, len(s.entries))
	for i, e := range s.entries {
		ids[i] = e.ID
	}
	return ids
}

// Len returns the number of declared collaborators.
func (s *Store) Len() int { return len(s.entries) }

// ProducersOf returns the entries that produce the artifact, in
// declaration order.
func (s *Store) ProducersOf(artifact string) []*Entry {
	var out []*Entry
	for i := range s.entries {
		if s.entries[i].ProducesArtifact(artifact) {
			out = append(out, &s.entries[i])
		}
	}
	return out
}

// ConsumersOf returns the entries whose Specific requirement includes the
// artifact. All-requirers are excluded: they consume everything and carry
// no resolvable dependency edge.
func (s *Store) ConsumersOf(artifact string) []*Entry {
	var out []*Entry
	for i := range s.entries {
		if s.entries[i].Requires.Contains(artifact) {
			out = append(out, &s.entries[i])
		}
	}
	return out
}
