// Package registry resolves collaborator ids to live, invocable handles.
// Construction is lazy and memoized; a missing or failed collaborator is a
// first-class non-fatal outcome, reported as nil.
package registry

import (
	"sync"

	"github.com/agenticmentor/mentor/internal/agents"
)

// Constructor builds one collaborator. It runs at most once per id.
type Constructor func() (agents.Agent, error)

// Registry holds the id-to-constructor map and the cache of built
// collaborators. It is safe for concurrent use; each id has its own
// initialization guard so a slow constructor never blocks other lookups.
type Registry struct {
	mu           sync.Mutex
	constructors map[string]Constructor
	inits        map[string]*sync.Once
	cache        map[string]agents.Agent
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		constructors: make(map[string]Constructor),
		inits:        make(map[string]*sync.Once),
		cache:        make(map[string]agents.Agent),
	}
}

// Register declares a constructor for an id. Later registrations replace
// earlier ones only if the id has not been built yet.
func (r *Registry) Register(id string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, built := r.cache[id]; built {
		return
	}
	r.constructors[id] = ctor
	delete(r.inits, id)
}

// Get returns the collaborator for id, building it on first use.
// Returns nil for unknown ids and for constructors that failed; both are
// "skipped" outcomes, not errors.
func (r *Registry) Get(id string) agents.Agent {
	r.mu.Lock()
	if a, ok := r.cache[id]; ok {
		r.mu.Unlock()
		return a
	}
	ctor, declared := r.constructors[id]
	if !declared {
		r.mu.Unlock()
		return nil
	}
	once := r.inits[id]
	if once == nil {
		once = new(sync.Once)
		r.inits[id] = once
	}
	r.mu.Unlock()

	once.Do(func() {
		a, err := ctor()
		if err != nil || a == nil {
			return
		}
		r.mu.Lock()
		r.cache[id] = a
		r.mu.Unlock()
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache[id]
}

// Known returns true if a constructor is declared for id.
func (r *Registry) Known(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.constructors[id]
	return ok
}

// Default wires the built-in collaborators. llm may be nil; collaborators
// then run in their deterministic built-in mode.
func Default(llm agents.Completer) *Registry {
	r := New()
	builtins := []agents.Agent{
		agents.NewRequirementsCollector(llm),
		agents.NewProjectArchitect(llm),
		agents.NewExecutionPlannerAgent(llm),
		agents.NewMockupAgent(llm),
		agents.NewExporter(),
	}
	for _, a := range builtins {
		a := a
		r.Register(a.ID(), func() (agents.Agent, error) { return a, nil })
	}
	return r
}
