package planner

import (
	"errors"
	"fmt"

	"github.com/agenticmentor/mentor/internal/capability"
	"github.com/agenticmentor/mentor/pkg/models"
)

// ErrDependencyCycle indicates upstream resolution revisited a collaborator
// already on the current resolution path. The turn is rejected before any
// collaborator runs.
var ErrDependencyCycle = errors.New("dependency cycle detected")

// Planner turns an intent (or a manual selection) plus the current record
// into an ordered execution plan.
type Planner struct {
	caps *capability.Store
}

// New creates a planner over the given capability store.
func New(caps *capability.Store) *Planner {
	return &Planner{caps: caps}
}

// Plan resolves the collaborators to run this turn.
//
// Auto mode seeds from the classified intent (falling back to the declared
// full pipeline when the intent is unknown), resolves missing upstream
// dependencies depth-first, then expands downstream consumers of artifacts
// produced this turn. Manual mode runs upstream resolution only: the
// user's selection is authoritative and is never silently expanded.
func (p *Planner) Plan(mode models.SelectionMode, intent models.IntentResult, record *models.ProjectRecord) (*ExecutionPlan, error) {
	seed := intent.RequiresAgents

	if mode == models.SelectionManual {
		if len(seed) == 0 {
			return &ExecutionPlan{AwaitingSelection: true}, nil
		}
	} else if len(seed) == 0 {
		seed = p.phaseCompatible(capability.FullPipeline, record.Phase)
	}

	scheduled, err := p.resolveUpstream(seed, record)
	if err != nil {
		return nil, err
	}

	if mode == models.SelectionAuto {
		scheduled = p.resolveDownstream(scheduled, record)
	}

	plan := &ExecutionPlan{}
	for _, id := range scheduled {
		req := capability.Require()
		if entry := p.caps.Get(id); entry != nil {
			req = entry.Requires
		}
		plan.Tasks = append(plan.Tasks, Task{AgentID: id, RequiredContext: req})
	}
	return plan, nil
}

// resolveUpstream walks the seed in order and inserts producers of missing
// required artifacts immediately before their consumers, depth-first.
// A visited set prevents duplicate scheduling; a path set detects cycles.
func (p *Planner) resolveUpstream(seed []string, record *models.ProjectRecord) ([]string, error) {
	var scheduled []string
	visited := make(map[string]bool)
	onPath := make(map[string]bool)

	var visit func(id string) error
	visit = func(id string) error {
		if visited[id] {
			return nil
		}
		if onPath[id] {
			return fmt.Errorf("%w: via %q", ErrDependencyCycle, id)
		}
		onPath[id] = true
		defer delete(onPath, id)

		entry := p.caps.Get(id)
		if entry != nil && !entry.Requires.All() {
			for _, artifact := range entry.Requires.Names() {
				if record.HasArtifact(artifact) {
					continue
				}
				if producesAny(p.caps, scheduled, artifact) {
					continue
				}
				for _, producer := range p.caps.ProducersOf(artifact) {
					if producer.ID == id {
						continue
					}
					if err := visit(producer.ID); err != nil {
						return err
					}
					// First declared producer wins.
					break
				}
			}
		}

		visited[id] = true
		scheduled = append(scheduled, id)
		return nil
	}

	for _, id := range seed {
		if err := visit(id); err != nil {
			return nil, err
		}
	}
	return scheduled, nil
}

// resolveDownstream appends phase-compatible consumers of artifacts produced
// this turn until a pass adds nothing. The loop is bounded by the number of
// declared collaborators. All-requirers are never auto-appended.
func (p *Planner) resolveDownstream(scheduled []string, record *models.ProjectRecord) []string {
	inPlan := make(map[string]bool, len(scheduled))
	produced := make(map[string]bool)
	for _, id := range scheduled {
		inPlan[id] = true
		entry := p.caps.Get(id)
		if entry == nil || entry.Requires.All() {
			continue
		}
		for _, artifact := range entry.Produces {
			produced[artifact] = true
		}
	}

	for pass := 0; pass < p.caps.Len(); pass++ {
		added := false
		for _, entry := range p.caps.Entries() {
			if inPlan[entry.ID] || entry.Requires.All() {
				continue
			}
			if !entry.Phases.Allows(record.Phase) {
				continue
			}
			if !intersects(entry.Requires, produced) {
				continue
			}
			scheduled = append(scheduled, entry.ID)
			inPlan[entry.ID] = true
			for _, artifact := range entry.Produces {
				produced[artifact] = true
			}
			added = true
		}
		if !added {
			break
		}
	}
	return scheduled
}

// AvailableAgents returns the collaborators eligible to run against the
// record right now: phase-compatible, with every specifically required
// artifact present and non-empty. Order follows the capability table.
func (p *Planner) AvailableAgents(record *models.ProjectRecord) []models.AvailableAgent {
	var out []models.AvailableAgent
	for _, entry := range p.caps.Entries() {
		if !entry.Phases.Allows(record.Phase) {
			continue
		}
		if !requirementMet(entry.Requires, record) {
			continue
		}
		out = append(out, models.AvailableAgent{
			ID:          entry.ID,
			Name:        entry.Name,
			Description: entry.Description,
		})
	}
	return out
}

// phaseCompatible filters ids to those whose entry allows the phase.
func (p *Planner) phaseCompatible(ids []string, phase models.Phase) []string {
	var out []string
	for _, id := range ids {
		entry := p.caps.Get(id)
		if entry != nil && entry.Phases.Allows(phase) {
			out = append(out, id)
		}
	}
	return out
}

func requirementMet(req capability.Requirement, record *models.ProjectRecord) bool {
	if req.All() {
		return true
	}
	for _, artifact := range req.Names() {
		if !record.HasArtifact(artifact) {
			return false
		}
	}
	return true
}

func intersects(req capability.Requirement, produced map[string]bool) bool {
	for _, artifact := range req.Names() {
		if produced[artifact] {
			return true
		}
	}
	return false
}

// producesAny reports whether any already-scheduled collaborator produces
// the artifact.
func producesAny(caps *capability.Store, scheduled []string, artifact string) bool {
	for _, id := range scheduled {
		if entry := caps.Get(id); entry != nil && entry.ProducesArtifact(artifact) {
			return true
		}
	}
	return false
}
