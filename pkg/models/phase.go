package models

// Phase represents a coarse stage in the project lifecycle.
// Phases advance monotonically as collaborators complete.
type Phase string

const (
	// PhaseInitialization is the starting phase for every new session.
	PhaseInitialization Phase = "initialization"
	// PhaseDiscovery indicates requirements gathering is underway.
	PhaseDiscovery Phase = "discovery"
	// PhaseRequirementsComplete indicates requirements have been captured.
	PhaseRequirementsComplete Phase = "requirements_complete"
	// PhaseArchitectureComplete indicates the architecture has been designed.
	PhaseArchitectureComplete Phase = "architecture_complete"
	// PhasePlanningComplete indicates the roadmap has been produced.
	PhasePlanningComplete Phase = "planning_complete"
	// PhaseDesignComplete indicates UI mockups have been produced.
	PhaseDesignComplete Phase = "design_complete"
	// PhaseExportable indicates the project record has been exported.
	PhaseExportable Phase = "exportable"
)

// phaseOrder defines the monotonic ordering of phases.
var phaseOrder = []Phase{
	PhaseInitialization,
	PhaseDiscovery,
	PhaseRequirementsComplete,
	PhaseArchitectureComplete,
	PhasePlanningComplete,
	PhaseDesignComplete,
	PhaseExportable,
}

// Valid returns true if the phase is a known value.
func (p Phase) Valid() bool {
	return p.rank() >= 0
}

// rank returns the position of the phase in the lifecycle, or -1 if unknown.
func (p Phase) rank() int {
	for i, candidate := range phaseOrder {
		if candidate == p {
			return i
		}
	}
	return -1
}

// Before returns true if p comes strictly earlier in the lifecycle than other.
// Unknown phases are never before anything.
func (p Phase) Before(other Phase) bool {
	pr, or := p.rank(), other.rank()
	return pr >= 0 && or >= 0 && pr < or
}

// Phases returns all phases in lifecycle order.
func Phases() []Phase {
	out := make([]Phase, len(phaseOrder))
	copy(out, phaseOrder)
	return out
}
