package models

// Artifact names used as keys in ProjectRecord.Artifacts.
const (
	ArtifactRequirements = "requirements"
	ArtifactArchitecture = "architecture"
	ArtifactMockups      = "mockups"
	ArtifactRoadmap      = "roadmap"
	ArtifactExport       = "export"
)

// UserStory is a single captured user story.
type UserStory struct {
	// AsA is the acting role.
	AsA string `json:"as_a"`
	// IWant is the desired capability.
	IWant string `json:"i_want"`
	// SoThat is the motivation.
	SoThat string `json:"so_that,omitempty"`
}

// Requirements is the artifact produced by the requirements collector.
type Requirements struct {
	Functional    []string    `json:"functional,omitempty"`
	NonFunctional []string    `json:"non_functional,omitempty"`
	Constraints   []string    `json:"constraints,omitempty"`
	UserStories   []UserStory `json:"user_stories,omitempty"`
	// Gaps lists open questions the collector identified.
	Gaps []string `json:"gaps,omitempty"`
}

// APIEndpoint describes one endpoint in the architecture's API design.
type APIEndpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
}

// Architecture is the artifact produced by the project architect.
type Architecture struct {
	// TechStack maps layer name to chosen technology ("backend": "Go", ...).
	TechStack map[string]string `json:"tech_stack,omitempty"`
	// DataSchema is a Mermaid ER diagram.
	DataSchema string `json:"data_schema,omitempty"`
	// SystemDiagram is a Mermaid architecture diagram.
	SystemDiagram string        `json:"system_diagram,omitempty"`
	APIDesign     []APIEndpoint `json:"api_design,omitempty"`
	// DeploymentStrategy describes how the system ships.
	DeploymentStrategy string `json:"deployment_strategy,omitempty"`
}

// Mockup is one screen wireframe in the mockups artifact.
type Mockup struct {
	ScreenName string `json:"screen_name"`
	// WireframeCode is ASCII or SVG wireframe content.
	WireframeCode string `json:"wireframe_code"`
	// UserFlow is a Mermaid flowchart.
	UserFlow     string   `json:"user_flow,omitempty"`
	Interactions []string `json:"interactions,omitempty"`
}

// Milestone is a roadmap milestone.
type Milestone struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Deliverables []string `json:"deliverables,omitempty"`
}

// Sprint is a roadmap sprint.
type Sprint struct {
	Number int      `json:"number"`
	Goal   string   `json:"goal"`
	Tasks  []string `json:"tasks,omitempty"`
}

// Roadmap is the artifact produced by the execution planner collaborator.
type Roadmap struct {
	Milestones []Milestone `json:"milestones,omitempty"`
	Sprints    []Sprint    `json:"sprints,omitempty"`
	// CriticalPath is a Mermaid Gantt chart.
	CriticalPath string `json:"critical_path,omitempty"`
}

// ExportBundle is the artifact produced by the exporter.
type ExportBundle struct {
	// Format is the bundle format, currently "markdown".
	Format string `json:"format"`
	// Document is the rendered bundle content.
	Document string `json:"document"`
	// Sections lists the artifact names included.
	Sections []string `json:"sections,omitempty"`
}
