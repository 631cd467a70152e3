package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/agenticmentor/mentor/internal/capability"
	"github.com/agenticmentor/mentor/pkg/models"
)

// Exporter bundles every artifact in the record into a single Markdown
// document. It is the one All-requirer in the capability table.
type Exporter struct {
	now func() time.Time
}

// NewExporter creates the exporter.
func NewExporter() *Exporter {
	return &Exporter{now: time.Now}
}

func (a *Exporter) ID() string   { return capability.AgentExporter }
func (a *Exporter) Name() string { return "Exporter" }

// frontMatter is the YAML header on the exported document.
type frontMatter struct {
	Project   string   `yaml:"project"`
	Session   string   `yaml:"session"`
	Phase     string   `yaml:"phase"`
	Generated string   `yaml:"generated"`
	Sections  []string `yaml:"sections"`
}

// Process renders the export artifact from the full record.
func (a *Exporter) Process(ctx context.Context, in Input) (Output, error) {
	record := in.Record
	if record == nil {
		return Output{Content: "Nothing to export yet."}, nil
	}

	var sections []string
	var body strings.Builder

	if reqs, ok := decodeReqs(in); ok {
		sections = append(sections, models.ArtifactRequirements)
		body.WriteString("## Requirements\n\n")
		writeList(&body, "Functional", reqs.Functional)
		writeList(&body, "Non-functional", reqs.NonFunctional)
		writeList(&body, "Constraints", reqs.Constraints)
	}
	var arch models.Architecture
	if ok, _ := decodeArtifact(in, models.ArtifactArchitecture, &arch); ok {
		sections = append(sections, models.ArtifactArchitecture)
		body.WriteString("## Architecture\n\n### Tech stack\n\n")
		for layer, choice := range arch.TechStack {
			fmt.Fprintf(&body, "- **%s**: %s\n", layer, choice)
		}
		if arch.SystemDiagram != "" {
			fmt.Fprintf(&body, "\n### System diagram\n\n```mermaid\n%s\n```\n", arch.SystemDiagram)
		}
		if arch.DataSchema != "" {
			fmt.Fprintf(&body, "\n### Data schema\n\n```mermaid\n%s\n```\n", arch.DataSchema)
		}
		if len(arch.APIDesign) > 0 {
			body.WriteString("\n### API\n\n")
			for _, ep := range arch.APIDesign {
				fmt.Fprintf(&body, "- `%s %s` — %s\n", ep.Method, ep.Path, ep.Description)
			}
		}
		body.WriteString("\n")
	}
	var roadmap models.Roadmap
	if ok, _ := decodeArtifact(in, models.ArtifactRoadmap, &roadmap); ok {
		sections = append(sections, models.ArtifactRoadmap)
		body.WriteString("## Roadmap\n\n")
		for _, m := range roadmap.Milestones {
			fmt.Fprintf(&body, "- **%s** — %s\n", m.Name, m.Description)
		}
		body.WriteString("\n")
	}
	var mockups []models.Mockup
	if ok, _ := decodeArtifact(in, models.ArtifactMockups, &mockups); ok && len(mockups) > 0 {
		sections = append(sections, models.ArtifactMockups)
		body.WriteString("## Mockups\n\n")
		for _, m := range mockups {
			fmt.Fprintf(&body, "### %s\n\n```\n%s\n```\n\n", m.ScreenName, m.WireframeCode)
		}
	}

	if len(sections) == 0 {
		return Output{Content: "Nothing to export yet. Gather some requirements first."}, nil
	}

	header, err := yaml.Marshal(frontMatter{
		Project:   record.ProjectName,
		Session:   record.SessionID,
		Phase:     string(record.Phase),
		Generated: a.now().UTC().Format(time.RFC3339),
		Sections:  sections,
	})
	if err != nil {
		return Output{}, fmt.Errorf("render front matter: %w", err)
	}

	doc := fmt.Sprintf("---\n%s---\n\n# Project Plan\n\n%s", header, body.String())
	bundle := models.ExportBundle{Format: "markdown", Document: doc, Sections: sections}

	delta, err := marshalDelta(models.ArtifactExport, bundle)
	if err != nil {
		return Output{}, err
	}
	return Output{
		StateDelta: delta,
		Content:    fmt.Sprintf("Exported %d section(s) to a Markdown bundle.", len(sections)),
	}, nil
}

func decodeReqs(in Input) (models.Requirements, bool) {
	var reqs models.Requirements
	ok, err := decodeArtifact(in, models.ArtifactRequirements, &reqs)
	if err != nil || !ok {
		return models.Requirements{}, false
	}
	if len(reqs.Functional) == 0 && len(reqs.NonFunctional) == 0 && len(reqs.Constraints) == 0 {
		return models.Requirements{}, false
	}
	return reqs, true
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
