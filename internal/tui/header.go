package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Header renders the Mentor logo and title bar.
type Header struct {
	width int
}

// NewHeader creates a new Header.
func NewHeader() *Header {
	return &Header{
		width: 80,
	}
}

// SetWidth sets the header width.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// View renders the header.
func (h *Header) View() string {
	colors := []string{"#4ECDC4", "#45B7D1", "#5A9BD5", "#7B68EE", "#9370DB"}

	logo := []string{
		" ███╗   ███╗███████╗███╗   ██╗████████╗ ██████╗ ██████╗ ",
		" ████╗ ████║██╔════╝████╗  ██║╚══██╔══╝██╔═══██╗██╔══██╗",
		" ██╔████╔██║█████╗  ██╔██╗ ██║   ██║   ██║   ██║██████╔╝",
		" ██║╚██╔╝██║██╔══╝  ██║╚██╗██║   ██║   ██║   ██║██╔══██╗",
		" ██║ ╚═╝ ██║███████╗██║ ╚████║   ██║   ╚██████╔╝██║  ██║",
		" ╚═╝     ╚═╝╚══════╝╚═╝  ╚═══╝   ╚═╝    ╚═════╝ ╚═╝  ╚═╝",
	}

	var styledLines []string
	for i, line := range logo {
		color := colors[i%len(colors)]
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
		styledLines = append(styledLines, style.Render(line))
	}

	logoBlock := lipgloss.JoinVertical(lipgloss.Left, styledLines...)

	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("243")).
		Italic(true).
		Render("Project Planning Collaborators")

	block := lipgloss.JoinVertical(lipgloss.Center, logoBlock, subtitle)

	return lipgloss.NewStyle().
		Width(h.width).
		Align(lipgloss.Center).
		PaddingBottom(1).
		Render(block)
}
