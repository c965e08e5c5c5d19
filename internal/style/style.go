// Package style provides the small set of terminal text styles pit's
// command output uses: status icons and a handful of semantic text colors.
package style

import "github.com/charmbracelet/lipgloss"

var (
	Bold = lipgloss.NewStyle().Bold(true)
	Dim  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#888888", Dark: "#6c6c6c"})

	Success = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"})
	Warning = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#d9a637", Dark: "#e5c07b"})
	Failure = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"})

	DiffAdd    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"})
	DiffRemove = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"})
)

// statusIcons maps each task status to the glyph the status command shows
// beside the task name.
var statusIcons = map[string]string{
	"idle":    "○",
	"running": "●",
	"done":    "✓",
	"error":   "✗",
}

// StatusIcon renders a status as a colored icon, falling back to a dimmed
// "?" for any value outside the four recognized statuses.
func StatusIcon(status string) string {
	icon, ok := statusIcons[status]
	if !ok {
		return Dim.Render("?")
	}
	switch status {
	case "running":
		return Success.Render(icon)
	case "error":
		return Failure.Render(icon)
	case "done":
		return Dim.Render(icon)
	default:
		return icon
	}
}
