package lipgloss

import "github.com/charmbracelet/lipgloss"

var (
	Red     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
	Yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffd75f"))
	BlueSky = lipgloss.NewStyle().Foreground(lipgloss.Color("#5fafff"))
	Gray    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8a8a"))
	Info    = lipgloss.NewStyle().Foreground(lipgloss.Color("#87d7ff")).Bold(true)

	// FilePath highlights the location prefix of a diagnostic.
	FilePath = lipgloss.NewStyle().Foreground(lipgloss.Color("#5fd7d7")).Underline(true)
)
