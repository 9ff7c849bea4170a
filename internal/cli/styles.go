package cli

import "github.com/charmbracelet/lipgloss"

var (
	// Title styling
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	// Active profile marker
	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	// Muted details (paths, counts)
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	// Error styling
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87"))
)
