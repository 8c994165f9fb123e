package ui

import "github.com/charmbracelet/lipgloss"

// The palette stays deliberately muted; the body is the product, the
// chrome whispers.
var (
	styleBody = lipgloss.NewStyle()

	styleCursor = lipgloss.NewStyle().Reverse(true)

	styleMatch = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("11"))

	styleCurrentMatch = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("3"))

	styleStatus = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	styleStatusMode = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	styleSaved = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	styleMessage = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	styleOverlay = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(1, 2)

	styleOverlayTitle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("12")).
				Bold(true)

	styleSelected = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("12"))

	styleDiffInsert = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	styleDiffDelete = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	styleDiffEqual = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)
