// Package ui holds the terminal styles and the keypad, candidate and mouth
// renderings shared by the terminal front end.
package ui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the terminal UI.
var (
	ColorRed     = lipgloss.Color("#FF0000")
	ColorGreen   = lipgloss.Color("#00FF00")
	ColorYellow  = lipgloss.Color("#FFFF00")
	ColorCyan    = lipgloss.Color("#00FFFF")
	ColorGray    = lipgloss.Color("#666666")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#FFFFFF")
)

// Base styles reused by UI components.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	CellStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDimGray).
			Foreground(ColorWhite).
			Width(8).
			Align(lipgloss.Center)

	ActiveCellStyle = CellStyle.
			BorderForeground(ColorCyan).
			Foreground(ColorCyan).
			Bold(true)

	SpellingStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	CommittedStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	MouthOpenStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	MouthClosedStyle = lipgloss.NewStyle().
				Foreground(ColorGreen)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)
)
