package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorMuted     = lipgloss.Color("#6c757d")
	colorKept      = lipgloss.Color("#2ecc71")
	colorDiscarded = lipgloss.Color("#d16d7a")
	colorHighlight = lipgloss.Color("#f39c12")
	colorAccent    = lipgloss.Color("#5f9fb0")

	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	filterStyle       = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
	filterActiveStyle = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	mutedStyle        = lipgloss.NewStyle().Foreground(colorMuted)
	savingStyle       = lipgloss.NewStyle().Foreground(colorHighlight).Italic(true)
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(colorDiscarded).Padding(0, 1)
	bulkStyle         = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
	cardCursorStyle = cardStyle.BorderForeground(colorAccent)
	cardCheckedMark = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	badgeKeptStyle      = lipgloss.NewStyle().Foreground(colorKept)
	badgeDiscardedStyle = lipgloss.NewStyle().Foreground(colorDiscarded)
	badgeHighlightStyle = lipgloss.NewStyle().Foreground(colorHighlight)

	lightboxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)
)
