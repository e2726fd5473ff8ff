// Package styles provides shared lipgloss styles for UI components.
//
// This package centralizes color definitions so the confirm prompt, the
// worktree picker and the list table share one palette. Init swaps the
// palette for a configured theme.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Colors of the active theme
var (
	// Primary is the main accent color (cyan/teal)
	Primary color.Color = lipgloss.Color("62")

	// Accent is the highlight color for selected/active items (pink)
	Accent color.Color = lipgloss.Color("212")

	// Success is used for checkmarks and positive outcomes (green)
	Success color.Color = lipgloss.Color("82")

	// Error is used for error messages (red)
	Error color.Color = lipgloss.Color("196")

	// Muted is used for disabled/inactive text (gray)
	Muted color.Color = lipgloss.Color("240")

	// Normal is the standard text color (light gray)
	Normal color.Color = lipgloss.Color("252")

	// Info is used for informational text (gray)
	Info color.Color = lipgloss.Color("244")

	// Warning marks prunable worktrees (orange)
	Warning color.Color = lipgloss.Color("214")
)

// Common styles
var (
	Bold = lipgloss.NewStyle().Bold(true)

	PrimaryStyle = lipgloss.NewStyle().Foreground(Primary)

	// AccentStyle applies the accent color with bold
	AccentStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)
	NormalStyle  = lipgloss.NewStyle().Foreground(Normal)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)

	// InfoStyle applies the info color with italic
	InfoStyle = lipgloss.NewStyle().
			Foreground(Info).
			Italic(true)

	// HighlightStyle marks fuzzy-matched characters (pink, bold, underline)
	HighlightStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true).
			Underline(true)
)
