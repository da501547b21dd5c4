// Package styles defines the visual styling for the status line.
package styles

import "github.com/charmbracelet/lipgloss"

// Color definitions for the GLM theme.
var (
	// Primary colors
	Primary   = lipgloss.Color("39")  // Blue
	Secondary = lipgloss.Color("141") // Lavender
	Subtle    = lipgloss.Color("240") // Gray

	// Status colors
	Success = lipgloss.Color("42")  // Green
	Warning = lipgloss.Color("220") // Yellow
	Error   = lipgloss.Color("196") // Red

	// Text colors
	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")
)

// Usage thresholds for bar colouring.
const (
	WarningPercent  = 50
	CriticalPercent = 80
)

// ModelStyle renders the model name.
var ModelStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary)

// DirStyle renders the working directory.
var DirStyle = lipgloss.NewStyle().
	Foreground(TextPrimary)

// BranchStyle renders the git branch.
var BranchStyle = lipgloss.NewStyle().
	Foreground(Secondary)

// LabelStyle renders the Token / MCP labels.
var LabelStyle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// ResetStyle renders the quota reset time.
var ResetStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// CostStyle renders the cost of the usage window.
var CostStyle = lipgloss.NewStyle().
	Foreground(Warning)

// SeparatorStyle renders the segment separator.
var SeparatorStyle = lipgloss.NewStyle().
	Foreground(Subtle)

// EmptyBarStyle renders the unfilled cells of a usage bar.
var EmptyBarStyle = lipgloss.NewStyle().
	Foreground(Subtle)

// HintStyle is used for the setup hint.
var HintStyle = lipgloss.NewStyle().
	Foreground(Warning).
	Italic(true)

// MutedStyle is used for placeholders.
var MutedStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// TitleStyle is used for headings in watch and history output.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// HelpStyle is the base style for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// HelpKeyStyle styles keyboard shortcut keys.
var HelpKeyStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true)

// UsageLowStyle for usage below WarningPercent.
var UsageLowStyle = lipgloss.NewStyle().
	Foreground(Success)

// UsageMediumStyle for usage below CriticalPercent.
var UsageMediumStyle = lipgloss.NewStyle().
	Foreground(Warning)

// UsageHighStyle for usage at or above CriticalPercent.
var UsageHighStyle = lipgloss.NewStyle().
	Foreground(Error)

// GetUsageStyle returns the appropriate style based on a usage percentage.
func GetUsageStyle(percent int) lipgloss.Style {
	switch {
	case percent < WarningPercent:
		return UsageLowStyle
	case percent < CriticalPercent:
		return UsageMediumStyle
	default:
		return UsageHighStyle
	}
}

// GetUsageColor returns the foreground colour used by GetUsageStyle.
func GetUsageColor(percent int) lipgloss.Color {
	switch {
	case percent < WarningPercent:
		return Success
	case percent < CriticalPercent:
		return Warning
	default:
		return Error
	}
}
