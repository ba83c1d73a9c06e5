// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Centralized styling for all CLI commands in onnxbench.
//
// All command handlers should use these shared styles instead of defining
// their own. Colors are automatically disabled for non-TTY output and when
// NO_COLOR is set.
package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// init configures lipgloss color profile based on terminal capabilities.
// The configured preference is applied later via SetColorEnabled, once the
// config file has been loaded.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// SetColorEnabled applies the loaded output.color preference and refreshes
// the lipgloss profile. A false value disables colors outright; true keeps
// the NO_COLOR/FORCE_COLOR/TTY detection from ColorsEnabled.
func SetColorEnabled(enabled bool) {
	if !enabled {
		ForceColorsEnabled(false)
	}
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES FOR ALL CLI COMMANDS
// =============================================================================

var (
	// TitleStyle is used for command titles and headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")). // Cyan
			MarginBottom(1)

	// SectionStyle is used for section headers within commands
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")). // White
			MarginTop(1)

	// LabelStyle is used for field labels (left-aligned prompts)
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")). // Light gray
			Width(16)

	// ValueStyle is used for regular values and text
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")) // Off-white

	// SuccessStyle is used for success messages and OK statuses
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")). // Green
			Bold(true)

	// ErrorStyle is used for error messages and failures
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	// WarningStyle is used for warnings and cautions
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Yellow/Orange

	// DimStyle is used for secondary information and hints
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")) // Dim gray

	// SeparatorStyle is used for visual separators
	SeparatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // Dark gray

	// HighlightStyle is used for highlighted values (latency numbers etc.)
	HighlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")) // Bright green
)

// =============================================================================
// RENDER HELPERS
// =============================================================================

// maxSeparatorWidth caps the title separator so wide terminals don't get a
// full-width rule.
const maxSeparatorWidth = 60

// RenderTitle renders a command title with a separator line sized to the
// terminal.
func RenderTitle(title string) string {
	width := GetTerminalWidth()
	if width > maxSeparatorWidth {
		width = maxSeparatorWidth
	}
	return TitleStyle.Render(title) + "\n" + SeparatorStyle.Render(strings.Repeat("=", width))
}

// RenderKV renders a single "Label  value" line.
func RenderKV(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}

// RenderStatus renders an up/down style status value.
func RenderStatus(ok bool, okText, failText string) string {
	if ok {
		return SuccessStyle.Render(okText)
	}
	return ErrorStyle.Render(failText)
}
