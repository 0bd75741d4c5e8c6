// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main theme color (midnight indigo).
	PrimaryColor = lipgloss.Color("#7B68EE")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#FF6B6B")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SubtleColor).
			Padding(0, 1)
)

// FormatTitle renders a section title.
func FormatTitle(text string) string {
	return TitleStyle.Render(text)
}

// FormatSuccess renders a success message.
func FormatSuccess(text string) string {
	return SuccessStyle.Render("✓ " + text)
}

// FormatWarning renders a warning message.
func FormatWarning(text string) string {
	return WarningStyle.Render("⚠ " + text)
}

// FormatError renders an error message.
func FormatError(text string) string {
	return ErrorStyle.Render("✗ " + text)
}

// FormatSubtle renders de-emphasized text.
func FormatSubtle(text string) string {
	return SubtleStyle.Render(text)
}

// RenderBox renders titled content inside a rounded border.
func RenderBox(title, content string) string {
	var b strings.Builder
	if title != "" {
		b.WriteString(FormatTitle(title))
		b.WriteString("\n")
	}
	b.WriteString(BoxStyle.Render(content))
	return b.String()
}

// RenderList renders items as a bulleted list.
func RenderList(items []string) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("  • ")
		b.WriteString(item)
	}
	return b.String()
}
