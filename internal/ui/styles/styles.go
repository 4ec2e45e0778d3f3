// Package styles contains Lip Gloss style definitions shared across the
// dashboard views.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color tokens. Adaptive pairs pick the variant for the detected (or
// forced) background.
var (
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#1A1A2E", Dark: "#EAEAEA"}
	TextDescriptionColor = lipgloss.AdaptiveColor{Light: "#4A4A5A", Dark: "#A0A0B0"}
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#8A8A96", Dark: "#6A6A76"}

	AccentColor  = lipgloss.AdaptiveColor{Light: "#3B5BDB", Dark: "#54A0FF"}
	SuccessColor = lipgloss.AdaptiveColor{Light: "#2B8A3E", Dark: "#73F59F"}
	WarningColor = lipgloss.AdaptiveColor{Light: "#E67700", Dark: "#FFD43B"}
	ErrorColor   = lipgloss.AdaptiveColor{Light: "#C92A2A", Dark: "#FF8787"}
	ActiveColor  = lipgloss.AdaptiveColor{Light: "#2B8A3E", Dark: "#73F59F"}
)

// Shared styles.
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimaryColor)

	StatusBar = lipgloss.NewStyle().
			Foreground(TextMutedColor)

	Banner = lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true)

	SelectedRow = lipgloss.NewStyle().
			Foreground(AccentColor).
			Bold(true)

	ActiveMarker = lipgloss.NewStyle().
			Foreground(ActiveColor).
			Bold(true)

	ModalBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(AccentColor).
			Padding(1, 2)
)

// ApplyThemeMode forces light or dark rendering, or restores terminal
// detection when mode is empty.
func ApplyThemeMode(mode string) {
	switch mode {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	default:
		lipgloss.SetHasDarkBackground(termenv.HasDarkBackground())
	}
}

// DarkBackground reports the effective background for renderers that need
// an explicit flag (e.g. the markdown help overlay).
func DarkBackground(mode string) bool {
	switch mode {
	case "dark":
		return true
	case "light":
		return false
	default:
		return termenv.HasDarkBackground()
	}
}
