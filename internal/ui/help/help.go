// Package help renders the keybinding reference overlay.
package help

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/mocbot/sounddash/internal/ui/styles"
)

const helpMarkdown = `# Keybindings

## Sounds

| Key | Action |
|-----|--------|
| ` + "`↑`/`k`, `↓`/`j`" + ` | Move selection |
| ` + "`enter`" + ` | Set selected sound as active |
| ` + "`space`/`p`" + ` | Play or pause selected sound |
| ` + "`d`" + ` | Delete selected sound |
| ` + "`u`" + ` | Upload sounds |
| ` + "`m`" + ` | Switch playback mode |
| ` + "`r`" + ` | Refresh from server |

## General

| Key | Action |
|-----|--------|
| ` + "`?`" + ` | Toggle this help |
| ` + "`q`/`ctrl+c`" + ` | Quit |
`

// Model holds the rendered help text.
type Model struct {
	rendered       string
	viewportWidth  int
	viewportHeight int
}

// New renders the help markdown for the given theme mode.
func New(themeMode string, width int) Model {
	style := "light"
	if styles.DarkBackground(themeMode) {
		style = "dark"
	}

	wrap := width - 4
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return Model{rendered: helpMarkdown}
	}

	out, err := r.Render(helpMarkdown)
	if err != nil {
		out = helpMarkdown
	}
	return Model{rendered: out}
}

// SetSize sets the viewport dimensions for centered rendering.
func (m Model) SetSize(width, height int) Model {
	m.viewportWidth = width
	m.viewportHeight = height
	return m
}

// View renders the help box.
func (m Model) View() string {
	return styles.ModalBorder.Render(m.rendered)
}

// Overlay centers the help box within the viewport.
func (m Model) Overlay() string {
	return lipgloss.Place(
		m.viewportWidth, m.viewportHeight,
		lipgloss.Center, lipgloss.Center,
		m.View(),
	)
}
