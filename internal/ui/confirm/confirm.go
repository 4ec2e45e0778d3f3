// Package confirm provides a yes/no confirmation dialog.
package confirm

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mocbot/sounddash/internal/ui/styles"
)

// ConfirmMsg is sent when the user accepts.
type ConfirmMsg struct{}

// CancelMsg is sent when the user declines or dismisses the dialog.
type CancelMsg struct{}

// Model holds the dialog state.
type Model struct {
	title          string
	message        string
	yesSelected    bool
	viewportWidth  int
	viewportHeight int
}

// New creates a dialog with the cancel choice preselected.
func New(title, message string) Model {
	return Model{title: title, message: message}
}

// SetSize sets the viewport dimensions for centered rendering.
func (m Model) SetSize(width, height int) Model {
	m.viewportWidth = width
	m.viewportHeight = height
	return m
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "right", "h", "l", "tab":
			m.yesSelected = !m.yesSelected
		case "y":
			return m, func() tea.Msg { return ConfirmMsg{} }
		case "n", "esc":
			return m, func() tea.Msg { return CancelMsg{} }
		case "enter":
			if m.yesSelected {
				return m, func() tea.Msg { return ConfirmMsg{} }
			}
			return m, func() tea.Msg { return CancelMsg{} }
		}
	}
	return m, nil
}

// View renders the dialog box (without positioning).
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.WarningColor)

	buttonStyle := lipgloss.NewStyle().Padding(0, 2)
	selectedStyle := buttonStyle.
		Bold(true).
		Foreground(styles.TextPrimaryColor).
		Background(styles.AccentColor)

	yes, no := buttonStyle.Render("Yes"), selectedStyle.Render("No")
	if m.yesSelected {
		yes, no = selectedStyle.Render("Yes"), buttonStyle.Render("No")
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, yes, "  ", no)

	content := strings.Join([]string{
		titleStyle.Render(m.title),
		"",
		m.message,
		"",
		buttons,
	}, "\n")

	return styles.ModalBorder.Render(content)
}

// Overlay centers the dialog within the viewport.
func (m Model) Overlay() string {
	return lipgloss.Place(
		m.viewportWidth, m.viewportHeight,
		lipgloss.Center, lipgloss.Center,
		m.View(),
	)
}
