package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mocbot/sounddash/internal/player"
	"github.com/mocbot/sounddash/internal/ui/styles"
)

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	switch m.mode {
	case viewConfirmDelete:
		return m.zones.Scan(m.confirm.Overlay())
	case viewHelp:
		return m.zones.Scan(m.helpView.Overlay())
	case viewFilePicker:
		return m.zones.Scan(m.filePickerView())
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")

	if banner := m.bannerView(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}

	b.WriteString(m.listView())

	if toastStack := m.toastView.View(m.width); toastStack != "" {
		b.WriteString("\n")
		b.WriteString(toastStack)
	}

	b.WriteString("\n")
	if m.cfg.UI.ShowStatusBar {
		b.WriteString(m.statusBarView())
	}

	return m.zones.Scan(b.String())
}

func (m Model) headerView() string {
	title := styles.Title.Render("Join Sounds")

	mode := string(m.manager.Settings().Mode)
	if mode == "" {
		mode = "unknown"
	}
	modeLabel := lipgloss.NewStyle().
		Foreground(styles.TextDescriptionColor).
		Render("mode: " + mode)

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(modeLabel)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + modeLabel
}

func (m Model) bannerView() string {
	if !m.manager.NeedsActiveSound() {
		return ""
	}
	return styles.Banner.Render("No active join sound. Select one with enter, or the latest upload will be used.")
}

func (m Model) listView() string {
	if m.loading {
		return m.spin.View() + " Loading join sounds..."
	}

	list := m.manager.Sounds()
	if len(list) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			Italic(true)
		return empty.Render("No join sounds yet. Press u to upload one.")
	}

	var rows []string
	for i, s := range list {
		marker := "  "
		if s.Active {
			marker = styles.ActiveMarker.Render("★ ")
		}

		indicator := "  "
		switch {
		case m.player.IsPlaying(s.ID):
			indicator = lipgloss.NewStyle().Foreground(styles.AccentColor).Render("▶ ")
		case m.player.State() == player.StateLoading && i == m.cursor:
			indicator = m.spin.View() + " "
		}

		name := styles.Truncate(s.Name, m.width-8)
		row := marker + indicator + name
		if i == m.cursor {
			row = styles.SelectedRow.Render(row)
		}
		rows = append(rows, m.zones.Mark(soundZoneID(s.ID), row))
	}
	return strings.Join(rows, "\n")
}

func (m Model) statusBarView() string {
	counts := fmt.Sprintf("%d/%d sounds", len(m.manager.Sounds()), m.maxSounds)
	hints := "enter set active · space play · d delete · u upload · m mode · ? help · q quit"

	gap := m.width - lipgloss.Width(counts) - lipgloss.Width(hints)
	if gap < 1 {
		gap = 1
	}
	return styles.StatusBar.Render(counts + strings.Repeat(" ", gap) + hints)
}

func (m Model) filePickerView() string {
	title := styles.Title.Render("Upload a join sound")
	hint := lipgloss.NewStyle().
		Foreground(styles.TextMutedColor).
		Render("enter select · esc cancel · files up to " + styles.FormatFileSize(m.maxFileSize))
	return title + "\n\n" + m.picker.View() + "\n" + hint
}
