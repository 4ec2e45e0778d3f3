package dashboard

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mocbot/sounddash/internal/api"
	"github.com/mocbot/sounddash/internal/config"
	"github.com/mocbot/sounddash/internal/sounds"
)

// tickMsg drives toast expiry and the playback indicator.
type tickMsg time.Time

// dataLoadedMsg signals that a full reload finished. Failures have already
// been reported through the toast queue.
type dataLoadedMsg struct{}

// settingsChangedMsg signals that a set-active or mode change finished.
type settingsChangedMsg struct{}

// uploadedMsg signals that an upload batch finished.
type uploadedMsg struct{}

// deletedMsg signals that a delete (and the follow-up reload) finished.
type deletedMsg struct{}

// playToggledMsg signals that a play/pause request finished.
type playToggledMsg struct{}

// configReloadedMsg carries a hot-reloaded configuration.
type configReloadedMsg struct {
	cfg *config.Config
}

// ConfigReloaded wraps a new configuration for delivery via Program.Send.
func ConfigReloaded(cfg *config.Config) tea.Msg {
	return configReloadedMsg{cfg: cfg}
}

const tickInterval = 250 * time.Millisecond

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) loadAllCmd() tea.Cmd {
	return func() tea.Msg {
		_ = m.manager.LoadAll(context.Background())
		return dataLoadedMsg{}
	}
}

func (m Model) setActiveCmd(soundID string) tea.Cmd {
	return func() tea.Msg {
		_ = m.manager.SetActive(context.Background(), soundID)
		return settingsChangedMsg{}
	}
}

func (m Model) changeModeCmd(mode api.Mode) tea.Cmd {
	return func() tea.Msg {
		_ = m.manager.ChangeMode(context.Background(), mode)
		return settingsChangedMsg{}
	}
}

func (m Model) deleteCmd(soundID string) tea.Cmd {
	return func() tea.Msg {
		_ = m.manager.Delete(context.Background(), soundID)
		return deletedMsg{}
	}
}

func (m Model) togglePlayCmd(soundID string) tea.Cmd {
	return func() tea.Msg {
		_ = m.player.TogglePlayPause(context.Background(), soundID)
		return playToggledMsg{}
	}
}

// uploadFileCmd reads a local file and submits it. Validation failures are
// reported through the toast queue before any request is made.
func (m Model) uploadFileCmd(path string) tea.Cmd {
	queue := m.queue
	manager := m.manager
	maxFileSize := m.maxFileSize
	maxSounds := m.maxSounds
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			queue.Error("Failed to upload "+filepath.Base(path), err.Error())
			return uploadedMsg{}
		}

		contentType := mime.TypeByExtension(filepath.Ext(path))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		files := []api.UploadFile{{
			Name:        filepath.Base(path),
			ContentType: contentType,
			Data:        data,
		}}

		accepted, rejected := sounds.ValidateUpload(files, maxFileSize, maxSounds, len(manager.Sounds()))
		for _, r := range rejected {
			queue.Warning("Failed to upload "+r.Name, r.Reason)
		}
		if len(accepted) > 0 {
			_, _ = manager.Upload(context.Background(), accepted)
		}
		return uploadedMsg{}
	}
}
