// Package dashboard implements the main join sound dashboard view.
package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/mocbot/sounddash/internal/api"
	"github.com/mocbot/sounddash/internal/config"
	"github.com/mocbot/sounddash/internal/log"
	"github.com/mocbot/sounddash/internal/player"
	"github.com/mocbot/sounddash/internal/sounds"
	"github.com/mocbot/sounddash/internal/ui/confirm"
	"github.com/mocbot/sounddash/internal/ui/help"
	"github.com/mocbot/sounddash/internal/ui/styles"
	"github.com/mocbot/sounddash/internal/ui/toasts"
)

// viewMode selects which surface owns keyboard input.
type viewMode int

const (
	viewList viewMode = iota
	viewConfirmDelete
	viewFilePicker
	viewHelp
)

// Model is the root bubbletea model.
type Model struct {
	manager *sounds.Manager
	player  *player.Controller
	queue   *toasts.Queue

	cfg   *config.Config
	keys  keyMap
	zones *zone.Manager

	toastView toasts.Model
	spin      spinner.Model
	picker    filepicker.Model
	confirm   confirm.Model
	helpView  help.Model

	mode            viewMode
	cursor          int
	pendingDeleteID string
	loading         bool
	width           int
	height          int

	maxFileSize int64
	maxSounds   int
}

// New creates the dashboard model.
func New(manager *sounds.Manager, playerCtl *player.Controller, queue *toasts.Queue, cfg *config.Config) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.AccentColor)

	fp := filepicker.New()
	fp.AllowedTypes = []string{".mp3", ".wav"}
	fp.ShowHidden = false

	return Model{
		manager:     manager,
		player:      playerCtl,
		queue:       queue,
		cfg:         cfg,
		keys:        defaultKeyMap(),
		zones:       zone.New(),
		toastView:   toasts.NewModel(queue, cfg.UI.ToastDuration),
		spin:        sp,
		picker:      fp,
		helpView:    help.New(cfg.Theme.Mode, 80),
		loading:     true,
		maxFileSize: cfg.Upload.MaxFileSize,
		maxSounds:   cfg.Upload.MaxSounds,
	}
}

// Init starts the initial load, the tick loop and the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadAllCmd(), tick(), m.spin.Tick)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.picker.Height = msg.Height - 6
		m.helpView = help.New(m.cfg.Theme.Mode, msg.Width).SetSize(msg.Width, msg.Height)
		m.confirm = m.confirm.SetSize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		m.toastView = m.toastView.Update(time.Time(msg))
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case dataLoadedMsg:
		m.loading = false
		m.clampCursor()
		return m, nil

	case settingsChangedMsg, uploadedMsg, deletedMsg, playToggledMsg:
		m.clampCursor()
		return m, nil

	case configReloadedMsg:
		m.cfg = msg.cfg
		m.maxFileSize = msg.cfg.Upload.MaxFileSize
		m.maxSounds = msg.cfg.Upload.MaxSounds
		m.toastView = toasts.NewModel(m.queue, msg.cfg.UI.ToastDuration)
		styles.ApplyThemeMode(msg.cfg.Theme.Mode)
		log.Info(log.CatConfig, "configuration reloaded")
		return m, nil

	case confirm.ConfirmMsg:
		id := m.pendingDeleteID
		m.pendingDeleteID = ""
		m.mode = viewList
		return m, m.deleteCmd(id)

	case confirm.CancelMsg:
		m.pendingDeleteID = ""
		m.mode = viewList
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.mode == viewFilePicker {
		return m.updateFilePicker(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) && m.mode == viewList {
		m.player.Stop()
		return m, tea.Quit
	}

	switch m.mode {
	case viewConfirmDelete:
		var cmd tea.Cmd
		m.confirm, cmd = m.confirm.Update(msg)
		return m, cmd

	case viewFilePicker:
		if msg.String() == "esc" {
			m.mode = viewList
			return m, nil
		}
		return m.updateFilePicker(msg)

	case viewHelp:
		m.mode = viewList
		return m, nil
	}

	list := m.manager.Sounds()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(list)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.SetActive):
		if s, ok := m.selectedSound(); ok {
			return m, m.setActiveCmd(s.ID)
		}

	case key.Matches(msg, m.keys.Play):
		if s, ok := m.selectedSound(); ok {
			return m, m.togglePlayCmd(s.ID)
		}

	case key.Matches(msg, m.keys.Delete):
		if s, ok := m.selectedSound(); ok {
			m.pendingDeleteID = s.ID
			m.confirm = confirm.New(
				"Delete sound?",
				s.Name+" will be removed for good.",
			).SetSize(m.width, m.height)
			m.mode = viewConfirmDelete
		}

	case key.Matches(msg, m.keys.Upload):
		m.mode = viewFilePicker
		return m, m.picker.Init()

	case key.Matches(msg, m.keys.Mode):
		next := api.ModeRandom
		if m.manager.Settings().Mode == api.ModeRandom {
			next = api.ModeSingle
		}
		return m, m.changeModeCmd(next)

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.loadAllCmd()

	case key.Matches(msg, m.keys.Help):
		m.mode = viewHelp
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.cfg.UI.MouseEnabled || m.mode != viewList {
		return m, nil
	}
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	for i, s := range m.manager.Sounds() {
		if m.zones.Get(soundZoneID(s.ID)).InBounds(msg) {
			m.cursor = i
			return m, m.togglePlayCmd(s.ID)
		}
	}
	return m, nil
}

func (m Model) updateFilePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.mode = viewList
		return m, tea.Batch(cmd, m.uploadFileCmd(path))
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.queue.Warning("Failed to upload "+path, "only .mp3 and .wav files are supported")
	}
	return m, cmd
}

func (m *Model) clampCursor() {
	if n := len(m.manager.Sounds()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selectedSound() (sounds.Sound, bool) {
	list := m.manager.Sounds()
	if m.cursor < 0 || m.cursor >= len(list) {
		return sounds.Sound{}, false
	}
	return list[m.cursor], true
}

func soundZoneID(id string) string {
	return "sound:" + id
}
