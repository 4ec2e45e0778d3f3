package sounds

import (
	"context"
	"sync"
	"time"

	"github.com/mocbot/sounddash/internal/api"
	"github.com/mocbot/sounddash/internal/log"
)

// DefaultLoadWarnAfter is how long LoadAll waits before surfacing a
// "could not fetch" warning. The warning is advisory: the in-flight fetch
// is not cancelled and its outcome still applies when it arrives.
const DefaultLoadWarnAfter = 10 * time.Second

// Notifier receives user-visible notifications. Every failure in this
// package degrades to a notification; none is fatal.
type Notifier interface {
	Success(title, description string)
	Info(title, description string)
	Warning(title, description string)
	Error(title, description string)
}

// PlaybackInvalidator releases any playback handle referencing a sound that
// is about to be deleted. Must be called before the delete request is
// issued so a handle never outlives its backing resource.
type PlaybackInvalidator interface {
	CleanupDeletedSound(soundID string)
}

// Service is the slice of the API client the manager depends on.
type Service interface {
	ListSounds(ctx context.Context) ([]api.Sound, error)
	GetSettings(ctx context.Context) (api.Settings, error)
	UploadSounds(ctx context.Context, files []api.UploadFile) (*api.UploadResponse, error)
	UpdateSettings(ctx context.Context, patch api.SettingsPatch) error
	DeleteSound(ctx context.Context, soundID string) error
	SoundURL(soundID string) string
}

// Manager owns the client's view of the sound collection and settings.
// It keeps the collection sorted by name, resolves upload name collisions,
// and maintains the single-mode active-sound invariant. Methods are safe
// for concurrent use; mutating operations are expected to be sequential
// (the UI issues one at a time) but nothing breaks if they are not.
type Manager struct {
	svc      Service
	notifier Notifier
	player   PlaybackInvalidator

	// LoadWarnAfter overrides the advisory fetch warning delay. Zero means
	// DefaultLoadWarnAfter.
	LoadWarnAfter time.Duration

	mu             sync.Mutex
	sounds         []Sound
	settings       api.Settings
	loaded         bool
	autoActivating bool
}

// NewManager creates a manager. player may be nil when no playback
// controller is attached (e.g. the non-interactive CLI).
func NewManager(svc Service, notifier Notifier, player PlaybackInvalidator) *Manager {
	return &Manager{
		svc:      svc,
		notifier: notifier,
		player:   player,
	}
}

// LoadAll fetches the sound list and settings in parallel and replaces the
// local state with the joined result. On any failure the previous state is
// kept and a notification is raised. An advisory warning fires if the
// combined fetch has not resolved within LoadWarnAfter.
func (m *Manager) LoadAll(ctx context.Context) error {
	warnAfter := m.LoadWarnAfter
	if warnAfter <= 0 {
		warnAfter = DefaultLoadWarnAfter
	}
	warn := time.AfterFunc(warnAfter, func() {
		m.notifier.Warning("Could not fetch join sounds", "The server is taking a long time to respond")
	})
	defer warn.Stop()

	type listResult struct {
		sounds []api.Sound
		err    error
	}
	type settingsResult struct {
		settings api.Settings
		err      error
	}

	listCh := make(chan listResult, 1)
	settingsCh := make(chan settingsResult, 1)
	go func() {
		s, err := m.svc.ListSounds(ctx)
		listCh <- listResult{sounds: s, err: err}
	}()
	go func() {
		s, err := m.svc.GetSettings(ctx)
		settingsCh <- settingsResult{settings: s, err: err}
	}()

	list := <-listCh
	setting := <-settingsCh
	warn.Stop()

	if list.err != nil || setting.err != nil {
		err := list.err
		if err == nil {
			err = setting.err
		}
		log.ErrorErr(log.CatAPI, "Loading sounds and settings failed", err)
		m.notifier.Error("Failed to load join sounds", err.Error())
		return err
	}

	activeID := activeSoundID(setting.settings)
	collection := make([]Sound, 0, len(list.sounds))
	for _, s := range list.sounds {
		collection = append(collection, soundFromAPI(s, activeID, m.svc.SoundURL(s.ID)))
	}
	sortSounds(collection)

	m.mu.Lock()
	m.sounds = collection
	m.settings = setting.settings
	m.loaded = true
	m.mu.Unlock()

	log.Info(log.CatAPI, "Loaded join sounds", "count", len(collection), "mode", setting.settings.Mode)
	m.autoActivate(ctx)
	return nil
}

// Upload renames colliding files against the collection as it stands now,
// submits them as one batch, reports per-file failures plus a summary, and
// appends the accepted files to the sorted collection. The active sound is
// never changed here; only the auto-activation rule does that.
func (m *Manager) Upload(ctx context.Context, files []api.UploadFile) (*api.UploadResponse, error) {
	if len(files) == 0 {
		return nil, nil
	}

	m.mu.Lock()
	existing := make([]string, len(m.sounds))
	for i, s := range m.sounds {
		existing[i] = s.Name
	}
	m.mu.Unlock()

	// Collision scan is scoped to the collection at call time; two identical
	// incoming names in one batch resolve to the same candidate and the
	// server arbitrates.
	batch := make([]api.UploadFile, len(files))
	for i, f := range files {
		f.Name = UniqueName(f.Name, existing)
		batch[i] = f
	}

	resp, err := m.svc.UploadSounds(ctx, batch)
	if err != nil {
		log.ErrorErr(log.CatAPI, "Upload failed", err, "files", len(batch))
		m.notifier.Error("Failed to upload sounds", err.Error())
		return nil, err
	}

	if resp.Status != api.UploadSuccess {
		for _, f := range resp.FailedFiles {
			m.notifier.Warning("Failed to upload "+f.Filename, f.Error)
		}
		if resp.Message != "" {
			m.notifier.Info(resp.Message, "")
		}
	}

	m.mu.Lock()
	activeID := activeSoundID(m.settings)
	for _, f := range resp.SuccessfulFiles {
		m.sounds = append(m.sounds, soundFromUpload(f, activeID, m.svc.SoundURL(f.ID)))
	}
	sortSounds(m.sounds)
	m.mu.Unlock()

	log.Info(log.CatAPI, "Upload finished", "status", resp.Status, "succeeded", resp.SuccessCount, "failed", resp.FailureCount)
	m.autoActivate(ctx)
	return resp, nil
}

// SetActive designates the sound as active. Confirm-then-apply: local state
// changes only after the server accepts the update.
func (m *Manager) SetActive(ctx context.Context, soundID string) error {
	if err := m.svc.UpdateSettings(ctx, api.SettingsPatch{ActiveSoundID: &soundID}); err != nil {
		log.ErrorErr(log.CatAPI, "Changing active sound failed", err, "soundID", soundID)
		m.notifier.Error("Failed to change active sound", err.Error())
		return err
	}

	var name string
	m.mu.Lock()
	m.settings.ActiveSoundID = &soundID
	for i := range m.sounds {
		m.sounds[i].Active = m.sounds[i].ID == soundID
		if m.sounds[i].Active {
			name = m.sounds[i].Name
		}
	}
	m.mu.Unlock()

	m.notifier.Success("Successfully changed active sound", "The active sound is now "+name)
	return nil
}

// ChangeMode switches between single and random playback. Confirm-then-apply,
// the same policy as SetActive.
func (m *Manager) ChangeMode(ctx context.Context, mode api.Mode) error {
	if err := m.svc.UpdateSettings(ctx, api.SettingsPatch{Mode: &mode}); err != nil {
		log.ErrorErr(log.CatAPI, "Changing mode failed", err, "mode", mode)
		m.notifier.Error("Failed to change mode", err.Error())
		return err
	}

	m.mu.Lock()
	m.settings.Mode = mode
	m.mu.Unlock()

	m.notifier.Success("Changed mode to "+string(mode), "")
	m.autoActivate(ctx)
	return nil
}

// Delete invalidates any playback handle for the sound, issues the delete,
// then refreshes the whole collection so the post-delete state (including
// any server-side re-election of the active sound) is authoritative.
func (m *Manager) Delete(ctx context.Context, soundID string) error {
	name := m.nameOf(soundID)

	if m.player != nil {
		m.player.CleanupDeletedSound(soundID)
	}

	if err := m.svc.DeleteSound(ctx, soundID); err != nil {
		log.ErrorErr(log.CatAPI, "Delete failed", err, "soundID", soundID)
		m.notifier.Error("Failed to delete sound", err.Error())
		return err
	}

	m.notifier.Success("Successfully deleted sound", name+" no longer exists")
	return m.LoadAll(ctx)
}

// Sounds returns a copy of the current collection.
func (m *Manager) Sounds() []Sound {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Sound, len(m.sounds))
	copy(out, m.sounds)
	return out
}

// Settings returns the current settings snapshot.
func (m *Manager) Settings() api.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// Loaded reports whether the first LoadAll has completed successfully.
func (m *Manager) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// ActiveSoundID returns the active sound id, or empty when none is set.
func (m *Manager) ActiveSoundID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return activeSoundID(m.settings)
}

// NeedsActiveSound reports the soft invariant the UI surfaces as a banner:
// single mode with a non-empty collection but no active sound.
func (m *Manager) NeedsActiveSound() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.Mode == api.ModeSingle && len(m.sounds) > 0 && activeSoundID(m.settings) == ""
}

// nameOf looks up a sound's display name, or the id when unknown.
func (m *Manager) nameOf(soundID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sounds {
		if s.ID == soundID {
			return s.Name
		}
	}
	return soundID
}

// autoActivate applies the auto-activation rule: when exactly one sound
// exists and no active sound is set, that sole sound becomes active. It is
// re-evaluated after every collection or settings change.
func (m *Manager) autoActivate(ctx context.Context) {
	m.mu.Lock()
	apply := len(m.sounds) == 1 && activeSoundID(m.settings) == "" && !m.autoActivating
	var soleID string
	if apply {
		soleID = m.sounds[0].ID
		m.autoActivating = true
	}
	m.mu.Unlock()

	if !apply {
		return
	}
	defer func() {
		m.mu.Lock()
		m.autoActivating = false
		m.mu.Unlock()
	}()

	log.Info(log.CatAPI, "Auto-activating sole sound", "soundID", soleID)
	_ = m.SetActive(ctx, soleID)
}

func activeSoundID(s api.Settings) string {
	if s.ActiveSoundID == nil {
		return ""
	}
	return *s.ActiveSoundID
}
