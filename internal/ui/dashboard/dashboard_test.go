package dashboard

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mocbot/sounddash/internal/api"
	"github.com/mocbot/sounddash/internal/config"
	"github.com/mocbot/sounddash/internal/player"
	"github.com/mocbot/sounddash/internal/sounds"
	"github.com/mocbot/sounddash/internal/ui/confirm"
	"github.com/mocbot/sounddash/internal/ui/toasts"
)

type fakeService struct {
	sounds   []api.Sound
	settings api.Settings
	deleted  []string
	patches  []api.SettingsPatch
}

func (f *fakeService) ListSounds(context.Context) ([]api.Sound, error) { return f.sounds, nil }
func (f *fakeService) GetSettings(context.Context) (api.Settings, error) {
	return f.settings, nil
}
func (f *fakeService) UploadSounds(context.Context, []api.UploadFile) (*api.UploadResponse, error) {
	return &api.UploadResponse{Status: api.UploadSuccess}, nil
}
func (f *fakeService) UpdateSettings(_ context.Context, p api.SettingsPatch) error {
	f.patches = append(f.patches, p)
	return nil
}
func (f *fakeService) DeleteSound(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}
func (f *fakeService) SoundURL(id string) string { return "http://host/sound/" + id }

type fakePlayback struct{}

func (fakePlayback) Stop() {}

type fakeEngine struct{}

func (fakeEngine) Play([]byte, string, func(error)) (player.Playback, error) {
	return fakePlayback{}, nil
}

type fakeFetcher struct{}

func (fakeFetcher) FetchSoundData(context.Context, string) ([]byte, string, error) {
	return []byte("audio"), "audio/mpeg", nil
}

func activeID(id string) *string { return &id }

func newTestModel(t *testing.T, svc *fakeService) Model {
	t.Helper()

	cfg := config.Defaults()
	queue := toasts.NewQueue()
	ctl := player.New(fakeFetcher{}, fakeEngine{}, queue)
	mgr := sounds.NewManager(svc, queue, ctl)

	m := New(mgr, ctl, queue, &cfg)

	msg := m.loadAllCmd()()
	model, _ := m.Update(msg)
	model, _ = model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return model.(Model)
}

func runesKey(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

func twoSoundService() *fakeService {
	return &fakeService{
		sounds: []api.Sound{
			{ID: "s2", OriginalName: "woof.mp3"},
			{ID: "s1", OriginalName: "bark.mp3"},
		},
		settings: api.Settings{Mode: api.ModeSingle, ActiveSoundID: activeID("s1")},
	}
}

func TestViewListsSoundsSorted(t *testing.T) {
	m := newTestModel(t, twoSoundService())

	view := ansi.Strip(m.View())
	bark := indexOf(t, view, "bark.mp3")
	woof := indexOf(t, view, "woof.mp3")
	assert.Less(t, bark, woof, "list is sorted by name")
	assert.Contains(t, view, "★", "active sound carries a marker")
	assert.Contains(t, view, "mode: single")
}

func TestCursorNavigation(t *testing.T) {
	m := newTestModel(t, twoSoundService())
	require.Equal(t, 0, m.cursor)

	model, _ := m.Update(runesKey("j"))
	m = model.(Model)
	assert.Equal(t, 1, m.cursor)

	// Does not walk past the end.
	model, _ = m.Update(runesKey("j"))
	m = model.(Model)
	assert.Equal(t, 1, m.cursor)

	model, _ = m.Update(runesKey("k"))
	m = model.(Model)
	assert.Equal(t, 0, m.cursor)
}

func TestSetActivePatchesSelection(t *testing.T) {
	svc := twoSoundService()
	m := newTestModel(t, svc)

	// Move to the second row (woof.mp3, id s2) and press enter.
	model, _ := m.Update(runesKey("j"))
	m = model.(Model)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	cmd()

	require.Len(t, svc.patches, 1)
	require.NotNil(t, svc.patches[0].ActiveSoundID)
	assert.Equal(t, "s2", *svc.patches[0].ActiveSoundID)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	svc := twoSoundService()
	m := newTestModel(t, svc)

	model, _ := m.Update(runesKey("d"))
	m = model.(Model)
	require.Equal(t, viewConfirmDelete, m.mode)
	assert.Contains(t, ansi.Strip(m.View()), "Delete sound?")
	assert.Empty(t, svc.deleted, "nothing deleted before confirmation")

	// Cancelling leaves the collection alone.
	model, _ = m.Update(confirm.CancelMsg{})
	m = model.(Model)
	assert.Equal(t, viewList, m.mode)
	assert.Empty(t, svc.deleted)

	// Confirming deletes the selected sound.
	model, _ = m.Update(runesKey("d"))
	m = model.(Model)
	model, cmd := m.Update(confirm.ConfirmMsg{})
	m = model.(Model)
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, []string{"s1"}, svc.deleted)
	assert.Equal(t, viewList, m.mode)
}

func TestModeKeyCyclesMode(t *testing.T) {
	svc := twoSoundService()
	m := newTestModel(t, svc)

	_, cmd := m.Update(runesKey("m"))
	require.NotNil(t, cmd)
	cmd()

	require.Len(t, svc.patches, 1)
	require.NotNil(t, svc.patches[0].Mode)
	assert.Equal(t, api.ModeRandom, *svc.patches[0].Mode)
}

func TestBannerWhenNoActiveSound(t *testing.T) {
	svc := twoSoundService()
	svc.settings.ActiveSoundID = nil
	m := newTestModel(t, svc)

	assert.Contains(t, ansi.Strip(m.View()), "No active join sound")
}

func TestEmptyCollectionView(t *testing.T) {
	svc := &fakeService{settings: api.Settings{Mode: api.ModeRandom}}
	m := newTestModel(t, svc)

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "No join sounds yet")
}

func TestQuitStopsPlayback(t *testing.T) {
	m := newTestModel(t, twoSoundService())

	_, cmd := m.Update(runesKey("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestHelpToggles(t *testing.T) {
	m := newTestModel(t, twoSoundService())

	model, _ := m.Update(runesKey("?"))
	m = model.(Model)
	require.Equal(t, viewHelp, m.mode)
	assert.Contains(t, ansi.Strip(m.View()), "Keybindings")

	model, _ = m.Update(runesKey("x"))
	m = model.(Model)
	assert.Equal(t, viewList, m.mode)
}

func TestToastsAppearAndExpire(t *testing.T) {
	m := newTestModel(t, twoSoundService())
	m.queue.Success("Successfully changed active sound", "The active sound is now bark.mp3")

	now := time.Now()
	m.toastView = m.toastView.Update(now)
	assert.Contains(t, ansi.Strip(m.View()), "Successfully changed active sound")

	m.toastView = m.toastView.Update(now.Add(m.cfg.UI.ToastDuration + time.Second))
	assert.NotContains(t, ansi.Strip(m.View()), "Successfully changed active sound")
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	idx := strings.Index(haystack, needle)
	require.GreaterOrEqual(t, idx, 0, "%q not found", needle)
	return idx
}
