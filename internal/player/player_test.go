package player

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlayback counts Stop calls so tests can assert release-exactly-once.
type fakePlayback struct {
	mu    sync.Mutex
	stops int
}

func (p *fakePlayback) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stops++
}

func (p *fakePlayback) stopCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stops
}

// fakeEngine hands out fakePlaybacks and retains the onDone callbacks so
// tests can simulate natural completion and stream errors.
type fakeEngine struct {
	mu        sync.Mutex
	playbacks []*fakePlayback
	onDones   []func(error)
	playErr   error
}

func (e *fakeEngine) Play(data []byte, mimeType string, onDone func(err error)) (Playback, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.playErr != nil {
		return nil, e.playErr
	}
	pb := &fakePlayback{}
	e.playbacks = append(e.playbacks, pb)
	e.onDones = append(e.onDones, onDone)
	return pb, nil
}

func (e *fakeEngine) last() (*fakePlayback, func(error)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.playbacks) == 0 {
		return nil, nil
	}
	return e.playbacks[len(e.playbacks)-1], e.onDones[len(e.onDones)-1]
}

// fakeFetcher serves canned bytes and counts fetches per sound.
type fakeFetcher struct {
	mu      sync.Mutex
	fetches map[string]int
	err     error
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{fetches: map[string]int{}}
}

func (f *fakeFetcher) FetchSoundData(_ context.Context, soundID string) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, "", f.err
	}
	f.fetches[soundID]++
	return []byte("audio:" + soundID), "audio/mpeg", nil
}

func (f *fakeFetcher) count(soundID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches[soundID]
}

type errorRecorder struct {
	mu     sync.Mutex
	errors []string
}

func (r *errorRecorder) Error(title, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, title+": "+description)
}

func (r *errorRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errors)
}

func newTestController() (*Controller, *fakeEngine, *fakeFetcher, *errorRecorder) {
	engine := &fakeEngine{}
	fetcher := newFakeFetcher()
	notifier := &errorRecorder{}
	return New(fetcher, engine, notifier), engine, fetcher, notifier
}

func TestToggle_StartsPlayback(t *testing.T) {
	c, engine, fetcher, _ := newTestController()

	require.NoError(t, c.TogglePlayPause(context.Background(), "s1"))

	assert.Equal(t, StatePlaying, c.State())
	assert.True(t, c.IsPlaying("s1"))
	assert.False(t, c.IsPlaying("s2"))
	assert.Equal(t, 1, fetcher.count("s1"))
	pb, _ := engine.last()
	assert.Zero(t, pb.stopCount())
}

func TestToggle_SameSoundPausesWithoutRestart(t *testing.T) {
	c, engine, fetcher, _ := newTestController()
	require.NoError(t, c.TogglePlayPause(context.Background(), "s1"))

	require.NoError(t, c.TogglePlayPause(context.Background(), "s1"))

	assert.Equal(t, StateIdle, c.State())
	assert.False(t, c.IsPlaying("s1"))
	pb, _ := engine.last()
	assert.Equal(t, 1, pb.stopCount(), "released exactly once")
	assert.Equal(t, 1, fetcher.count("s1"), "pause must not refetch")
}

func TestToggle_DifferentSoundStopsOldBeforeStartingNew(t *testing.T) {
	c, engine, _, _ := newTestController()
	require.NoError(t, c.TogglePlayPause(context.Background(), "s1"))
	first, _ := engine.last()

	require.NoError(t, c.TogglePlayPause(context.Background(), "s2"))

	assert.Equal(t, 1, first.stopCount(), "old handle released")
	assert.True(t, c.IsPlaying("s2"))
	assert.False(t, c.IsPlaying("s1"))
	second, _ := engine.last()
	assert.NotSame(t, first, second)
	assert.Zero(t, second.stopCount())
}

func TestSingleSlotInvariant(t *testing.T) {
	c, _, _, _ := newTestController()
	require.NoError(t, c.TogglePlayPause(context.Background(), "s1"))
	require.NoError(t, c.TogglePlayPause(context.Background(), "s2"))
	require.NoError(t, c.TogglePlayPause(context.Background(), "s3"))

	// IsPlaying is true for exactly one id.
	playing := 0
	for _, id := range []string{"s1", "s2", "s3"} {
		if c.IsPlaying(id) {
			playing++
		}
	}
	assert.Equal(t, 1, playing)
	assert.Equal(t, "s3", c.PlayingSoundID())
}

func TestNaturalCompletionReleasesHandle(t *testing.T) {
	c, engine, _, notifier := newTestController()
	require.NoError(t, c.TogglePlayPause(context.Background(), "s1"))
	pb, onDone := engine.last()

	onDone(nil)

	assert.Equal(t, StateIdle, c.State())
	assert.False(t, c.IsPlaying("s1"))
	assert.Equal(t, 1, pb.stopCount())
	assert.Zero(t, notifier.count(), "natural completion is not an error")

	// A late duplicate callback must not double-release.
	onDone(nil)
	assert.Equal(t, 1, pb.stopCount())
}

func TestStreamErrorReleasesAndNotifies(t *testing.T) {
	c, engine, _, notifier := newTestController()
	require.NoError(t, c.TogglePlayPause(context.Background(), "s1"))
	pb, onDone := engine.last()

	onDone(errors.New("decode blew up"))

	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, 1, pb.stopCount())
	require.Equal(t, 1, notifier.count())
}

func TestFetchFailure_NoHandleCreated(t *testing.T) {
	c, engine, fetcher, notifier := newTestController()
	fetcher.err = errors.New("network down")

	err := c.TogglePlayPause(context.Background(), "s1")
	require.Error(t, err)

	assert.Equal(t, StateIdle, c.State())
	assert.False(t, c.IsPlaying("s1"))
	pb, _ := engine.last()
	assert.Nil(t, pb, "no playback must be created when the fetch fails")
	assert.Equal(t, 1, notifier.count())
}

func TestEngineFailure_NotifiesAndStaysIdle(t *testing.T) {
	c, engine, _, notifier := newTestController()
	engine.playErr = errors.New("no output device")

	require.Error(t, c.TogglePlayPause(context.Background(), "s1"))
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, 1, notifier.count())
}

func TestCleanupDeletedSound(t *testing.T) {
	t.Run("playing id is stopped and released", func(t *testing.T) {
		c, engine, _, _ := newTestController()
		require.NoError(t, c.TogglePlayPause(context.Background(), "s1"))
		pb, _ := engine.last()

		c.CleanupDeletedSound("s1")

		assert.Equal(t, StateIdle, c.State())
		assert.False(t, c.IsPlaying("s1"))
		assert.Equal(t, 1, pb.stopCount())
	})

	t.Run("other id is a no-op", func(t *testing.T) {
		c, engine, _, _ := newTestController()
		require.NoError(t, c.TogglePlayPause(context.Background(), "s1"))
		pb, _ := engine.last()

		c.CleanupDeletedSound("s2")

		assert.True(t, c.IsPlaying("s1"))
		assert.Zero(t, pb.stopCount())
	})

	t.Run("idle controller is a no-op", func(t *testing.T) {
		c, _, _, _ := newTestController()
		c.CleanupDeletedSound("s1")
		assert.Equal(t, StateIdle, c.State())
	})
}

func TestCachedBytesSkipRefetch(t *testing.T) {
	c, _, fetcher, _ := newTestController()

	require.NoError(t, c.TogglePlayPause(context.Background(), "s1"))
	require.NoError(t, c.TogglePlayPause(context.Background(), "s1")) // pause
	require.NoError(t, c.TogglePlayPause(context.Background(), "s1")) // replay

	assert.Equal(t, 1, fetcher.count("s1"), "replay within the TTL uses cached bytes")
}

func TestDeleteInvalidatesCachedBytes(t *testing.T) {
	c, _, fetcher, _ := newTestController()
	require.NoError(t, c.TogglePlayPause(context.Background(), "s1"))

	c.CleanupDeletedSound("s1")

	require.NoError(t, c.TogglePlayPause(context.Background(), "s1"))
	assert.Equal(t, 2, fetcher.count("s1"), "deleted sound must not replay stale bytes")
}

func TestStop(t *testing.T) {
	c, engine, _, _ := newTestController()
	require.NoError(t, c.TogglePlayPause(context.Background(), "s1"))
	pb, _ := engine.last()

	c.Stop()
	c.Stop() // idempotent

	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, 1, pb.stopCount())
}

// instantDoneEngine completes the clip synchronously, before Play returns.
// Zero-length clips behave this way.
type instantDoneEngine struct {
	mu        sync.Mutex
	playbacks []*fakePlayback
}

func (e *instantDoneEngine) Play(data []byte, mimeType string, onDone func(err error)) (Playback, error) {
	pb := &fakePlayback{}
	e.mu.Lock()
	e.playbacks = append(e.playbacks, pb)
	e.mu.Unlock()
	onDone(nil)
	return pb, nil
}

func (e *instantDoneEngine) last() *fakePlayback {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.playbacks) == 0 {
		return nil
	}
	return e.playbacks[len(e.playbacks)-1]
}

func TestEngineCompletesBeforePlayReturns(t *testing.T) {
	engine := &instantDoneEngine{}
	c := New(newFakeFetcher(), engine, &errorRecorder{})

	require.NoError(t, c.TogglePlayPause(context.Background(), "s1"))

	assert.Equal(t, StateIdle, c.State())
	assert.False(t, c.IsPlaying("s1"))
	assert.Equal(t, 1, engine.last().stopCount(), "released exactly once")

	// The slot is free again for the next request.
	require.NoError(t, c.TogglePlayPause(context.Background(), "s1"))
	assert.Equal(t, 2, len(engine.playbacks))
}

// gatedFetcher blocks FetchSoundData until the test releases it.
type gatedFetcher struct {
	started chan struct{}
	release chan struct{}
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{started: make(chan struct{}), release: make(chan struct{})}
}

func (f *gatedFetcher) FetchSoundData(_ context.Context, soundID string) ([]byte, string, error) {
	close(f.started)
	<-f.release
	return []byte("audio:" + soundID), "audio/mpeg", nil
}

func TestDeleteDuringLoadAbandonsStartup(t *testing.T) {
	engine := &fakeEngine{}
	fetcher := newGatedFetcher()
	c := New(fetcher, engine, &errorRecorder{})

	toggled := make(chan error, 1)
	go func() {
		toggled <- c.TogglePlayPause(context.Background(), "s1")
	}()

	<-fetcher.started
	assert.Equal(t, StateLoading, c.State())
	c.CleanupDeletedSound("s1")
	close(fetcher.release)

	require.NoError(t, <-toggled)
	assert.Equal(t, StateIdle, c.State())
	assert.False(t, c.IsPlaying("s1"))
	pb, _ := engine.last()
	assert.Nil(t, pb, "a deleted sound must never start playing")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "playing", StatePlaying.String())
	assert.Equal(t, "unknown", State(99).String())
}
