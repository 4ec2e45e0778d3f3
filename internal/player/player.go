// Package player implements the single-slot audio preview controller:
// at most one sound is audible at any time, and requesting a second sound
// implicitly stops the first.
package player

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mocbot/sounddash/internal/log"
)

// State is the playback slot's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// Cache retention for fetched audio bytes. Replays within the window skip
// the network round trip.
const (
	cacheTTL     = 15 * time.Minute
	cacheCleanup = 30 * time.Minute
)

// Fetcher downloads a sound's raw audio bytes, returning data and mime type.
type Fetcher interface {
	FetchSoundData(ctx context.Context, soundID string) ([]byte, string, error)
}

// Notifier surfaces playback failures to the user.
type Notifier interface {
	Error(title, description string)
}

// handle is the single owned playback slot. release fires at most once per
// handle regardless of which exit path triggers it. playback and done are
// guarded by the controller mutex; stop must only be called once playback
// is assigned.
type handle struct {
	soundID  string
	playback Playback
	done     bool
	release  sync.Once
}

func (h *handle) stop() {
	h.release.Do(func() {
		h.playback.Stop()
	})
}

// Controller owns at most one PlayingHandle and transitions between Idle,
// Loading and Playing. Every exit path (pause toggle, natural end, error,
// delete-invalidate, replacement) funnels through the same release.
type Controller struct {
	fetcher  Fetcher
	engine   Engine
	notifier Notifier
	cache    *gocache.Cache

	mu        sync.Mutex
	state     State
	current   *handle
	loadingID string
}

// New creates an idle controller.
func New(fetcher Fetcher, engine Engine, notifier Notifier) *Controller {
	return &Controller{
		fetcher:  fetcher,
		engine:   engine,
		notifier: notifier,
		cache:    gocache.New(cacheTTL, cacheCleanup),
	}
}

type cachedAudio struct {
	data     []byte
	mimeType string
}

// TogglePlayPause implements the single output slot. With nothing playing
// it fetches and starts soundID. With a sound playing it stops it
// unconditionally; if that sound was soundID the call was a pause and
// nothing new starts, otherwise the requested sound starts.
func (c *Controller) TogglePlayPause(ctx context.Context, soundID string) error {
	c.mu.Lock()
	if c.state == StateLoading {
		// A fetch is already in flight; the UI issues one operation at a
		// time, so this only guards against double key presses.
		c.mu.Unlock()
		return nil
	}
	stopped := c.current
	c.current = nil
	samePressed := stopped != nil && stopped.soundID == soundID
	if samePressed {
		c.state = StateIdle
	} else {
		c.state = StateLoading
		c.loadingID = soundID
	}
	c.mu.Unlock()

	if stopped != nil {
		stopped.stop()
		log.Debug(log.CatAudio, "Playback stopped", "soundID", stopped.soundID)
	}
	if samePressed {
		return nil
	}

	audio, err := c.fetch(ctx, soundID)
	if err != nil {
		c.finishLoading()
		log.ErrorErr(log.CatAudio, "Fetching audio failed", err, "soundID", soundID)
		c.notifier.Error("Failed to play audio", err.Error())
		return fmt.Errorf("fetching audio for %s: %w", soundID, err)
	}

	c.mu.Lock()
	invalidated := c.loadingID != soundID
	c.mu.Unlock()
	if invalidated {
		// The sound was deleted while its bytes were in flight.
		c.finishLoading()
		log.Debug(log.CatAudio, "Playback start abandoned for deleted sound", "soundID", soundID)
		return nil
	}

	h := &handle{soundID: soundID}
	playback, err := c.engine.Play(audio.data, audio.mimeType, func(playErr error) {
		c.onPlaybackDone(h, playErr)
	})
	if err != nil {
		c.finishLoading()
		log.ErrorErr(log.CatAudio, "Starting playback failed", err, "soundID", soundID)
		c.notifier.Error("Failed to play audio", err.Error())
		return fmt.Errorf("playing %s: %w", soundID, err)
	}

	// The engine may have completed the clip (or the sound may have been
	// deleted) before the handle could be installed; in either case the
	// slot stays empty and the playback is released here instead.
	c.mu.Lock()
	h.playback = playback
	discard := h.done || c.loadingID != soundID
	c.loadingID = ""
	if discard {
		c.state = StateIdle
	} else {
		c.current = h
		c.state = StatePlaying
	}
	c.mu.Unlock()

	if discard {
		h.stop()
		log.Debug(log.CatAudio, "Playback released before install", "soundID", soundID)
	}
	return nil
}

// IsPlaying reports whether soundID currently holds the playback slot.
func (c *Controller) IsPlaying(soundID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil && c.current.soundID == soundID
}

// PlayingSoundID returns the id holding the slot, or empty when idle.
func (c *Controller) PlayingSoundID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return ""
	}
	return c.current.soundID
}

// State returns the current slot state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Stop releases the slot if occupied.
func (c *Controller) Stop() {
	c.mu.Lock()
	h := c.current
	c.current = nil
	c.state = StateIdle
	c.mu.Unlock()

	if h != nil {
		h.stop()
		log.Debug(log.CatAudio, "Playback stopped", "soundID", h.soundID)
	}
}

// CleanupDeletedSound releases the slot iff it holds soundID. The collection
// manager calls this before issuing a delete so the handle never outlives
// its backing resource. Any other id is a no-op.
func (c *Controller) CleanupDeletedSound(soundID string) {
	// Deleting invalidates any cached bytes, playing or not.
	c.cache.Delete(soundID)

	c.mu.Lock()
	if c.loadingID == soundID {
		// An in-flight fetch for this sound must not start playing once it
		// lands; the loading path checks this id before installing.
		c.loadingID = ""
	}
	if c.current == nil || c.current.soundID != soundID {
		c.mu.Unlock()
		return
	}
	h := c.current
	c.current = nil
	c.state = StateIdle
	c.mu.Unlock()

	h.stop()
	log.Debug(log.CatAudio, "Playback invalidated for deleted sound", "soundID", soundID)
}

// onPlaybackDone handles the two terminal outcomes of a playback: natural
// completion and stream error. Both run the identical cleanup path; an
// error additionally surfaces a notification.
func (c *Controller) onPlaybackDone(h *handle, playErr error) {
	c.mu.Lock()
	h.done = true
	if c.current == h {
		c.current = nil
		c.state = StateIdle
	}
	// A nil playback means the engine completed before Play returned;
	// TogglePlayPause sees done and releases the playback itself.
	installed := h.playback != nil
	c.mu.Unlock()

	if installed {
		h.stop()
	}

	if playErr != nil {
		log.ErrorErr(log.CatAudio, "Playback failed", playErr, "soundID", h.soundID)
		c.notifier.Error("Failed to play audio", playErr.Error())
		return
	}
	log.Debug(log.CatAudio, "Playback completed", "soundID", h.soundID)
}

// finishLoading ends a loading attempt that produced no playback.
func (c *Controller) finishLoading() {
	c.mu.Lock()
	c.loadingID = ""
	c.state = StateIdle
	c.mu.Unlock()
}

func (c *Controller) fetch(ctx context.Context, soundID string) (cachedAudio, error) {
	if v, ok := c.cache.Get(soundID); ok {
		return v.(cachedAudio), nil
	}

	data, mimeType, err := c.fetcher.FetchSoundData(ctx, soundID)
	if err != nil {
		return cachedAudio{}, err
	}
	audio := cachedAudio{data: data, mimeType: mimeType}
	c.cache.SetDefault(soundID, audio)
	return audio, nil
}
