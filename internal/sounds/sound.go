// Package sounds owns the client-side view of a user's join-sound
// collection and playback settings, and mediates every mutating operation
// against the remote API.
package sounds

import (
	"sort"
	"strings"

	"github.com/mocbot/sounddash/internal/api"
)

// Sound is one uploaded audio clip as the dashboard presents it.
type Sound struct {
	ID   string
	Name string
	URL  string
	// Active is true iff this sound is designated to play on the next
	// join event. Only meaningful while the mode is "single".
	Active bool
}

// soundFromAPI converts a listed sound, deriving the Active flag from the
// settings snapshot.
func soundFromAPI(s api.Sound, activeID string, url string) Sound {
	return Sound{
		ID:     s.ID,
		Name:   s.OriginalName,
		URL:    url,
		Active: s.ID == activeID && activeID != "",
	}
}

// soundFromUpload converts an accepted upload file.
func soundFromUpload(f api.SuccessFile, activeID string, url string) Sound {
	return Sound{
		ID:     f.ID,
		Name:   f.OriginalName,
		URL:    url,
		Active: f.ID == activeID && activeID != "",
	}
}

// sortSounds orders the collection by name ascending, ignoring case.
// Ties fall back to a case-sensitive compare so the order is stable.
func sortSounds(sounds []Sound) {
	sort.Slice(sounds, func(i, j int) bool {
		a, b := strings.ToLower(sounds[i].Name), strings.ToLower(sounds[j].Name)
		if a != b {
			return a < b
		}
		return sounds[i].Name < sounds[j].Name
	})
}
