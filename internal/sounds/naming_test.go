package sounds

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestUniqueName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		existing []string
		want     string
	}{
		{"no collision", "clip.mp3", []string{"other.mp3"}, "clip.mp3"},
		{"empty collection", "clip.mp3", nil, "clip.mp3"},
		{"first collision", "clip.mp3", []string{"clip.mp3"}, "clip (1).mp3"},
		{"counter skips taken suffixes", "a.mp3", []string{"a.mp3", "a (1).mp3"}, "a (2).mp3"},
		{"lowest free counter wins", "a.mp3", []string{"a.mp3", "a (2).mp3"}, "a (1).mp3"},
		{"no extension", "clip", []string{"clip"}, "clip (1)"},
		{"multiple dots keep last extension", "my.best.clip.mp3", []string{"my.best.clip.mp3"}, "my.best.clip (1).mp3"},
		{"case sensitive names", "Clip.mp3", []string{"clip.mp3"}, "Clip.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UniqueName(tt.input, tt.existing))
		})
	}
}

// Properties: the resolved name never collides with the existing set, and
// when it is rewritten, every lower counter was already taken.
func TestUniqueName_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "base")
		name := base + ".mp3"

		taken := rapid.SliceOfN(rapid.IntRange(0, 12), 0, 10).Draw(t, "taken")
		existing := []string{name}
		for _, n := range taken {
			if n == 0 {
				continue
			}
			existing = append(existing, fmt.Sprintf("%s (%d).mp3", base, n))
		}

		got := UniqueName(name, existing)

		for _, e := range existing {
			if got == e {
				t.Fatalf("resolved name %q collides with existing %q", got, e)
			}
		}

		// Extract the chosen counter and verify minimality.
		var chosen int
		if _, err := fmt.Sscanf(got, base+" (%d).mp3", &chosen); err != nil {
			t.Fatalf("resolved name %q does not follow the suffix format: %v", got, err)
		}
		set := make(map[string]struct{}, len(existing))
		for _, e := range existing {
			set[e] = struct{}{}
		}
		for n := 1; n < chosen; n++ {
			candidate := fmt.Sprintf("%s (%d).mp3", base, n)
			if _, ok := set[candidate]; !ok {
				t.Fatalf("counter %d chosen but %d was free", chosen, n)
			}
		}
	})
}
