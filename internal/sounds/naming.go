package sounds

import (
	"fmt"
	"path/filepath"
	"strings"
)

// UniqueName resolves a display-name collision by appending a parenthesized
// counter before the file extension: "clip.mp3" becomes "clip (1).mp3",
// then "clip (2).mp3", using the lowest unused counter. Names that do not
// collide are returned unchanged.
func UniqueName(name string, existing []string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		taken[n] = struct{}{}
	}

	if _, ok := taken[name]; !ok {
		return name
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for counter := 1; ; counter++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, counter, ext)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}
