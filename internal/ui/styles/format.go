package styles

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// FormatFileSize renders a byte count for display (binary units).
func FormatFileSize(size int64) string {
	switch {
	case size >= 1024*1024:
		return fmt.Sprintf("%.1f MiB", float64(size)/(1024*1024))
	case size >= 1024:
		return fmt.Sprintf("%.1f KiB", float64(size)/1024)
	default:
		return fmt.Sprintf("%d B", size)
	}
}

// Truncate shortens s to fit width display cells, appending an ellipsis
// when anything was cut. Widths follow terminal cell counts, not runes.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
