package dataprocessing

import "unicode/utf8"

const ellipsis = "..."

// TruncateLabel shortens s to at most width characters, ending in "..."
// when cut. Widths below four return a prefix of the ellipsis itself.
func TruncateLabel(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	if width <= len(ellipsis) {
		return ellipsis[:width]
	}
	runes := []rune(s)
	return string(runes[:width-len(ellipsis)]) + ellipsis
}
