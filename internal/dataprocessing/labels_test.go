package dataprocessing

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		name  string
		label string
		width int
		want  string
	}{
		{"fits", "Alpha", 20, "Alpha"},
		{"exact width", "Exactly Twenty Chars", 20, "Exactly Twenty Chars"},
		{"long title", "A Very Long Movie Title Indeed", 20, "A Very Long Movie..."},
		{"multibyte", "Amélie et le Fabuleux Destin", 10, "Amélie ..."},
		{"tiny width", "Alpha", 2, ".."},
		{"zero width", "Alpha", 0, ""},
		{"empty", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateLabel(tt.label, tt.width))
		})
	}
}

func TestTruncateLabel_LengthProperty(t *testing.T) {
	labels := []string{"", "a", "Short", "A Very Long Movie Title Indeed", "Zeta Is A Rather Long Movie Title", "日本の映画のタイトル"}

	for _, label := range labels {
		for width := 1; width <= 40; width++ {
			got := TruncateLabel(label, width)
			if utf8.RuneCountInString(label) <= width {
				assert.Equal(t, label, got)
				continue
			}
			assert.Equal(t, width, utf8.RuneCountInString(got))
			if width > 3 {
				assert.Equal(t, "...", got[len(got)-3:])
			}
		}
	}
}
