package render

import (
	"strings"

	"github.com/rivo/uniseg"
)

// charsPerLine is how many 6x13-ish glyph cells fit across the 128px
// panel width.
const charsPerLine = Width / 7

// WrapMessage splits s into lines no longer than charsPerLine grapheme
// clusters, breaking on spaces where possible and mid-word only when a
// single word overflows a whole line. uniseg counts grapheme clusters
// rather than runes so a multi-rune emoji or accented character is never
// split across two lines — plain byte or rune counting would get this
// wrong for non-ASCII text.
func WrapMessage(s string) []string {
	var lines []string
	var line strings.Builder
	width := 0

	flush := func() {
		if width > 0 {
			lines = append(lines, line.String())
			line.Reset()
			width = 0
		}
	}

	for _, word := range strings.Fields(s) {
		w := uniseg.GraphemeClusterCount(word)

		if w > charsPerLine {
			// A word longer than the panel is wide: hard-break it
			// cluster by cluster.
			flush()
			gr := uniseg.NewGraphemes(word)
			for gr.Next() {
				if width == charsPerLine {
					flush()
				}
				line.WriteString(gr.Str())
				width++
			}
			continue
		}

		if width > 0 && width+1+w > charsPerLine {
			flush()
		}
		if width > 0 {
			line.WriteByte(' ')
			width++
		}
		line.WriteString(word)
		width += w
	}
	flush()

	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}
