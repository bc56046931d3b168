package printer

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Ширина считается в колонках терминала, не в байтах.
var widthCond = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// textWidth measures s. first is the width up to the first newline, last
// the width after the final newline; multiline reports a newline in s.
func textWidth(s string, tabWidth int) (first, last int, multiline bool) {
	w := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch c {
			case '\n':
				if !multiline {
					first = w
					multiline = true
				}
				w = 0
			case '\t':
				w += tabWidth
			case '\r':
			default:
				w++
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		w += widthCond.RuneWidth(r)
		i += size
	}
	if !multiline {
		return w, w, false
	}
	return first, w, true
}

// ColumnWidth returns the display width of a single-line string.
func ColumnWidth(s string, tabWidth int) int {
	w, _, _ := textWidth(s, tabWidth)
	return w
}
