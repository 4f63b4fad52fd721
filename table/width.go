package table

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Width is the number of terminal columns s occupies. East Asian wide and
// fullwidth runes take two columns, combining marks and format characters
// none, everything else one.
func Width(s string) int {
	n := 0

	for _, r := range s {
		if unicode.In(r, unicode.Mn, unicode.Me, unicode.Cf) {
			continue
		}

		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		case width.Neutral, width.EastAsianAmbiguous, width.EastAsianNarrow, width.EastAsianHalfwidth:
			n++
		}
	}

	return n
}

// Pad right-pads s with spaces to w columns. Longer strings are truncated
// to fit, a wide rune that would straddle the edge is replaced by a space.
func Pad(s string, w int) string {
	var sb strings.Builder

	used := 0

	for _, r := range s {
		rw := Width(string(r))
		if used+rw > w {
			break
		}

		sb.WriteRune(r)

		used += rw
	}

	sb.WriteString(strings.Repeat(" ", w-used))

	return sb.String()
}
