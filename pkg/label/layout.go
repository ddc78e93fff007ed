package label

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/matzehuels/tcglabels/pkg/card"
)

// MaxLineLength is the longest second or third line, in characters.
const MaxLineLength = 29

const ellipsis = "..."

// Lines holds the three text lines of a label, top to bottom.
type Lines [3]string

// Layout derives the three display lines for c.
// Empty fields produce empty lines rather than errors.
func Layout(c card.Card) Lines {
	upper := cases.Upper(language.Und)
	second := upper.String(c.Number) + " " + upper.String(c.Rarity)
	return Lines{
		c.Name,
		Truncate(second, MaxLineLength),
		Truncate(c.SetName, MaxLineLength),
	}
}

// Truncate shortens s to at most maxLen characters (Unicode code points).
//
// Strings that fit are returned unchanged. Longer strings keep their first
// maxLen-3 characters followed by "...", so the result is exactly maxLen
// characters long. When maxLen is 3 or less there is no room for a prefix and
// the result is the first maxLen characters of "..."; a maxLen of zero or
// less yields "".
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= len(ellipsis) {
		return ellipsis[:maxLen]
	}
	return string(runes[:maxLen-len(ellipsis)]) + ellipsis
}
