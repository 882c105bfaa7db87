package term

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// MaxPaste caps how much of a paste reaches the input line.
const MaxPaste = 2000

// SanitizePaste turns pasted content into something the single-line input
// can hold: escape sequences are stripped, line breaks and tabs become
// spaces, other control characters are dropped.
func SanitizePaste(content string) string {
	if content == "" {
		return ""
	}
	content = ansi.Strip(content)
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(content))
	n := 0
	lastSpace := false
	for _, r := range content {
		if n >= MaxPaste {
			break
		}
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			if lastSpace {
				continue
			}
			r = ' '
		case unicode.IsControl(r):
			continue
		}
		lastSpace = r == ' '
		b.WriteRune(r)
		n++
	}
	return strings.TrimRight(b.String(), " ")
}
