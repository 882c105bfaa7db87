// Package format holds the pure string helpers used to lay out terminal
// output: normalization, slugs, width-aware truncation and padding, column
// grids, banners and date ranges.
package format

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Ellipsis is appended by Truncate when text is cut.
const Ellipsis = "…"

// Normalize lowercases s, strips diacritics and collapses whitespace, so that
// "Éducation" and "education" compare equal.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// Slugify turns s into a lowercase, dash-separated ASCII-ish key.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range Normalize(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Truncate cuts s to at most width display cells, ending with an ellipsis when
// anything was removed.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, Ellipsis)
}

// Pad right-pads s with spaces to width display cells.
func Pad(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// Fit truncates and then pads s so it occupies exactly width cells.
func Fit(s string, width int) string {
	return Pad(Truncate(s, width), width)
}

// Columns lays items out in a row-major grid no wider than width cells.
func Columns(items []string, width int) []string {
	if len(items) == 0 {
		return nil
	}
	cell := 0
	for _, it := range items {
		cell = max(cell, ansi.StringWidth(it))
	}
	cell += 2
	perRow := max(1, width/cell)
	rows := make([]string, 0, (len(items)+perRow-1)/perRow)
	for i := 0; i < len(items); i += perRow {
		end := min(len(items), i+perRow)
		var b strings.Builder
		for j := i; j < end; j++ {
			if j == end-1 {
				b.WriteString(items[j])
				continue
			}
			b.WriteString(Pad(items[j], cell))
		}
		rows = append(rows, b.String())
	}
	return rows
}

// Banner renders title between two dividers.
func Banner(title string) []string {
	width := max(32, ansi.StringWidth(title)+4)
	divider := strings.Repeat("─", width)
	return []string{divider, "  " + title, divider}
}

// Wrap breaks s into lines of at most width cells on word boundaries.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	var out []string
	for _, para := range strings.Split(s, "\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			out = append(out, "")
			continue
		}
		out = append(out, strings.Split(ansi.Wordwrap(para, width, ""), "\n")...)
	}
	return out
}
