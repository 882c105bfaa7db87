package term

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizePaste(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain", in: "cd skills", want: "cd skills"},
		{name: "newlines collapse", in: "hello\r\n\nworld\n", want: "hello world"},
		{name: "tabs", in: "a\tb", want: "a b"},
		{name: "escape sequences stripped", in: "\x1b[31mred\x1b[0m", want: "red"},
		{name: "control chars dropped", in: "a\x07b\x00c", want: "abc"},
		{name: "accents kept", in: "Élodie à Montréal", want: "Élodie à Montréal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizePaste(tt.in); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizePasteCapsLength(t *testing.T) {
	got := SanitizePaste(strings.Repeat("é", MaxPaste+50))
	if n := utf8.RuneCountInString(got); n != MaxPaste {
		t.Fatalf("expected %d runes, got %d", MaxPaste, n)
	}
}
