package i18n

import (
	"testing"
	"testing/fstest"
)

func TestCatalogsAreComplete(t *testing.T) {
	b := Default()
	for _, lang := range Langs {
		for _, other := range Langs {
			for _, key := range b.Keys(other) {
				if !b.Has(lang, key) {
					t.Fatalf("%s catalog is missing %q defined in %s", lang, key, other)
				}
			}
		}
	}
}

func TestTranslate(t *testing.T) {
	if got := T(EN, "cd.entered", "skills"); got != "Entered skills/" {
		t.Fatalf("unexpected english message %q", got)
	}
	if got := T(FR, "resume.unavailable", "fr"); got != "Aucun CV fr disponible." {
		t.Fatalf("unexpected french message %q", got)
	}
	if got := T(Lang("de"), "cd.root"); got != "Moved to ~/portfolio" {
		t.Fatalf("expected english for unsupported language, got %q", got)
	}
	if got := T(FR, "no.such.key"); got != "no.such.key" {
		t.Fatalf("expected key echoed back, got %q", got)
	}
}

func TestFallbackToBase(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.yaml": {Data: []byte("locale: en\nmessages:\n  hello: Hello %s\n  only.en: English only\n")},
		"locales/fr.yaml": {Data: []byte("locale: fr\nmessages:\n  hello: Bonjour %s\n")},
	}
	b, err := LoadFromFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := b.T(FR, "hello", "Ada"); got != "Bonjour Ada" {
		t.Fatalf("unexpected %q", got)
	}
	if got := b.T(FR, "only.en"); got != "English only" {
		t.Fatalf("expected english fallback, got %q", got)
	}
}

func TestLoadRejectsBadCatalogs(t *testing.T) {
	tests := map[string]fstest.MapFS{
		"empty":       {},
		"mismatch":    {"locales/en.yaml": {Data: []byte("locale: fr\nmessages: {a: b}\n")}},
		"unsupported": {"locales/de.yaml": {Data: []byte("locale: de\nmessages: {a: b}\n")}},
		"no base":     {"locales/fr.yaml": {Data: []byte("locale: fr\nmessages: {a: b}\n")}},
		"no messages": {"locales/en.yaml": {Data: []byte("locale: en\n")}},
	}
	for name, fsys := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFromFS(fsys); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseLang(t *testing.T) {
	tests := []struct {
		in      string
		want    Lang
		wantErr bool
	}{
		{in: "", want: EN},
		{in: "fr", want: FR},
		{in: "fr_CA", want: FR},
		{in: "en-US", want: EN},
		{in: "de", wantErr: true},
		{in: "???", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLang(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseLang(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseLang(%q) = %q, %v want %q", tt.in, got, err, tt.want)
		}
	}
}
