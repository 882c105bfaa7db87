package portfolio

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"folioterm/internal/i18n"
)

func TestSampleLoads(t *testing.T) {
	s := Sample()
	if s.Profile.Name == "" {
		t.Fatalf("expected profile name in sample")
	}
	if len(s.SkillCategories) == 0 || len(s.Projects) == 0 {
		t.Fatalf("expected skills and projects in sample")
	}
	for _, tm := range s.Testimonials {
		if !tm.Approved {
			t.Fatalf("expected unapproved testimonials to be dropped, got %+v", tm)
		}
	}
	if _, ok := s.Resume(i18n.FR); !ok {
		t.Fatalf("expected french resume in sample")
	}
}

func TestParseDefaults(t *testing.T) {
	s, err := Parse([]byte(`
profile: {name: Ada}
skill_categories:
  - name: Data Stores
projects:
  - title: Hello World
resumes:
  - lang: EN
    url: https://example.com/a.pdf
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.SkillCategories[0].Key != "data-stores" {
		t.Fatalf("expected slug key, got %q", s.SkillCategories[0].Key)
	}
	if s.Projects[0].Slug != "hello-world" {
		t.Fatalf("expected project slug, got %q", s.Projects[0].Slug)
	}
	r, ok := s.Resume(i18n.EN)
	if !ok || r.FileName != "resume-en.pdf" {
		t.Fatalf("expected defaulted english resume, got %+v ok=%v", r, ok)
	}
	if s.Settings == nil {
		t.Fatalf("expected settings map")
	}
}

func TestParseSlugFallsBackToFrench(t *testing.T) {
	s, err := Parse([]byte(`
profile: {name: Ada}
skill_categories:
  - name: {fr: Bases de données}
projects:
  - title: {fr: Moteur Analytique}
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := s.SkillCategories[0].Key; got != "bases-de-donnees" {
		t.Fatalf("expected french category key, got %q", got)
	}
	if got := s.Projects[0].Slug; got != "moteur-analytique" {
		t.Fatalf("expected french project slug, got %q", got)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"missing name":     `profile: {name: ""}`,
		"bad resume lang":  "profile: {name: A}\nresumes: [{lang: de, url: x}]",
		"duplicate resume": "profile: {name: A}\nresumes: [{lang: en, url: x}, {lang: en, url: y}]",
		"duplicate skill":  "profile: {name: A}\nskill_categories: [{key: a}, {key: a}]",
		"untitled project": "profile: {name: A}\nprojects: [{url: x}]",
		"duplicate slug":   "profile: {name: A}\nprojects: [{title: Relay}, {slug: relay, title: Other}]",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := os.WriteFile(path, []byte("profile: {name: Grace}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Profile.Name != "Grace" {
		t.Fatalf("unexpected name %q", s.Profile.Name)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected missing file error")
	}
	def, err := Load("")
	if err != nil || def.Profile.Name != Sample().Profile.Name {
		t.Fatalf("expected empty path to load sample, err=%v", err)
	}
}

func TestTextFallback(t *testing.T) {
	txt := Text{EN: "Skills", FR: " "}
	if got := txt.In(i18n.FR); got != "Skills" {
		t.Fatalf("expected english fallback, got %q", got)
	}
	var decoded Text
	if err := json.Unmarshal([]byte(`"plain"`), &decoded); err != nil || decoded.EN != "plain" {
		t.Fatalf("expected scalar json text, got %+v err=%v", decoded, err)
	}
	if err := json.Unmarshal([]byte(`{"en":"a","fr":"b"}`), &decoded); err != nil || decoded.In(i18n.FR) != "b" {
		t.Fatalf("expected object json text, got %+v err=%v", decoded, err)
	}
}

func TestPublicDoesNotMutate(t *testing.T) {
	s := Snapshot{Testimonials: []Testimonial{{AuthorName: "a", Approved: false}, {AuthorName: "b", Approved: true}}}
	pub := s.Public()
	if len(pub.Testimonials) != 1 || len(s.Testimonials) != 2 {
		t.Fatalf("unexpected filtering: pub=%d orig=%d", len(pub.Testimonials), len(s.Testimonials))
	}
	if !strings.EqualFold(pub.Testimonials[0].AuthorName, "b") {
		t.Fatalf("unexpected survivor %+v", pub.Testimonials[0])
	}
}
