package portfolio

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"folioterm/internal/format"
	"folioterm/internal/i18n"

	"gopkg.in/yaml.v3"
)

//go:embed sample.yaml
var sampleYAML []byte

// Sample returns the bundled demo portfolio.
func Sample() Snapshot {
	s, err := Parse(sampleYAML)
	if err != nil {
		panic(fmt.Sprintf("portfolio: bundled sample is invalid: %v", err))
	}
	return s
}

// Load reads a snapshot from a YAML file. An empty path loads the bundled
// sample.
func Load(path string) (Snapshot, error) {
	if strings.TrimSpace(path) == "" {
		return Sample(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}
	s, err := Parse(b)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load snapshot %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes, defaults and validates a YAML snapshot. Unapproved
// testimonials are dropped.
func Parse(b []byte) (Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Snapshot{}, err
	}
	applyDefaults(&s)
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s.Public(), nil
}

func applyDefaults(s *Snapshot) {
	for i := range s.SkillCategories {
		if s.SkillCategories[i].Key == "" {
			s.SkillCategories[i].Key = format.Slugify(s.SkillCategories[i].Name.Any())
		}
	}
	for i := range s.Projects {
		if s.Projects[i].Slug == "" {
			s.Projects[i].Slug = format.Slugify(s.Projects[i].Title.Any())
		}
	}
	for i := range s.Resumes {
		s.Resumes[i].Lang = i18n.Lang(strings.ToLower(strings.TrimSpace(string(s.Resumes[i].Lang))))
		if s.Resumes[i].FileName == "" {
			s.Resumes[i].FileName = fmt.Sprintf("resume-%s.pdf", s.Resumes[i].Lang)
		}
	}
	if s.Settings == nil {
		s.Settings = map[string]string{}
	}
}

// Validate checks the invariants the terminal relies on.
func (s Snapshot) Validate() error {
	if strings.TrimSpace(s.Profile.Name) == "" {
		return fmt.Errorf("profile.name is required")
	}
	seen := map[i18n.Lang]bool{}
	for i, r := range s.Resumes {
		if !r.Lang.Valid() {
			return fmt.Errorf("resumes[%d]: unsupported language %q", i, r.Lang)
		}
		if seen[r.Lang] {
			return fmt.Errorf("resumes[%d]: duplicate %s resume", i, r.Lang)
		}
		seen[r.Lang] = true
	}
	keys := map[string]bool{}
	for i, c := range s.SkillCategories {
		if c.Key == "" {
			return fmt.Errorf("skill_categories[%d]: name or key is required", i)
		}
		if keys[c.Key] {
			return fmt.Errorf("skill_categories[%d]: duplicate key %q", i, c.Key)
		}
		keys[c.Key] = true
	}
	slugs := map[string]bool{}
	for i, p := range s.Projects {
		if p.Title.IsZero() {
			return fmt.Errorf("projects[%d]: title is required", i)
		}
		if p.Slug == "" {
			return fmt.Errorf("projects[%d]: slug is required", i)
		}
		if slugs[p.Slug] {
			return fmt.Errorf("projects[%d]: duplicate slug %q", i, p.Slug)
		}
		slugs[p.Slug] = true
	}
	for i, t := range s.Testimonials {
		if strings.TrimSpace(t.AuthorName) == "" || t.Content.IsZero() {
			return fmt.Errorf("testimonials[%d]: author_name and content are required", i)
		}
	}
	return nil
}
