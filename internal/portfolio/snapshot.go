// Package portfolio defines the read-only content snapshot the terminal
// browses and loads it from YAML.
package portfolio

import (
	"encoding/json"
	"strings"

	"folioterm/internal/i18n"

	"gopkg.in/yaml.v3"
)

// Text is a bilingual field.
type Text struct {
	EN string `yaml:"en" json:"en"`
	FR string `yaml:"fr" json:"fr"`
}

// In returns the field in lang, falling back to English when empty.
func (t Text) In(lang i18n.Lang) string {
	if lang == i18n.FR && strings.TrimSpace(t.FR) != "" {
		return t.FR
	}
	return t.EN
}

// Any returns the English text, or the French one when English is blank.
func (t Text) Any() string {
	if strings.TrimSpace(t.EN) != "" {
		return t.EN
	}
	return t.FR
}

// IsZero reports whether both languages are empty.
func (t Text) IsZero() bool {
	return strings.TrimSpace(t.EN) == "" && strings.TrimSpace(t.FR) == ""
}

// UnmarshalYAML accepts either a plain scalar (English only) or an en/fr map.
func (t *Text) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		t.EN = node.Value
		t.FR = ""
		return nil
	}
	type plain Text
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*t = Text(p)
	return nil
}

// UnmarshalJSON mirrors UnmarshalYAML for JSON payloads.
func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text{EN: s}
		return nil
	}
	type plain Text
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = Text(p)
	return nil
}

// En builds an English-only Text.
func En(s string) Text { return Text{EN: s} }

// Snapshot is every piece of public portfolio content for one session.
type Snapshot struct {
	Profile         Profile           `yaml:"profile" json:"profile"`
	SkillCategories []SkillCategory   `yaml:"skill_categories" json:"skill_categories"`
	Projects        []Project         `yaml:"projects" json:"projects"`
	Experience      []Experience      `yaml:"experience" json:"experience"`
	Education       []Education       `yaml:"education" json:"education"`
	Hobbies         []Hobby           `yaml:"hobbies" json:"hobbies"`
	Testimonials    []Testimonial     `yaml:"testimonials" json:"testimonials"`
	Social          []SocialLink      `yaml:"social" json:"social"`
	Resumes         []Resume          `yaml:"resumes" json:"resumes"`
	Settings        map[string]string `yaml:"settings" json:"settings"`
}

type Profile struct {
	Name     string `yaml:"name" json:"name"`
	Headline Text   `yaml:"headline" json:"headline"`
	Bio      Text   `yaml:"bio" json:"bio"`
	Email    string `yaml:"email" json:"email"`
	Phone    string `yaml:"phone" json:"phone"`
	Location Text   `yaml:"location" json:"location"`
	Website  string `yaml:"website" json:"website"`
}

type SkillCategory struct {
	Key    string  `yaml:"key" json:"key"`
	Name   Text    `yaml:"name" json:"name"`
	Skills []Skill `yaml:"skills" json:"skills"`
}

type Skill struct {
	Name  string `yaml:"name" json:"name"`
	Level int    `yaml:"level" json:"level"`
}

type Project struct {
	Slug        string   `yaml:"slug" json:"slug"`
	Title       Text     `yaml:"title" json:"title"`
	Description Text     `yaml:"description" json:"description"`
	Bullets     []Text   `yaml:"bullets" json:"bullets"`
	Skills      []string `yaml:"skills" json:"skills"`
	URL         string   `yaml:"url" json:"url"`
	GitURL      string   `yaml:"git_url" json:"git_url"`
	Featured    bool     `yaml:"featured" json:"featured"`
}

type Experience struct {
	Company     string `yaml:"company" json:"company"`
	Role        Text   `yaml:"role" json:"role"`
	Location    Text   `yaml:"location" json:"location"`
	Start       string `yaml:"start" json:"start"`
	End         string `yaml:"end" json:"end"`
	Current     bool   `yaml:"current" json:"current"`
	Description Text   `yaml:"description" json:"description"`
	Bullets     []Text `yaml:"bullets" json:"bullets"`
}

type Education struct {
	Institution string `yaml:"institution" json:"institution"`
	Degree      Text   `yaml:"degree" json:"degree"`
	Field       Text   `yaml:"field" json:"field"`
	Location    Text   `yaml:"location" json:"location"`
	Start       string `yaml:"start" json:"start"`
	End         string `yaml:"end" json:"end"`
	Current     bool   `yaml:"current" json:"current"`
	Description Text   `yaml:"description" json:"description"`
}

type Hobby struct {
	Name        Text `yaml:"name" json:"name"`
	Description Text `yaml:"description" json:"description"`
}

type Testimonial struct {
	AuthorName    string `yaml:"author_name" json:"author_name"`
	AuthorTitle   string `yaml:"author_title" json:"author_title"`
	AuthorCompany string `yaml:"author_company" json:"author_company"`
	Content       Text   `yaml:"content" json:"content"`
	Approved      bool   `yaml:"approved" json:"approved"`
}

type SocialLink struct {
	Platform string `yaml:"platform" json:"platform"`
	URL      string `yaml:"url" json:"url"`
}

type Resume struct {
	Lang     i18n.Lang `yaml:"lang" json:"lang"`
	URL      string    `yaml:"url" json:"url"`
	FileName string    `yaml:"file_name" json:"file_name"`
}

// Resume returns the resume on file for lang.
func (s Snapshot) Resume(lang i18n.Lang) (Resume, bool) {
	for _, r := range s.Resumes {
		if r.Lang == lang && strings.TrimSpace(r.URL) != "" {
			return r, true
		}
	}
	return Resume{}, false
}

// Setting returns a site setting or def when unset.
func (s Snapshot) Setting(key, def string) string {
	if v, ok := s.Settings[key]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// Public drops testimonials that are not approved. The receiver is left
// untouched.
func (s Snapshot) Public() Snapshot {
	out := s
	out.Testimonials = make([]Testimonial, 0, len(s.Testimonials))
	for _, t := range s.Testimonials {
		if t.Approved {
			out.Testimonials = append(out.Testimonials, t)
		}
	}
	return out
}
