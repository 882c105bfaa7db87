package command

import (
	"strconv"
	"strings"

	"folioterm/internal/format"
	"folioterm/internal/i18n"
	"folioterm/internal/portfolio"
)

// Section is a virtual directory. The empty Section is the root.
type Section string

const (
	Root         Section = ""
	About        Section = "about"
	Skills       Section = "skills"
	Projects     Section = "projects"
	Experience   Section = "experience"
	Education    Section = "education"
	Hobbies      Section = "hobbies"
	Testimonials Section = "testimonials"
	Contact      Section = "contact"
)

// Sections lists every section in listing order.
var Sections = []Section{About, Skills, Projects, Experience, Education, Hobbies, Testimonials, Contact}

var frenchDirs = map[Section]string{
	About:        "a-propos",
	Skills:       "competences",
	Projects:     "projets",
	Experience:   "experience",
	Education:    "formation",
	Hobbies:      "loisirs",
	Testimonials: "temoignages",
	Contact:      "contact",
}

// Title is the localized heading for s.
func (s Section) Title(lang i18n.Lang) string {
	if s == Root {
		return "~/portfolio"
	}
	return i18n.T(lang, "section."+string(s))
}

// Path is the prompt path for s.
func (s Section) Path() string {
	if s == Root {
		return "~/portfolio"
	}
	return "~/portfolio/" + string(s)
}

// Fragment is the page anchor for s; the root has none.
func (s Section) Fragment() string {
	if s == Root {
		return ""
	}
	return "#" + string(s)
}

func (s Section) terms() []string {
	return []string{
		string(s),
		frenchDirs[s],
		format.Normalize(s.Title(i18n.EN)),
		format.Normalize(s.Title(i18n.FR)),
	}
}

// ParseSection accepts a section key, its French directory name or either
// localized title, ignoring case, accents and a trailing slash.
func ParseSection(raw string) (Section, bool) {
	q := format.Normalize(strings.TrimSuffix(strings.TrimSpace(raw), "/"))
	if q == "" {
		return Root, false
	}
	for _, s := range Sections {
		for _, term := range s.terms() {
			if q == term {
				return s, true
			}
		}
	}
	return Root, false
}

// Item is one catalog entry inside a section.
type Item struct {
	Key     string
	Label   string
	Aliases []string
	Brief   string
	Detail  []string
}

const (
	briefLabelWidth = 24
	briefTextWidth  = 52
	wrapWidth       = 72
)

// Items builds the localized entries of s from the snapshot.
func Items(s Section, snap portfolio.Snapshot, lang i18n.Lang) []Item {
	switch s {
	case About:
		return aboutItems(snap, lang)
	case Skills:
		return skillItems(snap, lang)
	case Projects:
		return projectItems(snap, lang)
	case Experience:
		return experienceItems(snap, lang)
	case Education:
		return educationItems(snap, lang)
	case Hobbies:
		return hobbyItems(snap, lang)
	case Testimonials:
		return testimonialItems(snap, lang)
	case Contact:
		return contactItems(snap, lang)
	}
	return nil
}

func detailBlock(title string, body ...string) []string {
	return append(format.Banner(title), body...)
}

func wrapped(prefix, text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []string
	for _, l := range format.Wrap(text, wrapWidth-len(prefix)) {
		out = append(out, prefix+l)
	}
	return out
}

func field(lang i18n.Lang, key, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return format.Pad(i18n.T(lang, key), 12) + value
}

func aboutItems(snap portfolio.Snapshot, lang i18n.Lang) []Item {
	p := snap.Profile
	if strings.TrimSpace(p.Name) == "" {
		return nil
	}
	detail := format.Banner(p.Name)
	if h := p.Headline.In(lang); h != "" {
		detail = append(detail, "  "+h, "")
	}
	detail = append(detail, wrapped("  ", p.Bio.In(lang))...)
	detail = append(detail, "")
	for _, f := range []string{
		field(lang, "field.location", p.Location.In(lang)),
		field(lang, "field.email", p.Email),
		field(lang, "field.website", p.Website),
	} {
		if f != "" {
			detail = append(detail, "  "+f)
		}
	}
	for _, l := range snap.Social {
		detail = append(detail, "  "+format.Pad(l.Platform, 12)+l.URL)
	}
	brief := p.Name
	if h := p.Headline.In(lang); h != "" {
		brief = format.Pad(p.Name, briefLabelWidth) + format.Truncate(h, briefTextWidth)
	}
	return []Item{{
		Key:     "bio",
		Label:   p.Name,
		Aliases: []string{"bio", "about", "profile", p.Name},
		Brief:   brief,
		Detail:  trimTrailingBlank(detail),
	}}
}

func skillItems(snap portfolio.Snapshot, lang i18n.Lang) []Item {
	out := make([]Item, 0, len(snap.SkillCategories))
	for _, c := range snap.SkillCategories {
		name := c.Name.In(lang)
		if name == "" {
			name = c.Key
		}
		names := make([]string, 0, len(c.Skills))
		for _, sk := range c.Skills {
			names = append(names, sk.Name)
		}
		detail := format.Banner(name)
		for _, sk := range c.Skills {
			detail = append(detail, "  "+format.Pad(sk.Name, 22)+levelBar(sk.Level))
		}
		detail = append(detail, "", "  "+i18n.T(lang, "skills.count", len(c.Skills)))
		out = append(out, Item{
			Key:     c.Key,
			Label:   name,
			Aliases: append([]string{c.Key, c.Name.EN, c.Name.FR}, names...),
			Brief:   format.Pad(name, 18) + format.Truncate(strings.Join(names, ", "), 56),
			Detail:  detail,
		})
	}
	return out
}

func levelBar(level int) string {
	if level <= 0 {
		return ""
	}
	level = min(level, 5)
	return strings.Repeat("■", level) + strings.Repeat("□", 5-level)
}

func projectItems(snap portfolio.Snapshot, lang i18n.Lang) []Item {
	out := make([]Item, 0, len(snap.Projects))
	for _, p := range snap.Projects {
		title := p.Title.In(lang)
		body := wrapped("  ", p.Description.In(lang))
		if len(p.Bullets) > 0 {
			body = append(body, "")
			for _, b := range p.Bullets {
				body = append(body, wrapped("  - ", b.In(lang))...)
			}
		}
		body = append(body, "")
		body = append(body,
			"  "+field(lang, "field.tech", strings.Join(p.Skills, ", ")),
			"  "+field(lang, "field.url", p.URL),
			"  "+field(lang, "field.git", p.GitURL),
		)
		label := title
		if p.Featured {
			label = "★ " + title
		}
		out = append(out, Item{
			Key:     p.Slug,
			Label:   title,
			Aliases: []string{p.Slug, p.Title.EN, p.Title.FR},
			Brief:   format.Pad(format.Truncate(label, briefLabelWidth-2), briefLabelWidth) + format.Truncate(p.Description.In(lang), briefTextWidth),
			Detail:  trimTrailingBlank(detailBlock(title, dropBlankFields(body)...)),
		})
	}
	return out
}

func experienceItems(snap portfolio.Snapshot, lang i18n.Lang) []Item {
	out := make([]Item, 0, len(snap.Experience))
	for i, e := range snap.Experience {
		idx := strconv.Itoa(i + 1)
		role := e.Role.In(lang)
		period := format.DateRange(e.Start, e.End, e.Current, lang)
		body := []string{
			"  " + field(lang, "field.company", e.Company),
			"  " + field(lang, "field.period", period),
			"  " + field(lang, "field.location", e.Location.In(lang)),
			"",
		}
		body = append(body, wrapped("  ", e.Description.In(lang))...)
		for _, b := range e.Bullets {
			body = append(body, wrapped("  - ", b.In(lang))...)
		}
		out = append(out, Item{
			Key:     idx,
			Label:   e.Company + ", " + role,
			Aliases: []string{idx, e.Company, e.Role.EN, e.Role.FR},
			Brief:   indexed(idx, e.Company, role, period),
			Detail:  trimTrailingBlank(detailBlock(role+" @ "+e.Company, dropBlankFields(body)...)),
		})
	}
	return out
}

func educationItems(snap portfolio.Snapshot, lang i18n.Lang) []Item {
	out := make([]Item, 0, len(snap.Education))
	for i, e := range snap.Education {
		idx := strconv.Itoa(i + 1)
		degree := strings.TrimSpace(strings.Join(nonEmpty(e.Degree.In(lang), e.Field.In(lang)), ", "))
		period := format.DateRange(e.Start, e.End, e.Current, lang)
		body := []string{
			"  " + field(lang, "field.institution", e.Institution),
			"  " + field(lang, "field.period", period),
			"  " + field(lang, "field.location", e.Location.In(lang)),
			"",
		}
		body = append(body, wrapped("  ", e.Description.In(lang))...)
		out = append(out, Item{
			Key:     idx,
			Label:   e.Institution + ", " + degree,
			Aliases: []string{idx, e.Institution, e.Degree.EN, e.Degree.FR, e.Field.EN, e.Field.FR},
			Brief:   indexed(idx, e.Institution, degree, period),
			Detail:  trimTrailingBlank(detailBlock(degree+" @ "+e.Institution, dropBlankFields(body)...)),
		})
	}
	return out
}

// indexed lays out "[n] company  role  dates" with aligned columns.
func indexed(idx, org, what, period string) string {
	return format.Pad("["+idx+"]", 5) +
		format.Fit(org, 22) + "  " +
		format.Fit(what, 28) + "  " +
		period
}

func hobbyItems(snap portfolio.Snapshot, lang i18n.Lang) []Item {
	out := make([]Item, 0, len(snap.Hobbies))
	for _, h := range snap.Hobbies {
		name := h.Name.In(lang)
		out = append(out, Item{
			Key:     format.Slugify(h.Name.Any()),
			Label:   name,
			Aliases: []string{h.Name.EN, h.Name.FR},
			Brief:   format.Pad(format.Truncate(name, 20), 22) + format.Truncate(h.Description.In(lang), briefTextWidth),
			Detail:  detailBlock(name, wrapped("  ", h.Description.In(lang))...),
		})
	}
	return out
}

func testimonialItems(snap portfolio.Snapshot, lang i18n.Lang) []Item {
	out := make([]Item, 0, len(snap.Testimonials))
	for _, t := range snap.Testimonials {
		if !t.Approved {
			continue
		}
		content := t.Content.In(lang)
		role := strings.Join(nonEmpty(t.AuthorTitle, t.AuthorCompany), ", ")
		body := []string{}
		if role != "" {
			body = append(body, "  "+role, "")
		}
		body = append(body, wrapped("  “", content+"”")...)
		out = append(out, Item{
			Key:     format.Slugify(t.AuthorName),
			Label:   t.AuthorName,
			Aliases: []string{t.AuthorName, t.AuthorCompany},
			Brief:   format.Pad(format.Truncate(t.AuthorName, 20), 22) + "“" + format.Truncate(content, briefTextWidth-2) + "”",
			Detail:  detailBlock(t.AuthorName, body...),
		})
	}
	return out
}

func contactItems(snap portfolio.Snapshot, lang i18n.Lang) []Item {
	p := snap.Profile
	var out []Item
	add := func(key, label, value string, aliases ...string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		out = append(out, Item{
			Key:     key,
			Label:   label,
			Aliases: append([]string{key, label}, aliases...),
			Brief:   format.Pad(label, 14) + value,
			Detail:  detailBlock(label, "  "+value),
		})
	}
	add("email", i18n.T(lang, "field.email"), p.Email, "mail", "courriel")
	add("phone", i18n.T(lang, "field.phone"), p.Phone, "tel", "telephone")
	add("website", i18n.T(lang, "field.website"), p.Website, "site", "web")
	for _, l := range snap.Social {
		add(format.Slugify(l.Platform), l.Platform, l.URL)
	}
	return out
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// dropBlankFields removes lines that are only indentation, left behind by
// empty optional fields, while keeping intentional blank separators.
func dropBlankFields(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l != "" && strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

func trimTrailingBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
