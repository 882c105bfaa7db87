package format

import (
	"strings"
	"time"

	"folioterm/internal/i18n"

	"github.com/dustin/go-humanize"
)

var monthsFR = [...]string{"janv.", "févr.", "mars", "avr.", "mai", "juin", "juil.", "août", "sept.", "oct.", "nov.", "déc."}

var dateLayouts = []string{"2006-01-02", "2006-01", "2006"}

// ParseDate accepts YYYY-MM-DD, YYYY-MM or YYYY.
func ParseDate(raw string) (time.Time, string, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, layout, true
		}
	}
	return time.Time{}, "", false
}

// MonthYear renders a date as "Jan 2024" or "janv. 2024". Year-only dates
// render as the bare year; unparseable input is returned unchanged.
func MonthYear(raw string, lang i18n.Lang) string {
	t, layout, ok := ParseDate(raw)
	if !ok {
		return strings.TrimSpace(raw)
	}
	if layout == "2006" {
		return t.Format("2006")
	}
	if lang == i18n.FR {
		return monthsFR[t.Month()-1] + " " + t.Format("2006")
	}
	return t.Format("Jan 2006")
}

// DateRange renders "Jan 2022 – Present". An empty end date with current set,
// or with no end at all, renders the localized "present".
func DateRange(start, end string, current bool, lang i18n.Lang) string {
	from := MonthYear(start, lang)
	to := MonthYear(end, lang)
	if current || to == "" {
		to = i18n.T(lang, "date.present")
	}
	if from == "" {
		return to
	}
	return from + " – " + to
}

var relTimeFR = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "à l'instant", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "%s 1 minute", DivBy: 1},
	{D: time.Hour, Format: "%s %d minutes", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "%s 1 heure", DivBy: 1},
	{D: humanize.Day, Format: "%s %d heures", DivBy: time.Hour},
	{D: 2 * humanize.Day, Format: "%s 1 jour", DivBy: 1},
	{D: humanize.Month, Format: "%s %d jours", DivBy: humanize.Day},
	{D: 2 * humanize.Month, Format: "%s 1 mois", DivBy: 1},
	{D: humanize.Year, Format: "%s %d mois", DivBy: humanize.Month},
	{D: 2 * humanize.Year, Format: "%s 1 an", DivBy: 1},
	{D: humanize.LongTime, Format: "%s %d ans", DivBy: humanize.Year},
}

// Ago renders t relative to now, e.g. "3 minutes ago" or "il y a 3 minutes".
func Ago(t, now time.Time, lang i18n.Lang) string {
	if lang == i18n.FR {
		return humanize.CustomRelTime(t, now, "il y a", "dans", relTimeFR)
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
