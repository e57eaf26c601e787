package countdown

import (
	"fmt"
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. Each takes the component count as its only argument.
const (
	keyYears  = "%d years"
	keyMonths = "%d months"
	keyWeeks  = "%d weeks"
	keyDays   = "%d days"
	keyZero   = "zero countdown"
)

// Formatter renders a Breakdown as text. Hosts may supply their own.
type Formatter interface {
	Format(b Breakdown) string
}

type unitForms struct {
	key         string
	one, others string
}

type localeForms struct {
	tag       language.Tag
	units     []unitForms
	zero      string
	separator string
}

var locales = []localeForms{
	{
		tag: language.English,
		units: []unitForms{
			{keyYears, "%d year", "%d years"},
			{keyMonths, "%d month", "%d months"},
			{keyWeeks, "%d week", "%d weeks"},
			{keyDays, "%d day", "%d days"},
		},
		zero:      "0 days",
		separator: ", ",
	},
	{
		tag: language.German,
		units: []unitForms{
			{keyYears, "%d Jahr", "%d Jahre"},
			{keyMonths, "%d Monat", "%d Monate"},
			{keyWeeks, "%d Woche", "%d Wochen"},
			{keyDays, "%d Tag", "%d Tage"},
		},
		zero:      "0 Tage",
		separator: ", ",
	},
}

var (
	messages = mustBuildCatalog()
	matcher  = language.NewMatcher(SupportedLocales())
)

func mustBuildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, l := range locales {
		for _, u := range l.units {
			msg := plural.Selectf(1, "%d", "=1", u.one, plural.Other, u.others)
			if err := b.Set(l.tag, u.key, msg); err != nil {
				panic(fmt.Sprintf("countdown: building catalog: %v", err))
			}
		}
		if err := b.SetString(l.tag, keyZero, l.zero); err != nil {
			panic(fmt.Sprintf("countdown: building catalog: %v", err))
		}
	}
	return b
}

// SupportedLocales lists the languages with built-in translations. The
// first entry is the fallback.
func SupportedLocales() []language.Tag {
	tags := make([]language.Tag, len(locales))
	for i, l := range locales {
		tags[i] = l.tag
	}
	return tags
}

// TextFormatter joins the non-zero components of a Breakdown, largest
// first, with singular and plural forms of its locale.
type TextFormatter struct {
	tag       language.Tag
	separator string
}

// NewFormatter returns a formatter for the closest supported locale to tag.
func NewFormatter(tag language.Tag) *TextFormatter {
	_, idx, _ := matcher.Match(tag)
	l := locales[idx]
	return &TextFormatter{tag: l.tag, separator: l.separator}
}

// ParseLocale maps a BCP 47 string such as "de" or "en-GB" to a formatter.
func ParseLocale(s string) (*TextFormatter, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", s, err)
	}
	return NewFormatter(tag), nil
}

// Locale returns the language the formatter writes.
func (f *TextFormatter) Locale() language.Tag {
	return f.tag
}

// Format renders b, e.g. "1 year, 2 weeks". A zero breakdown renders as
// the locale's zero text ("0 days").
func (f *TextFormatter) Format(b Breakdown) string {
	p := message.NewPrinter(f.tag, message.Catalog(messages))
	if b.IsZero() {
		return p.Sprintf(keyZero)
	}

	parts := make([]string, 0, 4)
	for _, c := range []struct {
		key string
		n   int
	}{
		{keyYears, b.Years},
		{keyMonths, b.Months},
		{keyWeeks, b.Weeks},
		{keyDays, b.Days},
	} {
		if c.n > 0 {
			parts = append(parts, p.Sprintf(c.key, c.n))
		}
	}
	return strings.Join(parts, f.separator)
}
