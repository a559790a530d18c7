// Package locale holds the per-language month and ordinal tables used to
// recognize natural-language dates. Tables and their regular expressions are
// built once and never change afterwards.
package locale

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Patterns is a set of compiled date expressions for one locale.
// YearMonthDay and YearMonth are nil for locales without a year marker
// in the inline set.
type Patterns struct {
	MonthYear    *regexp.Regexp // "Mars 1947"
	MonthDayYear *regexp.Regexp // "March 15, 2001"
	DayMonthYear *regexp.Regexp // "15 de marzo de 1963"
	YearMonthDay *regexp.Regexp // "1958年8月15日"
	YearMonth    *regexp.Regexp // "1958年8月"
}

// Config is the immutable table for one language
type Config struct {
	Code       string
	Name       string
	MonthNames [12]string // display names, index 0 = January

	// MonthPattern is a regexp alternation of every accepted spelling,
	// longest first, without a surrounding group.
	MonthPattern string
	// OrdinalPattern is a regexp alternation of ordinal suffixes, or "".
	OrdinalPattern string
	YearMarker     string

	// Exact patterns are anchored and capture the date parts.
	Exact Patterns
	// Inline patterns scan free text; group 1 is the whole date phrase.
	Inline Patterns

	months  map[string]int
	ordinal *regexp.Regexp
}

// Fold case-folds and NFC-normalizes a month spelling for map lookup
func Fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

func newConfig(t table) *Config {
	c := &Config{
		Code:       t.code,
		Name:       t.name,
		YearMarker: t.yearMarker,
		months:     make(map[string]int),
	}

	var spellings []string
	for i, names := range t.months {
		c.MonthNames[i] = names[0]
		for _, name := range names {
			key := Fold(name)
			if _, dup := c.months[key]; dup {
				continue
			}
			c.months[key] = i
			spellings = append(spellings, norm.NFC.String(name))
		}
	}
	c.MonthPattern = alternation(spellings)
	c.OrdinalPattern = alternation(t.ordinals)

	if c.OrdinalPattern != "" {
		c.ordinal = regexp.MustCompile(`(?i)(\d{1,2})(?:` + c.OrdinalPattern + `)`)
	}

	c.compile(t.connectors)
	return c
}

func (c *Config) compile(connectors []string) {
	month := `(?:` + c.MonthPattern + `)`
	ord := ""
	if c.OrdinalPattern != "" {
		ord = `(?:` + c.OrdinalPattern + `)?`
	}
	lead, trail := "", ""
	if len(connectors) > 0 {
		alt := alternation(connectors)
		lead = `(?:(?:` + alt + `)\s+)?`
		trail = `(?:(?:` + alt + `)\s+)?`
	}

	c.Exact = Patterns{
		MonthYear:    regexp.MustCompile(`(?i)^(` + month + `)\.?\s+(\d{4})$`),
		MonthDayYear: regexp.MustCompile(`(?i)^(?:\p{L}+\.?,?\s+)?(` + month + `)\.?\s+(\d{1,2}),?\s+(\d{4})$`),
		DayMonthYear: regexp.MustCompile(`(?i)^(?:\p{L}+\.?,?\s+)?(\d{1,2})\.?\s+` + lead + `(` + month + `)\.?,?\s+` + trail + `(\d{4})$`),
		YearMonthDay: regexp.MustCompile(`(?i)^(\d{4})\s*` + marker(c.YearMarker) + `\s*(` + month + `)\.?\s*(\d{1,2})$`),
	}
	if c.YearMarker != "" {
		c.Exact.YearMonth = regexp.MustCompile(`(?i)^(\d{4})\s*` + regexp.QuoteMeta(c.YearMarker) + `\s*(` + month + `)$`)
	}

	c.Inline = Patterns{
		MonthYear:    regexp.MustCompile(`(?i)\b(` + month + `\.?\s+\d{4})\b`),
		MonthDayYear: regexp.MustCompile(`(?i)\b(` + month + `\.?\s+\d{1,2}` + ord + `,?\s+\d{4})\b`),
		DayMonthYear: regexp.MustCompile(`(?i)\b(\d{1,2}` + ord + `\.?\s+` + lead + month + `\.?,?\s+` + trail + `\d{4})\b`),
	}
	if c.YearMarker != "" {
		y := regexp.QuoteMeta(c.YearMarker)
		c.Inline.YearMonthDay = regexp.MustCompile(`\b(\d{4}\s*` + y + `\s*` + month + `\s*\d{1,2}` + ord + `)`)
		c.Inline.YearMonth = regexp.MustCompile(`\b(\d{4}\s*` + y + `\s*` + month + `)`)
	}
}

// marker returns an optional year-marker fragment
func marker(m string) string {
	if m == "" {
		return ""
	}
	return `(?:` + regexp.QuoteMeta(m) + `)?`
}

// alternation joins quoted spellings longest first so that full month names
// win over their abbreviations.
func alternation(words []string) string {
	if len(words) == 0 {
		return ""
	}
	sorted := append([]string(nil), words...)
	sort.SliceStable(sorted, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(sorted[i]), utf8.RuneCountInString(sorted[j])
		if li != lj {
			return li > lj
		}
		return sorted[i] < sorted[j]
	})
	quoted := make([]string, len(sorted))
	for i, w := range sorted {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}

// Month resolves a spelling to its 0-based month index
func (c *Config) Month(s string) (int, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), ".")
	idx, ok := c.months[Fold(s)]
	return idx, ok
}

// MonthName returns the display name for a 0-based month index
func (c *Config) MonthName(idx int) string {
	if idx < 0 || idx > 11 {
		return ""
	}
	return c.MonthNames[idx]
}

// StripOrdinals removes ordinal suffixes written directly after a day number,
// e.g. "April 10th, 1992" -> "April 10, 1992". A suffix followed by another
// Latin letter, or a number with more than two digits, is kept.
func (c *Config) StripOrdinals(s string) string {
	if c.ordinal == nil {
		return s
	}
	locs := c.ordinal.FindAllStringSubmatchIndex(s, -1)
	if len(locs) == 0 {
		return s
	}

	var b strings.Builder
	last := 0
	for _, loc := range locs {
		end := loc[1]
		if precededByDigit(s, loc[0]) || followedByLetter(s, end) {
			continue
		}
		b.WriteString(s[last:loc[3]])
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

// HasOrdinal reports whether s contains a day number followed by one of the
// locale's ordinal suffixes.
func (c *Config) HasOrdinal(s string) bool {
	if c.ordinal == nil {
		return false
	}
	for _, loc := range c.ordinal.FindAllStringIndex(s, -1) {
		if !precededByDigit(s, loc[0]) && !followedByLetter(s, loc[1]) {
			return true
		}
	}
	return false
}

func precededByDigit(s string, i int) bool {
	return i > 0 && s[i-1] >= '0' && s[i-1] <= '9'
}

func followedByLetter(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.Is(unicode.Latin, r)
}
