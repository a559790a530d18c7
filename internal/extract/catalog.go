package extract

import (
	"regexp"

	"github.com/ppiankov/milestones/internal/locale"
)

// pattern is one entry of the inline catalog. Group 1 of re is the date
// phrase. A nil locale means the phrase is resolved across all locales.
type pattern struct {
	name     string
	re       *regexp.Regexp
	locale   *locale.Config
	yearOnly bool
}

var (
	isoInlineRe      = regexp.MustCompile(`\b(\d{4}-\d{1,2}-\d{1,2})\b`)
	numeric4InlineRe = regexp.MustCompile(`(?i)\b((?:\d{1,2}|dd|mm)[-/](?:\d{1,2}|dd|mm)[-/]\d{4})\b`)
	numeric2InlineRe = regexp.MustCompile(`\b(\d{1,2}[-/]\d{1,2}[-/]\d{2})\b`)
	yearInlineRe     = regexp.MustCompile(`\b(\d{4})\b`)

	dateTagRe = regexp.MustCompile(`#date/(\d{4})/(\d{2})/(\d{2})\b`)
	yearTagRe = regexp.MustCompile(`#year/(1\d{3}|20\d{2}|2100)\b`)
)

// buildCatalog orders patterns from most to least specific: numeric forms
// first, then each textual kind across every locale, then bare years.
func buildCatalog(reg *locale.Registry) []pattern {
	catalog := []pattern{
		{name: "iso", re: isoInlineRe},
		{name: "numeric", re: numeric4InlineRe},
		{name: "numeric-2digit", re: numeric2InlineRe},
	}

	kinds := []struct {
		name string
		pick func(locale.Patterns) *regexp.Regexp
	}{
		{"month-day-year", func(p locale.Patterns) *regexp.Regexp { return p.MonthDayYear }},
		{"day-month-year", func(p locale.Patterns) *regexp.Regexp { return p.DayMonthYear }},
		{"year-month-day", func(p locale.Patterns) *regexp.Regexp { return p.YearMonthDay }},
		{"year-month", func(p locale.Patterns) *regexp.Regexp { return p.YearMonth }},
		{"month-year", func(p locale.Patterns) *regexp.Regexp { return p.MonthYear }},
	}
	for _, k := range kinds {
		for _, loc := range reg.All() {
			if re := k.pick(loc.Inline); re != nil {
				catalog = append(catalog, pattern{name: loc.Code + "/" + k.name, re: re, locale: loc})
			}
		}
	}

	return append(catalog, pattern{name: "year", re: yearInlineRe, yearOnly: true})
}

// linkPattern matches [[2024-03-15]] and [[Mars 1947]] style links
func linkPattern(reg *locale.Registry) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\[\[([\d-]+|(?:` + reg.MonthAlternation() + `)\s+\d{4})\]\]`)
}

// bareYear reports whether line[start:end] is a standalone year token. A
// sentence-ending period is fine; a dotted number such as 12.1953 is not.
func bareYear(line string, start, end int) bool {
	if start > 0 {
		switch prev := line[start-1]; {
		case isDigit(prev), prev == '-', prev == '/', prev == '#':
			return false
		case prev == '.' && start > 1 && isDigit(line[start-2]):
			return false
		}
	}
	if end < len(line) {
		switch next := line[end]; {
		case isDigit(next), next == '-', next == '/':
			return false
		case next == '.' && end+1 < len(line) && isDigit(line[end+1]):
			return false
		}
	}
	return true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
