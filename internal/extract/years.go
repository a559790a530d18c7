package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/milestones/internal/locale"
	"github.com/ppiankov/milestones/internal/model"
)

const (
	yearWindow     = 20 // bytes inspected on each side of a candidate
	maxYearContext = 80
	yearContextPad = 40
)

var (
	yearCandidateRe = regexp.MustCompile(`\b(1\d{3}|20\d{2}|2100)\b`)
	isoNearRe       = regexp.MustCompile(`\d{4}-\d{1,2}(-\d{1,2})?`)
	slashNearRe     = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`)
	tagNearRe       = regexp.MustCompile(`#(date|year)/`)
	placeholderNear = regexp.MustCompile(`(?i)(dd|mm)/\d{1,2}/\d{2,4}|\d{1,2}/(dd|mm)/\d{2,4}`)
)

// YearScanner flags bare years that are not part of a recognized date
type YearScanner struct {
	registry *locale.Registry
	months   *regexp.Regexp
}

// NewYearScanner creates a scanner over registry, or the built-in locales
// when registry is nil.
func NewYearScanner(registry *locale.Registry) *YearScanner {
	if registry == nil {
		registry = locale.Default()
	}
	return &YearScanner{
		registry: registry,
		months:   regexp.MustCompile(`(?i)(` + registry.MonthAlternation() + `)`),
	}
}

// Scan returns year candidates in doc, top to bottom. The header block and
// comment regions are skipped.
func (y *YearScanner) Scan(doc model.Document) []model.YearRef {
	src := split(doc.Text)

	var refs []model.YearRef
	for i := src.bodyStart; i < len(src.lines); i++ {
		line := src.lines[i]
		for _, m := range yearCandidateRe.FindAllStringSubmatchIndex(line, -1) {
			start, end := m[2], m[3]
			if !isolatedYear(line, start, end) || y.structured(line, start, end) {
				continue
			}
			year, _ := strconv.Atoi(line[start:end])
			refs = append(refs, model.YearRef{
				Year:     year,
				Document: doc.Path,
				Line:     i + 1,
				Column:   utf8.RuneCountInString(line[:start]),
				Context:  yearContext(line, start),
			})
		}
	}
	return refs
}

// ScanYears runs a YearScanner over the built-in locales
func ScanYears(doc model.Document) []model.YearRef {
	return NewYearScanner(nil).Scan(doc)
}

// isolatedYear rejects years glued to digits, dashes, slashes, links and tags
func isolatedYear(line string, start, end int) bool {
	if start > 0 {
		switch line[start-1] {
		case '-', '/':
			return false
		}
		if isDigit(line[start-1]) {
			return false
		}
	}
	if strings.HasSuffix(line[:start], "[[") || strings.HasSuffix(line[:start], "#year/") {
		return false
	}
	if end < len(line) {
		switch line[end] {
		case '-', '/':
			return false
		}
		if isDigit(line[end]) {
			return false
		}
	}
	rest := line[end:]
	return !strings.HasPrefix(rest, "]]") && !strings.HasPrefix(rest, "--")
}

// structured reports whether the window around a year looks like part of a
// written date in any locale.
func (y *YearScanner) structured(line string, start, end int) bool {
	window := line[clampStart(line, start-yearWindow):clampEnd(line, end+yearWindow)]

	if isoNearRe.MatchString(window) || slashNearRe.MatchString(window) {
		return true
	}
	if tagNearRe.MatchString(window) || placeholderNear.MatchString(window) {
		return true
	}
	for _, loc := range y.months.FindAllStringIndex(window, -1) {
		if !letterAt(window, loc[0]-1, true) && !letterAt(window, loc[1], false) {
			return true
		}
	}
	for _, loc := range y.registry.All() {
		if loc.HasOrdinal(window) {
			return true
		}
	}
	return false
}

// letterAt reports whether the rune ending at (or starting at) byte i is a
// Latin letter. Scripts written without spaces have no word boundaries.
func letterAt(s string, i int, before bool) bool {
	if before {
		if i < 0 {
			return false
		}
		r, _ := utf8.DecodeLastRuneInString(s[:i+1])
		return unicode.Is(unicode.Latin, r)
	}
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.Is(unicode.Latin, r)
}

// clampStart moves i back onto a rune boundary within s
func clampStart(s string, i int) int {
	if i <= 0 {
		return 0
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// clampEnd moves i forward onto a rune boundary within s
func clampEnd(s string, i int) int {
	if i >= len(s) {
		return len(s)
	}
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}

func yearContext(line string, start int) string {
	trimmed := strings.TrimSpace(line)
	if utf8.RuneCountInString(trimmed) <= maxYearContext {
		return trimmed
	}

	runes := []rune(line)
	pos := utf8.RuneCountInString(line[:start])
	from := max(0, pos-yearContextPad)
	to := min(len(runes), pos+yearContextPad)

	ctx := strings.TrimSpace(string(runes[from:to]))
	if from > 0 {
		ctx = ellipsis + ctx
	}
	if to < len(runes) {
		ctx += ellipsis
	}
	return ctx
}
