// Package dateparse resolves candidate date strings into calendar dates.
//
// A parse either succeeds with a Result or reports false; it never returns an
// error, because a candidate that fails validation is simply not a date.
package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/ppiankov/milestones/internal/locale"
	"github.com/ppiankov/milestones/internal/model"
)

// Year bounds accepted by every notation
const (
	MinYear = 1000
	MaxYear = 2100
)

// Defaults used when parts of a date are missing
const (
	MidYearMonth  = 6  // July, 0-based
	MidMonthDay   = 15 // month known, day unknown
	YearOnlyDay   = 1  // year-only dates resolve to July 1
	TwoDigitPivot = 30 // yy >= 30 -> 19yy, yy < 30 -> 20yy
)

// Result is a resolved date. Partial is set when the day and/or month were
// not written in the source and were defaulted.
type Result struct {
	Date    time.Time
	Partial bool
}

var (
	placeholderRe  = regexp.MustCompile(`(?i)^(\d{1,2}|dd|mm)[-/](\d{1,2}|dd|mm)[-/](\d{4}|yyyy)$`)
	hasPlaceholder = regexp.MustCompile(`(?i)dd|mm|yyyy`)
	yearOnlyRe     = regexp.MustCompile(`^(\d{4})$`)
	yearMonthRe    = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)
	numeric4Re     = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{4})$`)
	numeric2Re     = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{2})$`)
	isoRe          = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})(?:[T ]\S*)?$`)
	spaceRe        = regexp.MustCompile(`\s+`)
)

// Layouts tried by the fallback parser before the locale-aware textual forms
var fallbackLayouts = []string{
	time.RFC3339,
	time.RFC1123,
	time.RFC1123Z,
	time.RFC850,
	"Mon Jan 2 2006",
	"Mon, 2 Jan 2006",
}

// Parse resolves text using one locale. Notations are tried in a fixed
// order and the first that matches decides the outcome.
func Parse(text string, format model.DateFormat, loc *locale.Config) (Result, bool) {
	if loc == nil {
		loc = locale.Default().Lookup(locale.DefaultCode)
	}

	s := strings.TrimSpace(norm.NFC.String(text))
	if s == "" {
		return Result{}, false
	}
	s = loc.StripOrdinals(s)

	// 1. Placeholder-incomplete numeric date: 05/dd/1985, mm/15/1985
	if m := placeholderRe.FindStringSubmatch(s); m != nil && hasPlaceholder.MatchString(s) {
		return parsePlaceholder(m[1], m[2], m[3], format)
	}

	// 2. Month name + year: "Mars 1947", "1958年8月"
	if m := loc.Exact.MonthYear.FindStringSubmatch(s); m != nil {
		return monthYear(loc, m[1], m[2])
	}
	if loc.Exact.YearMonth != nil {
		if m := loc.Exact.YearMonth.FindStringSubmatch(s); m != nil {
			return monthYear(loc, m[2], m[1])
		}
	}

	// 3. Year only
	if m := yearOnlyRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		if !validYear(year) {
			return Result{}, false
		}
		return Result{Date: date(year, MidYearMonth, YearOnlyDay), Partial: true}, true
	}

	// 4. Year-month: 2001-03
	if m := yearMonthRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if !validYear(year) || month < 1 || month > 12 {
			return Result{}, false
		}
		return Result{Date: date(year, month-1, MidMonthDay), Partial: true}, true
	}

	// 5. Numeric date with a 4-digit year
	if m := numeric4Re.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[3])
		return numericDate(m[1], m[2], year, format)
	}

	// 6. Numeric date with a 2-digit year
	if m := numeric2Re.FindStringSubmatch(s); m != nil {
		yy, _ := strconv.Atoi(m[3])
		return numericDate(m[1], m[2], ExpandYear(yy), format)
	}

	// 7. Unambiguous textual or ISO forms
	return fallback(s, loc)
}

// ExpandYear maps a 2-digit year onto 1930-2029
func ExpandYear(yy int) int {
	if yy >= TwoDigitPivot {
		return 1900 + yy
	}
	return 2000 + yy
}

func parsePlaceholder(first, second, third string, format model.DateFormat) (Result, bool) {
	if strings.EqualFold(third, "yyyy") {
		return Result{}, false
	}
	year, _ := strconv.Atoi(third)
	if !validYear(year) {
		return Result{}, false
	}

	monthTok, dayTok := first, second
	if format == model.DateFormatInternational {
		monthTok, dayTok = second, first
	}

	month := MidYearMonth + 1
	switch {
	case strings.EqualFold(monthTok, "mm"):
	case strings.EqualFold(monthTok, "dd"):
		return Result{}, false
	default:
		month, _ = strconv.Atoi(monthTok)
	}

	day := MidMonthDay
	switch {
	case strings.EqualFold(dayTok, "dd"):
	case strings.EqualFold(dayTok, "mm"):
		return Result{}, false
	default:
		day, _ = strconv.Atoi(dayTok)
	}

	t, ok := validDate(year, month, day)
	if !ok {
		return Result{}, false
	}
	return Result{Date: t, Partial: true}, true
}

func monthYear(loc *locale.Config, monthStr, yearStr string) (Result, bool) {
	month, ok := loc.Month(monthStr)
	year, _ := strconv.Atoi(yearStr)
	if !ok || !validYear(year) {
		return Result{}, false
	}
	return Result{Date: date(year, month, MidMonthDay), Partial: true}, true
}

func numericDate(first, second string, year int, format model.DateFormat) (Result, bool) {
	a, _ := strconv.Atoi(first)
	b, _ := strconv.Atoi(second)

	month, day := a, b
	if format == model.DateFormatInternational {
		month, day = b, a
	}

	t, ok := validDate(year, month, day)
	if !ok {
		return Result{}, false
	}
	return Result{Date: t}, true
}

func fallback(s string, loc *locale.Config) (Result, bool) {
	s = spaceRe.ReplaceAllString(s, " ")

	if m := isoRe.FindStringSubmatch(s); m != nil {
		return complete(m[1], m[2], m[3])
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if tt, ok := validDate(t.Year(), int(t.Month()), t.Day()); ok {
				return Result{Date: tt}, true
			}
			return Result{}, false
		}
	}

	if m := loc.Exact.MonthDayYear.FindStringSubmatch(s); m != nil {
		return textual(loc, m[1], m[2], m[3])
	}
	if m := loc.Exact.DayMonthYear.FindStringSubmatch(s); m != nil {
		return textual(loc, m[2], m[1], m[3])
	}
	if m := loc.Exact.YearMonthDay.FindStringSubmatch(s); m != nil {
		return textual(loc, m[2], m[3], m[1])
	}
	return Result{}, false
}

func complete(yearStr, monthStr, dayStr string) (Result, bool) {
	year, _ := strconv.Atoi(yearStr)
	month, _ := strconv.Atoi(monthStr)
	day, _ := strconv.Atoi(dayStr)
	t, ok := validDate(year, month, day)
	if !ok {
		return Result{}, false
	}
	return Result{Date: t}, true
}

func textual(loc *locale.Config, monthStr, dayStr, yearStr string) (Result, bool) {
	month, ok := loc.Month(monthStr)
	if !ok {
		return Result{}, false
	}
	year, _ := strconv.Atoi(yearStr)
	day, _ := strconv.Atoi(dayStr)
	t, ok := validDate(year, month+1, day)
	if !ok {
		return Result{}, false
	}
	return Result{Date: t}, true
}

// validDate builds a date from a 1-based month and checks that it round-trips
func validDate(year, month, day int) (time.Time, bool) {
	if !validYear(year) || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := date(year, month-1, day)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func validYear(year int) bool {
	return year >= MinYear && year <= MaxYear
}

// date builds midnight UTC from a 0-based month
func date(year, month0, day int) time.Time {
	return time.Date(year, time.Month(month0+1), day, 0, 0, 0, 0, time.UTC)
}
