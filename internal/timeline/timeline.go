// Package timeline orders and groups milestones for presentation.
package timeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/milestones/internal/locale"
	"github.com/ppiankov/milestones/internal/model"
)

// Sort orders milestones by date. Equal dates are ordered by title and then
// line so output is stable across runs. The input slice is not modified.
func Sort(ms []model.Milestone, order model.SortOrder) []model.Milestone {
	out := append([]model.Milestone(nil), ms...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			if order == model.SortDescending {
				return a.Date.After(b.Date)
			}
			return a.Date.Before(b.Date)
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.Line < b.Line
	})
	return out
}

// Options control grouping
type Options struct {
	MonthThreshold              int  // a year with at least this many milestones is split by month
	IncludeYearOnly             bool // bare-year extraction is enabled
	ShowYearMarkersWithYearOnly bool
}

// OptionsFromConfig builds grouping options from the application config
func OptionsFromConfig(cfg *model.Config) Options {
	return Options{
		MonthThreshold:              cfg.Timeline.MonthThreshold,
		IncludeYearOnly:             cfg.Extract.IncludeYearOnly,
		ShowYearMarkersWithYearOnly: cfg.Timeline.ShowYearMarkersWithYearOnly,
	}
}

// YearGroup is one year band of a timeline
type YearGroup struct {
	Year       int
	Marker     bool // render a year heading
	Months     []MonthGroup
	Milestones []model.Milestone
}

// MonthGroup is one month band within a dense year
type MonthGroup struct {
	Month      time.Month
	Milestones []model.Milestone
}

// Banded reports whether the year is split into months
func (g YearGroup) Banded() bool {
	return len(g.Months) > 0
}

// Group splits already sorted milestones into year bands, adding month bands
// to years that reach the threshold. Consecutive runs are grouped, so the
// sort order is kept.
func Group(ms []model.Milestone, opts Options) []YearGroup {
	perYear := make(map[int]int)
	for _, m := range ms {
		perYear[m.Date.Year()]++
	}
	markers := !opts.IncludeYearOnly || opts.ShowYearMarkersWithYearOnly

	var groups []YearGroup
	for _, m := range ms {
		y := m.Date.Year()
		if len(groups) == 0 || groups[len(groups)-1].Year != y {
			groups = append(groups, YearGroup{Year: y, Marker: markers})
		}
		g := &groups[len(groups)-1]
		g.Milestones = append(g.Milestones, m)

		if opts.MonthThreshold <= 0 || perYear[y] < opts.MonthThreshold {
			continue
		}
		if n := len(g.Months); n == 0 || g.Months[n-1].Month != m.Date.Month() {
			g.Months = append(g.Months, MonthGroup{Month: m.Date.Month()})
		}
		mg := &g.Months[len(g.Months)-1]
		mg.Milestones = append(mg.Milestones, m)
	}
	return groups
}

// Filter keeps milestones whose title, context, heading, date or document
// contains query, either as a substring or as an in-order subsequence.
func Filter(ms []model.Milestone, query string) []model.Milestone {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return ms
	}

	var out []model.Milestone
	for _, m := range ms {
		fields := []string{m.Title, m.Context, m.Heading, m.Date.Format(isoLayout), m.Document}
		for _, f := range fields {
			if f != "" && fuzzyMatch(strings.ToLower(f), q) {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

func fuzzyMatch(text, query string) bool {
	if strings.Contains(text, query) {
		return true
	}
	q := []rune(query)
	i := 0
	for _, r := range text {
		if i < len(q) && r == q[i] {
			i++
		}
	}
	return i == len(q)
}

const isoLayout = "2006-01-02"

// FormatDate renders a milestone date the way it was written: a year-only
// date as "1953", a month-year date as "March 1953" in loc's language, and
// anything else as YYYY-MM-DD.
func FormatDate(m model.Milestone, loc *locale.Config) string {
	d := m.Date
	if m.Uncertain {
		if d.Month() == time.July && d.Day() == 1 {
			return fmt.Sprintf("%d", d.Year())
		}
		if d.Day() == 15 {
			if loc == nil {
				loc = locale.Default().Lookup(locale.DefaultCode)
			}
			return fmt.Sprintf("%s %d", loc.MonthName(int(d.Month())-1), d.Year())
		}
	}
	return d.Format(isoLayout)
}

// MonthName returns the display name of month in loc's language
func MonthName(month time.Month, loc *locale.Config) string {
	if loc == nil {
		loc = locale.Default().Lookup(locale.DefaultCode)
	}
	return loc.MonthName(int(month) - 1)
}
