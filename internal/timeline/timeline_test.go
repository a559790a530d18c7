package timeline

import (
	"testing"
	"time"

	"github.com/ppiankov/milestones/internal/locale"
	"github.com/ppiankov/milestones/internal/model"
)

func ms(title string, y int, m time.Month, d int, line int) model.Milestone {
	return model.Milestone{
		Date:     time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Title:    title,
		Document: title + ".md",
		Line:     line,
	}
}

func TestSort(t *testing.T) {
	in := []model.Milestone{
		ms("b", 2001, time.March, 1, 1),
		ms("a", 1999, time.January, 1, 4),
		ms("b", 1999, time.January, 1, 2),
		ms("a", 1999, time.January, 1, 3),
	}

	asc := Sort(in, model.SortAscending)
	want := []struct {
		title string
		line  int
	}{{"a", 3}, {"a", 4}, {"b", 2}, {"b", 1}}
	for i, w := range want {
		if asc[i].Title != w.title || asc[i].Line != w.line {
			t.Errorf("asc[%d] = %s:%d, want %s:%d", i, asc[i].Title, asc[i].Line, w.title, w.line)
		}
	}

	desc := Sort(in, model.SortDescending)
	if desc[0].Date.Year() != 2001 || desc[1].Title != "a" || desc[1].Line != 3 {
		t.Errorf("unexpected descending order %+v", desc)
	}

	if in[0].Title != "b" || in[0].Date.Year() != 2001 {
		t.Error("expected input slice to be left untouched")
	}
}

func TestGroup(t *testing.T) {
	var in []model.Milestone
	in = append(in, ms("x", 1990, time.May, 1, 1))
	for i := 0; i < 3; i++ {
		in = append(in, ms("y", 2000, time.January, 2, i))
	}
	in = append(in, ms("y", 2000, time.June, 2, 9))

	groups := Group(in, Options{MonthThreshold: 4})
	if len(groups) != 2 {
		t.Fatalf("expected 2 year groups, got %d", len(groups))
	}
	if groups[0].Year != 1990 || groups[0].Banded() || len(groups[0].Milestones) != 1 {
		t.Errorf("unexpected 1990 group %+v", groups[0])
	}
	if !groups[1].Banded() || len(groups[1].Months) != 2 {
		t.Fatalf("expected 2000 to be split into 2 months, got %+v", groups[1])
	}
	if groups[1].Months[0].Month != time.January || len(groups[1].Months[0].Milestones) != 3 {
		t.Errorf("unexpected January band %+v", groups[1].Months[0])
	}
	if !groups[0].Marker {
		t.Error("expected year markers by default")
	}
}

func TestGroup_YearMarkers(t *testing.T) {
	in := []model.Milestone{ms("x", 1990, time.May, 1, 1)}

	tests := []struct {
		name string
		opts Options
		want bool
	}{
		{"year only off", Options{}, true},
		{"year only on, markers kept", Options{IncludeYearOnly: true, ShowYearMarkersWithYearOnly: true}, true},
		{"year only on, markers hidden", Options{IncludeYearOnly: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Group(in, tt.opts)[0].Marker; got != tt.want {
				t.Errorf("expected marker=%v, got %v", tt.want, got)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	a := ms("Paris Trip", 1995, time.December, 20, 1)
	a.Context = "Arrived in Paris"
	b := ms("Budget", 2024, time.March, 15, 2)
	b.Heading = "Finance"

	tests := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"paris", 1},
		{"ptr", 1},     // subsequence of "paris trip"
		{"2024-03", 1}, // formatted date
		{"finance", 1},
		{"budget.md", 1},
		{"zzz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := Filter([]model.Milestone{a, b}, tt.query); len(got) != tt.want {
				t.Errorf("Filter(%q) returned %d, want %d", tt.query, len(got), tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	fr := locale.Default().Lookup("fr")

	yearOnly := ms("a", 1953, time.July, 1, 0)
	yearOnly.Uncertain = true
	monthYear := ms("a", 1947, time.March, 15, 0)
	monthYear.Uncertain = true
	certain := ms("a", 1947, time.March, 15, 0)

	tests := []struct {
		name string
		m    model.Milestone
		loc  *locale.Config
		want string
	}{
		{"year only", yearOnly, nil, "1953"},
		{"month year en", monthYear, nil, "March 1947"},
		{"month year fr", monthYear, fr, "Mars 1947"},
		{"certain", certain, fr, "1947-03-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDate(tt.m, tt.loc); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
