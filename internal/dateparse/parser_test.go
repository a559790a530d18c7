package dateparse

import (
	"testing"
	"time"

	"github.com/ppiankov/milestones/internal/locale"
	"github.com/ppiankov/milestones/internal/model"
)

func ymd(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParse_Precedence(t *testing.T) {
	en := locale.Default().Lookup("en")

	tests := []struct {
		name    string
		input   string
		format  model.DateFormat
		want    time.Time
		partial bool
		ok      bool
	}{
		{"placeholder day", "05/dd/1985", model.DateFormatUS, ymd(1985, time.May, 15), true, true},
		{"placeholder month", "mm/20/1985", model.DateFormatUS, ymd(1985, time.July, 20), true, true},
		{"placeholder both", "MM/DD/1985", model.DateFormatUS, ymd(1985, time.July, 15), true, true},
		{"placeholder international", "dd/05/1985", model.DateFormatInternational, ymd(1985, time.May, 15), true, true},
		{"placeholder wrong slot", "dd/05/1985", model.DateFormatUS, time.Time{}, false, false},
		{"placeholder year", "05/12/yyyy", model.DateFormatUS, time.Time{}, false, false},
		{"month year", "March 2001", model.DateFormatUS, ymd(2001, time.March, 15), true, true},
		{"month year abbreviated", "Sept. 1999", model.DateFormatUS, ymd(1999, time.September, 15), true, true},
		{"year only", "1953", model.DateFormatUS, ymd(1953, time.July, 1), true, true},
		{"year month", "2001-03", model.DateFormatUS, ymd(2001, time.March, 15), true, true},
		{"year month bad", "2001-13", model.DateFormatUS, time.Time{}, false, false},
		{"numeric us", "1/2/1953", model.DateFormatUS, ymd(1953, time.January, 2), false, true},
		{"numeric international", "1/2/1953", model.DateFormatInternational, ymd(1953, time.February, 1), false, true},
		{"numeric dashes", "12-25-1999", model.DateFormatUS, ymd(1999, time.December, 25), false, true},
		{"numeric no round trip", "2/30/2001", model.DateFormatUS, time.Time{}, false, false},
		{"two digit 19xx", "5/6/45", model.DateFormatUS, ymd(1945, time.May, 6), false, true},
		{"two digit 20xx", "5/6/29", model.DateFormatUS, ymd(2029, time.May, 6), false, true},
		{"two digit pivot", "5/6/30", model.DateFormatUS, ymd(1930, time.May, 6), false, true},
		{"iso", "2024-03-15", model.DateFormatUS, ymd(2024, time.March, 15), false, true},
		{"iso with time", "2024-03-15T10:30:00", model.DateFormatUS, ymd(2024, time.March, 15), false, true},
		{"iso slashes", "2024/03/15", model.DateFormatUS, ymd(2024, time.March, 15), false, true},
		{"iso invalid day", "2023-02-29", model.DateFormatUS, time.Time{}, false, false},
		{"leap day", "2024-02-29", model.DateFormatUS, ymd(2024, time.February, 29), false, true},
		{"rfc3339", "2024-03-15T10:30:00Z", model.DateFormatUS, ymd(2024, time.March, 15), false, true},
		{"textual ordinal", "April 10th, 1992", model.DateFormatUS, ymd(1992, time.April, 10), false, true},
		{"textual weekday", "Friday, March 15, 2024", model.DateFormatUS, ymd(2024, time.March, 15), false, true},
		{"textual day first", "15 March 2024", model.DateFormatUS, ymd(2024, time.March, 15), false, true},
		{"garbage", "not a date", model.DateFormatUS, time.Time{}, false, false},
		{"empty", "   ", model.DateFormatUS, time.Time{}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input, tt.format, en)
			if ok != tt.ok {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if !ok {
				return
			}
			if !got.Date.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got.Date, tt.want)
			}
			if got.Partial != tt.partial {
				t.Errorf("Parse(%q) partial = %v, want %v", tt.input, got.Partial, tt.partial)
			}
		})
	}
}

func TestParse_FormatSwap(t *testing.T) {
	en := locale.Default().Lookup("en")

	if _, ok := Parse("13/2/1953", model.DateFormatUS, en); ok {
		t.Error("expected 13/2/1953 to fail under US")
	}
	got, ok := Parse("13/2/1953", model.DateFormatInternational, en)
	if !ok {
		t.Fatal("expected 13/2/1953 to parse under International")
	}
	if !got.Date.Equal(ymd(1953, time.February, 13)) {
		t.Errorf("expected 1953-02-13, got %v", got.Date)
	}

	// Every in-range pair parses to the swapped date under the other preference
	for a := 1; a <= 12; a++ {
		for b := 1; b <= 12; b++ {
			s := itoa(a) + "/" + itoa(b) + "/2001"
			us, ok1 := Parse(s, model.DateFormatUS, en)
			intl, ok2 := Parse(s, model.DateFormatInternational, en)
			if !ok1 || !ok2 {
				t.Fatalf("expected %s to parse under both preferences", s)
			}
			if us.Date.Month() != time.Month(a) || us.Date.Day() != b {
				t.Errorf("US %s = %v", s, us.Date)
			}
			if intl.Date.Month() != time.Month(b) || intl.Date.Day() != a {
				t.Errorf("International %s = %v", s, intl.Date)
			}
		}
	}
}

func TestParse_YearBounds(t *testing.T) {
	en := locale.Default().Lookup("en")

	tests := []struct {
		input string
		ok    bool
	}{
		{"999", false},
		{"0999", false},
		{"1000", true},
		{"2100", true},
		{"2101", false},
		{"March 2101", false},
		{"March 1000", true},
		{"1/1/2101", false},
		{"12/31/2100", true},
		{"0999-12-31", false},
		{"1000-01-01", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if _, ok := Parse(tt.input, model.DateFormatUS, en); ok != tt.ok {
				t.Errorf("Parse(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
		})
	}
}

func TestParse_Locales(t *testing.T) {
	reg := locale.Default()

	tests := []struct {
		code    string
		input   string
		want    time.Time
		partial bool
	}{
		{"fr", "Mars 1947", ymd(1947, time.March, 15), true},
		{"fr", "1er Mai 1945", ymd(1945, time.May, 1), false},
		{"fr", "14 juillet 1789", ymd(1789, time.July, 14), false},
		{"es", "15 de marzo de 1963", ymd(1963, time.March, 15), false},
		{"es", "Enero 2020", ymd(2020, time.January, 15), true},
		{"ja", "1958年8月", ymd(1958, time.August, 15), true},
		{"ja", "1958年8月15日", ymd(1958, time.August, 15), false},
	}

	for _, tt := range tests {
		t.Run(tt.code+"/"+tt.input, func(t *testing.T) {
			got, ok := Parse(tt.input, model.DateFormatUS, reg.Lookup(tt.code))
			if !ok {
				t.Fatalf("Parse(%q) failed", tt.input)
			}
			if !got.Date.Equal(tt.want) || got.Partial != tt.partial {
				t.Errorf("Parse(%q) = %v partial=%v, want %v partial=%v",
					tt.input, got.Date, got.Partial, tt.want, tt.partial)
			}
		})
	}
}

func TestParse_NilLocale(t *testing.T) {
	got, ok := Parse("March 2001", model.DateFormatUS, nil)
	if !ok || !got.Date.Equal(ymd(2001, time.March, 15)) {
		t.Errorf("expected default locale to parse March 2001, got %v ok=%v", got.Date, ok)
	}
}

func TestExpandYear(t *testing.T) {
	tests := map[int]int{0: 2000, 29: 2029, 30: 1930, 99: 1999}
	for in, want := range tests {
		if got := ExpandYear(in); got != want {
			t.Errorf("ExpandYear(%d) = %d, want %d", in, got, want)
		}
	}
}

func itoa(n int) string {
	if n < 10 {
		return string(rune('0' + n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}
