package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrLineOutOfRange is returned when the target line does not exist
	ErrLineOutOfRange = errors.New("line out of range")
	// ErrYearNotOnLine is returned when the year does not appear on the line
	ErrYearNotOnLine = errors.New("year not found on line")
)

// AddYearTag appends " #year/YYYY" right after the first standalone
// occurrence of year on the 1-based line and returns the new text.
func AddYearTag(text string, line, year int) (string, error) {
	lines := strings.Split(text, "\n")
	if line < 1 || line > len(lines) {
		return "", fmt.Errorf("line %d of %d: %w", line, len(lines), ErrLineOutOfRange)
	}

	y := strconv.Itoa(year)
	re := regexp.MustCompile(`\b` + y + `\b`)
	target := lines[line-1]
	loc := re.FindStringIndex(target)
	if loc == nil {
		return "", fmt.Errorf("year %d on line %d: %w", year, line, ErrYearNotOnLine)
	}

	lines[line-1] = target[:loc[1]] + " #year/" + y + target[loc[1]:]
	return strings.Join(lines, "\n"), nil
}
