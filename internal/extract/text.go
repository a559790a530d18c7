package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	// MaxContextRunes bounds context snippets and header excerpts
	MaxContextRunes = 100
	ellipsis        = "..."
	fence           = "---"
	noPreview       = "No content preview available"
)

var (
	commentRe  = regexp.MustCompile(`(?s)%%.*?%%`)
	headingRe  = regexp.MustCompile(`^#{1,6}\s+(.+)$`)
	leadHashRe = regexp.MustCompile(`^#+\s*`)
	ruleRe     = regexp.MustCompile(`^[-*_]{3,}$`)
	onlyLinkRe = regexp.MustCompile(`^!?\[\[.*\]\]$`)
	onlyImgRe  = regexp.MustCompile(`^!\[[^\]]*\]\([^)]*\)$`)
	embedRe    = regexp.MustCompile(`!\[\[[^\]]+\]\]|!\[[^\]]*\]\([^)]*\)`)
)

// source is a document split into its header block and body lines. Body
// lines keep their source numbering; comment regions are blanked.
type source struct {
	lines     []string // comment-free lines, index i is source line i+1
	raw       []string // lines as written
	header    []string // header lines between the fences
	bodyStart int      // index of the first body line
	hasHeader bool
}

// normalize unifies line endings and Unicode composition
func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return norm.NFC.String(text)
}

// stripComments blanks %% comment %% regions, keeping their line breaks
func stripComments(text string) string {
	return commentRe.ReplaceAllStringFunc(text, func(c string) string {
		return strings.Repeat("\n", strings.Count(c, "\n"))
	})
}

func split(text string) *source {
	text = normalize(text)
	s := &source{
		raw:   strings.Split(text, "\n"),
		lines: strings.Split(stripComments(text), "\n"),
	}

	if len(s.raw) > 0 && s.raw[0] == fence {
		for i := 1; i < len(s.raw); i++ {
			if s.raw[i] == fence {
				s.header = s.raw[1:i]
				s.bodyStart = i + 1
				s.hasHeader = true
				break
			}
		}
	}
	return s
}

// body returns the body text as written, header excluded
func (s *source) body() string {
	if s.bodyStart >= len(s.raw) {
		return ""
	}
	return strings.Join(s.raw[s.bodyStart:], "\n")
}

// excerpt builds the preview used as context for header milestones
func (s *source) excerpt() string {
	var b strings.Builder
	n := 0
	for i := s.bodyStart; i < len(s.lines); i++ {
		trimmed := strings.TrimSpace(s.lines[i])
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || ruleRe.MatchString(trimmed) {
			continue
		}
		if onlyLinkRe.MatchString(trimmed) || onlyImgRe.MatchString(trimmed) {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
			n++
		}
		b.WriteString(trimmed)
		n += utf8.RuneCountInString(trimmed)
		if n >= MaxContextRunes {
			break
		}
	}

	excerpt := b.String()
	if excerpt == "" {
		return noPreview
	}
	if n > MaxContextRunes {
		return truncate(excerpt, MaxContextRunes)
	}

	rest := 0
	for i := s.bodyStart; i < len(s.lines); i++ {
		rest += utf8.RuneCountInString(s.lines[i]) + 1
	}
	if n < MaxContextRunes && rest > n+MaxContextRunes {
		excerpt += ellipsis
	}
	return excerpt
}

// lineContext is the context snippet for a date found on line
func lineContext(line string) string {
	ctx := strings.TrimSpace(leadHashRe.ReplaceAllString(line, ""))
	if utf8.RuneCountInString(ctx) > MaxContextRunes {
		return truncate(ctx, MaxContextRunes)
	}
	return ctx
}

// truncate cuts s to n runes and appends an ellipsis
func truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos] + ellipsis
		}
		i++
	}
	return s
}

type span struct{ start, end int }

func (sp span) overlaps(o span) bool {
	return sp.start < o.end && sp.end > o.start
}

func overlapsAny(sp span, spans []span) bool {
	for _, o := range spans {
		if sp.overlaps(o) {
			return true
		}
	}
	return false
}

func startsInside(pos int, spans []span) bool {
	for _, o := range spans {
		if pos >= o.start && pos < o.end {
			return true
		}
	}
	return false
}

// embedSpans locates ![[file]] and ![alt](path) embeds on a line
func embedSpans(line string) []span {
	var out []span
	for _, loc := range embedRe.FindAllStringIndex(line, -1) {
		out = append(out, span{loc[0], loc[1]})
	}
	return out
}

// linkedDate reports whether line[start:end] is written as a [[...]] link
// that links matches in full, leaving the date to the link scan.
func linkedDate(links *regexp.Regexp, line string, start, end int) bool {
	if !strings.HasSuffix(line[:start], "[[") || !strings.HasPrefix(line[end:], "]]") {
		return false
	}
	link := line[start-2 : end+2]
	loc := links.FindStringIndex(link)
	return loc != nil && loc[0] == 0 && loc[1] == len(link)
}

// lineOf returns the 0-based line index of byte offset off in text
func lineOf(text string, off int) int {
	return strings.Count(text[:off], "\n")
}
