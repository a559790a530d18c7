// Package extract turns markdown note text into milestone records and
// finds bare year references that could be curated into year tags.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/milestones/internal/dateparse"
	"github.com/ppiankov/milestones/internal/locale"
	"github.com/ppiankov/milestones/internal/model"
)

// Extractor finds milestones in documents. It holds only immutable tables
// and is safe for concurrent use.
type Extractor struct {
	registry *locale.Registry
	resolver *dateparse.Resolver
	catalog  []pattern
	links    *regexp.Regexp
}

// NewExtractor creates an extractor over registry, or the built-in locales
// when registry is nil.
func NewExtractor(registry *locale.Registry) *Extractor {
	if registry == nil {
		registry = locale.Default()
	}
	return &Extractor{
		registry: registry,
		resolver: dateparse.NewResolver(registry),
		catalog:  buildCatalog(registry),
		links:    linkPattern(registry),
	}
}

// Registry returns the locales used by the extractor
func (e *Extractor) Registry() *locale.Registry {
	return e.registry
}

// scan carries the per-document state of one extraction
type scan struct {
	e      *Extractor
	doc    model.Document
	cfg    model.ExtractConfig
	loc    *locale.Config
	format model.DateFormat

	seenTimestamps map[int64]bool // resolved from the header
	seen           map[string]bool
	out            []model.Milestone
}

// Extract returns the milestones of doc in discovery order: header fields,
// then body lines top to bottom, then link dates. Parse failures are
// silently skipped.
func (e *Extractor) Extract(doc model.Document, cfg model.ExtractConfig) []model.Milestone {
	src := split(doc.Text)
	fm := parseFrontMatter(src.header)

	format := cfg.DateFormat
	if format == "" {
		format = model.DateFormatUS
	}

	s := &scan{
		e:              e,
		doc:            doc,
		cfg:            cfg,
		loc:            e.registry.Lookup(cfg.Language),
		format:         fm.dateFormat(format),
		seenTimestamps: make(map[int64]bool),
		seen:           make(map[string]bool),
	}

	s.header(src, fm)
	s.body(src)
	s.links(src)
	return s.out
}

func (s *scan) header(src *source, fm frontMatter) {
	if !src.hasHeader {
		return
	}

	noteUncertain := fm.uncertain()
	var excerpt string
	for _, field := range DateFields {
		f, ok := fm.get(field)
		if !ok {
			continue
		}
		res, ok := s.e.resolver.ParseAnyLocale(f.value, s.format, s.loc)
		if !ok {
			continue
		}
		ts := res.Date.Unix()
		if !s.add(fmt.Sprintf("%d|frontmatter|%s", ts, field)) {
			continue
		}
		s.seenTimestamps[ts] = true

		if excerpt == "" {
			excerpt = src.excerpt()
		}
		s.emit(model.Milestone{
			Date:      res.Date,
			Line:      f.line,
			Context:   excerpt,
			Uncertain: res.Partial || noteUncertain,
			Origin:    model.OriginHeader,
		})
	}
}

func (s *scan) body(src *source) {
	var heading string
	for i := src.bodyStart; i < len(src.lines); i++ {
		line := src.lines[i]
		if m := headingRe.FindStringSubmatch(line); m != nil {
			heading = strings.TrimSpace(m[1])
			continue
		}
		s.line(line, i+1, heading)
	}
}

func (s *scan) line(line string, lineNo int, heading string) {
	var (
		matched []span
		embeds  []span
		years   = make(map[int]bool)
		ctx     = lineContext(line)
	)
	if s.cfg.ExcludeScreenshots {
		embeds = embedSpans(line)
	}

	if s.cfg.IncludeTagDates {
		matched = append(matched, s.tags(line, lineNo, heading, ctx, years)...)
	}

	for _, p := range s.e.catalog {
		if p.yearOnly && !s.cfg.IncludeYearOnly {
			continue
		}
		for _, m := range p.re.FindAllStringSubmatchIndex(line, -1) {
			sp := span{m[2], m[3]}
			if overlapsAny(sp, matched) || startsInside(sp.start, embeds) {
				continue
			}
			if linkedDate(s.e.links, line, sp.start, sp.end) {
				matched = append(matched, sp)
				continue
			}
			if p.yearOnly && !bareYear(line, sp.start, sp.end) {
				continue
			}

			text := line[sp.start:sp.end]
			var (
				res dateparse.Result
				ok  bool
			)
			if p.locale != nil {
				res, ok = dateparse.Parse(text, s.format, p.locale)
			} else {
				res, ok = s.e.resolver.ParseAnyLocale(text, s.format, s.loc)
			}
			if !ok {
				continue
			}
			matched = append(matched, sp)

			// A bare year adds nothing when the line already dates that year
			if p.yearOnly {
				if years[res.Date.Year()] {
					continue
				}
			} else {
				years[res.Date.Year()] = true
			}

			ts := res.Date.Unix()
			if s.seenTimestamps[ts] {
				continue
			}
			if !s.add(fmt.Sprintf("%d|%d|%s", ts, lineNo, ctx)) {
				continue
			}
			s.emit(model.Milestone{
				Date:      res.Date,
				Heading:   heading,
				Line:      lineNo,
				Context:   ctx,
				Uncertain: res.Partial,
				Origin:    model.OriginInline,
			})
		}
	}
}

// tags emits #date/ and #year/ tags and returns their spans
func (s *scan) tags(line string, lineNo int, heading, ctx string, years map[int]bool) []span {
	var spans []span

	for _, m := range dateTagRe.FindAllStringSubmatchIndex(line, -1) {
		spans = append(spans, span{m[0], m[1]})
		dateStr := line[m[2]:m[3]] + "-" + line[m[4]:m[5]] + "-" + line[m[6]:m[7]]
		res, ok := dateparse.Parse(dateStr, s.format, s.loc)
		if !ok {
			continue
		}
		years[res.Date.Year()] = true
		ts := res.Date.Unix()
		if s.seenTimestamps[ts] {
			continue
		}
		if !s.add(fmt.Sprintf("%d|%d|tag|%s", ts, lineNo, dateStr)) {
			continue
		}
		s.emit(model.Milestone{
			Date:      res.Date,
			Heading:   heading,
			Line:      lineNo,
			Context:   ctx,
			Uncertain: res.Partial,
			Tag:       true,
			Origin:    model.OriginTag,
		})
	}

	for _, m := range yearTagRe.FindAllStringSubmatchIndex(line, -1) {
		spans = append(spans, span{m[0], m[1]})
		year := line[m[2]:m[3]]
		res, ok := dateparse.Parse(year+"-01-01", s.format, s.loc)
		if !ok {
			continue
		}
		years[res.Date.Year()] = true
		ts := res.Date.Unix()
		if s.seenTimestamps[ts] {
			continue
		}
		if !s.add(fmt.Sprintf("%d|%d|yeartag|%s", ts, lineNo, year)) {
			continue
		}
		s.emit(model.Milestone{
			Date:      res.Date,
			Heading:   heading,
			Line:      lineNo,
			Context:   ctx,
			Uncertain: true,
			Tag:       true,
			Origin:    model.OriginTag,
		})
	}

	return spans
}

// links scans the body as written for [[date]] links
func (s *scan) links(src *source) {
	body := src.body()
	if body == "" {
		return
	}

	for _, m := range s.e.links.FindAllStringSubmatchIndex(body, -1) {
		if s.cfg.ExcludeScreenshots && m[0] > 0 && body[m[0]-1] == '!' {
			continue
		}
		text := body[m[2]:m[3]]
		res, ok := s.e.resolver.ParseAnyLocale(text, s.format, s.loc)
		if !ok {
			continue
		}
		ts := res.Date.Unix()
		if s.seenTimestamps[ts] {
			continue
		}
		if !s.add(fmt.Sprintf("%d|link|%s", ts, text)) {
			continue
		}
		s.emit(model.Milestone{
			Date:      res.Date,
			Line:      src.bodyStart + lineOf(body, m[0]) + 1,
			Context:   "Wiki link: [[" + text + "]]",
			Uncertain: res.Partial,
			Origin:    model.OriginLink,
		})
	}
}

func (s *scan) add(key string) bool {
	if s.seen[key] {
		return false
	}
	s.seen[key] = true
	return true
}

func (s *scan) emit(m model.Milestone) {
	m.Document = s.doc.Path
	m.Title = s.doc.Title
	s.out = append(s.out, m)
}
