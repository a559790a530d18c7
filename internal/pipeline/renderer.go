package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ppiankov/milestones/internal/locale"
	"github.com/ppiankov/milestones/internal/model"
	"github.com/ppiankov/milestones/internal/timeline"
)

const stdoutPath = "-"

// Renderer writes reports as JSON, a Markdown timeline or an HTML timeline
type Renderer struct {
	opts          timeline.Options
	loc           *locale.Config
	showFileLinks bool
	stdout        io.Writer
}

// NewRenderer creates a renderer using the timeline settings of cfg and
// loc's month names
func NewRenderer(cfg *model.Config, loc *locale.Config) *Renderer {
	return &Renderer{
		opts:          timeline.OptionsFromConfig(cfg),
		loc:           loc,
		showFileLinks: cfg.Timeline.ShowFileLinks,
		stdout:        os.Stdout,
	}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	return r.write(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	})
}

// RenderMarkdown writes the report as a Markdown timeline
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return r.write(path, func(w io.Writer) error {
		return r.WriteMarkdown(w, report)
	})
}

// RenderHTML writes the report as a standalone HTML page
func (r *Renderer) RenderHTML(report *model.Report, path string) error {
	return r.write(path, func(w io.Writer) error {
		return r.WriteHTML(w, report)
	})
}

func (r *Renderer) write(path string, fn func(io.Writer) error) (err error) {
	if path == stdoutPath {
		return fn(r.stdout)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()
	return fn(f)
}

// WriteMarkdown renders year headings, month headings for dense years and
// one bullet per milestone
func (r *Renderer) WriteMarkdown(w io.Writer, report *model.Report) error {
	var b strings.Builder

	b.WriteString("# Timeline\n\n")
	b.WriteString(r.summaryLine(report))
	b.WriteString("\n")

	for _, g := range timeline.Group(report.Milestones, r.opts) {
		if g.Marker {
			fmt.Fprintf(&b, "\n## %d\n\n", g.Year)
		} else {
			b.WriteString("\n")
		}
		if !g.Banded() {
			for _, m := range g.Milestones {
				b.WriteString(r.markdownItem(m))
			}
			continue
		}
		for i, mg := range g.Months {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "### %s\n\n", timeline.MonthName(mg.Month, r.loc))
			for _, m := range mg.Milestones {
				b.WriteString(r.markdownItem(m))
			}
		}
	}

	if len(report.Failures) > 0 {
		b.WriteString("\n## Failures\n\n")
		for _, f := range report.Failures {
			fmt.Fprintf(&b, "- `%s`: %s\n", f.Path, f.Error)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Renderer) markdownItem(m model.Milestone) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- **%s**", timeline.FormatDate(m, r.loc))
	if m.Uncertain {
		b.WriteString(" ~")
	}
	if r.showFileLinks {
		fmt.Fprintf(&b, " [[%s]]", m.Title)
	} else {
		fmt.Fprintf(&b, " %s", m.Title)
	}
	if m.Heading != "" {
		fmt.Fprintf(&b, " › %s", m.Heading)
	}
	if m.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", m.Line)
	}
	if m.Context != "" {
		fmt.Fprintf(&b, ": %s", strings.ReplaceAll(m.Context, "\n", " "))
	}
	b.WriteString("\n")
	return b.String()
}

func (r *Renderer) summaryLine(report *model.Report) string {
	s := report.Stats
	line := fmt.Sprintf("_%d milestones from %d documents", s.Total, report.Documents)
	if s.Total > 0 {
		line += fmt.Sprintf(", %d to %d", s.FirstYear, s.LastYear)
	}
	return line + "_\n"
}

// WriteHTML renders the timeline as an HTML document built from a node tree
func (r *Renderer) WriteHTML(w io.Writer, report *model.Report) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html, "lang", r.loc.Code)
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, "charset", "utf-8"))
	head.AppendChild(withText(element(atom.Title), "Timeline"))
	root.AppendChild(head)

	body := element(atom.Body)
	root.AppendChild(body)
	body.AppendChild(withText(element(atom.H1), "Timeline"))
	body.AppendChild(withText(element(atom.P, "class", "summary"), strings.Trim(strings.TrimSpace(r.summaryLine(report)), "_")))

	for _, g := range timeline.Group(report.Milestones, r.opts) {
		section := element(atom.Section, "class", "year", "id", fmt.Sprintf("y%d", g.Year))
		body.AppendChild(section)
		if g.Marker {
			section.AppendChild(withText(element(atom.H2), fmt.Sprintf("%d", g.Year)))
		}
		if !g.Banded() {
			section.AppendChild(r.htmlList(g.Milestones))
			continue
		}
		for _, mg := range g.Months {
			section.AppendChild(withText(element(atom.H3, "class", "month"), timeline.MonthName(mg.Month, r.loc)))
			section.AppendChild(r.htmlList(mg.Milestones))
		}
	}

	if len(report.Failures) > 0 {
		section := element(atom.Section, "class", "failures")
		section.AppendChild(withText(element(atom.H2), "Failures"))
		ul := element(atom.Ul)
		for _, f := range report.Failures {
			ul.AppendChild(withText(element(atom.Li), f.Path+": "+f.Error))
		}
		section.AppendChild(ul)
		body.AppendChild(section)
	}

	return html.Render(w, doc)
}

func (r *Renderer) htmlList(ms []model.Milestone) *html.Node {
	ul := element(atom.Ul, "class", "milestones")
	for _, m := range ms {
		class := "milestone"
		if m.Uncertain {
			class += " uncertain"
		}
		li := element(atom.Li, "class", class, "data-origin", string(m.Origin))
		li.AppendChild(withText(element(atom.Time, "datetime", m.Date.Format("2006-01-02")), timeline.FormatDate(m, r.loc)))
		li.AppendChild(&html.Node{Type: html.TextNode, Data: " "})

		if r.showFileLinks {
			href := filepath.ToSlash(m.Document)
			if m.Line > 0 {
				href += fmt.Sprintf("#L%d", m.Line)
			}
			li.AppendChild(withText(element(atom.A, "href", href, "class", "title"), m.Title))
		} else {
			li.AppendChild(withText(element(atom.Span, "class", "title"), m.Title))
		}
		if m.Heading != "" {
			li.AppendChild(withText(element(atom.Span, "class", "heading"), " › "+m.Heading))
		}
		if m.Context != "" {
			li.AppendChild(withText(element(atom.P, "class", "context"), m.Context))
		}
		ul.AppendChild(li)
	}
	return ul
}

// element builds an element node from key/value attribute pairs
func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func withText(n *html.Node, text string) *html.Node {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}

// RenderSummary prints a short scan summary
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	s := report.Stats
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  Timeline: %s\n", report.Root)
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  Documents:   %d\n", report.Documents)
	fmt.Fprintf(w, "  Failures:    %d\n", len(report.Failures))
	fmt.Fprintf(w, "  Milestones:  %d (%d uncertain)\n", s.Total, s.Uncertain)
	for _, o := range []model.Origin{model.OriginHeader, model.OriginInline, model.OriginTag, model.OriginLink} {
		if n := s.ByOrigin[o]; n > 0 {
			fmt.Fprintf(w, "    %-9s %d\n", o+":", n)
		}
	}
	if s.Total > 0 {
		fmt.Fprintf(w, "  Span:        %d to %d\n", s.FirstYear, s.LastYear)
	}
	fmt.Fprintf(w, "\n")
}
