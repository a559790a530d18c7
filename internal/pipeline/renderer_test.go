package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/html"

	"github.com/ppiankov/milestones/internal/locale"
	"github.com/ppiankov/milestones/internal/model"
)

func sampleReport() *model.Report {
	d := func(y int, m time.Month, day int) time.Time { return time.Date(y, m, day, 0, 0, 0, 0, time.UTC) }
	ms := []model.Milestone{
		{Date: d(1947, time.March, 15), Title: "Family", Document: "notes/Family.md", Line: 3, Context: "Arrived in Mars 1947", Uncertain: true, Origin: model.OriginInline},
		{Date: d(1995, time.December, 20), Title: "Paris <Trip>", Document: "Paris.md", Heading: "Travel", Origin: model.OriginHeader},
	}
	return &model.Report{
		Root:       "vault",
		Documents:  2,
		Milestones: ms,
		Failures:   []model.Failure{{Path: "bad.md", Error: "boom"}},
		Stats:      model.ComputeStats(ms),
	}
}

func testRenderer(cfg *model.Config, code string) (*Renderer, *bytes.Buffer) {
	var out bytes.Buffer
	r := NewRenderer(cfg, locale.Default().Lookup(code))
	r.stdout = &out
	return r, &out
}

func TestRenderJSON(t *testing.T) {
	r, out := testRenderer(testConfig(), "en")

	path := filepath.Join(t.TempDir(), "out", "report.json")
	if err := r.RenderJSON(sampleReport(), path); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded model.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded.Milestones) != 2 || decoded.Stats.Total != 2 {
		t.Errorf("unexpected decoded report %+v", decoded)
	}

	if err := r.RenderJSON(sampleReport(), stdoutPath); err != nil {
		t.Fatalf("render to stdout failed: %v", err)
	}
	if !json.Valid(out.Bytes()) {
		t.Errorf("expected JSON on stdout, got %q", out.String())
	}
}

func TestWriteMarkdown(t *testing.T) {
	r, _ := testRenderer(testConfig(), "fr")

	var buf bytes.Buffer
	if err := r.WriteMarkdown(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}
	md := buf.String()

	for _, want := range []string{
		"# Timeline",
		"_2 milestones from 2 documents, 1947 to 1995_",
		"## 1947",
		"- **Mars 1947** ~ [[Family]] (line 3): Arrived in Mars 1947",
		"## 1995",
		"- **1995-12-20** [[Paris <Trip>]] › Travel",
		"## Failures",
		"- `bad.md`: boom",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("expected markdown to contain %q, got:\n%s", want, md)
		}
	}
}

func TestWriteMarkdown_MonthBands(t *testing.T) {
	cfg := testConfig()
	cfg.Timeline.MonthThreshold = 2
	cfg.Timeline.ShowFileLinks = false
	r, _ := testRenderer(cfg, "en")

	d := func(m time.Month) time.Time { return time.Date(2000, m, 2, 0, 0, 0, 0, time.UTC) }
	ms := []model.Milestone{
		{Date: d(time.January), Title: "a"},
		{Date: d(time.June), Title: "b"},
	}
	var buf bytes.Buffer
	if err := r.WriteMarkdown(&buf, &model.Report{Milestones: ms, Stats: model.ComputeStats(ms)}); err != nil {
		t.Fatal(err)
	}
	md := buf.String()

	if !strings.Contains(md, "### January") || !strings.Contains(md, "### June") {
		t.Errorf("expected month headings, got:\n%s", md)
	}
	if strings.Contains(md, "[[") {
		t.Errorf("expected plain titles without file links, got:\n%s", md)
	}
}

func TestWriteHTML(t *testing.T) {
	r, _ := testRenderer(testConfig(), "en")

	var buf bytes.Buffer
	if err := r.WriteHTML(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}
	page := buf.String()

	if !strings.HasPrefix(page, "<!DOCTYPE html>") {
		t.Errorf("expected doctype, got %q", page[:20])
	}
	for _, want := range []string{
		`<time datetime="1947-03-15">March 1947</time>`,
		`<a href="notes/Family.md#L3" class="title">Family</a>`,
		`Paris &lt;Trip&gt;`,
		`class="milestone uncertain"`,
		`<h2>1995</h2>`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("expected HTML to contain %q, got:\n%s", want, page)
		}
	}

	// The output must round-trip through the parser
	if _, err := html.Parse(strings.NewReader(page)); err != nil {
		t.Errorf("rendered HTML does not parse: %v", err)
	}
}

func TestRenderSummary(t *testing.T) {
	r, _ := testRenderer(testConfig(), "en")

	var buf bytes.Buffer
	r.RenderSummary(&buf, sampleReport())
	out := buf.String()
	for _, want := range []string{"Timeline: vault", "Milestones:  2 (1 uncertain)", "header:", "Span:        1947 to 1995"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected summary to contain %q, got:\n%s", want, out)
		}
	}
}
