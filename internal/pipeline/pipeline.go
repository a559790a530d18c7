// Package pipeline loads notes, extracts their milestones and renders
// timeline reports.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/milestones/internal/cache"
	"github.com/ppiankov/milestones/internal/extract"
	"github.com/ppiankov/milestones/internal/locale"
	"github.com/ppiankov/milestones/internal/logger"
	"github.com/ppiankov/milestones/internal/metrics"
	"github.com/ppiankov/milestones/internal/model"
	"github.com/ppiankov/milestones/internal/timeline"
)

// Options carries optional collaborators. Zero values get sensible defaults.
type Options struct {
	Logger   *logger.Logger
	Metrics  *metrics.Metrics
	Cache    cache.Cache // nil builds one from the config
	Registry *locale.Registry
}

// Pipeline orchestrates loading, extraction and rendering
type Pipeline struct {
	loader    *Loader
	extractor *extract.Extractor
	years     *extract.YearScanner
	renderer  *Renderer
	cache     cache.Cache
	log       *logger.Logger
	metrics   *metrics.Metrics
	config    *model.Config
}

// NewPipeline creates a pipeline for cfg. The extraction settings are
// validated here so every scan sees the same snapshot.
func NewPipeline(cfg *model.Config, opts Options) (*Pipeline, error) {
	if err := cfg.Extract.Validate(); err != nil {
		return nil, fmt.Errorf("extract config: %w", err)
	}

	reg := opts.Registry
	if reg == nil {
		reg = locale.Default()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	c := opts.Cache
	if c == nil {
		c = cache.New(cfg.Cache)
	}

	return &Pipeline{
		loader:    NewLoader(cfg.Concurrency.MaxFileBytes),
		extractor: extract.NewExtractor(reg),
		years:     extract.NewYearScanner(reg),
		renderer:  NewRenderer(cfg, reg.Lookup(cfg.Extract.Language)),
		cache:     c,
		log:       log.Component("pipeline"),
		metrics:   m,
		config:    cfg,
	}, nil
}

// Loader returns the document loader
func (p *Pipeline) Loader() *Loader {
	return p.loader
}

// Renderer returns the report renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// Metrics returns the metrics collected by this pipeline
func (p *Pipeline) Metrics() *metrics.Metrics {
	return p.metrics
}

// ScanResult is the outcome of scanning one document
type ScanResult struct {
	Path       string
	Title      string
	Milestones []model.Milestone
	Cached     bool
	Error      error
}

// ScanFile loads one note and extracts its milestones, consulting the result
// cache first
func (p *Pipeline) ScanFile(ctx context.Context, path string) (*ScanResult, error) {
	start := time.Now()

	doc, err := p.loader.Load(ctx, path)
	if err != nil {
		p.metrics.RecordScan(time.Since(start), 0, err)
		p.log.LogScan(path, 0, false, time.Since(start), err)
		return nil, fmt.Errorf("load: %w", err)
	}

	result := &ScanResult{Path: doc.Path, Title: doc.Title}
	key := cache.CacheKey(doc.Path, doc.Text, p.config.Extract.Fingerprint())

	if p.cache != nil {
		if entry, ok := cache.GetEntry(p.cache, key); ok {
			p.metrics.RecordCache(true)
			result.Milestones = entry.Milestones
			result.Cached = true
		} else {
			p.metrics.RecordCache(false)
		}
	}

	if !result.Cached {
		result.Milestones = p.extractor.Extract(doc, p.config.Extract)
		if p.cache != nil {
			entry := &cache.Entry{Milestones: result.Milestones, ScannedAt: time.Now().UTC()}
			if err := cache.SetEntry(p.cache, key, entry, p.config.Cache.DiskTTL); err != nil {
				p.log.Warn().Err(err).Str("path", path).Msg("cache write failed")
			}
		}
	}

	elapsed := time.Since(start)
	p.metrics.RecordScan(elapsed, len(doc.Text), nil)
	p.metrics.RecordMilestones(countOrigins(result.Milestones))
	p.log.LogScan(path, len(result.Milestones), result.Cached, elapsed, nil)

	return result, nil
}

func countOrigins(ms []model.Milestone) map[string]int {
	out := make(map[string]int)
	for _, m := range ms {
		out[string(m.Origin)]++
	}
	return out
}

// BuildReport merges per-document results into one sorted report. Failed
// documents are listed, never dropped silently.
func (p *Pipeline) BuildReport(root string, results []*ScanResult) *model.Report {
	report := &model.Report{
		Root:        root,
		GeneratedAt: time.Now().UTC(),
		Config:      p.config.Extract,
	}

	var all []model.Milestone
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.Error != nil {
			report.Failures = append(report.Failures, model.Failure{Path: r.Path, Error: r.Error.Error()})
			continue
		}
		report.Documents++
		all = append(all, r.Milestones...)
	}

	report.Milestones = timeline.Sort(all, p.config.Timeline.SortOrder)
	if report.Milestones == nil {
		report.Milestones = []model.Milestone{}
	}
	report.Stats = model.ComputeStats(report.Milestones)
	return report
}

// YearsResult holds bare year references across many documents
type YearsResult struct {
	Refs     []model.YearRef `json:"refs"`
	Failures []model.Failure `json:"failures,omitempty"`
}

// ScanYears runs the year-reference scanner over paths with at most
// Concurrency.Workers documents in flight. Unreadable documents are
// reported as failures; only cancellation aborts the scan.
func (p *Pipeline) ScanYears(ctx context.Context, paths []string) (*YearsResult, error) {
	perDoc := make([][]model.YearRef, len(paths))
	var (
		mu       sync.Mutex
		failures []model.Failure
	)

	g, gctx := errgroup.WithContext(ctx)
	workers := p.config.Concurrency.Workers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			doc, err := p.loader.Load(gctx, path)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				p.log.Warn().Err(err).Str("path", path).Msg("year scan skipped document")
				mu.Lock()
				failures = append(failures, model.Failure{Path: path, Error: err.Error()})
				mu.Unlock()
				return nil
			}
			perDoc[i] = p.years.Scan(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan years: %w", err)
	}

	out := &YearsResult{}
	for _, refs := range perDoc {
		out.Refs = append(out.Refs, refs...)
	}
	sort.SliceStable(out.Refs, func(i, j int) bool {
		a, b := out.Refs[i], out.Refs[j]
		if a.Document != b.Document {
			return a.Document < b.Document
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	sort.Slice(failures, func(i, j int) bool { return failures[i].Path < failures[j].Path })
	out.Failures = failures
	p.metrics.YearRefsFound.Add(float64(len(out.Refs)))
	return out, nil
}

// RenderReport renders the report to the requested outputs. An empty path
// skips that format; "-" writes to stdout.
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath, htmlPath string, verbose bool) error {
	outputs := []struct {
		name   string
		path   string
		render func(*model.Report, string) error
	}{
		{"JSON", jsonPath, p.renderer.RenderJSON},
		{"Markdown", mdPath, p.renderer.RenderMarkdown},
		{"HTML", htmlPath, p.renderer.RenderHTML},
	}

	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		if err := o.render(report, o.path); err != nil {
			return fmt.Errorf("render %s: %w", o.name, err)
		}
		if verbose && o.path != stdoutPath {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s: %s\n", o.name, o.path)
		}
	}

	p.renderer.RenderSummary(os.Stderr, report)
	return nil
}
