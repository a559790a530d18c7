package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/milestones/internal/logger"
	"github.com/ppiankov/milestones/internal/metrics"
	"github.com/ppiankov/milestones/internal/model"
	"github.com/ppiankov/milestones/internal/pipeline"
	"github.com/ppiankov/milestones/internal/timeline"
)

// extractFlags are the extraction overrides shared by scan, batch and years
type extractFlags struct {
	language           string
	dateFormat         string
	yearOnly           bool
	noTags             bool
	includeScreenshots bool
	noCache            bool
	sortOrder          string
	maxBytes           int64
}

func (f *extractFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.language, "lang", "en", "primary locale (en, es, fr, ja)")
	cmd.Flags().StringVar(&f.dateFormat, "date-format", "US", "reading of N/N/YYYY dates (US or International)")
	cmd.Flags().BoolVar(&f.yearOnly, "year-only", false, "also extract bare years such as 1953")
	cmd.Flags().BoolVar(&f.noTags, "no-tags", false, "ignore #date/ and #year/ tags")
	cmd.Flags().BoolVar(&f.includeScreenshots, "include-screenshots", false, "keep dates found inside image embeds")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().StringVar(&f.sortOrder, "sort", "asc", "timeline order (asc or desc)")
	cmd.Flags().Int64Var(&f.maxBytes, "max-bytes", 4<<20, "skip notes larger than this many bytes")
}

// apply overrides cfg with the flags the user actually set
func (f *extractFlags) apply(cmd *cobra.Command, cfg *model.Config) error {
	changed := cmd.Flags().Changed
	if changed("lang") {
		cfg.Extract.Language = f.language
	}
	if changed("date-format") {
		cfg.Extract.DateFormat = model.DateFormat(f.dateFormat)
	}
	if changed("year-only") {
		cfg.Extract.IncludeYearOnly = f.yearOnly
	}
	if changed("no-tags") {
		cfg.Extract.IncludeTagDates = !f.noTags
	}
	if changed("include-screenshots") {
		cfg.Extract.ExcludeScreenshots = !f.includeScreenshots
	}
	if changed("no-cache") {
		cfg.Cache.Enabled = !f.noCache
	}
	if changed("sort") {
		cfg.Timeline.SortOrder = model.SortOrder(strings.ToLower(f.sortOrder))
	}
	if changed("max-bytes") {
		cfg.Concurrency.MaxFileBytes = f.maxBytes
	}
	if cfg.Timeline.SortOrder != model.SortAscending && cfg.Timeline.SortOrder != model.SortDescending {
		return fmt.Errorf("invalid sort order %q (want asc or desc)", cfg.Timeline.SortOrder)
	}
	return cfg.Extract.Validate()
}

// outputFlags select report formats
type outputFlags struct {
	jsonPath string
	mdPath   string
	htmlPath string
	query    string
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.jsonPath, "json", "", "output JSON path (- for stdout)")
	cmd.Flags().StringVar(&f.mdPath, "md", "", "output Markdown timeline path (- for stdout)")
	cmd.Flags().StringVar(&f.htmlPath, "html", "", "output HTML timeline path (- for stdout)")
	cmd.Flags().StringVarP(&f.query, "filter", "f", "", "keep milestones matching this text")
}

// defaults prints a Markdown timeline to stdout when no format was chosen
func (f *outputFlags) defaults() {
	if f.jsonPath == "" && f.mdPath == "" && f.htmlPath == "" {
		f.mdPath = "-"
	}
}

// filter narrows the report to milestones matching the query
func (f *outputFlags) filter(report *model.Report) {
	if f.query == "" {
		return
	}
	report.Milestones = timeline.Filter(report.Milestones, f.query)
	if report.Milestones == nil {
		report.Milestones = []model.Milestone{}
	}
	report.Stats = model.ComputeStats(report.Milestones)
}

// setup loads the configuration, applies command flags and builds a pipeline
func setup(cmd *cobra.Command, flags *extractFlags) (*pipeline.Pipeline, *model.Config, *logger.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	if flags != nil {
		if err := flags.apply(cmd, cfg); err != nil {
			return nil, nil, nil, err
		}
	}

	log := initLogger(cfg)
	p, err := pipeline.NewPipeline(cfg, pipeline.Options{
		Logger:  log,
		Metrics: metrics.New(),
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return p, cfg, log, nil
}

// finish writes the metrics file when requested
func finish(p *pipeline.Pipeline) {
	if metricsFile == "" {
		return
	}
	if err := p.Metrics().WriteFile(metricsFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote metrics: %s\n", metricsFile)
	}
}
