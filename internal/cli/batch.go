package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/milestones/internal/pipeline"
	"github.com/ppiankov/milestones/internal/worker"
)

var (
	batchExtract extractFlags
	batchOutput  outputFlags
	concurrency  int
	readsPerSec  float64
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Build a timeline from every note in a vault",
	Long: `Batch walks a vault directory and scans every markdown note in parallel:
- Skips .git, .obsidian, .trash and node_modules
- Reuses cached results for notes that did not change
- Merges all milestones into one sorted timeline
- Lists notes that could not be read instead of failing the run

Example:
  milestones batch ~/vault
  milestones batch ~/vault --concurrency 8 --html timeline.html
  milestones batch ~/vault --year-only --json timeline.json --filter paris`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchExtract.register(batchCmd)
	batchOutput.register(batchCmd)
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().Float64Var(&readsPerSec, "reads-per-second", 0, "max note reads per second per directory (0 = unlimited)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	root := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	p, cfg, log, err := setup(cmd, &batchExtract)
	if err != nil {
		return err
	}
	defer finish(p)

	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}
	if cmd.Flags().Changed("reads-per-second") {
		cfg.Concurrency.ReadsPerSecond = readsPerSec
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Milestones Batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Vault:        %s\n", root)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Locale:       %s (%s)\n", cfg.Extract.Language, cfg.Extract.DateFormat)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	start := time.Now()
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, cfg.Concurrency.ReadsPerSecond, cfg.Concurrency.Burst)
	results, err := processor.ProcessDir(ctx, p.Loader(), root)
	if err != nil {
		return fmt.Errorf("process vault: %w", err)
	}

	scans := make([]*pipeline.ScanResult, len(results))
	for i, r := range results {
		scans[i] = r.Unwrap()
		if r.Error != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Path, r.Error)
		} else if verbose {
			fmt.Fprintf(os.Stderr, "✓ %s (%d)\n", r.Path, len(r.Result.Milestones))
		}
	}

	report := p.BuildReport(root, scans)
	log.LogBatch(root, report.Documents, len(report.Failures), report.Stats.Total, time.Since(start))

	batchOutput.filter(report)
	batchOutput.defaults()

	if err := p.RenderReport(report, batchOutput.jsonPath, batchOutput.mdPath, batchOutput.htmlPath, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}
