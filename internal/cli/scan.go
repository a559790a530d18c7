package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/milestones/internal/pipeline"
)

var (
	scanExtract extractFlags
	scanOutput  outputFlags
	scanTimeout time.Duration
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Extract milestones from a single note",
	Long: `Scan reads one markdown note and lists every date it mentions:
header fields, #date/ and #year/ tags, [[date]] links and free text.

Example:
  milestones scan "Paris Trip.md"
  milestones scan notes/family.md --lang fr --date-format International
  milestones scan notes/family.md --json report.json --html timeline.html`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanExtract.register(scanCmd)
	scanOutput.register(scanCmd)
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 30*time.Second, "scan timeout")
}

func runScan(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	p, cfg, _, err := setup(cmd, &scanExtract)
	if err != nil {
		return err
	}
	defer finish(p)

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning: %s\n", path)
		fmt.Fprintf(os.Stderr, "Locale: %s, dates: %s\n", cfg.Extract.Language, cfg.Extract.DateFormat)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	result, err := p.ScanFile(ctx, path)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Extracted %d milestones", len(result.Milestones))
		if result.Cached {
			fmt.Fprintf(os.Stderr, " (cached)")
		}
		fmt.Fprintln(os.Stderr)
	}

	report := p.BuildReport(path, []*pipeline.ScanResult{result})
	scanOutput.filter(report)
	scanOutput.defaults()

	if err := p.RenderReport(report, scanOutput.jsonPath, scanOutput.mdPath, scanOutput.htmlPath, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}
