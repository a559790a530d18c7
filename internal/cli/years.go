package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	yearsExtract extractFlags
	yearsJSON    bool
	yearsTimeout time.Duration
)

// yearsCmd represents the years command
var yearsCmd = &cobra.Command{
	Use:   "years <dir>",
	Short: "List bare years that could become #year/ tags",
	Long: `Years reports four-digit years in the vault that are not already part of
a full date, a month phrase, an ordinal or a tag. Review the list and tag the
ones that mark events with "milestones tag".

Example:
  milestones years ~/vault
  milestones years ~/vault/history.md --json`,
	Args: cobra.ExactArgs(1),
	RunE: runYears,
}

func init() {
	rootCmd.AddCommand(yearsCmd)

	yearsExtract.register(yearsCmd)
	yearsCmd.Flags().BoolVar(&yearsJSON, "json", false, "print JSON instead of a table")
	yearsCmd.Flags().DurationVar(&yearsTimeout, "timeout", 5*time.Minute, "scan timeout")
}

func runYears(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), yearsTimeout)
	defer cancel()

	p, _, _, err := setup(cmd, &yearsExtract)
	if err != nil {
		return err
	}
	defer finish(p)

	paths, err := p.Loader().Walk(ctx, args[0])
	if err != nil {
		return err
	}

	res, err := p.ScanYears(ctx, paths)
	if err != nil {
		return err
	}
	for _, f := range res.Failures {
		fmt.Fprintf(os.Stderr, "✗ %s: %s\n", f.Path, f.Error)
	}

	if yearsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "YEAR\tLOCATION\tCONTEXT")
	for _, r := range res.Refs {
		fmt.Fprintf(w, "%d\t%s:%d:%d\t%s\n", r.Year, r.Document, r.Line, r.Column+1, r.Context)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n✓ %d year references in %d notes\n", len(res.Refs), len(paths)-len(res.Failures))
	return nil
}
