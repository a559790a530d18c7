package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// tagCmd represents the tag command
var tagCmd = &cobra.Command{
	Use:   "tag <file> <line> <year>",
	Short: "Add a #year/ tag after a year on a given line",
	Long: `Tag marks a bare year as a milestone by writing " #year/YYYY" right after
its first occurrence on the given 1-based line. Use "milestones years" to
find candidates.

Example:
  milestones tag history.md 12 1945`,
	Args: cobra.ExactArgs(3),
	RunE: runTag,
}

func init() {
	rootCmd.AddCommand(tagCmd)
}

func runTag(cmd *cobra.Command, args []string) error {
	line, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid line %q: %w", args[1], err)
	}
	year, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid year %q: %w", args[2], err)
	}

	p, _, _, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	defer finish(p)

	if err := p.TagYear(context.Background(), args[0], line, year); err != nil {
		return err
	}
	fmt.Printf("✓ Tagged %d on %s:%d\n", year, args[0], line)
	return nil
}
