package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/milestones/internal/extract"
)

// TagYear appends a #year/ tag after the first occurrence of year on the
// given 1-based line of the note at path. The file is replaced atomically
// and keeps its permissions.
func (p *Pipeline) TagYear(ctx context.Context, path string, line, year int) error {
	doc, err := p.loader.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	updated, err := extract.AddYearTag(doc.Text, line, year)
	if err != nil {
		return fmt.Errorf("%s:%d: %w", path, line, err)
	}

	if err := writeAtomic(path, []byte(updated)); err != nil {
		return err
	}
	p.log.Info().Str("path", path).Int("line", line).Int("year", year).Msg("year tag added")
	return nil
}

func writeAtomic(path string, data []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".milestones-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
