package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/milestones/internal/model"
)

var (
	// ErrNotMarkdown is returned for files without a markdown extension
	ErrNotMarkdown = errors.New("not a markdown file")
	// ErrTooLarge is returned for files above the configured byte limit
	ErrTooLarge = errors.New("file exceeds size limit")
)

// skipDirs are vault directories that never hold notes
var skipDirs = map[string]bool{
	".git":         true,
	".obsidian":    true,
	".trash":       true,
	"node_modules": true,
}

// Loader reads markdown documents from the local file system
type Loader struct {
	maxBytes int64
}

// NewLoader creates a loader. maxBytes <= 0 disables the size limit.
func NewLoader(maxBytes int64) *Loader {
	return &Loader{maxBytes: maxBytes}
}

// IsMarkdown reports whether path has a markdown extension
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Load reads one note. The document title is the file base name.
func (l *Loader) Load(ctx context.Context, path string) (model.Document, error) {
	if err := ctx.Err(); err != nil {
		return model.Document{}, err
	}
	if !IsMarkdown(path) {
		return model.Document{}, fmt.Errorf("%s: %w", path, ErrNotMarkdown)
	}

	f, err := os.Open(path)
	if err != nil {
		return model.Document{}, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if l.maxBytes > 0 {
		// One extra byte tells a file at the limit from one above it
		r = io.LimitReader(f, l.maxBytes+1)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return model.Document{}, fmt.Errorf("read: %w", err)
	}
	if l.maxBytes > 0 && int64(len(body)) > l.maxBytes {
		return model.Document{}, fmt.Errorf("%s: %w (%d bytes)", path, ErrTooLarge, l.maxBytes)
	}

	return model.NewDocument(path, string(body)), nil
}

// Walk lists the markdown files under root in lexical order. A root that is
// itself a file is returned as the only entry.
func (l *Loader) Walk(ctx context.Context, root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		if !IsMarkdown(root) {
			return nil, fmt.Errorf("%s: %w", root, ErrNotMarkdown)
		}
		return []string{root}, nil
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if IsMarkdown(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return paths, nil
}
