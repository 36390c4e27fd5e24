package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/notegraph/core"
)

// DirSource reads Markdown documents from a directory tree. Hidden
// directories (for example .obsidian) are skipped.
type DirSource struct {
	root   string
	logger *slog.Logger
}

// DirOption configures a DirSource.
type DirOption func(*DirSource)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) DirOption {
	return func(s *DirSource) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewDirSource creates a source rooted at the given directory.
// The directory must already exist.
func NewDirSource(root string, opts ...DirOption) (*DirSource, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("corpus: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("corpus: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, abs)
	}

	s := &DirSource{
		root:   abs,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Root returns the absolute corpus root.
func (s *DirSource) Root() string {
	return s.root
}

// Documents walks the tree and yields one entry per .md file. Unreadable
// files are logged and skipped; the walk continues.
func (s *DirSource) Documents(ctx context.Context) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				if path != s.root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(d.Name(), ".md") {
				return nil
			}

			data, err := os.ReadFile(path)
			if err != nil {
				s.logger.Warn("skipping unreadable file", "path", path, "err", err)
				return nil
			}

			entry, err := parseEntry(path, data)
			if err != nil {
				s.logger.Warn("skipping unparsable file", "path", path, "err", err)
				return nil
			}

			if !yield(entry, nil) {
				return fs.SkipAll
			}
			return nil
		})
		if err != nil {
			yield(Entry{}, fmt.Errorf("corpus: walking %s: %w", s.root, err))
		}
	}
}

// parseEntry builds an Entry from raw Markdown bytes. The note ID is the
// file name without its extension, matching how wikilinks address notes.
func parseEntry(path string, data []byte) (Entry, error) {
	fm, body := splitFrontmatter(data)

	id := core.IDFromPath(path)
	if id == "" {
		return Entry{}, fmt.Errorf("%w: %s", ErrEmptyEntryID, path)
	}

	return Entry{
		Id:          id,
		Path:        path,
		Content:     body,
		Tags:        extractTags(fm),
		Frontmatter: scalarFields(fm),
	}, nil
}
