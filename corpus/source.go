package corpus

import (
	"context"
	"iter"

	"github.com/poiesic/notegraph/core"
)

// Entry is a raw document read from a corpus, before embedding.
type Entry struct {
	Id          core.ID
	Path        string
	Content     string
	Tags        []string
	Frontmatter map[string]string
}

// Source yields the entries of a document corpus. Iteration is lazy;
// sources must be restartable so callers can make multiple passes.
type Source interface {
	Documents(ctx context.Context) iter.Seq2[Entry, error]
}
