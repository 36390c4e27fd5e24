package storage

import (
	"context"
	"iter"

	"github.com/poiesic/notegraph/core"
)

// DocumentRepository provides operations for managing documents.
// Implementations must be thread-safe and support concurrent access.
// The repository is the single source of truth for document content;
// every index is derived from it and can be rebuilt at any time.
type DocumentRepository interface {
	// UpsertDocuments adds documents to storage, fully replacing any
	// existing document with the same Id (replace, not merge).
	// InsertedAt is preserved across replacements; UpdatedAt and the
	// content fingerprint are set automatically.
	// Returns the documents with timestamps and fingerprints populated.
	UpsertDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// GetDocuments retrieves multiple documents by their IDs.
	// Returns only the documents that exist (no error for missing documents).
	GetDocuments(ctx context.Context, ids ...core.ID) ([]*core.Document, error)

	// DeleteDocuments removes documents by their IDs.
	// Returns ErrNotFound if any document doesn't exist.
	DeleteDocuments(ctx context.Context, ids ...core.ID) error

	// AllDocuments returns a lazy, restartable sequence over the current
	// contents, ordered by ID. The sequence may be consumed more than once;
	// each iteration observes a consistent snapshot.
	AllDocuments(ctx context.Context) iter.Seq2[*core.Document, error]

	// CountDocuments returns the number of documents in the store.
	CountDocuments(ctx context.Context) (int, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
