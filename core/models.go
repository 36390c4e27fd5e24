package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is the stable, unique identifier of a document in the store.
// IDs are derived from the document path (extension stripped) so that
// wikilink targets resolve into the same identifier space.
type ID string

// IDFromPath derives a document ID from a corpus path: the file name with
// directories and extension stripped, so "notes/clean_architecture.md" and
// a "[[clean_architecture]]" reference resolve to the same node.
func IDFromPath(path string) ID {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		path = path[i+1:]
	}
	if i := strings.LastIndexByte(path, '.'); i > 0 {
		path = path[:i]
	}
	return ID(path)
}

// FingerprintContent generates a deterministic fingerprint of text content
// using BLAKE2b hashing. Identical content produces identical fingerprints,
// which lets the ingestion pipeline skip re-embedding unchanged documents.
func FingerprintContent(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// Document is a single knowledge-base document with its derived state.
// The store is the sole owner of document content; everything the indexes
// hold is derived from it and rebuildable.
type Document struct {
	Id          ID
	Path        string
	Content     string
	Embedding   []float32         // Vector embedding (populated by the ingestion pipeline; may be empty)
	Tags        []string          // Tags from frontmatter
	Frontmatter map[string]string // Scalar frontmatter fields
	Fingerprint uint64            // Content fingerprint for change detection
	InsertedAt  time.Time         // When the document was first ingested
	UpdatedAt   time.Time         // When the document was last replaced
}

// Link is a directed edge between two documents, derived from a
// cross-reference found in the source document's content. The target may
// not exist in the store (a dangling link).
type Link struct {
	Source ID
	Target ID
}

// Source identifies which retrieval stage produced a scored result.
// Scores from different sources are not directly comparable.
type Source int

const (
	// SourceVector marks results from similarity search over embeddings.
	SourceVector Source = iota + 1
	// SourceKeyword marks results from lexical (BM25) search.
	SourceKeyword
	// SourceFused marks results produced by score fusion of both indexes.
	SourceFused
	// SourceGraph marks results discovered by link-graph expansion.
	SourceGraph
)

// String returns the source name used in logs and CLI output.
func (s Source) String() string {
	switch s {
	case SourceVector:
		return "vector"
	case SourceKeyword:
		return "keyword"
	case SourceFused:
		return "fused"
	case SourceGraph:
		return "graph"
	default:
		return "unknown"
	}
}

// ScoredResult is a document reference with its relevance score and the
// stage that produced it.
type ScoredResult struct {
	DocumentId ID
	Score      float64
	Source     Source
}

// SearchResult pairs a full document with its score and provenance.
type SearchResult struct {
	Document *Document
	Score    float64
	Source   Source
}

// Metrics records per-call retrieval statistics for optional downstream
// token budgeting.
type Metrics struct {
	Candidates   int            // Documents produced by all stages before dedup and truncation
	Returned     int            // Documents in the final context
	PerSource    map[Source]int // Returned documents per originating source
	ContentBytes int            // Total content size of the returned documents
}

// RetrievalContext is the final, ordered result of a retrieval call.
// The sequence is bounded by the caller-supplied budget and each entry is
// annotated with the stage that found it.
type RetrievalContext struct {
	Query   string
	Results []*SearchResult
	Metrics Metrics
}
