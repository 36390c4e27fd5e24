// Package index provides the derived search indexes of the retrieval
// engine: a similarity index over embeddings, a BM25 lexical index, and
// the score fusion that merges their rankings.
//
// Both indexes are derived, rebuildable structures keyed by document ID.
// They are never a source of truth: losing one only costs re-indexing
// time against the document repository.
//
// # Concurrency
//
// Each index keeps its contents in an immutable snapshot behind an atomic
// pointer. Searches read a snapshot without locking; Rebuild and Add
// construct a fully-built replacement and swap it in atomically, so a
// reader never observes a partially-built index.
package index
