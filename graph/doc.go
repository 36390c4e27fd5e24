// Package graph builds and traverses the directed link graph over the
// document corpus.
//
// Edges are derived from in-content cross-references ([[wikilinks]] by
// default) and stored as an explicit adjacency table keyed by document
// ID. Cycles are plain data; traversal safety comes from the visited-set
// algorithm, not from the structure. The reverse (backlink) adjacency is
// built in the same pass as the forward edges and is always rebuilt with
// them — it is derived, never independently authoritative.
//
// A rebuilt graph replaces the previous one atomically, so an in-flight
// traversal always operates on a consistent snapshot.
package graph
