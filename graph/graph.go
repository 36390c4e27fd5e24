package graph

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/poiesic/notegraph/core"
	"github.com/poiesic/notegraph/storage"
)

// Graph is the directed link graph over the document corpus, with the
// derived backlink adjacency. Contents live in an immutable snapshot
// behind an atomic pointer: traversals read one consistent snapshot,
// rebuilds swap in a fully-built replacement.
type Graph struct {
	mu       sync.Mutex // serializes Rebuild
	snapshot atomic.Pointer[graphSnapshot]
	logger   *slog.Logger
}

type graphSnapshot struct {
	outgoing  map[core.ID][]core.ID // sorted neighbor slices
	backlinks map[core.ID][]core.ID // sorted neighbor slices
	nodes     []core.ID             // sorted
	dangling  []core.Link           // references to targets absent from the store
	edgeCount int
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Graph) {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
	}
}

// NewGraph creates an empty link graph.
func NewGraph(opts ...Option) *Graph {
	g := &Graph{logger: slog.Default()}
	g.snapshot.Store(emptySnapshot())
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func emptySnapshot() *graphSnapshot {
	return &graphSnapshot{
		outgoing:  make(map[core.ID][]core.ID),
		backlinks: make(map[core.ID][]core.ID),
	}
}

// Rebuild scans every document's content for cross-references and fully
// replaces both adjacencies (replace, not merge, so edges from deleted
// documents never linger). References whose target is not in the store
// are recorded as dangling and logged, never fatal. Duplicate references
// collapse to a single edge.
func (g *Graph) Rebuild(ctx context.Context, repo storage.DocumentRepository, resolver LinkResolver) error {
	if repo == nil {
		return ErrRepositoryRequired
	}
	if resolver == nil {
		return ErrResolverRequired
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	known := make(map[core.ID]bool)
	refs := make(map[core.ID][]core.ID)
	for doc, err := range repo.AllDocuments(ctx) {
		if err != nil {
			return err
		}
		known[doc.Id] = true

		targets := resolver(doc.Content)
		if len(targets) == 0 {
			continue
		}
		ids := make([]core.ID, 0, len(targets))
		for _, t := range targets {
			ids = append(ids, core.ID(t))
		}
		refs[doc.Id] = ids
	}

	next := emptySnapshot()
	for id := range known {
		next.nodes = append(next.nodes, id)
	}
	slices.Sort(next.nodes)

	for source, targets := range refs {
		seen := make(map[core.ID]bool, len(targets))
		for _, target := range targets {
			if seen[target] {
				continue
			}
			seen[target] = true

			if !known[target] {
				next.dangling = append(next.dangling, core.Link{Source: source, Target: target})
				continue
			}
			next.outgoing[source] = append(next.outgoing[source], target)
			next.backlinks[target] = append(next.backlinks[target], source)
			next.edgeCount++
		}
	}

	for id := range next.outgoing {
		slices.Sort(next.outgoing[id])
	}
	for id := range next.backlinks {
		slices.Sort(next.backlinks[id])
	}
	slices.SortFunc(next.dangling, func(a, b core.Link) int {
		if a.Source != b.Source {
			if a.Source < b.Source {
				return -1
			}
			return 1
		}
		if a.Target < b.Target {
			return -1
		}
		if a.Target > b.Target {
			return 1
		}
		return 0
	})

	if len(next.dangling) > 0 {
		g.logger.Warn("graph rebuild found dangling links",
			"count", len(next.dangling))
	}
	g.logger.Debug("graph rebuilt",
		"nodes", len(next.nodes), "edges", next.edgeCount)

	g.snapshot.Store(next)
	return nil
}

// Outgoing returns the set of documents the given document links to.
// The result is a copy in ascending ID order.
func (g *Graph) Outgoing(id core.ID) []core.ID {
	return slices.Clone(g.snapshot.Load().outgoing[id])
}

// Backlinks returns the set of documents linking to the given document.
// The result is a copy in ascending ID order.
func (g *Graph) Backlinks(id core.ID) []core.ID {
	return slices.Clone(g.snapshot.Load().backlinks[id])
}

// Contains reports whether the document is a node of the graph.
func (g *Graph) Contains(id core.ID) bool {
	snap := g.snapshot.Load()
	_, found := slices.BinarySearch(snap.nodes, id)
	return found
}

// Nodes returns all node IDs in ascending order.
func (g *Graph) Nodes() []core.ID {
	return slices.Clone(g.snapshot.Load().nodes)
}

// Dangling returns the links whose target has no corresponding document,
// sorted by source then target.
func (g *Graph) Dangling() []core.Link {
	return slices.Clone(g.snapshot.Load().dangling)
}

// EdgeCount returns the number of directed edges between known documents.
func (g *Graph) EdgeCount() int {
	return g.snapshot.Load().edgeCount
}

// neighbors returns the combined outgoing and backlink adjacency of a
// node in ascending ID order, duplicates removed.
func (s *graphSnapshot) neighbors(id core.ID) []core.ID {
	out := s.outgoing[id]
	back := s.backlinks[id]
	if len(out) == 0 && len(back) == 0 {
		return nil
	}

	merged := make([]core.ID, 0, len(out)+len(back))
	merged = append(merged, out...)
	merged = append(merged, back...)
	slices.Sort(merged)
	return slices.Compact(merged)
}
