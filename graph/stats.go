package graph

import (
	"slices"

	"github.com/poiesic/notegraph/core"
)

// Stats summarizes the structure of the link graph.
type Stats struct {
	Nodes          int
	Edges          int
	Dangling       int
	AvgOutDegree   float64
	AvgInDegree    float64
	WeakComponents int
}

// HubNode is a node with its total (in + out) degree.
type HubNode struct {
	Id     core.ID
	Degree int
}

// Stats returns structural statistics for the current graph snapshot.
func (g *Graph) Stats() Stats {
	snap := g.snapshot.Load()

	stats := Stats{
		Nodes:    len(snap.nodes),
		Edges:    snap.edgeCount,
		Dangling: len(snap.dangling),
	}
	if stats.Nodes > 0 {
		stats.AvgOutDegree = float64(snap.edgeCount) / float64(stats.Nodes)
		stats.AvgInDegree = stats.AvgOutDegree
	}
	stats.WeakComponents = snap.weakComponents()
	return stats
}

// Hubs returns the topK most connected nodes by total degree, descending,
// ties broken by ascending ID.
func (g *Graph) Hubs(topK int) []HubNode {
	snap := g.snapshot.Load()

	hubs := make([]HubNode, 0, len(snap.nodes))
	for _, id := range snap.nodes {
		degree := len(snap.outgoing[id]) + len(snap.backlinks[id])
		hubs = append(hubs, HubNode{Id: id, Degree: degree})
	}

	slices.SortFunc(hubs, func(a, b HubNode) int {
		if a.Degree != b.Degree {
			return b.Degree - a.Degree
		}
		if a.Id < b.Id {
			return -1
		}
		if a.Id > b.Id {
			return 1
		}
		return 0
	})

	if len(hubs) > topK {
		hubs = hubs[:topK]
	}
	return hubs
}

// Related finds nodes related to the given node by shared neighbors:
// nodes whose combined adjacency overlaps the target's by at least
// minShared entries. Results are ordered by overlap descending, ties by
// ascending ID.
func (g *Graph) Related(id core.ID, minShared int) []core.ID {
	snap := g.snapshot.Load()

	target := snap.neighbors(id)
	if len(target) == 0 {
		return nil
	}
	targetSet := make(map[core.ID]bool, len(target))
	for _, n := range target {
		targetSet[n] = true
	}

	type overlap struct {
		id     core.ID
		shared int
	}
	var related []overlap
	for _, node := range snap.nodes {
		if node == id {
			continue
		}
		shared := 0
		for _, n := range snap.neighbors(node) {
			if targetSet[n] {
				shared++
			}
		}
		if shared >= minShared {
			related = append(related, overlap{id: node, shared: shared})
		}
	}

	slices.SortFunc(related, func(a, b overlap) int {
		if a.shared != b.shared {
			return b.shared - a.shared
		}
		if a.id < b.id {
			return -1
		}
		if a.id > b.id {
			return 1
		}
		return 0
	})

	result := make([]core.ID, len(related))
	for i, r := range related {
		result[i] = r.id
	}
	return result
}

// weakComponents counts connected components treating edges as
// undirected.
func (s *graphSnapshot) weakComponents() int {
	visited := make(map[core.ID]bool, len(s.nodes))
	components := 0
	for _, node := range s.nodes {
		if visited[node] {
			continue
		}
		components++
		stack := []core.ID{node}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[cur] {
				continue
			}
			visited[cur] = true
			for _, n := range s.neighbors(cur) {
				if !visited[n] {
					stack = append(stack, n)
				}
			}
		}
	}
	return components
}
