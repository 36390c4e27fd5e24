package graph

import (
	"slices"

	"github.com/poiesic/notegraph/core"
)

// Expand performs a breadth-first expansion from the seed set, following
// outgoing links and backlinks at each hop. Seeds sit at depth 0 and are
// always included; each node is visited at most once across the whole
// traversal, so cycles terminate. The returned IDs cover every node
// within depth hops of a seed, in ascending order.
func (g *Graph) Expand(seedIds []core.ID, depth int) []core.ID {
	snap := g.snapshot.Load()

	visited := make(map[core.ID]bool, len(seedIds))
	frontier := make([]core.ID, 0, len(seedIds))
	for _, id := range seedIds {
		if visited[id] {
			continue
		}
		visited[id] = true
		frontier = append(frontier, id)
	}

	for hop := 0; hop < depth && len(frontier) > 0; hop++ {
		var next []core.ID
		for _, id := range frontier {
			for _, neighbor := range snap.neighbors(id) {
				if visited[neighbor] {
					continue
				}
				visited[neighbor] = true
				next = append(next, neighbor)
			}
		}
		frontier = next
	}

	result := make([]core.ID, 0, len(visited))
	for id := range visited {
		result = append(result, id)
	}
	slices.Sort(result)
	return result
}

// FindPath returns the shortest sequence of IDs connecting start to end
// over the combined (outgoing + backlink) adjacency, inclusive of both
// endpoints. When several shortest paths exist, breadth-first traversal
// visiting the lexicographically smallest neighbor first makes the result
// reproducible. Searches beyond maxHops, or between disconnected nodes,
// signal ErrUnreachable. FindPath(a, a) returns the single-element path.
func (g *Graph) FindPath(start, end core.ID, maxHops int) ([]core.ID, error) {
	if start == end {
		return []core.ID{start}, nil
	}

	snap := g.snapshot.Load()

	prev := map[core.ID]core.ID{start: start}
	frontier := []core.ID{start}

	for hop := 0; hop < maxHops && len(frontier) > 0; hop++ {
		var next []core.ID
		for _, id := range frontier {
			// neighbors() yields ascending IDs, so the first discovery of a
			// node is always via its smallest predecessor at that depth.
			for _, neighbor := range snap.neighbors(id) {
				if _, seen := prev[neighbor]; seen {
					continue
				}
				prev[neighbor] = id
				if neighbor == end {
					return assemblePath(prev, start, end), nil
				}
				next = append(next, neighbor)
			}
		}
		frontier = next
	}

	return nil, ErrUnreachable
}

func assemblePath(prev map[core.ID]core.ID, start, end core.ID) []core.ID {
	path := []core.ID{end}
	for cur := end; cur != start; {
		cur = prev[cur]
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path
}
