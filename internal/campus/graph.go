// Package campus builds the immutable campus graph and answers shortest-path
// queries against it.
//
// A Graph is constructed once by Build from a normalized domain.MapDocument and
// is read-only afterwards, so a single *Graph may be shared by any number of
// concurrent ShortestPath calls. Reloading a map means building a new Graph and
// publishing it through a Holder.
package campus

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/vanshika/campusnav/internal/domain"
)

// arc is one traversal direction of a corridor.
type arc struct {
	to     int
	weight float64
}

// Graph is the adjacency-list representation of the campus map.
type Graph struct {
	ids     []string
	index   map[string]int
	nodes   []domain.Waypoint
	adj     [][]arc
	edges   int
	spatial *spatialIndex
}

// Neighbor describes one adjacency entry of a waypoint.
type Neighbor struct {
	ID     string
	Weight float64
}

// Build validates doc and produces its graph. Every corridor is inserted in
// both directions with the same weight; duplicate corridors become parallel
// entries. Nodes are indexed in lexical order of their identifiers and
// neighbor lists follow the input edge order, so equal documents always yield
// equal graphs.
//
// Build fails on the first blank or whitespace-padded node id, undeclared edge
// endpoint or invalid weight, and never returns a partially constructed graph.
// Query ids are trimmed before lookup, so a padded id could never be reached.
func Build(doc domain.MapDocument) (*Graph, error) {
	ids := make([]string, 0, len(doc.Nodes))
	for id := range doc.Nodes {
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("%w: %w", ErrInvalidMap, ErrEmptyWaypointID)
		}
		if strings.TrimSpace(id) != id {
			return nil, fmt.Errorf("%w: node %q: %w", ErrInvalidMap, id, ErrPaddedWaypointID)
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	g := &Graph{
		ids:   ids,
		index: make(map[string]int, len(ids)),
		nodes: make([]domain.Waypoint, len(ids)),
		adj:   make([][]arc, len(ids)),
		edges: len(doc.Edges),
	}
	for i, id := range ids {
		wp := doc.Nodes[id]
		wp.ID = id
		g.index[id] = i
		g.nodes[i] = wp
	}

	for i, e := range doc.Edges {
		from, ok := g.index[e.From]
		if !ok {
			return nil, fmt.Errorf("%w: edge %d references %q: %w", ErrInvalidMap, i, e.From, ErrUnknownWaypoint)
		}
		to, ok := g.index[e.To]
		if !ok {
			return nil, fmt.Errorf("%w: edge %d references %q: %w", ErrInvalidMap, i, e.To, ErrUnknownWaypoint)
		}
		if e.Weight < 0 || math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
			return nil, fmt.Errorf("%w: edge %d (%s-%s) weight=%v: %w", ErrInvalidMap, i, e.From, e.To, e.Weight, ErrInvalidWeight)
		}
		g.adj[from] = append(g.adj[from], arc{to: to, weight: e.Weight})
		g.adj[to] = append(g.adj[to], arc{to: from, weight: e.Weight})
	}

	g.spatial = newSpatialIndex(g.nodes)
	return g, nil
}

// NodeCount returns the number of declared waypoints.
func (g *Graph) NodeCount() int { return len(g.ids) }

// EdgeCount returns the number of corridors in the source document, duplicates included.
func (g *Graph) EdgeCount() int { return g.edges }

// Has reports whether id is a declared waypoint.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Waypoint returns the metadata of id.
func (g *Graph) Waypoint(id string) (domain.Waypoint, bool) {
	i, ok := g.index[id]
	if !ok {
		return domain.Waypoint{}, false
	}
	return g.nodes[i], true
}

// IDs returns the waypoint identifiers in lexical order.
func (g *Graph) IDs() []string {
	return append([]string(nil), g.ids...)
}

// Neighbors returns the adjacency list of id in insertion order.
func (g *Graph) Neighbors(id string) ([]Neighbor, error) {
	i, ok := g.index[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownWaypoint)
	}
	out := make([]Neighbor, 0, len(g.adj[i]))
	for _, a := range g.adj[i] {
		out = append(out, Neighbor{ID: g.ids[a.to], Weight: a.weight})
	}
	return out, nil
}

// Isolated lists waypoints that no corridor touches.
func (g *Graph) Isolated() []string {
	var out []string
	for i, arcs := range g.adj {
		if len(arcs) == 0 {
			out = append(out, g.ids[i])
		}
	}
	return out
}

// Components groups waypoints into connected components. Components are
// ordered by their smallest identifier and members are sorted.
func (g *Graph) Components() [][]string {
	seen := make([]bool, len(g.ids))
	var out [][]string
	for start := range g.ids {
		if seen[start] {
			continue
		}
		seen[start] = true
		queue := []int{start}
		var members []string
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			members = append(members, g.ids[u])
			for _, a := range g.adj[u] {
				if !seen[a.to] {
					seen[a.to] = true
					queue = append(queue, a.to)
				}
			}
		}
		sort.Strings(members)
		out = append(out, members)
	}
	return out
}
