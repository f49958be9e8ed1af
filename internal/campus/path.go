package campus

import (
	"container/heap"
	"context"
	"math"
)

// cancelCheckInterval is how many frontier pops happen between context checks.
const cancelCheckInterval = 256

// Step is one waypoint of a route, in traversal order.
type Step struct {
	ID   string
	X    float64
	Y    float64
	Name string
}

// Route is the result of a path query. An empty Steps slice means the
// destination cannot be reached from the origin.
type Route struct {
	Steps    []Step
	Distance float64
}

// Found reports whether a path exists.
func (r Route) Found() bool { return len(r.Steps) > 0 }

// ShortestPath returns the minimum total-weight route from origin to
// destination using Dijkstra's algorithm with a lazy decrease-key frontier.
//
// Unknown identifiers are rejected with a *QueryError wrapping
// ErrUnknownWaypoint and no search is attempted. An unreachable destination is
// not an error: the returned Route has no steps. When several routes share the
// minimum weight, the one whose final relaxation happened first is returned;
// callers must not rely on which one that is.
//
// The search allocates its own working state and only reads g. The context is
// polled periodically so a caller deadline can stop a long search.
func (g *Graph) ShortestPath(ctx context.Context, origin, destination string) (Route, error) {
	src, ok := g.index[origin]
	if !ok {
		return Route{}, &QueryError{Field: "origin", ID: origin, Err: ErrUnknownWaypoint}
	}
	dst, ok := g.index[destination]
	if !ok {
		return Route{}, &QueryError{Field: "destination", ID: destination, Err: ErrUnknownWaypoint}
	}

	s := newSearch(g, src)
	if err := s.run(ctx, dst); err != nil {
		return Route{}, err
	}
	if math.IsInf(s.dist[dst], 1) {
		return Route{Steps: []Step{}}, nil
	}

	return Route{
		Steps:    g.steps(s.pathTo(dst)),
		Distance: s.dist[dst],
	}, nil
}

// search holds the mutable state of a single query.
type search struct {
	g        *Graph
	dist     []float64
	prev     []int
	frontier frontier
	seq      uint64
}

func newSearch(g *Graph, src int) *search {
	n := len(g.ids)
	s := &search{
		g:        g,
		dist:     make([]float64, n),
		prev:     make([]int, n),
		frontier: make(frontier, 0, n),
	}
	for i := range s.dist {
		s.dist[i] = math.Inf(1)
		s.prev[i] = -1
	}
	s.dist[src] = 0
	s.push(src, 0)
	return s
}

func (s *search) push(node int, dist float64) {
	heap.Push(&s.frontier, entry{node: node, dist: dist, seq: s.seq})
	s.seq++
}

// run settles nodes until dst is popped or the frontier is exhausted. Popping
// dst ends the search: with non-negative weights its distance is final.
func (s *search) run(ctx context.Context, dst int) error {
	pops := 0
	for s.frontier.Len() > 0 {
		if pops%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		pops++

		item := heap.Pop(&s.frontier).(entry)
		u := item.node
		if u == dst {
			return nil
		}
		if item.dist > s.dist[u] {
			continue
		}

		for _, a := range s.g.adj[u] {
			candidate := item.dist + a.weight
			if candidate < s.dist[a.to] {
				s.dist[a.to] = candidate
				s.prev[a.to] = u
				s.push(a.to, candidate)
			}
		}
	}
	return nil
}

// pathTo walks predecessor pointers back from dst and returns the node
// indices in origin-to-destination order.
func (s *search) pathTo(dst int) []int {
	var rev []int
	for v := dst; v != -1; v = s.prev[v] {
		rev = append(rev, v)
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

func (g *Graph) steps(path []int) []Step {
	out := make([]Step, 0, len(path))
	for _, idx := range path {
		wp := g.nodes[idx]
		out = append(out, Step{ID: wp.ID, X: wp.X, Y: wp.Y, Name: wp.Name})
	}
	return out
}
