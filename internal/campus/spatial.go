package campus

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/vanshika/campusnav/internal/domain"
)

// pointTolerance is the half-size of the box each waypoint occupies in the tree.
const pointTolerance = 1e-9

// waypointEntry wraps a waypoint index for R-tree storage.
type waypointEntry struct {
	idx  int
	bbox rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *waypointEntry) Bounds() rtreego.Rect {
	return e.bbox
}

type spatialIndex struct {
	tree  *rtreego.Rtree
	nodes []domain.Waypoint
}

func newSpatialIndex(nodes []domain.Waypoint) *spatialIndex {
	tree := rtreego.NewTree(2, 4, 16)
	for i, wp := range nodes {
		tree.Insert(&waypointEntry{
			idx:  i,
			bbox: rtreego.Point{wp.X, wp.Y}.ToRect(pointTolerance),
		})
	}
	return &spatialIndex{tree: tree, nodes: nodes}
}

// Nearest returns up to k waypoints closest to (x, y), nearest first. Equal
// distances are ordered by identifier.
func (g *Graph) Nearest(x, y float64, k int) []Step {
	if k <= 0 || len(g.nodes) == 0 {
		return []Step{}
	}
	if k > len(g.nodes) {
		k = len(g.nodes)
	}

	found := g.spatial.tree.NearestNeighbors(k, rtreego.Point{x, y})
	idxs := make([]int, 0, len(found))
	for _, s := range found {
		if e, ok := s.(*waypointEntry); ok && e != nil {
			idxs = append(idxs, e.idx)
		}
	}

	dist := func(i int) float64 {
		wp := g.nodes[i]
		return math.Hypot(wp.X-x, wp.Y-y)
	}
	sort.SliceStable(idxs, func(a, b int) bool {
		da, db := dist(idxs[a]), dist(idxs[b])
		if da != db {
			return da < db
		}
		return g.ids[idxs[a]] < g.ids[idxs[b]]
	})
	return g.steps(idxs)
}
