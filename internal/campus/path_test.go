package campus

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/campusnav/internal/domain"
)

func stepIDs(r Route) []string {
	ids := make([]string, 0, len(r.Steps))
	for _, s := range r.Steps {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestShortestPath_PrefersCheaperDetour(t *testing.T) {
	g, err := Build(lineDoc())
	require.NoError(t, err)

	route, err := g.ShortestPath(context.Background(), "n1", "n3")
	require.NoError(t, err)

	assert.Equal(t, []string{"n1", "n2", "n3"}, stepIDs(route))
	assert.Equal(t, 2.0, route.Distance)
	assert.Equal(t, Step{ID: "n1", X: 0, Y: 0, Name: "Entrance"}, route.Steps[0])
	assert.Equal(t, Step{ID: "n3", X: 2, Y: 0, Name: "Library"}, route.Steps[2])
}

func TestShortestPath_UnknownWaypoint(t *testing.T) {
	g, err := Build(lineDoc())
	require.NoError(t, err)

	_, err = g.ShortestPath(context.Background(), "n1", "unknown")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownWaypoint)

	var qe *QueryError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, "destination", qe.Field)
	assert.Equal(t, "unknown", qe.ID)

	_, err = g.ShortestPath(context.Background(), "ghost", "n1")
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, "origin", qe.Field)
}

func TestShortestPath_Unreachable(t *testing.T) {
	g, err := Build(domain.MapDocument{
		Nodes: map[string]domain.Waypoint{"a": {}, "b": {X: 1}},
	})
	require.NoError(t, err)

	route, err := g.ShortestPath(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.False(t, route.Found())
	assert.NotNil(t, route.Steps)
	assert.Empty(t, route.Steps)
}

func TestShortestPath_SelfIsSingleStep(t *testing.T) {
	g, err := Build(lineDoc())
	require.NoError(t, err)

	for _, id := range g.IDs() {
		route, err := g.ShortestPath(context.Background(), id, id)
		require.NoError(t, err)
		assert.Equal(t, []string{id}, stepIDs(route))
		assert.Zero(t, route.Distance)
	}
}

func TestShortestPath_ZeroWeightEdges(t *testing.T) {
	g, err := Build(domain.MapDocument{
		Nodes: map[string]domain.Waypoint{"a": {}, "b": {}, "c": {}, "d": {}},
		Edges: []domain.Corridor{
			{From: "a", To: "b", Weight: 0},
			{From: "b", To: "c", Weight: 0},
			{From: "a", To: "c", Weight: 1},
			{From: "c", To: "d", Weight: 2},
		},
	})
	require.NoError(t, err)

	route, err := g.ShortestPath(context.Background(), "a", "d")
	require.NoError(t, err)
	assert.Equal(t, 2.0, route.Distance)
	assert.Equal(t, []string{"a", "b", "c", "d"}, stepIDs(route))
}

func TestShortestPath_Cancelled(t *testing.T) {
	g, err := Build(lineDoc())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.ShortestPath(ctx, "n1", "n3")
	assert.ErrorIs(t, err, context.Canceled)
}

// randomDoc builds a small graph with integer weights so that path sums are exact.
func randomDoc(r *rand.Rand, n int) domain.MapDocument {
	doc := domain.MapDocument{Nodes: make(map[string]domain.Waypoint, n)}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("w%d", i)
		doc.Nodes[id] = domain.Waypoint{X: float64(i), Y: float64(r.Intn(5))}
	}
	edges := r.Intn(n * 2)
	for i := 0; i < edges; i++ {
		doc.Edges = append(doc.Edges, domain.Corridor{
			From:   fmt.Sprintf("w%d", r.Intn(n)),
			To:     fmt.Sprintf("w%d", r.Intn(n)),
			Weight: float64(r.Intn(10)),
		})
	}
	return doc
}

// bruteForce explores every simple path and returns the cheapest cost, or +Inf.
func bruteForce(doc domain.MapDocument, from, to string) float64 {
	adj := map[string][]domain.Corridor{}
	for _, e := range doc.Edges {
		adj[e.From] = append(adj[e.From], domain.Corridor{From: e.From, To: e.To, Weight: e.Weight})
		adj[e.To] = append(adj[e.To], domain.Corridor{From: e.To, To: e.From, Weight: e.Weight})
	}
	best := math.Inf(1)
	visited := map[string]bool{from: true}
	var walk func(at string, cost float64)
	walk = func(at string, cost float64) {
		if at == to {
			best = math.Min(best, cost)
			return
		}
		for _, e := range adj[at] {
			if visited[e.To] {
				continue
			}
			visited[e.To] = true
			walk(e.To, cost+e.Weight)
			visited[e.To] = false
		}
	}
	walk(from, 0)
	return best
}

// routeCost re-derives the cost of a route from the document, using the
// cheapest corridor between each consecutive pair.
func routeCost(t *testing.T, doc domain.MapDocument, route Route) float64 {
	t.Helper()
	total := 0.0
	for i := 1; i < len(route.Steps); i++ {
		a, b := route.Steps[i-1].ID, route.Steps[i].ID
		cheapest := math.Inf(1)
		for _, e := range doc.Edges {
			if (e.From == a && e.To == b) || (e.From == b && e.To == a) {
				cheapest = math.Min(cheapest, e.Weight)
			}
		}
		require.False(t, math.IsInf(cheapest, 1), "no corridor between %s and %s", a, b)
		total += cheapest
	}
	return total
}

func TestShortestPath_MatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		n := 1 + r.Intn(8)
		doc := randomDoc(r, n)
		g, err := Build(doc)
		require.NoError(t, err)

		for _, from := range g.IDs() {
			for _, to := range g.IDs() {
				route, err := g.ShortestPath(context.Background(), from, to)
				require.NoError(t, err)

				want := bruteForce(doc, from, to)
				if math.IsInf(want, 1) {
					assert.False(t, route.Found(), "trial %d %s->%s should be unreachable", trial, from, to)
					continue
				}
				require.True(t, route.Found(), "trial %d %s->%s should be reachable", trial, from, to)
				assert.Equal(t, want, route.Distance, "trial %d %s->%s", trial, from, to)
				assert.Equal(t, from, route.Steps[0].ID)
				assert.Equal(t, to, route.Steps[len(route.Steps)-1].ID)
				assert.Equal(t, route.Distance, routeCost(t, doc, route))
			}
		}
	}
}

func TestShortestPath_Symmetric(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for trial := 0; trial < 50; trial++ {
		g, err := Build(randomDoc(r, 2+r.Intn(7)))
		require.NoError(t, err)
		for _, a := range g.IDs() {
			for _, b := range g.IDs() {
				ab, err := g.ShortestPath(context.Background(), a, b)
				require.NoError(t, err)
				ba, err := g.ShortestPath(context.Background(), b, a)
				require.NoError(t, err)
				assert.Equal(t, ab.Found(), ba.Found())
				assert.Equal(t, ab.Distance, ba.Distance)
			}
		}
	}
}

func TestShortestPath_DisconnectedComponents(t *testing.T) {
	g, err := Build(domain.MapDocument{
		Nodes: map[string]domain.Waypoint{"a": {}, "b": {}, "c": {}, "d": {}},
		Edges: []domain.Corridor{
			{From: "a", To: "b", Weight: 1},
			{From: "c", To: "d", Weight: 1},
		},
	})
	require.NoError(t, err)

	for _, pair := range [][2]string{{"a", "c"}, {"a", "d"}, {"b", "c"}, {"d", "b"}} {
		route, err := g.ShortestPath(context.Background(), pair[0], pair[1])
		require.NoError(t, err)
		assert.Empty(t, route.Steps, "%s->%s", pair[0], pair[1])
	}
}

func TestShortestPath_Idempotent(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	doc := randomDoc(r, 8)
	g, err := Build(doc)
	require.NoError(t, err)

	first, err := g.ShortestPath(context.Background(), "w0", "w7")
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := g.ShortestPath(context.Background(), "w0", "w7")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestShortestPath_ZeroEdgeNeverIncreasesDistance(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	for trial := 0; trial < 40; trial++ {
		doc := randomDoc(r, 2+r.Intn(7))
		if len(doc.Edges) == 0 {
			continue
		}
		before, err := Build(doc)
		require.NoError(t, err)

		e := doc.Edges[r.Intn(len(doc.Edges))]
		doc.Edges = append(doc.Edges, domain.Corridor{From: e.From, To: e.To, Weight: 0})
		after, err := Build(doc)
		require.NoError(t, err)

		for _, a := range before.IDs() {
			for _, b := range before.IDs() {
				rb, err := before.ShortestPath(context.Background(), a, b)
				require.NoError(t, err)
				ra, err := after.ShortestPath(context.Background(), a, b)
				require.NoError(t, err)
				if rb.Found() {
					require.True(t, ra.Found())
					assert.LessOrEqual(t, ra.Distance, rb.Distance)
				}
			}
		}
	}
}

func TestShortestPath_ConcurrentQueries(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	g, err := Build(randomDoc(r, 8))
	require.NoError(t, err)

	ids := g.IDs()
	want := make(map[[2]string]Route)
	for _, a := range ids {
		for _, b := range ids {
			route, err := g.ShortestPath(context.Background(), a, b)
			require.NoError(t, err)
			want[[2]string{a, b}] = route
		}
	}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for key, expected := range want {
				got, err := g.ShortestPath(context.Background(), key[0], key[1])
				if err != nil {
					errs <- err
					return
				}
				if got.Distance != expected.Distance || len(got.Steps) != len(expected.Steps) {
					errs <- fmt.Errorf("%s->%s: got %v want %v", key[0], key[1], got, expected)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
