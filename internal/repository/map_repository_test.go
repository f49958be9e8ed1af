package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vanshika/campusnav/internal/domain"
	"github.com/vanshika/campusnav/internal/graph"
)

func TestMapRepository_UpsertWaypoints(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := NewMapRepository(mem)

	waypoints := []domain.Waypoint{
		{ID: "entrance", X: 0, Y: 0, Name: "Main Entrance"},
		{ID: "lab", X: 10, Y: 5},
	}
	if err := repo.UpsertWaypoints(context.Background(), waypoints); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	calls := mem.Calls(graph.AccessWrite)
	if len(calls) != 1 {
		t.Fatalf("expected 1 write query, got %d", len(calls))
	}
	if calls[0].Query != upsertWaypointsCypher {
		t.Fatalf("unexpected query\nexpected:\n%s\ngot:\n%s", upsertWaypointsCypher, calls[0].Query)
	}
	rows, ok := calls[0].Params["rows"].([]map[string]any)
	if !ok || len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %T (%v)", calls[0].Params["rows"], calls[0].Params["rows"])
	}
	if rows[0]["id"] != "entrance" || rows[0]["name"] != "Main Entrance" {
		t.Errorf("unexpected first row: %v", rows[0])
	}
}

func TestMapRepository_UpsertWaypointsRequiresID(t *testing.T) {
	repo := NewMapRepository(graph.NewMemoryClient())
	if err := repo.UpsertWaypoints(context.Background(), []domain.Waypoint{{X: 1}}); err == nil {
		t.Fatal("expected error for blank waypoint id")
	}
}

func TestMapRepository_UpsertCorridorsDetectsMissingEndpoints(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.Push(graph.AccessWrite, graph.Result{Records: []graph.Record{{"written": int64(1)}}})
	repo := NewMapRepository(mem)

	err := repo.UpsertCorridors(context.Background(), []SequencedCorridor{
		{Seq: 0, Corridor: domain.Corridor{From: "a", To: "b", Weight: 1}},
		{Seq: 1, Corridor: domain.Corridor{From: "b", To: "ghost", Weight: 1}},
	})
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Fatalf("expected partial write error, got %v", err)
	}
}

func TestMapRepository_UpsertCorridors(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.Push(graph.AccessWrite, graph.Result{Records: []graph.Record{{"written": int64(1)}}})
	repo := NewMapRepository(mem)

	err := repo.UpsertCorridors(context.Background(), []SequencedCorridor{
		{Seq: 4, Corridor: domain.Corridor{From: "a", To: "b", Weight: 0}},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	rows := mem.Calls(graph.AccessWrite)[0].Params["rows"].([]map[string]any)
	if rows[0]["seq"] != 4 || rows[0]["weight"] != 0.0 {
		t.Errorf("unexpected corridor row: %v", rows[0])
	}
}

func TestMapRepository_LoadMap(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.Push(graph.AccessRead, graph.Result{Records: []graph.Record{
		{"id": "a", "x": int64(0), "y": 2.5, "name": "Atrium"},
		{"id": "b", "x": 3.0, "y": int64(4), "name": nil},
		{"id": nil},
	}})
	mem.Push(graph.AccessRead, graph.Result{Records: []graph.Record{
		{"from": "a", "to": "b", "weight": 2.0},
		{"from": "b", "to": "a", "weight": nil},
	}})
	repo := NewMapRepository(mem)

	doc, err := repo.LoadMap(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(doc.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(doc.Nodes))
	}
	if got := doc.Nodes["a"]; got != (domain.Waypoint{ID: "a", X: 0, Y: 2.5, Name: "Atrium"}) {
		t.Errorf("unexpected waypoint a: %+v", got)
	}
	if got := doc.Nodes["b"]; got.Name != "" || got.X != 3 || got.Y != 4 {
		t.Errorf("unexpected waypoint b: %+v", got)
	}
	if len(doc.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(doc.Edges))
	}
	if doc.Edges[1].Weight != domain.DefaultCorridorWeight {
		t.Errorf("expected default weight, got %v", doc.Edges[1].Weight)
	}

	reads := mem.Calls(graph.AccessRead)
	if len(reads) != 2 || reads[0].Query != loadWaypointsCypher || reads[1].Query != loadCorridorsCypher {
		t.Fatalf("unexpected read sequence: %+v", reads)
	}
}

func TestMapRepository_LoadMapError(t *testing.T) {
	boom := errors.New("connection reset")
	repo := NewMapRepository(graph.NewMemoryClient().WithError(boom))
	if _, err := repo.LoadMap(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestMapRepository_SchemaAndClear(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := NewMapRepository(mem)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := repo.ClearMap(context.Background()); err != nil {
		t.Fatal(err)
	}
	calls := mem.Calls(graph.AccessWrite)
	if len(calls) != 2 || calls[0].Query != waypointConstraintCypher || calls[1].Query != clearMapCypher {
		t.Fatalf("unexpected writes: %+v", calls)
	}
}

func TestMapRepository_UpsertCorridorsReplacesSameSeq(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := NewMapRepository(mem)

	err := repo.UpsertCorridors(context.Background(), []SequencedCorridor{
		{Seq: 3, Corridor: domain.Corridor{From: "a", To: "c", Weight: 2}},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	query := mem.Calls(graph.AccessWrite)[0].Query
	if strings.Contains(query, "MERGE (a)-[c:CORRIDOR") {
		t.Fatalf("corridor write must not merge on endpoints and seq:\n%s", query)
	}
	deleteAt := strings.Index(query, "DELETE old")
	createAt := strings.Index(query, "CREATE (a)-[c:CORRIDOR")
	if !strings.Contains(query, "[old:CORRIDOR {seq: row.seq}]") || deleteAt < 0 || createAt < deleteAt {
		t.Fatalf("expected stored corridor with the same seq to be deleted before create:\n%s", query)
	}
}

func TestMapRepository_PruneMap(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := NewMapRepository(mem)

	if err := repo.PruneMap(context.Background(), []string{"a", "c"}, 4); err != nil {
		t.Fatal(err)
	}

	calls := mem.Calls(graph.AccessWrite)
	if len(calls) != 2 {
		t.Fatalf("expected 2 write queries, got %d", len(calls))
	}
	if calls[0].Query != pruneCorridorsCypher || calls[0].Params["count"] != 4 {
		t.Fatalf("unexpected corridor prune: %+v", calls[0])
	}
	ids, ok := calls[1].Params["ids"].([]string)
	if calls[1].Query != pruneWaypointsCypher || !ok || len(ids) != 2 || ids[0] != "a" || ids[1] != "c" {
		t.Fatalf("unexpected waypoint prune: %+v", calls[1])
	}
}

func TestMapRepository_PruneMapEmptyDocument(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := NewMapRepository(mem)

	if err := repo.PruneMap(context.Background(), nil, 0); err != nil {
		t.Fatal(err)
	}
	ids, ok := mem.Calls(graph.AccessWrite)[1].Params["ids"].([]string)
	if !ok || ids == nil || len(ids) != 0 {
		t.Fatalf("expected empty non-nil id list, got %#v", mem.Calls(graph.AccessWrite)[1].Params["ids"])
	}
}

func TestMapRepository_PruneMapError(t *testing.T) {
	boom := errors.New("write refused")
	repo := NewMapRepository(graph.NewMemoryClient().WithError(boom))
	if err := repo.PruneMap(context.Background(), []string{"a"}, 1); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
