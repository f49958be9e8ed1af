package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanshika/campusnav/internal/domain"
	"github.com/vanshika/campusnav/internal/graph"
)

// MapRepository stores the campus map as (:Waypoint)-[:CORRIDOR]->(:Waypoint).
// Corridors carry a seq property so that reading them back preserves the
// original edge order.
type MapRepository struct {
	client graph.Client
}

// NewMapRepository instantiates a MapRepository backed by the supplied graph client.
func NewMapRepository(client graph.Client) *MapRepository {
	return &MapRepository{client: client}
}

// SequencedCorridor is a corridor with its position in the source document.
type SequencedCorridor struct {
	Seq int
	domain.Corridor
}

// EnsureSchema creates the uniqueness constraint on waypoint ids.
func (r *MapRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.client.ExecuteWrite(ctx, waypointConstraintCypher, nil); err != nil {
		return fmt.Errorf("ensure waypoint constraint: %w", err)
	}
	return nil
}

// ClearMap removes every waypoint and corridor.
func (r *MapRepository) ClearMap(ctx context.Context) error {
	if _, err := r.client.ExecuteWrite(ctx, clearMapCypher, nil); err != nil {
		return fmt.Errorf("clear map: %w", err)
	}
	return nil
}

// UpsertWaypoints merges a batch of waypoints by id.
func (r *MapRepository) UpsertWaypoints(ctx context.Context, waypoints []domain.Waypoint) error {
	if len(waypoints) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(waypoints))
	for _, wp := range waypoints {
		if wp.ID == "" {
			return errors.New("waypoint id is required")
		}
		rows = append(rows, map[string]any{
			"id":   wp.ID,
			"x":    wp.X,
			"y":    wp.Y,
			"name": wp.Name,
		})
	}
	if _, err := r.client.ExecuteWrite(ctx, upsertWaypointsCypher, map[string]any{"rows": rows}); err != nil {
		return fmt.Errorf("upsert %d waypoints: %w", len(waypoints), err)
	}
	return nil
}

// UpsertCorridors writes a batch of corridors. The seq property identifies a
// corridor: any stored corridor with the same seq is deleted first, whatever its
// endpoints, so re-ingesting an edited map does not leave the old one beside it.
// Both endpoints must already exist.
func (r *MapRepository) UpsertCorridors(ctx context.Context, corridors []SequencedCorridor) error {
	if len(corridors) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(corridors))
	for _, c := range corridors {
		rows = append(rows, map[string]any{
			"seq":    c.Seq,
			"from":   c.From,
			"to":     c.To,
			"weight": c.Weight,
		})
	}
	res, err := r.client.ExecuteWrite(ctx, upsertCorridorsCypher, map[string]any{"rows": rows})
	if err != nil {
		return fmt.Errorf("upsert %d corridors: %w", len(corridors), err)
	}
	if len(res.Records) > 0 {
		if written, ok := toInt64(res.Records[0]["written"]); ok && int(written) != len(corridors) {
			return fmt.Errorf("upsert corridors: %d of %d written, missing endpoints", written, len(corridors))
		}
	}
	return nil
}

// PruneMap deletes waypoints whose id is not in ids and corridors whose seq is
// not below corridorCount. Run after writing a document over an existing map it
// leaves exactly that document stored.
func (r *MapRepository) PruneMap(ctx context.Context, ids []string, corridorCount int) error {
	if ids == nil {
		ids = []string{}
	}
	if _, err := r.client.ExecuteWrite(ctx, pruneCorridorsCypher, map[string]any{"count": corridorCount}); err != nil {
		return fmt.Errorf("prune corridors: %w", err)
	}
	if _, err := r.client.ExecuteWrite(ctx, pruneWaypointsCypher, map[string]any{"ids": ids}); err != nil {
		return fmt.Errorf("prune waypoints: %w", err)
	}
	return nil
}

// LoadMap reads the full map. Corridors without a stored weight resolve to
// domain.DefaultCorridorWeight.
func (r *MapRepository) LoadMap(ctx context.Context) (domain.MapDocument, error) {
	nodesRes, err := r.client.ExecuteRead(ctx, loadWaypointsCypher, nil)
	if err != nil {
		return domain.MapDocument{}, fmt.Errorf("load waypoints: %w", err)
	}

	doc := domain.MapDocument{
		Nodes: make(map[string]domain.Waypoint, len(nodesRes.Records)),
	}
	for _, rec := range nodesRes.Records {
		id := toString(rec["id"])
		if id == "" {
			continue
		}
		x, _ := toFloat64(rec["x"])
		y, _ := toFloat64(rec["y"])
		doc.Nodes[id] = domain.Waypoint{ID: id, X: x, Y: y, Name: toString(rec["name"])}
	}

	edgesRes, err := r.client.ExecuteRead(ctx, loadCorridorsCypher, nil)
	if err != nil {
		return domain.MapDocument{}, fmt.Errorf("load corridors: %w", err)
	}
	doc.Edges = make([]domain.Corridor, 0, len(edgesRes.Records))
	for _, rec := range edgesRes.Records {
		weight, ok := toFloat64(rec["weight"])
		if !ok {
			weight = domain.DefaultCorridorWeight
		}
		doc.Edges = append(doc.Edges, domain.Corridor{
			From:   toString(rec["from"]),
			To:     toString(rec["to"]),
			Weight: weight,
		})
	}
	return doc, nil
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func toFloat64(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func toInt64(val any) (int64, bool) {
	switch v := val.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

const waypointConstraintCypher = `
CREATE CONSTRAINT waypoint_id IF NOT EXISTS
FOR (w:Waypoint) REQUIRE w.waypointId IS UNIQUE
`

const clearMapCypher = `
MATCH (w:Waypoint)
DETACH DELETE w
`

const upsertWaypointsCypher = `
UNWIND $rows AS row
MERGE (w:Waypoint {waypointId: row.id})
SET w.x = row.x,
    w.y = row.y,
    w.name = row.name
`

const upsertCorridorsCypher = `
UNWIND $rows AS row
OPTIONAL MATCH (:Waypoint)-[old:CORRIDOR {seq: row.seq}]->(:Waypoint)
DELETE old
WITH DISTINCT row
MATCH (a:Waypoint {waypointId: row.from}), (b:Waypoint {waypointId: row.to})
CREATE (a)-[c:CORRIDOR {seq: row.seq, weight: row.weight}]->(b)
RETURN count(c) AS written
`

const pruneCorridorsCypher = `
MATCH (:Waypoint)-[c:CORRIDOR]->(:Waypoint)
WHERE c.seq >= $count
DELETE c
`

const pruneWaypointsCypher = `
MATCH (w:Waypoint)
WHERE NOT w.waypointId IN $ids
DETACH DELETE w
`

const loadWaypointsCypher = `
MATCH (w:Waypoint)
RETURN w.waypointId AS id,
       w.x AS x,
       w.y AS y,
       w.name AS name
ORDER BY id
`

const loadCorridorsCypher = `
MATCH (a:Waypoint)-[c:CORRIDOR]->(b:Waypoint)
RETURN a.waypointId AS from,
       b.waypointId AS to,
       c.weight AS weight
ORDER BY c.seq
`
