// Package mapsource acquires raw campus map documents and normalizes them
// into domain.MapDocument before they reach the graph builder.
package mapsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vanshika/campusnav/internal/domain"
)

// ErrMalformedMap indicates a document that cannot be normalized.
var ErrMalformedMap = errors.New("malformed map document")

// Source yields the current campus map.
type Source interface {
	Load(ctx context.Context) (domain.MapDocument, error)
	Name() string
}

// RawDocument is the on-disk/over-the-wire map shape.
type RawDocument struct {
	Nodes map[string]RawNode `json:"nodes"`
	Edges []RawEdge          `json:"edges"`
}

// RawNode is a node record; ID is optional and must match its key when set.
type RawNode struct {
	ID   string  `json:"id,omitempty"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Name string  `json:"name,omitempty"`
}

// RawEdge accepts the weight under either "w" or "weight".
type RawEdge struct {
	From   string   `json:"from"`
	To     string   `json:"to"`
	W      *float64 `json:"w,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
}

// Decode reads a raw JSON map document from r.
func Decode(r io.Reader) (RawDocument, error) {
	var raw RawDocument
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return RawDocument{}, fmt.Errorf("%w: %v", ErrMalformedMap, err)
	}
	return raw, nil
}

// Normalize resolves optional fields into the fixed internal shape. Missing
// weights become domain.DefaultCorridorWeight; an explicit 0 is kept.
func Normalize(raw RawDocument) (domain.MapDocument, error) {
	doc := domain.MapDocument{
		Nodes: make(map[string]domain.Waypoint, len(raw.Nodes)),
		Edges: make([]domain.Corridor, 0, len(raw.Edges)),
	}

	for key, n := range raw.Nodes {
		if n.ID != "" && n.ID != key {
			return domain.MapDocument{}, fmt.Errorf("%w: node %q declares id %q", ErrMalformedMap, key, n.ID)
		}
		doc.Nodes[key] = domain.Waypoint{
			ID:   key,
			X:    n.X,
			Y:    n.Y,
			Name: strings.TrimSpace(n.Name),
		}
	}

	for i, e := range raw.Edges {
		if e.W != nil && e.Weight != nil && *e.W != *e.Weight {
			return domain.MapDocument{}, fmt.Errorf("%w: edge %d has conflicting w=%v and weight=%v", ErrMalformedMap, i, *e.W, *e.Weight)
		}
		weight := domain.DefaultCorridorWeight
		switch {
		case e.W != nil:
			weight = *e.W
		case e.Weight != nil:
			weight = *e.Weight
		}
		doc.Edges = append(doc.Edges, domain.Corridor{
			From:   e.From,
			To:     e.To,
			Weight: weight,
		})
	}

	return doc, nil
}

// Denormalize converts a normalized document back into the raw shape, always
// writing explicit weights. It is used for /map-data and dataset export.
func Denormalize(doc domain.MapDocument) RawDocument {
	raw := RawDocument{
		Nodes: make(map[string]RawNode, len(doc.Nodes)),
		Edges: make([]RawEdge, 0, len(doc.Edges)),
	}
	for id, wp := range doc.Nodes {
		raw.Nodes[id] = RawNode{ID: id, X: wp.X, Y: wp.Y, Name: wp.Name}
	}
	for _, e := range doc.Edges {
		w := e.Weight
		raw.Edges = append(raw.Edges, RawEdge{From: e.From, To: e.To, W: &w})
	}
	return raw
}
