package mapsource

import (
	"context"

	"github.com/vanshika/campusnav/internal/domain"
)

// MapReader loads a normalized map from a store.
type MapReader interface {
	LoadMap(ctx context.Context) (domain.MapDocument, error)
}

// GraphDBSource loads the map from the graph database through the map repository.
type GraphDBSource struct {
	Reader MapReader
	URI    string
}

func (s GraphDBSource) Name() string { return "neo4j:" + s.URI }

func (s GraphDBSource) Load(ctx context.Context) (domain.MapDocument, error) {
	return s.Reader.LoadMap(ctx)
}
