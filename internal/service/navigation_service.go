package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vanshika/campusnav/internal/campus"
	"github.com/vanshika/campusnav/internal/domain"
	"github.com/vanshika/campusnav/internal/events"
	"github.com/vanshika/campusnav/internal/mapsource"
)

// NavigationService serves route queries against the current campus graph and
// reloads that graph from its map source.
type NavigationService struct {
	holder       *campus.Holder
	source       mapsource.Source
	publisher    events.Publisher
	logger       *slog.Logger
	routeTimeout time.Duration
	nowFn        func() time.Time

	reloadMu sync.Mutex
}

// NavigationOptions tunes a NavigationService.
type NavigationOptions struct {
	// RouteTimeout bounds a single shortest path search. Zero means no bound beyond the caller's context.
	RouteTimeout time.Duration
}

// NewNavigationService constructs a service with no graph loaded. Call Reload before serving.
func NewNavigationService(source mapsource.Source, publisher events.Publisher, logger *slog.Logger, opts NavigationOptions) *NavigationService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &NavigationService{
		holder:       campus.NewHolder(nil),
		source:       source,
		publisher:    publisher,
		logger:       logger.With("component", "navigation"),
		routeTimeout: opts.RouteTimeout,
		nowFn:        time.Now,
	}
}

// Reload loads the map document, builds a new graph and swaps it in. On failure the
// graph already being served stays in place.
func (s *NavigationService) Reload(ctx context.Context) (MapStatus, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := s.nowFn()
	doc, err := s.source.Load(ctx)
	if err != nil {
		return MapStatus{}, fmt.Errorf("load map from %s: %w", s.source.Name(), err)
	}

	g, err := campus.Build(doc)
	if err != nil {
		return MapStatus{}, fmt.Errorf("build graph from %s: %w", s.source.Name(), err)
	}

	snap := &campus.Snapshot{
		Graph:    g,
		Document: doc,
		Source:   s.source.Name(),
		LoadedAt: s.nowFn().UTC(),
	}
	s.holder.Swap(snap)
	status := statusOf(snap)

	attrs := []any{
		"source", status.Source,
		"nodes", status.Nodes,
		"edges", status.Edges,
		"duration_ms", s.nowFn().Sub(start).Milliseconds(),
	}
	if isolated := g.Isolated(); len(isolated) > 0 {
		attrs = append(attrs, "isolated", len(isolated))
	}
	s.logger.Info("campus map loaded", attrs...)

	event := events.MapLoaded{Source: status.Source, Nodes: status.Nodes, Edges: status.Edges, LoadedAt: status.LoadedAt}
	if err := s.publisher.Publish(ctx, events.TopicMapLoaded, event); err != nil {
		s.logger.Warn("publish map loaded event failed", "error", err)
	}
	return status, nil
}

// Route returns the cheapest path between two waypoints. Ids are trimmed; a blank id
// yields ErrEmptyID and an undeclared one campus.ErrUnknownWaypoint, both inside a
// *campus.QueryError. An unreachable destination is an empty route, not an error.
func (s *NavigationService) Route(ctx context.Context, origin, destination string) (campus.Route, error) {
	origin = normalizeID(origin)
	destination = normalizeID(destination)
	if origin == "" {
		return campus.Route{}, &campus.QueryError{Field: "origin", Err: ErrEmptyID}
	}
	if destination == "" {
		return campus.Route{}, &campus.QueryError{Field: "destination", Err: ErrEmptyID}
	}

	g := s.holder.Graph()
	if g == nil {
		return campus.Route{}, ErrMapNotLoaded
	}

	if s.routeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.routeTimeout)
		defer cancel()
	}
	return g.ShortestPath(ctx, origin, destination)
}

// Nearest returns up to k waypoints closest to (x, y).
func (s *NavigationService) Nearest(x, y float64, k int) ([]campus.Step, error) {
	g := s.holder.Graph()
	if g == nil {
		return nil, ErrMapNotLoaded
	}
	return g.Nearest(x, y, k), nil
}

// MapDocument returns the document the current graph was built from.
func (s *NavigationService) MapDocument() (domain.MapDocument, error) {
	snap := s.holder.Load()
	if snap == nil {
		return domain.MapDocument{}, ErrMapNotLoaded
	}
	return snap.Document, nil
}

// Status describes the graph being served.
func (s *NavigationService) Status() (MapStatus, error) {
	snap := s.holder.Load()
	if snap == nil {
		return MapStatus{}, ErrMapNotLoaded
	}
	return statusOf(snap), nil
}

func statusOf(snap *campus.Snapshot) MapStatus {
	return MapStatus{
		Source:   snap.Source,
		Nodes:    snap.Graph.NodeCount(),
		Edges:    snap.Graph.EdgeCount(),
		LoadedAt: snap.LoadedAt,
	}
}

// Probe reports whether a graph is available. It satisfies the server health contract.
func (s *NavigationService) Probe(context.Context) error {
	if s.holder.Graph() == nil {
		return ErrMapNotLoaded
	}
	return nil
}
