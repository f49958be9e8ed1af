package server

import (
	"context"
	"fmt"

	"github.com/vanshika/campusnav/internal/graph"
)

// HealthService is one named check reported by /healthz. The navigation and
// directory services implement it directly.
type HealthService interface {
	Probe(ctx context.Context) error
}

// GraphHealthService is the "graph" check, registered only when campus maps are
// loaded from Neo4j. A failing driver means the next SIGHUP reload cannot read
// the map, even though the graph already in memory keeps answering routes.
type GraphHealthService struct {
	Client graph.Client
}

// Probe verifies the driver can reach the map database.
func (s GraphHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	if err := s.Client.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("map database unreachable: %w", err)
	}
	return nil
}
