package domain

// Waypoint is a named, coordinate-bearing location on the campus map.
type Waypoint struct {
	ID   string
	X    float64
	Y    float64
	Name string
}

// Corridor connects two waypoints in both directions. Weight is already resolved
// (missing weights default to 1 before reaching this type).
type Corridor struct {
	From   string
	To     string
	Weight float64
}

// MapDocument is the normalized node/edge description the graph builder consumes.
type MapDocument struct {
	Nodes map[string]Waypoint
	Edges []Corridor
}

// DefaultCorridorWeight applies when an edge record omits its weight.
const DefaultCorridorWeight = 1.0
