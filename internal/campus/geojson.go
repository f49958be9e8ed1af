package campus

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// RouteFeatures renders a route as a GeoJSON feature collection in map-local
// coordinates: one LineString for the walk (when it has at least two steps)
// followed by one Point per waypoint.
func RouteFeatures(route Route) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	line := make(orb.LineString, 0, len(route.Steps))
	for _, s := range route.Steps {
		line = append(line, orb.Point{s.X, s.Y})
	}
	if len(line) >= 2 {
		f := geojson.NewFeature(line)
		f.Properties["kind"] = "route"
		f.Properties["distance"] = route.Distance
		f.Properties["length"] = planar.Length(line)
		fc.Append(f)
	}

	for i, s := range route.Steps {
		f := geojson.NewFeature(orb.Point{s.X, s.Y})
		f.Properties["kind"] = "waypoint"
		f.Properties["id"] = s.ID
		f.Properties["name"] = s.Name
		f.Properties["seq"] = i
		fc.Append(f)
	}
	return fc
}

// RouteGeoJSON is RouteFeatures encoded as JSON.
func RouteGeoJSON(route Route) ([]byte, error) {
	return RouteFeatures(route).MarshalJSON()
}
