package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vanshika/campusnav/internal/campus"
)

func newRouteCmd() *cobra.Command {
	var geoJSON bool
	cmd := &cobra.Command{
		Use:   "route <origin> <destination>",
		Short: "Print the shortest walking route between two waypoints",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, g, err := loadGraph(cmd)
			if err != nil {
				return err
			}
			route, err := g.ShortestPath(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if geoJSON {
				data, err := campus.RouteGeoJSON(route)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}
			if wantJSON(out) {
				payload := map[string]any{"path": toStepViews(route.Steps)}
				if route.Found() {
					payload["distance"] = route.Distance
				}
				return printJSON(out, payload)
			}

			if !route.Found() {
				fmt.Fprintf(out, "No route from %s to %s\n", args[0], args[1])
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tID\tNAME\tX\tY")
			for i, s := range route.Steps {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%g\t%g\n", i+1, s.ID, s.Name, s.X, s.Y)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "Distance: %g over %d waypoints\n", route.Distance, len(route.Steps))
			return nil
		},
	}
	cmd.Flags().BoolVar(&geoJSON, "geojson", false, "emit the route as a GeoJSON FeatureCollection")
	return cmd
}
