package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errDisconnected = errors.New("map is not connected")

type validateReport struct {
	Valid      bool     `json:"valid"`
	Nodes      int      `json:"nodes"`
	Edges      int      `json:"edges"`
	Components int      `json:"components"`
	Isolated   []string `json:"isolated"`
	Error      string   `json:"error,omitempty"`
}

func newValidateCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a map document builds, and report its connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			doc, g, err := loadGraph(cmd)
			if err != nil {
				if wantJSON(out) {
					_ = printJSON(out, validateReport{Nodes: len(doc.Nodes), Edges: len(doc.Edges), Isolated: []string{}, Error: err.Error()})
				}
				return err
			}

			report := validateReport{
				Valid:      true,
				Nodes:      g.NodeCount(),
				Edges:      g.EdgeCount(),
				Components: len(g.Components()),
				Isolated:   g.Isolated(),
			}
			if report.Isolated == nil {
				report.Isolated = []string{}
			}
			var result error
			if strict && report.Components > 1 {
				report.Valid = false
				result = fmt.Errorf("%w: %d components", errDisconnected, report.Components)
				report.Error = result.Error()
			}

			if wantJSON(out) {
				if err := printJSON(out, report); err != nil {
					return err
				}
				return result
			}
			fmt.Fprintf(out, "Waypoints:  %d\nCorridors:  %d\nComponents: %d\n", report.Nodes, report.Edges, report.Components)
			if len(report.Isolated) > 0 {
				fmt.Fprintf(out, "Isolated:   %v\n", report.Isolated)
			}
			return result
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail unless every waypoint is reachable from every other")
	return cmd
}
