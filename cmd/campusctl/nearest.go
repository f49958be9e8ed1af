package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
)

func newNearestCmd() *cobra.Command {
	var (
		x, y float64
		k    int
	)
	cmd := &cobra.Command{
		Use:   "nearest",
		Short: "List the waypoints closest to a coordinate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if k <= 0 {
				return fmt.Errorf("--k must be positive")
			}
			_, g, err := loadGraph(cmd)
			if err != nil {
				return err
			}
			steps := g.Nearest(x, y, k)

			out := cmd.OutOrStdout()
			if wantJSON(out) {
				return printJSON(out, map[string]any{"waypoints": toStepViews(steps)})
			}
			for _, s := range steps {
				fmt.Fprintf(out, "%-16s %-24s dist=%.2f\n", s.ID, s.Name, math.Hypot(s.X-x, s.Y-y))
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&x, "x", 0, "x coordinate")
	cmd.Flags().Float64Var(&y, "y", 0, "y coordinate")
	cmd.Flags().IntVar(&k, "k", 1, "number of waypoints to return")
	return cmd
}
