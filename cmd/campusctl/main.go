package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanshika/campusnav/internal/campus"
	"github.com/vanshika/campusnav/internal/domain"
	"github.com/vanshika/campusnav/internal/mapsource"
)

var (
	mapFile    string
	jsonOutput bool
)

func defaultMapFile() string {
	if s := os.Getenv("MAP_FILE"); s != "" {
		return s
	}
	return "data/map.json"
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "campusctl <command>",
		Short:         "Offline tools for campus map documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&mapFile, "map", defaultMapFile(), "path to the map document")
	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON (default when stdout is not a terminal)")

	root.AddCommand(newRouteCmd())
	root.AddCommand(newNearestCmd())
	root.AddCommand(newValidateCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadGraph reads the --map document and builds it.
func loadGraph(cmd *cobra.Command) (domain.MapDocument, *campus.Graph, error) {
	doc, err := mapsource.FileSource{Path: mapFile}.Load(cmd.Context())
	if err != nil {
		return domain.MapDocument{}, nil, err
	}
	g, err := campus.Build(doc)
	if err != nil {
		return doc, nil, err
	}
	return doc, g, nil
}

// wantJSON reports whether output should be machine readable.
func wantJSON(w io.Writer) bool {
	if jsonOutput {
		return true
	}
	f, ok := w.(*os.File)
	return !ok || !term.IsTerminal(int(f.Fd()))
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

type stepView struct {
	ID   string  `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Name string  `json:"name"`
}

func toStepViews(steps []campus.Step) []stepView {
	out := make([]stepView, 0, len(steps))
	for _, s := range steps {
		out = append(out, stepView{ID: s.ID, X: s.X, Y: s.Y, Name: s.Name})
	}
	return out
}
