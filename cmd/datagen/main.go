package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vanshika/campusnav/internal/generator"
	"github.com/vanshika/campusnav/internal/mapsource"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		buildings      = flag.Int("buildings", cfg.Buildings, "number of buildings on the campus grid")
		rooms          = flag.Int("rooms", cfg.RoomsPerBuilding, "rooms per building")
		spacing        = flag.Float64("spacing", cfg.Spacing, "distance between neighbouring building entrances")
		shortcutChance = flag.Float64("shortcut-chance", cfg.ShortcutChance, "probability of a diagonal path between buildings")
		students       = flag.Int("students", cfg.NumStudents, "number of students to generate")
		classes        = flag.Int("classes", cfg.ClassesPerStudent, "classes per student")
		weekStart      = flag.String("week-start", cfg.WeekStart.Format(time.DateOnly), "Monday of the generated week (YYYY-MM-DD)")
		seed           = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir      = flag.String("output-dir", "data", "directory to write map.json and students.json")
		writeStdout    = flag.Bool("stdout", false, "write the map document to stdout instead of files")
	)
	flag.Parse()

	start, err := time.Parse(time.DateOnly, *weekStart)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -week-start: %v\n", err)
		os.Exit(2)
	}

	genCfg := generator.Config{
		Buildings:         *buildings,
		RoomsPerBuilding:  *rooms,
		Spacing:           *spacing,
		ShortcutChance:    clampProbability(*shortcutChance),
		NumStudents:       *students,
		ClassesPerStudent: *classes,
		WeekStart:         start,
		Seed:              *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dataset, err := generator.New(genCfg).Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(mapsource.Denormalize(dataset.Map)); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write map to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteDataset(dataset, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d waypoints, %d corridors and %d students into %s\n",
		len(dataset.Map.Nodes), len(dataset.Map.Edges), len(dataset.Students), *outputDir)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
