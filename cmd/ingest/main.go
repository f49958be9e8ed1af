package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/vanshika/campusnav/internal/campus"
	"github.com/vanshika/campusnav/internal/config"
	"github.com/vanshika/campusnav/internal/directory"
	"github.com/vanshika/campusnav/internal/graph"
	"github.com/vanshika/campusnav/internal/logging"
	"github.com/vanshika/campusnav/internal/mapsource"
	"github.com/vanshika/campusnav/internal/repository"
	"github.com/vanshika/campusnav/internal/service"
)

var (
	errMissingDataset = errors.New("dataset not found")
)

type options struct {
	datasetDir   string
	mapPath      string
	studentsPath string
	skipMap      bool
	skipStudents bool
	replace      bool
	workers      int
	batchSize    int
}

func main() {
	var opts options
	flag.StringVar(&opts.datasetDir, "dataset-dir", "./data", "Directory containing map.json and students.json")
	flag.StringVar(&opts.mapPath, "map", "", "Path to map.json (overrides dataset-dir)")
	flag.StringVar(&opts.studentsPath, "students", "", "Path to students.json (overrides dataset-dir)")
	flag.BoolVar(&opts.skipMap, "skip-map", false, "Do not write the campus map to Neo4j")
	flag.BoolVar(&opts.skipStudents, "skip-students", false, "Do not write students to Postgres")
	flag.BoolVar(&opts.replace, "replace", false, "Delete the stored map before writing instead of pruning it afterwards")
	flag.IntVar(&opts.workers, "workers", 4, "Number of concurrent workers for ingestion")
	flag.IntVar(&opts.batchSize, "batch-size", 500, "Waypoints or corridors per write")
	flag.Parse()

	if err := run(opts); err != nil {
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return err
	}

	logger := logging.New(cfg.Logging).With("component", "ingest")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	start := time.Now()

	if !opts.skipMap {
		path, err := resolveDatasetPath(opts.datasetDir, opts.mapPath, "map.json")
		if err != nil {
			logger.Error("dataset resolution failed", "error", err)
			return err
		}
		if err := ingestMap(ctx, logger, cfg, path, opts.replace, opts.workers, opts.batchSize); err != nil {
			logger.Error("map ingestion failed", "error", err, "path", path)
			return err
		}
	}

	if !opts.skipStudents {
		path, err := resolveDatasetPath(opts.datasetDir, opts.studentsPath, "students.json")
		if err != nil {
			logger.Error("dataset resolution failed", "error", err)
			return err
		}
		if err := ingestStudents(ctx, logger, cfg, path, opts.workers); err != nil {
			logger.Error("student ingestion failed", "error", err, "path", path)
			return err
		}
	}

	logger.Info("ingestion complete", "duration", time.Since(start).String())
	return nil
}

func ingestMap(ctx context.Context, logger *slog.Logger, cfg config.Config, path string, replace bool, workers, batchSize int) error {
	doc, err := mapsource.FileSource{Path: path}.Load(ctx)
	if err != nil {
		return err
	}
	// Refuse to store a map the server would refuse to serve.
	g, err := campus.Build(doc)
	if err != nil {
		return err
	}
	if isolated := g.Isolated(); len(isolated) > 0 {
		logger.Warn("map has isolated waypoints", "count", len(isolated), "sample", isolated[0])
	}

	client, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	repo := repository.NewMapRepository(client)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	if replace {
		logger.Info("clearing stored map")
		if err := repo.ClearMap(ctx); err != nil {
			return err
		}
	}

	logger.Info("ingesting map", "waypoints", g.NodeCount(), "corridors", len(doc.Edges), "workers", workers)
	if err := service.NewBulkIngestor(repo, nil, workers, batchSize).IngestMap(ctx, doc); err != nil {
		return err
	}
	if replace {
		return nil
	}
	// Drop whatever an earlier, larger map left behind.
	return repo.PruneMap(ctx, g.IDs(), len(doc.Edges))
}

func ingestStudents(ctx context.Context, logger *slog.Logger, cfg config.Config, path string, workers int) error {
	if cfg.Directory.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for student ingestion")
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	students, err := directory.DecodeStudents(file)
	file.Close()
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if len(students) == 0 {
		return fmt.Errorf("students dataset empty: %s", path)
	}

	store, err := directory.NewPostgresStore(cfg.Directory.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	logger.Info("ingesting students", "count", len(students), "workers", workers)
	return service.NewBulkIngestor(nil, store, workers, 0).IngestStudents(ctx, students)
}

func resolveDatasetPath(baseDir, explicitPath, fallbackFile string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("stat %s: %w", explicitPath, err)
		}
		return explicitPath, nil
	}
	path := filepath.Join(baseDir, fallbackFile)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", errMissingDataset, path)
	}
	return path, nil
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, fmt.Errorf("GRAPH_URI is required for map ingestion")
	}
	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	client, err := graph.NewNeo4jClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.VerifyConnectivity(ctx); err != nil {
		_ = client.Close(ctx)
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, nil
}
