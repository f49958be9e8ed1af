package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vanshika/campusnav/internal/config"
	"github.com/vanshika/campusnav/internal/directory"
	"github.com/vanshika/campusnav/internal/events"
	"github.com/vanshika/campusnav/internal/graph"
	"github.com/vanshika/campusnav/internal/logging"
	"github.com/vanshika/campusnav/internal/mapsource"
	"github.com/vanshika/campusnav/internal/repository"
	"github.com/vanshika/campusnav/internal/server"
	"github.com/vanshika/campusnav/internal/service"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run wires and serves the API. Failures are logged where they happen and
// returned so deferred cleanup runs before the process exits.
func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return err
	}

	logger := logging.New(cfg.Logging)

	var graphClient graph.Client
	if cfg.Map.Source == config.MapSourceNeo4j {
		graphClient, err = buildGraphClient(ctx, cfg)
		if err != nil {
			logger.Error("failed to create graph client", "error", err)
			return err
		}
		defer func() {
			if err := graphClient.Close(context.Background()); err != nil {
				logger.Warn("closing graph client failed", "error", err)
			}
		}()
	}

	source, err := buildMapSource(ctx, cfg, graphClient)
	if err != nil {
		logger.Error("failed to configure map source", "error", err)
		return err
	}

	publisher := buildPublisher(logger, cfg.Events)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("closing event publisher failed", "error", err)
		}
	}()

	nav := service.NewNavigationService(source, publisher, logger, service.NavigationOptions{
		RouteTimeout: cfg.HTTP.RouteTimeout.Duration,
	})
	// A map that does not build is a configuration error: refuse to serve.
	if _, err := nav.Reload(ctx); err != nil {
		logger.Error("initial map load failed", "error", err, "source", source.Name())
		return err
	}

	store, err := buildDirectoryStore(cfg.Directory)
	if err != nil {
		logger.Error("failed to open student directory", "error", err, "backend", cfg.Directory.Backend)
		return err
	}
	defer store.Close()
	dir := service.NewDirectoryService(store, 0)

	health := map[string]server.HealthService{
		"map":       nav,
		"directory": dir,
	}
	if graphClient != nil {
		health["graph"] = server.GraphHealthService{Client: graphClient}
	}

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           health,
		API:              server.NewAPIHandlers(logger, nav, dir),
		AllowedOrigins:   cfg.HTTP.AllowedOrigins(),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	var serveErr error
Wait:
	for {
		select {
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				if status, err := nav.Reload(ctx); err != nil {
					logger.Error("map reload failed, keeping current graph", "error", err)
				} else {
					logger.Info("map reloaded", "nodes", status.Nodes, "edges", status.Edges)
				}
				continue
			}
			logger.Info("received shutdown signal", "signal", sig.String())
			break Wait
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("server stopped unexpectedly", "error", err)
				serveErr = err
			}
			break Wait
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout.Duration)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		return errors.Join(serveErr, err)
	}
	return serveErr
}

func buildGraphClient(ctx context.Context, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, graph.ErrMissingURI
	}

	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	return graph.NewNeo4jClient(ctx, opts)
}

func buildMapSource(ctx context.Context, cfg config.Config, client graph.Client) (mapsource.Source, error) {
	switch cfg.Map.Source {
	case config.MapSourceS3:
		src, err := mapsource.NewS3Source(ctx, cfg.Map.S3Bucket, cfg.Map.S3Key, cfg.Map.S3Region, cfg.Map.S3Endpoint)
		if err != nil {
			return nil, err
		}
		return src, nil
	case config.MapSourceNeo4j:
		return mapsource.GraphDBSource{Reader: repository.NewMapRepository(client), URI: cfg.Graph.URI}, nil
	default:
		return mapsource.FileSource{Path: cfg.Map.File}, nil
	}
}

func buildDirectoryStore(cfg config.DirectoryConfig) (directory.Store, error) {
	if cfg.Backend == config.DirectoryPostgres {
		return directory.NewPostgresStore(cfg.DatabaseURL)
	}
	if _, err := os.Stat(cfg.File); errors.Is(err, os.ErrNotExist) {
		return directory.NewMemoryStore(), nil
	}
	return directory.LoadMemoryStore(cfg.File)
}

func buildPublisher(logger *slog.Logger, cfg config.EventsConfig) events.Publisher {
	if cfg.NATSURL == "" {
		return events.NoopPublisher{}
	}
	pub, err := events.NewNATSPublisher(cfg.NATSURL)
	if err != nil {
		logger.Warn("event publishing disabled", "error", err)
		return events.NoopPublisher{}
	}
	return pub
}
