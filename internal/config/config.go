package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP      HTTPConfig      `toml:"server"`
	Logging   LoggingConfig   `toml:"log"`
	Map       MapConfig       `toml:"map"`
	Graph     GraphConfig     `toml:"graph"`
	Directory DirectoryConfig `toml:"directory"`
	Events    EventsConfig    `toml:"events"`
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string   `toml:"host"`
	Port              int      `toml:"port"`
	ReadTimeout       Duration `toml:"read_timeout"`
	WriteTimeout      Duration `toml:"write_timeout"`
	IdleTimeout       Duration `toml:"idle_timeout"`
	ShutdownTimeout   Duration `toml:"shutdown_timeout"`
	RouteTimeout      Duration `toml:"route_timeout"`
	AllowedOriginsCSV string   `toml:"allowed_origins"`
}

// MapConfig selects where the campus map document is loaded from.
type MapConfig struct {
	Source     string `toml:"source"` // file|s3|neo4j
	File       string `toml:"file"`
	S3Bucket   string `toml:"s3_bucket"`
	S3Key      string `toml:"s3_key"`
	S3Region   string `toml:"s3_region"`
	S3Endpoint string `toml:"s3_endpoint"`
}

// GraphConfig describes connectivity to the Neo4j instance holding the campus map.
type GraphConfig struct {
	URI            string `toml:"uri"`
	Database       string `toml:"database"`
	Username       string `toml:"username"`
	Password       string `toml:"password"`
	MaxConnections int    `toml:"max_connections"`
}

// DirectoryConfig selects the student directory backend.
type DirectoryConfig struct {
	Backend     string `toml:"backend"` // memory|postgres
	File        string `toml:"file"`
	DatabaseURL string `toml:"database_url"`
}

// EventsConfig points at the NATS server used for map lifecycle events.
// An empty URL disables publishing.
type EventsConfig struct {
	NATSURL string `toml:"nats_url"`
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string `toml:"level"`
	Format        string `toml:"format"` // text|json
	IncludeCaller bool   `toml:"include_caller"`
}

// Duration lets TOML files spell durations as strings such as "15s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

const (
	MapSourceFile  = "file"
	MapSourceS3    = "s3"
	MapSourceNeo4j = "neo4j"

	DirectoryMemory   = "memory"
	DirectoryPostgres = "postgres"
)

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 8080
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 15 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultRouteTimeout     = 2 * time.Second
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultGraphMaxSessions = 10
	defaultMapFile          = "data/map.json"
	defaultDirectoryFile    = "data/students.json"
)

// Defaults returns the configuration used when neither a file nor env vars override a value.
func Defaults() Config {
	return Config{
		HTTP: HTTPConfig{
			Host:            defaultHost,
			Port:            defaultPort,
			ReadTimeout:     Duration{defaultReadTimeout},
			WriteTimeout:    Duration{defaultWriteTimeout},
			IdleTimeout:     Duration{defaultIdleTimeout},
			ShutdownTimeout: Duration{defaultShutdownTimeout},
			RouteTimeout:    Duration{defaultRouteTimeout},
		},
		Logging: LoggingConfig{
			Level:  defaultLoggingLevel,
			Format: defaultLoggingFormat,
		},
		Map: MapConfig{
			Source: MapSourceFile,
			File:   defaultMapFile,
		},
		Graph: GraphConfig{
			MaxConnections: defaultGraphMaxSessions,
		},
		Directory: DirectoryConfig{
			Backend: DirectoryMemory,
			File:    defaultDirectoryFile,
		},
	}
}

// Load reads configuration from the optional TOML file named by CAMPUSNAV_CONFIG,
// then applies environment variables on top of it.
func Load() (Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CAMPUSNAV_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// AllowedOrigins splits the CORS allow-list.
func (c HTTPConfig) AllowedOrigins() []string {
	if c.AllowedOriginsCSV == "" {
		return nil
	}
	parts := strings.Split(c.AllowedOriginsCSV, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	var errs []error
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d is out of range", c.HTTP.Port))
	}

	switch c.Map.Source {
	case MapSourceFile:
		if c.Map.File == "" {
			errs = append(errs, errors.New("MAP_FILE is required when MAP_SOURCE=file"))
		}
	case MapSourceS3:
		if c.Map.S3Bucket == "" || c.Map.S3Key == "" {
			errs = append(errs, errors.New("MAP_S3_BUCKET and MAP_S3_KEY are required when MAP_SOURCE=s3"))
		}
	case MapSourceNeo4j:
		if c.Graph.URI == "" {
			errs = append(errs, errors.New("GRAPH_URI is required when MAP_SOURCE=neo4j"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported MAP_SOURCE %q", c.Map.Source))
	}

	switch c.Directory.Backend {
	case DirectoryMemory:
	case DirectoryPostgres:
		if c.Directory.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when DIRECTORY_BACKEND=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DIRECTORY_BACKEND %q", c.Directory.Backend))
	}

	return errors.Join(errs...)
}

func applyEnv(cfg *Config) error {
	setString("SERVER_HOST", &cfg.HTTP.Host)
	setString("SERVER_ALLOWED_ORIGINS", &cfg.HTTP.AllowedOriginsCSV)

	port, err := parsePort("SERVER_PORT", cfg.HTTP.Port)
	if err != nil {
		return err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key string
		dst *Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout},
		{"ROUTE_TIMEOUT", &cfg.HTTP.RouteTimeout},
	}
	for _, d := range durations {
		if v := os.Getenv(d.key); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", d.key, err)
			}
			d.dst.Duration = parsed
		}
	}

	setString("LOG_LEVEL", &cfg.Logging.Level)
	setString("LOG_FORMAT", &cfg.Logging.Format)
	cfg.Logging.IncludeCaller = parseBoolWithDefault("LOG_INCLUDE_CALLER", cfg.Logging.IncludeCaller)

	setString("MAP_SOURCE", &cfg.Map.Source)
	cfg.Map.Source = strings.ToLower(cfg.Map.Source)
	setString("MAP_FILE", &cfg.Map.File)
	setString("MAP_S3_BUCKET", &cfg.Map.S3Bucket)
	setString("MAP_S3_KEY", &cfg.Map.S3Key)
	setString("MAP_S3_REGION", &cfg.Map.S3Region)
	setString("MAP_S3_ENDPOINT", &cfg.Map.S3Endpoint)

	setString("GRAPH_URI", &cfg.Graph.URI)
	setString("GRAPH_DATABASE", &cfg.Graph.Database)
	setString("GRAPH_USERNAME", &cfg.Graph.Username)
	setString("GRAPH_PASSWORD", &cfg.Graph.Password)
	cfg.Graph.MaxConnections = parseIntWithDefault("GRAPH_MAX_CONNECTIONS", cfg.Graph.MaxConnections)

	setString("DIRECTORY_BACKEND", &cfg.Directory.Backend)
	cfg.Directory.Backend = strings.ToLower(cfg.Directory.Backend)
	setString("DIRECTORY_FILE", &cfg.Directory.File)
	setString("DATABASE_URL", &cfg.Directory.DatabaseURL)

	setString("NATS_URL", &cfg.Events.NATSURL)
	return nil
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
