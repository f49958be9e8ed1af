package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CAMPUSNAV_CONFIG", "SERVER_HOST", "SERVER_PORT", "SERVER_ALLOWED_ORIGINS",
	"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT",
	"ROUTE_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT", "LOG_INCLUDE_CALLER",
	"MAP_SOURCE", "MAP_FILE", "MAP_S3_BUCKET", "MAP_S3_KEY", "MAP_S3_REGION", "MAP_S3_ENDPOINT",
	"GRAPH_URI", "GRAPH_DATABASE", "GRAPH_USERNAME", "GRAPH_PASSWORD", "GRAPH_MAX_CONNECTIONS",
	"DIRECTORY_BACKEND", "DIRECTORY_FILE", "DATABASE_URL", "NATS_URL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 2*time.Second, cfg.HTTP.RouteTimeout.Duration)
	assert.Equal(t, MapSourceFile, cfg.Map.Source)
	assert.Equal(t, "data/map.json", cfg.Map.File)
	assert.Equal(t, DirectoryMemory, cfg.Directory.Backend)
	assert.Empty(t, cfg.Events.NATSURL)
	assert.Nil(t, cfg.HTTP.AllowedOrigins())
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "campusnav.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = 9090
route_timeout = "750ms"
allowed_origins = "http://a.test, http://b.test"

[map]
source = "s3"
s3_bucket = "maps"
s3_key = "campus/map.json"

[log]
level = "debug"
`), 0o600))

	t.Setenv("CAMPUSNAV_CONFIG", path)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("MAP_S3_KEY", "campus/v2.json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 750*time.Millisecond, cfg.HTTP.RouteTimeout.Duration)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.AllowedOrigins())
	assert.Equal(t, MapSourceS3, cfg.Map.Source)
	assert.Equal(t, "maps", cfg.Map.S3Bucket)
	assert.Equal(t, "campus/v2.json", cfg.Map.S3Key)
	assert.Equal(t, "warn", cfg.Logging.Level)
	// untouched keys keep their defaults
	assert.Equal(t, 15*time.Second, cfg.HTTP.WriteTimeout.Duration)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad port", env: map[string]string{"SERVER_PORT": "99999"}},
		{name: "bad duration", env: map[string]string{"ROUTE_TIMEOUT": "soon"}},
		{name: "unknown source", env: map[string]string{"MAP_SOURCE": "ftp"}},
		{name: "neo4j without uri", env: map[string]string{"MAP_SOURCE": "neo4j"}},
		{name: "postgres without dsn", env: map[string]string{"DIRECTORY_BACKEND": "postgres"}},
		{name: "missing config file", env: map[string]string{"CAMPUSNAV_CONFIG": "/nonexistent/campusnav.toml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadNeo4jSource(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAP_SOURCE", "NEO4J")
	t.Setenv("GRAPH_URI", "neo4j://localhost:7687")
	t.Setenv("GRAPH_MAX_CONNECTIONS", "25")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, MapSourceNeo4j, cfg.Map.Source)
	assert.Equal(t, 25, cfg.Graph.MaxConnections)
}
