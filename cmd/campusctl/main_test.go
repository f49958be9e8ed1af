package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMap = `{
  "nodes": {
    "n1": {"id": "n1", "x": 0, "y": 0, "name": "Gate"},
    "n2": {"id": "n2", "x": 1, "y": 0, "name": "Hall"},
    "n3": {"id": "n3", "x": 2, "y": 0, "name": "Lab"},
    "n4": {"x": 9, "y": 9}
  },
  "edges": [
    {"from": "n1", "to": "n2", "w": 1},
    {"from": "n2", "to": "n3", "weight": 1},
    {"from": "n1", "to": "n3", "w": 5}
  ]
}`

func writeMap(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "map.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRouteCommand(t *testing.T) {
	path := writeMap(t, testMap)
	out, err := run(t, "route", "n1", "n3", "--map", path)
	require.NoError(t, err)

	var payload struct {
		Path     []stepView `json:"path"`
		Distance float64    `json:"distance"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Len(t, payload.Path, 3)
	assert.Equal(t, "n2", payload.Path[1].ID)
	assert.Equal(t, 2.0, payload.Distance)
}

func TestRouteCommandUnknownWaypoint(t *testing.T) {
	path := writeMap(t, testMap)
	_, err := run(t, "route", "n1", "zz", "--map", path)
	assert.Error(t, err)
}

func TestRouteCommandGeoJSON(t *testing.T) {
	path := writeMap(t, testMap)
	out, err := run(t, "route", "n1", "n3", "--geojson", "--map", path)
	require.NoError(t, err)
	assert.Contains(t, out, "FeatureCollection")
	assert.Contains(t, out, "LineString")
}

func TestNearestCommand(t *testing.T) {
	path := writeMap(t, testMap)
	out, err := run(t, "nearest", "--x", "8", "--y", "8", "--k", "2", "--map", path)
	require.NoError(t, err)

	var payload struct {
		Waypoints []stepView `json:"waypoints"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Len(t, payload.Waypoints, 2)
	assert.Equal(t, "n4", payload.Waypoints[0].ID)
}

func TestValidateCommand(t *testing.T) {
	path := writeMap(t, testMap)

	out, err := run(t, "validate", "--map", path)
	require.NoError(t, err)
	var report validateReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Valid)
	assert.Equal(t, 4, report.Nodes)
	assert.Equal(t, 2, report.Components)
	assert.Equal(t, []string{"n4"}, report.Isolated)

	_, err = run(t, "validate", "--strict", "--map", path)
	assert.ErrorIs(t, err, errDisconnected)
}

func TestValidateCommandRejectsBrokenMap(t *testing.T) {
	path := writeMap(t, `{"nodes": {"a": {"x": 0, "y": 0}}, "edges": [{"from": "a", "to": "b"}]}`)
	out, err := run(t, "validate", "--map", path)
	require.Error(t, err)

	var report validateReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Valid)
	assert.NotEmpty(t, report.Error)
}
