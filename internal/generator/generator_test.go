package generator

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/campusnav/internal/campus"
	"github.com/vanshika/campusnav/internal/directory"
	"github.com/vanshika/campusnav/internal/mapsource"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Buildings = 4
	cfg.RoomsPerBuilding = 3
	cfg.NumStudents = 10
	cfg.ClassesPerStudent = 2
	cfg.Seed = 7
	return cfg
}

func TestGenerate_ProducesConnectedValidCampus(t *testing.T) {
	ds, err := New(smallConfig()).Generate(context.Background())
	require.NoError(t, err)

	// gate + 4 halls + 12 rooms
	assert.Len(t, ds.Map.Nodes, 17)

	g, err := campus.Build(ds.Map)
	require.NoError(t, err)
	assert.Len(t, g.Components(), 1, "every waypoint must be reachable from the gate")

	route, err := g.ShortestPath(context.Background(), GateID, roomID(3, 2))
	require.NoError(t, err)
	assert.True(t, route.Found())
	assert.Greater(t, route.Distance, 0.0)
}

func TestGenerate_StudentsReferenceRooms(t *testing.T) {
	ds, err := New(smallConfig()).Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, ds.Students, 10)

	for _, st := range ds.Students {
		assert.Len(t, st.Classes, 2)
		for _, c := range st.Classes {
			_, ok := ds.Map.Nodes[c.RoomNodeID]
			assert.True(t, ok, "class room %s must exist in the map", c.RoomNodeID)
			assert.NotEmpty(t, c.Weekday)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := New(smallConfig()).Generate(context.Background())
	require.NoError(t, err)
	b, err := New(smallConfig()).Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(smallConfig()).Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteDataset_RoundTrip(t *testing.T) {
	ds, err := New(smallConfig()).Generate(context.Background())
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, WriteDataset(ds, dir))

	doc, err := mapsource.FileSource{Path: filepath.Join(dir, "map.json")}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ds.Map, doc)

	store, err := directory.LoadMemoryStore(filepath.Join(dir, "students.json"))
	require.NoError(t, err)
	assert.Equal(t, len(ds.Students), store.Len())
}
