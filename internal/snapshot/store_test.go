package snapshot

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokzlo13/huemodel/internal/db"
	"github.com/dokzlo13/huemodel/internal/model"
)

func newTestStore(t *testing.T) *Store {
	database, err := db.Open(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	store, err := NewStore(database.DB, model.NewDefaultFactory())
	require.NoError(t, err)
	return store
}

func sampleEntities(t *testing.T) []*model.Entity {
	f := model.NewDefaultFactory()

	light, err := f.CreateFromBridge("light", "1", map[string]any{
		"name":  "Desk",
		"state": map[string]any{"on": true, "bri": 180, "xy": []any{0.31, 0.33}},
	})
	require.NoError(t, err)

	room, err := f.CreateFromBridge("room", "3", map[string]any{
		"name": "Office", "type": "Room", "class": "Office", "lights": []any{"1"},
	})
	require.NoError(t, err)

	scene, err := f.CreateFromBridge("groupscene", "Ab3dE", map[string]any{
		"name": "Focus", "type": "GroupScene", "group": "3",
	})
	require.NoError(t, err)

	caps, err := f.CreateFromBridge("capabilities", nil, map[string]any{
		"lights": map[string]any{"available": 62, "total": 63},
	})
	require.NoError(t, err)

	return []*model.Entity{light, room, scene, caps}
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	entities := sampleEntities(t)

	snap, err := store.Save(ctx, "evening", "192.168.1.2", entities)
	require.NoError(t, err)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, 4, snap.Entities)

	loaded, restored, err := store.Load(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, "evening", loaded.Label)
	assert.Equal(t, "192.168.1.2", loaded.Bridge)
	require.Len(t, restored, len(entities))

	byTag := make(map[string]*model.Entity)
	for _, e := range restored {
		byTag[e.Tag()] = e
	}
	for _, original := range entities {
		back, ok := byTag[original.Tag()]
		require.True(t, ok, original.Tag())
		assert.Equal(t, original.PersistedFormat(), back.PersistedFormat())
	}
}

func TestStore_ListAndLatest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	clock := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }
	first, err := store.Save(ctx, "first", "", sampleEntities(t)[:1])
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	second, err := store.Save(ctx, "second", "", sampleEntities(t)[:2])
	require.NoError(t, err)

	snaps, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, second.ID, snaps[0].ID)
	assert.Equal(t, 2, snaps[0].Entities)
	assert.Equal(t, first.ID, snaps[1].ID)
	assert.Equal(t, clock, snaps[0].CreatedAt)

	latest, entities, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Len(t, entities, 2)
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	snap, err := store.Save(ctx, "gone", "", sampleEntities(t))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, snap.ID))
	_, _, err = store.Load(ctx, snap.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, snap.ID), ErrNotFound)

	_, _, err = store.Latest(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_LoadRejectsBrokenEnvelope(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	snap, err := store.Save(ctx, "tampered", "", sampleEntities(t)[:1])
	require.NoError(t, err)

	tamper := func(payload string) {
		_, err := store.db.ExecContext(ctx, `UPDATE snapshot_entity SET payload = ? WHERE snapshot_id = ?`, payload, snap.ID)
		require.NoError(t, err)
	}

	tamper(`{"id": 1, "node_hue_api": {"type": "light", "version": "one"}}`)
	_, _, err = store.Load(ctx, snap.ID)
	assert.ErrorContains(t, err, "invalid document envelope")

	tamper(`{"id": 1}`)
	_, _, err = store.Load(ctx, snap.ID)
	assert.ErrorContains(t, err, "invalid document envelope")
}

func TestStore_LoadReportsVersionAndType(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	snap, err := store.Save(ctx, "tampered", "", sampleEntities(t)[:1])
	require.NoError(t, err)

	tamper := func(payload string) {
		_, err := store.db.ExecContext(ctx, `UPDATE snapshot_entity SET payload = ? WHERE snapshot_id = ?`, payload, snap.ID)
		require.NoError(t, err)
	}

	tamper(`{"id": 1, "node_hue_api": {"type": "light", "version": 0}}`)
	_, _, err = store.Load(ctx, snap.ID)
	assert.ErrorIs(t, err, model.ErrUnsupportedVersion)

	tamper(`{"id": 1, "node_hue_api": {"type": "light", "version": 2}}`)
	_, _, err = store.Load(ctx, snap.ID)
	assert.ErrorIs(t, err, model.ErrUnsupportedVersion)

	tamper(`{"id": 1, "node_hue_api": {"type": "", "version": 1}}`)
	_, _, err = store.Load(ctx, snap.ID)
	assert.ErrorIs(t, err, model.ErrUnknownType)
}

func TestStore_LoadKeepsFreeFormIntegers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	scene, err := model.NewDefaultFactory().CreateFromBridge("lightscene", "Ab3dE", map[string]any{
		"name":        "Read",
		"lightstates": map[string]any{"1": map[string]any{"on": true, "bri": 200, "xy": []any{0.4, 0.4}}},
	})
	require.NoError(t, err)

	snap, err := store.Save(ctx, "scene", "", []*model.Entity{scene})
	require.NoError(t, err)

	_, loaded, err := store.Load(ctx, snap.ID)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, scene.PersistedFormat(), loaded[0].PersistedFormat())

	back, ok := model.AsScene(loaded[0])
	require.True(t, ok)
	state, _ := back.LightStates()["1"].(map[string]any)
	assert.Equal(t, 200, state["bri"])
}
