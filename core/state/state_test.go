package state_test

import (
	"encoding/json"
	"testing"
	"time"

	"commerce-sync/core/state"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMappingStore_PutIsIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := state.NewMappingStore(fs, "data/entity_mapping.json", zap.NewNop())

	store.Put("products", "P1", "T1", "Widget")
	info, err := fs.Stat("data/entity_mapping.json")
	require.NoError(t, err)
	firstMod := info.ModTime()

	store.Put("products", "P1", "T1", "Widget")
	info, err = fs.Stat("data/entity_mapping.json")
	require.NoError(t, err)
	assert.Equal(t, firstMod, info.ModTime(), "identical upsert must not rewrite the file")

	target, ok := store.Get("products", "P1")
	assert.True(t, ok)
	assert.Equal(t, "T1", target)
	assert.Equal(t, 1, store.Len("products"))
}

func TestMappingStore_PersistedLayout(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := state.NewMappingStore(fs, "entity_mapping.json", zap.NewNop())
	store.Put("customers", "C1", "900", "Ana")

	raw, err := afero.ReadFile(fs, "entity_mapping.json")
	require.NoError(t, err)

	var layout map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &layout))
	assert.Equal(t, map[string]string{"C1": "900"}, layout["customers"])
	assert.Contains(t, layout, "products")
	assert.Contains(t, layout, "orders")

	reloaded := state.NewMappingStore(fs, "entity_mapping.json", zap.NewNop())
	target, ok := reloaded.Get("customers", "C1")
	assert.True(t, ok)
	assert.Equal(t, "900", target)
}

func TestMappingStore_Delete(t *testing.T) {
	store := state.NewMappingStore(afero.NewMemMapFs(), "m.json", zap.NewNop())
	assert.False(t, store.Delete("orders", "missing"))

	store.Put("orders", "O1", "77", "")
	assert.True(t, store.Delete("orders", "O1"))
	_, ok := store.Get("orders", "O1")
	assert.False(t, ok)
}

func TestMappingStore_NullDocument(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "m.json", []byte("null"), 0o644))

	store := state.NewMappingStore(fs, "m.json", zap.NewNop())
	store.Put("products", "P1", "T1", "")
	target, ok := store.Get("products", "P1")
	assert.True(t, ok)
	assert.Equal(t, "T1", target)
}

func TestHistoryStore_ShouldSyncAndMonotonicTimestamp(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := state.NewHistoryStore(afero.NewMemMapFs(), "h.json", zap.NewNop(), state.WithClock(clock))

	assert.True(t, store.ShouldSync("products", "P1", "v1"))

	store.Record("products", "P1", "v1")
	assert.False(t, store.ShouldSync("products", "P1", "v1"))
	assert.True(t, store.ShouldSync("products", "P1", "v2"))
	assert.True(t, store.ShouldSync("products", "P1", ""))

	// Clock goes backwards: last_sync must not.
	now = now.Add(-time.Hour)
	store.Record("products", "P1", "v2")

	entry, ok := store.Get("products", "P1")
	require.True(t, ok)
	assert.Equal(t, "v2", entry.Version)
	assert.Equal(t, time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), entry.LastSync)
}

func TestHistoryStore_ReloadFromDisk(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := state.NewHistoryStore(fs, "h.json", zap.NewNop())
	store.Record("orders", "O1", "abc")

	reloaded := state.NewHistoryStore(fs, "h.json", zap.NewNop())
	entry, ok := reloaded.Get("orders", "O1")
	require.True(t, ok)
	assert.Equal(t, "abc", entry.Version)
	assert.False(t, entry.LastSync.IsZero())
}

func TestIncompleteStore_AddRemoveAndLayout(t *testing.T) {
	fs := afero.NewMemMapFs()
	first := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	now := first
	store := state.NewIncompleteStore(fs, "incomplete.json", zap.NewNop(), state.WithClock(func() time.Time { return now }))

	store.Add("products", "P9", "Lamp", []string{"description"})
	now = now.Add(time.Hour)
	store.Add("products", "P9", "Lamp", []string{"description", "weight"})

	rec, ok := store.Get("products", "P9")
	require.True(t, ok)
	assert.Equal(t, []string{"description", "weight"}, rec.MissingFields)
	assert.Equal(t, first, rec.AddedAt, "re-registration keeps the original timestamp")

	raw, err := afero.ReadFile(fs, "incomplete.json")
	require.NoError(t, err)
	var layout map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &layout))
	assert.Contains(t, layout, "products")
	assert.Contains(t, layout, "last_update")
	assert.Contains(t, layout, "statistics")

	var products map[string]map[string]any
	require.NoError(t, json.Unmarshal(layout["products"], &products))
	assert.Equal(t, "Lamp", products["P9"]["name"])

	assert.True(t, store.Remove("products", "P9"))
	assert.False(t, store.Remove("products", "P9"))
}

func TestIncompleteStore_ClearAcrossCategories(t *testing.T) {
	store := state.NewIncompleteStore(afero.NewMemMapFs(), "i.json", zap.NewNop())
	store.Add("orders", "42", "Order 42", []string{"cliente_id"})

	assert.True(t, store.Clear("42"))
	assert.False(t, store.Clear("42"))
	assert.Empty(t, store.List()["orders"])
}

func TestIncompleteStore_Statistics(t *testing.T) {
	store := state.NewIncompleteStore(afero.NewMemMapFs(), "i.json", zap.NewNop())
	store.Add("products", "A", "a", []string{"description"})
	store.Add("products", "B", "b", []string{"height", "weight"})
	store.Add("products", "C", "c", []string{"name"})
	store.Add("customers", "D", "d", []string{"cpf_cnpj", "email"})

	stats := store.Statistics()
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.MissingDescription)
	assert.Equal(t, 1, stats.MissingDimensions)
	assert.Equal(t, 1, stats.MissingWeight)
	assert.Equal(t, 2, stats.MissingOther)
	assert.Equal(t, 3, stats.ByClass["products"])
	assert.Equal(t, 1, stats.ByClass["customers"])
}

func TestIncompleteStore_ReloadFromDisk(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := state.NewIncompleteStore(fs, "i.json", zap.NewNop())
	store.Add("products", "P1", "Widget", []string{"description"})

	reloaded := state.NewIncompleteStore(fs, "i.json", zap.NewNop())
	rec, ok := reloaded.Get("products", "P1")
	require.True(t, ok)
	assert.Equal(t, []string{"description"}, rec.MissingFields)
	assert.Equal(t, 1, reloaded.Statistics().Total)
	assert.False(t, reloaded.LastUpdate().IsZero())
}

func TestIncompleteStore_CorruptFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "i.json", []byte(`{"products": [1,2,3]}`), 0o644))

	fixed := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	store := state.NewIncompleteStore(fs, "i.json", zap.NewNop(), state.WithClock(func() time.Time { return fixed }))
	assert.Equal(t, 0, store.Statistics().Total)

	exists, err := afero.Exists(fs, "i.json.bak.20240506070809")
	require.NoError(t, err)
	assert.True(t, exists)
}
