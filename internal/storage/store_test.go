package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_PutAndGet(t *testing.T) {
	store := setupTestStore(t)

	in := []cachedCategory{{ID: 1, Name: "Billing"}, {ID: 2, Name: "Accounts"}}
	require.NoError(t, store.Put("/categories.json", in))

	var out []cachedCategory
	hit, err := store.Get("/categories.json", time.Minute, &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, in, out)
}

func TestStore_Miss(t *testing.T) {
	store := setupTestStore(t)

	var out []cachedCategory
	hit, err := store.Get("/nope.json", time.Minute, &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, out)
}

func TestStore_ExpiredEntryIsAMiss(t *testing.T) {
	store := setupTestStore(t)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	require.NoError(t, store.Put("k", []int{1}))

	store.now = func() time.Time { return base.Add(10 * time.Minute) }
	var out []int
	hit, err := store.Get("k", 5*time.Minute, &out)
	require.NoError(t, err)
	assert.False(t, hit)

	hit, err = store.Get("k", 0, &out)
	require.NoError(t, err)
	assert.True(t, hit, "zero max age accepts any entry")
}

func TestStore_Invalidate(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.Put("a", 1))
	require.NoError(t, store.Put("b", 2))

	n, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	last, err := store.LastInvalidated()
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	require.NoError(t, store.Invalidate())

	n, err = store.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	last, err = store.LastInvalidated()
	require.NoError(t, err)
	assert.False(t, last.IsZero())
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Put("k", "v"))
	require.NoError(t, store.Close())

	store, err = NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	var v string
	hit, err := store.Get("k", 0, &v)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "v", v)
}
