package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateUniqueIDs(t *testing.T) {
	store := NewStore(time.Hour, 20000)

	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		id := store.Create("")
		_, dup := seen[id]
		require.False(t, dup, "duplicate session id %s", id)
		seen[id] = struct{}{}
	}

	assert.Equal(t, 10000, store.Len())
}

func TestStore_GetReturnsSnapshot(t *testing.T) {
	store := NewStore(time.Hour, 100)
	id := store.Create("user-1")

	store.AppendEvent(id, Event{
		Type:   EventQueryOptimize,
		Fields: map[string]any{"original": "a", "optimized": "a"},
	})

	snap, ok := store.Get(id)
	require.True(t, ok)
	assert.Equal(t, "user-1", snap.UserID)
	assert.False(t, snap.CreatedAt.IsZero())
	require.Len(t, snap.History, 1)
	assert.Equal(t, EventQueryOptimize, snap.History[0].Type)
	assert.False(t, snap.History[0].Timestamp.IsZero())

	// Mutating the snapshot must not leak back into the store.
	snap.History[0].Type = "tampered"
	snap.Context["k"] = "v"

	again, ok := store.Get(id)
	require.True(t, ok)
	assert.Equal(t, EventQueryOptimize, again.History[0].Type)
	assert.Empty(t, again.Context)
}

func TestStore_GetUnknown(t *testing.T) {
	store := NewStore(time.Hour, 100)

	_, ok := store.Get("no-such-session")
	assert.False(t, ok)
	assert.False(t, store.Exists("no-such-session"))
}

func TestStore_AppendEventUnknownIsNoop(t *testing.T) {
	store := NewStore(time.Hour, 100)

	store.AppendEvent("no-such-session", Event{Type: EventQueryOptimize})
	assert.Equal(t, 0, store.Len())
}

func TestStore_HistoryOrder(t *testing.T) {
	store := NewStore(time.Hour, 100)
	id := store.Create("")

	for i, q := range []string{"first", "second", "third"} {
		store.AppendEvent(id, Event{
			Type:   EventQueryOptimize,
			Fields: map[string]any{"original": q},
		})
		snap, ok := store.Get(id)
		require.True(t, ok)
		require.Len(t, snap.History, i+1)
	}

	snap, _ := store.Get(id)
	assert.Equal(t, "first", snap.History[0].Fields["original"])
	assert.Equal(t, "second", snap.History[1].Fields["original"])
	assert.Equal(t, "third", snap.History[2].Fields["original"])
}

func TestStore_EvictExpired(t *testing.T) {
	store := NewStore(time.Hour, 100)

	current := time.Now()
	store.now = func() time.Time { return current }

	stale := store.Create("")
	current = current.Add(2 * time.Hour)
	fresh := store.Create("")

	removed := store.Evict()
	assert.Equal(t, 1, removed)
	assert.False(t, store.Exists(stale))
	assert.True(t, store.Exists(fresh))
}

func TestStore_CapacityEvictsOldest(t *testing.T) {
	store := NewStore(time.Hour, 2)

	current := time.Now()
	store.now = func() time.Time { return current }

	first := store.Create("")
	current = current.Add(time.Minute)
	second := store.Create("")
	current = current.Add(time.Minute)
	third := store.Create("")

	assert.Equal(t, 2, store.Len())
	assert.False(t, store.Exists(first))
	assert.True(t, store.Exists(second))
	assert.True(t, store.Exists(third))
}

func TestStore_SetContext(t *testing.T) {
	store := NewStore(time.Hour, 100)
	id := store.Create("")

	store.SetContext(id, "last_total", 7)

	snap, ok := store.Get(id)
	require.True(t, ok)
	assert.Equal(t, 7, snap.Context["last_total"])
}
