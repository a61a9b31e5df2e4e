package agent

import (
	"testing"
	"time"

	"github.com/sandevgo/pixbot/internal/service/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassthroughOptimizer_Identity(t *testing.T) {
	store := session.NewStore(time.Hour, 100)
	o := NewPassthroughOptimizer(store)

	queries := []string{
		"sunset at the beach",
		"我昨天拍的小狗照片",
		"",
		"  padded  ",
	}

	for _, q := range queries {
		assert.Equal(t, q, o.Optimize(q, ""))
	}
}

func TestPassthroughOptimizer_RecordsHistoryEvent(t *testing.T) {
	store := session.NewStore(time.Hour, 100)
	o := NewPassthroughOptimizer(store)

	id := store.Create("")
	got := o.Optimize("dog photos", id)
	assert.Equal(t, "dog photos", got)

	snap, ok := store.Get(id)
	require.True(t, ok)
	require.Len(t, snap.History, 1)

	ev := snap.History[0]
	assert.Equal(t, session.EventQueryOptimize, ev.Type)
	assert.Equal(t, "dog photos", ev.Fields["original"])
	assert.Equal(t, "dog photos", ev.Fields["optimized"])
	assert.False(t, ev.Timestamp.IsZero())
}

func TestPassthroughOptimizer_UnknownSessionIsNoop(t *testing.T) {
	store := session.NewStore(time.Hour, 100)
	o := NewPassthroughOptimizer(store)

	known := store.Create("")

	assert.Equal(t, "q", o.Optimize("q", "no-such-session"))

	snap, ok := store.Get(known)
	require.True(t, ok)
	assert.Empty(t, snap.History)
	assert.Equal(t, 1, store.Len())
}
