package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetOrCreate(t *testing.T) {
	f := newFixture(t, DefaultConfig())

	s, created := f.store.GetOrCreate("forged-id", "/about")
	require.True(t, created)
	assert.NotEqual(t, "forged-id", s.ID())

	again, created := f.store.GetOrCreate(s.ID(), "/")
	assert.False(t, created)
	assert.Same(t, s, again)

	got, err := f.store.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = f.store.Get("nope")
	require.ErrorIs(t, err, ErrUnknownSession)
	assert.Equal(t, 1, f.store.Len())
	assert.Equal(t, 1, f.rec.count(EventTypeSessionCreated))
}

func TestStore_SweepEvictsIdleSessions(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	idle := f.open(t, "/")
	f.sched.Advance(20 * time.Minute)
	active := f.open(t, "/about")

	f.sched.Advance(15 * time.Minute)
	_, err := active.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, f.store.Sweep())
	assert.Equal(t, 1, f.store.Len())

	_, err = f.store.Get(idle.ID())
	require.ErrorIs(t, err, ErrUnknownSession)
	_, err = idle.Snapshot(context.Background())
	require.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, 1, f.rec.count(EventTypeSessionEvicted))
}

func TestStore_Sweeper(t *testing.T) {
	f := newFixture(t, DefaultConfig())

	require.ErrorIs(t, f.store.StartSweeper("every tuesday"), ErrInvalidSchedule)
	require.NoError(t, f.store.StartSweeper(""))
	require.ErrorIs(t, f.store.StartSweeper("@every 1m"), ErrSweeperRunning)

	f.store.StopSweeper()
	require.NoError(t, f.store.StartSweeper("@every 30s"))
}

func TestStore_CloseClosesSessions(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	a := f.open(t, "/")
	b := f.open(t, "/projects/1")

	f.store.Close()
	assert.Zero(t, f.store.Len())
	_, err := a.Snapshot(context.Background())
	require.ErrorIs(t, err, ErrClosed)
	_, err = b.Snapshot(context.Background())
	require.ErrorIs(t, err, ErrClosed)
	assert.Zero(t, f.sched.Pending())
}

func TestEventTypes(t *testing.T) {
	types := EventTypes()
	assert.Len(t, types, 13)
	seen := map[string]bool{}
	for _, et := range types {
		assert.False(t, seen[et], et)
		seen[et] = true
	}
}
