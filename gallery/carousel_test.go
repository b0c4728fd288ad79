package gallery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoCodeAlone/verdant"
)

func images() []Image {
	return []Image{
		{URL: "a.jpg", Caption: "Aerial view of the optimized blocks"},
		{URL: "b.jpg", Caption: "Smart irrigation sensors installed"},
		{URL: "c.jpg", Caption: "Harvest season results"},
	}
}

func newSched() *verdant.ManualScheduler {
	return verdant.NewManualScheduler(time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC))
}

func TestCarousel_WrapsBothWays(t *testing.T) {
	c := New(newSched(), images())

	assert.Equal(t, 2, c.Prev())
	assert.Equal(t, 0, c.Next())
	assert.Equal(t, 1, c.Next())
	assert.Equal(t, 2, c.Next())
	assert.Equal(t, 0, c.Next())
}

func TestCarousel_AutoAdvance(t *testing.T) {
	sched := newSched()
	var seen []int
	c := New(sched, images(), WithObserver(func(i int) { seen = append(seen, i) }))

	sched.Advance(3 * DefaultInterval)
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, []int{1, 2, 0}, seen)
	assert.Equal(t, 1, sched.Pending())
}

func TestCarousel_ManualMoveRestartsInterval(t *testing.T) {
	sched := newSched()
	c := New(sched, images())

	sched.Advance(4 * time.Second)
	c.Next()
	sched.Advance(4 * time.Second)
	assert.Equal(t, 1, c.Index(), "interval restarted by the manual move")
	sched.Advance(time.Second)
	assert.Equal(t, 2, c.Index())
}

func TestCarousel_Show(t *testing.T) {
	c := New(newSched(), images())
	require.NoError(t, c.Show(2))
	img, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "Harvest season results", img.Caption)

	require.ErrorIs(t, c.Show(3), ErrIndexOutOfRange)
	require.ErrorIs(t, c.Show(-1), ErrIndexOutOfRange)
}

func TestCarousel_EmptyAndSingle(t *testing.T) {
	sched := newSched()
	empty := New(sched, nil)
	assert.Zero(t, empty.Next())
	_, ok := empty.Current()
	assert.False(t, ok)

	single := New(sched, images()[:1])
	assert.Zero(t, single.Next())
	assert.Zero(t, sched.Pending(), "nothing to cycle through")
}

func TestCarousel_Close(t *testing.T) {
	sched := newSched()
	c := New(sched, images())
	c.Close()
	assert.Zero(t, sched.Pending())
	c.Next()
	assert.Zero(t, sched.Pending())
	sched.Advance(time.Minute)
	assert.Equal(t, 1, c.Index())
}
