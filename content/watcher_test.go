package content

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeContent(t *testing.T, path string, c *Content) {
	t.Helper()
	data, err := Encode(c, FormatYAML)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	writeContent(t, path, MustDefault())

	initial, err := Load(path)
	require.NoError(t, err)
	store := NewStore(initial)

	var reloads, failures atomic.Int32
	w, err := NewWatcher(path, store,
		WithDebounce(20*time.Millisecond),
		WithReloadHandler(
			func(*Content) { reloads.Add(1) },
			func(error) { failures.Add(1) },
		),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})

	// give fsnotify time to register the directory
	time.Sleep(50 * time.Millisecond)

	updated := MustDefault()
	updated.Company = "Verdant Agriculture Co."
	writeContent(t, path, updated)

	require.Eventually(t, func() bool {
		return store.Load().Company == "Verdant Agriculture Co."
	}, 5*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, reloads.Load(), int32(1))

	// a broken save keeps the last good catalog
	require.NoError(t, os.WriteFile(path, []byte("projects: [oops"), 0o600))
	require.Eventually(t, func() bool { return failures.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, "Verdant Agriculture Co.", store.Load().Company)
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	writeContent(t, path, MustDefault())

	w, err := NewWatcher(path, NewStore(MustDefault()))
	require.NoError(t, err)
	assert.Equal(t, path, w.Path())

	_, err = NewWatcher(filepath.Join(dir, "site.txt"), NewStore(MustDefault()))
	require.ErrorIs(t, err, ErrUnknownFormat)
}
