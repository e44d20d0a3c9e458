package plugins

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReloader struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (r *countingReloader) Reload(ctx context.Context, pluginName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, pluginName)
	return r.err
}

func (r *countingReloader) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestHotReloadDebouncedCoalescesRapidWrites(t *testing.T) {
	dir := t.TempDir()
	reloader := &countingReloader{}
	c, err := NewHotReloadController(reloader)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Watch("demo", dir, ReloadPolicy{
		Mode:              ReloadDebounced,
		DebounceDelay:     30 * time.Millisecond,
		MaxReloadAttempts: 5,
		ReloadCooldown:    time.Second,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	path := filepath.Join(dir, "plugin.so")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 1, reloader.count(), "rapid writes within the debounce window should coalesce into one reload")
}

func TestHotReloadManualModeNeverFires(t *testing.T) {
	dir := t.TempDir()
	reloader := &countingReloader{}
	c, err := NewHotReloadController(reloader)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Watch("demo", dir, ReloadPolicy{Mode: ReloadManual}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "plugin.so"), []byte("x"), 0o644))
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 0, reloader.count())
}
