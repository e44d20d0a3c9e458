package plugins

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mofa-run/mofa/pkg/mofaerr"
)

// ReloadMode selects when a watched plugin source change triggers a
// reload.
type ReloadMode int

const (
	ReloadImmediate ReloadMode = iota
	ReloadDebounced
	ReloadOnIdle
	ReloadManual
)

// ReloadPolicy governs one plugin's hot-reload behavior.
type ReloadPolicy struct {
	Mode              ReloadMode
	DebounceDelay     time.Duration // used when Mode == ReloadDebounced
	MaxReloadAttempts int
	ReloadCooldown    time.Duration
	RollbackOnFailure bool
}

// DefaultReloadPolicy matches hector's FileWatcher default debounce.
func DefaultReloadPolicy() ReloadPolicy {
	return ReloadPolicy{
		Mode:              ReloadDebounced,
		DebounceDelay:     100 * time.Millisecond,
		MaxReloadAttempts: 3,
		ReloadCooldown:    10 * time.Second,
		RollbackOnFailure: true,
	}
}

// Reloader swaps a running plugin instance for a freshly loaded one.
// No type in this package implements it; callers supply their own.
type Reloader interface {
	Reload(ctx context.Context, pluginName string) error
}

// attemptState tracks rolling reload-attempt bookkeeping per plugin, in
// the style of the circuit breaker's windowed counters.
type attemptState struct {
	attempts     int
	windowStart  time.Time
	lastRollback error
}

// HotReloadController watches plugin source directories via fsnotify
// and drives reloads through a Reloader, honoring each plugin's
// ReloadPolicy mode and its attempt limit within the cooldown window.
// A failed reload is logged and, under RollbackOnFailure, its error is
// kept for LastRollbackError; the controller does not itself restore
// the previously loaded instance.
//
// Direct port of the shape of hector's v2/rag FileWatcher, adapted from
// document-change events to plugin-source-change events.
type HotReloadController struct {
	watcher  *fsnotify.Watcher
	reloader Reloader

	mu        sync.Mutex
	policies  map[string]ReloadPolicy // pluginName -> policy
	watchPath map[string]string       // pluginName -> watched path
	pathOwner map[string]string       // watched path -> pluginName
	timers    map[string]*time.Timer  // pluginName -> pending debounce timer
	attempts  map[string]*attemptState
	idle      bool

	cancel context.CancelFunc
}

// NewHotReloadController creates a controller bound to reloader.
func NewHotReloadController(reloader Reloader) (*HotReloadController, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, mofaerr.Wrap(mofaerr.Internal, "create plugin fsnotify watcher", err)
	}
	return &HotReloadController{
		watcher:   w,
		reloader:  reloader,
		policies:  make(map[string]ReloadPolicy),
		watchPath: make(map[string]string),
		pathOwner: make(map[string]string),
		timers:    make(map[string]*time.Timer),
		attempts:  make(map[string]*attemptState),
		idle:      true,
	}, nil
}

// Watch registers path as the source location for pluginName under
// policy. Re-registering the same plugin replaces its policy and path.
func (c *HotReloadController) Watch(pluginName, path string, policy ReloadPolicy) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.watchPath[pluginName]; ok && old != path {
		_ = c.watcher.Remove(old)
		delete(c.pathOwner, old)
	}
	if err := c.watcher.Add(path); err != nil {
		return mofaerr.Wrap(mofaerr.Internal, "watch plugin source path", err)
	}
	c.policies[pluginName] = policy
	c.watchPath[pluginName] = path
	c.pathOwner[path] = pluginName
	return nil
}

// Run starts the event loop; it returns once ctx is cancelled.
func (c *HotReloadController) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			c.handleEvent(ctx, ev)
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("plugin hot-reload watcher error", "error", err)
		}
	}
}

// Close stops the watcher.
func (c *HotReloadController) Close() error {
	if c.cancel != nil {
		c.cancel()
	}
	return c.watcher.Close()
}

// MarkIdle/MarkBusy let the owning registry tell the controller whether
// it's safe to apply OnIdle reloads right now.
func (c *HotReloadController) MarkIdle(idle bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.idle = idle
	if idle {
		for name, policy := range c.policies {
			if policy.Mode == ReloadOnIdle && c.timers[name] != nil {
				c.fireLocked(name)
			}
		}
	}
}

func (c *HotReloadController) handleEvent(ctx context.Context, ev fsnotify.Event) {
	c.mu.Lock()
	name, ok := c.pathOwner[ev.Name]
	if !ok {
		// fsnotify reports events using the file's own path even when a
		// directory was registered; fall back to matching by prefix.
		for p, owner := range c.pathOwner {
			if len(ev.Name) >= len(p) && ev.Name[:len(p)] == p {
				name, ok = owner, true
				break
			}
		}
	}
	if !ok {
		c.mu.Unlock()
		return
	}
	policy := c.policies[name]
	defer c.mu.Unlock()

	switch policy.Mode {
	case ReloadManual:
		return
	case ReloadImmediate:
		go c.reload(ctx, name)
	case ReloadOnIdle:
		if c.idle {
			go c.reload(ctx, name)
		}
		c.timers[name] = &time.Timer{} // mark pending; MarkIdle(true) will fire it
	case ReloadDebounced:
		if t, exists := c.timers[name]; exists {
			t.Stop()
		}
		c.timers[name] = time.AfterFunc(policy.DebounceDelay, func() { c.reload(ctx, name) })
	}
}

func (c *HotReloadController) fireLocked(name string) {
	delete(c.timers, name)
}

func (c *HotReloadController) reload(ctx context.Context, pluginName string) {
	c.mu.Lock()
	policy := c.policies[pluginName]
	st, ok := c.attempts[pluginName]
	if !ok {
		st = &attemptState{windowStart: time.Now()}
		c.attempts[pluginName] = st
	}
	if time.Since(st.windowStart) > policy.ReloadCooldown {
		st.attempts = 0
		st.windowStart = time.Now()
	}
	if st.attempts >= policy.MaxReloadAttempts {
		c.mu.Unlock()
		slog.Warn("plugin hot-reload attempts exhausted within cooldown", "plugin", pluginName)
		return
	}
	st.attempts++
	c.mu.Unlock()

	if err := c.reloader.Reload(ctx, pluginName); err != nil {
		slog.Error("plugin hot-reload failed", "plugin", pluginName, "error", err)
		if policy.RollbackOnFailure {
			c.mu.Lock()
			st.lastRollback = err
			c.mu.Unlock()
		}
		return
	}
	slog.Info("plugin hot-reloaded", "plugin", pluginName)
}

// LastRollbackError reports the error of pluginName's most recent
// failed reload recorded under RollbackOnFailure, or nil.
func (c *HotReloadController) LastRollbackError(pluginName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.attempts[pluginName]; ok {
		return st.lastRollback
	}
	return nil
}
