package runner

import (
	"sync"
	"sync/atomic"

	"github.com/mofa-run/mofa/pkg/ids"
)

// EventEmitter receives lifecycle and execution events from a Context.
// Any sink, the bus included, can be adapted to it with
// EventEmitterFunc.
type EventEmitter interface {
	Emit(name string, payload any)
}

// EventEmitterFunc adapts a plain function to EventEmitter.
type EventEmitterFunc func(name string, payload any)

func (f EventEmitterFunc) Emit(name string, payload any) { f(name, payload) }

// noopEmitter discards every event; used when a Context is built
// without an explicit emitter.
type noopEmitter struct{}

func (noopEmitter) Emit(string, any) {}

// Context is the per-execution carrier: it
// holds identity, a dynamic-typed key/value map, an interruption flag,
// an event emitter, and an optional parent for read-through lookup.
// Child writes are always local — only Find reads through to the
// parent.
type Context struct {
	ExecutionID ids.ExecutionID
	SessionID   *ids.SessionID
	parent      *Context

	mu     sync.RWMutex
	values map[string]any

	interrupted atomic.Bool
	emitter     EventEmitter
	config      map[string]any
}

// NewContext creates a root Context (no parent).
func NewContext(config map[string]any, emitter EventEmitter) *Context {
	if emitter == nil {
		emitter = noopEmitter{}
	}
	return &Context{
		ExecutionID: ids.NewExecutionID(),
		values:      make(map[string]any),
		emitter:     emitter,
		config:      config,
	}
}

// Child creates a new Context scoped under c. The child inherits c's
// emitter and config unless overridden, and reads through to c via
// Find; its own Set calls never affect the parent.
func (c *Context) Child() *Context {
	return &Context{
		ExecutionID: ids.NewExecutionID(),
		SessionID:   c.SessionID,
		parent:      c,
		values:      make(map[string]any),
		emitter:     c.emitter,
		config:      c.config,
	}
}

// Set stores value under key, local to this context.
func (c *Context) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

// Get returns the value stored locally under key, without consulting
// the parent.
func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

// Find reads key from this context, falling through to ancestors if
// not found locally.
func (c *Context) Find(key string) (any, bool) {
	if v, ok := c.Get(key); ok {
		return v, true
	}
	if c.parent != nil {
		return c.parent.Find(key)
	}
	return nil, false
}

// Config returns the configuration value under key.
func (c *Context) Config(key string) (any, bool) {
	v, ok := c.config[key]
	return v, ok
}

// Interrupt raises the interruption flag. Idempotent: calling it twice
// has the same effect as once (property 8).
func (c *Context) Interrupt() {
	c.interrupted.Store(true)
}

// Interrupted reports whether Interrupt has been called.
func (c *Context) Interrupted() bool {
	return c.interrupted.Load()
}

// Emit forwards an event to the configured EventEmitter.
func (c *Context) Emit(name string, payload any) {
	c.emitter.Emit(name, payload)
}
