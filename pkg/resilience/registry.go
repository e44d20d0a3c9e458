package resilience

import "sync"

// CircuitBreakerRegistry lazily creates and caches one CircuitBreaker
// per name, so unrelated call sites sharing a logical dependency name
// share fate.
type CircuitBreakerRegistry struct {
	mu       sync.RWMutex
	breakers map[string]*CircuitBreaker
	newCfg   func(name string) CircuitBreakerConfig
}

// NewCircuitBreakerRegistry creates a registry whose breakers are
// configured by newCfg (DefaultCircuitBreakerConfig if nil).
func NewCircuitBreakerRegistry(newCfg func(name string) CircuitBreakerConfig) *CircuitBreakerRegistry {
	if newCfg == nil {
		newCfg = DefaultCircuitBreakerConfig
	}
	return &CircuitBreakerRegistry{
		breakers: make(map[string]*CircuitBreaker),
		newCfg:   newCfg,
	}
}

// Get returns the breaker for name, creating it with the registry's
// default config on first use.
func (r *CircuitBreakerRegistry) Get(name string) *CircuitBreaker {
	r.mu.RLock()
	cb, ok := r.breakers[name]
	r.mu.RUnlock()
	if ok {
		return cb
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cb, ok := r.breakers[name]; ok {
		return cb
	}
	cb = NewCircuitBreaker(r.newCfg(name))
	r.breakers[name] = cb
	return cb
}

// GetWithConfig returns the breaker for name, creating it with cfg if
// it does not already exist. cfg is ignored if the breaker already
// exists.
func (r *CircuitBreakerRegistry) GetWithConfig(name string, cfg CircuitBreakerConfig) *CircuitBreaker {
	r.mu.RLock()
	cb, ok := r.breakers[name]
	r.mu.RUnlock()
	if ok {
		return cb
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cb, ok := r.breakers[name]; ok {
		return cb
	}
	cb = NewCircuitBreaker(cfg)
	r.breakers[name] = cb
	return cb
}

// AllStats returns a snapshot of every registered breaker's Stats.
func (r *CircuitBreakerRegistry) AllStats() []Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Stats, 0, len(r.breakers))
	for _, cb := range r.breakers {
		out = append(out, cb.Stats())
	}
	return out
}

// OpenCircuits returns the names of breakers currently Open.
func (r *CircuitBreakerRegistry) OpenCircuits() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for name, cb := range r.breakers {
		if cb.State() == StateOpen {
			out = append(out, name)
		}
	}
	return out
}

// ResetAll forces every registered breaker back to Closed.
func (r *CircuitBreakerRegistry) ResetAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, cb := range r.breakers {
		cb.Reset()
	}
}

// DefaultCircuitBreakerRegistry is a process-wide convenience
// registry for call sites that do not need per-dependency tuning.
var DefaultCircuitBreakerRegistry = NewCircuitBreakerRegistry(nil)

// GetCircuitBreaker returns the default registry's breaker for name.
func GetCircuitBreaker(name string) *CircuitBreaker {
	return DefaultCircuitBreakerRegistry.Get(name)
}
