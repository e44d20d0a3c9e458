// Package resilience implements the C8 resilience layer: circuit
// breaker, retry policy, fallback chain, and context-window manager
//.
package resilience

import (
	"sync"
	"time"
)

// State is one of the three circuit breaker states.
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

// CircuitBreakerConfig configures a CircuitBreaker. The failure-rate
// mode (UseFailureRate) opens the circuit when, within WindowDuration,
// at least MinimumRequests have been observed and the failure
// percentage is at or above FailureRateThreshold; otherwise the
// simpler ConsecutiveFailures >= FailureThreshold rule applies.
type CircuitBreakerConfig struct {
	Name                     string
	Enabled                  bool
	FailureThreshold         uint32
	SuccessThreshold         uint32
	Timeout                  time.Duration
	HalfOpenMaxRequests      uint32
	WindowDuration           time.Duration
	MinimumRequests          uint32
	FailureRateThreshold     uint32 // percentage, 0-100
	CountTimeoutsAsFailures  bool
	UseFailureRate           bool
}

// DefaultCircuitBreakerConfig matches the runtime's conservative
// default: open after 5 consecutive failures, close after 3 straight
// successes in half-open, 30s cool-down.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:                    name,
		Enabled:                 true,
		FailureThreshold:        5,
		SuccessThreshold:        3,
		Timeout:                 30 * time.Second,
		HalfOpenMaxRequests:     3,
		WindowDuration:          120 * time.Second,
		MinimumRequests:         10,
		FailureRateThreshold:    50,
		CountTimeoutsAsFailures: true,
		UseFailureRate:          false,
	}
}

type windowSample struct {
	at      time.Time
	failure bool
}

// CircuitBreaker guards a single external dependency. Zero value is
// not usable; construct with NewCircuitBreaker.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig

	mu               sync.Mutex
	state            State
	consecutiveFails uint32
	halfOpenSuccess  uint32
	halfOpenInFlight uint32
	openedAt         time.Time
	window           []windowSample

	onStateChange func(name string, from, to State)
}

// NewCircuitBreaker constructs a breaker in the Closed state.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{cfg: cfg, state: StateClosed}
}

// OnStateChange registers a callback invoked on a new goroutine
// (holding no lock) whenever the breaker transitions state; calls for
// successive transitions may run in any order.
func (cb *CircuitBreaker) OnStateChange(fn func(name string, from, to State)) {
	cb.mu.Lock()
	cb.onStateChange = fn
	cb.mu.Unlock()
}

// State reports the breaker's current state, advancing Open->HalfOpen
// if the timeout has elapsed.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.maybeTransitionToHalfOpenLocked()
	return cb.state
}

// Allow reports whether a new call may proceed, reserving a half-open
// probe slot if applicable. Callers that receive false must invoke
// their fallback instead of the guarded call.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if !cb.cfg.Enabled {
		return true
	}
	cb.maybeTransitionToHalfOpenLocked()
	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		return false
	case StateHalfOpen:
		if cb.halfOpenInFlight >= cb.cfg.HalfOpenMaxRequests {
			return false
		}
		cb.halfOpenInFlight++
		return true
	}
	return false
}

// RecordSuccess reports a successful call outcome.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.recordWindowLocked(false)
	switch cb.state {
	case StateHalfOpen:
		if cb.halfOpenInFlight > 0 {
			cb.halfOpenInFlight--
		}
		cb.halfOpenSuccess++
		if cb.halfOpenSuccess >= cb.cfg.SuccessThreshold {
			cb.transitionLocked(StateClosed)
		}
	case StateClosed:
		cb.consecutiveFails = 0
	}
}

// RecordFailure reports a failed call outcome. isTimeout indicates the
// failure was a timeout, relevant when CountTimeoutsAsFailures is
// false.
func (cb *CircuitBreaker) RecordFailure(isTimeout bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if isTimeout && !cb.cfg.CountTimeoutsAsFailures {
		if cb.state == StateHalfOpen && cb.halfOpenInFlight > 0 {
			cb.halfOpenInFlight--
		}
		return
	}
	cb.recordWindowLocked(true)
	switch cb.state {
	case StateHalfOpen:
		if cb.halfOpenInFlight > 0 {
			cb.halfOpenInFlight--
		}
		cb.transitionLocked(StateOpen)
	case StateClosed:
		cb.consecutiveFails++
		if cb.shouldOpenLocked() {
			cb.transitionLocked(StateOpen)
		}
	}
}

func (cb *CircuitBreaker) recordWindowLocked(failure bool) {
	now := time.Now()
	cb.window = append(cb.window, windowSample{at: now, failure: failure})
	cutoff := now.Add(-cb.cfg.WindowDuration)
	i := 0
	for ; i < len(cb.window); i++ {
		if cb.window[i].at.After(cutoff) {
			break
		}
	}
	cb.window = cb.window[i:]
}

func (cb *CircuitBreaker) shouldOpenLocked() bool {
	if cb.consecutiveFails >= cb.cfg.FailureThreshold {
		return true
	}
	if !cb.cfg.UseFailureRate {
		return false
	}
	total := len(cb.window)
	if uint32(total) < cb.cfg.MinimumRequests {
		return false
	}
	failed := 0
	for _, s := range cb.window {
		if s.failure {
			failed++
		}
	}
	pct := uint32(failed * 100 / total)
	return pct >= cb.cfg.FailureRateThreshold
}

func (cb *CircuitBreaker) maybeTransitionToHalfOpenLocked() {
	if cb.state == StateOpen && time.Since(cb.openedAt) >= cb.cfg.Timeout {
		cb.transitionLocked(StateHalfOpen)
	}
}

func (cb *CircuitBreaker) transitionLocked(to State) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	switch to {
	case StateOpen:
		cb.openedAt = time.Now()
		cb.halfOpenSuccess = 0
		cb.halfOpenInFlight = 0
	case StateHalfOpen:
		cb.halfOpenSuccess = 0
		cb.halfOpenInFlight = 0
	case StateClosed:
		cb.consecutiveFails = 0
		cb.window = nil
	}
	if cb.onStateChange != nil {
		fn := cb.onStateChange
		go fn(cb.cfg.Name, from, to)
	}
}

// Stats is a point-in-time snapshot for observability.
type Stats struct {
	Name             string
	State            State
	ConsecutiveFails uint32
}

func (cb *CircuitBreaker) Stats() Stats {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return Stats{Name: cb.cfg.Name, State: cb.state, ConsecutiveFails: cb.consecutiveFails}
}

// Reset forces the breaker back to Closed, discarding all counters.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = StateClosed
	cb.consecutiveFails = 0
	cb.halfOpenSuccess = 0
	cb.halfOpenInFlight = 0
	cb.window = nil
}
