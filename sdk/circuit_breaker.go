package sdk

import (
	"sync"
	"time"
)

// CircuitState represents the state of a circuit breaker.
//
// State transitions:
//
//	Closed → Open: after FailureThreshold consecutive failures
//	Open → Half-Open: after Timeout has elapsed
//	Half-Open → Closed: after SuccessThreshold consecutive successes
//	Half-Open → Open: on any failure
type CircuitState int

const (
	// CircuitClosed lets requests through
	CircuitClosed CircuitState = iota
	// CircuitOpen rejects requests immediately
	CircuitOpen
	// CircuitHalfOpen lets a limited number of probe requests through
	CircuitHalfOpen
)

// String returns the string representation of the circuit state
func (cs CircuitState) String() string {
	switch cs {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker fails fast once Confluence keeps failing.
type CircuitBreaker interface {
	// Execute runs fn unless the circuit is open.
	Execute(fn func() error) error

	// State returns the current state.
	State() CircuitState

	// Reset closes the circuit and clears all counters.
	Reset()
}

// CircuitBreakerConfig configures a circuit breaker.
//
// Example:
//
//	config := sdk.CircuitBreakerConfig{
//	    FailureThreshold: 10,
//	    SuccessThreshold: 3,
//	    Timeout:          60 * time.Second,
//	    HalfOpenRequests: 5,
//	}
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold int

	// SuccessThreshold is the number of half-open successes that closes it again.
	SuccessThreshold int

	// Timeout is how long the circuit stays open before probing.
	Timeout time.Duration

	// HalfOpenRequests caps the probes in flight while half-open.
	HalfOpenRequests int
}

// DefaultCircuitBreakerConfig returns a configuration that opens after 5
// failures, probes after 30s with up to 3 requests and closes after 2
// successes.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
		HalfOpenRequests: 3,
	}
}

// stateChangeFunc is called, without the breaker lock held, after a transition.
type stateChangeFunc func(from, to CircuitState)

type circuitBreaker struct {
	config   CircuitBreakerConfig
	onChange stateChangeFunc
	now      func() time.Time

	mu               sync.Mutex
	state            CircuitState
	failures         int
	successes        int
	halfOpenRequests int
	openedAt         time.Time
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) CircuitBreaker {
	return newCircuitBreaker(config, nil)
}

func newCircuitBreaker(config CircuitBreakerConfig, onChange stateChangeFunc) *circuitBreaker {
	return &circuitBreaker{
		config:   config,
		onChange: onChange,
		now:      time.Now,
		state:    CircuitClosed,
	}
}

// Execute runs fn unless the circuit is open
func (cb *circuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	from, to := cb.state, cb.advance()

	switch to {
	case CircuitOpen:
		cb.mu.Unlock()
		cb.notify(from, to)
		return NewError(ErrorTypeCircuitOpen, "circuit breaker is open", ErrCircuitOpen)
	case CircuitHalfOpen:
		if cb.halfOpenRequests >= cb.config.HalfOpenRequests {
			cb.mu.Unlock()
			cb.notify(from, to)
			return NewError(ErrorTypeCircuitOpen, "circuit breaker half-open limit reached", ErrCircuitOpen)
		}
		cb.halfOpenRequests++
	}
	cb.mu.Unlock()
	cb.notify(from, to)

	err := fn()

	cb.mu.Lock()
	before := cb.state
	if to == CircuitHalfOpen && cb.state == CircuitHalfOpen && cb.halfOpenRequests > 0 {
		cb.halfOpenRequests--
	}
	if countsAsFailure(err) {
		cb.onFailure()
	} else {
		cb.onSuccess()
	}
	after := cb.state
	cb.mu.Unlock()
	cb.notify(before, after)

	return err
}

// State returns the current state
func (cb *circuitBreaker) State() CircuitState {
	cb.mu.Lock()
	from, to := cb.state, cb.advance()
	cb.mu.Unlock()
	cb.notify(from, to)
	return to
}

// Reset closes the circuit
func (cb *circuitBreaker) Reset() {
	cb.mu.Lock()
	from := cb.state
	cb.transitionTo(CircuitClosed)
	cb.mu.Unlock()
	cb.notify(from, CircuitClosed)
}

// advance moves an expired open circuit to half-open. Caller holds mu.
func (cb *circuitBreaker) advance() CircuitState {
	if cb.state == CircuitOpen && cb.now().Sub(cb.openedAt) >= cb.config.Timeout {
		cb.transitionTo(CircuitHalfOpen)
	}
	return cb.state
}

func (cb *circuitBreaker) onSuccess() {
	switch cb.state {
	case CircuitClosed:
		cb.failures = 0
	case CircuitHalfOpen:
		cb.successes++
		if cb.successes >= cb.config.SuccessThreshold {
			cb.transitionTo(CircuitClosed)
		}
	}
}

func (cb *circuitBreaker) onFailure() {
	switch cb.state {
	case CircuitClosed:
		cb.failures++
		if cb.failures >= cb.config.FailureThreshold {
			cb.transitionTo(CircuitOpen)
		}
	case CircuitHalfOpen:
		cb.transitionTo(CircuitOpen)
	}
}

func (cb *circuitBreaker) transitionTo(newState CircuitState) {
	if cb.state == newState {
		return
	}
	cb.state = newState
	cb.failures = 0
	cb.successes = 0
	cb.halfOpenRequests = 0
	if newState == CircuitOpen {
		cb.openedAt = cb.now()
	}
}

func (cb *circuitBreaker) notify(from, to CircuitState) {
	if from != to && cb.onChange != nil {
		cb.onChange(from, to)
	}
}

// countsAsFailure ignores client errors: a 404 says nothing about the
// health of the server.
func countsAsFailure(err error) bool {
	if err == nil {
		return false
	}
	return IsRetryable(err)
}

// perEndpointCircuitBreaker keeps one breaker per endpoint key such as
// "GET space".
type perEndpointCircuitBreaker struct {
	mu       sync.RWMutex
	breakers map[string]*circuitBreaker
	config   CircuitBreakerConfig
	onChange func(endpoint string, from, to CircuitState)
}

func newPerEndpointCircuitBreaker(config CircuitBreakerConfig, onChange func(endpoint string, from, to CircuitState)) *perEndpointCircuitBreaker {
	return &perEndpointCircuitBreaker{
		breakers: make(map[string]*circuitBreaker),
		config:   config,
		onChange: onChange,
	}
}

// Execute runs fn through the breaker for endpoint
func (p *perEndpointCircuitBreaker) Execute(endpoint string, fn func() error) error {
	return p.getOrCreate(endpoint).Execute(fn)
}

// State returns the state for endpoint; unknown endpoints are closed
func (p *perEndpointCircuitBreaker) State(endpoint string) CircuitState {
	p.mu.RLock()
	cb, exists := p.breakers[endpoint]
	p.mu.RUnlock()
	if !exists {
		return CircuitClosed
	}
	return cb.State()
}

// ResetAll closes every breaker
func (p *perEndpointCircuitBreaker) ResetAll() {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, cb := range p.breakers {
		cb.Reset()
	}
}

func (p *perEndpointCircuitBreaker) getOrCreate(endpoint string) *circuitBreaker {
	p.mu.RLock()
	cb, exists := p.breakers[endpoint]
	p.mu.RUnlock()
	if exists {
		return cb
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if cb, exists := p.breakers[endpoint]; exists {
		return cb
	}

	var onChange stateChangeFunc
	if p.onChange != nil {
		onChange = func(from, to CircuitState) { p.onChange(endpoint, from, to) }
	}
	cb = newCircuitBreaker(p.config, onChange)
	p.breakers[endpoint] = cb
	return cb
}

type noopCircuitBreaker struct{}

func (noopCircuitBreaker) Execute(fn func() error) error { return fn() }
func (noopCircuitBreaker) State() CircuitState           { return CircuitClosed }
func (noopCircuitBreaker) Reset()                        {}

// NewNoopCircuitBreaker returns a breaker that never opens.
func NewNoopCircuitBreaker() CircuitBreaker {
	return noopCircuitBreaker{}
}
