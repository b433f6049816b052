// Package circuit implements a minimal circuit breaker. Failures past a
// threshold open the circuit; successes past a threshold close it again.
// Callers decide what opening means (fallback, fast failure); the breaker
// only tracks state.
package circuit

import "sync"

// State is the breaker's current position.
type State string

const (
	StateClosed State = "closed"
	StateOpen   State = "open"
)

// Change reports a state transition caused by a recorded outcome.
type Change struct {
	Opened bool
	Closed bool
}

// Breaker is a concurrency-safe circuit breaker.
type Breaker struct {
	mu               sync.Mutex
	name             string
	failureThreshold int
	successThreshold int
	failures         int
	successes        int
	open             bool
}

// Option configures a Breaker.
type Option func(*Breaker)

// WithFailureThreshold sets how many consecutive failures open the circuit.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) { b.failureThreshold = n }
}

// WithSuccessThreshold sets how many consecutive successes close an open
// circuit.
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) { b.successThreshold = n }
}

// New builds a closed breaker. Defaults: 5 failures to open, 1 success to
// close.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		failureThreshold: 5,
		successThreshold: 1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Breaker) Name() string { return b.name }

func (b *Breaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.open {
		return StateOpen
	}
	return StateClosed
}

// RecordFailure notes a failed call. The first return value says whether
// the caller should use its fallback (the circuit is open after this
// failure); Change flags whether this call opened it.
func (b *Breaker) RecordFailure() (bool, Change) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.open {
		b.successes = 0
		return true, Change{}
	}

	b.failures++
	if b.failures >= b.failureThreshold {
		b.open = true
		b.failures = 0
		b.successes = 0
		return true, Change{Opened: true}
	}
	return false, Change{}
}

// RecordSuccess notes a successful call. The first return value says
// whether the caller should use the primary path (the circuit is closed
// after this success); Change flags whether this call closed it.
func (b *Breaker) RecordSuccess() (bool, Change) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		b.failures = 0
		return true, Change{}
	}

	b.successes++
	if b.successes >= b.successThreshold {
		b.open = false
		b.failures = 0
		b.successes = 0
		return true, Change{Closed: true}
	}
	return false, Change{}
}

// Reset forces the breaker closed and clears all counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open = false
	b.failures = 0
	b.successes = 0
}
