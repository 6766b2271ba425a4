// Package circuitbreaker implements a per-provider circuit breaker for LLM
// calls. After consecutive failures the breaker opens and fails fast,
// periodically letting a probe through to test recovery.
package circuitbreaker

import (
	"sync"
	"time"
)

// State represents the circuit breaker state machine.
type State int

const (
	// StateClosed is normal operation; calls flow through.
	StateClosed State = iota

	// StateOpen fails fast; the provider is considered down.
	StateOpen

	// StateHalfOpen allows probe calls to test recovery.
	StateHalfOpen
)

// String returns the state name for logs and health snapshots.
func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

// Config tunes one breaker. Defaults match production thresholds: open
// after 3 consecutive failures, close after 2 probe successes, allow a
// probe 60 seconds after the last failure.
type Config struct {
	FailureThreshold int
	SuccessThreshold int
	OpenTimeout      time.Duration
}

// Breaker is a single provider's circuit breaker. Safe for concurrent use.
type Breaker struct {
	mu          sync.Mutex
	cfg         Config
	state       State
	failures    int
	successes   int
	lastFailure time.Time
}

// NewBreaker creates a closed breaker with the given configuration.
func NewBreaker(cfg Config) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 60 * time.Second
	}
	return &Breaker{cfg: cfg}
}

// Allow reports whether a call may proceed. An open breaker transitions to
// half-open once the open timeout has elapsed since the last failure.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed, StateHalfOpen:
		return true
	case StateOpen:
		if time.Since(b.lastFailure) >= b.cfg.OpenTimeout {
			b.state = StateHalfOpen
			b.successes = 0
			return true
		}
		return false
	}
	return true
}

// RecordSuccess notes a successful call, closing a half-open breaker once
// enough probes succeed.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	if b.state == StateHalfOpen {
		b.successes++
		if b.successes >= b.cfg.SuccessThreshold {
			b.state = StateClosed
			b.successes = 0
		}
	}
}

// RecordFailure notes a failed call. A half-open breaker reopens on any
// failure; a closed breaker opens at the failure threshold.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastFailure = time.Now()
	b.successes = 0

	if b.state == StateHalfOpen {
		b.state = StateOpen
		return
	}
	b.failures++
	if b.failures >= b.cfg.FailureThreshold {
		b.state = StateOpen
	}
}

// State returns the current breaker state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Health snapshots a breaker for provider health reporting.
type Health struct {
	State    string `json:"state"`
	Failures int    `json:"failures"`
}

// Snapshot returns the breaker's health for status endpoints.
func (b *Breaker) Snapshot() Health {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Health{State: b.state.String(), Failures: b.failures}
}
