// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"sync"
	"time"
)

// CircuitBreaker guards the downstream engine against repeated failures. It
// opens after a configurable count of consecutive failed dispatches and
// rejects calls without network I/O until a cooldown elapses, then admits a
// single trial dispatch (half-open). A successful dispatch resets the
// failure counter; a failed trial reopens the breaker immediately.
//
// The breaker is owned by a Dispatcher instance and shared by reference
// across all its call sites. Safe for concurrent use.
type CircuitBreaker struct {
	mu sync.Mutex

	threshold int
	cooldown  time.Duration

	consecutiveFailures int
	lastFailureTime     time.Time
	open                bool

	// halfOpen marks that the single post-cooldown trial has been admitted
	// and its outcome is still pending.
	halfOpen bool

	// test hook; defaults to time.Now.
	now func() time.Time
}

// NewCircuitBreaker constructs a breaker that opens after threshold
// consecutive failures and half-opens after cooldown.
func NewCircuitBreaker(threshold int, cooldown time.Duration) *CircuitBreaker {
	if threshold < 1 {
		threshold = 1
	}
	return &CircuitBreaker{
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// Allow reports whether a dispatch may proceed. While open it returns
// [ErrCircuitOpen] until the cooldown has elapsed, then admits exactly one
// trial; further callers are rejected until that trial settles via
// RecordSuccess or RecordFailure.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return nil
	}
	if b.halfOpen {
		return ErrCircuitOpen
	}
	if b.now().Sub(b.lastFailureTime) < b.cooldown {
		return ErrCircuitOpen
	}

	b.halfOpen = true
	return nil
}

// RecordSuccess resets the failure counter and closes the breaker.
func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.consecutiveFailures = 0
	b.open = false
	b.halfOpen = false
}

// RecordFailure counts one failed dispatch. The breaker opens when the
// consecutive-failure threshold is reached or when the half-open trial
// fails.
func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.consecutiveFailures++
	b.lastFailureTime = b.now()
	if b.halfOpen || b.consecutiveFailures >= b.threshold {
		b.open = true
	}
	b.halfOpen = false
}

// ConsecutiveFailures returns the current failure streak.
func (b *CircuitBreaker) ConsecutiveFailures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.consecutiveFailures
}

// IsOpen reports whether the breaker currently rejects calls outright.
func (b *CircuitBreaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}
