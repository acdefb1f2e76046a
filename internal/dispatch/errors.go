// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"errors"
	"fmt"
)

// ErrCircuitOpen is returned when the circuit breaker rejects a call without
// attempting any network I/O.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// DispatchError is returned when a downstream call fails after all retries
// (or immediately, for non-retryable responses). LastStatus carries the last
// observed HTTP status for diagnostics; it is zero for transport-level
// failures. Raw network errors never escape the dispatcher in any other
// shape.
type DispatchError struct {
	LastStatus int
	Err        error
}

func (e *DispatchError) Error() string {
	if e.LastStatus != 0 {
		return fmt.Sprintf("dispatch failed: last status %d: %v", e.LastStatus, e.Err)
	}
	return fmt.Sprintf("dispatch failed: %v", e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// Unreachable reports whether the failure means the engine is down or
// unhealthy rather than rejecting this particular request: a transport-level
// failure (LastStatus zero) or retry exhaustion on a retryable status.
// Client rejections and 2xx response decode failures are not unreachable.
func (e *DispatchError) Unreachable() bool {
	return e.LastStatus == 0 || retryableStatus(e.LastStatus)
}
