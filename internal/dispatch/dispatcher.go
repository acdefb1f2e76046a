// SPDX-License-Identifier: Apache-2.0

// Package dispatch wraps outbound calls to the downstream query engine with
// bounded retries, jittered exponential backoff, and a shared circuit
// breaker. It reasons only about transport and status outcomes and is
// agnostic to payload shape.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/logger"
	"github.com/go-resty/resty/v2"
)

// Dispatcher performs resilient JSON POST calls against a single base URL.
// Safe for concurrent use; all mutable state lives in the breaker.
type Dispatcher struct {
	client  *resty.Client
	breaker *CircuitBreaker

	maxRetries     int
	attemptTimeout time.Duration
	backoffBase    time.Duration
	backoffMax     time.Duration

	logger *logger.Logger
}

// NewDispatcher constructs a Dispatcher for the engine described by cfg.
func NewDispatcher(cfg config.Engine, log *logger.Logger) *Dispatcher {
	cli := resty.New().SetBaseURL(cfg.BaseURL)

	return &Dispatcher{
		client:         cli,
		breaker:        NewCircuitBreaker(cfg.BreakerThreshold, cfg.BreakerCooldown),
		maxRetries:     cfg.MaxRetries,
		attemptTimeout: cfg.AttemptTimeout,
		backoffBase:    cfg.BackoffBase,
		backoffMax:     cfg.BackoffMax,
		logger:         log,
	}
}

// Breaker exposes the dispatcher's shared circuit breaker for observability
// and tests.
func (d *Dispatcher) Breaker() *CircuitBreaker {
	return d.breaker
}

// PostJSON sends body as JSON to path and decodes a 2xx response into out
// (out may be nil to discard the body).
//
// Outcome handling:
//   - The breaker is consulted once per dispatch; while open, calls fail
//     with [ErrCircuitOpen] and no network I/O happens.
//   - Transport failures, 429, and 5xx are retried up to the configured
//     count with jittered exponential backoff, each attempt bounded by the
//     per-attempt timeout. A caller-supplied ctx deadline stops further
//     attempts.
//   - Any other non-2xx response is returned immediately as a
//     *DispatchError without consuming a retry or counting against the
//     breaker.
//   - Retry exhaustion returns *DispatchError carrying the last observed
//     status and counts one breaker failure.
func (d *Dispatcher) PostJSON(ctx context.Context, path string, body, out any) error {
	if err := d.breaker.Allow(); err != nil {
		d.logger.Warn().Str("path", path).Msg("circuit open: rejecting dispatch without network call")
		return err
	}

	var lastStatus int
	var lastErr error

	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		if attempt > 0 {
			delay := d.backoff(attempt - 1)
			select {
			case <-ctx.Done():
				d.breaker.RecordFailure()
				return &DispatchError{LastStatus: lastStatus, Err: ctx.Err()}
			case <-time.After(delay):
			}
		}

		status, respBody, err := d.attempt(ctx, path, body)

		switch {
		case err != nil:
			lastStatus = 0
			lastErr = err
			d.logger.Debug().Int("attempt", attempt).Err(err).Str("path", path).Msg("dispatch attempt failed")

		case status >= http.StatusOK && status < http.StatusMultipleChoices:
			d.breaker.RecordSuccess()
			if out == nil {
				return nil
			}
			if err := json.Unmarshal(respBody, out); err != nil {
				return &DispatchError{LastStatus: status, Err: fmt.Errorf("decode engine response: %w", err)}
			}
			return nil

		case retryableStatus(status):
			lastStatus = status
			lastErr = fmt.Errorf("engine returned status %d", status)
			d.logger.Debug().Int("attempt", attempt).Int("status", status).Str("path", path).Msg("retryable engine status")

		default:
			// Client-level rejection: not the engine being unhealthy.
			return &DispatchError{LastStatus: status, Err: fmt.Errorf("engine rejected request with status %d", status)}
		}
	}

	d.breaker.RecordFailure()
	return &DispatchError{LastStatus: lastStatus, Err: lastErr}
}

func (d *Dispatcher) attempt(ctx context.Context, path string, body any) (int, []byte, error) {
	attemptCtx := ctx
	if d.attemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, d.attemptTimeout)
		defer cancel()
	}

	resp, err := d.client.R().
		SetContext(attemptCtx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	if err != nil {
		return 0, nil, err
	}

	return resp.StatusCode(), resp.Body(), nil
}

// backoff computes the jittered delay before retry number attempt (zero
// based): uniform in [base·2^attempt / 2, base·2^attempt], capped at the
// configured maximum.
func (d *Dispatcher) backoff(attempt int) time.Duration {
	delay := d.backoffBase << uint(attempt)
	if delay > d.backoffMax || delay <= 0 {
		delay = d.backoffMax
	}

	half := delay / 2
	if half <= 0 {
		return delay
	}
	return half + time.Duration(rand.Int63n(int64(half+1)))
}

func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
