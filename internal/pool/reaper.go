// SPDX-License-Identifier: Apache-2.0

package pool

import (
	"context"
	"sync"
	"time"
)

// Reaper periodically removes idle connections from a [Manager]. It runs on
// a fixed ticker independent of request traffic and is idle until Start is
// called. Stop is idempotent and safe to call concurrently with a running
// reap pass.
type Reaper struct {
	manager  *Manager
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewReaper creates a Reaper ticking every interval. A non-positive interval
// defaults to one minute.
func NewReaper(manager *Manager, interval time.Duration) *Reaper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Reaper{manager: manager, interval: interval}
}

// Start stops any previously running reaper, then launches a background
// goroutine calling Manager.Reap every interval. The goroutine exits when
// ctx is cancelled or Stop is called.
func (r *Reaper) Start(ctx context.Context) {
	r.Stop()

	r.mu.Lock()
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		t := time.NewTicker(r.interval)
		defer t.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-t.C:
				r.manager.Reap()
			}
		}
	}()
}

// Stop cancels the background goroutine and blocks until it has exited, then
// releases all tracked connections. Safe to call when the reaper is not
// running and safe to call more than once.
func (r *Reaper) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
		r.wg.Wait()
		r.manager.ReleaseAll()
	}
}
