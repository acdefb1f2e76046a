// SPDX-License-Identifier: Apache-2.0

package workers

import (
	"context"

	"github.com/askdb/askdb/internal/pool"
)

// poolReaper adapts the connection-pool reaper to the Worker contract.
type poolReaper struct {
	reaper *pool.Reaper
}

// NewPoolReaper wraps reaper so it can be managed by a [Workers] aggregate.
func NewPoolReaper(reaper *pool.Reaper) Worker {
	return &poolReaper{reaper: reaper}
}

func (w *poolReaper) Run(ctx context.Context) {
	w.reaper.Start(ctx)
}

func (w *poolReaper) Stop() {
	w.reaper.Stop()
}
