// SPDX-License-Identifier: Apache-2.0

// Package pool tracks logical connections to downstream targets. A logical
// connection is a capacity slot, not a live socket: the pool bounds
// concurrency per process and reclaims slots that sit idle past a
// threshold.
//
// Connection state machine: created → active → idle → (active | reaped).
package pool

import (
	"sync"
	"time"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/logger"
	"github.com/askdb/askdb/models"
	"github.com/google/uuid"
)

// Manager owns the pooled connection map. A single mutex guards all state;
// pool sizes are small (tens of entries) so fine-grained locking would buy
// nothing.
type Manager struct {
	mu    sync.Mutex
	conns map[string]*models.Connection

	maxConnections int
	idleTimeout    time.Duration

	// Cumulative counters survive reaping of individual connections.
	totalQueries int64
	latencySum   time.Duration
	latencyCount int64

	logger *logger.Logger

	// test hook; defaults to time.Now.
	now func() time.Time
}

// NewManager constructs a connection pool Manager from configuration.
func NewManager(cfg config.Pool, log *logger.Logger) *Manager {
	return &Manager{
		conns:          make(map[string]*models.Connection),
		maxConnections: cfg.MaxConnections,
		idleTimeout:    cfg.IdleTimeout,
		logger:         log,
		now:            time.Now,
	}
}

// Acquire returns an active connection for target.
//
// Resolution order: a connection explicitly named by optionalID (must match
// target), then any idle connection of the same target (reuse is preferred
// over creation), then a newly created connection if the pool has capacity.
// At capacity the pool runs one idle-reap pass and retries once; if still
// full, Acquire fails with [ErrPoolExhausted].
func (m *Manager) Acquire(target, optionalID string) (models.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()

	if optionalID != "" {
		if conn, ok := m.conns[optionalID]; ok && conn.Target == target {
			m.activate(conn, now)
			return *conn, nil
		}
	}

	for _, conn := range m.conns {
		if conn.Target == target && conn.IsIdle {
			m.activate(conn, now)
			return *conn, nil
		}
	}

	if len(m.conns) >= m.maxConnections {
		if reaped := m.reapLocked(now); reaped == 0 || len(m.conns) >= m.maxConnections {
			m.logger.Warn().
				Str("target", target).
				Int("size", len(m.conns)).
				Int("max", m.maxConnections).
				Msg("pool exhausted")
			return models.Connection{}, ErrPoolExhausted
		}
	}

	conn := &models.Connection{
		ID:         uuid.NewString(),
		Target:     target,
		CreatedAt:  now,
		LastUsedAt: now,
		IsActive:   true,
	}
	m.conns[conn.ID] = conn

	return *conn, nil
}

// Release transitions the connection back to idle and records the use. It is
// called on every exit path, success or failure, so error handling can never
// leak a stuck-active slot. Releasing an unknown id is a no-op.
func (m *Manager) Release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conn, ok := m.conns[id]
	if !ok {
		return
	}

	conn.IsActive = false
	conn.IsIdle = true
	conn.LastUsedAt = m.now()
	conn.QueryCount++
	m.totalQueries++
}

// Close removes a tracked connection regardless of state. It reports whether
// the connection existed.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.conns[id]; !ok {
		return false
	}
	delete(m.conns, id)
	return true
}

// Reap removes idle connections whose last use is older than the configured
// idle timeout and returns how many were removed.
func (m *Manager) Reap() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reapLocked(m.now())
}

// ReleaseAll force-idles every tracked connection and drops them. Called on
// shutdown after the reaper has stopped.
func (m *Manager) ReleaseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.conns)
	m.conns = make(map[string]*models.Connection)
	if n > 0 {
		m.logger.Info().Int("released", n).Msg("released all pooled connections")
	}
}

// RecordLatency folds one observed dispatch duration into the running
// average exposed by Stats.
func (m *Manager) RecordLatency(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.latencySum += d
	m.latencyCount++
}

// Stats returns an aggregate snapshot of the pool. It walks tracked state
// only — O(pool size), no network.
func (m *Manager) Stats() models.PoolStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := models.PoolStats{
		PerTarget:      make(map[string]models.TargetStats),
		TotalQueries:   m.totalQueries,
		MaxConnections: m.maxConnections,
	}

	for _, conn := range m.conns {
		stats.Total++
		ts := stats.PerTarget[conn.Target]
		ts.Total++
		if conn.IsActive {
			stats.Active++
			ts.Active++
		}
		if conn.IsIdle {
			stats.Idle++
			ts.Idle++
		}
		stats.PerTarget[conn.Target] = ts
	}

	if m.latencyCount > 0 {
		stats.AvgLatencyMs = float64(m.latencySum.Milliseconds()) / float64(m.latencyCount)
	}

	return stats
}

func (m *Manager) activate(conn *models.Connection, now time.Time) {
	conn.IsActive = true
	conn.IsIdle = false
	conn.LastUsedAt = now
}

func (m *Manager) reapLocked(now time.Time) int {
	reaped := 0
	for id, conn := range m.conns {
		if conn.IsIdle && now.Sub(conn.LastUsedAt) > m.idleTimeout {
			delete(m.conns, id)
			reaped++
		}
	}

	if reaped > 0 {
		m.logger.Debug().Int("reaped", reaped).Int("remaining", len(m.conns)).Msg("reaped idle connections")
	}
	return reaped
}
