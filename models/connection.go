// SPDX-License-Identifier: Apache-2.0

package models

import "time"

// Connection is a pool-tracked logical slot representing capacity to talk to
// a downstream target. It is not a live socket: the pool uses it to bound
// concurrency and reclaim idle capacity.
type Connection struct {
	ID         string    `json:"id"`
	Target     string    `json:"target"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
	IsActive   bool      `json:"is_active"`
	IsIdle     bool      `json:"is_idle"`
	QueryCount int64     `json:"query_count"`
}

// TargetStats is the per-target slice of [PoolStats].
type TargetStats struct {
	Total  int `json:"total"`
	Active int `json:"active"`
	Idle   int `json:"idle"`
}

// PoolStats is an aggregate snapshot of the connection pool. It is computed
// from tracked state only and never requires a network call.
type PoolStats struct {
	Total          int                    `json:"total"`
	Active         int                    `json:"active"`
	Idle           int                    `json:"idle"`
	PerTarget      map[string]TargetStats `json:"per_target"`
	TotalQueries   int64                  `json:"total_queries"`
	AvgLatencyMs   float64                `json:"avg_latency_ms"`
	MaxConnections int                    `json:"max_connections"`
}
