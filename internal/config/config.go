// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the askdb
// server. It aggregates all sub-configurations and is populated by merging
// values from environment variables, command-line flags, an optional JSON
// file, and finally safe development defaults.
//
// Struct tags:
//   - envPrefix — prefix applied to nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings: token signing, credential
	// encryption, bootstrap admin, and the development-mode switch.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the durable key/value backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the inbound HTTP listener settings.
	Server Server `envPrefix:"SERVER_"`

	// Engine holds settings for the downstream query engine and the
	// resilient dispatcher guarding it.
	Engine Engine `envPrefix:"ENGINE_"`

	// Pool holds connection-pool capacity and reaping settings.
	Pool Pool `envPrefix:"POOL_"`

	// JSONFilePath is the optional path to a JSON configuration file. When
	// non-empty, the file is parsed and merged under the values already
	// loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration controlling security and the
// bootstrap account.
type App struct {
	// TokenSignKey is the secret used to sign and verify session tokens.
	// Required outside development mode.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued session token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is the session token TTL (e.g. "8h").
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// EncryptionKey is the base64-encoded 32-byte AES key protecting stored
	// database passwords. Required outside development mode; in development
	// mode an insecure deterministic key is derived and loudly logged.
	// Env: APP_ENCRYPTION_KEY
	EncryptionKey string `env:"ENCRYPTION_KEY"`

	// DevMode relaxes required-secret validation and enables insecure
	// development fallbacks. Never enable in production.
	// Env: APP_DEV_MODE
	DevMode bool `env:"DEV_MODE"`

	// AutoBootstrap, when true together with DevMode, lets the authorization
	// gate synthesize an admin session for unauthenticated callers. Off by
	// default and ignored outside development mode.
	// Env: APP_AUTO_BOOTSTRAP
	AutoBootstrap bool `env:"AUTO_BOOTSTRAP"`

	// BootstrapEmail and BootstrapPassword seed the lazily created first
	// admin account when the user store is empty.
	// Env: APP_BOOTSTRAP_EMAIL / APP_BOOTSTRAP_PASSWORD
	BootstrapEmail    string `env:"BOOTSTRAP_EMAIL"`
	BootstrapPassword string `env:"BOOTSTRAP_PASSWORD"`
}

// Storage holds connection settings for the durable key/value backend.
type Storage struct {
	// RedisURL is the Redis connection URL (e.g. "redis://localhost:6379/0").
	// When empty or the backend is unreachable, the server degrades to the
	// non-durable in-memory stores with a warning.
	// Env: STORAGE_REDIS_URL
	RedisURL string `env:"REDIS_URL"`
}

// Server holds network and timeout settings for the inbound HTTP listener.
type Server struct {
	// HTTPAddress is the TCP address the HTTP server listens on,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Engine holds settings for outbound calls to the downstream query engine.
type Engine struct {
	// BaseURL is the root URL of the downstream query engine.
	// Env: ENGINE_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// AttemptTimeout bounds a single dispatch attempt.
	// Env: ENGINE_ATTEMPT_TIMEOUT
	AttemptTimeout time.Duration `env:"ATTEMPT_TIMEOUT"`

	// MaxRetries is the number of retries after the first attempt for
	// retryable outcomes (429, 5xx, transport failure).
	// Env: ENGINE_MAX_RETRIES
	MaxRetries int `env:"MAX_RETRIES"`

	// BackoffBase and BackoffMax shape the jittered exponential backoff
	// between retry attempts.
	// Env: ENGINE_BACKOFF_BASE / ENGINE_BACKOFF_MAX
	BackoffBase time.Duration `env:"BACKOFF_BASE"`
	BackoffMax  time.Duration `env:"BACKOFF_MAX"`

	// BreakerThreshold is the consecutive-failure count at which the circuit
	// breaker opens; BreakerCooldown is how long it stays open before a
	// half-open trial.
	// Env: ENGINE_BREAKER_THRESHOLD / ENGINE_BREAKER_COOLDOWN
	BreakerThreshold int           `env:"BREAKER_THRESHOLD"`
	BreakerCooldown  time.Duration `env:"BREAKER_COOLDOWN"`

	// MockMode enables the explicitly-labeled degraded mode: when the engine
	// is unreachable, clearly marked fabricated rows are returned instead of
	// an error. Off by default; query failures then propagate.
	// Env: ENGINE_MOCK_MODE
	MockMode bool `env:"MOCK_MODE"`
}

// Pool holds capacity and reaping settings for the logical connection pool.
type Pool struct {
	// MaxConnections caps the number of tracked logical connections.
	// Env: POOL_MAX_CONNECTIONS
	MaxConnections int `env:"MAX_CONNECTIONS"`

	// IdleTimeout is how long a connection may stay idle before the reaper
	// removes it.
	// Env: POOL_IDLE_TIMEOUT
	IdleTimeout time.Duration `env:"IDLE_TIMEOUT"`

	// ReapInterval is the fixed period of the background reaper.
	// Env: POOL_REAP_INTERVAL
	ReapInterval time.Duration `env:"REAP_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (first source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Development defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
