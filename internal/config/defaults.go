// SPDX-License-Identifier: Apache-2.0

package config

import "time"

// Development defaults for non-secret settings. The bootstrap credentials
// below are usable only in development mode; validate() refuses them in
// production.
const (
	DefaultHTTPAddress    = "0.0.0.0:8080"
	DefaultEngineBaseURL  = "http://localhost:8000"
	DefaultTokenIssuer    = "askdb"
	DefaultBootstrapEmail = "admin@askdb.local"

	// DefaultBootstrapPassword seeds the lazily created first admin account
	// in development mode.
	DefaultBootstrapPassword = "admin-dev-password"
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:       DefaultTokenIssuer,
			TokenDuration:     8 * time.Hour,
			BootstrapEmail:    DefaultBootstrapEmail,
			BootstrapPassword: DefaultBootstrapPassword,
		},
		Server: Server{
			HTTPAddress:    DefaultHTTPAddress,
			RequestTimeout: 60 * time.Second,
		},
		Engine: Engine{
			BaseURL:          DefaultEngineBaseURL,
			AttemptTimeout:   30 * time.Second,
			MaxRetries:       3,
			BackoffBase:      200 * time.Millisecond,
			BackoffMax:       5 * time.Second,
			BreakerThreshold: 5,
			BreakerCooldown:  30 * time.Second,
		},
		Pool: Pool{
			MaxConnections: 10,
			IdleTimeout:    5 * time.Minute,
			ReapInterval:   time.Minute,
		},
	}
}
