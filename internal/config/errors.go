// SPDX-License-Identifier: Apache-2.0

package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, a malformed encryption key or zero token duration).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidServerConfigs indicates invalid inbound server settings.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidEngineConfigs indicates invalid downstream engine settings
	// (for example, an empty base URL or negative retry count).
	ErrInvalidEngineConfigs = errors.New("invalid engine configuration")
	// ErrInvalidPoolConfigs indicates invalid connection pool settings.
	ErrInvalidPoolConfigs = errors.New("invalid pool configuration")
	// ErrMissingSecret indicates a security-critical value is absent outside
	// development mode. This is a hard startup failure.
	ErrMissingSecret = errors.New("missing required secret")
)
