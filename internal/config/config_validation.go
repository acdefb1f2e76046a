// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// validate enforces the invariants of a fully merged configuration.
//
// Outside development mode the security-critical values are hard
// requirements: a missing token signing key or encryption key makes the
// server refuse to start rather than fall back to anything insecure. The
// development bootstrap password is likewise rejected in production.
func (c *StructuredConfig) validate() error {
	var errs []error

	if c.Server.HTTPAddress == "" {
		errs = append(errs, fmt.Errorf("%w: empty HTTP address", ErrInvalidServerConfigs))
	}
	if c.Engine.BaseURL == "" {
		errs = append(errs, fmt.Errorf("%w: empty engine base URL", ErrInvalidEngineConfigs))
	}
	if c.Engine.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("%w: negative max retries", ErrInvalidEngineConfigs))
	}
	if c.Engine.BreakerThreshold < 1 {
		errs = append(errs, fmt.Errorf("%w: breaker threshold must be at least 1", ErrInvalidEngineConfigs))
	}
	if c.Pool.MaxConnections < 1 {
		errs = append(errs, fmt.Errorf("%w: pool capacity must be at least 1", ErrInvalidPoolConfigs))
	}
	if c.App.TokenDuration <= 0 {
		errs = append(errs, fmt.Errorf("%w: token duration must be positive", ErrInvalidAppConfigs))
	}

	if c.App.EncryptionKey != "" {
		key, err := base64.StdEncoding.DecodeString(c.App.EncryptionKey)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: encryption key is not valid base64", ErrInvalidAppConfigs))
		} else if len(key) != 32 {
			errs = append(errs, fmt.Errorf("%w: encryption key must decode to 32 bytes, got %d", ErrInvalidAppConfigs, len(key)))
		}
	}

	if !c.App.DevMode {
		if c.App.TokenSignKey == "" {
			errs = append(errs, fmt.Errorf("%w: token sign key is required in production", ErrMissingSecret))
		}
		if c.App.EncryptionKey == "" {
			errs = append(errs, fmt.Errorf("%w: encryption key is required in production", ErrMissingSecret))
		}
		if c.App.BootstrapPassword == DefaultBootstrapPassword {
			errs = append(errs, fmt.Errorf("%w: default bootstrap password is not allowed in production", ErrMissingSecret))
		}
		if c.App.AutoBootstrap {
			errs = append(errs, fmt.Errorf("%w: auto bootstrap is a development-only switch", ErrInvalidAppConfigs))
		}
	}

	return errors.Join(errs...)
}
