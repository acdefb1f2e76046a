// SPDX-License-Identifier: Apache-2.0

// Package config loads and validates the askdb server configuration from
// environment variables, command-line flags, an optional JSON file, and
// development defaults, merged in that priority order.
package config
