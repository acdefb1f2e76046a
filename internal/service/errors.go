// SPDX-License-Identifier: Apache-2.0

package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrWrongPassword covers both unknown email and wrong password: login
	// failures are indistinguishable to the caller.
	ErrWrongPassword = errors.New("wrong email or password")

	// ErrAuthRequired means no usable session: missing, malformed, or
	// expired token, or a token whose user no longer exists.
	ErrAuthRequired = errors.New("authentication required")

	// ErrSessionRevoked means the token verified but its token version no
	// longer matches the live user record. Externally identical to
	// ErrAuthRequired; kept distinct for internal logging.
	ErrSessionRevoked = errors.New("session has been revoked")

	// ErrForbidden means the session is valid but the role lacks the
	// required permission.
	ErrForbidden = errors.New("permission denied")
)

// ValidationError aggregates every violated rule of a create/update input so
// the caller can fix all of them in one round-trip.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

// NewValidationError returns nil when fields is empty, so callers can build
// the rule map unconditionally and return the result.
func NewValidationError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
