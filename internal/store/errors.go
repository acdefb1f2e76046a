// SPDX-License-Identifier: Apache-2.0

package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known
// failure conditions. Callers should use [errors.Is] to match against them.
var (
	// ErrUserNotFound is returned when a lookup by id or email matches no
	// user record.
	ErrUserNotFound = errors.New("user was not found")

	// ErrDuplicateEmail is returned when creating or updating a user would
	// violate the case-insensitive email uniqueness constraint.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrCredentialNotFound is returned when a credential is absent OR when
	// it exists but is owned by a different user. The two cases are
	// deliberately indistinguishable to prevent record enumeration.
	ErrCredentialNotFound = errors.New("credential was not found")
)
