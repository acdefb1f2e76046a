// SPDX-License-Identifier: Apache-2.0

package token

import "errors"

// Both errors map to the same externally visible "unauthenticated" outcome;
// they are distinct so internal logging can tell an expired session apart
// from a forged or malformed token.
var (
	// ErrTokenInvalid is returned on signature mismatch, malformed payload,
	// or a missing required claim.
	ErrTokenInvalid = errors.New("token is invalid")

	// ErrTokenExpired is returned when the token's exp claim has passed.
	ErrTokenExpired = errors.New("token is expired")
)
