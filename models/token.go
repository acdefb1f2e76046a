// SPDX-License-Identifier: Apache-2.0

package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the signed payload of a session token. The token is
// stateless: identity and role are taken from the claims at verification
// time, but TokenVersion is re-checked against the live user record on every
// request, which makes revocation effective without a server-side blacklist.
type SessionClaims struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	TokenVersion int64  `json:"token_version"`

	jwt.RegisteredClaims
}

// SubjectUserID returns the user id the token was issued for.
func (c SessionClaims) SubjectUserID() string {
	return c.Subject
}
