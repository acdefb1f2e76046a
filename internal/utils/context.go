// SPDX-License-Identifier: Apache-2.0

// Package utils provides small helpers shared across layers: type-safe
// context keys for the authenticated user and JSON response writing.
package utils

import (
	"context"

	"github.com/askdb/askdb/models"
)

// contextKey is a private type for context keys. Using a dedicated type
// instead of a plain string prevents collisions with other packages' keys.
type contextKey string

func (c contextKey) String() string {
	return string(c)
}

// UserCtxKey is the key under which the authorization gate's resolved user
// is stored in the request context.
var UserCtxKey = contextKey("user")

// GetUserFromContext retrieves the authenticated user placed in the context
// by the authentication middleware.
//
// ok is false when no user is present or the stored value has an unexpected
// type; handlers behind the auth middleware can rely on ok being true.
func GetUserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(UserCtxKey).(models.User)
	return user, ok
}
