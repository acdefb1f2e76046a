// SPDX-License-Identifier: Apache-2.0

package http

import (
	"fmt"

	"github.com/askdb/askdb/internal/service"
)

// errInvalidJSON wraps ErrInvalidDataProvided for malformed request bodies
// so the mapper produces a 400 VALIDATION_FAILED response.
func errInvalidJSON() error {
	return fmt.Errorf("%w: malformed JSON body", service.ErrInvalidDataProvided)
}

// errMissingContextUser signals that a handler behind the auth middleware
// found no user in the request context. This is a wiring bug, not a client
// error, and maps to 500.
func errMissingContextUser() error {
	return fmt.Errorf("no authenticated user in request context")
}
