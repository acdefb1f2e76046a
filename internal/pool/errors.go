// SPDX-License-Identifier: Apache-2.0

package pool

import "errors"

// ErrPoolExhausted is returned by Acquire when the pool is at capacity for
// new connections even after an idle-reap pass.
var ErrPoolExhausted = errors.New("connection pool exhausted")
