// SPDX-License-Identifier: Apache-2.0

package models

// ErrorResponse is the stable client-facing error body. Code is one of the
// documented machine-readable error codes; Error is a human-readable message
// that never contains key material, plaintext secrets, or stack detail.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// DeleteResponse reports the outcome of an idempotent delete: Deleted is
// false when the record was already absent, which is not an error.
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}
