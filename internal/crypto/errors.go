// SPDX-License-Identifier: Apache-2.0

package crypto

import "errors"

// Sentinel errors returned by the hasher and cipher. Callers match them with
// [errors.Is]. Messages never include key material or plaintext.
var (
	// ErrCrypto indicates malformed cryptographic input (bad hex salt or
	// digest, wrong key length, failed random read). There is no silent
	// fallback: callers must treat this as fatal for the operation.
	ErrCrypto = errors.New("crypto operation failed")

	// ErrDecryptionFailed indicates an undecryptable blob: authentication
	// tag mismatch, truncated or malformed ciphertext, or invalid base64.
	// Partial plaintext is never returned.
	ErrDecryptionFailed = errors.New("decryption failed")
)
