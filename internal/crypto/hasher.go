// SPDX-License-Identifier: Apache-2.0

// Package crypto implements the two at-rest protection primitives of the
// askdb core: a slow salted hasher for login passwords and an authenticated
// cipher for stored database passwords.
package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// hashIterations is the PBKDF2 iteration count. Deliberately expensive:
	// the cost lands on the request-scoped goroutine at login/registration
	// time only.
	hashIterations = 120_000

	// hashKeyLen is the derived key length in bytes (256 bits).
	hashKeyLen = 32

	// saltLen is the per-user random salt length in bytes (128 bits).
	saltLen = 16
)

// Hasher derives and verifies salted iterative password digests using
// PBKDF2-HMAC-SHA256. The zero value is not usable; construct with
// [NewHasher]. Safe for concurrent use: the struct is read-only after
// construction.
type Hasher struct {
	iterations int
}

// NewHasher constructs a Hasher with the production iteration count.
func NewHasher() *Hasher {
	return &Hasher{iterations: hashIterations}
}

// newHasherWithIterations is a test hook: lowering the iteration count keeps
// property tests fast without changing the contract.
func newHasherWithIterations(iterations int) *Hasher {
	return &Hasher{iterations: iterations}
}

// GenerateSalt reads 16 random bytes from the OS CSPRNG and returns them
// hex-encoded. A fresh salt is generated for every user and on every
// password change.
func GenerateSalt() (string, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("%w: reading salt: %w", ErrCrypto, err)
	}
	return hex.EncodeToString(salt), nil
}

// Hash derives the hex digest of password under the hex-encoded salt.
// A malformed salt yields [ErrCrypto].
func (h *Hasher) Hash(password, saltHex string) (string, error) {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return "", fmt.Errorf("%w: malformed salt", ErrCrypto)
	}
	if len(salt) == 0 {
		return "", fmt.Errorf("%w: empty salt", ErrCrypto)
	}

	digest := pbkdf2.Key([]byte(password), salt, h.iterations, hashKeyLen, sha256.New)
	return hex.EncodeToString(digest), nil
}

// Verify reports whether password hashes to expectedHex under saltHex. The
// comparison is constant-time so the result carries no timing side-channel.
// Malformed salt or digest input yields [ErrCrypto], never a silent false.
func (h *Hasher) Verify(password, saltHex, expectedHex string) (bool, error) {
	expected, err := hex.DecodeString(expectedHex)
	if err != nil {
		return false, fmt.Errorf("%w: malformed expected digest", ErrCrypto)
	}
	if len(expected) == 0 {
		return false, fmt.Errorf("%w: empty expected digest", ErrCrypto)
	}

	actualHex, err := h.Hash(password, saltHex)
	if err != nil {
		return false, err
	}
	actual, _ := hex.DecodeString(actualHex)

	return hmac.Equal(actual, expected), nil
}
