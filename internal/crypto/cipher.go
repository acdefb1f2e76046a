// SPDX-License-Identifier: Apache-2.0

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/logger"
)

const (
	gcmNonceSize = 12
	gcmTagSize   = 16

	// devKeySeed feeds the insecure deterministic development key. It exists
	// so a bare `-dev` run works without provisioning secrets; validate()
	// refuses a missing key outside development mode.
	devKeySeed = "askdb-insecure-dev-encryption-key"
)

// Cipher encrypts and decrypts stored database passwords with AES-256-GCM.
// Each call uses a fresh random nonce, so two encryptions of the same
// plaintext always differ. The blob layout is self-contained:
//
//	base64( IV (12 bytes) ‖ auth tag (16 bytes) ‖ ciphertext )
//
// Safe for concurrent use: the AEAD is read-only after construction.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher constructs a Cipher from a raw 32-byte key.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: encryption key must be 32 bytes, got %d", ErrCrypto, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: create cipher: %w", ErrCrypto, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: create gcm: %w", ErrCrypto, err)
	}

	return &Cipher{aead: aead}, nil
}

// NewCipherFromConfig resolves the process-wide encryption key from cfg.
//
// The key is the base64-decoded APP_ENCRYPTION_KEY value. When it is absent
// the behaviour depends on the mode: in development a deterministic key is
// derived from a fixed seed and a warning is logged on startup; outside
// development the absence is a hard failure (config validation rejects it
// before this point, this is a second line of defence).
func NewCipherFromConfig(cfg config.App, log *logger.Logger) (*Cipher, error) {
	if cfg.EncryptionKey == "" {
		if !cfg.DevMode {
			return nil, fmt.Errorf("%w: encryption key is required outside development mode", ErrCrypto)
		}

		log.Warn().
			Bool("dev_mode", true).
			Msg("APP_ENCRYPTION_KEY is not set: using INSECURE deterministic development key; stored credentials are NOT protected")

		key := sha256.Sum256([]byte(devKeySeed))
		return NewCipher(key[:])
	}

	key, err := base64.StdEncoding.DecodeString(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("%w: encryption key is not valid base64", ErrCrypto)
	}

	return NewCipher(key)
}

// Encrypt seals plaintext under a fresh random nonce and returns the base64
// blob. No side-channel state is needed to decrypt it later.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, gcmNonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("%w: generate nonce: %w", ErrCrypto, err)
	}

	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)

	// Seal returns ciphertext ‖ tag; the blob format wants IV ‖ tag ‖ ciphertext.
	split := len(sealed) - gcmTagSize
	ciphertext, tag := sealed[:split], sealed[split:]

	blob := make([]byte, 0, gcmNonceSize+len(sealed))
	blob = append(blob, nonce...)
	blob = append(blob, tag...)
	blob = append(blob, ciphertext...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt opens a blob produced by [Cipher.Encrypt]. Any tampering (a single
// flipped byte in IV, tag, or ciphertext) fails the authentication check and
// yields [ErrDecryptionFailed]; partial plaintext is never returned.
func (c *Cipher) Decrypt(blobB64 string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(blobB64)
	if err != nil {
		return "", fmt.Errorf("%w: malformed base64 blob", ErrDecryptionFailed)
	}

	if len(blob) < gcmNonceSize+gcmTagSize {
		return "", fmt.Errorf("%w: blob too short", ErrDecryptionFailed)
	}

	nonce := blob[:gcmNonceSize]
	tag := blob[gcmNonceSize : gcmNonceSize+gcmTagSize]
	ciphertext := blob[gcmNonceSize+gcmTagSize:]

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: authentication check failed", ErrDecryptionFailed)
	}

	return string(plaintext), nil
}
