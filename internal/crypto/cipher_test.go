// SPDX-License-Identifier: Apache-2.0

package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/logger"
)

func testCipher(t *testing.T) *Cipher {
	t.Helper()

	key := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, key)
	require.NoError(t, err)

	c, err := NewCipher(key)
	require.NoError(t, err)
	return c
}

func TestNewCipher_RejectedKeyLengths(t *testing.T) {
	for _, n := range []int{0, 16, 24, 31, 33} {
		_, err := NewCipher(make([]byte, n))
		assert.ErrorIs(t, err, ErrCrypto, "key length %d must be rejected", n)
	}
}

func TestCipher_RoundTrip(t *testing.T) {
	c := testCipher(t)

	blob, err := c.Encrypt("db-password-!@#$%^&*()")
	require.NoError(t, err)

	plaintext, err := c.Decrypt(blob)
	require.NoError(t, err)
	assert.Equal(t, "db-password-!@#$%^&*()", plaintext)
}

func TestCipher_RoundTrip_EmptyPlaintext(t *testing.T) {
	c := testCipher(t)

	blob, err := c.Encrypt("")
	require.NoError(t, err)

	plaintext, err := c.Decrypt(blob)
	require.NoError(t, err)
	assert.Equal(t, "", plaintext)
}

func TestCipher_Encrypt_SamePlaintextDifferentBlobs(t *testing.T) {
	c := testCipher(t)

	first, err := c.Encrypt("secret")
	require.NoError(t, err)
	second, err := c.Encrypt("secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCipher_Encrypt_BlobDoesNotContainPlaintext(t *testing.T) {
	c := testCipher(t)

	blob, err := c.Encrypt("super-secret-password")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(blob)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "super-secret-password")
}

func TestCipher_Decrypt_TamperedBlob(t *testing.T) {
	c := testCipher(t)

	blob, err := c.Encrypt("secret")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(blob)
	require.NoError(t, err)

	// Flip one byte in every region of the blob: IV, tag, ciphertext.
	for _, idx := range []int{0, 12, len(raw) - 1} {
		tampered := make([]byte, len(raw))
		copy(tampered, raw)
		tampered[idx] ^= 0x01

		_, err := c.Decrypt(base64.StdEncoding.EncodeToString(tampered))
		assert.ErrorIs(t, err, ErrDecryptionFailed, "flipped byte at %d must fail authentication", idx)
	}
}

func TestCipher_Decrypt_MalformedInput(t *testing.T) {
	c := testCipher(t)

	for name, blob := range map[string]string{
		"not base64": "%%%not-base64%%%",
		"too short":  base64.StdEncoding.EncodeToString([]byte("short")),
		"empty":      "",
	} {
		_, err := c.Decrypt(blob)
		assert.ErrorIs(t, err, ErrDecryptionFailed, name)
	}
}

func TestCipher_Decrypt_WrongKey(t *testing.T) {
	blob, err := testCipher(t).Encrypt("secret")
	require.NoError(t, err)

	_, err = testCipher(t).Decrypt(blob)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestNewCipherFromConfig_DevFallback(t *testing.T) {
	c, err := NewCipherFromConfig(config.App{DevMode: true}, logger.Nop())
	require.NoError(t, err)

	// The dev key is deterministic: a second cipher must decrypt the first's output.
	blob, err := c.Encrypt("secret")
	require.NoError(t, err)

	c2, err := NewCipherFromConfig(config.App{DevMode: true}, logger.Nop())
	require.NoError(t, err)

	plaintext, err := c2.Decrypt(blob)
	require.NoError(t, err)
	assert.Equal(t, "secret", plaintext)
}

func TestNewCipherFromConfig_MissingKeyOutsideDevMode(t *testing.T) {
	_, err := NewCipherFromConfig(config.App{DevMode: false}, logger.Nop())
	assert.ErrorIs(t, err, ErrCrypto)
}

func TestNewCipherFromConfig_ExplicitKey(t *testing.T) {
	key := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, key)
	require.NoError(t, err)

	cfg := config.App{EncryptionKey: base64.StdEncoding.EncodeToString(key)}
	c, err := NewCipherFromConfig(cfg, logger.Nop())
	require.NoError(t, err)

	blob, err := c.Encrypt("secret")
	require.NoError(t, err)
	plaintext, err := c.Decrypt(blob)
	require.NoError(t, err)
	assert.Equal(t, "secret", plaintext)
}

func TestNewCipherFromConfig_InvalidBase64Key(t *testing.T) {
	_, err := NewCipherFromConfig(config.App{EncryptionKey: "***"}, logger.Nop())
	assert.ErrorIs(t, err, ErrCrypto)
}
