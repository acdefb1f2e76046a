// SPDX-License-Identifier: Apache-2.0

package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHasher uses a reduced iteration count so the suite stays fast.
func testHasher() *Hasher {
	return newHasherWithIterations(1_000)
}

func TestHasher_HashAndVerify_Success(t *testing.T) {
	h := testHasher()

	salt, err := GenerateSalt()
	require.NoError(t, err)

	digest, err := h.Hash("correct horse battery staple", salt)
	require.NoError(t, err)
	assert.Len(t, digest, 64) // 32 bytes hex-encoded

	ok, err := h.Verify("correct horse battery staple", salt, digest)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasher_Verify_WrongPassword(t *testing.T) {
	h := testHasher()

	salt, err := GenerateSalt()
	require.NoError(t, err)

	digest, err := h.Hash("right password", salt)
	require.NoError(t, err)

	ok, err := h.Verify("wrong password", salt, digest)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_Hash_SameInputSameSalt_Deterministic(t *testing.T) {
	h := testHasher()

	salt, err := GenerateSalt()
	require.NoError(t, err)

	first, err := h.Hash("password", salt)
	require.NoError(t, err)
	second, err := h.Hash("password", salt)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestHasher_Hash_DifferentSalts_DifferentDigests(t *testing.T) {
	h := testHasher()

	saltOne, err := GenerateSalt()
	require.NoError(t, err)
	saltTwo, err := GenerateSalt()
	require.NoError(t, err)
	require.NotEqual(t, saltOne, saltTwo)

	first, err := h.Hash("password", saltOne)
	require.NoError(t, err)
	second, err := h.Hash("password", saltTwo)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHasher_Hash_MalformedSalt(t *testing.T) {
	h := testHasher()

	_, err := h.Hash("password", "not-hex-at-all")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCrypto)
}

func TestHasher_Hash_EmptySalt(t *testing.T) {
	h := testHasher()

	_, err := h.Hash("password", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCrypto)
}

func TestHasher_Verify_MalformedDigest(t *testing.T) {
	h := testHasher()

	salt, err := GenerateSalt()
	require.NoError(t, err)

	_, err = h.Verify("password", salt, "zzzz")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCrypto)
}

func TestGenerateSalt_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		salt, err := GenerateSalt()
		require.NoError(t, err)
		assert.Len(t, salt, 32) // 16 bytes hex-encoded
		assert.False(t, seen[salt], "salt collision")
		seen[salt] = true
	}
}
