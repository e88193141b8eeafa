package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$"))

	match, err := VerifyPassword("hunter2", hash)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = VerifyPassword("hunter3", hash)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := HashPassword("same password")
	require.NoError(t, err)
	h2, err := HashPassword("same password")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerifyMalformedHash(t *testing.T) {
	_, err := VerifyPassword("whatever", "not-an-encoded-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)
}
