package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"issue-tracker/internal/apperrors"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	t.Run("hashed match", func(t *testing.T) {
		assert.True(t, h.Verify(hash, "hunter2"))
	})

	t.Run("hashed mismatch", func(t *testing.T) {
		assert.False(t, h.Verify(hash, "hunter3"))
	})

	t.Run("hash itself is not a password", func(t *testing.T) {
		assert.False(t, h.Verify(hash, hash))
	})

	t.Run("legacy plaintext", func(t *testing.T) {
		assert.True(t, h.Verify("plain-old", "plain-old"))
		assert.False(t, h.Verify("plain-old", "plain-new"))
	})
}

func TestPasswordHasher_HashLength(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("p", 72))
	require.NoError(t, err)

	_, err = h.Hash(strings.Repeat("p", 73))
	assert.True(t, apperrors.IsValidationError(err))
	assert.Equal(t, "password must be at most 72 bytes", apperrors.GetAppError(err).Message)
}

func TestNewPasswordHasherClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(99).cost)
	assert.Equal(t, 5, NewPasswordHasher(5).cost)
}
