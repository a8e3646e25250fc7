package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	t.Run("Should verify against the original plaintext", func(t *testing.T) {
		hash, err := HashPassword("correct horse battery", bcrypt.MinCost)
		require.NoError(t, err)
		assert.NotEqual(t, "correct horse battery", hash)
		assert.True(t, VerifyPassword(hash, "correct horse battery"))
	})
	t.Run("Should reject a different plaintext", func(t *testing.T) {
		hash, err := HashPassword("correct horse battery", bcrypt.MinCost)
		require.NoError(t, err)
		assert.False(t, VerifyPassword(hash, "wrong horse battery"))
	})
	t.Run("Should salt so equal inputs hash differently", func(t *testing.T) {
		h1, err := HashPassword("password1", bcrypt.MinCost)
		require.NoError(t, err)
		h2, err := HashPassword("password1", bcrypt.MinCost)
		require.NoError(t, err)
		assert.NotEqual(t, h1, h2)
	})
}
