package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestNewAccessToken(t *testing.T) {
	t.Run("Should round-trip the claims", func(t *testing.T) {
		access, err := NewAccessToken(testSecret, 42, "Citizen", "Asha")
		require.NoError(t, err)
		require.NotEmpty(t, access.Token)

		claims, err := ParseAccessToken(testSecret, access.Token)
		require.NoError(t, err)
		assert.Equal(t, uint64(42), claims.UserID)
		assert.Equal(t, "Citizen", claims.UserType)
		assert.Equal(t, "Asha", claims.Name)
	})
	t.Run("Should expire one day after issuance", func(t *testing.T) {
		before := time.Now().UTC()
		access, err := NewAccessToken(testSecret, 1, "Staff", "Staff")
		require.NoError(t, err)
		assert.WithinDuration(t, before.Add(TokenTTL), access.Exp, 2*time.Second)
	})
}

func TestParseAccessToken(t *testing.T) {
	t.Run("Should reject a token signed with another secret", func(t *testing.T) {
		access, err := NewAccessToken("other-secret", 42, "Citizen", "Asha")
		require.NoError(t, err)

		_, err = ParseAccessToken(testSecret, access.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
	t.Run("Should reject an expired token", func(t *testing.T) {
		claims := jwt.MapClaims{
			"userId":   float64(42),
			"userType": "Citizen",
			"name":     "Asha",
			"exp":      time.Now().UTC().Add(-time.Second).Unix(),
			"iat":      time.Now().UTC().Add(-TokenTTL).Unix(),
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = ParseAccessToken(testSecret, raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
	t.Run("Should reject garbage input", func(t *testing.T) {
		_, err := ParseAccessToken(testSecret, "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
	t.Run("Should reject a token without a userId claim", func(t *testing.T) {
		claims := jwt.MapClaims{
			"userType": "Citizen",
			"exp":      time.Now().UTC().Add(time.Hour).Unix(),
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = ParseAccessToken(testSecret, raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
