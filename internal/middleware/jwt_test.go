package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epanchayat/digital-gram-panchayat/internal/utils"
)

const testSecret = "middleware-test-secret"

func runJWTAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/certificates", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	next := func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	}
	require.NoError(t, JWTAuth(testSecret)(next)(c))
	return rec, c, called
}

func TestJWTAuth(t *testing.T) {
	t.Run("Should reject a request without a bearer token", func(t *testing.T) {
		rec, _, called := runJWTAuth(t, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})
	t.Run("Should reject an invalid token", func(t *testing.T) {
		rec, _, called := runJWTAuth(t, "Bearer garbage")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})
	t.Run("Should inject claims into the context for a valid token", func(t *testing.T) {
		access, err := utils.NewAccessToken(testSecret, 7, "Staff", "Staff")
		require.NoError(t, err)

		rec, c, called := runJWTAuth(t, "Bearer "+access.Token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
		assert.Equal(t, uint64(7), UserID(c))
		assert.Equal(t, "Staff", UserType(c))
	})
}

func TestContextAccessors(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Equal(t, uint64(0), UserID(c), "unauthenticated context yields zero id")
	assert.Equal(t, "", UserType(c))
}
