package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRequireRole(t *testing.T, userType string, allowed ...string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if userType != "" {
		c.Set(CtxUserType, userType)
	}

	called := false
	next := func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	}
	require.NoError(t, RequireRole(allowed...)(next)(c))
	return rec, called
}

func TestRequireRole(t *testing.T) {
	t.Run("Should pass a user holding an allowed type", func(t *testing.T) {
		rec, called := runRequireRole(t, "Officer", "Staff", "Officer")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
	})
	t.Run("Should reject a user holding another type", func(t *testing.T) {
		rec, called := runRequireRole(t, "Citizen", "Staff", "Officer")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, called)
	})
	t.Run("Should reject when no type is in context", func(t *testing.T) {
		rec, called := runRequireRole(t, "", "Citizen")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, called)
	})
}
