package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/epanchayat/digital-gram-panchayat/internal/utils"
)

// Context keys populated by JWTAuth for downstream middleware and
// handlers.
const (
	CtxUserID   = "user_id"
	CtxUserType = "user_type"
	CtxUserName = "user_name"
)

// JWTAuth returns an Echo middleware that validates a Bearer token and
// injects the caller's id, user type and name into the request
// context.  The secret must match the one used when issuing tokens.
// Protected route groups wrap their handlers with this middleware so
// they can read the caller via c.Get(CtxUserID) etc.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No token, authorization denied"})
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Token is not valid"})
			}
			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxUserType, claims.UserType)
			c.Set(CtxUserName, claims.Name)
			return next(c)
		}
	}
}

// UserID returns the authenticated user's id from the context, or 0
// when the request is unauthenticated.
func UserID(c echo.Context) uint64 {
	if v, ok := c.Get(CtxUserID).(uint64); ok {
		return v
	}
	return 0
}

// UserType returns the authenticated user's type from the context.
func UserType(c echo.Context) string {
	if v, ok := c.Get(CtxUserType).(string); ok {
		return v
	}
	return ""
}
