package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole enforces that the authenticated user holds one of the
// given user types.  It assumes JWTAuth ran earlier in the chain and
// stored the type under CtxUserType; a missing or unknown type is
// rejected with 403.
func RequireRole(types ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !allowed[UserType(c)] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "Access denied"})
			}
			return next(c)
		}
	}
}
