// Package router wires HTTP routes to handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/epanchayat/digital-gram-panchayat/internal/handler"
)

// RegisterRoutes registers routes that need neither authentication nor
// handler state.  Currently that is only the health check used by load
// balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  The rate
// limiter guards all three: registration and login are the portal's
// brute-force surface, and /auth/user/me does its own token check so
// it stays outside the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rl echo.MiddlewareFunc) {
	g := e.Group("/auth")
	g.Use(rl)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.GET("/user/me", a.Me)
}

// RegisterPublic registers unauthenticated browse endpoints: active
// scheme listings and land-record search.  Responses are cacheable, so
// the Redis response cache wraps the whole group.
func RegisterPublic(e *echo.Echo, s *handler.SchemeHandler, p *handler.PropertyHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(cache)
	g.GET("/schemes", s.ListActive)
	g.GET("/schemes/:id", s.Get)
	g.GET("/properties/search", p.Search)
}
