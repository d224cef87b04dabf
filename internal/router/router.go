// Package router defines how HTTP routes are registered for the API.
package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/property-reservation/internal/handler"
    "github.com/iliyamo/property-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check, used by load balancers and
// monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication surface. Unauthenticated
// operations live under /v1/auth; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    // Rotates the refresh token.
    g.POST("/refresh", a.Refresh)
    // Issues a new access token without rotating the refresh token.
    g.POST("/refresh-access", a.RefreshAccess)
    // Logout accepts either a bearer token (revoke all sessions) or a
    // refresh_token in the body (revoke one session); no middleware here.
    g.POST("/logout", a.Logout)

    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.Use(middleware.RequireRole("OWNER", "GUEST"))
    auth.GET("/me", a.Me)

    // Alias kept so clients can terminate a session without the /auth prefix.
    e.POST("/v1/logout", a.Logout)
}

// RegisterPublic registers the unauthenticated browse and availability
// endpoints. Availability answers are advisory: a positive response does
// not reserve anything, admission happens on POST /v1/reservations.
// Extra middleware (response cache, rate limit) is applied per route so
// the authenticated surface stays uncached.
func RegisterPublic(e *echo.Echo, b *handler.BrowseHandler, av *handler.AvailabilityHandler, mw ...echo.MiddlewareFunc) {
    e.GET("/v1/resources", b.ListResources, mw...)
    e.GET("/v1/resources/:id", b.GetResource, mw...)
    e.GET("/v1/resources/:id/packages", b.ListPackages, mw...)

    e.GET("/v1/availability", av.CheckAvailability, mw...)
    e.GET("/v1/multi-resource-availability", av.MultiResourceAvailability, mw...)
}
