package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/property-reservation/internal/handler"
    "github.com/iliyamo/property-reservation/internal/middleware"
)

// RegisterOwner registers OWNER-scoped management endpoints under
// /v1/owner. All routes require a valid JWT and the OWNER role;
// per-record ownership is verified in the repositories.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string) {
    g := e.Group(
        "/v1/owner",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("OWNER"),
    )

    // ---- Resources ----
    g.POST("/resources", o.CreateResource)
    g.GET("/resources", o.ListResources)
    g.PATCH("/resources/:id", o.UpdateResource)
    g.DELETE("/resources/:id", o.DeleteResource)

    // ---- Packages ----
    g.POST("/resources/:id/packages", o.CreatePackage)
    g.PATCH("/packages/:id", o.UpdatePackage)
    g.DELETE("/packages/:id", o.DeletePackage)

    // ---- Reservations on owned resources ----
    g.GET("/resources/:id/reservations", o.ListResourceReservations)
}
