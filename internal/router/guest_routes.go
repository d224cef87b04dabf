package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/property-reservation/internal/handler"
    "github.com/iliyamo/property-reservation/internal/middleware"
)

// RegisterGuest registers reservation endpoints under /v1. All routes
// require a valid JWT; both roles may hold reservations (owners can book
// other owners' properties). Guests create reservations through the
// admission gate, list their own bookings and cancel upcoming stays.
func RegisterGuest(e *echo.Echo, h *handler.GuestHandler, av *handler.AvailabilityHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("GUEST", "OWNER"),
    )

    // Calendar view for pickers; exclude_reservation_id supports reschedule flows.
    g.GET("/unavailable-dates", av.UnavailableDates)

    g.POST("/reservations", h.CreateReservation)
    g.GET("/my-reservations", h.ListReservations)
    g.GET("/reservations/:id", h.GetReservation)
    g.DELETE("/reservations/:id", h.CancelReservation)
}
