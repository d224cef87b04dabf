package handler

import (
    "context"
    "errors"
    "log"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/property-reservation/internal/booking"
    "github.com/iliyamo/property-reservation/internal/queue"
    "github.com/iliyamo/property-reservation/internal/repository"
    queue_publisher "github.com/iliyamo/property-reservation/internal/service"
)

// GuestHandler groups the dependencies guests need to create, list and
// cancel reservations.  Creation goes through the booking engine's
// admission gate; the handler only translates wire input and maps the
// engine's outcomes to HTTP responses.  JWT authentication has already
// run by the time these methods are invoked.
type GuestHandler struct {
    Engine       *booking.Engine
    Reservations *repository.ReservationRepo
    Resources    *repository.ResourceRepo
    Packages     *repository.PackageRepo
}

// NewGuestHandler constructs a GuestHandler.  All dependencies must be
// non-nil.
func NewGuestHandler(engine *booking.Engine, reservations *repository.ReservationRepo, resources *repository.ResourceRepo, packages *repository.PackageRepo) *GuestHandler {
    if engine == nil || reservations == nil || resources == nil || packages == nil {
        panic("nil dependency passed to NewGuestHandler")
    }
    return &GuestHandler{Engine: engine, Reservations: reservations, Resources: resources, Packages: packages}
}

type createReservationReq struct {
    ResourceID uint64  `json:"resource_id"`
    PackageID  *uint64 `json:"package_id"`
    StartDate  string  `json:"start_date"`
    EndDate    string  `json:"end_date"`
}

// CreateReservation handles POST /v1/reservations.  It validates the
// request, re-checks overlap and capacity through the admission gate
// and persists the reservation.  A rejection carries the conflicting
// bookings so the client can explain which dates are taken.  On
// success a reservation.confirmed event is published best-effort.
func (h *GuestHandler) CreateReservation(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createReservationReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.ResourceID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "resource_id is required"})
    }
    iv, msg := parseDateRange(req.StartDate, req.EndDate)
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }

    ctx := c.Request().Context()
    res, err := h.Resources.GetByID(ctx, req.ResourceID)
    if err != nil {
        if errors.Is(err, repository.ErrResourceNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load resource"})
    }
    if !res.IsActive {
        return c.JSON(http.StatusConflict, echo.Map{"error": "resource is not open for reservations"})
    }
    var pkgName string
    if req.PackageID != nil {
        pkg, err := h.Packages.GetByID(ctx, *req.PackageID)
        if err != nil {
            if errors.Is(err, repository.ErrPackageNotFound) {
                return c.JSON(http.StatusNotFound, echo.Map{"error": "package not found"})
            }
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load package"})
        }
        if pkg.ResourceID != req.ResourceID {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "package does not belong to resource"})
        }
        pkgName = pkg.Name
    }

    created, err := h.Engine.Admit(ctx, booking.Candidate{
        ResourceID: req.ResourceID,
        PackageID:  req.PackageID,
        UserID:     userID,
        Interval:   iv,
    })
    if err != nil {
        var capErr *booking.CapacityError
        if errors.As(err, &capErr) {
            return c.JSON(http.StatusBadRequest, echo.Map{
                "error":     "requested dates conflict with existing reservations",
                "capacity":  capErr.Capacity,
                "conflicts": capErr.Conflicts,
            })
        }
        if errors.Is(err, booking.ErrInvalidInterval) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be before end_date"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
    }

    // Notify downstream consumers. Failures are logged by the publisher
    // and never fail the request.
    go func() {
        pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        ev := queue.ReservationConfirmedEvent{
            ReservationID: created.ID,
            UserID:        userID,
            ResourceID:    res.ID,
            ResourceTitle: res.Title,
            PackageID:     created.PackageID,
            PackageName:   pkgName,
            FromDate:      created.FromDate.Format(booking.DateLayout),
            ToDate:        created.ToDate.Format(booking.DateLayout),
            ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
        }
        if err := queue_publisher.PublishReservationConfirmed(pubCtx, ev); err != nil {
            log.Printf("reservation %d: confirmed event not published: %v", created.ID, err)
        }
    }()

    return c.JSON(http.StatusCreated, echo.Map{
        "id":          created.ID,
        "resource_id": created.ResourceID,
        "package_id":  created.PackageID,
        "from_date":   created.FromDate.Format(booking.DateLayout),
        "to_date":     created.ToDate.Format(booking.DateLayout),
        "status":      created.Status,
    })
}

// ListReservations handles GET /v1/my-reservations.  It returns all
// reservations created by the current guest with resource and package
// details; an empty array when none exist.
func (h *GuestHandler) ListReservations(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Reservations.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetReservation handles GET /v1/reservations/:id for the booking
// guest.  404 when missing, 403 when it belongs to someone else.
func (h *GuestHandler) GetReservation(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    resID, ok := parseID(c.Param("id"))
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    detail, err := h.Reservations.GetByIDForUser(c.Request().Context(), resID, userID)
    if err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        if errors.Is(err, repository.ErrForbidden) {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// CancelReservation handles DELETE /v1/reservations/:id.  The stay is
// marked cancelled and its dates are immediately released to overlap
// queries.  A stay that has already begun cannot be cancelled (409).
func (h *GuestHandler) CancelReservation(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    resID, ok := parseID(c.Param("id"))
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    err = h.Reservations.CancelForUser(c.Request().Context(), resID, userID)
    if err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        if errors.Is(err, repository.ErrForbidden) {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "stay already started or cancelled"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel reservation"})
    }
    return c.NoContent(http.StatusNoContent)
}
