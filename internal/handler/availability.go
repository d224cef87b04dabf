package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/property-reservation/internal/booking"
    "github.com/iliyamo/property-reservation/internal/model"
    "github.com/iliyamo/property-reservation/internal/repository"
)

// resourceResolver is the slice of the resource repository the
// availability endpoints need: slug resolution and existence checks.
type resourceResolver interface {
    ResolveIDBySlug(ctx context.Context, slug string) (uint64, error)
    GetByID(ctx context.Context, id uint64) (*model.Resource, error)
}

// AvailabilityHandler exposes the read-only side of the booking
// engine: the advisory availability check and the unavailable-date
// calendar views.  None of these endpoints write; they may be called
// with unlimited concurrency and are the primary targets of the
// response cache middleware.
type AvailabilityHandler struct {
    Engine    *booking.Engine
    Resources resourceResolver
}

// NewAvailabilityHandler constructs an AvailabilityHandler.  Both
// dependencies must be non-nil.
func NewAvailabilityHandler(engine *booking.Engine, resources resourceResolver) *AvailabilityHandler {
    if engine == nil || resources == nil {
        panic("nil dependency passed to NewAvailabilityHandler")
    }
    return &AvailabilityHandler{Engine: engine, Resources: resources}
}

// resolveResource identifies a resource from either the resource_id or
// the slug query parameter.  The returned message is non-empty for a
// 400-class problem; a missing resource is reported through the error.
func (h *AvailabilityHandler) resolveResource(c echo.Context) (uint64, string, error) {
    ctx := c.Request().Context()
    if idStr := c.QueryParam("resource_id"); idStr != "" {
        id, ok := parseID(idStr)
        if !ok {
            return 0, "invalid resource_id", nil
        }
        if _, err := h.Resources.GetByID(ctx, id); err != nil {
            return 0, "", err
        }
        return id, "", nil
    }
    if slug := strings.TrimSpace(c.QueryParam("slug")); slug != "" {
        id, err := h.Resources.ResolveIDBySlug(ctx, slug)
        if err != nil {
            return 0, "", err
        }
        return id, "", nil
    }
    return 0, "resource_id or slug is required", nil
}

// CheckAvailability handles GET /v1/availability.  It runs the same
// overlap and capacity logic as reservation creation but without side
// effects, so clients can check before submitting.  An optional
// exclude_reservation_id supports reschedule flows: the named
// reservation is ignored when counting conflicts.
func (h *AvailabilityHandler) CheckAvailability(c echo.Context) error {
    resourceID, msg, err := h.resolveResource(c)
    if err != nil {
        if errors.Is(err, repository.ErrResourceNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve resource"})
    }
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    iv, msg := parseDateRange(c.QueryParam("start_date"), c.QueryParam("end_date"))
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    var packageID *uint64
    if pkgStr := c.QueryParam("package_id"); pkgStr != "" {
        id, ok := parseID(pkgStr)
        if !ok {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid package_id"})
        }
        packageID = &id
    }
    var excludeID uint64
    if exStr := c.QueryParam("exclude_reservation_id"); exStr != "" {
        id, ok := parseID(exStr)
        if !ok {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exclude_reservation_id"})
        }
        excludeID = id
    }

    avail, err := h.Engine.CheckAvailability(c.Request().Context(), resourceID, iv, packageID, excludeID)
    if err != nil {
        if errors.Is(err, booking.ErrInvalidInterval) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be before end_date"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability check failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "available": avail.Available,
        "requested_range": echo.Map{
            "start_date": iv.From.Format(booking.DateLayout),
            "end_date":   iv.To.Format(booking.DateLayout),
        },
        "metadata": echo.Map{
            "capacity":          avail.Capacity,
            "conflicting_count": avail.ConflictingCount,
        },
    })
}

// UnavailableDates handles GET /v1/unavailable-dates.  It returns the
// flat list of blocked calendar dates for one resource, recomputed per
// request.  Authenticated callers only; the route group applies the
// JWT middleware.
func (h *AvailabilityHandler) UnavailableDates(c echo.Context) error {
    resourceID, msg, err := h.resolveResource(c)
    if err != nil {
        if errors.Is(err, repository.ErrResourceNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve resource"})
    }
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    var excludeID uint64
    if exStr := c.QueryParam("exclude_reservation_id"); exStr != "" {
        id, ok := parseID(exStr)
        if !ok {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exclude_reservation_id"})
        }
        excludeID = id
    }
    dates, err := h.Engine.UnavailableDates(c.Request().Context(), resourceID, excludeID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load unavailable dates"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "unavailable_dates": booking.FormatDates(dates),
    })
}

// MultiResourceAvailability handles GET /v1/multi-resource-availability.
// For a comma-separated list of resource ids it returns each resource's
// blocked dates plus the union, so a client can render "dates when all
// of these properties are free" by complementing the union.
func (h *AvailabilityHandler) MultiResourceAvailability(c echo.Context) error {
    raw := strings.TrimSpace(c.QueryParam("resource_ids"))
    if raw == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "resource_ids is required"})
    }
    parts := strings.Split(raw, ",")
    ids := make([]uint64, 0, len(parts))
    seen := make(map[uint64]struct{}, len(parts))
    for _, p := range parts {
        id, ok := parseID(strings.TrimSpace(p))
        if !ok {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid resource id: " + strings.TrimSpace(p)})
        }
        if _, dup := seen[id]; !dup {
            seen[id] = struct{}{}
            ids = append(ids, id)
        }
    }

    ctx := c.Request().Context()
    titles := make(map[uint64]string, len(ids))
    for _, id := range ids {
        res, err := h.Resources.GetByID(ctx, id)
        if err != nil {
            if errors.Is(err, repository.ErrResourceNotFound) {
                return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
            }
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load resource"})
        }
        titles[id] = res.Title
    }

    multi, err := h.Engine.MultiResourceUnavailableDates(ctx, ids)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute availability"})
    }

    type resourceEntry struct {
        ID               uint64   `json:"id"`
        Title            string   `json:"title"`
        UnavailableDates []string `json:"unavailable_dates"`
    }
    entries := make([]resourceEntry, 0, len(ids))
    byResource := make(map[uint64][]string, len(ids))
    for _, id := range ids {
        dates := booking.FormatDates(multi.PerResource[id])
        entries = append(entries, resourceEntry{ID: id, Title: titles[id], UnavailableDates: dates})
        byResource[id] = dates
    }
    return c.JSON(http.StatusOK, echo.Map{
        "resources":               entries,
        "unavailable_by_resource": byResource,
        "unavailable_in_any":      booking.FormatDates(multi.UnavailableInAny),
    })
}
