package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/property-reservation/internal/repository"
)

// OwnerHandler bundles repositories for owners to manage their
// resources, packages and to inspect bookings.  Role enforcement
// (OWNER) happens in middleware; ownership of individual records is
// verified in the repositories.
type OwnerHandler struct {
    Resources    *repository.ResourceRepo
    Packages     *repository.PackageRepo
    Reservations *repository.ReservationRepo
}

// NewOwnerHandler constructs a new OwnerHandler and panics if any dependency is nil.
func NewOwnerHandler(resources *repository.ResourceRepo, packages *repository.PackageRepo, reservations *repository.ReservationRepo) *OwnerHandler {
    if resources == nil || packages == nil || reservations == nil {
        panic("nil repository passed to NewOwnerHandler")
    }
    return &OwnerHandler{Resources: resources, Packages: packages, Reservations: reservations}
}

type createResourceReq struct {
    Slug        string  `json:"slug"`
    Title       string  `json:"title"`
    Description *string `json:"description"`
}

type updateResourceReq struct {
    Title       *string `json:"title"`
    Description *string `json:"description"`
    IsActive    *bool   `json:"is_active"`
}

// CreateResource handles POST /v1/owner/resources.
func (h *OwnerHandler) CreateResource(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createResourceReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    req.Slug = strings.TrimSpace(req.Slug)
    req.Title = strings.TrimSpace(req.Title)
    if req.Slug == "" || req.Title == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "slug and title are required"})
    }
    res, err := h.Resources.Create(c.Request().Context(), ownerID, req.Slug, req.Title, req.Description)
    if err != nil {
        if errors.Is(err, repository.ErrSlugExists) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "slug already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create resource"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"item": res})
}

// ListResources handles GET /v1/owner/resources: every resource the
// caller owns, including inactive ones.
func (h *OwnerHandler) ListResources(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Resources.ListByOwner(c.Request().Context(), ownerID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load resources"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateResource handles PATCH /v1/owner/resources/:id.
func (h *OwnerHandler) UpdateResource(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := parseID(c.Param("id"))
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid resource id"})
    }
    var req updateResourceReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    res, err := h.Resources.Update(c.Request().Context(), id, ownerID, req.Title, req.Description, req.IsActive)
    if err != nil {
        if errors.Is(err, repository.ErrResourceNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
        }
        if errors.Is(err, repository.ErrForbidden) {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update resource"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// DeleteResource handles DELETE /v1/owner/resources/:id.  Resources
// with confirmed reservations cannot be removed (409).
func (h *OwnerHandler) DeleteResource(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := parseID(c.Param("id"))
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid resource id"})
    }
    err = h.Resources.Delete(c.Request().Context(), id, ownerID)
    if err != nil {
        if errors.Is(err, repository.ErrResourceNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
        }
        if errors.Is(err, repository.ErrForbidden) {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "resource has confirmed reservations"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete resource"})
    }
    return c.NoContent(http.StatusNoContent)
}

// ListResourceReservations handles GET /v1/owner/resources/:id/reservations.
// It returns every reservation on a resource the caller owns, with
// guest ids, ordered by check-in date.
func (h *OwnerHandler) ListResourceReservations(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := parseID(c.Param("id"))
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid resource id"})
    }
    items, err := h.Reservations.ListByResourceForOwner(c.Request().Context(), id, ownerID)
    if err != nil {
        if errors.Is(err, repository.ErrResourceNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
        }
        if errors.Is(err, repository.ErrForbidden) {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}
