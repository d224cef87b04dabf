package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/property-reservation/internal/repository"
)

type createPackageReq struct {
    Name                  string `json:"name"`
    MaxConcurrentBookings uint32 `json:"max_concurrent_bookings"`
}

type updatePackageReq struct {
    Name                  *string `json:"name"`
    MaxConcurrentBookings *uint32 `json:"max_concurrent_bookings"`
}

// CreatePackage handles POST /v1/owner/resources/:id/packages.  A
// max_concurrent_bookings of zero stores "unset"; the engine treats it
// as capacity 1 at admission time.
func (h *OwnerHandler) CreatePackage(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    resourceID, ok := parseID(c.Param("id"))
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid resource id"})
    }
    var req createPackageReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    pkg, err := h.Packages.Create(c.Request().Context(), resourceID, ownerID, req.Name, req.MaxConcurrentBookings)
    if err != nil {
        if errors.Is(err, repository.ErrResourceNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
        }
        if errors.Is(err, repository.ErrForbidden) {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create package"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"item": pkg})
}

// UpdatePackage handles PATCH /v1/owner/packages/:id.  Raising or
// lowering max_concurrent_bookings only affects future admissions;
// existing reservations are never re-validated.
func (h *OwnerHandler) UpdatePackage(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := parseID(c.Param("id"))
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid package id"})
    }
    var req updatePackageReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    pkg, err := h.Packages.Update(c.Request().Context(), id, ownerID, req.Name, req.MaxConcurrentBookings)
    if err != nil {
        if errors.Is(err, repository.ErrPackageNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "package not found"})
        }
        if errors.Is(err, repository.ErrForbidden) {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update package"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": pkg})
}

// DeletePackage handles DELETE /v1/owner/packages/:id.  Packages with
// confirmed reservations cannot be removed (409).
func (h *OwnerHandler) DeletePackage(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := parseID(c.Param("id"))
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid package id"})
    }
    err = h.Packages.Delete(c.Request().Context(), id, ownerID)
    if err != nil {
        if errors.Is(err, repository.ErrPackageNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "package not found"})
        }
        if errors.Is(err, repository.ErrForbidden) {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "package has confirmed reservations"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete package"})
    }
    return c.NoContent(http.StatusNoContent)
}
