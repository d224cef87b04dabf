package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/property-reservation/internal/repository"
)

// BrowseHandler serves the unauthenticated catalogue: active resources
// and their packages.
type BrowseHandler struct {
    Resources *repository.ResourceRepo
    Packages  *repository.PackageRepo
}

// NewBrowseHandler constructs a new BrowseHandler and panics if any dependency is nil.
func NewBrowseHandler(resources *repository.ResourceRepo, packages *repository.PackageRepo) *BrowseHandler {
    if resources == nil || packages == nil {
        panic("nil repository passed to NewBrowseHandler")
    }
    return &BrowseHandler{Resources: resources, Packages: packages}
}

// ListResources handles GET /v1/resources.
func (h *BrowseHandler) ListResources(c echo.Context) error {
    items, err := h.Resources.ListActive(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list resources"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetResource handles GET /v1/resources/:id.  The id segment also
// accepts a slug so catalogue links can use either form.
func (h *BrowseHandler) GetResource(c echo.Context) error {
    ctx := c.Request().Context()
    seg := c.Param("id")
    if id, ok := parseID(seg); ok {
        res, err := h.Resources.GetByID(ctx, id)
        if err != nil {
            if errors.Is(err, repository.ErrResourceNotFound) {
                return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
            }
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load resource"})
        }
        return c.JSON(http.StatusOK, echo.Map{"item": res})
    }
    res, err := h.Resources.GetBySlug(ctx, seg)
    if err != nil {
        if errors.Is(err, repository.ErrResourceNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load resource"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// ListPackages handles GET /v1/resources/:id/packages.
func (h *BrowseHandler) ListPackages(c echo.Context) error {
    ctx := c.Request().Context()
    id, ok := parseID(c.Param("id"))
    if !ok {
        seg := c.Param("id")
        resolved, err := h.Resources.ResolveIDBySlug(ctx, seg)
        if err != nil {
            if errors.Is(err, repository.ErrResourceNotFound) {
                return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
            }
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve resource"})
        }
        id = resolved
    }
    items, err := h.Packages.ListByResource(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list packages"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}
