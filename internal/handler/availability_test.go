package handler

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/property-reservation/internal/booking"
    "github.com/iliyamo/property-reservation/internal/model"
    "github.com/iliyamo/property-reservation/internal/repository"
)

type stubReservations struct {
    items []model.Reservation
}

func (s *stubReservations) FindOverlapping(_ context.Context, resourceID uint64, iv booking.Interval, excludeID uint64) ([]model.Reservation, error) {
    var out []model.Reservation
    for _, r := range s.items {
        if r.ResourceID != resourceID || r.ID == excludeID || r.Status == model.ReservationCancelled {
            continue
        }
        if iv.Overlaps(booking.Interval{From: r.FromDate, To: r.ToDate}) {
            out = append(out, r)
        }
    }
    return out, nil
}

func (s *stubReservations) ListByResource(_ context.Context, resourceID uint64, excludeID uint64) ([]model.Reservation, error) {
    var out []model.Reservation
    for _, r := range s.items {
        if r.ResourceID != resourceID || r.ID == excludeID || r.Status == model.ReservationCancelled {
            continue
        }
        out = append(out, r)
    }
    return out, nil
}

func (s *stubReservations) Admit(_ context.Context, cand booking.Candidate, _ booking.Scope) (*model.Reservation, error) {
    r := model.Reservation{
        ID:         uint64(len(s.items) + 1),
        ResourceID: cand.ResourceID,
        PackageID:  cand.PackageID,
        UserID:     cand.UserID,
        FromDate:   cand.Interval.From,
        ToDate:     cand.Interval.To,
        Status:     model.ReservationConfirmed,
    }
    s.items = append(s.items, r)
    return &r, nil
}

type stubPackages struct{}

func (stubPackages) GetByID(context.Context, uint64) (*model.Package, error) {
    return nil, repository.ErrPackageNotFound
}

type stubResources struct {
    byID   map[uint64]*model.Resource
    bySlug map[uint64]string
}

func (s *stubResources) GetByID(_ context.Context, id uint64) (*model.Resource, error) {
    if r, ok := s.byID[id]; ok {
        return r, nil
    }
    return nil, repository.ErrResourceNotFound
}

func (s *stubResources) ResolveIDBySlug(_ context.Context, slug string) (uint64, error) {
    for id, sl := range s.bySlug {
        if sl == slug {
            return id, nil
        }
    }
    return 0, repository.ErrResourceNotFound
}

func stay(from, to string) (time.Time, time.Time) {
    f, _ := time.Parse(booking.DateLayout, from)
    t, _ := time.Parse(booking.DateLayout, to)
    return f, t
}

func newAvailabilityEnv(items []model.Reservation) *AvailabilityHandler {
    engine := booking.NewEngine(&stubReservations{items: items}, stubPackages{})
    resources := &stubResources{
        byID: map[uint64]*model.Resource{
            1: {ID: 1, Slug: "seaside-villa", Title: "Seaside Villa", IsActive: true},
        },
        bySlug: map[uint64]string{1: "seaside-villa"},
    }
    return NewAvailabilityHandler(engine, resources)
}

func getJSON(t *testing.T, h echo.HandlerFunc, target string) (int, map[string]any) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, target, nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    require.NoError(t, h(c))
    var body map[string]any
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
    return rec.Code, body
}

func TestCheckAvailabilityFree(t *testing.T) {
    h := newAvailabilityEnv(nil)
    code, body := getJSON(t, h.CheckAvailability, "/v1/availability?resource_id=1&start_date=2025-09-04&end_date=2025-09-06")
    assert.Equal(t, http.StatusOK, code)
    assert.Equal(t, true, body["available"])

    meta, ok := body["metadata"].(map[string]any)
    require.True(t, ok)
    assert.Equal(t, float64(1), meta["capacity"])
    assert.Equal(t, float64(0), meta["conflicting_count"])

    rng, ok := body["requested_range"].(map[string]any)
    require.True(t, ok)
    assert.Equal(t, "2025-09-04", rng["start_date"])
    assert.Equal(t, "2025-09-06", rng["end_date"])
}

func TestCheckAvailabilityConflict(t *testing.T) {
    from, to := stay("2025-09-04", "2025-09-06")
    h := newAvailabilityEnv([]model.Reservation{
        {ID: 7, ResourceID: 1, UserID: 2, FromDate: from, ToDate: to, Status: model.ReservationConfirmed},
    })
    code, body := getJSON(t, h.CheckAvailability, "/v1/availability?resource_id=1&start_date=2025-09-05&end_date=2025-09-08")
    assert.Equal(t, http.StatusOK, code)
    assert.Equal(t, false, body["available"])
}

func TestCheckAvailabilityBySlug(t *testing.T) {
    h := newAvailabilityEnv(nil)
    code, body := getJSON(t, h.CheckAvailability, "/v1/availability?slug=seaside-villa&start_date=2025-09-04&end_date=2025-09-06")
    assert.Equal(t, http.StatusOK, code)
    assert.Equal(t, true, body["available"])
}

func TestCheckAvailabilityUnknownResource(t *testing.T) {
    h := newAvailabilityEnv(nil)
    code, _ := getJSON(t, h.CheckAvailability, "/v1/availability?resource_id=99&start_date=2025-09-04&end_date=2025-09-06")
    assert.Equal(t, http.StatusNotFound, code)

    code, _ = getJSON(t, h.CheckAvailability, "/v1/availability?slug=nope&start_date=2025-09-04&end_date=2025-09-06")
    assert.Equal(t, http.StatusNotFound, code)
}

func TestCheckAvailabilityBadRange(t *testing.T) {
    h := newAvailabilityEnv(nil)

    // inverted
    code, body := getJSON(t, h.CheckAvailability, "/v1/availability?resource_id=1&start_date=2025-09-06&end_date=2025-09-04")
    assert.Equal(t, http.StatusBadRequest, code)
    assert.NotEmpty(t, body["error"])

    // empty interval
    code, _ = getJSON(t, h.CheckAvailability, "/v1/availability?resource_id=1&start_date=2025-09-04&end_date=2025-09-04")
    assert.Equal(t, http.StatusBadRequest, code)

    // missing params
    code, _ = getJSON(t, h.CheckAvailability, "/v1/availability?resource_id=1")
    assert.Equal(t, http.StatusBadRequest, code)

    // unparsable
    code, _ = getJSON(t, h.CheckAvailability, "/v1/availability?resource_id=1&start_date=not-a-date&end_date=2025-09-06")
    assert.Equal(t, http.StatusBadRequest, code)
}

func TestCheckAvailabilityExclusionParam(t *testing.T) {
    from, to := stay("2025-09-04", "2025-09-06")
    h := newAvailabilityEnv([]model.Reservation{
        {ID: 7, ResourceID: 1, UserID: 2, FromDate: from, ToDate: to, Status: model.ReservationConfirmed},
    })
    code, body := getJSON(t, h.CheckAvailability, "/v1/availability?resource_id=1&start_date=2025-09-04&end_date=2025-09-06&exclude_reservation_id=7")
    assert.Equal(t, http.StatusOK, code)
    assert.Equal(t, true, body["available"])
}

func TestUnavailableDatesEndpoint(t *testing.T) {
    from, to := stay("2025-09-04", "2025-09-06")
    h := newAvailabilityEnv([]model.Reservation{
        {ID: 7, ResourceID: 1, UserID: 2, FromDate: from, ToDate: to, Status: model.ReservationConfirmed},
    })
    code, body := getJSON(t, h.UnavailableDates, "/v1/unavailable-dates?resource_id=1")
    assert.Equal(t, http.StatusOK, code)
    // checkout day is not blocked
    assert.Equal(t, []any{"2025-09-04", "2025-09-05"}, body["unavailable_dates"])
}

func TestMultiResourceAvailabilityEndpoint(t *testing.T) {
    from, to := stay("2025-09-04", "2025-09-05")
    engine := booking.NewEngine(&stubReservations{items: []model.Reservation{
        {ID: 1, ResourceID: 1, UserID: 2, FromDate: from, ToDate: to, Status: model.ReservationConfirmed},
    }}, stubPackages{})
    resources := &stubResources{
        byID: map[uint64]*model.Resource{
            1: {ID: 1, Slug: "seaside-villa", Title: "Seaside Villa", IsActive: true},
            2: {ID: 2, Slug: "city-loft", Title: "City Loft", IsActive: true},
        },
    }
    h := NewAvailabilityHandler(engine, resources)

    code, body := getJSON(t, h.MultiResourceAvailability, "/v1/multi-resource-availability?resource_ids=1,2")
    assert.Equal(t, http.StatusOK, code)
    assert.Equal(t, []any{"2025-09-04"}, body["unavailable_in_any"])

    entries, ok := body["resources"].([]any)
    require.True(t, ok)
    require.Len(t, entries, 2)

    first, ok := entries[0].(map[string]any)
    require.True(t, ok)
    assert.Equal(t, "Seaside Villa", first["title"])
    assert.Equal(t, []any{"2025-09-04"}, first["unavailable_dates"])

    code, _ = getJSON(t, h.MultiResourceAvailability, "/v1/multi-resource-availability?resource_ids=1,99")
    assert.Equal(t, http.StatusNotFound, code)

    code, _ = getJSON(t, h.MultiResourceAvailability, "/v1/multi-resource-availability")
    assert.Equal(t, http.StatusBadRequest, code)
}
