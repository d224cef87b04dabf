package booking

import (
    "context"
    "errors"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/property-reservation/internal/model"
)

// fakeReservationStore is a map-backed in-memory implementation of
// ReservationStore used by engine tests.
type fakeReservationStore struct {
    reservations []model.Reservation
    nextID       uint64
    findCalls    int
}

func newFakeReservationStore() *fakeReservationStore {
    return &fakeReservationStore{nextID: 1}
}

func (s *fakeReservationStore) FindOverlapping(_ context.Context, resourceID uint64, iv Interval, excludeID uint64) ([]model.Reservation, error) {
    s.findCalls++
    var out []model.Reservation
    for _, r := range s.reservations {
        if r.ResourceID != resourceID || r.Status == model.ReservationCancelled {
            continue
        }
        if excludeID != 0 && r.ID == excludeID {
            continue
        }
        if iv.Overlaps(NewInterval(r.FromDate, r.ToDate)) {
            out = append(out, r)
        }
    }
    return out, nil
}

func (s *fakeReservationStore) ListByResource(_ context.Context, resourceID uint64, excludeID uint64) ([]model.Reservation, error) {
    var out []model.Reservation
    for _, r := range s.reservations {
        if r.ResourceID != resourceID || r.Status == model.ReservationCancelled {
            continue
        }
        if excludeID != 0 && r.ID == excludeID {
            continue
        }
        out = append(out, r)
    }
    return out, nil
}

func (s *fakeReservationStore) Admit(_ context.Context, cand Candidate, _ Scope) (*model.Reservation, error) {
    r := model.Reservation{
        ID:         s.nextID,
        ResourceID: cand.ResourceID,
        PackageID:  cand.PackageID,
        UserID:     cand.UserID,
        FromDate:   cand.Interval.From,
        ToDate:     cand.Interval.To,
        Status:     model.ReservationConfirmed,
    }
    s.nextID++
    s.reservations = append(s.reservations, r)
    return &r, nil
}

// fakePackageStore serves packages from a map and can be forced to
// fail to exercise the degradation path.
type fakePackageStore struct {
    packages map[uint64]*model.Package
    err      error
    calls    int
}

func (s *fakePackageStore) GetByID(_ context.Context, id uint64) (*model.Package, error) {
    s.calls++
    if s.err != nil {
        return nil, s.err
    }
    pkg, ok := s.packages[id]
    if !ok {
        return nil, ErrPackageNotFound
    }
    return pkg, nil
}

func newEngineWithPackages(pkgs map[uint64]*model.Package) (*Engine, *fakeReservationStore, *fakePackageStore) {
    res := newFakeReservationStore()
    ps := &fakePackageStore{packages: pkgs}
    return NewEngine(res, ps), res, ps
}

func ptr(v uint64) *uint64 { return &v }

func TestAdmitEmptyResource(t *testing.T) {
    engine, _, _ := newEngineWithPackages(nil)
    ctx := context.Background()

    got, err := engine.Admit(ctx, Candidate{
        ResourceID: 1,
        UserID:     7,
        Interval:   NewInterval(day("2025-09-04"), day("2025-09-06")),
    })
    require.NoError(t, err)
    assert.Equal(t, uint64(1), got.ResourceID)
    assert.Equal(t, model.ReservationConfirmed, got.Status)
}

func TestAdmitRejectsInvalidIntervalBeforeAnyStoreCall(t *testing.T) {
    engine, res, pkgs := newEngineWithPackages(nil)
    ctx := context.Background()

    _, err := engine.Admit(ctx, Candidate{
        ResourceID: 1,
        Interval:   NewInterval(day("2025-09-04"), day("2025-09-04")),
    })
    assert.ErrorIs(t, err, ErrInvalidInterval)
    assert.Zero(t, res.findCalls, "no conflict query on invalid input")
    assert.Zero(t, pkgs.calls, "no capacity lookup on invalid input")
}

func TestAdmitOverlapAtCapacityOne(t *testing.T) {
    engine, _, _ := newEngineWithPackages(map[uint64]*model.Package{
        10: {ID: 10, ResourceID: 1, MaxConcurrentBookings: 1},
    })
    ctx := context.Background()

    _, err := engine.Admit(ctx, Candidate{
        ResourceID: 1, PackageID: ptr(10), UserID: 7,
        Interval: NewInterval(day("2025-09-04"), day("2025-09-06")),
    })
    require.NoError(t, err)

    _, err = engine.Admit(ctx, Candidate{
        ResourceID: 1, PackageID: ptr(10), UserID: 8,
        Interval: NewInterval(day("2025-09-05"), day("2025-09-07")),
    })
    var capErr *CapacityError
    require.ErrorAs(t, err, &capErr)
    assert.Equal(t, 1, capErr.Capacity)
    require.Len(t, capErr.Conflicts, 1)
    assert.Equal(t, "2025-09-04", capErr.Conflicts[0].FromDate)
    assert.Equal(t, "2025-09-06", capErr.Conflicts[0].ToDate)
}

func TestAdmitBackToBackStay(t *testing.T) {
    engine, _, _ := newEngineWithPackages(map[uint64]*model.Package{
        10: {ID: 10, ResourceID: 1, MaxConcurrentBookings: 1},
    })
    ctx := context.Background()

    _, err := engine.Admit(ctx, Candidate{
        ResourceID: 1, PackageID: ptr(10), UserID: 7,
        Interval: NewInterval(day("2025-09-04"), day("2025-09-06")),
    })
    require.NoError(t, err)

    // Checking in on the previous guest's checkout day is always allowed.
    got, err := engine.Admit(ctx, Candidate{
        ResourceID: 1, PackageID: ptr(10), UserID: 8,
        Interval: NewInterval(day("2025-09-06"), day("2025-09-08")),
    })
    require.NoError(t, err)
    assert.Equal(t, day("2025-09-06"), got.FromDate)
}

func TestAdmitCapacityMonotonicity(t *testing.T) {
    engine, _, _ := newEngineWithPackages(map[uint64]*model.Package{
        10: {ID: 10, ResourceID: 1, MaxConcurrentBookings: 3},
    })
    ctx := context.Background()
    iv := NewInterval(day("2025-09-04"), day("2025-09-06"))

    for i := 0; i < 3; i++ {
        _, err := engine.Admit(ctx, Candidate{
            ResourceID: 1, PackageID: ptr(10), UserID: uint64(i + 1), Interval: iv,
        })
        require.NoErrorf(t, err, "admission %d of 3 should succeed", i+1)
    }

    _, err := engine.Admit(ctx, Candidate{
        ResourceID: 1, PackageID: ptr(10), UserID: 4, Interval: iv,
    })
    var capErr *CapacityError
    require.ErrorAs(t, err, &capErr, "4th overlapping admission must fail")
    assert.Equal(t, 3, capErr.Capacity)
    assert.Len(t, capErr.Conflicts, 3)
}

func TestUnscopedExclusivity(t *testing.T) {
    engine, _, _ := newEngineWithPackages(map[uint64]*model.Package{
        10: {ID: 10, ResourceID: 1, MaxConcurrentBookings: 5},
        11: {ID: 11, ResourceID: 1, MaxConcurrentBookings: 5},
    })
    ctx := context.Background()
    iv := NewInterval(day("2025-09-04"), day("2025-09-06"))

    // An unscoped reservation claims the whole resource.
    _, err := engine.Admit(ctx, Candidate{ResourceID: 1, UserID: 1, Interval: iv})
    require.NoError(t, err)

    // A scoped candidate is blocked by it regardless of its own capacity.
    _, err = engine.Admit(ctx, Candidate{ResourceID: 1, PackageID: ptr(10), UserID: 2, Interval: iv})
    var capErr *CapacityError
    assert.ErrorAs(t, err, &capErr)

    // And the reverse: an unscoped candidate is blocked by any scoped
    // overlapping reservation, on any package.
    engine2, store2, _ := newEngineWithPackages(map[uint64]*model.Package{
        11: {ID: 11, ResourceID: 1, MaxConcurrentBookings: 5},
    })
    _, err = engine2.Admit(ctx, Candidate{ResourceID: 1, PackageID: ptr(11), UserID: 1, Interval: iv})
    require.NoError(t, err)
    _, err = engine2.Admit(ctx, Candidate{ResourceID: 1, UserID: 2, Interval: iv})
    assert.ErrorAs(t, err, &capErr)
    assert.Len(t, store2.reservations, 1)
}

func TestUnscopedConflictClampsPackageCapacity(t *testing.T) {
    engine, store, _ := newEngineWithPackages(map[uint64]*model.Package{
        10: {ID: 10, ResourceID: 1, MaxConcurrentBookings: 5},
    })
    ctx := context.Background()
    iv := NewInterval(day("2025-09-04"), day("2025-09-06"))

    _, err := engine.Admit(ctx, Candidate{ResourceID: 1, UserID: 1, Interval: iv})
    require.NoError(t, err)

    // The package would allow 5 concurrent bookings, but the unscoped
    // reservation holds the whole resource: the advisory check must
    // report the clamped allowance, not the package's.
    avail, err := engine.CheckAvailability(ctx, 1, iv, ptr(10), 0)
    require.NoError(t, err)
    assert.False(t, avail.Available)
    assert.Equal(t, 1, avail.Capacity)
    assert.Equal(t, 1, avail.ConflictingCount)

    _, err = engine.Admit(ctx, Candidate{ResourceID: 1, PackageID: ptr(10), UserID: 2, Interval: iv})
    var capErr *CapacityError
    require.ErrorAs(t, err, &capErr)
    assert.Equal(t, 1, capErr.Capacity)
    assert.Len(t, store.reservations, 1)
}

func TestScopedPackagesDoNotBlockEachOther(t *testing.T) {
    engine, _, _ := newEngineWithPackages(map[uint64]*model.Package{
        10: {ID: 10, ResourceID: 1, MaxConcurrentBookings: 1},
        11: {ID: 11, ResourceID: 1, MaxConcurrentBookings: 1},
    })
    ctx := context.Background()
    iv := NewInterval(day("2025-09-04"), day("2025-09-06"))

    _, err := engine.Admit(ctx, Candidate{ResourceID: 1, PackageID: ptr(10), UserID: 1, Interval: iv})
    require.NoError(t, err)

    // Same dates on a different package: no conflict.
    _, err = engine.Admit(ctx, Candidate{ResourceID: 1, PackageID: ptr(11), UserID: 2, Interval: iv})
    assert.NoError(t, err)
}

func TestResolveScopeFallbacks(t *testing.T) {
    ctx := context.Background()

    t.Run("absent package id is unscoped capacity 1", func(t *testing.T) {
        engine, _, _ := newEngineWithPackages(nil)
        scope := engine.ResolveScope(ctx, nil)
        assert.False(t, scope.Scoped())
        assert.Equal(t, 1, scope.Capacity)
    })

    t.Run("missing package falls back to 1", func(t *testing.T) {
        engine, _, _ := newEngineWithPackages(map[uint64]*model.Package{})
        scope := engine.ResolveScope(ctx, ptr(99))
        assert.True(t, scope.Scoped())
        assert.Equal(t, 1, scope.Capacity)
    })

    t.Run("store failure falls back to 1 and does not error", func(t *testing.T) {
        res := newFakeReservationStore()
        ps := &fakePackageStore{err: errors.New("connection refused")}
        engine := NewEngine(res, ps)
        scope := engine.ResolveScope(ctx, ptr(10))
        assert.Equal(t, 1, scope.Capacity)

        // Availability stays correct (conservative) under degradation.
        avail, err := engine.CheckAvailability(ctx, 1, NewInterval(day("2025-09-04"), day("2025-09-06")), ptr(10), 0)
        require.NoError(t, err)
        assert.True(t, avail.Available)
        assert.Equal(t, 1, avail.Capacity)
    })

    t.Run("unset capacity falls back to 1", func(t *testing.T) {
        engine, _, _ := newEngineWithPackages(map[uint64]*model.Package{
            10: {ID: 10, ResourceID: 1, MaxConcurrentBookings: 0},
        })
        scope := engine.ResolveScope(ctx, ptr(10))
        assert.Equal(t, 1, scope.Capacity)
    })
}

func TestCheckAvailabilityScenarios(t *testing.T) {
    engine, _, _ := newEngineWithPackages(map[uint64]*model.Package{
        10: {ID: 10, ResourceID: 1, MaxConcurrentBookings: 1},
    })
    ctx := context.Background()

    // Empty resource: available with zero conflicts.
    avail, err := engine.CheckAvailability(ctx, 1, NewInterval(day("2025-09-04"), day("2025-09-06")), ptr(10), 0)
    require.NoError(t, err)
    assert.True(t, avail.Available)
    assert.Zero(t, avail.ConflictingCount)

    _, err = engine.Admit(ctx, Candidate{
        ResourceID: 1, PackageID: ptr(10), UserID: 1,
        Interval: NewInterval(day("2025-09-04"), day("2025-09-06")),
    })
    require.NoError(t, err)

    // Overlapping range is now taken.
    avail, err = engine.CheckAvailability(ctx, 1, NewInterval(day("2025-09-05"), day("2025-09-07")), ptr(10), 0)
    require.NoError(t, err)
    assert.False(t, avail.Available)
    assert.Equal(t, 1, avail.ConflictingCount)
    assert.Equal(t, 1, avail.Capacity)

    // Starting on the checkout day is free.
    avail, err = engine.CheckAvailability(ctx, 1, NewInterval(day("2025-09-06"), day("2025-09-08")), ptr(10), 0)
    require.NoError(t, err)
    assert.True(t, avail.Available)
}

func TestCheckAvailabilityIsIdempotent(t *testing.T) {
    engine, _, _ := newEngineWithPackages(map[uint64]*model.Package{
        10: {ID: 10, ResourceID: 1, MaxConcurrentBookings: 2},
    })
    ctx := context.Background()
    _, err := engine.Admit(ctx, Candidate{
        ResourceID: 1, PackageID: ptr(10), UserID: 1,
        Interval: NewInterval(day("2025-09-04"), day("2025-09-06")),
    })
    require.NoError(t, err)

    iv := NewInterval(day("2025-09-05"), day("2025-09-07"))
    first, err := engine.CheckAvailability(ctx, 1, iv, ptr(10), 0)
    require.NoError(t, err)
    for i := 0; i < 5; i++ {
        again, err := engine.CheckAvailability(ctx, 1, iv, ptr(10), 0)
        require.NoError(t, err)
        assert.Equal(t, first, again)
    }
}

func TestCheckAvailabilityExcludesOwnReservation(t *testing.T) {
    engine, _, _ := newEngineWithPackages(map[uint64]*model.Package{
        10: {ID: 10, ResourceID: 1, MaxConcurrentBookings: 1},
    })
    ctx := context.Background()
    iv := NewInterval(day("2025-09-04"), day("2025-09-06"))
    created, err := engine.Admit(ctx, Candidate{
        ResourceID: 1, PackageID: ptr(10), UserID: 1, Interval: iv,
    })
    require.NoError(t, err)

    // A reservation's own current dates never conflict with itself.
    avail, err := engine.CheckAvailability(ctx, 1, iv, ptr(10), created.ID)
    require.NoError(t, err)
    assert.True(t, avail.Available)
    assert.Zero(t, avail.ConflictingCount)

    // Without the exclusion the same query reports the conflict.
    avail, err = engine.CheckAvailability(ctx, 1, iv, ptr(10), 0)
    require.NoError(t, err)
    assert.False(t, avail.Available)
}

func TestCancelledReservationsDoNotConflict(t *testing.T) {
    engine, store, _ := newEngineWithPackages(nil)
    ctx := context.Background()
    iv := NewInterval(day("2025-09-04"), day("2025-09-06"))

    created, err := engine.Admit(ctx, Candidate{ResourceID: 1, UserID: 1, Interval: iv})
    require.NoError(t, err)

    for i := range store.reservations {
        if store.reservations[i].ID == created.ID {
            store.reservations[i].Status = model.ReservationCancelled
        }
    }

    avail, err := engine.CheckAvailability(ctx, 1, iv, nil, 0)
    require.NoError(t, err)
    assert.True(t, avail.Available)
}
