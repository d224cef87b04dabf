package booking

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/property-reservation/internal/model"
)

func TestUnavailableDatesSingleReservation(t *testing.T) {
    engine, _, _ := newEngineWithPackages(nil)
    ctx := context.Background()

    _, err := engine.Admit(ctx, Candidate{
        ResourceID: 1, UserID: 1,
        Interval: NewInterval(day("2025-09-04"), day("2025-09-06")),
    })
    require.NoError(t, err)

    dates, err := engine.UnavailableDates(ctx, 1, 0)
    require.NoError(t, err)
    assert.Equal(t, []time.Time{day("2025-09-04"), day("2025-09-05")}, dates,
        "checkout day 2025-09-06 stays available")
}

func TestUnavailableDatesDeduplicatesAndSorts(t *testing.T) {
    engine, _, _ := newEngineWithPackages(map[uint64]*model.Package{
        10: {ID: 10, ResourceID: 1, MaxConcurrentBookings: 2},
    })
    ctx := context.Background()

    _, err := engine.Admit(ctx, Candidate{
        ResourceID: 1, PackageID: ptr(10), UserID: 1,
        Interval: NewInterval(day("2025-09-04"), day("2025-09-07")),
    })
    require.NoError(t, err)
    _, err = engine.Admit(ctx, Candidate{
        ResourceID: 1, PackageID: ptr(10), UserID: 2,
        Interval: NewInterval(day("2025-09-06"), day("2025-09-09")),
    })
    require.NoError(t, err)

    dates, err := engine.UnavailableDates(ctx, 1, 0)
    require.NoError(t, err)
    assert.Equal(t, []string{
        "2025-09-04", "2025-09-05", "2025-09-06", "2025-09-07", "2025-09-08",
    }, FormatDates(dates))
}

func TestUnavailableDatesExcludesReservation(t *testing.T) {
    engine, _, _ := newEngineWithPackages(nil)
    ctx := context.Background()

    created, err := engine.Admit(ctx, Candidate{
        ResourceID: 1, UserID: 1,
        Interval: NewInterval(day("2025-09-04"), day("2025-09-06")),
    })
    require.NoError(t, err)

    dates, err := engine.UnavailableDates(ctx, 1, created.ID)
    require.NoError(t, err)
    assert.Empty(t, dates)
}

func TestMultiResourceUnavailableDates(t *testing.T) {
    engine, _, _ := newEngineWithPackages(nil)
    ctx := context.Background()

    _, err := engine.Admit(ctx, Candidate{
        ResourceID: 1, UserID: 1,
        Interval: NewInterval(day("2025-09-04"), day("2025-09-06")),
    })
    require.NoError(t, err)
    _, err = engine.Admit(ctx, Candidate{
        ResourceID: 2, UserID: 2,
        Interval: NewInterval(day("2025-09-05"), day("2025-09-08")),
    })
    require.NoError(t, err)

    multi, err := engine.MultiResourceUnavailableDates(ctx, []uint64{1, 2, 3})
    require.NoError(t, err)

    assert.Equal(t, []string{"2025-09-04", "2025-09-05"}, FormatDates(multi.PerResource[1]))
    assert.Equal(t, []string{"2025-09-05", "2025-09-06", "2025-09-07"}, FormatDates(multi.PerResource[2]))
    assert.Empty(t, multi.PerResource[3])
    assert.Equal(t, []string{"2025-09-04", "2025-09-05", "2025-09-06", "2025-09-07"},
        FormatDates(multi.UnavailableInAny))
}
