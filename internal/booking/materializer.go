package booking

import (
    "context"
    "sort"
    "time"
)

// UnavailableDates expands every active reservation on a resource into
// the flat, de-duplicated set of blocked calendar dates, sorted
// ascending.  The half-open convention applies: the checkout day of a
// reservation is available.  When excludeID is non-zero that
// reservation's dates are omitted, so a guest editing their own
// booking sees its days as free.  The result is a derived view
// recomputed per request, not an incrementally maintained index.
func (e *Engine) UnavailableDates(ctx context.Context, resourceID uint64, excludeID uint64) ([]time.Time, error) {
    reservations, err := e.reservations.ListByResource(ctx, resourceID, excludeID)
    if err != nil {
        return nil, err
    }
    blocked := make(map[time.Time]struct{})
    for _, r := range reservations {
        for _, d := range NewInterval(r.FromDate, r.ToDate).Days() {
            blocked[d] = struct{}{}
        }
    }
    dates := make([]time.Time, 0, len(blocked))
    for d := range blocked {
        dates = append(dates, d)
    }
    sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
    return dates, nil
}

// MultiResourceAvailability bundles the per-resource unavailable-date
// sets for several resources together with their union.  Calendar UIs
// use the union to disable dates where at least one of the requested
// resources is taken; its complement over the displayed range is
// "available everywhere".
type MultiResourceAvailability struct {
    PerResource      map[uint64][]time.Time
    UnavailableInAny []time.Time
}

// MultiResourceUnavailableDates computes UnavailableDates for each
// requested resource and the union across all of them.  Resources are
// queried independently; a failure on any one aborts the whole call.
func (e *Engine) MultiResourceUnavailableDates(ctx context.Context, resourceIDs []uint64) (*MultiResourceAvailability, error) {
    per := make(map[uint64][]time.Time, len(resourceIDs))
    union := make(map[time.Time]struct{})
    for _, id := range resourceIDs {
        dates, err := e.UnavailableDates(ctx, id, 0)
        if err != nil {
            return nil, err
        }
        per[id] = dates
        for _, d := range dates {
            union[d] = struct{}{}
        }
    }
    any := make([]time.Time, 0, len(union))
    for d := range union {
        any = append(any, d)
    }
    sort.Slice(any, func(i, j int) bool { return any[i].Before(any[j]) })
    return &MultiResourceAvailability{PerResource: per, UnavailableInAny: any}, nil
}

// FormatDates renders a date slice in the wire format used by all
// calendar endpoints.
func FormatDates(dates []time.Time) []string {
    out := make([]string, 0, len(dates))
    for _, d := range dates {
        out = append(out, d.Format(DateLayout))
    }
    return out
}
