// Package booking implements the reservation overlap and concurrency
// engine: the half-open interval model, per-package capacity
// resolution, the write-time admission gate and the read-only
// availability queries.  The engine itself is stateless; all shared
// state lives behind the store interfaces it consumes.
package booking

import (
    "time"
)

// DateLayout is the wire format for all dates handled by the engine.
const DateLayout = "2006-01-02"

// NormalizeDate discards the time-of-day component of t and returns
// midnight UTC of the same calendar day.  Every date entering the
// engine passes through here so that timezone-bearing inputs cannot
// shift overlap comparisons.
func NormalizeDate(t time.Time) time.Time {
    u := t.UTC()
    return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a client-supplied date string.  The canonical form
// is YYYY-MM-DD; RFC3339 timestamps are accepted and truncated to
// their calendar day.
func ParseDate(s string) (time.Time, error) {
    if t, err := time.Parse(DateLayout, s); err == nil {
        return NormalizeDate(t), nil
    }
    t, err := time.Parse(time.RFC3339, s)
    if err != nil {
        return time.Time{}, err
    }
    return NormalizeDate(t), nil
}

// Interval is a half-open date range [From, To).  Both endpoints are
// date-only values at midnight UTC.  A reservation ending on day N and
// another starting on day N do not overlap, so back-to-back stays are
// always permitted.
type Interval struct {
    From time.Time
    To   time.Time
}

// NewInterval builds an Interval from two timestamps, normalizing both
// to date-only values.  It does not validate ordering; callers must
// check Valid before using the interval.
func NewInterval(from, to time.Time) Interval {
    return Interval{From: NormalizeDate(from), To: NormalizeDate(to)}
}

// Valid reports whether the interval is non-empty, i.e. From < To.
// Zero-length and inverted intervals are invalid and must be rejected
// before any overlap arithmetic runs.
func (iv Interval) Valid() bool {
    return iv.From.Before(iv.To)
}

// Overlaps reports whether two half-open intervals share at least one
// day: a.From < b.To AND a.To > b.From, strict on both sides.
func (iv Interval) Overlaps(other Interval) bool {
    return iv.From.Before(other.To) && iv.To.After(other.From)
}

// Days enumerates every date d with From <= d < To, in order.  The
// checkout day is excluded, matching the half-open convention.
func (iv Interval) Days() []time.Time {
    if !iv.Valid() {
        return nil
    }
    days := make([]time.Time, 0, int(iv.To.Sub(iv.From).Hours()/24))
    for d := iv.From; d.Before(iv.To); d = d.AddDate(0, 0, 1) {
        days = append(days, d)
    }
    return days
}

// String renders the interval as "YYYY-MM-DD..YYYY-MM-DD" for logs and
// error messages.
func (iv Interval) String() string {
    return iv.From.Format(DateLayout) + ".." + iv.To.Format(DateLayout)
}
