package booking

import (
    "errors"
    "fmt"
)

// ErrInvalidInterval is returned when a candidate interval is empty or
// inverted (from >= to) or when its dates cannot be parsed.  Handlers
// translate it into an HTTP 400 response.  It is never retried.
var ErrInvalidInterval = errors.New("booking: invalid interval: from date must be before to date")

// ErrPackageNotFound is returned by package stores when no package
// exists for an id.  The capacity resolver treats it as a degradation
// and falls back to capacity 1; it never propagates to callers of the
// admission gate or availability query.
var ErrPackageNotFound = errors.New("booking: package not found")

// ConflictSummary describes one reservation that blocked an admission,
// carried inside CapacityError so callers can report the specific
// overlapping bookings.
type ConflictSummary struct {
    ReservationID uint64  `json:"reservation_id"`
    FromDate      string  `json:"from_date"`
    ToDate        string  `json:"to_date"`
    PackageID     *uint64 `json:"package_id,omitempty"`
}

// CapacityError rejects an admission whose conflict count has reached
// the resolved capacity.  It is a terminal business outcome, not a
// transient failure; callers must not retry it.
type CapacityError struct {
    Capacity  int
    Conflicts []ConflictSummary
}

func (e *CapacityError) Error() string {
    return fmt.Sprintf("booking: capacity exceeded: %d conflicting reservation(s), capacity %d", len(e.Conflicts), e.Capacity)
}

// NewCapacityError builds a CapacityError from the conflicting
// reservations found by the conflict query.
func NewCapacityError(capacity int, conflicts []ConflictSummary) *CapacityError {
    return &CapacityError{Capacity: capacity, Conflicts: conflicts}
}
