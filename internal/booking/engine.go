package booking

import (
    "context"

    "github.com/iliyamo/property-reservation/internal/model"
)

// ReservationStore is the persistence collaborator consumed by the
// engine.  Implementations must exclude cancelled reservations from
// every query; anything returned is treated as active.
type ReservationStore interface {
    // FindOverlapping returns reservations on the resource whose
    // half-open interval overlaps iv.  When excludeID is non-zero the
    // reservation with that id is omitted (reschedule flows compare a
    // candidate against everything but itself).
    FindOverlapping(ctx context.Context, resourceID uint64, iv Interval, excludeID uint64) ([]model.Reservation, error)
    // ListByResource returns all active reservations on the resource,
    // optionally omitting one, for calendar materialization.
    ListByResource(ctx context.Context, resourceID uint64, excludeID uint64) ([]model.Reservation, error)
    // Admit persists an accepted candidate and returns the stored
    // reservation.  Implementations backed by a transactional store
    // should re-check the conflict count against capacity at commit
    // time (filtering with FilterByScope) and return *CapacityError
    // when a concurrent admission won the race.
    Admit(ctx context.Context, cand Candidate, scope Scope) (*model.Reservation, error)
}

// PackageStore resolves package capacity for the engine.  A nil
// package with a nil error is treated the same as ErrPackageNotFound.
type PackageStore interface {
    GetByID(ctx context.Context, id uint64) (*model.Package, error)
}

// Candidate is a reservation request presented to the admission gate.
// The interval must already be normalized to date-only values.
type Candidate struct {
    ResourceID uint64
    PackageID  *uint64
    UserID     uint64
    Interval   Interval
}

// Availability is the structured result of an advisory check.  It is
// side-effect free and may be recomputed any number of times; with no
// intervening writes the result is identical.
type Availability struct {
    Available        bool
    ConflictingCount int
    Capacity         int
}

// Engine combines the capacity resolver, conflict query and admission
// gate over the store collaborators.  It holds no mutable state and is
// safe for concurrent use from any number of request handlers.
type Engine struct {
    reservations ReservationStore
    packages     PackageStore
}

// NewEngine constructs an Engine.  Both stores must be non-nil.
func NewEngine(reservations ReservationStore, packages PackageStore) *Engine {
    if reservations == nil || packages == nil {
        panic("nil store passed to NewEngine")
    }
    return &Engine{reservations: reservations, packages: packages}
}

// FindConflicts returns the reservations that block a candidate with
// the given scope: overlapping reservations on the resource, minus the
// excluded one, post-filtered by the package-scoping rule.  The full
// records are returned, not a count, so callers can report the
// specific conflicting bookings.
func (e *Engine) FindConflicts(ctx context.Context, resourceID uint64, iv Interval, scope Scope, excludeID uint64) ([]model.Reservation, error) {
    overlapping, err := e.reservations.FindOverlapping(ctx, resourceID, iv, excludeID)
    if err != nil {
        return nil, err
    }
    return FilterByScope(scope, overlapping), nil
}

// Admit is the authoritative write-time gate.  It validates the
// candidate interval, resolves the capacity scope, counts conflicts
// and either persists the reservation or rejects with *CapacityError.
// The interval check runs before any store call so malformed requests
// never touch the database.  Note that the read and the write are not
// atomic here; transactional stores close the race in Admit (see
// ReservationStore).
func (e *Engine) Admit(ctx context.Context, cand Candidate) (*model.Reservation, error) {
    if !cand.Interval.Valid() {
        return nil, ErrInvalidInterval
    }
    scope := e.ResolveScope(ctx, cand.PackageID)
    conflicts, err := e.FindConflicts(ctx, cand.ResourceID, cand.Interval, scope, 0)
    if err != nil {
        return nil, err
    }
    if capacity := scope.EffectiveCapacity(conflicts); len(conflicts) >= capacity {
        return nil, NewCapacityError(capacity, Summarize(conflicts))
    }
    return e.reservations.Admit(ctx, cand, scope)
}

// CheckAvailability is the read-only advisory counterpart of Admit.
// It runs the same capacity and conflict logic but performs no writes
// and reports the outcome as data instead of an error.  excludeID lets
// a client editing reservation X ask whether a new interval would be
// free if X were ignored; a reservation's own dates therefore never
// conflict with itself.
func (e *Engine) CheckAvailability(ctx context.Context, resourceID uint64, iv Interval, packageID *uint64, excludeID uint64) (*Availability, error) {
    if !iv.Valid() {
        return nil, ErrInvalidInterval
    }
    scope := e.ResolveScope(ctx, packageID)
    conflicts, err := e.FindConflicts(ctx, resourceID, iv, scope, excludeID)
    if err != nil {
        return nil, err
    }
    capacity := scope.EffectiveCapacity(conflicts)
    return &Availability{
        Available:        len(conflicts) < capacity,
        ConflictingCount: len(conflicts),
        Capacity:         capacity,
    }, nil
}

// Summarize converts conflicting reservations into the wire-friendly
// form carried by CapacityError and rejection responses.
func Summarize(conflicts []model.Reservation) []ConflictSummary {
    out := make([]ConflictSummary, 0, len(conflicts))
    for _, r := range conflicts {
        out = append(out, ConflictSummary{
            ReservationID: r.ID,
            FromDate:      r.FromDate.Format(DateLayout),
            ToDate:        r.ToDate.Format(DateLayout),
            PackageID:     r.PackageID,
        })
    }
    return out
}
