package booking

import (
    "context"
    "log"

    "github.com/iliyamo/property-reservation/internal/model"
)

// Scope is the capacity scope of a candidate reservation, resolved
// once per admission or availability check.  It is a tagged variant:
// an unscoped candidate (PackageID nil) claims exclusive use of the
// resource with capacity 1 and conflicts with every overlapping
// reservation, while a scoped candidate counts only against
// reservations of the same package (or unscoped ones, which always
// conflict).  Keeping the rule here means the dual unscoped/scoped
// behaviour is enforced in exactly one place.
type Scope struct {
    PackageID *uint64 // nil for unscoped candidates
    Capacity  int     // effective concurrency allowance, always >= 1
}

// Unscoped returns the scope of a candidate without a package:
// exclusive use, capacity 1.
func Unscoped() Scope {
    return Scope{Capacity: 1}
}

// Scoped reports whether the scope is bound to a package.
func (s Scope) Scoped() bool {
    return s.PackageID != nil
}

// ResolveScope determines the capacity scope for an optional package
// id.  A nil id yields the unscoped exclusive scope.  For a scoped
// candidate, the package's MaxConcurrentBookings is used when it is a
// positive number; an unset value, a missing package or a failed store
// lookup all degrade to capacity 1.  A lookup failure is logged but
// never surfaced: availability and admission must stay correct
// (conservative) when the package store is unavailable.
func (e *Engine) ResolveScope(ctx context.Context, packageID *uint64) Scope {
    if packageID == nil {
        return Unscoped()
    }
    scope := Scope{PackageID: packageID, Capacity: 1}
    pkg, err := e.packages.GetByID(ctx, *packageID)
    if err != nil {
        log.Printf("booking: package %d lookup failed, falling back to capacity 1: %v", *packageID, err)
        return scope
    }
    if pkg == nil {
        log.Printf("booking: package %d not found, falling back to capacity 1", *packageID)
        return scope
    }
    if pkg.MaxConcurrentBookings > 0 {
        scope.Capacity = int(pkg.MaxConcurrentBookings)
    }
    return scope
}

// EffectiveCapacity returns the allowance a conflict count is compared
// against.  An unscoped reservation claims exclusive use of the
// resource for its dates, so its presence among the conflicts clamps a
// scoped candidate's allowance to 1 no matter how large the package's
// MaxConcurrentBookings is.  Every admission decision (engine read
// path and transactional store re-check alike) goes through this
// method so the exclusivity rule cannot drift between them.
func (s Scope) EffectiveCapacity(conflicts []model.Reservation) int {
    if s.Scoped() {
        for _, r := range conflicts {
            if r.PackageID == nil {
                return 1
            }
        }
    }
    return s.Capacity
}

// FilterByScope applies the package-scoping rule to overlapping
// reservations.  An unscoped candidate conflicts with everything.  A
// scoped candidate conflicts with reservations of the same package and
// with unscoped reservations, which block all packages for their
// dates.  Stores that re-check capacity at commit time use the same
// filter so the rule cannot drift between read and write paths.
func FilterByScope(scope Scope, overlapping []model.Reservation) []model.Reservation {
    if !scope.Scoped() {
        return overlapping
    }
    kept := make([]model.Reservation, 0, len(overlapping))
    for _, r := range overlapping {
        if r.PackageID == nil || *r.PackageID == *scope.PackageID {
            kept = append(kept, r)
        }
    }
    return kept
}
