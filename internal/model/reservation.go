package model

import "time"

// Reservation status values.  Cancelled reservations are ignored by
// overlap queries.
const (
    ReservationConfirmed = "CONFIRMED"
    ReservationCancelled = "CANCELLED"
)

// Reservation records a guest's booking of a half-open date interval
// [FromDate, ToDate) against a resource.  PackageID is optional: when
// nil the reservation is unscoped and claims exclusive use of the
// resource for its dates; when set it counts only against that
// package's concurrency allowance.  Dates are stored date-only in UTC
// (midnight); the checkout day itself is never blocked.
//
// Fields:
//  ID         – primary key identifier.
//  ResourceID – resource being reserved.
//  PackageID  – optional package the booking is scoped to.
//  UserID     – guest who made the reservation.
//  FromDate   – check-in date (inclusive).
//  ToDate     – check-out date (exclusive); must be after FromDate.
//  Status     – CONFIRMED or CANCELLED.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Reservation struct {
    ID         uint64    // reservations.id
    ResourceID uint64    // reservations.resource_id
    PackageID  *uint64   // reservations.package_id (nullable)
    UserID     uint64    // reservations.user_id
    FromDate   time.Time // reservations.from_date
    ToDate     time.Time // reservations.to_date
    Status     string    // reservations.status
    CreatedAt  time.Time // reservations.created_at
    UpdatedAt  time.Time // reservations.updated_at
}
