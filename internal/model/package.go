package model

import "time"

// Package is a purchasable variant of a resource with its own
// concurrency allowance.  Reservations scoped to a package count
// against that package's MaxConcurrentBookings for overlapping
// dates; a value of zero means "unset" and the engine falls back
// to a capacity of one.
//
// Fields:
//  ID                    – primary key identifier.
//  ResourceID            – resource the package belongs to.
//  Name                  – display name (e.g. "Standard", "Shared Room").
//  MaxConcurrentBookings – how many overlapping reservations of this
//                          package may coexist; 0 means unset.
//  CreatedAt             – creation timestamp.
//  UpdatedAt             – last update timestamp.
type Package struct {
    ID                    uint64    // packages.id
    ResourceID            uint64    // packages.resource_id
    Name                  string    // packages.name
    MaxConcurrentBookings uint32    // packages.max_concurrent_bookings
    CreatedAt             time.Time // packages.created_at
    UpdatedAt             time.Time // packages.updated_at
}
