package model

import "time"

// Resource represents a rentable property owned by an OWNER user.
// Guests reserve date intervals against a resource, and owners may
// attach purchasable packages to it.  The slug provides a stable
// human-readable handle used in public availability URLs.
//
// Fields:
//  ID          – primary key identifier.
//  OwnerID     – user who owns and manages the resource.
//  Slug        – URL-friendly unique handle (e.g. "seaside-villa").
//  Title       – display name shown to guests.
//  Description – optional free-form description.
//  IsActive    – whether the resource is open for new reservations.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Resource struct {
    ID          uint64    // resources.id
    OwnerID     uint64    // resources.owner_id
    Slug        string    // resources.slug
    Title       string    // resources.title
    Description *string   // resources.description (nullable)
    IsActive    bool      // resources.is_active
    CreatedAt   time.Time // resources.created_at
    UpdatedAt   time.Time // resources.updated_at
}
