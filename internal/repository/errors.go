// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrConflict signals that an operation
// cannot proceed due to existing dependent records (e.g. deleting
// a resource that still has confirmed reservations).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as attempting to
// delete a resource that still has confirmed reservations or to
// cancel a stay that has already begun. Handlers should translate
// this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrResourceNotFound is returned when no resource exists for the
// given id or slug. Handlers should translate this into 404.
var ErrResourceNotFound = errors.New("resource not found")

// ErrPackageNotFound is returned when no package exists for the
// given id. The booking engine treats it as a capacity degradation;
// handlers managing packages translate it into 404.
var ErrPackageNotFound = errors.New("package not found")

// ErrReservationNotFound is returned when no reservation exists for
// the given id. Handlers should translate this into 404.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrSlugExists is returned when creating or renaming a resource to a
// slug already in use. Handlers should translate this into 409.
var ErrSlugExists = errors.New("slug already exists")
