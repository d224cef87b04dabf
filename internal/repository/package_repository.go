package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/property-reservation/internal/model"
)

// PackageRepo provides CRUD operations for purchasable packages.  A
// package belongs to exactly one resource; write operations verify
// that the caller owns that resource.  GetByID doubles as the booking
// engine's PackageStore, so capacity lookups and owner management go
// through the same queries.
type PackageRepo struct {
    db *sql.DB
}

// NewPackageRepo returns a new PackageRepo bound to the given database.
func NewPackageRepo(db *sql.DB) *PackageRepo { return &PackageRepo{db: db} }

const packageCols = `id, resource_id, name, max_concurrent_bookings, created_at, updated_at`

func scanPackage(row interface {
    Scan(dest ...interface{}) error
}) (*model.Package, error) {
    var p model.Package
    if err := row.Scan(&p.ID, &p.ResourceID, &p.Name, &p.MaxConcurrentBookings, &p.CreatedAt, &p.UpdatedAt); err != nil {
        return nil, err
    }
    return &p, nil
}

// GetByID fetches a single package, returning ErrPackageNotFound when
// it does not exist.  The booking engine calls this on every scoped
// capacity resolution and treats any error as a fall-back to 1.
func (r *PackageRepo) GetByID(ctx context.Context, id uint64) (*model.Package, error) {
    p, err := scanPackage(r.db.QueryRowContext(ctx,
        `SELECT `+packageCols+` FROM packages WHERE id = ?`, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrPackageNotFound
    }
    return p, err
}

// ListByResource returns all packages attached to a resource, ordered
// by name for deterministic output.
func (r *PackageRepo) ListByResource(ctx context.Context, resourceID uint64) ([]model.Package, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+packageCols+` FROM packages WHERE resource_id = ? ORDER BY name`, resourceID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Package, 0)
    for rows.Next() {
        p, err := scanPackage(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *p)
    }
    return out, rows.Err()
}

// resourceOwner returns the owner of a resource via a single lookup,
// shared by the write operations below.
func (r *PackageRepo) resourceOwner(ctx context.Context, resourceID uint64) (uint64, error) {
    var ownerID uint64
    err := r.db.QueryRowContext(ctx,
        `SELECT owner_id FROM resources WHERE id = ?`, resourceID).Scan(&ownerID)
    if errors.Is(err, sql.ErrNoRows) {
        return 0, ErrResourceNotFound
    }
    return ownerID, err
}

// Create attaches a new package to a resource owned by the caller.  A
// maxConcurrent of zero stores "unset"; the engine will treat it as
// capacity 1.
func (r *PackageRepo) Create(ctx context.Context, resourceID, ownerID uint64, name string, maxConcurrent uint32) (*model.Package, error) {
    actual, err := r.resourceOwner(ctx, resourceID)
    if err != nil {
        return nil, err
    }
    if actual != ownerID {
        return nil, ErrForbidden
    }
    result, err := r.db.ExecContext(ctx,
        `INSERT INTO packages (resource_id, name, max_concurrent_bookings) VALUES (?, ?, ?)`,
        resourceID, name, maxConcurrent)
    if err != nil {
        return nil, err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return nil, err
    }
    return r.GetByID(ctx, uint64(id))
}

// Update changes a package's name or concurrency allowance.  Nil
// fields are left untouched.  Ownership is verified through the
// package's resource.
func (r *PackageRepo) Update(ctx context.Context, id, ownerID uint64, name *string, maxConcurrent *uint32) (*model.Package, error) {
    p, err := r.GetByID(ctx, id)
    if err != nil {
        return nil, err
    }
    actual, err := r.resourceOwner(ctx, p.ResourceID)
    if err != nil {
        return nil, err
    }
    if actual != ownerID {
        return nil, ErrForbidden
    }
    if name != nil {
        if _, err := r.db.ExecContext(ctx,
            `UPDATE packages SET name = ? WHERE id = ?`, *name, id); err != nil {
            return nil, err
        }
    }
    if maxConcurrent != nil {
        if _, err := r.db.ExecContext(ctx,
            `UPDATE packages SET max_concurrent_bookings = ? WHERE id = ?`, *maxConcurrent, id); err != nil {
            return nil, err
        }
    }
    return r.GetByID(ctx, id)
}

// Delete removes a package owned by the caller.  Packages with
// confirmed reservations cannot be deleted (ErrConflict): existing
// bookings keep counting against the package until they end or are
// cancelled.
func (r *PackageRepo) Delete(ctx context.Context, id, ownerID uint64) error {
    p, err := r.GetByID(ctx, id)
    if err != nil {
        return err
    }
    actual, err := r.resourceOwner(ctx, p.ResourceID)
    if err != nil {
        return err
    }
    if actual != ownerID {
        return ErrForbidden
    }
    var active int
    if err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM reservations WHERE package_id = ? AND status <> 'CANCELLED'`,
        id).Scan(&active); err != nil {
        return err
    }
    if active > 0 {
        return ErrConflict
    }
    _, err = r.db.ExecContext(ctx, `DELETE FROM packages WHERE id = ?`, id)
    return err
}
