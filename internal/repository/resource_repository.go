package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/property-reservation/internal/model"
)

// ResourceRepo provides CRUD operations for rentable resources
// (properties).  Resources are owned by OWNER users; ownership is
// verified inside the repository so handlers only need to map the
// sentinel errors to HTTP codes.
type ResourceRepo struct {
    db *sql.DB
}

// NewResourceRepo returns a new ResourceRepo bound to the given database.
func NewResourceRepo(db *sql.DB) *ResourceRepo { return &ResourceRepo{db: db} }

// DB exposes the underlying handle for transaction management in handlers.
func (r *ResourceRepo) DB() *sql.DB { return r.db }

const resourceCols = `id, owner_id, slug, title, description, is_active, created_at, updated_at`

func scanResource(row interface {
    Scan(dest ...interface{}) error
}) (*model.Resource, error) {
    var res model.Resource
    var desc sql.NullString
    if err := row.Scan(&res.ID, &res.OwnerID, &res.Slug, &res.Title, &desc, &res.IsActive, &res.CreatedAt, &res.UpdatedAt); err != nil {
        return nil, err
    }
    if desc.Valid {
        d := desc.String
        res.Description = &d
    }
    return &res, nil
}

// Create inserts a new resource and returns it with generated fields
// populated.  Slugs are unique; a duplicate yields ErrSlugExists.
func (r *ResourceRepo) Create(ctx context.Context, ownerID uint64, slug, title string, description *string) (*model.Resource, error) {
    slug = strings.ToLower(strings.TrimSpace(slug))
    const q = `INSERT INTO resources (owner_id, slug, title, description) VALUES (?, ?, ?, ?)`
    result, err := r.db.ExecContext(ctx, q, ownerID, slug, title, description)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return nil, ErrSlugExists
        }
        return nil, err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return nil, err
    }
    return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a single resource, returning ErrResourceNotFound
// when it does not exist.
func (r *ResourceRepo) GetByID(ctx context.Context, id uint64) (*model.Resource, error) {
    res, err := scanResource(r.db.QueryRowContext(ctx,
        `SELECT `+resourceCols+` FROM resources WHERE id = ?`, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrResourceNotFound
    }
    return res, err
}

// GetBySlug fetches a single resource by its public slug.
func (r *ResourceRepo) GetBySlug(ctx context.Context, slug string) (*model.Resource, error) {
    res, err := scanResource(r.db.QueryRowContext(ctx,
        `SELECT `+resourceCols+` FROM resources WHERE slug = ?`,
        strings.ToLower(strings.TrimSpace(slug))))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrResourceNotFound
    }
    return res, err
}

// ResolveIDBySlug maps a public slug to a resource id.
// ErrResourceNotFound signals an unresolvable slug.
func (r *ResourceRepo) ResolveIDBySlug(ctx context.Context, slug string) (uint64, error) {
    var id uint64
    err := r.db.QueryRowContext(ctx,
        `SELECT id FROM resources WHERE slug = ?`,
        strings.ToLower(strings.TrimSpace(slug))).Scan(&id)
    if errors.Is(err, sql.ErrNoRows) {
        return 0, ErrResourceNotFound
    }
    return id, err
}

// ListActive returns all resources open for new reservations, for
// public browsing.  Ordered by title for deterministic output.
func (r *ResourceRepo) ListActive(ctx context.Context) ([]model.Resource, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+resourceCols+` FROM resources WHERE is_active = 1 ORDER BY title`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Resource, 0)
    for rows.Next() {
        res, err := scanResource(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *res)
    }
    return out, rows.Err()
}

// ListByOwner returns every resource belonging to an owner, newest first.
func (r *ResourceRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Resource, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+resourceCols+` FROM resources WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Resource, 0)
    for rows.Next() {
        res, err := scanResource(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *res)
    }
    return out, rows.Err()
}

// ownerOf returns the owner id of a resource or ErrResourceNotFound.
func (r *ResourceRepo) ownerOf(ctx context.Context, id uint64) (uint64, error) {
    var ownerID uint64
    err := r.db.QueryRowContext(ctx, `SELECT owner_id FROM resources WHERE id = ?`, id).Scan(&ownerID)
    if errors.Is(err, sql.ErrNoRows) {
        return 0, ErrResourceNotFound
    }
    return ownerID, err
}

// Update modifies title, description or active flag of a resource
// owned by the caller.  Nil fields are left untouched.  It returns
// ErrForbidden when the resource belongs to a different owner.
func (r *ResourceRepo) Update(ctx context.Context, id, ownerID uint64, title, description *string, isActive *bool) (*model.Resource, error) {
    actual, err := r.ownerOf(ctx, id)
    if err != nil {
        return nil, err
    }
    if actual != ownerID {
        return nil, ErrForbidden
    }
    sets := make([]string, 0, 3)
    args := make([]interface{}, 0, 4)
    if title != nil {
        sets = append(sets, "title = ?")
        args = append(args, *title)
    }
    if description != nil {
        sets = append(sets, "description = ?")
        args = append(args, *description)
    }
    if isActive != nil {
        sets = append(sets, "is_active = ?")
        args = append(args, *isActive)
    }
    if len(sets) > 0 {
        args = append(args, id)
        if _, err := r.db.ExecContext(ctx,
            `UPDATE resources SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
            return nil, err
        }
    }
    return r.GetByID(ctx, id)
}

// Delete removes a resource owned by the caller.  A resource that
// still has confirmed reservations cannot be deleted; the caller
// receives ErrConflict and should cancel or wait out the bookings
// first.  Packages are removed by the foreign key cascade.
func (r *ResourceRepo) Delete(ctx context.Context, id, ownerID uint64) error {
    actual, err := r.ownerOf(ctx, id)
    if err != nil {
        return err
    }
    if actual != ownerID {
        return ErrForbidden
    }
    var active int
    if err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM reservations WHERE resource_id = ? AND status <> 'CANCELLED'`,
        id).Scan(&active); err != nil {
        return err
    }
    if active > 0 {
        return ErrConflict
    }
    _, err = r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = ?`, id)
    return err
}
