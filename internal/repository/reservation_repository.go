package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/property-reservation/internal/booking"
    "github.com/iliyamo/property-reservation/internal/model"
)

// ReservationRepo provides persistence for date-interval reservations.
// It implements the booking engine's ReservationStore: overlap queries
// exclude cancelled rows, and Admit re-checks the conflict count inside
// a transaction so the check-then-act window between the engine's read
// and the insert is closed at the store layer.  All dates are stored
// as date-only values in UTC.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for transaction management in handlers.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationCols = `id, resource_id, package_id, user_id, from_date, to_date, status, created_at, updated_at`

func scanReservation(row interface {
    Scan(dest ...interface{}) error
}) (*model.Reservation, error) {
    var res model.Reservation
    var pkgID sql.NullInt64
    if err := row.Scan(&res.ID, &res.ResourceID, &pkgID, &res.UserID,
        &res.FromDate, &res.ToDate, &res.Status, &res.CreatedAt, &res.UpdatedAt); err != nil {
        return nil, err
    }
    if pkgID.Valid {
        id := uint64(pkgID.Int64)
        res.PackageID = &id
    }
    res.FromDate = booking.NormalizeDate(res.FromDate)
    res.ToDate = booking.NormalizeDate(res.ToDate)
    return &res, nil
}

type rowQuerier interface {
    QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// findOverlapping runs the base overlap filter against db or an open
// transaction.  The half-open rule is expressed directly in SQL:
// from_date < candidate.to AND to_date > candidate.from, both strict,
// so back-to-back stays never match.
func (r *ReservationRepo) findOverlapping(ctx context.Context, q rowQuerier, resourceID uint64, iv booking.Interval, excludeID uint64, forUpdate bool) ([]model.Reservation, error) {
    query := `SELECT ` + reservationCols + ` FROM reservations
              WHERE resource_id = ? AND status <> 'CANCELLED'
                AND from_date < ? AND to_date > ?`
    args := []interface{}{resourceID, iv.To, iv.From}
    if excludeID != 0 {
        query += ` AND id <> ?`
        args = append(args, excludeID)
    }
    query += ` ORDER BY from_date, id`
    if forUpdate {
        query += ` FOR UPDATE`
    }
    rows, err := q.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Reservation, 0)
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *res)
    }
    return out, rows.Err()
}

// FindOverlapping returns active reservations on the resource whose
// interval overlaps iv, optionally omitting one reservation.
func (r *ReservationRepo) FindOverlapping(ctx context.Context, resourceID uint64, iv booking.Interval, excludeID uint64) ([]model.Reservation, error) {
    return r.findOverlapping(ctx, r.db, resourceID, iv, excludeID, false)
}

// ListByResource returns every active reservation on the resource for
// calendar materialization, optionally omitting one.
func (r *ReservationRepo) ListByResource(ctx context.Context, resourceID uint64, excludeID uint64) ([]model.Reservation, error) {
    query := `SELECT ` + reservationCols + ` FROM reservations
              WHERE resource_id = ? AND status <> 'CANCELLED'`
    args := []interface{}{resourceID}
    if excludeID != 0 {
        query += ` AND id <> ?`
        args = append(args, excludeID)
    }
    query += ` ORDER BY from_date, id`
    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Reservation, 0)
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *res)
    }
    return out, rows.Err()
}

// Admit inserts an accepted candidate.  The overlapping rows are
// re-read with FOR UPDATE and re-counted against the scope inside the
// transaction, so two concurrent admissions for the same resource
// serialize at the database and the loser gets *booking.CapacityError
// instead of overbooking the interval.
func (r *ReservationRepo) Admit(ctx context.Context, cand booking.Candidate, scope booking.Scope) (*model.Reservation, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    overlapping, err := r.findOverlapping(ctx, tx, cand.ResourceID, cand.Interval, 0, true)
    if err != nil {
        return nil, err
    }
    conflicts := booking.FilterByScope(scope, overlapping)
    if capacity := scope.EffectiveCapacity(conflicts); len(conflicts) >= capacity {
        return nil, booking.NewCapacityError(capacity, booking.Summarize(conflicts))
    }

    var pkgID interface{}
    if cand.PackageID != nil {
        pkgID = *cand.PackageID
    }
    result, err := tx.ExecContext(ctx,
        `INSERT INTO reservations (resource_id, package_id, user_id, from_date, to_date, status)
         VALUES (?, ?, ?, ?, ?, 'CONFIRMED')`,
        cand.ResourceID, pkgID, cand.UserID, cand.Interval.From, cand.Interval.To)
    if err != nil {
        return nil, err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return nil, err
    }
    created, err := scanReservation(tx.QueryRowContext(ctx,
        `SELECT `+reservationCols+` FROM reservations WHERE id = ?`, id))
    if err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return created, nil
}

// ReservationDetail joins a reservation with its resource and package
// names for guest-facing listings.
type ReservationDetail struct {
    ID            uint64  `json:"id"`
    ResourceID    uint64  `json:"resource_id"`
    ResourceTitle string  `json:"resource_title"`
    PackageID     *uint64 `json:"package_id,omitempty"`
    PackageName   *string `json:"package_name,omitempty"`
    FromDate      string  `json:"from_date"`
    ToDate        string  `json:"to_date"`
    Status        string  `json:"status"`
}

// OwnerReservationDetail extends ReservationDetail with the booking
// guest's id for owner-facing listings.
type OwnerReservationDetail struct {
    ReservationDetail
    UserID uint64 `json:"user_id"`
}

const detailQ = `SELECT r.id, r.resource_id, res.title, r.package_id, p.name,
                        r.from_date, r.to_date, r.status, r.user_id
                 FROM reservations r
                 JOIN resources res ON res.id = r.resource_id
                 LEFT JOIN packages p ON p.id = r.package_id`

func scanDetail(row interface {
    Scan(dest ...interface{}) error
}) (*OwnerReservationDetail, error) {
    var d OwnerReservationDetail
    var pkgID sql.NullInt64
    var pkgName sql.NullString
    var from, to time.Time
    if err := row.Scan(&d.ID, &d.ResourceID, &d.ResourceTitle, &pkgID, &pkgName,
        &from, &to, &d.Status, &d.UserID); err != nil {
        return nil, err
    }
    if pkgID.Valid {
        id := uint64(pkgID.Int64)
        d.PackageID = &id
    }
    if pkgName.Valid {
        n := pkgName.String
        d.PackageName = &n
    }
    d.FromDate = booking.NormalizeDate(from).Format(booking.DateLayout)
    d.ToDate = booking.NormalizeDate(to).Format(booking.DateLayout)
    return &d, nil
}

// ListByUser returns all reservations made by a guest, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
    rows, err := r.db.QueryContext(ctx,
        detailQ+` WHERE r.user_id = ? ORDER BY r.created_at DESC`, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]ReservationDetail, 0)
    for rows.Next() {
        d, err := scanDetail(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, d.ReservationDetail)
    }
    return out, rows.Err()
}

// GetByIDForUser returns one reservation with details, enforcing that
// it belongs to the calling guest.  A reservation owned by another
// user yields ErrForbidden; a missing one ErrReservationNotFound.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, reservationID, userID uint64) (*ReservationDetail, error) {
    d, err := scanDetail(r.db.QueryRowContext(ctx, detailQ+` WHERE r.id = ?`, reservationID))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrReservationNotFound
    }
    if err != nil {
        return nil, err
    }
    if d.UserID != userID {
        return nil, ErrForbidden
    }
    return &d.ReservationDetail, nil
}

// CancelForUser marks a guest's reservation CANCELLED.  A stay that
// has already begun cannot be cancelled (ErrConflict); one already
// cancelled is treated the same way.  The freed dates drop out of all
// overlap queries immediately.
func (r *ReservationRepo) CancelForUser(ctx context.Context, reservationID, userID uint64) error {
    var ownerUserID uint64
    var from time.Time
    var status string
    err := r.db.QueryRowContext(ctx,
        `SELECT user_id, from_date, status FROM reservations WHERE id = ?`,
        reservationID).Scan(&ownerUserID, &from, &status)
    if errors.Is(err, sql.ErrNoRows) {
        return ErrReservationNotFound
    }
    if err != nil {
        return err
    }
    if ownerUserID != userID {
        return ErrForbidden
    }
    today := booking.NormalizeDate(time.Now())
    if status == model.ReservationCancelled || !booking.NormalizeDate(from).After(today) {
        return ErrConflict
    }
    _, err = r.db.ExecContext(ctx,
        `UPDATE reservations SET status = 'CANCELLED' WHERE id = ?`, reservationID)
    return err
}

// ListByResourceForOwner returns all reservations on a resource when
// accessed by its owner.  It verifies ownership first: a missing
// resource yields ErrResourceNotFound, somebody else's ErrForbidden.
func (r *ReservationRepo) ListByResourceForOwner(ctx context.Context, resourceID, ownerID uint64) ([]OwnerReservationDetail, error) {
    var actualOwnerID uint64
    err := r.db.QueryRowContext(ctx,
        `SELECT owner_id FROM resources WHERE id = ?`, resourceID).Scan(&actualOwnerID)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrResourceNotFound
    }
    if err != nil {
        return nil, err
    }
    if actualOwnerID != ownerID {
        return nil, ErrForbidden
    }
    rows, err := r.db.QueryContext(ctx,
        detailQ+` WHERE r.resource_id = ? ORDER BY r.from_date, r.id`, resourceID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]OwnerReservationDetail, 0)
    for rows.Next() {
        d, err := scanDetail(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *d)
    }
    return out, rows.Err()
}
