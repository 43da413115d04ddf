package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/facility-reservation/internal/model"
)

// ErrReservationNotFound is returned when a reservation lookup fails.
var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepo provides data access to the reservations table.
// All timestamps are stored in UTC DATETIME columns; parseTime=true on
// the driver DSN converts them to time.Time on scan.  Rows are never
// deleted – cancellation flips the status column instead.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `r.id, r.reference, r.facility_id, r.user_id, r.start_time, r.end_time,
       r.notes, r.total_price_cents, r.status, r.created_at, r.updated_at, f.name`

// dbTime formats a timestamp the way MySQL DATETIME columns expect it.
func dbTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var r model.Reservation
	var notes sql.NullString
	err := row.Scan(&r.ID, &r.Reference, &r.FacilityID, &r.UserID, &r.StartTime, &r.EndTime,
		&notes, &r.TotalPriceCents, &r.Status, &r.CreatedAt, &r.UpdatedAt, &r.FacilityName)
	if err != nil {
		return nil, err
	}
	if notes.Valid {
		r.Notes = &notes.String
	}
	return &r, nil
}

// Create inserts a new reservation and reads the row back to populate
// the generated id, timestamps and the joined facility name.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations (reference, facility_id, user_id, start_time, end_time, notes, total_price_cents, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, res.Reference, res.FacilityID, res.UserID,
		dbTime(res.StartTime), dbTime(res.EndTime), res.Notes, res.TotalPriceCents, res.Status)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*res = *created
	return nil
}

// GetByID returns a single reservation with its facility name joined
// in.  ErrReservationNotFound is returned when no row matches.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + `
	           FROM reservations r
	           JOIN facilities f ON f.id = r.facility_id
	           WHERE r.id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// Update overwrites the rebookable columns of a reservation: facility,
// interval, notes and the recomputed price.  Status is not touched
// here; use UpdateStatus for state transitions.
func (r *ReservationRepo) Update(ctx context.Context, res *model.Reservation) error {
	const q = `UPDATE reservations
	           SET facility_id = ?, start_time = ?, end_time = ?, notes = ?, total_price_cents = ?, updated_at = ?
	           WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, res.FacilityID, dbTime(res.StartTime), dbTime(res.EndTime),
		res.Notes, res.TotalPriceCents, dbTime(time.Now()), res.ID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is also zero when the update is a no-op on an
		// existing row, so confirm absence before reporting not found.
		if _, getErr := r.GetByID(ctx, res.ID); getErr != nil {
			return getErr
		}
	}
	updated, err := r.GetByID(ctx, res.ID)
	if err != nil {
		return err
	}
	*res = *updated
	return nil
}

// UpdateStatus sets the status column of a reservation.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	const q = `UPDATE reservations SET status = ?, updated_at = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, status, dbTime(time.Now()), id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
	}
	return nil
}

// HasOverlap reports whether any reservation on the facility in a
// conflict-participating status (PENDING or CONFIRMED) overlaps the
// half-open interval [start, end).  Two intervals [s1,e1) and [s2,e2)
// overlap iff s1 < e2 AND s2 < e1, so a booking that ends exactly when
// another starts does not conflict.  excludeID omits one reservation
// from the comparison set; pass 0 when creating.
func (r *ReservationRepo) HasOverlap(ctx context.Context, facilityID uint64, start, end time.Time, excludeID uint64) (bool, error) {
	const q = `SELECT EXISTS (
	             SELECT 1 FROM reservations
	             WHERE facility_id = ?
	               AND id <> ?
	               AND status IN ('PENDING', 'CONFIRMED')
	               AND start_time < ?
	               AND end_time > ?
	           )`
	var overlap bool
	err := r.db.QueryRowContext(ctx, q, facilityID, excludeID, dbTime(end), dbTime(start)).Scan(&overlap)
	if err != nil {
		return false, err
	}
	return overlap, nil
}

// ListAll returns every reservation, newest first.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + `
	           FROM reservations r
	           JOIN facilities f ON f.id = r.facility_id
	           ORDER BY r.created_at DESC`
	return r.queryReservations(ctx, q)
}

// ListByUser returns a user's reservations, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + `
	           FROM reservations r
	           JOIN facilities f ON f.id = r.facility_id
	           WHERE r.user_id = ?
	           ORDER BY r.created_at DESC`
	return r.queryReservations(ctx, q, userID)
}

// ListByFacility returns all reservations on a facility, newest first.
func (r *ReservationRepo) ListByFacility(ctx context.Context, facilityID uint64) ([]*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + `
	           FROM reservations r
	           JOIN facilities f ON f.id = r.facility_id
	           WHERE r.facility_id = ?
	           ORDER BY r.created_at DESC`
	return r.queryReservations(ctx, q, facilityID)
}

// ListByRange returns reservations whose interval lies entirely inside
// [from, to], ordered by start time.  Used by the admin calendar view.
func (r *ReservationRepo) ListByRange(ctx context.Context, from, to time.Time) ([]*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + `
	           FROM reservations r
	           JOIN facilities f ON f.id = r.facility_id
	           WHERE r.start_time >= ? AND r.end_time <= ?
	           ORDER BY r.start_time`
	return r.queryReservations(ctx, q, dbTime(from), dbTime(to))
}

func (r *ReservationRepo) queryReservations(ctx context.Context, q string, args ...any) ([]*model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
