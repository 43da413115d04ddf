package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/facility-reservation/internal/model"
)

// ErrFacilityNotFound is returned when a facility lookup fails or the
// facility has been soft-deleted.
var ErrFacilityNotFound = errors.New("facility not found")

// FacilityRepo provides methods to create and retrieve facilities and
// their weekly schedules.  Soft deletion is implemented by flipping
// is_active to false; rows are never removed while reservations
// reference them.
type FacilityRepo struct {
	db *sql.DB
}

// NewFacilityRepo constructs a FacilityRepo with the given DB handle.
func NewFacilityRepo(db *sql.DB) *FacilityRepo {
	return &FacilityRepo{db: db}
}

const facilityColumns = `f.id, f.type_id, f.name, f.description, f.address, f.phone_number, f.email,
       f.capacity, f.hourly_rate_cents, f.is_active, f.created_at, f.updated_at, t.name`

func scanFacility(row interface{ Scan(...any) error }) (*model.Facility, error) {
	var f model.Facility
	var desc, phone, email sql.NullString
	err := row.Scan(&f.ID, &f.TypeID, &f.Name, &desc, &f.Address, &phone, &email,
		&f.Capacity, &f.HourlyRateCents, &f.IsActive, &f.CreatedAt, &f.UpdatedAt, &f.TypeName)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		f.Description = &desc.String
	}
	if phone.Valid {
		f.PhoneNumber = &phone.String
	}
	if email.Valid {
		f.Email = &email.String
	}
	return &f, nil
}

// GetActive returns a facility by id when it exists and has not been
// soft-deleted.  Inactive facilities behave exactly like missing ones
// so that booking callers cannot reserve a retired facility.  The
// weekly schedule is loaded alongside the row.
func (r *FacilityRepo) GetActive(ctx context.Context, id uint64) (*model.Facility, error) {
	const q = `SELECT ` + facilityColumns + `
	           FROM facilities f
	           JOIN facility_types t ON t.id = f.type_id
	           WHERE f.id = ? AND f.is_active = 1`
	f, err := scanFacility(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}
	scheds, err := r.schedules(ctx, f.ID)
	if err != nil {
		return nil, err
	}
	f.Schedules = scheds
	return f, nil
}

// ListActive returns all bookable facilities with their type names,
// ordered by name.  Schedules are not loaded for lists.
func (r *FacilityRepo) ListActive(ctx context.Context) ([]*model.Facility, error) {
	const q = `SELECT ` + facilityColumns + `
	           FROM facilities f
	           JOIN facility_types t ON t.id = f.type_id
	           WHERE f.is_active = 1
	           ORDER BY f.name`
	return r.queryFacilities(ctx, q)
}

// ListByType returns active facilities of a single type.
func (r *FacilityRepo) ListByType(ctx context.Context, typeID uint64) ([]*model.Facility, error) {
	const q = `SELECT ` + facilityColumns + `
	           FROM facilities f
	           JOIN facility_types t ON t.id = f.type_id
	           WHERE f.type_id = ? AND f.is_active = 1
	           ORDER BY f.name`
	return r.queryFacilities(ctx, q, typeID)
}

func (r *FacilityRepo) queryFacilities(ctx context.Context, q string, args ...any) ([]*model.Facility, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Facility, 0)
	for rows.Next() {
		f, err := scanFacility(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Create inserts a new facility.  TypeID, Name, Address, Capacity and
// HourlyRateCents must be set.  After insert the row is read back so
// that timestamps and defaults are populated.
func (r *FacilityRepo) Create(ctx context.Context, f *model.Facility) error {
	const q = `INSERT INTO facilities (type_id, name, description, address, phone_number, email, capacity, hourly_rate_cents)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, f.TypeID, f.Name, f.Description, f.Address,
		f.PhoneNumber, f.Email, f.Capacity, f.HourlyRateCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	created, err := r.GetActive(ctx, f.ID)
	if err != nil {
		return err
	}
	*f = *created
	return nil
}

// Update overwrites the mutable columns of a facility.  It reports
// ErrFacilityNotFound when no active row matches.  Existing
// reservations keep their stored prices; a rate change only affects
// future bookings.
func (r *FacilityRepo) Update(ctx context.Context, f *model.Facility) error {
	const q = `UPDATE facilities
	           SET type_id = ?, name = ?, description = ?, address = ?, phone_number = ?, email = ?,
	               capacity = ?, hourly_rate_cents = ?, updated_at = ?
	           WHERE id = ? AND is_active = 1`
	res, err := r.db.ExecContext(ctx, q, f.TypeID, f.Name, f.Description, f.Address,
		f.PhoneNumber, f.Email, f.Capacity, f.HourlyRateCents, time.Now().UTC(), f.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Zero also means a no-op update on an existing row, so only
		// report not found when the row really is gone.
		if _, getErr := r.GetActive(ctx, f.ID); getErr != nil {
			return getErr
		}
	}
	return nil
}

// Deactivate soft-deletes a facility.  The row stays in place so that
// historical reservations keep a valid reference.
func (r *FacilityRepo) Deactivate(ctx context.Context, id uint64) error {
	const q = `UPDATE facilities SET is_active = 0, updated_at = ? WHERE id = ? AND is_active = 1`
	res, err := r.db.ExecContext(ctx, q, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrFacilityNotFound
	}
	return nil
}

// ListTypes returns all facility types ordered by id.
func (r *FacilityRepo) ListTypes(ctx context.Context) ([]model.FacilityType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description FROM facility_types ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.FacilityType, 0)
	for rows.Next() {
		var t model.FacilityType
		var desc sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &desc); err != nil {
			return nil, err
		}
		if desc.Valid {
			t.Description = &desc.String
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// schedules loads the weekly opening hours of a facility ordered by
// weekday.
func (r *FacilityRepo) schedules(ctx context.Context, facilityID uint64) ([]model.FacilitySchedule, error) {
	const q = `SELECT id, facility_id, day_of_week, open_time, close_time, is_closed
	           FROM facility_schedules
	           WHERE facility_id = ?
	           ORDER BY day_of_week`
	rows, err := r.db.QueryContext(ctx, q, facilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.FacilitySchedule, 0)
	for rows.Next() {
		var s model.FacilitySchedule
		if err := rows.Scan(&s.ID, &s.FacilityID, &s.DayOfWeek, &s.OpenTime, &s.CloseTime, &s.IsClosed); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
