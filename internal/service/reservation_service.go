package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/facility-reservation/internal/model"
	"github.com/iliyamo/facility-reservation/internal/repository"
)

// FacilityDirectory supplies the facility attributes the booking path
// needs: existence, active flag and the current hourly rate.  The
// MySQL FacilityRepo implements it; tests substitute an in-memory fake.
type FacilityDirectory interface {
	GetActive(ctx context.Context, id uint64) (*model.Facility, error)
}

// ReservationStore is the durable store for reservation rows.  It is
// injected into the service so that no ambient database state leaks
// into the booking rules.
type ReservationStore interface {
	Create(ctx context.Context, r *model.Reservation) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	Update(ctx context.Context, r *model.Reservation) error
	UpdateStatus(ctx context.Context, id uint64, status string) error
	HasOverlap(ctx context.Context, facilityID uint64, start, end time.Time, excludeID uint64) (bool, error)
	ListAll(ctx context.Context) ([]*model.Reservation, error)
	ListByUser(ctx context.Context, userID uint64) ([]*model.Reservation, error)
	ListByFacility(ctx context.Context, facilityID uint64) ([]*model.Reservation, error)
	ListByRange(ctx context.Context, from, to time.Time) ([]*model.Reservation, error)
}

// facilityLocks hands out one mutex per facility id.  Create and
// Update hold the target facility's mutex across the availability
// check and the write, closing the race where two concurrent requests
// both observe a free slot before either commits.  Locks are never
// removed from the map; the set of facilities is small and stable.
type facilityLocks struct {
	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

func newFacilityLocks() *facilityLocks {
	return &facilityLocks{locks: make(map[uint64]*sync.Mutex)}
}

func (l *facilityLocks) forFacility(id uint64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// ReservationService validates booking requests, prices them and
// drives the reservation state machine.  All writes to the
// reservations table go through this service.
type ReservationService struct {
	facilities   FacilityDirectory
	reservations ReservationStore
	locks        *facilityLocks
	logger       *zap.Logger
}

// NewReservationService wires the service with its collaborators.
func NewReservationService(facilities FacilityDirectory, reservations ReservationStore, logger *zap.Logger) *ReservationService {
	if facilities == nil || reservations == nil {
		panic("nil dependency passed to NewReservationService")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReservationService{
		facilities:   facilities,
		reservations: reservations,
		locks:        newFacilityLocks(),
		logger:       logger,
	}
}

// validateInterval enforces the start < end precondition.  Zero
// timestamps count as missing.
func validateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return ErrInvalidInterval
	}
	return nil
}

// PriceCents computes the total price of an interval at the given
// hourly rate.  Duration is measured to the minute and converted to
// fractional hours, so 90 minutes at 10000 cents/hour yields 15000.
// Sub-cent remainders are rounded half up.
func PriceCents(hourlyRateCents int64, start, end time.Time) int64 {
	minutes := int64(end.Sub(start) / time.Minute)
	return (hourlyRateCents*minutes + 30) / 60
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStore, op, err)
}

// facility resolves an active facility, translating the repository
// sentinel into the service-level error kind.
func (s *ReservationService) facility(ctx context.Context, id uint64) (*model.Facility, error) {
	f, err := s.facilities.GetActive(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFacilityNotFound) {
			return nil, ErrFacilityNotFound
		}
		return nil, storeErr("get facility", err)
	}
	return f, nil
}

// Create books a facility for the half-open interval [start, end).
// The reservation is confirmed immediately; there is no approval step.
// The availability check and the insert run under the facility's
// mutex, so two overlapping concurrent requests cannot both succeed.
func (s *ReservationService) Create(ctx context.Context, facilityID, userID uint64, start, end time.Time, notes *string) (*model.Reservation, error) {
	if err := validateInterval(start, end); err != nil {
		return nil, err
	}
	fac, err := s.facility(ctx, facilityID)
	if err != nil {
		return nil, err
	}

	lock := s.locks.forFacility(facilityID)
	lock.Lock()
	defer lock.Unlock()

	overlap, err := s.reservations.HasOverlap(ctx, facilityID, start, end, 0)
	if err != nil {
		return nil, storeErr("overlap check", err)
	}
	if overlap {
		return nil, ErrSlotUnavailable
	}

	res := &model.Reservation{
		Reference:       uuid.NewString(),
		FacilityID:      facilityID,
		UserID:          userID,
		StartTime:       start.UTC(),
		EndTime:         end.UTC(),
		Notes:           notes,
		TotalPriceCents: PriceCents(fac.HourlyRateCents, start, end),
		Status:          model.StatusConfirmed,
	}
	if err := s.reservations.Create(ctx, res); err != nil {
		return nil, storeErr("create reservation", err)
	}

	s.logger.Info("reservation created",
		zap.Uint64("reservation_id", res.ID),
		zap.String("reference", res.Reference),
		zap.Uint64("facility_id", facilityID),
		zap.Uint64("user_id", userID),
		zap.Time("start", res.StartTime),
		zap.Time("end", res.EndTime),
		zap.Int64("total_price_cents", res.TotalPriceCents),
	)
	return res, nil
}

// Update rebooks an existing reservation onto a (possibly different)
// facility and interval.  The availability check excludes the
// reservation's own row, so shifting a booking by a few minutes within
// its own slot succeeds.  The price is recomputed from the target
// facility's current rate.
func (s *ReservationService) Update(ctx context.Context, reservationID, facilityID uint64, start, end time.Time, notes *string) (*model.Reservation, error) {
	res, err := s.get(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.Status == model.StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if err := validateInterval(start, end); err != nil {
		return nil, err
	}
	fac, err := s.facility(ctx, facilityID)
	if err != nil {
		return nil, err
	}

	// Serialize against writers on the target facility.  Moving a
	// reservation off its old facility only frees space there, so the
	// old facility's lock is not needed.
	lock := s.locks.forFacility(facilityID)
	lock.Lock()
	defer lock.Unlock()

	overlap, err := s.reservations.HasOverlap(ctx, facilityID, start, end, reservationID)
	if err != nil {
		return nil, storeErr("overlap check", err)
	}
	if overlap {
		return nil, ErrSlotUnavailable
	}

	res.FacilityID = facilityID
	res.StartTime = start.UTC()
	res.EndTime = end.UTC()
	res.Notes = notes
	res.TotalPriceCents = PriceCents(fac.HourlyRateCents, start, end)
	if err := s.reservations.Update(ctx, res); err != nil {
		return nil, storeErr("update reservation", err)
	}

	s.logger.Info("reservation updated",
		zap.Uint64("reservation_id", res.ID),
		zap.Uint64("facility_id", facilityID),
		zap.Time("start", res.StartTime),
		zap.Time("end", res.EndTime),
		zap.Int64("total_price_cents", res.TotalPriceCents),
	)
	return res, nil
}

// Cancel moves a reservation into the terminal CANCELLED state, which
// immediately removes it from conflict checks.  Cancelling an already
// cancelled reservation is a no-op success.  Other terminal states
// (COMPLETED, NO_SHOW) cannot be cancelled.
func (s *ReservationService) Cancel(ctx context.Context, reservationID uint64) error {
	res, err := s.get(ctx, reservationID)
	if err != nil {
		return err
	}
	if res.Status == model.StatusCancelled {
		return nil
	}
	if model.TerminalStatus(res.Status) {
		return ErrTerminalStatus
	}
	if err := s.reservations.UpdateStatus(ctx, reservationID, model.StatusCancelled); err != nil {
		return storeErr("cancel reservation", err)
	}
	s.logger.Info("reservation cancelled", zap.Uint64("reservation_id", reservationID))
	return nil
}

// SetStatus applies a state transition driven by an external caller,
// e.g. an admin marking a past reservation COMPLETED or NO_SHOW.  The
// state machine allows transitions out of PENDING/CONFIRMED only.
func (s *ReservationService) SetStatus(ctx context.Context, reservationID uint64, status string) (*model.Reservation, error) {
	if !model.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	res, err := s.get(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.Status == status {
		return res, nil
	}
	if model.TerminalStatus(res.Status) {
		return nil, ErrTerminalStatus
	}
	if err := s.reservations.UpdateStatus(ctx, reservationID, status); err != nil {
		return nil, storeErr("update status", err)
	}
	res.Status = status
	s.logger.Info("reservation status changed",
		zap.Uint64("reservation_id", reservationID),
		zap.String("status", status),
	)
	return res, nil
}

// GetAvailability reports whether the half-open interval [start, end)
// is free on the facility.  It is a read-only probe for callers such
// as a calendar UI; a true result is advisory and can be invalidated
// by a competing booking before the caller's own Create lands.
func (s *ReservationService) GetAvailability(ctx context.Context, facilityID uint64, start, end time.Time) (bool, error) {
	if err := validateInterval(start, end); err != nil {
		return false, err
	}
	if _, err := s.facility(ctx, facilityID); err != nil {
		return false, err
	}
	overlap, err := s.reservations.HasOverlap(ctx, facilityID, start, end, 0)
	if err != nil {
		return false, storeErr("overlap check", err)
	}
	return !overlap, nil
}

func (s *ReservationService) get(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, storeErr("get reservation", err)
	}
	return res, nil
}

// GetByID returns a reservation for display.  Access control (owner or
// admin) is enforced by the HTTP layer.
func (s *ReservationService) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	return s.get(ctx, id)
}

// ListAll returns every reservation, newest first.
func (s *ReservationService) ListAll(ctx context.Context) ([]*model.Reservation, error) {
	out, err := s.reservations.ListAll(ctx)
	if err != nil {
		return nil, storeErr("list reservations", err)
	}
	return out, nil
}

// ListByUser returns the reservations owned by a user, newest first.
func (s *ReservationService) ListByUser(ctx context.Context, userID uint64) ([]*model.Reservation, error) {
	out, err := s.reservations.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeErr("list reservations", err)
	}
	return out, nil
}

// ListByFacility returns all reservations on one facility, newest first.
func (s *ReservationService) ListByFacility(ctx context.Context, facilityID uint64) ([]*model.Reservation, error) {
	out, err := s.reservations.ListByFacility(ctx, facilityID)
	if err != nil {
		return nil, storeErr("list reservations", err)
	}
	return out, nil
}

// ListByRange returns reservations contained in [from, to], ordered by
// start time.
func (s *ReservationService) ListByRange(ctx context.Context, from, to time.Time) ([]*model.Reservation, error) {
	if err := validateInterval(from, to); err != nil {
		return nil, err
	}
	out, err := s.reservations.ListByRange(ctx, from, to)
	if err != nil {
		return nil, storeErr("list reservations", err)
	}
	return out, nil
}
