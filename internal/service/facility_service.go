package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/facility-reservation/internal/model"
	"github.com/iliyamo/facility-reservation/internal/repository"
)

// FacilityStore is the persistence surface for facility management.
// FacilityRepo implements it; tests use an in-memory fake.
type FacilityStore interface {
	FacilityDirectory
	ListActive(ctx context.Context) ([]*model.Facility, error)
	ListByType(ctx context.Context, typeID uint64) ([]*model.Facility, error)
	Create(ctx context.Context, f *model.Facility) error
	Update(ctx context.Context, f *model.Facility) error
	Deactivate(ctx context.Context, id uint64) error
	ListTypes(ctx context.Context) ([]model.FacilityType, error)
}

// FacilityService exposes the facility catalogue to booking callers
// and the management operations to administrators.  Deleting a
// facility only deactivates it; reservations keep their reference and
// their stored prices.
type FacilityService struct {
	store  FacilityStore
	logger *zap.Logger
}

// NewFacilityService wires the service with its store.
func NewFacilityService(store FacilityStore, logger *zap.Logger) *FacilityService {
	if store == nil {
		panic("nil store passed to NewFacilityService")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacilityService{store: store, logger: logger}
}

// validateFacility checks the admin payload before it reaches the store.
func validateFacility(f *model.Facility) error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(f.Address) == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidInput)
	}
	if f.Capacity == 0 {
		return fmt.Errorf("%w: capacity must be positive", ErrInvalidInput)
	}
	if f.HourlyRateCents < 0 {
		return fmt.Errorf("%w: hourly rate cannot be negative", ErrInvalidInput)
	}
	if f.TypeID == 0 {
		return fmt.Errorf("%w: type id is required", ErrInvalidInput)
	}
	return nil
}

// Get returns an active facility with its type and weekly schedule.
func (s *FacilityService) Get(ctx context.Context, id uint64) (*model.Facility, error) {
	f, err := s.store.GetActive(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFacilityNotFound) {
			return nil, ErrFacilityNotFound
		}
		return nil, storeErr("get facility", err)
	}
	return f, nil
}

// ListActive returns all bookable facilities.
func (s *FacilityService) ListActive(ctx context.Context) ([]*model.Facility, error) {
	out, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, storeErr("list facilities", err)
	}
	return out, nil
}

// ListByType returns active facilities of one type.
func (s *FacilityService) ListByType(ctx context.Context, typeID uint64) ([]*model.Facility, error) {
	out, err := s.store.ListByType(ctx, typeID)
	if err != nil {
		return nil, storeErr("list facilities", err)
	}
	return out, nil
}

// ListTypes returns the facility type catalogue.
func (s *FacilityService) ListTypes(ctx context.Context) ([]model.FacilityType, error) {
	out, err := s.store.ListTypes(ctx)
	if err != nil {
		return nil, storeErr("list facility types", err)
	}
	return out, nil
}

// Create registers a new facility.  New facilities are active and
// bookable immediately.
func (s *FacilityService) Create(ctx context.Context, f *model.Facility) (*model.Facility, error) {
	if err := validateFacility(f); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, f); err != nil {
		return nil, storeErr("create facility", err)
	}
	s.logger.Info("facility created",
		zap.Uint64("facility_id", f.ID),
		zap.String("name", f.Name),
		zap.Int64("hourly_rate_cents", f.HourlyRateCents),
	)
	return f, nil
}

// Update overwrites a facility's attributes.  Changing the hourly rate
// affects future bookings only: stored reservation prices are fixed at
// write time and never recomputed.
func (s *FacilityService) Update(ctx context.Context, f *model.Facility) (*model.Facility, error) {
	if err := validateFacility(f); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, f); err != nil {
		if errors.Is(err, repository.ErrFacilityNotFound) {
			return nil, ErrFacilityNotFound
		}
		return nil, storeErr("update facility", err)
	}
	s.logger.Info("facility updated", zap.Uint64("facility_id", f.ID))
	return s.Get(ctx, f.ID)
}

// Deactivate soft-deletes a facility so it stops appearing in the
// catalogue and rejects new bookings, while existing reservations
// remain valid.
func (s *FacilityService) Deactivate(ctx context.Context, id uint64) error {
	if err := s.store.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repository.ErrFacilityNotFound) {
			return ErrFacilityNotFound
		}
		return storeErr("deactivate facility", err)
	}
	s.logger.Info("facility deactivated", zap.Uint64("facility_id", id))
	return nil
}
