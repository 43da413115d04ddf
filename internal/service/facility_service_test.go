package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/facility-reservation/internal/model"
	"github.com/iliyamo/facility-reservation/internal/repository"
)

// memFacilityStore backs FacilityService tests; it extends the
// read-only memFacilities fake with management writes.
type memFacilityStore struct {
	memFacilities
	nextID uint64
}

func newMemFacilityStore() *memFacilityStore {
	return &memFacilityStore{memFacilities: memFacilities{byID: make(map[uint64]*model.Facility)}}
}

func (m *memFacilityStore) ListActive(_ context.Context) ([]*model.Facility, error) {
	var out []*model.Facility
	for _, f := range m.byID {
		if f.IsActive {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memFacilityStore) ListByType(_ context.Context, typeID uint64) ([]*model.Facility, error) {
	var out []*model.Facility
	for _, f := range m.byID {
		if f.IsActive && f.TypeID == typeID {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memFacilityStore) Create(_ context.Context, f *model.Facility) error {
	m.nextID++
	f.ID = m.nextID
	f.IsActive = true
	cp := *f
	m.byID[f.ID] = &cp
	return nil
}

func (m *memFacilityStore) Update(_ context.Context, f *model.Facility) error {
	cur, ok := m.byID[f.ID]
	if !ok || !cur.IsActive {
		return repository.ErrFacilityNotFound
	}
	cp := *f
	cp.IsActive = true
	m.byID[f.ID] = &cp
	return nil
}

func (m *memFacilityStore) Deactivate(_ context.Context, id uint64) error {
	f, ok := m.byID[id]
	if !ok || !f.IsActive {
		return repository.ErrFacilityNotFound
	}
	f.IsActive = false
	return nil
}

func (m *memFacilityStore) ListTypes(_ context.Context) ([]model.FacilityType, error) {
	return []model.FacilityType{{ID: 1, Name: "Tennis Court"}}, nil
}

func validCourt() *model.Facility {
	return &model.Facility{
		TypeID:          1,
		Name:            "Center Court",
		Address:         "1 Park Lane",
		Capacity:        4,
		HourlyRateCents: 12000,
	}
}

func TestFacilityCreateValidation(t *testing.T) {
	svc := NewFacilityService(newMemFacilityStore(), zap.NewNop())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*model.Facility)
	}{
		{"empty name", func(f *model.Facility) { f.Name = "  " }},
		{"empty address", func(f *model.Facility) { f.Address = "" }},
		{"zero capacity", func(f *model.Facility) { f.Capacity = 0 }},
		{"negative rate", func(f *model.Facility) { f.HourlyRateCents = -1 }},
		{"missing type", func(f *model.Facility) { f.TypeID = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validCourt()
			tc.mutate(f)
			_, err := svc.Create(ctx, f)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestFacilityLifecycle(t *testing.T) {
	store := newMemFacilityStore()
	svc := NewFacilityService(store, zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, validCourt())
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Center Court", got.Name)

	got.HourlyRateCents = 15000
	updated, err := svc.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), updated.HourlyRateCents)

	require.NoError(t, svc.Deactivate(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrFacilityNotFound, "deactivated facilities are gone from the catalogue")

	assert.ErrorIs(t, svc.Deactivate(ctx, created.ID), ErrFacilityNotFound)
}

func TestFacilityUpdateUnknown(t *testing.T) {
	svc := NewFacilityService(newMemFacilityStore(), zap.NewNop())

	f := validCourt()
	f.ID = 99
	_, err := svc.Update(context.Background(), f)
	assert.ErrorIs(t, err, ErrFacilityNotFound)
}

func TestFacilityListByType(t *testing.T) {
	store := newMemFacilityStore()
	svc := NewFacilityService(store, zap.NewNop())
	ctx := context.Background()

	a := validCourt()
	_, err := svc.Create(ctx, a)
	require.NoError(t, err)

	b := validCourt()
	b.Name = "Pool"
	b.TypeID = 2
	_, err = svc.Create(ctx, b)
	require.NoError(t, err)

	courts, err := svc.ListByType(ctx, 1)
	require.NoError(t, err)
	require.Len(t, courts, 1)
	assert.Equal(t, "Center Court", courts[0].Name)

	all, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
