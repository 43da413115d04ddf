package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/facility-reservation/internal/model"
	"github.com/iliyamo/facility-reservation/internal/repository"
	"github.com/iliyamo/facility-reservation/internal/service"
)

// Minimal in-memory stores so handler tests run the real service
// underneath and exercise the full error translation chain.

type stubFacilities struct{}

func (stubFacilities) GetActive(_ context.Context, id uint64) (*model.Facility, error) {
	if id != 1 {
		return nil, repository.ErrFacilityNotFound
	}
	return &model.Facility{ID: 1, Name: "Court 1", HourlyRateCents: 10000, IsActive: true}, nil
}

type stubReservations struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]*model.Reservation
}

func newStubReservations() *stubReservations {
	return &stubReservations{rows: make(map[uint64]*model.Reservation)}
}

func (s *stubReservations) Create(_ context.Context, r *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r.ID = s.nextID
	cp := *r
	s.rows[r.ID] = &cp
	return nil
}

func (s *stubReservations) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *stubReservations) Update(_ context.Context, r *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.rows[r.ID] = &cp
	return nil
}

func (s *stubReservations) UpdateStatus(_ context.Context, id uint64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[id].Status = status
	return nil
}

func (s *stubReservations) HasOverlap(_ context.Context, facilityID uint64, start, end time.Time, excludeID uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.FacilityID != facilityID || r.ID == excludeID || !model.ConflictParticipating(r.Status) {
			continue
		}
		if r.StartTime.Before(end) && r.EndTime.After(start) {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubReservations) ListAll(_ context.Context) ([]*model.Reservation, error)  { return nil, nil }
func (s *stubReservations) ListByUser(_ context.Context, _ uint64) ([]*model.Reservation, error) {
	return nil, nil
}
func (s *stubReservations) ListByFacility(_ context.Context, _ uint64) ([]*model.Reservation, error) {
	return nil, nil
}
func (s *stubReservations) ListByRange(_ context.Context, _, _ time.Time) ([]*model.Reservation, error) {
	return nil, nil
}

func newTestHandler(t *testing.T) *ReservationHandler {
	t.Helper()
	svc := service.NewReservationService(stubFacilities{}, newStubReservations(), zap.NewNop())
	return NewReservationHandler(svc, nil)
}

func doJSON(e *echo.Echo, method, target, body string, userID uint64, role string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user_id", userID)
		c.Set("role", role)
	}
	return c, rec
}

func createBody(facilityID uint64, start, end string) string {
	return fmt.Sprintf(`{"facility_id":%d,"start_time":%q,"end_time":%q}`, facilityID, start, end)
}

const (
	slotStart = "2026-03-14T10:00:00Z"
	slotEnd   = "2026-03-14T11:30:00Z"
)

func TestCreateReturns201WithPrice(t *testing.T) {
	h := newTestHandler(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/v1/reservations", createBody(1, slotStart, slotEnd), 42, model.RoleMember)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var res model.Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, model.StatusConfirmed, res.Status)
	assert.Equal(t, int64(15000), res.TotalPriceCents)
	assert.NotEmpty(t, res.Reference)
}

func TestCreateConflictReturns409(t *testing.T) {
	h := newTestHandler(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/v1/reservations", createBody(1, slotStart, slotEnd), 42, model.RoleMember)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = doJSON(e, http.MethodPost, "/v1/reservations", createBody(1, slotStart, slotEnd), 7, model.RoleMember)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "not available")
}

func TestCreateInvalidIntervalReturns400(t *testing.T) {
	h := newTestHandler(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/v1/reservations", createBody(1, slotEnd, slotStart), 42, model.RoleMember)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateUnknownFacilityReturns404(t *testing.T) {
	h := newTestHandler(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/v1/reservations", createBody(99, slotStart, slotEnd), 42, model.RoleMember)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateWithoutIdentityReturns401(t *testing.T) {
	h := newTestHandler(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/v1/reservations", createBody(1, slotStart, slotEnd), 0, "")
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetForeignReservationReturns403(t *testing.T) {
	h := newTestHandler(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/v1/reservations", createBody(1, slotStart, slotEnd), 42, model.RoleMember)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = doJSON(e, http.MethodGet, "/v1/reservations/1", "", 7, model.RoleMember)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.GetByID(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admins can read anyone's booking.
	c, rec = doJSON(e, http.MethodGet, "/v1/reservations/1", "", 7, model.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.GetByID(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCancelTwiceReturns200(t *testing.T) {
	h := newTestHandler(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/v1/reservations", createBody(1, slotStart, slotEnd), 42, model.RoleMember)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	for i := 0; i < 2; i++ {
		c, rec = doJSON(e, http.MethodDelete, "/v1/reservations/1", "", 42, model.RoleMember)
		c.SetParamNames("id")
		c.SetParamValues("1")
		require.NoError(t, h.Cancel(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestCancelUnknownReturns404(t *testing.T) {
	h := newTestHandler(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodDelete, "/v1/reservations/5", "", 42, model.RoleMember)
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAvailabilityEndpoint(t *testing.T) {
	h := newTestHandler(t)
	e := echo.New()

	target := "/v1/availability?facility_id=1&start_time=" + slotStart + "&end_time=" + slotEnd
	c, rec := doJSON(e, http.MethodGet, target, "", 0, "")
	require.NoError(t, h.GetAvailability(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"available":true}`, rec.Body.String())

	c, rec = doJSON(e, http.MethodPost, "/v1/reservations", createBody(1, slotStart, slotEnd), 42, model.RoleMember)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = doJSON(e, http.MethodGet, target, "", 0, "")
	require.NoError(t, h.GetAvailability(c))
	assert.JSONEq(t, `{"available":false}`, rec.Body.String())

	c, rec = doJSON(e, http.MethodGet, "/v1/availability?facility_id=1&start_time=bogus&end_time="+slotEnd, "", 0, "")
	require.NoError(t, h.GetAvailability(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetStatusValidationReturns400(t *testing.T) {
	h := newTestHandler(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/v1/reservations", createBody(1, slotStart, slotEnd), 42, model.RoleMember)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = doJSON(e, http.MethodPatch, "/v1/reservations/1/status", `{"status":"BOGUS"}`, 1, model.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.SetStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = doJSON(e, http.MethodPatch, "/v1/reservations/1/status", `{"status":"COMPLETED"}`, 1, model.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.SetStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
