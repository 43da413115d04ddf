package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/facility-reservation/internal/model"
	"github.com/iliyamo/facility-reservation/internal/queue"
	"github.com/iliyamo/facility-reservation/internal/service"
)

// ReservationHandler exposes the booking endpoints.  Access rules
// follow the original system: members manage their own reservations,
// admins see and manage everything.  Domain events are published after
// a successful write on a best-effort basis; a broker outage never
// fails the request.
type ReservationHandler struct {
	Reservations *service.ReservationService
	Publisher    *queue.Publisher
}

// NewReservationHandler constructs the handler.  Publisher may be nil
// when no broker is configured.
func NewReservationHandler(reservations *service.ReservationService, publisher *queue.Publisher) *ReservationHandler {
	if reservations == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: reservations, Publisher: publisher}
}

type reservationReq struct {
	FacilityID uint64  `json:"facility_id"`
	StartTime  string  `json:"start_time"` // RFC3339
	EndTime    string  `json:"end_time"`   // RFC3339
	Notes      *string `json:"notes"`
}

// bindInterval parses the request body and its timestamps.
func bindInterval(c echo.Context) (reservationReq, time.Time, time.Time, bool) {
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return req, time.Time{}, time.Time{}, false
	}
	start, err1 := parseTimeParam(req.StartTime)
	end, err2 := parseTimeParam(req.EndTime)
	if req.FacilityID == 0 || err1 != nil || err2 != nil {
		return req, time.Time{}, time.Time{}, false
	}
	return req, start, end, true
}

// Create handles POST /v1/reservations.  Returns 201 with the created
// reservation, 404 when the facility is unknown or inactive, 409 when
// the slot conflicts with an existing booking.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	req, start, end, ok := bindInterval(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "facility_id, start_time and end_time are required"})
	}
	res, err := h.Reservations.Create(c.Request().Context(), req.FacilityID, userID, start, end, req.Notes)
	if err != nil {
		return serviceError(c, err)
	}
	if h.Publisher != nil {
		_ = h.Publisher.Publish(c.Request().Context(), queue.ReservationEventFrom(queue.KindConfirmed, res))
	}
	return c.JSON(http.StatusCreated, res)
}

// Update handles PUT /v1/reservations/:id.  Members may only rebook
// their own reservations; admins may rebook any.
func (h *ReservationHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	existing, err := h.Reservations.GetByID(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	if !isAdmin(c) && existing.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	req, start, end, ok := bindInterval(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "facility_id, start_time and end_time are required"})
	}
	res, err := h.Reservations.Update(c.Request().Context(), id, req.FacilityID, start, end, req.Notes)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Cancel handles DELETE /v1/reservations/:id.  Cancelling twice is a
// no-op success, so retried requests are safe.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	existing, err := h.Reservations.GetByID(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	if !isAdmin(c) && existing.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Reservations.Cancel(c.Request().Context(), id); err != nil {
		return serviceError(c, err)
	}
	if h.Publisher != nil {
		existing.Status = model.StatusCancelled
		_ = h.Publisher.Publish(c.Request().Context(), queue.ReservationEventFrom(queue.KindCancelled, existing))
	}
	return c.JSON(http.StatusOK, echo.Map{"cancelled": id})
}

// GetByID handles GET /v1/reservations/:id with owner-or-admin access.
func (h *ReservationHandler) GetByID(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Reservations.GetByID(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	if !isAdmin(c) && res.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, res)
}

// ListMine handles GET /v1/reservations/my.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	out, err := h.Reservations.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ListAll handles GET /v1/reservations (admin only; enforced by route
// middleware).
func (h *ReservationHandler) ListAll(c echo.Context) error {
	out, err := h.Reservations.ListAll(c.Request().Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ListByFacility handles GET /v1/facilities/:id/reservations (admin).
func (h *ReservationHandler) ListByFacility(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid facility id"})
	}
	out, err := h.Reservations.ListByFacility(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ListByRange handles GET /v1/reservations/range?from=&to= (admin).
func (h *ReservationHandler) ListByRange(c echo.Context) error {
	from, err1 := parseTimeParam(c.QueryParam("from"))
	to, err2 := parseTimeParam(c.QueryParam("to"))
	if err1 != nil || err2 != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from and to must be RFC3339 timestamps"})
	}
	out, err := h.Reservations.ListByRange(c.Request().Context(), from, to)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// SetStatus handles PATCH /v1/reservations/:id/status (admin).  It is
// the entry point for the externally driven COMPLETED and NO_SHOW
// transitions.
func (h *ReservationHandler) SetStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil || body.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
	}
	res, err := h.Reservations.SetStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// GetAvailability handles GET /v1/availability?facility_id=&start_time=&end_time=.
// It is public so that booking UIs can probe a calendar without a
// session.  The response is advisory; the authoritative check happens
// again inside Create under the facility lock.
func (h *ReservationHandler) GetAvailability(c echo.Context) error {
	facilityID, err := parseUintParam(c.QueryParam("facility_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid facility_id"})
	}
	start, err1 := parseTimeParam(c.QueryParam("start_time"))
	end, err2 := parseTimeParam(c.QueryParam("end_time"))
	if err1 != nil || err2 != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time and end_time must be RFC3339 timestamps"})
	}
	available, err := h.Reservations.GetAvailability(c.Request().Context(), facilityID, start, end)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"available": available})
}
