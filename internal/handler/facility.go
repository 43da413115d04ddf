package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/facility-reservation/internal/model"
	"github.com/iliyamo/facility-reservation/internal/service"
)

// FacilityHandler exposes the facility catalogue.  Reads are public;
// writes sit behind the admin route group.
type FacilityHandler struct {
	Facilities *service.FacilityService
}

func NewFacilityHandler(facilities *service.FacilityService) *FacilityHandler {
	if facilities == nil {
		panic("nil service passed to NewFacilityHandler")
	}
	return &FacilityHandler{Facilities: facilities}
}

type facilityReq struct {
	TypeID          uint64  `json:"type_id"`
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	Address         string  `json:"address"`
	PhoneNumber     *string `json:"phone_number"`
	Email           *string `json:"email"`
	Capacity        uint32  `json:"capacity"`
	HourlyRateCents int64   `json:"hourly_rate_cents"`
}

func (r facilityReq) toModel() *model.Facility {
	return &model.Facility{
		TypeID:          r.TypeID,
		Name:            r.Name,
		Description:     r.Description,
		Address:         r.Address,
		PhoneNumber:     r.PhoneNumber,
		Email:           r.Email,
		Capacity:        r.Capacity,
		HourlyRateCents: r.HourlyRateCents,
	}
}

// List handles GET /v1/facilities.  An optional type_id query filters
// by facility type.
func (h *FacilityHandler) List(c echo.Context) error {
	if raw := c.QueryParam("type_id"); raw != "" {
		typeID, err := parseUintParam(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid type_id"})
		}
		out, err := h.Facilities.ListByType(c.Request().Context(), typeID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(http.StatusOK, out)
	}
	out, err := h.Facilities.ListActive(c.Request().Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/facilities/:id.  Deactivated facilities answer
// 404, same as unknown ids.
func (h *FacilityHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid facility id"})
	}
	f, err := h.Facilities.Get(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

// ListTypes handles GET /v1/facility-types.
func (h *FacilityHandler) ListTypes(c echo.Context) error {
	out, err := h.Facilities.ListTypes(c.Request().Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /v1/facilities (admin).
func (h *FacilityHandler) Create(c echo.Context) error {
	var req facilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	f, err := h.Facilities.Create(c.Request().Context(), req.toModel())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, f)
}

// Update handles PUT /v1/facilities/:id (admin).
func (h *FacilityHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid facility id"})
	}
	var req facilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	f := req.toModel()
	f.ID = id
	out, err := h.Facilities.Update(c.Request().Context(), f)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /v1/facilities/:id (admin).  Facilities are
// soft-deleted so historical reservations keep their join target.
func (h *FacilityHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid facility id"})
	}
	if err := h.Facilities.Deactivate(c.Request().Context(), id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deactivated": id})
}
