package handler

import (
	"net/http"

	"github.com/Eursukkul/canchas-booking/internal/dto"
	"github.com/Eursukkul/canchas-booking/internal/middleware"
	"github.com/Eursukkul/canchas-booking/internal/models"
	"github.com/Eursukkul/canchas-booking/internal/service"
	"github.com/Eursukkul/canchas-booking/internal/session"
	"github.com/labstack/echo/v4"
)

type FieldHandler struct {
	types  service.FieldTypeService
	fields service.FieldService
	slots  service.SlotService
}

func NewFieldHandler(types service.FieldTypeService, fields service.FieldService, slots service.SlotService) *FieldHandler {
	return &FieldHandler{types: types, fields: fields, slots: slots}
}

func (h *FieldHandler) RegisterRoutes(api *echo.Group) {
	perm := middleware.RequirePermission(session.ModuleFields)

	api.GET("/field-types", h.ListFieldTypes, perm)
	api.POST("/field-types", h.CreateFieldType, perm)

	api.GET("/fields", h.ListFields, perm)
	api.POST("/fields", h.CreateField, perm)
	api.GET("/fields/:id", h.GetField, perm)
	api.PUT("/fields/:id", h.UpdateField, perm)
	api.DELETE("/fields/:id", h.DeleteField, perm)

	api.GET("/fields/:id/slots", h.ListSlots, perm)
	api.POST("/fields/:id/slots", h.CreateSlot, perm)
	api.DELETE("/fields/:id/slots/:slotId", h.DeleteSlot, perm)
}

func (h *FieldHandler) CreateFieldType(c echo.Context) error {
	var req dto.CreateFieldTypeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ft := &models.FieldType{Name: req.Name, HourlyPrice: req.HourlyPrice}
	if err := h.types.Create(c.Request().Context(), actorOf(c), ft); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, ft)
}

func (h *FieldHandler) ListFieldTypes(c echo.Context) error {
	types, err := h.types.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, types)
}

func (h *FieldHandler) CreateField(c echo.Context) error {
	var req dto.FieldRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	field, err := h.fields.Create(c.Request().Context(), actorOf(c), req.ToModel())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, field)
}

func (h *FieldHandler) ListFields(c echo.Context) error {
	onlyAvailable := c.QueryParam("available") == "true"

	fields, err := h.fields.List(c.Request().Context(), onlyAvailable)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, fields)
}

func (h *FieldHandler) GetField(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	field, err := h.fields.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, field)
}

func (h *FieldHandler) UpdateField(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.FieldRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	field := req.ToModel()
	field.ID = id
	updated, err := h.fields.Update(c.Request().Context(), actorOf(c), field)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *FieldHandler) DeleteField(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.fields.Delete(c.Request().Context(), actorOf(c), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FieldHandler) ListSlots(c echo.Context) error {
	fieldID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	slots, err := h.slots.List(c.Request().Context(), fieldID)
	if err != nil {
		return httpError(err)
	}

	resp := make([]dto.SlotResponse, len(slots))
	for i := range slots {
		resp[i] = dto.ToSlotResponse(&slots[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *FieldHandler) CreateSlot(c echo.Context) error {
	fieldID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.SlotRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	opening, err := models.ParseClock(req.Opening)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	closing, err := models.ParseClock(req.Closing)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	slot := &models.WeeklySlot{FieldID: fieldID, DayOfWeek: req.DayOfWeek, Opening: opening, Closing: closing}
	if err := h.slots.Create(c.Request().Context(), actorOf(c), slot); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToSlotResponse(slot))
}

func (h *FieldHandler) DeleteSlot(c echo.Context) error {
	fieldID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	slotID, err := parseID(c, "slotId")
	if err != nil {
		return err
	}

	if err := h.slots.Delete(c.Request().Context(), actorOf(c), fieldID, slotID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
