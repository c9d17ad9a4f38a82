package handler

import (
	"net/http"

	"github.com/Eursukkul/canchas-booking/internal/availability"
	"github.com/Eursukkul/canchas-booking/internal/dto"
	"github.com/Eursukkul/canchas-booking/internal/middleware"
	"github.com/Eursukkul/canchas-booking/internal/models"
	"github.com/Eursukkul/canchas-booking/internal/repository"
	"github.com/Eursukkul/canchas-booking/internal/service"
	"github.com/Eursukkul/canchas-booking/internal/session"
	"github.com/labstack/echo/v4"
)

type ReservationHandler struct {
	svc service.ReservationService
}

func NewReservationHandler(svc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

func (h *ReservationHandler) RegisterRoutes(api *echo.Group) {
	perm := middleware.RequirePermission(session.ModuleReservations)

	api.GET("/fields/:id/availability", h.CheckAvailability, perm)

	api.GET("/reservations", h.ListReservations, perm)
	api.POST("/reservations", h.CreateReservation, perm)
	api.GET("/reservations/:id", h.GetReservation, perm)
	api.PATCH("/reservations/:id/status", h.ChangeStatus, perm)
}

func parseInterval(date, start, end string) (availability.Query, error) {
	var q availability.Query
	var err error
	if q.Date, err = models.ParseDate(date); err != nil {
		return q, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if q.Start, err = models.ParseClock(start); err != nil {
		return q, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if q.End, err = models.ParseClock(end); err != nil {
		return q, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return q, nil
}

// CheckAvailability answers 200 whether or not the slot is free; a negative
// result carries the reason.
func (h *ReservationHandler) CheckAvailability(c echo.Context) error {
	fieldID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	q, err := parseInterval(c.QueryParam("date"), c.QueryParam("start"), c.QueryParam("end"))
	if err != nil {
		return err
	}
	q.FieldID = fieldID

	quote, err := h.svc.Quote(c.Request().Context(), q)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.AvailabilityResponse{
		FieldID:   fieldID,
		Date:      q.Date.Format(models.DateLayout),
		StartTime: q.Start.String(),
		EndTime:   q.End.String(),
		Available: quote.Available,
		Reason:    quote.Reason,
		Amount:    quote.Amount,
	})
}

func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	var req dto.CreateReservationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	q, err := parseInterval(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return err
	}

	reservation, err := h.svc.Create(c.Request().Context(), actorOf(c), service.CreateReservationInput{
		ClientID: req.ClientID,
		FieldID:  req.FieldID,
		Date:     q.Date,
		Start:    q.Start,
		End:      q.End,
		Status:   req.Status,
		Notes:    req.Notes,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToReservationResponse(reservation))
}

// ListReservations filters by ?q= (client name), field_id, client_id,
// status, from and to (inclusive dates).
func (h *ReservationHandler) ListReservations(c echo.Context) error {
	filter := repository.ReservationFilter{
		Search: c.QueryParam("q"),
		Status: models.ReservationStatus(c.QueryParam("status")),
	}
	var err error
	if filter.FieldID, err = queryUint(c, "field_id"); err != nil {
		return err
	}
	if filter.ClientID, err = queryUint(c, "client_id"); err != nil {
		return err
	}
	if filter.From, err = queryDate(c, "from"); err != nil {
		return err
	}
	if filter.To, err = queryDate(c, "to"); err != nil {
		return err
	}

	reservations, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}

	resp := make([]dto.ReservationResponse, len(reservations))
	for i := range reservations {
		resp[i] = dto.ToReservationResponse(&reservations[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ReservationHandler) GetReservation(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	reservation, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

func (h *ReservationHandler) ChangeStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ChangeStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	reservation, err := h.svc.ChangeStatus(c.Request().Context(), actorOf(c), id, req.Status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

