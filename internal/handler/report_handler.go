package handler

import (
	"net/http"
	"time"

	"github.com/Eursukkul/canchas-booking/internal/middleware"
	"github.com/Eursukkul/canchas-booking/internal/service"
	"github.com/Eursukkul/canchas-booking/internal/session"
	"github.com/labstack/echo/v4"
)

type ReportHandler struct {
	svc service.ReportService
}

func NewReportHandler(svc service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) RegisterRoutes(api *echo.Group) {
	perm := middleware.RequirePermission(session.ModuleReports)

	api.GET("/reports/fields", h.FieldUsage, perm)
	api.GET("/reports/summary", h.Summary, perm)
	api.GET("/reports/daily-revenue", h.DailyRevenue, perm)
	api.GET("/reports/clients", h.ClientLoyalty, perm)
}

// dateRange reads the optional inclusive ?from= and ?to= dates.
func dateRange(c echo.Context) (from, to *time.Time, err error) {
	if from, err = queryDate(c, "from"); err != nil {
		return nil, nil, err
	}
	if to, err = queryDate(c, "to"); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func (h *ReportHandler) FieldUsage(c echo.Context) error {
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}

	usage, err := h.svc.FieldUsage(c.Request().Context(), from, to)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, usage)
}

func (h *ReportHandler) Summary(c echo.Context) error {
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}

	summary, err := h.svc.Summary(c.Request().Context(), from, to)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *ReportHandler) DailyRevenue(c echo.Context) error {
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}

	series, err := h.svc.DailyRevenue(c.Request().Context(), from, to)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, series)
}

func (h *ReportHandler) ClientLoyalty(c echo.Context) error {
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}

	loyalty, err := h.svc.ClientLoyalty(c.Request().Context(), from, to)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loyalty)
}
